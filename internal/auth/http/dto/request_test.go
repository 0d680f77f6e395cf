package dto

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestIssueTokenRequest_Validate(t *testing.T) {
	ownerID := uuid.NewString()

	tests := []struct {
		name    string
		req     IssueTokenRequest
		wantErr bool
	}{
		{name: "valid", req: IssueTokenRequest{OwnerID: ownerID, OwnerSecret: "secret"}},
		{name: "missing owner id", req: IssueTokenRequest{OwnerSecret: "secret"}, wantErr: true},
		{name: "invalid owner id", req: IssueTokenRequest{OwnerID: "abc", OwnerSecret: "secret"}, wantErr: true},
		{name: "missing secret", req: IssueTokenRequest{OwnerID: ownerID}, wantErr: true},
		{name: "blank secret", req: IssueTokenRequest{OwnerID: ownerID, OwnerSecret: "   "}, wantErr: true},
		{name: "secret with trailing newline", req: IssueTokenRequest{OwnerID: ownerID, OwnerSecret: "secret\n"}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.req.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
