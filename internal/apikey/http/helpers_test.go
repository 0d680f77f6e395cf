package http

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	apikeyDomain "github.com/allisson/apikeys/internal/apikey/domain"
	authDomain "github.com/allisson/apikeys/internal/auth/domain"
	authHTTP "github.com/allisson/apikeys/internal/auth/http"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func withOwner(ownerID uuid.UUID) gin.HandlerFunc {
	return func(c *gin.Context) {
		owner := &authDomain.Owner{ID: ownerID, Name: "acme", IsActive: true}
		c.Request = c.Request.WithContext(authHTTP.WithOwner(c.Request.Context(), owner))
		c.Next()
	}
}

func newTestAPIKey(ownerID uuid.UUID, name string) *apikeyDomain.APIKey {
	now := time.Now().UTC()
	return &apikeyDomain.APIKey{
		ID:           uuid.Must(uuid.NewV7()),
		OwnerID:      ownerID,
		Name:         name,
		SecretHash:   "$argon2id$secret-hash",
		LookupPrefix: "sk_live_abcd",
		IsActive:     true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

func doRequest(t *testing.T, router *gin.Engine, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	switch v := body.(type) {
	case nil:
	case string:
		reader = bytes.NewReader([]byte(v))
	default:
		payload, err := json.Marshal(v)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	}

	req := httptest.NewRequest(method, path, reader)
	if reader != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v))
	return v
}

// recorderStub collects recorded access logs.
type recorderStub struct {
	mu      sync.Mutex
	entries []*apikeyDomain.AccessLog
}

func (r *recorderStub) Record(entry *apikeyDomain.AccessLog) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries = append(r.entries, entry)
}

func (r *recorderStub) Entries() []*apikeyDomain.AccessLog {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]*apikeyDomain.AccessLog(nil), r.entries...)
}

