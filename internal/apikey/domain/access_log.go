package domain

import (
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
)

// MaxEndpointLength is the width, in characters, of the stored endpoint column.
const MaxEndpointLength = 2048

// AccessLog records one request authenticated with an API key.
type AccessLog struct {
	ID           uuid.UUID
	APIKeyID     uuid.UUID
	OwnerID      uuid.UUID
	Endpoint     string
	Method       string
	IPAddress    string
	UserAgent    string
	StatusCode   int
	ResponseTime time.Duration // Persisted as milliseconds
	CreatedAt    time.Time
}

// ResponseTimeMillis returns the response time truncated to whole milliseconds.
func (a *AccessLog) ResponseTimeMillis() int64 {
	return a.ResponseTime.Milliseconds()
}

// StorableText drops invalid UTF-8 from s and cuts it to at most maxChars characters.
func StorableText(s string, maxChars int) string {
	s = strings.ToValidUTF8(s, "")
	if utf8.RuneCountInString(s) <= maxChars {
		return s
	}
	return string([]rune(s)[:maxChars])
}
