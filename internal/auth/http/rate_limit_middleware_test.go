package http

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"golang.org/x/time/rate"

	authDomain "github.com/allisson/apikeys/internal/auth/domain"
	"github.com/allisson/apikeys/internal/httputil"
)

func withOwner(owner *authDomain.Owner) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Request = c.Request.WithContext(WithOwner(c.Request.Context(), owner))
		c.Next()
	}
}

func TestRateLimitMiddleware(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	limiter := httputil.NewKeyedLimiter(ctx, rate.Limit(0.001), 2)
	ownerA := &authDomain.Owner{ID: uuid.New()}
	ownerB := &authDomain.Owner{ID: uuid.New()}

	serve := func(owner *authDomain.Owner) *httptest.ResponseRecorder {
		router := gin.New()
		if owner != nil {
			router.Use(withOwner(owner))
		}
		router.Use(RateLimitMiddleware(limiter, newTestLogger()))
		router.GET("/v1/api-keys", func(c *gin.Context) { c.Status(http.StatusOK) })

		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/v1/api-keys", nil))
		return w
	}

	assert.Equal(t, http.StatusOK, serve(ownerA).Code)
	assert.Equal(t, http.StatusOK, serve(ownerA).Code)

	w := serve(ownerA)
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.NotEmpty(t, w.Header().Get("Retry-After"))

	assert.Equal(t, http.StatusOK, serve(ownerB).Code)
	assert.Equal(t, http.StatusUnauthorized, serve(nil).Code)
}

func TestTokenRateLimitMiddleware(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	limiter := httputil.NewKeyedLimiter(ctx, rate.Limit(0.001), 1)
	router := gin.New()
	router.POST("/v1/token", TokenRateLimitMiddleware(limiter, newTestLogger()), func(c *gin.Context) {
		c.Status(http.StatusCreated)
	})

	serve := func(remoteAddr string) int {
		req := httptest.NewRequest(http.MethodPost, "/v1/token", nil)
		req.RemoteAddr = remoteAddr
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		return w.Code
	}

	assert.Equal(t, http.StatusCreated, serve("10.0.0.1:1234"))
	assert.Equal(t, http.StatusTooManyRequests, serve("10.0.0.1:1234"))
	assert.Equal(t, http.StatusCreated, serve("10.0.0.2:1234"))
}
