package middleware

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"

	"github.com/syl2042/contentmaestro/internal/auth"
	"github.com/syl2042/contentmaestro/internal/logging"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func TestRequestIDMiddleware(t *testing.T) {
	var buf bytes.Buffer
	log := zerolog.New(&buf)

	r := gin.New()
	r.Use(RequestIDMiddleware(log))
	r.GET("/x", func(c *gin.Context) {
		c.String(http.StatusOK, logging.RequestID(c.Request.Context()))
	})

	req := httptest.NewRequest(http.MethodGet, "/x", nil)
	req.Header.Set(HeaderRequestID, "rid-123")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, "rid-123", w.Body.String())
	assert.Equal(t, "rid-123", w.Header().Get(HeaderRequestID))
	assert.Contains(t, buf.String(), `"request_id":"rid-123"`)
	assert.Contains(t, buf.String(), `"status":200`)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/x", nil))
	assert.Len(t, w.Header().Get(HeaderRequestID), 36)
	assert.Equal(t, w.Header().Get(HeaderRequestID), w.Body.String())
}

func TestRateLimiter(t *testing.T) {
	rl := NewRateLimiter(1, 2)
	fixed := time.Date(2026, 10, 15, 12, 0, 0, 0, time.UTC)
	rl.now = func() time.Time { return fixed }

	r := gin.New()
	r.Use(auth.OptionalUser(), rl.Middleware())
	ok := func(c *gin.Context) { c.Status(http.StatusNoContent) }
	r.GET("/p", ok)
	r.POST("/p", ok)

	do := func(method, user string) int {
		req := httptest.NewRequest(method, "/p", nil)
		req.Header.Set("X-User-Id", user)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		return w.Code
	}

	assert.Equal(t, http.StatusNoContent, do(http.MethodPost, "u1"))
	assert.Equal(t, http.StatusNoContent, do(http.MethodPost, "u1"))
	assert.Equal(t, http.StatusTooManyRequests, do(http.MethodPost, "u1"))
	assert.Equal(t, http.StatusNoContent, do(http.MethodGet, "u1"))
	assert.Equal(t, http.StatusNoContent, do(http.MethodPost, "u2"))

	fixed = fixed.Add(time.Second)
	assert.Equal(t, http.StatusNoContent, do(http.MethodPost, "u1"))

	fixed = fixed.Add(time.Hour)
	assert.Equal(t, 2, rl.Prune(time.Minute))
}
