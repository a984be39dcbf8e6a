package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHealthCheck(t *testing.T) {
	gin.SetMode(gin.TestMode)

	up := PingFunc(func(context.Context) error { return nil })
	down := PingFunc(func(context.Context) error { return errors.New("refused") })

	tests := []struct {
		name   string
		db     Pinger
		redis  Pinger
		status string
		dbStat string
		rdStat string
	}{
		{"all up", up, up, "healthy", "up", "up"},
		{"db down", down, up, "degraded", "down", "up"},
		{"nothing configured", nil, nil, "healthy", "disabled", "disabled"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := gin.New()
			NewHealthHandler("contentmaestro", "1.2.3", tt.db, tt.redis).RegisterRoutes(r)

			for _, path := range []string{"/health", "/healthz"} {
				w := httptest.NewRecorder()
				r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
				require.Equal(t, http.StatusOK, w.Code)

				var resp HealthResponse
				require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
				assert.Equal(t, tt.status, resp.Status)
				assert.Equal(t, tt.dbStat, resp.DB)
				assert.Equal(t, tt.rdStat, resp.Redis)
				assert.Equal(t, "1.2.3", resp.Version)
			}
		})
	}
}
