package handler

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"realestate/internal/repository"
	"realestate/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type pingFunc func(ctx context.Context) error

func (f pingFunc) Ping(ctx context.Context) error { return f(ctx) }

func TestHealth(t *testing.T) {
	gin.SetMode(gin.TestMode)
	sessions := service.NewSessionManager(service.SessionConfig{MaxSessions: 1}, nil)
	t.Cleanup(sessions.Shutdown)
	build := BuildInfo{Version: "1.2.3", BuildTime: "today", GitCommit: "abc"}

	tests := []struct {
		name     string
		store    Pinger
		code     int
		status   string
		database string
	}{
		{"memory store", repository.NewMemoryRepository(), http.StatusOK, "healthy", "ok"},
		{
			"database down",
			pingFunc(func(context.Context) error { return errors.New("connection refused") }),
			http.StatusServiceUnavailable, "unhealthy", "connection refused",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewHealthHandler(tt.store, sessions, build)
			router := gin.New()
			router.GET("/health", h.Health)
			router.GET("/version", h.Version)

			w := httptest.NewRecorder()
			router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
			require.Equal(t, tt.code, w.Code)
			body := decode[map[string]any](t, w)
			assert.Equal(t, tt.status, body["status"])
			assert.Equal(t, tt.database, body["database"])
			assert.Equal(t, "1.2.3", body["version"])
			assert.EqualValues(t, 0, body["sessions"])

			w = httptest.NewRecorder()
			router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/version", nil))
			assert.Equal(t, build, decode[BuildInfo](t, w))
		})
	}
}
