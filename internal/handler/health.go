package handler

import (
	"context"
	"net/http"
	"time"

	"realestate/internal/service"

	"github.com/gin-gonic/gin"
)

// Pinger reports whether the backing store is reachable
type Pinger interface {
	Ping(ctx context.Context) error
}

// BuildInfo identifies the running binary
type BuildInfo struct {
	Version   string `json:"version"`
	BuildTime string `json:"build_time"`
	GitCommit string `json:"git_commit"`
}

// HealthHandler serves the unauthenticated health and version endpoints
type HealthHandler struct {
	store    Pinger
	sessions *service.SessionManager
	build    BuildInfo
	timeout  time.Duration
}

// NewHealthHandler creates a new health handler
func NewHealthHandler(store Pinger, sessions *service.SessionManager, build BuildInfo) *HealthHandler {
	return &HealthHandler{store: store, sessions: sessions, build: build, timeout: 2 * time.Second}
}

// Health handles GET /health
func (h *HealthHandler) Health(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), h.timeout)
	defer cancel()

	status, code, database := "healthy", http.StatusOK, "ok"
	if err := h.store.Ping(ctx); err != nil {
		status, code, database = "unhealthy", http.StatusServiceUnavailable, err.Error()
	}

	c.JSON(code, gin.H{
		"status":     status,
		"service":    "realestate-assistant",
		"database":   database,
		"version":    h.build.Version,
		"build_time": h.build.BuildTime,
		"git_commit": h.build.GitCommit,
		"sessions":   h.sessions.Count(),
	})
}

// Version handles GET /version
func (h *HealthHandler) Version(c *gin.Context) {
	c.JSON(http.StatusOK, h.build)
}
