package handler

import (
	"net/http"

	"realestate/internal/model"
	"realestate/internal/service"

	"github.com/gin-gonic/gin"
)

// SettingsHandler handles the settings screen
type SettingsHandler struct {
	settings *service.SettingsService
}

// NewSettingsHandler creates a new settings handler
func NewSettingsHandler(settings *service.SettingsService) *SettingsHandler {
	return &SettingsHandler{settings: settings}
}

// Get handles GET /api/v1/settings
func (h *SettingsHandler) Get(c *gin.Context) {
	p, ok := currentPrincipal(c)
	if !ok {
		return
	}

	settings, err := h.settings.Get(c.Request.Context(), p.ID)
	if err != nil {
		respondError(c, err, "Failed to load settings")
		return
	}
	c.JSON(http.StatusOK, settings)
}

// Update handles PUT /api/v1/settings/:name
func (h *SettingsHandler) Update(c *gin.Context) {
	p, ok := currentPrincipal(c)
	if !ok {
		return
	}

	var req model.UpdateSettingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}

	response, err := h.settings.Set(c.Request.Context(), p.ID, c.Param("name"), *req.Enabled)
	if err != nil {
		respondError(c, err, "Failed to update setting")
		return
	}
	c.JSON(http.StatusOK, response)
}
