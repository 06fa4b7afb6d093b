package handler

import (
	"net/http"

	"realestate/internal/model"
	"realestate/internal/service"

	"github.com/gin-gonic/gin"
)

// ProfileHandler handles the profile screen
type ProfileHandler struct {
	profiles *service.ProfileService
}

// NewProfileHandler creates a new profile handler
func NewProfileHandler(profiles *service.ProfileService) *ProfileHandler {
	return &ProfileHandler{profiles: profiles}
}

// Get handles GET /api/v1/profile
func (h *ProfileHandler) Get(c *gin.Context) {
	p, ok := currentPrincipal(c)
	if !ok {
		return
	}

	profile, err := h.profiles.Get(c.Request.Context(), p)
	if err != nil {
		respondError(c, err, "Failed to load profile")
		return
	}
	c.JSON(http.StatusOK, profile)
}

// Update handles PUT /api/v1/profile
func (h *ProfileHandler) Update(c *gin.Context) {
	p, ok := currentPrincipal(c)
	if !ok {
		return
	}

	var req model.UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}

	response, err := h.profiles.Update(c.Request.Context(), p, &req)
	if err != nil {
		respondError(c, err, "Failed to update profile")
		return
	}
	c.JSON(http.StatusOK, response)
}

// FAQ handles GET /api/v1/help/faq
func (h *ProfileHandler) FAQ(c *gin.Context) {
	items := h.profiles.FAQ()
	c.JSON(http.StatusOK, gin.H{"faq": items, "total": len(items)})
}

// IncrementStat handles POST /api/v1/profile/stats/:name/increment
func (h *ProfileHandler) IncrementStat(c *gin.Context) {
	p, ok := currentPrincipal(c)
	if !ok {
		return
	}

	stat, err := h.profiles.Increment(c.Request.Context(), p.ID, c.Param("name"))
	if err != nil {
		respondError(c, err, "Failed to update statistic")
		return
	}
	c.JSON(http.StatusOK, stat)
}
