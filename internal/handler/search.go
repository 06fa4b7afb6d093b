package handler

import (
	"net/http"

	"realestate/internal/model"
	"realestate/internal/service"

	"github.com/gin-gonic/gin"
)

// CatalogHandler handles listing and search HTTP requests
type CatalogHandler struct {
	catalog *service.Catalog
}

// NewCatalogHandler creates a new catalog handler
func NewCatalogHandler(catalog *service.Catalog) *CatalogHandler {
	return &CatalogHandler{catalog: catalog}
}

// Listings handles GET /api/v1/listings
func (h *CatalogHandler) Listings(c *gin.Context) {
	response, err := h.catalog.Listings(c.Query("mode"))
	if err != nil {
		respondError(c, err, "Invalid listing mode")
		return
	}
	c.JSON(http.StatusOK, response)
}

// Submit handles POST /api/v1/listings
func (h *CatalogHandler) Submit(c *gin.Context) {
	p, ok := currentPrincipal(c)
	if !ok {
		return
	}

	var req model.SellPropertyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}

	response, err := h.catalog.Submit(p.ID, &req)
	if err != nil {
		respondError(c, err, "Failed to submit property")
		return
	}
	c.JSON(http.StatusCreated, response)
}

// Search handles GET /api/v1/search
func (h *CatalogHandler) Search(c *gin.Context) {
	p, ok := currentPrincipal(c)
	if !ok {
		return
	}

	response, err := h.catalog.Search(c.Request.Context(), p.ID, c.Query("q"))
	if err != nil {
		respondError(c, err, "Search failed")
		return
	}
	c.JSON(http.StatusOK, response)
}

// Filter handles GET /api/v1/search/filter
func (h *CatalogHandler) Filter(c *gin.Context) {
	c.JSON(http.StatusOK, h.catalog.Filter(c.Query("q")))
}

// History handles GET /api/v1/search/history
func (h *CatalogHandler) History(c *gin.Context) {
	p, ok := currentPrincipal(c)
	if !ok {
		return
	}

	items, err := h.catalog.History(c.Request.Context(), p.ID)
	if err != nil {
		respondError(c, err, "Failed to load search history")
		return
	}
	c.JSON(http.StatusOK, gin.H{"history": items, "total": len(items)})
}
