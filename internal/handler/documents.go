package handler

import (
	"net/http"
	"strings"

	"realestate/internal/model"
	"realestate/internal/service"

	"github.com/gin-gonic/gin"
)

// DocumentHandler handles the documents manager
type DocumentHandler struct {
	documents *service.DocumentService
}

// NewDocumentHandler creates a new document handler
func NewDocumentHandler(documents *service.DocumentService) *DocumentHandler {
	return &DocumentHandler{documents: documents}
}

// List handles GET /api/v1/documents
func (h *DocumentHandler) List(c *gin.Context) {
	p, ok := currentPrincipal(c)
	if !ok {
		return
	}

	response, err := h.documents.List(c.Request.Context(), p.ID)
	if err != nil {
		respondError(c, err, "Failed to list documents")
		return
	}
	c.JSON(http.StatusOK, response)
}

// Upload handles POST /api/v1/documents. Multipart requests take the name
// and size from the "file" part; its content is discarded.
func (h *DocumentHandler) Upload(c *gin.Context) {
	p, ok := currentPrincipal(c)
	if !ok {
		return
	}

	var req model.UploadDocumentRequest
	if strings.HasPrefix(c.ContentType(), "multipart/") {
		if err := c.ShouldBind(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
			return
		}
		if file, err := c.FormFile("file"); err == nil {
			req.FileName = file.Filename
			req.Size = file.Size
		}
	} else if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}

	result, err := h.documents.Upload(c.Request.Context(), p.ID, &req)
	if err != nil {
		respondError(c, err, "Upload failed")
		return
	}
	c.JSON(http.StatusCreated, result)
}
