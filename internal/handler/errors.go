package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"realestate/internal/middleware"
	"realestate/internal/model"
	"realestate/internal/service"

	"github.com/gin-gonic/gin"
)

var badRequestErrors = []error{
	service.ErrInvalidOption,
	service.ErrSelectionRequired,
	service.ErrUnknownDocumentType,
	service.ErrUnknownSetting,
	service.ErrUnknownStatistic,
	service.ErrUnknownMode,
	service.ErrInvalidInput,
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, service.ErrSessionNotFound):
		return http.StatusNotFound
	case errors.Is(err, service.ErrTooManySessions):
		return http.StatusTooManyRequests
	case errors.Is(err, service.ErrOnboardingComplete):
		return http.StatusConflict
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return http.StatusRequestTimeout
	}
	for _, target := range badRequestErrors {
		if errors.Is(err, target) {
			return http.StatusBadRequest
		}
	}
	return http.StatusInternalServerError
}

// respondError writes the error body with the status matching err
func respondError(c *gin.Context, err error, msg string) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		slog.Error(msg, "path", c.FullPath(), "error", err)
	}
	body := gin.H{"error": msg + ": " + err.Error()}
	var verr *service.ValidationError
	if errors.As(err, &verr) {
		body["fields"] = verr.Fields
	}
	c.JSON(status, body)
}

// currentPrincipal returns the signed-in user or writes a 401
func currentPrincipal(c *gin.Context) (*model.Principal, bool) {
	p, ok := middleware.PrincipalFrom(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Not signed in"})
	}
	return p, ok
}
