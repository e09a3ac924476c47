package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"

	"github.com/Mangarao/aarohi-tms/internal/service"
)

// MessageResponse is the error/info payload shape the front end expects.
type MessageResponse struct {
	Message string `json:"message"`
}

// respondError maps service errors onto HTTP statuses. Validation failures
// keep their message; unexpected errors are logged and masked.
func respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrNotFound):
		c.JSON(http.StatusNotFound, MessageResponse{Message: "Not found"})
	case errors.Is(err, service.ErrForbidden):
		c.JSON(http.StatusForbidden, MessageResponse{Message: "Operation not permitted"})
	case errors.Is(err, service.ErrInvalidCredentials):
		c.JSON(http.StatusBadRequest, MessageResponse{Message: "Error: Invalid username or password"})
	case service.IsValidation(err):
		c.JSON(http.StatusBadRequest, MessageResponse{Message: "Error: " + err.Error()})
	default:
		log.WithError(err).Error("request failed")
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, MessageResponse{Message: "Internal server error"})
	}
}
