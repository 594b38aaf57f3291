package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/rotadominios/vps-agent/internal/services"
)

// fail converts any service error into the uniform failure envelope.
// Every handler routes its errors through here so the taxonomy maps to
// status codes in exactly one place.
func fail(c *gin.Context, err error) {
	var notAllowed *services.CommandNotAllowedError
	var execErr *services.ExecError

	switch {
	case errors.Is(err, services.ErrCommandRequired):
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error":   err.Error(),
		})
	case errors.As(err, &notAllowed):
		c.JSON(http.StatusForbidden, gin.H{
			"success": false,
			"error":   notAllowed.Error(),
		})
	case errors.As(err, &execErr):
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error":   execErr.Message,
			"details": execErr.Result,
		})
	default:
		// File writes, permissions, and anything else unexpected.
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error":   err.Error(),
		})
	}
}
