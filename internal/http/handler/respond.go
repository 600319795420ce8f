package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"cinehub/internal/apperror"
)

// respondError maps service/repository errors onto HTTP statuses.
// Every error surfaced to a client carries an apperror sentinel;
// anything else stays internal and becomes a generic 500.
func respondError(c *gin.Context, err error) {
	var appErr *apperror.AppError
	if errors.As(err, &appErr) {
		switch {
		case errors.Is(appErr, apperror.ErrValidation):
			c.JSON(http.StatusBadRequest, gin.H{"error": appErr.Message, "field": appErr.Field})
			return
		case errors.Is(appErr, apperror.ErrConflict):
			c.JSON(http.StatusConflict, gin.H{"error": appErr.Message})
			return
		case errors.Is(appErr, apperror.ErrUnauthorized):
			c.JSON(http.StatusUnauthorized, gin.H{"error": appErr.Message})
			return
		}
	}

	c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
}
