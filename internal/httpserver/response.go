package httpserver

import (
	"errors"
	"net/http"

	"webshop-api/internal/domain"

	"github.com/gin-gonic/gin"
)

func respondError(c *gin.Context, status int, message string) {
	c.JSON(status, gin.H{"error": message})
}

// respondServiceError maps domain errors onto HTTP statuses; anything
// unrecognized is a 500 with a generic body so internals do not leak.
func respondServiceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		respondError(c, http.StatusNotFound, "not found")
	case errors.Is(err, domain.ErrAlreadyExists):
		respondError(c, http.StatusConflict, "already exists")
	case errors.Is(err, domain.ErrInsufficientStock):
		respondError(c, http.StatusConflict, "insufficient stock")
	default:
		respondError(c, http.StatusInternalServerError, "internal error")
	}
}
