package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/pseudocoder/relay/internal/models"
)

// RespondError sends the relay's uniform error body and stops the chain
func RespondError(c *gin.Context, status int, message string) {
	c.AbortWithStatusJSON(status, models.ErrorResult{Error: message})
}

// BadRequest sends a 400 error
func BadRequest(c *gin.Context, message string) {
	RespondError(c, http.StatusBadRequest, message)
}

// InternalError sends a 500 error
func InternalError(c *gin.Context, message string) {
	RespondError(c, http.StatusInternalServerError, message)
}
