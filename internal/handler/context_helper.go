package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/openlearn/lms-extension-api/internal/middleware"
	"github.com/openlearn/lms-extension-api/internal/models"
)

func claimsFromContext(c *gin.Context) *models.JWTClaims {
	value, exists := c.Get(middleware.ContextUserKey)
	if !exists {
		return nil
	}
	claims, ok := value.(*models.JWTClaims)
	if !ok {
		return nil
	}
	return claims
}

// canActFor reports whether the caller may read data scoped to the target
// username. Staff and API-key callers may act for anyone; everyone else only
// for themselves.
func canActFor(c *gin.Context, username string) bool {
	if middleware.IsPrivileged(c) {
		return true
	}
	claims := claimsFromContext(c)
	return claims != nil && claims.Username == username
}
