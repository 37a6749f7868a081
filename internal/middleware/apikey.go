package middleware

import (
	"crypto/subtle"

	"github.com/gin-gonic/gin"
)

// APIKeyHeader is the header trusted server-side callers present.
const APIKeyHeader = "X-Edx-Api-Key"

// ContextAPIKeyKey is the gin context key flagging a trusted server-side caller.
const ContextAPIKeyKey = "apiKeyValid"

// APIKey marks requests carrying the configured server-to-server key as trusted.
// It never blocks; handlers decide what an untrusted caller may see.
func APIKey(configuredKey string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if configuredKey != "" {
			presented := c.GetHeader(APIKeyHeader)
			if presented != "" && subtle.ConstantTimeCompare([]byte(presented), []byte(configuredKey)) == 1 {
				c.Set(ContextAPIKeyKey, true)
			}
		}
		c.Next()
	}
}

// HasValidAPIKey reports whether the request was made with the trusted key.
func HasValidAPIKey(c *gin.Context) bool {
	value, exists := c.Get(ContextAPIKeyKey)
	if !exists {
		return false
	}
	valid, ok := value.(bool)
	return ok && valid
}

// IsPrivileged reports whether the caller is staff or a trusted server-side caller.
func IsPrivileged(c *gin.Context) bool {
	if HasValidAPIKey(c) {
		return true
	}
	if claims, ok := CurrentClaims(c); ok {
		return claims.IsStaff
	}
	return false
}
