package middleware

import (
	"crypto/subtle"
	"net/http"
	"os"

	"github.com/gin-gonic/gin"
)

func setCorsHeaders(c *gin.Context) {
	c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
	c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, GET, OPTIONS, DELETE, PATCH")
	c.Writer.Header().Set("Access-Control-Allow-Headers", "X-Requested-With, Content-Type, Authorization, session-token")
	c.Writer.Header().Set("Access-Control-Max-Age", "86400")
	c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
	c.Writer.Header().Set("Content-Type", "application/json")
}

// CORSMiddleware configures CORS headers for incoming requests.
func CORSMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		setCorsHeaders(c)

		// For preflight requests, respond with 204 and abort further processing.
		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}

// tokenValidator checks the static API token on the Authorization header.
// OPTIONS requests bypass validation so CORS preflights always succeed.
func tokenValidator(c *gin.Context, expected string) bool {
	if c.Request.Method == "OPTIONS" {
		return true
	}
	got := c.GetHeader("Authorization")
	if subtle.ConstantTimeCompare([]byte(got), []byte(expected)) != 1 {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid API token"})
		return false
	}
	return true
}

// APITokenMiddleware validates the static bearer token configured via the
// APITOKEN environment variable. When APITOKEN is unset the check is skipped.
func APITokenMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := os.Getenv("APITOKEN")
		if token == "" {
			c.Next()
			return
		}
		if !tokenValidator(c, "Bearer "+token) {
			return
		}
		c.Next()
	}
}
