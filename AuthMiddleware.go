package main

import (
	"github.com/gin-gonic/gin"
)

const callerIDKey = "user_id"

// AuthMiddleware attaches the caller identity, if the request carries a valid
// bearer token. It never aborts: a bad token is the same as no token.
func AuthMiddleware(verifier *TokenVerifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		if userID, ok := verifier.Identify(c.GetHeader("Authorization")); ok {
			c.Set(callerIDKey, userID)
		}
		c.Next()
	}
}

// getUserIDFromContext returns the identity set by AuthMiddleware.
func getUserIDFromContext(c *gin.Context) (string, bool) {
	uid, exists := c.Get(callerIDKey)
	if !exists {
		return "", false
	}
	userID, ok := uid.(string)
	if !ok || userID == "" {
		return "", false
	}
	return userID, true
}
