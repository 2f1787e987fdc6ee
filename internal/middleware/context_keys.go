package middleware

import "github.com/gin-gonic/gin"

// userIDKey is the key used to store the authenticated user's ID.
const userIDKey = contextKey("userID")

// isAdminKey is the key used to store the authenticated user's admin flag.
const isAdminKey = contextKey("isAdmin")

// GetUserIDFromContext retrieves the authenticated user ID from the Gin context.
// It returns the user ID and a boolean indicating if it was found.
func GetUserIDFromContext(c *gin.Context) (string, bool) {
	userIDVal, exists := c.Get(string(userIDKey))
	if !exists {
		// check the request context as well
		if v := c.Request.Context().Value(userIDKey); v != nil {
			if userID, ok := v.(string); ok {
				return userID, true
			}
		}
		return "", false
	}

	userID, ok := userIDVal.(string)
	if !ok {
		return "", false
	}

	return userID, true
}

// GetIsAdminFromContext reports whether the authenticated user is an administrator.
func GetIsAdminFromContext(c *gin.Context) bool {
	if v, exists := c.Get(string(isAdminKey)); exists {
		if isAdmin, ok := v.(bool); ok {
			return isAdmin
		}
	}
	return false
}
