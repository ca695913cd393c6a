package middleware

import "github.com/gin-gonic/gin"

// userIDHeader carries the acting user's ID; authentication happens upstream.
const userIDHeader = "X-User-ID"

// GetUserIDFromContext retrieves the acting user's ID from the request.
// It returns the user ID and whether one was supplied.
func GetUserIDFromContext(c *gin.Context) (string, bool) {
	userID := c.GetHeader(userIDHeader)
	if userID == "" {
		return "", false
	}
	return userID, true
}
