package auth

import (
	"strings"

	"github.com/gin-gonic/gin"
)

const (
	CtxUserID   = "firebase_uid"
	CtxUserName = "user_name"
	CtxEmail    = "email"
)

// UserID extracts the authenticated user id from the Gin context.
// Set by FirebaseAuthMiddleware or OptionalUser.
func UserID(c *gin.Context) string {
	return strings.TrimSpace(c.GetString(CtxUserID))
}

func UserName(c *gin.Context) string {
	return strings.TrimSpace(c.GetString(CtxUserName))
}
