package auth

import (
	"strings"

	"github.com/gin-gonic/gin"
)

const DemoUser = "demo-user"

// OptionalUser trusts the X-User-Id header without verifying anything.
// Missing ids fall back to DemoUser. Development only.
func OptionalUser() gin.HandlerFunc {
	return func(c *gin.Context) {
		uid := strings.TrimSpace(c.GetHeader("X-User-Id"))
		if uid == "" {
			uid = DemoUser
		}

		c.Set(CtxUserID, uid)
		if name := strings.TrimSpace(c.GetHeader("X-User-Name")); name != "" {
			c.Set(CtxUserName, name)
		}

		c.Next()
	}
}
