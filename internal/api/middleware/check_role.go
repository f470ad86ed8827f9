package middleware

import (
	"Scribe/internal/pkg/response"
	"slices"

	"github.com/gin-gonic/gin"
)

// CheckRoles 放在 AuthMiddleware 之后，要求当前用户至少拥有一个指定角色
func CheckRoles(requiredRoles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.GetUint64("user_id") == 0 {
			response.Fail(c, response.Unauthorized, "unauthorized")
			c.Abort()
			return
		}

		roles := c.GetStringSlice("roles")
		if !slices.ContainsFunc(requiredRoles, func(r string) bool { return slices.Contains(roles, r) }) {
			response.Fail(c, response.Forbidden, "permission denied")
			c.Abort()
			return
		}
		c.Next()
	}
}
