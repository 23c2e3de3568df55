package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/context8/context8-server/internal/pkg/jwt"
	"github.com/context8/context8-server/internal/pkg/response"
)

const (
	UserIDKey  = "userID"
	IsAdminKey = "isAdmin"
)

// Auth JWT 认证中间件
func Auth(jwtSecret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			response.AuthError(c, "missing authorization header")
			c.Abort()
			return
		}

		tokenString := strings.TrimPrefix(authHeader, "Bearer ")
		if tokenString == authHeader {
			response.AuthError(c, "malformed authorization header")
			c.Abort()
			return
		}

		claims, err := jwt.ParseToken(tokenString, jwtSecret)
		if err != nil {
			response.AuthError(c, "invalid or expired token")
			c.Abort()
			return
		}

		c.Set(UserIDKey, claims.UserID)
		c.Set(IsAdminKey, claims.IsAdmin)
		c.Next()
	}
}

// AdminOnly 管理员拦截。依赖令牌里的 is_admin claim 做第一道检查，
// 服务层对写操作会再查库复核。必须挂在 Auth 之后。
func AdminOnly() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !IsAdmin(c) {
			response.PermissionError(c, "admin access required")
			c.Abort()
			return
		}
		c.Next()
	}
}

// GetUserID 从上下文获取用户 ID
func GetUserID(c *gin.Context) (int64, bool) {
	userID, exists := c.Get(UserIDKey)
	if !exists {
		return 0, false
	}
	id, ok := userID.(int64)
	return id, ok
}

// IsAdmin 当前请求是否来自管理员
func IsAdmin(c *gin.Context) bool {
	v, exists := c.Get(IsAdminKey)
	if !exists {
		return false
	}
	isAdmin, ok := v.(bool)
	return ok && isAdmin
}
