package middleware

import (
	"errors"
	"log"

	"github.com/gin-gonic/gin"

	"github.com/context8/context8-server/internal/pkg/response"
	"github.com/context8/context8-server/internal/service"
)

// QuotaCheck 配额检查中间件。请求正常完成后扣减一次。
func QuotaCheck(quotaService *service.QuotaService) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := GetUserID(c)
		if !ok {
			response.AuthError(c, "")
			c.Abort()
			return
		}

		hasQuota, err := quotaService.CheckQuota(userID)
		if err != nil {
			response.ServerError(c, "quota check failed")
			c.Abort()
			return
		}

		if !hasQuota {
			response.QuotaError(c, "daily quota exhausted")
			c.Abort()
			return
		}

		c.Next()

		if c.IsAborted() {
			return
		}
		if err := quotaService.UseQuota(userID); err != nil {
			log.Printf("Failed to consume quota for user %d: %v", userID, err)
		}
	}
}

// ProOnly 付费计划拦截。生效的计划以可用订阅为准，
// 而不是 users 表里的计划快照。
func ProOnly(quotaService *service.QuotaService) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := GetUserID(c)
		if !ok {
			response.AuthError(c, "")
			c.Abort()
			return
		}

		if err := quotaService.RequirePro(userID); err != nil {
			if errors.Is(err, service.ErrProRequired) {
				response.PermissionError(c, "pro plan required")
			} else {
				response.ServerError(c, "plan check failed")
			}
			c.Abort()
			return
		}

		c.Next()
	}
}
