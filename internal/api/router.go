package api

import (
	"github.com/gin-gonic/gin"

	"github.com/context8/context8-server/config"
	"github.com/context8/context8-server/internal/api/handler"
	"github.com/context8/context8-server/internal/api/middleware"
	"github.com/context8/context8-server/internal/service"
)

type Router struct {
	authHandler         *handler.AuthHandler
	userHandler         *handler.UserHandler
	paymentHandler      *handler.PaymentHandler
	adminHandler        *handler.AdminHandler
	subscriptionHandler *handler.SubscriptionHandler
	reportHandler       *handler.ReportHandler
	websocketHandler    *handler.WebSocketHandler
	quotaService        *service.QuotaService
	cfg                 *config.Config
}

func NewRouter(
	authHandler *handler.AuthHandler,
	userHandler *handler.UserHandler,
	paymentHandler *handler.PaymentHandler,
	adminHandler *handler.AdminHandler,
	subscriptionHandler *handler.SubscriptionHandler,
	reportHandler *handler.ReportHandler,
	websocketHandler *handler.WebSocketHandler,
	quotaService *service.QuotaService,
	cfg *config.Config,
) *Router {
	return &Router{
		authHandler:         authHandler,
		userHandler:         userHandler,
		paymentHandler:      paymentHandler,
		adminHandler:        adminHandler,
		subscriptionHandler: subscriptionHandler,
		reportHandler:       reportHandler,
		websocketHandler:    websocketHandler,
		quotaService:        quotaService,
		cfg:                 cfg,
	}
}

func (r *Router) Setup() *gin.Engine {
	if r.cfg.Server.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.Use(middleware.CORS(r.cfg.CORS))

	api := engine.Group("/api/v1")
	{
		// WebSocket：支付/订阅事件实时推送
		api.GET("/ws", r.websocketHandler.Handle)

		// 公开接口 - 认证
		auth := api.Group("/auth")
		{
			auth.POST("/register", r.authHandler.Register)
			auth.POST("/login", r.authHandler.Login)
			auth.POST("/verify-email", r.authHandler.VerifyEmail)
			auth.GET("/google", r.authHandler.GoogleLogin)
			auth.GET("/google/callback", r.authHandler.GoogleCallback)
		}

		// 公开接口 - 收款信息（支付弹窗）
		api.GET("/wallets", r.subscriptionHandler.GetWallets)

		// 需要认证的接口
		authenticated := api.Group("")
		authenticated.Use(middleware.Auth(r.cfg.JWT.Secret))
		{
			// 用户
			user := authenticated.Group("/user")
			{
				user.GET("/profile", r.userHandler.GetProfile)
				user.PUT("/profile", r.userHandler.UpdateProfile)
				user.POST("/avatar", r.userHandler.UploadAvatar)
				user.GET("/quota", r.userHandler.GetQuota)
				user.GET("/api-keys", r.userHandler.ListAPIKeys)
				user.POST("/api-keys", r.userHandler.CreateAPIKey)
				user.DELETE("/api-keys/:id", r.userHandler.RevokeAPIKey)
			}

			// 支付
			authenticated.POST("/payments", r.paymentHandler.Submit)
			authenticated.GET("/payments", r.paymentHandler.History)

			// 订阅
			authenticated.GET("/subscriptions/me", r.subscriptionHandler.GetMySubscription)

			// 日报：最新一期计入每日配额
			authenticated.GET("/reports/daily",
				middleware.QuotaCheck(r.quotaService), r.reportHandler.Latest)

			// 历史存档仅 pro 可见
			reports := authenticated.Group("/reports")
			reports.Use(middleware.ProOnly(r.quotaService), middleware.QuotaCheck(r.quotaService))
			{
				reports.GET("/daily/:date", r.reportHandler.GetByDate)
				reports.GET("/recent", r.reportHandler.ListRecent)
			}
		}

		// 管理端
		admin := api.Group("/admin")
		admin.Use(middleware.Auth(r.cfg.JWT.Secret), middleware.AdminOnly())
		{
			admin.GET("/payments/pending", r.adminHandler.ListPending)
			admin.GET("/payments/pending/count", r.adminHandler.PendingCount)
			admin.POST("/payments/:id/verify", r.adminHandler.Verify)
		}
	}

	return engine
}
