package main

import (
	"context"
	"fmt"
	"log"

	"github.com/context8/context8-server/config"
	"github.com/context8/context8-server/internal/api"
	"github.com/context8/context8-server/internal/api/handler"
	"github.com/context8/context8-server/internal/database"
	"github.com/context8/context8-server/internal/pkg/cron"
	"github.com/context8/context8-server/internal/pkg/email"
	"github.com/context8/context8-server/internal/pkg/market"
	"github.com/context8/context8-server/internal/pkg/oauth"
	"github.com/context8/context8-server/internal/pkg/oss"
	"github.com/context8/context8-server/internal/pkg/pubsub"
	"github.com/context8/context8-server/internal/pkg/queue"
	"github.com/context8/context8-server/internal/pkg/ws"
	"github.com/context8/context8-server/internal/repository"
	"github.com/context8/context8-server/internal/service"
)

func main() {
	// 加载配置
	cfg, err := config.Load("config.yaml")
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// 初始化数据库
	db, err := database.NewMySQL(&cfg.Database)
	if err != nil {
		log.Fatalf("Failed to connect database: %v", err)
	}
	log.Println("Database connected")

	// 初始化 Redis
	rdb, err := database.NewRedis(&cfg.Redis)
	if err != nil {
		log.Fatalf("Failed to connect redis: %v", err)
	}
	log.Println("Redis connected")

	// 初始化 OSS（可选）
	var ossClient *oss.Client
	if cfg.OSS.Endpoint != "" && cfg.OSS.AccessKeyID != "" {
		ossClient, err = oss.NewClient(&cfg.OSS)
		if err != nil {
			log.Printf("Warning: Failed to init OSS client: %v", err)
		} else {
			log.Println("OSS client initialized")
		}
	}

	// 初始化 Queue 和 Pub/Sub
	notifyQueue := queue.NewQueue(rdb, cfg.Queue.NotificationQueue)
	publisher := pubsub.NewPublisher(rdb)
	subscriber := pubsub.NewSubscriber(rdb)

	// 初始化 WebSocket Hub
	wsHub := ws.NewHub()
	log.Println("WebSocket hub started")

	// 初始化 Repository
	userRepo := repository.NewUserRepository(db)
	paymentRepo := repository.NewPaymentRepository(db)
	subRepo := repository.NewSubscriptionRepository(db)
	reportRepo := repository.NewReportRepository(db)
	apiKeyRepo := repository.NewAPIKeyRepository(db)

	// 初始化 Service
	authService := service.NewAuthService(userRepo, cfg)
	authService.SetEmailService(email.NewService(&cfg.Email))
	userService := service.NewUserService(userRepo, ossClient, cfg)
	subService := service.NewSubscriptionService(subRepo, userRepo, notifyQueue, publisher, cfg)
	quotaService := service.NewQuotaService(userRepo, subService, cfg)
	paymentService := service.NewPaymentService(paymentRepo, userRepo, subService, notifyQueue, publisher, cfg)
	apiKeyService := service.NewAPIKeyService(apiKeyRepo)
	marketClient := market.NewClient(cfg.Report.MarketAPIBase)
	reportService := service.NewReportService(reportRepo, marketClient, ossClient, cfg)

	// 初始化 Handler
	stateStore := oauth.NewStateStore(rdb)
	authHandler := handler.NewAuthHandler(authService, stateStore)
	userHandler := handler.NewUserHandler(userService, quotaService, apiKeyService)
	paymentHandler := handler.NewPaymentHandler(paymentService)
	adminHandler := handler.NewAdminHandler(paymentService)
	subscriptionHandler := handler.NewSubscriptionHandler(subService, cfg)
	reportHandler := handler.NewReportHandler(reportService)
	websocketHandler := handler.NewWebSocketHandler(wsHub, cfg.JWT.Secret)

	// 订阅支付事件，实时推给在线用户；提交事件同时推给管理员面板
	go func() {
		err := subscriber.Subscribe(context.Background(), func(event *pubsub.EventMessage) {
			wsMsg := &ws.Message{Type: event.Type, Data: event}
			if err := wsHub.SendToUser(event.UserID, wsMsg); err != nil {
				log.Printf("Failed to push event %s to user %d: %v", event.Type, event.UserID, err)
			}
			if event.Type == pubsub.EventPaymentSubmitted {
				if err := wsHub.SendToAdmins(wsMsg); err != nil {
					log.Printf("Failed to push event %s to admins: %v", event.Type, err)
				}
			}
		})
		if err != nil && err != context.Canceled {
			log.Printf("Event subscriber stopped: %v", err)
		}
	}()

	// 定时任务：配额重置、过期清扫、日报生成
	cronService := cron.NewService(quotaService, subService, reportService)
	cronService.Start()
	defer cronService.Stop()

	// 初始化 Router
	router := api.NewRouter(
		authHandler,
		userHandler,
		paymentHandler,
		adminHandler,
		subscriptionHandler,
		reportHandler,
		websocketHandler,
		quotaService,
		cfg,
	)
	engine := router.Setup()

	// 启动服务器
	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	log.Printf("Server starting on %s", addr)
	if err := engine.Run(addr); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
