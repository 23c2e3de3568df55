package main

import (
	"context"
	"flag"
	"log"
	"os"
	"time"

	"github.com/context8/context8-server/config"
	"github.com/context8/context8-server/internal/database"
	"github.com/context8/context8-server/internal/pkg/market"
	"github.com/context8/context8-server/internal/pkg/oss"
	"github.com/context8/context8-server/internal/repository"
	"github.com/context8/context8-server/internal/service"
)

// 手动生成（或补生成）某一天的日报。定时任务挂掉或需要回填历史时使用。
var (
	reportDate = flag.String("date", "", "Report date (YYYY-MM-DD), defaults to today UTC")
	dryRun     = flag.Bool("dry-run", false, "Fetch market data but do not persist the report")
)

func main() {
	flag.Parse()

	date := *reportDate
	if date == "" {
		date = time.Now().UTC().Format("2006-01-02")
	}
	if _, err := time.Parse("2006-01-02", date); err != nil {
		log.Fatalf("Invalid date %q, expected YYYY-MM-DD", date)
	}

	// 加载配置
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "config.yaml"
	}
	cfg, err := config.Load(configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	marketClient := market.NewClient(cfg.Report.MarketAPIBase)
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	if *dryRun {
		coins, err := marketClient.TopCoins(ctx, cfg.Report.VsCurrency, cfg.Report.TopN)
		if err != nil {
			log.Fatalf("Failed to fetch market data: %v", err)
		}
		log.Printf("Dry run: fetched %d coins for %s", len(coins), date)
		for i, coin := range coins {
			if i >= 5 {
				break
			}
			log.Printf("  %d. %s (%s) $%.2f %+.2f%%",
				coin.MarketCapRank, coin.Name, coin.Symbol, coin.CurrentPrice, coin.PriceChangePercentage24h)
		}
		log.Println("Dry run complete, nothing persisted")
		return
	}

	// 连接数据库
	db, err := database.NewMySQL(&cfg.Database)
	if err != nil {
		log.Fatalf("Failed to connect database: %v", err)
	}

	// OSS 归档可选
	var ossClient *oss.Client
	if cfg.OSS.Endpoint != "" && cfg.OSS.AccessKeyID != "" {
		ossClient, err = oss.NewClient(&cfg.OSS)
		if err != nil {
			log.Printf("Warning: Failed to init OSS client: %v", err)
		}
	}

	reportRepo := repository.NewReportRepository(db)
	reportService := service.NewReportService(reportRepo, marketClient, ossClient, cfg)

	report, err := reportService.Generate(ctx, date)
	if err != nil {
		log.Fatalf("Failed to generate report for %s: %v", date, err)
	}

	log.Printf("Report generated for %s (status: %s)", report.ReportDate, report.Status)
	if report.OSSUrl != "" {
		log.Printf("Archived to %s", report.OSSUrl)
	}
}
