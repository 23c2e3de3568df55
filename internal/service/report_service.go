package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"sort"
	"time"

	"gorm.io/gorm"

	"github.com/context8/context8-server/config"
	"github.com/context8/context8-server/internal/model"
	"github.com/context8/context8-server/internal/model/dto"
	"github.com/context8/context8-server/internal/pkg/market"
	"github.com/context8/context8-server/internal/pkg/oss"
	"github.com/context8/context8-server/internal/repository"
)

var ErrReportNotFound = errors.New("report not found")

// 榜单长度
const topMoversLimit = 5

type ReportService struct {
	reportRepo   *repository.ReportRepository
	marketClient *market.Client
	ossClient    *oss.Client
	cfg          *config.Config
}

func NewReportService(
	reportRepo *repository.ReportRepository,
	marketClient *market.Client,
	ossClient *oss.Client,
	cfg *config.Config,
) *ReportService {
	return &ReportService{
		reportRepo:   reportRepo,
		marketClient: marketClient,
		ossClient:    ossClient,
		cfg:          cfg,
	}
}

// Generate 拉取行情生成当日报告并发布。同日重复调用覆盖旧内容。
func (s *ReportService) Generate(ctx context.Context, reportDate string) (*model.DailyReport, error) {
	coins, err := s.marketClient.TopCoins(ctx, s.cfg.Report.VsCurrency, s.cfg.Report.TopN)
	if err != nil {
		return nil, fmt.Errorf("fetch market data: %w", err)
	}
	if len(coins) == 0 {
		return nil, errors.New("market api returned no coins")
	}

	report, err := buildReport(reportDate, coins)
	if err != nil {
		return nil, err
	}

	// 归档副本上传 OSS，失败不阻塞发布
	if s.ossClient != nil {
		if data, err := json.Marshal(report); err == nil {
			url, err := s.ossClient.UploadReport(reportDate, data)
			if err != nil {
				log.Printf("Failed to archive report %s to OSS: %v", reportDate, err)
			} else {
				report.OSSUrl = url
			}
		}
	}

	if err := s.reportRepo.Upsert(report); err != nil {
		return nil, err
	}
	return report, nil
}

// buildReport 由行情快照计算指标与涨跌幅榜
func buildReport(reportDate string, coins []market.Coin) (*model.DailyReport, error) {
	gainers, losers := 0, 0
	var changeSum, totalMarketCap float64
	for _, c := range coins {
		if c.PriceChangePercentage24h > 0 {
			gainers++
		} else if c.PriceChangePercentage24h < 0 {
			losers++
		}
		changeSum += c.PriceChangePercentage24h
		totalMarketCap += c.MarketCap
	}

	metrics := dto.ReportMetrics{
		CoinsTracked:  len(coins),
		GainersCount:  gainers,
		LosersCount:   losers,
		AvgChange24h:  changeSum / float64(len(coins)),
		TotalMarketUS: totalMarketCap,
	}

	// 按 24h 涨跌幅绝对值排序取榜单
	sorted := make([]market.Coin, len(coins))
	copy(sorted, coins)
	sort.Slice(sorted, func(i, j int) bool {
		return abs(sorted[i].PriceChangePercentage24h) > abs(sorted[j].PriceChangePercentage24h)
	})
	limit := topMoversLimit
	if len(sorted) < limit {
		limit = len(sorted)
	}
	movers := make([]dto.TopMover, 0, limit)
	for _, c := range sorted[:limit] {
		movers = append(movers, dto.TopMover{
			Symbol:    c.Symbol,
			Name:      c.Name,
			Price:     c.CurrentPrice,
			Change24h: c.PriceChangePercentage24h,
		})
	}

	metricsJSON, err := json.Marshal(metrics)
	if err != nil {
		return nil, err
	}
	moversJSON, err := json.Marshal(movers)
	if err != nil {
		return nil, err
	}

	tone := "mixed"
	if gainers > losers*2 {
		tone = "bullish"
	} else if losers > gainers*2 {
		tone = "bearish"
	}
	summary := fmt.Sprintf("Market was %s: %d of %d tracked coins gained over 24h (avg change %+.2f%%).",
		tone, gainers, len(coins), metrics.AvgChange24h)

	return &model.DailyReport{
		ReportDate: reportDate,
		Summary:    summary,
		TopMovers:  string(moversJSON),
		Metrics:    string(metricsJSON),
		Status:     model.ReportPublished,
	}, nil
}

// Latest 最新发布的日报
func (s *ReportService) Latest() (*dto.DailyReportResponse, error) {
	report, err := s.reportRepo.GetLatestPublished()
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrReportNotFound
		}
		return nil, err
	}
	return toReportResponse(report), nil
}

// GetByDate 按日期查询日报
func (s *ReportService) GetByDate(reportDate string) (*dto.DailyReportResponse, error) {
	report, err := s.reportRepo.GetByDate(reportDate)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrReportNotFound
		}
		return nil, err
	}
	return toReportResponse(report), nil
}

// ListRecent 最近 n 份日报
func (s *ReportService) ListRecent(n int) ([]*dto.DailyReportResponse, error) {
	reports, err := s.reportRepo.ListRecent(n)
	if err != nil {
		return nil, err
	}

	resp := make([]*dto.DailyReportResponse, 0, len(reports))
	for _, r := range reports {
		resp = append(resp, toReportResponse(r))
	}
	return resp, nil
}

func toReportResponse(r *model.DailyReport) *dto.DailyReportResponse {
	return &dto.DailyReportResponse{
		ReportDate: r.ReportDate,
		Summary:    r.Summary,
		Metrics:    json.RawMessage(r.Metrics),
		TopMovers:  json.RawMessage(r.TopMovers),
		Status:     r.Status,
		CreatedAt:  r.CreatedAt.Format(time.RFC3339),
	}
}

// Today 当日日期串（UTC）
func Today() string {
	return time.Now().UTC().Format("2006-01-02")
}

func abs(f float64) float64 {
	if f < 0 {
		return -f
	}
	return f
}
