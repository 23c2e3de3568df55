package dto

import "encoding/json"

// TopMover 涨跌幅榜单条目
type TopMover struct {
	Symbol    string  `json:"symbol"`
	Name      string  `json:"name"`
	Price     float64 `json:"price"`
	Change24h float64 `json:"change_24h"`
	Change7d  float64 `json:"change_7d,omitempty"`
}

// ReportMetrics 报告概览指标
type ReportMetrics struct {
	CoinsTracked  int     `json:"coins_tracked"`
	GainersCount  int     `json:"gainers_count"`
	LosersCount   int     `json:"losers_count"`
	AvgChange24h  float64 `json:"avg_change_24h"`
	TotalMarketUS float64 `json:"total_market_usd"`
}

// DailyReportResponse 每日报告响应
type DailyReportResponse struct {
	ReportDate string          `json:"report_date"`
	Summary    string          `json:"summary"`
	Metrics    json.RawMessage `json:"metrics"`
	TopMovers  json.RawMessage `json:"top_movers"`
	Status     string          `json:"status"`
	CreatedAt  string          `json:"created_at"`
}
