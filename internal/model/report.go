package model

import (
	"time"
)

// 报告状态常量
const (
	ReportDraft     = "draft"
	ReportPublished = "published"
)

// DailyReport 每日市场报告。结构化内容以 JSON 文本存储，
// 归档副本上传 OSS 后记录 oss_url。
type DailyReport struct {
	ID         int64     `gorm:"primaryKey" json:"id"`
	ReportDate string    `gorm:"size:10;uniqueIndex;not null" json:"report_date"` // YYYY-MM-DD
	Summary    string    `gorm:"type:text" json:"summary"`
	TopMovers  string    `gorm:"type:text" json:"top_movers"` // JSON 数组
	Metrics    string    `gorm:"type:text" json:"metrics"`    // JSON 对象
	Status     string    `gorm:"size:20;default:draft;index" json:"status"`
	OSSUrl     string    `gorm:"size:500" json:"oss_url,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}

func (DailyReport) TableName() string {
	return "daily_reports"
}
