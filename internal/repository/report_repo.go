package repository

import (
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/context8/context8-server/internal/model"
)

type ReportRepository struct {
	db *gorm.DB
}

func NewReportRepository(db *gorm.DB) *ReportRepository {
	return &ReportRepository{db: db}
}

// Upsert 按 report_date 幂等写入（同日重复生成时覆盖内容）
func (r *ReportRepository) Upsert(report *model.DailyReport) error {
	return r.db.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "report_date"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"summary", "top_movers", "metrics", "status", "oss_url",
		}),
	}).Create(report).Error
}

func (r *ReportRepository) GetByDate(reportDate string) (*model.DailyReport, error) {
	var report model.DailyReport
	err := r.db.Where("report_date = ?", reportDate).First(&report).Error
	if err != nil {
		return nil, err
	}
	return &report, nil
}

// GetLatestPublished 获取最新发布的日报
func (r *ReportRepository) GetLatestPublished() (*model.DailyReport, error) {
	var report model.DailyReport
	err := r.db.Where("status = ?", model.ReportPublished).
		Order("report_date DESC").First(&report).Error
	if err != nil {
		return nil, err
	}
	return &report, nil
}

// ListRecent 按日期倒序返回最近 n 份发布的日报
func (r *ReportRepository) ListRecent(n int) ([]*model.DailyReport, error) {
	var reports []*model.DailyReport
	err := r.db.Where("status = ?", model.ReportPublished).
		Order("report_date DESC").Limit(n).Find(&reports).Error
	return reports, err
}
