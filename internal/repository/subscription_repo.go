package repository

import (
	"time"

	"gorm.io/gorm"

	"github.com/context8/context8-server/internal/model"
)

type SubscriptionRepository struct {
	db *gorm.DB
}

func NewSubscriptionRepository(db *gorm.DB) *SubscriptionRepository {
	return &SubscriptionRepository{db: db}
}

func (r *SubscriptionRepository) Create(sub *model.Subscription) error {
	return r.db.Create(sub).Error
}

func (r *SubscriptionRepository) GetByID(id int64) (*model.Subscription, error) {
	var sub model.Subscription
	err := r.db.Where("id = ?", id).First(&sub).Error
	if err != nil {
		return nil, err
	}
	return &sub, nil
}

// GetCurrentByUser 获取用户当前订阅（最新到期的 active 记录）
func (r *SubscriptionRepository) GetCurrentByUser(userID int64) (*model.Subscription, error) {
	var sub model.Subscription
	err := r.db.Where("user_id = ? AND status = ?", userID, model.SubscriptionActive).
		Order("end_date DESC").First(&sub).Error
	if err != nil {
		return nil, err
	}
	return &sub, nil
}

func (r *SubscriptionRepository) UpdateEndDate(id int64, endDate time.Time) error {
	return r.db.Model(&model.Subscription{}).Where("id = ?", id).
		Update("end_date", endDate).Error
}

func (r *SubscriptionRepository) UpdateStatus(id int64, status string) error {
	return r.db.Model(&model.Subscription{}).Where("id = ?", id).
		Update("status", status).Error
}

// ListExpiredPastGrace 查询已过宽限期但仍标记 active 的订阅
func (r *SubscriptionRepository) ListExpiredPastGrace(graceDeadline time.Time) ([]*model.Subscription, error) {
	var subs []*model.Subscription
	err := r.db.Where("status = ? AND end_date < ?", model.SubscriptionActive, graceDeadline).
		Find(&subs).Error
	return subs, err
}

// ListExpiringBetween 查询即将到期的有效订阅（到期提醒用）
func (r *SubscriptionRepository) ListExpiringBetween(from, to time.Time) ([]*model.Subscription, error) {
	var subs []*model.Subscription
	err := r.db.Where("status = ? AND end_date >= ? AND end_date < ?", model.SubscriptionActive, from, to).
		Find(&subs).Error
	return subs, err
}
