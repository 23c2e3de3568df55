package model

import (
	"time"
)

// 套餐与订阅状态常量
const (
	PlanFree = "free"
	PlanPro  = "pro"

	SubscriptionActive    = "active"
	SubscriptionExpired   = "expired"
	SubscriptionCancelled = "cancelled"
)

type Subscription struct {
	ID        int64     `gorm:"primaryKey" json:"id"`
	UserID    int64     `gorm:"not null;index" json:"user_id"`
	Plan      string    `gorm:"size:20;not null" json:"plan"` // free, pro（enterprise 预留）
	Status    string    `gorm:"size:20;default:active;index" json:"status"`
	StartDate time.Time `gorm:"not null" json:"start_date"`
	EndDate   time.Time `gorm:"not null;index" json:"end_date"`
	CreatedAt time.Time `json:"created_at"`
}

func (Subscription) TableName() string {
	return "subscriptions"
}
