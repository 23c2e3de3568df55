package model

import (
	"time"
)

// APIKey 数据接口的访问密钥。只存 sha256 哈希，明文仅在创建时返回一次。
type APIKey struct {
	ID         int64      `gorm:"primaryKey" json:"id"`
	UserID     int64      `gorm:"not null;index" json:"user_id"`
	KeyPrefix  string     `gorm:"size:12;not null" json:"key_prefix"`
	KeyHash    string     `gorm:"size:64;uniqueIndex;not null" json:"-"`
	Name       string     `gorm:"size:100" json:"name"`
	IsActive   bool       `gorm:"default:true;index" json:"is_active"`
	LastUsedAt *time.Time `json:"last_used_at,omitempty"`
	CreatedAt  time.Time  `json:"created_at"`
}

func (APIKey) TableName() string {
	return "api_keys"
}
