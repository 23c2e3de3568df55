package model

import (
	"time"
)

// 支付审核状态常量
const (
	PaymentPending  = "pending"
	PaymentVerified = "verified"
	PaymentRejected = "rejected"
)

// 支持的链与稳定币
const (
	ChainEthereum = "ethereum"
	ChainPolygon  = "polygon"
	ChainBSC      = "bsc"

	StablecoinUSDT = "usdt"
	StablecoinUSDC = "usdc"
)

// PaymentSubmission 用户提交的链上转账凭据。
// tx_hash 全局唯一（防止同一笔转账被重复提交）；
// 离开 pending 后记录不可再变更，重新审核需要新的提交。
type PaymentSubmission struct {
	ID                int64      `gorm:"primaryKey" json:"id"`
	UserID            int64      `gorm:"not null;index" json:"user_id"`
	Plan              string     `gorm:"size:20;not null" json:"plan"`
	Chain             string     `gorm:"size:20;not null" json:"chain"`
	Stablecoin        string     `gorm:"size:10;not null" json:"stablecoin"`
	TxHash            string     `gorm:"size:66;uniqueIndex;not null" json:"tx_hash"`
	Amount            float64    `gorm:"type:decimal(10,2)" json:"amount"`
	Status            string     `gorm:"size:20;default:pending;index" json:"status"`
	SubmittedAt       time.Time  `gorm:"not null" json:"submitted_at"`
	VerifiedAt        *time.Time `json:"verified_at,omitempty"`
	VerifiedBy        *int64     `json:"verified_by,omitempty"`
	VerificationNotes *string    `gorm:"type:text" json:"verification_notes,omitempty"`
}

func (PaymentSubmission) TableName() string {
	return "payment_submissions"
}
