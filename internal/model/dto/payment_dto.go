package dto

// SubmitPaymentRequest 提交转账凭据请求
type SubmitPaymentRequest struct {
	Chain      string `json:"chain" binding:"required,oneof=ethereum polygon bsc"`
	Stablecoin string `json:"stablecoin" binding:"required,oneof=usdt usdc"`
	TxHash     string `json:"tx_hash" binding:"required"`
}

// SubmitPaymentResponse 提交转账凭据响应
type SubmitPaymentResponse struct {
	SubmissionID int64   `json:"submission_id"`
	Status       string  `json:"status"`
	Amount       float64 `json:"amount"`
}

// PaymentItem 支付记录（提交者历史视图）
type PaymentItem struct {
	ID                int64   `json:"id"`
	Plan              string  `json:"plan"`
	Chain             string  `json:"chain"`
	Stablecoin        string  `json:"stablecoin"`
	TxHash            string  `json:"tx_hash"`
	ExplorerURL       string  `json:"explorer_url"`
	Amount            float64 `json:"amount"`
	Status            string  `json:"status"`
	SubmittedAt       string  `json:"submitted_at"`
	VerifiedAt        string  `json:"verified_at,omitempty"`
	VerificationNotes string  `json:"verification_notes,omitempty"`
}

// PendingPaymentItem 待审核记录（管理端视图，附带提交者邮箱）
type PendingPaymentItem struct {
	PaymentItem
	UserID    int64  `json:"user_id"`
	UserEmail string `json:"user_email"`
}

// VerifyPaymentRequest 管理员审核请求
type VerifyPaymentRequest struct {
	Action string `json:"action" binding:"required,oneof=verified rejected"`
	Notes  string `json:"notes"`
}

// PendingCountResponse 待审核数量（管理端角标轮询）
type PendingCountResponse struct {
	Count int64 `json:"count"`
}
