package dto

// SubscriptionInfo 当前订阅及派生状态（服务端用状态求值器计算）
type SubscriptionInfo struct {
	ID            int64  `json:"id"`
	Plan          string `json:"plan"`
	Status        string `json:"status"`
	StartDate     string `json:"start_date"`
	EndDate       string `json:"end_date"`
	DaysRemaining int    `json:"days_remaining"`
	IsActive      bool   `json:"is_active"`
	IsGracePeriod bool   `json:"is_grace_period"`
	ExpiringSoon  bool   `json:"expiring_soon"`
	StatusMessage string `json:"status_message"`
}

// MySubscriptionResponse 无订阅时 subscription 为 null
type MySubscriptionResponse struct {
	Subscription *SubscriptionInfo `json:"subscription"`
}

// WalletInfo 单条链的收款信息
type WalletInfo struct {
	Chain        string `json:"chain"`
	DisplayName  string `json:"display_name"`
	USDT         string `json:"usdt"`
	USDC         string `json:"usdc"`
	ExplorerName string `json:"explorer_name"`
	GasEstimate  string `json:"gas_estimate"`
}

// WalletsResponse 支付弹窗所需的静态信息
type WalletsResponse struct {
	Wallets    []WalletInfo       `json:"wallets"`
	PlanPrices map[string]float64 `json:"plan_prices"`
}

// APIKeyInfo 密钥信息（不含明文）
type APIKeyInfo struct {
	ID         int64  `json:"id"`
	KeyPrefix  string `json:"key_prefix"`
	Name       string `json:"name"`
	IsActive   bool   `json:"is_active"`
	CreatedAt  string `json:"created_at"`
	LastUsedAt string `json:"last_used_at,omitempty"`
}

// CreateAPIKeyRequest 生成密钥请求
type CreateAPIKeyRequest struct {
	Name string `json:"name" binding:"omitempty,max=100"`
}

// CreateAPIKeyResponse 明文 key 只在该响应中出现一次
type CreateAPIKeyResponse struct {
	Key  string      `json:"key"`
	Info *APIKeyInfo `json:"info"`
}
