package testutil

import (
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"gorm.io/gorm"

	"github.com/context8/context8-server/internal/model"
)

var fixtureSeq int64

func nextSeq() int64 {
	return atomic.AddInt64(&fixtureSeq, 1)
}

// TestUser 创建测试用户
func TestUser(t *testing.T, db *gorm.DB, opts ...func(*model.User)) *model.User {
	t.Helper()

	seq := nextSeq()
	email := fmt.Sprintf("test_%d_%d@example.com", time.Now().UnixNano(), seq)
	passwordHash := "$2a$10$abcdefghijklmnopqrstuvwxyz123456" // bcrypt hash placeholder
	user := &model.User{
		Username:       fmt.Sprintf("testuser_%d_%d", time.Now().UnixNano()%100000, seq),
		Email:          &email,
		PasswordHash:   &passwordHash,
		Plan:           model.PlanFree,
		DailyQuota:     2,
		QuotaUsedToday: 0,
		EmailVerified:  true,
	}

	for _, opt := range opts {
		opt(user)
	}

	if err := db.Create(user).Error; err != nil {
		t.Fatalf("Failed to create test user: %v", err)
	}

	return user
}

// WithUsername 设置用户名
func WithUsername(username string) func(*model.User) {
	return func(u *model.User) {
		u.Username = username
	}
}

// WithEmail 设置邮箱
func WithEmail(email string) func(*model.User) {
	return func(u *model.User) {
		u.Email = &email
	}
}

// WithoutEmail 清空邮箱（OAuth 用户可能没有邮箱）
func WithoutEmail() func(*model.User) {
	return func(u *model.User) {
		u.Email = nil
	}
}

// WithAdmin 设置为管理员
func WithAdmin() func(*model.User) {
	return func(u *model.User) {
		u.IsAdmin = true
	}
}

// WithPlan 设置套餐与配额
func WithPlan(plan string, quota int) func(*model.User) {
	return func(u *model.User) {
		u.Plan = plan
		u.DailyQuota = quota
	}
}

// WithQuotaUsed 设置已使用配额
func WithQuotaUsed(used int) func(*model.User) {
	return func(u *model.User) {
		u.QuotaUsedToday = used
	}
}

// WithGoogleID 设置 Google 账号绑定
func WithGoogleID(googleID string) func(*model.User) {
	return func(u *model.User) {
		u.GoogleID = &googleID
		u.PasswordHash = nil
	}
}

// TestSubscription 创建测试订阅
func TestSubscription(t *testing.T, db *gorm.DB, userID int64, opts ...func(*model.Subscription)) *model.Subscription {
	t.Helper()

	now := time.Now()
	sub := &model.Subscription{
		UserID:    userID,
		Plan:      model.PlanPro,
		Status:    model.SubscriptionActive,
		StartDate: now,
		EndDate:   now.AddDate(0, 0, 30),
	}

	for _, opt := range opts {
		opt(sub)
	}

	if err := db.Create(sub).Error; err != nil {
		t.Fatalf("Failed to create test subscription: %v", err)
	}

	return sub
}

// WithStatus 设置订阅状态
func WithStatus(status string) func(*model.Subscription) {
	return func(s *model.Subscription) {
		s.Status = status
	}
}

// WithPeriod 设置订阅起止时间
func WithPeriod(start, end time.Time) func(*model.Subscription) {
	return func(s *model.Subscription) {
		s.StartDate = start
		s.EndDate = end
	}
}

// TestPayment 创建测试支付提交
func TestPayment(t *testing.T, db *gorm.DB, userID int64, opts ...func(*model.PaymentSubmission)) *model.PaymentSubmission {
	t.Helper()

	payment := &model.PaymentSubmission{
		UserID:      userID,
		Plan:        model.PlanPro,
		Chain:       model.ChainEthereum,
		Stablecoin:  model.StablecoinUSDT,
		TxHash:      UniqueTxHash(),
		Amount:      8.00,
		Status:      model.PaymentPending,
		SubmittedAt: time.Now(),
	}

	for _, opt := range opts {
		opt(payment)
	}

	if err := db.Create(payment).Error; err != nil {
		t.Fatalf("Failed to create test payment: %v", err)
	}

	return payment
}

// WithPaymentStatus 设置支付状态
func WithPaymentStatus(status string) func(*model.PaymentSubmission) {
	return func(p *model.PaymentSubmission) {
		p.Status = status
	}
}

// WithChain 设置链与稳定币
func WithChain(chain, stablecoin string) func(*model.PaymentSubmission) {
	return func(p *model.PaymentSubmission) {
		p.Chain = chain
		p.Stablecoin = stablecoin
	}
}

// WithTxHash 设置交易哈希
func WithTxHash(txHash string) func(*model.PaymentSubmission) {
	return func(p *model.PaymentSubmission) {
		p.TxHash = txHash
	}
}

// UniqueTxHash 生成格式合法且唯一的交易哈希
func UniqueTxHash() string {
	return fmt.Sprintf("0x%064x", nextSeq()+time.Now().UnixNano())
}

// TestReport 创建测试日报
func TestReport(t *testing.T, db *gorm.DB, reportDate string, opts ...func(*model.DailyReport)) *model.DailyReport {
	t.Helper()

	report := &model.DailyReport{
		ReportDate: reportDate,
		Summary:    "Market moved sideways with low volume.",
		TopMovers:  `[{"id":"bitcoin","symbol":"btc","price_change_percentage_24h":2.4}]`,
		Metrics:    `{"total_market_cap":2400000000000,"coins_tracked":100}`,
		Status:     model.ReportPublished,
	}

	for _, opt := range opts {
		opt(report)
	}

	if err := db.Create(report).Error; err != nil {
		t.Fatalf("Failed to create test report: %v", err)
	}

	return report
}

// WithReportStatus 设置报告状态
func WithReportStatus(status string) func(*model.DailyReport) {
	return func(r *model.DailyReport) {
		r.Status = status
	}
}
