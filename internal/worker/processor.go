package worker

import (
	"errors"
	"fmt"
	"log"
	"time"

	"gorm.io/gorm"

	"github.com/context8/context8-server/config"
	"github.com/context8/context8-server/internal/pkg/blockchain"
	"github.com/context8/context8-server/internal/pkg/email"
	"github.com/context8/context8-server/internal/pkg/queue"
	"github.com/context8/context8-server/internal/repository"
	"github.com/context8/context8-server/internal/service"
)

// Processor 通知处理器。消费 redis 队列里的消息并发邮件，
// 邮件失败只记日志，消息不回队（人工通知不值得重试风暴）。
type Processor struct {
	paymentRepo  *repository.PaymentRepository
	userRepo     *repository.UserRepository
	subRepo      *repository.SubscriptionRepository
	emailService *email.Service
	cfg          *config.Config
}

func NewProcessor(
	paymentRepo *repository.PaymentRepository,
	userRepo *repository.UserRepository,
	subRepo *repository.SubscriptionRepository,
	emailService *email.Service,
	cfg *config.Config,
) *Processor {
	return &Processor{
		paymentRepo:  paymentRepo,
		userRepo:     userRepo,
		subRepo:      subRepo,
		emailService: emailService,
		cfg:          cfg,
	}
}

// Process 按消息类型分发
func (p *Processor) Process(msg *queue.NotificationMessage) error {
	switch msg.Type {
	case queue.NotifyPaymentSubmitted:
		return p.handlePaymentSubmitted(msg)
	case queue.NotifyPaymentVerified:
		return p.handlePaymentVerified(msg)
	case queue.NotifyPaymentRejected:
		return p.handlePaymentRejected(msg)
	case queue.NotifyExpiringSoon:
		return p.handleExpiringSoon(msg)
	default:
		return fmt.Errorf("unknown notification type: %s", msg.Type)
	}
}

// handlePaymentSubmitted 通知所有管理员有新的待审核支付
func (p *Processor) handlePaymentSubmitted(msg *queue.NotificationMessage) error {
	payment, err := p.paymentRepo.GetByID(msg.PaymentID)
	if err != nil {
		return fmt.Errorf("failed to get payment %d: %w", msg.PaymentID, err)
	}

	submitter, err := p.userRepo.GetByID(payment.UserID)
	if err != nil {
		return fmt.Errorf("failed to get submitter %d: %w", payment.UserID, err)
	}

	recipients := p.adminRecipients()
	if len(recipients) == 0 {
		log.Printf("Payment %d submitted but no admin recipients configured", payment.ID)
		return nil
	}

	// OAuth 用户可能没有邮箱
	submitterEmail := ""
	if submitter.Email != nil {
		submitterEmail = *submitter.Email
	}

	explorerURL := blockchain.ExplorerTxURL(payment.Chain, payment.TxHash)
	for _, to := range recipients {
		if err := p.emailService.SendPaymentSubmittedAdmin(
			to, submitterEmail, payment.Plan, payment.Chain, payment.Stablecoin,
			payment.TxHash, explorerURL, p.cfg.Admin.PanelURL, payment.Amount,
		); err != nil {
			log.Printf("Failed to send admin notification to %s for payment %d: %v", to, payment.ID, err)
		}
	}

	log.Printf("Payment %d: notified %d admin(s)", payment.ID, len(recipients))
	return nil
}

// handlePaymentVerified 通知提交者审核通过，附新的到期日
func (p *Processor) handlePaymentVerified(msg *queue.NotificationMessage) error {
	payment, err := p.paymentRepo.GetByID(msg.PaymentID)
	if err != nil {
		return fmt.Errorf("failed to get payment %d: %w", msg.PaymentID, err)
	}

	submitter, err := p.userRepo.GetByID(payment.UserID)
	if err != nil {
		return fmt.Errorf("failed to get submitter %d: %w", payment.UserID, err)
	}

	if submitter.Email == nil {
		log.Printf("Payment %d: submitter %d has no email, skipping notification", payment.ID, submitter.ID)
		return nil
	}

	endDate := ""
	if sub, err := p.subRepo.GetCurrentByUser(payment.UserID); err == nil && sub != nil {
		endDate = sub.EndDate.Format("2006-01-02")
	}

	if err := p.emailService.SendPaymentVerified(*submitter.Email, payment.Plan, endDate); err != nil {
		return fmt.Errorf("failed to send verified email: %w", err)
	}

	log.Printf("Payment %d: verified notification sent to %s", payment.ID, *submitter.Email)
	return nil
}

// handlePaymentRejected 通知提交者被拒及原因
func (p *Processor) handlePaymentRejected(msg *queue.NotificationMessage) error {
	payment, err := p.paymentRepo.GetByID(msg.PaymentID)
	if err != nil {
		return fmt.Errorf("failed to get payment %d: %w", msg.PaymentID, err)
	}

	submitter, err := p.userRepo.GetByID(payment.UserID)
	if err != nil {
		return fmt.Errorf("failed to get submitter %d: %w", payment.UserID, err)
	}

	if submitter.Email == nil {
		log.Printf("Payment %d: submitter %d has no email, skipping notification", payment.ID, submitter.ID)
		return nil
	}

	notes := ""
	if payment.VerificationNotes != nil {
		notes = *payment.VerificationNotes
	}

	if err := p.emailService.SendPaymentRejected(*submitter.Email, payment.TxHash, notes); err != nil {
		return fmt.Errorf("failed to send rejected email: %w", err)
	}

	log.Printf("Payment %d: rejected notification sent to %s", payment.ID, *submitter.Email)
	return nil
}

// handleExpiringSoon 到期前提醒续费
func (p *Processor) handleExpiringSoon(msg *queue.NotificationMessage) error {
	user, err := p.userRepo.GetByID(msg.UserID)
	if err != nil {
		return fmt.Errorf("failed to get user %d: %w", msg.UserID, err)
	}
	if user.Email == nil {
		return nil
	}

	sub, err := p.subRepo.GetCurrentByUser(msg.UserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			// 提醒入队后订阅已被清理，跳过
			return nil
		}
		return fmt.Errorf("failed to get subscription for user %d: %w", msg.UserID, err)
	}

	days := service.DaysRemaining(sub, time.Now())
	if days <= 0 {
		return nil
	}

	renewURL := p.cfg.Admin.SiteURL + "/pricing"
	if err := p.emailService.SendExpiryReminder(*user.Email, sub.Plan, days, renewURL); err != nil {
		return fmt.Errorf("failed to send expiry reminder: %w", err)
	}

	log.Printf("User %d: expiry reminder sent (%d day(s) left)", user.ID, days)
	return nil
}

// adminRecipients 管理员收件人：所有 is_admin 用户，外加配置里的通知邮箱
func (p *Processor) adminRecipients() []string {
	seen := make(map[string]struct{})
	var recipients []string

	admins, err := p.userRepo.ListAdmins()
	if err != nil {
		log.Printf("Failed to list admins: %v", err)
	} else {
		for _, a := range admins {
			if a.Email == nil || *a.Email == "" {
				continue
			}
			if _, ok := seen[*a.Email]; ok {
				continue
			}
			seen[*a.Email] = struct{}{}
			recipients = append(recipients, *a.Email)
		}
	}

	if extra := p.cfg.Admin.NotifyEmail; extra != "" {
		if _, ok := seen[extra]; !ok {
			recipients = append(recipients, extra)
		}
	}

	return recipients
}
