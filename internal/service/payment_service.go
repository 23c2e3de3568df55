package service

import (
	"context"
	"errors"
	"log"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/context8/context8-server/config"
	"github.com/context8/context8-server/internal/model"
	"github.com/context8/context8-server/internal/model/dto"
	"github.com/context8/context8-server/internal/pkg/blockchain"
	"github.com/context8/context8-server/internal/pkg/pubsub"
	"github.com/context8/context8-server/internal/pkg/queue"
	"github.com/context8/context8-server/internal/repository"
)

var (
	ErrInvalidTxHash    = errors.New("invalid transaction hash")
	ErrDuplicateTxHash  = errors.New("transaction hash already submitted")
	ErrPaymentNotFound  = errors.New("payment not found")
	ErrAlreadyProcessed = errors.New("payment already processed")
	ErrNotesRequired    = errors.New("rejection notes required")
	ErrUnsupportedChain = errors.New("unsupported chain")
	ErrUnsupportedPlan  = errors.New("unsupported plan")
	ErrInvalidAction    = errors.New("invalid verification action")
	ErrNotAdmin         = errors.New("reviewer is not an admin")
)

type PaymentService struct {
	paymentRepo *repository.PaymentRepository
	userRepo    *repository.UserRepository
	subService  *SubscriptionService
	queue       *queue.Queue
	publisher   *pubsub.Publisher
	cfg         *config.Config
}

func NewPaymentService(
	paymentRepo *repository.PaymentRepository,
	userRepo *repository.UserRepository,
	subService *SubscriptionService,
	q *queue.Queue,
	publisher *pubsub.Publisher,
	cfg *config.Config,
) *PaymentService {
	return &PaymentService{
		paymentRepo: paymentRepo,
		userRepo:    userRepo,
		subService:  subService,
		queue:       q,
		publisher:   publisher,
		cfg:         cfg,
	}
}

// Submit 提交转账凭据，进入 pending 等待人工审核
func (s *PaymentService) Submit(userID int64, req *dto.SubmitPaymentRequest) (*dto.SubmitPaymentResponse, error) {
	// 先做语法校验，不合法的哈希不落库
	result := blockchain.ValidateTxHash(req.TxHash)
	if !result.Valid {
		return nil, &TxHashError{Message: result.Error}
	}
	txHash := strings.TrimSpace(req.TxHash)

	if !blockchain.IsSupportedChain(req.Chain) {
		return nil, ErrUnsupportedChain
	}

	// amount 按套餐价格表固定，不信任客户端
	plan, ok := s.cfg.Subscription.Plans[model.PlanPro]
	if !ok {
		return nil, ErrUnsupportedPlan
	}

	// 先查重给出明确提示，并发窗口由唯一索引兜底
	exists, err := s.paymentRepo.ExistsByTxHash(txHash)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrDuplicateTxHash
	}

	payment := &model.PaymentSubmission{
		UserID:      userID,
		Plan:        model.PlanPro,
		Chain:       req.Chain,
		Stablecoin:  req.Stablecoin,
		TxHash:      txHash,
		Amount:      plan.Price,
		Status:      model.PaymentPending,
		SubmittedAt: time.Now(),
	}

	// 同一笔链上转账只认一次
	if err := s.paymentRepo.Create(payment); err != nil {
		if repository.IsDuplicateKeyError(err) {
			return nil, ErrDuplicateTxHash
		}
		return nil, err
	}

	s.notify(queue.NotifyPaymentSubmitted, payment.ID, userID)
	s.publish(&pubsub.EventMessage{
		Type:      pubsub.EventPaymentSubmitted,
		UserID:    userID,
		PaymentID: payment.ID,
		Plan:      payment.Plan,
		Status:    payment.Status,
	})

	return &dto.SubmitPaymentResponse{
		SubmissionID: payment.ID,
		Status:       payment.Status,
		Amount:       payment.Amount,
	}, nil
}

// Review 管理员审核：verified 开通/续期订阅，rejected 仅记录原因。
// 状态守卫更新保证并发审核下至多一次转移成功。
func (s *PaymentService) Review(paymentID, adminID int64, req *dto.VerifyPaymentRequest) error {
	// 中间件已拦截非管理员，这里查库再核一次
	reviewer, err := s.userRepo.GetByID(adminID)
	if err != nil || !reviewer.IsAdmin {
		return ErrNotAdmin
	}

	payment, err := s.paymentRepo.GetByID(paymentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrPaymentNotFound
		}
		return err
	}
	if payment.Status != model.PaymentPending {
		return ErrAlreadyProcessed
	}

	var notes *string
	trimmed := strings.TrimSpace(req.Notes)
	if trimmed != "" {
		notes = &trimmed
	}

	switch req.Action {
	case model.PaymentVerified:
		rows, err := s.paymentRepo.UpdateStatusIfPending(paymentID, model.PaymentVerified, adminID, notes)
		if err != nil {
			return err
		}
		if rows == 0 {
			return ErrAlreadyProcessed
		}

		// 审核通过后开通或续期订阅
		if err := s.subService.ActivateOrExtend(payment.UserID, payment.Plan); err != nil {
			log.Printf("Payment %d verified but subscription activation failed: %v", paymentID, err)
			return err
		}

		s.notify(queue.NotifyPaymentVerified, paymentID, payment.UserID)
		s.publish(&pubsub.EventMessage{
			Type:      pubsub.EventPaymentVerified,
			UserID:    payment.UserID,
			PaymentID: paymentID,
			Plan:      payment.Plan,
			Status:    model.PaymentVerified,
		})
		return nil

	case model.PaymentRejected:
		// 拒绝必须带原因
		if notes == nil {
			return ErrNotesRequired
		}
		rows, err := s.paymentRepo.UpdateStatusIfPending(paymentID, model.PaymentRejected, adminID, notes)
		if err != nil {
			return err
		}
		if rows == 0 {
			return ErrAlreadyProcessed
		}

		s.notify(queue.NotifyPaymentRejected, paymentID, payment.UserID)
		s.publish(&pubsub.EventMessage{
			Type:      pubsub.EventPaymentRejected,
			UserID:    payment.UserID,
			PaymentID: paymentID,
			Plan:      payment.Plan,
			Status:    model.PaymentRejected,
		})
		return nil

	default:
		return ErrInvalidAction
	}
}

// History 提交者自己的支付历史，按提交时间倒序
func (s *PaymentService) History(userID int64) ([]*dto.PaymentItem, error) {
	payments, err := s.paymentRepo.ListByUser(userID)
	if err != nil {
		return nil, err
	}

	items := make([]*dto.PaymentItem, 0, len(payments))
	for _, p := range payments {
		items = append(items, s.toPaymentItem(p))
	}
	return items, nil
}

// ListPending 管理端待审核队列，附带提交者信息
func (s *PaymentService) ListPending() ([]*dto.PendingPaymentItem, error) {
	pending, err := s.paymentRepo.ListPendingWithUser()
	if err != nil {
		return nil, err
	}

	items := make([]*dto.PendingPaymentItem, 0, len(pending))
	for _, p := range pending {
		items = append(items, &dto.PendingPaymentItem{
			PaymentItem: *s.toPaymentItem(&p.PaymentSubmission),
			UserID:      p.UserID,
			UserEmail:   p.UserEmail,
		})
	}
	return items, nil
}

func (s *PaymentService) CountPending() (int64, error) {
	return s.paymentRepo.CountPending()
}

func (s *PaymentService) toPaymentItem(p *model.PaymentSubmission) *dto.PaymentItem {
	item := &dto.PaymentItem{
		ID:          p.ID,
		Plan:        p.Plan,
		Chain:       p.Chain,
		Stablecoin:  p.Stablecoin,
		TxHash:      p.TxHash,
		ExplorerURL: blockchain.ExplorerTxURL(p.Chain, p.TxHash),
		Amount:      p.Amount,
		Status:      p.Status,
		SubmittedAt: p.SubmittedAt.Format(time.RFC3339),
	}
	if p.VerifiedAt != nil {
		item.VerifiedAt = p.VerifiedAt.Format(time.RFC3339)
	}
	if p.VerificationNotes != nil {
		item.VerificationNotes = *p.VerificationNotes
	}
	return item
}

// notify 入队异步通知，失败只记日志不影响主流程
func (s *PaymentService) notify(notifyType string, paymentID, userID int64) {
	if s.queue == nil {
		return
	}
	err := s.queue.Push(context.Background(), &queue.NotificationMessage{
		Type:      notifyType,
		PaymentID: paymentID,
		UserID:    userID,
	})
	if err != nil {
		log.Printf("Failed to enqueue %s notification for payment %d: %v", notifyType, paymentID, err)
	}
}

func (s *PaymentService) publish(msg *pubsub.EventMessage) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.PublishEvent(context.Background(), msg); err != nil {
		log.Printf("Failed to publish %s event: %v", msg.Type, err)
	}
}

// TxHashError 交易哈希格式错误，携带面向用户的具体提示
type TxHashError struct {
	Message string
}

func (e *TxHashError) Error() string {
	return e.Message
}
