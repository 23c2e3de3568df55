package service

import (
	"context"
	"errors"
	"log"
	"time"

	"gorm.io/gorm"

	"github.com/context8/context8-server/config"
	"github.com/context8/context8-server/internal/model"
	"github.com/context8/context8-server/internal/model/dto"
	"github.com/context8/context8-server/internal/pkg/pubsub"
	"github.com/context8/context8-server/internal/pkg/queue"
	"github.com/context8/context8-server/internal/repository"
)

type SubscriptionService struct {
	subRepo   *repository.SubscriptionRepository
	userRepo  *repository.UserRepository
	queue     *queue.Queue
	publisher *pubsub.Publisher
	cfg       *config.Config
}

func NewSubscriptionService(
	subRepo *repository.SubscriptionRepository,
	userRepo *repository.UserRepository,
	q *queue.Queue,
	publisher *pubsub.Publisher,
	cfg *config.Config,
) *SubscriptionService {
	return &SubscriptionService{
		subRepo:   subRepo,
		userRepo:  userRepo,
		queue:     q,
		publisher: publisher,
		cfg:       cfg,
	}
}

// GetCurrent 获取用户当前有效订阅，没有返回 nil（缺失不是错误）
func (s *SubscriptionService) GetCurrent(userID int64) (*model.Subscription, error) {
	sub, err := s.subRepo.GetCurrentByUser(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return sub, nil
}

// GetMySubscription 当前订阅及派生状态，无订阅时 Subscription 为 null
func (s *SubscriptionService) GetMySubscription(userID int64) (*dto.MySubscriptionResponse, error) {
	sub, err := s.GetCurrent(userID)
	if err != nil {
		return nil, err
	}
	if sub == nil {
		return &dto.MySubscriptionResponse{Subscription: nil}, nil
	}

	now := time.Now()
	grace := s.cfg.Subscription.GraceHours
	info := &dto.SubscriptionInfo{
		ID:            sub.ID,
		Plan:          sub.Plan,
		Status:        sub.Status,
		StartDate:     sub.StartDate.Format(time.RFC3339),
		EndDate:       sub.EndDate.Format(time.RFC3339),
		DaysRemaining: DaysRemaining(sub, now),
		IsActive:      IsActive(sub, now, grace),
		IsGracePeriod: InGracePeriod(sub, now, grace),
		ExpiringSoon:  IsExpiringSoon(sub, now),
		StatusMessage: StatusMessage(sub, now, grace),
	}
	return &dto.MySubscriptionResponse{Subscription: info}, nil
}

// ActivateOrExtend 支付审核通过后开通或续期订阅。
// 续期从 now 与当前 endDate 的较晚者起算 30 天。
func (s *SubscriptionService) ActivateOrExtend(userID int64, plan string) error {
	now := time.Now()
	duration := s.cfg.Subscription.DurationDays

	current, err := s.GetCurrent(userID)
	if err != nil {
		return err
	}

	newEnd := ExtendedEndDate(current, now, duration)

	if current != nil {
		if err := s.subRepo.UpdateEndDate(current.ID, newEnd); err != nil {
			return err
		}
	} else {
		sub := &model.Subscription{
			UserID:    userID,
			Plan:      plan,
			Status:    model.SubscriptionActive,
			StartDate: now,
			EndDate:   newEnd,
		}
		if err := s.subRepo.Create(sub); err != nil {
			return err
		}
	}

	// 同步用户表上的套餐快照，配额中间件直接读这里
	if level, ok := s.cfg.Subscription.Plans[plan]; ok {
		if err := s.userRepo.UpdatePlan(userID, plan, level.DailyQuota); err != nil {
			return err
		}
	}

	s.publish(&pubsub.EventMessage{
		Type:   pubsub.EventSubscriptionActive,
		UserID: userID,
		Plan:   plan,
		Status: model.SubscriptionActive,
	})
	return nil
}

// SweepExpired 将过了宽限期的订阅标记为 expired，并把用户降回 free。
// 由定时任务每小时调用。
func (s *SubscriptionService) SweepExpired() (int, error) {
	graceDeadline := time.Now().Add(-time.Duration(s.cfg.Subscription.GraceHours) * time.Hour)

	subs, err := s.subRepo.ListExpiredPastGrace(graceDeadline)
	if err != nil {
		return 0, err
	}

	swept := 0
	freeQuota := 2
	if level, ok := s.cfg.Subscription.Plans[model.PlanFree]; ok {
		freeQuota = level.DailyQuota
	}

	for _, sub := range subs {
		if err := s.subRepo.UpdateStatus(sub.ID, model.SubscriptionExpired); err != nil {
			log.Printf("Failed to expire subscription %d: %v", sub.ID, err)
			continue
		}
		if err := s.userRepo.UpdatePlan(sub.UserID, model.PlanFree, freeQuota); err != nil {
			log.Printf("Failed to downgrade user %d: %v", sub.UserID, err)
		}
		s.publish(&pubsub.EventMessage{
			Type:   pubsub.EventSubscriptionExpired,
			UserID: sub.UserID,
			Plan:   sub.Plan,
			Status: model.SubscriptionExpired,
		})
		swept++
	}
	return swept, nil
}

// EnqueueExpiryReminders 为 7 天内到期的订阅入队提醒邮件
func (s *SubscriptionService) EnqueueExpiryReminders() (int, error) {
	if s.queue == nil {
		return 0, nil
	}

	now := time.Now()
	subs, err := s.subRepo.ListExpiringBetween(now, now.AddDate(0, 0, ExpiringSoonDays))
	if err != nil {
		return 0, err
	}

	enqueued := 0
	for _, sub := range subs {
		err := s.queue.Push(context.Background(), &queue.NotificationMessage{
			Type:   queue.NotifyExpiringSoon,
			UserID: sub.UserID,
		})
		if err != nil {
			log.Printf("Failed to enqueue expiry reminder for user %d: %v", sub.UserID, err)
			continue
		}
		enqueued++
	}
	return enqueued, nil
}

func (s *SubscriptionService) publish(msg *pubsub.EventMessage) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.PublishEvent(context.Background(), msg); err != nil {
		log.Printf("Failed to publish %s event: %v", msg.Type, err)
	}
}
