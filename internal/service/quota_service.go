package service

import (
	"errors"
	"time"

	"github.com/context8/context8-server/config"
	"github.com/context8/context8-server/internal/model"
	"github.com/context8/context8-server/internal/model/dto"
	"github.com/context8/context8-server/internal/repository"
)

var (
	ErrQuotaExceeded = errors.New("daily quota exceeded")
	ErrProRequired   = errors.New("pro subscription required")
)

type QuotaService struct {
	userRepo   *repository.UserRepository
	subService *SubscriptionService
	cfg        *config.Config
}

func NewQuotaService(userRepo *repository.UserRepository, subService *SubscriptionService, cfg *config.Config) *QuotaService {
	return &QuotaService{
		userRepo:   userRepo,
		subService: subService,
		cfg:        cfg,
	}
}

// EffectivePlan 用户的有效套餐。用户表上的 plan 只是快照，
// pro 必须有可用订阅背书（IsUsable 口径），否则按 free 处理。
func (s *QuotaService) EffectivePlan(userID int64) (string, error) {
	user, err := s.userRepo.GetByID(userID)
	if err != nil {
		return "", err
	}
	if user.Plan == model.PlanFree {
		return model.PlanFree, nil
	}

	sub, err := s.subService.GetCurrent(userID)
	if err != nil {
		return "", err
	}
	if !IsUsable(sub, time.Now(), s.cfg.Subscription.GraceHours) {
		return model.PlanFree, nil
	}
	return user.Plan, nil
}

// RequirePro 付费功能入口检查
func (s *QuotaService) RequirePro(userID int64) error {
	plan, err := s.EffectivePlan(userID)
	if err != nil {
		return err
	}
	if plan != model.PlanPro {
		return ErrProRequired
	}
	return nil
}

// CheckQuota 检查配额
func (s *QuotaService) CheckQuota(userID int64) (bool, error) {
	user, err := s.userRepo.GetByID(userID)
	if err != nil {
		return false, err
	}

	// 检查是否需要重置
	if user.QuotaResetAt != nil && time.Now().After(*user.QuotaResetAt) {
		if err := s.resetUserQuota(userID); err != nil {
			return false, err
		}
		user, _ = s.userRepo.GetByID(userID)
	}

	return user.QuotaUsedToday < s.dailyLimit(user), nil
}

// UseQuota 使用配额
func (s *QuotaService) UseQuota(userID int64) error {
	return s.userRepo.IncrementQuotaUsed(userID)
}

// dailyLimit 有效的每日上限：套餐配置优先，快照兜底
func (s *QuotaService) dailyLimit(user *model.User) int {
	if level, ok := s.cfg.Subscription.Plans[user.Plan]; ok {
		return level.DailyQuota
	}
	return user.DailyQuota
}

func (s *QuotaService) resetUserQuota(userID int64) error {
	nextReset := time.Now().Add(24 * time.Hour).Truncate(24 * time.Hour)
	return s.userRepo.ResetQuota(userID, nextReset)
}

// ResetAllQuotas 重置所有用户配额
func (s *QuotaService) ResetAllQuotas() error {
	nextReset := time.Now().Add(24 * time.Hour).Truncate(24 * time.Hour)
	return s.userRepo.ResetAllQuotas(nextReset)
}

// GetQuotaInfo 获取用户配额信息
func (s *QuotaService) GetQuotaInfo(userID int64) (*dto.QuotaInfo, error) {
	user, err := s.userRepo.GetByID(userID)
	if err != nil {
		return nil, err
	}

	// 检查是否需要重置
	if user.QuotaResetAt != nil && time.Now().After(*user.QuotaResetAt) {
		if err := s.resetUserQuota(userID); err != nil {
			return nil, err
		}
		user, _ = s.userRepo.GetByID(userID)
	}

	limit := s.dailyLimit(user)
	dailyRemain := limit - user.QuotaUsedToday
	if dailyRemain < 0 {
		dailyRemain = 0
	}

	info := &dto.QuotaInfo{
		Plan:        user.Plan,
		DailyLimit:  limit,
		DailyUsed:   user.QuotaUsedToday,
		DailyRemain: dailyRemain,
	}

	if user.QuotaResetAt != nil {
		info.ResetAt = user.QuotaResetAt.Format(time.RFC3339)
	}

	return info, nil
}
