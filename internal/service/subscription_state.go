package service

import (
	"fmt"
	"time"

	"github.com/context8/context8-server/internal/model"
)

// 订阅状态求值器：纯函数，不做任何 I/O。
// 传入订阅记录（可为 nil）与当前时间，推导展示层和鉴权层需要的状态。

const (
	// DefaultGraceHours 到期后的宽限期
	DefaultGraceHours = 48
	// DefaultDurationDays 单次订阅时长
	DefaultDurationDays = 30
	// ExpiringSoonDays 到期提醒阈值
	ExpiringSoonDays = 7
)

// DaysRemaining 剩余天数，不足一天按一天算，最小为 0
func DaysRemaining(sub *model.Subscription, now time.Time) int {
	if sub == nil {
		return 0
	}
	remaining := sub.EndDate.Sub(now)
	if remaining <= 0 {
		return 0
	}
	days := int(remaining / (24 * time.Hour))
	if remaining%(24*time.Hour) > 0 {
		days++
	}
	return days
}

// InGracePeriod 是否处于宽限期：严格开区间 (endDate, endDate+grace)。
// 恰好等于 endDate 算未到期，恰好等于 endDate+grace 算彻底过期。
func InGracePeriod(sub *model.Subscription, now time.Time, graceHours int) bool {
	if sub == nil {
		return false
	}
	graceEnd := sub.EndDate.Add(time.Duration(graceHours) * time.Hour)
	return now.After(sub.EndDate) && now.Before(graceEnd)
}

// IsActive 展示层活跃判断：只看日期，不看管理状态位
func IsActive(sub *model.Subscription, now time.Time, graceHours int) bool {
	if sub == nil {
		return false
	}
	return now.Before(sub.EndDate) || InGracePeriod(sub, now, graceHours)
}

// IsExpired 展示层过期判断
func IsExpired(sub *model.Subscription, now time.Time, graceHours int) bool {
	return !IsActive(sub, now, graceHours)
}

// IsUsable 付费功能的唯一鉴权口径：要求管理状态为 active 且未超过宽限期。
// 比 IsActive 严格（IsActive 忽略 status 位，仅用于前端展示）。
func IsUsable(sub *model.Subscription, now time.Time, graceHours int) bool {
	if sub == nil {
		return false
	}
	if sub.Status != model.SubscriptionActive {
		return false
	}
	graceEnd := sub.EndDate.Add(time.Duration(graceHours) * time.Hour)
	return now.Before(graceEnd)
}

// IsExpiringSoon 是否即将到期（7 天内且尚未到期）
func IsExpiringSoon(sub *model.Subscription, now time.Time) bool {
	if sub == nil {
		return false
	}
	if !now.Before(sub.EndDate) {
		return false
	}
	return DaysRemaining(sub, now) <= ExpiringSoonDays
}

// StatusMessage 订阅状态的人类可读描述
func StatusMessage(sub *model.Subscription, now time.Time, graceHours int) string {
	if sub == nil {
		return "No active subscription"
	}
	if InGracePeriod(sub, now, graceHours) {
		return "Subscription expired - grace period active"
	}
	if !IsActive(sub, now, graceHours) {
		return "Subscription expired"
	}
	days := DaysRemaining(sub, now)
	if days <= ExpiringSoonDays {
		if days == 1 {
			return "Subscription expires in 1 day"
		}
		return fmt.Sprintf("Subscription expires in %d days", days)
	}
	return "Subscription active"
}

// ExtendedEndDate 续期后的到期时间：从 now 与当前 endDate 的较晚者起算，
// 提前续费不吞掉剩余的已付时长
func ExtendedEndDate(current *model.Subscription, now time.Time, durationDays int) time.Time {
	base := now
	if current != nil && current.EndDate.After(now) {
		base = current.EndDate
	}
	return base.AddDate(0, 0, durationDays)
}
