package cron

import (
	"context"
	"log"
	"time"

	"github.com/context8/context8-server/internal/service"
)

type Service struct {
	quotaService *service.QuotaService
	subService   *service.SubscriptionService
	reportSvc    *service.ReportService
	stopChan     chan struct{}
}

func NewService(
	quotaService *service.QuotaService,
	subService *service.SubscriptionService,
	reportSvc *service.ReportService,
) *Service {
	return &Service{
		quotaService: quotaService,
		subService:   subService,
		reportSvc:    reportSvc,
		stopChan:     make(chan struct{}),
	}
}

// Start 启动定时任务
func (s *Service) Start() {
	go s.runDailyTasks()
	go s.runHourlySweep()
	log.Println("Cron service started (quota reset + expiry sweep + daily report)")
}

// Stop 停止定时任务
func (s *Service) Stop() {
	close(s.stopChan)
	log.Println("Cron service stopped")
}

// runDailyTasks 每日 UTC 零点任务：配额重置、到期提醒、生成日报
func (s *Service) runDailyTasks() {
	now := time.Now().UTC()
	nextMidnight := time.Date(now.Year(), now.Month(), now.Day()+1, 0, 0, 0, 0, time.UTC)
	timer := time.NewTimer(nextMidnight.Sub(now))

	for {
		select {
		case <-s.stopChan:
			timer.Stop()
			return
		case <-timer.C:
			s.runDaily()
			timer.Reset(24 * time.Hour)
		}
	}
}

func (s *Service) runDaily() {
	log.Println("Starting daily quota reset...")
	if err := s.quotaService.ResetAllQuotas(); err != nil {
		log.Printf("Failed to reset daily quotas: %v", err)
	} else {
		log.Println("Daily quota reset completed")
	}

	enqueued, err := s.subService.EnqueueExpiryReminders()
	if err != nil {
		log.Printf("Failed to enqueue expiry reminders: %v", err)
	} else if enqueued > 0 {
		log.Printf("Enqueued %d expiry reminders", enqueued)
	}

	s.generateDailyReport()
}

func (s *Service) generateDailyReport() {
	if s.reportSvc == nil {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	reportDate := service.Today()
	if _, err := s.reportSvc.Generate(ctx, reportDate); err != nil {
		log.Printf("Failed to generate daily report for %s: %v", reportDate, err)
		return
	}
	log.Printf("Daily report generated for %s", reportDate)
}

// runHourlySweep 每小时清扫过了宽限期的订阅
func (s *Service) runHourlySweep() {
	ticker := time.NewTicker(1 * time.Hour)
	defer ticker.Stop()

	for {
		select {
		case <-s.stopChan:
			return
		case <-ticker.C:
			s.sweepExpired()
		}
	}
}

func (s *Service) sweepExpired() {
	swept, err := s.subService.SweepExpired()
	if err != nil {
		log.Printf("Failed to sweep expired subscriptions: %v", err)
		return
	}
	if swept > 0 {
		log.Printf("Expired %d subscriptions past grace period", swept)
	}
}

// RunNow 立即执行每日任务（手动触发用）
func (s *Service) RunNow() {
	s.runDaily()
	s.sweepExpired()
}
