package scheduler

import (
	"time"

	"github.com/jwkang/stylecart-backend/internal/app/service"
	"github.com/jwkang/stylecart-backend/pkg/logger"
	"github.com/robfig/cron/v3"
)

// CartScheduler periodically purges cart items that have not been
// touched for the configured number of days.
type CartScheduler struct {
	cron        *cron.Cron
	cartService service.CartService
	schedule    string
	staleAfter  time.Duration
}

func NewCartScheduler(cartService service.CartService, schedule string, staleDays int) *CartScheduler {
	return &CartScheduler{
		cron:        cron.New(),
		cartService: cartService,
		schedule:    schedule,
		staleAfter:  time.Duration(staleDays) * 24 * time.Hour,
	}
}

func (s *CartScheduler) Start() error {
	_, err := s.cron.AddFunc(s.schedule, func() {
		logger.Info("Starting scheduled stale cart purge", map[string]interface{}{
			"stale_after": s.staleAfter.String(),
		})

		removed, err := s.cartService.PurgeStale(s.staleAfter)
		if err != nil {
			logger.Error("Scheduled stale cart purge failed", err)
			return
		}

		logger.Info("Scheduled stale cart purge finished", map[string]interface{}{
			"removed": removed,
		})
	})

	if err != nil {
		logger.Error("Failed to add cron job for stale cart purge", err)
		return err
	}

	s.cron.Start()
	logger.Info("Cart scheduler started successfully", map[string]interface{}{
		"schedule": s.schedule,
	})

	return nil
}

func (s *CartScheduler) Stop() {
	logger.Info("Stopping cart scheduler...", nil)
	s.cron.Stop()
	logger.Info("Cart scheduler stopped", nil)
}
