package services

import (
	"context"
	"log"

	"github.com/robfig/cron/v3"

	"colisso/internal/adapters/persistence/repositories"
)

// CronService owns the background schedules: a nightly sweep that
// hard-deletes expired and revoked refresh tokens.
type CronService struct {
	cron             *cron.Cron
	refreshTokenRepo repositories.RefreshTokenRepository
}

// NewCronService creates a new cron service
func NewCronService(refreshTokenRepo repositories.RefreshTokenRepository) *CronService {
	return &CronService{
		cron:             cron.New(),
		refreshTokenRepo: refreshTokenRepo,
	}
}

// Start registers the schedules and starts the scheduler
func (s *CronService) Start() error {
	// Every night at 02:00
	if _, err := s.cron.AddFunc("0 2 * * *", s.purgeRefreshTokens); err != nil {
		return err
	}

	s.cron.Start()
	log.Println("⏰ Cron scheduler started")
	return nil
}

// Stop stops the scheduler and waits for running jobs
func (s *CronService) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	log.Println("⏰ Cron scheduler stopped")
}

func (s *CronService) purgeRefreshTokens() {
	deleted, err := s.refreshTokenRepo.DeleteExpired(context.Background())
	if err != nil {
		log.Printf("❌ Refresh token purge failed: %v", err)
		return
	}
	log.Printf("🧹 Purged %d stale refresh tokens", deleted)
}
