package service

import (
	"log"
	"time"

	"github.com/go-co-op/gocron/v2"
	"github.com/liverool/volleymate/internal/repository"
)

// Scheduler runs the housekeeping jobs: closing out stale requests and
// purging dead tokens.
type Scheduler struct {
	requestRepo repository.RequestRepositoryInterface
	refreshRepo repository.RefreshTokenRepositoryInterface
	oneTimeRepo repository.OneTimeTokenRepositoryInterface
	sched       gocron.Scheduler
}

func NewScheduler(
	requestRepo repository.RequestRepositoryInterface,
	refreshRepo repository.RefreshTokenRepositoryInterface,
	oneTimeRepo repository.OneTimeTokenRepositoryInterface,
) *Scheduler {
	return &Scheduler{
		requestRepo: requestRepo,
		refreshRepo: refreshRepo,
		oneTimeRepo: oneTimeRepo,
	}
}

func (s *Scheduler) Start() error {
	sched, err := gocron.NewScheduler()
	if err != nil {
		return err
	}
	s.sched = sched

	// Every 10 minutes: open requests whose start time is long past are
	// moved to "done" so the open listing stays honest.
	_, err = sched.NewJob(
		gocron.DurationJob(10*time.Minute),
		gocron.NewTask(s.expireStaleRequests),
	)
	if err != nil {
		return err
	}

	// Hourly: purge expired and revoked tokens.
	_, err = sched.NewJob(
		gocron.DurationJob(1*time.Hour),
		gocron.NewTask(s.purgeDeadTokens),
	)
	if err != nil {
		return err
	}

	sched.Start()
	return nil
}

func (s *Scheduler) Stop() {
	if s.sched != nil {
		_ = s.sched.Shutdown()
	}
}

func (s *Scheduler) expireStaleRequests() {
	cutoff := time.Now().Add(-24 * time.Hour)
	n, err := s.requestRepo.ExpireOpenBefore(cutoff)
	if err != nil {
		log.Printf("[scheduler] expire stale requests: %v", err)
		return
	}
	if n > 0 {
		log.Printf("[scheduler] marked %d stale requests done", n)
	}
}

func (s *Scheduler) purgeDeadTokens() {
	now := time.Now()
	if _, err := s.refreshRepo.DeleteExpired(now); err != nil {
		log.Printf("[scheduler] purge refresh tokens: %v", err)
	}
	if _, err := s.oneTimeRepo.DeleteExpired(now); err != nil {
		log.Printf("[scheduler] purge one-time tokens: %v", err)
	}
}
