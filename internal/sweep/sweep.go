// Package sweep reminds employees and their managers about skills that
// are about to lapse. It is a read-plus-notify pass; refreshing the
// skill is up to the employee.
package sweep

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"competency-hub/internal/notify"
	"competency-hub/internal/repository"
)

// Window is how far ahead of today the sweep looks. Already-expired
// entries are always included.
const Window = 30 * 24 * time.Hour

type Sweeper struct {
	ledger   repository.EmployeeSkillRepository
	notifier notify.Sink
	logger   *log.Logger

	now func() time.Time
}

func NewSweeper(ledger repository.EmployeeSkillRepository, notifier notify.Sink, logger *log.Logger) *Sweeper {
	if logger == nil {
		logger = log.Default()
	}
	return &Sweeper{
		ledger:   ledger,
		notifier: notifier,
		logger:   logger,
		now:      time.Now,
	}
}

// Run notifies the employee and their manager for every ledger entry
// expiring inside the window. It returns the number of notifications
// sent.
func (s *Sweeper) Run(ctx context.Context) (int, error) {
	now := s.now()
	until := now.Add(Window)

	entries, err := s.ledger.ListExpiring(ctx, until)
	if err != nil {
		return 0, fmt.Errorf("sweep: list expiring skills: %w", err)
	}

	sent := 0
	for _, e := range entries {
		var text string
		if e.ExpiresOn.Before(now) {
			text = fmt.Sprintf("%s's %s skill expired on %s and needs re-assessment.",
				e.EmployeeName, e.SkillName, e.ExpiresOn.Format("2006-01-02"))
		} else {
			text = fmt.Sprintf("%s's %s skill expires on %s.",
				e.EmployeeName, e.SkillName, e.ExpiresOn.Format("2006-01-02"))
		}

		if e.UserID != nil {
			s.notifier.Notify(ctx, *e.UserID, text)
			sent++
		}
		// A manager who owns the ledger row's user account gets one
		// reminder, not two.
		if e.ManagerUserID != nil && (e.UserID == nil || *e.ManagerUserID != *e.UserID) {
			s.notifier.Notify(ctx, *e.ManagerUserID, text)
			sent++
		}
	}

	s.logger.Printf("[Sweep] entries=%d notifications=%d window_until=%s", len(entries), sent, until.Format("2006-01-02"))
	return sent, nil
}

// Scheduler runs the sweeper on a fixed interval. A tick that lands
// while a sweep is still running is skipped rather than queued.
type Scheduler struct {
	sweeper  *Sweeper
	interval time.Duration
	logger   *log.Logger

	mu sync.Mutex
}

func NewScheduler(sweeper *Sweeper, interval time.Duration, logger *log.Logger) *Scheduler {
	if interval <= 0 {
		interval = 24 * time.Hour
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Scheduler{sweeper: sweeper, interval: interval, logger: logger}
}

// Start blocks until ctx is cancelled. Callers run it in a goroutine.
func (s *Scheduler) Start(ctx context.Context) {
	t := time.NewTicker(s.interval)
	defer t.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			s.tick(ctx)
		}
	}
}

func (s *Scheduler) tick(ctx context.Context) {
	if !s.mu.TryLock() {
		s.logger.Printf("[Sweep] previous run still in progress, skipping tick")
		return
	}
	defer s.mu.Unlock()

	if _, err := s.sweeper.Run(ctx); err != nil {
		s.logger.Printf("[Sweep] run failed: %v", err)
	}
}
