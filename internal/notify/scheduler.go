package notify

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"teachtime/internal/models"
)

// SchedulerConfig holds configuration for the daemon reminder loop.
type SchedulerConfig struct {
	// CheckInterval is how often the selector window is evaluated.
	// Default: 1 minute.
	CheckInterval time.Duration
	// Location is the timezone reminder times are configured in.
	Location *time.Location
	// Channel restricts the daemon to one channel; empty means all.
	Channel models.Channel
}

// Scheduler runs the dispatcher periodically, deduplicating so each user
// receives at most one scheduled reminder per day even though the tolerance
// window spans several ticks.
type Scheduler struct {
	config     SchedulerConfig
	dispatcher *Dispatcher
	dedupe     Deduper
	logger     *zerolog.Logger
	mu         sync.Mutex
	running    bool
	stopCh     chan struct{}
	wg         sync.WaitGroup
}

// NewScheduler creates the daemon scheduler. dedupe may be nil, in which
// case an in-memory deduper is used.
func NewScheduler(config SchedulerConfig, dispatcher *Dispatcher, dedupe Deduper, logger *zerolog.Logger) *Scheduler {
	if config.CheckInterval == 0 {
		config.CheckInterval = time.Minute
	}
	if config.Location == nil {
		config.Location = time.UTC
	}
	if dedupe == nil {
		dedupe = NewMemoryDeduper()
	}

	return &Scheduler{
		config:     config,
		dispatcher: dispatcher,
		dedupe:     dedupe,
		logger:     logger,
		stopCh:     make(chan struct{}),
	}
}

// Start begins the check loop. Returns immediately; use Stop or cancel the
// context to shut down.
func (s *Scheduler) Start(ctx context.Context) {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		return
	}
	s.running = true
	s.mu.Unlock()

	s.wg.Add(1)
	go s.loop(ctx)

	if s.logger != nil {
		s.logger.Info().
			Dur("check_interval", s.config.CheckInterval).
			Str("timezone", s.config.Location.String()).
			Msg("reminder scheduler started")
	}
}

// Stop gracefully stops the scheduler.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return
	}
	s.running = false
	s.mu.Unlock()

	close(s.stopCh)
	s.wg.Wait()

	if s.logger != nil {
		s.logger.Info().Msg("reminder scheduler stopped")
	}
}

func (s *Scheduler) loop(ctx context.Context) {
	defer s.wg.Done()

	// Run immediately on start, then on every tick.
	s.runOnce(ctx)

	ticker := time.NewTicker(s.config.CheckInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-s.stopCh:
			return
		case <-ticker.C:
			s.runOnce(ctx)
		}
	}
}

func (s *Scheduler) runOnce(ctx context.Context) {
	now := time.Now().In(s.config.Location)
	s.dispatcher.RunAt(ctx, RunOptions{Channel: s.config.Channel, Dedupe: s.dedupe}, now)
}

// IsRunning reports whether the scheduler loop is active.
func (s *Scheduler) IsRunning() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.running
}
