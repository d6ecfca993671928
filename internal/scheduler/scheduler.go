// -----------------------------------------------------------------------
// Scheduler Service - fires the daily summary job at a configured local
// time. Runs are serialized: a trigger that lands while a run is in
// flight is dropped, never queued.
// -----------------------------------------------------------------------

package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/ternarybob/arbor"

	"github.com/ternarybob/marketbrief/internal/common"
	"github.com/ternarybob/marketbrief/internal/interfaces"
)

// Job is the work the scheduler fires once per day
type Job func(ctx context.Context) error

// Service implements interfaces.SchedulerService
type Service struct {
	hour     int
	minute   int
	location *time.Location
	job      Job
	logger   arbor.ILogger

	cron    *cron.Cron
	entryID cron.EntryID

	mu       sync.Mutex
	wg       sync.WaitGroup
	running  bool
	inFlight bool

	ctx    context.Context
	cancel context.CancelFunc
}

var _ interfaces.SchedulerService = (*Service)(nil)

// NewService creates a scheduler firing job daily at hour:minute in the
// given zone. An unknown zone falls back to UTC.
func NewService(timeZone string, hour, minute int, job Job, logger arbor.ILogger) *Service {
	location, err := time.LoadLocation(timeZone)
	if err != nil {
		logger.Warn().
			Str("timezone", timeZone).
			Err(err).
			Msg("Unknown time zone, scheduler falling back to UTC")
		location = time.UTC
	}

	return &Service{
		hour:     hour,
		minute:   minute,
		location: location,
		job:      job,
		logger:   logger,
	}
}

// Start registers the daily job and starts the cron loop
func (s *Service) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.running {
		return fmt.Errorf("scheduler already running")
	}

	s.ctx, s.cancel = context.WithCancel(context.Background())
	s.cron = cron.New(cron.WithLocation(s.location))

	cronExpr := fmt.Sprintf("%d %d * * *", s.minute, s.hour)
	entryID, err := s.cron.AddFunc(cronExpr, s.fire)
	if err != nil {
		return fmt.Errorf("failed to add cron job: %w", err)
	}
	s.entryID = entryID

	s.cron.Start()
	s.running = true

	s.logger.Info().
		Str("cron_expr", cronExpr).
		Str("timezone", s.location.String()).
		Msg("Scheduler started")
	return nil
}

// Stop halts the scheduler and waits for an in-flight run to finish
func (s *Service) Stop() error {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return nil
	}
	s.running = false
	cancel := s.cancel
	stopCtx := s.cron.Stop()
	s.mu.Unlock()

	cancel()
	<-stopCtx.Done()
	s.wg.Wait()

	s.logger.Info().Msg("Scheduler stopped")
	return nil
}

// TriggerNow runs the daily job immediately. Returns false when a run is
// already in flight.
func (s *Service) TriggerNow() bool {
	s.mu.Lock()
	if !s.running || s.inFlight {
		s.mu.Unlock()
		return false
	}
	s.inFlight = true
	s.wg.Add(1)
	ctx := s.ctx
	s.mu.Unlock()

	common.SafeGo(s.logger, "manual-trigger", func() {
		defer s.wg.Done()
		s.run(ctx, "manual")
	})
	return true
}

// NextRun returns the next scheduled fire time, zero when stopped
func (s *Service) NextRun() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.running {
		return time.Time{}
	}
	return s.cron.Entry(s.entryID).Next
}

// IsRunning returns true while the scheduler is active
func (s *Service) IsRunning() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.running
}

// fire is the cron callback. A fire that lands during an in-flight run
// is dropped.
func (s *Service) fire() {
	s.mu.Lock()
	if !s.running || s.inFlight {
		skipped := s.inFlight
		s.mu.Unlock()
		if skipped {
			s.logger.Warn().Msg("Previous run still in flight, skipping scheduled fire")
		}
		return
	}
	s.inFlight = true
	s.wg.Add(1)
	ctx := s.ctx
	s.mu.Unlock()

	defer s.wg.Done()
	s.run(ctx, "scheduled")
}

func (s *Service) run(ctx context.Context, trigger string) {
	defer func() {
		s.mu.Lock()
		s.inFlight = false
		s.mu.Unlock()
	}()

	started := time.Now()
	s.logger.Info().Str("trigger", trigger).Msg("Daily summary job starting")

	if err := s.job(ctx); err != nil {
		s.logger.Error().
			Str("trigger", trigger).
			Err(err).
			Msg("Daily summary job failed")
		return
	}

	s.logger.Info().
		Str("trigger", trigger).
		Str("elapsed", time.Since(started).Round(time.Millisecond).String()).
		Msg("Daily summary job completed")
}
