// -----------------------------------------------------------------------
// Summary Service - orchestrates one daily summary run: computes the date
// window, fans out to the calendar and sector sources concurrently and
// assembles the result. A failed source degrades its section to empty;
// a run never fails because one source did.
// -----------------------------------------------------------------------

package summary

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/ternarybob/arbor"

	"github.com/ternarybob/marketbrief/internal/common"
	"github.com/ternarybob/marketbrief/internal/interfaces"
	"github.com/ternarybob/marketbrief/internal/models"
)

// DefaultSourceTimeout bounds each source fetch independently
const DefaultSourceTimeout = 30 * time.Second

// Config holds the summary run parameters
type Config struct {
	TimeZone      string
	HorizonDays   int
	SourceTimeout time.Duration
	SectorsURL    string
	SectorLimit   int
}

// Service implements interfaces.SummaryService
type Service struct {
	config   Config
	calendar interfaces.CalendarService
	sectors  interfaces.SectorService
	logger   arbor.ILogger
}

// Compile-time assertion
var _ interfaces.SummaryService = (*Service)(nil)

// NewService creates a summary service over the given sources
func NewService(config Config, calendar interfaces.CalendarService, sectors interfaces.SectorService, logger arbor.ILogger) *Service {
	if config.SourceTimeout <= 0 {
		config.SourceTimeout = DefaultSourceTimeout
	}
	return &Service{
		config:   config,
		calendar: calendar,
		sectors:  sectors,
		logger:   logger,
	}
}

// Run executes one summary run. The three source fetches run concurrently,
// each under its own timeout; each goroutine owns its result variable so no
// locking is needed. Run fails only when ctx itself is cancelled, in which
// case partial results are discarded rather than merged.
func (s *Service) Run(ctx context.Context) (*models.DailySummary, error) {
	runID := uuid.NewString()
	started := time.Now()
	window := common.ComputeDateWindow(s.config.TimeZone, s.config.HorizonDays)

	s.logger.Info().
		Str("run_id", runID).
		Str("window", window.String()).
		Msg("Starting daily summary run")

	var (
		earnings []models.CalendarEvent
		ipos     []models.CalendarEvent
		sectors  []models.SectorRecord
	)

	var wg sync.WaitGroup
	wg.Add(3)

	go func() {
		defer wg.Done()
		fetchCtx, cancel := context.WithTimeout(ctx, s.config.SourceTimeout)
		defer cancel()
		earnings = s.calendar.FetchEarnings(fetchCtx, &window, "")
	}()

	go func() {
		defer wg.Done()
		fetchCtx, cancel := context.WithTimeout(ctx, s.config.SourceTimeout)
		defer cancel()
		ipos = s.calendar.FetchIPOs(fetchCtx, &window)
	}()

	go func() {
		defer wg.Done()
		fetchCtx, cancel := context.WithTimeout(ctx, s.config.SourceTimeout)
		defer cancel()

		result := <-s.sectors.FetchTopSectorsAsync(fetchCtx, s.config.SectorsURL, s.config.SectorLimit)
		if result.Err != nil {
			s.logger.Warn().
				Str("run_id", runID).
				Err(result.Err).
				Msg("Sector scrape failed, sectors section will be empty")
			sectors = []models.SectorRecord{}
			return
		}
		sectors = result.Sectors
	}()

	wg.Wait()

	if err := ctx.Err(); err != nil {
		s.logger.Warn().Str("run_id", runID).Err(err).Msg("Summary run cancelled, discarding partial results")
		return nil, err
	}

	s.logger.Info().
		Str("run_id", runID).
		Int("sectors", len(sectors)).
		Int("earnings", len(earnings)).
		Int("ipos", len(ipos)).
		Str("elapsed", time.Since(started).Round(time.Millisecond).String()).
		Msg("Daily summary run completed")

	return &models.DailySummary{
		Window:   window,
		Sectors:  sectors,
		Earnings: earnings,
		IPOs:     ipos,
	}, nil
}
