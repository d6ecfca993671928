// -----------------------------------------------------------------------
// Calendar Service - typed earnings/IPO queries over the Alpha Vantage feed
// Normalizes delimited rows into CalendarEvent records and filters them by
// the run's date window. Source failures degrade to empty results.
// -----------------------------------------------------------------------

package calendar

import (
	"context"
	"strings"
	"time"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/marketbrief/internal/alphavantage"
	"github.com/ternarybob/marketbrief/internal/common"
	"github.com/ternarybob/marketbrief/internal/interfaces"
	"github.com/ternarybob/marketbrief/internal/models"
)

// DefaultWindowDays is the fallback window span when no window is supplied
const DefaultWindowDays = 7

// dateLayouts are the known feed date formats, tried in order
var dateLayouts = []string{"2006-01-02", "2006/01/02"}

// Service implements interfaces.CalendarService
type Service struct {
	client  *alphavantage.Client
	horizon string
	logger  arbor.ILogger
}

// Compile-time assertion
var _ interfaces.CalendarService = (*Service)(nil)

// NewService creates a calendar service over the given client
func NewService(client *alphavantage.Client, horizon string, logger arbor.ILogger) *Service {
	return &Service{
		client:  client,
		horizon: horizon,
		logger:  logger,
	}
}

// FetchEarnings returns earnings events inside the window, bounds included.
// Any client failure is converted to an empty result here: a feed outage
// degrades the earnings section, never the run.
func (s *Service) FetchEarnings(ctx context.Context, window *common.DateWindow, symbol string) []models.CalendarEvent {
	rows, err := s.client.EarningsCalendar(ctx, s.horizon, symbol)
	if err != nil {
		s.logger.Warn().Err(err).Msg("Earnings calendar fetch failed, returning empty section")
		return []models.CalendarEvent{}
	}

	w := resolveWindow(window)
	events := make([]models.CalendarEvent, 0, len(rows))
	for _, row := range rows {
		event, ok := s.normalizeEarningsRow(row, w)
		if !ok {
			continue
		}
		events = append(events, event)
	}

	s.logger.Debug().
		Int("rows", len(rows)).
		Int("matched", len(events)).
		Str("window", w.String()).
		Msg("Earnings calendar filtered")

	return events
}

// FetchIPOs returns IPO events inside the window, bounds included. Failures
// degrade to an empty result like FetchEarnings.
func (s *Service) FetchIPOs(ctx context.Context, window *common.DateWindow) []models.CalendarEvent {
	rows, err := s.client.IPOCalendar(ctx)
	if err != nil {
		s.logger.Warn().Err(err).Msg("IPO calendar fetch failed, returning empty section")
		return []models.CalendarEvent{}
	}

	w := resolveWindow(window)
	events := make([]models.CalendarEvent, 0, len(rows))
	for _, row := range rows {
		event, ok := s.normalizeIPORow(row, w)
		if !ok {
			continue
		}
		events = append(events, event)
	}

	s.logger.Debug().
		Int("rows", len(rows)).
		Int("matched", len(events)).
		Str("window", w.String()).
		Msg("IPO calendar filtered")

	return events
}

func (s *Service) normalizeEarningsRow(row alphavantage.Row, w common.DateWindow) (models.CalendarEvent, bool) {
	date, ok := parseDate(row.Get("reportDate"))
	if !ok {
		s.logger.Debug().Str("symbol", row.Get("symbol")).Str("value", row.Get("reportDate")).Msg("Skipping earnings row with unparseable date")
		return models.CalendarEvent{}, false
	}
	if !w.Contains(date) {
		return models.CalendarEvent{}, false
	}

	return models.CalendarEvent{
		Kind:             models.EventKindEarnings,
		Symbol:           row.Get("symbol"),
		Name:             row.Get("name"),
		EventDate:        date,
		FiscalDateEnding: row.Get("fiscalDateEnding"),
		EstimateEPS:      firstColumn(row, "estimateEPS", "estimate"),
		EstimateCurrency: firstColumn(row, "estimateCurrency", "currency"),
	}, true
}

func (s *Service) normalizeIPORow(row alphavantage.Row, w common.DateWindow) (models.CalendarEvent, bool) {
	date, ok := parseDate(row.Get("ipoDate"))
	if !ok {
		s.logger.Debug().Str("symbol", row.Get("symbol")).Str("value", row.Get("ipoDate")).Msg("Skipping IPO row with unparseable date")
		return models.CalendarEvent{}, false
	}
	if !w.Contains(date) {
		return models.CalendarEvent{}, false
	}

	return models.CalendarEvent{
		Kind:       models.EventKindIPO,
		Symbol:     row.Get("symbol"),
		Name:       row.Get("name"),
		EventDate:  date,
		PriceRange: priceRange(row),
		Currency:   row.Get("currency"),
	}, true
}

// parseDate tries the known feed layouts in order. A value matching none of
// them reports false and the row is excluded, never an error.
func parseDate(value string) (time.Time, bool) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, false
	}

	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// resolveWindow applies the default [today, today+7] window when none given
func resolveWindow(window *common.DateWindow) common.DateWindow {
	if window != nil {
		return *window
	}
	return common.ComputeDateWindow("UTC", DefaultWindowDays)
}

// firstColumn returns the first named column with a non-empty value
func firstColumn(row alphavantage.Row, columns ...string) string {
	for _, col := range columns {
		if v := row.Get(col); v != "" {
			return v
		}
	}
	return ""
}

// priceRange prefers an explicit priceRange column, composing one from the
// low/high pair the feed usually ships instead.
func priceRange(row alphavantage.Row) string {
	if v := row.Get("priceRange"); v != "" {
		return v
	}

	low := row.Get("priceRangeLow")
	high := row.Get("priceRangeHigh")
	switch {
	case low != "" && high != "":
		return low + "-" + high
	case low != "":
		return low
	default:
		return high
	}
}
