package interfaces

import (
	"context"

	"github.com/ternarybob/marketbrief/internal/common"
	"github.com/ternarybob/marketbrief/internal/models"
)

// CalendarService exposes typed queries over the financial-events calendar
// feed. Implementations never propagate source failures: a transport or
// parse error degrades to an empty result for that query.
type CalendarService interface {
	// FetchEarnings returns earnings events whose report date falls inside
	// the window, bounds included. A nil window defaults to the next 7 days.
	FetchEarnings(ctx context.Context, window *common.DateWindow, symbol string) []models.CalendarEvent

	// FetchIPOs returns IPO events whose listing date falls inside the
	// window, bounds included. A nil window defaults to the next 7 days.
	FetchIPOs(ctx context.Context, window *common.DateWindow) []models.CalendarEvent
}
