package interfaces

import (
	"context"

	"github.com/ternarybob/marketbrief/internal/models"
)

// MarketService exposes the supplemental market sources: macro indicators,
// generic news headlines and per-symbol quotes. All calls degrade to empty
// results on failure, matching the calendar and sector contracts.
type MarketService interface {
	// MacroSnapshot returns headline macro indicators
	MacroSnapshot() map[string]string

	// MarketNews returns generic market news headlines
	MarketNews() []string

	// FetchHeadlines crawls up to limit headline texts from the given page
	FetchHeadlines(ctx context.Context, pageURL string, limit int) []string

	// FetchQuotes returns the latest close for each symbol; a symbol with
	// no data is reported with a nil price rather than omitted.
	FetchQuotes(ctx context.Context, symbols []string) []models.StockQuote
}
