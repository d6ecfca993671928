package models

import (
	"time"

	"github.com/ternarybob/marketbrief/internal/common"
)

// EventKind distinguishes calendar event types
type EventKind string

const (
	EventKindEarnings EventKind = "earnings"
	EventKindIPO      EventKind = "ipo"
)

// CalendarEvent represents one earnings-report or IPO entry from the
// calendar feed. Estimate and price fields keep the raw feed text because
// formatting varies by listing.
type CalendarEvent struct {
	Kind      EventKind `json:"kind"`
	Symbol    string    `json:"symbol"`
	Name      string    `json:"name"`
	EventDate time.Time `json:"event_date"`

	// Earnings fields
	FiscalDateEnding string `json:"fiscal_date_ending,omitempty"`
	EstimateEPS      string `json:"estimate_eps,omitempty"`
	EstimateCurrency string `json:"estimate_currency,omitempty"`

	// IPO fields
	PriceRange string `json:"price_range,omitempty"`
	Currency   string `json:"currency,omitempty"`
}

// SectorRecord is one scraped sector block. Every field except Name is
// best-effort: a missing DOM node leaves the field empty (or nil for the
// breadth counts) without invalidating the record.
type SectorRecord struct {
	Name            string `json:"name"`
	ChangePct       string `json:"change_pct"`
	LeaderName      string `json:"leader_name"`
	LeaderChangePct string `json:"leader_change_pct"`
	UpCount         *int   `json:"up_count"`
	UnchangedCount  *int   `json:"unchanged_count"`
	DownCount       *int   `json:"down_count"`
}

// DailySummary is the aggregate produced by one summary run. Sections are
// independently empty when their source failed or matched nothing; an empty
// section never invalidates the summary.
type DailySummary struct {
	Window   common.DateWindow
	Sectors  []SectorRecord
	Earnings []CalendarEvent
	IPOs     []CalendarEvent
}

// StockQuote holds the latest close for one symbol. Last is nil when the
// quote source had no data for the symbol.
type StockQuote struct {
	Symbol string   `json:"symbol"`
	Last   *float64 `json:"last"`
}
