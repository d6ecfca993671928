// Package models defines the externally consumable payload types emitted by
// marketbrief, suitable for downstream automation (n8n flows, rich embeds).
package models

// SummaryPayload is the machine-consumable rendering of a daily summary.
// All dates are ISO-8601 calendar-date strings. Building the payload is a
// pure transform: the same summary always yields the same payload.
type SummaryPayload struct {
	Dates    []string         `json:"dates"`
	Sectors  []SectorPayload  `json:"top_sectors_details"`
	Earnings []EarningPayload `json:"earnings"`
	IPOs     []IPOPayload     `json:"ipos"`
}

// SectorPayload mirrors one scraped sector block
type SectorPayload struct {
	Name            string `json:"name"`
	ChangePct       string `json:"change_pct"`
	LeaderStock     string `json:"leader_stock"`
	LeaderChangePct string `json:"leader_change_pct"`
	UpCount         *int   `json:"up_count"`
	UnchangedCount  *int   `json:"unchanged_count"`
	DownCount       *int   `json:"down_count"`
}

// EarningPayload mirrors one earnings calendar entry
type EarningPayload struct {
	Symbol           string `json:"symbol"`
	Name             string `json:"name"`
	ReportDate       string `json:"reportDate"`
	FiscalDateEnding string `json:"fiscalDateEnding"`
	EstimateEPS      string `json:"estimateEPS"`
	EstimateCurrency string `json:"estimateCurrency"`
}

// IPOPayload mirrors one IPO calendar entry
type IPOPayload struct {
	Symbol     string `json:"symbol"`
	Name       string `json:"name"`
	IPODate    string `json:"ipoDate"`
	PriceRange string `json:"priceRange"`
	Currency   string `json:"currency"`
}
