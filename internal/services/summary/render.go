package summary

import (
	"strconv"
	"strings"

	"github.com/ternarybob/marketbrief/internal/models"
	pkgmodels "github.com/ternarybob/marketbrief/pkg/models"
)

// NoDataMarker replaces an empty table so a degraded section is still a
// complete, well-formed piece of the report.
const NoDataMarker = "No data."

var (
	sectorHeaders  = []string{"name", "change_pct", "leader_stock", "leader_change_pct", "up_count", "unchanged_count", "down_count"}
	earningHeaders = []string{"symbol", "name", "reportDate", "estimateEPS", "estimateCurrency"}
	ipoHeaders     = []string{"symbol", "name", "ipoDate", "priceRange", "currency"}
)

// RenderText renders the summary as a human-readable markdown report with a
// fixed section order: sectors, earnings, IPOs. Pure function of the summary.
func (s *Service) RenderText(summary *models.DailySummary) string {
	var b strings.Builder

	b.WriteString("🔥 Top Sector Details\n")
	b.WriteString(markdownTable(sectorHeaders, sectorRows(summary.Sectors)))
	b.WriteString("\n\n")

	b.WriteString("📅 Earnings & IPOs for ")
	b.WriteString(strings.Join(summary.Window.ISOStrings(), ", "))
	b.WriteString("\n\n")

	b.WriteString("🧾 Earnings\n")
	b.WriteString(markdownTable(earningHeaders, earningRows(summary.Earnings)))
	b.WriteString("\n\n")

	b.WriteString("🆕 IPOs\n")
	b.WriteString(markdownTable(ipoHeaders, ipoRows(summary.IPOs)))

	return b.String()
}

// BuildPayload renders the summary as the structured payload. Pure data
// transform: the same summary always yields the same payload.
func (s *Service) BuildPayload(summary *models.DailySummary) *pkgmodels.SummaryPayload {
	payload := &pkgmodels.SummaryPayload{
		Dates:    summary.Window.ISOStrings(),
		Sectors:  make([]pkgmodels.SectorPayload, 0, len(summary.Sectors)),
		Earnings: make([]pkgmodels.EarningPayload, 0, len(summary.Earnings)),
		IPOs:     make([]pkgmodels.IPOPayload, 0, len(summary.IPOs)),
	}

	for _, sector := range summary.Sectors {
		payload.Sectors = append(payload.Sectors, pkgmodels.SectorPayload{
			Name:            sector.Name,
			ChangePct:       sector.ChangePct,
			LeaderStock:     sector.LeaderName,
			LeaderChangePct: sector.LeaderChangePct,
			UpCount:         sector.UpCount,
			UnchangedCount:  sector.UnchangedCount,
			DownCount:       sector.DownCount,
		})
	}

	for _, event := range summary.Earnings {
		payload.Earnings = append(payload.Earnings, pkgmodels.EarningPayload{
			Symbol:           event.Symbol,
			Name:             event.Name,
			ReportDate:       event.EventDate.Format("2006-01-02"),
			FiscalDateEnding: event.FiscalDateEnding,
			EstimateEPS:      event.EstimateEPS,
			EstimateCurrency: event.EstimateCurrency,
		})
	}

	for _, event := range summary.IPOs {
		payload.IPOs = append(payload.IPOs, pkgmodels.IPOPayload{
			Symbol:     event.Symbol,
			Name:       event.Name,
			IPODate:    event.EventDate.Format("2006-01-02"),
			PriceRange: event.PriceRange,
			Currency:   event.Currency,
		})
	}

	return payload
}

// markdownTable renders a header row, a separator row and one row per
// record. An empty row set renders the NoDataMarker instead of a bare
// table skeleton.
func markdownTable(headers []string, rows [][]string) string {
	if len(rows) == 0 {
		return NoDataMarker
	}

	var b strings.Builder
	b.WriteString("| " + strings.Join(headers, " | ") + " |\n")

	separators := make([]string, len(headers))
	for i := range separators {
		separators[i] = "---"
	}
	b.WriteString("| " + strings.Join(separators, " | ") + " |")

	for _, row := range rows {
		b.WriteString("\n| " + strings.Join(row, " | ") + " |")
	}

	return b.String()
}

func sectorRows(sectors []models.SectorRecord) [][]string {
	rows := make([][]string, 0, len(sectors))
	for _, s := range sectors {
		rows = append(rows, []string{
			s.Name,
			s.ChangePct,
			s.LeaderName,
			s.LeaderChangePct,
			countCell(s.UpCount),
			countCell(s.UnchangedCount),
			countCell(s.DownCount),
		})
	}
	return rows
}

func earningRows(events []models.CalendarEvent) [][]string {
	rows := make([][]string, 0, len(events))
	for _, e := range events {
		rows = append(rows, []string{
			e.Symbol,
			e.Name,
			e.EventDate.Format("2006-01-02"),
			e.EstimateEPS,
			e.EstimateCurrency,
		})
	}
	return rows
}

func ipoRows(events []models.CalendarEvent) [][]string {
	rows := make([][]string, 0, len(events))
	for _, e := range events {
		rows = append(rows, []string{
			e.Symbol,
			e.Name,
			e.EventDate.Format("2006-01-02"),
			e.PriceRange,
			e.Currency,
		})
	}
	return rows
}

// countCell renders a nullable count. A nil count is an empty cell, never
// literal null text.
func countCell(n *int) string {
	if n == nil {
		return ""
	}
	return strconv.Itoa(*n)
}
