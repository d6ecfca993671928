package interfaces

import (
	"context"

	"github.com/ternarybob/marketbrief/internal/models"
	pkgmodels "github.com/ternarybob/marketbrief/pkg/models"
)

// SummaryService orchestrates one daily summary run and renders the result
type SummaryService interface {
	// Run computes the date window, fetches all sources concurrently and
	// assembles the summary. A failed source yields an empty section; Run
	// fails only when the run itself is cancelled.
	Run(ctx context.Context) (*models.DailySummary, error)

	// RenderText renders the summary as a markdown report
	RenderText(summary *models.DailySummary) string

	// BuildPayload renders the summary as a structured payload
	BuildPayload(summary *models.DailySummary) *pkgmodels.SummaryPayload
}
