package interfaces

import (
	"context"

	"github.com/ternarybob/marketbrief/internal/models"
)

// SectorResult carries the outcome of an asynchronous sector fetch
type SectorResult struct {
	Sectors []models.SectorRecord
	Err     error
}

// SectorService scrapes ranked sector performance blocks from the
// configured page. Both entry points share one extraction path; they differ
// only in how the caller awaits completion.
type SectorService interface {
	// FetchTopSectors scrapes up to limit sector records in page order.
	FetchTopSectors(ctx context.Context, pageURL string, limit int) ([]models.SectorRecord, error)

	// FetchTopSectorsAsync runs FetchTopSectors in the background and
	// delivers the single result on the returned channel.
	FetchTopSectorsAsync(ctx context.Context, pageURL string, limit int) <-chan SectorResult
}
