package interfaces

import (
	"context"

	pkgmodels "github.com/ternarybob/marketbrief/pkg/models"
)

// Notifier delivers rendered summaries to the presentation channel.
// Implementations know nothing about how the summary was produced and do
// not retry failed deliveries.
type Notifier interface {
	// SendText delivers a plain markdown message
	SendText(ctx context.Context, text string) error

	// SendPayload delivers the structured payload as a rich embed
	SendPayload(ctx context.Context, payload *pkgmodels.SummaryPayload) error
}
