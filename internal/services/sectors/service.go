// -----------------------------------------------------------------------
// Sector Service - scrapes ranked sector performance blocks from the
// configured quote page with a headless browser. The browser session is
// scoped to a single fetch and released on every exit path.
// -----------------------------------------------------------------------

package sectors

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/chromedp/chromedp"
	"github.com/ternarybob/arbor"

	"github.com/ternarybob/marketbrief/internal/common"
	"github.com/ternarybob/marketbrief/internal/interfaces"
	"github.com/ternarybob/marketbrief/internal/models"
)

// DefaultWaitTimeout bounds the wait for the container element
const DefaultWaitTimeout = 10 * time.Second

// scrapeFunc fetches and extracts sector records for one page.
// It is a field so tests can exercise the calling conventions without a
// browser; production always uses the chromedp implementation.
type scrapeFunc func(ctx context.Context, pageURL string, limit int) ([]models.SectorRecord, error)

// Service implements interfaces.SectorService
type Service struct {
	config common.SectorsConfig
	logger arbor.ILogger
	scrape scrapeFunc
}

// Compile-time assertion
var _ interfaces.SectorService = (*Service)(nil)

// NewService creates a sector scraping service
func NewService(config common.SectorsConfig, logger arbor.ILogger) *Service {
	if config.WaitTimeout <= 0 {
		config.WaitTimeout = common.Duration(DefaultWaitTimeout)
	}

	s := &Service{
		config: config,
		logger: logger,
	}
	s.scrape = s.scrapeWithBrowser
	return s
}

// FetchTopSectors scrapes up to limit sector records in page order
func (s *Service) FetchTopSectors(ctx context.Context, pageURL string, limit int) ([]models.SectorRecord, error) {
	started := time.Now()

	records, err := s.scrape(ctx, pageURL, limit)
	if err != nil {
		return nil, err
	}

	s.logger.Info().
		Str("url", pageURL).
		Int("sectors", len(records)).
		Str("elapsed", time.Since(started).Round(time.Millisecond).String()).
		Msg("Sector scrape completed")

	return records, nil
}

// FetchTopSectorsAsync runs FetchTopSectors in the background and delivers
// the single result on the returned channel. Extraction behavior is
// identical to the synchronous call; only the awaiting differs.
func (s *Service) FetchTopSectorsAsync(ctx context.Context, pageURL string, limit int) <-chan interfaces.SectorResult {
	resultChan := make(chan interfaces.SectorResult, 1)

	go func() {
		defer close(resultChan)
		records, err := s.FetchTopSectors(ctx, pageURL, limit)
		resultChan <- interfaces.SectorResult{Sectors: records, Err: err}
	}()

	return resultChan
}

// scrapeWithBrowser drives a headless browser session scoped to this call:
// allocator and browser context are created at entry and cancelled on every
// exit path, so no session survives the fetch.
func (s *Service) scrapeWithBrowser(ctx context.Context, pageURL string, limit int) ([]models.SectorRecord, error) {
	opts := append(
		chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", s.config.Headless),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.UserAgent(s.config.UserAgent),
	)

	allocatorCtx, allocatorCancel := chromedp.NewExecAllocator(ctx, opts...)
	defer allocatorCancel()

	browserCtx, browserCancel := chromedp.NewContext(allocatorCtx)
	defer browserCancel()

	// An empty Run starts the browser; failure here means the automation
	// backend itself is missing or broken.
	if err := chromedp.Run(browserCtx); err != nil {
		return nil, &ScrapeUnavailableError{Err: err}
	}

	waitCtx, waitCancel := context.WithTimeout(browserCtx, s.config.WaitTimeout.Duration())
	defer waitCancel()

	container := s.config.Selectors.Container
	var html string
	err := chromedp.Run(waitCtx,
		chromedp.Navigate(pageURL),
		chromedp.WaitReady(container, chromedp.ByQuery),
		chromedp.OuterHTML(container, &html, chromedp.ByQuery),
	)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, &ScrapeTimeoutError{Selector: container, Timeout: s.config.WaitTimeout.Duration()}
		}
		return nil, fmt.Errorf("failed to scrape %s: %w", pageURL, err)
	}

	records, err := extractSectors(html, s.config.Selectors, limit, s.logger)
	if err != nil {
		return nil, fmt.Errorf("failed to parse sector container: %w", err)
	}

	return records, nil
}
