// -----------------------------------------------------------------------
// Markets Service - supplemental data sources around the daily summary:
// macro indicators, generic market headlines and per-symbol quotes.
// All calls degrade to empty results on failure.
// -----------------------------------------------------------------------

package markets

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/ternarybob/arbor"

	"github.com/ternarybob/marketbrief/internal/httpclient"
	"github.com/ternarybob/marketbrief/internal/interfaces"
	"github.com/ternarybob/marketbrief/internal/models"
)

// DefaultQuoteBaseURL is the Yahoo Finance chart API host
const DefaultQuoteBaseURL = "https://query1.finance.yahoo.com"

// Service implements interfaces.MarketService
type Service struct {
	quoteBaseURL string
	httpClient   *http.Client
	logger       arbor.ILogger
}

// Compile-time assertion
var _ interfaces.MarketService = (*Service)(nil)

// NewService creates a markets service
func NewService(quoteBaseURL string, logger arbor.ILogger) *Service {
	if quoteBaseURL == "" {
		quoteBaseURL = DefaultQuoteBaseURL
	}
	return &Service{
		quoteBaseURL: quoteBaseURL,
		httpClient:   httpclient.NewDefaultHTTPClient(10 * time.Second),
		logger:       logger,
	}
}

// MacroSnapshot returns headline macro indicators.
// TODO: replace with a real macro feed once one is selected; the summary
// pipeline does not consume this yet.
func (s *Service) MacroSnapshot() map[string]string {
	return map[string]string{
		"CPI": "3.2%",
		"PPI": "2.5%",
	}
}

// MarketNews returns generic market news headlines (placeholder feed)
func (s *Service) MarketNews() []string {
	return []string{"Powell: interest rates likely to remain unchanged"}
}

// FetchHeadlines crawls up to limit headline texts from the given page.
// Any transport or parse failure yields an empty list.
func (s *Service) FetchHeadlines(ctx context.Context, pageURL string, limit int) []string {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		s.logger.Warn().Err(err).Str("url", pageURL).Msg("Headline request build failed")
		return []string{}
	}
	req.Header.Set("User-Agent", "Mozilla/5.0")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		s.logger.Warn().Err(err).Str("url", pageURL).Msg("Headline fetch failed, returning empty list")
		return []string{}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		s.logger.Warn().Int("status", resp.StatusCode).Str("url", pageURL).Msg("Headline fetch returned non-OK status")
		return []string{}
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		s.logger.Warn().Err(err).Str("url", pageURL).Msg("Headline parse failed")
		return []string{}
	}

	headlines := []string{}
	doc.Find("h1, h2, h3").EachWithBreak(func(_ int, sel *goquery.Selection) bool {
		if len(headlines) >= limit {
			return false
		}
		if text := strings.TrimSpace(sel.Text()); text != "" {
			headlines = append(headlines, text)
		}
		return true
	})

	return headlines
}

// yahooChartResponse mirrors the Yahoo Finance v8 chart payload
type yahooChartResponse struct {
	Chart struct {
		Result []struct {
			Timestamp  []int64 `json:"timestamp"`
			Indicators struct {
				Quote []struct {
					Close []float64 `json:"close"`
				} `json:"quote"`
			} `json:"indicators"`
		} `json:"result"`
	} `json:"chart"`
}

// FetchQuotes returns the latest close for each symbol. A symbol whose
// lookup fails is reported with a nil price rather than omitted, so the
// caller always sees one entry per requested symbol.
func (s *Service) FetchQuotes(ctx context.Context, symbols []string) []models.StockQuote {
	quotes := make([]models.StockQuote, 0, len(symbols))
	for _, symbol := range symbols {
		last, err := s.fetchLastClose(ctx, symbol)
		if err != nil {
			s.logger.Warn().Err(err).Str("symbol", symbol).Msg("Quote fetch failed")
			quotes = append(quotes, models.StockQuote{Symbol: symbol})
			continue
		}
		quotes = append(quotes, models.StockQuote{Symbol: symbol, Last: last})
	}
	return quotes
}

func (s *Service) fetchLastClose(ctx context.Context, symbol string) (*float64, error) {
	url := fmt.Sprintf("%s/v8/finance/chart/%s?interval=1d&range=1d", s.quoteBaseURL, symbol)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", "Mozilla/5.0")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch quote: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("quote API returned status %d", resp.StatusCode)
	}

	var apiResp yahooChartResponse
	if err := json.NewDecoder(resp.Body).Decode(&apiResp); err != nil {
		return nil, fmt.Errorf("failed to parse quote response: %w", err)
	}

	if len(apiResp.Chart.Result) == 0 || len(apiResp.Chart.Result[0].Indicators.Quote) == 0 {
		return nil, nil
	}

	closes := apiResp.Chart.Result[0].Indicators.Quote[0].Close
	for i := len(closes) - 1; i >= 0; i-- {
		if closes[i] != 0 {
			last := closes[i]
			return &last, nil
		}
	}

	return nil, nil
}
