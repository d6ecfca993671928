package main

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ternarybob/marketbrief/internal/common"
	"github.com/ternarybob/marketbrief/internal/models"
)

type stubMarkets struct {
	headlines []string
	quotes    []models.StockQuote
}

func (s *stubMarkets) MacroSnapshot() map[string]string { return nil }
func (s *stubMarkets) MarketNews() []string             { return nil }

func (s *stubMarkets) FetchHeadlines(ctx context.Context, pageURL string, limit int) []string {
	return s.headlines
}

func (s *stubMarkets) FetchQuotes(ctx context.Context, symbols []string) []models.StockQuote {
	return s.quotes
}

func floatPtr(f float64) *float64 { return &f }

func TestRenderNews(t *testing.T) {
	market := &stubMarkets{headlines: []string{"Rates hold steady", "Chip rally extends"}}
	config := common.NewsConfig{URL: "https://example.com/news", Limit: 10}

	out := renderNews(context.Background(), market, config)
	assert.Equal(t, "📰 Headlines\nRates hold steady\nChip rally extends", out)
}

func TestRenderNewsSkippedWhenUnconfiguredOrEmpty(t *testing.T) {
	market := &stubMarkets{headlines: []string{"ignored"}}
	assert.Empty(t, renderNews(context.Background(), market, common.NewsConfig{URL: "", Limit: 10}))
	assert.Empty(t, renderNews(context.Background(), market, common.NewsConfig{URL: "https://example.com", Limit: 0}))

	degraded := &stubMarkets{headlines: []string{}}
	assert.Empty(t, renderNews(context.Background(), degraded, common.NewsConfig{URL: "https://example.com", Limit: 10}))
}

func TestRenderWatchlistSkipsFailedQuotes(t *testing.T) {
	market := &stubMarkets{quotes: []models.StockQuote{
		{Symbol: "AAPL", Last: floatPtr(173.5)},
		{Symbol: "NOPE"},
	}}
	config := common.QuotesConfig{Symbols: []string{"AAPL", "NOPE"}}

	out := renderWatchlist(context.Background(), market, config)
	assert.Equal(t, "💹 Watchlist\nAAPL: 173.50", out)
}

func TestRenderSupplementJoinsSections(t *testing.T) {
	market := &stubMarkets{
		headlines: []string{"Rates hold steady"},
		quotes:    []models.StockQuote{{Symbol: "AAPL", Last: floatPtr(173.5)}},
	}
	config := common.NewDefaultConfig()

	out := renderSupplement(context.Background(), market, config)
	assert.Equal(t, "📰 Headlines\nRates hold steady\n\n💹 Watchlist\nAAPL: 173.50", out)

	empty := renderSupplement(context.Background(), &stubMarkets{}, config)
	assert.Empty(t, empty)
}
