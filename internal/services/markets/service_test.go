package markets

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ternarybob/marketbrief/internal/common"
)

func TestFetchHeadlines(t *testing.T) {
	page := `<html><body>
		<h1>Markets rally on rate pause</h1>
		<div><h2>Oil slips below $80</h2></div>
		<h3>  Chipmakers extend gains  </h3>
		<h3></h3>
		<p>Not a headline</p>
	</body></html>`

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(page))
	}))
	defer server.Close()

	svc := NewService("", common.GetLogger())

	headlines := svc.FetchHeadlines(context.Background(), server.URL, 10)
	require.Len(t, headlines, 3)
	assert.Equal(t, "Markets rally on rate pause", headlines[0])
	assert.Equal(t, "Oil slips below $80", headlines[1])
	assert.Equal(t, "Chipmakers extend gains", headlines[2])
}

func TestFetchHeadlinesRespectsLimit(t *testing.T) {
	page := `<h1>One</h1><h2>Two</h2><h3>Three</h3>`

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(page))
	}))
	defer server.Close()

	svc := NewService("", common.GetLogger())

	headlines := svc.FetchHeadlines(context.Background(), server.URL, 2)
	assert.Len(t, headlines, 2)
}

func TestFetchHeadlinesFailureReturnsEmpty(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "gone", http.StatusGone)
	}))
	defer server.Close()

	svc := NewService("", common.GetLogger())

	headlines := svc.FetchHeadlines(context.Background(), server.URL, 10)
	assert.NotNil(t, headlines)
	assert.Empty(t, headlines)
}

func TestFetchQuotes(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/v8/finance/chart/AAPL":
			_, _ = w.Write([]byte(`{"chart":{"result":[{"timestamp":[1714600800],"indicators":{"quote":[{"close":[173.5]}]}}]}}`))
		default:
			http.Error(w, "unknown symbol", http.StatusNotFound)
		}
	}))
	defer server.Close()

	svc := NewService(server.URL, common.GetLogger())

	quotes := svc.FetchQuotes(context.Background(), []string{"AAPL", "NOPE"})
	require.Len(t, quotes, 2)

	assert.Equal(t, "AAPL", quotes[0].Symbol)
	require.NotNil(t, quotes[0].Last)
	assert.InDelta(t, 173.5, *quotes[0].Last, 0.001)

	// Failed lookups keep their slot with a nil price.
	assert.Equal(t, "NOPE", quotes[1].Symbol)
	assert.Nil(t, quotes[1].Last)
}

func TestFetchQuotesEmptyChart(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"chart":{"result":[]}}`))
	}))
	defer server.Close()

	svc := NewService(server.URL, common.GetLogger())

	quotes := svc.FetchQuotes(context.Background(), []string{"AAPL"})
	require.Len(t, quotes, 1)
	assert.Nil(t, quotes[0].Last)
}

func TestMacroSnapshotAndMarketNews(t *testing.T) {
	svc := NewService("", common.GetLogger())

	macro := svc.MacroSnapshot()
	assert.NotEmpty(t, macro["CPI"])
	assert.NotEmpty(t, macro["PPI"])

	assert.NotEmpty(t, svc.MarketNews())
}
