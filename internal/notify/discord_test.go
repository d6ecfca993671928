package notify

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ternarybob/marketbrief/internal/common"
	pkgmodels "github.com/ternarybob/marketbrief/pkg/models"
)

func intPtr(n int) *int { return &n }

func captureServer(t *testing.T, status int) (*httptest.Server, *[]webhookMessage) {
	t.Helper()
	var received []webhookMessage
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		body, err := io.ReadAll(r.Body)
		require.NoError(t, err)

		var msg webhookMessage
		require.NoError(t, json.Unmarshal(body, &msg))
		received = append(received, msg)

		w.WriteHeader(status)
	}))
	t.Cleanup(server.Close)
	return server, &received
}

func TestSendTextSingleMessage(t *testing.T) {
	server, received := captureServer(t, http.StatusNoContent)
	notifier := NewDiscordNotifier(server.URL, time.Second, common.GetLogger())

	err := notifier.SendText(context.Background(), "hello market")
	require.NoError(t, err)

	require.Len(t, *received, 1)
	assert.Equal(t, "hello market", (*received)[0].Content)
	assert.Empty(t, (*received)[0].Embeds)
}

func TestSendTextChunksLongMessages(t *testing.T) {
	server, received := captureServer(t, http.StatusNoContent)
	notifier := NewDiscordNotifier(server.URL, time.Second, common.GetLogger())

	lines := make([]string, 0, 200)
	for i := 0; i < 200; i++ {
		lines = append(lines, strings.Repeat("x", 30))
	}
	text := strings.Join(lines, "\n")

	err := notifier.SendText(context.Background(), text)
	require.NoError(t, err)

	require.Greater(t, len(*received), 1)
	var rejoined []string
	for _, msg := range *received {
		assert.LessOrEqual(t, len(msg.Content), MaxMessageLength)
		rejoined = append(rejoined, msg.Content)
	}
	assert.Equal(t, text, strings.Join(rejoined, "\n"), "chunking must not lose content")
}

func TestSendTextErrorStatus(t *testing.T) {
	server, _ := captureServer(t, http.StatusTooManyRequests)
	notifier := NewDiscordNotifier(server.URL, time.Second, common.GetLogger())

	err := notifier.SendText(context.Background(), "hello")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "429")
}

func TestNewDiscordNotifierTimeout(t *testing.T) {
	notifier := NewDiscordNotifier("https://discord.com/api/webhooks/1/abc", 20*time.Second, common.GetLogger())
	assert.Equal(t, 20*time.Second, notifier.httpClient.Timeout)

	notifier = NewDiscordNotifier("https://discord.com/api/webhooks/1/abc", 0, common.GetLogger())
	assert.Equal(t, DefaultTimeout, notifier.httpClient.Timeout, "non-positive timeout falls back to the default")
}

func TestSendPayloadBuildsEmbed(t *testing.T) {
	server, received := captureServer(t, http.StatusNoContent)
	notifier := NewDiscordNotifier(server.URL, time.Second, common.GetLogger())

	payload := &pkgmodels.SummaryPayload{
		Dates: []string{"2024-05-01", "2024-05-02", "2024-05-03"},
		Sectors: []pkgmodels.SectorPayload{{
			Name:            "Semiconductors",
			ChangePct:       "+2.31%",
			LeaderStock:     "NVDA",
			LeaderChangePct: "+4.10%",
			UpCount:         intPtr(42),
		}},
		Earnings: []pkgmodels.EarningPayload{{
			Symbol:      "AAPL",
			Name:        "Apple",
			ReportDate:  "2024-05-02",
			EstimateEPS: "1.50",
		}},
		IPOs: []pkgmodels.IPOPayload{},
	}

	err := notifier.SendPayload(context.Background(), payload)
	require.NoError(t, err)

	require.Len(t, *received, 1)
	msg := (*received)[0]
	require.Len(t, msg.Embeds, 1)

	e := msg.Embeds[0]
	assert.Equal(t, "Daily Market Summary", e.Title)
	assert.Equal(t, "2024-05-01, 2024-05-02, 2024-05-03", e.Description)
	require.Len(t, e.Fields, 3)
	assert.Contains(t, e.Fields[0].Value, "Semiconductors +2.31% (leader NVDA +4.10%)")
	assert.Contains(t, e.Fields[1].Value, "2024-05-02 AAPL 1.50")
	assert.Equal(t, "No data.", e.Fields[2].Value, "empty section renders the marker, not an empty field")
}

func TestSplitMessage(t *testing.T) {
	tests := []struct {
		name   string
		text   string
		limit  int
		chunks []string
	}{
		{
			name:   "short text is one chunk",
			text:   "hello",
			limit:  10,
			chunks: []string{"hello"},
		},
		{
			name:   "splits on line boundary",
			text:   "aaaa\nbbbb\ncccc",
			limit:  9,
			chunks: []string{"aaaa\nbbbb", "cccc"},
		},
		{
			name:   "hard-splits an oversized line",
			text:   "aaaaaaaaaa",
			limit:  4,
			chunks: []string{"aaaa", "aaaa", "aa"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.chunks, splitMessage(tt.text, tt.limit))
		})
	}
}
