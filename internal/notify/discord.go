// -----------------------------------------------------------------------
// Discord Notifier - delivers rendered summaries to a Discord webhook.
// Long text is split on line boundaries to stay under the message size
// limit. Failed deliveries are reported, never retried.
// -----------------------------------------------------------------------

package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/ternarybob/arbor"

	"github.com/ternarybob/marketbrief/internal/interfaces"
	pkgmodels "github.com/ternarybob/marketbrief/pkg/models"
)

// MaxMessageLength is the Discord content size limit per message
const MaxMessageLength = 2000

// DefaultTimeout bounds one webhook request when no timeout is configured
const DefaultTimeout = 15 * time.Second

// webhookMessage is the Discord webhook request body
type webhookMessage struct {
	Content string  `json:"content,omitempty"`
	Embeds  []embed `json:"embeds,omitempty"`
}

type embed struct {
	Title       string       `json:"title,omitempty"`
	Description string       `json:"description,omitempty"`
	Color       int          `json:"color,omitempty"`
	Fields      []embedField `json:"fields,omitempty"`
	Timestamp   string       `json:"timestamp,omitempty"`
}

type embedField struct {
	Name   string `json:"name"`
	Value  string `json:"value"`
	Inline bool   `json:"inline"`
}

// DiscordNotifier implements interfaces.Notifier over a webhook URL
type DiscordNotifier struct {
	webhookURL string
	httpClient *http.Client
	logger     arbor.ILogger
}

var _ interfaces.Notifier = (*DiscordNotifier)(nil)

// NewDiscordNotifier creates a notifier posting to the given webhook.
// A non-positive timeout falls back to DefaultTimeout.
func NewDiscordNotifier(webhookURL string, timeout time.Duration, logger arbor.ILogger) *DiscordNotifier {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &DiscordNotifier{
		webhookURL: webhookURL,
		httpClient: &http.Client{Timeout: timeout},
		logger:     logger,
	}
}

// SendText delivers a plain markdown message, splitting it into chunks
// when it exceeds the Discord content limit
func (n *DiscordNotifier) SendText(ctx context.Context, text string) error {
	chunks := splitMessage(text, MaxMessageLength)
	for i, chunk := range chunks {
		if err := n.post(ctx, webhookMessage{Content: chunk}); err != nil {
			return fmt.Errorf("failed to send chunk %d of %d: %w", i+1, len(chunks), err)
		}
	}

	n.logger.Info().
		Int("chunks", len(chunks)).
		Int("length", len(text)).
		Msg("Summary text delivered to Discord")
	return nil
}

// SendPayload delivers the structured payload as a rich embed
func (n *DiscordNotifier) SendPayload(ctx context.Context, payload *pkgmodels.SummaryPayload) error {
	msg := webhookMessage{Embeds: []embed{n.buildEmbed(payload)}}
	if err := n.post(ctx, msg); err != nil {
		return err
	}

	n.logger.Info().
		Int("sectors", len(payload.Sectors)).
		Int("earnings", len(payload.Earnings)).
		Int("ipos", len(payload.IPOs)).
		Msg("Summary payload delivered to Discord")
	return nil
}

func (n *DiscordNotifier) buildEmbed(payload *pkgmodels.SummaryPayload) embed {
	e := embed{
		Title:     "Daily Market Summary",
		Color:     0x0099FF,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	}
	if len(payload.Dates) > 0 {
		e.Description = strings.Join(payload.Dates, ", ")
	}

	sectors := make([]string, 0, len(payload.Sectors))
	for _, s := range payload.Sectors {
		sectors = append(sectors, fmt.Sprintf("%s %s (leader %s %s)", s.Name, s.ChangePct, s.LeaderStock, s.LeaderChangePct))
	}
	e.Fields = append(e.Fields, embedField{
		Name:  "🔥 Top Sectors",
		Value: fieldValue(sectors),
	})

	earnings := make([]string, 0, len(payload.Earnings))
	for _, ev := range payload.Earnings {
		earnings = append(earnings, fmt.Sprintf("%s %s %s", ev.ReportDate, ev.Symbol, ev.EstimateEPS))
	}
	e.Fields = append(e.Fields, embedField{
		Name:  "🧾 Earnings",
		Value: fieldValue(earnings),
	})

	ipos := make([]string, 0, len(payload.IPOs))
	for _, ev := range payload.IPOs {
		ipos = append(ipos, fmt.Sprintf("%s %s %s %s", ev.IPODate, ev.Symbol, ev.PriceRange, ev.Currency))
	}
	e.Fields = append(e.Fields, embedField{
		Name:  "🆕 IPOs",
		Value: fieldValue(ipos),
	})

	return e
}

func (n *DiscordNotifier) post(ctx context.Context, msg webhookMessage) error {
	body, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("failed to marshal webhook message: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.webhookURL, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to create webhook request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := n.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send webhook request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("discord webhook returned status %d", resp.StatusCode)
	}
	return nil
}

func fieldValue(lines []string) string {
	if len(lines) == 0 {
		return "No data."
	}
	return strings.Join(lines, "\n")
}

// splitMessage splits text into chunks of at most limit bytes, preferring
// line boundaries. A single line longer than the limit is hard-split.
func splitMessage(text string, limit int) []string {
	if len(text) <= limit {
		return []string{text}
	}

	var chunks []string
	var current strings.Builder

	for _, line := range strings.Split(text, "\n") {
		for len(line) > limit {
			if current.Len() > 0 {
				chunks = append(chunks, current.String())
				current.Reset()
			}
			chunks = append(chunks, line[:limit])
			line = line[limit:]
		}

		// +1 for the joining newline
		if current.Len() > 0 && current.Len()+1+len(line) > limit {
			chunks = append(chunks, current.String())
			current.Reset()
		}
		if current.Len() > 0 {
			current.WriteString("\n")
		}
		current.WriteString(line)
	}

	if current.Len() > 0 {
		chunks = append(chunks, current.String())
	}
	return chunks
}
