package alphavantage

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/ternarybob/arbor"
	"golang.org/x/time/rate"
)

const (
	// DefaultBaseURL is the base URL for the Alpha Vantage API.
	DefaultBaseURL = "https://www.alphavantage.co/query"

	// DefaultTimeout is the default HTTP timeout.
	DefaultTimeout = 10 * time.Second

	// DefaultRateLimit is the default rate limit (requests per second).
	DefaultRateLimit = 5

	// DemoAPIKey is used when no key is configured. The client still
	// constructs and issues requests; the feed serves limited demo data.
	DemoAPIKey = "demo"
)

// Client is an Alpha Vantage calendar API client.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	logger     arbor.ILogger
	limiter    *rate.Limiter
}

// ClientOption configures the Client.
type ClientOption func(*Client)

// WithBaseURL sets a custom base URL.
func WithBaseURL(baseURL string) ClientOption {
	return func(c *Client) {
		c.baseURL = baseURL
	}
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(httpClient *http.Client) ClientOption {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

// WithLogger sets a logger.
func WithLogger(logger arbor.ILogger) ClientOption {
	return func(c *Client) {
		c.logger = logger
	}
}

// WithRateLimit sets a custom rate limit.
func WithRateLimit(requestsPerSecond int) ClientOption {
	return func(c *Client) {
		c.limiter = rate.NewLimiter(rate.Limit(requestsPerSecond), requestsPerSecond)
	}
}

// NewClient creates a new Alpha Vantage client. An empty apiKey degrades to
// the demo key rather than failing to construct.
func NewClient(apiKey string, opts ...ClientOption) *Client {
	if apiKey == "" {
		apiKey = DemoAPIKey
	}

	c := &Client{
		baseURL: DefaultBaseURL,
		apiKey:  apiKey,
		httpClient: &http.Client{
			Timeout: DefaultTimeout,
		},
		limiter: rate.NewLimiter(rate.Limit(DefaultRateLimit), DefaultRateLimit),
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// getCSV performs a GET request for one calendar function and parses the
// delimited response into header-mapped rows.
func (c *Client) getCSV(ctx context.Context, params url.Values) ([]Row, error) {
	function := params.Get("function")

	if err := c.limiter.Wait(ctx); err != nil {
		return nil, &SourceUnavailableError{Endpoint: function, Err: err}
	}

	params.Set("apikey", c.apiKey)
	reqURL := fmt.Sprintf("%s?%s", c.baseURL, params.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	if c.logger != nil {
		c.logger.Debug().
			Str("function", function).
			Msg("Alpha Vantage API request")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &SourceUnavailableError{Endpoint: function, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, &SourceUnavailableError{
			StatusCode: resp.StatusCode,
			Endpoint:   function,
		}
	}

	rows, err := parseCSV(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s response: %w", function, err)
	}

	return rows, nil
}

// parseCSV reads delimited text with a header row into Row records. Short
// rows default their missing columns to the empty string.
func parseCSV(r io.Reader) ([]Row, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err == io.EOF {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read header row: %w", err)
	}

	var rows []Row
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read row: %w", err)
		}

		row := make(Row, len(header))
		for i, col := range header {
			if i < len(record) {
				row[col] = record[i]
			} else {
				row[col] = ""
			}
		}
		rows = append(rows, row)
	}

	return rows, nil
}

// EarningsCalendar retrieves upcoming earnings rows. A non-empty symbol
// restricts the calendar to that listing.
func (c *Client) EarningsCalendar(ctx context.Context, horizon, symbol string) ([]Row, error) {
	params := url.Values{}
	params.Set("function", "EARNINGS_CALENDAR")
	if horizon != "" {
		params.Set("horizon", horizon)
	}
	if symbol != "" {
		params.Set("symbol", symbol)
	}
	return c.getCSV(ctx, params)
}

// IPOCalendar retrieves upcoming IPO rows.
func (c *Client) IPOCalendar(ctx context.Context) ([]Row, error) {
	params := url.Values{}
	params.Set("function", "IPO_CALENDAR")
	return c.getCSV(ctx, params)
}
