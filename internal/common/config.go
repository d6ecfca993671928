package common

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/pelletier/go-toml/v2"
)

// Duration wraps time.Duration so TOML values can be written as strings
// like "10s". go-toml decodes through UnmarshalText.
type Duration time.Duration

func (d *Duration) UnmarshalText(text []byte) error {
	parsed, err := time.ParseDuration(string(text))
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", string(text), err)
	}
	*d = Duration(parsed)
	return nil
}

// Duration returns the wrapped time.Duration
func (d Duration) Duration() time.Duration {
	return time.Duration(d)
}

// Config represents the application configuration
type Config struct {
	Environment string         `toml:"environment"` // "development" or "production"
	TimeZone    string         `toml:"timezone" validate:"required"`
	Logging     LoggingConfig  `toml:"logging"`
	Calendar    CalendarConfig `toml:"calendar"`
	Sectors     SectorsConfig  `toml:"sectors"`
	Summary     SummaryConfig  `toml:"summary"`
	Schedule    ScheduleConfig `toml:"schedule"`
	News        NewsConfig     `toml:"news"`
	Quotes      QuotesConfig   `toml:"quotes"`
	Discord     DiscordConfig  `toml:"discord"`
}

type LoggingConfig struct {
	Level  string   `toml:"level"`  // "debug", "info", "warn", "error"
	Output []string `toml:"output"` // "stdout", "file"
}

// CalendarConfig contains Alpha Vantage calendar API configuration
type CalendarConfig struct {
	BaseURL        string   `toml:"base_url" validate:"required,url"`
	APIKey         string   `toml:"api_key"` // empty degrades to the "demo" key
	Horizon        string   `toml:"horizon"` // e.g. "3month"
	RequestTimeout Duration `toml:"request_timeout"`
	RateLimit      int      `toml:"rate_limit"` // requests per second
}

// SectorsConfig contains sector page scraping configuration.
// Selector paths live here rather than in code so a page layout change
// is a config update, not a release.
type SectorsConfig struct {
	URL         string          `toml:"url" validate:"required,url"`
	Limit       int             `toml:"limit" validate:"min=1"`
	WaitTimeout Duration        `toml:"wait_timeout"` // bounded wait for the container element
	Headless    bool            `toml:"headless"`
	UserAgent   string          `toml:"user_agent"`
	Selectors   SectorSelectors `toml:"selectors"`
}

// SectorSelectors defines the CSS paths for sector block extraction
type SectorSelectors struct {
	Container        string `toml:"container"`         // list container element
	Item             string `toml:"item"`              // one sector block
	Name             string `toml:"name"`              // sector name text
	Change           string `toml:"change"`            // change-percentage texts (first = sector, last = leader)
	LeaderName       string `toml:"leader_name"`       // leading stock name/symbol text
	Breadth          string `toml:"breadth"`           // up/down count texts (first = up, last = down)
	BreadthUnchanged string `toml:"breadth_unchanged"` // distinctly-classed unchanged count
}

// SummaryConfig controls the daily summary window
type SummaryConfig struct {
	HorizonDays   int      `toml:"horizon_days" validate:"min=0"` // window = today + N days
	SourceTimeout Duration `toml:"source_timeout"`                // per-source fetch budget
}

// ScheduleConfig controls the daily push trigger
type ScheduleConfig struct {
	Enabled bool `toml:"enabled"`
	Hour    int  `toml:"hour" validate:"min=0,max=23"`
	Minute  int  `toml:"minute" validate:"min=0,max=59"`
}

// NewsConfig contains the headline crawl configuration
type NewsConfig struct {
	URL   string `toml:"url"`
	Limit int    `toml:"limit"`
}

// QuotesConfig contains the quote endpoint configuration
type QuotesConfig struct {
	BaseURL string   `toml:"base_url"`
	Symbols []string `toml:"symbols"`
}

// DiscordConfig contains webhook delivery configuration
type DiscordConfig struct {
	WebhookURL string   `toml:"webhook_url"` // empty disables delivery
	Timeout    Duration `toml:"timeout"`
}

// NewDefaultConfig creates a configuration with default values.
// Only user-facing settings should be exposed in marketbrief.toml.
func NewDefaultConfig() *Config {
	return &Config{
		Environment: "development",
		TimeZone:    "Asia/Shanghai",
		Logging: LoggingConfig{
			Level:  "info",
			Output: []string{"stdout", "file"},
		},
		Calendar: CalendarConfig{
			BaseURL:        "https://www.alphavantage.co/query",
			APIKey:         "",
			Horizon:        "3month",
			RequestTimeout: Duration(10 * time.Second),
			RateLimit:      5,
		},
		Sectors: SectorsConfig{
			URL:         "https://www.moomoo.com/hans/quote/us/concepts",
			Limit:       10,
			WaitTimeout: Duration(10 * time.Second),
			Headless:    true,
			UserAgent:   "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36",
			Selectors: SectorSelectors{
				Container:        "div.concepts-list",
				Item:             "div.concepts-list li.list-item",
				Name:             "a.plate-name",
				Change:           "span.change-ratio",
				LeaderName:       "a.stock-name",
				Breadth:          "span.updown-num",
				BreadthUnchanged: "span.updown-num.flat",
			},
		},
		Summary: SummaryConfig{
			HorizonDays:   2, // today plus the next two calendar days
			SourceTimeout: Duration(30 * time.Second),
		},
		Schedule: ScheduleConfig{
			Enabled: true,
			Hour:    9,
			Minute:  0,
		},
		News: NewsConfig{
			URL:   "https://www.investing.com/news/",
			Limit: 10,
		},
		Quotes: QuotesConfig{
			BaseURL: "https://query1.finance.yahoo.com",
			Symbols: []string{"AAPL", "MSFT", "GOOGL"},
		},
		Discord: DiscordConfig{
			Timeout: Duration(15 * time.Second),
		},
	}
}

// LoadFromFile loads configuration with priority: default -> file -> env
func LoadFromFile(path string) (*Config, error) {
	if path == "" {
		return LoadFromFiles()
	}
	return LoadFromFiles(path)
}

// LoadFromFiles loads configuration from multiple files. Later files override
// earlier files; environment variables override all files.
func LoadFromFiles(paths ...string) (*Config, error) {
	config := NewDefaultConfig()

	for i, path := range paths {
		if path == "" {
			continue
		}

		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}

		if err := toml.Unmarshal(data, config); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s (file %d of %d): %w", path, i+1, len(paths), err)
		}
	}

	applyEnvOverrides(config)

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

// Validate checks the configuration using go-playground/validator
func (c *Config) Validate() error {
	validate := validator.New()
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	return nil
}

// applyEnvOverrides applies environment variable overrides to config
func applyEnvOverrides(config *Config) {
	if env := os.Getenv("MARKETBRIEF_ENV"); env != "" {
		config.Environment = env
	} else if env := os.Getenv("GO_ENV"); env != "" {
		config.Environment = env
	}

	if tz := os.Getenv("TIMEZONE"); tz != "" {
		config.TimeZone = tz
	}

	// Logging configuration
	if level := os.Getenv("MARKETBRIEF_LOG_LEVEL"); level != "" {
		config.Logging.Level = level
	}
	if output := os.Getenv("MARKETBRIEF_LOG_OUTPUT"); output != "" {
		outputs := []string{}
		for _, o := range strings.Split(output, ",") {
			if trimmed := strings.TrimSpace(o); trimmed != "" {
				outputs = append(outputs, trimmed)
			}
		}
		if len(outputs) > 0 {
			config.Logging.Output = outputs
		}
	}

	// Calendar configuration
	if apiKey := os.Getenv("ALPHAVANTAGE_API_KEY"); apiKey != "" {
		config.Calendar.APIKey = apiKey
	}
	if baseURL := os.Getenv("MARKETBRIEF_CALENDAR_BASE_URL"); baseURL != "" {
		config.Calendar.BaseURL = baseURL
	}
	if horizon := os.Getenv("MARKETBRIEF_CALENDAR_HORIZON"); horizon != "" {
		config.Calendar.Horizon = horizon
	}
	if timeout := os.Getenv("MARKETBRIEF_CALENDAR_REQUEST_TIMEOUT"); timeout != "" {
		if d, err := time.ParseDuration(timeout); err == nil {
			config.Calendar.RequestTimeout = Duration(d)
		}
	}

	// Sectors configuration
	if url := os.Getenv("MARKETBRIEF_SECTORS_URL"); url != "" {
		config.Sectors.URL = url
	}
	if limit := os.Getenv("MARKETBRIEF_SECTORS_LIMIT"); limit != "" {
		if n, err := strconv.Atoi(limit); err == nil {
			config.Sectors.Limit = n
		}
	}
	if waitTimeout := os.Getenv("MARKETBRIEF_SECTORS_WAIT_TIMEOUT"); waitTimeout != "" {
		if d, err := time.ParseDuration(waitTimeout); err == nil {
			config.Sectors.WaitTimeout = Duration(d)
		}
	}
	if headless := os.Getenv("MARKETBRIEF_SECTORS_HEADLESS"); headless != "" {
		if b, err := strconv.ParseBool(headless); err == nil {
			config.Sectors.Headless = b
		}
	}

	// Schedule configuration
	if enabled := os.Getenv("MARKETBRIEF_SCHEDULE_ENABLED"); enabled != "" {
		if b, err := strconv.ParseBool(enabled); err == nil {
			config.Schedule.Enabled = b
		}
	}
	if hour := os.Getenv("MARKETBRIEF_SCHEDULE_HOUR"); hour != "" {
		if n, err := strconv.Atoi(hour); err == nil {
			config.Schedule.Hour = n
		}
	}
	if minute := os.Getenv("MARKETBRIEF_SCHEDULE_MINUTE"); minute != "" {
		if n, err := strconv.Atoi(minute); err == nil {
			config.Schedule.Minute = n
		}
	}

	// Quotes configuration
	if symbols := os.Getenv("SELECTED_STOCKS"); symbols != "" {
		parsed := []string{}
		for _, s := range strings.Split(symbols, ",") {
			if trimmed := strings.TrimSpace(s); trimmed != "" {
				parsed = append(parsed, trimmed)
			}
		}
		if len(parsed) > 0 {
			config.Quotes.Symbols = parsed
		}
	}

	// Discord configuration
	if webhook := os.Getenv("DISCORD_WEBHOOK_URL"); webhook != "" {
		config.Discord.WebhookURL = webhook
	}
}
