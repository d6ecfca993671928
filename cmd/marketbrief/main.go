// -----------------------------------------------------------------------
// MarketBrief - daily market summary aggregator. Fetches the earnings and
// IPO calendars and the top sector movers, assembles one daily summary
// and delivers it as markdown text or a structured payload.
// -----------------------------------------------------------------------

package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/ternarybob/arbor"

	"github.com/ternarybob/marketbrief/internal/alphavantage"
	"github.com/ternarybob/marketbrief/internal/common"
	"github.com/ternarybob/marketbrief/internal/httpclient"
	"github.com/ternarybob/marketbrief/internal/interfaces"
	"github.com/ternarybob/marketbrief/internal/notify"
	"github.com/ternarybob/marketbrief/internal/scheduler"
	"github.com/ternarybob/marketbrief/internal/services/calendar"
	"github.com/ternarybob/marketbrief/internal/services/markets"
	"github.com/ternarybob/marketbrief/internal/services/sectors"
	"github.com/ternarybob/marketbrief/internal/services/summary"
)

// configPaths is a custom flag type that allows multiple -config flags
type configPaths []string

func (c *configPaths) String() string {
	return fmt.Sprintf("%v", *c)
}

func (c *configPaths) Set(value string) error {
	*c = append(*c, value)
	return nil
}

var (
	configFiles  configPaths
	runOnce      = flag.Bool("once", false, "Run one summary immediately and exit")
	outputFormat = flag.String("format", "text", "Output format for -once: text or json")
	showVersion  = flag.Bool("version", false, "Print version information")
	showVersionV = flag.Bool("v", false, "Print version information (shorthand)")
)

func init() {
	flag.Var(&configFiles, "config", "Configuration file path (can be specified multiple times, later files override earlier ones)")
	flag.Var(&configFiles, "c", "Configuration file path (shorthand)")
}

func main() {
	flag.Parse()

	common.InstallCrashHandler("")
	defer common.RecoverWithCrashFile()

	if *showVersion || *showVersionV {
		fmt.Printf("MarketBrief version %s\n", common.GetVersion())
		os.Exit(0)
	}

	// .env is optional; environment overrides still apply without it
	_ = godotenv.Load()

	// Auto-discover config file if not specified
	if len(configFiles) == 0 {
		if _, err := os.Stat("marketbrief.toml"); err == nil {
			configFiles = append(configFiles, "marketbrief.toml")
		}
	}

	// Load configuration (default -> file1 -> file2 -> ... -> env)
	config, err := common.LoadFromFiles(configFiles...)
	if err != nil {
		tempLogger := arbor.NewLogger()
		tempLogger.Fatal().Strs("paths", configFiles).Err(err).Msg("Failed to load configuration")
		os.Exit(1)
	}

	logger := common.InitLogger(config)
	common.PrintBanner(common.GetVersion())

	logger.Info().
		Strs("config_files", configFiles).
		Str("timezone", config.TimeZone).
		Str("environment", config.Environment).
		Msg("Application configuration loaded")

	summaryService := buildSummaryService(config, logger)
	notifier := buildNotifier(config, logger)

	if *runOnce {
		if err := runSingleSummary(context.Background(), config, summaryService, notifier, *outputFormat, logger); err != nil {
			logger.Fatal().Err(err).Msg("Summary run failed")
			os.Exit(1)
		}
		return
	}

	if !config.Schedule.Enabled {
		logger.Fatal().Msg("Schedule is disabled and -once was not given, nothing to do")
		os.Exit(1)
	}

	sched := scheduler.NewService(config.TimeZone, config.Schedule.Hour, config.Schedule.Minute,
		func(ctx context.Context) error {
			return runSingleSummary(ctx, config, summaryService, notifier, *outputFormat, logger)
		}, logger)

	if err := sched.Start(); err != nil {
		logger.Fatal().Err(err).Msg("Failed to start scheduler")
		os.Exit(1)
	}

	logger.Info().
		Str("next_run", sched.NextRun().String()).
		Msg("Scheduler ready - Press Ctrl+C to stop")

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	logger.Info().Msg("Interrupt signal received, shutting down")
	if err := sched.Stop(); err != nil {
		logger.Error().Err(err).Msg("Scheduler shutdown failed")
	}
	logger.Info().Msg("Scheduler stopped")
}

func buildSummaryService(config *common.Config, logger arbor.ILogger) interfaces.SummaryService {
	avClient := alphavantage.NewClient(config.Calendar.APIKey,
		alphavantage.WithBaseURL(config.Calendar.BaseURL),
		alphavantage.WithHTTPClient(httpclient.NewDefaultHTTPClient(config.Calendar.RequestTimeout.Duration())),
		alphavantage.WithRateLimit(config.Calendar.RateLimit),
		alphavantage.WithLogger(logger))

	calendarService := calendar.NewService(avClient, config.Calendar.Horizon, logger)
	sectorService := sectors.NewService(config.Sectors, logger)

	return summary.NewService(summary.Config{
		TimeZone:      config.TimeZone,
		HorizonDays:   config.Summary.HorizonDays,
		SourceTimeout: config.Summary.SourceTimeout.Duration(),
		SectorsURL:    config.Sectors.URL,
		SectorLimit:   config.Sectors.Limit,
	}, calendarService, sectorService, logger)
}

// buildNotifier returns nil when no webhook is configured; delivery is
// then skipped and the summary only goes to stdout.
func buildNotifier(config *common.Config, logger arbor.ILogger) interfaces.Notifier {
	if config.Discord.WebhookURL == "" {
		logger.Info().Msg("No Discord webhook configured, skipping delivery")
		return nil
	}
	return notify.NewDiscordNotifier(config.Discord.WebhookURL, config.Discord.Timeout.Duration(), logger)
}

// runSingleSummary executes one aggregation run and delivers the result
// in the requested format
func runSingleSummary(ctx context.Context, config *common.Config, svc interfaces.SummaryService, notifier interfaces.Notifier, format string, logger arbor.ILogger) error {
	dailySummary, err := svc.Run(ctx)
	if err != nil {
		return err
	}

	switch format {
	case "json":
		payload := svc.BuildPayload(dailySummary)
		encoded, err := json.MarshalIndent(payload, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to encode payload: %w", err)
		}
		fmt.Println(string(encoded))
		if notifier != nil {
			return notifier.SendPayload(ctx, payload)
		}
	case "text":
		text := svc.RenderText(dailySummary)
		marketService := markets.NewService(config.Quotes.BaseURL, logger)
		if supplement := renderSupplement(ctx, marketService, config); supplement != "" {
			text += "\n\n" + supplement
		}
		fmt.Println(text)
		if notifier != nil {
			return notifier.SendText(ctx, text)
		}
	default:
		return fmt.Errorf("unknown output format %q (want text or json)", format)
	}

	return nil
}

// renderSupplement builds the news and watchlist sections that follow the
// summary in the text report. Empty when both sources come back empty.
func renderSupplement(ctx context.Context, market interfaces.MarketService, config *common.Config) string {
	sections := []string{}
	if news := renderNews(ctx, market, config.News); news != "" {
		sections = append(sections, news)
	}
	if watchlist := renderWatchlist(ctx, market, config.Quotes); watchlist != "" {
		sections = append(sections, watchlist)
	}
	return strings.Join(sections, "\n\n")
}

// renderNews crawls the configured headline page. Empty when no URL is
// configured or the crawl degraded to nothing.
func renderNews(ctx context.Context, market interfaces.MarketService, config common.NewsConfig) string {
	if config.URL == "" || config.Limit <= 0 {
		return ""
	}

	headlines := market.FetchHeadlines(ctx, config.URL, config.Limit)
	if len(headlines) == 0 {
		return ""
	}
	return "📰 Headlines\n" + strings.Join(headlines, "\n")
}

// renderWatchlist lists the configured symbols' last prices. Empty when no
// symbols are configured or every quote failed.
func renderWatchlist(ctx context.Context, market interfaces.MarketService, config common.QuotesConfig) string {
	if len(config.Symbols) == 0 {
		return ""
	}

	quotes := market.FetchQuotes(ctx, config.Symbols)

	lines := make([]string, 0, len(quotes))
	for _, q := range quotes {
		if q.Last == nil {
			continue
		}
		lines = append(lines, fmt.Sprintf("%s: %.2f", q.Symbol, *q.Last))
	}
	if len(lines) == 0 {
		return ""
	}
	return "💹 Watchlist\n" + strings.Join(lines, "\n")
}
