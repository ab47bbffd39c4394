package config

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/spf13/viper"

	"quotedash/internal/alphavantage"
	"quotedash/internal/quote"
	"quotedash/internal/yahoo"
)

const (
	ProviderYahoo        = "yahoo"
	ProviderAlphavantage = "alphavantage"
)

// RefreshIntervals are the auto-refresh periods the dashboard offers.
var RefreshIntervals = []time.Duration{
	10 * time.Second,
	30 * time.Second,
	time.Minute,
	2 * time.Minute,
	5 * time.Minute,
}

// Config holds all configuration for the quote dashboard.
type Config struct {
	// Quote source selection
	Provider string `mapstructure:"provider"`

	// Yahoo chart endpoint (no key required)
	YahooBaseURL  string `mapstructure:"yahoo_base_url"`
	ChartInterval string `mapstructure:"chart_interval"`
	ChartRange    string `mapstructure:"chart_range"`

	// AlphaVantage, only needed when provider is alphavantage
	AlphavantageAPIKey  string `mapstructure:"alphavantage_api_key"`
	AlphavantageBaseURL string `mapstructure:"alphavantage_base_url"`

	// HTTP behaviour
	UserAgent      string        `mapstructure:"user_agent"`
	RequestTimeout time.Duration `mapstructure:"request_timeout"`
	FetchTimeout   time.Duration `mapstructure:"fetch_timeout"`

	// Watchlist
	DefaultSymbols []string `mapstructure:"default_symbols"`
	WatchlistPath  string   `mapstructure:"watchlist_path"`

	// Dashboard
	AutoRefresh     bool          `mapstructure:"auto_refresh"`
	RefreshInterval time.Duration `mapstructure:"refresh_interval"`
	ShowChart       bool          `mapstructure:"show_chart"`

	// Logging
	LogLevel  string `mapstructure:"log_level"`
	LogPretty bool   `mapstructure:"log_pretty"`
}

// Load reads configuration from environment variables and optional config file.
// Environment variables take precedence over config file values.
//
// Recognised environment variables:
//   - QUOTE_PROVIDER (yahoo|alphavantage, default yahoo)
//   - YAHOO_BASE_URL, CHART_INTERVAL, CHART_RANGE
//   - ALPHAVANTAGE_API_KEY (required for alphavantage), ALPHAVANTAGE_BASE_URL
//   - USER_AGENT, REQUEST_TIMEOUT, FETCH_TIMEOUT
//   - DEFAULT_SYMBOLS (comma separated), WATCHLIST_PATH
//   - AUTO_REFRESH, REFRESH_INTERVAL, SHOW_CHART
//   - LOG_LEVEL, LOG_PRETTY
func Load() (*Config, error) {
	v := viper.New()

	v.SetDefault("provider", ProviderYahoo)
	v.SetDefault("yahoo_base_url", yahoo.DefaultBaseURL)
	v.SetDefault("chart_interval", yahoo.DefaultInterval)
	v.SetDefault("chart_range", yahoo.DefaultRange)
	v.SetDefault("alphavantage_base_url", alphavantage.DefaultBaseURL)
	v.SetDefault("user_agent", "")
	v.SetDefault("request_timeout", "0s")
	v.SetDefault("fetch_timeout", "30s")
	v.SetDefault("default_symbols", quote.DefaultSymbols)
	v.SetDefault("watchlist_path", defaultWatchlistPath())
	v.SetDefault("auto_refresh", true)
	v.SetDefault("refresh_interval", "30s")
	v.SetDefault("show_chart", true)
	v.SetDefault("log_level", "info")
	v.SetDefault("log_pretty", false)

	// Optionally read from config file if it exists
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("$HOME/.quotedash")

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	bindings := map[string]string{
		"provider":              "QUOTE_PROVIDER",
		"yahoo_base_url":        "YAHOO_BASE_URL",
		"chart_interval":        "CHART_INTERVAL",
		"chart_range":           "CHART_RANGE",
		"alphavantage_api_key":  "ALPHAVANTAGE_API_KEY",
		"alphavantage_base_url": "ALPHAVANTAGE_BASE_URL",
		"user_agent":            "USER_AGENT",
		"request_timeout":       "REQUEST_TIMEOUT",
		"fetch_timeout":         "FETCH_TIMEOUT",
		"default_symbols":       "DEFAULT_SYMBOLS",
		"watchlist_path":        "WATCHLIST_PATH",
		"auto_refresh":          "AUTO_REFRESH",
		"refresh_interval":      "REFRESH_INTERVAL",
		"show_chart":            "SHOW_CHART",
		"log_level":             "LOG_LEVEL",
		"log_pretty":            "LOG_PRETTY",
	}
	for key, env := range bindings {
		if err := v.BindEnv(key, env); err != nil {
			return nil, fmt.Errorf("failed to bind %s: %w", env, err)
		}
	}

	config := &Config{}
	if err := v.Unmarshal(config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	config.Provider = strings.ToLower(strings.TrimSpace(config.Provider))
	config.DefaultSymbols = normalizeSymbols(config.DefaultSymbols)

	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}

// Validate reports every configuration problem at once.
func (c *Config) Validate() error {
	var problems []string

	switch c.Provider {
	case ProviderYahoo:
	case ProviderAlphavantage:
		if c.AlphavantageAPIKey == "" {
			problems = append(problems, "missing required configuration: ALPHAVANTAGE_API_KEY")
		}
	default:
		problems = append(problems, fmt.Sprintf("unknown provider %q (want %s or %s)", c.Provider, ProviderYahoo, ProviderAlphavantage))
	}

	if !slices.Contains(RefreshIntervals, c.RefreshInterval) {
		problems = append(problems, fmt.Sprintf("refresh_interval %s is not one of %s", c.RefreshInterval, intervalList()))
	}
	if c.RequestTimeout < 0 {
		problems = append(problems, "request_timeout must not be negative")
	}
	if c.FetchTimeout <= 0 {
		problems = append(problems, "fetch_timeout must be positive")
	}
	if c.WatchlistPath == "" {
		problems = append(problems, "watchlist_path must not be empty")
	}

	if len(problems) > 0 {
		return fmt.Errorf("invalid configuration: %s", strings.Join(problems, "; "))
	}
	return nil
}

func defaultWatchlistPath() string {
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return ".quotedash_symbols.json"
	}
	return filepath.Join(home, ".quotedash", "symbols.json")
}

// normalizeSymbols handles both list values and a single comma separated string.
func normalizeSymbols(in []string) []string {
	var out []string
	for _, item := range in {
		for _, s := range strings.Split(item, ",") {
			if s = quote.NormalizeSymbol(s); s != "" && !slices.Contains(out, s) {
				out = append(out, s)
			}
		}
	}
	return out
}

func intervalList() string {
	parts := make([]string, 0, len(RefreshIntervals))
	for _, d := range RefreshIntervals {
		parts = append(parts, d.String())
	}
	return strings.Join(parts, ", ")
}
