package infra

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

const (
	// DefaultUserAgent is a browser-like user agent string to avoid bot detection
	DefaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"
)

// Config holds every application setting. Sensitive values are overridden
// from environment variables after the file is loaded.
type Config struct {
	App struct {
		Name    string `yaml:"name"`
		Version string `yaml:"version"`
	} `yaml:"app"`

	Discord struct {
		Token string `yaml:"token"`
	} `yaml:"discord"`

	API struct {
		Yahoo struct {
			ChartURL   string `yaml:"chart_url"`
			SearchURL  string `yaml:"search_url"`
			TimeoutSec int    `yaml:"timeout_sec"`
		} `yaml:"yahoo"`
		Logo struct {
			URLTemplate string `yaml:"url_template"`
		} `yaml:"logo"`
	} `yaml:"api"`

	Watch struct {
		PollIntervalSec int `yaml:"poll_interval_sec"`
	} `yaml:"watch"`

	Report struct {
		DefaultChartMonths int   `yaml:"default_chart_months"`
		ReturnPeriodMonths []int `yaml:"return_period_months"`
		HistoryDays        int   `yaml:"history_days"`
		SMAPeriod          int   `yaml:"sma_period"`
	} `yaml:"report"`

	Logging struct {
		Level string `yaml:"level"`
	} `yaml:"logging"`
}

// LoadConfig reads and parses the configuration file.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}

	// Secrets never live in the file on disk
	overrideWithEnv(&cfg)
	applyDefaults(&cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// Validate checks configuration validity
func (c *Config) Validate() error {
	if c.Discord.Token == "" {
		return fmt.Errorf("discord token is required: set DISCORD_TOKEN or discord.token")
	}

	if !strings.HasPrefix(c.API.Yahoo.ChartURL, "http://") && !strings.HasPrefix(c.API.Yahoo.ChartURL, "https://") {
		return fmt.Errorf("invalid Yahoo chart URL: %s", c.API.Yahoo.ChartURL)
	}
	if !strings.HasPrefix(c.API.Yahoo.SearchURL, "http://") && !strings.HasPrefix(c.API.Yahoo.SearchURL, "https://") {
		return fmt.Errorf("invalid Yahoo search URL: %s", c.API.Yahoo.SearchURL)
	}

	if c.Watch.PollIntervalSec <= 0 {
		return fmt.Errorf("watch poll interval must be positive")
	}
	if c.Report.DefaultChartMonths <= 0 {
		return fmt.Errorf("default chart period must be positive")
	}
	if c.Report.HistoryDays <= 0 {
		return fmt.Errorf("history days must be positive")
	}

	return nil
}

func applyDefaults(cfg *Config) {
	if cfg.API.Yahoo.ChartURL == "" {
		cfg.API.Yahoo.ChartURL = "https://query1.finance.yahoo.com/v8/finance/chart"
	}
	if cfg.API.Yahoo.SearchURL == "" {
		cfg.API.Yahoo.SearchURL = "https://query2.finance.yahoo.com/v1/finance/search"
	}
	if cfg.API.Yahoo.TimeoutSec <= 0 {
		cfg.API.Yahoo.TimeoutSec = 10
	}
	if cfg.Watch.PollIntervalSec <= 0 {
		cfg.Watch.PollIntervalSec = 60
	}
	if cfg.Report.DefaultChartMonths <= 0 {
		cfg.Report.DefaultChartMonths = 3
	}
	if len(cfg.Report.ReturnPeriodMonths) == 0 {
		cfg.Report.ReturnPeriodMonths = []int{1, 3, 12}
	}
	if cfg.Report.HistoryDays <= 0 {
		// 400 days covers a 12 month lookback with margin for market holidays
		cfg.Report.HistoryDays = 400
	}
	if cfg.Report.SMAPeriod <= 0 {
		cfg.Report.SMAPeriod = 20
	}
}

// overrideWithEnv overrides settings from environment variables when present.
func overrideWithEnv(cfg *Config) {
	if token := os.Getenv("DISCORD_TOKEN"); token != "" {
		cfg.Discord.Token = token
	}
	if token := os.Getenv("STOCKBOT_DISCORD_TOKEN"); token != "" {
		cfg.Discord.Token = token
	}
	if url := os.Getenv("STOCKBOT_CHART_URL"); url != "" {
		cfg.API.Yahoo.ChartURL = url
	}
	if url := os.Getenv("STOCKBOT_SEARCH_URL"); url != "" {
		cfg.API.Yahoo.SearchURL = url
	}
}
