package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Data sources understood by the collector.
const (
	SourceCSV          = "csv"
	SourceAlphaVantage = "alphavantage"
	SourceYahoo        = "yahoo"
)

// Config holds all application configuration.
type Config struct {
	Data struct {
		Source       string   `yaml:"source"`
		Folder       string   `yaml:"folder"`
		LookbackDays int      `yaml:"lookback_days"`
		Tickers      []string `yaml:"tickers"`
		APIKey       string   `yaml:"api_key"`
		BaseURL      string   `yaml:"base_url"`
		RatePerMin   int      `yaml:"rate_per_min"`
	} `yaml:"data"`
	Ranking struct {
		TopK          int  `yaml:"top_k"`
		SimpleReturns bool `yaml:"simple_returns"`
		Workers       int  `yaml:"workers"`
	} `yaml:"ranking"`
	Directory struct {
		Path string `yaml:"path"`
	} `yaml:"directory"`
	Cache struct {
		RedisURL string        `yaml:"redis_url"`
		TTL      time.Duration `yaml:"ttl"`
		Size     int           `yaml:"size"`
	} `yaml:"cache"`
	Telegram struct {
		BotToken string `yaml:"bot_token"`
		ChatID   string `yaml:"chat_id"`
	} `yaml:"telegram"`
	Schedule struct {
		RefreshCron string `yaml:"refresh_cron"`
	} `yaml:"schedule"`
	Watch struct {
		Tickers []string `yaml:"tickers"`
	} `yaml:"watch"`
	Database struct {
		SQLitePath string `yaml:"sqlite_path"`
	} `yaml:"database"`
	Log struct {
		Level string `yaml:"level"`
	} `yaml:"log"`
	Proxy string `yaml:"proxy"`
}

// Load reads config from a YAML file, then applies .env and environment overrides, then defaults.
// A missing file is not an error.
func Load(path string) (*Config, error) {
	cfg := &Config{}

	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if len(data) > 0 {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	// .env never overrides variables already present in the process environment.
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	applyEnv(cfg)
	applyDefaults(cfg)
	return cfg, nil
}

func applyEnv(cfg *Config) {
	if v := os.Getenv("CLOSENESS_DATA_SOURCE"); v != "" {
		cfg.Data.Source = v
	}
	if v := os.Getenv("CLOSENESS_DATA_FOLDER"); v != "" {
		cfg.Data.Folder = v
	}
	if v := os.Getenv("CLOSENESS_LOOKBACK_DAYS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Data.LookbackDays = n
		}
	}
	if v := os.Getenv("CLOSENESS_TICKERS"); v != "" {
		cfg.Data.Tickers = splitList(v)
	}
	if v := os.Getenv("ALPHAVANTAGE_API_KEY"); v != "" {
		cfg.Data.APIKey = v
	}
	if v := os.Getenv("REDIS_URL"); v != "" {
		cfg.Cache.RedisURL = v
	}
	if v := os.Getenv("TELEGRAM_BOT_TOKEN"); v != "" {
		cfg.Telegram.BotToken = v
	}
	if v := os.Getenv("TELEGRAM_CHAT_ID"); v != "" {
		cfg.Telegram.ChatID = v
	}
	if v := os.Getenv("CRON_REFRESH"); v != "" {
		cfg.Schedule.RefreshCron = v
	}
	if v := os.Getenv("SQLITE_PATH"); v != "" {
		cfg.Database.SQLitePath = v
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.Log.Level = v
	}
	if v := os.Getenv("HTTPS_PROXY"); v != "" {
		cfg.Proxy = v
	}
}

func applyDefaults(cfg *Config) {
	if cfg.Data.Source == "" {
		cfg.Data.Source = SourceCSV
	}
	if cfg.Data.Folder == "" {
		cfg.Data.Folder = "Data"
	}
	if cfg.Data.LookbackDays == 0 {
		cfg.Data.LookbackDays = 30
	}
	if cfg.Data.RatePerMin == 0 {
		cfg.Data.RatePerMin = 5
	}
	if cfg.Ranking.TopK == 0 {
		cfg.Ranking.TopK = 3
	}
	if cfg.Cache.TTL == 0 {
		cfg.Cache.TTL = 12 * time.Hour
	}
	if cfg.Cache.Size == 0 {
		cfg.Cache.Size = 512
	}
	if cfg.Schedule.RefreshCron == "" {
		cfg.Schedule.RefreshCron = "0 30 22 * * 1-5"
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
}

// Validate checks the settings needed to load and rank data.
func (c *Config) Validate() error {
	switch c.Data.Source {
	case SourceCSV:
		if c.Data.Folder == "" {
			return fmt.Errorf("data.folder is required for csv source")
		}
	case SourceAlphaVantage:
		if c.Data.APIKey == "" {
			return fmt.Errorf("data.api_key is required for alphavantage source")
		}
		if len(c.Data.Tickers) == 0 {
			return fmt.Errorf("data.tickers is required for alphavantage source")
		}
	case SourceYahoo:
		if len(c.Data.Tickers) == 0 {
			return fmt.Errorf("data.tickers is required for yahoo source")
		}
	default:
		return fmt.Errorf("unknown data.source %q", c.Data.Source)
	}
	if c.Data.LookbackDays < 2 {
		return fmt.Errorf("data.lookback_days must be at least 2")
	}
	if c.Ranking.TopK < 1 {
		return fmt.Errorf("ranking.top_k must be positive")
	}
	return nil
}

// ValidateWatch checks the extra settings the scheduled watch mode needs.
func (c *Config) ValidateWatch() error {
	if c.Telegram.BotToken == "" {
		return fmt.Errorf("telegram.bot_token is required")
	}
	if c.Telegram.ChatID == "" {
		return fmt.Errorf("telegram.chat_id is required")
	}
	if len(c.Watch.Tickers) == 0 {
		return fmt.Errorf("watch.tickers is required")
	}
	return nil
}

func splitList(v string) []string {
	var out []string
	for _, part := range strings.Split(v, ",") {
		if s := strings.TrimSpace(part); s != "" {
			out = append(out, strings.ToUpper(s))
		}
	}
	return out
}
