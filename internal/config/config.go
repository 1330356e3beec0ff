package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"github.com/robfig/cron/v3"
	"gopkg.in/yaml.v3"

	"SignalSentinel/internal/strategy"
)

// DefaultPath is used when CONFIG_PATH is unset.
const DefaultPath = "configs/config.yaml"

// Config holds all application configuration.
type Config struct {
	App        AppConfig        `yaml:"app"`
	Telegram   TelegramConfig   `yaml:"telegram"`
	DataSource DataSourceConfig `yaml:"data_source"`
	Pipeline   PipelineConfig   `yaml:"pipeline"`
	Schedule   ScheduleConfig   `yaml:"schedule"`
	Metrics    MetricsConfig    `yaml:"metrics"`
	Output     OutputConfig     `yaml:"output"`
	Proxy      string           `yaml:"proxy" envconfig:"HTTPS_PROXY"`
}

type AppConfig struct {
	Name     string `yaml:"name" envconfig:"APP_NAME"`
	Env      string `yaml:"env" envconfig:"APP_ENV"`
	LogLevel string `yaml:"log_level" envconfig:"LOG_LEVEL"`
}

// TelegramConfig is optional; delivery is disabled without a token.
type TelegramConfig struct {
	BotToken string `yaml:"bot_token" envconfig:"TELEGRAM_BOT_TOKEN"`
	ChatID   string `yaml:"chat_id" envconfig:"TELEGRAM_CHAT_ID"`
}

// Enabled reports whether reports should be delivered.
func (t TelegramConfig) Enabled() bool { return t.BotToken != "" }

type DataSourceConfig struct {
	Provider       string        `yaml:"provider" envconfig:"DATA_PROVIDER"` // coingecko | mock
	BaseURL        string        `yaml:"base_url" envconfig:"COINGECKO_BASE_URL"`
	APIKey         string        `yaml:"api_key" envconfig:"COINGECKO_API_KEY"`
	VsCurrency     string        `yaml:"vs_currency" envconfig:"VS_CURRENCY"`
	TopN           int           `yaml:"top_n" envconfig:"TOP_N"`
	HistoryDays    int           `yaml:"history_days" envconfig:"HISTORY_DAYS"`
	RequestDelay   time.Duration `yaml:"request_delay" envconfig:"REQUEST_DELAY"`
	Timeout        time.Duration `yaml:"timeout" envconfig:"REQUEST_TIMEOUT"`
	RateLimitPause time.Duration `yaml:"rate_limit_pause" envconfig:"RATE_LIMIT_PAUSE"`
}

type PipelineConfig struct {
	AdvancedLimit int     `yaml:"advanced_limit" envconfig:"ADVANCED_LIMIT"`
	MinAdvanced   int     `yaml:"min_advanced" envconfig:"MIN_ADVANCED"`
	MaxSignals    int     `yaml:"max_signals" envconfig:"MAX_SIGNALS"`
	MinMarketCap  float64 `yaml:"min_market_cap" envconfig:"MIN_MARKET_CAP"`
	SwingPeriod   int     `yaml:"swing_period" envconfig:"SWING_PERIOD"`
	TieBreak      string  `yaml:"tie_break" envconfig:"TIE_BREAK"`
}

type ScheduleConfig struct {
	SignalsCron string `yaml:"signals_cron" envconfig:"CRON_SIGNALS"`
}

type MetricsConfig struct {
	Addr string `yaml:"addr" envconfig:"METRICS_ADDR"` // "off" disables the endpoint
}

type OutputConfig struct {
	JSONLPath string `yaml:"jsonl_path" envconfig:"SIGNALS_JSONL"` // empty disables the sink
}

// Load reads config from a YAML file, then .env and environment variable overrides, then defaults.
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

	// .env is optional
	_ = godotenv.Load()

	if err := envconfig.Process("", cfg); err != nil {
		return nil, fmt.Errorf("env overrides: %w", err)
	}

	cfg.applyDefaults()
	return cfg, nil
}

func (c *Config) applyDefaults() {
	if c.App.Name == "" {
		c.App.Name = "signal-sentinel"
	}
	if c.App.Env == "" {
		c.App.Env = "development"
	}
	if c.App.LogLevel == "" {
		c.App.LogLevel = "info"
	}
	ds := &c.DataSource
	if ds.Provider == "" {
		ds.Provider = "coingecko"
	}
	if ds.BaseURL == "" {
		ds.BaseURL = "https://api.coingecko.com/api/v3"
	}
	if ds.VsCurrency == "" {
		ds.VsCurrency = "usd"
	}
	if ds.TopN == 0 {
		ds.TopN = 20
	}
	if ds.HistoryDays == 0 {
		ds.HistoryDays = 90
	}
	if ds.RequestDelay == 0 {
		ds.RequestDelay = 1500 * time.Millisecond
	}
	if ds.Timeout == 0 {
		ds.Timeout = 15 * time.Second
	}
	if ds.RateLimitPause == 0 {
		ds.RateLimitPause = 65 * time.Second
	}
	p := &c.Pipeline
	if p.AdvancedLimit == 0 {
		p.AdvancedLimit = 8
	}
	if p.MinAdvanced == 0 {
		p.MinAdvanced = 3
	}
	if p.MaxSignals == 0 {
		p.MaxSignals = 8
	}
	if p.SwingPeriod == 0 {
		p.SwingPeriod = 5
	}
	if p.TieBreak == "" {
		p.TieBreak = string(strategy.TieBreakBuy)
	}
	if c.Metrics.Addr == "" {
		c.Metrics.Addr = ":9090"
	}
	if c.Schedule.SignalsCron == "" {
		c.Schedule.SignalsCron = "0 */15 * * * *"
	}
}

// Enabled reports whether the /metrics endpoint should be served.
func (m MetricsConfig) Enabled() bool { return m.Addr != "" && m.Addr != "off" }

// Validate checks that all fields hold usable values.
func (c *Config) Validate() error {
	if c.Telegram.BotToken != "" && c.Telegram.ChatID == "" {
		return fmt.Errorf("telegram.chat_id is required when telegram.bot_token is set")
	}
	switch strings.ToLower(c.DataSource.Provider) {
	case "coingecko":
		if c.DataSource.BaseURL == "" {
			return fmt.Errorf("data_source.base_url is required")
		}
	case "mock":
	default:
		return fmt.Errorf("data_source.provider %q is not supported", c.DataSource.Provider)
	}
	if c.DataSource.TopN <= 0 || c.DataSource.HistoryDays <= 0 {
		return fmt.Errorf("data_source.top_n and data_source.history_days must be positive")
	}
	if c.DataSource.RequestDelay < 0 || c.DataSource.Timeout < 0 || c.DataSource.RateLimitPause < 0 {
		return fmt.Errorf("data_source durations must not be negative")
	}
	p := c.Pipeline
	if p.AdvancedLimit <= 0 || p.MinAdvanced <= 0 || p.MaxSignals <= 0 || p.SwingPeriod <= 0 {
		return fmt.Errorf("pipeline limits must be positive")
	}
	if p.MinMarketCap < 0 {
		return fmt.Errorf("pipeline.min_market_cap must not be negative")
	}
	if _, err := strategy.ParseTieBreak(p.TieBreak); err != nil {
		return fmt.Errorf("pipeline.tie_break: %w", err)
	}
	if _, err := cron.NewParser(cron.Second | cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow).Parse(c.Schedule.SignalsCron); err != nil {
		return fmt.Errorf("schedule.signals_cron: %w", err)
	}
	return nil
}
