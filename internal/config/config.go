package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"github.com/robfig/cron/v3"
	"gopkg.in/yaml.v3"

	"SetupScanner/internal/model"
	"SetupScanner/internal/scheduler"
	"SetupScanner/internal/strategy"
)

// Config holds all application configuration.
type Config struct {
	Telegram struct {
		BotToken string `yaml:"bot_token"`
		ChatID   string `yaml:"chat_id"`
	} `yaml:"telegram"`
	DataSource struct {
		BaseURL string `yaml:"base_url"`
		Limit   int    `yaml:"limit"`
	} `yaml:"data_source"`
	Instruments     []model.Instrument `yaml:"instruments"`
	InstrumentsFile string             `yaml:"instruments_file"`
	Schedule        struct {
		Cron   string           `yaml:"cron"`
		Window scheduler.Window `yaml:"window"`
	} `yaml:"schedule"`
	Strategy strategy.Params `yaml:"strategy"`
	Export   struct {
		XLSXPath      string `yaml:"xlsx_path"`
		CSVPath       string `yaml:"csv_path"`
		ChartCandles  int    `yaml:"chart_candles"`
		IntegrityBars int    `yaml:"integrity_bars"`
	} `yaml:"export"`
	Database struct {
		SQLitePath string `yaml:"sqlite_path"`
	} `yaml:"database"`
	Metrics struct {
		Addr string `yaml:"addr"`
	} `yaml:"metrics"`
	Log struct {
		Level       string `yaml:"level"`
		Development bool   `yaml:"development"`
	} `yaml:"log"`
	Proxy string `yaml:"proxy"`
}

// Load reads config from a YAML file, loads a .env file if present, then applies
// environment variable overrides and defaults. Instruments from the
// instruments_file sheet are appended to the YAML list.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	// bool fields default to true, so seed them before decoding
	cfg.Schedule.Window = scheduler.DefaultWindow()

	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if len(data) > 0 {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	envFile := ".env"
	if v := os.Getenv("ENV_FILE"); v != "" {
		envFile = v
	}
	if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load %s: %w", envFile, err)
	}

	// Environment variable overrides
	if v := os.Getenv("TELEGRAM_BOT_TOKEN"); v != "" {
		cfg.Telegram.BotToken = v
	}
	if v := os.Getenv("TELEGRAM_CHAT_ID"); v != "" {
		cfg.Telegram.ChatID = v
	}
	if v := os.Getenv("BYBIT_BASE_URL"); v != "" {
		cfg.DataSource.BaseURL = v
	}
	if v := os.Getenv("INSTRUMENTS_FILE"); v != "" {
		cfg.InstrumentsFile = v
	}
	if v := os.Getenv("CRON_SCHEDULE"); v != "" {
		cfg.Schedule.Cron = v
	}
	if v := os.Getenv("SQLITE_PATH"); v != "" {
		cfg.Database.SQLitePath = v
	}
	if v := os.Getenv("METRICS_ADDR"); v != "" {
		cfg.Metrics.Addr = v
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.Log.Level = v
	}
	if v := os.Getenv("HTTPS_PROXY"); v != "" {
		cfg.Proxy = v
	}
	if v := os.Getenv("SLIPPAGE_DEPTH"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return nil, fmt.Errorf("SLIPPAGE_DEPTH: %w", err)
		}
		cfg.Strategy.SlippageDepth = n
	}

	// Defaults
	if cfg.DataSource.BaseURL == "" {
		cfg.DataSource.BaseURL = "https://api.bybit.com"
	}
	if cfg.DataSource.Limit == 0 {
		cfg.DataSource.Limit = 50
	}
	if cfg.Schedule.Cron == "" {
		cfg.Schedule.Cron = "0 * * * * *"
	}
	cfg.Strategy.ApplyDefaults()
	if cfg.Export.XLSXPath == "" {
		cfg.Export.XLSXPath = "data/setups.xlsx"
	}
	if cfg.Export.CSVPath == "" {
		cfg.Export.CSVPath = "data/candles.csv"
	}
	if cfg.Export.ChartCandles == 0 {
		cfg.Export.ChartCandles = 13
	}
	if cfg.Export.IntegrityBars == 0 {
		cfg.Export.IntegrityBars = 10
	}
	if cfg.Database.SQLitePath == "" {
		cfg.Database.SQLitePath = "data/setup_scanner.db"
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	for i := range cfg.Instruments {
		if cfg.Instruments[i].Market == "" {
			cfg.Instruments[i].Market = "linear"
		}
	}

	if cfg.InstrumentsFile != "" {
		sheet, err := LoadInstruments(cfg.InstrumentsFile)
		if err != nil {
			return nil, fmt.Errorf("load instruments: %w", err)
		}
		cfg.Instruments = mergeInstruments(cfg.Instruments, sheet)
	}

	return cfg, nil
}

// Validate checks that all required fields are set.
func (c *Config) Validate() error {
	if c.Telegram.BotToken != "" && c.Telegram.ChatID == "" {
		return fmt.Errorf("telegram.chat_id is required when bot_token is set")
	}
	if c.DataSource.BaseURL == "" {
		return fmt.Errorf("data_source.base_url is required")
	}
	if c.DataSource.Limit < c.Strategy.MinCandles {
		return fmt.Errorf("data_source.limit %d is below strategy.min_candles %d",
			c.DataSource.Limit, c.Strategy.MinCandles)
	}
	if len(c.Instruments) == 0 {
		return fmt.Errorf("at least one instrument is required")
	}
	for i, inst := range c.Instruments {
		if inst.Pair == "" || inst.Timeframe == "" {
			return fmt.Errorf("instruments[%d]: pair and timeframe are required", i)
		}
	}
	if _, err := cron.NewParser(cron.Second | cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor).
		Parse(c.Schedule.Cron); err != nil {
		return fmt.Errorf("schedule.cron: %w", err)
	}
	if err := c.Schedule.Window.Validate(); err != nil {
		return err
	}
	if err := c.Strategy.Validate(); err != nil {
		return err
	}
	if c.Export.ChartCandles < 2 {
		return fmt.Errorf("export.chart_candles must be at least 2")
	}
	return nil
}

// mergeInstruments appends extra to base, skipping duplicates.
func mergeInstruments(base, extra []model.Instrument) []model.Instrument {
	seen := make(map[model.Instrument]bool, len(base)+len(extra))
	out := make([]model.Instrument, 0, len(base)+len(extra))
	for _, list := range [][]model.Instrument{base, extra} {
		for _, inst := range list {
			if seen[inst] {
				continue
			}
			seen[inst] = true
			out = append(out, inst)
		}
	}
	return out
}
