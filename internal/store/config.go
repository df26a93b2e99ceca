package store

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Ticker string `yaml:"ticker"` // default ticker for one-shot runs

	DataSource struct {
		BaseURL        string `yaml:"base_url"`
		TokenEnv       string `yaml:"token_env"`
		LookbackDays   int    `yaml:"lookback_days"`
		TimeoutSeconds int    `yaml:"timeout_seconds"`
	} `yaml:"data_source"`

	News struct {
		MaxHeadlines   int  `yaml:"max_headlines"`
		CacheMinutes   int  `yaml:"cache_minutes"`
		TimeoutSeconds int  `yaml:"timeout_seconds"`
		AllowTemplates bool `yaml:"allow_templates"` // mock headlines when scraping yields nothing
	} `yaml:"news"`

	Predictor struct {
		MinBars      int   `yaml:"min_bars"`      // bars required before training is attempted
		MinTrainRows int   `yaml:"min_train_rows"` // aligned rows required after the first-row drop
		SplitSeed    int64 `yaml:"split_seed"`
		NoiseSeed    int64 `yaml:"noise_seed"` // 0 = time-seeded
		Forest       struct {
			Trees    int   `yaml:"trees"`
			MaxDepth int   `yaml:"max_depth"`
			MinLeaf  int   `yaml:"min_leaf"`
			Seed     int64 `yaml:"seed"`
		} `yaml:"forest"`
	} `yaml:"predictor"`

	Database struct {
		SQLitePath string `yaml:"sqlite_path"` // empty = noop recorder
	} `yaml:"database"`

	Charts struct {
		Enabled   bool   `yaml:"enabled"`
		OutputDir string `yaml:"output_dir"`
	} `yaml:"charts"`

	RunLog struct {
		Dir           string `yaml:"dir"`
		RetentionDays int    `yaml:"retention_days"` // gzip entries older than this; 0 = keep
	} `yaml:"run_log"`

	Watch struct {
		Cron    string   `yaml:"cron"`
		Tickers []string `yaml:"tickers"`
	} `yaml:"watch"`
}

func (c *Config) Validate() error {
	if c.DataSource.BaseURL == "" {
		return fmt.Errorf("data_source.base_url cannot be empty")
	}
	if c.DataSource.LookbackDays <= 0 {
		return fmt.Errorf("data_source.lookback_days must be positive, got %d", c.DataSource.LookbackDays)
	}
	if c.Predictor.MinTrainRows < 2 {
		return fmt.Errorf("predictor.min_train_rows must be at least 2, got %d", c.Predictor.MinTrainRows)
	}
	if c.Predictor.Forest.Trees <= 0 {
		return fmt.Errorf("predictor.forest.trees must be positive, got %d", c.Predictor.Forest.Trees)
	}
	if c.Watch.Cron != "" && len(c.Watch.Tickers) == 0 {
		return fmt.Errorf("watch.cron is set but watch.tickers is empty")
	}
	return nil
}

func LoadConfig(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var c Config
	if err := yaml.Unmarshal(b, &c); err != nil {
		return nil, err
	}
	c.applyDefaults()

	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return &c, nil
}

// Default returns a config with every default applied, for callers that run
// without a config file.
func Default() *Config {
	var c Config
	c.applyDefaults()
	return &c
}

func (c *Config) applyDefaults() {
	if c.Ticker == "" {
		c.Ticker = "600519.SH"
	}
	if c.DataSource.BaseURL == "" {
		c.DataSource.BaseURL = "https://api.tushare.pro"
	}
	if c.DataSource.TokenEnv == "" {
		c.DataSource.TokenEnv = "TUSHARE_TOKEN"
	}
	if c.DataSource.LookbackDays == 0 {
		c.DataSource.LookbackDays = 365
	}
	if c.DataSource.TimeoutSeconds == 0 {
		c.DataSource.TimeoutSeconds = 15
	}
	if c.News.MaxHeadlines == 0 {
		c.News.MaxHeadlines = 8
	}
	if c.News.CacheMinutes == 0 {
		c.News.CacheMinutes = 60
	}
	if c.News.TimeoutSeconds == 0 {
		c.News.TimeoutSeconds = 10
	}
	if c.Predictor.MinBars == 0 {
		c.Predictor.MinBars = 10
	}
	if c.Predictor.MinTrainRows == 0 {
		c.Predictor.MinTrainRows = 5
	}
	if c.Predictor.SplitSeed == 0 {
		c.Predictor.SplitSeed = 42
	}
	if c.Predictor.Forest.Trees == 0 {
		c.Predictor.Forest.Trees = 100
	}
	if c.Predictor.Forest.MaxDepth == 0 {
		c.Predictor.Forest.MaxDepth = 6
	}
	if c.Predictor.Forest.MinLeaf == 0 {
		c.Predictor.Forest.MinLeaf = 2
	}
	if c.Predictor.Forest.Seed == 0 {
		c.Predictor.Forest.Seed = 42
	}
	if c.Charts.OutputDir == "" {
		c.Charts.OutputDir = "charts"
	}
	if c.RunLog.Dir == "" {
		c.RunLog.Dir = "logs"
	}
}
