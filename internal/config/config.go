package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// DefaultUserAgent はサイトからのブロックを避けるためのUser-Agentです。
const DefaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/91.0.4472.124 Safari/537.36"

// Config は環境変数から読み込むスクレイパーの設定です。CLIフラグのデフォルト値になります。
type Config struct {
	MinTextLength int           `env:"SCRAPER_MIN_TEXT_LENGTH" envDefault:"50"`
	Delay         time.Duration `env:"SCRAPER_DELAY" envDefault:"1s"`
	UserAgent     string        `env:"SCRAPER_USER_AGENT"`
	OutputDir     string        `env:"SCRAPER_OUTPUT_DIR" envDefault:"data"`
	Keyword       string        `env:"SCRAPER_KEYWORD"`
	RespectRobots bool          `env:"SCRAPER_RESPECT_ROBOTS" envDefault:"true"`
	Concurrency   int           `env:"SCRAPER_CONCURRENCY" envDefault:"6"`
	Timeout       time.Duration `env:"SCRAPER_TIMEOUT" envDefault:"10s"`
	MaxRetries    uint64        `env:"SCRAPER_MAX_RETRIES" envDefault:"5"`

	// Logging
	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`
}

// Load は .env (任意) と環境変数から設定を読み込みます。
func Load() (*Config, error) {
	_ = godotenv.Load() // .env は任意のため、存在しない場合のエラーは無視する

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("設定の読み込みに失敗しました: %w", err)
	}
	if cfg.UserAgent == "" {
		cfg.UserAgent = DefaultUserAgent
	}
	return cfg, nil
}
