// File: internal/config/config.go
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

type RuntimeConfig struct {
	Dev bool
}

type BotConfig struct {
	Token           string  `yaml:"token"`
	Workers         int     `yaml:"workers"` // polling workers
	AdminIDs        []int64 `yaml:"admin_ids"`
	ContactUsername string  `yaml:"contact_username"` // shown to non-admins
}

// TelegramConfig configures the privileged MTProto client used for scraping
// and inviting. The session must already be authorized.
type TelegramConfig struct {
	APIID       int    `yaml:"api_id"`
	APIHash     string `yaml:"api_hash"`
	SessionFile string `yaml:"session_file"`
}

// TransferConfig tunes the member-transfer pipeline.
type TransferConfig struct {
	InviteInterval   time.Duration `yaml:"invite_interval"`    // min spacing between invites
	ProgressEvery    int           `yaml:"progress_every"`     // checkpoint every N processed
	ProgressMaxGap   time.Duration `yaml:"progress_max_gap"`   // or after this much elapsed
	FloodWaitCeiling time.Duration `yaml:"flood_wait_ceiling"` // longer server waits are not slept
	ReportTimeout    time.Duration `yaml:"report_timeout"`     // bound on one progress push
}

type LogConfig struct {
	Level  string `yaml:"level"`  // trace|debug|info|warn|error
	Format string `yaml:"format"` // json|console
}

type AdminConfig struct {
	Port   int    `yaml:"port"`
	APIKey string `yaml:"api_key"`
}

type DatabaseConfig struct {
	URL string `yaml:"url"`
}

type RedisConfig struct {
	URL      string        `yaml:"url"`
	Password string        `yaml:"password"`
	DB       int           `yaml:"db"`
	TTL      time.Duration `yaml:"ttl"`
}

type Config struct {
	Bot      BotConfig      `yaml:"bot"`
	Telegram TelegramConfig `yaml:"telegram"`
	Transfer TransferConfig `yaml:"transfer"`
	Log      LogConfig      `yaml:"log"`
	Admin    AdminConfig    `yaml:"admin"`
	Database DatabaseConfig `yaml:"database"`
	Redis    RedisConfig    `yaml:"redis"`

	Runtime RuntimeConfig `yaml:"-"`
}

func LoadConfig(path string, dev bool) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	var cfg Config
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	// defaults
	if cfg.Bot.Workers <= 0 {
		cfg.Bot.Workers = 8
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = "json"
	}
	if cfg.Telegram.SessionFile == "" {
		cfg.Telegram.SessionFile = "session.json"
	}
	if cfg.Transfer.InviteInterval <= 0 {
		cfg.Transfer.InviteInterval = 10 * time.Second
	}
	if cfg.Transfer.ProgressEvery <= 0 {
		cfg.Transfer.ProgressEvery = 10
	}
	if cfg.Transfer.ProgressMaxGap <= 0 {
		cfg.Transfer.ProgressMaxGap = 30 * time.Second
	}
	if cfg.Transfer.FloodWaitCeiling <= 0 {
		cfg.Transfer.FloodWaitCeiling = time.Hour
	}
	if cfg.Transfer.ReportTimeout <= 0 {
		cfg.Transfer.ReportTimeout = 5 * time.Second
	}
	if cfg.Redis.TTL <= 0 {
		cfg.Redis.TTL = 15 * time.Minute
	}

	// Minimal validation
	if cfg.Bot.Token == "" {
		return nil, errors.New("bot.token is required")
	}
	if cfg.Telegram.APIID == 0 || cfg.Telegram.APIHash == "" {
		return nil, errors.New("telegram.api_id and telegram.api_hash are required")
	}
	if cfg.Database.URL == "" {
		return nil, errors.New("database.url is required")
	}
	if cfg.Redis.URL == "" {
		return nil, errors.New("redis.url is required")
	}

	cfg.Runtime.Dev = dev
	return &cfg, nil
}
