package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	toml "github.com/pelletier/go-toml/v2"
)

const DefaultConfigFileName = "taskquest.toml"

// Config keeps runtime settings for the service.
type Config struct {
	DatabasePath       string        `toml:"database_path"`
	TelegramToken      string        `toml:"telegram_token"`
	TelegramChatID     int64         `toml:"telegram_chat_id"`
	SweepTime          string        `toml:"sweep_time"`
	SweepIntervalHours int           `toml:"sweep_interval_hours"`
	SweepInterval      time.Duration `toml:"-"`
	RetentionAge       time.Duration `toml:"-"`
	RetentionHours     int           `toml:"retention_hours"`
}

// Load reads configuration from a TOML file (missing file is fine), applies
// environment-variable overrides, and fills in defaults. The Telegram token
// is optional: without one, reminders degrade to log delivery.
func Load(path string) (Config, error) {
	if path == "" {
		path = strings.TrimSpace(os.Getenv("TASKQUEST_CONFIG"))
	}
	if path == "" {
		path = DefaultConfigFileName
	}

	var cfg Config
	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := toml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("parse config %q: %w", path, err)
		}
	case errors.Is(err, fs.ErrNotExist):
		// Defaults only.
	default:
		return cfg, fmt.Errorf("read config %q: %w", path, err)
	}

	applyEnv(&cfg)

	if cfg.DatabasePath == "" {
		cfg.DatabasePath = "taskquest.db"
	}
	if cfg.SweepTime == "" {
		cfg.SweepTime = "03:30"
	}
	if cfg.RetentionHours <= 0 {
		cfg.RetentionHours = 24
	}
	cfg.RetentionAge = time.Duration(cfg.RetentionHours) * time.Hour
	// Zero means "sweep daily at SweepTime" rather than on an interval.
	if cfg.SweepIntervalHours < 0 {
		cfg.SweepIntervalHours = 0
	}
	cfg.SweepInterval = time.Duration(cfg.SweepIntervalHours) * time.Hour

	return cfg, nil
}

func applyEnv(cfg *Config) {
	if v := strings.TrimSpace(os.Getenv("TASKQUEST_DB")); v != "" {
		cfg.DatabasePath = v
	}
	if v := strings.TrimSpace(os.Getenv("TASKQUEST_TELEGRAM_TOKEN")); v != "" {
		cfg.TelegramToken = v
	}
	if v := strings.TrimSpace(os.Getenv("TASKQUEST_TELEGRAM_CHAT_ID")); v != "" {
		if id, err := strconv.ParseInt(v, 10, 64); err == nil {
			cfg.TelegramChatID = id
		}
	}
	if v := strings.TrimSpace(os.Getenv("TASKQUEST_SWEEP_TIME")); v != "" {
		cfg.SweepTime = v
	}
	if v := strings.TrimSpace(os.Getenv("TASKQUEST_SWEEP_INTERVAL_HOURS")); v != "" {
		if hours, err := strconv.Atoi(v); err == nil && hours > 0 {
			cfg.SweepIntervalHours = hours
		}
	}
	if v := strings.TrimSpace(os.Getenv("TASKQUEST_RETENTION_HOURS")); v != "" {
		if hours, err := strconv.Atoi(v); err == nil && hours > 0 {
			cfg.RetentionHours = hours
		}
	}
}
