package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	yaml "gopkg.in/yaml.v3"
)

type AppConfig struct {
	RelayBaseURL string `yaml:"relay_base_url"`
	RelayWSURL   string `yaml:"relay_ws_url"`
	RelayEgress  string `yaml:"relay_egress"` // http | ws | auto
	RelayDryRun  bool   `yaml:"relay_dryrun"`

	BotPrefix string `yaml:"bot_prefix"`

	XUserID    string `yaml:"x_user_id"`
	XSessionID string `yaml:"x_session_id"`

	RedisURL    string `yaml:"redis_url"`
	DatabaseURL string `yaml:"database_url"`

	AllowedRooms []string `yaml:"allowed_rooms"`

	BoardSquareSize int    `yaml:"board_square_size"`
	GameTTLSec      int    `yaml:"game_ttl_sec"`
	MessagesDir     string `yaml:"messages_dir"`
	PiecesDir       string `yaml:"pieces_dir"`
	HistoryLimit    int    `yaml:"history_limit"`
}

func defaults() *AppConfig {
	return &AppConfig{
		RelayEgress:     "http",
		BoardSquareSize: 64,
		GameTTLSec:      86400,
		HistoryLimit:    5,
	}
}

// Load reads an optional YAML file named by CONFIG_FILE, then applies
// environment overrides and validates required fields.
func Load() (*AppConfig, error) {
	cfg := defaults()

	if path := strings.TrimSpace(os.Getenv("CONFIG_FILE")); path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config file: %w", err)
		}
		if err := yaml.Unmarshal(raw, cfg); err != nil {
			return nil, fmt.Errorf("parse config file: %w", err)
		}
	}

	setString(&cfg.RelayBaseURL, "RELAY_BASE_URL")
	setString(&cfg.RelayWSURL, "RELAY_WS_URL")
	setString(&cfg.RelayEgress, "RELAY_EGRESS")
	setString(&cfg.BotPrefix, "BOT_PREFIX")
	setString(&cfg.XUserID, "X_USER_ID")
	setString(&cfg.XSessionID, "X_SESSION_ID")
	setString(&cfg.RedisURL, "REDIS_URL")
	setString(&cfg.DatabaseURL, "DATABASE_URL")
	setString(&cfg.MessagesDir, "MESSAGES_DIR")
	setString(&cfg.PiecesDir, "PIECES_DIR")

	if v := strings.TrimSpace(os.Getenv("RELAY_DRYRUN")); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return nil, fmt.Errorf("RELAY_DRYRUN: %w", err)
		}
		cfg.RelayDryRun = b
	}

	if v := strings.TrimSpace(os.Getenv("ALLOWED_ROOMS")); v != "" {
		cfg.AllowedRooms = nil
		for _, p := range strings.Split(v, ",") {
			if s := strings.TrimSpace(p); s != "" {
				cfg.AllowedRooms = append(cfg.AllowedRooms, s)
			}
		}
	}

	setPositiveInt(&cfg.BoardSquareSize, "BOARD_SQUARE_SIZE")
	setPositiveInt(&cfg.GameTTLSec, "GAME_TTL_SEC")
	setPositiveInt(&cfg.HistoryLimit, "HISTORY_LIMIT")

	cfg.RelayEgress = strings.ToLower(strings.TrimSpace(cfg.RelayEgress))
	switch cfg.RelayEgress {
	case "http", "ws", "auto":
	default:
		cfg.RelayEgress = "http"
	}
	if cfg.BoardSquareSize < 16 {
		cfg.BoardSquareSize = 16
	}

	if cfg.RelayBaseURL == "" {
		return nil, errors.New("RELAY_BASE_URL is required")
	}
	if cfg.RelayWSURL == "" {
		return nil, errors.New("RELAY_WS_URL is required")
	}
	if cfg.BotPrefix == "" {
		return nil, errors.New("BOT_PREFIX is required")
	}

	return cfg, nil
}

// RoomAllowed reports whether room passes the ALLOWED_ROOMS filter. An
// empty list allows every room.
func (c *AppConfig) RoomAllowed(room string) bool {
	if len(c.AllowedRooms) == 0 {
		return true
	}
	for _, r := range c.AllowedRooms {
		if r == room {
			return true
		}
	}
	return false
}

func setString(dst *string, key string) {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		*dst = v
	}
}

func setPositiveInt(dst *int, key string) {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			*dst = n
		}
	}
}
