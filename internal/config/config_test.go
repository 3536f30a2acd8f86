package config

import (
	"os"
	"path/filepath"
	"testing"
)

func setRequired(t *testing.T) {
	t.Helper()
	t.Setenv("RELAY_BASE_URL", "http://relay.local")
	t.Setenv("RELAY_WS_URL", "ws://relay.local/ws")
	t.Setenv("BOT_PREFIX", "!chess")
}

func TestLoadDefaults(t *testing.T) {
	setRequired(t)
	t.Setenv("CONFIG_FILE", "")
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.RelayEgress != "http" || cfg.BoardSquareSize != 64 || cfg.GameTTLSec != 86400 {
		t.Fatalf("unexpected defaults: %+v", cfg)
	}
	if !cfg.RoomAllowed("any") {
		t.Fatalf("empty allow-list should allow every room")
	}
}

func TestLoadRequiresPrefix(t *testing.T) {
	setRequired(t)
	t.Setenv("BOT_PREFIX", " ")
	if _, err := Load(); err == nil {
		t.Fatalf("expected error without BOT_PREFIX")
	}
}

func TestLoadYAMLThenEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "clickchess.yaml")
	body := []byte(`
relay_base_url: http://from-file
relay_ws_url: ws://from-file/ws
bot_prefix: "!file"
relay_egress: auto
board_square_size: 48
allowed_rooms: [r1, r2]
`)
	if err := os.WriteFile(path, body, 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	t.Setenv("CONFIG_FILE", path)
	t.Setenv("RELAY_BASE_URL", "")
	t.Setenv("RELAY_WS_URL", "")
	t.Setenv("BOT_PREFIX", "!env")
	t.Setenv("ALLOWED_ROOMS", "")
	t.Setenv("BOARD_SQUARE_SIZE", "not-a-number")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.RelayBaseURL != "http://from-file" || cfg.BotPrefix != "!env" {
		t.Fatalf("precedence wrong: %+v", cfg)
	}
	if cfg.RelayEgress != "auto" || cfg.BoardSquareSize != 48 {
		t.Fatalf("file values lost: %+v", cfg)
	}
	if !cfg.RoomAllowed("r2") || cfg.RoomAllowed("r3") {
		t.Fatalf("allowed rooms not applied: %v", cfg.AllowedRooms)
	}
}

func TestLoadUnknownEgressFallsBack(t *testing.T) {
	setRequired(t)
	t.Setenv("CONFIG_FILE", "")
	t.Setenv("RELAY_EGRESS", "carrier-pigeon")
	t.Setenv("ALLOWED_ROOMS", "a, ,b")
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.RelayEgress != "http" {
		t.Fatalf("expected http fallback, got %q", cfg.RelayEgress)
	}
	if len(cfg.AllowedRooms) != 2 {
		t.Fatalf("expected 2 rooms, got %v", cfg.AllowedRooms)
	}
}

func TestLoadDryRun(t *testing.T) {
	setRequired(t)
	t.Setenv("CONFIG_FILE", "")
	t.Setenv("RELAY_DRYRUN", "true")
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !cfg.RelayDryRun {
		t.Fatalf("RELAY_DRYRUN=true not applied")
	}

	t.Setenv("RELAY_DRYRUN", "maybe")
	if _, err := Load(); err == nil {
		t.Fatalf("expected error for unparsable RELAY_DRYRUN")
	}
}
