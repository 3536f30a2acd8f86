package obslog

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func TestParseLevel(t *testing.T) {
	cases := map[string]zapcore.Level{
		"debug":   zapcore.DebugLevel,
		" WARN ":  zapcore.WarnLevel,
		"warning": zapcore.WarnLevel,
		"error":   zapcore.ErrorLevel,
		"bogus":   zapcore.InfoLevel,
		"":        zapcore.InfoLevel,
	}
	for in, want := range cases {
		if got := parseLevel(in); got != want {
			t.Fatalf("parseLevel(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestNewWritesJSONFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "app.log")
	logger, err := New(Options{Level: "debug", File: true, FilePath: path, Format: "json"})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	logger.Info("game_move_applied", zap.String("move", "e2e4"))
	_ = logger.Sync()

	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	if !strings.Contains(string(raw), `"move":"e2e4"`) {
		t.Fatalf("expected json field in log, got %s", raw)
	}
}

func TestNormalizeFormat(t *testing.T) {
	if normalizeFormat("JSON") != "json" || normalizeFormat("xml") != "legacy" {
		t.Fatalf("normalizeFormat")
	}
}
