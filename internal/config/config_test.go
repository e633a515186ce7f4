package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/verte-zerg/typewriter/internal/model"
)

func TestLoadConfigMissingFile(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "absent.toml"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Practice.Scheme != nil {
		t.Fatalf("expected empty config, got %+v", cfg)
	}
}

func TestLoadConfigValues(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	doc := `
[practice]
scheme = "alphabet"
random-words = 30
focus-weak = true
weak-factor = 0.5

[log]
level = "debug"
`
	if err := os.WriteFile(path, []byte(doc), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Practice.Scheme == nil || *cfg.Practice.Scheme != "alphabet" {
		t.Fatalf("scheme not decoded: %+v", cfg.Practice)
	}
	if cfg.Practice.RandomWords == nil || *cfg.Practice.RandomWords != 30 {
		t.Fatalf("random-words not decoded: %+v", cfg.Practice)
	}
	if cfg.Practice.Watch != nil {
		t.Fatalf("watch should be unset")
	}
	if cfg.Log.Level == nil || *cfg.Log.Level != "debug" {
		t.Fatalf("log level not decoded: %+v", cfg.Log)
	}
}

func TestLoadConfigUnknownKey(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte("[practice]\nlang = \"en\"\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, err := LoadConfig(path); err == nil || !strings.Contains(err.Error(), "lang") {
		t.Fatalf("expected unknown key error, got %v", err)
	}
}

func TestLoadConfigEmptyPath(t *testing.T) {
	if _, err := LoadConfig(""); err == nil {
		t.Fatalf("expected error for empty path")
	}
}

func TestValidate(t *testing.T) {
	good := model.Config{Scheme: "combo_pinyin", RandomWords: 20, WeakTop: 5, WeakFactor: 0.7}
	if err := Validate(good, model.LogConfig{Level: "info"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	bad := good
	bad.WeakFactor = 1.5
	if err := Validate(bad, model.LogConfig{Level: "info"}); err == nil || !strings.Contains(err.Error(), "WeakFactor") {
		t.Fatalf("expected weak factor error, got %v", err)
	}

	bad = good
	bad.Scheme = ""
	if err := Validate(bad, model.LogConfig{Level: "info"}); err == nil {
		t.Fatalf("expected scheme error")
	}

	if err := Validate(good, model.LogConfig{Level: "loud"}); err == nil {
		t.Fatalf("expected log level error")
	}
}

func TestXDGPaths(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/cfg")
	t.Setenv("XDG_DATA_HOME", "/data")
	t.Setenv("XDG_STATE_HOME", "/state")
	if got := DefaultConfigPath(); got != "/cfg/typewriter/config.toml" {
		t.Fatalf("config path: %s", got)
	}
	if got := DefaultSchemeDir(); got != "/cfg/typewriter/schemes" {
		t.Fatalf("scheme dir: %s", got)
	}
	if got := DefaultDBPath(); got != "/data/typewriter/typewriter.db" {
		t.Fatalf("db path: %s", got)
	}
	if got := DefaultLogPath(); got != "/state/typewriter/typewriter.log" {
		t.Fatalf("log path: %s", got)
	}
}
