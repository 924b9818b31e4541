package config

import (
	"strings"
	"testing"
	"time"
)

type envTestConfig struct {
	Port      int           `env:"RUSTIN_TEST_PORT" envDefault:"123"`
	MinSplash time.Duration `env:"RUSTIN_TEST_SPLASH" envDefault:"1500ms"`
}

func TestParseEnvDefaults(t *testing.T) {
	var cfg envTestConfig

	if err := ParseEnv(&cfg); err != nil {
		t.Fatalf("parse env: %v", err)
	}
	if cfg.Port != 123 {
		t.Fatalf("expected default port 123, got %d", cfg.Port)
	}
	if cfg.MinSplash != 1500*time.Millisecond {
		t.Fatalf("expected default splash 1.5s, got %v", cfg.MinSplash)
	}
}

func TestParseEnvError(t *testing.T) {
	var cfg envTestConfig
	t.Setenv("RUSTIN_TEST_PORT", "not-an-int")

	err := ParseEnv(&cfg)
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(err.Error(), "parse env:") {
		t.Fatalf("expected parse env prefix, got %v", err)
	}
}

func TestParseEnvMapUsesProvidedValues(t *testing.T) {
	t.Parallel()

	var cfg envTestConfig
	if err := ParseEnvMap(&cfg, map[string]string{"RUSTIN_TEST_PORT": "9090", "RUSTIN_TEST_SPLASH": "2s"}); err != nil {
		t.Fatalf("parse env map: %v", err)
	}
	if cfg.Port != 9090 {
		t.Fatalf("port = %d, want 9090", cfg.Port)
	}
	if cfg.MinSplash != 2*time.Second {
		t.Fatalf("splash = %v, want 2s", cfg.MinSplash)
	}
}

func TestParseEnvMapRejectsBadDuration(t *testing.T) {
	t.Parallel()

	var cfg envTestConfig
	if err := ParseEnvMap(&cfg, map[string]string{"RUSTIN_TEST_SPLASH": "soon"}); err == nil {
		t.Fatal("expected duration parse error")
	}
}
