package logging

import (
	"testing"

	"go.uber.org/zap/zapcore"
)

func TestParseLevel(t *testing.T) {
	t.Parallel()

	tests := []struct {
		raw  string
		want zapcore.Level
	}{
		{raw: "", want: zapcore.InfoLevel},
		{raw: "debug", want: zapcore.DebugLevel},
		{raw: " WARN ", want: zapcore.WarnLevel},
		{raw: "error", want: zapcore.ErrorLevel},
	}
	for _, tc := range tests {
		got, err := ParseLevel(tc.raw)
		if err != nil {
			t.Fatalf("ParseLevel(%q) error = %v", tc.raw, err)
		}
		if got != tc.want {
			t.Fatalf("ParseLevel(%q) = %v, want %v", tc.raw, got, tc.want)
		}
	}
}

func TestParseLevelRejectsUnknown(t *testing.T) {
	t.Parallel()

	if _, err := ParseLevel("chatty"); err == nil {
		t.Fatal("expected error for unknown level")
	}
}

func TestNewBuildsBothEncoders(t *testing.T) {
	t.Parallel()

	for _, dev := range []bool{false, true} {
		logger, err := New(Config{Level: "debug", Development: dev})
		if err != nil {
			t.Fatalf("New(dev=%v) error = %v", dev, err)
		}
		if !logger.Core().Enabled(zapcore.DebugLevel) {
			t.Fatalf("New(dev=%v) should enable debug", dev)
		}
	}
}

func TestOrNop(t *testing.T) {
	t.Parallel()

	if OrNop(nil) == nil {
		t.Fatal("OrNop(nil) returned nil")
	}
}
