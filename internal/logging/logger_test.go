package logging

import (
	"testing"

	"go.uber.org/zap/zapcore"
)

func TestParseLevel(t *testing.T) {
	cases := map[string]zapcore.Level{
		"debug":   zapcore.DebugLevel,
		" WARN ":  zapcore.WarnLevel,
		"error":   zapcore.ErrorLevel,
		"":        zapcore.InfoLevel,
		"verbose": zapcore.InfoLevel,
	}
	for in, want := range cases {
		if got := parseLevel(in); got != want {
			t.Errorf("parseLevel(%q) = %s, want %s", in, got, want)
		}
	}
}

func TestNew_RespectsLevel(t *testing.T) {
	log, flush, err := New("warn", "production", "api")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer flush()

	if log.Core().Enabled(zapcore.InfoLevel) {
		t.Error("info should be filtered at warn level")
	}
	if !log.Core().Enabled(zapcore.WarnLevel) {
		t.Error("warn should be enabled")
	}
}
