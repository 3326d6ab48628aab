package logger

import (
	"context"
	"testing"

	"go.uber.org/zap/zapcore"

	"tradejournal/internal/config"
)

func TestNew_Levels(t *testing.T) {
	cases := []struct {
		level string
		want  zapcore.Level
	}{
		{"debug", zapcore.DebugLevel},
		{"WARN", zapcore.WarnLevel},
		{"bogus", zapcore.InfoLevel},
	}
	for _, tc := range cases {
		l, err := New(config.LogConfig{Level: tc.level, Encoding: "json"})
		if err != nil {
			t.Fatalf("%s: %v", tc.level, err)
		}
		if !l.Core().Enabled(tc.want) || (tc.want > zapcore.DebugLevel && l.Core().Enabled(tc.want-1)) {
			t.Fatalf("%s: level not applied", tc.level)
		}
	}
}

func TestWithContext_NilLogger(t *testing.T) {
	if WithContext(context.Background(), nil) == nil {
		t.Fatalf("expected nop logger")
	}
}
