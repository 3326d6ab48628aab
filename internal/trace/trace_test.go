package trace

import (
	"context"
	"errors"
	"testing"

	"tradejournal/internal/config"
)

func TestStartSpan_DisabledIsNoop(t *testing.T) {
	if err := Init(config.TraceConfig{Enabled: false}, "test"); err != nil {
		t.Fatalf("init: %v", err)
	}
	if Enabled() {
		t.Fatalf("tracing should be disabled")
	}
	ctx, span := StartSpan(context.Background(), "noop")
	End(span, errors.New("ignored"))
	if fields := Fields(ctx); len(fields) != 0 {
		t.Fatalf("fields=%v want none", fields)
	}
}

func TestStartSpan_Enabled(t *testing.T) {
	if err := Init(config.TraceConfig{Enabled: true, ServiceName: "tradejournal-test"}, "test"); err != nil {
		t.Fatalf("init: %v", err)
	}
	defer func() { _ = Shutdown(context.Background()) }()

	ctx, span := StartSpan(context.Background(), "analyze")
	fields := Fields(ctx)
	End(span, nil)
	if len(fields) != 2 {
		t.Fatalf("fields=%v want trace_id and span_id", fields)
	}
}
