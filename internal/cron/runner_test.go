package cronrunner

import (
	"context"
	"testing"
	"time"
)

type ctxKey struct{}

func TestRunner_RunsWithBaseContext(t *testing.T) {
	base := context.WithValue(context.Background(), ctxKey{}, "base")
	r := New(nil, base)
	got := make(chan any, 1)
	if _, err := r.Add("@every 1s", func(ctx context.Context) {
		select {
		case got <- ctx.Value(ctxKey{}):
		default:
		}
	}); err != nil {
		t.Fatalf("add: %v", err)
	}
	if r.Len() != 1 {
		t.Fatalf("len=%d want 1", r.Len())
	}
	r.Start()
	defer r.Stop()

	select {
	case v := <-got:
		if v != "base" {
			t.Fatalf("ctx value=%v want base", v)
		}
	case <-time.After(3 * time.Second):
		t.Fatalf("job did not run")
	}
}

func TestRunner_RejectsBadSpec(t *testing.T) {
	r := New(nil, nil)
	if _, err := r.Add("not a spec", func(context.Context) {}); err == nil {
		t.Fatalf("expected parse error")
	}
}
