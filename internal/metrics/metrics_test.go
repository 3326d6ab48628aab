package metrics

import (
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestForwardsCounter(t *testing.T) {
	before := testutil.ToFloat64(Forwards.WithLabelValues("http", "error"))
	Forwards.WithLabelValues("http", Result(errors.New("x"))).Inc()
	after := testutil.ToFloat64(Forwards.WithLabelValues("http", "error"))
	if after-before != 1 {
		t.Fatalf("delta=%v want 1", after-before)
	}
}

func TestObserveStage(t *testing.T) {
	ObserveStage("parse", time.Now().Add(-time.Millisecond))
	if n := testutil.CollectAndCount(StageLatency); n == 0 {
		t.Fatalf("no histogram series collected")
	}
}
