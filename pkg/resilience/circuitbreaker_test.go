package resilience

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/EmersonEIMS/generator-oracle/pkg/fn"
)

var errDown = errors.New("backend down")

func failing(context.Context) error { return errDown }
func succeeding(context.Context) error { return nil }

func tripBreaker(t *testing.T, b *Breaker, n int) {
	t.Helper()
	for i := 0; i < n; i++ {
		if err := b.Call(context.Background(), failing); !errors.Is(err, errDown) {
			t.Fatalf("call %d: err = %v, want backend error", i, err)
		}
	}
}

func TestBreaker_TripsAfterThreshold(t *testing.T) {
	b := NewBreaker(BreakerOpts{FailThreshold: 3, Timeout: time.Minute})

	tripBreaker(t, b, 3)
	if b.State() != StateOpen {
		t.Fatalf("state = %v, want open after 3 failures", b.State())
	}
	if err := b.Call(context.Background(), succeeding); !errors.Is(err, ErrCircuitOpen) {
		t.Errorf("open breaker should reject without calling, got %v", err)
	}
}

func TestBreaker_SuccessResetsFailureCount(t *testing.T) {
	b := NewBreaker(BreakerOpts{FailThreshold: 3, Timeout: time.Minute})

	tripBreaker(t, b, 2)
	if err := b.Call(context.Background(), succeeding); err != nil {
		t.Fatalf("Call: %v", err)
	}
	tripBreaker(t, b, 2)
	if b.State() != StateClosed {
		t.Errorf("state = %v, want closed; success should have reset the count", b.State())
	}
}

func TestBreaker_HalfOpenProbe(t *testing.T) {
	b := NewBreaker(BreakerOpts{FailThreshold: 1, Timeout: 10 * time.Second, HalfOpenMax: 1})
	clock := time.Now()
	b.now = func() time.Time { return clock }

	tripBreaker(t, b, 1)
	if b.State() != StateOpen {
		t.Fatalf("state = %v, want open", b.State())
	}

	// Before the timeout the breaker stays open.
	clock = clock.Add(5 * time.Second)
	if err := b.Call(context.Background(), succeeding); !errors.Is(err, ErrCircuitOpen) {
		t.Fatalf("breaker should still be open, got %v", err)
	}

	// After the timeout a probe is allowed; success closes the breaker.
	clock = clock.Add(6 * time.Second)
	if err := b.Call(context.Background(), succeeding); err != nil {
		t.Fatalf("probe call: %v", err)
	}
	if b.State() != StateClosed {
		t.Errorf("state = %v, want closed after successful probe", b.State())
	}
}

func TestBreaker_FailedProbeReopens(t *testing.T) {
	b := NewBreaker(BreakerOpts{FailThreshold: 1, Timeout: 10 * time.Second, HalfOpenMax: 1})
	clock := time.Now()
	b.now = func() time.Time { return clock }

	tripBreaker(t, b, 1)
	clock = clock.Add(11 * time.Second)
	if err := b.Call(context.Background(), failing); !errors.Is(err, errDown) {
		t.Fatalf("probe should run and fail, got %v", err)
	}
	if b.State() != StateOpen {
		t.Errorf("state = %v, want open after failed probe", b.State())
	}
	// The fresh open period starts now, so calls are rejected again.
	if err := b.Call(context.Background(), succeeding); !errors.Is(err, ErrCircuitOpen) {
		t.Errorf("reopened breaker should reject, got %v", err)
	}
}

func TestCallResult_PropagatesThroughBreaker(t *testing.T) {
	b := NewBreaker(BreakerOpts{FailThreshold: 1, Timeout: time.Minute})

	r := CallResult(b, context.Background(), func(context.Context) fn.Result[int] {
		return fn.Ok(7)
	})
	if v, err := r.Unwrap(); err != nil || v != 7 {
		t.Errorf("CallResult = (%d, %v)", v, err)
	}

	r = CallResult(b, context.Background(), func(context.Context) fn.Result[int] {
		return fn.Err[int](errDown)
	})
	if _, err := r.Unwrap(); !errors.Is(err, errDown) {
		t.Errorf("CallResult err = %v", err)
	}

	// One failure with threshold 1 opens the circuit.
	r = CallResult(b, context.Background(), func(context.Context) fn.Result[int] {
		t.Error("open breaker must not invoke the function")
		return fn.Ok(0)
	})
	if _, err := r.Unwrap(); !errors.Is(err, ErrCircuitOpen) {
		t.Errorf("expected ErrCircuitOpen, got %v", err)
	}
}

func TestBreakerStage(t *testing.T) {
	b := NewBreaker(BreakerOpts{FailThreshold: 1, Timeout: time.Minute})
	stage := BreakerStage(b, fn.MapStage(func(n int) int { return n + 1 }))

	if v, err := stage(context.Background(), 1).Unwrap(); err != nil || v != 2 {
		t.Errorf("stage = (%d, %v)", v, err)
	}
}
