package fn

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestResult_OkAndErr(t *testing.T) {
	ok := Ok(42)
	if !ok.IsOk() || ok.IsErr() {
		t.Error("Ok result should report ok")
	}
	if v, err := ok.Unwrap(); v != 42 || err != nil {
		t.Errorf("Unwrap = (%d, %v)", v, err)
	}

	boom := errors.New("boom")
	bad := Err[int](boom)
	if bad.IsOk() {
		t.Error("Err result should not report ok")
	}
	if _, err := bad.Unwrap(); !errors.Is(err, boom) {
		t.Errorf("Unwrap err = %v", err)
	}
	if bad.UnwrapOr(7) != 7 {
		t.Error("UnwrapOr should return fallback on error")
	}
	if ok.UnwrapOr(7) != 42 {
		t.Error("UnwrapOr should return value when ok")
	}
}

func TestResult_MapAndThen(t *testing.T) {
	double := func(n int) int { return n * 2 }
	if v, _ := Ok(3).Map(double).Unwrap(); v != 6 {
		t.Errorf("Map = %d, want 6", v)
	}

	boom := errors.New("boom")
	r := Err[int](boom).Map(double).AndThen(func(int) Result[int] {
		t.Error("AndThen should not run after an error")
		return Ok(0)
	})
	if _, err := r.Unwrap(); !errors.Is(err, boom) {
		t.Errorf("error should propagate, got %v", err)
	}
}

func TestFromPair(t *testing.T) {
	if r := FromPair(1, nil); r.IsErr() {
		t.Error("FromPair with nil error should be ok")
	}
	if r := FromPair(0, errors.New("x")); r.IsOk() {
		t.Error("FromPair with error should be err")
	}
}

func TestCollect_FirstError(t *testing.T) {
	boom := errors.New("boom")
	r := Collect([]Result[int]{Ok(1), Err[int](boom), Ok(3)})
	if _, err := r.Unwrap(); !errors.Is(err, boom) {
		t.Errorf("Collect should surface the first error, got %v", err)
	}

	all := Collect([]Result[int]{Ok(1), Ok(2)})
	if v, err := all.Unwrap(); err != nil || len(v) != 2 {
		t.Errorf("Collect = (%v, %v)", v, err)
	}
}

func TestRetry_SucceedsOnSecondAttempt(t *testing.T) {
	opts := RetryOpts{MaxAttempts: 3, InitialWait: time.Millisecond, MaxWait: time.Millisecond}
	attempts := 0
	r := Retry(context.Background(), opts, func(context.Context) Result[string] {
		attempts++
		if attempts < 2 {
			return Errf[string]("transient")
		}
		return Ok("done")
	})
	if v, err := r.Unwrap(); err != nil || v != "done" {
		t.Errorf("Retry = (%q, %v)", v, err)
	}
	if attempts != 2 {
		t.Errorf("attempts = %d, want 2", attempts)
	}
}

func TestRetry_Exhausted(t *testing.T) {
	opts := RetryOpts{MaxAttempts: 3, InitialWait: time.Millisecond, MaxWait: time.Millisecond}
	boom := errors.New("boom")
	attempts := 0
	r := Retry(context.Background(), opts, func(context.Context) Result[int] {
		attempts++
		return Err[int](boom)
	})
	if _, err := r.Unwrap(); !errors.Is(err, boom) {
		t.Errorf("exhausted Retry should return the last error, got %v", err)
	}
	if attempts != 3 {
		t.Errorf("attempts = %d, want 3", attempts)
	}
}

func TestRetry_ContextCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	opts := RetryOpts{MaxAttempts: 5, InitialWait: time.Hour, MaxWait: time.Hour}
	r := Retry(ctx, opts, func(context.Context) Result[int] {
		return Errf[int]("transient")
	})
	if _, err := r.Unwrap(); !errors.Is(err, context.Canceled) {
		t.Errorf("canceled Retry should return ctx error, got %v", err)
	}
}
