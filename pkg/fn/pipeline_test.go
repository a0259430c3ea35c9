package fn

import (
	"context"
	"errors"
	"strings"
	"testing"
)

func TestPipeline_RunsStagesInOrder(t *testing.T) {
	p := Pipeline(
		MapStage(strings.ToUpper),
		MapStage(func(s string) string { return s + "!" }),
	)
	v, err := p(context.Background(), "ok").Unwrap()
	if err != nil || v != "OK!" {
		t.Errorf("pipeline = (%q, %v)", v, err)
	}
}

func TestPipeline_ShortCircuitsOnError(t *testing.T) {
	boom := errors.New("boom")
	ran := false
	p := Pipeline(
		func(context.Context, string) Result[string] { return Err[string](boom) },
		TapStage(func(context.Context, string) { ran = true }),
	)
	if _, err := p(context.Background(), "x").Unwrap(); !errors.Is(err, boom) {
		t.Errorf("error should propagate, got %v", err)
	}
	if ran {
		t.Error("stages after an error must not run")
	}
}

func TestThen_ComposesAcrossTypes(t *testing.T) {
	length := MapStage(func(s string) int { return len(s) })
	double := MapStage(func(n int) int { return n * 2 })
	v, err := Then(length, double)(context.Background(), "four").Unwrap()
	if err != nil || v != 8 {
		t.Errorf("Then = (%d, %v)", v, err)
	}
}

func TestTracedStage_PassesThrough(t *testing.T) {
	s := TracedStage("test.stage", MapStage(strings.TrimSpace))
	v, err := s(context.Background(), "  hi  ").Unwrap()
	if err != nil || v != "hi" {
		t.Errorf("TracedStage = (%q, %v)", v, err)
	}

	boom := errors.New("boom")
	bad := TracedStage("test.fail", func(context.Context, string) Result[string] {
		return Err[string](boom)
	})
	if _, err := bad(context.Background(), "x").Unwrap(); !errors.Is(err, boom) {
		t.Errorf("TracedStage error = %v", err)
	}
}
