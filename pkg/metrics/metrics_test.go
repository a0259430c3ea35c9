package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestCounterAndGauge(t *testing.T) {
	reg := New()

	c := reg.Counter("requests_total", "Total requests.")
	c.Inc()
	c.Add(4)
	if c.Value() != 5 {
		t.Errorf("counter = %d, want 5", c.Value())
	}
	if again := reg.Counter("requests_total", ""); again != c {
		t.Error("Counter should return the same instance for the same name")
	}

	g := reg.Gauge("active_sessions", "Current sessions.")
	g.Set(10)
	g.Dec()
	if g.Value() != 9 {
		t.Errorf("gauge = %d, want 9", g.Value())
	}
}

func TestHistogram_CumulativeBuckets(t *testing.T) {
	reg := New()
	h := reg.Histogram("latency_seconds", "Request latency.", []float64{0.1, 1})
	h.Observe(0.05)
	h.Observe(0.5)
	h.Observe(5) // above all buckets, counted only in +Inf

	out := reg.Render()
	for _, line := range []string{
		`latency_seconds_bucket{le="0.1"} 1`,
		`latency_seconds_bucket{le="1"} 2`,
		`latency_seconds_bucket{le="+Inf"} 3`,
		`latency_seconds_count 3`,
	} {
		if !strings.Contains(out, line) {
			t.Errorf("Render missing %q in:\n%s", line, out)
		}
	}
}

func TestRender_TypesAndHelp(t *testing.T) {
	reg := New()
	reg.Counter("lookups_total", "Fault-code lookups.").Inc()
	reg.Gauge("corpus_faults", "Records in the active snapshot.").Set(14)

	out := reg.Render()
	for _, line := range []string{
		"# HELP lookups_total Fault-code lookups.",
		"# TYPE lookups_total counter",
		"lookups_total 1",
		"# TYPE corpus_faults gauge",
		"corpus_faults 14",
	} {
		if !strings.Contains(out, line) {
			t.Errorf("Render missing %q in:\n%s", line, out)
		}
	}
}

func TestWithLabels(t *testing.T) {
	got := WithLabels("lookups_total", "brand", "Cummins")
	if got != `lookups_total{brand="Cummins"}` {
		t.Errorf("WithLabels = %q", got)
	}
	// Odd pair count falls back to the bare name.
	if got := WithLabels("x", "only-key"); got != "x" {
		t.Errorf("WithLabels odd pairs = %q", got)
	}
}

func TestRender_LabeledCounters(t *testing.T) {
	reg := New()
	reg.Counter(WithLabels("lookups_total", "brand", "Cummins"), "Lookups by brand.").Add(2)
	reg.Counter(WithLabels("lookups_total", "brand", "Perkins"), "").Inc()

	out := reg.Render()
	if !strings.Contains(out, `lookups_total{brand="Cummins"} 2`) ||
		!strings.Contains(out, `lookups_total{brand="Perkins"} 1`) {
		t.Errorf("labeled counters missing from:\n%s", out)
	}
	if strings.Count(out, "# TYPE lookups_total counter") != 1 {
		t.Errorf("base name should be typed once:\n%s", out)
	}
}

func TestHandler(t *testing.T) {
	reg := New()
	reg.Counter("requests_total", "").Inc()

	rec := httptest.NewRecorder()
	reg.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/plain") {
		t.Errorf("content type = %q", ct)
	}
	if !strings.Contains(rec.Body.String(), "requests_total 1") {
		t.Errorf("body = %q", rec.Body.String())
	}
}
