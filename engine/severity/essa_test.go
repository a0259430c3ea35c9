package severity

import (
	"math"
	"testing"

	"github.com/EmersonEIMS/generator-oracle/engine/domain"
)

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestScore_NominalConditionsAddNothing(t *testing.T) {
	for _, base := range []float64{1, 2, 5, 9, 10} {
		r := Score(base, DefaultConditions())
		if !almostEqual(r.Adjusted, base) {
			t.Errorf("base %v under nominal conditions adjusted to %v", base, r.Adjusted)
		}
	}
}

func TestScore_HeatAndLoad(t *testing.T) {
	cond := DefaultConditions()
	cond.AmbientTempC = 45 // +0.5
	cond.LoadPercent = 95  // +0.4
	r := Score(5, cond)
	if !almostEqual(r.Adjusted, 5.9) {
		t.Errorf("adjusted = %v, want 5.9", r.Adjusted)
	}
	if r.Category != CategoryMedium {
		t.Errorf("category = %v, want Medium", r.Category)
	}
}

func TestScore_ColdPenalty(t *testing.T) {
	cond := DefaultConditions()
	cond.AmbientTempC = 0 // 10 degrees below band, +0.5
	r := Score(5, cond)
	if !almostEqual(r.Adjusted, 5.5) {
		t.Errorf("adjusted = %v, want 5.5", r.Adjusted)
	}
}

func TestScore_ClampsExtremes(t *testing.T) {
	worst := Conditions{
		AmbientTempC:         500,
		LoadPercent:          500,
		DaysSinceMaintenance: 10000,
		FaultsPerMonth:       1000,
		EquipmentAgeYears:    100,
		AltitudeMeters:       9000,
	}
	if r := Score(9, worst); r.Adjusted != 10 || r.Category != CategoryCritical {
		t.Errorf("worst case = %+v, want adjusted 10 Critical", r)
	}
	if r := Score(-50, DefaultConditions()); r.Adjusted < 1 || r.Raw != 1 {
		t.Errorf("below-range base = %+v, want raw clamped to 1", r)
	}
	if r := Score(500, DefaultConditions()); r.Raw != 10 {
		t.Errorf("above-range base raw = %v, want 10", r.Raw)
	}
}

func TestScore_Monotonic(t *testing.T) {
	cond := DefaultConditions()
	prev := Score(5, cond).Adjusted
	for temp := 36.0; temp <= 60; temp += 2 {
		cond.AmbientTempC = temp
		got := Score(5, cond).Adjusted
		if got < prev {
			t.Fatalf("adjusted decreased from %v to %v at temp %v", prev, got, temp)
		}
		prev = got
	}
}

func TestCategorize_Boundaries(t *testing.T) {
	cases := []struct {
		score float64
		want  Category
	}{
		{1, CategoryLow},
		{3.99, CategoryLow},
		{4, CategoryMedium},
		{5.99, CategoryMedium},
		{6, CategoryHigh},
		{7.99, CategoryHigh},
		{8, CategoryCritical},
		{10, CategoryCritical},
	}
	for _, c := range cases {
		if got := Categorize(c.score); got != c.want {
			t.Errorf("Categorize(%v) = %v, want %v", c.score, got, c.want)
		}
	}
}

func TestScore_CategoryLookups(t *testing.T) {
	r := Score(9, DefaultConditions())
	if r.PredictedFailureTime != "0-24 hours" {
		t.Errorf("critical failure time = %q", r.PredictedFailureTime)
	}
	if r.RecommendedAction == "" {
		t.Error("missing recommended action")
	}
	r = Score(2, DefaultConditions())
	if r.PredictedFailureTime != ">30 days" {
		t.Errorf("low failure time = %q", r.PredictedFailureTime)
	}
}

func TestScoreRecord_UsesSeverityBase(t *testing.T) {
	rec := domain.FaultCodeRecord{Severity: domain.SeverityCritical}
	r := ScoreRecord(rec, DefaultConditions())
	if !almostEqual(r.Raw, 9) {
		t.Errorf("critical record raw = %v, want 9", r.Raw)
	}
}

func TestScore_Pure(t *testing.T) {
	cond := DefaultConditions()
	cond.AmbientTempC = 42
	a := Score(5, cond)
	b := Score(5, cond)
	if a != b {
		t.Errorf("identical inputs gave %+v and %+v", a, b)
	}
}
