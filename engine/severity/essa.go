// Package severity implements the ESSA scoring algorithm: a pure function
// that adjusts a fault's base severity for the operating context the set
// runs in (heat, load, maintenance neglect, recurrence, age, altitude).
// Identical inputs always yield identical output; the score is recomputed
// per display and must agree between server and client previews.
package severity

import "github.com/EmersonEIMS/generator-oracle/engine/domain"

// Category buckets an adjusted score. Thresholds are contract points:
// [1,4) Low, [4,6) Medium, [6,8) High, [8,10] Critical. Boundaries are
// inclusive on the higher category: 4.0 is Medium, 6.0 is High, 8.0 is
// Critical.
type Category string

const (
	CategoryLow      Category = "Low"
	CategoryMedium   Category = "Medium"
	CategoryHigh     Category = "High"
	CategoryCritical Category = "Critical"
)

// Conditions are the environmental inputs. All have nominal defaults; use
// DefaultConditions and override the fields you know.
type Conditions struct {
	AmbientTempC         float64 `json:"ambientTemp"`
	LoadPercent          float64 `json:"loadPercentage"`
	DaysSinceMaintenance float64 `json:"daysSinceLastMaintenance"`
	FaultsPerMonth       float64 `json:"faultFrequencyPerMonth"`
	EquipmentAgeYears    float64 `json:"equipmentAgeYears"`
	AltitudeMeters       float64 `json:"altitudeMeters"`
}

// DefaultConditions is the nominal operating context (Nairobi baseline).
func DefaultConditions() Conditions {
	return Conditions{
		AmbientTempC:         25,
		LoadPercent:          70,
		DaysSinceMaintenance: 90,
		FaultsPerMonth:       0,
		EquipmentAgeYears:    2,
		AltitudeMeters:       1800,
	}
}

// Result is the computed score. Never persisted; derived per request.
type Result struct {
	Raw                  float64  `json:"raw"`
	Adjusted             float64  `json:"adjusted"`
	Category             Category `json:"category"`
	PredictedFailureTime string   `json:"predictedFailureTime"`
	RecommendedAction    string   `json:"recommendedAction"`
}

// Nominal bands and per-unit penalties. Each modifier is zero inside its
// band and grows linearly (capped where noted) outside it, so the adjusted
// score is monotonic in every input.
const (
	tempBandLow      = 10.0
	tempBandHigh     = 35.0
	tempPerDegree    = 0.05
	loadNominalMax   = 85.0
	loadPerPoint     = 0.04
	maintNominalDays = 90.0
	maintPerYear     = 1.0
	maintCap         = 2.0
	freqPerFault     = 0.15
	freqCountCap     = 10.0
	ageNominalYears  = 5.0
	agePerYear       = 0.1
	ageCap           = 1.0
	altNominalMeters = 2000.0
	altPerKilometer  = 0.25
	altCap           = 1.0
)

// Score adjusts a base severity (1-10) for the given conditions. The result
// is clamped to [1,10] for any input, including far out-of-range values.
func Score(base float64, c Conditions) Result {
	raw := clamp(base, 1, 10)

	adjusted := raw +
		tempPenalty(c.AmbientTempC) +
		loadPenalty(c.LoadPercent) +
		maintenancePenalty(c.DaysSinceMaintenance) +
		frequencyPenalty(c.FaultsPerMonth) +
		agePenalty(c.EquipmentAgeYears) +
		altitudePenalty(c.AltitudeMeters)
	adjusted = clamp(adjusted, 1, 10)

	cat := Categorize(adjusted)
	return Result{
		Raw:                  raw,
		Adjusted:             adjusted,
		Category:             cat,
		PredictedFailureTime: failureTimes[cat],
		RecommendedAction:    recommendedActions[cat],
	}
}

// ScoreRecord scores a fault record, mapping its severity enum to base points.
func ScoreRecord(r domain.FaultCodeRecord, c Conditions) Result {
	return Score(r.Severity.BasePoints(), c)
}

// Categorize maps an adjusted score onto its category.
func Categorize(adjusted float64) Category {
	switch {
	case adjusted < 4:
		return CategoryLow
	case adjusted < 6:
		return CategoryMedium
	case adjusted < 8:
		return CategoryHigh
	default:
		return CategoryCritical
	}
}

var failureTimes = map[Category]string{
	CategoryLow:      ">30 days",
	CategoryMedium:   "7-30 days",
	CategoryHigh:     "24-72 hours",
	CategoryCritical: "0-24 hours",
}

var recommendedActions = map[Category]string{
	CategoryLow:      "No immediate action required; review at next routine service",
	CategoryMedium:   "Plan maintenance within this week",
	CategoryHigh:     "Schedule emergency maintenance within 24 hours",
	CategoryCritical: "Stop the generator; emergency repair required",
}

func tempPenalty(t float64) float64 {
	switch {
	case t > tempBandHigh:
		return (t - tempBandHigh) * tempPerDegree
	case t < tempBandLow:
		return (tempBandLow - t) * tempPerDegree
	default:
		return 0
	}
}

func loadPenalty(load float64) float64 {
	if load <= loadNominalMax {
		return 0
	}
	return (load - loadNominalMax) * loadPerPoint
}

func maintenancePenalty(days float64) float64 {
	if days <= maintNominalDays {
		return 0
	}
	p := (days - maintNominalDays) / 365 * maintPerYear
	return min(p, maintCap)
}

func frequencyPenalty(perMonth float64) float64 {
	if perMonth <= 0 {
		return 0
	}
	return min(perMonth, freqCountCap) * freqPerFault
}

func agePenalty(years float64) float64 {
	if years <= ageNominalYears {
		return 0
	}
	return min((years-ageNominalYears)*agePerYear, ageCap)
}

func altitudePenalty(meters float64) float64 {
	if meters <= altNominalMeters {
		return 0
	}
	return min((meters-altNominalMeters)/1000*altPerKilometer, altCap)
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
