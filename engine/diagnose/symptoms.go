package diagnose

import (
	"strings"

	"github.com/EmersonEIMS/generator-oracle/engine/domain"
)

// symptomProfile describes one recognizable symptom pattern: the phrases
// that indicate it, the fault categories it implicates, and the severity
// it usually carries.
type symptomProfile struct {
	Categories []string
	Keywords   []string
	Severity   domain.Severity
}

// symptomOrder fixes iteration order so detection output is deterministic.
var symptomOrder = []string{
	"no_start", "overheating", "black_smoke", "white_smoke", "blue_smoke",
	"low_power", "oil_pressure", "fuel_problem", "electrical",
	"abnormal_noise", "shutdown", "sensor", "turbo", "exhaust",
}

var symptomProfiles = map[string]symptomProfile{
	"no_start": {
		Categories: []string{"Starting System", "Fuel System", "Electrical"},
		Keywords:   []string{"won't start", "no start", "doesn't start", "cranks but", "won't crank", "dead", "nothing happens", "no response", "won't turn over"},
		Severity:   domain.SeverityCritical,
	},
	"overheating": {
		Categories: []string{"Cooling System", "Lubrication"},
		Keywords:   []string{"overheating", "hot", "temperature high", "coolant", "radiator", "boiling", "steam", "thermal", "heat"},
		Severity:   domain.SeverityCritical,
	},
	"black_smoke": {
		Categories: []string{"Fuel System", "Air Intake", "Turbo/Air Intake"},
		Keywords:   []string{"black smoke", "dark smoke", "heavy smoke", "smoking black", "rich", "soot"},
		Severity:   domain.SeverityWarning,
	},
	"white_smoke": {
		Categories: []string{"Cooling System", "Fuel System", "Engine"},
		Keywords:   []string{"white smoke", "steam", "coolant burning", "head gasket", "milky"},
		Severity:   domain.SeverityCritical,
	},
	"blue_smoke": {
		Categories: []string{"Lubrication", "Engine"},
		Keywords:   []string{"blue smoke", "oil burning", "consuming oil", "oil smoke"},
		Severity:   domain.SeverityWarning,
	},
	"low_power": {
		Categories: []string{"Fuel System", "Turbo/Air Intake", "ECM/Sensors", "Exhaust/Emissions"},
		Keywords:   []string{"low power", "weak", "no power", "underpowered", "sluggish", "won't reach", "can't handle load", "derated"},
		Severity:   domain.SeverityWarning,
	},
	"oil_pressure": {
		Categories: []string{"Lubrication"},
		Keywords:   []string{"oil pressure", "low oil", "oil warning", "oil light", "pressure drop", "oil leak"},
		Severity:   domain.SeverityCritical,
	},
	"fuel_problem": {
		Categories: []string{"Fuel System"},
		Keywords:   []string{"fuel", "diesel", "injector", "filter", "pump", "contaminated", "air in fuel", "fuel leak", "fuel pressure"},
		Severity:   domain.SeverityWarning,
	},
	"electrical": {
		Categories: []string{"Electrical", "Generator"},
		Keywords:   []string{"voltage", "electrical", "battery", "alternator", "charging", "no output", "fluctuating", "frequency", "hertz", "hz"},
		Severity:   domain.SeverityWarning,
	},
	"abnormal_noise": {
		Categories: []string{"Engine", "Turbo/Air Intake", "Generator"},
		Keywords:   []string{"noise", "knocking", "rattling", "grinding", "squealing", "vibration", "shaking", "loud", "unusual sound"},
		Severity:   domain.SeverityWarning,
	},
	"shutdown": {
		Categories: []string{"ECM/Sensors", "Cooling System", "Lubrication", "Fuel System"},
		Keywords:   []string{"shutdown", "shuts down", "stops", "cuts off", "dies", "stalls", "trips", "emergency stop"},
		Severity:   domain.SeverityCritical,
	},
	"sensor": {
		Categories: []string{"ECM/Sensors"},
		Keywords:   []string{"sensor", "fault code", "error code", "warning light", "indicator", "display", "reading wrong"},
		Severity:   domain.SeverityInfo,
	},
	"turbo": {
		Categories: []string{"Turbo/Air Intake"},
		Keywords:   []string{"turbo", "turbocharger", "boost", "wastegate", "intercooler", "charge air"},
		Severity:   domain.SeverityWarning,
	},
	"exhaust": {
		Categories: []string{"Exhaust/Emissions"},
		Keywords:   []string{"exhaust", "dpf", "egr", "emissions", "backpressure", "catalyst", "regen"},
		Severity:   domain.SeverityWarning,
	},
}

// DetectSymptoms returns the symptom names whose keyword phrases occur in
// the query, in the fixed table order.
func DetectSymptoms(query string) []string {
	lower := strings.ToLower(query)
	var detected []string
	for _, name := range symptomOrder {
		for _, kw := range symptomProfiles[name].Keywords {
			if strings.Contains(lower, kw) {
				detected = append(detected, name)
				break
			}
		}
	}
	return detected
}

// relevantCategories collects the lowercase fault categories implicated by
// the detected symptoms.
func relevantCategories(symptoms []string) map[string]struct{} {
	cats := make(map[string]struct{})
	for _, s := range symptoms {
		for _, c := range symptomProfiles[s].Categories {
			cats[strings.ToLower(c)] = struct{}{}
		}
	}
	return cats
}

func hasSymptom(symptoms []string, name string) bool {
	for _, s := range symptoms {
		if s == name {
			return true
		}
	}
	return false
}
