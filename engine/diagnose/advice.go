package diagnose

import (
	"fmt"
	"strings"
)

// Guidance templates keyed off detected symptoms. All output is plain text
// so callers can render it anywhere.

const (
	emptyQuerySummary = "No symptoms described. Describe what the generator is doing, or enter a fault code shown on the controller display."
	noMatchSummary    = "No fault codes matched the description. Add more detail about the symptoms, or search with the exact error code if one is displayed."
	expertDefault     = "Contact a service technician if the issue persists after basic troubleshooting or if you lack the required tools."
)

func summarize(symptoms []string, brand string, matches []MatchedCode) string {
	if len(matches) == 0 {
		return noMatchSummary
	}

	top := matches[0]
	var b strings.Builder
	if brand != "" {
		fmt.Fprintf(&b, "Based on the description for %s generators, %d potentially related fault codes were found. ", brand, len(matches))
	} else {
		fmt.Fprintf(&b, "Based on the description, %d potentially related fault codes were found. ", len(matches))
	}

	switch {
	case top.Confidence >= 90:
		fmt.Fprintf(&b, "The most likely issue is %s (code %s) with %d%% confidence.", top.Title, top.Code, top.Confidence)
	case top.Confidence >= 75:
		fmt.Fprintf(&b, "A probable cause is %s (code %s).", top.Title, top.Code)
	default:
		fmt.Fprintf(&b, "Possible causes include %s (code %s), but further diagnosis is recommended.", top.Title, top.Code)
	}

	if hasSymptom(symptoms, "shutdown") || hasSymptom(symptoms, "oil_pressure") || hasSymptom(symptoms, "overheating") {
		b.WriteString(" CAUTION: this appears to be a critical issue. Do not continue operating the generator until the problem is resolved.")
	}
	return b.String()
}

func recommendActions(symptoms []string, matches []MatchedCode) []string {
	actions := []string{"Ensure the generator is in a safe state before any inspection"}

	if hasSymptom(symptoms, "no_start") {
		actions = append(actions,
			"Check battery voltage (should be 12.6V or higher for a 12V system)",
			"Verify fuel level and quality",
			"Inspect fuel filter for blockage",
			"Check for air in fuel lines")
	}
	if hasSymptom(symptoms, "overheating") {
		actions = append(actions,
			"STOP the generator immediately if running",
			"Allow engine to cool before inspection",
			"Check coolant level when cold",
			"Inspect radiator for blockage or damage",
			"Verify thermostat operation")
	}
	if hasSymptom(symptoms, "black_smoke") {
		actions = append(actions,
			"Inspect and replace air filter if dirty",
			"Check for restricted air intake",
			"Verify injection timing",
			"Test fuel quality")
	}
	if hasSymptom(symptoms, "oil_pressure") {
		actions = append(actions,
			"STOP the generator immediately",
			"Check oil level on dipstick",
			"Inspect for visible oil leaks",
			"Install a mechanical oil pressure gauge to verify")
	}
	if hasSymptom(symptoms, "electrical") {
		actions = append(actions,
			"Disconnect loads before testing",
			"Measure output voltage at terminals",
			"Check AVR settings and connections",
			"Inspect brushes and slip rings")
	}
	if len(matches) > 0 && matches[0].Solution != "" {
		actions = append(actions, "Primary fix: "+matches[0].Solution)
	}

	if len(actions) > 8 {
		actions = actions[:8]
	}
	return actions
}

func safetyWarnings(symptoms []string) []string {
	warnings := []string{
		"Always follow lockout/tagout procedures",
		"Wear appropriate PPE (gloves, safety glasses)",
	}
	if hasSymptom(symptoms, "overheating") {
		warnings = append(warnings,
			"HOT SURFACES: risk of severe burns",
			"Never remove the radiator cap when hot")
	}
	if hasSymptom(symptoms, "fuel_problem") || hasSymptom(symptoms, "black_smoke") {
		warnings = append(warnings,
			"FIRE HAZARD: no smoking or open flames",
			"Keep a fire extinguisher nearby")
	}
	if hasSymptom(symptoms, "electrical") {
		warnings = append(warnings,
			"ELECTRICAL HAZARD: generators produce lethal voltages",
			"Disconnect the battery and isolate before electrical work")
	}
	if hasSymptom(symptoms, "oil_pressure") {
		warnings = append(warnings,
			"ENGINE DAMAGE RISK: do not operate with low oil pressure")
	}
	return warnings
}

func estimateDifficulty(symptoms []string) string {
	switch {
	case hasSymptom(symptoms, "white_smoke") || hasSymptom(symptoms, "abnormal_noise"):
		return "expert"
	case hasSymptom(symptoms, "shutdown") || hasSymptom(symptoms, "oil_pressure") || hasSymptom(symptoms, "electrical"):
		return "advanced"
	default:
		return "moderate"
	}
}

func estimateTime(symptoms []string) string {
	switch {
	case hasSymptom(symptoms, "white_smoke") || hasSymptom(symptoms, "shutdown"):
		return "4-8 hours (may require major repair)"
	case hasSymptom(symptoms, "overheating") || hasSymptom(symptoms, "oil_pressure"),
		hasSymptom(symptoms, "electrical") || hasSymptom(symptoms, "turbo"):
		return "2-4 hours"
	case hasSymptom(symptoms, "fuel_problem") || hasSymptom(symptoms, "black_smoke"):
		return "1-2 hours"
	case hasSymptom(symptoms, "no_start"):
		return "30 minutes - 2 hours"
	default:
		return "1-3 hours"
	}
}

func expertGuidance(symptoms []string) string {
	switch {
	case hasSymptom(symptoms, "white_smoke"):
		return "Call a technician immediately: white smoke may indicate head gasket failure or a cracked head requiring professional repair."
	case hasSymptom(symptoms, "oil_pressure"):
		return "Call a technician if oil pressure remains low after verifying oil level: this may indicate pump failure or bearing damage."
	case hasSymptom(symptoms, "shutdown"):
		return "Call a technician if the shutdown recurs after clearing codes: this may indicate an underlying protection system fault."
	case hasSymptom(symptoms, "electrical"):
		return "Call a technician for AVR replacement or winding repairs: these require specialized test equipment."
	default:
		return expertDefault
	}
}
