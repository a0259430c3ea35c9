// Package domain defines core domain types, constants, and validation for the
// Generator Oracle fault-diagnosis engine. It acts as the validation gate at
// corpus load time.
package domain

import (
	"strings"
	"time"
)

// Severity is the author-assigned base criticality of a fault code.
type Severity string

const (
	SeverityInfo     Severity = "info"
	SeverityWarning  Severity = "warning"
	SeverityCritical Severity = "critical"
)

// ValidSeverities is the set of recognised severities.
var ValidSeverities = map[Severity]bool{
	SeverityInfo: true, SeverityWarning: true, SeverityCritical: true,
}

// BasePoints maps a severity to its base score on the 1-10 ESSA scale.
func (s Severity) BasePoints() float64 {
	switch s {
	case SeverityInfo:
		return 2
	case SeverityWarning:
		return 5
	case SeverityCritical:
		return 9
	default:
		return 5
	}
}

// ParseSeverity maps free-form severity vocabulary from upstream databases
// onto the closed enum. Controller databases use "shutdown" and "trip" for
// protective stops; both are critical conditions here.
func ParseSeverity(raw string) (Severity, bool) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "info", "notice", "low":
		return SeverityInfo, true
	case "warning", "warn", "alarm", "medium", "med":
		return SeverityWarning, true
	case "critical", "shutdown", "trip", "lockout", "high":
		return SeverityCritical, true
	default:
		return "", false
	}
}

// Solution is one structured fix entry. Slice order on a record is the
// recommended order of attempting fixes.
type Solution struct {
	Text         string   `json:"text"`
	Difficulty   string   `json:"difficulty,omitempty"` // easy, moderate, advanced, expert
	TimeEstimate string   `json:"time_estimate,omitempty"`
	Parts        []string `json:"parts,omitempty"`
	Tools        []string `json:"tools,omitempty"`
}

// FaultCodeRecord is a single fault code in the corpus. Records are immutable
// once loaded; the store snapshot is rebuilt, never mutated in place.
type FaultCodeRecord struct {
	ID             string     `json:"id"`
	Code           string     `json:"code"`
	Brand          string     `json:"brand"`
	Model          string     `json:"model"`
	Category       string     `json:"category"`
	Severity       Severity   `json:"severity"`
	Title          string     `json:"title"`
	Description    string     `json:"description"`
	Causes         []string   `json:"causes,omitempty"`
	Solutions      []Solution `json:"solutions,omitempty"`
	Symptoms       []string   `json:"symptoms,omitempty"`
	SafetyWarnings []string   `json:"safety_warnings,omitempty"`
	RelatedCodes   []string   `json:"related_codes,omitempty"`
	UpdatedAt      time.Time  `json:"updated_at,omitempty"`
}

// NormalizeCode canonicalises a fault code for lookup: trimmed, uppercased,
// all interior whitespace removed. "ds 7320-101" and "DS7320-101" collide.
func NormalizeCode(code string) string {
	code = strings.ToUpper(strings.TrimSpace(code))
	if !strings.ContainsAny(code, " \t") {
		return code
	}
	var b strings.Builder
	b.Grow(len(code))
	for _, r := range code {
		if r == ' ' || r == '\t' {
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// Key returns the unique (brand, code) identity of a record.
func (r FaultCodeRecord) Key() string {
	return strings.ToUpper(strings.TrimSpace(r.Brand)) + "|" + NormalizeCode(r.Code)
}
