// Package ingest normalizes fault-code data from heterogeneous upstream
// shapes into the single FaultCodeRecord form, at load time only. Nothing
// downstream of the store ever sees a source-specific shape.
package ingest

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/EmersonEIMS/generator-oracle/engine/domain"
)

// recordID derives a stable ID from the source and record identity, so
// re-ingesting the same upstream data never produces new IDs.
func recordID(source, brand, code string) string {
	name := source + "|" + strings.ToUpper(strings.TrimSpace(brand)) + "|" + domain.NormalizeCode(code)
	return uuid.NewSHA1(uuid.NameSpaceOID, []byte(name)).String()
}

// Normalizer is one upstream record that can convert itself to the
// canonical shape.
type Normalizer interface {
	Normalize() (domain.FaultCodeRecord, error)
}

// ControllerFault is the shape of the controller-manual database
// (DeepSea, ComAp, SmartGen, Datakom exports).
type ControllerFault struct {
	Controller  string   `json:"controller"`
	Model       string   `json:"model"`
	Code        string   `json:"code"`
	Alarm       string   `json:"alarm"`
	Severity    string   `json:"severity"`
	Category    string   `json:"category"`
	Description string   `json:"description"`
	Causes      []string `json:"causes"`
	Fixes       []string `json:"fixes"`
	Symptoms    []string `json:"symptoms"`
}

// Normalize converts a controller fault. "shutdown" and "trip" severities
// map to critical.
func (f ControllerFault) Normalize() (domain.FaultCodeRecord, error) {
	sev, ok := domain.ParseSeverity(f.Severity)
	if !ok {
		return domain.FaultCodeRecord{},
			domain.NewValidationError("severity", f.Severity, domain.ErrUnknownSeverity)
	}
	rec := domain.FaultCodeRecord{
		ID:          recordID("controller", f.Controller, f.Code),
		Code:        f.Code,
		Brand:       f.Controller,
		Model:       f.Model,
		Category:    f.Category,
		Severity:    sev,
		Title:       f.Alarm,
		Description: f.Description,
		Causes:      f.Causes,
		Symptoms:    f.Symptoms,
	}
	for _, fix := range f.Fixes {
		rec.Solutions = append(rec.Solutions, domain.Solution{Text: fix})
	}
	if err := domain.ValidateRecord(rec); err != nil {
		return domain.FaultCodeRecord{}, err
	}
	return rec, nil
}

// ManufacturerFault is the shape of engine-manufacturer databases
// (Cummins, Perkins, CAT service data).
type ManufacturerFault struct {
	Manufacturer string            `json:"manufacturer"`
	EngineModel  string            `json:"engineModel"`
	FaultCode    string            `json:"faultCode"`
	Issue        string            `json:"issue"`
	Severity     string            `json:"severity"`
	System       string            `json:"system"`
	Detail       string            `json:"detail"`
	RootCauses   []string          `json:"rootCauses"`
	Repairs      []domain.Solution `json:"repairs"`
	RelatedCodes []string          `json:"relatedCodes"`
	Warnings     []string          `json:"warnings"`
}

// Normalize converts a manufacturer fault.
func (f ManufacturerFault) Normalize() (domain.FaultCodeRecord, error) {
	sev, ok := domain.ParseSeverity(f.Severity)
	if !ok {
		return domain.FaultCodeRecord{},
			domain.NewValidationError("severity", f.Severity, domain.ErrUnknownSeverity)
	}
	rec := domain.FaultCodeRecord{
		ID:             recordID("manufacturer", f.Manufacturer, f.FaultCode),
		Code:           f.FaultCode,
		Brand:          f.Manufacturer,
		Model:          f.EngineModel,
		Category:       f.System,
		Severity:       sev,
		Title:          f.Issue,
		Description:    f.Detail,
		Causes:         f.RootCauses,
		Solutions:      f.Repairs,
		SafetyWarnings: f.Warnings,
		RelatedCodes:   f.RelatedCodes,
	}
	if err := domain.ValidateRecord(rec); err != nil {
		return domain.FaultCodeRecord{}, err
	}
	return rec, nil
}

// WordPressFault is the legacy export shape from the old site. Severity
// there is free-form text and defaults to warning when absent.
type WordPressFault struct {
	Brand    string `json:"brand"`
	Code     string `json:"code"`
	Title    string `json:"title"`
	Body     string `json:"body"`
	Level    string `json:"level"`
	Category string `json:"category"`
}

// Normalize converts a legacy export record.
func (f WordPressFault) Normalize() (domain.FaultCodeRecord, error) {
	sev := domain.SeverityWarning
	if f.Level != "" {
		parsed, ok := domain.ParseSeverity(f.Level)
		if !ok {
			return domain.FaultCodeRecord{},
				domain.NewValidationError("level", f.Level, domain.ErrUnknownSeverity)
		}
		sev = parsed
	}
	rec := domain.FaultCodeRecord{
		ID:          recordID("wordpress", f.Brand, f.Code),
		Code:        f.Code,
		Brand:       f.Brand,
		Category:    f.Category,
		Severity:    sev,
		Title:       f.Title,
		Description: f.Body,
	}
	if err := domain.ValidateRecord(rec); err != nil {
		return domain.FaultCodeRecord{}, err
	}
	return rec, nil
}

// NormalizeAll converts a batch, collecting per-record errors so one bad
// row does not abort a load. The records slice holds only successes.
func NormalizeAll[T Normalizer](items []T) ([]domain.FaultCodeRecord, error) {
	records := make([]domain.FaultCodeRecord, 0, len(items))
	var errs []error
	for i, item := range items {
		rec, err := item.Normalize()
		if err != nil {
			errs = append(errs, fmt.Errorf("record %d: %w", i, err))
			continue
		}
		records = append(records, rec)
	}
	return records, errors.Join(errs...)
}

// MultiSource concatenates several record sources into one.
type MultiSource []interface {
	LoadAll(ctx context.Context) ([]domain.FaultCodeRecord, error)
}

// LoadAll loads every source in order. Any source failing fails the load;
// partial corpora would silently shrink the database.
func (m MultiSource) LoadAll(ctx context.Context) ([]domain.FaultCodeRecord, error) {
	var all []domain.FaultCodeRecord
	for i, src := range m {
		records, err := src.LoadAll(ctx)
		if err != nil {
			return nil, fmt.Errorf("ingest: source %d: %w", i, err)
		}
		all = append(all, records...)
	}
	return all, nil
}
