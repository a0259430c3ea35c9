package domain

// ValidateRecord checks a FaultCodeRecord at corpus load time. Per-request
// operations never validate; bad records must be rejected before serving.
func ValidateRecord(r FaultCodeRecord) error {
	if NormalizeCode(r.Code) == "" {
		return NewValidationError("code", r.Code, ErrMissingCode)
	}
	if r.Brand == "" {
		return NewValidationError("brand", r.Brand, ErrMissingBrand)
	}
	if r.Title == "" {
		return NewValidationError("title", r.Code, ErrMissingTitle)
	}
	if !ValidSeverities[r.Severity] {
		return NewValidationError("severity", string(r.Severity), ErrUnknownSeverity)
	}
	return nil
}
