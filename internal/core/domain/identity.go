// internal/core/domain/identity.go
package domain

import (
	"fmt"
	"strings"

	"legitscan/internal/platform/validator"
)

// CompanyIdentity is the immutable input to a validation run. Name is
// required; the two registry identifiers are optional. An absent identifier
// causes the corresponding check to be skipped, a malformed one rejects the
// request before any check runs.
type CompanyIdentity struct {
	// Name is the company name as provided by the caller.
	Name string `json:"name"`

	// GSTIN is the 15-character GST identification number (tax registry).
	GSTIN string `json:"gstin,omitempty"`

	// CIN is the 21-character corporate identification number (MCA registry).
	CIN string `json:"cin,omitempty"`
}

// NewCompanyIdentity builds an identity with trimmed, upper-cased identifiers.
func NewCompanyIdentity(name, gstin, cin string) CompanyIdentity {
	return CompanyIdentity{
		Name:  strings.TrimSpace(name),
		GSTIN: strings.ToUpper(strings.TrimSpace(gstin)),
		CIN:   strings.ToUpper(strings.TrimSpace(cin)),
	}
}

// Validate checks the identity before any collaborator is invoked.
// Empty identifiers are allowed (the check is skipped); a non-empty
// identifier with the wrong format is a fatal request error.
func (id CompanyIdentity) Validate() error {
	if len(strings.TrimSpace(id.Name)) < 2 {
		return fmt.Errorf("%w: company name too short", ErrInvalidIdentity)
	}
	if id.GSTIN != "" && !validator.IsGSTIN(id.GSTIN) {
		return fmt.Errorf("%w: gstin %q", ErrMalformedIdentifier, id.GSTIN)
	}
	if id.CIN != "" && !validator.IsCIN(id.CIN) {
		return fmt.Errorf("%w: cin %q", ErrMalformedIdentifier, id.CIN)
	}
	return nil
}

// HasGSTIN reports whether the tax registry check is eligible to run.
func (id CompanyIdentity) HasGSTIN() bool {
	return id.GSTIN != ""
}

// HasCIN reports whether the corporate registry check is eligible to run.
func (id CompanyIdentity) HasCIN() bool {
	return id.CIN != ""
}

// String returns a loggable form of the identity.
func (id CompanyIdentity) String() string {
	return fmt.Sprintf("CompanyIdentity{name=%s, gstin=%s, cin=%s}", id.Name, id.GSTIN, id.CIN)
}
