// internal/core/domain/identity_test.go
package domain

import (
	"testing"

	"legitscan/internal/testutil"
)

func TestNewCompanyIdentity_Normalizes(t *testing.T) {
	id := NewCompanyIdentity("  Acme Solutions  ", "29aabct1332l1zu", " u72900ka2018ptc123456 ")
	testutil.AssertEqual(t, id.Name, "Acme Solutions", "name trimmed")
	testutil.AssertEqual(t, id.GSTIN, "29AABCT1332L1ZU", "gstin upper-cased")
	testutil.AssertEqual(t, id.CIN, "U72900KA2018PTC123456", "cin upper-cased")
}

func TestIdentity_Validate(t *testing.T) {
	valid := NewCompanyIdentity(testutil.CompanyName, testutil.ValidGSTIN, testutil.ValidCIN)
	testutil.AssertNoError(t, valid.Validate(), "well-formed identity")

	nameOnly := NewCompanyIdentity(testutil.CompanyName, "", "")
	testutil.AssertNoError(t, nameOnly.Validate(), "absent identifiers are allowed")
	testutil.AssertFalse(t, nameOnly.HasGSTIN(), "no gstin")
	testutil.AssertFalse(t, nameOnly.HasCIN(), "no cin")

	short := NewCompanyIdentity("x", "", "")
	testutil.AssertErrorIs(t, short.Validate(), ErrInvalidIdentity, "name too short")
}

func TestIdentity_MalformedIdentifiersAreFatal(t *testing.T) {
	for _, bad := range testutil.BadGSTINs {
		id := CompanyIdentity{Name: testutil.CompanyName, GSTIN: bad}
		testutil.AssertErrorIs(t, id.Validate(), ErrMalformedIdentifier, "gstin "+bad)
	}
	for _, bad := range testutil.BadCINs {
		id := CompanyIdentity{Name: testutil.CompanyName, CIN: bad}
		testutil.AssertErrorIs(t, id.Validate(), ErrMalformedIdentifier, "cin "+bad)
	}
}
