// internal/platform/errors/errors_test.go
package errors

import (
	"testing"

	"legitscan/internal/testutil"
)

func TestWrap_PreservesChain(t *testing.T) {
	err := Wrap(ErrNotFound, "looking up gstin")
	testutil.AssertErrorIs(t, err, ErrNotFound, "sentinel survives wrapping")
	testutil.AssertEqual(t, err.Error(), "looking up gstin: record not found", "message composition")
}

func TestWrap_NilPassthrough(t *testing.T) {
	testutil.AssertNoError(t, Wrap(nil, "context"), "wrapping nil stays nil")
	testutil.AssertNoError(t, Wrapf(nil, "context %d", 1), "wrapf nil stays nil")
}

func TestWrapf_FormatsContext(t *testing.T) {
	err := Wrapf(ErrTimeout, "check %s after %d tries", "gst", 3)
	testutil.AssertErrorIs(t, err, ErrTimeout, "sentinel survives")
	testutil.AssertContains(t, err.Error(), "check gst after 3 tries", "formatted context")
}

func TestPredicates(t *testing.T) {
	testutil.AssertTrue(t, IsTimeout(Wrap(ErrTimeout, "slow upstream")), "timeout chain")
	testutil.AssertTrue(t, IsNotFound(Wrap(ErrNotFound, "no record")), "not-found chain")
	testutil.AssertTrue(t, IsUnauthorized(Wrap(ErrUnauthorized, "bad key")), "unauthorized chain")
	testutil.AssertFalse(t, IsTimeout(ErrNotFound), "unrelated sentinel")
	testutil.AssertFalse(t, IsNotFound(nil), "nil error")
}
