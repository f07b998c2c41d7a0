package beta

import (
	"errors"
	"fmt"

	"github.com/roach88/xrq/internal/xr"
)

// ReductionError reports a soundness violation found while reducing.
//
// All of these indicate a malformed input tree (or a caller error); none
// is recoverable by retrying.
type ReductionError struct {
	// Code identifies the error category.
	Code ErrorCode

	// Message is a human-readable description.
	Message string

	// Original and Replacement are the two trees involved, when there are
	// two (a rejected substitution pair, or a property and its record).
	Original    xr.XR
	Replacement xr.XR
}

// ErrorCode categorizes reduction errors.
type ErrorCode string

const (
	// ErrCodeTypeMismatch: a supplied substitution's types have no meet.
	ErrCodeTypeMismatch ErrorCode = "TYPE_MISMATCH"

	// ErrCodeEmptyProduct: a supplied substitution's meet is a product with
	// no fields and EmptyProductFail is in effect.
	ErrCodeEmptyProduct ErrorCode = "EMPTY_PRODUCT"

	// ErrCodeFieldNotFound: Property(Product(...), name) with no such field.
	ErrCodeFieldNotFound ErrorCode = "FIELD_NOT_FOUND"

	// ErrCodeNotConverged: the iteration or depth bound was exceeded.
	ErrCodeNotConverged ErrorCode = "NOT_CONVERGED"

	// ErrCodeInvalidApply: a function applied to the wrong number of
	// arguments.
	ErrCodeInvalidApply ErrorCode = "INVALID_APPLY"
)

// Error implements the error interface.
func (e *ReductionError) Error() string {
	if e.Original != nil && e.Replacement != nil {
		return fmt.Sprintf("%s: %s (original=%s, replacement=%s)",
			e.Code, e.Message, xr.Format(e.Original), xr.Format(e.Replacement))
	}
	if e.Original != nil {
		return fmt.Sprintf("%s: %s (at %s)", e.Code, e.Message, xr.Format(e.Original))
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// IsTypeMismatch returns true if err is a TYPE_MISMATCH reduction error.
// Uses errors.As to handle wrapped errors.
func IsTypeMismatch(err error) bool { return hasCode(err, ErrCodeTypeMismatch) }

// IsEmptyProduct returns true if err is an EMPTY_PRODUCT reduction error.
func IsEmptyProduct(err error) bool { return hasCode(err, ErrCodeEmptyProduct) }

// IsFieldNotFound returns true if err is a FIELD_NOT_FOUND reduction error.
func IsFieldNotFound(err error) bool { return hasCode(err, ErrCodeFieldNotFound) }

// IsNotConverged returns true if err is a NOT_CONVERGED reduction error.
func IsNotConverged(err error) bool { return hasCode(err, ErrCodeNotConverged) }

// IsInvalidApply returns true if err is an INVALID_APPLY reduction error.
func IsInvalidApply(err error) bool { return hasCode(err, ErrCodeInvalidApply) }

func hasCode(err error, code ErrorCode) bool {
	var re *ReductionError
	if errors.As(err, &re) {
		return re.Code == code
	}
	return false
}

// abort carries a ReductionError out of deep recursion. It is raised with
// panic and recovered at the Reduce boundary; it never leaves the package.
type abort struct {
	err *ReductionError
}

func fail(code ErrorCode, msg string, original, replacement xr.XR) {
	panic(abort{err: &ReductionError{
		Code:        code,
		Message:     msg,
		Original:    original,
		Replacement: replacement,
	}})
}

// recoverAbort converts an abort panic into an error. Other panics are
// re-raised.
func recoverAbort(err *error) {
	if r := recover(); r != nil {
		a, ok := r.(abort)
		if !ok {
			panic(r)
		}
		*err = a.err
	}
}
