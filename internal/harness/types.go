package harness

import "github.com/roach88/xrq/internal/xr"

// Result is the outcome of a scenario execution.
type Result struct {
	// Pass indicates overall test success.
	Pass bool

	// Output is the reduced tree. Nil when the reduction failed.
	Output xr.XR

	// Iterations is the number of fixpoint passes taken.
	Iterations int

	// Err is the reduction error, expected or not.
	Err error

	// Warnings are the canonical-form warnings of Output.
	Warnings []string

	// Errors contains validation error messages.
	// Empty if Pass is true.
	Errors []string
}

// NewResult creates a new passing result.
func NewResult() *Result {
	return &Result{
		Pass:     true,
		Warnings: []string{},
		Errors:   []string{},
	}
}

// AddError adds a validation error and marks the result as failed.
func (r *Result) AddError(err string) {
	r.Errors = append(r.Errors, err)
	r.Pass = false
}
