package harness

import (
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/roach88/xrq/internal/beta"
	"github.com/roach88/xrq/internal/canonical"
	"github.com/roach88/xrq/internal/selectclause"
	"github.com/roach88/xrq/internal/xr"
	"github.com/roach88/xrq/internal/xrcue"
)

// Harness is the scenario execution engine.
type Harness struct {
	logger *slog.Logger
}

// Run executes a scenario and returns the result.
//
// Execution flow:
// 1. Decode the input document
// 2. Lower select clauses
// 3. Reduce with the scenario options
// 4. Check the expectation and assertions
//
// A returned error means the scenario itself is broken (unreadable input,
// malformed tree); a failing expectation is reported in Result.Errors.
func Run(scenario *Scenario) (*Result, error) {
	h := &Harness{
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	return h.run(scenario)
}

func (h *Harness) run(s *Scenario) (*Result, error) {
	doc, err := loadInput(s)
	if err != nil {
		return nil, fmt.Errorf("scenario %s: %w", s.Name, err)
	}

	tree, err := selectclause.Lower(doc.Tree)
	if err != nil {
		return nil, fmt.Errorf("scenario %s: lower: %w", s.Name, err)
	}

	opts := append(s.Options.betaOptions(), beta.WithLogger(h.logger))
	res, err := beta.ReduceWithResult(tree, doc.Substitutions, opts...)

	result := NewResult()
	if err != nil {
		result.Err = err
		switch {
		case s.Expect.Error == "":
			result.AddError(fmt.Sprintf("reduction failed: %v", err))
		case errorCode(err) != s.Expect.Error:
			result.AddError(fmt.Sprintf("expected error %s, got %s: %v", s.Expect.Error, errorCode(err), err))
		}
		return result, nil
	}

	result.Output = res.Tree
	result.Iterations = res.Iterations
	if s.Expect.Error != "" {
		result.AddError(fmt.Sprintf("expected error %s, reduction succeeded with %s", s.Expect.Error, xr.Format(res.Tree)))
	}

	validation := canonical.Validate(res.Tree)
	result.Warnings = validation.Warnings
	if s.Expect.Canonical {
		for _, w := range validation.Warnings {
			result.AddError("not canonical: " + w)
		}
	}

	if s.Expect.Tree != "" {
		want, err := decodeSource(s.Expect.Tree, s.Name+".expect.cue")
		if err != nil {
			return nil, fmt.Errorf("scenario %s: expect.tree: %w", s.Name, err)
		}
		if !xr.Equal(want, res.Tree) {
			result.AddError(fmt.Sprintf("tree mismatch\n  expected: %s\n  actual:   %s", xr.Format(want), xr.Format(res.Tree)))
		}
	}

	for _, msg := range EvaluateAssertions(res.Tree, s.Assertions) {
		result.AddError(msg)
	}
	return result, nil
}

func loadInput(s *Scenario) (xrcue.Document, error) {
	if s.Input != "" {
		v, err := xrcue.Compile([]byte(s.Input), s.Name+".cue")
		if err != nil {
			return xrcue.Document{}, err
		}
		return xrcue.DecodeDocument(v)
	}
	v, err := xrcue.LoadFile(s.InputFile)
	if err != nil {
		return xrcue.Document{}, err
	}
	return xrcue.DecodeDocument(v)
}

func decodeSource(src, filename string) (xr.XR, error) {
	v, err := xrcue.Compile([]byte(src), filename)
	if err != nil {
		return nil, err
	}
	return xrcue.Decode(v)
}

// errorCode returns the reduction error code of err, or its message when
// err is not a reduction error.
func errorCode(err error) string {
	var re *beta.ReductionError
	if errors.As(err, &re) {
		return string(re.Code)
	}
	return err.Error()
}
