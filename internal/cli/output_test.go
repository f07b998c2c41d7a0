package cli

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/xrq/internal/beta"
	"github.com/roach88/xrq/internal/xr"
)

func TestOutputFormatter_JSONSuccess(t *testing.T) {
	buf := &bytes.Buffer{}
	formatter := &OutputFormatter{Format: "json", Writer: buf}

	require.NoError(t, formatter.Success(map[string]string{"result": "success"}))

	var resp CLIResponse
	require.NoError(t, json.Unmarshal(buf.Bytes(), &resp))
	assert.Equal(t, "ok", resp.Status)
	assert.NotNil(t, resp.Data)
	assert.Nil(t, resp.Error)
}

func TestOutputFormatter_JSONError(t *testing.T) {
	buf := &bytes.Buffer{}
	formatter := &OutputFormatter{Format: "json", Writer: buf}

	require.NoError(t, formatter.Error("E001", "reduction failed", nil))

	var resp CLIResponse
	require.NoError(t, json.Unmarshal(buf.Bytes(), &resp))
	assert.Equal(t, "error", resp.Status)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "E001", resp.Error.Code)
	assert.Equal(t, "reduction failed", resp.Error.Message)
}

func TestOutputFormatter_TextError(t *testing.T) {
	buf := &bytes.Buffer{}
	formatter := &OutputFormatter{Format: "text", Writer: buf, Verbose: true}

	require.NoError(t, formatter.Error("E005", "input not found", "a.cue"))
	assert.Equal(t, "Error [E005]: input not found\nDetails: a.cue\n", buf.String())
}

func TestOutputFormatter_VerboseLog(t *testing.T) {
	out, diag := &bytes.Buffer{}, &bytes.Buffer{}
	formatter := &OutputFormatter{Format: "json", Writer: out, ErrWriter: diag}

	formatter.VerboseLog("hidden")
	assert.Empty(t, diag.String())

	formatter.Verbose = true
	formatter.VerboseLog("reduced in %d", 2)
	assert.Equal(t, "reduced in 2\n", diag.String())
	assert.Empty(t, out.String(), "verbose logs must not corrupt JSON output")
}

func TestGetExitCode(t *testing.T) {
	assert.Equal(t, ExitSuccess, GetExitCode(nil))
	assert.Equal(t, ExitFailure, GetExitCode(errors.New("plain")))
	assert.Equal(t, ExitCommandError, GetExitCode(NewExitError(ExitCommandError, "bad")))

	wrapped := fmt.Errorf("outer: %w", WrapExitError(ExitFailure, "inner", errors.New("cause")))
	assert.Equal(t, ExitFailure, GetExitCode(wrapped))
	assert.Equal(t, "outer: inner: cause", wrapped.Error())
}

func TestOutputFormatter_TextRenderer(t *testing.T) {
	buf := &bytes.Buffer{}
	formatter := &OutputFormatter{Format: "text", Writer: buf}

	result := CheckResult{Canonical: false, Warnings: []string{"lambda left in tree", "let block not flattened"}}
	require.NoError(t, formatter.Success(result))
	assert.Equal(t, "✗ lambda left in tree\n✗ let block not flattened\n", buf.String())

	buf.Reset()
	require.NoError(t, formatter.Success(ReplayResult{Checked: 2, Drifts: []DriftResult{}, Deterministic: true}))
	assert.Equal(t, "2 checked, 0 drifted\n", buf.String())
}

func TestErrorDetails(t *testing.T) {
	_, ok := errorDetails(errors.New("plain"))
	assert.False(t, ok)

	_, ok = errorDetails(&LoadError{Code: ErrCodeNotFound, Message: "missing"})
	assert.False(t, ok, "a load error without a position has no details")

	reduction := fmt.Errorf("reduce: %w", &beta.ReductionError{
		Code:        beta.ErrCodeTypeMismatch,
		Message:     "no meet",
		Original:    xr.Int(1),
		Replacement: xr.Str("a"),
	})
	d, ok := errorDetails(reduction)
	require.True(t, ok)
	assert.Equal(t, ErrorDetails{Original: "1", Replacement: `"a"`}, d)
	assert.Equal(t, `original 1; replacement "a"`, d.String())
}
