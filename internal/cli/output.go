package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/xrq/internal/beta"
	"github.com/roach88/xrq/internal/xr"
)

// Exit codes for CLI commands.
//
// Scripts distinguish "the tree is wrong" (1) from "the command could not
// run" (2): a malformed input file is a command error, while a reduction
// that fails on a well-formed tree is a failure.
const (
	ExitSuccess      = 0 // Successful execution
	ExitFailure      = 1 // Reduction failure, non-canonical result, failed scenarios, replay drift
	ExitCommandError = 2 // Command error (invalid paths, malformed input, etc.)
)

// ExitError carries the exit code a command should terminate with.
// Commands return it from RunE; main passes it to GetExitCode.
type ExitError struct {
	Code    int    // Exit code (use ExitFailure or ExitCommandError)
	Message string // Error message
	Err     error  // Underlying error (optional)
}

func (e *ExitError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *ExitError) Unwrap() error {
	return e.Err
}

// NewExitError creates a new ExitError with the given code and message.
func NewExitError(code int, message string) *ExitError {
	return &ExitError{Code: code, Message: message}
}

// WrapExitError wraps an existing error with an exit code.
func WrapExitError(code int, message string, err error) *ExitError {
	return &ExitError{Code: code, Message: message, Err: err}
}

// GetExitCode extracts the exit code from an error, looking through
// wrapping. A nil error is ExitSuccess; an error without an ExitError in
// its chain is ExitFailure.
func GetExitCode(err error) int {
	if err == nil {
		return ExitSuccess
	}
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}
	return ExitFailure
}

// OutputFormatter writes command results as a JSON envelope or as text.
//
// Results go to Writer. Diagnostics (verbose logs) go to ErrWriter, so
// `--format json` output stays parseable with -v.
type OutputFormatter struct {
	Format    string
	Writer    io.Writer
	ErrWriter io.Writer // Diagnostic output; defaults to Writer
	Verbose   bool
}

// newFormatter builds the formatter for cmd from the global flags.
func newFormatter(opts *RootOptions, cmd *cobra.Command) *OutputFormatter {
	return &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}
}

// CLIResponse is the JSON envelope of every command.
type CLIResponse struct {
	Status string    `json:"status"`          // "ok" or "error"
	Data   any       `json:"data,omitempty"`  // success payload
	Error  *CLIError `json:"error,omitempty"` // error details
}

// CLIError is the error part of the envelope. Code is a loader code
// ("E201") or a reduction error code ("FIELD_NOT_FOUND").
type CLIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
}

// textRenderer is implemented by payloads with their own text form.
type textRenderer interface {
	Text() string
}

// Success writes a result. In text mode a payload implementing Text is
// rendered with it; anything else is printed with fmt.
func (f *OutputFormatter) Success(data any) error {
	if f.Format == "json" {
		return json.NewEncoder(f.Writer).Encode(CLIResponse{
			Status: "ok",
			Data:   data,
		})
	}
	if r, ok := data.(textRenderer); ok {
		_, err := fmt.Fprintln(f.Writer, r.Text())
		return err
	}
	_, err := fmt.Fprintln(f.Writer, data)
	return err
}

// Error writes an error. Text mode shows details only with --verbose.
func (f *OutputFormatter) Error(code, message string, details any) error {
	if f.Format == "json" {
		return json.NewEncoder(f.Writer).Encode(CLIResponse{
			Status: "error",
			Error: &CLIError{
				Code:    code,
				Message: message,
				Details: details,
			},
		})
	}

	fmt.Fprintf(f.Writer, "Error [%s]: %s\n", code, message)
	if f.Verbose && details != nil {
		fmt.Fprintf(f.Writer, "Details: %v\n", details)
	}
	return nil
}

// VerboseLog writes a diagnostic line when --verbose is set.
func (f *OutputFormatter) VerboseLog(format string, args ...any) {
	if !f.Verbose {
		return
	}
	fmt.Fprintf(f.GetErrWriter(), format+"\n", args...)
}

// GetErrWriter returns ErrWriter if set, otherwise Writer.
func (f *OutputFormatter) GetErrWriter() io.Writer {
	if f.ErrWriter != nil {
		return f.ErrWriter
	}
	return f.Writer
}

// fail reports err with its code and details, and returns the ExitError
// the command should return.
func (f *OutputFormatter) fail(exitCode int, message string, err error) error {
	var details any
	if d, ok := errorDetails(err); ok {
		details = d
	}
	_ = f.Error(errorCode(err), fmt.Sprintf("%s: %v", message, err), details)
	return WrapExitError(exitCode, message, err)
}

// ErrorDetails locates a failure: where in the input a load error is, or
// which trees a reduction error involves.
type ErrorDetails struct {
	Position    string `json:"position,omitempty"`
	Original    string `json:"original,omitempty"`
	Replacement string `json:"replacement,omitempty"`
}

func (d ErrorDetails) String() string {
	var parts []string
	if d.Position != "" {
		parts = append(parts, "at "+d.Position)
	}
	if d.Original != "" {
		parts = append(parts, "original "+d.Original)
	}
	if d.Replacement != "" {
		parts = append(parts, "replacement "+d.Replacement)
	}
	return strings.Join(parts, "; ")
}

// errorDetails extracts ErrorDetails from err, if it carries any.
func errorDetails(err error) (ErrorDetails, bool) {
	var d ErrorDetails
	var le *LoadError
	if errors.As(err, &le) && le.Pos.IsValid() {
		d.Position = le.Pos.String()
	}
	var re *beta.ReductionError
	if errors.As(err, &re) {
		if re.Original != nil {
			d.Original = xr.Format(re.Original)
		}
		if re.Replacement != nil {
			d.Replacement = xr.Format(re.Replacement)
		}
	}
	return d, d != ErrorDetails{}
}
