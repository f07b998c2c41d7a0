package cli

import (
	"errors"
	"fmt"
	"os"

	"cuelang.org/go/cue/token"

	"github.com/roach88/xrq/internal/beta"
	"github.com/roach88/xrq/internal/xrcue"
)

// LoadError represents an error that occurred while loading an input file.
type LoadError struct {
	Code    string
	Message string
	Pos     token.Pos // CUE position if available
}

func (e *LoadError) Error() string {
	if e.Pos.IsValid() {
		return fmt.Sprintf("%s:%d:%d: %s: %s", e.Pos.Filename(), e.Pos.Line(), e.Pos.Column(), e.Code, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Error codes for CLI output.
const (
	ErrCodeGeneric     = "E001" // Generic/unknown error
	ErrCodeNotFound    = "E005" // Path not found
	ErrCodeBuildFailed = "E006" // CUE build failed
	ErrCodeWriteFailed = "E007" // File write error

	ErrCodeDecodeFailed = "E201" // Tree decode failed
	ErrCodeLowerFailed  = "E202" // Select clause lowering failed
	ErrCodeNotCanonical = "E203" // Tree is not canonical
	ErrCodeCacheFailed  = "E204" // Reduction cache unavailable
	ErrCodeDrift        = "E205" // Replay differs from stored result
)

// LoadDocument compiles and decodes a CUE or JSON input file.
func LoadDocument(path string) (xrcue.Document, error) {
	if _, err := os.Stat(path); err != nil {
		return xrcue.Document{}, &LoadError{Code: ErrCodeNotFound, Message: fmt.Sprintf("input not found: %s", path)}
	}

	v, err := xrcue.LoadFile(path)
	if err != nil {
		return xrcue.Document{}, toLoadError(ErrCodeBuildFailed, err)
	}

	doc, err := xrcue.DecodeDocument(v)
	if err != nil {
		return xrcue.Document{}, toLoadError(ErrCodeDecodeFailed, err)
	}
	return doc, nil
}

func toLoadError(code string, err error) *LoadError {
	var de *xrcue.DecodeError
	if errors.As(err, &de) {
		msg := de.Message
		if de.Path != "" {
			msg = de.Path + ": " + msg
		}
		return &LoadError{Code: code, Message: msg, Pos: de.Pos}
	}
	return &LoadError{Code: code, Message: err.Error()}
}

// errorCode maps an error to the code reported in CLI output. Reduction
// errors keep their own codes.
func errorCode(err error) string {
	var le *LoadError
	if errors.As(err, &le) {
		return le.Code
	}
	var re *beta.ReductionError
	if errors.As(err, &re) {
		return string(re.Code)
	}
	return ErrCodeGeneric
}
