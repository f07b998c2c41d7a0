package cli

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/xrq/internal/canonical"
	"github.com/roach88/xrq/internal/selectclause"
)

// CheckResult holds canonical-form validation results.
type CheckResult struct {
	Canonical bool     `json:"canonical"`
	Warnings  []string `json:"warnings"`
}

// NewCheckCommand creates the check command.
func NewCheckCommand(rootOpts *RootOptions) *cobra.Command {
	var lower bool

	cmd := &cobra.Command{
		Use:   "check <file>",
		Short: "Check that a tree is in canonical form",
		Long: `Report constructs that should not survive reduction: unapplied lambdas,
let blocks, wrapper pairs, unlowered select clauses and flat statements
outside a FlatMap chain. The tree is not reduced.

Exit codes:
  0 - Canonical
  1 - Not canonical
  2 - Command error

Examples:
  xrq check reduced.json
  xrq check query.cue --lower`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCheck(rootOpts, args[0], lower, cmd)
		},
	}

	cmd.Flags().BoolVar(&lower, "lower", false, "lower select clauses before checking")
	return cmd
}

func runCheck(opts *RootOptions, path string, lower bool, cmd *cobra.Command) error {
	formatter := newFormatter(opts, cmd)

	doc, err := LoadDocument(path)
	if err != nil {
		return formatter.fail(ExitCommandError, "load failed", err)
	}

	tree := doc.Tree
	if lower {
		tree, err = selectclause.Lower(tree)
		if err != nil {
			return formatter.fail(ExitCommandError, "lowering failed", &LoadError{Code: ErrCodeLowerFailed, Message: err.Error()})
		}
	}

	validation := canonical.Validate(tree)
	result := CheckResult{Canonical: validation.IsCanonical, Warnings: validation.Warnings}

	if !result.Canonical && opts.Format == "json" {
		_ = formatter.Error(ErrCodeNotCanonical, "tree is not canonical", result)
	} else if err := formatter.Success(result); err != nil {
		return err
	}
	if !result.Canonical {
		return NewExitError(ExitFailure, "tree is not canonical")
	}
	return nil
}

// Text lists one line per warning, or a check mark when there are none.
func (r CheckResult) Text() string {
	if r.Canonical {
		return "✓ canonical"
	}
	lines := make([]string, len(r.Warnings))
	for i, w := range r.Warnings {
		lines[i] = "✗ " + w
	}
	return strings.Join(lines, "\n")
}
