package cli

import (
	"encoding/json"

	"github.com/spf13/cobra"

	"github.com/roach88/xrq/internal/canonical"
	"github.com/roach88/xrq/internal/selectclause"
	"github.com/roach88/xrq/internal/xr"
)

// DesugarResult is the payload of the desugar command.
type DesugarResult struct {
	Tree json.RawMessage `json:"tree"`
}

// NewDesugarCommand creates the desugar command.
func NewDesugarCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "desugar <file>",
		Short: "Lower select clauses without reducing",
		Long: `Lower every select clause in the tree to Map/FlatMap chains and print the
result. Substitutions in the file are ignored.

Examples:
  xrq desugar query.cue
  xrq desugar query.cue --format json`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDesugar(rootOpts, args[0], cmd)
		},
	}
	return cmd
}

func runDesugar(opts *RootOptions, path string, cmd *cobra.Command) error {
	formatter := newFormatter(opts, cmd)

	doc, err := LoadDocument(path)
	if err != nil {
		return formatter.fail(ExitCommandError, "load failed", err)
	}

	tree, err := selectclause.Lower(doc.Tree)
	if err != nil {
		return formatter.fail(ExitCommandError, "lowering failed", &LoadError{Code: ErrCodeLowerFailed, Message: err.Error()})
	}

	if opts.Format == "json" {
		data, err := xr.MarshalCanonical(tree)
		if err != nil {
			return formatter.fail(ExitCommandError, "encoding failed", err)
		}
		return formatter.Success(DesugarResult{Tree: data})
	}
	return formatter.Success(treeText(tree, canonical.ValidationResult{}))
}
