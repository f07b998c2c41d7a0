package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/xrq/internal/beta"
	"github.com/roach88/xrq/internal/canonical"
	"github.com/roach88/xrq/internal/selectclause"
	"github.com/roach88/xrq/internal/store"
	"github.com/roach88/xrq/internal/xr"
)

// ReduceOptions holds flags for the reduce command.
type ReduceOptions struct {
	*RootOptions
	ReductionFlags
}

// ReduceResult is the payload of the reduce command.
type ReduceResult struct {
	Tree       json.RawMessage `json:"tree"`
	Iterations int             `json:"iterations"`
	Cached     bool            `json:"cached"`
	Canonical  bool            `json:"canonical"`
	Warnings   []string        `json:"warnings"`
}

// NewReduceCommand creates the reduce command.
func NewReduceCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ReduceOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "reduce <file>",
		Short: "Lower and beta-reduce a tree",
		Long: `Lower select clauses, beta-reduce the tree under the file's substitutions
and report whether the result is canonical.

The file is CUE or JSON holding either a tree or {tree, substitutions}.

Exit codes:
  0 - Reduced
  1 - Reduction failed
  2 - Command error (missing file, malformed tree, etc.)

Examples:
  xrq reduce query.cue
  xrq reduce query.json --format json
  xrq reduce query.cue --type-behavior replace_with_reduction
  xrq reduce query.cue --cache ./xrq.db`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runReduce(opts, args[0], cmd)
		},
	}

	opts.ReductionFlags.register(cmd)
	return cmd
}

func runReduce(opts *ReduceOptions, path string, cmd *cobra.Command) error {
	formatter := newFormatter(opts.RootOptions, cmd)

	cfg, err := opts.ReductionFlags.merge(opts.Config, cmd)
	if err != nil {
		return formatter.fail(ExitCommandError, "invalid options", err)
	}

	doc, err := LoadDocument(path)
	if err != nil {
		return formatter.fail(ExitCommandError, "load failed", err)
	}

	tree, err := selectclause.Lower(doc.Tree)
	if err != nil {
		return formatter.fail(ExitCommandError, "lowering failed", &LoadError{Code: ErrCodeLowerFailed, Message: err.Error()})
	}

	betaOpts := append(cfg.betaOptions(), beta.WithLogger(newLogger(opts.RootOptions, cmd.ErrOrStderr())))

	var (
		res    beta.Result
		cached bool
	)
	if cfg.Cache != "" {
		st, err := cfg.openCache(cfg.Cache)
		if err != nil {
			return formatter.fail(ExitCommandError, "cache unavailable", &LoadError{Code: ErrCodeCacheFailed, Message: err.Error()})
		}
		defer st.Close()
		res, cached, err = store.NewCache(st).Reduce(context.Background(), tree, doc.Substitutions, betaOpts...)
		if err != nil {
			return formatter.fail(ExitFailure, "reduction failed", err)
		}
	} else {
		res, err = beta.ReduceWithResult(tree, doc.Substitutions, betaOpts...)
		if err != nil {
			return formatter.fail(ExitFailure, "reduction failed", err)
		}
	}
	formatter.VerboseLog("Reduced %s in %d iteration(s) (cached: %t)", path, res.Iterations, cached)

	validation := canonical.Validate(res.Tree)

	if opts.Format == "json" {
		data, err := xr.MarshalCanonical(res.Tree)
		if err != nil {
			return formatter.fail(ExitCommandError, "encoding failed", err)
		}
		return formatter.Success(ReduceResult{
			Tree:       data,
			Iterations: res.Iterations,
			Cached:     cached,
			Canonical:  validation.IsCanonical,
			Warnings:   validation.Warnings,
		})
	}
	return formatter.Success(treeText(res.Tree, validation))
}

// treeText is the text rendering of a tree and its validation warnings.
func treeText(tree xr.XR, validation canonical.ValidationResult) string {
	var b strings.Builder
	b.WriteString(xr.Format(tree))
	for _, w := range validation.Warnings {
		fmt.Fprintf(&b, "\nwarning: %s", w)
	}
	return b.String()
}
