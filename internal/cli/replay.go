package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/xrq/internal/beta"
)

// ReplayOptions holds flags for the replay command.
type ReplayOptions struct {
	*RootOptions
	Database string
}

// DriftResult reports one stored reduction that no longer matches.
type DriftResult struct {
	Key    string `json:"key"`
	Stored string `json:"stored"`
	Replay string `json:"replay,omitempty"`
	Error  string `json:"error,omitempty"`
}

// ReplayResult holds the overall replay result.
type ReplayResult struct {
	Checked       int           `json:"checked"`
	Drifts        []DriftResult `json:"drifts"`
	Deterministic bool          `json:"deterministic"`
}

// NewReplayCommand creates the replay command.
func NewReplayCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ReplayOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "replay",
		Short: "Re-reduce cached inputs and verify results",
		Long: `Re-reduce every input stored in a reduction cache with its stored options
and compare against the stored output.

Exit codes:
  0 - Every stored reduction reproduces
  1 - One or more reductions drifted
  2 - Command error (database not found, etc.)

Examples:
  xrq replay --cache ./xrq.db
  xrq replay --config xrq.yaml --format json`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runReplay(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Database, "cache", "", "path to the reduction cache (defaults to the config's cache)")
	return cmd
}

func runReplay(opts *ReplayOptions, cmd *cobra.Command) error {
	formatter := newFormatter(opts.RootOptions, cmd)

	path := opts.Database
	if path == "" {
		path = opts.Config.Cache
	}
	if path == "" {
		return formatter.fail(ExitCommandError, "no cache", &LoadError{Code: ErrCodeNotFound, Message: "set --cache or the config's cache"})
	}

	st, err := opts.Config.openCache(path)
	if err != nil {
		return formatter.fail(ExitCommandError, "cache unavailable", &LoadError{Code: ErrCodeCacheFailed, Message: err.Error()})
	}
	defer st.Close()

	replayed, err := st.Replay(context.Background(), beta.WithLogger(newLogger(opts.RootOptions, cmd.ErrOrStderr())))
	if err != nil {
		return formatter.fail(ExitCommandError, "replay failed", err)
	}

	result := ReplayResult{
		Checked:       replayed.Checked,
		Drifts:        []DriftResult{},
		Deterministic: replayed.OK(),
	}
	for _, d := range replayed.Drifts {
		dr := DriftResult{Key: d.Key, Stored: d.Stored, Replay: d.Replay}
		if d.Err != nil {
			dr.Error = d.Err.Error()
		}
		result.Drifts = append(result.Drifts, dr)
	}

	if !result.Deterministic && opts.Format == "json" {
		_ = formatter.Error(ErrCodeDrift, fmt.Sprintf("%d reduction(s) drifted", len(result.Drifts)), result)
	} else if err := formatter.Success(result); err != nil {
		return err
	}

	if !result.Deterministic {
		return NewExitError(ExitFailure, fmt.Sprintf("%d reduction(s) drifted", len(result.Drifts)))
	}
	return nil
}

// Text lists every drift followed by a one-line summary.
func (r ReplayResult) Text() string {
	var b strings.Builder
	for _, d := range r.Drifts {
		fmt.Fprintf(&b, "✗ %s\n", d.Key)
		if d.Error != "" {
			fmt.Fprintf(&b, "  error: %s\n", d.Error)
			continue
		}
		fmt.Fprintf(&b, "  stored: %s\n  replay: %s\n", d.Stored, d.Replay)
	}
	fmt.Fprintf(&b, "%d checked, %d drifted", r.Checked, len(r.Drifts))
	return b.String()
}
