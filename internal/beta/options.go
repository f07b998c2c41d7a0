package beta

import "log/slog"

// TypeBehavior controls how the type of a substituted node is treated.
type TypeBehavior int

const (
	// SubstituteSubtypes validates supplied substitutions and widens the type
	// of terminal replacements to the meet of original and replacement.
	SubstituteSubtypes TypeBehavior = iota

	// ReplaceWithReduction trusts the replacement's type as-is.
	ReplaceWithReduction
)

func (b TypeBehavior) String() string {
	switch b {
	case SubstituteSubtypes:
		return "substitute_subtypes"
	case ReplaceWithReduction:
		return "replace_with_reduction"
	default:
		return "unknown"
	}
}

// EmptyProductBehavior controls whether a type meet that degenerates to a
// product with no fields is an error.
type EmptyProductBehavior int

const (
	// EmptyProductFail rejects supplied substitutions whose meet is empty.
	EmptyProductFail EmptyProductBehavior = iota

	// EmptyProductIgnore accepts them.
	EmptyProductIgnore
)

func (b EmptyProductBehavior) String() string {
	switch b {
	case EmptyProductFail:
		return "fail"
	case EmptyProductIgnore:
		return "ignore"
	default:
		return "unknown"
	}
}

// ParseTypeBehavior parses the String form of a TypeBehavior.
func ParseTypeBehavior(s string) (TypeBehavior, bool) {
	switch s {
	case "substitute_subtypes", "":
		return SubstituteSubtypes, true
	case "replace_with_reduction":
		return ReplaceWithReduction, true
	default:
		return 0, false
	}
}

// ParseEmptyProductBehavior parses the String form of an
// EmptyProductBehavior.
func ParseEmptyProductBehavior(s string) (EmptyProductBehavior, bool) {
	switch s {
	case "fail", "":
		return EmptyProductFail, true
	case "ignore":
		return EmptyProductIgnore, true
	default:
		return 0, false
	}
}

// Base and per-node terms of the default iteration bound.
const (
	DefaultIterationBase    = 32
	DefaultIterationPerNode = 4
)

// maxDepth bounds recursion inside a single pass. A cyclic substitution or a
// self-applying function would otherwise overflow the stack.
const maxDepth = 10_000

// Options configure a reduction.
type Options struct {
	TypeBehavior         TypeBehavior
	EmptyProductBehavior EmptyProductBehavior

	// MaxIterations bounds the fixpoint loop. Zero selects
	// DefaultIterationBase + DefaultIterationPerNode * nodeCount(tree).
	MaxIterations int

	Logger *slog.Logger
}

// Option configures a reduction.
type Option func(*Options)

// WithTypeBehavior selects the type behavior (default SubstituteSubtypes).
func WithTypeBehavior(b TypeBehavior) Option {
	return func(o *Options) {
		o.TypeBehavior = b
	}
}

// WithEmptyProductBehavior selects the empty product behavior
// (default EmptyProductFail).
func WithEmptyProductBehavior(b EmptyProductBehavior) Option {
	return func(o *Options) {
		o.EmptyProductBehavior = b
	}
}

// WithMaxIterations overrides the fixpoint iteration bound.
// Use WithMaxIterations(1) in tests to observe a single pass failing to
// converge.
func WithMaxIterations(n int) Option {
	return func(o *Options) {
		o.MaxIterations = n
	}
}

// WithLogger sets the logger receiving type-correction warnings and
// per-iteration debug records (default slog.Default()).
func WithLogger(l *slog.Logger) Option {
	return func(o *Options) {
		o.Logger = l
	}
}

// NewOptions resolves opts against the defaults.
func NewOptions(opts ...Option) Options {
	return newOptions(opts)
}

func newOptions(opts []Option) Options {
	o := Options{
		TypeBehavior:         SubstituteSubtypes,
		EmptyProductBehavior: EmptyProductFail,
	}
	for _, opt := range opts {
		opt(&o)
	}
	if o.Logger == nil {
		o.Logger = slog.Default()
	}
	return o
}
