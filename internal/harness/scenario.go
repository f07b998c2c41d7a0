package harness

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/roach88/xrq/internal/beta"
)

// Scenario defines a reduction test.
type Scenario struct {
	// Name uniquely identifies this scenario. It names the golden file.
	Name string `yaml:"name"`

	// Description explains what this scenario validates.
	Description string `yaml:"description"`

	// Input is an inline CUE document: a tree, or {tree, substitutions}.
	Input string `yaml:"input,omitempty"`

	// InputFile is the path of a CUE or JSON document, used when Input is
	// empty. Relative paths are resolved against the scenario file.
	InputFile string `yaml:"input_file,omitempty"`

	// Options configure the reduction.
	Options ScenarioOptions `yaml:"options,omitempty"`

	// Expect specifies the expected outcome.
	Expect ExpectClause `yaml:"expect"`

	// Assertions validate the shape of the reduced tree.
	Assertions []Assertion `yaml:"assertions,omitempty"`

	// path is the file the scenario was loaded from, if any.
	path string
}

// ScenarioOptions mirror beta.Options in their string forms.
type ScenarioOptions struct {
	TypeBehavior  string `yaml:"type_behavior,omitempty"`
	EmptyProduct  string `yaml:"empty_product,omitempty"`
	MaxIterations int    `yaml:"max_iterations,omitempty"`
}

// ExpectClause specifies the expected reduction outcome.
type ExpectClause struct {
	// Tree is the expected reduced tree as a CUE source.
	Tree string `yaml:"tree,omitempty"`

	// Error is the expected error code (e.g. "FIELD_NOT_FOUND").
	Error string `yaml:"error,omitempty"`

	// Canonical requires the reduced tree to be canonical.
	Canonical bool `yaml:"canonical,omitempty"`
}

// Assertion validates the reduced tree.
type Assertion struct {
	// Type is one of contains_kind, absent_kind or count_kind.
	Type string `yaml:"type"`

	// Kind is a node kind name such as "FunctionApply".
	Kind string `yaml:"kind"`

	// Count is the expected number of nodes (used by count_kind).
	Count int `yaml:"count,omitempty"`
}

// Assertion type constants.
const (
	AssertContainsKind = "contains_kind"
	AssertAbsentKind   = "absent_kind"
	AssertCountKind    = "count_kind"
)

// LoadScenario reads and parses a scenario YAML file.
// Returns an error if the file doesn't exist, is malformed,
// contains unknown fields (typos), or is missing required fields.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}

	scenario, err := ParseScenario(data)
	if err != nil {
		return nil, err
	}
	scenario.path = path
	if scenario.InputFile != "" && !filepath.IsAbs(scenario.InputFile) {
		scenario.InputFile = filepath.Join(filepath.Dir(path), scenario.InputFile)
	}
	return scenario, nil
}

// ParseScenario parses scenario YAML.
func ParseScenario(data []byte) (*Scenario, error) {
	// Strict field validation catches typos like "assertion:" vs "assertions:"
	var scenario Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&scenario); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if err := validateScenario(&scenario); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}
	return &scenario, nil
}

// LoadDir loads every *.yaml scenario in dir, sorted by file name.
func LoadDir(dir string) ([]*Scenario, error) {
	paths, err := filepath.Glob(filepath.Join(dir, "*.yaml"))
	if err != nil {
		return nil, err
	}
	scenarios := make([]*Scenario, 0, len(paths))
	for _, p := range paths {
		s, err := LoadScenario(p)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", p, err)
		}
		scenarios = append(scenarios, s)
	}
	return scenarios, nil
}

// validateScenario checks that required fields are present and valid.
func validateScenario(s *Scenario) error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}
	if s.Description == "" {
		return fmt.Errorf("description is required")
	}

	if s.Input == "" && s.InputFile == "" {
		return fmt.Errorf("input or input_file is required")
	}
	if s.Input != "" && s.InputFile != "" {
		return fmt.Errorf("input and input_file are mutually exclusive")
	}

	if s.Expect.Tree != "" && s.Expect.Error != "" {
		return fmt.Errorf("expect.tree and expect.error are mutually exclusive")
	}

	if _, ok := beta.ParseTypeBehavior(s.Options.TypeBehavior); !ok {
		return fmt.Errorf("unknown type_behavior %q", s.Options.TypeBehavior)
	}
	if _, ok := beta.ParseEmptyProductBehavior(s.Options.EmptyProduct); !ok {
		return fmt.Errorf("unknown empty_product %q", s.Options.EmptyProduct)
	}
	if s.Options.MaxIterations < 0 {
		return fmt.Errorf("max_iterations must not be negative")
	}

	for i, a := range s.Assertions {
		if err := validateAssertion(a); err != nil {
			return fmt.Errorf("assertion %d: %w", i, err)
		}
	}
	return nil
}

func validateAssertion(a Assertion) error {
	switch a.Type {
	case AssertContainsKind, AssertAbsentKind, AssertCountKind:
	default:
		return fmt.Errorf("unknown assertion type %q", a.Type)
	}
	if a.Kind == "" {
		return fmt.Errorf("%s: kind is required", a.Type)
	}
	if a.Type == AssertCountKind && a.Count < 0 {
		return fmt.Errorf("%s: count must not be negative", a.Type)
	}
	return nil
}

// betaOptions converts the scenario options. They were validated on load.
func (o ScenarioOptions) betaOptions() []beta.Option {
	tb, _ := beta.ParseTypeBehavior(o.TypeBehavior)
	ep, _ := beta.ParseEmptyProductBehavior(o.EmptyProduct)
	return []beta.Option{
		beta.WithTypeBehavior(tb),
		beta.WithEmptyProductBehavior(ep),
		beta.WithMaxIterations(o.MaxIterations),
	}
}
