package cli

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/roach88/xrq/internal/beta"
	"github.com/roach88/xrq/internal/store"
)

// Config is the optional YAML config file. Flags override its values.
type Config struct {
	TypeBehavior  string `yaml:"type_behavior"`
	EmptyProduct  string `yaml:"empty_product"`
	MaxIterations int    `yaml:"max_iterations"`

	// Cache is the path of a reduction cache database. Empty disables
	// caching.
	Cache string `yaml:"cache"`

	// BusyTimeout is how long the cache waits on a lock held by another
	// process, e.g. "2s". Zero keeps the store default.
	BusyTimeout time.Duration `yaml:"busy_timeout"`
}

// LoadConfig reads a config file. An empty path yields the zero Config.
func LoadConfig(path string) (Config, error) {
	var cfg Config
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config: %w", err)
	}

	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}

	if err := cfg.validate(); err != nil {
		return cfg, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

func (c Config) validate() error {
	if _, ok := beta.ParseTypeBehavior(c.TypeBehavior); !ok {
		return fmt.Errorf("unknown type_behavior %q", c.TypeBehavior)
	}
	if _, ok := beta.ParseEmptyProductBehavior(c.EmptyProduct); !ok {
		return fmt.Errorf("unknown empty_product %q", c.EmptyProduct)
	}
	if c.MaxIterations < 0 {
		return fmt.Errorf("max_iterations must not be negative")
	}
	if c.BusyTimeout < 0 {
		return fmt.Errorf("busy_timeout must not be negative")
	}
	return nil
}

// ReductionFlags are the per-command overrides of Config.
type ReductionFlags struct {
	TypeBehavior  string
	EmptyProduct  string
	MaxIterations int
	Cache         string
}

func (f *ReductionFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.TypeBehavior, "type-behavior", "", "substitute_subtypes|replace_with_reduction")
	cmd.Flags().StringVar(&f.EmptyProduct, "empty-product", "", "fail|ignore")
	cmd.Flags().IntVar(&f.MaxIterations, "max-iterations", 0, "fixpoint iteration bound (0 = size-based default)")
	cmd.Flags().StringVar(&f.Cache, "cache", "", "path to a reduction cache database")
}

// merge returns cfg with every flag set on cmd applied over it.
func (f *ReductionFlags) merge(cfg Config, cmd *cobra.Command) (Config, error) {
	if cmd.Flags().Changed("type-behavior") {
		cfg.TypeBehavior = f.TypeBehavior
	}
	if cmd.Flags().Changed("empty-product") {
		cfg.EmptyProduct = f.EmptyProduct
	}
	if cmd.Flags().Changed("max-iterations") {
		cfg.MaxIterations = f.MaxIterations
	}
	if cmd.Flags().Changed("cache") {
		cfg.Cache = f.Cache
	}
	return cfg, cfg.validate()
}

// openCache opens the configured reduction cache.
func (c Config) openCache(path string) (*store.Store, error) {
	return store.Open(path, store.WithBusyTimeout(c.BusyTimeout))
}

// betaOptions converts a validated config.
func (c Config) betaOptions() []beta.Option {
	tb, _ := beta.ParseTypeBehavior(c.TypeBehavior)
	ep, _ := beta.ParseEmptyProductBehavior(c.EmptyProduct)
	return []beta.Option{
		beta.WithTypeBehavior(tb),
		beta.WithEmptyProductBehavior(ep),
		beta.WithMaxIterations(c.MaxIterations),
	}
}
