// SPDX-License-Identifier: MIT

package matfree

import (
	"fmt"
	"log/slog"
	"math"
	"runtime"

	"github.com/katalvlaran/matfree/estimate"
	"github.com/katalvlaran/matfree/krylov"
	"github.com/katalvlaran/matfree/probe"
)

// ---------- Defaults (single source of truth) ----------

const (
	// DefaultSymmetric leaves the operator's declared symmetry untouched.
	DefaultSymmetric = false

	// DefaultReorthogonalization is the Krylov reorthogonalization policy.
	DefaultReorthogonalization = krylov.Full

	// DefaultMaxDepth caps the Krylov depth; it is clamped to the dimension.
	DefaultMaxDepth = 30

	// DefaultDistribution is the probe distribution.
	DefaultDistribution = probe.Rademacher

	// DefaultTolerance of 0 disables adaptive stopping: scalar estimators use
	// one batch of MaxProbes probes.
	DefaultTolerance = 0.0

	// DefaultMaxProbes is the batch size, or the budget of adaptive runs.
	DefaultMaxProbes = 64

	// DefaultSeed is the seed of the probe streams.
	DefaultSeed = probe.DefaultSeed
)

// ---------- Internal panic messages ----------

const (
	panicMaxDepth     = "matfree: WithMaxDepth: depth must be >= 1"
	panicTolerance    = "matfree: WithTolerance: tol must be finite and >= 0"
	panicMaxProbes    = "matfree: WithMaxProbes: n must be >= 1"
	panicWorkers      = "matfree: WithWorkers: n must be >= 1"
	panicDistribution = "matfree: WithDistribution: unknown kind"
	panicReortho      = "matfree: WithReorthogonalization: unknown policy"
)

// Config is the effective configuration of an entry point call. The zero
// value is not valid; start from DefaultConfig or LoadConfig.
type Config struct {
	// Symmetric declares the operator symmetric (see operator.AsSymmetric).
	Symmetric bool `yaml:"symmetric"`

	Reorthogonalize krylov.Reorthogonalization `yaml:"reorthogonalize"`
	MaxDepth        int                        `yaml:"max_depth"`
	Distribution    probe.Kind                 `yaml:"probe_distribution"`

	// Tolerance > 0 enables adaptive stopping on the standard error.
	Tolerance float64 `yaml:"tolerance"`
	MaxProbes int     `yaml:"max_probes"`
	Seed      int64   `yaml:"seed"`

	// Workers bounds per-probe parallelism.
	Workers int `yaml:"workers"`

	// HutchPlusPlus selects Hutch++ for Trace (always a fixed batch).
	HutchPlusPlus bool `yaml:"hutch_plus_plus"`

	// Logger receives diagnostics; nil disables logging.
	Logger *slog.Logger `yaml:"-"`
}

// DefaultConfig returns the documented defaults.
func DefaultConfig() Config {
	return Config{
		Symmetric:       DefaultSymmetric,
		Reorthogonalize: DefaultReorthogonalization,
		MaxDepth:        DefaultMaxDepth,
		Distribution:    DefaultDistribution,
		Tolerance:       DefaultTolerance,
		MaxProbes:       DefaultMaxProbes,
		Seed:            DefaultSeed,
		Workers:         runtime.GOMAXPROCS(0),
	}
}

// Validate reports the first out-of-range field as ErrConfig.
func (c Config) Validate() error {
	switch {
	case c.MaxDepth < 1:
		return fmt.Errorf("max_depth=%d: %w", c.MaxDepth, ErrConfig)
	case math.IsNaN(c.Tolerance) || math.IsInf(c.Tolerance, 0) || c.Tolerance < 0:
		return fmt.Errorf("tolerance=%g: %w", c.Tolerance, ErrConfig)
	case c.MaxProbes < 1:
		return fmt.Errorf("max_probes=%d: %w", c.MaxProbes, ErrConfig)
	case c.Tolerance > 0 && c.MaxProbes < 2:
		return fmt.Errorf("max_probes=%d with tolerance: %w", c.MaxProbes, ErrConfig)
	case c.Workers < 1:
		return fmt.Errorf("workers=%d: %w", c.Workers, ErrConfig)
	case c.Distribution != probe.Rademacher && c.Distribution != probe.Gaussian:
		return fmt.Errorf("probe_distribution=%v: %w", c.Distribution, ErrConfig)
	case c.Reorthogonalize < krylov.None || c.Reorthogonalize > krylov.Full:
		return fmt.Errorf("reorthogonalize=%v: %w", c.Reorthogonalize, ErrConfig)
	}

	return nil
}

// estimateOptions translates c for the estimate package.
func (c Config) estimateOptions() []estimate.Option {
	opts := []estimate.Option{
		estimate.WithWorkers(c.Workers),
		estimate.WithLogger(c.Logger),
		estimate.WithDistribution(c.Distribution),
		estimate.WithSeed(c.Seed),
		estimate.WithKrylovOptions(c.krylovOptions()...),
	}
	if c.HutchPlusPlus {
		opts = append(opts, estimate.WithStrategy(estimate.HutchPlusPlus{}))
	}

	return opts
}

func (c Config) krylovOptions() []krylov.Option {
	return []krylov.Option{krylov.WithReorthogonalization(c.Reorthogonalize)}
}

// ---------- Public option type (functional) ----------

// Option mutates a Config. Constructors panic only on nonsensical values.
type Option func(*Config)

// WithConfig replaces the whole configuration, e.g. with one from LoadConfig.
// Later options still apply on top.
func WithConfig(cfg Config) Option {
	return func(c *Config) { *c = cfg }
}

// WithSymmetric declares the operator symmetric.
func WithSymmetric() Option {
	return func(c *Config) { c.Symmetric = true }
}

// WithReorthogonalization sets the Krylov reorthogonalization policy.
func WithReorthogonalization(r krylov.Reorthogonalization) Option {
	if r < krylov.None || r > krylov.Full {
		panic(panicReortho)
	}
	return func(c *Config) { c.Reorthogonalize = r }
}

// WithMaxDepth caps the Krylov depth.
func WithMaxDepth(depth int) Option {
	if depth < 1 {
		panic(panicMaxDepth)
	}
	return func(c *Config) { c.MaxDepth = depth }
}

// WithDistribution selects the probe distribution.
func WithDistribution(k probe.Kind) Option {
	if k != probe.Rademacher && k != probe.Gaussian {
		panic(panicDistribution)
	}
	return func(c *Config) { c.Distribution = k }
}

// WithTolerance enables adaptive stopping at the given standard error (0 disables).
func WithTolerance(tol float64) Option {
	if math.IsNaN(tol) || math.IsInf(tol, 0) || tol < 0 {
		panic(panicTolerance)
	}
	return func(c *Config) { c.Tolerance = tol }
}

// WithMaxProbes sets the batch size or adaptive budget.
func WithMaxProbes(n int) Option {
	if n < 1 {
		panic(panicMaxProbes)
	}
	return func(c *Config) { c.MaxProbes = n }
}

// WithSeed sets the probe seed.
func WithSeed(seed int64) Option {
	return func(c *Config) { c.Seed = seed }
}

// WithWorkers bounds per-probe parallelism.
func WithWorkers(n int) Option {
	if n < 1 {
		panic(panicWorkers)
	}
	return func(c *Config) { c.Workers = n }
}

// WithLogger routes diagnostics to l.
func WithLogger(l *slog.Logger) Option {
	return func(c *Config) { c.Logger = l }
}

// WithHutchPlusPlus selects Hutch++ for Trace.
func WithHutchPlusPlus() Option {
	return func(c *Config) { c.HutchPlusPlus = true }
}

// gatherConfig applies opts over DefaultConfig and validates the result.
func gatherConfig(opts []Option) (Config, error) {
	c := DefaultConfig()
	for _, opt := range opts {
		opt(&c)
	}

	return c, c.Validate()
}
