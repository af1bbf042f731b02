// SPDX-License-Identifier: MIT

package estimate

import (
	"log/slog"
	"runtime"

	"github.com/katalvlaran/matfree/internal/logging"
	"github.com/katalvlaran/matfree/krylov"
	"github.com/katalvlaran/matfree/probe"
)

const (
	// DefaultInitialRound is the size of Adaptive's first round.
	DefaultInitialRound = 8

	// DefaultKind is the probe distribution Adaptive draws from.
	DefaultKind = probe.Rademacher
)

const (
	panicWorkers      = "estimate: WithWorkers(n) requires n >= 1"
	panicInitialRound = "estimate: WithInitialRound(n) requires n >= 2"
	panicNilStrategy  = "estimate: WithStrategy(nil)"
)

// Option configures an estimator call.
type Option func(*settings)

type settings struct {
	workers      int
	logger       *logging.Logger
	strategy     Strategy
	krylov       []krylov.Option
	kind         probe.Kind
	seed         int64
	initialRound int
}

// WithWorkers bounds the number of probes processed concurrently.
// Default: runtime.GOMAXPROCS(0).
func WithWorkers(n int) Option {
	if n < 1 {
		panic(panicWorkers)
	}
	return func(s *settings) { s.workers = n }
}

// WithLogger routes diagnostics to l. A nil logger disables logging.
func WithLogger(l *slog.Logger) Option {
	return func(s *settings) {
		if l == nil {
			s.logger = logging.Noop()
			return
		}
		s.logger = &logging.Logger{Logger: l}
	}
}

// WithStrategy selects the trace estimator. Default: Hutchinson{}.
func WithStrategy(st Strategy) Option {
	if st == nil {
		panic(panicNilStrategy)
	}
	return func(s *settings) { s.strategy = st }
}

// WithKrylovOptions forwards options to every Lanczos run of SLQ.
func WithKrylovOptions(opts ...krylov.Option) Option {
	return func(s *settings) { s.krylov = append(s.krylov, opts...) }
}

// WithDistribution selects the distribution Adaptive samples from.
func WithDistribution(k probe.Kind) Option {
	return func(s *settings) { s.kind = k }
}

// WithSeed sets the seed of Adaptive's probe stream (0 means probe.DefaultSeed).
func WithSeed(seed int64) Option {
	return func(s *settings) { s.seed = seed }
}

// WithInitialRound sets the size of Adaptive's first round.
func WithInitialRound(n int) Option {
	if n < 2 {
		panic(panicInitialRound)
	}
	return func(s *settings) { s.initialRound = n }
}

func gatherSettings(opts []Option) *settings {
	s := &settings{
		workers:      runtime.GOMAXPROCS(0),
		logger:       logging.Noop(),
		strategy:     Hutchinson{},
		kind:         DefaultKind,
		initialRound: DefaultInitialRound,
	}
	for _, opt := range opts {
		opt(s)
	}

	return s
}
