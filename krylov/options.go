package krylov

import (
	"fmt"
	"math"
	"strings"
)

// Reorthogonalization selects how hard the engine works to keep the basis
// orthonormal. See the package documentation for the cost/accuracy tradeoff.
type Reorthogonalization int

const (
	// None uses the plain recurrence.
	None Reorthogonalization = iota
	// Selective reorthogonalizes only when a loss of orthogonality is detected.
	Selective
	// Full always reorthogonalizes against the whole basis, twice.
	Full
)

// String returns the configuration name of r.
func (r Reorthogonalization) String() string {
	switch r {
	case None:
		return "none"
	case Selective:
		return "selective"
	case Full:
		return "full"
	default:
		return fmt.Sprintf("Reorthogonalization(%d)", int(r))
	}
}

// ParseReorthogonalization maps "none", "selective" or "full" to a policy.
func ParseReorthogonalization(s string) (Reorthogonalization, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "none":
		return None, nil
	case "selective":
		return Selective, nil
	case "full":
		return Full, nil
	default:
		return 0, fmt.Errorf("ParseReorthogonalization(%q): unknown policy", s)
	}
}

// MarshalText implements encoding.TextMarshaler.
func (r Reorthogonalization) MarshalText() ([]byte, error) {
	if r < None || r > Full {
		return nil, fmt.Errorf("MarshalText: unknown policy %d", int(r))
	}
	return []byte(r.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (r *Reorthogonalization) UnmarshalText(b []byte) error {
	v, err := ParseReorthogonalization(string(b))
	if err != nil {
		return err
	}
	*r = v
	return nil
}

// Defaults (single source of truth).
const (
	// DefaultReorthogonalization keeps the basis orthonormal at working precision.
	DefaultReorthogonalization = Full

	// DefaultBreakdownTolerance is relative to the running estimate of ‖A‖.
	DefaultBreakdownTolerance = 1e-10
)

const (
	panicPolicyInvalid    = "krylov: WithReorthogonalization: unknown policy"
	panicToleranceInvalid = "krylov: WithBreakdownTolerance: tol must be finite and > 0"
)

// Option configures a decomposition.
type Option func(*settings)

type settings struct {
	reortho Reorthogonalization
	tol     float64
}

// WithReorthogonalization sets the reorthogonalization policy.
func WithReorthogonalization(r Reorthogonalization) Option {
	if r < None || r > Full {
		panic(panicPolicyInvalid)
	}

	return func(s *settings) { s.reortho = r }
}

// WithBreakdownTolerance sets the relative residual threshold below which the
// recurrence declares breakdown.
func WithBreakdownTolerance(tol float64) Option {
	if math.IsNaN(tol) || math.IsInf(tol, 0) || tol <= 0 {
		panic(panicToleranceInvalid)
	}

	return func(s *settings) { s.tol = tol }
}

func gatherSettings(opts []Option) settings {
	s := settings{reortho: DefaultReorthogonalization, tol: DefaultBreakdownTolerance}
	for _, opt := range opts {
		if opt != nil {
			opt(&s)
		}
	}

	return s
}
