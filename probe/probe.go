// SPDX-License-Identifier: MIT

package probe

import (
	"errors"
	"fmt"
	"math/rand"
	"strings"
)

var (
	// ErrUnknownKind is returned for an unsupported distribution.
	ErrUnknownKind = errors.New("probe: unknown distribution")

	// ErrBadCount is returned when count < 1 or offset < 0.
	ErrBadCount = errors.New("probe: count must be > 0 and offset >= 0")

	// ErrBadDim is returned when the vector dimension is < 1.
	ErrBadDim = errors.New("probe: dimension must be > 0")
)

// Kind selects a probe distribution.
type Kind int

const (
	// Rademacher draws entries ±1 with equal probability.
	Rademacher Kind = iota
	// Gaussian draws standard normal entries.
	Gaussian
)

// String returns the configuration name of k.
func (k Kind) String() string {
	switch k {
	case Rademacher:
		return "rademacher"
	case Gaussian:
		return "gaussian"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// ParseKind maps a configuration name (case-insensitive) to a Kind.
func ParseKind(s string) (Kind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "rademacher":
		return Rademacher, nil
	case "gaussian", "normal":
		return Gaussian, nil
	default:
		return 0, fmt.Errorf("ParseKind(%q): %w", s, ErrUnknownKind)
	}
}

// MarshalText implements encoding.TextMarshaler.
func (k Kind) MarshalText() ([]byte, error) {
	if k != Rademacher && k != Gaussian {
		return nil, fmt.Errorf("MarshalText: %w", ErrUnknownKind)
	}
	return []byte(k.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (k *Kind) UnmarshalText(b []byte) error {
	v, err := ParseKind(string(b))
	if err != nil {
		return err
	}
	*k = v
	return nil
}

// fill writes one probe drawn from rng into v.
func (k Kind) fill(v []float64, rng *rand.Rand) {
	var i int
	switch k {
	case Rademacher:
		for i = range v {
			// One bit per entry: Int63 low bit is uniform.
			if rng.Int63()&1 == 0 {
				v[i] = 1
			} else {
				v[i] = -1
			}
		}
	case Gaussian:
		for i = range v {
			v[i] = rng.NormFloat64()
		}
	}
}

// Batch is an ordered set of probe vectors.
type Batch struct {
	Kind   Kind
	Seed   int64 // seed as supplied by the caller (0 means DefaultSeed)
	Offset int   // stream index of Vectors[0]
	Dim    int
	// Vectors holds len == count probes of length Dim. Estimators never
	// modify them.
	Vectors [][]float64
}

// Len returns the number of probes.
func (b *Batch) Len() int { return len(b.Vectors) }

// Sample draws count probes of length dim from kind under seed.
// Identical arguments always return identical vectors.
//
// Errors: ErrUnknownKind, ErrBadCount, ErrBadDim.
// Complexity: O(count·dim).
func Sample(kind Kind, count, dim int, seed int64) (*Batch, error) {
	return SampleFrom(kind, 0, count, dim, seed)
}

// SampleFrom draws probes offset..offset+count-1 of the stream family of seed.
// Sample(k, a+b, d, s) equals SampleFrom(k, 0, a, d, s) followed by
// SampleFrom(k, a, b, d, s).
func SampleFrom(kind Kind, offset, count, dim int, seed int64) (*Batch, error) {
	// Stage 1 (Validate)
	if kind != Rademacher && kind != Gaussian {
		return nil, fmt.Errorf("Sample: %v: %w", kind, ErrUnknownKind)
	}
	if count < 1 || offset < 0 {
		return nil, fmt.Errorf("Sample: count=%d offset=%d: %w", count, offset, ErrBadCount)
	}
	if dim < 1 {
		return nil, fmt.Errorf("Sample: dim=%d: %w", dim, ErrBadDim)
	}

	// Stage 2 (Execute): one contiguous buffer, one stream per probe.
	var (
		buf = make([]float64, count*dim)
		vs  = make([][]float64, count)
		i   int
	)
	for i = 0; i < count; i++ {
		vs[i] = buf[i*dim : (i+1)*dim : (i+1)*dim]
		kind.fill(vs[i], streamRNG(seed, offset+i))
	}

	return &Batch{Kind: kind, Seed: seed, Offset: offset, Dim: dim, Vectors: vs}, nil
}

// Split returns the sub-batch [from, to) sharing storage with b.
func (b *Batch) Split(from, to int) *Batch {
	return &Batch{
		Kind:    b.Kind,
		Seed:    b.Seed,
		Offset:  b.Offset + from,
		Dim:     b.Dim,
		Vectors: b.Vectors[from:to],
	}
}
