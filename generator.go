package qubobench

import (
	"math"
	"math/rand"
)

// Kind selects the statistical structure of a generated QUBO. The set is
// closed: invalid kinds are unrepresentable rather than rejected at run
// time by string comparison.
type Kind int

const (
	// Uniform draws every upper-triangular entry from [-variance, variance].
	Uniform Kind = iota
	// Ferromagnetic draws from [-variance, 0]: all couplings attractive,
	// the easy regime (prefers all ones).
	Ferromagnetic
	// Antiferromagnetic draws from [0, variance]: all couplings repulsive,
	// the hard regime (prefers all zeros).
	Antiferromagnetic
	// Sparse is Uniform with only a density fraction of positions non-zero.
	Sparse
	// Diagonal populates only the diagonal; variables do not interact.
	Diagonal
	// Knapsack mimics the encoder's structure: strictly negative diagonal
	// (profits) and non-negative off-diagonal (constraint coupling).
	// Sparsification never removes diagonal entries.
	Knapsack
)

func (k Kind) String() string {
	switch k {
	case Uniform:
		return "uniform"
	case Ferromagnetic:
		return "ferromagnetic"
	case Antiferromagnetic:
		return "antiferromagnetic"
	case Sparse:
		return "sparse"
	case Diagonal:
		return "diagonal"
	case Knapsack:
		return "knapsack"
	}
	return "unknown"
}

// GenConfig controls generation. Identical configs reproduce bit-identical
// matrices: the determinism that makes solver comparisons repeatable.
type GenConfig struct {
	N        int
	Kind     Kind
	Density  float64 // fraction of upper-triangular positions non-zero, (0,1]
	Variance float64 // coefficient range multiplier
	Seed     int64
}

// DefaultGenConfig returns a dense, unit-variance config for the kind.
func DefaultGenConfig(n int, kind Kind) GenConfig {
	return GenConfig{N: n, Kind: kind, Density: 1.0, Variance: 1.0}
}

// GenMeta describes a generated matrix: the invariants a test suite
// checks per kind, and the coefficient statistics that predict how hard
// the instance is for an analog backend.
type GenMeta struct {
	N                int
	Kind             Kind
	RequestedDensity float64
	ActualDensity    float64 // non-zero fraction of the upper triangle
	Variance         float64
	Seed             int64
	MinCoeff         float64
	MaxCoeff         float64
	DynamicRange     float64 // max |coeff| / min non-zero |coeff|
	NonZero          int
}

// Generate produces a QUBO matrix with the requested statistical
// structure, plus metadata about what was actually generated.
func Generate(cfg GenConfig) (*Matrix, GenMeta, error) {
	if cfg.N < 1 {
		return nil, GenMeta{}, inputErrorf("generator size must be ≥ 1, got %d", cfg.N)
	}
	if cfg.Density <= 0 || cfg.Density > 1 {
		return nil, GenMeta{}, inputErrorf("density must be in (0,1], got %v", cfg.Density)
	}
	if cfg.Variance <= 0 {
		return nil, GenMeta{}, inputErrorf("variance must be positive, got %v", cfg.Variance)
	}

	rng := rand.New(rand.NewSource(cfg.Seed))
	m := NewMatrix(cfg.N)

	// Row-major over the upper triangle; one fixed draw order per kind so
	// that a seed pins the whole matrix.
	for i := 0; i < cfg.N; i++ {
		for j := i; j < cfg.N; j++ {
			var v float64
			switch cfg.Kind {
			case Uniform, Sparse:
				v = -cfg.Variance + 2*cfg.Variance*rng.Float64()
			case Ferromagnetic:
				v = -cfg.Variance * rng.Float64()
			case Antiferromagnetic:
				v = cfg.Variance * rng.Float64()
			case Diagonal:
				if i == j {
					v = -cfg.Variance + 2*cfg.Variance*rng.Float64()
				}
			case Knapsack:
				if i == j {
					// Strictly negative: profits to maximize.
					v = -(0.1*cfg.Variance + 0.9*cfg.Variance*rng.Float64())
				} else {
					// Non-negative: constraint coupling.
					v = 0.5 * cfg.Variance * rng.Float64()
				}
			default:
				return nil, GenMeta{}, inputErrorf("unknown generator kind %d", int(cfg.Kind))
			}
			if cfg.Density < 1 && cfg.Kind != Diagonal {
				keepAlways := cfg.Kind == Knapsack && i == j
				if !keepAlways && rng.Float64() >= cfg.Density {
					v = 0
				}
			}
			m.SetUpper(i, j, v)
		}
	}

	return m, describe(m, cfg), nil
}

// describe computes the generation metadata for a finished matrix.
func describe(m *Matrix, cfg GenConfig) GenMeta {
	meta := GenMeta{
		N:                cfg.N,
		Kind:             cfg.Kind,
		RequestedDensity: cfg.Density,
		Variance:         cfg.Variance,
		Seed:             cfg.Seed,
		MinCoeff:         math.Inf(1),
		MaxCoeff:         math.Inf(-1),
	}
	minNonzeroAbs := math.Inf(1)
	maxAbs := 0.0
	for i := 0; i < cfg.N; i++ {
		for j := i; j < cfg.N; j++ {
			v := m.At(i, j)
			if v < meta.MinCoeff {
				meta.MinCoeff = v
			}
			if v > meta.MaxCoeff {
				meta.MaxCoeff = v
			}
			if v != 0 {
				meta.NonZero++
				a := math.Abs(v)
				if a < minNonzeroAbs {
					minNonzeroAbs = a
				}
				if a > maxAbs {
					maxAbs = a
				}
			}
		}
	}
	upper := cfg.N * (cfg.N + 1) / 2
	meta.ActualDensity = float64(meta.NonZero) / float64(upper)
	if meta.NonZero > 0 {
		meta.DynamicRange = maxAbs / minNonzeroAbs
	}
	return meta
}
