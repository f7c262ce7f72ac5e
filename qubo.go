package qubobench

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
)

// Matrix is an upper-triangular QUBO matrix over binary variables, plus a
// constant energy offset.
//
// Energy semantics:
//
//	E(x) = Σᵢ Q[i,i]·xᵢ + 2·Σ_{i<j} Q[i,j]·xᵢ·xⱼ + Offset
//
// Entries below the diagonal are kept at zero by the constructors and are
// never read by Energy. A Matrix is built once per problem instance and
// treated as immutable afterwards.
type Matrix struct {
	n      int
	q      *mat.Dense
	Offset float64
}

// NewMatrix returns an n×n zero QUBO matrix with zero offset.
func NewMatrix(n int) *Matrix {
	if n < 1 {
		panic(fmt.Sprintf("qubobench: matrix size must be ≥ 1, got %d", n))
	}
	return &Matrix{n: n, q: mat.NewDense(n, n, nil)}
}

// N returns the number of binary variables.
func (m *Matrix) N() int { return m.n }

// At returns Q[i,j]. Entries below the diagonal are always zero.
func (m *Matrix) At(i, j int) float64 { return m.q.At(i, j) }

// SetUpper sets Q[i,j] for i ≤ j. Setting a below-diagonal entry panics:
// such entries are outside the model.
func (m *Matrix) SetUpper(i, j int, v float64) {
	if i > j {
		panic(fmt.Sprintf("qubobench: entry (%d,%d) is below the diagonal", i, j))
	}
	m.q.Set(i, j, v)
}

// Energy computes E(x) for a length-n assignment of 0/1 values using the
// diagonal/off-diagonal decomposition. Accumulation is in float64, which
// holds profit magnitudes well beyond wei scale (10^21) without overflow.
func (m *Matrix) Energy(x []uint8) float64 {
	if len(x) != m.n {
		panic(fmt.Sprintf("qubobench: assignment length %d, matrix size %d", len(x), m.n))
	}
	e := m.Offset
	for i := 0; i < m.n; i++ {
		if x[i] == 0 {
			continue
		}
		e += m.q.At(i, i)
		for j := i + 1; j < m.n; j++ {
			if x[j] != 0 {
				e += 2 * m.q.At(i, j)
			}
		}
	}
	return e
}

// Validate recomputes the energy of an assignment with an independent
// implementation of the quadratic form: multiplication by xᵢ instead of
// branching on it. The term order matches Energy, so the two agree
// bit-exactly, and tests use the pair as a cross-check on the energy
// semantics. The duplication is intentional.
func Validate(m *Matrix, x []uint8) float64 {
	if len(x) != m.n {
		panic(fmt.Sprintf("qubobench: assignment length %d, matrix size %d", len(x), m.n))
	}
	e := m.Offset
	for i := 0; i < m.n; i++ {
		e += m.q.At(i, i) * float64(x[i])
		for j := i + 1; j < m.n; j++ {
			e += 2 * m.q.At(i, j) * float64(x[i]) * float64(x[j])
		}
	}
	return e
}

// MaxAbs returns the largest absolute coefficient on or above the diagonal.
func (m *Matrix) MaxAbs() float64 {
	maxAbs := 0.0
	for i := 0; i < m.n; i++ {
		for j := i; j < m.n; j++ {
			if a := math.Abs(m.q.At(i, j)); a > maxAbs {
				maxAbs = a
			}
		}
	}
	return maxAbs
}

// Sym returns the symmetric dense form S with S[i,j] = S[j,i] = Q[i,j],
// so that xᵀSx equals the QUBO energy without offset. This is the shape
// external backends consume.
func (m *Matrix) Sym() *mat.SymDense {
	s := mat.NewSymDense(m.n, nil)
	for i := 0; i < m.n; i++ {
		for j := i; j < m.n; j++ {
			s.SetSym(i, j, m.q.At(i, j))
		}
	}
	return s
}

// Landscape summarizes an energy distribution (typically the full 2^n
// sweep returned by SolveExhaustive). Derived, read-only data used for
// generator validation and reporting.
type Landscape struct {
	Min  float64
	Max  float64
	Mean float64
	Std  float64 // population standard deviation over the full sweep
}

// NewLandscape computes distribution statistics over a set of energies.
func NewLandscape(energies []float64) Landscape {
	if len(energies) == 0 {
		return Landscape{}
	}
	lo, hi := energies[0], energies[0]
	for _, e := range energies[1:] {
		if e < lo {
			lo = e
		}
		if e > hi {
			hi = e
		}
	}
	mean := stat.Mean(energies, nil)
	return Landscape{
		Min:  lo,
		Max:  hi,
		Mean: mean,
		Std:  math.Sqrt(stat.PopVariance(energies, nil)),
	}
}
