package qubobench

import (
	"context"
	"math"

	"github.com/google/uuid"
	"gonum.org/v1/gonum/mat"
)

// Submission is a QUBO packaged for an external binary-optimization
// backend: the symmetric matrix normalized by its maximum absolute
// coefficient, plus the run parameters the backend expects. Only the
// arg-min assignment is consumed downstream, so the Scale factor exists
// for reporting, not for un-normalizing energies.
type Submission struct {
	ID         uuid.UUID
	Matrix     *mat.SymDense // normalized, entries in [-1, 1]
	Scale      float64       // max |coefficient| divided out
	Runs       int           // candidate assignments requested
	Iterations int           // backend iterations per run
}

// NewSubmission normalizes and symmetrizes a matrix for submission.
// An all-zero or NaN-contaminated matrix cannot be normalized and fails
// with a NumericDegeneracyError instead of dividing by zero.
func NewSubmission(m *Matrix, runs, iterations int) (*Submission, error) {
	if runs < 1 || iterations < 1 {
		return nil, inputErrorf("runs and iterations must be ≥ 1, got %d/%d", runs, iterations)
	}
	scale := m.MaxAbs()
	if scale == 0 || math.IsNaN(scale) {
		return nil, &NumericDegeneracyError{MaxAbs: scale}
	}
	n := m.N()
	s := mat.NewSymDense(n, nil)
	for i := 0; i < n; i++ {
		for j := i; j < n; j++ {
			s.SetSym(i, j, m.At(i, j)/scale)
		}
	}
	return &Submission{
		ID:         uuid.New(),
		Matrix:     s,
		Scale:      scale,
		Runs:       runs,
		Iterations: iterations,
	}, nil
}

// Ising is the ±1-variable form of a QUBO, produced for backends that
// speak spin variables: E(s) = Σᵢ hᵢ·sᵢ + Σ_{i<j} J[i,j]·sᵢ·sⱼ + Offset,
// with s = 2x − 1.
type Ising struct {
	H      []float64
	J      *mat.SymDense // zero diagonal
	Offset float64
}

// ToIsing converts a QUBO to its exact Ising equivalent. For every
// assignment x and its spin image s = 2x − 1, the two energies agree:
// m.Energy(x) == ising.Energy(s).
func ToIsing(m *Matrix) *Ising {
	n := m.N()
	is := &Ising{
		H:      make([]float64, n),
		J:      mat.NewSymDense(n, nil),
		Offset: m.Offset,
	}
	// Substituting xᵢ = (1+sᵢ)/2:
	//   Q[i,i]·xᵢ        → Q[i,i]/2 · sᵢ        + Q[i,i]/2
	//   2·Q[i,j]·xᵢ·xⱼ   → Q[i,j]/2 · sᵢsⱼ      + Q[i,j]/2 · (sᵢ+sⱼ) + Q[i,j]/2
	for i := 0; i < n; i++ {
		is.H[i] += m.At(i, i) / 2
		is.Offset += m.At(i, i) / 2
		for j := i + 1; j < n; j++ {
			q := m.At(i, j)
			is.J.SetSym(i, j, q/2)
			is.H[i] += q / 2
			is.H[j] += q / 2
			is.Offset += q / 2
		}
	}
	return is
}

// Energy evaluates the Ising form for a spin vector of ±1 values.
func (is *Ising) Energy(s []int8) float64 {
	n := len(is.H)
	e := is.Offset
	for i := 0; i < n; i++ {
		e += is.H[i] * float64(s[i])
		for j := i + 1; j < n; j++ {
			e += is.J.At(i, j) * float64(s[i]) * float64(s[j])
		}
	}
	return e
}

// RowSumReport is the result of a pre-submission validity check. Some
// backends reject coupling matrices whose absolute row sums reach a bound
// (the emulator uses 1); checking locally avoids spending a remote call
// on a submission that cannot be accepted.
type RowSumReport struct {
	OK        bool
	MaxRowSum float64
	Bound     float64
}

// CheckRowSums reports whether every absolute row sum of the symmetric
// matrix stays strictly below the bound, and the maximum observed sum so
// that callers can re-parameterize instead of guessing.
func CheckRowSums(s *mat.SymDense, bound float64) RowSumReport {
	n, _ := s.Dims()
	maxSum := 0.0
	for i := 0; i < n; i++ {
		sum := 0.0
		for j := 0; j < n; j++ {
			sum += math.Abs(s.At(i, j))
		}
		if sum > maxSum {
			maxSum = sum
		}
	}
	return RowSumReport{OK: maxSum < bound, MaxRowSum: maxSum, Bound: bound}
}

// Solver is the boundary to an opaque external backend. Implementations
// perform long-latency network calls: they must honor ctx for timeout and
// cancellation, and each call is an independent at-most-once request:
// the remote service gives no idempotency guarantee, and duplicate
// submissions produce independent stochastic results. Failures surface as
// *SolverError; the core never retries on the caller's behalf.
type Solver interface {
	Solve(ctx context.Context, sub *Submission) ([][]uint8, error)
}

// BestCandidate re-scores every candidate assignment against the original
// un-normalized energy function and returns the lowest-energy one. The
// backend's own energies are not trusted: it solved a normalized (and
// possibly transformed) matrix. First candidate wins on an exact tie.
func BestCandidate(m *Matrix, candidates [][]uint8) ([]uint8, float64, error) {
	if len(candidates) == 0 {
		return nil, 0, inputErrorf("no candidate assignments to score")
	}
	best := candidates[0]
	bestE := m.Energy(best)
	for _, c := range candidates[1:] {
		if e := m.Energy(c); e < bestE {
			best, bestE = c, e
		}
	}
	return best, bestE, nil
}
