package qubobench

// MaxExhaustiveN is the enumeration ceiling for SolveExhaustive:
// 2^20 = 1,048,576 assignments is the practical limit for a full sweep.
const MaxExhaustiveN = 20

// Solution is the result of an exhaustive solve: the optimal assignment,
// its energy, and the full energy distribution over all 2^n assignments.
// The distribution is what makes the oracle useful beyond the optimum:
// landscape statistics, gap analysis, and solver-quality percentiles all
// read from it.
type Solution struct {
	Assignment []uint8
	Energy     float64
	Energies   []float64
}

// SolveExhaustive enumerates every binary assignment of the matrix in
// increasing counter order (bit i of the counter is variable i) and
// returns the minimum-energy assignment as ground truth.
//
// Tie-break is deterministic: the first assignment reaching the minimum
// wins, i.e. the one with the lowest integer representation.
//
// Returns a SizeExceededError for n > MaxExhaustiveN rather than silently
// truncating the search.
func SolveExhaustive(m *Matrix) (*Solution, error) {
	n := m.N()
	if n > MaxExhaustiveN {
		return nil, &SizeExceededError{N: n, Max: MaxExhaustiveN}
	}

	total := 1 << uint(n)
	sol := &Solution{
		Assignment: make([]uint8, n),
		Energies:   make([]float64, 0, total),
	}
	x := make([]uint8, n)
	best := 0

	for c := 0; c < total; c++ {
		for i := 0; i < n; i++ {
			x[i] = uint8((c >> uint(i)) & 1)
		}
		e := m.Energy(x)
		sol.Energies = append(sol.Energies, e)
		if c == 0 || e < sol.Energy {
			sol.Energy = e
			best = c
		}
	}

	for i := 0; i < n; i++ {
		sol.Assignment[i] = uint8((best >> uint(i)) & 1)
	}
	return sol, nil
}
