package qubobench

import (
	"math"
	"testing"
)

// AssertUpperTriangular verifies every entry below the diagonal is
// exactly zero. Below-diagonal values are outside the energy model, so a
// non-zero one means a constructor or transform leaked state.
func AssertUpperTriangular(t *testing.T, m *Matrix) {
	t.Helper()

	for i := 0; i < m.N(); i++ {
		for j := 0; j < i; j++ {
			if v := m.At(i, j); v != 0 {
				t.Errorf("Below-diagonal entry (%d,%d) = %v, want exactly 0", i, j, v)
			}
		}
	}

	t.Logf("✓ Upper triangular: all below-diagonal entries zero (n=%d)", m.N())
}

// AssertEnergyConsistent verifies Energy and the independent Validate
// implementation agree over every assignment of a small matrix (n ≤ 12).
//
// Mathematical property:
//
//	∀x ∈ {0,1}^n: Energy(x) == Validate(x)
func AssertEnergyConsistent(t *testing.T, m *Matrix) {
	t.Helper()

	n := m.N()
	if n > 12 {
		t.Fatalf("AssertEnergyConsistent enumerates 2^n assignments; n=%d is too large (max 12)", n)
	}

	x := make([]uint8, n)
	for c := 0; c < 1<<uint(n); c++ {
		for i := 0; i < n; i++ {
			x[i] = uint8((c >> uint(i)) & 1)
		}
		e1, e2 := m.Energy(x), Validate(m, x)
		if e1 != e2 {
			t.Errorf("Energy disagreement at assignment %b: Energy=%v Validate=%v", c, e1, e2)
		}
	}

	t.Logf("✓ Energy consistent: both implementations agree over all %d assignments", 1<<uint(n))
}

// AssertGroundTruth verifies an assignment reaches the exhaustive
// optimum. Oracle results are ground truth: a mismatch is a hard failure,
// never a warning.
func AssertGroundTruth(t *testing.T, m *Matrix, x []uint8) {
	t.Helper()

	sol, err := SolveExhaustive(m)
	if err != nil {
		t.Fatalf("Exhaustive solve failed: %v", err)
	}

	if got := m.Energy(x); got != sol.Energy {
		t.Errorf("Assignment is not ground truth: energy %v, optimum %v (Δ=%v)",
			got, sol.Energy, got-sol.Energy)
		return
	}

	t.Logf("✓ Ground truth: energy %v matches exhaustive optimum", sol.Energy)
}

// AssertKindInvariant verifies the structural invariant of a generated
// matrix for its kind: sign constraints for (anti)ferromagnetic, exact
// off-diagonal zeros for diagonal, sign split for knapsack.
func AssertKindInvariant(t *testing.T, m *Matrix, kind Kind) {
	t.Helper()

	const tol = 1e-10
	for i := 0; i < m.N(); i++ {
		for j := i; j < m.N(); j++ {
			v := m.At(i, j)
			switch kind {
			case Ferromagnetic:
				if v > 0 {
					t.Errorf("Ferromagnetic entry (%d,%d) = %v > 0", i, j, v)
				}
			case Antiferromagnetic:
				if v < 0 {
					t.Errorf("Antiferromagnetic entry (%d,%d) = %v < 0", i, j, v)
				}
			case Diagonal:
				if i != j && math.Abs(v) > tol {
					t.Errorf("Diagonal-kind off-diagonal entry (%d,%d) = %v, want 0", i, j, v)
				}
			case Knapsack:
				if i == j && v >= 0 {
					t.Errorf("Knapsack diagonal entry (%d,%d) = %v, want strictly negative", i, j, v)
				}
				if i != j && v < 0 {
					t.Errorf("Knapsack off-diagonal entry (%d,%d) = %v < 0", i, j, v)
				}
			}
		}
	}

	t.Logf("✓ Kind invariant holds: %s (n=%d)", kind, m.N())
}

// AssertDeterministic verifies the generator reproduces a bit-identical
// matrix for identical configuration: the reproducibility law that makes
// cross-solver benchmarks comparable.
func AssertDeterministic(t *testing.T, cfg GenConfig) {
	t.Helper()

	a, metaA, err := Generate(cfg)
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	b, metaB, err := Generate(cfg)
	if err != nil {
		t.Fatalf("Generate failed on second call: %v", err)
	}

	for i := 0; i < cfg.N; i++ {
		for j := i; j < cfg.N; j++ {
			if a.At(i, j) != b.At(i, j) {
				t.Errorf("Non-deterministic entry (%d,%d): %v vs %v (seed %d)",
					i, j, a.At(i, j), b.At(i, j), cfg.Seed)
			}
		}
	}
	if metaA != metaB {
		t.Errorf("Metadata differs between identical runs:\n  %+v\n  %+v", metaA, metaB)
	}

	t.Logf("✓ Deterministic: seed %d reproduces bit-identical %s matrix (n=%d)",
		cfg.Seed, cfg.Kind, cfg.N)
}
