// Package qubobench builds, solves, and verifies QUBO encodings of the
// block-building knapsack problem.
//
// # Overview
//
// qubobench turns a 0/1 knapsack instance (maximize transaction profit
// subject to a block gas limit) into a Quadratic Unconstrained Binary
// Optimization matrix, and provides the verification toolchain around that
// encoding: an exhaustive ground-truth solver, a controlled instance
// generator for systematic benchmarking, a solution evaluator, and the
// packaging/validation layer for handing a matrix to an external
// (analog or heuristic) binary-optimization backend.
//
// # Energy Semantics
//
// A QUBO is an n×n upper-triangular real matrix Q over binary variables
// x ∈ {0,1}^n. The energy of an assignment is
//
//	E(x) = Σᵢ Q[i,i]·xᵢ + 2·Σ_{i<j} Q[i,j]·xᵢ·xⱼ + offset
//
// Minimizing E over all 2^n assignments solves the encoded problem.
// Entries below the diagonal are not part of the model; constructors keep
// them at zero.
//
// # The Knapsack Encoding
//
// For items with profits vᵢ, gas costs wᵢ, capacity W and penalty α, the
// squared-penalty expansion of α·(Σwᵢxᵢ − W)² gives
//
//	Q[i,i] = −vᵢ + α·(wᵢ² − 2·W·wᵢ)
//	Q[i,j] = α·wᵢ·wⱼ            (i < j)
//	offset = α·W²
//
// The energy convention doubles each off-diagonal, reproducing the
// 2·α·wᵢ·wⱼ cross term of the expansion, so that
// E(x) = −profit(x) + α·(gas(x) − W)² for every assignment.
// The penalty α trades constraint enforcement against profit signal; the
// default AutoPenalty formula is an empirical heuristic, not a sufficiency
// proof; see the PenaltyStrategy documentation.
//
// # Quick Start
//
// Encode an instance, solve it exhaustively, and evaluate the result:
//
//	inst, err := qubobench.LoadInstance("knapsack_instance_21200000.json")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	q, err := inst.Encode(qubobench.AutoPenalty(inst))
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	sol, err := qubobench.SolveExhaustive(q) // ground truth, n ≤ 20
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	m := qubobench.Evaluate(sol.Assignment, inst)
//	fmt.Printf("profit: %s wei, gas: %d/%d, feasible: %v\n",
//	    m.TotalProfit, m.TotalGas, inst.Capacity, m.ConstraintSatisfied)
//
// # The Oracle
//
// SolveExhaustive enumerates all 2^n assignments in counter order and is
// the validation oracle for any heuristic solver: its result is ground
// truth, and a mismatch against it is a hard failure, never a warning. It
// refuses n > 20 with a SizeExceededError rather than silently truncating.
//
// # Controlled Generation
//
// Generate produces QUBO matrices with a specified statistical structure
// (uniform, ferromagnetic, antiferromagnetic, sparse, diagonal,
// knapsack-like) for solver benchmarking. Identical GenConfig values
// reproduce bit-identical matrices, which makes solver comparisons
// repeatable across runs and machines.
//
// # The Solver Boundary
//
// External backends receive a normalized symmetric form of the matrix
// (NewSubmission), optionally after a QUBO→Ising transform (ToIsing), and
// return one or more candidate assignments. BestCandidate re-scores every
// candidate against the original un-normalized energy and keeps the
// argmin. CheckRowSums reports whether a submission satisfies a backend's
// row-sum validity bound before a remote call is spent. Failure modes
// (auth, validity, timeout, remote) are distinguishable via SolverError.
// Falling back to the greedy baseline on solver failure is a caller
// decision:
//
//	x, err := solver.Solve(ctx, sub)
//	if err != nil {
//	    x = [][]uint8{qubobench.Greedy(inst)}
//	}
//
// # Benchmarking Solvers
//
// RunTrials generates seeded instances across sizes and kinds, submits
// each to a Solver implementation, and certifies every result against
// the exhaustive oracle. Summarize reduces the trials to a hit rate and
// gap statistics, the numbers a backend comparison actually reports:
//
//	results, err := qubobench.RunTrials(ctx, backend, qubobench.DefaultTrialConfig())
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Printf("%+v\n", qubobench.Summarize(results))
//
// # Testing
//
// Use assertions to validate encoder and generator properties:
//
//	func TestMySolver(t *testing.T) {
//	    q, _, _ := qubobench.Generate(qubobench.DefaultGenConfig(10, qubobench.Uniform))
//	    x := mySolver(q)
//
//	    // Assert the solver found the exhaustive optimum
//	    qubobench.AssertGroundTruth(t, q, x)
//	}
//
// # See Also
//
//   - examples/block-builder - end-to-end instance → encode → solve → evaluate
package qubobench
