package qubobench

import (
	"context"
	"fmt"

	"gonum.org/v1/gonum/stat"
)

// TrialConfig controls a solver quality benchmark: which instance sizes
// and kinds to generate, how many seeded trials per cell, and the run
// parameters for each submission. Seeds are derived deterministically
// from the trial index, so two runs of the same config solve the same
// instances.
type TrialConfig struct {
	Sizes      []int
	Kinds      []Kind
	Trials     int // seeded instances per (size, kind) cell
	Runs       int
	Iterations int
}

// DefaultTrialConfig exercises the regimes that separate good backends
// from lucky ones: the easy ferromagnetic case, the hard
// antiferromagnetic case, and the knapsack structure, at sizes the
// oracle can still certify.
func DefaultTrialConfig() TrialConfig {
	return TrialConfig{
		Sizes:      []int{8, 12, 16},
		Kinds:      []Kind{Ferromagnetic, Antiferromagnetic, Knapsack},
		Trials:     5,
		Runs:       10,
		Iterations: 1000,
	}
}

// TrialResult records one instance solved by the backend and certified
// against the exhaustive optimum.
type TrialResult struct {
	N        int
	Kind     Kind
	Seed     int64
	Optimum  float64 // exhaustive ground truth
	Achieved float64 // best candidate energy after re-scoring
	Gap      float64 // Achieved − Optimum, ≥ 0
	Hit      bool    // Gap == 0
}

// Summary aggregates a trial set into the numbers a solver comparison
// reports: how often the backend found the true optimum, and how far
// off it was when it did not.
type Summary struct {
	Trials  int
	Hits    int
	HitRate float64
	MeanGap float64
	MaxGap  float64
}

// RunTrials generates instances per the config, submits each to the
// solver, and certifies every candidate set against the exhaustive
// oracle. Sizes above the oracle ceiling are a config error: without
// ground truth there is nothing to benchmark against.
//
// The first solver failure aborts the run; partial quality numbers from
// a flaky backend are worse than none.
func RunTrials(ctx context.Context, s Solver, cfg TrialConfig) ([]TrialResult, error) {
	if cfg.Trials < 1 {
		return nil, inputErrorf("trials must be ≥ 1, got %d", cfg.Trials)
	}
	for _, n := range cfg.Sizes {
		if n > MaxExhaustiveN {
			return nil, &SizeExceededError{N: n, Max: MaxExhaustiveN}
		}
	}

	var results []TrialResult
	for _, n := range cfg.Sizes {
		for _, kind := range cfg.Kinds {
			for trial := 0; trial < cfg.Trials; trial++ {
				seed := int64(n)<<32 | int64(kind)<<16 | int64(trial)
				gcfg := DefaultGenConfig(n, kind)
				gcfg.Seed = seed

				m, _, err := Generate(gcfg)
				if err != nil {
					return nil, err
				}
				truth, err := SolveExhaustive(m)
				if err != nil {
					return nil, err
				}

				sub, err := NewSubmission(m, cfg.Runs, cfg.Iterations)
				if err != nil {
					return nil, err
				}
				candidates, err := s.Solve(ctx, sub)
				if err != nil {
					return nil, fmt.Errorf("trial n=%d kind=%s seed=%d: %w", n, kind, seed, err)
				}
				_, achieved, err := BestCandidate(m, candidates)
				if err != nil {
					return nil, fmt.Errorf("trial n=%d kind=%s seed=%d: %w", n, kind, seed, err)
				}

				results = append(results, TrialResult{
					N:        n,
					Kind:     kind,
					Seed:     seed,
					Optimum:  truth.Energy,
					Achieved: achieved,
					Gap:      achieved - truth.Energy,
					Hit:      achieved == truth.Energy,
				})
			}
		}
	}
	return results, nil
}

// Summarize reduces trial results to hit rate and gap statistics.
func Summarize(results []TrialResult) Summary {
	s := Summary{Trials: len(results)}
	if s.Trials == 0 {
		return s
	}
	gaps := make([]float64, len(results))
	for i, r := range results {
		gaps[i] = r.Gap
		if r.Hit {
			s.Hits++
		}
		if r.Gap > s.MaxGap {
			s.MaxGap = r.Gap
		}
	}
	s.HitRate = float64(s.Hits) / float64(s.Trials)
	s.MeanGap = stat.Mean(gaps, nil)
	return s
}
