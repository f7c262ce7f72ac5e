package qubobench

import (
	"fmt"
	"math/big"
	"sort"
)

// Metrics describes what a binary assignment selects from an instance.
// Profit totals stay exact (big integers); only the convenience fields
// round to float64.
type Metrics struct {
	Selected            []int    // indices of chosen items, ascending
	NumSelected         int
	TotalProfit         *big.Int // wei, exact
	TotalGas            int64
	Utilization         float64 // TotalGas / Capacity
	ConstraintSatisfied bool    // TotalGas ≤ Capacity
	Violation           int64   // gas over capacity, 0 when satisfied
}

// Evaluate decodes an assignment against its instance. Pure function: it
// inspects, never mutates.
func Evaluate(x []uint8, inst *Instance) Metrics {
	if len(x) != len(inst.Items) {
		panic(fmt.Sprintf("qubobench: assignment length %d, instance size %d", len(x), len(inst.Items)))
	}
	m := Metrics{TotalProfit: new(big.Int)}
	for i, bit := range x {
		if bit == 0 {
			continue
		}
		m.Selected = append(m.Selected, i)
		m.TotalProfit.Add(m.TotalProfit, inst.Items[i].Profit)
		m.TotalGas += inst.Items[i].Gas
	}
	m.NumSelected = len(m.Selected)
	if inst.Capacity > 0 {
		m.Utilization = float64(m.TotalGas) / float64(inst.Capacity)
	}
	m.ConstraintSatisfied = m.TotalGas <= inst.Capacity
	if !m.ConstraintSatisfied {
		m.Violation = m.TotalGas - inst.Capacity
	}
	return m
}

// ProfitETH converts the exact wei total to ETH for reporting.
func (m Metrics) ProfitETH() float64 {
	f, _ := new(big.Float).Quo(
		new(big.Float).SetInt(m.TotalProfit),
		big.NewFloat(1e18),
	).Float64()
	return f
}

// Greedy is the classical comparison baseline: sort items by profit/gas
// ratio descending and accept while gas budget remains. Deterministic:
// the ratio comparison is exact (big-integer cross-multiplication) and
// ties keep original item order via the stable sort.
func Greedy(inst *Instance) []uint8 {
	idx := make([]int, len(inst.Items))
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(a, b int) bool {
		return denser(inst.Items[idx[a]], inst.Items[idx[b]])
	})

	x := make([]uint8, len(inst.Items))
	var used int64
	for _, i := range idx {
		if used+inst.Items[i].Gas <= inst.Capacity {
			x[i] = 1
			used += inst.Items[i].Gas
		}
	}
	return x
}
