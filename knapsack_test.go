package qubobench

import (
	"errors"
	"math"
	"math/big"
	"strings"
	"testing"
)

// fourItems is the worked example carried through the toolchain:
// values 10/13/18/32, gas 11/15/20/35, capacity 47.
func fourItems() *Instance {
	return &Instance{
		Block:    21_200_000,
		Capacity: 47,
		Items: []Item{
			{ID: "a", Profit: big.NewInt(10), Gas: 11},
			{ID: "b", Profit: big.NewInt(13), Gas: 15},
			{ID: "c", Profit: big.NewInt(18), Gas: 20},
			{ID: "d", Profit: big.NewInt(32), Gas: 35},
		},
	}
}

// TestEncodeFourItems pins every coefficient of the worked example at
// penalty 5: diagonal -vᵢ + 5·(wᵢ² − 2·47·wᵢ), off-diagonal 5·wᵢ·wⱼ,
// offset 5·47². All values are small integers, so equality is exact.
func TestEncodeFourItems(t *testing.T) {
	inst := fourItems()
	q, err := inst.Encode(5.0)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}

	wantDiag := []float64{-4575, -5938, -7418, -10357}
	for i, want := range wantDiag {
		if got := q.At(i, i); got != want {
			t.Errorf("Q[%d,%d] = %v, want %v", i, i, got, want)
		}
		if q.At(i, i) >= 0 {
			t.Errorf("Q[%d,%d] = %v, want negative (value-dominated diagonal)", i, i, q.At(i, i))
		}
	}

	wantOff := map[[2]int]float64{
		{0, 1}: 825, {0, 2}: 1100, {0, 3}: 1925,
		{1, 2}: 1500, {1, 3}: 2625, {2, 3}: 3500,
	}
	for ij, want := range wantOff {
		got := q.At(ij[0], ij[1])
		if got != want {
			t.Errorf("Q[%d,%d] = %v, want %v", ij[0], ij[1], got, want)
		}
		if got <= 0 {
			t.Errorf("Q[%d,%d] = %v, want strictly positive coupling", ij[0], ij[1], got)
		}
	}

	if q.Offset != 11045 {
		t.Errorf("offset = %v, want 5·47² = 11045", q.Offset)
	}
	AssertUpperTriangular(t, q)
}

// TestEncodeGroundTruth brute-forces the worked example. The selection
// {0,3} (profit 42, gas 46) strictly dominates the often-quoted {0,1,2}
// (profit 41, gas 46): both carry the same slack penalty, so the extra
// wei of profit decides. The oracle is the arbiter here.
func TestEncodeGroundTruth(t *testing.T) {
	inst := fourItems()
	q, err := inst.Encode(5.0)
	if err != nil {
		t.Fatal(err)
	}

	sol, err := SolveExhaustive(q)
	if err != nil {
		t.Fatal(err)
	}

	want := []uint8{1, 0, 0, 1}
	for i, b := range want {
		if sol.Assignment[i] != b {
			t.Fatalf("optimal assignment = %v, want %v (energy %v)", sol.Assignment, want, sol.Energy)
		}
	}
	// E = -42 + 5·(46-47)² = -37, offset included.
	if sol.Energy != -37 {
		t.Errorf("optimal energy = %v, want -37", sol.Energy)
	}
	// The runner-up feasible selection {0,1,2} sits exactly one profit
	// unit higher.
	if e := q.Energy([]uint8{1, 1, 1, 0}); e != -36 {
		t.Errorf("energy({0,1,2}) = %v, want -36", e)
	}

	m := Evaluate(sol.Assignment, inst)
	if m.TotalProfit.Cmp(big.NewInt(42)) != 0 || m.TotalGas != 46 || !m.ConstraintSatisfied {
		t.Errorf("metrics = %+v, want profit 42, gas 46, feasible", m)
	}

	t.Logf("✓ Oracle recovers {0,3}: profit %s, gas %d/%d", m.TotalProfit, m.TotalGas, inst.Capacity)
}

// TestEncodeFeasibilityProperty verifies that with penalty at least
// max(profit)/min(gas), the true optimum beats every other assignment,
// feasible or not, by direct enumeration of all 2⁴.
func TestEncodeFeasibilityProperty(t *testing.T) {
	inst := fourItems()
	penalty := 3.0 // ≥ 32/11
	q, err := inst.Encode(penalty)
	if err != nil {
		t.Fatal(err)
	}

	sol, err := SolveExhaustive(q)
	if err != nil {
		t.Fatal(err)
	}

	opt := Evaluate(sol.Assignment, inst)
	if !opt.ConstraintSatisfied {
		t.Fatalf("optimum violates the constraint: %+v", opt)
	}

	x := make([]uint8, 4)
	minima := 0
	for c := 0; c < 16; c++ {
		for i := range x {
			x[i] = uint8((c >> uint(i)) & 1)
		}
		e := q.Energy(x)
		if e < sol.Energy {
			t.Errorf("assignment %v undercuts the optimum: %v < %v", x, e, sol.Energy)
		}
		if e == sol.Energy {
			minima++
		}
	}
	if minima != 1 {
		t.Errorf("optimum not unique: %d assignments at energy %v", minima, sol.Energy)
	}

	t.Logf("✓ Feasible optimum is the unique arg-min at penalty %.1f", penalty)
}

// TestEncodeZeroProfitZeroGas: with nothing to optimize, every
// assignment ties at the offset and the tie-break picks the empty
// selection, whose energy is the offset exactly.
func TestEncodeZeroProfitZeroGas(t *testing.T) {
	inst := &Instance{
		Capacity: 47,
		Items: []Item{
			{Profit: new(big.Int), Gas: 0},
			{Profit: new(big.Int), Gas: 0},
			{Profit: new(big.Int), Gas: 0},
		},
	}
	q, err := inst.Encode(2.0)
	if err != nil {
		t.Fatal(err)
	}

	sol, err := SolveExhaustive(q)
	if err != nil {
		t.Fatal(err)
	}
	for i, b := range sol.Assignment {
		if b != 0 {
			t.Errorf("variable %d selected in degenerate instance", i)
		}
	}
	if sol.Energy != q.Offset {
		t.Errorf("energy = %v, want offset %v exactly", sol.Energy, q.Offset)
	}
}

// TestEncodeZeroProfitFillsCapacity documents a property of the squared
// penalty: with zero profits and positive gas, the arg-min is the subset
// whose gas lands closest to capacity, not the empty set. The penalty
// charges slack as well as violation.
func TestEncodeZeroProfitFillsCapacity(t *testing.T) {
	inst := fourItems()
	for i := range inst.Items {
		inst.Items[i].Profit = new(big.Int)
	}
	q, err := inst.Encode(1.0)
	if err != nil {
		t.Fatal(err)
	}

	sol, err := SolveExhaustive(q)
	if err != nil {
		t.Fatal(err)
	}

	// Closest achievable gas total is 46 (|46-47| = 1). Two subsets
	// reach it; {0,1,2} enumerates first and wins the tie.
	want := []uint8{1, 1, 1, 0}
	for i, b := range want {
		if sol.Assignment[i] != b {
			t.Fatalf("assignment = %v, want %v (first subset at gas 46)", sol.Assignment, want)
		}
	}
	if sol.Energy != 1.0 { // 1·(46-47)²
		t.Errorf("energy = %v, want 1", sol.Energy)
	}

	t.Logf("✓ Zero-profit arg-min fills toward capacity (gas 46/47), deterministic tie-break")
}

// TestEncodeInputErrors verifies the fail-fast precondition checks.
func TestEncodeInputErrors(t *testing.T) {
	var ie *InputError

	empty := &Instance{Capacity: 10}
	if _, err := empty.Encode(1); !errors.As(err, &ie) {
		t.Errorf("empty instance: got %v, want InputError", err)
	}

	badCap := fourItems()
	badCap.Capacity = 0
	if _, err := badCap.Encode(1); !errors.As(err, &ie) {
		t.Errorf("zero capacity: got %v, want InputError", err)
	}

	badGas := fourItems()
	badGas.Items[2].Gas = -5
	if _, err := badGas.Encode(1); !errors.As(err, &ie) {
		t.Errorf("negative gas: got %v, want InputError", err)
	}

	badProfit := fourItems()
	badProfit.Items[0].Profit = big.NewInt(-1)
	if _, err := badProfit.Encode(1); !errors.As(err, &ie) {
		t.Errorf("negative profit: got %v, want InputError", err)
	}

	for _, p := range []float64{0, -2, math.NaN(), math.Inf(1)} {
		if _, err := fourItems().Encode(p); !errors.As(err, &ie) {
			t.Errorf("penalty %v: got %v, want InputError", p, err)
		}
	}
}

// TestAutoPenalty pins the default heuristic: 2·max(profit)/max(gas).
func TestAutoPenalty(t *testing.T) {
	inst := &Instance{
		Capacity: 100,
		Items: []Item{
			{Profit: big.NewInt(1000), Gas: 50},
			{Profit: big.NewInt(400), Gas: 25},
		},
	}
	if got := AutoPenalty(inst); got != 40 {
		t.Errorf("AutoPenalty = %v, want 2·1000/50 = 40", got)
	}

	// Wei-scale profits stay finite.
	wei := &Instance{
		Capacity: BlockGasLimit,
		Items:    []Item{{Profit: weiProfit(t, "0x8ac7230489e80000"), Gas: 21000}}, // 10 ETH
	}
	p := AutoPenalty(wei)
	if math.IsInf(p, 0) || math.IsNaN(p) || p <= 0 {
		t.Errorf("AutoPenalty at wei scale = %v", p)
	}
}

func weiProfit(t *testing.T, hex string) *big.Int {
	t.Helper()
	p, ok := new(big.Int).SetString(strings.TrimPrefix(hex, "0x"), 16)
	if !ok {
		t.Fatalf("bad hex literal %q", hex)
	}
	return p
}

// TestDecodeInstance parses the instance record format: profits as JSON
// numbers, decimal strings, or 0x-hex strings; gas_limit defaulting to
// the block gas limit.
func TestDecodeInstance(t *testing.T) {
	src := `{
		"block_number": 21200000,
		"items": [
			{"id": "tx0", "profit": "0x2386f26fc10000", "gas": 21000},
			{"id": "tx1", "profit": 1500000, "gas": 90000},
			{"id": "tx2", "profit": "7250000", "gas": 52000}
		]
	}`
	inst, err := DecodeInstance(strings.NewReader(src))
	if err != nil {
		t.Fatalf("DecodeInstance: %v", err)
	}

	if inst.Block != 21200000 {
		t.Errorf("Block = %d", inst.Block)
	}
	if inst.Capacity != BlockGasLimit {
		t.Errorf("Capacity = %d, want default %d", inst.Capacity, BlockGasLimit)
	}
	wantProfits := []string{"10000000000000000", "1500000", "7250000"}
	for i, want := range wantProfits {
		if inst.Items[i].Profit.String() != want {
			t.Errorf("item %d profit = %s, want %s", i, inst.Items[i].Profit, want)
		}
	}
	if inst.Items[0].Gas != 21000 || inst.Items[0].ID != "tx0" {
		t.Errorf("item 0 = %+v", inst.Items[0])
	}

	// Explicit gas_limit wins over the default.
	withLimit := `{"block_number": 1, "gas_limit": 15000000, "items": [{"id":"x","profit":1,"gas":2}]}`
	inst2, err := DecodeInstance(strings.NewReader(withLimit))
	if err != nil {
		t.Fatal(err)
	}
	if inst2.Capacity != 15000000 {
		t.Errorf("Capacity = %d, want 15000000", inst2.Capacity)
	}
}

// TestDecodeInstanceRejectsGarbage verifies unparseable profit values and
// empty item lists fail fast.
func TestDecodeInstanceRejectsGarbage(t *testing.T) {
	bad := `{"block_number": 1, "items": [{"id":"x","profit":"0xzz","gas":2}]}`
	if _, err := DecodeInstance(strings.NewReader(bad)); err == nil {
		t.Error("bad hex profit accepted")
	}

	noItems := `{"block_number": 1, "items": []}`
	var ie *InputError
	if _, err := DecodeInstance(strings.NewReader(noItems)); !errors.As(err, &ie) {
		t.Errorf("empty items: got %v, want InputError", err)
	}
}

// TestCheckConditioning verifies the advisory degeneracy flag: balanced
// penalties pass, astronomically large ones trip the float64-resolution
// check without becoming an error.
func TestCheckConditioning(t *testing.T) {
	inst := fourItems()

	ok := inst.CheckConditioning(5.0)
	if ok.Degenerate {
		t.Errorf("balanced penalty flagged degenerate: %+v", ok)
	}
	if ok.MaxProfitTerm != 32 {
		t.Errorf("MaxProfitTerm = %v, want 32", ok.MaxProfitTerm)
	}

	// Constraint terms ~1e20 against unit profits: the smallest profit
	// is far below one ULP of the constraint magnitude.
	bad := inst.CheckConditioning(1e18)
	if !bad.Degenerate {
		t.Errorf("penalty 1e18 not flagged degenerate: %+v", bad)
	}
	if bad.Ratio <= ok.Ratio {
		t.Errorf("Ratio did not grow with penalty: %v vs %v", bad.Ratio, ok.Ratio)
	}

	t.Logf("✓ Conditioning: ratio %.3e sound, %.3e degenerate", ok.Ratio, bad.Ratio)
}

// TestTopByDensity verifies the pre-filter for size-limited backends:
// top-k by exact profit/gas ratio, original indices reported, zero-gas
// items ranked first.
func TestTopByDensity(t *testing.T) {
	inst := &Instance{
		Capacity: 100,
		Items: []Item{
			{ID: "low", Profit: big.NewInt(1), Gas: 50},    // ratio 0.02
			{ID: "free", Profit: big.NewInt(5), Gas: 0},    // infinite ratio
			{ID: "mid", Profit: big.NewInt(30), Gas: 40},   // 0.75
			{ID: "high", Profit: big.NewInt(90), Gas: 45},  // 2.0
			{ID: "tiny", Profit: big.NewInt(2), Gas: 1000}, // 0.002
		},
	}

	top, kept := inst.TopByDensity(3)
	if len(top.Items) != 3 || len(kept) != 3 {
		t.Fatalf("kept %d items, want 3", len(top.Items))
	}
	// Highest ratios are free(1), high(3), mid(2); kept in original order.
	wantKept := []int{1, 2, 3}
	for i, w := range wantKept {
		if kept[i] != w {
			t.Errorf("kept[%d] = %d, want %d", i, kept[i], w)
		}
	}
	if top.Items[0].ID != "free" || top.Items[1].ID != "mid" || top.Items[2].ID != "high" {
		t.Errorf("filtered items = %v", top.Items)
	}
	if top.Capacity != inst.Capacity || top.Block != inst.Block {
		t.Errorf("filtered instance lost block/capacity: %+v", top)
	}

	// k beyond size keeps everything.
	all, _ := inst.TopByDensity(10)
	if len(all.Items) != 5 {
		t.Errorf("TopByDensity(10) kept %d, want 5", len(all.Items))
	}
}

// TestRoundTrip verifies no information loss through the QUBO encoding:
// encode, solve exhaustively, evaluate, and cross-check every total
// against direct summation and the closed-form energy.
func TestRoundTrip(t *testing.T) {
	inst := fourItems()
	penalty := 4.0
	q, err := inst.Encode(penalty)
	if err != nil {
		t.Fatal(err)
	}

	sol, err := SolveExhaustive(q)
	if err != nil {
		t.Fatal(err)
	}
	m := Evaluate(sol.Assignment, inst)

	profit := new(big.Int)
	var gas int64
	for _, i := range m.Selected {
		profit.Add(profit, inst.Items[i].Profit)
		gas += inst.Items[i].Gas
	}
	if profit.Cmp(m.TotalProfit) != 0 || gas != m.TotalGas {
		t.Errorf("metrics disagree with direct summation: %s/%d vs %s/%d",
			m.TotalProfit, m.TotalGas, profit, gas)
	}

	// E = -profit + α·(gas - W)², offset included.
	p, _ := new(big.Float).SetInt(profit).Float64()
	slack := float64(gas - inst.Capacity)
	if want := -p + penalty*slack*slack; sol.Energy != want {
		t.Errorf("energy = %v, want closed form %v", sol.Energy, want)
	}

	t.Logf("✓ Round trip exact: profit %s, gas %d, energy %v", profit, gas, sol.Energy)
}
