package qubobench

import (
	"encoding/json"
	"fmt"
	"io"
	"math"
	"math/big"
	"os"
	"sort"
	"strings"
)

// BlockGasLimit is the default knapsack capacity when an instance file
// does not carry its own: the standard Ethereum block gas limit.
const BlockGasLimit = 30_000_000

// Item is one selectable transaction: a profit in wei (arbitrary
// precision, values routinely exceed 64-bit range) and a gas cost.
type Item struct {
	ID     string
	Profit *big.Int
	Gas    int64
}

// Instance is a 0/1 knapsack problem derived from one block: maximize
// selected profit subject to total gas ≤ Capacity. Items map 1:1 onto
// QUBO variable indices. Constructed once from input data, read-only
// afterwards.
type Instance struct {
	Block    uint64
	Items    []Item
	Capacity int64
}

type itemJSON struct {
	ID     string          `json:"id"`
	Profit json.RawMessage `json:"profit"`
	Gas    int64           `json:"gas"`
}

type instanceJSON struct {
	BlockNumber uint64     `json:"block_number"`
	GasLimit    int64      `json:"gas_limit"`
	Items       []itemJSON `json:"items"`
}

// parseProfit accepts the two encodings instance files use for profit:
// a JSON number, or a string holding either a decimal or 0x-prefixed
// hexadecimal integer.
func parseProfit(raw json.RawMessage) (*big.Int, error) {
	s := strings.TrimSpace(string(raw))
	if strings.HasPrefix(s, `"`) {
		var unquoted string
		if err := json.Unmarshal(raw, &unquoted); err != nil {
			return nil, err
		}
		s = strings.TrimSpace(unquoted)
	}
	base := 10
	if strings.HasPrefix(s, "0x") || strings.HasPrefix(s, "0X") {
		s, base = s[2:], 16
	}
	p, ok := new(big.Int).SetString(s, base)
	if !ok {
		return nil, inputErrorf("unparseable profit %q", string(raw))
	}
	return p, nil
}

// DecodeInstance reads a knapsack instance record: a block number and a
// list of items with id, profit (integer or hex string) and gas cost.
// A missing gas_limit falls back to BlockGasLimit.
func DecodeInstance(r io.Reader) (*Instance, error) {
	var rec instanceJSON
	if err := json.NewDecoder(r).Decode(&rec); err != nil {
		return nil, fmt.Errorf("decode instance: %w", err)
	}
	inst := &Instance{
		Block:    rec.BlockNumber,
		Capacity: rec.GasLimit,
		Items:    make([]Item, 0, len(rec.Items)),
	}
	if inst.Capacity == 0 {
		inst.Capacity = BlockGasLimit
	}
	for i, it := range rec.Items {
		p, err := parseProfit(it.Profit)
		if err != nil {
			return nil, fmt.Errorf("item %d: %w", i, err)
		}
		inst.Items = append(inst.Items, Item{ID: it.ID, Profit: p, Gas: it.Gas})
	}
	if err := inst.Validate(); err != nil {
		return nil, err
	}
	return inst, nil
}

// LoadInstance reads an instance record from a JSON file.
func LoadInstance(path string) (*Instance, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return DecodeInstance(f)
}

// Validate checks the instance preconditions: at least one item, positive
// capacity, non-negative profits and gas costs. Returns an InputError on
// the first violation.
func (inst *Instance) Validate() error {
	if len(inst.Items) == 0 {
		return inputErrorf("instance has no items")
	}
	if inst.Capacity <= 0 {
		return inputErrorf("capacity must be positive, got %d", inst.Capacity)
	}
	for i, it := range inst.Items {
		if it.Profit == nil || it.Profit.Sign() < 0 {
			return inputErrorf("item %d: profit must be a non-negative integer", i)
		}
		if it.Gas < 0 {
			return inputErrorf("item %d: gas must be non-negative, got %d", i, it.Gas)
		}
	}
	return nil
}

// PenaltyStrategy picks the constraint penalty α for an instance.
//
// Penalty selection is deliberately pluggable: no closed-form choice is
// known to be both sufficient (every infeasible assignment costs more
// than any feasible one) and well-conditioned (profit variation still
// visible next to the constraint terms). Calibrate per instance and check
// the Conditioning report.
type PenaltyStrategy func(*Instance) float64

// AutoPenalty is the default strategy: 2·max(profit)/max(gas).
//
// This is an empirical heuristic carried over from experiment tuning, not
// a correctness guarantee. On real blocks it is frequently too large and
// drowns the profit signal (see Conditioning). Treat it as a starting
// point for calibration.
func AutoPenalty(inst *Instance) float64 {
	maxProfit := new(big.Int)
	var maxGas int64 = 1
	for _, it := range inst.Items {
		if it.Profit.Cmp(maxProfit) > 0 {
			maxProfit = it.Profit
		}
		if it.Gas > maxGas {
			maxGas = it.Gas
		}
	}
	if maxProfit.Sign() == 0 {
		maxProfit = big.NewInt(1)
	}
	p, _ := new(big.Float).SetInt(maxProfit).Float64()
	return 2 * p / float64(maxGas)
}

// Encode maps the instance to a QUBO matrix and offset using the
// squared-penalty expansion of α·(Σwᵢxᵢ − W)²:
//
//	Q[i,i] = −vᵢ + α·(wᵢ² − 2·W·wᵢ)
//	Q[i,j] = α·wᵢ·wⱼ    (i < j)
//	offset = α·W²
//
// The energy convention counts each off-diagonal twice (see Matrix), so
// the stored α·wᵢ·wⱼ yields exactly the 2·α·wᵢ·wⱼ cross term of the
// expansion. For every assignment, then,
//
//	Energy(x) = −profit(x) + α·(gas(x) − W)²
//
// exactly. The arg-min over feasible assignments maximizes profit
// provided α is large enough to dominate any single-item profit gain
// from a violation.
func (inst *Instance) Encode(penalty float64) (*Matrix, error) {
	if err := inst.Validate(); err != nil {
		return nil, err
	}
	if penalty <= 0 || math.IsNaN(penalty) || math.IsInf(penalty, 0) {
		return nil, inputErrorf("penalty must be a positive finite real, got %v", penalty)
	}
	n := len(inst.Items)
	w := float64(inst.Capacity)
	m := NewMatrix(n)
	for i, it := range inst.Items {
		v, _ := new(big.Float).SetInt(it.Profit).Float64()
		g := float64(it.Gas)
		m.SetUpper(i, i, -v+penalty*(g*g-2*w*g))
	}
	for i := 0; i < n; i++ {
		gi := float64(inst.Items[i].Gas)
		for j := i + 1; j < n; j++ {
			m.SetUpper(i, j, penalty*gi*float64(inst.Items[j].Gas))
		}
	}
	m.Offset = penalty * w * w
	return m, nil
}

// Conditioning reports how the constraint terms compare to the profit
// terms on the QUBO diagonal for a given penalty.
//
// The encoding stays mathematically valid at any positive penalty, but
// once the constraint magnitude exceeds the profit variation by more than
// float64 resolution (2^53), downstream heuristic solvers see a landscape
// with no profit signal at all. That state is advisory, not an error:
// Degenerate is a flag for the caller to re-parameterize.
type Conditioning struct {
	MaxProfitTerm     float64 // largest profit magnitude on the diagonal
	MaxConstraintTerm float64 // largest |α·(wᵢ² − 2·W·wᵢ)| on the diagonal
	Ratio             float64 // MaxConstraintTerm / MaxProfitTerm
	Degenerate        bool    // profit variation below float64 resolution
}

// CheckConditioning evaluates the diagonal balance for a candidate penalty.
func (inst *Instance) CheckConditioning(penalty float64) Conditioning {
	var c Conditioning
	minProfit := math.Inf(1)
	w := float64(inst.Capacity)
	for _, it := range inst.Items {
		v, _ := new(big.Float).SetInt(it.Profit).Float64()
		g := float64(it.Gas)
		if v > c.MaxProfitTerm {
			c.MaxProfitTerm = v
		}
		if v > 0 && v < minProfit {
			minProfit = v
		}
		if t := math.Abs(penalty * (g*g - 2*w*g)); t > c.MaxConstraintTerm {
			c.MaxConstraintTerm = t
		}
	}
	if c.MaxProfitTerm > 0 {
		c.Ratio = c.MaxConstraintTerm / c.MaxProfitTerm
	} else {
		c.Ratio = math.Inf(1)
	}
	// 2^53: one ULP at the constraint magnitude exceeds the smallest
	// nonzero profit, so adding or removing that profit cannot change
	// the energy.
	c.Degenerate = !math.IsInf(minProfit, 1) && c.MaxConstraintTerm/minProfit >= 1<<53
	if math.IsInf(minProfit, 1) && c.MaxConstraintTerm > 0 {
		c.Degenerate = true // no profit signal at all
	}
	return c
}

// TopByDensity returns a new instance holding the k items with the
// highest profit/gas ratio, plus the original index of each kept item.
// Physical backends accept only small variable counts (5–100), so
// oversized instances are pre-filtered this way before encoding.
//
// Ordering uses exact big-integer cross-multiplication, so zero-gas items
// with positive profit rank first and ties keep original order.
func (inst *Instance) TopByDensity(k int) (*Instance, []int) {
	idx := make([]int, len(inst.Items))
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(a, b int) bool {
		return denser(inst.Items[idx[a]], inst.Items[idx[b]])
	})
	if k > len(idx) {
		k = len(idx)
	}
	kept := make([]int, k)
	copy(kept, idx[:k])
	sort.Ints(kept) // keep original relative order inside the filtered instance
	out := &Instance{Block: inst.Block, Capacity: inst.Capacity, Items: make([]Item, k)}
	for i, j := range kept {
		out.Items[i] = inst.Items[j]
	}
	return out, kept
}

// denser reports whether item a has strictly higher profit/gas ratio than
// item b, comparing vₐ·w_b > v_b·wₐ exactly.
func denser(a, b Item) bool {
	lhs := new(big.Int).Mul(a.Profit, big.NewInt(b.Gas))
	rhs := new(big.Int).Mul(b.Profit, big.NewInt(a.Gas))
	return lhs.Cmp(rhs) > 0
}
