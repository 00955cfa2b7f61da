package arb

import (
	"math/big"

	"github.com/franco-bianco/solana-arb-scan/swapdecode"
)

// edge is one swap leg in the per-event multigraph. Unlike the
// aggregated graph, parallel legs stay distinct so each can belong to
// at most one cycle.
type edge struct {
	tokenIn     string
	tokenOut    string
	amountIn    *big.Int
	amountOut   *big.Int
	poolAddress string
	protocol    string
	used        bool
}

// CycleEdge is one leg of an extracted cycle, amounts rendered as
// decimal strings for serialization.
type CycleEdge struct {
	TokenIn     string `json:"tokenIn"`
	TokenOut    string `json:"tokenOut"`
	AmountIn    string `json:"amountIn"`
	AmountOut   string `json:"amountOut"`
	PoolAddress string `json:"poolAddress"`
	Protocol    string `json:"protocol"`
}

// Cycle is a closed, profitable token loop.
type Cycle struct {
	Edges        []CycleEdge       `json:"edges"`
	ProfitToken  string            `json:"profitToken"`
	ProfitAmount string            `json:"profitAmount"`
	TokenChanges map[string]string `json:"tokenChanges"`
}

// Result is the arbitrage summary of one transaction's swap flow.
type Result struct {
	Cycles       []Cycle
	ProfitToken  string
	ProfitAmount *big.Int
}

// Detect runs cycle extraction and conservation validation over the
// events. Both must succeed for the flow to count as arbitrage.
func Detect(events []swapdecode.SwapEvent) *Result {
	if len(events) == 0 {
		return nil
	}
	cycles := FindCycles(events)
	if len(cycles) == 0 {
		return nil
	}
	token, amount, ok := BuildGraph(events).Validate()
	if !ok {
		return nil
	}
	return &Result{
		Cycles:       cycles,
		ProfitToken:  token,
		ProfitAmount: amount,
	}
}

// FindCycles feeds the swap legs into the multigraph one event at a
// time, searching from each new edge's input token. An accepted cycle
// consumes its edges before the scan moves on, so no leg is counted
// twice.
func FindCycles(events []swapdecode.SwapEvent) []Cycle {
	adj := make(map[string][]*edge)
	var cycles []Cycle

	for _, ev := range events {
		e := &edge{
			tokenIn:     ev.TokenIn,
			tokenOut:    ev.TokenOut,
			amountIn:    new(big.Int).Set(ev.AmountIn),
			amountOut:   new(big.Int).Set(ev.AmountOut),
			poolAddress: ev.PoolAddress,
			protocol:    ev.Protocol,
		}
		adj[e.tokenIn] = append(adj[e.tokenIn], e)

		path := findCycle(adj, e.tokenIn)
		if path == nil {
			continue
		}
		cycles = append(cycles, makeCycle(path))
		for _, pe := range path {
			pe.used = true
		}
	}

	return cycles
}

// findCycle is a depth-first search over the live edges, driven by an
// explicit stack. CPI-heavy transactions can chain long routes, so the
// search must not grow the call stack with the path.
func findCycle(adj map[string][]*edge, start string) []*edge {
	type frame struct {
		token string
		next  int
	}

	visited := map[string]bool{start: true}
	var path []*edge
	stack := []frame{{token: start}}

	for len(stack) > 0 {
		f := &stack[len(stack)-1]
		edges := adj[f.token]

		advanced := false
		for f.next < len(edges) {
			e := edges[f.next]
			f.next++
			if e.used {
				continue
			}
			if e.tokenOut == start {
				candidate := append(append([]*edge{}, path...), e)
				if _, _, ok := cycleProfit(candidate); ok {
					return candidate
				}
				continue
			}
			if visited[e.tokenOut] {
				continue
			}
			visited[e.tokenOut] = true
			path = append(path, e)
			stack = append(stack, frame{token: e.tokenOut})
			advanced = true
			break
		}
		if advanced {
			continue
		}

		stack = stack[:len(stack)-1]
		if len(path) > 0 {
			last := path[len(path)-1]
			path = path[:len(path)-1]
			delete(visited, last.tokenOut)
		}
	}

	return nil
}

// cycleProfit validates a candidate on its own legs only: every token
// the cycle touches must net non-negative and at least one must net
// positive. Returns the profit token and amount.
func cycleProfit(path []*edge) (string, *big.Int, bool) {
	changes, order := cycleChanges(path)

	var token string
	var best *big.Int
	for _, t := range order {
		c := changes[t]
		if c.Sign() < 0 {
			return "", nil, false
		}
		if c.Sign() > 0 && (best == nil || c.Cmp(best) > 0) {
			best = c
			token = t
		}
	}
	if best == nil {
		return "", nil, false
	}
	return token, best, true
}

func cycleChanges(path []*edge) (map[string]*big.Int, []string) {
	changes := make(map[string]*big.Int)
	var order []string
	touch := func(t string) *big.Int {
		if c, ok := changes[t]; ok {
			return c
		}
		c := new(big.Int)
		changes[t] = c
		order = append(order, t)
		return c
	}

	for _, e := range path {
		in := touch(e.tokenIn)
		in.Sub(in, e.amountIn)
		out := touch(e.tokenOut)
		out.Add(out, e.amountOut)
	}
	return changes, order
}

func makeCycle(path []*edge) Cycle {
	token, amount, _ := cycleProfit(path)
	changes, _ := cycleChanges(path)

	c := Cycle{
		ProfitToken:  token,
		ProfitAmount: amount.String(),
		TokenChanges: make(map[string]string, len(changes)),
	}
	for _, e := range path {
		c.Edges = append(c.Edges, CycleEdge{
			TokenIn:     e.tokenIn,
			TokenOut:    e.tokenOut,
			AmountIn:    e.amountIn.String(),
			AmountOut:   e.amountOut.String(),
			PoolAddress: e.poolAddress,
			Protocol:    e.protocol,
		})
	}
	for t, v := range changes {
		c.TokenChanges[t] = v.String()
	}
	return c
}
