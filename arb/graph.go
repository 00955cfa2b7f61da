// Package arb reconstructs the token flow of a transaction's swap legs
// and extracts profitable cycles from it.
package arb

import (
	"math/big"

	"github.com/franco-bianco/solana-arb-scan/swapdecode"
)

// EdgeInfo aggregates every same-direction swap between two mints.
type EdgeInfo struct {
	AmountIn    *big.Int
	AmountOut   *big.Int
	PoolAddress string
	Protocol    string
}

// Graph is the mint-level view of a transaction's swaps. Token
// insertion order is tracked so that tiebreaks stay deterministic.
type Graph struct {
	edges  map[string]map[string]*EdgeInfo
	tokens []string
	seen   map[string]bool
}

func BuildGraph(events []swapdecode.SwapEvent) *Graph {
	g := &Graph{
		edges: make(map[string]map[string]*EdgeInfo),
		seen:  make(map[string]bool),
	}
	for _, ev := range events {
		g.touch(ev.TokenIn)
		g.touch(ev.TokenOut)

		m := g.edges[ev.TokenIn]
		if m == nil {
			m = make(map[string]*EdgeInfo)
			g.edges[ev.TokenIn] = m
		}
		e := m[ev.TokenOut]
		if e == nil {
			e = &EdgeInfo{
				AmountIn:    new(big.Int),
				AmountOut:   new(big.Int),
				PoolAddress: ev.PoolAddress,
				Protocol:    ev.Protocol,
			}
			m[ev.TokenOut] = e
		}
		e.AmountIn.Add(e.AmountIn, ev.AmountIn)
		e.AmountOut.Add(e.AmountOut, ev.AmountOut)
	}
	return g
}

func (g *Graph) touch(token string) {
	if !g.seen[token] {
		g.seen[token] = true
		g.tokens = append(g.tokens, token)
	}
}

// Tokens returns every mint in the graph in first-seen order.
func (g *Graph) Tokens() []string {
	return g.tokens
}

// TokenChanges nets each token over the whole graph: every out-edge
// spends its AmountIn, every in-edge receives its AmountOut.
func (g *Graph) TokenChanges() map[string]*big.Int {
	changes := make(map[string]*big.Int, len(g.tokens))
	for _, t := range g.tokens {
		changes[t] = new(big.Int)
	}
	for from, m := range g.edges {
		for to, e := range m {
			changes[from].Sub(changes[from], e.AmountIn)
			changes[to].Add(changes[to], e.AmountOut)
		}
	}
	return changes
}

// Validate reports whether the flow conserves value as an arbitrage:
// no token may net negative and at least one must net positive. The
// profit token is the largest positive net; the earliest-seen token
// wins a tie.
func (g *Graph) Validate() (string, *big.Int, bool) {
	changes := g.TokenChanges()

	var profitToken string
	var best *big.Int
	for _, t := range g.tokens {
		c := changes[t]
		if c.Sign() < 0 {
			return "", nil, false
		}
		if c.Sign() > 0 && (best == nil || c.Cmp(best) > 0) {
			best = c
			profitToken = t
		}
	}
	if best == nil {
		return "", nil, false
	}
	return profitToken, best, true
}
