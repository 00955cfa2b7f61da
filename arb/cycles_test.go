package arb

import (
	"testing"

	"github.com/franco-bianco/solana-arb-scan/swapdecode"
)

func TestFindCyclesTriangular(t *testing.T) {
	events := []swapdecode.SwapEvent{
		ev("X", "Y", 10, 9, "p1"),
		ev("Y", "Z", 9, 11, "p2"),
		ev("Z", "X", 11, 12, "p3"),
	}

	cycles := FindCycles(events)
	if len(cycles) != 1 {
		t.Fatalf("got %d cycles, want 1", len(cycles))
	}

	c := cycles[0]
	if len(c.Edges) != 3 {
		t.Fatalf("cycle has %d edges, want 3", len(c.Edges))
	}
	if c.ProfitToken != "X" || c.ProfitAmount != "2" {
		t.Fatalf("profit = %s/%s, want X/2", c.ProfitToken, c.ProfitAmount)
	}
	if c.TokenChanges["Y"] != "0" || c.TokenChanges["Z"] != "0" {
		t.Fatalf("intermediate changes = %v", c.TokenChanges)
	}
	// The search runs from the input token of the edge that closed the
	// loop, so the cycle is rooted at p3.
	if c.Edges[0].PoolAddress != "p3" || c.Edges[1].PoolAddress != "p1" || c.Edges[2].PoolAddress != "p2" {
		t.Fatalf("edges out of order: %+v", c.Edges)
	}
}

func TestFindCyclesSingleSwap(t *testing.T) {
	events := []swapdecode.SwapEvent{ev("X", "Y", 10, 9, "p1")}
	if cycles := FindCycles(events); len(cycles) != 0 {
		t.Fatalf("single swap yielded %d cycles", len(cycles))
	}
}

func TestFindCyclesRejectsLosingLoop(t *testing.T) {
	// Closed loop that ends with less X than it started with.
	events := []swapdecode.SwapEvent{
		ev("X", "Y", 10, 9, "p1"),
		ev("Y", "X", 9, 8, "p2"),
	}
	if cycles := FindCycles(events); len(cycles) != 0 {
		t.Fatalf("losing loop yielded %d cycles", len(cycles))
	}
}

func TestFindCyclesConsumesEdges(t *testing.T) {
	// Two independent profitable round trips; each edge may serve only
	// one cycle.
	events := []swapdecode.SwapEvent{
		ev("X", "Y", 10, 9, "p1"),
		ev("Y", "X", 9, 11, "p2"),
		ev("X", "Y", 20, 18, "p3"),
		ev("Y", "X", 18, 22, "p4"),
	}

	cycles := FindCycles(events)
	if len(cycles) != 2 {
		t.Fatalf("got %d cycles, want 2", len(cycles))
	}
	if cycles[0].ProfitAmount != "1" {
		t.Fatalf("first cycle profit = %s, want 1", cycles[0].ProfitAmount)
	}
	if cycles[1].ProfitAmount != "2" {
		t.Fatalf("second cycle profit = %s, want 2", cycles[1].ProfitAmount)
	}
}

func TestDetect(t *testing.T) {
	events := []swapdecode.SwapEvent{
		ev("X", "Y", 10, 9, "p1"),
		ev("Y", "Z", 9, 11, "p2"),
		ev("Z", "X", 11, 12, "p3"),
	}

	res := Detect(events)
	if res == nil {
		t.Fatal("expected arbitrage")
	}
	if res.ProfitToken != "X" || res.ProfitAmount.Int64() != 2 {
		t.Fatalf("profit = %s/%s", res.ProfitToken, res.ProfitAmount)
	}
	if len(res.Cycles) != 1 {
		t.Fatalf("got %d cycles", len(res.Cycles))
	}
}

func TestDetectPlainRouteIsNotArbitrage(t *testing.T) {
	events := []swapdecode.SwapEvent{
		ev("X", "Y", 10, 9, "p1"),
		ev("Y", "Z", 9, 8, "p2"),
	}
	if res := Detect(events); res != nil {
		t.Fatalf("open route detected as arbitrage: %+v", res)
	}
}
