package batch

import (
	"testing"
)

func TestClassifyArbitrage(t *testing.T) {
	pools := []string{"p1", "p2"}

	t.Run("no history means begin", func(t *testing.T) {
		typ, backrun, inter := classifyArbitrage(pools, make(PoolHistory), 100)
		if typ != ArbitrageTypeBegin || backrun || inter != nil {
			t.Fatalf("got %s/%v/%v", typ, backrun, inter)
		}
	})

	t.Run("prior touches one slot back make a backrun", func(t *testing.T) {
		history := make(PoolHistory)
		history.Append("p1", "sigA", 99)
		history.Append("p2", "sigB", 99)

		typ, backrun, inter := classifyArbitrage(pools, history, 100)
		if typ != ArbitrageTypeInter || !backrun {
			t.Fatalf("got %s/%v", typ, backrun)
		}
		if len(inter) != 2 || inter[0].Signature != "sigA" || inter[0].Slot != 99 {
			t.Fatalf("inter refs: %+v", inter)
		}
	})

	t.Run("a touch two slots back is inter but no backrun", func(t *testing.T) {
		history := make(PoolHistory)
		history.Append("p1", "sigA", 98)

		typ, backrun, inter := classifyArbitrage(pools, history, 100)
		if typ != ArbitrageTypeInter || backrun {
			t.Fatalf("got %s/%v", typ, backrun)
		}
		if len(inter) != 1 {
			t.Fatalf("inter refs: %+v", inter)
		}
	})

	t.Run("one stale pool breaks the backrun", func(t *testing.T) {
		history := make(PoolHistory)
		history.Append("p1", "sigA", 99)
		history.Append("p2", "sigB", 97)

		typ, backrun, _ := classifyArbitrage(pools, history, 100)
		if typ != ArbitrageTypeInter || backrun {
			t.Fatalf("got %s/%v", typ, backrun)
		}
	})

	t.Run("only the latest touch per pool counts", func(t *testing.T) {
		history := make(PoolHistory)
		history.Append("p1", "old", 90)
		history.Append("p1", "new", 99)

		_, backrun, inter := classifyArbitrage([]string{"p1"}, history, 100)
		if !backrun || inter[0].Signature != "new" {
			t.Fatalf("got %v/%+v", backrun, inter)
		}
	})
}
