package batch

// PoolTxRef is one transaction that touched a pool.
type PoolTxRef struct {
	Signature string
	Slot      uint64
}

// PoolHistory tracks which transactions touched each pool, in slot
// order. Every transaction that produced swap events is recorded,
// arbitrage or not; classification of later transactions depends on it.
type PoolHistory map[string][]PoolTxRef

func (h PoolHistory) Append(pool, signature string, slot uint64) {
	h[pool] = append(h[pool], PoolTxRef{Signature: signature, Slot: slot})
}

// Last returns the most recent transaction recorded for the pool.
func (h PoolHistory) Last(pool string) (PoolTxRef, bool) {
	refs := h[pool]
	if len(refs) == 0 {
		return PoolTxRef{}, false
	}
	return refs[len(refs)-1], true
}
