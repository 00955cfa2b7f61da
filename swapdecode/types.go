package swapdecode

import (
	"math/big"
	"strings"
)

// TokenBalanceChange is the net movement on one SPL token account across
// a transaction, derived from the pre/post balance records.
type TokenBalanceChange struct {
	Account   string
	Owner     string
	Mint      string
	ProgramID string
	Decimals  uint8
	Delta     *big.Int
}

// SwapEvent is a single decoded swap leg, normalized across protocols.
// Amounts are absolute values in base units.
type SwapEvent struct {
	PoolAddress      string
	Protocol         string
	PoolType         string
	ProgramID        string
	TokenIn          string
	TokenOut         string
	AmountIn         *big.Int
	AmountOut        *big.Int
	Sender           string
	Recipient        string
	InstructionIndex int
}

// TransferEvent is a decoded SPL token transfer or transferChecked
// observed in an instruction's inner set.
type TransferEvent struct {
	Kind        string
	Source      string
	Destination string
	Authority   string
	Mint        string
	Amount      uint64
	Decimals    uint8
}

// InvolvedPools returns the distinct pool addresses touched by the
// events, lowercased, in first-seen order.
func InvolvedPools(events []SwapEvent) []string {
	seen := make(map[string]bool)
	var pools []string
	for _, ev := range events {
		p := strings.ToLower(ev.PoolAddress)
		if p == "" || seen[p] {
			continue
		}
		seen[p] = true
		pools = append(pools, p)
	}
	return pools
}
