package swapdecode

import (
	"fmt"
	"math/big"

	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/rpc"
)

// resolveAccount maps a compiled account index onto the transaction's
// full key space: static message keys first, then the lookup-table
// loaded writable keys, then the loaded readonly keys.
func (p *Parser) resolveAccount(index uint16) (solana.PublicKey, error) {
	staticCount := len(p.txInfo.Message.AccountKeys)
	writable := p.txMeta.LoadedAddresses.Writable
	readonly := p.txMeta.LoadedAddresses.ReadOnly

	i := int(index)
	switch {
	case i < staticCount:
		return p.txInfo.Message.AccountKeys[i], nil
	case i < staticCount+len(writable):
		return writable[i-staticCount], nil
	case i < staticCount+len(writable)+len(readonly):
		return readonly[i-staticCount-len(writable)], nil
	}
	return solana.PublicKey{}, fmt.Errorf("account index %d out of range (%d keys)", index, staticCount+len(writable)+len(readonly))
}

// TokenBalanceChanges computes the net per-token-account movement from
// the pre/post balance records. An account present only on the pre side
// moved out its full balance; one present only on the post side
// received its full balance.
func (p *Parser) TokenBalanceChanges() []TokenBalanceChange {
	type pair struct {
		pre  *rpc.TokenBalance
		post *rpc.TokenBalance
	}

	merged := make(map[uint16]*pair)
	var order []uint16
	for i := range p.txMeta.PreTokenBalances {
		b := &p.txMeta.PreTokenBalances[i]
		merged[b.AccountIndex] = &pair{pre: b}
		order = append(order, b.AccountIndex)
	}
	for i := range p.txMeta.PostTokenBalances {
		b := &p.txMeta.PostTokenBalances[i]
		if m, ok := merged[b.AccountIndex]; ok {
			m.post = b
		} else {
			merged[b.AccountIndex] = &pair{post: b}
			order = append(order, b.AccountIndex)
		}
	}

	var changes []TokenBalanceChange
	for _, idx := range order {
		m := merged[idx]

		pre := new(big.Int)
		post := new(big.Int)
		if m.pre != nil {
			pre = p.parseRawAmount(m.pre.UiTokenAmount)
		}
		if m.post != nil {
			post = p.parseRawAmount(m.post.UiTokenAmount)
		}

		delta := new(big.Int).Sub(post, pre)
		if delta.Sign() == 0 {
			continue
		}

		addr, err := p.resolveAccount(idx)
		if err != nil {
			p.Log.WithField("index", idx).Warnf("token balance references unknown account: %v", err)
			continue
		}

		src := m.post
		if src == nil {
			src = m.pre
		}

		changes = append(changes, TokenBalanceChange{
			Account:   addr.String(),
			Owner:     pkString(src.Owner),
			Mint:      src.Mint.String(),
			ProgramID: pkString(src.ProgramId),
			Decimals:  tokenDecimals(src.UiTokenAmount),
			Delta:     delta,
		})
	}

	return changes
}

func (p *Parser) parseRawAmount(ui *rpc.UiTokenAmount) *big.Int {
	if ui == nil {
		return new(big.Int)
	}
	v, ok := new(big.Int).SetString(ui.Amount, 10)
	if !ok {
		p.Log.Warnf("unparseable token amount %q", ui.Amount)
		return new(big.Int)
	}
	return v
}

func tokenDecimals(ui *rpc.UiTokenAmount) uint8 {
	if ui == nil {
		return 0
	}
	return ui.Decimals
}

func pkString(pk *solana.PublicKey) string {
	if pk == nil {
		return ""
	}
	return pk.String()
}
