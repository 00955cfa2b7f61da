package batch

import (
	"math/big"

	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/rpc"
	"github.com/sirupsen/logrus"

	"github.com/franco-bianco/solana-arb-scan/arb"
	"github.com/franco-bianco/solana-arb-scan/poolcache"
	"github.com/franco-bianco/solana-arb-scan/swapdecode"
)

// Analyzer turns one confirmed transaction into an analysis record and
// publishes newly seen pools to the metadata cache.
type Analyzer struct {
	cache *poolcache.Cache
	log   *logrus.Logger
}

func NewAnalyzer(cache *poolcache.Cache, log *logrus.Logger) *Analyzer {
	return &Analyzer{cache: cache, log: log}
}

// AnalyzeTransaction decodes the transaction's swaps and, when the
// flow forms an arbitrage, classifies it against the pool history. The
// history must reflect only transactions that came before this one;
// the caller appends this transaction afterwards.
func (a *Analyzer) AnalyzeTransaction(tx *solana.Transaction, meta *rpc.TransactionMeta, slot uint64, history PoolHistory) *TransactionAnalysis {
	if tx == nil || meta == nil || meta.Err != nil {
		return nil
	}

	parser, err := swapdecode.NewTransactionParserFromTransaction(tx, meta, a.log)
	if err != nil {
		a.log.WithField("slot", slot).Warnf("failed to build parser: %v", err)
		return nil
	}

	events := parser.ParseSwapEvents()
	if len(events) == 0 {
		return nil
	}

	var signature string
	if len(tx.Signatures) > 0 {
		signature = tx.Signatures[0].String()
	}

	deltas := parser.TokenBalanceChanges()

	analysis := &TransactionAnalysis{
		Signature:    signature,
		Slot:         slot,
		Signer:       parser.Signer().String(),
		Fee:          meta.Fee,
		SwapEvents:   eventViews(events),
		TokenChanges: mintChanges(deltas),
	}

	for _, ev := range events {
		a.publishPool(ev, deltas)
	}

	if res := arb.Detect(events); res != nil {
		info := &ArbitrageInfo{
			ArbitrageCycles: res.Cycles,
			CyclesLength:    len(res.Cycles),
			Profit: ProfitInfo{
				Token:  res.ProfitToken,
				Amount: res.ProfitAmount.String(),
			},
		}
		info.Type, info.IsBackrun, info.InterInfo = classifyArbitrage(swapdecode.InvolvedPools(events), history, slot)
		analysis.ArbitrageInfo = info

		a.log.WithFields(logrus.Fields{
			"slot":      slot,
			"signature": signature,
			"type":      info.Type,
			"backrun":   info.IsBackrun,
			"cycles":    info.CyclesLength,
			"profit":    info.Profit.Amount,
		}).Info("arbitrage detected")
	}

	return analysis
}

// classifyArbitrage types the transaction by its pools' past: no pool
// seen before means the arbitrageur opened the opportunity (begin);
// otherwise it fed on earlier activity (inter), and it is a backrun
// when every prior touch sits exactly one slot back.
func classifyArbitrage(pools []string, history PoolHistory, slot uint64) (string, bool, []InterTxRef) {
	var inter []InterTxRef
	for _, pool := range pools {
		if ref, ok := history.Last(pool); ok {
			inter = append(inter, InterTxRef{
				Signature:   ref.Signature,
				Slot:        ref.Slot,
				PoolAddress: pool,
			})
		}
	}
	if len(inter) == 0 {
		return ArbitrageTypeBegin, false, nil
	}

	backrun := true
	for _, ref := range inter {
		if ref.Slot != slot-1 {
			backrun = false
			break
		}
	}
	return ArbitrageTypeInter, backrun, inter
}

func eventViews(events []swapdecode.SwapEvent) []SwapEventView {
	views := make([]SwapEventView, 0, len(events))
	for _, ev := range events {
		views = append(views, SwapEventView{
			PoolAddress:      ev.PoolAddress,
			Protocol:         ev.Protocol,
			PoolType:         ev.PoolType,
			ProgramID:        ev.ProgramID,
			TokenIn:          ev.TokenIn,
			TokenOut:         ev.TokenOut,
			AmountIn:         ev.AmountIn.String(),
			AmountOut:        ev.AmountOut.String(),
			Sender:           ev.Sender,
			Recipient:        ev.Recipient,
			InstructionIndex: ev.InstructionIndex,
		})
	}
	return views
}

// mintChanges nets the token account deltas per mint.
func mintChanges(deltas []swapdecode.TokenBalanceChange) map[string]string {
	totals := make(map[string]*big.Int)
	for _, d := range deltas {
		t := totals[d.Mint]
		if t == nil {
			t = new(big.Int)
			totals[d.Mint] = t
		}
		t.Add(t, d.Delta)
	}

	out := make(map[string]string, len(totals))
	for mint, v := range totals {
		out[mint] = v.String()
	}
	return out
}

// publishPool records pool and token metadata for later runs. Decimals
// and owning token program come from the balance records; symbol and
// name stay "unknown" since no richer source is consulted here.
func (a *Analyzer) publishPool(ev swapdecode.SwapEvent, deltas []swapdecode.TokenBalanceChange) {
	if _, ok := a.cache.GetPool(ev.PoolAddress); ok {
		return
	}

	tokenIn := tokenInfoFor(ev.TokenIn, deltas)
	tokenOut := tokenInfoFor(ev.TokenOut, deltas)
	a.cache.SetToken(tokenIn.Address, tokenIn)
	a.cache.SetToken(tokenOut.Address, tokenOut)

	a.cache.SetPool(ev.PoolAddress, poolcache.PoolInfo{
		PoolID:   ev.PoolAddress,
		Tokens:   []poolcache.TokenInfo{tokenIn, tokenOut},
		Factory:  ev.ProgramID,
		Protocol: ev.Protocol,
		PoolType: ev.PoolType,
	})
}

func tokenInfoFor(mint string, deltas []swapdecode.TokenBalanceChange) poolcache.TokenInfo {
	info := poolcache.TokenInfo{
		Address: mint,
		Symbol:  "unknown",
		Name:    "unknown",
	}
	for _, d := range deltas {
		if d.Mint == mint {
			info.Decimals = d.Decimals
			info.ProgramID = d.ProgramID
			break
		}
	}
	return info
}
