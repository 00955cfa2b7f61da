package batch

import "math/big"

const arbitrageTypeBackrun = "backrun"

// calculateStatistics aggregates the arbitrage transactions of a run.
// Profit totals are accumulated per profit token in arbitrary
// precision; decimal strings in, decimal strings out.
func calculateStatistics(blocks []BlockAnalysisResult) Statistics {
	stats := Statistics{
		TotalProfit:        make(map[string]string),
		ProtocolStats:      make(map[string]int),
		ProfitTokenStats:   make(map[string]int),
		ArbitrageTypeStats: make(map[string]int),
	}
	totals := make(map[string]*big.Int)

	for _, block := range blocks {
		for _, tx := range block.Transactions {
			info := tx.ArbitrageInfo
			if info == nil {
				continue
			}

			stats.ArbitrageTransactionsAddress = append(stats.ArbitrageTransactionsAddress, tx.Signature)
			stats.ArbitrageTypeStats[info.Type]++
			if info.IsBackrun {
				stats.ArbitrageTypeStats[arbitrageTypeBackrun]++
			}
			if info.Profit.Token != "" {
				stats.ProfitTokenStats[info.Profit.Token]++
			}
			for _, ev := range tx.SwapEvents {
				stats.ProtocolStats[ev.Protocol]++
			}

			if amount, ok := new(big.Int).SetString(info.Profit.Amount, 10); ok {
				total := totals[info.Profit.Token]
				if total == nil {
					total = new(big.Int)
					totals[info.Profit.Token] = total
				}
				total.Add(total, amount)
			}
		}
	}

	for token, total := range totals {
		stats.TotalProfit[token] = total.String()
	}
	return stats
}
