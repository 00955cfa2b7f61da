// Package batch walks a historical slot range, analyzes every
// transaction for arbitrage, and persists results, statistics, and
// resumable progress.
package batch

import (
	"strings"
	"time"

	"github.com/franco-bianco/solana-arb-scan/arb"
)

// SwapEventView is the serializable form of a decoded swap leg;
// amounts are decimal strings so precision survives JSON.
type SwapEventView struct {
	PoolAddress      string `json:"poolAddress"`
	Protocol         string `json:"protocol"`
	PoolType         string `json:"poolType"`
	ProgramID        string `json:"programId"`
	TokenIn          string `json:"tokenIn"`
	TokenOut         string `json:"tokenOut"`
	AmountIn         string `json:"amountIn"`
	AmountOut        string `json:"amountOut"`
	Sender           string `json:"sender"`
	Recipient        string `json:"recipient"`
	InstructionIndex int    `json:"instructionIndex"`
}

type ProfitInfo struct {
	Token  string `json:"token"`
	Amount string `json:"amount"`
}

// InterTxRef points at the most recent earlier transaction that
// touched one of the arbitrage's pools.
type InterTxRef struct {
	Signature   string `json:"signature"`
	Slot        uint64 `json:"slot"`
	PoolAddress string `json:"poolAddress"`
}

const (
	ArbitrageTypeBegin = "begin"
	ArbitrageTypeInter = "inter"
)

type ArbitrageInfo struct {
	Type            string       `json:"type"`
	IsBackrun       bool         `json:"isBackrun"`
	ArbitrageCycles []arb.Cycle  `json:"arbitrageCycles"`
	CyclesLength    int          `json:"cyclesLength"`
	Profit          ProfitInfo   `json:"profit"`
	InterInfo       []InterTxRef `json:"interInfo,omitempty"`
}

type TransactionAnalysis struct {
	Signature     string            `json:"signature"`
	Slot          uint64            `json:"slot"`
	Signer        string            `json:"signer"`
	Fee           uint64            `json:"fee"`
	SwapEvents    []SwapEventView   `json:"swapEvents"`
	TokenChanges  map[string]string `json:"tokenChanges"`
	ArbitrageInfo *ArbitrageInfo    `json:"arbitrageInfo,omitempty"`
}

// Pools returns the distinct pool addresses the transaction's swaps
// touched, lowercased, in first-seen order.
func (t *TransactionAnalysis) Pools() []string {
	seen := make(map[string]bool)
	var pools []string
	for _, ev := range t.SwapEvents {
		p := strings.ToLower(ev.PoolAddress)
		if p == "" || seen[p] {
			continue
		}
		seen[p] = true
		pools = append(pools, p)
	}
	return pools
}

type BlockAnalysisResult struct {
	Slot         uint64                `json:"slot"`
	BlockTime    int64                 `json:"blockTime"`
	Transactions []TransactionAnalysis `json:"transactions"`
}

type Statistics struct {
	TotalProfit                  map[string]string `json:"totalProfit"`
	ProtocolStats                map[string]int    `json:"protocolStats"`
	ProfitTokenStats             map[string]int    `json:"profitTokenStats"`
	ArbitrageTypeStats           map[string]int    `json:"arbitrageTypeStats"`
	ArbitrageTransactionsAddress []string          `json:"arbitrageTransactionsAddress"`
}

type Metadata struct {
	CreatedAt             time.Time `json:"createdAt"`
	SlotRange             string    `json:"slotRange"`
	DateRange             string    `json:"dateRange"`
	TotalBlocks           int       `json:"totalBlocks"`
	FailedBlocks          int       `json:"failedBlocks"`
	SkippedBlocks         int       `json:"skippedBlocks"`
	TotalTransactions     int       `json:"totalTransactions"`
	ArbitrageTransactions int       `json:"arbitrageTransactions"`
}

type BatchAnalysisResult struct {
	Metadata   Metadata              `json:"metadata"`
	Statistics Statistics            `json:"statistics"`
	Results    []BlockAnalysisResult `json:"results"`
}

// ProgressState is the resumable checkpoint. CurrentSlot is the next
// slot to process.
type ProgressState struct {
	CurrentSlot    uint64    `json:"currentSlot"`
	ProcessedSlots []uint64  `json:"processedSlots"`
	TotalSlots     uint64    `json:"totalSlots"`
	StartSlot      uint64    `json:"startSlot"`
	EndSlot        uint64    `json:"endSlot"`
	LastSaveTime   time.Time `json:"lastSaveTime"`
}

// SummaryEntry indexes one completed analysis artifact.
type SummaryEntry struct {
	SlotRange             string    `json:"slotRange"`
	FilePath              string    `json:"filePath"`
	CreatedAt             time.Time `json:"createdAt"`
	TotalBlocks           int       `json:"totalBlocks"`
	ArbitrageTransactions int       `json:"arbitrageTransactions"`
}
