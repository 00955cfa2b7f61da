package batch

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/sirupsen/logrus"
)

// Config tunes a slot-range run.
type Config struct {
	StartSlot      uint64
	EndSlot        uint64
	OutputDir      string
	SaveInterval   int
	RetryAttempts  int
	RetryBaseDelay time.Duration
}

const (
	defaultSaveInterval   = 10
	defaultRetryAttempts  = 5
	defaultRetryBaseDelay = 1000 * time.Millisecond
)

// BatchAnalyzer walks the slot range in strictly ascending order.
// Ordering is load-bearing: inter/backrun classification reads the
// pool history of earlier slots.
type BatchAnalyzer struct {
	cfg      Config
	fetcher  BlockFetcher
	analyzer *Analyzer
	log      *logrus.Logger
}

func NewBatchAnalyzer(cfg Config, fetcher BlockFetcher, analyzer *Analyzer, log *logrus.Logger) (*BatchAnalyzer, error) {
	if cfg.StartSlot > cfg.EndSlot {
		return nil, fmt.Errorf("invalid slot range %d-%d", cfg.StartSlot, cfg.EndSlot)
	}
	if cfg.SaveInterval <= 0 {
		cfg.SaveInterval = defaultSaveInterval
	}
	if cfg.RetryAttempts <= 0 {
		cfg.RetryAttempts = defaultRetryAttempts
	}
	if cfg.RetryBaseDelay <= 0 {
		cfg.RetryBaseDelay = defaultRetryBaseDelay
	}
	return &BatchAnalyzer{
		cfg:      cfg,
		fetcher:  fetcher,
		analyzer: analyzer,
		log:      log,
	}, nil
}

// Run analyzes the configured range and returns the artifact path and
// result. A completed run over the same range short-circuits to its
// existing artifact. On context cancellation the checkpoint is saved
// at the current slot boundary and the context error returned.
func (b *BatchAnalyzer) Run(ctx context.Context) (string, *BatchAnalysisResult, error) {
	if path, ok := b.existingAnalysis(); ok {
		b.log.WithField("file", path).Info("analysis for this range already exists")
		var existing BatchAnalysisResult
		if err := readJSON(path, &existing); err != nil {
			return "", nil, fmt.Errorf("load existing analysis: %w", err)
		}
		return path, &existing, nil
	}

	current := b.cfg.StartSlot
	var processed []uint64
	if state := b.loadProgress(); state != nil {
		current = state.CurrentSlot
		processed = state.ProcessedSlots
		b.log.WithFields(logrus.Fields{
			"slot":      current,
			"processed": len(processed),
		}).Info("resuming from checkpoint")
	}

	history := make(PoolHistory)
	var blocks []BlockAnalysisResult
	totalTx, arbTx, failed, skipped := 0, 0, 0, 0

	for slot := current; slot <= b.cfg.EndSlot; slot++ {
		select {
		case <-ctx.Done():
			b.saveProgress(slot, processed)
			return "", nil, ctx.Err()
		default:
		}

		block, err := b.fetchWithRetry(ctx, slot)
		if err != nil {
			if ctx.Err() != nil {
				b.saveProgress(slot, processed)
				return "", nil, ctx.Err()
			}
			failed++
			b.log.WithField("slot", slot).Errorf("giving up on block: %v", err)
			continue
		}
		if block == nil {
			skipped++
			processed = append(processed, slot)
			continue
		}

		blockResult := BlockAnalysisResult{
			Slot:      slot,
			BlockTime: block.BlockTime.Unix(),
		}
		for _, btx := range block.Transactions {
			totalTx++
			analysis := b.analyzer.AnalyzeTransaction(btx.Tx, btx.Meta, slot, history)
			if analysis == nil {
				continue
			}
			for _, pool := range analysis.Pools() {
				history.Append(pool, analysis.Signature, slot)
			}
			if analysis.ArbitrageInfo != nil {
				arbTx++
			}
			blockResult.Transactions = append(blockResult.Transactions, *analysis)
		}
		if len(blockResult.Transactions) > 0 {
			blocks = append(blocks, blockResult)
		}

		processed = append(processed, slot)
		if len(processed)%b.cfg.SaveInterval == 0 {
			b.saveProgress(slot+1, processed)
		}
	}

	result := &BatchAnalysisResult{
		Metadata: Metadata{
			CreatedAt:             time.Now(),
			SlotRange:             b.slotRange(),
			DateRange:             dateRange(blocks),
			TotalBlocks:           len(processed),
			FailedBlocks:          failed,
			SkippedBlocks:         skipped,
			TotalTransactions:     totalTx,
			ArbitrageTransactions: arbTx,
		},
		Statistics: calculateStatistics(blocks),
		Results:    blocks,
	}

	path := filepath.Join(b.cfg.OutputDir, fmt.Sprintf("solana_arb_%s.json", b.slotRange()))
	if err := writeJSON(path, result); err != nil {
		return "", nil, fmt.Errorf("save analysis: %w", err)
	}
	b.updateSummary(path, result)
	safeDelete(b.progressPath(), b.log)

	b.log.WithFields(logrus.Fields{
		"file":      path,
		"blocks":    len(processed),
		"failed":    failed,
		"skipped":   skipped,
		"txs":       totalTx,
		"arbitrage": arbTx,
	}).Info("batch analysis complete")

	return path, result, nil
}

// fetchWithRetry fetches one block, backing off with doubling delays
// between attempts.
func (b *BatchAnalyzer) fetchWithRetry(ctx context.Context, slot uint64) (*BlockData, error) {
	delay := b.cfg.RetryBaseDelay
	var lastErr error

	for attempt := 1; attempt <= b.cfg.RetryAttempts; attempt++ {
		block, err := b.fetcher.GetBlock(ctx, slot)
		if err == nil {
			return block, nil
		}
		lastErr = err
		b.log.WithFields(logrus.Fields{
			"slot":    slot,
			"attempt": attempt,
		}).Warnf("block fetch failed: %v", err)

		if attempt == b.cfg.RetryAttempts {
			break
		}
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(delay):
		}
		delay *= 2
	}

	return nil, fmt.Errorf("fetch slot %d after %d attempts: %w", slot, b.cfg.RetryAttempts, lastErr)
}

func dateRange(blocks []BlockAnalysisResult) string {
	if len(blocks) == 0 {
		return ""
	}
	first := time.Unix(blocks[0].BlockTime, 0).UTC()
	last := time.Unix(blocks[len(blocks)-1].BlockTime, 0).UTC()
	return fmt.Sprintf("%s - %s", first.Format(time.RFC3339), last.Format(time.RFC3339))
}
