package batch

import (
	"fmt"
	"path/filepath"
	"sort"
	"time"
)

const (
	progressFileName = "analysis_progress.json"
	summaryFileName  = "analysis_summary.json"
)

func (b *BatchAnalyzer) progressPath() string {
	return filepath.Join(b.cfg.OutputDir, progressFileName)
}

func (b *BatchAnalyzer) summaryPath() string {
	return filepath.Join(b.cfg.OutputDir, summaryFileName)
}

func (b *BatchAnalyzer) slotRange() string {
	return fmt.Sprintf("%d-%d", b.cfg.StartSlot, b.cfg.EndSlot)
}

// loadProgress returns the stored checkpoint if it belongs to this
// exact slot range; a checkpoint for any other range is discarded.
func (b *BatchAnalyzer) loadProgress() *ProgressState {
	var state ProgressState
	if err := readJSON(b.progressPath(), &state); err != nil {
		return nil
	}
	if state.StartSlot != b.cfg.StartSlot || state.EndSlot != b.cfg.EndSlot {
		b.log.WithField("range", b.slotRange()).Info("progress file belongs to a different range, starting fresh")
		return nil
	}
	return &state
}

func (b *BatchAnalyzer) saveProgress(nextSlot uint64, processed []uint64) {
	state := ProgressState{
		CurrentSlot:    nextSlot,
		ProcessedSlots: processed,
		TotalSlots:     b.cfg.EndSlot - b.cfg.StartSlot + 1,
		StartSlot:      b.cfg.StartSlot,
		EndSlot:        b.cfg.EndSlot,
		LastSaveTime:   time.Now(),
	}
	if err := writeJSON(b.progressPath(), &state); err != nil {
		b.log.Warnf("failed to save progress: %v", err)
	}
}

// existingAnalysis consults the summary index for a completed run over
// the same range whose artifact still exists on disk.
func (b *BatchAnalyzer) existingAnalysis() (string, bool) {
	var entries []SummaryEntry
	if err := readJSON(b.summaryPath(), &entries); err != nil {
		return "", false
	}
	for _, e := range entries {
		if e.SlotRange == b.slotRange() && fileExists(e.FilePath) {
			return e.FilePath, true
		}
	}
	return "", false
}

// updateSummary replaces any entries for the same range and keeps the
// index sorted newest first.
func (b *BatchAnalyzer) updateSummary(filePath string, result *BatchAnalysisResult) {
	var entries []SummaryEntry
	if err := readJSON(b.summaryPath(), &entries); err != nil {
		entries = nil
	}

	kept := entries[:0]
	for _, e := range entries {
		if e.SlotRange != b.slotRange() {
			kept = append(kept, e)
		}
	}
	kept = append(kept, SummaryEntry{
		SlotRange:             b.slotRange(),
		FilePath:              filePath,
		CreatedAt:             result.Metadata.CreatedAt,
		TotalBlocks:           result.Metadata.TotalBlocks,
		ArbitrageTransactions: result.Metadata.ArbitrageTransactions,
	})
	sort.Slice(kept, func(i, j int) bool {
		return kept[i].CreatedAt.After(kept[j].CreatedAt)
	})

	if err := writeJSON(b.summaryPath(), kept); err != nil {
		b.log.Warnf("failed to update analysis summary: %v", err)
	}
}
