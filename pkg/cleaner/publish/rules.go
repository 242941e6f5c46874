package publish

import "github.com/jmylchreest/nbpublish/internal/notebook"

// Metadata keys written by the authoring environment.
const (
	keyWrapper         = "lc_wrapper"
	keyRunThrough      = "run_through_control"
	keyFrozen          = "frozen"
	keyCellMeme        = "lc_cell_meme"
	keyHistory         = "history"
	keyPinnedOutputs   = "pinned_outputs"
	keyNotebookMeme    = "lc_notebook_meme"
	keyServerSignature = "lc_server_signature"
)

// cellRule edits one cell.
type cellRule func(cfg *Config, cell notebook.Cell, stats *Stats)

// cellRules run in this order for every cell.
var cellRules = []cellRule{
	unwrapCell,
	unfreezeCell,
	trimCellHistory,
	clearCellOutput,
}

// applyCellRules runs every cell rule over each cell in document order.
func applyCellRules(cfg *Config, nb *notebook.Notebook, stats *Stats) {
	for _, cell := range nb.Cells() {
		stats.Cells++
		for _, rule := range cellRules {
			rule(cfg, cell, stats)
		}
	}
}

func unwrapCell(_ *Config, cell notebook.Cell, stats *Stats) {
	if cell.Metadata().Delete(keyWrapper) {
		stats.WrappersRemoved++
	}
}

func unfreezeCell(_ *Config, cell notebook.Cell, stats *Stats) {
	rtc := cell.Metadata().Map(keyRunThrough)
	if rtc == nil {
		return
	}
	if frozen, ok := rtc[keyFrozen].(bool); ok && !frozen {
		return
	}
	rtc.Set(keyFrozen, false)
	stats.CellsUnfrozen++
}

func trimCellHistory(cfg *Config, cell notebook.Cell, stats *Stats) {
	if cfg.TrimHistory == nil {
		return
	}
	stats.HistoryTrimmed += trimHistory(cell.Metadata().Map(keyCellMeme), *cfg.TrimHistory)
}

func clearCellOutput(cfg *Config, cell notebook.Cell, stats *Stats) {
	if !cfg.ClearOutput || cell.Type() != notebook.CellTypeCode {
		return
	}
	if cell.ExecutionCount() != nil || len(cell.Outputs()) > 0 {
		stats.OutputsCleared++
	}
	cell.ClearExecutionCount()
	cell.ClearOutputs()
	if cell.Metadata().Delete(keyPinnedOutputs) {
		stats.PinnedOutputsRemoved++
	}
}

// trimServerSignature runs once per notebook after all cells.
func trimServerSignature(cfg *Config, nb *notebook.Notebook, stats *Stats) {
	if cfg.TrimServerSignature == nil {
		return
	}
	meme := nb.Metadata().Map(keyNotebookMeme)
	if meme == nil {
		return
	}
	if *cfg.TrimServerSignature == 0 {
		stats.ServerSignatureRemoved = meme.Delete(keyServerSignature)
		return
	}
	stats.ServerSignatureTrimmed += trimHistory(meme.Map(keyServerSignature), *cfg.TrimServerSignature)
}

// trimHistory keeps the last n entries of m["history"] and returns the
// number of entries dropped. A missing or non-list history is left alone.
func trimHistory(m notebook.Map, n int) int {
	history, ok := m.List(keyHistory)
	if !ok {
		return 0
	}
	kept := lastN(history, n)
	m.Set(keyHistory, kept)
	return len(history) - len(kept)
}

// lastN returns the last n elements of list in their original order.
func lastN(list []any, n int) []any {
	if n <= 0 {
		return []any{}
	}
	if n >= len(list) {
		return list
	}
	out := make([]any, n)
	copy(out, list[len(list)-n:])
	return out
}
