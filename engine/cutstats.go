package engine

import "log/slog"

// CutStatistics collects counts for each cutoff mechanism.
type CutStatistics struct {
	TTCutoffs        uint64
	BetaCutoffs      uint64
	KillerCutoffs    uint64
	BranchingPrunes  uint64
	ForcedPasses     uint64
	TerminalNodes    uint64
	TTProbeHits      uint64
	TTProbeMisses    uint64
	TreeStrapSamples uint64
}

func (c *CutStatistics) add(o CutStatistics) {
	c.TTCutoffs += o.TTCutoffs
	c.BetaCutoffs += o.BetaCutoffs
	c.KillerCutoffs += o.KillerCutoffs
	c.BranchingPrunes += o.BranchingPrunes
	c.ForcedPasses += o.ForcedPasses
	c.TerminalNodes += o.TerminalNodes
	c.TTProbeHits += o.TTProbeHits
	c.TTProbeMisses += o.TTProbeMisses
	c.TreeStrapSamples += o.TreeStrapSamples
}

// LogValue groups the counters under one attribute.
func (c CutStatistics) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Uint64("tt_cutoffs", c.TTCutoffs),
		slog.Uint64("beta_cutoffs", c.BetaCutoffs),
		slog.Uint64("killer_cutoffs", c.KillerCutoffs),
		slog.Uint64("branching_prunes", c.BranchingPrunes),
		slog.Uint64("forced_passes", c.ForcedPasses),
		slog.Uint64("terminal_nodes", c.TerminalNodes),
		slog.Uint64("tt_hits", c.TTProbeHits),
		slog.Uint64("tt_misses", c.TTProbeMisses),
	)
}
