package engine

import (
	"fmt"

	gm "hive-engine/hivemg"
)

// NumWeights is the length of the flattened weight vector: start then end,
// each bug-major then metric.
const NumWeights = 2 * gm.NumBugTypes * gm.NumMetrics

// MetricWeights holds one coefficient per bug type and metric for the start
// and the end of the game. It is a value type; share it by copying.
type MetricWeights struct {
	Start [gm.NumBugTypes][gm.NumMetrics]float64
	End   [gm.NumBugTypes][gm.NumMetrics]float64
}

// =============================================================================
// DEFAULTS
// =============================================================================

// Column order: in play, pinned, covered, noisy moves, quiet moves,
// friendly neighbours, enemy neighbours.
var defaultStartWeights = [gm.NumBugTypes][gm.NumMetrics]float64{
	gm.QueenBee:    {20, -10, -30, 4, 2, -6, -12},
	gm.Spider:      {4, -6, -8, 6, 1, 0, 0},
	gm.Beetle:      {6, -6, -8, 8, 1.5, 0, 1},
	gm.Grasshopper: {3, -4, -6, 6, 1, 0, 0},
	gm.SoldierAnt:  {8, -10, -10, 8, 1.2, 0, 0},
	gm.Mosquito:    {6, -8, -8, 8, 1.5, 0, 0},
	gm.Ladybug:     {5, -6, -8, 7, 1, 0, 0},
	gm.Pillbug:     {5, -6, -8, 4, 1, 1, 0},
}

var defaultEndWeights = [gm.NumBugTypes][gm.NumMetrics]float64{
	gm.QueenBee:    {0, -20, -40, 6, 3, -10, -30},
	gm.Spider:      {2, -8, -10, 10, 1, 0, 0},
	gm.Beetle:      {4, -8, -12, 14, 2, 0, 2},
	gm.Grasshopper: {2, -6, -8, 10, 1, 0, 0},
	gm.SoldierAnt:  {6, -12, -12, 12, 1.5, 0, 0},
	gm.Mosquito:    {5, -10, -10, 12, 2, 0, 0},
	gm.Ladybug:     {4, -8, -10, 10, 1.5, 0, 0},
	gm.Pillbug:     {4, -8, -10, 6, 1, 2, 0},
}

func DefaultMetricWeights() MetricWeights {
	return MetricWeights{Start: defaultStartWeights, End: defaultEndWeights}
}

// =============================================================================
// FLAT VIEW
// =============================================================================

func weightIndex(end bool, bt gm.BugType, m gm.Metric) int {
	i := int(bt)*gm.NumMetrics + int(m)
	if end {
		i += gm.NumBugTypes * gm.NumMetrics
	}
	return i
}

// Flatten returns the weights in the layout used by FeatureVector.
func (w MetricWeights) Flatten() []float64 {
	out := make([]float64, NumWeights)
	for bt := gm.BugType(0); bt < gm.NumBugTypes; bt++ {
		for m := gm.Metric(0); m < gm.NumMetrics; m++ {
			out[weightIndex(false, bt, m)] = w.Start[bt][m]
			out[weightIndex(true, bt, m)] = w.End[bt][m]
		}
	}
	return out
}

func MetricWeightsFromSlice(v []float64) (MetricWeights, error) {
	var w MetricWeights
	if len(v) != NumWeights {
		return w, fmt.Errorf("weight vector has %d values, want %d", len(v), NumWeights)
	}
	for bt := gm.BugType(0); bt < gm.NumBugTypes; bt++ {
		for m := gm.Metric(0); m < gm.NumMetrics; m++ {
			w.Start[bt][m] = v[weightIndex(false, bt, m)]
			w.End[bt][m] = v[weightIndex(true, bt, m)]
		}
	}
	return w, nil
}

// Dot is the linear score of a feature vector under these weights.
func (w *MetricWeights) Dot(f *FeatureVector) float64 {
	var sum float64
	for bt := gm.BugType(0); bt < gm.NumBugTypes; bt++ {
		for m := gm.Metric(0); m < gm.NumMetrics; m++ {
			sum += w.Start[bt][m] * f[weightIndex(false, bt, m)]
			sum += w.End[bt][m] * f[weightIndex(true, bt, m)]
		}
	}
	return sum
}
