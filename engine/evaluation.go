package engine

import (
	"math"

	gm "hive-engine/hivemg"
)

// FeatureVector is the phase-split metric difference (side to move minus
// opponent) that the weights are dotted with.
type FeatureVector [NumWeights]float64

// Features measures b from the side to move's point of view. The start half
// is scaled by the fraction of pieces still in hand, the end half by the
// fraction in play.
func Features(b *gm.Board) FeatureVector {
	var f FeatureVector
	bm := b.Metrics()
	side := b.CurrentColor()

	var diff [gm.NumBugTypes][gm.NumMetrics]float64
	for _, p := range b.GameType().Pieces() {
		sign := 1.0
		if p.Color() != side {
			sign = -1.0
		}
		bt := p.BugType()
		for m := gm.Metric(0); m < gm.NumMetrics; m++ {
			diff[bt][m] += sign * float64(bm.Pieces[p][m])
		}
	}

	start := 1.0
	if total := bm.PiecesInPlay + bm.PiecesInHand; total > 0 {
		start = float64(bm.PiecesInHand) / float64(total)
	}
	for bt := gm.BugType(0); bt < gm.NumBugTypes; bt++ {
		for m := gm.Metric(0); m < gm.NumMetrics; m++ {
			f[weightIndex(false, bt, m)] = start * diff[bt][m]
			f[weightIndex(true, bt, m)] = (1 - start) * diff[bt][m]
		}
	}
	return f
}

// Evaluate returns the static score of b for the side to move. Finished
// games get the terminal score; everything else stays strictly inside
// the heuristic range.
func Evaluate(b *gm.Board, w *MetricWeights) int {
	if b.GameOver() {
		return terminalScore(b, 0)
	}
	f := Features(b)
	return heuristicScore(w.Dot(&f))
}

func heuristicScore(v float64) int {
	return Clamp(int(math.Round(v)), -HeuristicLimit, HeuristicLimit)
}

// terminalScore scores a finished game for the side to move, preferring
// faster wins and slower losses.
func terminalScore(b *gm.Board, ply int) int {
	var winner gm.Color
	switch b.State() {
	case gm.WhiteWins:
		winner = gm.White
	case gm.BlackWins:
		winner = gm.Black
	default:
		return DrawScore
	}
	if winner == b.CurrentColor() {
		return WinScore - ply
	}
	return -WinScore + ply
}
