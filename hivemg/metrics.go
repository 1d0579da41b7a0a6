package hivemg

// Metric indexes the per-piece features the evaluation is built from.
type Metric int

const (
	InPlay Metric = iota
	IsPinned
	IsCovered
	NoisyMoveCount
	QuietMoveCount
	FriendlyNeighborCount
	EnemyNeighborCount

	NumMetrics = 7
)

var metricNames = [NumMetrics]string{"in_play", "pinned", "covered", "noisy_moves", "quiet_moves", "friendly_neighbors", "enemy_neighbors"}

func (m Metric) String() string {
	if m < 0 || m >= NumMetrics {
		return "unknown"
	}
	return metricNames[m]
}

func ParseMetric(s string) (Metric, error) {
	for m := Metric(0); m < NumMetrics; m++ {
		if metricNames[m] == s {
			return m, nil
		}
	}
	return 0, &ParseError{Input: s, Reason: "unknown metric"}
}

type PieceMetrics [NumMetrics]int

// BoardMetrics holds the metrics of every piece plus the phase counters.
type BoardMetrics struct {
	Pieces       [NumPieceNames]PieceMetrics
	PiecesInPlay int
	PiecesInHand int
}

// Metrics measures every piece of the game type. Move counts ignore whose
// turn it is and the last-moved restriction, so both sides are measured the
// same way. A move is noisy when it lands next to the enemy queen bee.
func (b *Board) Metrics() BoardMetrics {
	var bm BoardMetrics
	pinned := b.pinnedPieces()
	for _, p := range b.gameType.Pieces() {
		if !b.inPlay[p] {
			bm.PiecesInHand++
			continue
		}
		bm.PiecesInPlay++
		pm := &bm.Pieces[p]
		pm[InPlay] = 1
		cell := b.positions[p].Ground()
		if pinned[p] {
			pm[IsPinned] = 1
		}
		if b.top(cell) != p {
			pm[IsCovered] = 1
		} else {
			for d := Direction(0); d < NumDirections; d++ {
				if t := b.top(cell.Neighbor(d)); t != NoPiece {
					if t.Color() == p.Color() {
						pm[FriendlyNeighborCount]++
					} else {
						pm[EnemyNeighborCount]++
					}
				}
			}
		}
		if pinned[p] || pm[IsCovered] == 1 || !b.inPlay[QueenOf(p.Color())] {
			continue
		}
		set := newMoveSet(16)
		b.generatePieceMoves(&set, p)
		enemyQueen, enemyQueenInPlay := b.PiecePosition(QueenOf(p.Color().Opponent()))
		for _, m := range set.moves {
			if enemyQueenInPlay && m.Dest.Ground().IsAdjacent(enemyQueen) {
				pm[NoisyMoveCount]++
			} else {
				pm[QuietMoveCount]++
			}
		}
	}
	return bm
}
