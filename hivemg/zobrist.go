package hivemg

// Zobrist keys. The board is unbounded so keys are derived from the
// (piece, cell, level) triple with a mixer instead of a lookup table.
// A fixed seed keeps signatures reproducible across runs.
const zobristSeed uint64 = 0xC0DE

var zobristSide uint64 // black to move
var zobristLastMoved [NumPieceNames]uint64

func init() {
	initZobrist()
}

func initZobrist() {
	state := zobristSeed
	zobristSide = splitmix64(&state)
	for p := range zobristLastMoved {
		zobristLastMoved[p] = splitmix64(&state)
	}
}

func splitmix64(state *uint64) uint64 {
	*state += 0x9E3779B97F4A7C15
	z := *state
	z = (z ^ (z >> 30)) * 0xBF58476D1CE4E5B9
	z = (z ^ (z >> 27)) * 0x94D049BB133111EB
	return z ^ (z >> 31)
}

// zobristPiece is the key of piece p standing at pos.
func zobristPiece(p PieceName, pos Position) uint64 {
	// z is implied by x and y.
	packed := uint64(p)<<48 ^
		uint64(uint16(int16(pos.X)))<<32 ^
		uint64(uint16(int16(pos.Y)))<<16 ^
		uint64(uint16(pos.Stack))
	state := zobristSeed ^ packed*0xD6E8FEB86659FD93
	return splitmix64(&state)
}

// ComputeZobrist recomputes the signature from scratch. Play and Apply keep
// it up to date incrementally; this is used to verify them.
func (b *Board) ComputeZobrist() uint64 {
	var key uint64
	for p := PieceName(0); p < NumPieceNames; p++ {
		if b.inPlay[p] {
			key ^= zobristPiece(p, b.positions[p])
		}
	}
	if b.CurrentColor() == Black {
		key ^= zobristSide
	}
	if b.lastMoved != NoPiece {
		key ^= zobristLastMoved[b.lastMoved]
	}
	return key
}
