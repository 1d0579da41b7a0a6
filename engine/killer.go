package engine

import gm "hive-engine/hivemg"

// KillerStruct keeps two quiet moves per ply that caused a beta cutoff.
// PassMove marks an empty slot; it never appears in a generated move list.
type KillerStruct struct {
	KillerMoves [MaxPly + 1][2]gm.Move
}

func (k *KillerStruct) InsertKiller(move gm.Move, ply int) {
	if ply > MaxPly {
		return
	}
	if move != k.KillerMoves[ply][0] {
		k.KillerMoves[ply][1] = k.KillerMoves[ply][0]
		k.KillerMoves[ply][0] = move
	}
}

// Clear the killer moves table.
func (k *KillerStruct) ClearKillers() {
	for ply := range k.KillerMoves {
		k.KillerMoves[ply][0] = gm.PassMove
		k.KillerMoves[ply][1] = gm.PassMove
	}
}
