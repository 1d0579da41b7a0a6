package engine

import gm "hive-engine/hivemg"

type move struct {
	move  gm.Move
	score uint16
}

type moveList struct {
	moves []move
}

/*
Move ordering offsets:
  - The table move is the best guess from an earlier search and goes first.
  - Killers refuted a sibling at the same ply.
  - Noisy moves land next to the enemy queen bee, where games are decided.
  - Movement before placement; placements are the bulk of most lists.
*/
var ttMoveOffset uint16 = 30000
var killerOffset1 uint16 = 20000
var killerOffset2 uint16 = 19000
var noisyOffset uint16 = 10000
var movementOffset uint16 = 1000

// Ordering the moves one at a time, at index given
func orderNextMove(currIndex int, moves *moveList) {
	bestIndex := currIndex
	bestScore := moves.moves[bestIndex].score

	for index := bestIndex + 1; index < len(moves.moves); index++ {
		if moves.moves[index].score > bestScore {
			bestIndex = index
			bestScore = moves.moves[index].score
		}
	}

	moves.moves[currIndex], moves.moves[bestIndex] = moves.moves[bestIndex], moves.moves[currIndex]
}

func scoreMovesList(b *gm.Board, moves []gm.Move, ttMove gm.Move, hasTTMove bool, killers *[2]gm.Move) moveList {
	list := moveList{moves: make([]move, len(moves))}
	enemyQueen, enemyQueenInPlay := b.PiecePosition(gm.QueenOf(b.CurrentColor().Opponent()))
	for i, m := range moves {
		var score uint16
		switch {
		case hasTTMove && m == ttMove:
			score = ttMoveOffset
		case killers != nil && m == killers[0]:
			score = killerOffset1
		case killers != nil && m == killers[1]:
			score = killerOffset2
		}
		if enemyQueenInPlay && m.Dest.Ground().IsAdjacent(enemyQueen) {
			score += noisyOffset
		}
		if b.PieceInPlay(m.Piece) {
			score += movementOffset
		}
		list.moves[i] = move{move: m, score: score}
	}
	return list
}

func isNoisy(b *gm.Board, m gm.Move) bool {
	q, ok := b.PiecePosition(gm.QueenOf(b.CurrentColor().Opponent()))
	return ok && m.Dest.Ground().IsAdjacent(q)
}
