package hivemg

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func destinations(moves []Move, p PieceName) []Position {
	var out []Position
	for _, m := range movesOf(moves, p) {
		out = append(out, m.Dest)
	}
	return out
}

func cells(coords ...[3]int) []Position {
	out := make([]Position, len(coords))
	for i, c := range coords {
		out[i] = Position{X: c[0], Y: c[1], Z: c[2]}
	}
	return out
}

func TestLadybugWalksOverTheHive(t *testing.T) {
	b := NewBoard(ExpansionLadybug)
	playAll(t, b,
		"wS1[0,0,0]", "bS1[0,1,-1]",
		"wQ[0,-1,1]", "bQ[0,2,-2]",
		"wA1[1,-2,1]", "bA1[0,3,-3]",
		"wL[-1,-1,2]", "bS2[0,4,-4]",
		"wS2[1,-3,2]", "bG1[0,5,-5]",
	)
	moves := b.ValidMoves()
	assert.ElementsMatch(t, cells(
		[3]int{-1, 0, 1}, [3]int{-1, 1, 0}, [3]int{0, -2, 2}, [3]int{1, -1, 0},
		[3]int{1, 0, -1}, [3]int{2, -3, 1}, [3]int{2, -2, 0},
	), destinations(moves, WhiteLadybug))
	assert.ElementsMatch(t, cells([3]int{-2, -1, 3}, [3]int{1, -1, 0}), destinations(moves, WhiteSpider2))
	assert.Empty(t, destinations(moves, WhiteQueenBee), "the queen joins the ladybug and ant to the hive")
	assert.Empty(t, destinations(moves, WhiteSoldierAnt1))
}

func TestPillbugThrowsAdjacentPiece(t *testing.T) {
	b := NewBoard(ExpansionPillbug)
	playAll(t, b,
		"wP[0,0,0]", "bS1[0,1,-1]",
		"wQ[0,-1,1]", "bQ[0,2,-2]",
	)
	moves := b.ValidMoves()
	// Two slides of its own plus throws to the far side of the pillbug.
	assert.ElementsMatch(t, cells(
		[3]int{-1, 0, 1}, [3]int{-1, 1, 0}, [3]int{1, -1, 0}, [3]int{1, 0, -1},
	), destinations(moves, WhiteQueenBee))
	assert.Empty(t, destinations(moves, BlackSpider1), "a pinned piece cannot be thrown")

	playAll(t, b, "wQ[1,0,-1]")
	assert.Equal(t, WhiteQueenBee, b.LastMoved())
	moves = b.ValidMoves()
	assert.ElementsMatch(t, cells([3]int{-1, 2, -1}, [3]int{1, 1, -2}), destinations(moves, BlackQueenBee))
	assert.Empty(t, destinations(moves, WhiteQueenBee))
}

func TestMosquitoBorrowsPillbugThrow(t *testing.T) {
	b := NewBoard(ExpansionMosquito | ExpansionPillbug)
	playAll(t, b,
		"wM[0,0,0]", "bS1[0,1,-1]",
		"wQ[0,-1,1]", "bQ[0,2,-2]",
		"wP[1,-1,0]", "bA1[0,3,-3]",
	)
	moves := b.ValidMoves()
	assert.ElementsMatch(t, cells(
		[3]int{-1, 0, 1}, [3]int{-1, 1, 0}, [3]int{1, -2, 1},
		[3]int{1, 0, -1}, [3]int{2, -2, 0}, [3]int{2, -1, -1},
	), destinations(moves, WhiteQueenBee))
	assert.ElementsMatch(t, cells(
		[3]int{-1, 0, 1}, [3]int{-1, 1, 0}, [3]int{1, -2, 1}, [3]int{1, 0, -1},
	), destinations(moves, WhitePillbug))
	assert.Empty(t, destinations(moves, WhiteMosquito), "the mosquito holds the hive together")

	// Without a pillbug next to it the mosquito cannot throw.
	plain := NewBoard(ExpansionMosquito)
	playAll(t, plain,
		"wM[0,0,0]", "bS1[0,1,-1]",
		"wQ[0,-1,1]", "bQ[0,2,-2]",
		"wS1[1,-1,0]", "bA1[0,3,-3]",
	)
	assert.ElementsMatch(t, cells([3]int{-1, 0, 1}, [3]int{1, -2, 1}), destinations(plain.ValidMoves(), WhiteQueenBee))
}

func TestGateBlocksSlide(t *testing.T) {
	b := NewBoard(Base)
	// Both flanks of the step from (0,-1) to (1,-1) are occupied.
	b.pushTop(Origin, WhiteSpider1)
	b.pushTop(Position{X: 1, Y: -2, Z: 1}, WhiteSpider2)
	assert.False(t, b.canStep(Position{X: 0, Y: -1, Z: 1}, UpRight, 0, 0))
	// A beetle one level up passes over the same gap.
	assert.True(t, b.canStep(Position{X: 0, Y: -1, Z: 1}, UpRight, 1, 0))
	// With no flank occupied the slide would leave the hive.
	assert.False(t, b.canStep(Position{X: 5, Y: -5, Z: 0}, Up, 0, 0))
}

func TestMetrics(t *testing.T) {
	b := NewBoard(Base)
	playAll(t, b, "wS1[0,0,0]", "bS1[0,1,-1]", "wQ[0,-1,1]", "bQ[0,2,-2]")
	m := b.Metrics()
	assert.Equal(t, 4, m.PiecesInPlay)
	assert.Equal(t, 18, m.PiecesInHand)

	spider := m.Pieces[WhiteSpider1]
	assert.Equal(t, 1, spider[InPlay])
	assert.Equal(t, 1, spider[IsPinned])
	assert.Equal(t, 1, spider[FriendlyNeighborCount])
	assert.Equal(t, 1, spider[EnemyNeighborCount])
	assert.Zero(t, spider[QuietMoveCount])

	queen := m.Pieces[WhiteQueenBee]
	assert.Zero(t, queen[IsPinned])
	assert.Equal(t, 2, queen[QuietMoveCount])
	assert.Zero(t, queen[NoisyMoveCount])

	assert.Equal(t, 2, m.Pieces[BlackQueenBee][QuietMoveCount], "measured regardless of turn")
	assert.Zero(t, m.Pieces[WhiteBeetle1][InPlay])
}

func TestSoldierAntRespectsGate(t *testing.T) {
	b := NewBoard(Base)
	playAll(t, b,
		"wA1[0,0,0]", "bS1[-1,0,1]",
		"wQ[0,1,-1]", "bB1[-2,1,1]",
		"wA2[0,2,-2]", "bQ[-2,2,0]",
	)
	// [-1,1,0] has five occupied neighbours; its only open side is [-1,2,-1],
	// flanked by the white and black queens.
	pocket := Position{X: -1, Y: 1, Z: 0}
	moves := b.ValidMoves()
	got := destinations(moves, WhiteSoldierAnt2)
	assert.ElementsMatch(t, cells(
		[3]int{-3, 1, 2}, [3]int{-3, 2, 1}, [3]int{-3, 3, 0}, [3]int{-2, 0, 2},
		[3]int{-2, 3, -1}, [3]int{-1, -1, 2}, [3]int{-1, 2, -1}, [3]int{0, -1, 1},
		[3]int{1, -1, 0}, [3]int{1, 0, -1}, [3]int{1, 1, -2},
	), got)
	assert.NotContains(t, got, pocket)
	for _, m := range moves {
		if m.Piece.BugType() != SoldierAnt || !b.PieceInPlay(m.Piece) {
			continue
		}
		assert.NotEqual(t, pocket, m.Dest, "%s slid through a gate", m.Piece)
	}
}

func TestMosquitoMimicsNeighbours(t *testing.T) {
	b := NewBoard(ExpansionMosquito)
	playAll(t, b,
		"wA1[0,0,0]", "bA1[-1,0,1]",
		"wG1[1,0,-1]", "bS1[-1,-1,2]",
		"wM[0,1,-1]", "bB1[-2,1,1]",
		"wQ[1,-1,0]", "bQ[0,-2,2]",
	)
	// The mosquito touches only the ant and the grasshopper.
	got := destinations(b.ValidMoves(), WhiteMosquito)
	antSlides := cells(
		[3]int{-3, 1, 2}, [3]int{-3, 2, 1}, [3]int{-2, -1, 3}, [3]int{-2, 0, 2},
		[3]int{-2, 2, 0}, [3]int{-1, -2, 3}, [3]int{-1, 1, 0}, [3]int{0, -3, 3},
		[3]int{1, -3, 2}, [3]int{1, -2, 1}, [3]int{1, 1, -2}, [3]int{2, -2, 0},
		[3]int{2, -1, -1}, [3]int{2, 0, -2},
	)
	// Jumping over wA1 lands in a gated cell no slide reaches.
	jumps := cells([3]int{0, -1, 1}, [3]int{2, -1, -1})
	for _, p := range jumps {
		assert.Contains(t, got, p)
	}
	assert.NotContains(t, antSlides, jumps[0])
	assert.ElementsMatch(t, append(antSlides, jumps[0]), got)
}

func TestMosquitoOnTopMovesLikeBeetle(t *testing.T) {
	b := NewBoard(ExpansionMosquito)
	playAll(t, b,
		"wB1[0,0,0]", "bA1[0,1,-1]",
		"wM[-1,0,1]", "bB1[-1,2,-1]",
		"wQ[1,-1,0]", "bG1[-2,2,0]",
		"wM[0,0,0,1]", "bQ[-2,1,1]",
	)
	pos, ok := b.PiecePosition(WhiteMosquito)
	require.True(t, ok)
	assert.Equal(t, 1, pos.Stack)

	// Up top it ignores the ant below and steps one cell, climbing where
	// there is a stack.
	assert.ElementsMatch(t, []Position{
		{X: -1, Y: 0, Z: 1}, {X: -1, Y: 1, Z: 0}, {X: 0, Y: -1, Z: 1},
		{X: 1, Y: 0, Z: -1},
		{X: 0, Y: 1, Z: -1, Stack: 1}, {X: 1, Y: -1, Z: 0, Stack: 1},
	}, destinations(b.ValidMoves(), WhiteMosquito))
}
