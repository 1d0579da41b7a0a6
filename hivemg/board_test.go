package hivemg

import (
	"errors"
	"math/rand"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func playAll(t *testing.T, b *Board, moves ...string) {
	t.Helper()
	for _, s := range moves {
		require.NoError(t, b.PlayString(s), "move %s", s)
	}
}

func movesOf(moves []Move, p PieceName) []Move {
	var out []Move
	for _, m := range moves {
		if m.Piece == p {
			out = append(out, m)
		}
	}
	return out
}

func TestNewBoardIsNotStarted(t *testing.T) {
	b := NewBoard(Base)
	assert.Equal(t, NotStarted, b.State())
	assert.Equal(t, White, b.CurrentColor())
	assert.Equal(t, 1, b.CurrentPlayerTurn())
	assert.Equal(t, b.ComputeZobrist(), b.Signature())
	assert.Empty(t, b.PiecesInPlay())
	assert.Equal(t, 11, b.PiecesInHand(White))
	assert.Equal(t, 14, NewBoard(BaseMLP).PiecesInHand(Black))
}

func TestFirstMoveExcludesQueen(t *testing.T) {
	b := NewBoard(Base)
	moves := b.ValidMoves()
	require.Len(t, moves, 4)
	for _, m := range moves {
		assert.NotEqual(t, QueenBee, m.Piece.BugType())
		assert.Equal(t, Origin, m.Dest)
		assert.Equal(t, 1, m.Piece.Ordinal(), "only the lowest-numbered piece is offered")
	}
}

func TestOpeningPlacementCounts(t *testing.T) {
	b := NewBoard(Base)
	playAll(t, b, "wS1")
	assert.Len(t, b.ValidMoves(), 24, "four bug types around six neighbours of the origin")

	playAll(t, b, "bS1 wS1/")
	pos, ok := b.PiecePosition(BlackSpider1)
	require.True(t, ok)
	assert.Equal(t, Origin.Neighbor(Up), pos)
	assert.Len(t, b.ValidMoves(), 15, "five bug types on the three cells away from black")
}

func TestQueenSurroundedEndsGame(t *testing.T) {
	b := NewBoard(Base)
	playAll(t, b,
		"wS1[0,0,0]", "bS1[0,1,-1]",
		"wQ[0,-1,1]", "bQ[0,2,-2]",
		"wA1[1,-1,0]", "bA1[0,3,-3]",
		"wA2[1,-2,1]", "bA2[0,4,-4]",
		"wA3[0,-2,2]", "bA3[0,5,-5]",
		"wS2[-1,-1,2]", "bS2[0,6,-6]",
	)
	require.Equal(t, InProgress, b.State())

	playAll(t, b, "wB1[-1,0,1]")
	assert.Equal(t, BlackWins, b.State())
	assert.True(t, b.GameOver())
	assert.Empty(t, b.ValidMoves())

	err := b.Play(Move{Piece: BlackBeetle1, Dest: Position{X: 0, Y: 7, Z: -7}})
	assert.ErrorIs(t, err, ErrGameOver)

	require.NoError(t, b.UndoLastMove())
	assert.Equal(t, InProgress, b.State())
}

func TestQueenMustBePlacedByFourthTurn(t *testing.T) {
	b := NewBoard(Base)
	playAll(t, b,
		"wS1[0,0,0]", "bS1[0,1,-1]",
		"wS2[0,-1,1]", "bS2[0,2,-2]",
		"wB1[0,-2,2]", "bB1[0,3,-3]",
	)
	moves := b.ValidMoves()
	require.NotEmpty(t, moves)
	for _, m := range moves {
		assert.Equal(t, WhiteQueenBee, m.Piece)
	}

	err := b.PlayString("wA1[0,-3,3]")
	var invalid *InvalidMoveError
	require.ErrorAs(t, err, &invalid)
	assert.Contains(t, invalid.Reason, "fourth turn")
}

func TestPieceCannotMoveBeforeQueen(t *testing.T) {
	b := NewBoard(Base)
	playAll(t, b, "wA1[0,0,0]", "bS1[0,1,-1]")
	assert.Empty(t, movesOf(b.ValidMoves(), WhiteSoldierAnt1))

	err := b.PlayString("wA1[1,0,-1]")
	var invalid *InvalidMoveError
	require.ErrorAs(t, err, &invalid)
	assert.Equal(t, WhiteSoldierAnt1, invalid.Move.Piece)
}

func TestPinnedPieceHasNoMoves(t *testing.T) {
	b := NewBoard(Base)
	playAll(t, b, "wS1[0,0,0]")
	assert.False(t, b.IsPinned(WhiteSpider1), "the sole piece is never pinned")

	playAll(t, b, "bS1[0,1,-1]", "wQ[0,-1,1]", "bQ[0,2,-2]")
	assert.True(t, b.IsPinned(WhiteSpider1))
	assert.False(t, b.IsPinned(WhiteQueenBee))
	assert.Empty(t, movesOf(b.ValidMoves(), WhiteSpider1))
	assert.NotEmpty(t, movesOf(b.ValidMoves(), WhiteQueenBee))

	sig := b.Signature()
	err := b.PlayString("wS1[1,0,-1]")
	var invalid *InvalidMoveError
	require.ErrorAs(t, err, &invalid)
	assert.Contains(t, invalid.Reason, "break the hive")
	assert.Equal(t, sig, b.Signature(), "failed moves leave the board unchanged")
}

func TestWrongColorIsRejected(t *testing.T) {
	b := NewBoard(Base)
	err := b.PlayString("bS1[0,0,0]")
	var invalid *InvalidMoveError
	require.ErrorAs(t, err, &invalid)
	assert.Contains(t, invalid.Reason, "White's turn")
	assert.Equal(t, NotStarted, b.State())
}

func TestPassOnlyWhenForced(t *testing.T) {
	b := NewBoard(Base)
	assert.False(t, b.MustPass())
	err := b.Play(PassMove)
	var invalid *InvalidMoveError
	require.ErrorAs(t, err, &invalid)
	assert.True(t, invalid.Move.IsPass())
}

func TestUndoWithoutHistory(t *testing.T) {
	b := NewBoard(Base)
	assert.True(t, errors.Is(b.UndoLastMove(), ErrNoMovesToUndo))
}

func TestGrasshopperJumpsLine(t *testing.T) {
	b := NewBoard(Base)
	playAll(t, b,
		"wG1[0,0,0]", "bS1[0,1,-1]",
		"wQ[0,-1,1]", "bQ[0,2,-2]",
	)
	got := movesOf(b.ValidMoves(), WhiteGrasshopper1)
	assert.Empty(t, got, "the grasshopper in the middle of the line is pinned")

	b = NewBoard(Base)
	playAll(t, b,
		"wS1[0,0,0]", "bS1[0,1,-1]",
		"wQ[0,-1,1]", "bQ[0,2,-2]",
		"wG1[0,-2,2]", "bA1[0,3,-3]",
	)
	got = movesOf(b.ValidMoves(), WhiteGrasshopper1)
	require.Len(t, got, 1)
	assert.Equal(t, Position{X: 0, Y: 4, Z: -4}, got[0].Dest)
}

func TestBeetleClimbsAndDescends(t *testing.T) {
	b := NewBoard(Base)
	playAll(t, b,
		"wS1[0,0,0]", "bS1[0,1,-1]",
		"wQ[0,-1,1]", "bQ[0,2,-2]",
		"wB1[1,-1,0]", "bA1[0,3,-3]",
	)
	climb := Move{Piece: WhiteBeetle1, Dest: Position{X: 0, Y: 0, Z: 0, Stack: 1}}
	assert.Contains(t, b.ValidMoves(), climb)
	require.NoError(t, b.Play(climb))
	assert.Equal(t, WhiteBeetle1, b.TopPieceAt(Origin))
	assert.Equal(t, WhiteSpider1, b.PieceAt(Origin))
	assert.Equal(t, 2, b.StackHeight(Origin))
	assert.Equal(t, "wB1 wS1", positionBefore(t, b).FormatMove(climb))

	playAll(t, b, "bA1[-1,0,1]")
	// From the top of the stack the beetle may step onto any neighbour.
	assert.Len(t, movesOf(b.ValidMoves(), WhiteBeetle1), 6)
	assert.False(t, b.IsPinned(WhiteSpider1), "a covered piece is never the pinned one")
}

// positionBefore replays all but the last move of b, giving the position
// the last move was played from.
func positionBefore(t *testing.T, b *Board) *Board {
	t.Helper()
	out := NewBoard(b.GameType())
	moves := b.Moves()
	for _, m := range moves[:len(moves)-1] {
		require.NoError(t, out.Play(m))
	}
	return out
}

func TestUndoRestoresBoard(t *testing.T) {
	for _, gt := range []GameType{Base, BaseMLP} {
		rng := rand.New(rand.NewSource(42))
		for game := 0; game < 10; game++ {
			b := NewBoard(gt)
			for ply := 0; ply < 60 && !b.GameOver(); ply++ {
				moves := b.ValidMoves()
				for _, m := range moves {
					before := b.Clone()
					undo := b.Apply(m)
					require.Equal(t, b.ComputeZobrist(), b.Signature(), "incremental signature after %s", m)
					undo()
					require.True(t, before.Equal(b), "undo of %s", m)
				}
				var m Move
				if len(moves) == 0 {
					m = PassMove
				} else {
					m = moves[rng.Intn(len(moves))]
				}
				require.NoError(t, b.Play(m))
			}
		}
	}
}

func TestRandomPlayoutsKeepHiveConnected(t *testing.T) {
	for _, gt := range []GameType{Base, BaseMLP} {
		rng := rand.New(rand.NewSource(7))
		for game := 0; game < 30; game++ {
			b := NewBoard(gt)
			for ply := 0; ply < 120 && !b.GameOver(); ply++ {
				moves := b.ValidMoves()
				pinned := b.pinnedPieces()
				for _, m := range moves {
					if b.PieceInPlay(m.Piece) && m.Piece.Color() == b.CurrentColor() && pinned[m.Piece] {
						t.Fatalf("pinned piece %s generated move %s", m.Piece, m)
					}
				}
				if len(moves) == 0 {
					require.NoError(t, b.Play(PassMove))
					continue
				}
				require.NoError(t, b.Play(moves[rng.Intn(len(moves))]))
				require.True(t, b.IsConnected(), "hive split after %s", b.GameString())
			}
		}
	}
}

func TestPinnedPiecesMatchFloodFill(t *testing.T) {
	rng := rand.New(rand.NewSource(11))
	for game := 0; game < 20; game++ {
		b := NewBoard(BaseMLP)
		for ply := 0; ply < 100 && !b.GameOver(); ply++ {
			pinned := b.pinnedPieces()
			for _, p := range b.PiecesInPlay() {
				cell := b.positions[p].Ground()
				want := len(b.stacks[cell]) == 1 && !b.connectedWithout(cell, true)
				require.Equal(t, want, pinned[p], "%s in %s", p, b.GameString())
				require.Equal(t, want, b.IsPinned(p), "%s in %s", p, b.GameString())
			}
			moves := b.ValidMoves()
			if len(moves) == 0 {
				require.NoError(t, b.Play(PassMove))
				continue
			}
			require.NoError(t, b.Play(moves[rng.Intn(len(moves))]))
		}
	}
}

func TestRepetitionCount(t *testing.T) {
	b := NewBoard(Base)
	playAll(t, b,
		"wS1[0,0,0]", "bS1[0,1,-1]",
		"wQ[0,-1,1]", "bQ[0,2,-2]",
	)
	assert.Equal(t, 1, b.RepetitionCount())
	// Queens shuffle out and back.
	playAll(t, b, "wQ[1,-1,0]", "bQ[1,1,-2]", "wQ[0,-1,1]", "bQ[0,2,-2]")
	assert.Equal(t, 2, b.RepetitionCount())
	playAll(t, b, "wQ[1,-1,0]")
	assert.Equal(t, 2, b.RepetitionCount())
	playAll(t, b, "bQ[1,1,-2]", "wQ[0,-1,1]", "bQ[0,2,-2]")
	assert.Equal(t, 3, b.RepetitionCount())
}

func TestCloneIsIndependent(t *testing.T) {
	b := NewBoard(Base)
	playAll(t, b, "wS1", "bS1 wS1/")
	c := b.Clone()
	require.True(t, c.Equal(b))
	playAll(t, c, "wQ /wS1")
	assert.False(t, c.Equal(b))
	assert.Equal(t, 2, len(b.PiecesInPlay()))
	assert.Equal(t, 3, len(c.PiecesInPlay()))
}

func TestForcedPass(t *testing.T) {
	b := NewBoard(Base)
	playAll(t, b, strings.Split("wA1[0,0,0];bB1[-1,1,0];wS1[0,-1,1];bG1[-2,2,0];wA2[1,0,-1];bA1[-3,2,1];"+
		"wQ[2,-1,-1];bQ[-3,1,2];wG1[3,-1,-2];bA2[-2,0,2];wS2[1,-2,1];bB2[-2,1,1];wG2[4,-2,-2];bA2[4,-1,-3];"+
		"wB1[4,-3,-1];bA2[2,-2,0];wS1[-3,0,3];bA1[4,-4,0];wB2[0,-2,2];bS1[-2,3,-1];wG3[-2,-1,3];bA1[-2,-2,4];"+
		"wA3[3,0,-3];bS2[-1,-3,4];wA3[2,-3,1];bA3[-3,3,0];wB1[5,-3,-2];bA3[3,-2,-1];wA3[-4,1,3];bA3[6,-4,-2];"+
		"wA3[0,-3,3];bB2[-1,0,1]", ";")...)
	require.Equal(t, White, b.CurrentColor())
	require.Equal(t, InProgress, b.State())
	assert.Empty(t, b.ValidMoves())
	assert.True(t, b.MustPass())
	assert.Equal(t, uint64(1), Perft(b, 1))

	require.NoError(t, b.Play(PassMove))
	assert.Equal(t, Black, b.CurrentColor())
	assert.Equal(t, NoPiece, b.LastMoved())
	assert.Len(t, b.ValidMoves(), 51)
	assert.Equal(t, uint64(51), Perft(b, 1))

	require.NoError(t, b.UndoLastMove())
	assert.True(t, b.MustPass())
}
