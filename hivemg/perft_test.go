package hivemg

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPerftBaseGame(t *testing.T) {
	want := []uint64{1, 4, 96, 1440}
	for depth, nodes := range want {
		b := NewBoard(Base)
		got := Perft(b, depth)
		if got != nodes {
			t.Fatalf("perft(%d) = %d, want %d", depth, got, nodes)
		}
		assert.Equal(t, NotStarted, b.State(), "perft leaves the board untouched")
	}
}

func TestPerftExpansions(t *testing.T) {
	// Expansion bugs add three types; unique pieces cannot be offered twice.
	want := []uint64{1, 7, 294, 6678}
	for depth, nodes := range want {
		if got := Perft(NewBoard(BaseMLP), depth); got != nodes {
			t.Fatalf("perft(%d) = %d, want %d", depth, got, nodes)
		}
	}
}

func TestPerftDeep(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping deep perft in short mode")
	}
	// Depths past the opening placements reach queen and piece movement.
	cases := []struct {
		gt    GameType
		depth int
		nodes uint64
	}{
		{Base, 4, 21600},
		{Base, 5, 516240},
		{BaseMLP, 4, 151686},
	}
	for _, c := range cases {
		got, err := PerftParallel(context.Background(), NewBoard(c.gt), c.depth, 4)
		require.NoError(t, err)
		if got != c.nodes {
			t.Fatalf("%s perft(%d) = %d, want %d", c.gt, c.depth, got, c.nodes)
		}
	}
}

func TestPerftIsSumOverRootMoves(t *testing.T) {
	b := NewBoard(Base)
	playAll(t, b, "wS1[0,0,0]", "bS1[0,1,-1]", "wQ[0,-1,1]", "bQ[0,2,-2]")
	total := Perft(b, 2)

	var sum uint64
	for _, e := range PerftDivide(b, 2) {
		undo := b.Apply(e.Move)
		assert.Equal(t, Perft(b, 1), e.Nodes, e.Notation)
		undo()
		sum += e.Nodes
	}
	assert.Equal(t, total, sum)
}

func TestPerftParallelMatchesSequential(t *testing.T) {
	b := NewBoard(BaseMLP)
	playAll(t, b, "wS1", "bS1 wS1/")
	want := Perft(b.Clone(), 3)
	for _, workers := range []int{1, 2, 3, 8} {
		got, err := PerftParallel(context.Background(), b, 3, workers)
		require.NoError(t, err)
		assert.Equal(t, want, got, "workers=%d", workers)
	}
	assert.Equal(t, 2, len(b.PiecesInPlay()))
}

func TestPerftParallelCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := PerftParallel(ctx, NewBoard(Base), 4, 4)
	assert.ErrorIs(t, err, context.Canceled)
}
