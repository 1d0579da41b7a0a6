package hivemg

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// Perft counts the leaf nodes of the move tree to the given depth. A forced
// pass counts as one move; finished games are leaves with no children.
func Perft(b *Board, depth int) uint64 {
	if depth == 0 {
		return 1
	}
	if b.GameOver() {
		return 0
	}
	moves := b.ValidMoves()
	if len(moves) == 0 {
		moves = []Move{PassMove}
	}
	if depth == 1 {
		return uint64(len(moves))
	}
	var nodes uint64
	for _, m := range moves {
		undo := b.Apply(m)
		nodes += Perft(b, depth-1)
		undo()
	}
	return nodes
}

type DivideEntry struct {
	Move     Move
	Notation string
	Nodes    uint64
}

// PerftDivide reports the perft count below each root move.
func PerftDivide(b *Board, depth int) []DivideEntry {
	if depth < 1 || b.GameOver() {
		return nil
	}
	moves := b.ValidMoves()
	if len(moves) == 0 {
		moves = []Move{PassMove}
	}
	out := make([]DivideEntry, 0, len(moves))
	for _, m := range moves {
		entry := DivideEntry{Move: m, Notation: b.FormatMove(m)}
		undo := b.Apply(m)
		entry.Nodes = Perft(b, depth-1)
		undo()
		out = append(out, entry)
	}
	return out
}

// PerftParallel splits the root moves across workers, each with its own board
// clone, and sums their counts. b is not modified. A cancelled context
// returns ctx.Err() since a partial count is meaningless.
func PerftParallel(ctx context.Context, b *Board, depth, workers int) (uint64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	if depth < 2 || workers < 2 || b.GameOver() {
		return Perft(b.Clone(), depth), nil
	}
	moves := b.ValidMoves()
	if len(moves) == 0 {
		moves = []Move{PassMove}
	}
	workers = min(workers, len(moves))

	counts := make([]uint64, workers)
	g, gctx := errgroup.WithContext(ctx)
	for w := 0; w < workers; w++ {
		w := w
		g.Go(func() error {
			local := b.Clone()
			for i := w; i < len(moves); i += workers {
				if err := gctx.Err(); err != nil {
					return err
				}
				undo := local.Apply(moves[i])
				n, err := perftContext(gctx, local, depth-1)
				undo()
				if err != nil {
					return err
				}
				counts[w] += n
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return 0, err
	}
	var total uint64
	for _, n := range counts {
		total += n
	}
	return total, nil
}

// perftContext is Perft with a cancellation check at every node more than
// two plies above the leaves.
func perftContext(ctx context.Context, b *Board, depth int) (uint64, error) {
	if depth <= 2 {
		return Perft(b, depth), nil
	}
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	if b.GameOver() {
		return 0, nil
	}
	moves := b.ValidMoves()
	if len(moves) == 0 {
		moves = []Move{PassMove}
	}
	var nodes uint64
	for _, m := range moves {
		undo := b.Apply(m)
		n, err := perftContext(ctx, b, depth-1)
		undo()
		if err != nil {
			return 0, err
		}
		nodes += n
	}
	return nodes, nil
}
