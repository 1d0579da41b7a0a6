package engine

import (
	"errors"
	"sync/atomic"

	"golang.org/x/exp/slices"

	gm "hive-engine/hivemg"
)

var errSearchAborted = errors.New("search aborted")

// worker owns one board clone and its ordering state. Workers share only
// the transposition table and the stop flag.
type worker struct {
	id           int
	board        *gm.Board
	tt           *TransTable
	weights      *MetricWeights
	killers      KillerStruct
	stop         *atomic.Bool
	checkMask    uint64
	maxBranching int

	nodes   uint64
	aborted bool
	stats   CutStatistics

	treeStrap  bool
	maxSamples int
	samples    []Sample
}

type rootResult struct {
	index int
	score int
}

// searchRoot searches root moves id, id+n, id+2n, ... with its own window
// (alpha, +inf). index is -1 when the worker had no moves.
func (w *worker) searchRoot(moves []gm.Move, n, depth int) (rootResult, error) {
	res := rootResult{index: -1, score: -Infinity}
	alpha := -Infinity
	for i := w.id; i < len(moves); i += n {
		if w.stop.Load() {
			w.aborted = true
		}
		if w.aborted {
			return res, errSearchAborted
		}
		undo := w.board.Apply(moves[i])
		score := -w.negamax(depth-1, 1, -Infinity, -alpha)
		undo()
		if w.aborted {
			return res, errSearchAborted
		}
		if score > res.score {
			res = rootResult{index: i, score: score}
		}
		alpha = max(alpha, score)
	}
	return res, nil
}

// negamax is fail-hard alpha-beta from the side to move's point of view.
func (w *worker) negamax(depth, ply, alpha, beta int) int {
	w.nodes++
	if w.nodes&w.checkMask == 0 && w.stop.Load() {
		w.aborted = true
	}
	if w.aborted {
		return 0
	}

	b := w.board
	if b.GameOver() {
		w.stats.TerminalNodes++
		return terminalScore(b, ply)
	}
	if depth <= 0 || ply >= MaxPly {
		return Evaluate(b, w.weights)
	}

	/*
		TRANSPOSITION TABLE LOOKUP
	*/
	key := b.Signature()
	alphaOrig := alpha
	var ttMove gm.Move
	var hasTTMove bool
	if e, ok := w.tt.TryGet(key, ply); ok {
		w.stats.TTProbeHits++
		ttMove, hasTTMove = e.Move, e.HasMove
		if e.Depth >= depth {
			switch {
			case e.Flag == ExactFlag:
				w.stats.TTCutoffs++
				return e.Score
			case e.Flag == BetaFlag && e.Score >= beta:
				w.stats.TTCutoffs++
				return beta
			case e.Flag == AlphaFlag && e.Score <= alpha:
				w.stats.TTCutoffs++
				return alpha
			}
		}
	} else {
		w.stats.TTProbeMisses++
	}

	moves := b.ValidMoves()
	if len(moves) == 0 {
		w.stats.ForcedPasses++
		undo := b.Apply(gm.PassMove)
		score := -w.negamax(depth-1, ply+1, -beta, -alpha)
		undo()
		return score
	}

	killers := &w.killers.KillerMoves[ply]
	list := scoreMovesList(b, moves, ttMove, hasTTMove, killers)
	n := len(list.moves)
	if w.maxBranching > 0 && n > w.maxBranching {
		w.stats.BranchingPrunes += uint64(n - w.maxBranching)
		n = w.maxBranching
	}

	bestMove, hasBest := ttMove, hasTTMove
	for i := 0; i < n; i++ {
		orderNextMove(i, &list)
		m := list.moves[i].move

		undo := b.Apply(m)
		score := -w.negamax(depth-1, ply+1, -beta, -alpha)
		undo()
		if w.aborted {
			return 0
		}

		if score > alpha {
			alpha = score
			bestMove, hasBest = m, true
		}
		if alpha >= beta {
			w.stats.BetaCutoffs++
			if slices.Contains(killers[:], m) {
				w.stats.KillerCutoffs++
			}
			if !isNoisy(b, m) && !(hasTTMove && m == ttMove) {
				w.killers.InsertKiller(m, ply)
			}
			w.tt.Store(key, depth, ply, m, true, beta, BetaFlag)
			return beta
		}
	}

	if alpha > alphaOrig {
		w.tt.Store(key, depth, ply, bestMove, true, alpha, ExactFlag)
		w.sampleNode(alpha)
	} else {
		w.tt.Store(key, depth, ply, bestMove, hasBest, alpha, AlphaFlag)
	}
	return alpha
}
