package engine

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	gm "hive-engine/hivemg"
)

// =============================================================================
// SCORE CONSTANTS
// =============================================================================
const (
	WinScore  = 1_000_000
	Infinity  = 2_000_000
	DrawScore = 0
	MaxPly    = 128

	// Heuristic scores never reach this, search wins always do.
	winThreshold   = WinScore - MaxPly
	HeuristicLimit = WinScore - 1000
)

// ErrGameOver is returned when asked to search a finished game. It wraps
// hivemg.ErrGameOver.
var ErrGameOver = fmt.Errorf("engine: %w", gm.ErrGameOver)

// SearchOptions bounds one GetBestMove call. When both MaxDepth and
// MaxTime are zero the configured bounds apply.
type SearchOptions struct {
	MaxDepth int
	MaxTime  time.Duration

	// HelperThreads below zero uses the configured count.
	HelperThreads int

	// TreeStrap collects training samples from the search and, with a
	// positive configured learning rate, steps the weights after it.
	TreeStrap bool
}

// DefaultSearchOptions uses the configured bounds and helper count.
func DefaultSearchOptions() SearchOptions {
	return SearchOptions{HelperThreads: -1}
}

type SearchResult struct {
	SearchID uuid.UUID
	Move     gm.Move
	Notation string
	// Depth is the deepest completed iteration, 0 for forced moves.
	Depth     int
	Score     int
	Nodes     uint64
	Elapsed   time.Duration
	Cancelled bool
	Stats     CutStatistics
	Samples   []Sample
}

// =============================================================================
// EVENTS
// =============================================================================

type BestMoveFound struct {
	SearchID uuid.UUID
	Move     gm.Move
	Notation string
	Depth    int
	Score    int
	Nodes    uint64
	Elapsed  time.Duration
}

type SearchStarted struct {
	SearchID uuid.UUID
	GameType gm.GameType
	MaxDepth int
	MaxTime  time.Duration
	Workers  int
}

type SearchStopped struct {
	SearchID uuid.UUID
	Result   SearchResult
}

// =============================================================================
// GAME AI
// =============================================================================

// GameAI searches positions for one owner. It is safe to call GetBestMove
// from several goroutines, but they then share the transposition table.
type GameAI struct {
	cfg    Config
	logger *slog.Logger
	tt     *TransTable

	mu      sync.RWMutex
	weights map[gm.GameType]MetricWeights

	onBestMove func(BestMoveFound)
	onStarted  func(SearchStarted)
	onStopped  func(SearchStopped)
}

type GameAIOption func(*GameAI)

func WithLogger(logger *slog.Logger) GameAIOption {
	return func(ai *GameAI) {
		ai.logger = logger
	}
}

func WithWeights(gt gm.GameType, w MetricWeights) GameAIOption {
	return func(ai *GameAI) {
		ai.weights[gt] = w
	}
}

// WithTransTable shares an existing table instead of allocating one.
func WithTransTable(tt *TransTable) GameAIOption {
	return func(ai *GameAI) {
		ai.tt = tt
	}
}

// OnBestMoveFound is called after every completed iteration.
func OnBestMoveFound(fn func(BestMoveFound)) GameAIOption {
	return func(ai *GameAI) {
		ai.onBestMove = fn
	}
}

func OnSearchStarted(fn func(SearchStarted)) GameAIOption {
	return func(ai *GameAI) {
		ai.onStarted = fn
	}
}

func OnSearchStopped(fn func(SearchStopped)) GameAIOption {
	return func(ai *GameAI) {
		ai.onStopped = fn
	}
}

func NewGameAI(cfg Config, opts ...GameAIOption) (*GameAI, error) {
	if err := cfg.Normalize(); err != nil {
		return nil, err
	}
	ai := &GameAI{
		cfg:     cfg,
		weights: make(map[gm.GameType]MetricWeights),
	}
	for _, opt := range opts {
		opt(ai)
	}
	if ai.logger == nil {
		ai.logger = slog.Default()
	}
	if ai.tt == nil {
		ai.tt = NewTransTable(cfg.TranspositionTableMB)
	}
	return ai, nil
}

func (ai *GameAI) Config() Config { return ai.cfg }

func (ai *GameAI) TransTable() *TransTable { return ai.tt }

// Weights returns the weights used for gt, loading them from the config on
// first use.
func (ai *GameAI) Weights(gt gm.GameType) MetricWeights {
	ai.mu.RLock()
	w, ok := ai.weights[gt]
	ai.mu.RUnlock()
	if ok {
		return w
	}
	// Normalize has already validated every configured weight set.
	w, _ = ai.cfg.WeightsFor(gt)
	ai.mu.Lock()
	defer ai.mu.Unlock()
	if cur, ok := ai.weights[gt]; ok {
		return cur
	}
	ai.weights[gt] = w
	return w
}

func (ai *GameAI) SetWeights(gt gm.GameType, w MetricWeights) {
	ai.mu.Lock()
	ai.weights[gt] = w
	ai.mu.Unlock()
}

// ResetForNewGame drops what earlier searches stored in the table.
func (ai *GameAI) ResetForNewGame() {
	ai.tt.Clear()
}

func (ai *GameAI) bounds(opts SearchOptions) (int, time.Duration) {
	depth, limit := opts.MaxDepth, opts.MaxTime
	if depth <= 0 && limit <= 0 {
		depth, limit = ai.cfg.MaxDepth, ai.cfg.MaxTime
	}
	if depth <= 0 {
		depth = MaxPly - 1
	}
	return min(depth, MaxPly-1), max(limit, 0)
}

// GetBestMove runs iterative deepening on a copy of b and returns the best
// move of the deepest completed iteration. Cancellation and timeouts are
// not errors: the search stops cooperatively and reports what it has.
func (ai *GameAI) GetBestMove(ctx context.Context, b *gm.Board, opts SearchOptions) (SearchResult, error) {
	if b.GameOver() {
		return SearchResult{}, fmt.Errorf("%w: %s", ErrGameOver, b.State())
	}

	root := b.Clone()
	gt := root.GameType()
	weights := ai.Weights(gt)
	maxDepth, maxTime := ai.bounds(opts)
	helpers := opts.HelperThreads
	if helpers < 0 {
		helpers = ai.cfg.HelperThreads
	}
	helpers = Clamp(helpers, 0, ai.cfg.MaxHelperThreads)

	res := SearchResult{SearchID: uuid.New()}
	logger := ai.logger.With("search_id", res.SearchID)
	th := newTimeHandler(maxTime)
	moves := root.ValidMoves()
	numWorkers := max(min(helpers+1, len(moves)), 1)

	ai.emitStarted(SearchStarted{
		SearchID: res.SearchID,
		GameType: gt,
		MaxDepth: maxDepth,
		MaxTime:  maxTime,
		Workers:  numWorkers,
	})
	logger.Debug("search started",
		"game", root.GameString(),
		"max_depth", maxDepth,
		"max_time", maxTime,
		"workers", numWorkers)

	// Nothing to choose between.
	if len(moves) <= 1 {
		res.Move = gm.PassMove
		if len(moves) == 1 {
			res.Move = moves[0]
		}
		res.Notation = root.FormatMove(res.Move)
		res.Elapsed = th.Elapsed()
		ai.emitBestMove(BestMoveFound{
			SearchID: res.SearchID,
			Move:     res.Move,
			Notation: res.Notation,
			Elapsed:  res.Elapsed,
		})
		ai.finish(logger, outcomeForced, res)
		return res, nil
	}

	if maxTime > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, maxTime)
		defer cancel()
	}
	var stop atomic.Bool
	stopAfter := context.AfterFunc(ctx, func() { stop.Store(true) })
	defer stopAfter()

	workers := make([]*worker, numWorkers)
	for i := range workers {
		w := &worker{
			id:           i,
			board:        root.Clone(),
			tt:           ai.tt,
			weights:      &weights,
			stop:         &stop,
			checkMask:    uint64(ai.cfg.NodeCheckInterval - 1),
			maxBranching: ai.cfg.MaxBranchingFactor,
			treeStrap:    opts.TreeStrap,
			maxSamples:   ai.cfg.TreeStrap.MaxSamples,
		}
		w.killers.ClearKillers()
		workers[i] = w
	}

	ordered := orderRootMoves(root, moves, ai.tt)
	res.Move = ordered[0]
	res.Notation = root.FormatMove(res.Move)

	for depth := 1; depth <= maxDepth; depth++ {
		if ctx.Err() != nil {
			res.Cancelled = true
			break
		}
		if depth > 1 && th.SoftTimeExceeded() {
			break
		}
		best, score, ok := searchDepth(workers, ordered, depth)
		if !ok {
			res.Cancelled = true
			break
		}

		m := ordered[best]
		copy(ordered[1:best+1], ordered[:best])
		ordered[0] = m
		ai.tt.Store(root.Signature(), depth, 0, m, true, score, ExactFlag)

		res.Move, res.Score, res.Depth = m, score, depth
		res.Notation = root.FormatMove(m)
		res.Nodes = totalNodes(workers)
		res.Elapsed = th.Elapsed()
		ai.emitBestMove(BestMoveFound{
			SearchID: res.SearchID,
			Move:     res.Move,
			Notation: res.Notation,
			Depth:    depth,
			Score:    score,
			Nodes:    res.Nodes,
			Elapsed:  res.Elapsed,
		})
		logger.Debug("depth completed",
			"depth", depth,
			"move", res.Notation,
			"score", score,
			"nodes", res.Nodes,
			"elapsed", res.Elapsed)

		if isWinScore(score) {
			break
		}
	}

	res.Nodes = totalNodes(workers)
	res.Elapsed = th.Elapsed()
	for _, w := range workers {
		res.Stats.add(w.stats)
		if opts.TreeStrap {
			res.Samples = append(res.Samples, w.samples...)
		}
	}
	if limit := ai.cfg.TreeStrap.MaxSamples; len(res.Samples) > limit {
		res.Samples = res.Samples[:limit]
	}
	if opts.TreeStrap && ai.cfg.TreeStrap.LearningRate > 0 && len(res.Samples) > 0 {
		grad, loss := TreeStrapGradient(res.Samples)
		ai.SetWeights(gt, ApplyGradient(weights, grad, ai.cfg.TreeStrap.LearningRate))
		logger.Debug("treestrap step", "samples", len(res.Samples), "loss", loss)
	}

	outcome := outcomeCompleted
	if res.Cancelled {
		outcome = outcomeCancelled
		logger.Info("search cancelled",
			"depth", res.Depth,
			"move", res.Notation,
			"cause", context.Cause(ctx))
	}
	ai.finish(logger, outcome, res)
	return res, nil
}

// searchDepth runs one iteration across the workers and merges their best
// moves by value, then by root index. ok is false if any worker was stopped.
func searchDepth(workers []*worker, moves []gm.Move, depth int) (best, score int, ok bool) {
	results := make([]rootResult, len(workers))
	var g errgroup.Group
	for i, w := range workers {
		i, w := i, w
		g.Go(func() error {
			r, err := w.searchRoot(moves, len(workers), depth)
			results[i] = r
			return err
		})
	}
	if err := g.Wait(); err != nil {
		return 0, 0, false
	}

	best, score = -1, -Infinity
	for _, r := range results {
		if r.index < 0 {
			continue
		}
		if r.score > score || (r.score == score && r.index < best) {
			best, score = r.index, r.score
		}
	}
	return best, score, best >= 0
}

// orderRootMoves sorts the root moves once with the ordinary move scores.
// Later iterations only move the previous best to the front.
func orderRootMoves(b *gm.Board, moves []gm.Move, tt *TransTable) []gm.Move {
	var ttMove gm.Move
	var hasTTMove bool
	if e, ok := tt.TryGet(b.Signature(), 0); ok {
		ttMove, hasTTMove = e.Move, e.HasMove
	}
	list := scoreMovesList(b, moves, ttMove, hasTTMove, nil)
	ordered := make([]gm.Move, len(moves))
	for i := range list.moves {
		orderNextMove(i, &list)
		ordered[i] = list.moves[i].move
	}
	return ordered
}

func totalNodes(workers []*worker) uint64 {
	var n uint64
	for _, w := range workers {
		n += w.nodes
	}
	return n
}

func (ai *GameAI) finish(logger *slog.Logger, outcome string, res SearchResult) {
	recordSearch(outcome, &res)
	logger.Debug("search stopped",
		"outcome", outcome,
		"depth", res.Depth,
		"move", res.Notation,
		"score", res.Score,
		"nodes", res.Nodes,
		"elapsed", res.Elapsed,
		"stats", res.Stats)
	if ai.onStopped != nil {
		ai.onStopped(SearchStopped{SearchID: res.SearchID, Result: res})
	}
}

func (ai *GameAI) emitStarted(ev SearchStarted) {
	if ai.onStarted != nil {
		ai.onStarted(ev)
	}
}

func (ai *GameAI) emitBestMove(ev BestMoveFound) {
	if ai.onBestMove != nil {
		ai.onBestMove(ev)
	}
}
