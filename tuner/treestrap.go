package tuner

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"math/rand"
	"time"

	"hive-engine/engine"
	gm "hive-engine/hivemg"
)

// TreeStrapConfig controls a self-play weight tuning run.
type TreeStrapConfig struct {
	GameType gm.GameType

	// Per-move search bounds. SearchDepth must be at least 2 for the search
	// to produce samples.
	SearchDepth int
	MoveTime    time.Duration

	// MaxPlies ends a game that has not been decided.
	MaxPlies int
	// RandomPlies opens each game with uniformly random moves.
	RandomPlies int
	// BatchSize is the number of samples per Adam step.
	BatchSize    int
	LearningRate float64
	// QueenStepScale multiplies the learning rate of the Queen Bee terms.
	QueenStepScale float64
	Seed           int64

	// CheckpointPath is optional. An existing checkpoint is resumed.
	CheckpointPath  string
	CheckpointEvery int // games
	// WeightsPath, if set, receives the weights as YAML at every checkpoint.
	WeightsPath string
}

func DefaultTreeStrapConfig() TreeStrapConfig {
	return TreeStrapConfig{
		GameType:        gm.BaseMLP,
		SearchDepth:     3,
		MoveTime:        500 * time.Millisecond,
		MaxPlies:        120,
		RandomPlies:     4,
		BatchSize:       512,
		LearningRate:    0.05,
		QueenStepScale:  0.25,
		Seed:            1,
		CheckpointEvery: 10,
	}
}

// Trainer plays games against itself and fits the evaluation weights to
// the values its own searches back up.
type Trainer struct {
	cfg    TreeStrapConfig
	ai     *engine.GameAI
	opt    *Adam
	rng    *rand.Rand
	logger *slog.Logger

	state Checkpoint
	batch []engine.Sample
}

// NewTrainer builds the trainer around its own GameAI. The engine's
// built-in gradient step is disabled; Adam does the updates.
func NewTrainer(engineCfg engine.Config, cfg TreeStrapConfig, logger *slog.Logger) (*Trainer, error) {
	if cfg.SearchDepth < 2 {
		return nil, fmt.Errorf("treestrap search depth %d is below 2", cfg.SearchDepth)
	}
	if cfg.BatchSize <= 0 {
		return nil, fmt.Errorf("treestrap batch size must be positive")
	}
	if cfg.QueenStepScale <= 0 {
		return nil, fmt.Errorf("treestrap queen step scale must be positive")
	}
	if logger == nil {
		logger = slog.Default()
	}
	engineCfg.TreeStrap.LearningRate = 0
	ai, err := engine.NewGameAI(engineCfg, engine.WithLogger(logger))
	if err != nil {
		return nil, err
	}

	t := &Trainer{
		cfg:    cfg,
		ai:     ai,
		opt:    NewAdam(engine.NumWeights, cfg.LearningRate),
		rng:    rand.New(rand.NewSource(cfg.Seed)),
		logger: logger.With("component", "treestrap", "game_type", cfg.GameType.String()),
		state:  Checkpoint{GameType: cfg.GameType.String()},
	}
	t.opt.Scale = queenStepScale(cfg.QueenStepScale)

	if cfg.CheckpointPath != "" {
		cp, err := LoadCheckpoint(cfg.CheckpointPath)
		switch {
		case err == nil:
			if cp.GameType != cfg.GameType.String() {
				return nil, fmt.Errorf("checkpoint is for %s, not %s", cp.GameType, cfg.GameType)
			}
			w, err := engine.MetricWeightsFromSlice(cp.Weights)
			if err != nil {
				return nil, err
			}
			ai.SetWeights(cfg.GameType, w)
			cp.restoreAdam(t.opt)
			t.state = *cp
			t.logger.Info("resumed checkpoint", "path", cfg.CheckpointPath, "games", cp.Games, "updates", cp.Updates)
		case errors.Is(err, fs.ErrNotExist):
		default:
			return nil, err
		}
	}
	return t, nil
}

func (t *Trainer) Weights() engine.MetricWeights { return t.ai.Weights(t.cfg.GameType) }

// Games and Updates count over the whole run, including resumed ones.
func (t *Trainer) Games() int   { return t.state.Games }
func (t *Trainer) Updates() int { return t.state.Updates }

// Run plays games until ctx is cancelled, then writes a final checkpoint.
func (t *Trainer) Run(ctx context.Context) error {
	return t.RunGames(ctx, 0)
}

// RunGames plays up to n games, or until ctx is cancelled when n is 0.
func (t *Trainer) RunGames(ctx context.Context, n int) error {
	for played := 0; n == 0 || played < n; played++ {
		if ctx.Err() != nil {
			break
		}
		if err := t.playGame(ctx); err != nil {
			return err
		}
		if ctx.Err() != nil {
			break
		}
		t.state.Games++
		if t.cfg.CheckpointEvery > 0 && t.state.Games%t.cfg.CheckpointEvery == 0 {
			if err := t.checkpoint(); err != nil {
				return err
			}
		}
	}
	return t.checkpoint()
}

func (t *Trainer) playGame(ctx context.Context) error {
	// Entries from the last game were scored with older weights.
	t.ai.ResetForNewGame()
	b := gm.NewBoard(t.cfg.GameType)
	for ply := 0; ply < t.cfg.MaxPlies && !b.GameOver(); ply++ {
		var m gm.Move
		if ply < t.cfg.RandomPlies {
			m = t.randomMove(b)
		} else {
			res, err := t.ai.GetBestMove(ctx, b, engine.SearchOptions{
				MaxDepth:      t.cfg.SearchDepth,
				MaxTime:       t.cfg.MoveTime,
				HelperThreads: -1,
				TreeStrap:     true,
			})
			if err != nil {
				return err
			}
			if ctx.Err() != nil {
				return nil
			}
			t.addSamples(res.Samples)
			m = res.Move
		}
		if err := b.Play(m); err != nil {
			return fmt.Errorf("self-play move %s: %w", m, err)
		}
	}
	t.logger.Debug("game finished", "state", b.State(), "plies", b.CurrentTurn())
	return nil
}

func (t *Trainer) randomMove(b *gm.Board) gm.Move {
	moves := b.ValidMoves()
	if len(moves) == 0 {
		return gm.PassMove
	}
	return moves[t.rng.Intn(len(moves))]
}

func (t *Trainer) addSamples(samples []engine.Sample) {
	t.batch = append(t.batch, samples...)
	t.state.Samples += len(samples)
	if len(t.batch) >= t.cfg.BatchSize {
		t.update(t.batch[:t.cfg.BatchSize])
		// The rest were scored with the old weights.
		t.batch = t.batch[:0]
	}
}

func (t *Trainer) update(samples []engine.Sample) {
	grad, loss := engine.TreeStrapGradient(samples)
	params := t.Weights().Flatten()
	t.opt.Step(params, grad)
	w, err := engine.MetricWeightsFromSlice(params)
	if err != nil {
		t.logger.Error("dropping update", "err", err)
		return
	}
	t.ai.SetWeights(t.cfg.GameType, w)
	t.state.Updates++
	t.logger.Info("treestrap update",
		"update", t.state.Updates,
		"games", t.state.Games,
		"samples", len(samples),
		"loss", loss)
}

func (t *Trainer) checkpoint() error {
	t.state.Weights = t.Weights().Flatten()
	t.state.captureAdam(t.opt)
	if t.cfg.CheckpointPath != "" {
		if err := SaveCheckpoint(t.cfg.CheckpointPath, &t.state); err != nil {
			return fmt.Errorf("save checkpoint: %w", err)
		}
	}
	if t.cfg.WeightsPath != "" {
		if err := engine.SaveWeights(t.cfg.WeightsPath, t.cfg.GameType, t.Weights()); err != nil {
			return err
		}
	}
	t.logger.Info("checkpoint", "games", t.state.Games, "updates", t.state.Updates, "samples", t.state.Samples)
	return nil
}
