package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	gm "hive-engine/hivemg"
	"hive-engine/tuner"
)

var (
	tsGame        string
	tsDepth       int
	tsMoveTime    time.Duration
	tsMaxPlies    int
	tsRandomPlies int
	tsBatch       int
	tsRate        float64
	tsQueenScale  float64
	tsSeed        int64
	tsGames       int
	tsCheckpoint  string
	tsEvery       int
	tsWeightsOut  string
	tsMetricsAddr string
)

var treeStrapCmd = &cobra.Command{
	Use:   "treestrap",
	Short: "Tune evaluation weights from self-play until interrupted",
	RunE:  runTreeStrap,
}

func init() {
	d := tuner.DefaultTreeStrapConfig()
	f := treeStrapCmd.Flags()
	f.StringVar(&tsGame, "game", d.GameType.String(), "game type to tune")
	f.IntVar(&tsDepth, "depth", d.SearchDepth, "search depth per move (>= 2)")
	f.DurationVar(&tsMoveTime, "move-time", d.MoveTime, "time limit per move")
	f.IntVar(&tsMaxPlies, "max-plies", d.MaxPlies, "plies before an undecided game is abandoned")
	f.IntVar(&tsRandomPlies, "random-plies", d.RandomPlies, "random opening plies per game")
	f.IntVar(&tsBatch, "batch", d.BatchSize, "samples per update")
	f.Float64Var(&tsRate, "lr", d.LearningRate, "Adam learning rate")
	f.Float64Var(&tsQueenScale, "queen-scale", d.QueenStepScale, "learning rate multiplier for the Queen Bee terms")
	f.Int64Var(&tsSeed, "seed", d.Seed, "random seed for openings")
	f.IntVar(&tsGames, "games", 0, "games to play; 0 runs until interrupted")
	f.StringVar(&tsCheckpoint, "checkpoint", "treestrap.json", "checkpoint file, resumed if present")
	f.IntVar(&tsEvery, "checkpoint-every", d.CheckpointEvery, "games between checkpoints")
	f.StringVar(&tsWeightsOut, "weights-out", "", "YAML weights file written at every checkpoint")
	f.StringVar(&tsMetricsAddr, "metrics-addr", "", "serve Prometheus metrics on this address, e.g. :9090")
}

func runTreeStrap(cmd *cobra.Command, args []string) error {
	gt, err := gm.ParseGameType(tsGame)
	if err != nil {
		return err
	}
	engineCfg, err := loadEngineConfig()
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	if tsMetricsAddr != "" {
		srv := &http.Server{Addr: tsMetricsAddr, Handler: promhttp.Handler()}
		go func() {
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				slog.Error("metrics server", "err", err)
			}
		}()
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Second)
			defer cancel()
			_ = srv.Shutdown(shutdownCtx)
		}()
	}

	trainer, err := tuner.NewTrainer(engineCfg, tuner.TreeStrapConfig{
		GameType:        gt,
		SearchDepth:     tsDepth,
		MoveTime:        tsMoveTime,
		MaxPlies:        tsMaxPlies,
		RandomPlies:     tsRandomPlies,
		BatchSize:       tsBatch,
		LearningRate:    tsRate,
		QueenStepScale:  tsQueenScale,
		Seed:            tsSeed,
		CheckpointPath:  tsCheckpoint,
		CheckpointEvery: tsEvery,
		WeightsPath:     tsWeightsOut,
	}, slog.Default())
	if err != nil {
		return err
	}
	return trainer.RunGames(ctx, tsGames)
}
