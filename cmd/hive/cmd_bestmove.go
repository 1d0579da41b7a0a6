package main

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/spf13/cobra"

	"hive-engine/engine"
)

var (
	bestGame    string
	bestBoard   string
	bestDepth   int
	bestTime    time.Duration
	bestHelpers int
	bestWeights string
)

var bestMoveCmd = &cobra.Command{
	Use:   "bestmove",
	Short: "Search a position and print the best move",
	RunE:  runBestMove,
}

func init() {
	f := bestMoveCmd.Flags()
	f.StringVar(&bestGame, "game", "Base", "game type of the empty board when --board is not given")
	f.StringVar(&bestBoard, "board", "", "game string of the position to search")
	f.IntVar(&bestDepth, "depth", 0, "maximum depth; 0 uses the config")
	f.DurationVar(&bestTime, "time", 0, "maximum time; 0 uses the config")
	f.IntVar(&bestHelpers, "helpers", -1, "helper threads; -1 uses the config")
	f.StringVar(&bestWeights, "weights", "", "YAML weights file to search with")
}

func runBestMove(cmd *cobra.Command, args []string) error {
	cfg, err := loadEngineConfig()
	if err != nil {
		return err
	}
	b, err := loadBoard(bestBoard, bestGame)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	opts := []engine.GameAIOption{
		engine.WithLogger(slog.Default()),
		engine.OnBestMoveFound(func(ev engine.BestMoveFound) {
			fmt.Fprintf(out, "info depth %d score %d nodes %d time %d move %s\n",
				ev.Depth, ev.Score, ev.Nodes, ev.Elapsed.Milliseconds(), ev.Notation)
		}),
	}
	if bestWeights != "" {
		w, err := engine.LoadWeights(bestWeights, b.GameType())
		if err != nil {
			return err
		}
		opts = append(opts, engine.WithWeights(b.GameType(), w))
	}
	ai, err := engine.NewGameAI(cfg, opts...)
	if err != nil {
		return err
	}

	res, err := ai.GetBestMove(cmd.Context(), b, engine.SearchOptions{
		MaxDepth:      bestDepth,
		MaxTime:       bestTime,
		HelperThreads: bestHelpers,
	})
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "bestmove %s\n", res.Notation)
	return nil
}
