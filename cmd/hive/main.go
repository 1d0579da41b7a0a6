// Command hive is the operational front end of the engine: perft counts,
// single searches and TreeStrap tuning runs.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"hive-engine/engine"
	gm "hive-engine/hivemg"
)

var (
	logLevel   string
	configPath string
)

var rootCmd = &cobra.Command{
	Use:           "hive",
	Short:         "Hive move generation, search and tuning",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var level slog.Level
		if err := level.UnmarshalText([]byte(logLevel)); err != nil {
			return fmt.Errorf("--log-level: %w", err)
		}
		slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "debug, info, warn or error")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "engine config file (YAML)")
	rootCmd.AddCommand(perftCmd, bestMoveCmd, treeStrapCmd)
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		var invalid *gm.InvalidMoveError
		var parse *gm.ParseError
		if errors.As(err, &invalid) || errors.As(err, &parse) {
			os.Exit(2)
		}
		os.Exit(1)
	}
}

func loadEngineConfig() (engine.Config, error) {
	if configPath == "" {
		cfg := engine.DefaultConfig()
		return cfg, cfg.Normalize()
	}
	return engine.LoadConfig(configPath)
}

// loadBoard parses a game string, or starts an empty game of gameType.
func loadBoard(gameString, gameType string) (*gm.Board, error) {
	if gameString != "" {
		return gm.ParseGameString(gameString)
	}
	gt, err := gm.ParseGameType(gameType)
	if err != nil {
		return nil, err
	}
	return gm.NewBoard(gt), nil
}
