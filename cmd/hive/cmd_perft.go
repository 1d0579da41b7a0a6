package main

import (
	"fmt"
	"runtime"
	"sort"
	"time"

	"github.com/spf13/cobra"

	gm "hive-engine/hivemg"
)

var (
	perftGame     string
	perftBoard    string
	perftDepth    int
	perftParallel int
	perftDivide   bool
	perftRepeat   int
)

var perftCmd = &cobra.Command{
	Use:   "perft",
	Short: "Count leaf nodes of the move tree",
	RunE:  runPerft,
}

func init() {
	f := perftCmd.Flags()
	f.StringVar(&perftGame, "game", "Base", "game type, e.g. Base+MLP")
	f.StringVar(&perftBoard, "board", "", "game string to start from instead of an empty board")
	f.IntVar(&perftDepth, "depth", 4, "perft depth")
	f.IntVar(&perftParallel, "parallel", runtime.NumCPU(), "workers for the root split; 1 runs sequentially")
	f.BoolVar(&perftDivide, "divide", false, "print per-move node counts at the root")
	f.IntVar(&perftRepeat, "repeat", 1, "repeat the count for steadier timings")
}

func runPerft(cmd *cobra.Command, args []string) error {
	if perftDepth <= 0 {
		return fmt.Errorf("--depth must be > 0")
	}
	b, err := loadBoard(perftBoard, perftGame)
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()

	if perftDivide {
		div := gm.PerftDivide(b, perftDepth)
		sort.Slice(div, func(i, j int) bool { return div[i].Notation < div[j].Notation })
		var sum uint64
		for _, e := range div {
			fmt.Fprintf(out, "%s: %d\n", e.Notation, e.Nodes)
			sum += e.Nodes
		}
		fmt.Fprintf(out, "Total: %d\n", sum)
		return nil
	}

	var total uint64
	start := time.Now()
	for i := 0; i < max(perftRepeat, 1); i++ {
		n, err := gm.PerftParallel(cmd.Context(), b, perftDepth, perftParallel)
		if err != nil {
			return err
		}
		total += n
	}
	elapsed := time.Since(start)
	nps := float64(total) / max(elapsed.Seconds(), 1e-9)

	// Depth Nodes Time NPS
	fmt.Fprintf(out, "%s \t%d \t\t%d \t\t%s \t%.0f\n", b.GameType(), perftDepth, total, elapsed, nps)
	return nil
}
