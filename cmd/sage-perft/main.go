package main

import (
	"flag"
	"fmt"
	"os"
	"sort"
	"time"

	"github.com/hailam/sage/internal/board"
)

func main() {
	depth := flag.Int("depth", 0, "Perft depth (required)")
	divide := flag.Bool("divide", false, "Print per-move node counts at root")
	flag.Parse()

	if *depth <= 0 {
		fmt.Fprintln(os.Stderr, "-depth must be > 0")
		os.Exit(2)
	}

	pos := board.NewPosition()

	if *divide {
		div := board.PerftDivide(pos, *depth)
		moves := make([]board.Move, 0, len(div))
		for m := range div {
			moves = append(moves, m)
		}
		sort.Slice(moves, func(i, j int) bool { return moves[i].String() < moves[j].String() })

		var sum int64
		for _, m := range moves {
			fmt.Printf("%s: %d\n", m, div[m])
			sum += div[m]
		}
		fmt.Printf("Total: %d\n", sum)
		return
	}

	start := time.Now()
	nodes := board.Perft(pos, *depth)
	elapsed := time.Since(start)

	nps := float64(nodes) / elapsed.Seconds()
	fmt.Printf("depth %d nodes %d time %s nps %.0f\n", *depth, nodes, elapsed.Round(time.Millisecond), nps)
}
