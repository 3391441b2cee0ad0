package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"runtime/pprof"

	"github.com/hailam/sage/internal/board"
	"github.com/hailam/sage/internal/game"
	"github.com/hailam/sage/internal/storage"
)

var (
	games      = flag.Int("games", 1, "number of games to play")
	seed       = flag.Int64("seed", 0, "random seed (0 = time based)")
	maxPlies   = flag.Int("max-plies", 500, "adjudicate a draw after this many plies (0 = no limit)")
	fiftyMoves = flag.Bool("fifty", true, "adjudicate the fifty-move rule")
	dbDir      = flag.String("db", "", "game database directory (default: platform data dir)")
	noRecord   = flag.Bool("no-record", false, "do not store finished games")
	verbose    = flag.Bool("v", false, "log every move")
	cpuprofile = flag.String("cpuprofile", "", "write cpu profile to file")
)

func main() {
	flag.Parse()

	// Start CPU profiling if requested (via flag or environment variable)
	profilePath := *cpuprofile
	if profilePath == "" {
		profilePath = os.Getenv("CPUPROFILE")
	}
	if profilePath != "" {
		f, err := os.Create(profilePath)
		if err != nil {
			log.Fatal("could not create CPU profile: ", err)
		}
		defer f.Close()
		if err := pprof.StartCPUProfile(f); err != nil {
			log.Fatal("could not start CPU profile: ", err)
		}
		defer pprof.StopCPUProfile()
		log.Printf("CPU profiling enabled, writing to %s", profilePath)
	}

	var store *storage.Storage
	if !*noRecord {
		var err error
		store, err = openStorage(*dbDir)
		if err != nil {
			log.Fatalf("could not open game database: %v", err)
		}
		defer store.Close()
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	runner := &game.Runner{
		White:                game.NewRandomPolicy(*seed),
		Black:                game.NewRandomPolicy(*seed + 1),
		MaxPlies:             *maxPlies,
		FiftyMoveRule:        *fiftyMoves,
		InsufficientMaterial: true,
	}
	if *verbose {
		runner.Logger = log.Default()
	}

	for i := 1; i <= *games; i++ {
		res, err := runner.Run(ctx, board.NewPosition())
		if err != nil {
			log.Printf("Game %d stopped after %d plies: %v", i, pliesOf(res), err)
			break
		}
		log.Printf("Game %d: %v (%s) in %d plies, %s", i, res.State, res.Reason, res.Plies, res.Duration)

		if store != nil {
			if err := store.RecordGame(storage.NewRecord("selfplay", "random", "random", res)); err != nil {
				log.Printf("Warning: game %d not recorded: %v", i, err)
			}
		}
	}

	if store != nil {
		stats, err := store.LoadStats()
		if err != nil {
			log.Printf("Warning: could not load stats: %v", err)
			return
		}
		log.Printf("Totals: %d games, white %d, black %d, draws %d, %.1f plies on average",
			stats.GamesPlayed, stats.WhiteWins, stats.BlackWins, stats.Draws, stats.AveragePlies())
	}
}

func openStorage(dir string) (*storage.Storage, error) {
	if dir == "" {
		return storage.NewStorage()
	}
	return storage.Open(dir)
}

func pliesOf(res *game.Result) int {
	if res == nil {
		return 0
	}
	return res.Plies
}
