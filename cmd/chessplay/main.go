// Command chessplay plays chess in the terminal, or speaks UCI with -uci.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"runtime/pprof"

	"github.com/hailam/chesssearch/internal/board"
	"github.com/hailam/chesssearch/internal/eval"
	"github.com/hailam/chesssearch/internal/search"
	"github.com/hailam/chesssearch/internal/session"
	"github.com/hailam/chesssearch/internal/shell"
	"github.com/hailam/chesssearch/internal/uci"
)

var (
	useUCI     = flag.Bool("uci", false, "speak the UCI protocol instead of the interactive shell")
	level      = flag.String("level", "medium", "engine strength: easy, medium or hard")
	kind       = flag.String("kind", "", "search algorithm (minimax, alphabeta, quiescence); overrides -level")
	depth      = flag.Int("depth", 0, "search depth in plies; overrides -level")
	fen        = flag.String("fen", "", "start from this position")
	cpuprofile = flag.String("cpuprofile", "", "write cpu profile to file")
)

func main() {
	flag.Parse()

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

	cfg, err := searchConfig()
	if err != nil {
		log.Fatal(err)
	}
	sess, err := session.New(cfg)
	if err != nil {
		log.Fatal(err)
	}
	if *fen != "" {
		if err := sess.LoadFEN(*fen); err != nil {
			log.Fatal(err)
		}
	}

	if *useUCI {
		err = uci.New(sess, os.Stdout).Run(os.Stdin)
	} else {
		err = shell.New(sess, os.Stdout).Run(os.Stdin)
	}
	if err != nil {
		log.Print(err)
	}
}

func searchConfig() (search.Config[*board.Position], error) {
	var d search.Difficulty
	switch *level {
	case "easy":
		d = search.Easy
	case "medium":
		d = search.Medium
	case "hard":
		d = search.Hard
	default:
		return search.Config[*board.Position]{}, fmt.Errorf("unknown level %q (want easy, medium or hard)", *level)
	}
	cfg := search.Preset(d, eval.Evaluate)

	if *kind != "" {
		k, err := search.ParseKind(*kind)
		if err != nil {
			return cfg, err
		}
		cfg.Kind = k
	}
	if *depth > 0 {
		cfg.Depth = *depth
	}
	return cfg, nil
}
