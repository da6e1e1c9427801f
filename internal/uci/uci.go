// Package uci speaks a subset of the Universal Chess Interface over a session.
// Searches run synchronously and always to the configured depth; there is no
// clock handling and "stop" is not needed.
package uci

import (
	"bufio"
	"fmt"
	"io"
	"log"
	"strconv"
	"strings"
	"time"

	"github.com/hailam/chesssearch/internal/board"
	"github.com/hailam/chesssearch/internal/perft"
	"github.com/hailam/chesssearch/internal/search"
	"github.com/hailam/chesssearch/internal/session"
)

// UCI implements the protocol loop.
type UCI struct {
	sess *session.Session
	out  io.Writer
	// Name is reported in "id name".
	Name string
}

// New returns a protocol handler driving sess and replying on out.
func New(sess *session.Session, out io.Writer) *UCI {
	return &UCI{sess: sess, out: out, Name: "chesssearch"}
}

// Run reads commands until "quit" or end of input.
func (u *UCI) Run(in io.Reader) error {
	scanner := bufio.NewScanner(in)
	for scanner.Scan() {
		if quit := u.Execute(scanner.Text()); quit {
			return nil
		}
	}
	return scanner.Err()
}

// Execute handles one command line and reports whether the loop should end.
// Unknown commands are ignored, as the protocol requires.
func (u *UCI) Execute(line string) bool {
	parts := strings.Fields(line)
	if len(parts) == 0 {
		return false
	}
	cmd, args := parts[0], parts[1:]

	switch cmd {
	case "uci":
		u.handleUCI()
	case "isready":
		fmt.Fprintln(u.out, "readyok")
	case "ucinewgame":
		u.sess.Reset()
	case "position":
		if err := u.handlePosition(args); err != nil {
			u.info("%v", err)
		}
	case "go":
		u.handleGo(args)
	case "setoption":
		if err := u.handleSetOption(args); err != nil {
			u.info("%v", err)
		}
	case "quit":
		return true
	// Debug commands
	case "d":
		fmt.Fprint(u.out, u.sess.Position().String())
	case "perft":
		u.handlePerft(args)
	}
	return false
}

func (u *UCI) info(format string, args ...any) {
	fmt.Fprintf(u.out, "info string "+format+"\n", args...)
}

func (u *UCI) handleUCI() {
	cfg := u.sess.Search()
	fmt.Fprintf(u.out, "id name %s\n", u.Name)
	fmt.Fprintln(u.out, "id author hailam")
	fmt.Fprintln(u.out)
	fmt.Fprintf(u.out, "option name Depth type spin default %d min 1 max 32\n", cfg.Depth)
	fmt.Fprintf(u.out, "option name Kind type combo default %s var minimax var alphabeta var quiescence\n", cfg.Kind)
	fmt.Fprintf(u.out, "option name QuiescenceDepth type spin default %d min 0 max 32\n", cfg.QuiescenceDepth)
	fmt.Fprintln(u.out, "uciok")
}

// handlePosition parses
//
//	position startpos [moves m1 m2 ...]
//	position fen <fen> [moves m1 m2 ...]
//
// A bad FEN leaves the previous position in place. An illegal move stops
// the replay at the move before it.
func (u *UCI) handlePosition(args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("position: missing startpos or fen")
	}

	movesAt := len(args)
	for i, arg := range args {
		if arg == "moves" {
			movesAt = i
			break
		}
	}

	switch args[0] {
	case "startpos":
		u.sess.Reset()
	case "fen":
		if err := u.sess.LoadFEN(strings.Join(args[1:movesAt], " ")); err != nil {
			return fmt.Errorf("invalid fen: %w", err)
		}
	default:
		return fmt.Errorf("position: unknown argument %q", args[0])
	}

	if movesAt >= len(args) {
		return nil
	}
	for _, text := range args[movesAt+1:] {
		m, err := u.sess.Position().ParseMove(text)
		if err != nil {
			return fmt.Errorf("invalid move %s: %w", text, err)
		}
		if _, err := u.sess.ApplyText(m.String()); err != nil {
			return err
		}
	}
	return nil
}

func (u *UCI) handleGo(args []string) {
	for i := 0; i+1 < len(args); i++ {
		if args[i] != "depth" {
			continue
		}
		depth, err := strconv.Atoi(args[i+1])
		if err != nil || depth < 1 {
			u.info("invalid depth %q", args[i+1])
			fmt.Fprintln(u.out, "bestmove 0000")
			return
		}
		cfg := u.sess.Search()
		defer u.sess.SetSearch(cfg)
		cfg.Depth = depth
		if err := u.sess.SetSearch(cfg); err != nil {
			u.info("%v", err)
			fmt.Fprintln(u.out, "bestmove 0000")
			return
		}
		break
	}

	start := time.Now()
	m, score, err := u.sess.EngineMove()
	if err != nil {
		fmt.Fprintln(u.out, "bestmove 0000")
		return
	}
	elapsed := time.Since(start)
	fmt.Fprintf(u.out, "info depth %d score cp %d nodes %d time %d\n",
		u.sess.Search().Depth, relativeScore(score, u.sess.Position().SideToMove),
		u.sess.Nodes(), elapsed.Milliseconds())
	fmt.Fprintf(u.out, "bestmove %s\n", m)
}

// relativeScore converts a White-positive score to the side to move's view.
func relativeScore(score int, side board.Color) int {
	if side == board.Black {
		return -score
	}
	return score
}

// handleSetOption processes "setoption name <name> value <value>".
func (u *UCI) handleSetOption(args []string) error {
	var name, value []string
	var target *[]string
	for _, arg := range args {
		switch arg {
		case "name":
			target = &name
		case "value":
			target = &value
		default:
			if target != nil {
				*target = append(*target, arg)
			}
		}
	}

	cfg := u.sess.Search()
	v := strings.Join(value, " ")
	switch strings.ToLower(strings.Join(name, " ")) {
	case "depth":
		d, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("setoption Depth: %w", err)
		}
		cfg.Depth = d
	case "quiescencedepth":
		d, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("setoption QuiescenceDepth: %w", err)
		}
		cfg.QuiescenceDepth = d
	case "kind":
		k, err := search.ParseKind(v)
		if err != nil {
			return err
		}
		cfg.Kind = k
	default:
		return nil
	}
	if err := u.sess.SetSearch(cfg); err != nil {
		return err
	}
	log.Printf("[uci] search set to %s depth %d", cfg.Kind, cfg.Depth)
	return nil
}

func (u *UCI) handlePerft(args []string) {
	depth := 5
	if len(args) > 0 {
		d, err := strconv.Atoi(args[0])
		if err != nil || d < 1 {
			u.info("invalid depth %q", args[0])
			return
		}
		depth = d
	}

	start := time.Now()
	nodes := perft.Count[board.Move](u.sess.Position(), depth)
	elapsed := time.Since(start)

	fmt.Fprintf(u.out, "Nodes: %d\n", nodes)
	fmt.Fprintf(u.out, "Time: %v\n", elapsed)
	if elapsed > 0 {
		fmt.Fprintf(u.out, "NPS: %.0f\n", float64(nodes)/elapsed.Seconds())
	}
}
