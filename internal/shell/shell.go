// Package shell is the interactive text front end: one command per line,
// errors reported without ending the session.
package shell

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/hailam/chesssearch/internal/board"
	"github.com/hailam/chesssearch/internal/diagram"
	"github.com/hailam/chesssearch/internal/perft"
	"github.com/hailam/chesssearch/internal/session"
)

const helpText = `commands:
  new                 start a new game
  fen [FEN]           print the position, or load one
  move <move>         play a move (e2e4, e7e8q or SAN); a bare move works too
  undo                take back the last move
  perft <depth>       count leaf nodes
  divide <depth>      count leaf nodes per root move
  eval                static evaluation (White positive)
  go [depth]          let the engine play a move
  d                   show the board
  moves               list legal moves
  history             moves played so far
  diagram <file>      write an .svg or .png board diagram
  help                this text
  quit, exit          leave`

// Shell reads commands and writes replies.
type Shell struct {
	sess *session.Session
	out  io.Writer
	// DiagramSize is the PNG edge length in pixels.
	DiagramSize int
}

// New returns a shell driving sess.
func New(sess *session.Session, out io.Writer) *Shell {
	return &Shell{sess: sess, out: out, DiagramSize: 480}
}

// Run reads commands from in until quit or end of input.
func (sh *Shell) Run(in io.Reader) error {
	scanner := bufio.NewScanner(in)
	fmt.Fprint(sh.out, "> ")
	for scanner.Scan() {
		if quit := sh.Execute(scanner.Text()); quit {
			return nil
		}
		fmt.Fprint(sh.out, "> ")
	}
	return scanner.Err()
}

// Execute runs one command line and reports whether the shell should exit.
func (sh *Shell) Execute(line string) bool {
	parts := strings.Fields(line)
	if len(parts) == 0 {
		return false
	}
	cmd, args := parts[0], parts[1:]

	var err error
	switch cmd {
	case "quit", "exit":
		return true
	case "help":
		fmt.Fprintln(sh.out, helpText)
	case "new":
		sh.sess.Reset()
		fmt.Fprintln(sh.out, sh.sess.FEN())
	case "fen":
		err = sh.handleFEN(args)
	case "move":
		if len(args) != 1 {
			err = fmt.Errorf("usage: move <move>")
			break
		}
		err = sh.handleMove(args[0])
	case "undo":
		if err = sh.sess.Undo(); err == nil {
			fmt.Fprintln(sh.out, sh.sess.FEN())
		}
	case "perft":
		err = sh.handlePerft(args)
	case "divide":
		err = sh.handleDivide(args)
	case "eval":
		fmt.Fprintf(sh.out, "eval: %d\n", sh.sess.Evaluate())
	case "go":
		err = sh.handleGo(args)
	case "d":
		fmt.Fprint(sh.out, sh.sess.Position().String())
		if r := sh.sess.Result(); r != "" {
			fmt.Fprintln(sh.out, r)
		}
	case "moves":
		moves := sh.sess.Position().LegalMoves()
		fmt.Fprintf(sh.out, "%d: %s\n", moves.Len(), strings.Join(moves.Strings(), " "))
	case "history":
		fmt.Fprintln(sh.out, strings.Join(sh.sess.History(), " "))
	case "diagram":
		if len(args) != 1 {
			err = fmt.Errorf("usage: diagram <file.svg|file.png>")
			break
		}
		if err = diagram.WriteFile(args[0], sh.sess.Position(), sh.DiagramSize, diagram.DefaultOptions()); err == nil {
			fmt.Fprintf(sh.out, "wrote %s\n", args[0])
		}
	default:
		// A bare move is accepted without the "move" keyword.
		err = sh.handleMove(cmd)
		if err != nil && len(args) == 0 {
			err = fmt.Errorf("unknown command or move %q (try help)", cmd)
		}
	}

	if err != nil {
		fmt.Fprintf(sh.out, "error: %v\n", err)
	}
	return false
}

func (sh *Shell) handleFEN(args []string) error {
	if len(args) == 0 {
		fmt.Fprintln(sh.out, sh.sess.FEN())
		return nil
	}
	if err := sh.sess.LoadFEN(strings.Join(args, " ")); err != nil {
		return err
	}
	fmt.Fprintln(sh.out, sh.sess.FEN())
	return nil
}

func (sh *Shell) handleMove(text string) error {
	if _, err := sh.sess.ApplyText(text); err != nil {
		return err
	}
	if r := sh.sess.Result(); r != "" {
		fmt.Fprintln(sh.out, r)
	}
	return nil
}

func parseDepth(args []string) (int, error) {
	if len(args) != 1 {
		return 0, fmt.Errorf("expected one depth argument")
	}
	depth, err := strconv.Atoi(args[0])
	if err != nil || depth < 1 {
		return 0, fmt.Errorf("invalid depth %q", args[0])
	}
	return depth, nil
}

func (sh *Shell) handlePerft(args []string) error {
	depth, err := parseDepth(args)
	if err != nil {
		return err
	}
	start := time.Now()
	nodes := perft.Count[board.Move](sh.sess.Position(), depth)
	elapsed := time.Since(start)

	fmt.Fprintf(sh.out, "Nodes: %d\n", nodes)
	fmt.Fprintf(sh.out, "Time: %v\n", elapsed.Round(time.Millisecond))
	if elapsed > 0 {
		fmt.Fprintf(sh.out, "NPS: %.0f\n", float64(nodes)/elapsed.Seconds())
	}
	return nil
}

func (sh *Shell) handleDivide(args []string) error {
	depth, err := parseDepth(args)
	if err != nil {
		return err
	}
	entries, err := perft.Divide[board.Move](sh.sess.Position(), depth)
	if err != nil {
		return err
	}
	for _, e := range entries {
		fmt.Fprintf(sh.out, "%s: %d\n", e.Move, e.Nodes)
	}
	fmt.Fprintf(sh.out, "\nMoves: %d\nNodes: %d\n", len(entries), perft.Total(entries))
	return nil
}

func (sh *Shell) handleGo(args []string) error {
	if len(args) > 0 {
		depth, err := parseDepth(args)
		if err != nil {
			return err
		}
		cfg := sh.sess.Search()
		defer sh.sess.SetSearch(cfg)
		cfg.Depth = depth
		if err := sh.sess.SetSearch(cfg); err != nil {
			return err
		}
	}

	start := time.Now()
	m, score, err := sh.sess.PlayEngineMove()
	if err != nil {
		return err
	}
	fmt.Fprintf(sh.out, "bestmove %s score %d nodes %d time %v\n",
		m, score, sh.sess.Nodes(), time.Since(start).Round(time.Millisecond))
	if r := sh.sess.Result(); r != "" {
		fmt.Fprintln(sh.out, r)
	}
	return nil
}
