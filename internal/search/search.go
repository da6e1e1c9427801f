// Package search implements fixed-depth minimax, alpha-beta and
// quiescence search over any partisan game.
package search

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/hailam/chesssearch/internal/game"
)

var (
	ErrInvalidDepth = errors.New("search: invalid depth")
	ErrGameOver     = errors.New("search: game is over")
	ErrNoEvaluator  = errors.New("search: no evaluator")
)

// Kind selects the search algorithm.
type Kind int

const (
	Minimax Kind = iota
	AlphaBeta
	Quiescence
)

func (k Kind) String() string {
	switch k {
	case Minimax:
		return "minimax"
	case AlphaBeta:
		return "alphabeta"
	case Quiescence:
		return "quiescence"
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// ParseKind accepts the names printed by Kind.String.
func ParseKind(s string) (Kind, error) {
	for k := Minimax; k <= Quiescence; k++ {
		if strings.EqualFold(s, k.String()) {
			return k, nil
		}
	}
	return 0, fmt.Errorf("unknown search kind %q", s)
}

// Config describes one search. Evaluator scores a state from the maximizing
// side's point of view; depthRemaining is the unused part of the main depth
// (zero inside quiescence).
type Config[G any] struct {
	Kind            Kind
	Depth           int
	QuiescenceDepth int
	Evaluator       func(g G, depthRemaining int) int
}

// Searcher runs a configured search. It is not safe for concurrent use:
// it owns per-ply move buffers that are reused across calls.
type Searcher[M comparable, G game.PartisanGame[M]] struct {
	cfg     Config[G]
	nodes   uint64
	buffers [][]M
}

// New validates cfg and returns a Searcher.
func New[M comparable, G game.PartisanGame[M]](cfg Config[G]) (*Searcher[M, G], error) {
	if cfg.Evaluator == nil {
		return nil, ErrNoEvaluator
	}
	if cfg.Depth < 1 {
		return nil, fmt.Errorf("%w: depth %d", ErrInvalidDepth, cfg.Depth)
	}
	if cfg.QuiescenceDepth < 0 {
		return nil, fmt.Errorf("%w: quiescence depth %d", ErrInvalidDepth, cfg.QuiescenceDepth)
	}
	if cfg.Kind < Minimax || cfg.Kind > Quiescence {
		return nil, fmt.Errorf("search: unknown kind %d", int(cfg.Kind))
	}
	return &Searcher[M, G]{cfg: cfg}, nil
}

// Config returns the configuration the searcher was built with.
func (s *Searcher[M, G]) Config() Config[G] {
	return s.cfg
}

// Nodes returns the number of nodes visited by the last call.
func (s *Searcher[M, G]) Nodes() uint64 {
	return s.nodes
}

// Evaluate returns the searched value of g. A finished game is scored
// directly by the evaluator. g is restored before returning.
func (s *Searcher[M, G]) Evaluate(g G) (int, error) {
	s.nodes = 0
	g.GenerateLegalMoves()
	var score int
	if s.cfg.Kind == Minimax {
		score = s.minimax(g, s.cfg.Depth, 0)
	} else {
		score = s.alphaBeta(g, s.cfg.Depth, s.cfg.QuiescenceDepth, math.MinInt, math.MaxInt, 0)
	}
	g.GenerateLegalMoves()
	return score, nil
}

// BestMove returns the move with the best searched score for the side to
// move, and that score. Among equal scores the first legal move wins.
func (s *Searcher[M, G]) BestMove(g G) (M, int, error) {
	var best M
	s.nodes = 1
	g.GenerateLegalMoves()
	if g.IsGameOver() {
		return best, 0, ErrGameOver
	}

	moves := g.AppendLegalMoves(s.buffer(0))
	s.buffers[0] = moves
	maximizing := g.Maximizing()
	alpha, beta := math.MinInt, math.MaxInt
	bestScore := beta
	if maximizing {
		bestScore = alpha
	}

	for i, m := range moves {
		g.MakeMove(m)
		g.GenerateLegalMoves()
		var score int
		if s.cfg.Kind == Minimax {
			score = s.minimax(g, s.cfg.Depth-1, 1)
		} else {
			score = s.alphaBeta(g, s.cfg.Depth-1, s.cfg.QuiescenceDepth, alpha, beta, 1)
		}
		s.undo(g)

		if maximizing && (i == 0 || score > bestScore) {
			best, bestScore = m, score
			alpha = max(alpha, score)
		} else if !maximizing && (i == 0 || score < bestScore) {
			best, bestScore = m, score
			beta = min(beta, score)
		}
	}

	g.GenerateLegalMoves()
	return best, bestScore, nil
}

// minimax is the plain exhaustive search. The side to move picks the role.
func (s *Searcher[M, G]) minimax(g G, depth, ply int) int {
	s.nodes++
	if depth == 0 || g.IsGameOver() {
		return s.leaf(g, depth)
	}

	moves := g.AppendLegalMoves(s.buffer(ply))
	s.buffers[ply] = moves

	maximizing := g.Maximizing()
	best := math.MaxInt
	if maximizing {
		best = math.MinInt
	}
	for _, m := range moves {
		g.MakeMove(m)
		g.GenerateLegalMoves()
		score := s.minimax(g, depth-1, ply+1)
		s.undo(g)
		if maximizing {
			best = max(best, score)
		} else {
			best = min(best, score)
		}
	}
	return best
}

// alphaBeta is fail-hard alpha-beta over the same tree as minimax. At depth
// zero a Quiescence search keeps expanding non-quiet states while budget
// remains. Every reply of such a state is made, but quiet replies are scored
// as leaves at once, so only non-quiet lines extend.
func (s *Searcher[M, G]) alphaBeta(g G, depth, budget, alpha, beta, ply int) int {
	s.nodes++
	if g.IsGameOver() {
		return s.leaf(g, depth)
	}

	childDepth, childBudget := depth-1, budget
	if depth == 0 {
		if s.cfg.Kind != Quiescence || budget == 0 || g.IsQuiet() {
			return s.leaf(g, 0)
		}
		childDepth, childBudget = 0, budget-1
	}

	moves := g.AppendLegalMoves(s.buffer(ply))
	s.buffers[ply] = moves

	if g.Maximizing() {
		for _, m := range moves {
			g.MakeMove(m)
			g.GenerateLegalMoves()
			score := s.alphaBeta(g, childDepth, childBudget, alpha, beta, ply+1)
			s.undo(g)
			if score >= beta {
				return beta
			}
			alpha = max(alpha, score)
		}
		return alpha
	}

	for _, m := range moves {
		g.MakeMove(m)
		g.GenerateLegalMoves()
		score := s.alphaBeta(g, childDepth, childBudget, alpha, beta, ply+1)
		s.undo(g)
		if score <= alpha {
			return alpha
		}
		beta = min(beta, score)
	}
	return beta
}

func (s *Searcher[M, G]) leaf(g G, depth int) int {
	if g.Maximizing() {
		return s.maxEval(g, depth)
	}
	return s.minEval(g, depth)
}

// maxEval and minEval score leaves for each role. They currently share the
// configured evaluator.
func (s *Searcher[M, G]) maxEval(g G, depth int) int {
	return s.cfg.Evaluator(g, depth)
}

func (s *Searcher[M, G]) minEval(g G, depth int) int {
	return s.cfg.Evaluator(g, depth)
}

// buffer returns the emptied move buffer for ply, growing the set as needed.
// Each frame owns its ply's buffer, so deeper frames never touch the slice
// an enclosing frame is iterating.
func (s *Searcher[M, G]) buffer(ply int) []M {
	for len(s.buffers) <= ply {
		s.buffers = append(s.buffers, make([]M, 0, 64))
	}
	return s.buffers[ply][:0]
}

// undo takes back a move made by this searcher. Failure means the game's
// history is corrupt.
func (s *Searcher[M, G]) undo(g G) {
	if err := g.UndoMoveWithoutMoveGen(); err != nil {
		panic(fmt.Sprintf("search: undo failed: %v", err))
	}
}
