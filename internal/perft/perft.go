// Package perft counts move-generation leaf nodes and checks them against
// published reference values.
package perft

import (
	"errors"
	"fmt"
	"sort"

	"github.com/hailam/chesssearch/internal/game"
)

// ErrInvalidDepth is returned by Divide for depths below one.
var ErrInvalidDepth = errors.New("perft: depth must be at least 1")

// Count returns the number of leaf nodes depth plies below g. Depths below
// one count the current state as a single node, even when the game is over.
// g is restored, with its legal moves regenerated, before returning.
func Count[M any](g game.CombinatorialGame[M], depth int) uint64 {
	if depth < 1 {
		return 1
	}
	c := counter[M]{buffers: make([][]M, depth+1)}
	g.GenerateLegalMoves()
	n := c.count(g, depth)
	g.GenerateLegalMoves()
	return n
}

// counter keeps one move buffer per remaining depth so enclosing frames keep
// iterating their own copy while deeper frames regenerate.
type counter[M any] struct {
	buffers [][]M
}

func (c *counter[M]) count(g game.CombinatorialGame[M], depth int) uint64 {
	moves := g.AppendLegalMoves(c.buffers[depth][:0])
	c.buffers[depth] = moves
	if depth == 1 {
		return uint64(len(moves))
	}

	var nodes uint64
	for _, m := range moves {
		g.MakeMove(m)
		g.GenerateLegalMoves()
		nodes += c.count(g, depth-1)
		if err := g.UndoMoveWithoutMoveGen(); err != nil {
			panic(fmt.Sprintf("perft: undo failed: %v", err))
		}
	}
	return nodes
}

// DivideEntry is one root move and the leaf count below it.
type DivideEntry struct {
	Move  string
	Nodes uint64
}

// Divide counts leaves per root move, sorted by move text. The entries sum
// to Count(g, depth).
func Divide[M fmt.Stringer](g game.CombinatorialGame[M], depth int) ([]DivideEntry, error) {
	if depth < 1 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidDepth, depth)
	}

	g.GenerateLegalMoves()
	roots := g.AppendLegalMoves(nil)
	entries := make([]DivideEntry, 0, len(roots))
	for _, m := range roots {
		g.MakeMove(m)
		entries = append(entries, DivideEntry{Move: m.String(), Nodes: Count(g, depth-1)})
		if err := g.UndoMove(); err != nil {
			return nil, fmt.Errorf("perft: undo %s: %w", m, err)
		}
	}

	sort.Slice(entries, func(i, j int) bool {
		return entries[i].Move < entries[j].Move
	})
	return entries, nil
}

// Total sums the node counts of a divide.
func Total(entries []DivideEntry) uint64 {
	var n uint64
	for _, e := range entries {
		n += e.Nodes
	}
	return n
}
