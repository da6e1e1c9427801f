// Package game defines the move-based game abstraction that search and
// perft are written against.
package game

import "github.com/hailam/chesssearch/internal/board"

// Game is any game state. It assumes no structure.
type Game interface{}

// CombinatorialGame is a two-player game with reversible moves. The game
// keeps a cached legal move list for its current state; MakeMove and
// UndoMoveWithoutMoveGen leave it stale, GenerateLegalMoves and UndoMove
// refresh it.
type CombinatorialGame[M any] interface {
	Game
	IsGameOver() bool
	// AppendLegalMoves appends a copy of the current legal moves to dst.
	AppendLegalMoves(dst []M) []M
	MakeMove(m M)
	UndoMove() error
	UndoMoveWithoutMoveGen() error
	GenerateLegalMoves()
}

// PartisanGame adds the roles search needs: which side maximizes and
// whether the state is calm enough to score statically.
type PartisanGame[M any] interface {
	CombinatorialGame[M]
	Maximizing() bool
	IsQuiet() bool
}

var _ PartisanGame[board.Move] = (*board.Position)(nil)
