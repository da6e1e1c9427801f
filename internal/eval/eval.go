// Package eval scores chess positions from White's point of view.
package eval

import "github.com/hailam/chesssearch/internal/board"

// Material values in centipawns.
const (
	PawnValue   = 100
	KnightValue = 320
	BishopValue = 330
	RookValue   = 500
	QueenValue  = 900
	KingValue   = 0
)

// Terminal scores. They dominate any material sum, and the remaining depth
// is added so a shallower mate scores further from zero.
const (
	WhiteWinScore = 1_000_000
	BlackWinScore = -1_000_000
)

var pieceValues = [6]int{PawnValue, KnightValue, BishopValue, RookValue, QueenValue, KingValue}

// Evaluate scores pos given the search depth still remaining.
func Evaluate(pos *board.Position, depthRemaining int) int {
	if pos.IsGameOver() {
		if !pos.InCheck() {
			return 0
		}
		if pos.SideToMove == board.Black {
			return WhiteWinScore + depthRemaining
		}
		return BlackWinScore - depthRemaining
	}
	return Material(pos)
}

// Material returns White's material minus Black's.
func Material(pos *board.Position) int {
	score := 0
	for pt := board.Pawn; pt <= board.King; pt++ {
		score += pieceValues[pt] * (pos.Pieces[board.White][pt].PopCount() - pos.Pieces[board.Black][pt].PopCount())
	}
	return score
}

// Value returns the material value of a piece type.
func Value(pt board.PieceType) int {
	if pt > board.King {
		return 0
	}
	return pieceValues[pt]
}
