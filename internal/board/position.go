package board

import (
	"errors"
	"fmt"
	"strings"
)

// ErrNoHistory is returned when undoing with no applied moves.
var ErrNoHistory = errors.New("board: no move to undo")

// CastlingRights is a set of the four castling options.
type CastlingRights uint8

const (
	WhiteKingSideCastle  CastlingRights = 1 << iota // K
	WhiteQueenSideCastle                            // Q
	BlackKingSideCastle                             // k
	BlackQueenSideCastle                            // q
	NoCastling           CastlingRights = 0
	AllCastling          CastlingRights = WhiteKingSideCastle | WhiteQueenSideCastle | BlackKingSideCastle | BlackQueenSideCastle
)

// String returns the FEN castling field.
func (cr CastlingRights) String() string {
	if cr == NoCastling {
		return "-"
	}
	var sb strings.Builder
	for i, c := range "KQkq" {
		if cr&(1<<i) != 0 {
			sb.WriteRune(c)
		}
	}
	return sb.String()
}

// castlingKeep[sq] is the set of rights that survive a move touching sq.
var castlingKeep [64]CastlingRights

func init() {
	for sq := range castlingKeep {
		castlingKeep[sq] = AllCastling
	}
	castlingKeep[A1] &^= WhiteQueenSideCastle
	castlingKeep[H1] &^= WhiteKingSideCastle
	castlingKeep[E1] &^= WhiteKingSideCastle | WhiteQueenSideCastle
	castlingKeep[A8] &^= BlackQueenSideCastle
	castlingKeep[H8] &^= BlackKingSideCastle
	castlingKeep[E8] &^= BlackKingSideCastle | BlackQueenSideCastle
}

// castlingRook returns the rook's squares for a castling king destination.
func castlingRook(kingTo Square) (from, to Square) {
	switch kingTo {
	case G1:
		return H1, F1
	case C1:
		return A1, D1
	case G8:
		return H8, F8
	default:
		return A8, D8
	}
}

// undoRecord is what MakeMove pushes so the move can be taken back
// without re-deriving anything from the board.
type undoRecord struct {
	move      Move
	captured  Piece
	castling  CastlingRights
	enPassant Square
	halfMove  int
	hash      uint64
	checkers  Bitboard
}

// Position is a mutable chess position. It is owned by one caller at a time;
// search mutates it in place and restores it with the undo stack.
type Position struct {
	// Piece bitboards: [Color][PieceType]
	Pieces [2][6]Bitboard

	Occupied    [2]Bitboard
	AllOccupied Bitboard

	SideToMove     Color
	CastlingRights CastlingRights
	EnPassant      Square // en passant target, NoSquare if none
	HalfMoveClock  int
	FullMoveNumber int

	// Zobrist hash, maintained incrementally
	Hash uint64

	KingSquare [2]Square

	// Pieces giving check to the side to move
	Checkers Bitboard

	history []undoRecord

	// Legal moves of the current state; stale when legalValid is false.
	legal      MoveList
	legalValid bool
}

// NewPosition returns the standard starting position.
func NewPosition() *Position {
	pos, err := ParseFEN(StartFEN)
	if err != nil {
		panic(err)
	}
	return pos
}

// PieceAt returns the piece on sq, or NoPiece.
func (p *Position) PieceAt(sq Square) Piece {
	bb := SquareBB(sq)
	if p.AllOccupied&bb == 0 {
		return NoPiece
	}
	c := White
	if p.Occupied[Black]&bb != 0 {
		c = Black
	}
	return NewPiece(p.pieceTypeAt(c, sq), c)
}

// pieceTypeAt finds which of c's boards holds sq.
func (p *Position) pieceTypeAt(c Color, sq Square) PieceType {
	bb := SquareBB(sq)
	for pt := Pawn; pt <= King; pt++ {
		if p.Pieces[c][pt]&bb != 0 {
			return pt
		}
	}
	return NoPieceType
}

// IsEmpty returns true if the square is empty.
func (p *Position) IsEmpty(sq Square) bool {
	return p.AllOccupied&SquareBB(sq) == 0
}

// toggle flips a piece on or off sq, keeping occupancy and hash in step.
func (p *Position) toggle(c Color, pt PieceType, sq Square) {
	bb := SquareBB(sq)
	p.Pieces[c][pt] ^= bb
	p.Occupied[c] ^= bb
	p.AllOccupied ^= bb
	p.Hash ^= zobristPiece[c][pt][sq]
}

func (p *Position) shift(c Color, pt PieceType, from, to Square) {
	p.toggle(c, pt, from)
	p.toggle(c, pt, to)
	if pt == King {
		p.KingSquare[c] = to
	}
}

// MakeMove applies a legal move of the current position. It flips the side
// to move, pushes undo data and marks the legal move list stale; it does not
// generate moves for the new position.
func (p *Position) MakeMove(m Move) {
	us := p.SideToMove
	them := us.Other()
	from, to := m.From(), m.To()
	pt := p.pieceTypeAt(us, from)

	p.history = append(p.history, undoRecord{
		move:      m,
		captured:  NoPiece,
		castling:  p.CastlingRights,
		enPassant: p.EnPassant,
		halfMove:  p.HalfMoveClock,
		hash:      p.Hash,
		checkers:  p.Checkers,
	})
	rec := &p.history[len(p.history)-1]

	p.Hash ^= zobristCastling[p.CastlingRights]
	if p.EnPassant != NoSquare {
		p.Hash ^= zobristEnPassant[p.EnPassant.File()]
		p.EnPassant = NoSquare
	}

	if m.IsEnPassant() {
		p.toggle(them, Pawn, to^8)
		rec.captured = NewPiece(Pawn, them)
	} else if p.Occupied[them]&SquareBB(to) != 0 {
		captured := p.pieceTypeAt(them, to)
		p.toggle(them, captured, to)
		rec.captured = NewPiece(captured, them)
	}

	p.shift(us, pt, from, to)

	switch {
	case m.IsPromotion():
		p.toggle(us, Pawn, to)
		p.toggle(us, m.Promotion(), to)
	case m.IsCastling():
		rookFrom, rookTo := castlingRook(to)
		p.shift(us, Rook, rookFrom, rookTo)
	}

	p.CastlingRights &= castlingKeep[from] & castlingKeep[to]
	p.Hash ^= zobristCastling[p.CastlingRights]

	if pt == Pawn && (to == from+16 || from == to+16) {
		p.EnPassant = (from + to) / 2
		p.Hash ^= zobristEnPassant[p.EnPassant.File()]
	}

	if pt == Pawn || rec.captured != NoPiece {
		p.HalfMoveClock = 0
	} else {
		p.HalfMoveClock++
	}
	if us == Black {
		p.FullMoveNumber++
	}

	p.SideToMove = them
	p.Hash ^= zobristSideToMove
	p.legalValid = false
	p.UpdateCheckers()
}

// UndoMove takes back the last move and regenerates legal moves.
func (p *Position) UndoMove() error {
	if err := p.UndoMoveWithoutMoveGen(); err != nil {
		return err
	}
	p.GenerateLegalMoves()
	return nil
}

// UndoMoveWithoutMoveGen takes back the last move but leaves the legal move
// list stale. It exists for search and perft loops that iterate their own
// copy of the parent's moves; LegalMoves regenerates on the next read.
func (p *Position) UndoMoveWithoutMoveGen() error {
	n := len(p.history)
	if n == 0 {
		return ErrNoHistory
	}
	rec := p.history[n-1]
	p.history = p.history[:n-1]

	them := p.SideToMove
	us := them.Other()
	m := rec.move
	from, to := m.From(), m.To()

	switch {
	case m.IsPromotion():
		p.toggle(us, m.Promotion(), to)
		p.toggle(us, Pawn, to)
	case m.IsCastling():
		rookFrom, rookTo := castlingRook(to)
		p.shift(us, Rook, rookTo, rookFrom)
	}
	p.shift(us, p.pieceTypeAt(us, to), to, from)

	if rec.captured != NoPiece {
		capSq := to
		if m.IsEnPassant() {
			capSq = to ^ 8
		}
		p.toggle(them, rec.captured.Type(), capSq)
	}

	p.SideToMove = us
	p.CastlingRights = rec.castling
	p.EnPassant = rec.enPassant
	p.HalfMoveClock = rec.halfMove
	p.Hash = rec.hash
	p.Checkers = rec.checkers
	if us == Black {
		p.FullMoveNumber--
	}
	p.legalValid = false
	return nil
}

// Ply returns the number of applied, not yet undone moves.
func (p *Position) Ply() int {
	return len(p.history)
}

// LastMove returns the most recent applied move, or NoMove.
func (p *Position) LastMove() Move {
	if len(p.history) == 0 {
		return NoMove
	}
	return p.history[len(p.history)-1].move
}

// Moves returns the applied moves, oldest first.
func (p *Position) Moves() []Move {
	out := make([]Move, len(p.history))
	for i, rec := range p.history {
		out[i] = rec.move
	}
	return out
}

// InCheck returns true if the side to move is in check.
func (p *Position) InCheck() bool {
	return p.Checkers != 0
}

// IsGameOver reports whether the side to move has no legal move.
func (p *Position) IsGameOver() bool {
	p.ensureLegal()
	return p.legal.count == 0
}

// IsCheckmate returns true if the side to move is mated.
func (p *Position) IsCheckmate() bool {
	return p.InCheck() && p.IsGameOver()
}

// IsStalemate returns true if the side to move has no move and is not in check.
func (p *Position) IsStalemate() bool {
	return !p.InCheck() && p.IsGameOver()
}

// IsDraw reports stalemate, the fifty-move rule, insufficient material and
// threefold repetition within the moves played on this position.
func (p *Position) IsDraw() bool {
	return p.IsStalemate() || p.HalfMoveClock >= 100 || p.IsInsufficientMaterial() || p.IsRepetition()
}

// IsRepetition reports whether the current position occurred twice before
// since the last irreversible move.
func (p *Position) IsRepetition() bool {
	seen := 0
	for i := len(p.history) - 2; i >= 0 && i >= len(p.history)-p.HalfMoveClock; i -= 2 {
		if p.history[i].hash == p.Hash {
			seen++
			if seen >= 2 {
				return true
			}
		}
	}
	return false
}

// IsInsufficientMaterial returns true if neither side can checkmate.
func (p *Position) IsInsufficientMaterial() bool {
	heavy := p.Pieces[White][Pawn] | p.Pieces[Black][Pawn] |
		p.Pieces[White][Rook] | p.Pieces[Black][Rook] |
		p.Pieces[White][Queen] | p.Pieces[Black][Queen]
	if heavy != 0 {
		return false
	}
	white := (p.Pieces[White][Knight] | p.Pieces[White][Bishop]).PopCount()
	black := (p.Pieces[Black][Knight] | p.Pieces[Black][Bishop]).PopCount()
	return white+black <= 1
}

// IsQuiet reports whether the position is tactically calm: the side to move
// is not in check and the last move was neither a capture nor a promotion.
func (p *Position) IsQuiet() bool {
	if p.InCheck() {
		return false
	}
	if len(p.history) == 0 {
		return true
	}
	rec := &p.history[len(p.history)-1]
	return rec.captured == NoPiece && !rec.move.IsPromotion()
}

// Maximizing reports whether the side to move is the maximizing role (White).
func (p *Position) Maximizing() bool {
	return p.SideToMove == White
}

// String returns a printable board with the FEN underneath.
func (p *Position) String() string {
	var sb strings.Builder
	sb.WriteByte('\n')
	for rank := 7; rank >= 0; rank-- {
		fmt.Fprintf(&sb, "%d  ", rank+1)
		for file := 0; file < 8; file++ {
			piece := p.PieceAt(NewSquare(file, rank))
			if piece == NoPiece {
				sb.WriteString(". ")
			} else {
				sb.WriteString(piece.String() + " ")
			}
		}
		sb.WriteByte('\n')
	}
	sb.WriteString("\n   a b c d e f g h\n\n")
	fmt.Fprintf(&sb, "FEN: %s\n", p.ToFEN())
	fmt.Fprintf(&sb, "Hash: %016x\n", p.Hash)
	return sb.String()
}
