package board

import (
	"fmt"
	"strconv"
	"strings"
)

// StartFEN is the FEN string for the starting position.
const StartFEN = "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1"

// ParseError describes a malformed or impossible FEN.
type ParseError struct {
	FEN    string
	Field  string
	Value  string
	Reason string
}

func (e *ParseError) Error() string {
	if e.Value == "" {
		return fmt.Sprintf("invalid FEN %q: %s: %s", e.FEN, e.Field, e.Reason)
	}
	return fmt.Sprintf("invalid FEN %q: %s %q: %s", e.FEN, e.Field, e.Value, e.Reason)
}

// ParseFEN builds a Position from a FEN string. The halfmove and fullmove
// fields are optional. On error no Position is returned.
func ParseFEN(fen string) (*Position, error) {
	fail := func(field, value, reason string) (*Position, error) {
		return nil, &ParseError{FEN: fen, Field: field, Value: value, Reason: reason}
	}

	parts := strings.Fields(fen)
	if len(parts) < 4 || len(parts) > 6 {
		return fail("fields", "", fmt.Sprintf("need 4 to 6 fields, got %d", len(parts)))
	}

	pos := &Position{
		EnPassant:      NoSquare,
		FullMoveNumber: 1,
	}

	if reason := parsePiecePlacement(pos, parts[0]); reason != "" {
		return fail("placement", parts[0], reason)
	}

	switch parts[1] {
	case "w":
		pos.SideToMove = White
	case "b":
		pos.SideToMove = Black
	default:
		return fail("side to move", parts[1], "want w or b")
	}

	if parts[2] != "-" {
		for _, c := range parts[2] {
			i := strings.IndexRune("KQkq", c)
			if i < 0 {
				return fail("castling", parts[2], fmt.Sprintf("unexpected %q", c))
			}
			pos.CastlingRights |= 1 << i
		}
	}

	if parts[3] != "-" {
		sq, err := ParseSquare(parts[3])
		wantRank := 5
		if pos.SideToMove == Black {
			wantRank = 2
		}
		if err != nil || sq.Rank() != wantRank {
			return fail("en passant", parts[3], fmt.Sprintf("want a square on rank %d", wantRank+1))
		}
		// A target with no pawn to capture behind it is dropped.
		if pos.Pieces[pos.SideToMove.Other()][Pawn].IsSet(sq ^ 8) {
			pos.EnPassant = sq
		}
	}

	if len(parts) > 4 {
		n, err := strconv.Atoi(parts[4])
		if err != nil || n < 0 {
			return fail("halfmove clock", parts[4], "want a non-negative integer")
		}
		pos.HalfMoveClock = n
	}
	if len(parts) > 5 {
		n, err := strconv.Atoi(parts[5])
		if err != nil || n < 1 {
			return fail("fullmove number", parts[5], "want a positive integer")
		}
		pos.FullMoveNumber = n
	}

	if reason := pos.validate(); reason != "" {
		return fail("position", "", reason)
	}

	pos.CastlingRights &= pos.castlingSupport()
	pos.KingSquare[White] = pos.Pieces[White][King].LSB()
	pos.KingSquare[Black] = pos.Pieces[Black][King].LSB()
	pos.Hash = pos.ComputeHash()
	pos.UpdateCheckers()
	return pos, nil
}

// parsePiecePlacement fills pos from the first FEN field and returns a
// reason string on failure.
func parsePiecePlacement(pos *Position, placement string) string {
	ranks := strings.Split(placement, "/")
	if len(ranks) != 8 {
		return fmt.Sprintf("need 8 ranks, got %d", len(ranks))
	}

	for i, rankStr := range ranks {
		rank := 7 - i
		file := 0
		for j := 0; j < len(rankStr); j++ {
			c := rankStr[j]
			if c >= '1' && c <= '8' {
				file += int(c - '0')
			} else {
				piece := PieceFromChar(c)
				if piece == NoPiece {
					return fmt.Sprintf("invalid piece character %q", c)
				}
				if file > 7 {
					return fmt.Sprintf("too many squares in rank %d", rank+1)
				}
				pos.toggle(piece.Color(), piece.Type(), NewSquare(file, rank))
				file++
			}
		}
		if file != 8 {
			return fmt.Sprintf("rank %d has %d squares", rank+1, file)
		}
	}
	return ""
}

// validate rejects placements that no legal game can reach in a way that
// would break move generation.
func (p *Position) validate() string {
	if p.Pieces[White][King].PopCount() != 1 || p.Pieces[Black][King].PopCount() != 1 {
		return "each side needs exactly one king"
	}
	if (p.Pieces[White][Pawn]|p.Pieces[Black][Pawn])&(Rank1|Rank8) != 0 {
		return "pawns on rank 1 or 8"
	}
	them := p.SideToMove.Other()
	if p.IsSquareAttacked(p.Pieces[them][King].LSB(), p.SideToMove) {
		return "side not to move is in check"
	}
	return ""
}

// castlingSupport returns the rights backed by a king and rook on their
// home squares; FEN rights without them are dropped.
func (p *Position) castlingSupport() CastlingRights {
	var cr CastlingRights
	if p.Pieces[White][King].IsSet(E1) {
		if p.Pieces[White][Rook].IsSet(H1) {
			cr |= WhiteKingSideCastle
		}
		if p.Pieces[White][Rook].IsSet(A1) {
			cr |= WhiteQueenSideCastle
		}
	}
	if p.Pieces[Black][King].IsSet(E8) {
		if p.Pieces[Black][Rook].IsSet(H8) {
			cr |= BlackKingSideCastle
		}
		if p.Pieces[Black][Rook].IsSet(A8) {
			cr |= BlackQueenSideCastle
		}
	}
	return cr
}

// ToFEN returns the FEN representation of the position.
func (p *Position) ToFEN() string {
	var sb strings.Builder

	for rank := 7; rank >= 0; rank-- {
		empty := 0
		for file := 0; file < 8; file++ {
			piece := p.PieceAt(NewSquare(file, rank))
			if piece == NoPiece {
				empty++
				continue
			}
			if empty > 0 {
				sb.WriteString(strconv.Itoa(empty))
				empty = 0
			}
			sb.WriteString(piece.String())
		}
		if empty > 0 {
			sb.WriteString(strconv.Itoa(empty))
		}
		if rank > 0 {
			sb.WriteByte('/')
		}
	}

	sb.WriteByte(' ')
	if p.SideToMove == White {
		sb.WriteByte('w')
	} else {
		sb.WriteByte('b')
	}
	sb.WriteByte(' ')
	sb.WriteString(p.CastlingRights.String())
	sb.WriteByte(' ')
	sb.WriteString(p.EnPassant.String())
	sb.WriteByte(' ')
	sb.WriteString(strconv.Itoa(p.HalfMoveClock))
	sb.WriteByte(' ')
	sb.WriteString(strconv.Itoa(p.FullMoveNumber))

	return sb.String()
}

// ComputeHash computes the Zobrist hash from scratch.
func (p *Position) ComputeHash() uint64 {
	var hash uint64
	for c := White; c <= Black; c++ {
		for pt := Pawn; pt <= King; pt++ {
			p.Pieces[c][pt].ForEach(func(sq Square) {
				hash ^= zobristPiece[c][pt][sq]
			})
		}
	}
	if p.SideToMove == Black {
		hash ^= zobristSideToMove
	}
	hash ^= zobristCastling[p.CastlingRights]
	if p.EnPassant != NoSquare {
		hash ^= zobristEnPassant[p.EnPassant.File()]
	}
	return hash
}
