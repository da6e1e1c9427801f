package board

import (
	"fmt"
	"strings"
)

// SAN returns the move in Standard Algebraic Notation. m must be legal in p.
// p is left unchanged.
func (p *Position) SAN(m Move) string {
	if m == NoMove {
		return "-"
	}
	if m.IsCastling() {
		s := "O-O-O"
		if m.To() > m.From() {
			s = "O-O"
		}
		return s + p.checkSuffix(m)
	}

	from, to := m.From(), m.To()
	pt := p.pieceTypeAt(p.SideToMove, from)
	if pt == NoPieceType {
		return m.String()
	}

	var sb strings.Builder
	if pt != Pawn {
		sb.WriteByte("PNBRQK"[pt])
		sb.WriteString(p.disambiguation(m, pt))
	}
	if m.IsCapture(p) {
		if pt == Pawn {
			sb.WriteByte('a' + byte(from.File()))
		}
		sb.WriteByte('x')
	}
	sb.WriteString(to.String())
	if m.IsPromotion() {
		sb.WriteByte('=')
		sb.WriteByte("PNBRQK"[m.Promotion()])
	}
	sb.WriteString(p.checkSuffix(m))
	return sb.String()
}

// checkSuffix plays m to see whether it checks or mates, then takes it back.
func (p *Position) checkSuffix(m Move) string {
	saved, valid := p.legal, p.legalValid
	p.MakeMove(m)
	suffix := ""
	if p.InCheck() {
		suffix = "+"
		if p.IsGameOver() {
			suffix = "#"
		}
	}
	_ = p.UndoMoveWithoutMoveGen()
	p.legal, p.legalValid = saved, valid
	return suffix
}

// disambiguation returns the file, rank or square needed to tell m apart
// from another piece of the same type reaching the same square.
func (p *Position) disambiguation(m Move, pt PieceType) string {
	from, to := m.From(), m.To()
	pieces := p.Pieces[p.SideToMove][pt]

	p.ensureLegal()
	ambiguous, sameFile, sameRank := false, false, false
	for i := 0; i < p.legal.count; i++ {
		other := p.legal.moves[i].From()
		if p.legal.moves[i].To() != to || other == from || !pieces.IsSet(other) {
			continue
		}
		ambiguous = true
		sameFile = sameFile || other.File() == from.File()
		sameRank = sameRank || other.Rank() == from.Rank()
	}

	switch {
	case !ambiguous:
		return ""
	case !sameFile:
		return string(rune('a' + from.File()))
	case !sameRank:
		return string(rune('1' + from.Rank()))
	default:
		return from.String()
	}
}

// ParseSAN finds the legal move written as s in Standard Algebraic Notation.
func (p *Position) ParseSAN(s string) (Move, error) {
	orig := s
	s = strings.TrimRight(strings.TrimSpace(s), "+#!?")
	p.ensureLegal()

	if s == "O-O" || s == "0-0" || s == "O-O-O" || s == "0-0-0" {
		long := len(s) == 5
		for i := 0; i < p.legal.count; i++ {
			m := p.legal.moves[i]
			if m.IsCastling() && (m.To() < m.From()) == long {
				return m, nil
			}
		}
		return NoMove, fmt.Errorf("castling %q is not legal here", orig)
	}

	promo := NoPieceType
	if i := strings.IndexByte(s, '='); i >= 0 && i+1 < len(s) {
		promo = pieceTypeFromLetter(s[i+1])
		s = s[:i]
	}
	capture := strings.Contains(s, "x")
	s = strings.ReplaceAll(s, "x", "")

	pt := Pawn
	if len(s) > 0 && s[0] >= 'A' && s[0] <= 'Z' {
		pt = pieceTypeFromLetter(s[0])
		s = s[1:]
	}
	if pt == NoPieceType || len(s) < 2 {
		return NoMove, fmt.Errorf("malformed SAN %q", orig)
	}
	dest, err := ParseSquare(s[len(s)-2:])
	if err != nil {
		return NoMove, fmt.Errorf("malformed SAN %q: %w", orig, err)
	}

	file, rank := -1, -1
	for _, c := range s[:len(s)-2] {
		switch {
		case c >= 'a' && c <= 'h':
			file = int(c - 'a')
		case c >= '1' && c <= '8':
			rank = int(c - '1')
		}
	}

	for i := 0; i < p.legal.count; i++ {
		m := p.legal.moves[i]
		from := m.From()
		switch {
		case m.To() != dest || m.IsCastling():
		case p.pieceTypeAt(p.SideToMove, from) != pt:
		case file >= 0 && from.File() != file:
		case rank >= 0 && from.Rank() != rank:
		case capture && !m.IsCapture(p):
		case m.IsPromotion() != (promo != NoPieceType):
		case promo != NoPieceType && m.Promotion() != promo:
		default:
			return m, nil
		}
	}
	return NoMove, fmt.Errorf("no legal move %q in this position", orig)
}

func pieceTypeFromLetter(c byte) PieceType {
	switch c {
	case 'N':
		return Knight
	case 'B':
		return Bishop
	case 'R':
		return Rook
	case 'Q':
		return Queen
	case 'K':
		return King
	}
	return NoPieceType
}
