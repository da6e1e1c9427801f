package board

import "fmt"

// GenerateLegalMoves regenerates the cached legal move list.
func (p *Position) GenerateLegalMoves() {
	var pseudo MoveList
	p.generatePseudoLegal(&pseudo)
	p.filterLegal(&pseudo, &p.legal)
	p.legalValid = true
}

func (p *Position) ensureLegal() {
	if !p.legalValid {
		p.GenerateLegalMoves()
	}
}

// LegalMoves returns a copy of the legal moves of the current state,
// regenerating them first if a mutation left the cache stale.
func (p *Position) LegalMoves() MoveList {
	p.ensureLegal()
	return p.legal
}

// AppendLegalMoves appends the current legal moves to dst.
func (p *Position) AppendLegalMoves(dst []Move) []Move {
	p.ensureLegal()
	return append(dst, p.legal.moves[:p.legal.count]...)
}

// NumLegalMoves returns the legal move count without copying the list.
func (p *Position) NumLegalMoves() int {
	p.ensureLegal()
	return p.legal.count
}

// ParseMove finds the legal move whose coordinate form is s.
func (p *Position) ParseMove(s string) (Move, error) {
	p.ensureLegal()
	for i := 0; i < p.legal.count; i++ {
		if m := p.legal.moves[i]; m.String() == s {
			return m, nil
		}
	}
	return NoMove, fmt.Errorf("no legal move %q in this position", s)
}

// generatePseudoLegal adds every move that obeys piece movement, ignoring
// whether the mover's king is left in check.
func (p *Position) generatePseudoLegal(ml *MoveList) {
	us := p.SideToMove
	occupied := p.AllOccupied
	targets := ^p.Occupied[us]

	p.generatePawnMoves(ml, us)

	for pt := Knight; pt <= King; pt++ {
		pieces := p.Pieces[us][pt]
		for pieces != 0 {
			from := pieces.PopLSB()
			var attacks Bitboard
			switch pt {
			case Knight:
				attacks = knightAttacks[from]
			case Bishop:
				attacks = BishopAttacks(from, occupied)
			case Rook:
				attacks = RookAttacks(from, occupied)
			case Queen:
				attacks = QueenAttacks(from, occupied)
			case King:
				attacks = kingAttacks[from]
			}
			attacks &= targets
			for attacks != 0 {
				ml.Add(NewMove(from, attacks.PopLSB()))
			}
		}
	}

	p.generateCastlingMoves(ml, us)
}

// generatePawnMoves adds pushes, captures, promotions and en passant.
func (p *Position) generatePawnMoves(ml *MoveList, us Color) {
	pawns := p.Pieces[us][Pawn]
	empty := ^p.AllOccupied
	enemies := p.Occupied[us.Other()]

	var push1, push2, attackL, attackR, promotionRank Bitboard
	var pushDir int

	if us == White {
		push1 = pawns.North() & empty
		push2 = (push1 & Rank3).North() & empty
		attackL = pawns.NorthWest() & enemies
		attackR = pawns.NorthEast() & enemies
		promotionRank = Rank8
		pushDir = 8
	} else {
		push1 = pawns.South() & empty
		push2 = (push1 & Rank6).South() & empty
		attackL = pawns.SouthWest() & enemies
		attackR = pawns.SouthEast() & enemies
		promotionRank = Rank1
		pushDir = -8
	}

	addPawnTargets(ml, push1, pushDir, promotionRank)
	addPawnTargets(ml, attackL, pushDir-1, promotionRank)
	addPawnTargets(ml, attackR, pushDir+1, promotionRank)
	for push2 != 0 {
		to := push2.PopLSB()
		ml.Add(NewMove(Square(int(to)-2*pushDir), to))
	}

	if p.EnPassant != NoSquare {
		attackers := pawnAttacks[us.Other()][p.EnPassant] & pawns
		for attackers != 0 {
			ml.Add(NewEnPassant(attackers.PopLSB(), p.EnPassant))
		}
	}
}

// addPawnTargets adds one move per target square; delta is to-from.
func addPawnTargets(ml *MoveList, targets Bitboard, delta int, promotionRank Bitboard) {
	for targets != 0 {
		to := targets.PopLSB()
		from := Square(int(to) - delta)
		if SquareBB(to)&promotionRank == 0 {
			ml.Add(NewMove(from, to))
			continue
		}
		ml.Add(NewPromotion(from, to, Queen))
		ml.Add(NewPromotion(from, to, Rook))
		ml.Add(NewPromotion(from, to, Bishop))
		ml.Add(NewPromotion(from, to, Knight))
	}
}

// castlingPath lists, per right, the squares that must be empty and the
// squares the king crosses (which must not be attacked).
var castlingPath = [4]struct {
	right          CastlingRights
	from, to       Square
	empty, crossed Bitboard
}{
	{WhiteKingSideCastle, E1, G1, SquareBB(F1) | SquareBB(G1), SquareBB(E1) | SquareBB(F1) | SquareBB(G1)},
	{WhiteQueenSideCastle, E1, C1, SquareBB(B1) | SquareBB(C1) | SquareBB(D1), SquareBB(E1) | SquareBB(D1) | SquareBB(C1)},
	{BlackKingSideCastle, E8, G8, SquareBB(F8) | SquareBB(G8), SquareBB(E8) | SquareBB(F8) | SquareBB(G8)},
	{BlackQueenSideCastle, E8, C8, SquareBB(B8) | SquareBB(C8) | SquareBB(D8), SquareBB(E8) | SquareBB(D8) | SquareBB(C8)},
}

// generateCastlingMoves adds castling moves that are fully legal.
func (p *Position) generateCastlingMoves(ml *MoveList, us Color) {
	them := us.Other()
	for i := 2 * int(us); i < 2*int(us)+2; i++ {
		c := &castlingPath[i]
		if p.CastlingRights&c.right == 0 || p.AllOccupied&c.empty != 0 {
			continue
		}
		safe := true
		for crossed := c.crossed; crossed != 0; {
			if p.IsSquareAttacked(crossed.PopLSB(), them) {
				safe = false
				break
			}
		}
		if safe {
			ml.Add(NewCastling(c.from, c.to))
		}
	}
}

// pinned returns our pieces pinned against our king.
func (p *Position) pinned() Bitboard {
	us := p.SideToMove
	them := us.Other()
	ksq := p.KingSquare[us]
	var pinned Bitboard

	snipers := RookAttacks(ksq, 0)&(p.Pieces[them][Rook]|p.Pieces[them][Queen]) |
		BishopAttacks(ksq, 0)&(p.Pieces[them][Bishop]|p.Pieces[them][Queen])
	for snipers != 0 {
		blockers := Between(snipers.PopLSB(), ksq) & p.AllOccupied
		if blockers.PopCount() == 1 && blockers&p.Occupied[us] != 0 {
			pinned |= blockers
		}
	}
	return pinned
}

// filterLegal copies the legal subset of pseudo into out.
func (p *Position) filterLegal(pseudo, out *MoveList) {
	out.Clear()
	pinned := p.pinned()
	for i := 0; i < pseudo.count; i++ {
		if m := pseudo.moves[i]; p.isLegal(m, pinned) {
			out.Add(m)
		}
	}
}

// isLegal decides whether a pseudo-legal move leaves our king safe.
// Non-king, non-en-passant moves only need the check and pin tests.
func (p *Position) isLegal(m Move, pinned Bitboard) bool {
	us := p.SideToMove
	them := us.Other()
	from, to := m.From(), m.To()
	ksq := p.KingSquare[us]

	if from == ksq {
		if m.IsCastling() {
			return true // path checked during generation
		}
		return p.AttackersByColor(to, them, p.AllOccupied&^SquareBB(from)) == 0
	}

	if m.IsEnPassant() {
		return p.isLegalEnPassant(m)
	}

	if p.Checkers != 0 {
		if p.Checkers.PopCount() > 1 {
			return false
		}
		checker := p.Checkers.LSB()
		if (SquareBB(checker)|Between(checker, ksq))&SquareBB(to) == 0 {
			return false
		}
	}

	return pinned&SquareBB(from) == 0 || Aligned(from, to, ksq)
}

// isLegalEnPassant recomputes slider attacks on our king with both pawns
// gone and the capturer on the target square; this also catches the
// horizontal pin where two pawns leave the king's rank together.
func (p *Position) isLegalEnPassant(m Move) bool {
	us := p.SideToMove
	them := us.Other()
	ksq := p.KingSquare[us]
	from, to := m.From(), m.To()
	captured := SquareBB(to ^ 8)

	// A knight check cannot be answered by en passant, a pawn check only by
	// taking that pawn.
	if p.Checkers&^captured&(p.Pieces[them][Knight]|p.Pieces[them][Pawn]) != 0 {
		return false
	}

	occ := p.AllOccupied&^SquareBB(from)&^captured | SquareBB(to)
	if BishopAttacks(ksq, occ)&(p.Pieces[them][Bishop]|p.Pieces[them][Queen]) != 0 {
		return false
	}
	return RookAttacks(ksq, occ)&(p.Pieces[them][Rook]|p.Pieces[them][Queen]) == 0
}
