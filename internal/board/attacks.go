package board

// Attack tables for the leaping pieces and ray geometry.
var (
	knightAttacks [64]Bitboard
	kingAttacks   [64]Bitboard
	pawnAttacks   [2][64]Bitboard // [Color][Square]

	betweenBB [64][64]Bitboard // squares strictly between two aligned squares
	lineBB    [64][64]Bitboard // full line through two aligned squares
)

func init() {
	for sq := Square(0); sq < NoSquare; sq++ {
		bb := SquareBB(sq)

		knightAttacks[sq] = (bb<<17)&NotFileA | (bb<<15)&NotFileH |
			(bb>>17)&NotFileH | (bb>>15)&NotFileA |
			(bb<<10)&NotFileAB | (bb<<6)&NotFileGH |
			(bb>>10)&NotFileGH | (bb>>6)&NotFileAB

		kingAttacks[sq] = bb.North() | bb.South() | bb.East() | bb.West() |
			bb.NorthEast() | bb.NorthWest() | bb.SouthEast() | bb.SouthWest()

		pawnAttacks[White][sq] = bb.NorthEast() | bb.NorthWest()
		pawnAttacks[Black][sq] = bb.SouthEast() | bb.SouthWest()
	}
	initMagics()
	initLines()
}

// initLines fills betweenBB and lineBB from the slider tables: two squares
// are aligned when one is on the other's empty-board rook or bishop rays.
func initLines() {
	for a := Square(0); a < NoSquare; a++ {
		for b := Square(0); b < NoSquare; b++ {
			if a == b {
				continue
			}
			ab, bb := SquareBB(a), SquareBB(b)
			switch {
			case RookAttacks(a, 0)&bb != 0:
				betweenBB[a][b] = RookAttacks(a, bb) & RookAttacks(b, ab)
				lineBB[a][b] = (RookAttacks(a, 0) & RookAttacks(b, 0)) | ab | bb
			case BishopAttacks(a, 0)&bb != 0:
				betweenBB[a][b] = BishopAttacks(a, bb) & BishopAttacks(b, ab)
				lineBB[a][b] = (BishopAttacks(a, 0) & BishopAttacks(b, 0)) | ab | bb
			}
		}
	}
}

// KnightAttacks returns the knight attack set from sq.
func KnightAttacks(sq Square) Bitboard {
	return knightAttacks[sq]
}

// KingAttacks returns the king attack set from sq.
func KingAttacks(sq Square) Bitboard {
	return kingAttacks[sq]
}

// PawnAttacks returns the squares a pawn of color c on sq attacks.
func PawnAttacks(sq Square, c Color) Bitboard {
	return pawnAttacks[c][sq]
}

// BishopAttacks returns the bishop attack set for a given occupancy.
func BishopAttacks(sq Square, occupied Bitboard) Bitboard {
	m := &bishopMagics[sq]
	return bishopTable[m.Offset+uint32(((uint64(occupied&m.Mask))*m.Magic)>>m.Shift)]
}

// RookAttacks returns the rook attack set for a given occupancy.
func RookAttacks(sq Square, occupied Bitboard) Bitboard {
	m := &rookMagics[sq]
	return rookTable[m.Offset+uint32(((uint64(occupied&m.Mask))*m.Magic)>>m.Shift)]
}

// QueenAttacks returns the queen attack set for a given occupancy.
func QueenAttacks(sq Square, occupied Bitboard) Bitboard {
	return BishopAttacks(sq, occupied) | RookAttacks(sq, occupied)
}

// Between returns the squares strictly between two aligned squares.
func Between(a, b Square) Bitboard {
	return betweenBB[a][b]
}

// Aligned returns true if three squares share a rank, file or diagonal.
func Aligned(a, b, c Square) bool {
	return lineBB[a][b]&SquareBB(c) != 0
}

// AttackersByColor returns c's pieces attacking sq under the given occupancy.
func (p *Position) AttackersByColor(sq Square, c Color, occupied Bitboard) Bitboard {
	return (pawnAttacks[c.Other()][sq] & p.Pieces[c][Pawn]) |
		(knightAttacks[sq] & p.Pieces[c][Knight]) |
		(kingAttacks[sq] & p.Pieces[c][King]) |
		(BishopAttacks(sq, occupied) & (p.Pieces[c][Bishop] | p.Pieces[c][Queen])) |
		(RookAttacks(sq, occupied) & (p.Pieces[c][Rook] | p.Pieces[c][Queen]))
}

// IsSquareAttacked returns true if sq is attacked by byColor.
func (p *Position) IsSquareAttacked(sq Square, byColor Color) bool {
	return p.AttackersByColor(sq, byColor, p.AllOccupied) != 0
}

// UpdateCheckers recomputes the pieces checking the side to move.
func (p *Position) UpdateCheckers() {
	us := p.SideToMove
	p.Checkers = p.AttackersByColor(p.KingSquare[us], us.Other(), p.AllOccupied)
}
