package board

// Zobrist keys, generated from a fixed seed so hashes are reproducible
// across runs (the run store keys positions by them).
var (
	zobristPiece      [2][6][64]uint64
	zobristEnPassant  [8]uint64
	zobristCastling   [16]uint64
	zobristSideToMove uint64
)

func init() {
	state := uint64(0x98F107A2BEEF1234)
	next := func() uint64 {
		// xorshift64*
		state ^= state >> 12
		state ^= state << 25
		state ^= state >> 27
		return state * 0x2545F4914F6CDD1D
	}

	for c := range zobristPiece {
		for pt := range zobristPiece[c] {
			for sq := range zobristPiece[c][pt] {
				zobristPiece[c][pt][sq] = next()
			}
		}
	}
	for i := range zobristEnPassant {
		zobristEnPassant[i] = next()
	}
	for i := range zobristCastling {
		zobristCastling[i] = next()
	}
	zobristSideToMove = next()
}
