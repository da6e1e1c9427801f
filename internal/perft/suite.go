package perft

import "fmt"

// Case is one reference position checked at one depth.
type Case struct {
	Name  string
	FEN   string
	Depth int
	Nodes uint64
}

func (c Case) String() string {
	return fmt.Sprintf("%s depth %d", c.Name, c.Depth)
}

// reference holds published perft counts; counts[i] is the count at depth i+1.
var reference = []struct {
	name   string
	fen    string
	counts []uint64
}{
	{"start", "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1",
		[]uint64{20, 400, 8902, 197281, 4865609, 119060324}},
	{"kiwipete", "r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq - 0 1",
		[]uint64{48, 2039, 97862, 4085603, 193690690}},
	{"position3", "8/2p5/3p4/KP5r/1R3p1k/8/4P1P1/8 w - - 0 1",
		[]uint64{14, 191, 2812, 43238, 674624, 11030083, 178633661}},
	{"position4", "r3k2r/Pppp1ppp/1b3nbN/nP6/BBP1P3/q4N2/Pp1P2PP/R2Q1RK1 w kq - 0 1",
		[]uint64{6, 264, 9467, 422333, 15833292}},
	{"position5", "rnbq1k1r/pp1Pbppp/2p5/8/2B5/8/PPP1NnPP/RNBQK2R w KQ - 1 8",
		[]uint64{44, 1486, 62379, 2103487, 89941194}},
	{"position6", "r4rk1/1pp1qppp/p1np1n2/2b1p1B1/2B1P1b1/P1NP1N2/1PP1QPPP/R4RK1 w - - 0 10",
		[]uint64{46, 2079, 89890, 3894594, 164075551}},
}

// Suite returns the six reference positions at their deepest known depth.
func Suite() []Case {
	cases := make([]Case, len(reference))
	for i, r := range reference {
		d := len(r.counts)
		cases[i] = Case{Name: r.name, FEN: r.fen, Depth: d, Nodes: r.counts[d-1]}
	}
	return cases
}

// Scale caps every case at maxDepth, taking the reference count for the
// lower depth. Cases already at or below maxDepth are unchanged.
func Scale(cases []Case, maxDepth int) ([]Case, error) {
	if maxDepth < 1 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidDepth, maxDepth)
	}
	out := make([]Case, len(cases))
	for i, c := range cases {
		out[i] = c
		if c.Depth <= maxDepth {
			continue
		}
		n, ok := ReferenceCount(c.Name, maxDepth)
		if !ok {
			return nil, fmt.Errorf("perft: no reference count for %s at depth %d", c.Name, maxDepth)
		}
		out[i].Depth, out[i].Nodes = maxDepth, n
	}
	return out, nil
}

// Quick is the suite capped at depth 4, which runs in seconds.
func Quick() []Case {
	cases, err := Scale(Suite(), 4)
	if err != nil {
		panic(err)
	}
	return cases
}

// ReferenceCount looks up the published count for a named position.
func ReferenceCount(name string, depth int) (uint64, bool) {
	for _, r := range reference {
		if r.name == name && depth >= 1 && depth <= len(r.counts) {
			return r.counts[depth-1], true
		}
	}
	return 0, false
}
