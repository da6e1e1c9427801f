package uci

import (
	"bytes"
	"strings"
	"testing"

	"github.com/hailam/chesssearch/internal/board"
	"github.com/hailam/chesssearch/internal/search"
	"github.com/hailam/chesssearch/internal/session"
)

func newUCI(t *testing.T) (*UCI, *session.Session, *bytes.Buffer) {
	t.Helper()
	sess, err := session.New(search.Config[*board.Position]{Kind: search.AlphaBeta, Depth: 2})
	if err != nil {
		t.Fatal(err)
	}
	var out bytes.Buffer
	return New(sess, &out), sess, &out
}

func TestHandshake(t *testing.T) {
	u, _, out := newUCI(t)
	if err := u.Run(strings.NewReader("uci\nisready\nquit\nisready\n")); err != nil {
		t.Fatal(err)
	}
	got := out.String()
	for _, want := range []string{"id name chesssearch", "option name Depth", "uciok", "readyok"} {
		if !strings.Contains(got, want) {
			t.Errorf("missing %q in:\n%s", want, got)
		}
	}
	if strings.Count(got, "readyok") != 1 {
		t.Error("commands after quit were executed")
	}
}

func TestPosition(t *testing.T) {
	tests := []struct {
		name string
		cmd  string
		want string
	}{
		{"startpos", "position startpos", board.StartFEN},
		{"startpos moves", "position startpos moves e2e4 e7e5",
			"rnbqkbnr/pppp1ppp/8/4p3/4P3/8/PPPP1PPP/RNBQKBNR w KQkq e6 0 2"},
		{"fen", "position fen 4k3/8/8/8/8/8/8/R3K3 w - - 0 1", "4k3/8/8/8/8/8/8/R3K3 w - - 0 1"},
		{"fen moves", "position fen 4k3/8/8/8/8/8/8/R3K3 w - - 0 1 moves a1a8",
			"R3k3/8/8/8/8/8/8/4K3 b - - 1 1"},
		{"bad fen keeps position", "position fen nonsense", board.StartFEN},
		{"illegal move stops replay", "position startpos moves e2e4 e2e4",
			"rnbqkbnr/pppppppp/8/8/4P3/8/PPPP1PPP/RNBQKBNR b KQkq e3 0 1"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			u, sess, _ := newUCI(t)
			u.Execute(tc.cmd)
			if got := sess.FEN(); got != tc.want {
				t.Errorf("FEN = %q, want %q", got, tc.want)
			}
		})
	}
}

func TestGo(t *testing.T) {
	u, sess, out := newUCI(t)
	u.Execute("position fen 6k1/5ppp/8/8/8/8/8/R5K1 w - - 0 1")
	u.Execute("go depth 2")
	if !strings.Contains(out.String(), "bestmove a1a8") {
		t.Errorf("output:\n%s", out.String())
	}
	if sess.Search().Depth != 2 {
		t.Errorf("depth override leaked: %d", sess.Search().Depth)
	}
	if sess.FEN() != "6k1/5ppp/8/8/8/8/8/R5K1 w - - 0 1" {
		t.Error("go changed the position")
	}
}

func TestGoWithNoMoves(t *testing.T) {
	u, _, out := newUCI(t)
	u.Execute("position fen 7k/5Q2/6K1/8/8/8/8/8 b - - 0 1")
	u.Execute("go depth 1")
	if !strings.Contains(out.String(), "bestmove 0000") {
		t.Errorf("output:\n%s", out.String())
	}
}

func TestSetOption(t *testing.T) {
	u, sess, out := newUCI(t)
	u.Execute("setoption name Kind value quiescence")
	u.Execute("setoption name QuiescenceDepth value 3")
	u.Execute("setoption name Depth value 3")
	cfg := sess.Search()
	if cfg.Kind != search.Quiescence || cfg.Depth != 3 || cfg.QuiescenceDepth != 3 {
		t.Errorf("config = %+v", cfg)
	}

	u.Execute("setoption name Depth value 0")
	if !strings.Contains(out.String(), "info string") {
		t.Error("invalid depth not reported")
	}
	if sess.Search().Depth != 3 {
		t.Error("invalid depth replaced the configuration")
	}
}

func TestPerft(t *testing.T) {
	u, _, out := newUCI(t)
	u.Execute("perft 3")
	if !strings.Contains(out.String(), "Nodes: 8902") {
		t.Errorf("output:\n%s", out.String())
	}
}

func TestGoRejectsBadDepth(t *testing.T) {
	for _, depth := range []string{"0", "-2", "x"} {
		t.Run(depth, func(t *testing.T) {
			u, sess, out := newUCI(t)
			u.Execute("go depth " + depth)
			got := out.String()
			if !strings.Contains(got, "info string invalid depth") || !strings.Contains(got, "bestmove 0000") {
				t.Errorf("output:\n%s", got)
			}
			if strings.Contains(got, "info depth") || sess.Nodes() != 0 {
				t.Error("searched despite an invalid depth")
			}
		})
	}
}
