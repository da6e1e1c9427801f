package main

import (
	"testing"

	"github.com/hailam/chesssearch/internal/search"
)

func TestSearchConfig(t *testing.T) {
	tests := []struct {
		level, kind string
		depth       int
		want        search.Kind
		wantDepth   int
		wantErr     bool
	}{
		{level: "easy", want: search.AlphaBeta, wantDepth: 2},
		{level: "hard", kind: "minimax", depth: 3, want: search.Minimax, wantDepth: 3},
		{level: "medium", want: search.Quiescence, wantDepth: 3},
		{level: "expert", wantErr: true},
		{level: "easy", kind: "negascout", wantErr: true},
	}
	for _, tc := range tests {
		t.Run(tc.level+"/"+tc.kind, func(t *testing.T) {
			*level, *kind, *depth = tc.level, tc.kind, tc.depth
			cfg, err := searchConfig()
			if tc.wantErr {
				if err == nil {
					t.Errorf("searchConfig accepted level %q kind %q", tc.level, tc.kind)
				}
				return
			}
			if err != nil {
				t.Fatal(err)
			}
			if cfg.Kind != tc.want || cfg.Depth != tc.wantDepth {
				t.Errorf("config = %v depth %d, want %v depth %d", cfg.Kind, cfg.Depth, tc.want, tc.wantDepth)
			}
		})
	}
}
