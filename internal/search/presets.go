package search

import "fmt"

// Difficulty names a preset search strength.
type Difficulty int

const (
	Easy Difficulty = iota
	Medium
	Hard
)

func (d Difficulty) String() string {
	switch d {
	case Easy:
		return "easy"
	case Medium:
		return "medium"
	case Hard:
		return "hard"
	}
	return fmt.Sprintf("Difficulty(%d)", int(d))
}

// Preset returns the configuration for a difficulty level.
func Preset[G any](d Difficulty, evaluator func(G, int) int) Config[G] {
	switch d {
	case Easy:
		return Config[G]{Kind: AlphaBeta, Depth: 2, Evaluator: evaluator}
	case Hard:
		return Config[G]{Kind: Quiescence, Depth: 4, QuiescenceDepth: 6, Evaluator: evaluator}
	default:
		return Config[G]{Kind: Quiescence, Depth: 3, QuiescenceDepth: 4, Evaluator: evaluator}
	}
}
