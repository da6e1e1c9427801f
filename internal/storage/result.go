package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"time"
)

// Result is the benchmark artifact written after a timed perft pass.
type Result struct {
	ElapsedSeconds float64 `json:"elapsed_seconds"`
	Nodes          uint64  `json:"nodes"`
	NodesPerSecond float64 `json:"nodes_per_second"`
}

// NewResult builds a Result from a node total and elapsed time.
func NewResult(nodes uint64, elapsed time.Duration) Result {
	r := Result{ElapsedSeconds: elapsed.Seconds(), Nodes: nodes}
	if r.ElapsedSeconds > 0 {
		r.NodesPerSecond = float64(nodes) / r.ElapsedSeconds
	}
	return r
}

// WriteResult writes r as indented JSON to path.
func WriteResult(path string, r Result) error {
	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, append(data, '\n'), 0644); err != nil {
		return fmt.Errorf("write result: %w", err)
	}
	return nil
}

// ReadResult loads an artifact written by WriteResult.
func ReadResult(path string) (Result, error) {
	var r Result
	data, err := os.ReadFile(path)
	if err != nil {
		return r, err
	}
	if err := json.Unmarshal(data, &r); err != nil {
		return r, fmt.Errorf("parse result %s: %w", path, err)
	}
	return r, nil
}
