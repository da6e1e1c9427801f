package storage

import (
	"encoding/binary"
	"encoding/json"
	"errors"
	"time"

	"github.com/dgraph-io/badger/v4"
)

const runPrefix = "run/"

// ErrNotFound is returned when a run does not exist.
var ErrNotFound = errors.New("storage: not found")

// CaseRun is one perft case inside a recorded run.
type CaseRun struct {
	Name           string  `json:"name"`
	Depth          int     `json:"depth"`
	Nodes          uint64  `json:"nodes"`
	Expected       uint64  `json:"expected"`
	ElapsedSeconds float64 `json:"elapsed_seconds"`
}

// Run is one benchmark run kept in the history.
type Run struct {
	StartedAt time.Time `json:"started_at"`
	Result
	Passed bool      `json:"passed"`
	Quick  bool      `json:"quick"`
	Cases  []CaseRun `json:"cases"`
}

// Store wraps BadgerDB for the run history.
type Store struct {
	db *badger.DB
}

// OpenStore opens the history database in dir, or in DatabaseDir when dir
// is empty.
func OpenStore(dir string) (*Store, error) {
	if dir == "" {
		var err error
		dir, err = DatabaseDir()
		if err != nil {
			return nil, err
		}
	}

	opts := badger.DefaultOptions(dir)
	opts.Logger = nil

	db, err := badger.Open(opts)
	if err != nil {
		return nil, err
	}
	return &Store{db: db}, nil
}

// Close closes the database.
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// runKey orders runs by start time.
func runKey(t time.Time) []byte {
	key := make([]byte, len(runPrefix)+8)
	copy(key, runPrefix)
	binary.BigEndian.PutUint64(key[len(runPrefix):], uint64(t.UnixNano()))
	return key
}

// RecordRun stores r under its start time, setting it to now if zero.
func (s *Store) RecordRun(r Run) error {
	if r.StartedAt.IsZero() {
		r.StartedAt = time.Now()
	}
	data, err := json.Marshal(r)
	if err != nil {
		return err
	}
	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Set(runKey(r.StartedAt), data)
	})
}

// Runs returns up to limit runs, newest first. limit <= 0 returns all.
func (s *Store) Runs(limit int) ([]Run, error) {
	var runs []Run
	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Reverse = true
		opts.Prefix = []byte(runPrefix)
		it := txn.NewIterator(opts)
		defer it.Close()

		seek := append([]byte(runPrefix), 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF)
		for it.Seek(seek); it.Valid(); it.Next() {
			var r Run
			if err := it.Item().Value(func(val []byte) error {
				return json.Unmarshal(val, &r)
			}); err != nil {
				return err
			}
			runs = append(runs, r)
			if limit > 0 && len(runs) == limit {
				break
			}
		}
		return nil
	})
	return runs, err
}

// LastRun returns the most recent run.
func (s *Store) LastRun() (Run, error) {
	runs, err := s.Runs(1)
	if err != nil {
		return Run{}, err
	}
	if len(runs) == 0 {
		return Run{}, ErrNotFound
	}
	return runs[0], nil
}
