// Package ledger durably records which (N, M) oracle tables have been built,
// when, and with what calibration constant, so a training run or the play
// CLI never has to re-derive this from probing the filesystem.
//
// Grounded on the teacher's internal/storage.Storage: a small typed KV store
// over BadgerDB, one JSON-marshalled value per key. Generalized here from
// user preferences/game-stats records to a TrainingRecord keyed by "N:M".
package ledger

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/dgraph-io/badger/v4"
)

// TrainingRecord describes one completed training run for a given (N, M).
type TrainingRecord struct {
	N             int           `json:"n"`
	M             int           `json:"m"`
	ExpectedCount int64         `json:"expected_count"`
	NodeCount     int64         `json:"node_count"`
	TablePath     string        `json:"table_path"`
	Checksum      string        `json:"checksum"` // hex SHA-256 of the table file
	BuildDuration time.Duration `json:"build_duration"`
	CompletedAt   time.Time     `json:"completed_at"`
}

// Ledger wraps a BadgerDB database of TrainingRecords keyed by "N:M".
type Ledger struct {
	db *badger.DB
}

// Open opens (creating if absent) a ledger database rooted at dir.
func Open(dir string) (*Ledger, error) {
	opts := badger.DefaultOptions(dir)
	opts.Logger = nil // the teacher disables Badger's own logger the same way

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("ledger: open %s: %w", dir, err)
	}
	return &Ledger{db: db}, nil
}

// Close closes the underlying database.
func (l *Ledger) Close() error {
	if l.db == nil {
		return nil
	}
	return l.db.Close()
}

func recordKey(n, m int) []byte {
	return []byte(fmt.Sprintf("%d:%d", n, m))
}

// Put records a completed training run, superseding any previous record for
// the same (N, M).
func (l *Ledger) Put(rec TrainingRecord) error {
	data, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("ledger: marshal record for %d:%d: %w", rec.N, rec.M, err)
	}
	return l.db.Update(func(txn *badger.Txn) error {
		return txn.Set(recordKey(rec.N, rec.M), data)
	})
}

// Get returns the training record for (n, m), if one has been recorded.
func (l *Ledger) Get(n, m int) (TrainingRecord, bool, error) {
	var rec TrainingRecord
	found := false

	err := l.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(recordKey(n, m))
		if err == badger.ErrKeyNotFound {
			return nil
		}
		if err != nil {
			return err
		}
		found = true
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &rec)
		})
	})
	if err != nil {
		return TrainingRecord{}, false, fmt.Errorf("ledger: get %d:%d: %w", n, m, err)
	}
	return rec, found, nil
}

// List returns every recorded TrainingRecord, in no particular order.
func (l *Ledger) List() ([]TrainingRecord, error) {
	var records []TrainingRecord
	err := l.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Rewind(); it.Valid(); it.Next() {
			var rec TrainingRecord
			err := it.Item().Value(func(val []byte) error {
				return json.Unmarshal(val, &rec)
			})
			if err != nil {
				return err
			}
			records = append(records, rec)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("ledger: list: %w", err)
	}
	return records, nil
}
