// Package progress owns the durable cross-session record: completed levels,
// best times, discovered breeds, and the derived star total. The record is
// loaded once at startup and fully persisted on every mutation.
package progress

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	_ "modernc.org/sqlite"

	"github.com/kamogawa/shibahunt/internal/scoring"
)

// storageKey is the single fixed key the record is stored under, carried over
// from the browser build's localStorage entry.
const storageKey = "shibaGameProgress"

// Store persists the progress record to SQLite. Durability is best-effort: a
// failed write is logged and surfaced through LastPersistErr, but in-memory
// state stays authoritative and play continues.
type Store struct {
	db    *sql.DB
	stars *scoring.Table
	log   *slog.Logger

	mu         sync.Mutex
	rec        Record
	persistErr error
}

// Open opens (or creates) the progress database at path, runs migrations and
// loads the record. A missing or unparseable record is replaced by the empty
// record; only infrastructure failures (unopenable database) return an error.
func Open(path string, stars *scoring.Table, logger *slog.Logger) (*Store, error) {
	if logger == nil {
		logger = slog.Default()
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open progress database: %w", err)
	}

	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enable WAL mode: %w", err)
	}

	s := &Store{db: db, stars: stars, log: logger, rec: EmptyRecord()}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, err
	}

	s.load()
	return s, nil
}

func (s *Store) migrate() error {
	const schema = `CREATE TABLE IF NOT EXISTS progress (
		key TEXT PRIMARY KEY,
		data TEXT NOT NULL,
		updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
	)`
	if _, err := s.db.Exec(schema); err != nil {
		return fmt.Errorf("migration failed: %w", err)
	}
	return nil
}

// load reads the persisted record into memory. Corruption is logged and
// replaced by the empty record; it never blocks startup. The star total is
// recomputed from best times regardless of what was stored.
func (s *Store) load() {
	s.mu.Lock()
	defer s.mu.Unlock()

	var data string
	err := s.db.QueryRow("SELECT data FROM progress WHERE key = ?", storageKey).Scan(&data)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		return
	case err != nil:
		s.log.Warn("progress load failed, starting empty", "error", err)
		return
	}

	var rec Record
	if err := json.Unmarshal([]byte(data), &rec); err != nil {
		s.log.Warn("progress record corrupt, starting empty", "error", err)
		return
	}

	rec.normalize()
	rec.TotalStars = s.stars.TotalStars(rec.BestTimes)
	s.rec = rec
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Record returns a copy of the current in-memory record.
func (s *Store) Record() Record {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rec.Clone()
}

// LastPersistErr reports the error from the most recent persist attempt, nil
// if it succeeded.
func (s *Store) LastPersistErr() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.persistErr
}

// RecordCompletion records a level completion: the best time becomes the
// minimum of the existing best and seconds, the level joins the completed
// set, the star total is recomputed, and the whole record is persisted.
// The returned flag reports whether seconds improved a previously recorded
// best (false on a level's first completion).
func (s *Store) RecordCompletion(level, seconds int) (Record, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	prev, had := s.rec.BestTimes[level]
	newBest := had && seconds < prev

	if !had || seconds < prev {
		s.rec.BestTimes[level] = seconds
	}
	if !s.rec.LevelCompleted(level) {
		s.rec.CompletedLevels = append(s.rec.CompletedLevels, level)
	}
	s.rec.TotalStars = s.stars.TotalStars(s.rec.BestTimes)

	s.persist()
	return s.rec.Clone(), newBest
}

// RecordDiscovery adds a breed to the discovered set if absent and persists.
func (s *Store) RecordDiscovery(breedID string) Record {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.rec.BreedDiscovered(breedID) {
		s.rec.DiscoveredBreeds = append(s.rec.DiscoveredBreeds, breedID)
		s.persist()
	}
	return s.rec.Clone()
}

// Reset clears all progress and removes the persisted record.
func (s *Store) Reset() Record {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.rec = EmptyRecord()
	if _, err := s.db.Exec("DELETE FROM progress WHERE key = ?", storageKey); err != nil {
		s.persistErr = fmt.Errorf("delete progress record: %w", err)
		s.log.Error("progress reset persist failed", "error", err)
	} else {
		s.persistErr = nil
	}
	return s.rec.Clone()
}

// persist writes the full in-memory record. Callers hold s.mu.
func (s *Store) persist() {
	data, err := json.Marshal(s.rec)
	if err != nil {
		s.persistErr = fmt.Errorf("marshal progress record: %w", err)
		s.log.Error("progress persist failed", "error", err)
		return
	}

	_, err = s.db.Exec(
		`INSERT INTO progress (key, data, updated_at) VALUES (?, ?, CURRENT_TIMESTAMP)
		 ON CONFLICT(key) DO UPDATE SET data = excluded.data, updated_at = CURRENT_TIMESTAMP`,
		storageKey, string(data),
	)
	if err != nil {
		s.persistErr = fmt.Errorf("write progress record: %w", err)
		s.log.Error("progress persist failed", "error", err)
		return
	}
	s.persistErr = nil
}
