package rank

import (
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/Idumii/ArenaGaming/internal/storage"
)

// DateFormat is the day key layout used by the store
const DateFormat = "2006-01-02"

// Store keeps one Snapshot per (day, account, queue). A day that has rolled
// over is immutable: writes to past dates are rejected so that delta
// computations against "yesterday" stay reproducible.
type Store struct {
	mu   sync.RWMutex
	path string
	// day -> puuid -> queueType -> snapshot
	days map[string]map[string]map[string]Snapshot

	now func() time.Time
}

// NewStore creates a snapshot store persisting under dataDir
func NewStore(dataDir string) *Store {
	return &Store{
		path: filepath.Join(dataDir, "rank_snapshots.json"),
		days: make(map[string]map[string]map[string]Snapshot),
		now:  time.Now,
	}
}

// Load reads the snapshot file. A corrupt file degrades to an empty store
// with the original preserved under a .backup name.
func (s *Store) Load() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	days := make(map[string]map[string]map[string]Snapshot)
	if _, err := storage.LoadJSON(s.path, &days); err != nil {
		return fmt.Errorf("failed to load rank snapshots: %w", err)
	}
	s.days = days
	return nil
}

// Record stores a snapshot for a day, persisting before returning. Today's
// snapshot may be re-recorded; a past day is never overwritten.
func (s *Store) Record(day, puuid, queueType string, snap Snapshot) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	today := s.now().Format(DateFormat)
	if day != today {
		if _, exists := s.lookup(day, puuid, queueType); exists {
			return fmt.Errorf("snapshot for %s/%s on %s is immutable", puuid, queueType, day)
		}
	}

	if s.days[day] == nil {
		s.days[day] = make(map[string]map[string]Snapshot)
	}
	if s.days[day][puuid] == nil {
		s.days[day][puuid] = make(map[string]Snapshot)
	}

	// Keep the in-memory snapshot even if the save fails so the digest can
	// still compute deltas; the next write rewrites the whole file.
	s.days[day][puuid][queueType] = snap
	if err := storage.SaveJSON(s.path, s.days); err != nil {
		return fmt.Errorf("failed to save rank snapshots: %w", err)
	}
	return nil
}

// Get returns the snapshot for a (day, account, queue), if recorded
func (s *Store) Get(day, puuid, queueType string) (Snapshot, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lookup(day, puuid, queueType)
}

func (s *Store) lookup(day, puuid, queueType string) (Snapshot, bool) {
	byPUUID, ok := s.days[day]
	if !ok {
		return Snapshot{}, false
	}
	byQueue, ok := byPUUID[puuid]
	if !ok {
		return Snapshot{}, false
	}
	snap, ok := byQueue[queueType]
	return snap, ok
}

// Prune drops days older than keepDays to bound file growth
func (s *Store) Prune(keepDays int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	cutoff := s.now().AddDate(0, 0, -keepDays).Format(DateFormat)
	removed := false
	for day := range s.days {
		if day < cutoff {
			delete(s.days, day)
			removed = true
		}
	}
	if !removed {
		return nil
	}
	if err := storage.SaveJSON(s.path, s.days); err != nil {
		return fmt.Errorf("failed to save rank snapshots: %w", err)
	}
	return nil
}
