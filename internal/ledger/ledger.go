package ledger

import (
	"fmt"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/Idumii/ArenaGaming/internal/game"
	"github.com/Idumii/ArenaGaming/internal/storage"
)

// Kind is the transition a notification was sent for
type Kind string

const (
	KindGameStart Kind = "game_start"
	KindGameEnd   Kind = "game_end"
)

// Entry records one delivered notification. For a given
// (kind, title, puuid, gameID) at most one entry ever exists.
type Entry struct {
	Kind       Kind       `json:"kind"`
	Title      game.Title `json:"title"`
	PUUID      string     `json:"puuid"`
	GameID     string     `json:"game_id"`
	NotifiedAt time.Time  `json:"notified_at"`
}

func (e *Entry) key() string {
	return entryKey(e.Kind, e.Title, e.PUUID, e.GameID)
}

func entryKey(kind Kind, title game.Title, puuid, gameID string) string {
	return string(kind) + "|" + string(title) + "|" + puuid + "|" + gameID
}

// Ledger is the durable record of already-delivered notifications. It is the
// at-most-once guard for the whole system: the detection loop checks it
// before notifying and records into it after, and it survives restarts.
type Ledger struct {
	mu      sync.RWMutex
	path    string
	entries map[string]Entry

	now func() time.Time
}

// New creates a ledger persisting under dataDir
func New(dataDir string) *Ledger {
	return &Ledger{
		path:    filepath.Join(dataDir, "notifications.json"),
		entries: make(map[string]Entry),
		now:     time.Now,
	}
}

// Load reads the ledger file. A corrupt file degrades to an empty ledger
// with the original preserved under a .backup name.
func (l *Ledger) Load() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	var stored []Entry
	if _, err := storage.LoadJSON(l.path, &stored); err != nil {
		return fmt.Errorf("failed to load notification ledger: %w", err)
	}

	l.entries = make(map[string]Entry, len(stored))
	for _, e := range stored {
		l.entries[e.key()] = e
	}
	return nil
}

// HasNotified reports whether this transition was already notified
func (l *Ledger) HasNotified(kind Kind, title game.Title, puuid, gameID string) bool {
	l.mu.RLock()
	defer l.mu.RUnlock()
	_, ok := l.entries[entryKey(kind, title, puuid, gameID)]
	return ok
}

// RecordNotified marks a transition as notified and persists before
// returning. Recording the same key twice is a no-op.
func (l *Ledger) RecordNotified(kind Kind, title game.Title, puuid, gameID string) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	key := entryKey(kind, title, puuid, gameID)
	if _, ok := l.entries[key]; ok {
		return nil
	}

	// The in-memory entry stands even if the save fails: double-notifying
	// is worse than losing durability for one entry, and the next
	// successful save rewrites the whole file anyway.
	l.entries[key] = Entry{
		Kind:       kind,
		Title:      title,
		PUUID:      puuid,
		GameID:     gameID,
		NotifiedAt: l.now(),
	}
	return l.save()
}

// Forget drops the game_start entry for a game once its game_end has been
// fully processed. The game_end entry stays behind as the duplicate guard
// for live feeds that keep listing a finished game; PruneEndedBefore bounds
// its growth.
func (l *Ledger) Forget(title game.Title, puuid, gameID string) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	key := entryKey(KindGameStart, title, puuid, gameID)
	if _, ok := l.entries[key]; !ok {
		return nil
	}
	delete(l.entries, key)
	return l.save()
}

// PruneEndedBefore drops game_end entries older than cutoff. By then the
// game has long left the live feed, so the duplicate guard is no longer
// needed.
func (l *Ledger) PruneEndedBefore(cutoff time.Time) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	removed := false
	for key, e := range l.entries {
		if e.Kind == KindGameEnd && e.NotifiedAt.Before(cutoff) {
			delete(l.entries, key)
			removed = true
		}
	}
	if !removed {
		return nil
	}
	return l.save()
}

// PendingGameStarts returns game_start entries with no matching game_end,
// oldest first. The match-resolution sweep uses this to know which
// in-progress games to re-check.
func (l *Ledger) PendingGameStarts() []Entry {
	l.mu.RLock()
	defer l.mu.RUnlock()

	var pending []Entry
	for _, e := range l.entries {
		if e.Kind != KindGameStart {
			continue
		}
		if _, done := l.entries[entryKey(KindGameEnd, e.Title, e.PUUID, e.GameID)]; done {
			continue
		}
		pending = append(pending, e)
	}
	sort.Slice(pending, func(i, j int) bool {
		return pending[i].NotifiedAt.Before(pending[j].NotifiedAt)
	})
	return pending
}

// save writes all entries in a stable order. Caller must hold mu.
func (l *Ledger) save() error {
	stored := make([]Entry, 0, len(l.entries))
	for _, e := range l.entries {
		stored = append(stored, e)
	}
	sort.Slice(stored, func(i, j int) bool {
		return stored[i].key() < stored[j].key()
	})
	if err := storage.SaveJSON(l.path, stored); err != nil {
		return fmt.Errorf("failed to save notification ledger: %w", err)
	}
	return nil
}
