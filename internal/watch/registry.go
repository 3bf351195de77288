package watch

import (
	"fmt"
	"log/slog"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/Idumii/ArenaGaming/internal/storage"
)

// Registry holds the per-guild watch lists. Every mutation is written back
// to the guild's file before the call returns.
type Registry struct {
	mu      sync.RWMutex
	dir     string
	byGuild map[string][]*TrackedAccount
}

// NewRegistry creates a registry persisting under dataDir/watch_data
func NewRegistry(dataDir string) *Registry {
	return &Registry{
		dir:     filepath.Join(dataDir, "watch_data"),
		byGuild: make(map[string][]*TrackedAccount),
	}
}

// Load reads every guild watch file from disk. A file that fails to parse is
// preserved under a .backup name and that guild starts empty; startup never
// fails on bad watch data.
func (r *Registry) Load() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	matches, err := filepath.Glob(filepath.Join(r.dir, "guild_*_watched.json"))
	if err != nil {
		return fmt.Errorf("failed to scan watch directory: %w", err)
	}

	r.byGuild = make(map[string][]*TrackedAccount)
	for _, path := range matches {
		guildID, ok := guildIDFromFile(path)
		if !ok {
			slog.Warn("Skipping watch file with unexpected name", "path", path)
			continue
		}

		var accounts []*TrackedAccount
		loaded, err := storage.LoadJSON(path, &accounts)
		if err != nil {
			slog.Error("Failed to load watch file, starting empty for guild", "guildID", guildID, "error", err)
			continue
		}
		if loaded {
			r.byGuild[guildID] = accounts
		}
	}

	total := 0
	for _, accounts := range r.byGuild {
		total += len(accounts)
	}
	slog.Info("Loaded watch lists", "guilds", len(r.byGuild), "accounts", total)
	return nil
}

// Add registers an account for a guild. It returns false when the guild
// already watches this PUUID; the stored file is not touched in that case.
func (r *Registry) Add(guildID string, account *TrackedAccount) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, existing := range r.byGuild[guildID] {
		if existing.PUUID == account.PUUID {
			return false, nil
		}
	}

	account.GuildID = guildID
	updated := append(r.byGuild[guildID], account)
	if err := r.save(guildID, updated); err != nil {
		return false, err
	}
	r.byGuild[guildID] = updated
	return true, nil
}

// Remove unregisters an account. It returns false when the guild does not
// watch this PUUID; the stored file is not touched in that case.
func (r *Registry) Remove(guildID, puuid string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	accounts := r.byGuild[guildID]
	for i, existing := range accounts {
		if existing.PUUID != puuid {
			continue
		}
		updated := append(append([]*TrackedAccount{}, accounts[:i]...), accounts[i+1:]...)
		if err := r.save(guildID, updated); err != nil {
			return false, err
		}
		r.byGuild[guildID] = updated
		return true, nil
	}
	return false, nil
}

// List returns the accounts watched by a guild, in insertion order
func (r *Registry) List(guildID string) []*TrackedAccount {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]*TrackedAccount{}, r.byGuild[guildID]...)
}

// Clear removes every watched account for a guild
func (r *Registry) Clear(guildID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if err := r.save(guildID, []*TrackedAccount{}); err != nil {
		return err
	}
	r.byGuild[guildID] = nil
	return nil
}

// All returns every watched account across guilds in a stable order:
// guilds sorted by ID, insertion order within a guild.
func (r *Registry) All() []*TrackedAccount {
	r.mu.RLock()
	defer r.mu.RUnlock()

	guildIDs := make([]string, 0, len(r.byGuild))
	for guildID := range r.byGuild {
		guildIDs = append(guildIDs, guildID)
	}
	sort.Strings(guildIDs)

	var all []*TrackedAccount
	for _, guildID := range guildIDs {
		all = append(all, r.byGuild[guildID]...)
	}
	return all
}

// save writes a guild's list to disk. Caller must hold mu.
func (r *Registry) save(guildID string, accounts []*TrackedAccount) error {
	path := r.filePath(guildID)
	if err := storage.SaveJSON(path, accounts); err != nil {
		return fmt.Errorf("failed to save watch list for guild %s: %w", guildID, err)
	}
	return nil
}

func (r *Registry) filePath(guildID string) string {
	return filepath.Join(r.dir, fmt.Sprintf("guild_%s_watched.json", guildID))
}

func guildIDFromFile(path string) (string, bool) {
	name := filepath.Base(path)
	name = strings.TrimSuffix(name, "_watched.json")
	name = strings.TrimPrefix(name, "guild_")
	return name, name != ""
}
