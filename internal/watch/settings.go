package watch

import (
	"fmt"
	"log/slog"
	"path/filepath"
	"sync"

	"github.com/Idumii/ArenaGaming/internal/storage"
)

// Settings stores per-guild configuration: the default notification channel
type Settings struct {
	mu       sync.RWMutex
	path     string
	channels map[string]string // guildID -> channelID
}

// NewSettings creates the guild settings store under dataDir
func NewSettings(dataDir string) *Settings {
	return &Settings{
		path:     filepath.Join(dataDir, "guild_configs.json"),
		channels: make(map[string]string),
	}
}

// Load reads the settings file. A corrupt file degrades to empty settings.
func (s *Settings) Load() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	channels := make(map[string]string)
	if _, err := storage.LoadJSON(s.path, &channels); err != nil {
		slog.Error("Failed to load guild settings, starting empty", "error", err)
		return nil
	}
	s.channels = channels
	return nil
}

// SetDefaultChannel records a guild's notification channel, persisting
// before returning success
func (s *Settings) SetDefaultChannel(guildID, channelID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	previous, had := s.channels[guildID]
	s.channels[guildID] = channelID
	if err := storage.SaveJSON(s.path, s.channels); err != nil {
		if had {
			s.channels[guildID] = previous
		} else {
			delete(s.channels, guildID)
		}
		return fmt.Errorf("failed to save guild settings: %w", err)
	}
	return nil
}

// DefaultChannel returns the guild's configured notification channel, if any
func (s *Settings) DefaultChannel(guildID string) (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	channelID, ok := s.channels[guildID]
	return channelID, ok
}
