package bot

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/Idumii/ArenaGaming/internal/watch"
)

func TestSplitRiotID(t *testing.T) {
	tests := []struct {
		input    string
		gameName string
		tagLine  string
		ok       bool
	}{
		{"Faker#KR1", "Faker", "KR1", true},
		{"  Faker # KR1  ", "Faker", "KR1", true},
		{"Hide on bush#KR1", "Hide on bush", "KR1", true},
		{"NoTag", "", "", false},
		{"#KR1", "", "", false},
		{"Faker#", "", "", false},
		{"", "", "", false},
	}

	for _, tt := range tests {
		gameName, tagLine, ok := splitRiotID(tt.input)
		require.Equal(t, tt.ok, ok, "input %q", tt.input)
		require.Equal(t, tt.gameName, gameName, "input %q", tt.input)
		require.Equal(t, tt.tagLine, tagLine, "input %q", tt.input)
	}
}

func TestTrackedTitles(t *testing.T) {
	require.Equal(t, "LoL", trackedTitles(&watch.TrackedAccount{WatchLoL: true}))
	require.Equal(t, "TFT", trackedTitles(&watch.TrackedAccount{WatchTFT: true}))
	require.Equal(t, "LoL, TFT", trackedTitles(&watch.TrackedAccount{WatchLoL: true, WatchTFT: true}))
}
