package watch

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func testAccount(puuid, name string) *TrackedAccount {
	return &TrackedAccount{
		PUUID:           puuid,
		GameName:        name,
		TagLine:         "EUW",
		WatchLoL:        true,
		NotifyGameStart: true,
		NotifyGameEnd:   true,
		AddedAt:         time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC),
	}
}

func TestAddAndList(t *testing.T) {
	r := NewRegistry(t.TempDir())

	added, err := r.Add("guild1", testAccount("p1", "Alpha"))
	require.NoError(t, err)
	require.True(t, added)

	added, err = r.Add("guild1", testAccount("p2", "Beta"))
	require.NoError(t, err)
	require.True(t, added)

	list := r.List("guild1")
	require.Len(t, list, 2)
	require.Equal(t, "Alpha#EUW", list[0].RiotID())
	require.Equal(t, "Beta#EUW", list[1].RiotID())
	require.Equal(t, "guild1", list[0].GuildID)
}

func TestAddDuplicatePUUIDIsRejected(t *testing.T) {
	r := NewRegistry(t.TempDir())

	added, err := r.Add("guild1", testAccount("p1", "Alpha"))
	require.NoError(t, err)
	require.True(t, added)

	added, err = r.Add("guild1", testAccount("p1", "AlphaRenamed"))
	require.NoError(t, err)
	require.False(t, added)
	require.Len(t, r.List("guild1"), 1)
}

func TestSamePlayerInTwoGuilds(t *testing.T) {
	r := NewRegistry(t.TempDir())

	added, err := r.Add("guild1", testAccount("p1", "Alpha"))
	require.NoError(t, err)
	require.True(t, added)

	added, err = r.Add("guild2", testAccount("p1", "Alpha"))
	require.NoError(t, err)
	require.True(t, added)

	require.Len(t, r.List("guild1"), 1)
	require.Len(t, r.List("guild2"), 1)
	require.Len(t, r.All(), 2)
}

func TestRemove(t *testing.T) {
	r := NewRegistry(t.TempDir())

	_, err := r.Add("guild1", testAccount("p1", "Alpha"))
	require.NoError(t, err)

	removed, err := r.Remove("guild1", "p1")
	require.NoError(t, err)
	require.True(t, removed)
	require.Empty(t, r.List("guild1"))

	removed, err = r.Remove("guild1", "p1")
	require.NoError(t, err)
	require.False(t, removed)
}

func TestClear(t *testing.T) {
	r := NewRegistry(t.TempDir())

	_, err := r.Add("guild1", testAccount("p1", "Alpha"))
	require.NoError(t, err)
	_, err = r.Add("guild1", testAccount("p2", "Beta"))
	require.NoError(t, err)

	require.NoError(t, r.Clear("guild1"))
	require.Empty(t, r.List("guild1"))
}

func TestLoadRestoresPersistedLists(t *testing.T) {
	dir := t.TempDir()

	r := NewRegistry(dir)
	_, err := r.Add("guild1", testAccount("p1", "Alpha"))
	require.NoError(t, err)
	_, err = r.Add("guild2", testAccount("p2", "Beta"))
	require.NoError(t, err)

	reloaded := NewRegistry(dir)
	require.NoError(t, reloaded.Load())

	require.Len(t, reloaded.List("guild1"), 1)
	require.Equal(t, "p1", reloaded.List("guild1")[0].PUUID)
	require.Len(t, reloaded.List("guild2"), 1)
	require.Equal(t, "p2", reloaded.List("guild2")[0].PUUID)
}

func TestLoadSkipsCorruptGuildFile(t *testing.T) {
	dir := t.TempDir()

	r := NewRegistry(dir)
	_, err := r.Add("good", testAccount("p1", "Alpha"))
	require.NoError(t, err)

	badPath := filepath.Join(dir, "watch_data", "guild_bad_watched.json")
	require.NoError(t, os.WriteFile(badPath, []byte("{corrupt"), 0644))

	reloaded := NewRegistry(dir)
	require.NoError(t, reloaded.Load())

	require.Len(t, reloaded.List("good"), 1)
	require.Empty(t, reloaded.List("bad"))

	// The corrupt bytes survive for inspection
	_, err = os.Stat(badPath + ".backup")
	require.NoError(t, err)
}

func TestAllReturnsStableOrder(t *testing.T) {
	r := NewRegistry(t.TempDir())

	_, err := r.Add("zeta", testAccount("p3", "Gamma"))
	require.NoError(t, err)
	_, err = r.Add("alpha", testAccount("p1", "Alpha"))
	require.NoError(t, err)
	_, err = r.Add("alpha", testAccount("p2", "Beta"))
	require.NoError(t, err)

	all := r.All()
	require.Len(t, all, 3)
	require.Equal(t, "p1", all[0].PUUID)
	require.Equal(t, "p2", all[1].PUUID)
	require.Equal(t, "p3", all[2].PUUID)
}
