package riot

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/Idumii/ArenaGaming/internal/game"
)

func TestGetLiveGame(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/lol/spectator/v5/active-games/by-summoner/puuid-1", r.URL.Path)
		w.Write([]byte(`{"gameId":4242,"gameQueueConfigId":420,"gameStartTime":1718000000000,"gameLength":300}`))
	}))
	defer server.Close()

	s := NewLoLStats(newTestClient(server))
	live, inGame, err := s.GetLiveGame(context.Background(), "puuid-1")
	require.NoError(t, err)
	require.True(t, inGame)
	require.Equal(t, "4242", live.GameID)
	require.Equal(t, 420, live.QueueID)
	require.Equal(t, "Ranked Solo/Duo", live.Mode)
	require.Equal(t, int64(1718000000), live.StartedAt.Unix())
}

func TestGetLiveGameNotInGame(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	s := NewLoLStats(newTestClient(server))
	live, inGame, err := s.GetLiveGame(context.Background(), "puuid-1")
	require.NoError(t, err)
	require.False(t, inGame)
	require.Nil(t, live)
}

func TestGetMatchResult(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/lol/match/v5/matches/EUW1_4242", r.URL.Path)
		w.Write([]byte(`{
			"metadata": {"matchId": "EUW1_4242"},
			"info": {
				"gameDuration": 1823,
				"gameEndTimestamp": 1718001823000,
				"queueId": 420,
				"participants": [
					{"puuid": "other", "championName": "Zed", "win": false, "kills": 1, "deaths": 5, "assists": 2},
					{"puuid": "puuid-1", "championName": "Ahri", "win": true, "kills": 8, "deaths": 2, "assists": 11,
					 "totalMinionsKilled": 180, "neutralMinionsKilled": 20, "goldEarned": 12500,
					 "totalDamageDealtToChampions": 24000, "visionScore": 31}
				]
			}
		}`))
	}))
	defer server.Close()

	s := NewLoLStats(newTestClient(server))
	result, ready, err := s.GetMatchResult(context.Background(), "4242", "puuid-1")
	require.NoError(t, err)
	require.True(t, ready)
	require.Equal(t, "4242", result.GameID)
	require.True(t, result.Win)
	require.Equal(t, "Ahri", result.ChampionName)
	require.Equal(t, 8, result.Kills)
	require.Equal(t, 200, result.CS)
	require.Equal(t, int64(1823), result.DurationSec)
	require.InDelta(t, 9.5, result.KDA(), 0.001)
}

func TestGetMatchResultNormalizesLegacyDuration(t *testing.T) {
	// Without gameEndTimestamp the duration field is in milliseconds
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{
			"metadata": {"matchId": "EUW1_4242"},
			"info": {
				"gameDuration": 1823000,
				"gameEndTimestamp": 0,
				"queueId": 450,
				"participants": [{"puuid": "puuid-1", "championName": "Lux", "win": true}]
			}
		}`))
	}))
	defer server.Close()

	s := NewLoLStats(newTestClient(server))
	result, ready, err := s.GetMatchResult(context.Background(), "4242", "puuid-1")
	require.NoError(t, err)
	require.True(t, ready)
	require.Equal(t, int64(1823), result.DurationSec)
}

func TestGetMatchResultNotPropagatedYet(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	s := NewLoLStats(newTestClient(server))
	result, ready, err := s.GetMatchResult(context.Background(), "4242", "puuid-1")
	require.NoError(t, err)
	require.False(t, ready)
	require.Nil(t, result)
}

func TestGetMatchResultPlayerMissingIsAnError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"metadata": {"matchId": "EUW1_4242"}, "info": {"participants": []}}`))
	}))
	defer server.Close()

	s := NewLoLStats(newTestClient(server))
	_, _, err := s.GetMatchResult(context.Background(), "4242", "puuid-1")
	require.Error(t, err)
}

func TestGetRankEntries(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/lol/league/v4/entries/by-puuid/puuid-1", r.URL.Path)
		w.Write([]byte(`[
			{"queueType": "RANKED_SOLO_5x5", "tier": "GOLD", "rank": "II", "leaguePoints": 40, "wins": 10, "losses": 8},
			{"queueType": "RANKED_FLEX_SR", "tier": "SILVER", "rank": "I", "leaguePoints": 75, "wins": 4, "losses": 2}
		]`))
	}))
	defer server.Close()

	s := NewLoLStats(newTestClient(server))
	entries, err := s.GetRankEntries(context.Background(), "puuid-1")
	require.NoError(t, err)
	require.Len(t, entries, 2)
	require.Equal(t, game.RankEntry{QueueType: "RANKED_SOLO_5x5", Tier: "GOLD", Division: "II", LeaguePoints: 40, Wins: 10, Losses: 8}, entries[0])
}

func TestGetRankEntriesUnranked(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	s := NewLoLStats(newTestClient(server))
	entries, err := s.GetRankEntries(context.Background(), "puuid-1")
	require.NoError(t, err)
	require.Empty(t, entries)
}
