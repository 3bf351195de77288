package riot

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/Idumii/ArenaGaming/internal/game"
)

// LoLStats implements game.StatsClient for League of Legends
type LoLStats struct {
	c *Client
}

// NewLoLStats creates the LoL stats accessor over a shared client
func NewLoLStats(c *Client) *LoLStats {
	return &LoLStats{c: c}
}

// Title returns the game title this client serves
func (s *LoLStats) Title() game.Title {
	return game.TitleLoL
}

// spectatorGame is the spectator-v5 active game payload
type spectatorGame struct {
	GameID            int64 `json:"gameId"`
	GameQueueConfigID int   `json:"gameQueueConfigId"`
	GameStartTime     int64 `json:"gameStartTime"` // Unix ms, 0 during loading screen
	GameLength        int64 `json:"gameLength"`    // seconds
}

// GetLiveGame checks the spectator API for a game in progress.
// A 404 means the player is not in a game.
func (s *LoLStats) GetLiveGame(ctx context.Context, puuid string) (*game.LiveGame, bool, error) {
	endpoint := fmt.Sprintf("%s/lol/spectator/v5/active-games/by-summoner/%s", s.c.platformHost, puuid)

	var live spectatorGame
	ok, err := s.c.get(ctx, endpoint, &live)
	if err != nil {
		return nil, false, fmt.Errorf("failed to get live game: %w", err)
	}
	if !ok {
		return nil, false, nil
	}

	startedAt := time.UnixMilli(live.GameStartTime)
	if live.GameStartTime == 0 {
		startedAt = time.Now().Add(-time.Duration(live.GameLength) * time.Second)
	}

	return &game.LiveGame{
		GameID:    strconv.FormatInt(live.GameID, 10),
		QueueID:   live.GameQueueConfigID,
		Mode:      game.QueueName(live.GameQueueConfigID),
		StartedAt: startedAt,
	}, true, nil
}

// match is the match-v5 payload, trimmed to what notifications need
type match struct {
	Metadata struct {
		MatchID string `json:"matchId"`
	} `json:"metadata"`
	Info struct {
		GameDuration     int64              `json:"gameDuration"`
		GameEndTimestamp int64              `json:"gameEndTimestamp"`
		QueueID          int                `json:"queueId"`
		Participants     []matchParticipant `json:"participants"`
	} `json:"info"`
}

type matchParticipant struct {
	PUUID                       string `json:"puuid"`
	ChampionName                string `json:"championName"`
	Win                         bool   `json:"win"`
	Kills                       int    `json:"kills"`
	Deaths                      int    `json:"deaths"`
	Assists                     int    `json:"assists"`
	TotalMinionsKilled          int    `json:"totalMinionsKilled"`
	NeutralMinionsKilled        int    `json:"neutralMinionsKilled"`
	GoldEarned                  int    `json:"goldEarned"`
	TotalDamageDealtToChampions int    `json:"totalDamageDealtToChampions"`
	VisionScore                 int    `json:"visionScore"`
}

// GetMatchResult fetches the finished-match record for a game.
// ok=false means the record has not propagated upstream yet and the caller
// should retry on a later tick.
func (s *LoLStats) GetMatchResult(ctx context.Context, gameID, puuid string) (*game.MatchResult, bool, error) {
	endpoint := fmt.Sprintf("%s/lol/match/v5/matches/%s", s.c.regionalHost, s.c.MatchID(gameID))

	var m match
	ok, err := s.c.get(ctx, endpoint, &m)
	if err != nil {
		return nil, false, fmt.Errorf("failed to get match: %w", err)
	}
	if !ok {
		return nil, false, nil
	}

	var p *matchParticipant
	for i := range m.Info.Participants {
		if m.Info.Participants[i].PUUID == puuid {
			p = &m.Info.Participants[i]
			break
		}
	}
	if p == nil {
		return nil, false, fmt.Errorf("player %s not found in match %s", puuid, m.Metadata.MatchID)
	}

	// When gameEndTimestamp is absent the duration field is in milliseconds
	duration := m.Info.GameDuration
	if m.Info.GameEndTimestamp == 0 {
		duration /= 1000
	}

	return &game.MatchResult{
		GameID:       gameID,
		QueueID:      m.Info.QueueID,
		Mode:         game.QueueName(m.Info.QueueID),
		DurationSec:  duration,
		EndedAt:      time.UnixMilli(m.Info.GameEndTimestamp),
		Win:          p.Win,
		ChampionName: p.ChampionName,
		Kills:        p.Kills,
		Deaths:       p.Deaths,
		Assists:      p.Assists,
		CS:           p.TotalMinionsKilled + p.NeutralMinionsKilled,
		GoldEarned:   p.GoldEarned,
		DamageDealt:  p.TotalDamageDealtToChampions,
		VisionScore:  p.VisionScore,
	}, true, nil
}

// leagueEntry is the league-v4 entries payload
type leagueEntry struct {
	QueueType    string `json:"queueType"`
	Tier         string `json:"tier"`
	Rank         string `json:"rank"`
	LeaguePoints int    `json:"leaguePoints"`
	Wins         int    `json:"wins"`
	Losses       int    `json:"losses"`
}

// GetRankEntries returns the player's current ranked standings
func (s *LoLStats) GetRankEntries(ctx context.Context, puuid string) ([]game.RankEntry, error) {
	endpoint := fmt.Sprintf("%s/lol/league/v4/entries/by-puuid/%s", s.c.platformHost, puuid)

	var entries []leagueEntry
	ok, err := s.c.get(ctx, endpoint, &entries)
	if err != nil {
		return nil, fmt.Errorf("failed to get rank entries: %w", err)
	}
	if !ok {
		// No league entries yet; unranked is not an error
		return nil, nil
	}

	result := make([]game.RankEntry, 0, len(entries))
	for _, e := range entries {
		result = append(result, game.RankEntry{
			QueueType:    e.QueueType,
			Tier:         e.Tier,
			Division:     e.Rank,
			LeaguePoints: e.LeaguePoints,
			Wins:         e.Wins,
			Losses:       e.Losses,
		})
	}
	return result, nil
}
