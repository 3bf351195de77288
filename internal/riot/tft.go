package riot

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/Idumii/ArenaGaming/internal/game"
)

// TFTStats implements game.StatsClient for Teamfight Tactics
type TFTStats struct {
	c *Client
}

// NewTFTStats creates the TFT stats accessor over a shared client
func NewTFTStats(c *Client) *TFTStats {
	return &TFTStats{c: c}
}

// Title returns the game title this client serves
func (s *TFTStats) Title() game.Title {
	return game.TitleTFT
}

// GetLiveGame checks the TFT spectator API for a game in progress
func (s *TFTStats) GetLiveGame(ctx context.Context, puuid string) (*game.LiveGame, bool, error) {
	endpoint := fmt.Sprintf("%s/lol/spectator/tft/v5/active-games/by-puuid/%s", s.c.platformHost, puuid)

	var live spectatorGame
	ok, err := s.c.get(ctx, endpoint, &live)
	if err != nil {
		return nil, false, fmt.Errorf("failed to get live TFT game: %w", err)
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
		Mode:      tftQueueName(live.GameQueueConfigID),
		StartedAt: startedAt,
	}, true, nil
}

// tftMatch is the tft-match-v1 payload, trimmed to what notifications need
type tftMatch struct {
	Info struct {
		GameDatetime int64   `json:"game_datetime"` // Unix ms
		GameLength   float64 `json:"game_length"`   // seconds
		QueueID      int     `json:"queue_id"`
		Participants []struct {
			PUUID               string `json:"puuid"`
			Placement           int    `json:"placement"`
			Level               int    `json:"level"`
			LastRound           int    `json:"last_round"`
			PlayersEliminated   int    `json:"players_eliminated"`
			TotalDamageToPlayer int    `json:"total_damage_to_players"`
			GoldLeft            int    `json:"gold_left"`
		} `json:"participants"`
	} `json:"info"`
}

// GetMatchResult fetches the finished TFT match record for a game.
// A top-4 placement counts as a win.
func (s *TFTStats) GetMatchResult(ctx context.Context, gameID, puuid string) (*game.MatchResult, bool, error) {
	endpoint := fmt.Sprintf("%s/tft/match/v1/matches/%s", s.c.regionalHost, s.c.MatchID(gameID))

	var m tftMatch
	ok, err := s.c.get(ctx, endpoint, &m)
	if err != nil {
		return nil, false, fmt.Errorf("failed to get TFT match: %w", err)
	}
	if !ok {
		return nil, false, nil
	}

	for _, p := range m.Info.Participants {
		if p.PUUID != puuid {
			continue
		}
		return &game.MatchResult{
			GameID:      gameID,
			QueueID:     m.Info.QueueID,
			Mode:        tftQueueName(m.Info.QueueID),
			DurationSec: int64(m.Info.GameLength),
			EndedAt:     time.UnixMilli(m.Info.GameDatetime),
			Win:         p.Placement <= 4,
			Kills:       p.PlayersEliminated,
			DamageDealt: p.TotalDamageToPlayer,
			GoldEarned:  p.GoldLeft,
			Placement:   p.Placement,
		}, true, nil
	}

	return nil, false, fmt.Errorf("player %s not found in TFT match %s", puuid, gameID)
}

// GetRankEntries returns the player's current TFT ranked standing
func (s *TFTStats) GetRankEntries(ctx context.Context, puuid string) ([]game.RankEntry, error) {
	endpoint := fmt.Sprintf("%s/tft/league/v1/by-puuid/%s", s.c.platformHost, puuid)

	var entries []leagueEntry
	ok, err := s.c.get(ctx, endpoint, &entries)
	if err != nil {
		return nil, fmt.Errorf("failed to get TFT rank entries: %w", err)
	}
	if !ok {
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

func tftQueueName(queueID int) string {
	switch queueID {
	case 1100:
		return "TFT Ranked"
	case 1090:
		return "TFT Normal"
	case 1130:
		return "TFT Hyper Roll"
	case 1160:
		return "TFT Double Up"
	default:
		return "TFT"
	}
}
