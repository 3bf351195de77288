package game

import "time"

// Title identifies a tracked game title
type Title string

const (
	TitleLoL Title = "lol"
	TitleTFT Title = "tft"
)

// Account is a resolved Riot account
type Account struct {
	PUUID    string `json:"puuid"`
	GameName string `json:"gameName"`
	TagLine  string `json:"tagLine"`
}

// RiotID returns the GameName#TagLine form
func (a *Account) RiotID() string {
	return a.GameName + "#" + a.TagLine
}

// LiveGame describes a game currently in progress for a tracked player.
// It is produced by a poll and consumed immediately, never persisted.
type LiveGame struct {
	GameID    string
	QueueID   int
	Mode      string
	StartedAt time.Time
}

// MatchResult holds the per-player outcome of a finished game
type MatchResult struct {
	GameID       string
	QueueID      int
	Mode         string
	DurationSec  int64
	EndedAt      time.Time
	Win          bool
	ChampionName string
	Kills        int
	Deaths       int
	Assists      int
	CS           int
	GoldEarned   int
	DamageDealt  int
	VisionScore  int
	// TFT only: final placement, 1-8. Zero for LoL.
	Placement int
}

// KDA returns the kill/death/assist ratio with deaths floored at 1
func (m *MatchResult) KDA() float64 {
	deaths := m.Deaths
	if deaths < 1 {
		deaths = 1
	}
	return float64(m.Kills+m.Assists) / float64(deaths)
}

// RankEntry is one ranked-queue standing for a player
type RankEntry struct {
	QueueType    string // RANKED_SOLO_5x5, RANKED_FLEX_SR, RANKED_TFT
	Tier         string // IRON..CHALLENGER
	Division     string // IV..I
	LeaguePoints int
	Wins         int
	Losses       int
}

// Ranked queue IDs for LoL
const (
	QueueRankedSolo = 420
	QueueRankedFlex = 440
)

// IsRankedQueue reports whether a LoL queue ID counts toward ranked standing
func IsRankedQueue(queueID int) bool {
	return queueID == QueueRankedSolo || queueID == QueueRankedFlex
}

var queueNames = map[int]string{
	420:  "Ranked Solo/Duo",
	440:  "Ranked Flex",
	450:  "ARAM",
	400:  "Normal Draft",
	430:  "Normal Blind",
	490:  "Quickplay",
	900:  "ARURF",
	1300: "Nexus Blitz",
	1400: "Ultimate Spellbook",
	1700: "Arena",
	1900: "URF",
}

// QueueName returns a human-readable queue name
func QueueName(queueID int) string {
	if name, ok := queueNames[queueID]; ok {
		return name
	}
	return "Custom Game"
}
