package watch

import "time"

// TrackedAccount is one watched player in one guild. A guild never holds two
// entries with the same PUUID; per-title tracking is a pair of flags on the
// single entry.
type TrackedAccount struct {
	PUUID           string    `json:"puuid"`
	GameName        string    `json:"summoner_name"`
	TagLine         string    `json:"tag_line"`
	GuildID         string    `json:"guild_id"`
	DiscordUserID   string    `json:"discord_user_id,omitempty"`
	NotifyChannelID string    `json:"notification_channel_id,omitempty"`
	WatchLoL        bool      `json:"watch_lol"`
	WatchTFT        bool      `json:"watch_tft"`
	NotifyGameStart bool      `json:"notify_game_start"`
	NotifyGameEnd   bool      `json:"notify_game_end"`
	AddedAt         time.Time `json:"added_at"`
}

// RiotID returns the GameName#TagLine form
func (a *TrackedAccount) RiotID() string {
	return a.GameName + "#" + a.TagLine
}
