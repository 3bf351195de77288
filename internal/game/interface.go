package game

import "context"

// StatsClient is the per-title accessor over the upstream stats API.
//
// Lookups that can legitimately come back empty return a bool instead of an
// error: (nil, false, nil) means "not in game" / "not ready", which drives
// the detection state machine and is never treated as a failure. A non-nil
// error means the upstream call itself failed (5xx, rate limit exhaustion,
// malformed payload) and the caller should retry on a later tick.
type StatsClient interface {
	// Title returns the game title this client serves
	Title() Title

	// GetLiveGame returns the game the player is currently in, if any
	GetLiveGame(ctx context.Context, puuid string) (*LiveGame, bool, error)

	// GetMatchResult returns the finished-match outcome for the player.
	// ok=false means the match record has not propagated upstream yet.
	GetMatchResult(ctx context.Context, gameID, puuid string) (*MatchResult, bool, error)

	// GetRankEntries returns the player's current ranked standings
	GetRankEntries(ctx context.Context, puuid string) ([]RankEntry, error)
}

// Field is one key/value line in a notification body
type Field struct {
	Name   string
	Value  string
	Inline bool
}

// Notification is a fully-formed payload handed to the Notifier
type Notification struct {
	Title         string
	Description   string
	Color         int
	Fields        []Field
	ImageURL      string
	FooterText    string
	MentionUserID string
}

// Notifier delivers a notification to a guild. channelHint is the
// per-account preferred channel and may be empty; resolution beyond the hint
// (guild default, first writable channel) is the implementation's concern.
// A delivery failure is logged by callers, never retried: the notification
// is considered spent once attempted.
type Notifier interface {
	Deliver(guildID, channelHint string, note *Notification) error
}
