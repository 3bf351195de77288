package detect

import (
	"fmt"
	"strings"

	"github.com/Idumii/ArenaGaming/internal/game"
	"github.com/Idumii/ArenaGaming/internal/rank"
	"github.com/Idumii/ArenaGaming/internal/watch"
)

const (
	colorWin     = 0x2ECC71
	colorLoss    = 0xE74C3C
	colorNeutral = 0x3498DB
)

// buildGameStartNotification announces a player entering a game
func buildGameStartNotification(acc *watch.TrackedAccount, title game.Title, live *game.LiveGame) *game.Notification {
	titleName := "League of Legends"
	if title == game.TitleTFT {
		titleName = "Teamfight Tactics"
	}

	note := &game.Notification{
		Title:       "Game Started",
		Description: fmt.Sprintf("**%s** is now in a game!", acc.RiotID()),
		Color:       colorNeutral,
		Fields: []game.Field{
			{Name: "Game", Value: titleName, Inline: true},
			{Name: "Mode", Value: live.Mode, Inline: true},
		},
		FooterText: fmt.Sprintf("Game ID: %s", live.GameID),
	}
	if acc.DiscordUserID != "" {
		note.MentionUserID = acc.DiscordUserID
	}
	return note
}

// buildMatchResultNotification summarizes a finished game, with the ranked
// LP swing when a pre-game standing was captured
func buildMatchResultNotification(acc *watch.TrackedAccount, title game.Title, result *game.MatchResult, delta *rank.Delta) *game.Notification {
	if title == game.TitleTFT {
		return buildTFTResultNotification(acc, result)
	}

	resultText := "Defeat"
	color := colorLoss
	if result.Win {
		resultText = "Victory"
		color = colorWin
	}

	note := &game.Notification{
		Title:       resultText,
		Description: fmt.Sprintf("**%s** | %s", result.ChampionName, result.Mode),
		Color:       color,
		Fields: []game.Field{
			{Name: "Player", Value: acc.RiotID(), Inline: true},
			{Name: "KDA", Value: fmt.Sprintf("%d / %d / %d (%.2f)", result.Kills, result.Deaths, result.Assists, result.KDA()), Inline: true},
			{Name: "CS", Value: formatCS(result), Inline: true},
			{Name: "Damage", Value: formatNumber(result.DamageDealt), Inline: true},
			{Name: "Gold", Value: formatNumber(result.GoldEarned), Inline: true},
			{Name: "Vision", Value: fmt.Sprintf("%d", result.VisionScore), Inline: true},
			{Name: "Duration", Value: formatDuration(result.DurationSec), Inline: true},
		},
		FooterText: fmt.Sprintf("Game ID: %s", result.GameID),
	}

	if delta != nil {
		note.Fields = append(note.Fields, game.Field{
			Name:   "LP",
			Value:  formatLPDelta(*delta),
			Inline: true,
		})
	}
	if acc.DiscordUserID != "" {
		note.MentionUserID = acc.DiscordUserID
	}
	return note
}

func buildTFTResultNotification(acc *watch.TrackedAccount, result *game.MatchResult) *game.Notification {
	color := colorLoss
	resultText := fmt.Sprintf("Placement #%d", result.Placement)
	if result.Win {
		color = colorWin
		resultText = fmt.Sprintf("Top %d!", result.Placement)
	}

	note := &game.Notification{
		Title:       resultText,
		Description: fmt.Sprintf("**%s** | %s", acc.RiotID(), result.Mode),
		Color:       color,
		Fields: []game.Field{
			{Name: "Players Eliminated", Value: fmt.Sprintf("%d", result.Kills), Inline: true},
			{Name: "Damage to Players", Value: formatNumber(result.DamageDealt), Inline: true},
			{Name: "Duration", Value: formatDuration(result.DurationSec), Inline: true},
		},
		FooterText: fmt.Sprintf("Game ID: %s", result.GameID),
	}
	if acc.DiscordUserID != "" {
		note.MentionUserID = acc.DiscordUserID
	}
	return note
}

// buildDailyDigestNotification batches a guild's rank movements into one
// message, a field per player/queue
func buildDailyDigestNotification(date string, lines []digestLine) *game.Notification {
	note := &game.Notification{
		Title:       "Daily Ranked Recap",
		Description: fmt.Sprintf("Rank movement for %s", date),
		Color:       colorNeutral,
	}

	for _, line := range lines {
		var sb strings.Builder
		sb.WriteString(line.delta.To.String())
		sb.WriteString(" (")
		sb.WriteString(formatLPDelta(line.delta))
		if line.delta.WinsDelta > 0 || line.delta.LossesDelta > 0 {
			fmt.Fprintf(&sb, ", %dW/%dL", line.delta.WinsDelta, line.delta.LossesDelta)
		}
		sb.WriteString(")")

		note.Fields = append(note.Fields, game.Field{
			Name:  fmt.Sprintf("%s - %s", line.name, queueDisplayName(line.queueType)),
			Value: sb.String(),
		})
	}
	return note
}

func formatLPDelta(d rank.Delta) string {
	lp := fmt.Sprintf("%+d LP", d.LPChange)
	switch {
	case d.Promoted:
		return fmt.Sprintf("%s, promoted to %s %s", lp, d.To.Tier, d.To.Division)
	case d.Demoted:
		return fmt.Sprintf("%s, demoted to %s %s", lp, d.To.Tier, d.To.Division)
	default:
		return lp
	}
}

func queueDisplayName(queueType string) string {
	switch queueType {
	case "RANKED_SOLO_5x5":
		return "Solo/Duo"
	case "RANKED_FLEX_SR":
		return "Flex"
	case "RANKED_TFT":
		return "TFT Ranked"
	case "RANKED_TFT_TURBO":
		return "Hyper Roll"
	case "RANKED_TFT_DOUBLE_UP":
		return "Double Up"
	default:
		return queueType
	}
}

func formatCS(result *game.MatchResult) string {
	minutes := float64(result.DurationSec) / 60.0
	if minutes <= 0 {
		return fmt.Sprintf("%d", result.CS)
	}
	return fmt.Sprintf("%d (%.1f/min)", result.CS, float64(result.CS)/minutes)
}

func formatDuration(seconds int64) string {
	return fmt.Sprintf("%d:%02d", seconds/60, seconds%60)
}

// formatNumber formats large numbers with commas
func formatNumber(n int) string {
	if n < 1000 {
		return fmt.Sprintf("%d", n)
	}
	return fmt.Sprintf("%d,%03d", n/1000, n%1000)
}
