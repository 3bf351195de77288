package bot

import (
	"fmt"
	"time"

	"github.com/bwmarrin/discordgo"

	"github.com/Idumii/ArenaGaming/internal/game"
	"github.com/Idumii/ArenaGaming/internal/watch"
)

// Notifier delivers notification payloads through a Discord session.
// Channel resolution precedence: the per-account channel hint, then the
// guild's configured default channel, then the first text channel the bot
// can write to.
type Notifier struct {
	session  *discordgo.Session
	settings *watch.Settings
}

// NewNotifier creates a Discord-backed notifier
func NewNotifier(session *discordgo.Session, settings *watch.Settings) *Notifier {
	return &Notifier{session: session, settings: settings}
}

// Deliver sends a notification to the resolved channel of a guild
func (n *Notifier) Deliver(guildID, channelHint string, note *game.Notification) error {
	channelID, err := n.resolveChannel(guildID, channelHint)
	if err != nil {
		return fmt.Errorf("failed to resolve notification channel: %w", err)
	}

	embed := buildEmbed(note)
	if note.MentionUserID != "" {
		_, err = n.session.ChannelMessageSendComplex(channelID, &discordgo.MessageSend{
			Content: fmt.Sprintf("<@%s>", note.MentionUserID),
			Embeds:  []*discordgo.MessageEmbed{embed},
		})
	} else {
		_, err = n.session.ChannelMessageSendEmbed(channelID, embed)
	}
	if err != nil {
		return fmt.Errorf("failed to send notification: %w", err)
	}
	return nil
}

func (n *Notifier) resolveChannel(guildID, channelHint string) (string, error) {
	if channelHint != "" {
		return channelHint, nil
	}
	if channelID, ok := n.settings.DefaultChannel(guildID); ok && channelID != "" {
		return channelID, nil
	}
	return n.firstWritableChannel(guildID)
}

// firstWritableChannel is the documented last-resort fallback
func (n *Notifier) firstWritableChannel(guildID string) (string, error) {
	channels, err := n.session.GuildChannels(guildID)
	if err != nil {
		return "", fmt.Errorf("failed to list guild channels: %w", err)
	}

	for _, ch := range channels {
		if ch.Type != discordgo.ChannelTypeGuildText {
			continue
		}
		perms, err := n.session.UserChannelPermissions(n.session.State.User.ID, ch.ID)
		if err != nil {
			continue
		}
		if perms&discordgo.PermissionSendMessages != 0 {
			return ch.ID, nil
		}
	}
	return "", fmt.Errorf("no writable text channel in guild %s", guildID)
}

func buildEmbed(note *game.Notification) *discordgo.MessageEmbed {
	embed := &discordgo.MessageEmbed{
		Title:       note.Title,
		Description: note.Description,
		Color:       note.Color,
		Timestamp:   time.Now().Format(time.RFC3339),
	}
	for _, f := range note.Fields {
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
			Name:   f.Name,
			Value:  f.Value,
			Inline: f.Inline,
		})
	}
	if note.ImageURL != "" {
		embed.Thumbnail = &discordgo.MessageEmbedThumbnail{URL: note.ImageURL}
	}
	if note.FooterText != "" {
		embed.Footer = &discordgo.MessageEmbedFooter{Text: note.FooterText}
	}
	return embed
}
