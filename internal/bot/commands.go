package bot

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/bwmarrin/discordgo"

	"github.com/Idumii/ArenaGaming/internal/watch"
)

// Slash command definitions
func (b *Bot) getCommandDefinitions() []*discordgo.ApplicationCommand {
	return []*discordgo.ApplicationCommand{
		{
			Name:        "watch",
			Description: "Track a player and announce their games in this server",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionString,
					Name:        "riot_id",
					Description: "Riot ID (e.g., Faker#KR1)",
					Required:    true,
				},
				{
					Type:        discordgo.ApplicationCommandOptionUser,
					Name:        "discord_user",
					Description: "Discord user to mention in notifications",
					Required:    false,
				},
				{
					Type:        discordgo.ApplicationCommandOptionChannel,
					Name:        "channel",
					Description: "Channel for this player's notifications",
					Required:    false,
					ChannelTypes: []discordgo.ChannelType{
						discordgo.ChannelTypeGuildText,
					},
				},
				{
					Type:        discordgo.ApplicationCommandOptionBoolean,
					Name:        "lol",
					Description: "Track League of Legends games (default: true)",
					Required:    false,
				},
				{
					Type:        discordgo.ApplicationCommandOptionBoolean,
					Name:        "tft",
					Description: "Track Teamfight Tactics games (default: false)",
					Required:    false,
				},
			},
		},
		{
			Name:        "unwatch",
			Description: "Stop tracking a player in this server",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionString,
					Name:        "riot_id",
					Description: "Riot ID (e.g., Faker#KR1)",
					Required:    true,
				},
			},
		},
		{
			Name:        "list",
			Description: "List all tracked players in this server",
		},
		{
			Name:        "clear",
			Description: "Remove every tracked player from this server",
		},
		{
			Name:        "setchannel",
			Description: "Set the default channel for game notifications",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionChannel,
					Name:        "channel",
					Description: "The channel to send notifications to",
					Required:    true,
					ChannelTypes: []discordgo.ChannelType{
						discordgo.ChannelTypeGuildText,
					},
				},
			},
		},
	}
}

// registerCommands registers all slash commands with Discord
func (b *Bot) registerCommands() error {
	slog.Info("Registering slash commands")

	commandDefinitions := b.getCommandDefinitions()
	registeredCommands := make([]*discordgo.ApplicationCommand, 0, len(commandDefinitions))

	for _, cmd := range commandDefinitions {
		registered, err := b.session.ApplicationCommandCreate(
			b.session.State.User.ID,
			"", // Empty string = global command
			cmd,
		)
		if err != nil {
			return fmt.Errorf("failed to register command %s: %w", cmd.Name, err)
		}
		registeredCommands = append(registeredCommands, registered)
		slog.Debug("Registered command", "name", cmd.Name)
	}

	b.commands = registeredCommands
	slog.Info("Slash commands registered", "count", len(registeredCommands))
	return nil
}

// handleWatch handles the /watch command
func (b *Bot) handleWatch(s *discordgo.Session, i *discordgo.InteractionCreate) {
	opts := optionMap(i)

	riotID := opts["riot_id"].StringValue()
	gameName, tagLine, ok := splitRiotID(riotID)
	if !ok {
		respondWithMessage(s, i, "Invalid Riot ID. Use the `Name#TAG` format, e.g. `Faker#KR1`.")
		return
	}

	// Respond immediately to avoid timeout
	s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseDeferredChannelMessageWithSource,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	account, found, err := b.riot.LookupAccount(ctx, gameName, tagLine)
	if err != nil {
		slog.Error("Account lookup failed", "riotID", riotID, "error", err)
		b.editResponse(s, i, "Could not reach the Riot API. Please try again later.")
		return
	}
	if !found {
		b.editResponse(s, i, fmt.Sprintf("Could not find player `%s`. Please check the Riot ID and try again.", riotID))
		return
	}

	watchLoL := true
	if opt, ok := opts["lol"]; ok {
		watchLoL = opt.BoolValue()
	}
	watchTFT := false
	if opt, ok := opts["tft"]; ok {
		watchTFT = opt.BoolValue()
	}
	if !watchLoL && !watchTFT {
		b.editResponse(s, i, "Nothing to track: enable at least one of `lol` or `tft`.")
		return
	}

	tracked := &watch.TrackedAccount{
		PUUID:           account.PUUID,
		GameName:        account.GameName,
		TagLine:         account.TagLine,
		WatchLoL:        watchLoL,
		WatchTFT:        watchTFT,
		NotifyGameStart: true,
		NotifyGameEnd:   true,
		AddedAt:         time.Now(),
	}
	if opt, ok := opts["discord_user"]; ok {
		tracked.DiscordUserID = opt.UserValue(s).ID
	}
	if opt, ok := opts["channel"]; ok {
		tracked.NotifyChannelID = opt.ChannelValue(s).ID
	}

	added, err := b.registry.Add(i.GuildID, tracked)
	if err != nil {
		slog.Error("Failed to save watch list", "guildID", i.GuildID, "error", err)
		b.editResponse(s, i, "Failed to save the watch list. Please try again.")
		return
	}
	if !added {
		b.editResponse(s, i, fmt.Sprintf("`%s` is already tracked in this server.", tracked.RiotID()))
		return
	}

	b.editResponse(s, i, fmt.Sprintf("Now tracking `%s` (%s)!", tracked.RiotID(), trackedTitles(tracked)))
}

// handleUnwatch handles the /unwatch command. The PUUID is resolved from the
// guild's own watch list, no API call needed.
func (b *Bot) handleUnwatch(s *discordgo.Session, i *discordgo.InteractionCreate) {
	riotID := optionMap(i)["riot_id"].StringValue()

	var puuid string
	for _, acc := range b.registry.List(i.GuildID) {
		if strings.EqualFold(acc.RiotID(), riotID) {
			puuid = acc.PUUID
			break
		}
	}
	if puuid == "" {
		respondWithMessage(s, i, fmt.Sprintf("`%s` is not tracked in this server.", riotID))
		return
	}

	removed, err := b.registry.Remove(i.GuildID, puuid)
	if err != nil {
		slog.Error("Failed to save watch list", "guildID", i.GuildID, "error", err)
		respondWithMessage(s, i, "Failed to save the watch list. Please try again.")
		return
	}
	if !removed {
		respondWithMessage(s, i, fmt.Sprintf("`%s` is not tracked in this server.", riotID))
		return
	}

	respondWithMessage(s, i, fmt.Sprintf("Stopped tracking `%s`.", riotID))
}

// handleList handles the /list command
func (b *Bot) handleList(s *discordgo.Session, i *discordgo.InteractionCreate) {
	accounts := b.registry.List(i.GuildID)
	if len(accounts) == 0 {
		respondWithMessage(s, i, "No players are tracked in this server.\nUse `/watch` to add one!")
		return
	}

	var sb strings.Builder
	sb.WriteString("**Tracked Players:**\n\n")
	for idx, acc := range accounts {
		sb.WriteString(fmt.Sprintf("%d. `%s` (%s)", idx+1, acc.RiotID(), trackedTitles(acc)))
		if acc.DiscordUserID != "" {
			sb.WriteString(fmt.Sprintf(" <@%s>", acc.DiscordUserID))
		}
		sb.WriteString("\n")
	}

	respondWithMessage(s, i, sb.String())
}

// handleClear handles the /clear command
func (b *Bot) handleClear(s *discordgo.Session, i *discordgo.InteractionCreate) {
	count := len(b.registry.List(i.GuildID))
	if count == 0 {
		respondWithMessage(s, i, "No players are tracked in this server.")
		return
	}

	if err := b.registry.Clear(i.GuildID); err != nil {
		slog.Error("Failed to clear watch list", "guildID", i.GuildID, "error", err)
		respondWithMessage(s, i, "Failed to clear the watch list. Please try again.")
		return
	}

	respondWithMessage(s, i, fmt.Sprintf("Removed %d tracked player(s) from this server.", count))
}

// handleSetChannel handles the /setchannel command
func (b *Bot) handleSetChannel(s *discordgo.Session, i *discordgo.InteractionCreate) {
	channel := optionMap(i)["channel"].ChannelValue(s)

	if err := b.settings.SetDefaultChannel(i.GuildID, channel.ID); err != nil {
		slog.Error("Failed to save guild settings", "guildID", i.GuildID, "error", err)
		respondWithMessage(s, i, "Failed to set notification channel. Please try again.")
		return
	}

	respondWithMessage(s, i, fmt.Sprintf("Game notifications will be sent to <#%s>", channel.ID))
}

// Helper functions

func optionMap(i *discordgo.InteractionCreate) map[string]*discordgo.ApplicationCommandInteractionDataOption {
	options := i.ApplicationCommandData().Options
	m := make(map[string]*discordgo.ApplicationCommandInteractionDataOption, len(options))
	for _, opt := range options {
		m[opt.Name] = opt
	}
	return m
}

func splitRiotID(riotID string) (gameName, tagLine string, ok bool) {
	name, tag, found := strings.Cut(strings.TrimSpace(riotID), "#")
	name = strings.TrimSpace(name)
	tag = strings.TrimSpace(tag)
	if !found || name == "" || tag == "" {
		return "", "", false
	}
	return name, tag, true
}

func trackedTitles(acc *watch.TrackedAccount) string {
	var titles []string
	if acc.WatchLoL {
		titles = append(titles, "LoL")
	}
	if acc.WatchTFT {
		titles = append(titles, "TFT")
	}
	return strings.Join(titles, ", ")
}

func respondWithMessage(s *discordgo.Session, i *discordgo.InteractionCreate, content string) {
	s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Content: content,
		},
	})
}

func (b *Bot) editResponse(s *discordgo.Session, i *discordgo.InteractionCreate, content string) {
	s.InteractionResponseEdit(i.Interaction, &discordgo.WebhookEdit{
		Content: &content,
	})
}
