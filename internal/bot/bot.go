package bot

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/bwmarrin/discordgo"

	"github.com/Idumii/ArenaGaming/internal/config"
	"github.com/Idumii/ArenaGaming/internal/detect"
	"github.com/Idumii/ArenaGaming/internal/game"
	"github.com/Idumii/ArenaGaming/internal/ledger"
	"github.com/Idumii/ArenaGaming/internal/rank"
	"github.com/Idumii/ArenaGaming/internal/ratelimit"
	"github.com/Idumii/ArenaGaming/internal/riot"
	"github.com/Idumii/ArenaGaming/internal/watch"
)

// Bot represents the Discord bot instance
type Bot struct {
	config    *config.Config
	session   *discordgo.Session
	registry  *watch.Registry
	settings  *watch.Settings
	riot      *riot.Client
	scheduler *detect.Scheduler
	commands  []*discordgo.ApplicationCommand
}

// New creates a new Bot instance and loads all durable state
func New(cfg *config.Config) (*Bot, error) {
	session, err := discordgo.New("Bot " + cfg.DiscordToken)
	if err != nil {
		return nil, fmt.Errorf("failed to create Discord session: %w", err)
	}
	session.Identify.Intents = discordgo.IntentsGuilds | discordgo.IntentsGuildMessages

	registry := watch.NewRegistry(cfg.DataDir)
	if err := registry.Load(); err != nil {
		return nil, fmt.Errorf("failed to load watch registry: %w", err)
	}

	settings := watch.NewSettings(cfg.DataDir)
	if err := settings.Load(); err != nil {
		return nil, fmt.Errorf("failed to load guild settings: %w", err)
	}

	// A corrupt ledger or snapshot file degrades to empty state (the bad
	// file is preserved as .backup); availability beats strict durability
	// for this data.
	notifLedger := ledger.New(cfg.DataDir)
	if err := notifLedger.Load(); err != nil {
		slog.Error("Starting with empty notification ledger", "error", err)
	}

	snapshots := rank.NewStore(cfg.DataDir)
	if err := snapshots.Load(); err != nil {
		slog.Error("Starting with empty rank snapshots", "error", err)
	}

	limiter := ratelimit.New(cfg.RateLimitRequests, time.Duration(cfg.RateLimitWindowSeconds)*time.Second)
	riotClient := riot.NewClient(cfg.RiotAPIKey, limiter, cfg.RegionalHost, cfg.PlatformHost, cfg.PlatformPrefix)

	b := &Bot{
		config:   cfg,
		session:  session,
		registry: registry,
		settings: settings,
		riot:     riotClient,
	}

	b.scheduler = detect.New(detect.Options{
		Registry:        registry,
		Ledger:          notifLedger,
		Snapshots:       snapshots,
		Clients:         []game.StatsClient{riot.NewLoLStats(riotClient), riot.NewTFTStats(riotClient)},
		Notifier:        NewNotifier(session, settings),
		FastInterval:    time.Duration(cfg.FastPollSeconds) * time.Second,
		ResolveInterval: time.Duration(cfg.ResolvePollSeconds) * time.Second,
		DigestHour:      cfg.DailyDigestHour,
	})

	b.registerHandlers()
	return b, nil
}

// Start opens the Discord connection and starts the detection scheduler
func (b *Bot) Start(ctx context.Context) error {
	if err := b.session.Open(); err != nil {
		return fmt.Errorf("failed to open Discord connection: %w", err)
	}

	slog.Info("Connected to Discord", "user", b.session.State.User.Username)

	if err := b.registerCommands(); err != nil {
		return fmt.Errorf("failed to register commands: %w", err)
	}

	go b.scheduler.Start(ctx)
	return nil
}

// Stop gracefully shuts down the bot. The scheduler's in-flight tick is
// allowed to finish before the session closes.
func (b *Bot) Stop() error {
	if b.scheduler != nil {
		b.scheduler.Stop()
	}
	if b.session != nil {
		return b.session.Close()
	}
	return nil
}

// registerHandlers sets up Discord event handlers
func (b *Bot) registerHandlers() {
	b.session.AddHandler(b.handleInteraction)
	b.session.AddHandler(func(s *discordgo.Session, r *discordgo.Ready) {
		slog.Info("Bot is ready", "guilds", len(r.Guilds))
	})
}

// handleInteraction processes slash command interactions
func (b *Bot) handleInteraction(s *discordgo.Session, i *discordgo.InteractionCreate) {
	if i.Type != discordgo.InteractionApplicationCommand {
		return
	}

	data := i.ApplicationCommandData()
	slog.Debug("Received command", "command", data.Name, "guild", i.GuildID)

	switch data.Name {
	case "watch":
		b.handleWatch(s, i)
	case "unwatch":
		b.handleUnwatch(s, i)
	case "list":
		b.handleList(s, i)
	case "clear":
		b.handleClear(s, i)
	case "setchannel":
		b.handleSetChannel(s, i)
	default:
		slog.Warn("Unknown command", "command", data.Name)
	}
}
