package detect

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/Idumii/ArenaGaming/internal/game"
	"github.com/Idumii/ArenaGaming/internal/ledger"
	"github.com/Idumii/ArenaGaming/internal/rank"
	"github.com/Idumii/ArenaGaming/internal/watch"
)

const (
	// A pending game whose match record never materializes is abandoned
	// after this long, returning the account to idle.
	staleGameAfter = 3 * time.Hour

	// Retention for processed game_end ledger entries and rank snapshots
	endedEntryRetention  = 7 * 24 * time.Hour
	snapshotRetentionDay = 60
)

// Options wires the scheduler's collaborators
type Options struct {
	Registry  *watch.Registry
	Ledger    *ledger.Ledger
	Snapshots *rank.Store
	Clients   []game.StatsClient
	Notifier  game.Notifier

	FastInterval    time.Duration
	ResolveInterval time.Duration
	DigestHour      int
}

// Scheduler runs the game-detection loop: a fast tick that spots live games,
// a slower tick that resolves finished matches, and a daily tick that
// snapshots ranked standings and posts a per-guild digest.
//
// All three cadences run on a single goroutine, so a tick never overlaps
// itself and per-account state transitions are strictly sequential.
type Scheduler struct {
	registry  *watch.Registry
	ledger    *ledger.Ledger
	snapshots *rank.Store
	clients   map[game.Title]game.StatsClient
	notifier  game.Notifier

	fastInterval    time.Duration
	resolveInterval time.Duration
	digestHour      int

	// Transient pre-game ranked standings, keyed by title|puuid. Touched
	// only by the scheduler goroutine.
	preGame map[string]preGameRank

	now func() time.Time

	stopChan chan struct{}
	stopOnce sync.Once
	wg       sync.WaitGroup
}

type preGameRank struct {
	queueType string
	snap      rank.Snapshot
	takenAt   time.Time
}

// New creates a Scheduler
func New(opts Options) *Scheduler {
	clients := make(map[game.Title]game.StatsClient, len(opts.Clients))
	for _, c := range opts.Clients {
		clients[c.Title()] = c
	}
	return &Scheduler{
		registry:        opts.Registry,
		ledger:          opts.Ledger,
		snapshots:       opts.Snapshots,
		clients:         clients,
		notifier:        opts.Notifier,
		fastInterval:    opts.FastInterval,
		resolveInterval: opts.ResolveInterval,
		digestHour:      opts.DigestHour,
		preGame:         make(map[string]preGameRank),
		now:             time.Now,
		stopChan:        make(chan struct{}),
	}
}

// Start runs the scheduling loop until ctx is cancelled or Stop is called.
// An in-flight tick always completes; only further scheduling stops.
func (s *Scheduler) Start(ctx context.Context) {
	slog.Info("Starting game detection",
		"fastInterval", s.fastInterval,
		"resolveInterval", s.resolveInterval,
		"digestHour", s.digestHour)

	s.wg.Add(1)
	defer s.wg.Done()

	fast := time.NewTicker(s.fastInterval)
	defer fast.Stop()
	slow := time.NewTicker(s.resolveInterval)
	defer slow.Stop()
	daily := time.NewTimer(s.untilNextDigest())
	defer daily.Stop()

	// Initial pass so a restart picks up where it left off immediately
	s.detectTick(ctx)
	s.resolveTick(ctx)

	for {
		select {
		case <-ctx.Done():
			slog.Info("Game detection stopped (context cancelled)")
			return
		case <-s.stopChan:
			slog.Info("Game detection stopped")
			return
		case <-fast.C:
			s.detectTick(ctx)
		case <-slow.C:
			s.resolveTick(ctx)
		case <-daily.C:
			s.dailyTick(ctx)
			daily.Reset(s.untilNextDigest())
		}
	}
}

// Stop signals the scheduler to stop and waits for the in-flight tick
func (s *Scheduler) Stop() {
	s.stopOnce.Do(func() { close(s.stopChan) })
	s.wg.Wait()
}

// watcherGroup is every guild entry tracking the same (title, puuid) pair
type watcherGroup struct {
	title    game.Title
	puuid    string
	accounts []*watch.TrackedAccount
}

// watcherGroups folds the per-guild watch lists into unique (title, puuid)
// pairs in stable order, so one upstream query serves every watching guild.
func (s *Scheduler) watcherGroups() []watcherGroup {
	var groups []watcherGroup
	index := make(map[string]int)

	for _, acc := range s.registry.All() {
		for _, title := range []game.Title{game.TitleLoL, game.TitleTFT} {
			if !watchesTitle(acc, title) {
				continue
			}
			key := stateKey(title, acc.PUUID)
			i, ok := index[key]
			if !ok {
				i = len(groups)
				index[key] = i
				groups = append(groups, watcherGroup{title: title, puuid: acc.PUUID})
			}
			groups[i].accounts = append(groups[i].accounts, acc)
		}
	}
	return groups
}

func watchesTitle(acc *watch.TrackedAccount, title game.Title) bool {
	switch title {
	case game.TitleLoL:
		return acc.WatchLoL
	case game.TitleTFT:
		return acc.WatchTFT
	}
	return false
}

func stateKey(title game.Title, puuid string) string {
	return string(title) + "|" + puuid
}

// detectTick is the fast cadence: spot players entering a game. One
// account's upstream failure never aborts the tick for the others.
func (s *Scheduler) detectTick(ctx context.Context) {
	groups := s.watcherGroups()
	if len(groups) == 0 {
		slog.Debug("No accounts to poll")
		return
	}
	slog.Debug("Polling live games", "pairs", len(groups))

	for _, g := range groups {
		select {
		case <-ctx.Done():
			return
		default:
		}
		s.checkLiveGame(ctx, g)
	}
}

// checkLiveGame drives the Idle -> InGame transition for one pair
func (s *Scheduler) checkLiveGame(ctx context.Context, g watcherGroup) {
	client, ok := s.clients[g.title]
	if !ok {
		return
	}

	live, inGame, err := client.GetLiveGame(ctx, g.puuid)
	if err != nil {
		slog.Error("Live game check failed", "title", g.title, "puuid", g.puuid, "error", err)
		return
	}
	if !inGame {
		// Leaving a game is handled by the resolve sweep
		return
	}

	if s.ledger.HasNotified(ledger.KindGameStart, g.title, g.puuid, live.GameID) {
		return
	}
	// Some live feeds keep listing a game briefly after its result has been
	// processed; the retained game_end entry guards against a second start.
	if s.ledger.HasNotified(ledger.KindGameEnd, g.title, g.puuid, live.GameID) {
		return
	}

	name := g.accounts[0].RiotID()
	slog.Info("Game start detected", "title", g.title, "summoner", name, "gameID", live.GameID)

	for _, acc := range g.accounts {
		if !acc.NotifyGameStart {
			continue
		}
		note := buildGameStartNotification(acc, g.title, live)
		if err := s.notifier.Deliver(acc.GuildID, acc.NotifyChannelID, note); err != nil {
			slog.Error("Failed to deliver game start notification",
				"guildID", acc.GuildID, "summoner", name, "error", err)
		}
	}

	// The transition is spent once delivery was attempted, whatever the
	// delivery outcome.
	if err := s.ledger.RecordNotified(ledger.KindGameStart, g.title, g.puuid, live.GameID); err != nil {
		slog.Error("Failed to persist game start entry", "gameID", live.GameID, "error", err)
	}

	if g.title == game.TitleLoL && game.IsRankedQueue(live.QueueID) {
		s.capturePreGameRank(ctx, client, g, live.QueueID)
	}
}

// capturePreGameRank snapshots the player's current standing so the match
// result can report the LP swing. Best effort: a failure just means the end
// notification omits the delta.
func (s *Scheduler) capturePreGameRank(ctx context.Context, client game.StatsClient, g watcherGroup, queueID int) {
	entries, err := client.GetRankEntries(ctx, g.puuid)
	if err != nil {
		slog.Warn("Could not capture pre-game rank", "puuid", g.puuid, "error", err)
		return
	}

	queueType := rankedQueueType(queueID)
	for _, e := range entries {
		if e.QueueType != queueType {
			continue
		}
		s.preGame[stateKey(g.title, g.puuid)] = preGameRank{
			queueType: queueType,
			snap:      snapshotFromEntry(e),
			takenAt:   s.now(),
		}
		return
	}
}

func rankedQueueType(queueID int) string {
	switch queueID {
	case game.QueueRankedSolo:
		return "RANKED_SOLO_5x5"
	case game.QueueRankedFlex:
		return "RANKED_FLEX_SR"
	}
	return ""
}

func snapshotFromEntry(e game.RankEntry) rank.Snapshot {
	return rank.Snapshot{
		Tier:         e.Tier,
		Division:     e.Division,
		LeaguePoints: e.LeaguePoints,
		Wins:         e.Wins,
		Losses:       e.Losses,
	}
}

// resolveTick is the slow cadence: for every game we announced as started,
// check whether it has finished and the match record is available.
func (s *Scheduler) resolveTick(ctx context.Context) {
	s.dropStalePreGame()

	pending := s.ledger.PendingGameStarts()
	if len(pending) == 0 {
		return
	}
	slog.Debug("Resolving pending games", "count", len(pending))

	groups := make(map[string]watcherGroup)
	for _, g := range s.watcherGroups() {
		groups[stateKey(g.title, g.puuid)] = g
	}

	for _, entry := range pending {
		select {
		case <-ctx.Done():
			return
		default:
		}
		s.resolvePendingGame(ctx, entry, groups)
	}
}

// resolvePendingGame drives the InGame -> Idle transition for one entry
func (s *Scheduler) resolvePendingGame(ctx context.Context, entry ledger.Entry, groups map[string]watcherGroup) {
	key := stateKey(entry.Title, entry.PUUID)

	g, watched := groups[key]
	if !watched {
		// Unwatched while in game; nothing left to notify
		if err := s.ledger.Forget(entry.Title, entry.PUUID, entry.GameID); err != nil {
			slog.Error("Failed to forget unwatched game", "gameID", entry.GameID, "error", err)
		}
		delete(s.preGame, key)
		return
	}

	client := s.clients[entry.Title]

	live, inGame, err := client.GetLiveGame(ctx, entry.PUUID)
	if err != nil {
		slog.Error("Live game re-check failed", "puuid", entry.PUUID, "error", err)
		return
	}
	if inGame && live.GameID == entry.GameID {
		// Still playing
		return
	}

	result, ready, err := client.GetMatchResult(ctx, entry.GameID, entry.PUUID)
	if err != nil {
		slog.Error("Match result fetch failed", "gameID", entry.GameID, "error", err)
		return
	}
	if !ready {
		if s.now().Sub(entry.NotifiedAt) > staleGameAfter {
			slog.Warn("Match record never materialized, abandoning game",
				"title", entry.Title, "puuid", entry.PUUID, "gameID", entry.GameID)
			if err := s.ledger.Forget(entry.Title, entry.PUUID, entry.GameID); err != nil {
				slog.Error("Failed to forget stale game", "gameID", entry.GameID, "error", err)
			}
			delete(s.preGame, key)
		}
		// Otherwise the record has not propagated yet; retry next tick
		return
	}

	if !s.ledger.HasNotified(ledger.KindGameEnd, entry.Title, entry.PUUID, entry.GameID) {
		delta := s.consumePreGameDelta(ctx, client, key, result)

		name := g.accounts[0].RiotID()
		slog.Info("Game end detected", "title", entry.Title, "summoner", name,
			"gameID", entry.GameID, "win", result.Win)

		for _, acc := range g.accounts {
			if !acc.NotifyGameEnd {
				continue
			}
			note := buildMatchResultNotification(acc, entry.Title, result, delta)
			if err := s.notifier.Deliver(acc.GuildID, acc.NotifyChannelID, note); err != nil {
				slog.Error("Failed to deliver match result notification",
					"guildID", acc.GuildID, "summoner", name, "error", err)
			}
		}

		if err := s.ledger.RecordNotified(ledger.KindGameEnd, entry.Title, entry.PUUID, entry.GameID); err != nil {
			slog.Error("Failed to persist game end entry", "gameID", entry.GameID, "error", err)
		}
	}

	if err := s.ledger.Forget(entry.Title, entry.PUUID, entry.GameID); err != nil {
		slog.Error("Failed to forget processed game", "gameID", entry.GameID, "error", err)
	}
}

// consumePreGameDelta turns the transient pre-game slot into an LP delta for
// the finished game. Returns nil when there is nothing to compare.
func (s *Scheduler) consumePreGameDelta(ctx context.Context, client game.StatsClient, key string, result *game.MatchResult) *rank.Delta {
	pre, ok := s.preGame[key]
	if !ok {
		return nil
	}
	delete(s.preGame, key)

	if !game.IsRankedQueue(result.QueueID) || rankedQueueType(result.QueueID) != pre.queueType {
		return nil
	}

	entries, err := client.GetRankEntries(ctx, keyPUUID(key))
	if err != nil {
		slog.Warn("Could not fetch post-game rank", "error", err)
		return nil
	}
	for _, e := range entries {
		if e.QueueType != pre.queueType {
			continue
		}
		delta := rank.ComputeDelta(pre.snap, snapshotFromEntry(e))
		return &delta
	}
	return nil
}

func keyPUUID(key string) string {
	for i := 0; i < len(key); i++ {
		if key[i] == '|' {
			return key[i+1:]
		}
	}
	return key
}

// dropStalePreGame clears pre-game slots whose match never resolved
func (s *Scheduler) dropStalePreGame() {
	cutoff := s.now().Add(-staleGameAfter)
	for key, pre := range s.preGame {
		if pre.takenAt.Before(cutoff) {
			delete(s.preGame, key)
		}
	}
}

// untilNextDigest returns the wait until the next daily digest hour, local time
func (s *Scheduler) untilNextDigest() time.Duration {
	now := s.now()
	next := time.Date(now.Year(), now.Month(), now.Day(), s.digestHour, 0, 0, 0, now.Location())
	if !next.After(now) {
		next = next.AddDate(0, 0, 1)
	}
	return next.Sub(now)
}
