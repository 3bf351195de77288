package detect

import (
	"context"
	"log/slog"
	"sort"

	"github.com/Idumii/ArenaGaming/internal/rank"
)

// digestLine is one account+queue movement in the daily recap
type digestLine struct {
	name      string
	queueType string
	delta     rank.Delta
}

// dailyTick snapshots every watched player's ranked standing, compares it
// with yesterday's snapshot and posts one consolidated digest per guild.
// It also garbage-collects old ledger entries and snapshots.
func (s *Scheduler) dailyTick(ctx context.Context) {
	now := s.now()
	today := now.Format(rank.DateFormat)
	yesterday := now.AddDate(0, 0, -1).Format(rank.DateFormat)
	slog.Info("Running daily rank snapshot", "date", today)

	perGuild := make(map[string][]digestLine)

	for _, g := range s.watcherGroups() {
		select {
		case <-ctx.Done():
			return
		default:
		}

		client, ok := s.clients[g.title]
		if !ok {
			continue
		}
		entries, err := client.GetRankEntries(ctx, g.puuid)
		if err != nil {
			slog.Error("Rank entries fetch failed", "title", g.title, "puuid", g.puuid, "error", err)
			continue
		}

		name := g.accounts[0].RiotID()
		for _, e := range entries {
			snap := snapshotFromEntry(e)
			if err := s.snapshots.Record(today, g.puuid, e.QueueType, snap); err != nil {
				slog.Error("Failed to record rank snapshot",
					"puuid", g.puuid, "queue", e.QueueType, "error", err)
			}

			prev, ok := s.snapshots.Get(yesterday, g.puuid, e.QueueType)
			if !ok {
				continue
			}
			delta := rank.ComputeDelta(prev, snap)
			if !delta.Changed() {
				continue
			}

			line := digestLine{name: name, queueType: e.QueueType, delta: delta}
			for _, acc := range g.accounts {
				perGuild[acc.GuildID] = append(perGuild[acc.GuildID], line)
			}
		}
	}

	guildIDs := make([]string, 0, len(perGuild))
	for guildID := range perGuild {
		guildIDs = append(guildIDs, guildID)
	}
	sort.Strings(guildIDs)

	for _, guildID := range guildIDs {
		note := buildDailyDigestNotification(today, perGuild[guildID])
		if err := s.notifier.Deliver(guildID, "", note); err != nil {
			slog.Error("Failed to deliver daily digest", "guildID", guildID, "error", err)
		} else {
			slog.Info("Daily digest sent", "guildID", guildID, "lines", len(perGuild[guildID]))
		}
	}

	if err := s.ledger.PruneEndedBefore(now.Add(-endedEntryRetention)); err != nil {
		slog.Error("Failed to prune notification ledger", "error", err)
	}
	if err := s.snapshots.Prune(snapshotRetentionDay); err != nil {
		slog.Error("Failed to prune rank snapshots", "error", err)
	}
}
