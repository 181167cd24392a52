package services

import (
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/studyhall/studyhall-backend/internal/types"
)

const (
	globalLeaderboardSize  = 100
	scopedLeaderboardSize  = 50
	weeklyLeaderboardRange = 7 * 24 * time.Hour
	unknownCountryBucket   = "Unknown"
)

// Standing is one user's denormalized point balance as read for a rebuild.
type Standing struct {
	UserID  uuid.UUID
	Name    string
	Country string
	Badge   string
	Points  int
}

// BuildSnapshots computes the full replacement set of leaderboard snapshots
// from the current balances and the recent event log. It is pure: no store,
// no clock, no side effects.
//
// The country boards are cut from the already-truncated global top 100, not
// from the full user set, so a user outside the global top 100 does not
// appear on their country board.
func BuildSnapshots(standings []Standing, events []*types.PointEvent, now time.Time) []*types.LeaderboardSnapshot {
	ranked := make([]Standing, len(standings))
	copy(ranked, standings)
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Points > ranked[j].Points
	})
	if len(ranked) > globalLeaderboardSize {
		ranked = ranked[:globalLeaderboardSize]
	}

	snapshots := []*types.LeaderboardSnapshot{
		buildScope(types.LeaderboardScopeGlobal, ranked, len(ranked), now),
	}

	for _, country := range countriesOf(ranked) {
		var bucket []Standing
		for _, s := range ranked {
			if countryOf(s) == country {
				bucket = append(bucket, s)
			}
		}
		snapshots = append(snapshots, buildScope(
			types.LeaderboardScopeCountryPrefix+country,
			bucket,
			scopedLeaderboardSize,
			now,
		))
	}

	snapshots = append(snapshots, buildWeekly(standings, events, now))
	return snapshots
}

func buildScope(scope string, ordered []Standing, limit int, now time.Time) *types.LeaderboardSnapshot {
	if len(ordered) > limit {
		ordered = ordered[:limit]
	}
	entries := make([]types.LeaderboardEntry, 0, len(ordered))
	for i, s := range ordered {
		entries = append(entries, types.LeaderboardEntry{
			UserID:  s.UserID,
			Name:    s.Name,
			Country: s.Country,
			Badge:   s.Badge,
			Points:  s.Points,
			Rank:    i + 1,
		})
	}
	return &types.LeaderboardSnapshot{
		ID:        uuid.New(),
		Scope:     scope,
		Entries:   encodeEntries(entries),
		UpdatedAt: now,
	}
}

func buildWeekly(standings []Standing, events []*types.PointEvent, now time.Time) *types.LeaderboardSnapshot {
	cutoff := now.Add(-weeklyLeaderboardRange)

	totals := map[uuid.UUID]int{}
	order := []uuid.UUID{}
	for _, ev := range events {
		if ev == nil || ev.CreatedAt.Before(cutoff) {
			continue
		}
		if _, seen := totals[ev.UserID]; !seen {
			order = append(order, ev.UserID)
		}
		totals[ev.UserID] += ev.Points
	}

	byID := map[uuid.UUID]Standing{}
	for _, s := range standings {
		byID[s.UserID] = s
	}

	weekly := make([]Standing, 0, len(order))
	for _, id := range order {
		s := byID[id]
		s.UserID = id
		s.Points = totals[id]
		weekly = append(weekly, s)
	}
	sort.SliceStable(weekly, func(i, j int) bool {
		return weekly[i].Points > weekly[j].Points
	})

	return buildScope(types.LeaderboardScopeWeekly, weekly, scopedLeaderboardSize, now)
}

// countriesOf returns the distinct country buckets in first-seen order so the
// produced snapshot set is deterministic for a given input.
func countriesOf(ranked []Standing) []string {
	seen := map[string]struct{}{}
	out := []string{}
	for _, s := range ranked {
		c := countryOf(s)
		if _, ok := seen[c]; ok {
			continue
		}
		seen[c] = struct{}{}
		out = append(out, c)
	}
	return out
}

func countryOf(s Standing) string {
	if s.Country == "" {
		return unknownCountryBucket
	}
	return s.Country
}
