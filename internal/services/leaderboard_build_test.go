package services

import (
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/studyhall/studyhall-backend/internal/types"
)

func snapshotByScope(t *testing.T, snapshots []*types.LeaderboardSnapshot, scope string) []types.LeaderboardEntry {
	t.Helper()
	for _, s := range snapshots {
		if s.Scope == scope {
			return DecodeEntries(s.Entries)
		}
	}
	t.Fatalf("no snapshot for scope %q", scope)
	return nil
}

func TestBuildSnapshotsRanking(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	a := Standing{UserID: uuid.New(), Name: "A", Country: "US", Points: 100}
	b := Standing{UserID: uuid.New(), Name: "B", Country: "US", Points: 90}
	c := Standing{UserID: uuid.New(), Name: "C", Country: "FR", Points: 80}

	snapshots := BuildSnapshots([]Standing{b, c, a}, nil, now)

	global := snapshotByScope(t, snapshots, types.LeaderboardScopeGlobal)
	if len(global) != 3 {
		t.Fatalf("global length: want=3 got=%d", len(global))
	}
	wantOrder := []Standing{a, b, c}
	for i, want := range wantOrder {
		if global[i].UserID != want.UserID || global[i].Rank != i+1 {
			t.Fatalf("global[%d]: got=%+v want user=%s rank=%d", i, global[i], want.Name, i+1)
		}
	}

	us := snapshotByScope(t, snapshots, types.LeaderboardScopeCountryPrefix+"US")
	if len(us) != 2 || us[0].UserID != a.UserID || us[0].Rank != 1 || us[1].UserID != b.UserID || us[1].Rank != 2 {
		t.Fatalf("country_US: %+v", us)
	}

	fr := snapshotByScope(t, snapshots, types.LeaderboardScopeCountryPrefix+"FR")
	if len(fr) != 1 || fr[0].UserID != c.UserID || fr[0].Rank != 1 {
		t.Fatalf("country_FR: %+v", fr)
	}
}

func TestBuildSnapshotsTiesKeepArrayOrder(t *testing.T) {
	now := time.Now().UTC()
	first := Standing{UserID: uuid.New(), Name: "first", Points: 50}
	second := Standing{UserID: uuid.New(), Name: "second", Points: 50}

	snapshots := BuildSnapshots([]Standing{first, second}, nil, now)
	global := snapshotByScope(t, snapshots, types.LeaderboardScopeGlobal)

	if global[0].UserID != first.UserID || global[0].Rank != 1 {
		t.Fatalf("tie order: got=%+v", global[0])
	}
	if global[1].UserID != second.UserID || global[1].Rank != 2 {
		t.Fatalf("ties must still get distinct consecutive ranks: %+v", global[1])
	}
}

func TestBuildSnapshotsGlobalTruncatesAt100(t *testing.T) {
	now := time.Now().UTC()

	standings := make([]Standing, 0, 120)
	for i := 0; i < 120; i++ {
		standings = append(standings, Standing{
			UserID:  uuid.New(),
			Country: "US",
			Points:  1000 - i,
		})
	}
	cutUser := standings[119] // lowest score, outside the top 100

	snapshots := BuildSnapshots(standings, nil, now)
	global := snapshotByScope(t, snapshots, types.LeaderboardScopeGlobal)
	if len(global) != 100 {
		t.Fatalf("global length: want=100 got=%d", len(global))
	}

	// Country boards are cut from the top-100 slice: a user outside it never
	// appears on their country board, no matter their national standing.
	us := snapshotByScope(t, snapshots, types.LeaderboardScopeCountryPrefix+"US")
	if len(us) != 50 {
		t.Fatalf("country_US length: want=50 got=%d", len(us))
	}
	for _, entry := range us {
		if entry.UserID == cutUser.UserID {
			t.Fatal("user outside global top 100 leaked into country board")
		}
	}
}

func TestBuildSnapshotsUnknownCountryBucket(t *testing.T) {
	now := time.Now().UTC()
	nomad := Standing{UserID: uuid.New(), Name: "nomad", Points: 10}

	snapshots := BuildSnapshots([]Standing{nomad}, nil, now)
	unknown := snapshotByScope(t, snapshots, types.LeaderboardScopeCountryPrefix+"Unknown")
	if len(unknown) != 1 || unknown[0].UserID != nomad.UserID {
		t.Fatalf("country_Unknown: %+v", unknown)
	}
}

func TestBuildSnapshotsWeeklyWindow(t *testing.T) {
	now := time.Date(2025, 6, 8, 12, 0, 0, 0, time.UTC)
	recent := Standing{UserID: uuid.New(), Name: "recent", Points: 500}
	stale := Standing{UserID: uuid.New(), Name: "stale", Points: 900}

	events := []*types.PointEvent{
		{UserID: recent.UserID, Points: 5, CreatedAt: now.Add(-24 * time.Hour)},
		{UserID: recent.UserID, Points: 3, CreatedAt: now.Add(-6 * 24 * time.Hour)},
		// Older than 7 days: must not contribute.
		{UserID: stale.UserID, Points: 50, CreatedAt: now.Add(-8 * 24 * time.Hour)},
	}

	snapshots := BuildSnapshots([]Standing{recent, stale}, events, now)
	weekly := snapshotByScope(t, snapshots, types.LeaderboardScopeWeekly)

	if len(weekly) != 1 {
		t.Fatalf("weekly length: want=1 got=%d", len(weekly))
	}
	if weekly[0].UserID != recent.UserID || weekly[0].Points != 8 || weekly[0].Rank != 1 {
		t.Fatalf("weekly[0]: %+v", weekly[0])
	}
}

func TestBuildSnapshotsWeeklyOrdersBySum(t *testing.T) {
	now := time.Now().UTC()
	low := Standing{UserID: uuid.New(), Name: "low", Points: 10000}
	high := Standing{UserID: uuid.New(), Name: "high", Points: 1}

	events := []*types.PointEvent{
		{UserID: low.UserID, Points: 2, CreatedAt: now.Add(-time.Hour)},
		{UserID: high.UserID, Points: 4, CreatedAt: now.Add(-2 * time.Hour)},
		{UserID: high.UserID, Points: 4, CreatedAt: now.Add(-3 * time.Hour)},
	}

	snapshots := BuildSnapshots([]Standing{low, high}, events, now)
	weekly := snapshotByScope(t, snapshots, types.LeaderboardScopeWeekly)

	// Weekly ranks come from the event sums, not the lifetime balances.
	if weekly[0].UserID != high.UserID || weekly[0].Points != 8 {
		t.Fatalf("weekly[0]: %+v", weekly[0])
	}
	if weekly[1].UserID != low.UserID || weekly[1].Points != 2 {
		t.Fatalf("weekly[1]: %+v", weekly[1])
	}
}

func TestBuildSnapshotsEmptyInput(t *testing.T) {
	snapshots := BuildSnapshots(nil, nil, time.Now().UTC())

	global := snapshotByScope(t, snapshots, types.LeaderboardScopeGlobal)
	if len(global) != 0 {
		t.Fatalf("empty global: %+v", global)
	}
	weekly := snapshotByScope(t, snapshots, types.LeaderboardScopeWeekly)
	if len(weekly) != 0 {
		t.Fatalf("empty weekly: %+v", weekly)
	}
	// No users means no country scopes at all.
	if len(snapshots) != 2 {
		t.Fatalf("snapshot count: want=2 got=%d", len(snapshots))
	}
}
