package services

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/studyhall/studyhall-backend/internal/cache"
	"github.com/studyhall/studyhall-backend/internal/logger"
	"github.com/studyhall/studyhall-backend/internal/repos"
	"github.com/studyhall/studyhall-backend/internal/txn"
	"github.com/studyhall/studyhall-backend/internal/types"
)

// LeaderboardService rebuilds the ranked snapshots from the persisted point
// state and serves reads. It never writes balances or events; the ledger's
// tables are read-only from here.
type LeaderboardService interface {
	Recompute(ctx context.Context) error
	Get(ctx context.Context, scope string) (*types.LeaderboardSnapshot, error)
}

type leaderboardService struct {
	db        *gorm.DB
	log       *logger.Logger
	runner    txn.Runner
	userRepo  repos.UserRepo
	eventRepo repos.PointEventRepo
	boardRepo repos.LeaderboardRepo
	cache     cache.LeaderboardCache
	now       func() time.Time
}

func NewLeaderboardService(
	db *gorm.DB,
	baseLog *logger.Logger,
	runner txn.Runner,
	userRepo repos.UserRepo,
	eventRepo repos.PointEventRepo,
	boardRepo repos.LeaderboardRepo,
	boardCache cache.LeaderboardCache,
) LeaderboardService {
	return &leaderboardService{
		db:        db,
		log:       baseLog.With("service", "LeaderboardService"),
		runner:    runner,
		userRepo:  userRepo,
		eventRepo: eventRepo,
		boardRepo: boardRepo,
		cache:     boardCache,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

func (s *leaderboardService) Recompute(ctx context.Context) error {
	now := s.now()

	users, err := s.userRepo.GetAll(ctx, nil)
	if err != nil {
		return fmt.Errorf("read balances: %w", err)
	}
	events, err := s.eventRepo.ListSince(ctx, nil, now.Add(-weeklyLeaderboardRange))
	if err != nil {
		return fmt.Errorf("read event window: %w", err)
	}

	standings := make([]Standing, 0, len(users))
	for _, u := range users {
		if u == nil {
			continue
		}
		standings = append(standings, Standing{
			UserID:  u.ID,
			Name:    u.DisplayName,
			Country: u.Country,
			Badge:   u.Badge,
			Points:  u.Points,
		})
	}

	snapshots := BuildSnapshots(standings, events, now)

	if err := s.runner.InTx(ctx, func(tx *gorm.DB) error {
		return s.boardRepo.ReplaceAll(ctx, tx, snapshots)
	}); err != nil {
		return fmt.Errorf("replace snapshots: %w", err)
	}

	// Cache refresh is best effort: a read that misses falls back to the
	// store. One failed scope must not keep the rest stale until their TTL.
	if s.cache != nil {
		for _, snap := range snapshots {
			if err := s.cache.Set(ctx, snap); err != nil {
				s.log.Warn("Leaderboard cache set failed", "scope", snap.Scope, "error", err)
			}
		}
	}

	s.log.Info("Leaderboards rebuilt", "snapshots", len(snapshots), "users", len(standings), "events", len(events))
	return nil
}

func (s *leaderboardService) Get(ctx context.Context, scope string) (*types.LeaderboardSnapshot, error) {
	if scope == "" {
		return nil, fmt.Errorf("scope is required")
	}

	if s.cache != nil {
		if snap, err := s.cache.Get(ctx, scope); err == nil && snap != nil {
			return snap, nil
		}
	}

	snap, err := s.boardRepo.GetByScope(ctx, nil, scope)
	if err != nil {
		return nil, fmt.Errorf("read snapshot: %w", err)
	}
	if snap == nil {
		// Empty rather than missing: the scope simply has no ranked users yet.
		return &types.LeaderboardSnapshot{
			Scope:     scope,
			Entries:   encodeEntries(nil),
			UpdatedAt: s.now(),
		}, nil
	}
	return snap, nil
}

func encodeEntries(entries []types.LeaderboardEntry) datatypes.JSON {
	if entries == nil {
		entries = []types.LeaderboardEntry{}
	}
	b, err := json.Marshal(entries)
	if err != nil {
		return datatypes.JSON([]byte(`[]`))
	}
	return datatypes.JSON(b)
}

// DecodeEntries restores a snapshot's ranked entries from the jsonb column.
func DecodeEntries(raw datatypes.JSON) []types.LeaderboardEntry {
	if len(raw) == 0 {
		return nil
	}
	var entries []types.LeaderboardEntry
	if err := json.Unmarshal(raw, &entries); err != nil {
		return nil
	}
	return entries
}
