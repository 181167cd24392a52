package services

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/studyhall/studyhall-backend/internal/types"
)

// In-memory doubles for the repo interfaces. They ignore the tx handle; the
// fake runner below executes transaction bodies directly.

type fakeRunner struct {
	calls int
}

func (r *fakeRunner) InTx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	r.calls++
	return fn(nil)
}

type fakeUserRepo struct {
	users map[uuid.UUID]*types.User
}

func newFakeUserRepo(users ...*types.User) *fakeUserRepo {
	m := map[uuid.UUID]*types.User{}
	for _, u := range users {
		m[u.ID] = u
	}
	return &fakeUserRepo{users: m}
}

func (r *fakeUserRepo) GetByIDs(ctx context.Context, tx *gorm.DB, userIDs []uuid.UUID) ([]*types.User, error) {
	var out []*types.User
	for _, id := range userIDs {
		if u, ok := r.users[id]; ok {
			out = append(out, u)
		}
	}
	return out, nil
}

func (r *fakeUserRepo) GetByIDForUpdate(ctx context.Context, tx *gorm.DB, userID uuid.UUID) (*types.User, error) {
	u, ok := r.users[userID]
	if !ok {
		return nil, nil
	}
	cp := *u
	return &cp, nil
}

func (r *fakeUserRepo) GetAll(ctx context.Context, tx *gorm.DB) ([]*types.User, error) {
	var out []*types.User
	for _, u := range r.users {
		out = append(out, u)
	}
	return out, nil
}

func (r *fakeUserRepo) Save(ctx context.Context, tx *gorm.DB, user *types.User) error {
	cp := *user
	r.users[user.ID] = &cp
	return nil
}

func (r *fakeUserRepo) TouchLastActive(ctx context.Context, tx *gorm.DB, userID uuid.UUID, at time.Time) error {
	if u, ok := r.users[userID]; ok {
		t := at
		u.LastActive = &t
	}
	return nil
}

type fakeLessonRepo struct {
	perModule map[uuid.UUID]int
	perCourse map[uuid.UUID]int
}

func (r *fakeLessonRepo) CountByModuleID(ctx context.Context, tx *gorm.DB, moduleID uuid.UUID) (int, error) {
	return r.perModule[moduleID], nil
}

func (r *fakeLessonRepo) CountByCourseID(ctx context.Context, tx *gorm.DB, courseID uuid.UUID) (int, error) {
	return r.perCourse[courseID], nil
}

type progressKey struct {
	userID   uuid.UUID
	lessonID uuid.UUID
}

type fakeLessonProgressRepo struct {
	rows map[progressKey]*types.LessonProgress
}

func newFakeLessonProgressRepo() *fakeLessonProgressRepo {
	return &fakeLessonProgressRepo{rows: map[progressKey]*types.LessonProgress{}}
}

func (r *fakeLessonProgressRepo) CreateIfAbsent(ctx context.Context, tx *gorm.DB, row *types.LessonProgress) (bool, error) {
	key := progressKey{row.UserID, row.LessonID}
	if _, exists := r.rows[key]; exists {
		return false, nil
	}
	cp := *row
	r.rows[key] = &cp
	return true, nil
}

func (r *fakeLessonProgressRepo) GetByUserAndLessonForUpdate(ctx context.Context, tx *gorm.DB, userID, lessonID uuid.UUID) (*types.LessonProgress, error) {
	row, ok := r.rows[progressKey{userID, lessonID}]
	if !ok {
		return nil, nil
	}
	cp := *row
	return &cp, nil
}

func (r *fakeLessonProgressRepo) GetByUserID(ctx context.Context, tx *gorm.DB, userID uuid.UUID) ([]*types.LessonProgress, error) {
	var out []*types.LessonProgress
	for k, row := range r.rows {
		if k.userID == userID {
			out = append(out, row)
		}
	}
	return out, nil
}

func (r *fakeLessonProgressRepo) Save(ctx context.Context, tx *gorm.DB, row *types.LessonProgress) error {
	cp := *row
	r.rows[progressKey{row.UserID, row.LessonID}] = &cp
	return nil
}

type moduleKey struct {
	userID   uuid.UUID
	moduleID uuid.UUID
}

type fakeModuleProgressRepo struct {
	rows map[moduleKey]*types.ModuleProgress
}

func newFakeModuleProgressRepo() *fakeModuleProgressRepo {
	return &fakeModuleProgressRepo{rows: map[moduleKey]*types.ModuleProgress{}}
}

func (r *fakeModuleProgressRepo) Create(ctx context.Context, tx *gorm.DB, row *types.ModuleProgress) error {
	cp := *row
	r.rows[moduleKey{row.UserID, row.ModuleID}] = &cp
	return nil
}

func (r *fakeModuleProgressRepo) GetByUserAndModuleForUpdate(ctx context.Context, tx *gorm.DB, userID, moduleID uuid.UUID) (*types.ModuleProgress, error) {
	row, ok := r.rows[moduleKey{userID, moduleID}]
	if !ok {
		return nil, nil
	}
	cp := *row
	return &cp, nil
}

func (r *fakeModuleProgressRepo) GetByUserID(ctx context.Context, tx *gorm.DB, userID uuid.UUID) ([]*types.ModuleProgress, error) {
	var out []*types.ModuleProgress
	for k, row := range r.rows {
		if k.userID == userID {
			out = append(out, row)
		}
	}
	return out, nil
}

func (r *fakeModuleProgressRepo) Save(ctx context.Context, tx *gorm.DB, row *types.ModuleProgress) error {
	cp := *row
	r.rows[moduleKey{row.UserID, row.ModuleID}] = &cp
	return nil
}

type fakePointEventRepo struct {
	events []*types.PointEvent
}

func (r *fakePointEventRepo) Create(ctx context.Context, tx *gorm.DB, event *types.PointEvent) error {
	cp := *event
	r.events = append(r.events, &cp)
	return nil
}

func (r *fakePointEventRepo) ListSince(ctx context.Context, tx *gorm.DB, since time.Time) ([]*types.PointEvent, error) {
	var out []*types.PointEvent
	for _, ev := range r.events {
		if !ev.CreatedAt.Before(since) {
			out = append(out, ev)
		}
	}
	return out, nil
}

func (r *fakePointEventRepo) ListByUserID(ctx context.Context, tx *gorm.DB, userID uuid.UUID, limit int) ([]*types.PointEvent, error) {
	var out []*types.PointEvent
	for _, ev := range r.events {
		if ev.UserID == userID {
			out = append(out, ev)
		}
	}
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

type fakeLeaderboardRepo struct {
	snapshots map[string]*types.LeaderboardSnapshot
}

func newFakeLeaderboardRepo() *fakeLeaderboardRepo {
	return &fakeLeaderboardRepo{snapshots: map[string]*types.LeaderboardSnapshot{}}
}

func (r *fakeLeaderboardRepo) ReplaceAll(ctx context.Context, tx *gorm.DB, snapshots []*types.LeaderboardSnapshot) error {
	r.snapshots = map[string]*types.LeaderboardSnapshot{}
	for _, s := range snapshots {
		r.snapshots[s.Scope] = s
	}
	return nil
}

func (r *fakeLeaderboardRepo) GetByScope(ctx context.Context, tx *gorm.DB, scope string) (*types.LeaderboardSnapshot, error) {
	return r.snapshots[scope], nil
}

type fakeBoardCache struct {
	entries    map[string]*types.LeaderboardSnapshot
	failScopes map[string]bool
	setScopes  []string
}

func newFakeBoardCache() *fakeBoardCache {
	return &fakeBoardCache{
		entries:    map[string]*types.LeaderboardSnapshot{},
		failScopes: map[string]bool{},
	}
}

func (c *fakeBoardCache) Set(ctx context.Context, snapshot *types.LeaderboardSnapshot) error {
	c.setScopes = append(c.setScopes, snapshot.Scope)
	if c.failScopes[snapshot.Scope] {
		return errors.New("cache write refused")
	}
	c.entries[snapshot.Scope] = snapshot
	return nil
}

func (c *fakeBoardCache) Get(ctx context.Context, scope string) (*types.LeaderboardSnapshot, error) {
	return c.entries[scope], nil
}

func (c *fakeBoardCache) Close() error {
	return nil
}
