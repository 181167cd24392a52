package services

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/studyhall/studyhall-backend/internal/logger"
	"github.com/studyhall/studyhall-backend/internal/repos"
	"github.com/studyhall/studyhall-backend/internal/txn"
	"github.com/studyhall/studyhall-backend/internal/types"
)

// Social actions that earn points. Caps are per rolling 24h window; a zero
// cap means unlimited.
const (
	ActionMessageSent      = "message_sent"
	ActionAttachmentUpload = "attachment_upload"
	ActionMessageLike      = "message_like"
	ActionEmojiReaction    = "emoji_reaction"
)

type actionRule struct {
	Points int
	Cap    int
}

var actionRules = map[string]actionRule{
	ActionMessageSent:      {Points: 2, Cap: 20},
	ActionAttachmentUpload: {Points: 4, Cap: 5},
	ActionMessageLike:      {Points: 3, Cap: 0},
	ActionEmojiReaction:    {Points: 2, Cap: 0},
}

type AwardResult struct {
	Success   bool   `json:"success"`
	Message   string `json:"message"`
	Points    int    `json:"points"`
	Remaining *int   `json:"remaining,omitempty"`
}

// UserPoints is the balance plus the newest slice of the audit log.
type UserPoints struct {
	Points int                 `json:"points"`
	Events []*types.PointEvent `json:"events"`
}

// recentPointEventsLimit bounds the event slice returned to callers; the full
// log stays queryable in the store.
const recentPointEventsLimit = 50

// PointsService is the only writer of point balances. Every successful award
// appends a PointEvent in the same transaction that moves the balance, so the
// sum of events always matches the stored total.
type PointsService interface {
	AwardPoints(ctx context.Context, userID uuid.UUID, points int, reason string, metadata map[string]any) error
	AwardMessageSent(ctx context.Context, userID, conversationID uuid.UUID) (*AwardResult, error)
	AwardAttachmentUpload(ctx context.Context, userID, conversationID uuid.UUID) (*AwardResult, error)
	AwardMessageLike(ctx context.Context, recipientID, likerID, messageID uuid.UUID) (*AwardResult, error)
	AwardEmojiReaction(ctx context.Context, recipientID, reactorID, messageID uuid.UUID, emoji string) (*AwardResult, error)
	GetUserPoints(ctx context.Context, userID uuid.UUID) (*UserPoints, error)
}

type pointsService struct {
	db        *gorm.DB
	log       *logger.Logger
	runner    txn.Runner
	userRepo  repos.UserRepo
	eventRepo repos.PointEventRepo
	now       func() time.Time
}

func NewPointsService(
	db *gorm.DB,
	baseLog *logger.Logger,
	runner txn.Runner,
	userRepo repos.UserRepo,
	eventRepo repos.PointEventRepo,
) PointsService {
	return &pointsService{
		db:        db,
		log:       baseLog.With("service", "PointsService"),
		runner:    runner,
		userRepo:  userRepo,
		eventRepo: eventRepo,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

func (s *pointsService) AwardPoints(ctx context.Context, userID uuid.UUID, points int, reason string, metadata map[string]any) error {
	if userID == uuid.Nil {
		return fmt.Errorf("user id is required")
	}
	if points <= 0 {
		return fmt.Errorf("points must be positive")
	}

	return s.runner.InTx(ctx, func(tx *gorm.DB) error {
		user, err := s.userRepo.GetByIDForUpdate(ctx, tx, userID)
		if err != nil {
			return fmt.Errorf("load user: %w", err)
		}
		if user == nil {
			return fmt.Errorf("user %s does not exist", userID)
		}
		user.Points += points
		if err := s.userRepo.Save(ctx, tx, user); err != nil {
			return fmt.Errorf("save balance: %w", err)
		}
		return s.appendEvent(ctx, tx, userID, points, reason, metadata)
	})
}

func (s *pointsService) AwardMessageSent(ctx context.Context, userID, conversationID uuid.UUID) (*AwardResult, error) {
	return s.awardForAction(ctx, userID, ActionMessageSent, map[string]any{
		"conversation_id": conversationID,
	})
}

func (s *pointsService) AwardAttachmentUpload(ctx context.Context, userID, conversationID uuid.UUID) (*AwardResult, error) {
	return s.awardForAction(ctx, userID, ActionAttachmentUpload, map[string]any{
		"conversation_id": conversationID,
	})
}

func (s *pointsService) AwardMessageLike(ctx context.Context, recipientID, likerID, messageID uuid.UUID) (*AwardResult, error) {
	return s.awardForAction(ctx, recipientID, ActionMessageLike, map[string]any{
		"liker_id":   likerID,
		"message_id": messageID,
	})
}

func (s *pointsService) AwardEmojiReaction(ctx context.Context, recipientID, reactorID, messageID uuid.UUID, emoji string) (*AwardResult, error) {
	return s.awardForAction(ctx, recipientID, ActionEmojiReaction, map[string]any{
		"reactor_id": reactorID,
		"message_id": messageID,
		"emoji":      emoji,
	})
}

func (s *pointsService) GetUserPoints(ctx context.Context, userID uuid.UUID) (*UserPoints, error) {
	if userID == uuid.Nil {
		return nil, fmt.Errorf("user id is required")
	}

	users, err := s.userRepo.GetByIDs(ctx, nil, []uuid.UUID{userID})
	if err != nil {
		return nil, fmt.Errorf("fetch user: %w", err)
	}
	if len(users) == 0 || users[0] == nil {
		return nil, fmt.Errorf("user does not exist")
	}

	events, err := s.eventRepo.ListByUserID(ctx, nil, userID, recentPointEventsLimit)
	if err != nil {
		return nil, fmt.Errorf("fetch point events: %w", err)
	}
	return &UserPoints{Points: users[0].Points, Events: events}, nil
}

// awardForAction runs the whole capped-award sequence (read counters, decide,
// increment, move balance, append event) under one row lock in one
// transaction, so concurrent calls from the same user cannot slip past the cap.
func (s *pointsService) awardForAction(ctx context.Context, userID uuid.UUID, action string, metadata map[string]any) (*AwardResult, error) {
	rule, ok := actionRules[action]
	if !ok {
		return nil, fmt.Errorf("unknown action %q", action)
	}
	if userID == uuid.Nil {
		return nil, fmt.Errorf("user id is required")
	}

	var result *AwardResult
	err := s.runner.InTx(ctx, func(tx *gorm.DB) error {
		result = nil
		now := s.now()

		user, err := s.userRepo.GetByIDForUpdate(ctx, tx, userID)
		if err != nil {
			return fmt.Errorf("load user: %w", err)
		}
		if user == nil {
			return fmt.Errorf("user %s does not exist", userID)
		}

		state := types.DecodeRateLimitState(user.PointsRateLimits)
		window := state.Window(action, now)

		if rule.Cap > 0 {
			if window.Count >= rule.Cap {
				remaining := 0
				result = &AwardResult{
					Success:   false,
					Message:   fmt.Sprintf("daily limit reached for %s", action),
					Points:    0,
					Remaining: &remaining,
				}
				return nil
			}
			window.Count++
			state[action] = window
			user.PointsRateLimits = state.Encode()
		}

		user.Points += rule.Points
		if err := s.userRepo.Save(ctx, tx, user); err != nil {
			return fmt.Errorf("save balance: %w", err)
		}
		if err := s.appendEvent(ctx, tx, userID, rule.Points, action, metadata); err != nil {
			return err
		}

		res := &AwardResult{
			Success: true,
			Message: fmt.Sprintf("awarded %d points for %s", rule.Points, action),
			Points:  rule.Points,
		}
		if rule.Cap > 0 {
			remaining := rule.Cap - window.Count
			res.Remaining = &remaining
		}
		result = res
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (s *pointsService) appendEvent(ctx context.Context, tx *gorm.DB, userID uuid.UUID, points int, reason string, metadata map[string]any) error {
	var meta datatypes.JSON
	if metadata != nil {
		b, err := json.Marshal(metadata)
		if err != nil {
			return fmt.Errorf("encode event metadata: %w", err)
		}
		meta = datatypes.JSON(b)
	}
	event := &types.PointEvent{
		ID:        uuid.New(),
		UserID:    userID,
		Points:    points,
		Reason:    reason,
		Metadata:  meta,
		CreatedAt: s.now(),
	}
	if err := s.eventRepo.Create(ctx, tx, event); err != nil {
		return fmt.Errorf("append point event: %w", err)
	}
	return nil
}
