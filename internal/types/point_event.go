package types

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// PointEvent is the append-only audit record behind every award. Rows are
// never updated or deleted; the weekly leaderboard is derived from them.
type PointEvent struct {
	ID        uuid.UUID      `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	UserID    uuid.UUID      `gorm:"type:uuid;not null;index:idx_point_event_user" json:"user_id"`
	User      *User          `gorm:"constraint:OnDelete:CASCADE;foreignKey:UserID;references:ID" json:"user,omitempty"`
	Points    int            `gorm:"not null" json:"points"`
	Reason    string         `gorm:"column:reason;not null;index" json:"reason"`
	Metadata  datatypes.JSON `gorm:"type:jsonb;column:metadata" json:"metadata"`
	CreatedAt time.Time      `gorm:"not null;default:now();index:idx_point_event_created" json:"created_at"`
}

func (PointEvent) TableName() string { return "point_event" }
