package types

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type User struct {
	ID                 uuid.UUID      `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	Email              string         `gorm:"uniqueIndex;not null;column:email" json:"email"`
	DisplayName        string         `gorm:"not null;column:display_name" json:"display_name"`
	Country            string         `gorm:"column:country" json:"country"`
	Badge              string         `gorm:"column:badge" json:"badge"`
	AvatarURL          string         `gorm:"column:avatar_url" json:"avatar_url"`
	CompletedLessons   int            `gorm:"not null;default:0;column:completed_lessons" json:"completed_lessons"`
	TotalLessons       int            `gorm:"not null;default:0;column:total_lessons" json:"total_lessons"`
	ProgressPercentage int            `gorm:"not null;default:0;column:progress_percentage" json:"progress_percentage"`
	LastActive         *time.Time     `gorm:"column:last_active" json:"last_active,omitempty"`
	RecentActivity     datatypes.JSON `gorm:"type:jsonb;column:recent_activity" json:"recent_activity"`
	Points             int            `gorm:"not null;default:0;column:points" json:"points"`
	PointsRateLimits   datatypes.JSON `gorm:"type:jsonb;column:points_rate_limits" json:"points_rate_limits"`
	CreatedAt          time.Time      `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt          time.Time      `gorm:"not null;default:now()" json:"updated_at"`
}

func (User) TableName() string { return "user" }
