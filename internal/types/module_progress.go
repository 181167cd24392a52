package types

import (
	"time"

	"github.com/google/uuid"
)

type ModuleProgress struct {
	ID                 uuid.UUID     `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	UserID             uuid.UUID     `gorm:"type:uuid;not null;index:idx_user_module,unique" json:"user_id"`
	User               *User         `gorm:"constraint:OnDelete:CASCADE;foreignKey:UserID;references:ID" json:"user,omitempty"`
	ModuleID           uuid.UUID     `gorm:"type:uuid;not null;index:idx_user_module,unique" json:"module_id"`
	Module             *CourseModule `gorm:"constraint:OnDelete:CASCADE;foreignKey:ModuleID;references:ID" json:"module,omitempty"`
	CompletedLessons   int           `gorm:"not null;default:0;column:completed_lessons" json:"completed_lessons"`
	TotalLessons       int           `gorm:"not null;default:0;column:total_lessons" json:"total_lessons"`
	ProgressPercentage int           `gorm:"not null;default:0;column:progress_percentage" json:"progress_percentage"`
	CreatedAt          time.Time     `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt          time.Time     `gorm:"not null;default:now()" json:"updated_at"`
}

func (ModuleProgress) TableName() string { return "module_progress" }
