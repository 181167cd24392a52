package types

import (
	"time"

	"github.com/google/uuid"
)

type Lesson struct {
	ID        uuid.UUID     `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	CourseID  uuid.UUID     `gorm:"type:uuid;not null;index" json:"course_id"`
	Course    *Course       `gorm:"constraint:OnDelete:CASCADE;foreignKey:CourseID;references:ID" json:"course,omitempty"`
	ModuleID  uuid.UUID     `gorm:"type:uuid;not null;index" json:"module_id"`
	Module    *CourseModule `gorm:"constraint:OnDelete:CASCADE;foreignKey:ModuleID;references:ID" json:"module,omitempty"`
	Index     int           `gorm:"column:index;not null" json:"index"`
	Title     string        `gorm:"column:title;not null" json:"title"`
	CreatedAt time.Time     `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt time.Time     `gorm:"not null;default:now()" json:"updated_at"`
}

func (Lesson) TableName() string { return "lesson" }
