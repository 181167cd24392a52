package types

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

const (
	LeaderboardScopeGlobal        = "global"
	LeaderboardScopeWeekly        = "weekly"
	LeaderboardScopeCountryPrefix = "country_"
)

// LeaderboardSnapshot is a fully-replaced ranked view for one scope. A rebuild
// deletes every previous row before inserting the new set, so entries from an
// earlier run can never outlive the run that produced them.
type LeaderboardSnapshot struct {
	ID        uuid.UUID      `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	Scope     string         `gorm:"column:scope;not null;uniqueIndex" json:"scope"`
	Entries   datatypes.JSON `gorm:"type:jsonb;column:entries" json:"entries"`
	UpdatedAt time.Time      `gorm:"not null;default:now()" json:"updated_at"`
}

func (LeaderboardSnapshot) TableName() string { return "leaderboard_snapshot" }

type LeaderboardEntry struct {
	UserID  uuid.UUID `json:"user_id"`
	Name    string    `json:"name"`
	Country string    `json:"country,omitempty"`
	Badge   string    `json:"badge,omitempty"`
	Points  int       `json:"points"`
	Rank    int       `json:"rank"`
}
