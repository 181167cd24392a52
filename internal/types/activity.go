package types

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// RecentActivityCapacity bounds the per-user activity ring stored on the user
// row. Newest entries sit at the front; anything past the capacity is dropped.
const RecentActivityCapacity = 20

type ActivityEntry struct {
	CourseID    uuid.UUID `json:"course_id"`
	ModuleID    uuid.UUID `json:"module_id"`
	LessonID    uuid.UUID `json:"lesson_id"`
	LessonTitle string    `json:"lesson_title"`
	ViewedAt    time.Time `json:"viewed_at"`
}

// ActivityRing is a fixed-capacity deque, newest-first.
type ActivityRing struct {
	entries  []ActivityEntry
	capacity int
}

func NewActivityRing(capacity int) *ActivityRing {
	if capacity <= 0 {
		capacity = RecentActivityCapacity
	}
	return &ActivityRing{capacity: capacity}
}

// DecodeActivityRing restores a ring from its jsonb column form. A missing or
// malformed column yields an empty ring rather than an error.
func DecodeActivityRing(raw datatypes.JSON, capacity int) *ActivityRing {
	ring := NewActivityRing(capacity)
	if len(raw) == 0 {
		return ring
	}
	var entries []ActivityEntry
	if err := json.Unmarshal(raw, &entries); err != nil {
		return ring
	}
	if len(entries) > ring.capacity {
		entries = entries[:ring.capacity]
	}
	ring.entries = entries
	return ring
}

// Push inserts an entry at the front, evicting the oldest past capacity.
func (r *ActivityRing) Push(entry ActivityEntry) {
	r.entries = append([]ActivityEntry{entry}, r.entries...)
	if len(r.entries) > r.capacity {
		r.entries = r.entries[:r.capacity]
	}
}

func (r *ActivityRing) Len() int { return len(r.entries) }

func (r *ActivityRing) Entries() []ActivityEntry {
	out := make([]ActivityEntry, len(r.entries))
	copy(out, r.entries)
	return out
}

func (r *ActivityRing) Encode() datatypes.JSON {
	if r.entries == nil {
		return datatypes.JSON([]byte(`[]`))
	}
	b, err := json.Marshal(r.entries)
	if err != nil {
		return datatypes.JSON([]byte(`[]`))
	}
	return datatypes.JSON(b)
}
