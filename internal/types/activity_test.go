package types

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

func TestActivityRingPushFrontAndTruncate(t *testing.T) {
	ring := NewActivityRing(3)

	ids := []uuid.UUID{uuid.New(), uuid.New(), uuid.New(), uuid.New()}
	for _, id := range ids {
		ring.Push(ActivityEntry{LessonID: id, ViewedAt: time.Now().UTC()})
	}

	if ring.Len() != 3 {
		t.Fatalf("length: want=3 got=%d", ring.Len())
	}
	entries := ring.Entries()
	// Newest first; the first pushed entry fell off the back.
	if entries[0].LessonID != ids[3] || entries[2].LessonID != ids[1] {
		t.Fatalf("order: %+v", entries)
	}
	for _, e := range entries {
		if e.LessonID == ids[0] {
			t.Fatal("oldest entry survived past capacity")
		}
	}
}

func TestActivityRingRoundTrip(t *testing.T) {
	ring := NewActivityRing(RecentActivityCapacity)
	entry := ActivityEntry{
		CourseID:    uuid.New(),
		ModuleID:    uuid.New(),
		LessonID:    uuid.New(),
		LessonTitle: "Pointers",
		ViewedAt:    time.Date(2025, 6, 1, 9, 30, 0, 0, time.UTC),
	}
	ring.Push(entry)

	decoded := DecodeActivityRing(ring.Encode(), RecentActivityCapacity)
	if decoded.Len() != 1 {
		t.Fatalf("round-trip length: %d", decoded.Len())
	}
	got := decoded.Entries()[0]
	if got != entry {
		t.Fatalf("round-trip entry: got=%+v want=%+v", got, entry)
	}
}

func TestDecodeActivityRingTolerant(t *testing.T) {
	cases := []struct {
		name string
		raw  datatypes.JSON
	}{
		{name: "nil", raw: nil},
		{name: "empty", raw: datatypes.JSON([]byte(``))},
		{name: "garbage", raw: datatypes.JSON([]byte(`{not json`))},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			ring := DecodeActivityRing(tc.raw, RecentActivityCapacity)
			if ring.Len() != 0 {
				t.Fatalf("tolerant decode should yield empty ring, got %d entries", ring.Len())
			}
		})
	}
}

func TestDecodeActivityRingClampsOversizedColumn(t *testing.T) {
	big := NewActivityRing(50)
	for i := 0; i < 30; i++ {
		big.Push(ActivityEntry{LessonID: uuid.New()})
	}

	decoded := DecodeActivityRing(big.Encode(), RecentActivityCapacity)
	if decoded.Len() != RecentActivityCapacity {
		t.Fatalf("clamp: want=%d got=%d", RecentActivityCapacity, decoded.Len())
	}
}
