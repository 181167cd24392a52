package types

import (
	"testing"
	"time"

	"gorm.io/datatypes"
)

func TestRateLimitWindowReset(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	cases := []struct {
		name      string
		state     RateLimitState
		wantCount int
		wantStart time.Time
	}{
		{
			name:      "unknown_action_starts_fresh",
			state:     RateLimitState{},
			wantCount: 0,
			wantStart: now,
		},
		{
			name: "inside_window_keeps_count",
			state: RateLimitState{
				"message_sent": {Count: 7, WindowStart: now.Add(-23 * time.Hour)},
			},
			wantCount: 7,
			wantStart: now.Add(-23 * time.Hour),
		},
		{
			name: "exactly_24h_keeps_count",
			state: RateLimitState{
				"message_sent": {Count: 20, WindowStart: now.Add(-RateLimitWindow)},
			},
			wantCount: 20,
			wantStart: now.Add(-RateLimitWindow),
		},
		{
			name: "aged_out_resets",
			state: RateLimitState{
				"message_sent": {Count: 20, WindowStart: now.Add(-RateLimitWindow - time.Second)},
			},
			wantCount: 0,
			wantStart: now,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w := tc.state.Window("message_sent", now)
			if w.Count != tc.wantCount || !w.WindowStart.Equal(tc.wantStart) {
				t.Fatalf("window: got=%+v want count=%d start=%v", w, tc.wantCount, tc.wantStart)
			}
		})
	}
}

func TestRateLimitStateRoundTrip(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	state := RateLimitState{
		"message_sent":      {Count: 3, WindowStart: now},
		"attachment_upload": {Count: 1, WindowStart: now.Add(-time.Hour)},
	}

	decoded := DecodeRateLimitState(state.Encode())
	if len(decoded) != 2 {
		t.Fatalf("round-trip size: %d", len(decoded))
	}
	if decoded["message_sent"].Count != 3 || !decoded["message_sent"].WindowStart.Equal(now) {
		t.Fatalf("round-trip window: %+v", decoded["message_sent"])
	}
}

func TestDecodeRateLimitStateTolerant(t *testing.T) {
	for _, raw := range []datatypes.JSON{nil, datatypes.JSON(``), datatypes.JSON(`{bad`)} {
		state := DecodeRateLimitState(raw)
		if state == nil || len(state) != 0 {
			t.Fatalf("tolerant decode: %+v", state)
		}
	}
}
