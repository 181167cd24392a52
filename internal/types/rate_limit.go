package types

import (
	"encoding/json"
	"time"

	"gorm.io/datatypes"
)

// RateLimitWindow is the fixed period over which a capped action accumulates.
const RateLimitWindow = 24 * time.Hour

type RateWindow struct {
	Count       int       `json:"count"`
	WindowStart time.Time `json:"window_start"`
}

// RateLimitState maps an action name to its current window. It lives on the
// user row as jsonb and is only touched under the same row lock as the
// balance itself.
type RateLimitState map[string]RateWindow

// DecodeRateLimitState tolerates a missing or malformed column and returns an
// empty state in that case.
func DecodeRateLimitState(raw datatypes.JSON) RateLimitState {
	state := RateLimitState{}
	if len(raw) == 0 {
		return state
	}
	if err := json.Unmarshal(raw, &state); err != nil {
		return RateLimitState{}
	}
	return state
}

func (s RateLimitState) Encode() datatypes.JSON {
	if s == nil {
		return datatypes.JSON([]byte(`{}`))
	}
	b, err := json.Marshal(s)
	if err != nil {
		return datatypes.JSON([]byte(`{}`))
	}
	return datatypes.JSON(b)
}

// Window returns the action's window, resetting it when it has aged out.
func (s RateLimitState) Window(action string, now time.Time) RateWindow {
	w, ok := s[action]
	if !ok || now.Sub(w.WindowStart) > RateLimitWindow {
		return RateWindow{Count: 0, WindowStart: now}
	}
	return w
}
