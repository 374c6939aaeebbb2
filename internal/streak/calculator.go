package streak

import (
	"time"

	"github.com/google/uuid"
)

// State is the per-user streak aggregate. It is owned by the StateCache and
// only ever produced by Compute or ApplyNewActivity; callers treat it as a
// read-only snapshot.
type State struct {
	UserID         uuid.UUID  `json:"user_id"`
	CurrentStreak  int        `json:"current_streak"`
	LongestStreak  int        `json:"longest_streak"`
	LastActiveDate *time.Time `json:"last_active_date,omitempty"`
	UpdatedAt      time.Time  `json:"updated_at"`
}

// Totals is the externally visible streak pair.
type Totals struct {
	CurrentStreak int `json:"current_streak"`
	LongestStreak int `json:"longest_streak"`
}

// TotalsAt projects the cached state onto an evaluation day. A cached current
// streak only counts while its last active date is today or yesterday; once
// two days have been missed it reads as zero, without rewriting the cache.
func (s State) TotalsAt(today time.Time) Totals {
	current := s.CurrentStreak
	if s.LastActiveDate == nil || DaysBetween(*s.LastActiveDate, today) > 1 {
		current = 0
	}
	return Totals{CurrentStreak: current, LongestStreak: s.LongestStreak}
}

// Compute derives streak totals from a full activity history. activeDays must
// be ascending and deduplicated (the normalizer's output). The trailing run
// only counts as the current streak while it ends on today or yesterday; the
// one-day grace period keeps a streak alive until two consecutive days have
// been missed. Pure and idempotent.
func Compute(activeDays []time.Time, today time.Time) Totals {
	if len(activeDays) == 0 {
		return Totals{}
	}

	longest := 1
	run := 1
	for i := 1; i < len(activeDays); i++ {
		if DaysBetween(activeDays[i-1], activeDays[i]) == 1 {
			run++
		} else {
			run = 1
		}
		if run > longest {
			longest = run
		}
	}

	current := run
	if DaysBetween(activeDays[len(activeDays)-1], today) > 1 {
		current = 0
	}

	return Totals{CurrentStreak: current, LongestStreak: longest}
}

// ApplyNewActivity advances a streak state by a single new active day without
// rescanning history. The input state is not modified; the returned state is
// a fully consistent replacement. Out-of-order days (backfill) return
// ErrOutOfOrderActivity and the caller must recompute from the full history —
// applying them incrementally would corrupt the longest streak.
func ApplyNewActivity(state *State, newDay, today time.Time) (*State, error) {
	if newDay.After(today) {
		return nil, ErrInvalidTimestamp
	}

	next := *state
	next.UpdatedAt = time.Now()

	if state.LastActiveDate == nil {
		next.CurrentStreak = 1
		d := newDay
		next.LastActiveDate = &d
		if next.LongestStreak < 1 {
			next.LongestStreak = 1
		}
		return &next, nil
	}

	switch gap := DaysBetween(*state.LastActiveDate, newDay); {
	case gap == 0:
		// Already counted today.
		return &next, nil
	case gap == 1:
		next.CurrentStreak = state.CurrentStreak + 1
		if next.CurrentStreak > next.LongestStreak {
			next.LongestStreak = next.CurrentStreak
		}
	case gap > 1:
		next.CurrentStreak = 1
	default:
		return nil, ErrOutOfOrderActivity
	}

	d := newDay
	next.LastActiveDate = &d
	return &next, nil
}
