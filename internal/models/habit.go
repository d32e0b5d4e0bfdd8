package models

import (
	"time"

	apperrors "github.com/lichiahui/lifelog/internal/errors"
)

// Habit tracks a recurring behavior. ID is the creation time in unix
// milliseconds, which doubles as the creation-date marker for completion-rate
// calculations. CheckIns holds one unix-millisecond timestamp per completed
// day, append-only except for same-day undo.
type Habit struct {
	ID       int64   `json:"id"`
	Name     string  `json:"name"`
	CheckIns []int64 `json:"checkIns"`
}

func NewHabit(name string, now time.Time) Habit {
	return Habit{
		ID:       now.UnixMilli(),
		Name:     name,
		CheckIns: []int64{},
	}
}

func (h Habit) CreatedAt() time.Time {
	return time.UnixMilli(h.ID)
}

// CheckedInOn reports whether the habit has a check-in on the given local
// calendar day (YYYY-MM-DD).
func (h Habit) CheckedInOn(day string) bool {
	for _, ts := range h.CheckIns {
		if time.UnixMilli(ts).Local().Format("2006-01-02") == day {
			return true
		}
	}
	return false
}

// CheckIn appends today's check-in. At most one check-in per calendar day is
// accepted; a second attempt returns ErrAlreadyCheckedIn and leaves the
// sequence unchanged.
func (h *Habit) CheckIn(now time.Time) error {
	if h.CheckedInOn(now.Local().Format("2006-01-02")) {
		return apperrors.ErrAlreadyCheckedIn
	}
	h.CheckIns = append(h.CheckIns, now.UnixMilli())
	return nil
}

// UndoCheckIn removes today's check-in, if any, and reports whether one was
// removed. Past days are immutable.
func (h *Habit) UndoCheckIn(now time.Time) bool {
	day := now.Local().Format("2006-01-02")
	for i := len(h.CheckIns) - 1; i >= 0; i-- {
		if time.UnixMilli(h.CheckIns[i]).Local().Format("2006-01-02") == day {
			h.CheckIns = append(h.CheckIns[:i], h.CheckIns[i+1:]...)
			return true
		}
	}
	return false
}

// CheckInsSince counts check-ins at or after the given instant.
func (h Habit) CheckInsSince(t time.Time) int {
	n := 0
	cutoff := t.UnixMilli()
	for _, ts := range h.CheckIns {
		if ts >= cutoff {
			n++
		}
	}
	return n
}
