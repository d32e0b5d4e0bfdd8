// Package attendance implements the punch-clock state machine. Punches always
// append to the audit log; the current status is the guarded, derived state.
package attendance

import (
	"errors"
	"fmt"
	"time"

	"github.com/lichiahui/lifelog/internal/constants"
	apperrors "github.com/lichiahui/lifelog/internal/errors"
	"github.com/lichiahui/lifelog/internal/logger"
	"github.com/lichiahui/lifelog/internal/models"
	"github.com/lichiahui/lifelog/internal/storage"
)

type Status string

const (
	StatusIdle    Status = "idle"
	StatusWorking Status = "working"
	StatusBreak   Status = "break"
)

// CancelFunc stops a pending reminder. Safe to call more than once.
type CancelFunc func()

// TimerFunc schedules f after d and returns a cancel handle. The default is
// time.AfterFunc; tests substitute a capturing fake.
type TimerFunc func(d time.Duration, f func()) CancelFunc

// NotifyFunc delivers a reminder to the user.
type NotifyFunc func(title, body string)

type Machine struct {
	store  storage.Provider
	now    func() time.Time
	timer  TimerFunc
	notify NotifyFunc

	status     Status
	workStart  *time.Time
	breakStart *time.Time

	cancelWorkReminder  CancelFunc
	cancelBreakReminder CancelFunc
}

type Option func(*Machine)

func WithClock(now func() time.Time) Option {
	return func(m *Machine) { m.now = now }
}

func WithTimer(timer TimerFunc) Option {
	return func(m *Machine) { m.timer = timer }
}

func WithNotifier(notify NotifyFunc) Option {
	return func(m *Machine) { m.notify = notify }
}

func New(store storage.Provider, opts ...Option) *Machine {
	m := &Machine{
		store:  store,
		now:    time.Now,
		status: StatusIdle,
		timer: func(d time.Duration, f func()) CancelFunc {
			t := time.AfterFunc(d, f)
			return func() { t.Stop() }
		},
		notify: func(title, body string) {
			logger.Info("Reminder", "title", title, "body", body)
		},
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Restore loads the persisted status and recomputes pending reminders from
// the stored start times. A reminder whose remaining time is already spent is
// not replayed.
func (m *Machine) Restore() error {
	var state models.AttendanceState
	if err := m.store.GetState(storage.StateKeyAttendance, &state); err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil
		}
		return err
	}

	m.status = Status(state.Status)
	if m.status != StatusWorking && m.status != StatusBreak {
		m.status = StatusIdle
	}
	if state.WorkStartTime != nil {
		t := time.UnixMilli(*state.WorkStartTime)
		m.workStart = &t
	}
	if state.BreakStartTime != nil {
		t := time.UnixMilli(*state.BreakStartTime)
		m.breakStart = &t
	}

	settings, err := m.store.GetSettings()
	if err != nil {
		return err
	}

	// The work-end reminder stays pending through a break, so it is restored
	// for both the working and break states.
	if (m.status == StatusWorking || m.status == StatusBreak) && m.workStart != nil {
		remaining := time.Duration(settings.WorkHours)*time.Hour - m.now().Sub(*m.workStart)
		if remaining > 0 {
			m.scheduleWorkReminder(remaining, settings.WorkHours)
		}
	}
	if m.status == StatusBreak && m.breakStart != nil {
		remaining := time.Duration(settings.BreakMinutes)*time.Minute - m.now().Sub(*m.breakStart)
		if remaining > 0 {
			m.scheduleBreakReminder(remaining, settings.BreakMinutes)
		}
	}

	return nil
}

// Punch records the action and applies the matching transition. The record
// log is an unconditional audit trail: a punch that does not match a legal
// transition is still appended, it just leaves the status untouched.
func (m *Machine) Punch(punchType models.PunchType) error {
	if !punchType.Valid() {
		return fmt.Errorf("%w: unknown punch type %q", apperrors.ErrValidation, string(punchType))
	}

	now := m.now()
	if err := m.store.AppendPunch(models.NewPunchRecord(punchType, now)); err != nil {
		return err
	}

	settings, err := m.store.GetSettings()
	if err != nil {
		return err
	}

	switch {
	case punchType == models.PunchWorkIn && m.status == StatusIdle:
		m.status = StatusWorking
		m.workStart = &now
		m.scheduleWorkReminder(time.Duration(settings.WorkHours)*time.Hour, settings.WorkHours)

	case punchType == models.PunchWorkOut && m.status == StatusWorking:
		elapsed := now.Sub(*m.workStart)
		record := models.WorkTimeRecord{
			Date:       now.Format(constants.DateFormat),
			DurationMs: elapsed.Milliseconds(),
		}
		if err := m.store.AppendWorkTime(record); err != nil {
			logger.Warn("Failed to store work time record", "error", err)
		}
		m.status = StatusIdle
		m.workStart = nil
		m.clearReminders()

	case punchType == models.PunchBreakStart && m.status == StatusWorking:
		m.status = StatusBreak
		m.breakStart = &now
		m.scheduleBreakReminder(time.Duration(settings.BreakMinutes)*time.Minute, settings.BreakMinutes)

	case punchType == models.PunchBreakEnd && m.status == StatusBreak:
		m.status = StatusWorking
		m.breakStart = nil
		if m.cancelBreakReminder != nil {
			m.cancelBreakReminder()
			m.cancelBreakReminder = nil
		}

	default:
		logger.Info("Punch did not match a transition", "type", punchType, "status", m.status)
		return nil
	}

	return m.persistStatus()
}

func (m *Machine) scheduleWorkReminder(after time.Duration, workHours int) {
	if m.cancelWorkReminder != nil {
		m.cancelWorkReminder()
	}
	m.cancelWorkReminder = m.timer(after, func() {
		m.notify("Time to clock out", fmt.Sprintf("You have been working for %d hours. Time to wrap up!", workHours))
	})
}

func (m *Machine) scheduleBreakReminder(after time.Duration, breakMinutes int) {
	if m.cancelBreakReminder != nil {
		m.cancelBreakReminder()
	}
	m.cancelBreakReminder = m.timer(after, func() {
		m.notify("Break is over", fmt.Sprintf("Your %d-minute break has ended. Back to it!", breakMinutes))
	})
}

func (m *Machine) clearReminders() {
	if m.cancelWorkReminder != nil {
		m.cancelWorkReminder()
		m.cancelWorkReminder = nil
	}
	if m.cancelBreakReminder != nil {
		m.cancelBreakReminder()
		m.cancelBreakReminder = nil
	}
}

func (m *Machine) persistStatus() error {
	state := models.AttendanceState{Status: string(m.status)}
	if m.workStart != nil {
		ms := m.workStart.UnixMilli()
		state.WorkStartTime = &ms
	}
	if m.breakStart != nil {
		ms := m.breakStart.UnixMilli()
		state.BreakStartTime = &ms
	}
	return m.store.SetState(storage.StateKeyAttendance, state)
}

func (m *Machine) Status() Status {
	return m.status
}

// WorkElapsed returns time spent in the current working stretch; zero when
// not working.
func (m *Machine) WorkElapsed() time.Duration {
	if m.status != StatusWorking || m.workStart == nil {
		return 0
	}
	return m.now().Sub(*m.workStart)
}

// BreakElapsed returns time spent in the current break; zero when not on one.
func (m *Machine) BreakElapsed() time.Duration {
	if m.status != StatusBreak || m.breakStart == nil {
		return 0
	}
	return m.now().Sub(*m.breakStart)
}

// FormatDuration renders a duration the way the status display shows it.
func FormatDuration(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	h := int(d.Hours())
	min := int(d.Minutes()) % 60
	if h == 0 {
		return fmt.Sprintf("%d min", min)
	}
	return fmt.Sprintf("%d h %d min", h, min)
}
