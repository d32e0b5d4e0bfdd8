package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/lichiahui/lifelog/internal/ai"
	"github.com/lichiahui/lifelog/internal/backup"
	"github.com/lichiahui/lifelog/internal/constants"
	"github.com/lichiahui/lifelog/internal/keyring"
	"github.com/lichiahui/lifelog/internal/logger"
	"github.com/lichiahui/lifelog/internal/storage"
	"github.com/lichiahui/lifelog/internal/trigger"
)

type Context struct {
	Store storage.Provider
}

// Today returns the current local calendar day.
func Today() string {
	return time.Now().Format(constants.DateFormat)
}

// PerformAutomaticSnapshot snapshots the database and silently handles errors
func (c *Context) PerformAutomaticSnapshot() {
	mgr := backup.NewManager(c.Store.GetConfigPath())
	if _, err := mgr.CreateSnapshot(); err != nil {
		logger.Warn("Automatic snapshot failed", "error", err)
	}
}

// NewResponder builds the AI client from the stored model and the keyring
// API key. Returns keyring.ErrNotFound when no key has been stored.
func (c *Context) NewResponder() (trigger.Responder, error) {
	settings, err := c.Store.GetSettings()
	if err != nil {
		return nil, err
	}
	model := settings.Model
	if model == "" {
		model = constants.DefaultModel
	}

	apiKey, err := keyring.GetAPIKey()
	if err != nil {
		return nil, err
	}

	return ai.New(model, apiKey), nil
}

// EvaluateTriggers runs the proactive rules for the event. Best effort: a
// missing API key or disabled notifications skips evaluation without
// interrupting the command that caused the event.
func (c *Context) EvaluateTriggers(ev trigger.Event) {
	settings, err := c.Store.GetSettings()
	if err != nil || !settings.NotificationsEnabled {
		return
	}

	responder, err := c.NewResponder()
	if err != nil {
		logger.Debug("Skipping trigger evaluation", "reason", err)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	trigger.New(c.Store, responder).Evaluate(ctx, ev)
}

// ParseDay validates a YYYY-MM-DD argument, defaulting empty to today.
func ParseDay(s string) (string, error) {
	if s == "" {
		return Today(), nil
	}
	if _, err := time.Parse(constants.DateFormat, s); err != nil {
		return "", fmt.Errorf("invalid date format: %s (expected YYYY-MM-DD)", s)
	}
	return s, nil
}

// MonthRange returns the first and last day of the month containing day.
func MonthRange(day string) (string, string, error) {
	t, err := time.Parse(constants.DateFormat, day)
	if err != nil {
		return "", "", fmt.Errorf("invalid date format: %s (expected YYYY-MM-DD)", day)
	}
	first := time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location())
	last := first.AddDate(0, 1, -1)
	return first.Format(constants.DateFormat), last.Format(constants.DateFormat), nil
}
