// Package trigger evaluates behavioral threshold rules against today's
// entities and asks the AI responder for a proactive message when one fires.
// Each rule fires at most once per calendar day; the trigger memory is
// persisted in the appState collection so the guard survives restarts.
package trigger

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	apperrors "github.com/lichiahui/lifelog/internal/errors"
	"github.com/lichiahui/lifelog/internal/logger"
	"github.com/lichiahui/lifelog/internal/models"
	"github.com/lichiahui/lifelog/internal/scoring"
	"github.com/lichiahui/lifelog/internal/storage"
)

type EventKind string

const (
	EventTaskStateChanged EventKind = "task-state-changed"
	EventHabitCheckedIn   EventKind = "habit-checked-in"
	EventMoodEntrySaved   EventKind = "mood-entry-saved"
)

// Event describes one state change worth re-evaluating rules for.
type Event struct {
	Kind    EventKind
	HabitID int64 // set for EventHabitCheckedIn
}

// Responder is the external AI collaborator.
type Responder interface {
	Respond(ctx context.Context, systemPrompt string, history []models.ChatMessage, attachment *models.Attachment) (string, error)
}

// Engine is the stateful rule evaluator.
type Engine struct {
	store     storage.Provider
	responder Responder
	now       func() time.Time

	lastTriggered map[string]string
	loaded        bool
}

type Option func(*Engine)

// WithNow replaces the current-date provider, letting tests simulate day
// rollover deterministically.
func WithNow(now func() time.Time) Option {
	return func(e *Engine) {
		e.now = now
	}
}

func New(store storage.Provider, responder Responder, opts ...Option) *Engine {
	e := &Engine{
		store:         store,
		responder:     responder,
		now:           time.Now,
		lastTriggered: map[string]string{},
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

func (e *Engine) today() string {
	return e.now().Local().Format("2006-01-02")
}

func (e *Engine) load() {
	if e.loaded {
		return
	}
	e.loaded = true

	var saved map[string]string
	if err := e.store.GetState(storage.StateKeyTriggers, &saved); err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			logger.Warn("Failed to load trigger memory", "error", err)
		}
		return
	}
	// A stored JSON null unmarshals to a nil map; keep the empty one.
	if saved != nil {
		e.lastTriggered = saved
	}
}

// CanTrigger reports whether the rule is still armed today. The comparison is
// by calendar-day string, so the guard resets at local midnight.
func (e *Engine) CanTrigger(ruleID string) bool {
	e.load()
	return e.lastTriggered[ruleID] != e.today()
}

// RecordTrigger marks the rule fired for today and persists the whole memory
// map in one overwrite.
func (e *Engine) RecordTrigger(ruleID string) error {
	e.load()
	e.lastTriggered[ruleID] = e.today()
	return e.store.SetState(storage.StateKeyTriggers, e.lastTriggered)
}

// Evaluate re-reads the relevant repositories for the event kind and fires
// every satisfied, still-armed rule. Rules are independent: one failing or
// firing never blocks the others. Storage read failures degrade to an empty
// snapshot; they are logged, never surfaced.
func (e *Engine) Evaluate(ctx context.Context, ev Event) {
	snapshot, rules := e.prepare(ev)

	for _, rule := range rules {
		if !rule.Applies(snapshot) || !e.CanTrigger(rule.ID) {
			continue
		}

		logger.Info("Trigger rule fired", "rule", rule.ID)
		reply, err := e.responder.Respond(ctx, rule.Prompt(snapshot), nil, nil)
		if err != nil {
			logger.Warn("Proactive AI request failed", "rule", rule.ID, "error", err)
			continue
		}

		if err := e.store.AppendChatMessage(models.ChatMessage{
			ID:        uuid.New().String(),
			Role:      models.RoleAssistant,
			Content:   reply,
			Timestamp: e.now(),
		}); err != nil {
			logger.Warn("Failed to store proactive message", "rule", rule.ID, "error", err)
		}

		if err := e.RecordTrigger(rule.ID); err != nil {
			logger.Warn("Failed to persist trigger memory", "rule", rule.ID, "error", err)
		}
	}
}

func (e *Engine) prepare(ev Event) (Snapshot, []Rule) {
	now := e.now()
	today := e.today()
	snapshot := Snapshot{Hour: now.Local().Hour()}

	switch ev.Kind {
	case EventTaskStateChanged:
		tasks, err := e.store.GetTasksOn(today)
		if err != nil {
			logger.Warn("Failed to read tasks for trigger evaluation", "error", err)
			return snapshot, nil
		}
		snapshot.TaskScore, _ = scoring.TaskScore(tasks, today, today)
		snapshot.OpenImportantTasks = scoring.OpenImportantTasks(tasks, today, today)
		return snapshot, taskRules

	case EventHabitCheckedIn:
		habits, err := e.store.GetAllHabits()
		if err != nil {
			logger.Warn("Failed to read habits for trigger evaluation", "error", err)
			return snapshot, nil
		}
		for i, h := range habits {
			if h.CheckedInOn(today) {
				snapshot.CompletedHabitNames = append(snapshot.CompletedHabitNames, h.Name)
			}
			if h.ID == ev.HabitID {
				snapshot.CheckedHabit = &habits[i]
			}
		}
		rules := habitRules
		if snapshot.CheckedHabit != nil {
			rules = append(rules[:len(rules):len(rules)], habitLevelUpRule(*snapshot.CheckedHabit))
		}
		return snapshot, rules

	case EventMoodEntrySaved:
		moods, err := e.store.GetMoodsInRange(today, today)
		if err != nil {
			logger.Warn("Failed to read moods for trigger evaluation", "error", err)
			return snapshot, nil
		}
		snapshot.MoodEntries = scoring.MoodEntryCount(moods, today, today)
		snapshot.MoodIndex, snapshot.MoodIndexOK = scoring.MoodIndex(moods, today, today)
		return snapshot, moodRules
	}

	return snapshot, nil
}
