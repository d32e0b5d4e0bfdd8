package trigger

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/lichiahui/lifelog/internal/models"
	"github.com/lichiahui/lifelog/internal/storage"
)

type fakeResponder struct {
	prompts []string
	err     error
}

func (f *fakeResponder) Respond(ctx context.Context, systemPrompt string, history []models.ChatMessage, attachment *models.Attachment) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	f.prompts = append(f.prompts, systemPrompt)
	return "ok", nil
}

func (f *fakeResponder) count(substr string) int {
	n := 0
	for _, p := range f.prompts {
		if strings.Contains(p, substr) {
			n++
		}
	}
	return n
}

func newTestStore(t *testing.T) *storage.Store {
	t.Helper()
	store := storage.NewStore(filepath.Join(t.TempDir(), "test.db"))
	if err := store.Init(); err != nil {
		t.Fatalf("failed to init test store: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func addTask(t *testing.T, store *storage.Store, id, date string, q models.Quadrant, completed bool) {
	t.Helper()
	err := store.AddTask(models.Task{
		ID:        id,
		Date:      date,
		Time:      "9:00 AM",
		Content:   "task " + id,
		Quadrant:  q,
		Completed: completed,
	})
	if err != nil {
		t.Fatalf("failed to add task: %v", err)
	}
}

func TestTaskScoreHighOncePerDay(t *testing.T) {
	store := newTestStore(t)
	responder := &fakeResponder{}

	now := time.Date(2026, 3, 5, 14, 0, 0, 0, time.Local)
	engine := New(store, responder, WithNow(func() time.Time { return now }))

	day1 := now.Format("2006-01-02")
	for i := 0; i < 5; i++ {
		addTask(t, store, fmt.Sprintf("d1-%d", i), day1, models.QuadrantA, true) // 5*4 = 20
	}

	engine.Evaluate(context.Background(), Event{Kind: EventTaskStateChanged})
	engine.Evaluate(context.Background(), Event{Kind: EventTaskStateChanged})
	if got := responder.count("productivity streak"); got != 1 {
		t.Fatalf("taskScoreHigh20 fired %d times on day 1, want 1", got)
	}

	// Next day the rule re-arms.
	now = now.AddDate(0, 0, 1)
	day2 := now.Format("2006-01-02")
	for i := 0; i < 5; i++ {
		addTask(t, store, fmt.Sprintf("d2-%d", i), day2, models.QuadrantA, true)
	}

	engine.Evaluate(context.Background(), Event{Kind: EventTaskStateChanged})
	if got := responder.count("productivity streak"); got != 2 {
		t.Fatalf("taskScoreHigh20 fired %d times across two days, want 2", got)
	}
}

func TestTriggerMemorySurvivesRestart(t *testing.T) {
	store := newTestStore(t)
	responder := &fakeResponder{}

	now := time.Date(2026, 3, 5, 14, 0, 0, 0, time.Local)
	clock := func() time.Time { return now }

	engine := New(store, responder, WithNow(clock))
	if err := engine.RecordTrigger("taskScoreHigh20"); err != nil {
		t.Fatalf("RecordTrigger failed: %v", err)
	}

	// A fresh engine over the same store sees the persisted memory.
	engine2 := New(store, responder, WithNow(clock))
	if engine2.CanTrigger("taskScoreHigh20") {
		t.Error("rule re-armed after restart on the same day")
	}

	now = now.AddDate(0, 0, 1)
	if !engine2.CanTrigger("taskScoreHigh20") {
		t.Error("rule did not re-arm after day rollover")
	}
}

func TestNullTriggerMemoryTreatedAsEmpty(t *testing.T) {
	store := newTestStore(t)
	responder := &fakeResponder{}

	// A hand-edited import can leave a JSON null under the trigger key.
	if err := store.SetState(storage.StateKeyTriggers, nil); err != nil {
		t.Fatalf("SetState failed: %v", err)
	}

	now := time.Date(2026, 3, 5, 14, 0, 0, 0, time.Local)
	engine := New(store, responder, WithNow(func() time.Time { return now }))

	if !engine.CanTrigger("taskScoreHigh20") {
		t.Error("rule should be armed when the stored memory is null")
	}
	if err := engine.RecordTrigger("taskScoreHigh20"); err != nil {
		t.Fatalf("RecordTrigger failed on null memory: %v", err)
	}
	if engine.CanTrigger("taskScoreHigh20") {
		t.Error("rule still armed after recording")
	}
}

func TestTaskRemindLate(t *testing.T) {
	store := newTestStore(t)
	responder := &fakeResponder{}

	now := time.Date(2026, 3, 5, 20, 0, 0, 0, time.Local) // after 19:00
	engine := New(store, responder, WithNow(func() time.Time { return now }))

	day := now.Format("2006-01-02")
	addTask(t, store, "1", day, models.QuadrantA, false)
	addTask(t, store, "2", day, models.QuadrantB, false)
	addTask(t, store, "3", day, models.QuadrantB, false)

	engine.Evaluate(context.Background(), Event{Kind: EventTaskStateChanged})
	if got := responder.count("unfinished"); got != 1 {
		t.Fatalf("taskRemindLate fired %d times, want 1", got)
	}
}

func TestTaskRemindLateNotBeforeEvening(t *testing.T) {
	store := newTestStore(t)
	responder := &fakeResponder{}

	now := time.Date(2026, 3, 5, 10, 0, 0, 0, time.Local)
	engine := New(store, responder, WithNow(func() time.Time { return now }))

	day := now.Format("2006-01-02")
	for i := 0; i < 4; i++ {
		addTask(t, store, fmt.Sprintf("%d", i), day, models.QuadrantA, false)
	}

	engine.Evaluate(context.Background(), Event{Kind: EventTaskStateChanged})
	if got := responder.count("unfinished"); got != 0 {
		t.Fatalf("taskRemindLate fired %d times before evening, want 0", got)
	}
}

func checkInHabit(t *testing.T, store *storage.Store, h *models.Habit, now time.Time) {
	t.Helper()
	if err := h.CheckIn(now); err != nil {
		t.Fatalf("check-in failed: %v", err)
	}
	if err := store.UpdateHabit(*h); err != nil {
		t.Fatalf("failed to update habit: %v", err)
	}
}

func TestHabitLevelUpFiresExactlyOnce(t *testing.T) {
	store := newTestStore(t)
	responder := &fakeResponder{}

	now := time.Date(2026, 3, 5, 9, 0, 0, 0, time.Local)
	engine := New(store, responder, WithNow(func() time.Time { return now }))

	// 9 check-ins on previous days; the 10th crosses the level 0 -> 1 boundary.
	habit := models.NewHabit("meditate", now.AddDate(0, 0, -30))
	for d := 20; d >= 12; d-- {
		habit.CheckIns = append(habit.CheckIns, now.AddDate(0, 0, -d).UnixMilli())
	}
	checkInHabit(t, store, &habit, now)

	engine.Evaluate(context.Background(), Event{Kind: EventHabitCheckedIn, HabitID: habit.ID})
	if got := responder.count("leveled up"); got != 1 {
		t.Fatalf("habitLevelUp fired %d times, want 1", got)
	}

	// An unrelated habit checking in the same day must not refire it.
	other := models.NewHabit("stretch", now.AddDate(0, 0, -5))
	checkInHabit(t, store, &other, now)

	engine.Evaluate(context.Background(), Event{Kind: EventHabitCheckedIn, HabitID: other.ID})
	if got := responder.count("leveled up"); got != 1 {
		t.Fatalf("habitLevelUp fired %d times after unrelated check-in, want 1", got)
	}
}

func TestHabitMilestone3(t *testing.T) {
	store := newTestStore(t)
	responder := &fakeResponder{}

	now := time.Date(2026, 3, 5, 9, 0, 0, 0, time.Local)
	engine := New(store, responder, WithNow(func() time.Time { return now }))

	var habits []models.Habit
	for i, name := range []string{"read", "run", "write"} {
		h := models.NewHabit(name, now.AddDate(0, 0, -10-i))
		habits = append(habits, h)
	}

	// First two check-ins: rule must not fire.
	for i := 0; i < 2; i++ {
		checkInHabit(t, store, &habits[i], now)
		engine.Evaluate(context.Background(), Event{Kind: EventHabitCheckedIn, HabitID: habits[i].ID})
	}
	if got := responder.count("persistence"); got != 0 {
		t.Fatalf("habitMilestone3 fired %d times with 2 habits done, want 0", got)
	}

	// The third triggers it.
	checkInHabit(t, store, &habits[2], now)
	engine.Evaluate(context.Background(), Event{Kind: EventHabitCheckedIn, HabitID: habits[2].ID})
	if got := responder.count("persistence"); got != 1 {
		t.Fatalf("habitMilestone3 fired %d times with 3 habits done, want 1", got)
	}
}

func addMood(t *testing.T, store *storage.Store, now time.Time, tags ...string) {
	t.Helper()
	entry := models.NewMoodEntry(now, models.MoodMorning, tags, "entry")
	if err := store.AddMood(entry); err != nil {
		t.Fatalf("failed to add mood: %v", err)
	}
}

func TestMoodRules(t *testing.T) {
	t.Run("high", func(t *testing.T) {
		store := newTestStore(t)
		responder := &fakeResponder{}
		now := time.Date(2026, 3, 5, 9, 0, 0, 0, time.Local)
		engine := New(store, responder, WithNow(func() time.Time { return now }))

		addMood(t, store, now, "happy")
		addMood(t, store, now.Add(time.Minute), "happy", "grateful") // mean 14/3 = 4.67

		engine.Evaluate(context.Background(), Event{Kind: EventMoodEntrySaved})
		if got := responder.count("wonderful"); got != 1 {
			t.Fatalf("moodHigh fired %d times, want 1", got)
		}
	})

	t.Run("low", func(t *testing.T) {
		store := newTestStore(t)
		responder := &fakeResponder{}
		now := time.Date(2026, 3, 5, 9, 0, 0, 0, time.Local)
		engine := New(store, responder, WithNow(func() time.Time { return now }))

		addMood(t, store, now, "stressed")
		addMood(t, store, now.Add(time.Minute), "tired") // mean -0.5

		engine.Evaluate(context.Background(), Event{Kind: EventMoodEntrySaved})
		if got := responder.count("low"); got != 1 {
			t.Fatalf("moodLow fired %d times, want 1", got)
		}
	})

	t.Run("single entry never fires", func(t *testing.T) {
		store := newTestStore(t)
		responder := &fakeResponder{}
		now := time.Date(2026, 3, 5, 9, 0, 0, 0, time.Local)
		engine := New(store, responder, WithNow(func() time.Time { return now }))

		addMood(t, store, now, "happy")

		engine.Evaluate(context.Background(), Event{Kind: EventMoodEntrySaved})
		if len(responder.prompts) != 0 {
			t.Fatalf("mood rules fired with a single entry: %v", responder.prompts)
		}
	})
}

func TestResponderFailureLeavesRuleArmed(t *testing.T) {
	store := newTestStore(t)
	responder := &fakeResponder{err: fmt.Errorf("upstream down")}

	now := time.Date(2026, 3, 5, 14, 0, 0, 0, time.Local)
	engine := New(store, responder, WithNow(func() time.Time { return now }))

	day := now.Format("2006-01-02")
	for i := 0; i < 5; i++ {
		addTask(t, store, fmt.Sprintf("%d", i), day, models.QuadrantA, true)
	}

	engine.Evaluate(context.Background(), Event{Kind: EventTaskStateChanged})
	if !engine.CanTrigger("taskScoreHigh20") {
		t.Error("rule recorded as fired despite responder failure")
	}

	// Once the responder recovers the rule fires.
	responder.err = nil
	engine.Evaluate(context.Background(), Event{Kind: EventTaskStateChanged})
	if got := responder.count("productivity streak"); got != 1 {
		t.Fatalf("rule fired %d times after recovery, want 1", got)
	}
}
