package scoring

import (
	"testing"
	"time"

	"github.com/lichiahui/lifelog/internal/models"
)

func moodEntry(date string, tags ...string) models.MoodEntry {
	return models.MoodEntry{
		ID:    date,
		Date:  date,
		Type:  models.MoodMorning,
		Moods: tags,
	}
}

func TestMoodIndex(t *testing.T) {
	entries := []models.MoodEntry{
		moodEntry("2026-03-01", "happy", "calm"),     // 5 + 3
		moodEntry("2026-03-02", "tired"),             // 1
		moodEntry("2026-03-05", "mysterious"),        // unknown tag counts as 0
		moodEntry("2026-04-01", "happy"),             // out of range
	}

	got, ok := MoodIndex(entries, "2026-03-01", "2026-03-31")
	if !ok {
		t.Fatal("MoodIndex reported no data for a populated range")
	}
	want := 9.0 / 4.0
	if got != want {
		t.Errorf("MoodIndex = %v, want %v", got, want)
	}
}

func TestMoodIndexNoData(t *testing.T) {
	t.Run("empty slice", func(t *testing.T) {
		if _, ok := MoodIndex(nil, "2026-03-01", "2026-03-31"); ok {
			t.Error("MoodIndex on nil entries reported data")
		}
	})

	t.Run("entries outside range", func(t *testing.T) {
		entries := []models.MoodEntry{moodEntry("2026-02-01", "happy")}
		if _, ok := MoodIndex(entries, "2026-03-01", "2026-03-31"); ok {
			t.Error("MoodIndex reported data for out-of-range entries")
		}
	})

	t.Run("entry with no tags", func(t *testing.T) {
		entries := []models.MoodEntry{moodEntry("2026-03-10")}
		if _, ok := MoodIndex(entries, "2026-03-01", "2026-03-31"); ok {
			t.Error("MoodIndex reported data for a tagless entry")
		}
	})
}

func task(id, date string, q models.Quadrant, completed bool) models.Task {
	return models.Task{
		ID:        id,
		Date:      date,
		Content:   "task " + id,
		Quadrant:  q,
		Completed: completed,
	}
}

func TestTaskScore(t *testing.T) {
	tasks := []models.Task{
		task("1", "2026-03-01", models.QuadrantA, true),  // 4
		task("2", "2026-03-01", models.QuadrantB, false), // possible 3
		task("3", "2026-03-02", models.QuadrantD, true),  // 1
		task("4", "2026-04-09", models.QuadrantA, true),  // out of range
	}

	earned, possible := TaskScore(tasks, "2026-03-01", "2026-03-31")
	if earned != 5 {
		t.Errorf("earned = %d, want 5", earned)
	}
	if possible != 8 {
		t.Errorf("possible = %d, want 8", possible)
	}
}

func TestTaskScoreIdempotent(t *testing.T) {
	tasks := []models.Task{
		task("1", "2026-03-01", models.QuadrantA, true),
		task("2", "2026-03-01", models.QuadrantC, true),
	}

	e1, p1 := TaskScore(tasks, "2026-03-01", "2026-03-31")
	e2, p2 := TaskScore(tasks, "2026-03-01", "2026-03-31")
	if e1 != e2 || p1 != p2 {
		t.Errorf("TaskScore not idempotent: (%d,%d) vs (%d,%d)", e1, p1, e2, p2)
	}

	// Toggling one task changes only its own contribution.
	tasks[1].Completed = false
	e3, p3 := TaskScore(tasks, "2026-03-01", "2026-03-31")
	if e3 != e1-models.QuadrantC.Weight() {
		t.Errorf("earned after toggle = %d, want %d", e3, e1-models.QuadrantC.Weight())
	}
	if p3 != p1 {
		t.Errorf("possible changed on completion toggle: %d vs %d", p3, p1)
	}
}

func TestOpenImportantTasks(t *testing.T) {
	tasks := []models.Task{
		task("1", "2026-03-01", models.QuadrantA, false),
		task("2", "2026-03-01", models.QuadrantB, false),
		task("3", "2026-03-01", models.QuadrantC, false), // not important
		task("4", "2026-03-01", models.QuadrantA, true),  // done
	}

	if got := OpenImportantTasks(tasks, "2026-03-01", "2026-03-01"); got != 2 {
		t.Errorf("OpenImportantTasks = %d, want 2", got)
	}
}

func TestCompletionRates(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	rangeStart := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)

	old := models.Habit{ID: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC).UnixMilli(), Name: "read"}
	for d := 1; d <= 5; d++ {
		old.CheckIns = append(old.CheckIns, time.Date(2026, 3, d, 8, 0, 0, 0, time.UTC).UnixMilli())
	}

	// Created mid-range: only 3 days of existence, 3 check-ins.
	young := models.Habit{ID: time.Date(2026, 3, 8, 0, 0, 0, 0, time.UTC).UnixMilli(), Name: "run"}
	for d := 8; d <= 10; d++ {
		young.CheckIns = append(young.CheckIns, time.Date(2026, 3, d, 8, 0, 0, 0, time.UTC).UnixMilli())
	}

	rates := CompletionRates([]models.Habit{old, young}, rangeStart, 10, now)
	if len(rates) != 2 {
		t.Fatalf("got %d rates, want 2", len(rates))
	}

	if rates[0].Percent != 50 {
		t.Errorf("old habit rate = %d%%, want 50%%", rates[0].Percent)
	}
	if rates[1].Percent != 100 {
		t.Errorf("young habit rate = %d%%, want 100%%", rates[1].Percent)
	}
}

func TestCompletionRatesNeverDividesByZero(t *testing.T) {
	now := time.Date(2026, 3, 1, 0, 0, 1, 0, time.UTC)
	h := models.Habit{ID: now.UnixMilli(), Name: "new"}

	rates := CompletionRates([]models.Habit{h}, now, 0, now)
	if len(rates) != 1 {
		t.Fatalf("got %d rates, want 1", len(rates))
	}
	if rates[0].Percent != 0 {
		t.Errorf("rate = %d%%, want 0%%", rates[0].Percent)
	}
}

func TestMonthlyTitle(t *testing.T) {
	tests := []struct {
		score int
		want  string
	}{
		{0, "couch potato"},
		{79, "couch potato"},
		{80, "slowly lighting up"},
		{151, "willpower practitioner"},
		{251, "time management master"},
		{381, "rich in hours now"},
		{551, "steamroller that stops time"},
		{800, "excellent, now you get ice cream"},
		{5000, "excellent, now you get ice cream"},
	}

	for _, tt := range tests {
		if got := MonthlyTitle(tt.score); got != tt.want {
			t.Errorf("MonthlyTitle(%d) = %q, want %q", tt.score, got, tt.want)
		}
	}
}
