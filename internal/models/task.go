package models

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Quadrant is the Eisenhower urgency/importance class of a task.
type Quadrant string

const (
	QuadrantA Quadrant = "A" // urgent and important
	QuadrantB Quadrant = "B" // important, not urgent
	QuadrantC Quadrant = "C" // urgent, not important
	QuadrantD Quadrant = "D" // neither
)

func (q Quadrant) Valid() bool {
	switch q {
	case QuadrantA, QuadrantB, QuadrantC, QuadrantD:
		return true
	}
	return false
}

// Weight is the fixed score contribution of a completed task in this quadrant.
func (q Quadrant) Weight() int {
	switch q {
	case QuadrantA:
		return 4
	case QuadrantB:
		return 3
	case QuadrantC:
		return 2
	case QuadrantD:
		return 1
	}
	return 0
}

type Task struct {
	ID          string   `json:"id"`
	Date        string   `json:"date"`
	Time        string   `json:"time"` // 12-hour display format, e.g. "2:30 PM"
	DurationMin int      `json:"duration"`
	Content     string   `json:"content"`
	Quadrant    Quadrant `json:"quadrant"`
	Completed   bool     `json:"completed"`
}

// NewTask builds a task with a timestamp id. offset disambiguates ids when a
// batch of recurring tasks is created in the same millisecond.
func NewTask(now time.Time, offset int, date, displayTime string, durationMin int, content string, quadrant Quadrant) Task {
	id := strconv.FormatInt(now.UnixMilli(), 10)
	if offset > 0 {
		id = fmt.Sprintf("%d+%d", now.UnixMilli(), offset)
	}
	return Task{
		ID:          id,
		Date:        date,
		Time:        displayTime,
		DurationMin: durationMin,
		Content:     content,
		Quadrant:    quadrant,
	}
}

// SortKey converts the 12-hour display time to a 24-hour key so tasks order
// correctly within a day. Unparseable times sort first.
func (t Task) SortKey() string {
	parsed, err := time.Parse("3:04 PM", strings.ToUpper(strings.TrimSpace(t.Time)))
	if err != nil {
		return "00:00"
	}
	return parsed.Format("15:04")
}
