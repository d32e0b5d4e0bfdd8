package trigger

import (
	"fmt"
	"strings"

	"github.com/lichiahui/lifelog/internal/constants"
	"github.com/lichiahui/lifelog/internal/milestone"
	"github.com/lichiahui/lifelog/internal/models"
)

// Snapshot holds today's derived aggregates, computed once per Evaluate call
// and shared by every rule.
type Snapshot struct {
	Hour                int
	TaskScore           int
	OpenImportantTasks  int
	CompletedHabitNames []string
	CheckedHabit        *models.Habit // the habit whose check-in raised the event
	MoodEntries         int
	MoodIndex           float64
	MoodIndexOK         bool
}

// Rule is one once-per-day-guarded condition. Rules are data; adding one
// means appending here, not scattering conditionals.
type Rule struct {
	ID      string
	Applies func(Snapshot) bool
	Prompt  func(Snapshot) string
}

var taskRules = []Rule{
	{
		ID: "taskScoreHigh20",
		Applies: func(s Snapshot) bool {
			return s.TaskScore >= 20
		},
		Prompt: func(s Snapshot) string {
			return fmt.Sprintf("[system] The user is on a productivity streak today with a total task score of %d. Congratulate them energetically, and gently remind them to take a break.", s.TaskScore)
		},
	},
	{
		ID: "taskRemindLate",
		Applies: func(s Snapshot) bool {
			return s.Hour >= constants.EveningReminderHour && s.OpenImportantTasks > 2
		},
		Prompt: func(s Snapshot) string {
			return fmt.Sprintf("[system] It is already evening and the user still has %d important tasks unfinished. Remind them in a gentle tone.", s.OpenImportantTasks)
		},
	},
}

var habitRules = []Rule{
	{
		ID: "habitMilestone3",
		Applies: func(s Snapshot) bool {
			// fires at the moment the third habit of the day is checked in
			return len(s.CompletedHabitNames) == 3
		},
		Prompt: func(s Snapshot) string {
			return fmt.Sprintf("[system] The user has shown real persistence: all 3 habits done today (%s). Praise them and encourage them to keep it up.", strings.Join(s.CompletedHabitNames, ", "))
		},
	},
}

// habitLevelUpRule is per-habit: the id embeds the habit id so each habit's
// level-up can fire independently on the same day.
func habitLevelUpRule(habit models.Habit) Rule {
	return Rule{
		ID: fmt.Sprintf("habitLevelUp_%d", habit.ID),
		Applies: func(s Snapshot) bool {
			count := len(habit.CheckIns)
			return milestone.For(count).Level > milestone.For(count-1).Level
		},
		Prompt: func(s Snapshot) string {
			m := milestone.For(len(habit.CheckIns))
			return fmt.Sprintf("[system] The user's habit %q just leveled up to Lv.%d - %s! Congratulate them on their effort and persistence.", habit.Name, m.Level, m.Name)
		},
	}
}

var moodRules = []Rule{
	{
		ID: "moodHigh",
		Applies: func(s Snapshot) bool {
			return s.MoodEntries >= 2 && s.MoodIndexOK && s.MoodIndex >= 4.5
		},
		Prompt: func(s Snapshot) string {
			return fmt.Sprintf("[system] The user's mood index today is a wonderful %.1f. What a great day. Share in the joy and celebrate with them.", s.MoodIndex)
		},
	},
	{
		ID: "moodLow",
		Applies: func(s Snapshot) bool {
			return s.MoodEntries >= 2 && s.MoodIndexOK && s.MoodIndex <= 2.0
		},
		Prompt: func(s Snapshot) string {
			return fmt.Sprintf("[system] The user's mood index today is low, only %.1f. Check in on them with warmth, suggest something calming (deep breaths, music, a walk), and do not pry.", s.MoodIndex)
		},
	},
}
