package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/lichiahui/lifelog/internal/constants"
	"github.com/lichiahui/lifelog/internal/storage"
	"github.com/lichiahui/lifelog/internal/tui/chat"
)

// basePrompt carries the companion persona plus the placeholders the prompt
// builder fills with recent data before every conversation.
const basePrompt = `You are a creative, encouraging companion. You know the user's
habits and plans and help them get through the day in a relaxed but disciplined
way, gently nudging them about rest, health, and open tasks.

{{mood}}
{{habits}}
{{schedule}}

The current time is {{now}}. Keep replies short and warm.`

// promptDataDays is how many recent days of data get summarized into the prompt.
const promptDataDays = 3

type ChatCmd struct {
	Clear ChatClearCmd `cmd:"" help:"Delete the stored conversation."`

	Open ChatOpenCmd `cmd:"" default:"1" help:"Open the chat window."`
}

type ChatOpenCmd struct{}

func (c *ChatOpenCmd) Run(ctx *Context) error {
	responder, err := ctx.NewResponder()
	if err != nil {
		return err
	}

	prompt, err := BuildSystemPrompt(ctx.Store, time.Now())
	if err != nil {
		return err
	}

	return chat.Run(ctx.Store, responder, prompt)
}

type ChatClearCmd struct{}

func (c *ChatClearCmd) Run(ctx *Context) error {
	ctx.PerformAutomaticSnapshot()
	if err := ctx.Store.ClearChatHistory(); err != nil {
		return err
	}
	fmt.Println("Chat history cleared.")
	return nil
}

// BuildSystemPrompt substitutes the data placeholders in the base prompt with
// summaries of the last few days of moods, habits, and scheduled tasks.
func BuildSystemPrompt(store storage.Provider, now time.Time) (string, error) {
	days := make([]string, promptDataDays)
	for i := range days {
		days[i] = now.AddDate(0, 0, -i).Format(constants.DateFormat)
	}
	from := days[len(days)-1]
	to := days[0]

	prompt := basePrompt
	prompt = strings.ReplaceAll(prompt, "{{now}}", now.Format(constants.DateTimeFormat))

	if strings.Contains(prompt, "{{mood}}") {
		report, err := moodReport(store, days, from, to)
		if err != nil {
			return "", err
		}
		prompt = strings.ReplaceAll(prompt, "{{mood}}", report)
	}
	if strings.Contains(prompt, "{{habits}}") {
		report, err := habitReport(store, days)
		if err != nil {
			return "", err
		}
		prompt = strings.ReplaceAll(prompt, "{{habits}}", report)
	}
	if strings.Contains(prompt, "{{schedule}}") {
		report, err := scheduleReport(store, days)
		if err != nil {
			return "", err
		}
		prompt = strings.ReplaceAll(prompt, "{{schedule}}", report)
	}

	return prompt, nil
}

func moodReport(store storage.Provider, days []string, from, to string) (string, error) {
	entries, err := store.GetMoodsInRange(from, to)
	if err != nil {
		return "", err
	}

	var b strings.Builder
	b.WriteString("Recent mood entries:\n")
	found := false
	for _, day := range days {
		wroteDay := false
		for _, entry := range entries {
			if entry.Date != day {
				continue
			}
			if !wroteDay {
				fmt.Fprintf(&b, "[%s]: ", day)
				wroteDay = true
				found = true
			}
			fmt.Fprintf(&b, "%s mood [%s], note %q. ", entry.Type, strings.Join(entry.Moods, ", "), entry.Content)
		}
		if wroteDay {
			b.WriteString("\n")
		}
	}
	if !found {
		fmt.Fprintf(&b, "No mood entries in the last %d days.\n", len(days))
	}
	return b.String(), nil
}

func habitReport(store storage.Provider, days []string) (string, error) {
	habits, err := store.GetAllHabits()
	if err != nil {
		return "", err
	}

	var b strings.Builder
	b.WriteString("Recent habit check-ins:\n")
	if len(habits) == 0 {
		b.WriteString("No habits configured.\n")
		return b.String(), nil
	}
	for _, day := range days {
		fmt.Fprintf(&b, "[%s]: ", day)
		parts := make([]string, len(habits))
		for i, habit := range habits {
			mark := "missed"
			if habit.CheckedInOn(day) {
				mark = "done"
			}
			parts[i] = fmt.Sprintf("%q (%s)", habit.Name, mark)
		}
		b.WriteString(strings.Join(parts, ", "))
		b.WriteString("\n")
	}
	return b.String(), nil
}

func scheduleReport(store storage.Provider, days []string) (string, error) {
	var b strings.Builder
	b.WriteString("Recent schedule:\n")
	found := false
	for _, day := range days {
		tasks, err := store.GetTasksOn(day)
		if err != nil {
			return "", err
		}
		if len(tasks) == 0 {
			continue
		}
		found = true
		fmt.Fprintf(&b, "[%s]:\n", day)
		for _, task := range tasks {
			status := "open"
			if task.Completed {
				status = "completed"
			}
			fmt.Fprintf(&b, "  - %s %s [%s] (%s)\n", task.Time, task.Content, task.Quadrant, status)
		}
	}
	if !found {
		fmt.Fprintf(&b, "No scheduled tasks in the last %d days.\n", len(days))
	}
	return b.String(), nil
}
