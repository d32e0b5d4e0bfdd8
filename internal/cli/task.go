package cli

import (
	"fmt"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/lichiahui/lifelog/internal/constants"
	"github.com/lichiahui/lifelog/internal/models"
	"github.com/lichiahui/lifelog/internal/scoring"
	"github.com/lichiahui/lifelog/internal/trigger"
)

var (
	doneStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	quadrantStyle = map[models.Quadrant]lipgloss.Style{
		models.QuadrantA: lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true),
		models.QuadrantB: lipgloss.NewStyle().Foreground(lipgloss.Color("214")),
		models.QuadrantC: lipgloss.NewStyle().Foreground(lipgloss.Color("39")),
		models.QuadrantD: lipgloss.NewStyle().Foreground(lipgloss.Color("240")),
	}
)

type TaskCmd struct {
	Add    TaskAddCmd    `cmd:"" help:"Add a scheduled task."`
	List   TaskListCmd   `cmd:"" help:"List tasks for a day."`
	Done   TaskDoneCmd   `cmd:"" help:"Toggle a task's completion."`
	Delete TaskDeleteCmd `cmd:"" help:"Delete a task."`
	Report TaskReportCmd `cmd:"" help:"Show the monthly score report."`
}

type TaskAddCmd struct {
	Content  string `arg:"" help:"What to do."`
	Date     string `help:"Day (YYYY-MM-DD, default: today)."`
	Time     string `help:"Start time, e.g. '2:30 PM'." default:"9:00 AM"`
	Duration int    `help:"Duration in minutes." default:"30"`
	Quadrant string `help:"Priority quadrant." default:"B" enum:"A,B,C,D"`
	Repeat   int    `help:"Also create the task for this many following days." default:"0"`
}

func (c *TaskAddCmd) Run(ctx *Context) error {
	day, err := ParseDay(c.Date)
	if err != nil {
		return err
	}

	start, err := time.Parse(constants.DateFormat, day)
	if err != nil {
		return err
	}

	now := time.Now()
	// A batch of repeats shares one creation instant; the offset keeps the
	// ids unique.
	for offset := 0; offset <= c.Repeat; offset++ {
		date := start.AddDate(0, 0, offset).Format(constants.DateFormat)
		task := models.NewTask(now, offset, date, c.Time, c.Duration, c.Content, models.Quadrant(c.Quadrant))
		if err := ctx.Store.AddTask(task); err != nil {
			return err
		}
	}

	if c.Repeat > 0 {
		fmt.Printf("Added %q for %d days starting %s\n", c.Content, c.Repeat+1, day)
	} else {
		fmt.Printf("Added %q on %s at %s\n", c.Content, day, c.Time)
	}
	return nil
}

type TaskListCmd struct {
	Date string `help:"Day to list (YYYY-MM-DD, default: today)."`
}

func (c *TaskListCmd) Run(ctx *Context) error {
	day, err := ParseDay(c.Date)
	if err != nil {
		return err
	}

	tasks, err := ctx.Store.GetTasksOn(day)
	if err != nil {
		return err
	}
	if len(tasks) == 0 {
		fmt.Printf("No tasks on %s.\n", day)
		return nil
	}

	fmt.Printf("Tasks for %s:\n\n", day)
	for _, task := range tasks {
		status := "[ ]"
		content := task.Content
		if task.Completed {
			status = doneStyle.Render("[x]")
			content = doneStyle.Render(content)
		}
		quadrant := quadrantStyle[task.Quadrant].Render(string(task.Quadrant))
		fmt.Printf("%s %8s  %s (%s, %d min)\n", status, task.Time, content, quadrant, task.DurationMin)
		fmt.Printf("    id: %s\n", task.ID)
	}

	earned, possible := scoring.TaskScore(tasks, day, day)
	fmt.Printf("\nScore: %d/%d\n", earned, possible)
	return nil
}

type TaskDoneCmd struct {
	ID string `arg:"" help:"Task id to toggle."`
}

func (c *TaskDoneCmd) Run(ctx *Context) error {
	task, err := ctx.Store.GetTask(c.ID)
	if err != nil {
		return err
	}

	task.Completed = !task.Completed
	if err := ctx.Store.UpdateTask(task); err != nil {
		return err
	}

	if task.Completed {
		fmt.Printf("Completed %q (+%d)\n", task.Content, task.Quadrant.Weight())
	} else {
		fmt.Printf("Reopened %q\n", task.Content)
	}

	ctx.EvaluateTriggers(trigger.Event{Kind: trigger.EventTaskStateChanged})
	return nil
}

type TaskDeleteCmd struct {
	ID string `arg:"" help:"Task id to delete."`
}

func (c *TaskDeleteCmd) Run(ctx *Context) error {
	task, err := ctx.Store.GetTask(c.ID)
	if err != nil {
		return err
	}
	if err := ctx.Store.DeleteTask(task.ID); err != nil {
		return err
	}
	fmt.Printf("Deleted %q\n", task.Content)
	return nil
}

type TaskReportCmd struct {
	Month string `help:"Any day inside the month to report (YYYY-MM-DD, default: today)."`
}

func (c *TaskReportCmd) Run(ctx *Context) error {
	day, err := ParseDay(c.Month)
	if err != nil {
		return err
	}
	first, last, err := MonthRange(day)
	if err != nil {
		return err
	}

	tasks, err := ctx.Store.GetTasksInRange(first, last)
	if err != nil {
		return err
	}
	moods, err := ctx.Store.GetMoodsInRange(first, last)
	if err != nil {
		return err
	}

	earned, possible := scoring.TaskScore(tasks, first, last)
	counts := scoring.QuadrantCounts(tasks, first, last)

	fmt.Printf("Report for %s:\n\n", first[:7])
	fmt.Printf("  Score: %d/%d\n", earned, possible)
	fmt.Printf("  Title: %s\n\n", scoring.MonthlyTitle(earned))

	fmt.Println("  Quadrant distribution:")
	for _, q := range []models.Quadrant{models.QuadrantA, models.QuadrantB, models.QuadrantC, models.QuadrantD} {
		fmt.Printf("    %s: %d\n", quadrantStyle[q].Render(string(q)), counts[q])
	}

	if index, ok := scoring.MoodIndex(moods, first, last); ok {
		fmt.Printf("\n  Mood index: %.1f over %d entries\n", index, scoring.MoodEntryCount(moods, first, last))
	} else {
		fmt.Println("\n  Mood index: no data")
	}
	return nil
}
