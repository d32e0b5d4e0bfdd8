package cli

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	apperrors "github.com/lichiahui/lifelog/internal/errors"
	"github.com/lichiahui/lifelog/internal/milestone"
	"github.com/lichiahui/lifelog/internal/models"
	"github.com/lichiahui/lifelog/internal/scoring"
	"github.com/lichiahui/lifelog/internal/trigger"
)

type HabitCmd struct {
	Add     HabitAddCmd     `cmd:"" help:"Add a new habit."`
	List    HabitListCmd    `cmd:"" help:"List habits with growth progress."`
	Checkin HabitCheckinCmd `cmd:"" help:"Check in a habit for today."`
	Undo    HabitUndoCmd    `cmd:"" help:"Undo today's check-in."`
	Delete  HabitDeleteCmd  `cmd:"" help:"Delete a habit."`
	Report  HabitReportCmd  `cmd:"" help:"Show completion rates over a period."`
}

type HabitAddCmd struct {
	Name string `arg:"" help:"Habit name."`
}

func (c *HabitAddCmd) Run(ctx *Context) error {
	for _, existing := range mustHabits(ctx) {
		if existing.Name == c.Name {
			return fmt.Errorf("habit %q already exists", c.Name)
		}
	}

	habit := models.NewHabit(c.Name, time.Now())
	if err := ctx.Store.AddHabit(habit); err != nil {
		return err
	}

	fmt.Printf("Added habit: %s\n", c.Name)
	return nil
}

type HabitListCmd struct{}

func (c *HabitListCmd) Run(ctx *Context) error {
	habits, err := ctx.Store.GetAllHabits()
	if err != nil {
		return err
	}

	if len(habits) == 0 {
		fmt.Println("No habits found.")
		return nil
	}

	today := Today()
	for _, habit := range habits {
		tier := milestone.For(len(habit.CheckIns))
		status := "[ ]"
		if habit.CheckedInOn(today) {
			status = "[x]"
		}
		fmt.Printf("%s %s\n", status, habit.Name)
		fmt.Printf("    %s  %s\n", renderMilestone(tier), habitNextLabel(tier, len(habit.CheckIns)))
	}
	return nil
}

// renderMilestone draws the tier name in its band color next to a progress
// bar toward the next tier.
func renderMilestone(tier milestone.Milestone) string {
	name := lipgloss.NewStyle().Foreground(lipgloss.Color(tier.Color)).Bold(true).Render(tier.Name)

	const barWidth = 20
	filled := tier.ProgressPercent * barWidth / 100
	if filled > barWidth {
		filled = barWidth
	}
	bar := strings.Repeat("█", filled) + strings.Repeat("░", barWidth-filled)
	return fmt.Sprintf("%-12s %s %3d%%", name, bar, tier.ProgressPercent)
}

func habitNextLabel(tier milestone.Milestone, count int) string {
	if tier.NextThreshold == milestone.NextInfinite {
		return fmt.Sprintf("%d check-ins", count)
	}
	return fmt.Sprintf("%d/%d check-ins", count, tier.NextThreshold)
}

type HabitCheckinCmd struct {
	Name string `arg:"" help:"Habit name."`
}

func (c *HabitCheckinCmd) Run(ctx *Context) error {
	habit, err := findHabit(ctx, c.Name)
	if err != nil {
		return err
	}

	if err := habit.CheckIn(time.Now()); err != nil {
		if errors.Is(err, apperrors.ErrAlreadyCheckedIn) {
			fmt.Printf("%q is already checked in today.\n", habit.Name)
			return nil
		}
		return err
	}

	if err := ctx.Store.UpdateHabit(habit); err != nil {
		return err
	}

	tier := milestone.For(len(habit.CheckIns))
	fmt.Printf("Checked in %q. %s\n", habit.Name, renderMilestone(tier))

	ctx.EvaluateTriggers(trigger.Event{Kind: trigger.EventHabitCheckedIn, HabitID: habit.ID})
	return nil
}

type HabitUndoCmd struct {
	Name string `arg:"" help:"Habit name."`
}

func (c *HabitUndoCmd) Run(ctx *Context) error {
	habit, err := findHabit(ctx, c.Name)
	if err != nil {
		return err
	}

	if !habit.UndoCheckIn(time.Now()) {
		fmt.Printf("%q has no check-in today.\n", habit.Name)
		return nil
	}

	if err := ctx.Store.UpdateHabit(habit); err != nil {
		return err
	}

	fmt.Printf("Undid today's check-in for %q.\n", habit.Name)
	return nil
}

type HabitDeleteCmd struct {
	Name string `arg:"" help:"Habit name to delete."`
}

func (c *HabitDeleteCmd) Run(ctx *Context) error {
	habit, err := findHabit(ctx, c.Name)
	if err != nil {
		return err
	}

	// Deleting a habit drops its whole check-in history, keep a snapshot.
	ctx.PerformAutomaticSnapshot()
	if err := ctx.Store.DeleteHabit(habit.ID); err != nil {
		return err
	}

	fmt.Printf("Deleted habit: %s\n", habit.Name)
	return nil
}

type HabitReportCmd struct {
	Days int `help:"Reporting period in days." default:"30"`
}

func (c *HabitReportCmd) Run(ctx *Context) error {
	habits, err := ctx.Store.GetAllHabits()
	if err != nil {
		return err
	}
	if len(habits) == 0 {
		fmt.Println("No habits found.")
		return nil
	}

	now := time.Now()
	rangeStart := now.AddDate(0, 0, -(c.Days - 1))
	rates := scoring.CompletionRates(habits, rangeStart, c.Days, now)

	fmt.Printf("Habit completion (last %d days):\n\n", c.Days)
	for _, rate := range rates {
		fmt.Printf("  %-20s %3d%%\n", rate.Name, rate.Percent)
	}
	return nil
}

func findHabit(ctx *Context, name string) (models.Habit, error) {
	habits, err := ctx.Store.GetAllHabits()
	if err != nil {
		return models.Habit{}, err
	}
	for _, habit := range habits {
		if habit.Name == name {
			return habit, nil
		}
	}
	// Allow addressing by id as a fallback for duplicated names.
	if id, parseErr := strconv.ParseInt(name, 10, 64); parseErr == nil {
		for _, habit := range habits {
			if habit.ID == id {
				return habit, nil
			}
		}
	}
	return models.Habit{}, fmt.Errorf("habit %q not found", name)
}

func mustHabits(ctx *Context) []models.Habit {
	habits, err := ctx.Store.GetAllHabits()
	if err != nil {
		return nil
	}
	return habits
}
