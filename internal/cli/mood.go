package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	apperrors "github.com/lichiahui/lifelog/internal/errors"
	"github.com/lichiahui/lifelog/internal/models"
	"github.com/lichiahui/lifelog/internal/trigger"
)

// moodTags are the tag choices offered by the entry form. Scoring only knows
// a subset of these; unknown tags are stored but contribute nothing.
var moodTags = []string{"happy", "grateful", "calm", "tired", "stressed"}

var pinnedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))

type MoodCmd struct {
	Add    MoodAddCmd    `cmd:"" help:"Record a mood entry."`
	List   MoodListCmd   `cmd:"" help:"List mood entries."`
	Pin    MoodPinCmd    `cmd:"" help:"Pin or unpin an entry."`
	Delete MoodDeleteCmd `cmd:"" help:"Delete a mood entry."`
}

type MoodAddCmd struct {
	Type    string   `help:"Entry type: morning, evening or note." default:"note" enum:"morning,evening,note"`
	Moods   []string `help:"Mood tags for this entry." short:"m"`
	Content string   `arg:"" optional:"" help:"Entry text. Omit to open the entry form."`
}

func (c *MoodAddCmd) Run(ctx *Context) error {
	entryType := models.MoodType(c.Type)
	moods := c.Moods
	content := c.Content

	if content == "" && len(moods) == 0 {
		typeStr := c.Type
		form := huh.NewForm(
			huh.NewGroup(
				huh.NewSelect[string]().
					Title("Entry type").
					Options(huh.NewOptions("morning", "evening", "note")...).
					Value(&typeStr),
				huh.NewMultiSelect[string]().
					Title("How are you feeling?").
					Options(huh.NewOptions(moodTags...)...).
					Value(&moods),
				huh.NewText().
					Title("Anything to note?").
					Value(&content),
			),
		)
		if err := form.Run(); err != nil {
			return err
		}
		entryType = models.MoodType(typeStr)
	}

	if content == "" && len(moods) == 0 {
		return fmt.Errorf("%w: an entry needs at least a mood or some text", apperrors.ErrValidation)
	}

	entry := models.NewMoodEntry(time.Now(), entryType, moods, content)
	if err := ctx.Store.AddMood(entry); err != nil {
		return err
	}

	fmt.Printf("Recorded %s entry %s\n", entry.Type, entry.ID)
	ctx.EvaluateTriggers(trigger.Event{Kind: trigger.EventMoodEntrySaved})
	return nil
}

type MoodListCmd struct {
	Date   string `help:"Day to list (YYYY-MM-DD, default: today)."`
	Month  bool   `help:"List the whole month instead of a single day."`
	Pinned bool   `help:"Show only pinned entries, any date."`
}

func (c *MoodListCmd) Run(ctx *Context) error {
	var entries []models.MoodEntry
	var err error

	switch {
	case c.Pinned:
		entries, err = ctx.Store.GetAllMoods()
		if err == nil {
			pinned := entries[:0]
			for _, e := range entries {
				if e.Pinned {
					pinned = append(pinned, e)
				}
			}
			entries = pinned
		}
	case c.Month:
		day, dayErr := ParseDay(c.Date)
		if dayErr != nil {
			return dayErr
		}
		first, last, rangeErr := MonthRange(day)
		if rangeErr != nil {
			return rangeErr
		}
		entries, err = ctx.Store.GetMoodsInRange(first, last)
	default:
		day, dayErr := ParseDay(c.Date)
		if dayErr != nil {
			return dayErr
		}
		entries, err = ctx.Store.GetMoodsInRange(day, day)
	}
	if err != nil {
		return err
	}

	if len(entries) == 0 {
		fmt.Println("No mood entries found.")
		return nil
	}

	for _, entry := range entries {
		marker := " "
		if entry.Pinned {
			marker = pinnedStyle.Render("★")
		}
		tags := ""
		if len(entry.Moods) > 0 {
			tags = " [" + strings.Join(entry.Moods, ", ") + "]"
		}
		fmt.Printf("%s %s %s %-8s%s  %s\n", marker, entry.Date, entry.Time, entry.Type, tags, entry.Content)
		fmt.Printf("    id: %s\n", entry.ID)
	}
	return nil
}

type MoodPinCmd struct {
	ID string `arg:"" help:"Entry id to pin or unpin."`
}

func (c *MoodPinCmd) Run(ctx *Context) error {
	entry, err := ctx.Store.GetMood(c.ID)
	if err != nil {
		return err
	}

	entry.Pinned = !entry.Pinned
	if err := ctx.Store.AddMood(entry); err != nil {
		return err
	}

	if entry.Pinned {
		fmt.Printf("Pinned entry %s\n", entry.ID)
	} else {
		fmt.Printf("Unpinned entry %s\n", entry.ID)
	}
	return nil
}

type MoodDeleteCmd struct {
	ID string `arg:"" help:"Entry id to delete."`
}

func (c *MoodDeleteCmd) Run(ctx *Context) error {
	if _, err := ctx.Store.GetMood(c.ID); err != nil {
		return err
	}
	if err := ctx.Store.DeleteMood(c.ID); err != nil {
		return err
	}
	fmt.Printf("Deleted entry %s\n", c.ID)
	return nil
}
