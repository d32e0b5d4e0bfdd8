package cli

import (
	"fmt"
	"strconv"

	"github.com/charmbracelet/huh"

	apperrors "github.com/lichiahui/lifelog/internal/errors"
	"github.com/lichiahui/lifelog/internal/models"
)

type SettingsCmd struct {
	Show SettingsShowCmd `cmd:"" default:"1" help:"Print the current settings."`
	Set  SettingsSetCmd  `cmd:"" help:"Change settings."`
}

type SettingsShowCmd struct{}

func (c *SettingsShowCmd) Run(ctx *Context) error {
	settings, err := ctx.Store.GetSettings()
	if err != nil {
		return err
	}

	fmt.Printf("Work hours:     %d\n", settings.WorkHours)
	fmt.Printf("Break minutes:  %d\n", settings.BreakMinutes)
	fmt.Printf("AI model:       %s\n", settings.Model)
	fmt.Printf("Notifications:  %t\n", settings.NotificationsEnabled)
	return nil
}

type SettingsSetCmd struct {
	WorkHours     int    `help:"Expected work hours per day." default:"-1"`
	BreakMinutes  int    `help:"Expected break length in minutes." default:"-1"`
	Model         string `help:"AI model name, e.g. gemini-2.5-flash."`
	Notifications string `help:"Enable proactive notifications (true/false)."`
}

func (c *SettingsSetCmd) Run(ctx *Context) error {
	settings, err := ctx.Store.GetSettings()
	if err != nil {
		return err
	}

	// With no flags given, fall back to an interactive form.
	if c.WorkHours < 0 && c.BreakMinutes < 0 && c.Model == "" && c.Notifications == "" {
		if err := settingsForm(&settings); err != nil {
			return err
		}
	} else {
		if c.WorkHours >= 0 {
			if c.WorkHours == 0 || c.WorkHours > 24 {
				return fmt.Errorf("%w: work hours must be between 1 and 24", apperrors.ErrValidation)
			}
			settings.WorkHours = c.WorkHours
		}
		if c.BreakMinutes >= 0 {
			settings.BreakMinutes = c.BreakMinutes
		}
		if c.Model != "" {
			settings.Model = c.Model
		}
		switch c.Notifications {
		case "":
		case "true":
			settings.NotificationsEnabled = true
		case "false":
			settings.NotificationsEnabled = false
		default:
			return fmt.Errorf("%w: notifications must be true or false", apperrors.ErrValidation)
		}
	}

	if err := ctx.Store.SaveSettings(settings); err != nil {
		return err
	}
	fmt.Println("Settings saved.")
	return nil
}

func settingsForm(settings *models.Settings) error {
	workHours := strconv.Itoa(settings.WorkHours)
	breakMinutes := strconv.Itoa(settings.BreakMinutes)

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Work hours per day").
				Value(&workHours).
				Validate(validatePositiveInt),
			huh.NewInput().
				Title("Break minutes").
				Value(&breakMinutes).
				Validate(validatePositiveInt),
			huh.NewInput().
				Title("AI model").
				Value(&settings.Model),
			huh.NewConfirm().
				Title("Proactive notifications").
				Value(&settings.NotificationsEnabled),
		),
	)
	if err := form.Run(); err != nil {
		return err
	}

	settings.WorkHours, _ = strconv.Atoi(workHours)
	settings.BreakMinutes, _ = strconv.Atoi(breakMinutes)
	return nil
}

func validatePositiveInt(s string) error {
	n, err := strconv.Atoi(s)
	if err != nil || n <= 0 {
		return fmt.Errorf("enter a positive number")
	}
	return nil
}
