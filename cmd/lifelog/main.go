package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/alecthomas/kong"

	"github.com/lichiahui/lifelog/internal/cli"
	"github.com/lichiahui/lifelog/internal/cli/data"
	"github.com/lichiahui/lifelog/internal/cli/system"
	apperrors "github.com/lichiahui/lifelog/internal/errors"
	"github.com/lichiahui/lifelog/internal/logger"
	"github.com/lichiahui/lifelog/internal/storage"
)

var CLI struct {
	Version kong.VersionFlag
	Config  string `help:"Database file path." default:"~/.config/lifelog/lifelog.db"`
	Debug   bool   `help:"Enable debug logging." hidden:""`

	Init    system.InitCmd    `cmd:"" help:"Initialize lifelog storage."`
	Migrate system.MigrateCmd `cmd:"" help:"Run database migrations."`
	Doctor  system.DoctorCmd  `cmd:"" help:"Run health checks and diagnostics."`
	Key     struct {
		Set    system.KeySetCmd    `cmd:"" help:"Store the AI API key in the OS keyring."`
		Status system.KeyStatusCmd `cmd:"" help:"Check keyring availability." default:"1"`
		Delete system.KeyDeleteCmd `cmd:"" help:"Remove the API key from the OS keyring."`
	} `cmd:"" help:"Manage the AI API key."`

	Mood     cli.MoodCmd     `cmd:"" help:"Record and browse mood entries."`
	Habit    cli.HabitCmd    `cmd:"" help:"Manage habits and check-ins."`
	Task     cli.TaskCmd     `cmd:"" help:"Manage scheduled tasks."`
	Punch    cli.PunchCmd    `cmd:"" help:"Punch clock for work and breaks."`
	Chat     cli.ChatCmd     `cmd:"" help:"Talk to the AI companion."`
	Settings cli.SettingsCmd `cmd:"" help:"Manage application settings."`

	Export   data.ExportCmd `cmd:"" help:"Export all data as JSON."`
	Import   data.ImportCmd `cmd:"" help:"Import data from a JSON export."`
	Snapshot struct {
		Create  data.SnapshotCreateCmd  `cmd:"" help:"Create a database snapshot." default:"1"`
		List    data.SnapshotListCmd    `cmd:"" help:"List available snapshots."`
		Restore data.SnapshotRestoreCmd `cmd:"" help:"Restore from a snapshot."`
	} `cmd:"" help:"Manage database snapshots."`
}

func main() {
	ctx := kong.Parse(&CLI,
		kong.Name("lifelog"),
		kong.Description("Personal mood, habit, schedule, and punch-clock tracker"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact:             true,
			NoExpandSubcommands: true,
		}),
		kong.Vars{"version": "v0.1.0"},
	)

	dbPath, err := expandPath(CLI.Config)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	if err := logger.Init(logger.Config{Debug: CLI.Debug, ConfigDir: filepath.Dir(dbPath)}); err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to initialize logging: %v\n", err)
		os.Exit(1)
	}

	store := storage.NewStore(dbPath)
	appCtx := &cli.Context{Store: store}

	// Init handles its own loading; everything else needs the database open.
	if ctx.Selected() != nil && ctx.Selected().Name != "init" {
		if err := store.Load(); err != nil {
			apperrors.Fatal(err)
		}
	}

	if err := ctx.Run(appCtx); err != nil {
		apperrors.Fatal(err)
	}
}

func expandPath(path string) (string, error) {
	if path == "~" || strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to resolve home directory: %w", err)
		}
		return filepath.Join(home, strings.TrimPrefix(path, "~")), nil
	}
	return path, nil
}
