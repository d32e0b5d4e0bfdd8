package system

import (
	"fmt"
	"io/fs"

	"github.com/lichiahui/lifelog/internal/cli"
	"github.com/lichiahui/lifelog/internal/migration"
	"github.com/lichiahui/lifelog/internal/storage"
	"github.com/lichiahui/lifelog/migrations"
)

type MigrateCmd struct{}

func (c *MigrateCmd) Run(ctx *cli.Context) error {
	if err := ctx.Store.Load(); err != nil {
		return fmt.Errorf("failed to load database: %w", err)
	}
	defer ctx.Store.Close()

	runner, err := migrationRunner(ctx)
	if err != nil {
		return err
	}

	count, err := runner.ApplyMigrations(func(msg string) {
		fmt.Println(msg)
	})
	if err != nil {
		return fmt.Errorf("migration failed: %w", err)
	}

	if count == 0 {
		fmt.Println("No migrations to apply. Database is up to date.")
	} else {
		fmt.Printf("\nSuccessfully applied %d migration(s).\n", count)
	}
	return nil
}

func migrationRunner(ctx *cli.Context) (*migration.Runner, error) {
	store, ok := ctx.Store.(*storage.Store)
	if !ok {
		return nil, fmt.Errorf("migrations require the embedded database store")
	}

	db := store.GetDB()
	if db == nil {
		return nil, fmt.Errorf("database connection is nil")
	}

	subFS, err := fs.Sub(migrations.FS, "sqlite")
	if err != nil {
		return nil, fmt.Errorf("failed to access migrations: %w", err)
	}
	return migration.NewRunner(db, subFS), nil
}
