// Package data holds the export, import, and snapshot commands.
package data

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/lichiahui/lifelog/internal/backup"
	"github.com/lichiahui/lifelog/internal/cli"
)

type ExportCmd struct {
	Output string `short:"o" help:"File to write to (default: stdout)."`
}

func (c *ExportCmd) Run(ctx *cli.Context) error {
	if c.Output == "" {
		return backup.Export(ctx.Store, os.Stdout)
	}

	f, err := os.Create(c.Output)
	if err != nil {
		return fmt.Errorf("failed to create export file: %w", err)
	}
	defer f.Close()

	if err := backup.Export(ctx.Store, f); err != nil {
		return err
	}
	fmt.Printf("✓ Exported to %s\n", c.Output)
	return nil
}

type ImportCmd struct {
	Input string `arg:"" help:"Export file to import."`
	Yes   bool   `short:"y" help:"Skip the confirmation prompt."`
}

func (c *ImportCmd) Run(ctx *cli.Context) error {
	f, err := os.Open(c.Input)
	if err != nil {
		return fmt.Errorf("failed to open import file: %w", err)
	}
	defer f.Close()

	if !c.Yes {
		fmt.Println("⚠️  WARNING: This replaces every collection present in the file.")
		fmt.Println("A snapshot of the current database will be created first.")
		fmt.Printf("\nImport from: %s\n", c.Input)
		if !confirm() {
			fmt.Println("Import cancelled.")
			return nil
		}
	}

	// Snapshot before the destructive swap so a bad file is recoverable.
	mgr := backup.NewManager(ctx.Store.GetConfigPath())
	if _, err := mgr.CreateSnapshot(); err != nil {
		return fmt.Errorf("pre-import snapshot failed: %w", err)
	}

	if err := backup.Import(ctx.Store, f); err != nil {
		return fmt.Errorf("import failed: %w", err)
	}

	fmt.Println("✓ Import complete.")
	return nil
}

type SnapshotCreateCmd struct{}

func (c *SnapshotCreateCmd) Run(ctx *cli.Context) error {
	mgr := backup.NewManager(ctx.Store.GetConfigPath())
	snapshotPath, err := mgr.CreateSnapshot()
	if err != nil {
		return fmt.Errorf("snapshot failed: %w", err)
	}

	fmt.Printf("✓ Snapshot created: %s\n", filepath.Base(snapshotPath))
	return nil
}

type SnapshotListCmd struct{}

func (c *SnapshotListCmd) Run(ctx *cli.Context) error {
	mgr := backup.NewManager(ctx.Store.GetConfigPath())
	snapshots, err := mgr.ListSnapshots()
	if err != nil {
		return fmt.Errorf("failed to list snapshots: %w", err)
	}

	if len(snapshots) == 0 {
		fmt.Println("No snapshots found.")
		fmt.Printf("Snapshots are stored in: %s\n", mgr.GetSnapshotDir())
		return nil
	}

	fmt.Printf("Available snapshots (%d total, keeping most recent %d):\n\n", len(snapshots), backup.MaxSnapshots)
	for _, s := range snapshots {
		sizeKB := float64(s.Size) / 1024.0
		timestamp := s.Timestamp.Format("2006-01-02 15:04:05")
		fmt.Printf("  %s  %s  (%.1f KB)\n", timestamp, filepath.Base(s.Path), sizeKB)
	}
	fmt.Printf("\nSnapshot directory: %s\n", mgr.GetSnapshotDir())

	return nil
}

type SnapshotRestoreCmd struct {
	SnapshotFile string `arg:"" help:"Path or filename of the snapshot to restore."`
}

func (c *SnapshotRestoreCmd) Run(ctx *cli.Context) error {
	mgr := backup.NewManager(ctx.Store.GetConfigPath())

	snapshotPath, err := resolveSnapshotPath(mgr, c.SnapshotFile)
	if err != nil {
		return err
	}

	fmt.Println("⚠️  WARNING: This will replace your current database with the snapshot.")
	fmt.Println("A snapshot of your current database will be created before restoring.")
	fmt.Printf("\nRestore from: %s\n", snapshotPath)
	if !confirm() {
		fmt.Println("Restore cancelled.")
		return nil
	}

	// Close the current connection before swapping the file underneath it.
	if err := ctx.Store.Close(); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: failed to close database connection: %v\n", err)
	}

	if err := mgr.RestoreSnapshot(snapshotPath); err != nil {
		return fmt.Errorf("restore failed: %w", err)
	}

	fmt.Println("✓ Database restored successfully!")
	return nil
}

// resolveSnapshotPath accepts an absolute path, a path relative to the current
// directory, or a bare filename inside the snapshot directory.
func resolveSnapshotPath(mgr *backup.Manager, name string) (string, error) {
	if filepath.IsAbs(name) {
		if _, err := os.Stat(name); os.IsNotExist(err) {
			return "", fmt.Errorf("snapshot file not found: %s", name)
		}
		return name, nil
	}

	if _, err := os.Stat(name); err == nil {
		absPath, err := filepath.Abs(name)
		if err != nil {
			return "", fmt.Errorf("failed to resolve snapshot path: %w", err)
		}
		return absPath, nil
	}

	possiblePath := filepath.Join(mgr.GetSnapshotDir(), name)
	if _, err := os.Stat(possiblePath); err == nil {
		return possiblePath, nil
	}
	return "", fmt.Errorf("snapshot file not found: tried current directory and %s", mgr.GetSnapshotDir())
}

func confirm() bool {
	fmt.Print("Continue? [y/N]: ")
	reader := bufio.NewReader(os.Stdin)
	response, err := reader.ReadString('\n')
	if err != nil {
		return false
	}
	response = strings.TrimSpace(strings.ToLower(response))
	return response == "y" || response == "yes"
}
