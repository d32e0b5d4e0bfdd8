package system

import (
	"path/filepath"
	"testing"

	"github.com/lichiahui/lifelog/internal/backup"
	"github.com/lichiahui/lifelog/internal/cli"
	"github.com/lichiahui/lifelog/internal/storage"
)

func setupTestDoctorDB(t *testing.T) *cli.Context {
	t.Helper()
	store := storage.NewStore(filepath.Join(t.TempDir(), "test.db"))
	if err := store.Init(); err != nil {
		t.Fatalf("failed to init store: %v", err)
	}
	t.Cleanup(func() {
		if err := store.Close(); err != nil {
			t.Errorf("failed to close store: %v", err)
		}
	})
	return &cli.Context{Store: store}
}

func TestDoctorCmd_HealthyDatabase(t *testing.T) {
	ctx := setupTestDoctorDB(t)

	if err := (&DoctorCmd{}).Run(ctx); err != nil {
		t.Errorf("doctor failed on a healthy database: %v", err)
	}
}

func TestDoctorCmd_UninitializedDatabase(t *testing.T) {
	store := storage.NewStore(filepath.Join(t.TempDir(), "missing.db"))
	ctx := &cli.Context{Store: store}

	if err := (&DoctorCmd{}).Run(ctx); err == nil {
		t.Error("expected doctor to fail when the database does not exist")
	}
}

func TestCheckSnapshotsPresent(t *testing.T) {
	ctx := setupTestDoctorDB(t)

	if err := checkSnapshotsPresent(ctx); err == nil {
		t.Error("expected a warning with no snapshots")
	}

	mgr := backup.NewManager(ctx.Store.GetConfigPath())
	if _, err := mgr.CreateSnapshot(); err != nil {
		t.Fatalf("failed to create snapshot: %v", err)
	}

	if err := checkSnapshotsPresent(ctx); err != nil {
		t.Errorf("expected snapshots check to pass, got: %v", err)
	}
}

func TestCheckClockTimezone(t *testing.T) {
	if err := checkClockTimezone(); err != nil {
		t.Errorf("clock check failed: %v", err)
	}
}
