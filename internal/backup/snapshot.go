package backup

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	_ "modernc.org/sqlite"
)

const (
	// MaxSnapshots is the maximum number of database snapshots to keep
	MaxSnapshots = 14
	// SnapshotDirName is the name of the snapshot directory
	SnapshotDirName = "backups"
	// SnapshotFilePrefix is the prefix for snapshot files
	SnapshotFilePrefix = "lifelog-"
	// SnapshotFileSuffix is the suffix for snapshot files
	SnapshotFileSuffix = ".db"
)

// SnapshotInfo contains information about a snapshot file
type SnapshotInfo struct {
	Path      string
	Timestamp time.Time
	Size      int64
}

// Manager handles database snapshot operations
type Manager struct {
	dbPath      string
	snapshotDir string
}

// NewManager creates a snapshot manager for the given database file
func NewManager(dbPath string) *Manager {
	configDir := filepath.Dir(dbPath)
	return &Manager{
		dbPath:      dbPath,
		snapshotDir: filepath.Join(configDir, SnapshotDirName),
	}
}

// GetSnapshotDir returns the snapshot directory path
func (m *Manager) GetSnapshotDir() string {
	return m.snapshotDir
}

// CreateSnapshot copies the current database into the snapshot directory and
// rotates out snapshots beyond the retention limit.
func (m *Manager) CreateSnapshot() (string, error) {
	return m.createSnapshot(false)
}

// skipRotation prevents recursive snapshot creation during restore
func (m *Manager) createSnapshot(skipRotation bool) (string, error) {
	if err := os.MkdirAll(m.snapshotDir, 0700); err != nil {
		return "", fmt.Errorf("failed to create snapshot directory: %w", err)
	}

	if _, err := os.Stat(m.dbPath); os.IsNotExist(err) {
		return "", fmt.Errorf("database does not exist: %s", m.dbPath)
	}

	// Minute precision first, falling back to seconds and then a counter
	// when snapshots land close together.
	timestamp := time.Now().Format("20060102-1504")
	snapshotPath := filepath.Join(m.snapshotDir, SnapshotFilePrefix+timestamp+SnapshotFileSuffix)

	if _, err := os.Stat(snapshotPath); err == nil {
		timestamp = time.Now().Format("20060102-150405")
		snapshotPath = filepath.Join(m.snapshotDir, SnapshotFilePrefix+timestamp+SnapshotFileSuffix)

		counter := 1
		for {
			if _, err := os.Stat(snapshotPath); os.IsNotExist(err) {
				break
			}
			name := fmt.Sprintf("%s%s-%d%s", SnapshotFilePrefix, timestamp, counter, SnapshotFileSuffix)
			snapshotPath = filepath.Join(m.snapshotDir, name)
			counter++
			if counter > 100 {
				return "", fmt.Errorf("failed to generate unique snapshot filename")
			}
		}
	}

	if err := m.snapshotDatabase(snapshotPath); err != nil {
		return "", fmt.Errorf("failed to snapshot database: %w", err)
	}

	if !skipRotation {
		if err := m.rotateSnapshots(); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: failed to rotate old snapshots: %v\n", err)
		}
	}

	return snapshotPath, nil
}

// snapshotDatabase uses VACUUM INTO for a clean copy, falling back to a
// plain file copy when the SQLite version predates it.
func (m *Manager) snapshotDatabase(destPath string) error {
	srcDB, err := sql.Open("sqlite", m.dbPath+"?mode=ro")
	if err != nil {
		return fmt.Errorf("failed to open source database: %w", err)
	}
	defer srcDB.Close()

	var count int
	if err := srcDB.QueryRow("SELECT COUNT(*) FROM sqlite_master").Scan(&count); err != nil {
		return fmt.Errorf("source database appears to be corrupted: %w", err)
	}

	if _, err := srcDB.Exec("VACUUM INTO ?", destPath); err != nil {
		srcDB.Close()
		return copyFile(m.dbPath, destPath)
	}

	return nil
}

// ListSnapshots returns all snapshots, newest first.
func (m *Manager) ListSnapshots() ([]SnapshotInfo, error) {
	if _, err := os.Stat(m.snapshotDir); os.IsNotExist(err) {
		return []SnapshotInfo{}, nil
	}

	entries, err := os.ReadDir(m.snapshotDir)
	if err != nil {
		return nil, fmt.Errorf("failed to read snapshot directory: %w", err)
	}

	var snapshots []SnapshotInfo
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}

		name := entry.Name()
		if !strings.HasPrefix(name, SnapshotFilePrefix) || !strings.HasSuffix(name, SnapshotFileSuffix) {
			continue
		}

		timestampStr := strings.TrimPrefix(name, SnapshotFilePrefix)
		timestampStr = strings.TrimSuffix(timestampStr, SnapshotFileSuffix)
		timestampStr = trimCounterSuffix(timestampStr)

		timestamp, err := time.Parse("20060102-1504", timestampStr)
		if err != nil {
			timestamp, err = time.Parse("20060102-150405", timestampStr)
			if err != nil {
				continue
			}
		}

		path := filepath.Join(m.snapshotDir, name)
		info, err := os.Stat(path)
		if err != nil {
			continue
		}

		snapshots = append(snapshots, SnapshotInfo{
			Path:      path,
			Timestamp: timestamp,
			Size:      info.Size(),
		})
	}

	sort.Slice(snapshots, func(i, j int) bool {
		return snapshots[i].Timestamp.After(snapshots[j].Timestamp)
	})

	return snapshots, nil
}

// trimCounterSuffix strips the disambiguating counter from a filename
// timestamp. Time segments are 4 or 6 digits, counters are anything else.
func trimCounterSuffix(timestampStr string) string {
	parts := strings.Split(timestampStr, "-")
	if len(parts) <= 2 {
		return timestampStr
	}
	lastPart := parts[len(parts)-1]
	if len(lastPart) == 4 || len(lastPart) == 6 {
		return timestampStr
	}
	for _, c := range lastPart {
		if c < '0' || c > '9' {
			return timestampStr
		}
	}
	return strings.Join(parts[:len(parts)-1], "-")
}

func (m *Manager) rotateSnapshots() error {
	snapshots, err := m.ListSnapshots()
	if err != nil {
		return err
	}

	if len(snapshots) <= MaxSnapshots {
		return nil
	}

	for i := MaxSnapshots; i < len(snapshots); i++ {
		if err := os.Remove(snapshots[i].Path); err != nil {
			return fmt.Errorf("failed to remove old snapshot %s: %w", snapshots[i].Path, err)
		}
	}

	return nil
}

// RestoreSnapshot replaces the database with the given snapshot. The current
// database is snapshotted first, and the swap is done through a temp file and
// atomic rename.
func (m *Manager) RestoreSnapshot(snapshotPath string) error {
	if _, err := os.Stat(snapshotPath); os.IsNotExist(err) {
		return fmt.Errorf("snapshot file does not exist: %s", snapshotPath)
	}

	if err := m.verifySnapshot(snapshotPath); err != nil {
		return fmt.Errorf("snapshot file is corrupted or invalid: %w", err)
	}

	if _, err := os.Stat(m.dbPath); err == nil {
		currentSnapshot, err := m.createSnapshot(true)
		if err != nil {
			return fmt.Errorf("failed to snapshot current database before restore: %w", err)
		}
		fmt.Printf("Created snapshot of current database: %s\n", filepath.Base(currentSnapshot))
	}

	tempPath := m.dbPath + ".restore.tmp"

	if err := copyFile(snapshotPath, tempPath); err != nil {
		return fmt.Errorf("failed to copy snapshot file: %w", err)
	}

	if err := os.Rename(tempPath, m.dbPath); err != nil {
		if removeErr := os.Remove(tempPath); removeErr != nil {
			fmt.Fprintf(os.Stderr, "Warning: failed to remove temporary file %s: %v\n", tempPath, removeErr)
		}
		return fmt.Errorf("failed to restore database: %w", err)
	}

	return nil
}

// verifySnapshot checks that a snapshot file is a readable SQLite database
func (m *Manager) verifySnapshot(path string) error {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return err
	}
	defer db.Close()

	var count int
	return db.QueryRow("SELECT COUNT(*) FROM sqlite_master").Scan(&count)
}

func copyFile(src, dst string) error {
	sourceFile, err := os.Open(src)
	if err != nil {
		return err
	}
	defer sourceFile.Close()

	destFile, err := os.Create(dst)
	if err != nil {
		return err
	}
	defer destFile.Close()

	if _, err := destFile.ReadFrom(sourceFile); err != nil {
		return err
	}

	return destFile.Sync()
}
