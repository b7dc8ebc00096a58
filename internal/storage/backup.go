package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/schollz/progressbar/v3"

	"github.com/tillpos/till/internal/common"
)

// sideSuffixes are the WAL-mode companion files that travel with the
// primary database file.
var sideSuffixes = []string{"-wal", "-shm"}

// BackupManager handles database backup, restore and maintenance
// operations. All of its operations take the store's exclusive lock, so
// they never overlap with each other or with live order writes.
type BackupManager struct {
	store      *Store
	backupsDir string
}

// SnapshotMetadata is persisted next to each managed snapshot.
type SnapshotMetadata struct {
	CreatedAt     time.Time      `json:"created_at"`
	RowCounts     map[string]int `json:"row_counts"`
	ID            string         `json:"id"`
	Description   string         `json:"description"`
	FileSize      int64          `json:"file_size"`
	SchemaVersion int            `json:"schema_version"`
}

// SnapshotInfo describes a managed snapshot for listing.
type SnapshotInfo struct {
	CreatedAt     time.Time
	ID            string
	Description   string
	Path          string
	FileSize      int64
	Orders        int
	Products      int
	Expenses      int
	SchemaVersion int
}

// Stats reports the health of the live database file.
type Stats struct {
	LastBackup     time.Time
	IntegrityCheck string
	SizeBytes      int64
}

// OK reports whether the last integrity check passed.
func (st Stats) OK() bool {
	return st.IntegrityCheck == "ok"
}

// NewBackupManager creates a backup manager for the given store. The
// backups directory holds managed snapshots and their metadata.
func NewBackupManager(store *Store, backupsDir string) (*BackupManager, error) {
	if store == nil {
		return nil, fmt.Errorf("%w: store", ErrNilParameter)
	}
	if backupsDir == "" {
		backupsDir = filepath.Join(filepath.Dir(store.dbPath), "backups")
	}

	if err := os.MkdirAll(backupsDir, 0750); err != nil {
		return nil, fmt.Errorf("failed to create backups directory: %w", err)
	}

	return &BackupManager{
		store:      store,
		backupsDir: backupsDir,
	}, nil
}

// BackupsDir returns the managed snapshot directory.
func (m *BackupManager) BackupsDir() string {
	return m.backupsDir
}

// Backup checkpoints the write-ahead log and copies the primary database
// file plus any WAL/SHM side files to destPath (side files get matching
// suffixes). Destination files are marked read-only. An interrupted copy
// may leave a partial destination file; it never touches the live store.
func (m *BackupManager) Backup(ctx context.Context, destPath string) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateString(destPath, "destPath"); err != nil {
		return err
	}

	m.store.mu.Lock()
	defer m.store.mu.Unlock()

	return m.backupLocked(ctx, destPath)
}

func (m *BackupManager) backupLocked(ctx context.Context, destPath string) error {
	// Flush pending WAL content into the primary file first.
	if _, err := m.store.db.ExecContext(ctx, "PRAGMA wal_checkpoint(TRUNCATE)"); err != nil {
		return fmt.Errorf("failed to checkpoint WAL: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(destPath), 0750); err != nil {
		return fmt.Errorf("failed to create destination directory: %w", err)
	}

	if err := copyFileWithProgress(m.store.dbPath, destPath, "backing up database"); err != nil {
		return fmt.Errorf("failed to copy database: %w", err)
	}
	if err := os.Chmod(destPath, 0444); err != nil {
		slog.Warn("failed to mark backup read-only", "path", destPath, "error", err)
	}

	for _, suffix := range sideSuffixes {
		src := m.store.dbPath + suffix
		if _, err := os.Stat(src); err != nil {
			continue // side file not present after checkpoint
		}
		dst := destPath + suffix
		if err := copyFile(src, dst); err != nil {
			return fmt.Errorf("failed to copy side file %s: %w", suffix, err)
		}
		if err := os.Chmod(dst, 0444); err != nil {
			slog.Warn("failed to mark backup side file read-only", "path", dst, "error", err)
		}
	}

	slog.Info("database backed up", "destination", destPath)
	return nil
}

// CreateSnapshot produces a managed backup in the backups directory with
// a metadata sidecar. An empty tag gets a timestamped name.
func (m *BackupManager) CreateSnapshot(ctx context.Context, tag, description string) (*SnapshotInfo, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	if tag == "" {
		tag = fmt.Sprintf("backup-%s", time.Now().Format("2006-01-02-1504"))
	}
	if strings.Contains(tag, "/") || strings.Contains(tag, "\\") || strings.Contains(tag, "..") {
		return nil, fmt.Errorf("%w: snapshot tag cannot contain path separators", common.ErrValidation)
	}

	m.store.mu.Lock()
	defer m.store.mu.Unlock()

	snapshotPath := filepath.Join(m.backupsDir, tag+".db")
	if _, err := os.Stat(snapshotPath); err == nil {
		return nil, fmt.Errorf("%w: %s", common.ErrBackupExists, tag)
	}

	var schemaVersion int
	if err := m.store.db.QueryRowContext(ctx, "PRAGMA user_version").Scan(&schemaVersion); err != nil {
		return nil, fmt.Errorf("failed to get schema version: %w", err)
	}

	rowCounts := m.collectRowCounts(ctx)

	if err := m.backupLocked(ctx, snapshotPath); err != nil {
		return nil, err
	}

	info, err := os.Stat(snapshotPath)
	if err != nil {
		return nil, fmt.Errorf("failed to stat snapshot: %w", err)
	}

	metadata := SnapshotMetadata{
		ID:            tag,
		CreatedAt:     time.Now().UTC(),
		Description:   description,
		FileSize:      info.Size(),
		RowCounts:     rowCounts,
		SchemaVersion: schemaVersion,
	}

	metadataPath := filepath.Join(m.backupsDir, tag+".meta.json")
	if err := saveSnapshotMetadata(metadataPath, metadata); err != nil {
		if rmErr := os.Remove(snapshotPath); rmErr != nil {
			slog.Error("failed to remove snapshot after metadata save failure", "error", rmErr)
		}
		return nil, fmt.Errorf("failed to save snapshot metadata: %w", err)
	}

	return snapshotInfoFromMetadata(metadata, snapshotPath), nil
}

// ListSnapshots returns all managed snapshots, newest first.
func (m *BackupManager) ListSnapshots(_ context.Context) ([]SnapshotInfo, error) {
	entries, err := os.ReadDir(m.backupsDir)
	if err != nil {
		return nil, fmt.Errorf("failed to read backups directory: %w", err)
	}

	snapshots := make([]SnapshotInfo, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".meta.json") {
			continue
		}

		metadataPath := filepath.Join(m.backupsDir, entry.Name())
		metadata, err := loadSnapshotMetadata(metadataPath)
		if err != nil {
			// Skip corrupted metadata files
			continue
		}

		snapshotPath := filepath.Join(m.backupsDir, metadata.ID+".db")
		snapshots = append(snapshots, *snapshotInfoFromMetadata(metadata, snapshotPath))
	}

	for i := 0; i < len(snapshots)-1; i++ {
		for j := i + 1; j < len(snapshots); j++ {
			if snapshots[i].CreatedAt.Before(snapshots[j].CreatedAt) {
				snapshots[i], snapshots[j] = snapshots[j], snapshots[i]
			}
		}
	}

	return snapshots, nil
}

// DeleteSnapshot removes a managed snapshot and its metadata.
func (m *BackupManager) DeleteSnapshot(_ context.Context, tag string) error {
	if strings.Contains(tag, "/") || strings.Contains(tag, "\\") || strings.Contains(tag, "..") {
		return fmt.Errorf("%w: snapshot tag cannot contain path separators", common.ErrValidation)
	}

	snapshotPath := filepath.Join(m.backupsDir, tag+".db")
	if _, err := os.Stat(snapshotPath); err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("%w: %s", common.ErrBackupNotFound, tag)
		}
		return fmt.Errorf("failed to access snapshot: %w", err)
	}

	// Snapshots are stored read-only; clear the bit so removal works everywhere.
	_ = os.Chmod(snapshotPath, 0644)
	if err := os.Remove(snapshotPath); err != nil {
		return fmt.Errorf("failed to remove snapshot: %w", err)
	}

	metadataPath := filepath.Join(m.backupsDir, tag+".meta.json")
	if err := os.Remove(metadataPath); err != nil && !os.IsNotExist(err) {
		slog.Debug("failed to remove snapshot metadata", "path", metadataPath, "error", err)
	}

	for _, suffix := range sideSuffixes {
		side := snapshotPath + suffix
		_ = os.Chmod(side, 0644)
		if err := os.Remove(side); err != nil && !os.IsNotExist(err) {
			slog.Debug("failed to remove snapshot side file", "path", side, "error", err)
		}
	}

	return nil
}

// Restore overwrites the live database from sourcePath (a file produced
// by Backup or CreateSnapshot). The live connection is closed and NOT
// reopened: the caller must construct a new Store afterwards. A failure
// mid-copy can leave the live file partially overwritten.
func (m *BackupManager) Restore(ctx context.Context, sourcePath string) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateString(sourcePath, "sourcePath"); err != nil {
		return err
	}

	if _, err := os.Stat(sourcePath); err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("%w: %s", common.ErrBackupNotFound, sourcePath)
		}
		return fmt.Errorf("failed to access backup: %w", err)
	}

	if err := verifyBackupIntegrity(ctx, sourcePath); err != nil {
		return err
	}

	m.store.mu.Lock()
	defer m.store.mu.Unlock()

	if err := m.store.db.Close(); err != nil {
		return fmt.Errorf("failed to close database: %w", err)
	}

	if err := copyFileWithProgress(sourcePath, m.store.dbPath, "restoring database"); err != nil {
		return fmt.Errorf("failed to restore database: %w", err)
	}
	// Backups are stored read-only; the restored live file must not be.
	if err := os.Chmod(m.store.dbPath, 0644); err != nil {
		return fmt.Errorf("failed to clear read-only flag: %w", err)
	}

	for _, suffix := range sideSuffixes {
		src := sourcePath + suffix
		dst := m.store.dbPath + suffix
		if _, err := os.Stat(src); err != nil {
			// Stale side files from the previous live database would
			// corrupt the restored one.
			if err := os.Remove(dst); err != nil && !os.IsNotExist(err) {
				return fmt.Errorf("failed to remove stale side file %s: %w", suffix, err)
			}
			continue
		}
		if err := copyFile(src, dst); err != nil {
			return fmt.Errorf("failed to restore side file %s: %w", suffix, err)
		}
		if err := os.Chmod(dst, 0644); err != nil {
			return fmt.Errorf("failed to clear read-only flag on side file: %w", err)
		}
	}

	slog.Info("database restored", "source", sourcePath)
	return nil
}

// IntegrityCheck runs a consistency check against the live database and
// returns its status together with size and last-backup metadata.
func (m *BackupManager) IntegrityCheck(ctx context.Context) (*Stats, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	m.store.mu.Lock()
	defer m.store.mu.Unlock()

	var status string
	if err := m.store.db.QueryRowContext(ctx, "PRAGMA quick_check").Scan(&status); err != nil {
		return nil, fmt.Errorf("failed to run integrity check: %w", err)
	}

	info, err := os.Stat(m.store.dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to stat database: %w", err)
	}

	stats := &Stats{
		IntegrityCheck: status,
		SizeBytes:      info.Size(),
	}

	if snapshots, err := m.ListSnapshots(ctx); err == nil && len(snapshots) > 0 {
		stats.LastBackup = snapshots[0].CreatedAt
	}

	return stats, nil
}

// Optimize reclaims unused space and refreshes query-planner statistics.
// It holds the exclusive lock, so it cannot overlap backup, restore or
// live writes.
func (m *BackupManager) Optimize(ctx context.Context) error {
	if err := validateContext(ctx); err != nil {
		return err
	}

	m.store.mu.Lock()
	defer m.store.mu.Unlock()

	for _, pragma := range []string{"VACUUM", "ANALYZE", "PRAGMA optimize"} {
		if _, err := m.store.db.ExecContext(ctx, pragma); err != nil {
			return fmt.Errorf("failed to run %s: %w", pragma, err)
		}
	}

	slog.Info("database optimized")
	return nil
}

// Helper functions

func (m *BackupManager) collectRowCounts(ctx context.Context) map[string]int {
	counts := make(map[string]int)

	tableQueries := map[string]string{
		"orders":     "SELECT COUNT(*) FROM orders",
		"products":   "SELECT COUNT(*) FROM products",
		"categories": "SELECT COUNT(*) FROM categories",
		"expenses":   "SELECT COUNT(*) FROM expenses",
		"users":      "SELECT COUNT(*) FROM users",
	}

	for table, query := range tableQueries {
		var count int
		if err := m.store.db.QueryRowContext(ctx, query).Scan(&count); err != nil {
			counts[table] = 0
			continue
		}
		counts[table] = count
	}

	return counts
}

// verifyBackupIntegrity opens the backup read-only and runs an integrity
// check before it is allowed anywhere near the live file.
func verifyBackupIntegrity(ctx context.Context, path string) error {
	db, err := sql.Open("sqlite3", path+"?mode=ro")
	if err != nil {
		return fmt.Errorf("failed to open backup: %w", err)
	}
	defer func() { _ = db.Close() }()

	var status string
	if err := db.QueryRowContext(ctx, "PRAGMA integrity_check").Scan(&status); err != nil {
		return fmt.Errorf("backup integrity check failed: %w", err)
	}
	if status != "ok" {
		return fmt.Errorf("%w: backup failed integrity check: %s", common.ErrValidation, status)
	}
	return nil
}

func saveSnapshotMetadata(path string, metadata SnapshotMetadata) error {
	data, err := json.MarshalIndent(metadata, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0640)
}

func loadSnapshotMetadata(path string) (SnapshotMetadata, error) {
	data, err := os.ReadFile(path) // #nosec G304 - path is within the backups directory
	if err != nil {
		return SnapshotMetadata{}, err
	}
	var metadata SnapshotMetadata
	if err := json.Unmarshal(data, &metadata); err != nil {
		return SnapshotMetadata{}, err
	}
	return metadata, nil
}

func snapshotInfoFromMetadata(metadata SnapshotMetadata, path string) *SnapshotInfo {
	return &SnapshotInfo{
		ID:            metadata.ID,
		CreatedAt:     metadata.CreatedAt,
		Description:   metadata.Description,
		Path:          path,
		FileSize:      metadata.FileSize,
		Orders:        metadata.RowCounts["orders"],
		Products:      metadata.RowCounts["products"],
		Expenses:      metadata.RowCounts["expenses"],
		SchemaVersion: metadata.SchemaVersion,
	}
}

func copyFile(src, dst string) error {
	in, err := os.Open(src) // #nosec G304 - paths are validated by callers
	if err != nil {
		return err
	}
	defer func() { _ = in.Close() }()

	out, err := os.Create(dst) // #nosec G304 - paths are validated by callers
	if err != nil {
		return err
	}

	if _, err := io.Copy(out, in); err != nil {
		_ = out.Close()
		return err
	}
	return out.Close()
}

func copyFileWithProgress(src, dst, description string) error {
	in, err := os.Open(src) // #nosec G304 - paths are validated by callers
	if err != nil {
		return err
	}
	defer func() { _ = in.Close() }()

	info, err := in.Stat()
	if err != nil {
		return err
	}

	out, err := os.Create(dst) // #nosec G304 - paths are validated by callers
	if err != nil {
		return err
	}

	bar := progressbar.NewOptions64(info.Size(),
		progressbar.OptionSetWriter(os.Stderr),
		progressbar.OptionShowBytes(true),
		progressbar.OptionSetWidth(40),
		progressbar.OptionSetDescription(description),
		progressbar.OptionClearOnFinish(),
	)

	if _, err := io.Copy(io.MultiWriter(out, bar), in); err != nil {
		_ = out.Close()
		return err
	}
	return out.Close()
}
