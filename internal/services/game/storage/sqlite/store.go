// Package sqlite provides a SQLite-backed save store.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	apperrors "github.com/louisbranch/singularity/internal/platform/errors"
	sqlitemigrate "github.com/louisbranch/singularity/internal/platform/storage/sqlitemigrate"
	"github.com/louisbranch/singularity/internal/services/game/storage"
	"github.com/louisbranch/singularity/internal/services/game/storage/sqlite/migrations"
	msqlite "modernc.org/sqlite"
	sqlite3lib "modernc.org/sqlite/lib"
)

var errNotConfigured = apperrors.New(apperrors.CodeStorageNotConfigured, "storage is not configured")

// Store persists save slots in SQLite.
type Store struct {
	sqlDB *sql.DB
}

var _ storage.SaveStore = (*Store)(nil)

// Open opens a SQLite save store and applies embedded migrations.
func Open(path string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("storage path is required")
	}
	cleanPath := filepath.Clean(path)
	dsn := cleanPath + "?_journal_mode=WAL&_foreign_keys=ON&_busy_timeout=5000&_synchronous=NORMAL"
	sqlDB, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	sqlDB.SetMaxOpenConns(1)
	if err := sqlDB.Ping(); err != nil {
		_ = sqlDB.Close()
		return nil, apperrors.Wrap(apperrors.CodeStorageUnavailable, "ping sqlite db", err)
	}
	if _, err := sqlitemigrate.ApplyMigrations(context.Background(), sqlDB, migrations.FS, "."); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	return &Store{sqlDB: sqlDB}, nil
}

// Close closes the SQLite handle.
func (s *Store) Close() error {
	if s == nil || s.sqlDB == nil {
		return nil
	}
	return s.sqlDB.Close()
}

// PutSave inserts or replaces one slot.
func (s *Store) PutSave(ctx context.Context, info storage.SaveInfo, data []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s == nil || s.sqlDB == nil {
		return errNotConfigured
	}
	name, err := storage.NormalizeName(info.Name)
	if err != nil {
		return err
	}
	if data == nil {
		data = []byte{}
	}

	_, err = s.sqlDB.ExecContext(
		ctx,
		`INSERT INTO saves (name, version, turn, year, quarter, month, day, saved_at, size, data)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(name) DO UPDATE SET
		   version = excluded.version,
		   turn = excluded.turn,
		   year = excluded.year,
		   quarter = excluded.quarter,
		   month = excluded.month,
		   day = excluded.day,
		   saved_at = excluded.saved_at,
		   size = excluded.size,
		   data = excluded.data`,
		name,
		info.Version,
		info.Turn,
		info.Year,
		info.Quarter,
		info.Month,
		info.Day,
		storage.ToMillis(info.SavedAt),
		len(data),
		data,
	)
	if err != nil {
		return wrapExecError("put save", err)
	}
	return nil
}

// GetSave fetches slot data by name.
func (s *Store) GetSave(ctx context.Context, name string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if s == nil || s.sqlDB == nil {
		return nil, errNotConfigured
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, storage.ErrNameRequired
	}

	var data []byte
	err := s.sqlDB.QueryRowContext(ctx, `SELECT data FROM saves WHERE name = ?`, name).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, storage.ErrNotFound
	}
	if err != nil {
		return nil, wrapExecError("get save", err)
	}
	return data, nil
}

// ListSaves returns slot summaries, most recently saved first.
func (s *Store) ListSaves(ctx context.Context) ([]storage.SaveInfo, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if s == nil || s.sqlDB == nil {
		return nil, errNotConfigured
	}

	rows, err := s.sqlDB.QueryContext(
		ctx,
		`SELECT name, version, turn, year, quarter, month, day, saved_at, size
		 FROM saves
		 ORDER BY saved_at DESC, name ASC`,
	)
	if err != nil {
		return nil, wrapExecError("list saves", err)
	}
	defer rows.Close()

	infos := make([]storage.SaveInfo, 0)
	for rows.Next() {
		var (
			info    storage.SaveInfo
			savedAt int64
		)
		if err := rows.Scan(&info.Name, &info.Version, &info.Turn, &info.Year, &info.Quarter, &info.Month, &info.Day, &savedAt, &info.Size); err != nil {
			return nil, fmt.Errorf("scan save: %w", err)
		}
		info.SavedAt = storage.FromMillis(savedAt)
		infos = append(infos, info)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate saves: %w", err)
	}
	return infos, nil
}

// DeleteSave removes one slot.
func (s *Store) DeleteSave(ctx context.Context, name string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s == nil || s.sqlDB == nil {
		return errNotConfigured
	}

	result, err := s.sqlDB.ExecContext(ctx, `DELETE FROM saves WHERE name = ?`, strings.TrimSpace(name))
	if err != nil {
		return wrapExecError("delete save", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete save rows affected: %w", err)
	}
	if affected == 0 {
		return storage.ErrNotFound
	}
	return nil
}

// wrapExecError marks lock contention as storage unavailability so callers
// can tell it apart from corrupt input.
func wrapExecError(op string, err error) error {
	if isBusyError(err) {
		return apperrors.Wrap(apperrors.CodeStorageUnavailable, op, err)
	}
	return fmt.Errorf("%s: %w", op, err)
}

func isBusyError(err error) bool {
	var sqliteErr *msqlite.Error
	if !errors.As(err, &sqliteErr) {
		return false
	}
	switch sqliteErr.Code() & 0xff {
	case sqlite3lib.SQLITE_BUSY, sqlite3lib.SQLITE_LOCKED:
		return true
	default:
		return false
	}
}
