// Package postgres provides a Postgres-backed save store over pgxpool.
package postgres

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"sort"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	apperrors "github.com/louisbranch/singularity/internal/platform/errors"
	sqlitemigrate "github.com/louisbranch/singularity/internal/platform/storage/sqlitemigrate"
	"github.com/louisbranch/singularity/internal/services/game/storage"
	"github.com/louisbranch/singularity/internal/services/game/storage/postgres/migrations"
)

const (
	migrationTable = "schema_migrations"
	pingTimeout    = 10 * time.Second
)

var errNotConfigured = apperrors.New(apperrors.CodeStorageNotConfigured, "storage is not configured")

// Store persists save slots in Postgres.
type Store struct {
	pool *pgxpool.Pool
}

var _ storage.SaveStore = (*Store)(nil)

// Open connects to dsn, verifies the connection, and applies embedded
// migrations.
func Open(ctx context.Context, dsn string) (*Store, error) {
	if strings.TrimSpace(dsn) == "" {
		return nil, fmt.Errorf("postgres dsn is required")
	}
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("open postgres pool: %w", err)
	}
	pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()
	if err := pool.Ping(pingCtx); err != nil {
		pool.Close()
		return nil, apperrors.Wrap(apperrors.CodeStorageUnavailable, "ping postgres", err)
	}
	if err := applyMigrations(ctx, pool, migrations.FS); err != nil {
		pool.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	return &Store{pool: pool}, nil
}

// Close releases the pool.
func (s *Store) Close() error {
	if s == nil || s.pool == nil {
		return nil
	}
	s.pool.Close()
	return nil
}

// PutSave inserts or replaces one slot.
func (s *Store) PutSave(ctx context.Context, info storage.SaveInfo, data []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s == nil || s.pool == nil {
		return errNotConfigured
	}
	name, err := storage.NormalizeName(info.Name)
	if err != nil {
		return err
	}
	if data == nil {
		data = []byte{}
	}

	_, err = s.pool.Exec(
		ctx,
		`INSERT INTO saves (name, version, turn, year, quarter, month, day, saved_at, size, data)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		 ON CONFLICT (name) DO UPDATE SET
		   version = EXCLUDED.version,
		   turn = EXCLUDED.turn,
		   year = EXCLUDED.year,
		   quarter = EXCLUDED.quarter,
		   month = EXCLUDED.month,
		   day = EXCLUDED.day,
		   saved_at = EXCLUDED.saved_at,
		   size = EXCLUDED.size,
		   data = EXCLUDED.data`,
		name,
		info.Version,
		info.Turn,
		info.Year,
		info.Quarter,
		info.Month,
		info.Day,
		info.SavedAt.UTC(),
		len(data),
		data,
	)
	if err != nil {
		return wrapQueryError("put save", err)
	}
	return nil
}

// GetSave fetches slot data by name.
func (s *Store) GetSave(ctx context.Context, name string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if s == nil || s.pool == nil {
		return nil, errNotConfigured
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, storage.ErrNameRequired
	}

	var data []byte
	err := s.pool.QueryRow(ctx, `SELECT data FROM saves WHERE name = $1`, name).Scan(&data)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, storage.ErrNotFound
	}
	if err != nil {
		return nil, wrapQueryError("get save", err)
	}
	return data, nil
}

// ListSaves returns slot summaries, most recently saved first.
func (s *Store) ListSaves(ctx context.Context) ([]storage.SaveInfo, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if s == nil || s.pool == nil {
		return nil, errNotConfigured
	}

	rows, err := s.pool.Query(
		ctx,
		`SELECT name, version, turn, year, quarter, month, day, saved_at, size
		 FROM saves
		 ORDER BY saved_at DESC, name ASC`,
	)
	if err != nil {
		return nil, wrapQueryError("list saves", err)
	}
	defer rows.Close()

	infos := make([]storage.SaveInfo, 0)
	for rows.Next() {
		var info storage.SaveInfo
		if err := rows.Scan(&info.Name, &info.Version, &info.Turn, &info.Year, &info.Quarter, &info.Month, &info.Day, &info.SavedAt, &info.Size); err != nil {
			return nil, fmt.Errorf("scan save: %w", err)
		}
		info.SavedAt = info.SavedAt.UTC()
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
	if s == nil || s.pool == nil {
		return errNotConfigured
	}

	tag, err := s.pool.Exec(ctx, `DELETE FROM saves WHERE name = $1`, strings.TrimSpace(name))
	if err != nil {
		return wrapQueryError("delete save", err)
	}
	if tag.RowsAffected() == 0 {
		return storage.ErrNotFound
	}
	return nil
}

func applyMigrations(ctx context.Context, pool *pgxpool.Pool, migrationFS fs.FS) error {
	if _, err := pool.Exec(ctx, `CREATE TABLE IF NOT EXISTS `+migrationTable+` (
    name TEXT PRIMARY KEY,
    applied_at TIMESTAMPTZ NOT NULL
)`); err != nil {
		return fmt.Errorf("ensure migration table: %w", err)
	}

	entries, err := fs.ReadDir(migrationFS, ".")
	if err != nil {
		return fmt.Errorf("read migrations dir: %w", err)
	}
	var files []string
	for _, entry := range entries {
		if !entry.IsDir() && strings.HasSuffix(entry.Name(), ".sql") {
			files = append(files, entry.Name())
		}
	}
	sort.Strings(files)

	for _, file := range files {
		content, err := fs.ReadFile(migrationFS, file)
		if err != nil {
			return fmt.Errorf("read migration %s: %w", file, err)
		}
		upSQL := sqlitemigrate.ExtractUpMigration(string(content))
		if strings.TrimSpace(upSQL) == "" {
			continue
		}
		if err := applyOne(ctx, pool, file, upSQL); err != nil {
			return fmt.Errorf("migration %s: %w", file, err)
		}
	}
	return nil
}

func applyOne(ctx context.Context, pool *pgxpool.Pool, name, upSQL string) error {
	tx, err := pool.BeginTx(ctx, pgx.TxOptions{IsoLevel: pgx.ReadCommitted})
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	var found int
	err = tx.QueryRow(ctx, `SELECT 1 FROM `+migrationTable+` WHERE name = $1`, name).Scan(&found)
	if err == nil {
		return nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return fmt.Errorf("check: %w", err)
	}
	if _, err := tx.Exec(ctx, upSQL); err != nil {
		return fmt.Errorf("exec: %w", err)
	}
	if _, err := tx.Exec(ctx,
		`INSERT INTO `+migrationTable+` (name, applied_at) VALUES ($1, $2) ON CONFLICT (name) DO NOTHING`,
		name, time.Now().UTC(),
	); err != nil {
		return fmt.Errorf("record: %w", err)
	}
	return tx.Commit(ctx)
}

// wrapQueryError marks connection and lock failures as storage
// unavailability.
func wrapQueryError(op string, err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "40001", "40P01", "55P03", "57P01", "57P03":
			return apperrors.Wrap(apperrors.CodeStorageUnavailable, op, err)
		}
		return fmt.Errorf("%s: %w", op, err)
	}
	if pgconn.SafeToRetry(err) || pgconn.Timeout(err) {
		return apperrors.Wrap(apperrors.CodeStorageUnavailable, op, err)
	}
	return fmt.Errorf("%s: %w", op, err)
}
