package app

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	apperrors "github.com/louisbranch/singularity/internal/platform/errors"
	"github.com/louisbranch/singularity/internal/services/game/storage"
	storagebbolt "github.com/louisbranch/singularity/internal/services/game/storage/bbolt"
	storagepostgres "github.com/louisbranch/singularity/internal/services/game/storage/postgres"
	storagesqlite "github.com/louisbranch/singularity/internal/services/game/storage/sqlite"
)

// Save backends accepted by OpenSaveStore.
const (
	BackendMemory   = "memory"
	BackendBBolt    = "bbolt"
	BackendSQLite   = "sqlite"
	BackendPostgres = "postgres"
)

// StoreConfig selects and locates the save backend.
type StoreConfig struct {
	Backend     string
	Path        string
	PostgresDSN string
}

// OpenSaveStore opens the configured save backend. File backends create the
// parent directory of Path.
func OpenSaveStore(ctx context.Context, cfg StoreConfig) (storage.SaveStore, error) {
	backend := strings.ToLower(strings.TrimSpace(cfg.Backend))
	switch backend {
	case "", BackendMemory:
		return storage.NewMemory(), nil
	case BackendBBolt:
		path, err := ensureDir(cfg.Path)
		if err != nil {
			return nil, err
		}
		store, err := storagebbolt.Open(path)
		if err != nil {
			return nil, fmt.Errorf("open bbolt save store: %w", err)
		}
		return store, nil
	case BackendSQLite:
		path, err := ensureDir(cfg.Path)
		if err != nil {
			return nil, err
		}
		store, err := storagesqlite.Open(path)
		if err != nil {
			return nil, fmt.Errorf("open sqlite save store: %w", err)
		}
		return store, nil
	case BackendPostgres:
		dsn := strings.TrimSpace(cfg.PostgresDSN)
		if dsn == "" {
			return nil, apperrors.New(apperrors.CodeStorageNotConfigured, "postgres dsn is required")
		}
		store, err := storagepostgres.Open(ctx, dsn)
		if err != nil {
			return nil, fmt.Errorf("open postgres save store: %w", err)
		}
		return store, nil
	default:
		return nil, apperrors.WithMetadata(apperrors.CodeUnsupportedSaveBackend, "unsupported save backend", map[string]string{
			"Backend": backend,
		})
	}
}

func ensureDir(path string) (string, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return "", apperrors.New(apperrors.CodeStorageNotConfigured, "save path is required")
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return "", fmt.Errorf("create storage dir: %w", err)
		}
	}
	return path, nil
}
