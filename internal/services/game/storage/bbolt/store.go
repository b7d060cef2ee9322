// Package bbolt stores save slots in a single BoltDB file.
package bbolt

import (
	"context"
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	apperrors "github.com/louisbranch/singularity/internal/platform/errors"
	"github.com/louisbranch/singularity/internal/services/game/storage"
	"go.etcd.io/bbolt"
)

const (
	saveDataBucket = "save_data"
	saveInfoBucket = "save_info"
)

var errNotConfigured = apperrors.New(apperrors.CodeStorageNotConfigured, "storage is not configured")

// Store provides a BoltDB-backed save store.
type Store struct {
	db *bbolt.DB
}

var _ storage.SaveStore = (*Store)(nil)

// Open opens a BoltDB-backed store at the provided path.
func Open(path string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("storage path is required")
	}

	cleanPath := filepath.Clean(path)
	db, err := bbolt.Open(cleanPath, 0o600, &bbolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CodeStorageUnavailable, "open storage db", err)
	}

	store := &Store{db: db}
	if err := store.ensureBuckets(); err != nil {
		_ = db.Close()
		return nil, err
	}

	return store, nil
}

// Close closes the underlying BoltDB database.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// PutSave writes the slot data and its summary in one transaction.
func (s *Store) PutSave(ctx context.Context, info storage.SaveInfo, data []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s == nil || s.db == nil {
		return errNotConfigured
	}
	name, err := storage.NormalizeName(info.Name)
	if err != nil {
		return err
	}
	info.Name = name
	info.Size = len(data)

	payload, err := json.Marshal(info)
	if err != nil {
		return fmt.Errorf("marshal save info: %w", err)
	}

	return s.db.Update(func(tx *bbolt.Tx) error {
		dataBucket := tx.Bucket([]byte(saveDataBucket))
		infoBucket := tx.Bucket([]byte(saveInfoBucket))
		if dataBucket == nil || infoBucket == nil {
			return fmt.Errorf("save buckets are missing")
		}
		if err := dataBucket.Put(saveKey(name), data); err != nil {
			return fmt.Errorf("put save data: %w", err)
		}
		return infoBucket.Put(saveKey(name), payload)
	})
}

// GetSave fetches slot data by name.
func (s *Store) GetSave(ctx context.Context, name string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if s == nil || s.db == nil {
		return nil, errNotConfigured
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, storage.ErrNameRequired
	}

	var data []byte
	err := s.db.View(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket([]byte(saveDataBucket))
		if bucket == nil {
			return fmt.Errorf("save data bucket is missing")
		}
		value := bucket.Get(saveKey(name))
		if value == nil {
			return storage.ErrNotFound
		}
		// Values are only valid for the life of the transaction.
		data = append([]byte(nil), value...)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return data, nil
}

// ListSaves returns every slot summary, most recently saved first.
func (s *Store) ListSaves(ctx context.Context) ([]storage.SaveInfo, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if s == nil || s.db == nil {
		return nil, errNotConfigured
	}

	var infos []storage.SaveInfo
	err := s.db.View(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket([]byte(saveInfoBucket))
		if bucket == nil {
			return fmt.Errorf("save info bucket is missing")
		}
		return bucket.ForEach(func(_, value []byte) error {
			var info storage.SaveInfo
			if err := json.Unmarshal(value, &info); err != nil {
				return fmt.Errorf("unmarshal save info: %w", err)
			}
			infos = append(infos, info)
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	storage.SortNewestFirst(infos)
	return infos, nil
}

// DeleteSave removes a slot and its summary.
func (s *Store) DeleteSave(ctx context.Context, name string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s == nil || s.db == nil {
		return errNotConfigured
	}
	name = strings.TrimSpace(name)

	return s.db.Update(func(tx *bbolt.Tx) error {
		dataBucket := tx.Bucket([]byte(saveDataBucket))
		infoBucket := tx.Bucket([]byte(saveInfoBucket))
		if dataBucket == nil || infoBucket == nil {
			return fmt.Errorf("save buckets are missing")
		}
		if dataBucket.Get(saveKey(name)) == nil {
			return storage.ErrNotFound
		}
		if err := dataBucket.Delete(saveKey(name)); err != nil {
			return fmt.Errorf("delete save data: %w", err)
		}
		return infoBucket.Delete(saveKey(name))
	})
}

func (s *Store) ensureBuckets() error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		for _, name := range []string{saveDataBucket, saveInfoBucket} {
			if _, err := tx.CreateBucketIfNotExists([]byte(name)); err != nil {
				return fmt.Errorf("create %s bucket: %w", name, err)
			}
		}
		return nil
	})
}

func saveKey(name string) []byte {
	return []byte("save/" + name)
}
