package storage

import (
	"context"
	"strings"
	"time"

	apperrors "github.com/louisbranch/singularity/internal/platform/errors"
)

// ErrNotFound indicates a requested save slot is missing.
var ErrNotFound = apperrors.New(apperrors.CodeSaveNotFound, "save not found")

// ErrNameRequired indicates an empty slot name.
var ErrNameRequired = apperrors.New(apperrors.CodeSaveNameEmpty, "save name is required")

// SaveInfo summarizes a save slot.
type SaveInfo struct {
	Name    string    `json:"name"`
	Version string    `json:"version"`
	Turn    int       `json:"turn"`
	Year    int       `json:"year"`
	Quarter int       `json:"quarter"`
	Month   int       `json:"month"`
	Day     int       `json:"day"`
	SavedAt time.Time `json:"savedAt"`
	Size    int       `json:"size"`
}

// SaveStore persists save slots. Writing an existing slot replaces it.
type SaveStore interface {
	PutSave(ctx context.Context, info SaveInfo, data []byte) error
	// GetSave returns ErrNotFound if the slot does not exist.
	GetSave(ctx context.Context, name string) ([]byte, error)
	// ListSaves returns every slot, most recently saved first.
	ListSaves(ctx context.Context) ([]SaveInfo, error)
	// DeleteSave returns ErrNotFound if the slot does not exist.
	DeleteSave(ctx context.Context, name string) error
	Close() error
}

// NormalizeName trims a slot name and rejects empty names.
func NormalizeName(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", ErrNameRequired
	}
	return name, nil
}

// ToMillis converts a save time to the millisecond form stored by the SQL
// backends.
func ToMillis(value time.Time) int64 {
	return value.UTC().UnixMilli()
}

// FromMillis reverses ToMillis.
func FromMillis(value int64) time.Time {
	return time.UnixMilli(value).UTC()
}
