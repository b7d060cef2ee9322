// Package storagetest holds the behavior every SaveStore implementation
// must share, so each backend runs the same checks.
package storagetest

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/louisbranch/singularity/internal/services/game/storage"
)

// RunSaveStoreContract exercises put, get, overwrite, list, and delete
// against a fresh store.
func RunSaveStoreContract(t *testing.T, store storage.SaveStore) {
	t.Helper()
	ctx := context.Background()
	older := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	newer := older.Add(time.Hour)

	if _, err := store.GetSave(ctx, "missing"); !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("get missing err = %v, want ErrNotFound", err)
	}
	if err := store.PutSave(ctx, storage.SaveInfo{Name: "  "}, []byte("x")); !errors.Is(err, storage.ErrNameRequired) {
		t.Fatalf("put empty name err = %v, want ErrNameRequired", err)
	}

	if err := store.PutSave(ctx, storage.SaveInfo{Name: "alpha", Version: "1", Turn: 3, Year: 2025, Quarter: 1, Month: 3, Day: 1, SavedAt: older}, []byte("first")); err != nil {
		t.Fatalf("put alpha: %v", err)
	}
	if err := store.PutSave(ctx, storage.SaveInfo{Name: "beta", Version: "1", Turn: 7, SavedAt: newer}, []byte("second")); err != nil {
		t.Fatalf("put beta: %v", err)
	}
	data, err := store.GetSave(ctx, "alpha")
	if err != nil {
		t.Fatalf("get alpha: %v", err)
	}
	if string(data) != "first" {
		t.Fatalf("alpha = %q, want first", data)
	}

	infos, err := store.ListSaves(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(infos) != 2 || infos[0].Name != "beta" || infos[1].Name != "alpha" {
		t.Fatalf("list = %+v, want [beta alpha]", infos)
	}
	alpha := infos[1]
	if alpha.Turn != 3 || alpha.Month != 3 || alpha.Version != "1" || alpha.Size != len("first") || !alpha.SavedAt.Equal(older) {
		t.Fatalf("alpha info = %+v", alpha)
	}

	if err := store.PutSave(ctx, storage.SaveInfo{Name: "alpha", Turn: 9, SavedAt: newer.Add(time.Hour)}, []byte("replaced")); err != nil {
		t.Fatalf("overwrite alpha: %v", err)
	}
	data, err = store.GetSave(ctx, "alpha")
	if err != nil || string(data) != "replaced" {
		t.Fatalf("alpha after overwrite = %q, %v", data, err)
	}
	infos, err = store.ListSaves(ctx)
	if err != nil {
		t.Fatalf("list after overwrite: %v", err)
	}
	if len(infos) != 2 || infos[0].Name != "alpha" || infos[0].Turn != 9 {
		t.Fatalf("list after overwrite = %+v", infos)
	}

	if err := store.DeleteSave(ctx, "alpha"); err != nil {
		t.Fatalf("delete alpha: %v", err)
	}
	if err := store.DeleteSave(ctx, "alpha"); !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("delete missing err = %v, want ErrNotFound", err)
	}
	if _, err := store.GetSave(ctx, "alpha"); !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("get deleted err = %v, want ErrNotFound", err)
	}

	cancelled, cancel := context.WithCancel(ctx)
	cancel()
	if _, err := store.ListSaves(cancelled); err == nil {
		t.Fatal("expected cancelled context error")
	}
}
