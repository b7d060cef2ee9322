package app

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	apperrors "github.com/louisbranch/singularity/internal/platform/errors"
	"github.com/louisbranch/singularity/internal/platform/id"
	"github.com/louisbranch/singularity/internal/services/game/domain/aggregate"
	"github.com/louisbranch/singularity/internal/services/game/domain/core"
)

func fixedClock() time.Time {
	return time.Date(2030, time.January, 1, 12, 0, 0, 0, time.UTC)
}

func newTestSession(t *testing.T) *Session {
	t.Helper()
	s, err := NewSession(Config{
		Clock: fixedClock,
		IDs:   id.Sequence("dep"),
		Settings: func(state *aggregate.State) {
			state.Settings.AutoSave = false
		},
	})
	if err != nil {
		t.Fatalf("new session: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestNewSessionUsesClockYear(t *testing.T) {
	s := newTestSession(t)
	state := s.State()
	if state.Meta.GameTime.Year != 2030 {
		t.Fatalf("year = %d, want 2030", state.Meta.GameTime.Year)
	}
	if len(state.Research.Nodes) != len(s.Catalog.Research) {
		t.Fatalf("research nodes = %d, want %d", len(state.Research.Nodes), len(s.Catalog.Research))
	}
}

func TestSessionRunsTurns(t *testing.T) {
	s := newTestSession(t)
	s.Start()
	if got := s.Turns.Phase(); got != core.PhaseAction {
		t.Fatalf("phase = %s, want %s", got, core.PhaseAction)
	}
	if !s.EndTurn(context.Background()) {
		t.Fatal("expected end turn to run")
	}
	if got := s.State().Meta.Turn; got != 2 {
		t.Fatalf("turn = %d, want 2", got)
	}
	if got := len(s.State().Meta.TurnHistory); got != 1 {
		t.Fatalf("turn history = %d, want 1", got)
	}
}

func TestSessionStartIsIdempotent(t *testing.T) {
	s := newTestSession(t)
	s.Start()
	s.Start()
	s.EndTurn(context.Background())
	if got := s.State().Meta.Turn; got != 2 {
		t.Fatalf("turn = %d, want 2", got)
	}
}

func TestSessionSaveAndLoad(t *testing.T) {
	s := newTestSession(t)
	s.Start()
	ctx := context.Background()
	if err := s.Save(ctx, "slot"); err != nil {
		t.Fatalf("save: %v", err)
	}
	s.EndTurn(ctx)
	if err := s.Load(ctx, "slot"); err != nil {
		t.Fatalf("load: %v", err)
	}
	if got := s.State().Meta.Turn; got != 1 {
		t.Fatalf("turn after load = %d, want 1", got)
	}
	saves, err := s.Saves(ctx)
	if err != nil || len(saves) != 1 || saves[0].Name != "slot" {
		t.Fatalf("saves = %+v, %v", saves, err)
	}
	if err := s.Load(ctx, "missing"); err == nil {
		t.Fatal("expected missing slot to fail")
	}
}

func TestOpenSaveStore(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	tests := []struct {
		name string
		cfg  StoreConfig
		code apperrors.Code
	}{
		{name: "default", cfg: StoreConfig{}},
		{name: "memory", cfg: StoreConfig{Backend: "Memory"}},
		{name: "bbolt", cfg: StoreConfig{Backend: BackendBBolt, Path: filepath.Join(dir, "nested", "saves.db")}},
		{name: "sqlite", cfg: StoreConfig{Backend: BackendSQLite, Path: filepath.Join(dir, "saves.sqlite")}},
		{name: "bbolt without path", cfg: StoreConfig{Backend: BackendBBolt}, code: apperrors.CodeStorageNotConfigured},
		{name: "postgres without dsn", cfg: StoreConfig{Backend: BackendPostgres}, code: apperrors.CodeStorageNotConfigured},
		{name: "unknown", cfg: StoreConfig{Backend: "redis"}, code: apperrors.CodeUnsupportedSaveBackend},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store, err := OpenSaveStore(ctx, tt.cfg)
			if tt.code != "" {
				if got := apperrors.CodeOf(err); got != tt.code {
					t.Fatalf("code = %s, want %s (err %v)", got, tt.code, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("open: %v", err)
			}
			if err := store.Close(); err != nil {
				t.Fatalf("close: %v", err)
			}
		})
	}
}
