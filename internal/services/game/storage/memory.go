package storage

import (
	"context"
	"slices"
	"strings"
	"sync"
)

type memorySave struct {
	info SaveInfo
	data []byte
}

// Memory is an in-process SaveStore.
type Memory struct {
	mu    sync.RWMutex
	saves map[string]memorySave
}

// NewMemory returns an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{saves: make(map[string]memorySave)}
}

// PutSave stores a copy of data under info.Name.
func (m *Memory) PutSave(ctx context.Context, info SaveInfo, data []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	name, err := NormalizeName(info.Name)
	if err != nil {
		return err
	}
	info.Name = name
	info.Size = len(data)
	m.mu.Lock()
	defer m.mu.Unlock()
	m.saves[name] = memorySave{info: info, data: slices.Clone(data)}
	return nil
}

// GetSave returns a copy of the slot's data.
func (m *Memory) GetSave(ctx context.Context, name string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	save, ok := m.saves[strings.TrimSpace(name)]
	if !ok {
		return nil, ErrNotFound
	}
	return slices.Clone(save.data), nil
}

// ListSaves returns every slot, most recently saved first.
func (m *Memory) ListSaves(ctx context.Context) ([]SaveInfo, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.RLock()
	out := make([]SaveInfo, 0, len(m.saves))
	for _, save := range m.saves {
		out = append(out, save.info)
	}
	m.mu.RUnlock()
	SortNewestFirst(out)
	return out, nil
}

// DeleteSave removes a slot.
func (m *Memory) DeleteSave(ctx context.Context, name string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	name = strings.TrimSpace(name)
	if _, ok := m.saves[name]; !ok {
		return ErrNotFound
	}
	delete(m.saves, name)
	return nil
}

// Close is a no-op.
func (m *Memory) Close() error { return nil }

// SortNewestFirst orders infos by save time descending, then by name.
func SortNewestFirst(infos []SaveInfo) {
	slices.SortFunc(infos, func(a, b SaveInfo) int {
		if c := b.SavedAt.Compare(a.SavedAt); c != 0 {
			return c
		}
		return strings.Compare(a.Name, b.Name)
	})
}
