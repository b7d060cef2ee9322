// Package settings holds user preferences that travel with a save.
package settings

import "github.com/louisbranch/singularity/internal/services/game/domain/action"

// State is the settings slice.
type State struct {
	AutoSave     bool   `json:"autoSave"`
	AutoSaveSlot string `json:"autoSaveSlot"`
	Difficulty   string `json:"difficulty"`
	TurnConfirm  bool   `json:"turnConfirm"`
	Language     string `json:"language"`
}

// New returns default preferences.
func New() *State {
	return &State{
		AutoSave:     true,
		AutoSaveSlot: "autosave",
		Difficulty:   "normal",
		Language:     "en-US",
	}
}

// ReduceHandledTypes returns the action types handled by Reduce.
func ReduceHandledTypes() []action.Type {
	return []action.Type{action.TypeUpdateSettings}
}

// Reduce applies an action to the settings slice. It returns s itself when
// the action changes nothing.
func Reduce(s *State, act action.Action) *State {
	a, ok := act.(action.UpdateSettings)
	if !ok || s == nil {
		return s
	}
	next := *s
	if a.AutoSave != nil {
		next.AutoSave = *a.AutoSave
	}
	if a.AutoSaveSlot != nil && *a.AutoSaveSlot != "" {
		next.AutoSaveSlot = *a.AutoSaveSlot
	}
	if a.Difficulty != nil && *a.Difficulty != "" {
		next.Difficulty = *a.Difficulty
	}
	if a.TurnConfirm != nil {
		next.TurnConfirm = *a.TurnConfirm
	}
	if a.Language != nil && *a.Language != "" {
		next.Language = *a.Language
	}
	if next == *s {
		return s
	}
	return &next
}
