package core

// HistoryLimit caps every bounded history trail in the state tree.
const HistoryLimit = 10

// AppendBounded returns a fresh slice holding history plus entry, keeping
// only the newest limit entries. The input slice is never written.
func AppendBounded[T any](history []T, entry T, limit int) []T {
	if limit <= 0 {
		limit = HistoryLimit
	}
	start := 0
	if len(history)+1 > limit {
		start = len(history) + 1 - limit
	}
	out := make([]T, 0, len(history)-start+1)
	out = append(out, history[start:]...)
	return append(out, entry)
}
