package core

// Phase labels one step of the per-turn cycle.
type Phase string

const (
	PhaseStart      Phase = "START"
	PhaseAction     Phase = "ACTION"
	PhaseResolution Phase = "RESOLUTION"
	PhaseEnd        Phase = "END"
)

// Valid reports whether p is one of the four turn phases.
func (p Phase) Valid() bool {
	switch p {
	case PhaseStart, PhaseAction, PhaseResolution, PhaseEnd:
		return true
	}
	return false
}

// Next returns the phase that follows p. END loops back to START.
func (p Phase) Next() Phase {
	switch p {
	case PhaseStart:
		return PhaseAction
	case PhaseAction:
		return PhaseResolution
	case PhaseResolution:
		return PhaseEnd
	default:
		return PhaseStart
	}
}
