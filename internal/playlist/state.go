package playlist

// State is a step in the life of one catalog generation.
type State string

const (
	StateScanning      State = "scanning"
	StateWriting       State = "writing"
	StatePendingCommit State = "pending_commit"
	StateCommitted     State = "committed"
	StateAborted       State = "aborted"
	StateFailed        State = "failed"
)

// Terminal reports whether no further transition can follow s.
func (s State) Terminal() bool {
	switch s {
	case StateCommitted, StateAborted, StateFailed:
		return true
	default:
		return false
	}
}

func (s State) String() string {
	return string(s)
}
