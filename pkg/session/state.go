package session

// State is a step of the load cycle.
type State int

const (
	Idle State = iota
	Fetching
	Adapting
	Clustering
	Emitting
	Done
	Failed
)

var stateNames = [...]string{"idle", "fetching", "adapting", "clustering", "emitting", "done", "failed"}

func (s State) String() string {
	if s < 0 || int(s) >= len(stateNames) {
		return "unknown"
	}
	return stateNames[s]
}

// Terminal reports whether s ends a load.
func (s State) Terminal() bool { return s == Done || s == Failed }

// Transition is delivered to observers on every state change.
type Transition struct {
	SessionID string
	From, To  State

	// Err is set when To is Failed.
	Err error
}

// Observer receives transitions. It runs synchronously on the loading
// goroutine and must not call back into the session.
type Observer func(Transition)
