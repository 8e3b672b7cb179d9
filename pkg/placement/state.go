package placement

import "fmt"

// State is the progress of one unit through a placement run.
type State int

const (
	StatePending State = iota
	StateRotated
	StateMeasured
	StateFitted
	StateGreenExtracted
	StateGreenMeasured
	StateGreenFitted
	StateDone
	StateFailed
)

var stateNames = [...]string{
	StatePending:        "pending",
	StateRotated:        "rotated",
	StateMeasured:       "measured",
	StateFitted:         "fitted",
	StateGreenExtracted: "green_extracted",
	StateGreenMeasured:  "green_measured",
	StateGreenFitted:    "green_fitted",
	StateDone:           "done",
	StateFailed:         "failed",
}

func (s State) String() string {
	if s >= 0 && int(s) < len(stateNames) {
		return stateNames[s]
	}
	return fmt.Sprintf("State(%d)", int(s))
}

// Terminal reports whether no further transition leaves s.
func (s State) Terminal() bool { return s == StateDone || s == StateFailed }

// MarshalText encodes the state by name.
func (s State) MarshalText() ([]byte, error) { return []byte(s.String()), nil }

// UnmarshalText decodes a state name.
func (s *State) UnmarshalText(b []byte) error {
	for i, name := range stateNames {
		if name == string(b) {
			*s = State(i)
			return nil
		}
	}
	return fmt.Errorf("unknown state %q", b)
}
