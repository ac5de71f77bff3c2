package search

import "fmt"

// State is the single observable state of a search
type State int

const (
	StateInitial State = iota
	StateLoading
	StateError
	StateResults
	StateNoResults
	StateNoMoreResults
)

var stateNames = map[State]string{
	StateInitial:       "INITIAL",
	StateLoading:       "LOADING",
	StateError:         "ERROR",
	StateResults:       "RESULTS",
	StateNoResults:     "NO_RESULTS",
	StateNoMoreResults: "NO_MORE_RESULTS",
}

func (s State) String() string {
	if name, ok := stateNames[s]; ok {
		return name
	}
	return fmt.Sprintf("State(%d)", int(s))
}

// MarshalText encodes the state by name
func (s State) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// StateInputs are the facts the state is derived from
type StateInputs struct {
	QueryDefined bool
	Loading      bool
	Failed       bool
	ItemCount    int
	Exhausted    bool
}

// DeriveState computes the state. Error wins over everything, then loading.
func DeriveState(in StateInputs) State {
	switch {
	case in.Failed:
		return StateError
	case in.Loading:
		return StateLoading
	case !in.QueryDefined:
		return StateInitial
	case in.ItemCount == 0:
		return StateNoResults
	case in.Exhausted:
		return StateNoMoreResults
	default:
		return StateResults
	}
}
