package engine

import "fmt"

// State is a step of a staging run.
type State int

const (
	StateValidateRoot State = iota
	StateStageHeaders
	StateStageLibs
	StateStageRuntime
	StateDone
)

var stateToString = map[State]string{
	StateValidateRoot: "VALIDATE_ROOT",
	StateStageHeaders: "STAGE_HEADERS",
	StateStageLibs:    "STAGE_LIBS",
	StateStageRuntime: "STAGE_RUNTIME",
	StateDone:         "DONE",
}

// String returns the string representation of a State.
func (s State) String() string {
	if str, ok := stateToString[s]; ok {
		return str
	}
	return fmt.Sprintf("unknown_state(%d)", s)
}
