package planner

import "fmt"

// Mode tells whether a run writes files or only reports them.
type Mode int

const (
	Apply Mode = iota
	Preview
)

var modeToString = map[Mode]string{
	Apply:   "apply",
	Preview: "preview",
}

// String returns the string representation of a Mode.
func (m Mode) String() string {
	if str, ok := modeToString[m]; ok {
		return str
	}
	return fmt.Sprintf("unknown_stage_mode(%d)", m)
}

func modeFromDryRun(dryRun bool) Mode {
	if dryRun {
		return Preview
	}
	return Apply
}
