package flagparse

import "fmt"

// Command identifies what a parsed command line asks for.
type Command int

const (
	// None means nothing should run, e.g. help was requested.
	None Command = iota
	// Stage runs a staging pass against a triplet root.
	Stage
)

var commandToString = map[Command]string{
	None:  "none",
	Stage: "stage",
}

func (c Command) String() string {
	if str, ok := commandToString[c]; ok {
		return str
	}
	return fmt.Sprintf("unknown_command(%d)", c)
}
