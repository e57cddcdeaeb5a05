// Package hints labels errors that mean "this step was skipped" rather than
// "this step failed".
//
// A staging run has optional steps (runtime files are only staged on request)
// and steps that may legitimately have nothing to do (an empty table). Those
// outcomes are reported as hints so the engine can log them quietly and keep
// going, while real failures still end the run. Consumers test for the
// behaviour with IsHint instead of importing sentinels from every producer.
package hints

import "errors"

type hintErr struct {
	err error
}

func (h *hintErr) Error() string {
	if h == nil || h.err == nil {
		return "unknown hint"
	}
	return h.err.Error()
}

func (h *hintErr) IsHint() bool  { return true }
func (h *hintErr) Unwrap() error { return h.err }

// New creates a hint from a message.
func New(msg string) error {
	return &hintErr{err: errors.New(msg)}
}

// IsHint reports whether any error in the chain is a hint.
func IsHint(err error) bool {
	var h interface{ IsHint() bool }
	return errors.As(err, &h) && h.IsHint()
}
