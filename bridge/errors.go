package bridge

import (
	"errors"
	"fmt"
)

// ErrFeedbackLoopViolation marks a user-tagged change observed while the
// element itself was writing to the editor. It indicates a defect in the
// engine's source tagging; the change is logged and never emitted.
var ErrFeedbackLoopViolation = errors.New("bridge: feedback loop violation")

// InitializationError reports that Attach could not build the editor. The
// element stays detached.
type InitializationError struct {
	ID  string
	Err error
}

func (e *InitializationError) Error() string {
	return fmt.Sprintf("bridge: initialize element %s: %v", e.ID, e.Err)
}

func (e *InitializationError) Unwrap() error { return e.Err }
