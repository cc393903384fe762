package report

import (
	"errors"
	"fmt"
)

type State int

const (
	StateIdle State = iota
	StateCapturing
	StateRendering
	StatePaginating
	StateSaved
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateCapturing:
		return "capturing"
	case StateRendering:
		return "rendering"
	case StatePaginating:
		return "paginating"
	case StateSaved:
		return "saved"
	case StateFailed:
		return "failed"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

var (
	ErrTargetNotFound   = errors.New("export target not found")
	ErrExportInProgress = errors.New("export already in progress")
	ErrSnapshotReleased = errors.New("snapshot released")
)

// ExportError reports the stage an export failed in.
type ExportError struct {
	Target string
	State  State
	Err    error
}

func (e *ExportError) Error() string {
	return fmt.Sprintf("export of %q failed while %s: %v", e.Target, e.State, e.Err)
}

func (e *ExportError) Unwrap() error {
	return e.Err
}
