package pipeline

import (
	"github.com/pkg/errors"
)

var (
	ErrLayoutMustBeSet    = errors.New("layout must be set")
	ErrDeviceMustBeSet    = errors.New("device must be set")
	ErrInputMustBeSet     = errors.New("input must be set")
	ErrBuild              = errors.New("unable to build pipeline")
	ErrCycle              = errors.New("unconnected or cyclic graph")
	ErrUnconnected        = errors.New("unconnected port")
	ErrNoOutput           = errors.New("filter has no output port")
	ErrFormatMismatch     = errors.New("format mismatch")
	ErrArity              = errors.New("wrong number of inputs")
	ErrMonitoringDisabled = errors.New("performance monitoring is disabled")
	ErrClosed             = errors.New("pipeline is closed")
)

// BuildError is returned by New when a layout cannot be turned into an
// execution plan. It matches ErrBuild and unwraps to the cause.
type BuildError struct {
	Pipeline string
	Err      error
}

func (e *BuildError) Error() string {
	return "unable to build pipeline " + e.Pipeline + ": " + e.Err.Error()
}

func (e *BuildError) Unwrap() error {
	return e.Err
}

func (e *BuildError) Is(target error) bool {
	return target == ErrBuild
}
