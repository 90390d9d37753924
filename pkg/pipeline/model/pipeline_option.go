package model

import "time"

// PipelineOption defines the interface for hooks attached to a pipeline.
type PipelineOption interface {
	// New runs when the pipeline starts building.
	New() error

	pipelineBuildOption
	pipelineProcessOption

	// Finish runs when the pipeline is closed.
	Finish() error
}

// pipelineBuildOption defines the hooks called once the execution plan is known.
type pipelineBuildOption interface {
	// PrepareAction runs once for every scheduled action, in execution order.
	PrepareAction(action *ActionInfo) error
	// PrepareOutput runs once for every output port of the pipeline.
	PrepareOutput(port string, source string) error
}

// pipelineProcessOption defines the hooks called while processing.
// They only run when performance monitoring is enabled.
type pipelineProcessOption interface {
	// OnActionOutput runs after each rendering pass.
	OnActionOutput(action *ActionInfo, elapsed time.Duration) error
	// AfterProcess runs once all actions of a frame were applied.
	AfterProcess(total time.Duration) error
}
