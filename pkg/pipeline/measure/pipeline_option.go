package measure

import (
	"time"

	"github.com/pkg/errors"

	"github.com/askiada/go-shaderpipe/pkg/pipeline/model"
)

// ErrUnknownAction is returned when a timing is reported for an action
// that was never prepared.
var ErrUnknownAction = errors.New("unknown action")

type pipelineMeasure struct {
	Measure
}

func (pm *pipelineMeasure) New() error {
	return nil
}

func (pm *pipelineMeasure) PrepareAction(action *model.ActionInfo) error {
	mt := pm.AddMetric(action.Path)
	for _, src := range action.Sources {
		mt.AddSource(src)
	}

	return nil
}

func (pm *pipelineMeasure) PrepareOutput(string, string) error {
	return nil
}

func (pm *pipelineMeasure) OnActionOutput(action *model.ActionInfo, elapsed time.Duration) error {
	mt := pm.GetMetric(action.Path)
	if mt == nil {
		return errors.Wrapf(ErrUnknownAction, "action %s", action.Path)
	}

	mt.AddDuration(elapsed)

	return nil
}

func (pm *pipelineMeasure) AfterProcess(total time.Duration) error {
	mt := pm.Frame()
	mt.AddDuration(total)
	mt.SetTotalDuration(total)

	return nil
}

func (pm *pipelineMeasure) Finish() error {
	return nil
}

// PipelineMeasure returns a hook filling measure with the duration of
// every action while performance monitoring is enabled.
func PipelineMeasure(measure Measure) model.PipelineOption {
	return &pipelineMeasure{measure}
}
