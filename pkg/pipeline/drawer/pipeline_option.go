package drawer

import (
	"strconv"
	"strings"
	"time"

	"github.com/pkg/errors"

	"github.com/askiada/go-shaderpipe/pkg/pipeline/measure"
	"github.com/askiada/go-shaderpipe/pkg/pipeline/model"
)

// OutputPrefix prefixes the nodes standing for pipeline outputs.
const OutputPrefix = "output:"

type pipelineDrawer struct {
	Drawer
	m measure.Measure
}

func (pd *pipelineDrawer) New() error {
	return nil
}

func (pd *pipelineDrawer) PrepareAction(action *model.ActionInfo) error {
	label := action.TypeName
	if action.Reused {
		label += " (reused buffer)"
	}

	err := pd.AddNode(action.Path, label)
	if err != nil {
		return errors.Wrapf(err, "unable to add action %s to drawer", action.Path)
	}

	for port, src := range action.Sources {
		if strings.HasPrefix(src, model.BoundaryPrefix) {
			err := pd.AddNode(src, "pipeline input")
			if err != nil {
				return errors.Wrapf(err, "unable to add input %s to drawer", src)
			}
		}

		err := pd.AddLink(src, action.Path, strconv.Itoa(port))
		if err != nil {
			return err
		}
	}

	return nil
}

func (pd *pipelineDrawer) PrepareOutput(port, source string) error {
	err := pd.AddNode(OutputPrefix+port, "pipeline output")
	if err != nil {
		return errors.Wrapf(err, "unable to add output %s to drawer", port)
	}

	return pd.AddLink(source, OutputPrefix+port, port)
}

func (pd *pipelineDrawer) OnActionOutput(*model.ActionInfo, time.Duration) error {
	return nil
}

func (pd *pipelineDrawer) AfterProcess(time.Duration) error {
	return nil
}

func (pd *pipelineDrawer) Finish() error {
	if pd.m != nil {
		err := pd.AddMeasure(pd.m)
		if err != nil {
			return errors.Wrap(err, "unable to add measure")
		}
	}

	err := pd.Draw()
	if err != nil {
		return errors.Wrap(err, "unable to draw pipeline")
	}

	return nil
}

// PipelineDrawer returns a hook drawing the execution plan when the
// pipeline is closed. When measure is not nil, it must be filled by a
// measure.PipelineMeasure hook attached to the same pipeline.
func PipelineDrawer(drawer Drawer, measure measure.Measure) model.PipelineOption {
	return &pipelineDrawer{drawer, measure}
}
