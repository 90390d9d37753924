package pipeline

import (
	"time"

	"github.com/pkg/errors"
	"github.com/rs/xid"
	"github.com/sirupsen/logrus"

	"github.com/askiada/go-shaderpipe/internal/log"
	"github.com/askiada/go-shaderpipe/pkg/pipeline/layout"
	"github.com/askiada/go-shaderpipe/pkg/pipeline/model"
)

// Pipeline is the executable form of a pipeline layout: the flattened list
// of filters, the buffers they render into and a fixed execution plan.
type Pipeline struct {
	id     string
	name   string
	log    logrus.FieldLogger
	device model.Device
	hooks  []model.PipelineOption

	inputNames  []string
	outputNames []string

	filters []*Filter
	paths   map[string]int
	// buffers holds the render target of each filter, indexed like filters.
	// Several filters may share the same framebuffer.
	buffers   []model.Framebuffer
	allocated []model.Framebuffer
	actions   []Action
	infos     []*model.ActionInfo
	outputs   []Source

	inputs []model.Texture

	monitoring bool
	timings    []time.Duration
	total      time.Duration

	closed bool
}

// New builds a pipeline from root. The layout is not retained and may be
// modified or discarded once New returns. Resources allocated before a
// failure are released and the error is a *BuildError.
func New(root layout.Reader, device model.Device, opts ...Option) (*Pipeline, error) {
	if root == nil {
		return nil, ErrLayoutMustBeSet
	}

	if device == nil {
		return nil, ErrDeviceMustBeSet
	}

	p := &Pipeline{
		id:     xid.New().String(),
		name:   root.TypeName(),
		device: device,
		paths:  make(map[string]int),
	}

	for _, opt := range opts {
		opt(p)
	}

	if p.log == nil {
		p.log = log.GetLogger()
	}

	p.log = p.log.WithFields(logrus.Fields{"pipeline": p.name, "id": p.id})

	err := p.build(root)
	if err != nil {
		return nil, &BuildError{Pipeline: p.name, Err: err}
	}

	return p, nil
}

func (p *Pipeline) build(root layout.Reader) (err error) {
	defer func() {
		if err != nil {
			if relErr := p.release(); relErr != nil {
				p.log.WithError(relErr).Warn("unable to release resources of failed build")
			}
		}
	}()

	for _, opt := range p.hooks {
		err := opt.New()
		if err != nil {
			return errors.Wrap(err, "unable to apply pipeline option")
		}
	}

	err = root.Check()
	if err != nil {
		return errors.Wrap(err, "invalid layout")
	}

	p.inputNames = root.InputPorts()
	p.outputNames = root.OutputPorts()

	flat, err := flatten(root)
	if err != nil {
		return errors.Wrap(err, "unable to flatten layout")
	}

	p.log.Debugf("flattened %d filter(s), %d nested pipeline(s), %d connection(s)",
		len(flat.filters), len(flat.slots)-1, len(flat.connections))

	for i, ff := range flat.filters {
		f, err := newFilter(p.device, ff.layout, ff.path)
		if err != nil {
			return err
		}

		p.filters = append(p.filters, f)
		p.paths[ff.path] = i
	}

	merges, err := flat.splice()
	if err != nil {
		return errors.Wrap(err, "unable to splice nested pipelines")
	}

	p.log.Debugf("spliced %d connection(s) through nested pipelines", merges)

	p.buffers = make([]model.Framebuffer, len(p.filters))
	p.timings = make([]time.Duration, len(p.filters))

	s := newScheduler(p)

	err = s.resolve(flat.connections)
	if err != nil {
		return errors.Wrap(err, "unable to resolve connections")
	}

	err = s.run()
	if err != nil {
		return errors.Wrap(err, "unable to schedule filters")
	}

	p.log.Debugf("built %d action(s) using %d buffer(s)", len(p.actions), len(p.allocated))

	return p.prepareHooks()
}

func (p *Pipeline) prepareHooks() error {
	p.infos = make([]*model.ActionInfo, len(p.actions))

	for i, act := range p.actions {
		f := p.filters[act.Filter]
		sources := make([]string, len(act.Inputs))

		for port, src := range act.Inputs {
			sources[port] = p.sourceName(src)
		}

		p.infos[i] = &model.ActionInfo{
			Index:    i,
			Filter:   act.Filter,
			Path:     f.Path(),
			TypeName: f.TypeName(),
			Sources:  sources,
			Reused:   act.Reused,
		}

		for _, opt := range p.hooks {
			err := opt.PrepareAction(p.infos[i])
			if err != nil {
				return errors.Wrapf(err, "unable to prepare action %s", f.Path())
			}
		}
	}

	for port, src := range p.outputs {
		for _, opt := range p.hooks {
			err := opt.PrepareOutput(p.outputNames[port], p.sourceName(src))
			if err != nil {
				return errors.Wrapf(err, "unable to prepare output %s", p.outputNames[port])
			}
		}
	}

	return nil
}

func (p *Pipeline) sourceName(src Source) string {
	if src.Boundary {
		return model.BoundaryPrefix + p.inputNames[src.Port]
	}

	return p.filters[src.Filter].Path()
}

// release frees every buffer and program. It is safe to call on a
// partially built pipeline.
func (p *Pipeline) release() error {
	var first error

	for _, fb := range p.allocated {
		if err := fb.Release(); err != nil && first == nil {
			first = errors.Wrap(err, "unable to release buffer")
		}
	}

	for _, f := range p.filters {
		if err := f.release(); err != nil && first == nil {
			first = errors.Wrapf(err, "unable to release filter %s", f.Path())
		}
	}

	p.allocated = nil
	p.buffers = nil
	p.filters = nil
	p.inputs = nil

	return first
}

// Close releases all buffers and programs owned by the pipeline and runs
// the Finish hooks.
func (p *Pipeline) Close() error {
	if p.closed {
		return ErrClosed
	}

	p.closed = true
	err := p.release()

	for _, opt := range p.hooks {
		if hookErr := opt.Finish(); hookErr != nil && err == nil {
			err = errors.Wrap(hookErr, "unable to finish pipeline option")
		}
	}

	return err
}

// Abort releases all buffers and programs like Close, but skips the Finish
// hooks. Use it when a run failed and hook reports would be partial.
func (p *Pipeline) Abort() error {
	if p.closed {
		return ErrClosed
	}

	p.closed = true

	return p.release()
}

// ID returns the unique identifier of this pipeline instance.
func (p *Pipeline) ID() string { return p.id }

func (p *Pipeline) Name() string { return p.name }

func (p *Pipeline) NumInputPorts() int  { return len(p.inputNames) }
func (p *Pipeline) NumOutputPorts() int { return len(p.outputNames) }

func (p *Pipeline) InputPorts() []string  { return append([]string(nil), p.inputNames...) }
func (p *Pipeline) OutputPorts() []string { return append([]string(nil), p.outputNames...) }

// NumFilters returns the number of flattened filters.
func (p *Pipeline) NumFilters() int { return len(p.filters) }

// NumBuffers returns the number of distinct buffers allocated by the build.
func (p *Pipeline) NumBuffers() int { return len(p.allocated) }

// Size returns the byte size of all allocated buffers.
func (p *Pipeline) Size() int {
	size := 0
	for _, fb := range p.allocated {
		size += fb.ByteSize()
	}

	return size
}

// Plan returns a copy of the execution plan.
func (p *Pipeline) Plan() []Action {
	plan := make([]Action, len(p.actions))
	for i, act := range p.actions {
		plan[i] = Action{Filter: act.Filter, Inputs: append([]Source(nil), act.Inputs...), Reused: act.Reused}
	}

	return plan
}

// FilterIndex returns the global index of the filter at path, a
// slash-delimited list of element names from the root layout.
func (p *Pipeline) FilterIndex(path string) (int, error) {
	i, ok := p.paths[path]
	if !ok {
		return 0, errors.Wrapf(layout.ErrElementNotFound, "no filter at %q in pipeline %s", path, p.name)
	}

	return i, nil
}

// Filter returns the filter at path.
func (p *Pipeline) Filter(path string) (*Filter, error) {
	i, err := p.FilterIndex(path)
	if err != nil {
		return nil, err
	}

	return p.filters[i], nil
}

// FilterAt returns the filter with global index i.
func (p *Pipeline) FilterAt(i int) (*Filter, error) {
	if i < 0 || i >= len(p.filters) {
		return nil, errors.Wrapf(layout.ErrElementNotFound, "filter %d of pipeline %s", i, p.name)
	}

	return p.filters[i], nil
}
