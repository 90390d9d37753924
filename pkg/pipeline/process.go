package pipeline

import (
	"time"

	"github.com/pkg/errors"

	"github.com/askiada/go-shaderpipe/pkg/pipeline/layout"
	"github.com/askiada/go-shaderpipe/pkg/pipeline/model"
)

// InputState is the state of the input submission of a pipeline.
type InputState int

const (
	// StateEmpty means no input was pushed since the last Process or Reset.
	StateEmpty InputState = iota
	// StateAccumulating means some but not all inputs were pushed.
	StateAccumulating
	// StateReady means every input port has a texture, Process may run.
	StateReady
)

func (s InputState) String() string {
	switch s {
	case StateEmpty:
		return "empty"
	case StateAccumulating:
		return "accumulating"
	case StateReady:
		return "ready"
	default:
		return "unknown"
	}
}

// State returns the input submission state.
func (p *Pipeline) State() InputState {
	switch len(p.inputs) {
	case 0:
		if len(p.inputNames) == 0 {
			return StateReady
		}

		return StateEmpty
	case len(p.inputNames):
		return StateReady
	default:
		return StateAccumulating
	}
}

// Push binds textures to the next input ports, in port order. It fails
// without binding anything if the textures do not fit in the remaining ports.
func (p *Pipeline) Push(textures ...model.Texture) error {
	if p.closed {
		return ErrClosed
	}

	if len(p.inputs)+len(textures) > len(p.inputNames) {
		return errors.Wrapf(ErrArity, "pipeline %s has %d input port(s), got %d input(s)",
			p.name, len(p.inputNames), len(p.inputs)+len(textures))
	}

	err := p.checkInputs(len(p.inputs), textures)
	if err != nil {
		return err
	}

	p.inputs = append(p.inputs, textures...)

	return nil
}

func (p *Pipeline) checkInputs(first int, textures []model.Texture) error {
	for i, t := range textures {
		if t == nil {
			return errors.Wrapf(ErrInputMustBeSet, "input %d of pipeline %s", first+i, p.name)
		}
	}

	return nil
}

// Reset drops the inputs pushed since the last Process.
func (p *Pipeline) Reset() {
	p.inputs = p.inputs[:0]
}

// Process applies the execution plan to the pushed inputs, then resets
// them. Every input port must have been pushed.
func (p *Pipeline) Process() error {
	if p.closed {
		return ErrClosed
	}

	if len(p.inputs) != len(p.inputNames) {
		return errors.Wrapf(ErrArity, "pipeline %s has %d input port(s), got %d input(s)",
			p.name, len(p.inputNames), len(p.inputs))
	}

	defer p.Reset()

	return p.process()
}

// Run replaces the pushed inputs with textures and processes them. It
// needs exactly one texture per input port; otherwise the inputs pushed
// so far are left untouched.
func (p *Pipeline) Run(textures ...model.Texture) error {
	if p.closed {
		return ErrClosed
	}

	if len(textures) != len(p.inputNames) {
		return errors.Wrapf(ErrArity, "pipeline %s has %d input port(s), got %d input(s)",
			p.name, len(p.inputNames), len(textures))
	}

	err := p.checkInputs(0, textures)
	if err != nil {
		return err
	}

	p.Reset()
	p.inputs = append(p.inputs, textures...)

	return p.Process()
}

func (p *Pipeline) process() error {
	var start time.Time
	if p.monitoring {
		start = time.Now()
	}

	for i, act := range p.actions {
		f := p.filters[act.Filter]

		for port, src := range act.Inputs {
			var texture model.Texture
			if src.Boundary {
				texture = p.inputs[src.Port]
			} else {
				texture = p.buffers[src.Filter].Attachment(src.Port)
			}

			err := f.SetInputForNextRendering(port, texture)
			if err != nil {
				return errors.Wrapf(err, "action %d", i)
			}
		}

		if !p.monitoring {
			err := f.Process(p.buffers[act.Filter])
			if err != nil {
				return errors.Wrapf(err, "action %d", i)
			}

			continue
		}

		elapsed, err := p.timedProcess(f, p.buffers[act.Filter])
		if err != nil {
			return errors.Wrapf(err, "action %d", i)
		}

		p.timings[act.Filter] = elapsed

		for _, opt := range p.hooks {
			err := opt.OnActionOutput(p.infos[i], elapsed)
			if err != nil {
				return errors.Wrap(err, "unable to run action output hook")
			}
		}
	}

	if p.monitoring {
		p.total = time.Since(start)

		for _, opt := range p.hooks {
			err := opt.AfterProcess(p.total)
			if err != nil {
				return errors.Wrap(err, "unable to run after process hook")
			}
		}
	}

	return nil
}

func (p *Pipeline) timedProcess(f *Filter, target model.Framebuffer) (time.Duration, error) {
	flusher, _ := p.device.(model.Flusher)

	if flusher != nil {
		if err := flusher.Flush(); err != nil {
			return 0, errors.Wrap(err, "unable to flush device")
		}
	}

	start := time.Now()

	err := f.Process(target)
	if err != nil {
		return 0, err
	}

	if flusher != nil {
		if err := flusher.Flush(); err != nil {
			return 0, errors.Wrap(err, "unable to flush device")
		}
	}

	return time.Since(start), nil
}

// Out returns the texture holding output port i after the last Process.
func (p *Pipeline) Out(i int) (model.Texture, error) {
	if p.closed {
		return nil, ErrClosed
	}

	if i < 0 || i >= len(p.outputs) {
		return nil, errors.Wrapf(layout.ErrInvalidPort, "pipeline %s has no output port %d", p.name, i)
	}

	src := p.outputs[i]

	return p.buffers[src.Filter].Attachment(src.Port), nil
}

// OutByName returns the texture holding the named output port.
func (p *Pipeline) OutByName(name string) (model.Texture, error) {
	for i, n := range p.outputNames {
		if n == name {
			return p.Out(i)
		}
	}

	return nil, errors.Wrapf(layout.ErrPortNotFound, "pipeline %s has no output port %q", p.name, name)
}

// EnablePerfMonitoring starts timing every action of the following frames.
func (p *Pipeline) EnablePerfMonitoring() {
	if p.monitoring {
		return
	}

	p.monitoring = true
	p.total = 0

	for i := range p.timings {
		p.timings[i] = 0
	}
}

func (p *Pipeline) DisablePerfMonitoring() {
	p.monitoring = false
}

func (p *Pipeline) IsMonitoring() bool { return p.monitoring }

// Timing returns the duration of the last pass of the filter at path.
func (p *Pipeline) Timing(path string) (time.Duration, error) {
	if !p.monitoring {
		return 0, ErrMonitoringDisabled
	}

	i, err := p.FilterIndex(path)
	if err != nil {
		return 0, err
	}

	return p.timings[i], nil
}

// TotalTiming returns the duration of the last frame.
func (p *Pipeline) TotalTiming() (time.Duration, error) {
	if !p.monitoring {
		return 0, ErrMonitoringDisabled
	}

	return p.total, nil
}
