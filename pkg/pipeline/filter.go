package pipeline

import (
	"path"

	"github.com/pkg/errors"

	"github.com/askiada/go-shaderpipe/pkg/pipeline/layout"
	"github.com/askiada/go-shaderpipe/pkg/pipeline/model"
)

// Filter drives the shader program of one flattened filter layout.
type Filter struct {
	layout  *layout.FilterLayout
	path    string
	program model.Program
	bound   []bool
}

func newFilter(device model.Device, fl *layout.FilterLayout, filterPath string) (*Filter, error) {
	if fl.NumOutputPorts() == 0 {
		return nil, errors.Wrapf(ErrNoOutput, "filter %s", filterPath)
	}

	program, err := device.NewProgram(fl.Shader(), fl.InputPorts(), fl.OutputPorts())
	if err != nil {
		return nil, errors.Wrapf(err, "unable to create program for filter %s", filterPath)
	}

	return &Filter{
		layout:  fl.Clone(),
		path:    filterPath,
		program: program,
		bound:   make([]bool, fl.NumInputPorts()),
	}, nil
}

// Path returns the slash-delimited path of the filter in the layout tree.
func (f *Filter) Path() string { return f.path }

// Name returns the element name of the filter in its enclosing pipeline.
func (f *Filter) Name() string { return path.Base(f.path) }

func (f *Filter) TypeName() string    { return f.layout.TypeName() }
func (f *Filter) NumInputPorts() int  { return f.layout.NumInputPorts() }
func (f *Filter) NumOutputPorts() int { return f.layout.NumOutputPorts() }

// Format returns the format of every output of the filter.
func (f *Filter) Format() model.Format { return f.layout.Format() }

// ByteSize returns the size of the buffer the filter renders into.
func (f *Filter) ByteSize() int { return f.layout.ByteSize() }

// Layout returns the filter layout. It must not be modified.
func (f *Filter) Layout() *layout.FilterLayout { return f.layout }

// SetInputForNextRendering binds texture to input port for the next call to Process.
func (f *Filter) SetInputForNextRendering(port int, texture model.Texture) error {
	if err := f.layout.CheckInputPort(port); err != nil {
		return errors.Wrapf(err, "filter %s", f.path)
	}

	if texture == nil {
		return errors.Wrapf(ErrInputMustBeSet, "filter %s port %d", f.path, port)
	}

	if err := f.program.SetInput(port, texture); err != nil {
		return errors.Wrapf(err, "unable to set input %d of filter %s", port, f.path)
	}

	f.bound[port] = true

	return nil
}

// Process runs one rendering pass into target. Every input port must have
// been set since the previous pass.
func (f *Filter) Process(target model.Framebuffer) error {
	if target == nil {
		return errors.Wrapf(ErrInputMustBeSet, "filter %s has no target", f.path)
	}

	if target.Format() != f.Format() || target.AttachmentCount() != f.NumOutputPorts() {
		return errors.Wrapf(ErrFormatMismatch, "filter %s renders %s x%d into %s x%d",
			f.path, f.Format(), f.NumOutputPorts(), target.Format(), target.AttachmentCount())
	}

	for port, ok := range f.bound {
		if !ok {
			name, _ := f.layout.InputPortName(port)
			return errors.Wrapf(ErrInputMustBeSet, "filter %s input port %s not set", f.path, name)
		}
	}

	err := f.program.Render(target)
	if err != nil {
		return errors.Wrapf(err, "unable to render filter %s", f.path)
	}

	for port := range f.bound {
		f.bound[port] = false
	}

	return nil
}

func (f *Filter) release() error {
	return f.program.Release()
}
