package layout

import (
	"github.com/pkg/errors"

	"github.com/askiada/go-shaderpipe/pkg/pipeline/model"
)

// FilterLayout is the layout of a leaf computational unit: one shader pass
// reading its input ports and writing every output port with the same format.
type FilterLayout struct {
	ComponentLayout
	shader model.ShaderSource
	format model.Format
}

// NewFilterLayout creates a filter layout without ports.
func NewFilterLayout(typeName string, format model.Format, shader model.ShaderSource) (*FilterLayout, error) {
	if typeName == "" {
		return nil, errors.Wrap(ErrInvalidName, "filter type name must be set")
	}

	if err := format.Validate(); err != nil {
		return nil, errors.Wrapf(err, "unable to create filter layout %s", typeName)
	}

	return &FilterLayout{
		ComponentLayout: newComponentLayout(typeName),
		shader:          shader,
		format:          format,
	}, nil
}

// Format returns the format shared by all output ports.
func (f *FilterLayout) Format() model.Format {
	return f.format
}

func (f *FilterLayout) Shader() model.ShaderSource {
	return f.shader
}

// ByteSize returns the size of the buffer holding every output of the filter.
func (f *FilterLayout) ByteSize() int {
	return f.format.ByteSize() * f.NumOutputPorts()
}

// Clone returns a deep copy of the filter layout.
func (f *FilterLayout) Clone() *FilterLayout {
	return &FilterLayout{
		ComponentLayout: f.clonePorts(),
		shader:          f.shader,
		format:          f.format,
	}
}

func (f *FilterLayout) clone() Component {
	return f.Clone()
}

var _ Component = (*FilterLayout)(nil)
