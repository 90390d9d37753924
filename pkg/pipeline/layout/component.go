package layout

import (
	"strings"

	"github.com/pkg/errors"
)

// Separator delimits element names in a layout path.
const Separator = "/"

// Component is the port interface shared by filter and pipeline layouts.
// It is implemented by *FilterLayout and *PipelineLayout only.
type Component interface {
	TypeName() string
	NumInputPorts() int
	NumOutputPorts() int
	InputPortName(i int) (string, error)
	OutputPortName(i int) (string, error)
	InputPortIndex(name string) (int, error)
	OutputPortIndex(name string) (int, error)
	CheckInputPort(i int) error
	CheckOutputPort(i int) error
	InputPorts() []string
	OutputPorts() []string

	clone() Component
}

// ComponentLayout holds the typed port interface of a node.
// Port names are unique within their direction and never change once added.
type ComponentLayout struct {
	typeName string
	inputs   []string
	outputs  []string
}

func newComponentLayout(typeName string) ComponentLayout {
	return ComponentLayout{typeName: typeName}
}

func validName(name string) error {
	if name == "" || strings.ContainsAny(name, Separator+PortSeparator) {
		return errors.Wrapf(ErrInvalidName, "%q", name)
	}

	return nil
}

// TypeName returns the name of the component type.
func (c *ComponentLayout) TypeName() string {
	return c.typeName
}

// AddInput adds an input port and returns its index.
func (c *ComponentLayout) AddInput(name string) (int, error) {
	return addPort(&c.inputs, name, "input")
}

// AddOutput adds an output port and returns its index.
func (c *ComponentLayout) AddOutput(name string) (int, error) {
	return addPort(&c.outputs, name, "output")
}

func addPort(ports *[]string, name, direction string) (int, error) {
	if err := validName(name); err != nil {
		return 0, errors.Wrapf(err, "unable to add %s port", direction)
	}

	if indexOf(*ports, name) >= 0 {
		return 0, errors.Wrapf(ErrDuplicateName, "%s port %q", direction, name)
	}

	*ports = append(*ports, name)

	return len(*ports) - 1, nil
}

func indexOf(names []string, name string) int {
	for i, n := range names {
		if n == name {
			return i
		}
	}

	return -1
}

func (c *ComponentLayout) NumInputPorts() int  { return len(c.inputs) }
func (c *ComponentLayout) NumOutputPorts() int { return len(c.outputs) }

// CheckInputPort returns ErrInvalidPort if i is not an input port index.
func (c *ComponentLayout) CheckInputPort(i int) error {
	if i < 0 || i >= len(c.inputs) {
		return errors.Wrapf(ErrInvalidPort, "input port %d of %s (%d ports)", i, c.typeName, len(c.inputs))
	}

	return nil
}

// CheckOutputPort returns ErrInvalidPort if i is not an output port index.
func (c *ComponentLayout) CheckOutputPort(i int) error {
	if i < 0 || i >= len(c.outputs) {
		return errors.Wrapf(ErrInvalidPort, "output port %d of %s (%d ports)", i, c.typeName, len(c.outputs))
	}

	return nil
}

func (c *ComponentLayout) InputPortName(i int) (string, error) {
	if err := c.CheckInputPort(i); err != nil {
		return "", err
	}

	return c.inputs[i], nil
}

func (c *ComponentLayout) OutputPortName(i int) (string, error) {
	if err := c.CheckOutputPort(i); err != nil {
		return "", err
	}

	return c.outputs[i], nil
}

func (c *ComponentLayout) InputPortIndex(name string) (int, error) {
	i := indexOf(c.inputs, name)
	if i < 0 {
		return 0, errors.Wrapf(ErrPortNotFound, "input port %q of %s", name, c.typeName)
	}

	return i, nil
}

func (c *ComponentLayout) OutputPortIndex(name string) (int, error) {
	i := indexOf(c.outputs, name)
	if i < 0 {
		return 0, errors.Wrapf(ErrPortNotFound, "output port %q of %s", name, c.typeName)
	}

	return i, nil
}

// InputPorts returns a copy of the input port names, in index order.
func (c *ComponentLayout) InputPorts() []string {
	return append([]string(nil), c.inputs...)
}

// OutputPorts returns a copy of the output port names, in index order.
func (c *ComponentLayout) OutputPorts() []string {
	return append([]string(nil), c.outputs...)
}

func (c *ComponentLayout) clonePorts() ComponentLayout {
	return ComponentLayout{
		typeName: c.typeName,
		inputs:   c.InputPorts(),
		outputs:  c.OutputPorts(),
	}
}
