package layout

import (
	"github.com/pkg/errors"
)

type element struct {
	name      string
	component Component
}

// PipelineLayout is the layout of a composite node.
type PipelineLayout struct {
	ComponentLayout
	elements    []element
	connections []Connection
}

// NewPipelineLayout creates an empty pipeline layout.
func NewPipelineLayout(typeName string) *PipelineLayout {
	return &PipelineLayout{
		ComponentLayout: newComponentLayout(typeName),
	}
}

// Add appends a deep copy of component as a child named name and returns
// its local index.
func (p *PipelineLayout) Add(component Component, name string) (int, error) {
	switch c := component.(type) {
	case *FilterLayout:
		if c == nil {
			return 0, errors.Wrapf(ErrElementNotFound, "unable to add nil filter %q", name)
		}
	case *PipelineLayout:
		if c == nil {
			return 0, errors.Wrapf(ErrElementNotFound, "unable to add nil pipeline %q", name)
		}
	default:
		return 0, errors.Wrapf(ErrElementNotFound, "unable to add component %q of type %T", name, component)
	}

	if err := validName(name); err != nil {
		return 0, errors.Wrapf(err, "unable to add element to %s", p.typeName)
	}

	if name == ThisName {
		return 0, errors.Wrapf(ErrInvalidName, "element name %q is reserved in %s", name, p.typeName)
	}

	if p.DoesElementExist(name) {
		return 0, errors.Wrapf(ErrDuplicateName, "element %q in %s", name, p.typeName)
	}

	p.elements = append(p.elements, element{name: name, component: component.clone()})

	return len(p.elements) - 1, nil
}

func (p *PipelineLayout) NumElements() int {
	return len(p.elements)
}

func (p *PipelineLayout) checkElement(i int) error {
	if i < 0 || i >= len(p.elements) {
		return errors.Wrapf(ErrElementNotFound, "element %d of %s (%d elements)", i, p.typeName, len(p.elements))
	}

	return nil
}

func (p *PipelineLayout) ElementName(i int) (string, error) {
	if err := p.checkElement(i); err != nil {
		return "", err
	}

	return p.elements[i].name, nil
}

// ElementKind returns the kind of element i. ThisPipeline is KindBoundary.
func (p *PipelineLayout) ElementKind(i int) (Kind, error) {
	if i == ThisPipeline {
		return KindBoundary, nil
	}

	if err := p.checkElement(i); err != nil {
		return 0, err
	}

	return kindOf(p.elements[i].component), nil
}

// ElementIndex returns the local index of the element named name.
// The lookup is not recursive.
func (p *PipelineLayout) ElementIndex(name string) (int, error) {
	for i, e := range p.elements {
		if e.name == name {
			return i, nil
		}
	}

	return 0, errors.Wrapf(ErrElementNotFound, "%q in %s", name, p.typeName)
}

func (p *PipelineLayout) DoesElementExist(name string) bool {
	_, err := p.ElementIndex(name)

	return err == nil
}

// Element returns the layout of element i.
func (p *PipelineLayout) Element(i int) (Component, error) {
	if err := p.checkElement(i); err != nil {
		return nil, err
	}

	return p.elements[i].component, nil
}

// FilterLayout returns element i if it is a filter.
func (p *PipelineLayout) FilterLayout(i int) (*FilterLayout, error) {
	c, err := p.Element(i)
	if err != nil {
		return nil, err
	}

	f, ok := c.(*FilterLayout)
	if !ok {
		return nil, errors.Wrapf(ErrWrongKind, "element %q of %s is not a filter", p.elements[i].name, p.typeName)
	}

	return f, nil
}

// PipelineLayout returns element i if it is a pipeline. The result may be
// modified in place to edit the nested layout.
func (p *PipelineLayout) PipelineLayout(i int) (*PipelineLayout, error) {
	c, err := p.Element(i)
	if err != nil {
		return nil, err
	}

	sub, ok := c.(*PipelineLayout)
	if !ok {
		return nil, errors.Wrapf(ErrWrongKind, "element %q of %s is not a pipeline", p.elements[i].name, p.typeName)
	}

	return sub, nil
}

// SubPipeline returns the read-only view of element i if it is a pipeline.
func (p *PipelineLayout) SubPipeline(i int) (Reader, error) {
	sub, err := p.PipelineLayout(i)
	if err != nil {
		return nil, err
	}

	return sub, nil
}

// Info returns the total number of filters and pipelines of the subtree,
// this pipeline included.
func (p *PipelineLayout) Info() (int, int) {
	filters, pipelines := 0, 1

	for _, e := range p.elements {
		switch c := e.component.(type) {
		case *FilterLayout:
			filters++
		case *PipelineLayout:
			f, sub := c.Info()
			filters += f
			pipelines += sub
		}
	}

	return filters, pipelines
}

// Clone returns a deep copy of the layout and all nested elements.
func (p *PipelineLayout) Clone() *PipelineLayout {
	cp := &PipelineLayout{
		ComponentLayout: p.clonePorts(),
		elements:        make([]element, len(p.elements)),
		connections:     append([]Connection(nil), p.connections...),
	}

	for i, e := range p.elements {
		cp.elements[i] = element{name: e.name, component: e.component.clone()}
	}

	return cp
}

func (p *PipelineLayout) clone() Component {
	return p.Clone()
}
