package loader

import (
	"io"
	"os"
	"strings"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/askiada/go-shaderpipe/pkg/pipeline/layout"
	"github.com/askiada/go-shaderpipe/pkg/pipeline/model"
)

var (
	ErrMissingMain   = errors.New("main pipeline must be set")
	ErrUnknownType   = errors.New("unknown component type")
	ErrTypeConflict  = errors.New("type declared as filter and pipeline")
	ErrRecursiveType = errors.New("pipeline type contains itself")
	ErrEndpoint      = errors.New("invalid endpoint")
)

// Load decodes the layout described by the YAML file fileName.
func Load(fileName string) (*layout.PipelineLayout, error) {
	file, err := os.Open(fileName)
	if err != nil {
		return nil, errors.Wrapf(err, "unable to open %s", fileName)
	}
	defer file.Close()

	l, err := Decode(file)
	if err != nil {
		return nil, errors.Wrapf(err, "unable to load %s", fileName)
	}

	return l, nil
}

// Decode reads a YAML document and builds its main pipeline. Unknown
// fields are rejected.
func Decode(r io.Reader) (*layout.PipelineLayout, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var doc Document

	err := dec.Decode(&doc)
	if err != nil {
		return nil, errors.Wrap(err, "unable to decode document")
	}

	return doc.Build()
}

// Build turns the document into the layout of its main pipeline.
func (doc *Document) Build() (*layout.PipelineLayout, error) {
	if doc.Main == "" {
		return nil, ErrMissingMain
	}

	for name := range doc.Filters {
		if _, ok := doc.Pipelines[name]; ok {
			return nil, errors.Wrapf(ErrTypeConflict, "type %q", name)
		}
	}

	b := &builder{
		doc:       doc,
		filters:   make(map[string]*layout.FilterLayout),
		pipelines: make(map[string]*layout.PipelineLayout),
		visiting:  make(map[string]bool),
	}

	return b.pipeline(doc.Main)
}

type builder struct {
	doc       *Document
	filters   map[string]*layout.FilterLayout
	pipelines map[string]*layout.PipelineLayout
	visiting  map[string]bool
}

func (b *builder) component(typeName string) (layout.Component, error) {
	if _, ok := b.doc.Filters[typeName]; ok {
		return b.filter(typeName)
	}

	if _, ok := b.doc.Pipelines[typeName]; ok {
		return b.pipeline(typeName)
	}

	return nil, errors.Wrapf(ErrUnknownType, "type %q", typeName)
}

func (b *builder) filter(typeName string) (*layout.FilterLayout, error) {
	if f, ok := b.filters[typeName]; ok {
		return f, nil
	}

	spec := b.doc.Filters[typeName]

	pixel, err := model.PixelByName(spec.Format.Pixel)
	if err != nil {
		return nil, errors.Wrapf(err, "filter %q", typeName)
	}

	shader := model.ShaderSource{Name: spec.Shader, Code: spec.Code}
	if shader.Name == "" {
		shader.Name = typeName
	}

	format := model.Format{Width: spec.Format.Width, Height: spec.Format.Height, Pixel: pixel}

	f, err := layout.NewFilterLayout(typeName, format, shader)
	if err != nil {
		return nil, errors.Wrapf(err, "filter %q", typeName)
	}

	err = addPorts(&f.ComponentLayout, spec.Inputs, spec.Outputs)
	if err != nil {
		return nil, errors.Wrapf(err, "filter %q", typeName)
	}

	b.filters[typeName] = f

	return f, nil
}

func (b *builder) pipeline(typeName string) (*layout.PipelineLayout, error) {
	if p, ok := b.pipelines[typeName]; ok {
		return p, nil
	}

	spec, ok := b.doc.Pipelines[typeName]
	if !ok {
		return nil, errors.Wrapf(ErrUnknownType, "pipeline %q", typeName)
	}

	if b.visiting[typeName] {
		return nil, errors.Wrapf(ErrRecursiveType, "pipeline %q", typeName)
	}

	b.visiting[typeName] = true
	defer delete(b.visiting, typeName)

	p := layout.NewPipelineLayout(typeName)

	err := addPorts(&p.ComponentLayout, spec.Inputs, spec.Outputs)
	if err != nil {
		return nil, errors.Wrapf(err, "pipeline %q", typeName)
	}

	for _, e := range spec.Elements {
		c, err := b.component(e.Type)
		if err != nil {
			return nil, errors.Wrapf(err, "element %q of pipeline %q", e.Name, typeName)
		}

		_, err = p.Add(c, e.Name)
		if err != nil {
			return nil, errors.Wrapf(err, "pipeline %q", typeName)
		}
	}

	for _, c := range spec.Connections {
		err := connect(p, c)
		if err != nil {
			return nil, errors.Wrapf(err, "pipeline %q", typeName)
		}
	}

	b.pipelines[typeName] = p

	return p, nil
}

func addPorts(c *layout.ComponentLayout, inputs, outputs []string) error {
	for _, in := range inputs {
		_, err := c.AddInput(in)
		if err != nil {
			return err
		}
	}

	for _, out := range outputs {
		_, err := c.AddOutput(out)
		if err != nil {
			return err
		}
	}

	return nil
}

func splitEndpoint(s string) (string, string, error) {
	element, port, ok := strings.Cut(s, layout.PortSeparator)
	if !ok || element == "" || port == "" {
		return "", "", errors.Wrapf(ErrEndpoint, "%q is not of the form element%sport", s, layout.PortSeparator)
	}

	return element, port, nil
}

func connect(p *layout.PipelineLayout, c ConnectionSpec) error {
	srcName, srcPortName, err := splitEndpoint(c.From)
	if err != nil {
		return err
	}

	dstName, dstPortName, err := splitEndpoint(c.To)
	if err != nil {
		return err
	}

	src, srcPort, err := resolve(p, srcName, srcPortName, true)
	if err != nil {
		return errors.Wrapf(err, "source %q", c.From)
	}

	dst, dstPort, err := resolve(p, dstName, dstPortName, false)
	if err != nil {
		return errors.Wrapf(err, "destination %q", c.To)
	}

	return p.Connect(src, srcPort, dst, dstPort)
}

// resolve returns the element and port index of an endpoint. Sources are
// pipeline inputs or element outputs, destinations the other way round.
func resolve(p *layout.PipelineLayout, element, port string, source bool) (int, int, error) {
	if element == layout.ThisName {
		if source {
			i, err := p.InputPortIndex(port)
			return layout.ThisPipeline, i, err
		}

		i, err := p.OutputPortIndex(port)

		return layout.ThisPipeline, i, err
	}

	e, err := p.ElementIndex(element)
	if err != nil {
		return 0, 0, err
	}

	c, err := p.Element(e)
	if err != nil {
		return 0, 0, err
	}

	var i int
	if source {
		i, err = c.OutputPortIndex(port)
	} else {
		i, err = c.InputPortIndex(port)
	}

	return e, i, err
}
