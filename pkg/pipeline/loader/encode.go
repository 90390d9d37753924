package loader

import (
	"io"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/askiada/go-shaderpipe/pkg/pipeline/layout"
	"github.com/askiada/go-shaderpipe/pkg/pipeline/model"
)

// Encode writes root and every type it uses as a YAML document.
func Encode(w io.Writer, root layout.Reader) error {
	doc, err := NewDocument(root)
	if err != nil {
		return err
	}

	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)

	err = enc.Encode(doc)
	if err != nil {
		return errors.Wrap(err, "unable to encode document")
	}

	return errors.Wrap(enc.Close(), "unable to flush document")
}

// NewDocument describes root and the types it uses. Types are keyed by
// type name: two components sharing a type name must be identical, only
// the first one met is kept.
func NewDocument(root layout.Reader) (*Document, error) {
	doc := &Document{
		Main:      root.TypeName(),
		Filters:   make(map[string]FilterSpec),
		Pipelines: make(map[string]PipelineSpec),
	}

	err := doc.addPipeline(root)
	if err != nil {
		return nil, err
	}

	if len(doc.Filters) == 0 {
		doc.Filters = nil
	}

	return doc, nil
}

func (doc *Document) addPipeline(p layout.Reader) error {
	if _, ok := doc.Pipelines[p.TypeName()]; ok {
		return nil
	}

	spec := PipelineSpec{
		Inputs:  p.InputPorts(),
		Outputs: p.OutputPorts(),
	}

	// reserve the name first so a nested pipeline of the same type is not
	// described twice.
	doc.Pipelines[p.TypeName()] = spec

	for i := range p.NumElements() {
		name, err := p.ElementName(i)
		if err != nil {
			return err
		}

		kind, err := p.ElementKind(i)
		if err != nil {
			return err
		}

		var typeName string

		switch kind {
		case layout.KindFilter:
			f, err := p.FilterLayout(i)
			if err != nil {
				return err
			}

			typeName = f.TypeName()
			doc.addFilter(f)
		case layout.KindPipeline:
			sub, err := p.SubPipeline(i)
			if err != nil {
				return err
			}

			typeName = sub.TypeName()

			err = doc.addPipeline(sub)
			if err != nil {
				return err
			}
		default:
			return errors.Wrapf(layout.ErrWrongKind, "element %s has kind %s", name, kind)
		}

		spec.Elements = append(spec.Elements, ElementSpec{Name: name, Type: typeName})
	}

	for _, c := range p.Connections() {
		from, err := endpointName(p, c.Source, true)
		if err != nil {
			return err
		}

		to, err := endpointName(p, c.Destination, false)
		if err != nil {
			return err
		}

		spec.Connections = append(spec.Connections, ConnectionSpec{From: from, To: to})
	}

	doc.Pipelines[p.TypeName()] = spec

	return nil
}

func (doc *Document) addFilter(f *layout.FilterLayout) {
	if _, ok := doc.Filters[f.TypeName()]; ok {
		return
	}

	spec := FilterSpec{
		Format: FormatSpec{
			Width:  f.Format().Width,
			Height: f.Format().Height,
			Pixel:  model.PixelName(f.Format().Pixel),
		},
		Code:    f.Shader().Code,
		Inputs:  f.InputPorts(),
		Outputs: f.OutputPorts(),
	}

	if f.Shader().Name != f.TypeName() {
		spec.Shader = f.Shader().Name
	}

	doc.Filters[f.TypeName()] = spec
}

func endpointName(p layout.Reader, e layout.Endpoint, source bool) (string, error) {
	var (
		owner string
		port  string
		err   error
	)

	if e.Element == layout.ThisPipeline {
		owner = layout.ThisName
		if source {
			port, err = p.InputPortName(e.Port)
		} else {
			port, err = p.OutputPortName(e.Port)
		}
	} else {
		owner, err = p.ElementName(e.Element)
		if err != nil {
			return "", err
		}

		var c layout.Component

		c, err = p.Element(e.Element)
		if err != nil {
			return "", err
		}

		if source {
			port, err = c.OutputPortName(e.Port)
		} else {
			port, err = c.InputPortName(e.Port)
		}
	}

	if err != nil {
		return "", err
	}

	return owner + layout.PortSeparator + port, nil
}
