package drawer

import (
	"fmt"
	"io"
	"os"
	"sort"
	"text/template"
	"time"

	"github.com/dominikbraun/graph"
	"github.com/pkg/errors"
	"gopkg.in/go-playground/colors.v1" //nolint

	"github.com/askiada/go-shaderpipe/pkg/pipeline/measure"
)

// DOTDrawer renders the execution plan of a pipeline as a Graphviz graph.
type DOTDrawer struct {
	graph      graph.Graph[string, string]
	attributes map[string]string
	open       func() (io.WriteCloser, error)
}

// NewDOTDrawer creates a drawer writing to fileName.
func NewDOTDrawer(fileName string) *DOTDrawer {
	return newDOTDrawer(func() (io.WriteCloser, error) {
		file, err := os.Create(fileName)
		if err != nil {
			return nil, errors.Wrapf(err, "unable to create file %s", fileName)
		}

		return file, nil
	})
}

// NewDOTWriterDrawer creates a drawer writing to w.
func NewDOTWriterDrawer(w io.Writer) *DOTDrawer {
	return newDOTDrawer(func() (io.WriteCloser, error) {
		return nopCloser{w}, nil
	})
}

func newDOTDrawer(open func() (io.WriteCloser, error)) *DOTDrawer {
	return &DOTDrawer{
		graph:      graph.New(graph.StringHash, graph.Directed()),
		attributes: map[string]string{"rankdir": "LR"},
		open:       open,
	}
}

type nopCloser struct{ io.Writer }

func (nopCloser) Close() error { return nil }

func (d *DOTDrawer) AddNode(name, label string) error {
	err := d.graph.AddVertex(name, graph.VertexAttribute("tooltip", label))
	if err != nil && !errors.Is(err, graph.ErrVertexAlreadyExists) {
		return errors.Wrap(err, "unable to add vertex")
	}

	return nil
}

func (d *DOTDrawer) AddLink(source, destination, label string) error {
	err := d.graph.AddEdge(source, destination, graph.EdgeAttribute("label", label))
	if errors.Is(err, graph.ErrEdgeAlreadyExists) {
		edge, err := d.graph.Edge(source, destination)
		if err != nil {
			return errors.Wrapf(err, "unable to get edge from %s to %s", source, destination)
		}

		err = d.graph.UpdateEdge(source, destination,
			graph.EdgeAttribute("label", edge.Properties.Attributes["label"]+","+label))
		if err != nil {
			return errors.Wrapf(err, "unable to update edge from %s to %s", source, destination)
		}

		return nil
	}

	if err != nil {
		return errors.Wrapf(err, "unable to add edge from %s to %s", source, destination)
	}

	return nil
}

func (d *DOTDrawer) Draw() error {
	w, err := d.open()
	if err != nil {
		return err
	}

	options := make([]func(*description), 0, len(d.attributes))
	for k, v := range d.attributes {
		options = append(options, GraphAttribute(k, v))
	}

	err = dot(d.graph, w, options...)
	if err != nil {
		_ = w.Close()
		return errors.Wrap(err, "unable to write dot graph")
	}

	return errors.Wrap(w.Close(), "unable to close dot graph")
}

const maxRGB = 240

// AddMeasure labels every measured node with its average duration and
// fills it with a colour going from blue for the fastest to red for the
// slowest action.
func (d *DOTDrawer) AddMeasure(msr measure.Measure) error {
	metrics := msr.AllMetrics()

	var minValue, maxValue time.Duration

	first := true

	for _, mt := range metrics {
		if mt.Count() == 0 {
			continue
		}

		avg := mt.AVGDuration()
		if first || avg < minValue {
			minValue = avg
		}

		if first || avg > maxValue {
			maxValue = avg
		}

		first = false
	}

	for name, mt := range metrics {
		if mt.Count() == 0 {
			continue
		}

		_, properties, err := d.graph.VertexWithProperties(name)
		if errors.Is(err, graph.ErrVertexNotFound) {
			continue
		}

		if err != nil {
			return errors.Wrap(err, "unable to get vertex properties")
		}

		avg := mt.AVGDuration()

		fraction := 1.0
		if maxValue > minValue {
			fraction = float64(avg-minValue) / float64(maxValue-minValue)
		}

		heat, err := colors.RGB(uint8(maxRGB*fraction), 0, uint8(maxRGB*(1-fraction))) //nolint
		if err != nil {
			return errors.Wrap(err, "unable to get colour")
		}

		properties.Attributes["xlabel"] = avg.String()
		properties.Attributes["style"] = "filled"
		properties.Attributes["fillcolor"] = heat.ToHEX().String()
		properties.Attributes["fontcolor"] = "white"
	}

	if frame := msr.Frame(); frame.Count() > 0 {
		d.attributes["label"] = "frame: " + frame.AVGDuration().String()
	}

	return nil
}

//nolint:lll //this is a template
const dotTemplate = `strict {{.GraphType}} {
	{{range $k, $v := .Attributes}}
		{{$k}}="{{$v}}";
	{{end}}
	{{range $s := .Statements}}
		"{{.Source}}" {{if .Target}}{{$.EdgeOperator}} "{{.Target}}" [ {{range $k, $v := .EdgeAttributes}}{{$k}}="{{$v}}", {{end}} weight={{.EdgeWeight}} ]{{else}}[ {{range $k, $v := .HTMLAttributes}}{{$k}}={{$v}}, {{end}} {{range $k, $v := .SourceAttributes}}{{$k}}="{{$v}}", {{end}} weight={{.SourceWeight}} ]{{end}};
	{{end}}
	}
	`

type description struct {
	GraphType    string
	Attributes   map[string]string
	EdgeOperator string
	Statements   []statement
}

type statement struct {
	Source           string
	Target           string
	SourceAttributes map[string]string
	HTMLAttributes   map[string]string
	EdgeAttributes   map[string]string
	SourceWeight     int
	EdgeWeight       int
}

func dot(g graph.Graph[string, string], wrt io.Writer, options ...func(*description)) error {
	desc, err := generateDOT(g, options...)
	if err != nil {
		return errors.Wrap(err, "failed to generate DOT description")
	}

	return renderDOT(wrt, desc)
}

// GraphAttribute is a functional option setting a graph level attribute.
func GraphAttribute(key, value string) func(*description) {
	return func(d *description) {
		d.Attributes[key] = value
	}
}

// generateDOT lists vertices and edges in name order so the output is stable.
func generateDOT(gra graph.Graph[string, string], options ...func(*description)) (description, error) {
	desc := description{
		GraphType:    "digraph",
		Attributes:   make(map[string]string),
		EdgeOperator: "->",
		Statements:   make([]statement, 0),
	}

	for _, option := range options {
		option(&desc)
	}

	adjacencyMap, err := gra.AdjacencyMap()
	if err != nil {
		return desc, errors.Wrap(err, "unable to get adjacency map")
	}

	vertices := make([]string, 0, len(adjacencyMap))
	for vertex := range adjacencyMap {
		vertices = append(vertices, vertex)
	}

	sort.Strings(vertices)

	for _, vertex := range vertices {
		_, sourceProperties, err := gra.VertexWithProperties(vertex)
		if err != nil {
			return desc, errors.Wrapf(err, "unable to get vertex %s", vertex)
		}

		attributes := make(map[string]string, len(sourceProperties.Attributes))
		htmlAttributes := make(map[string]string)

		for k, v := range sourceProperties.Attributes {
			if k == "xlabel" {
				htmlAttributes["label"] = fmt.Sprintf(`<%s <BR /> <FONT POINT-SIZE="12">%s</FONT>>`, vertex, v)
				continue
			}

			attributes[k] = v
		}

		desc.Statements = append(desc.Statements, statement{
			Source:           vertex,
			SourceWeight:     sourceProperties.Weight,
			SourceAttributes: attributes,
			HTMLAttributes:   htmlAttributes,
		})

		targets := make([]string, 0, len(adjacencyMap[vertex]))
		for target := range adjacencyMap[vertex] {
			targets = append(targets, target)
		}

		sort.Strings(targets)

		for _, target := range targets {
			edge := adjacencyMap[vertex][target]
			desc.Statements = append(desc.Statements, statement{
				Source:         vertex,
				Target:         target,
				EdgeWeight:     edge.Properties.Weight,
				EdgeAttributes: edge.Properties.Attributes,
			})
		}
	}

	return desc, nil
}

func renderDOT(wrt io.Writer, desc description) error {
	tpl, err := template.New("dotTemplate").Parse(dotTemplate)
	if err != nil {
		return errors.Wrap(err, "failed to parse template")
	}

	err = tpl.Execute(wrt, desc)
	if err != nil {
		return errors.Wrap(err, "unable to execute template")
	}

	return nil
}

var _ Drawer = (*DOTDrawer)(nil)
