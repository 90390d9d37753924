package layout

import (
	"fmt"

	"github.com/pkg/errors"
)

// Endpoint is one side of a connection: a local element index (or
// ThisPipeline) and a port index.
type Endpoint struct {
	Element int
	Port    int
}

// Connection links the output port of Source to the input port of
// Destination. When Source.Element is ThisPipeline, Source.Port is an input
// port of the enclosing pipeline. When Destination.Element is ThisPipeline,
// Destination.Port is one of its output ports.
type Connection struct {
	Source      Endpoint
	Destination Endpoint
}

func (c Connection) String() string {
	return fmt.Sprintf("%s -> %s", endpointString(c.Source), endpointString(c.Destination))
}

func endpointString(e Endpoint) string {
	if e.Element == ThisPipeline {
		return fmt.Sprintf("this:%d", e.Port)
	}

	return fmt.Sprintf("%d:%d", e.Element, e.Port)
}

// Connect links output port srcPort of element srcElement to input port
// dstPort of element dstElement. Either element may be ThisPipeline, not both.
// A destination port accepts a single connection.
func (p *PipelineLayout) Connect(srcElement, srcPort, dstElement, dstPort int) error {
	if srcElement == ThisPipeline && dstElement == ThisPipeline {
		return errors.Wrapf(ErrSelfBoundary, "input %d to output %d of %s", srcPort, dstPort, p.typeName)
	}

	if err := p.checkSource(srcElement, srcPort); err != nil {
		return errors.Wrap(err, "unable to connect source")
	}

	if err := p.checkDestination(dstElement, dstPort); err != nil {
		return errors.Wrap(err, "unable to connect destination")
	}

	dst := Endpoint{Element: dstElement, Port: dstPort}
	if existing, ok := p.sourceOf(dst); ok {
		return errors.Wrapf(ErrDuplicateConnection, "%s already fed by %s in %s",
			p.endpointName(dst, false), p.endpointName(existing.Source, true), p.typeName)
	}

	p.connections = append(p.connections, Connection{
		Source:      Endpoint{Element: srcElement, Port: srcPort},
		Destination: dst,
	})

	return nil
}

// ConnectToInput links input port of this pipeline to an element input.
func (p *PipelineLayout) ConnectToInput(port, dstElement, dstPort int) error {
	return p.Connect(ThisPipeline, port, dstElement, dstPort)
}

// ConnectToOutput links an element output to an output port of this pipeline.
func (p *PipelineLayout) ConnectToOutput(srcElement, srcPort, port int) error {
	return p.Connect(srcElement, srcPort, ThisPipeline, port)
}

// ConnectByName links two elements using their names and port names.
func (p *PipelineLayout) ConnectByName(src, srcPort, dst, dstPort string) error {
	se, sp, err := p.resolveSource(src, srcPort)
	if err != nil {
		return err
	}

	de, dp, err := p.resolveDestination(dst, dstPort)
	if err != nil {
		return err
	}

	return p.Connect(se, sp, de, dp)
}

// ConnectInputByName links the named input port of this pipeline to an element input.
func (p *PipelineLayout) ConnectInputByName(port, dst, dstPort string) error {
	in, err := p.InputPortIndex(port)
	if err != nil {
		return err
	}

	de, dp, err := p.resolveDestination(dst, dstPort)
	if err != nil {
		return err
	}

	return p.Connect(ThisPipeline, in, de, dp)
}

// ConnectOutputByName links an element output to the named output port of this pipeline.
func (p *PipelineLayout) ConnectOutputByName(src, srcPort, port string) error {
	se, sp, err := p.resolveSource(src, srcPort)
	if err != nil {
		return err
	}

	out, err := p.OutputPortIndex(port)
	if err != nil {
		return err
	}

	return p.Connect(se, sp, ThisPipeline, out)
}

func (p *PipelineLayout) resolveSource(name, port string) (int, int, error) {
	e, err := p.ElementIndex(name)
	if err != nil {
		return 0, 0, err
	}

	i, err := p.elements[e].component.OutputPortIndex(port)
	if err != nil {
		return 0, 0, errors.Wrapf(err, "element %q", name)
	}

	return e, i, nil
}

func (p *PipelineLayout) resolveDestination(name, port string) (int, int, error) {
	e, err := p.ElementIndex(name)
	if err != nil {
		return 0, 0, err
	}

	i, err := p.elements[e].component.InputPortIndex(port)
	if err != nil {
		return 0, 0, errors.Wrapf(err, "element %q", name)
	}

	return e, i, nil
}

// checkSource checks (element, port) can emit data: an element output or a
// boundary input.
func (p *PipelineLayout) checkSource(element, port int) error {
	if element == ThisPipeline {
		return p.CheckInputPort(port)
	}

	if err := p.checkElement(element); err != nil {
		return err
	}

	return p.elements[element].component.CheckOutputPort(port)
}

// checkDestination checks (element, port) can receive data: an element
// input or a boundary output.
func (p *PipelineLayout) checkDestination(element, port int) error {
	if element == ThisPipeline {
		return p.CheckOutputPort(port)
	}

	if err := p.checkElement(element); err != nil {
		return err
	}

	return p.elements[element].component.CheckInputPort(port)
}

func (p *PipelineLayout) sourceOf(dst Endpoint) (Connection, bool) {
	for _, c := range p.connections {
		if c.Destination == dst {
			return c, true
		}
	}

	return Connection{}, false
}

func (p *PipelineLayout) NumConnections() int {
	return len(p.connections)
}

func (p *PipelineLayout) Connection(i int) (Connection, error) {
	if i < 0 || i >= len(p.connections) {
		return Connection{}, errors.Wrapf(ErrElementNotFound, "connection %d of %s (%d connections)", i, p.typeName, len(p.connections))
	}

	return p.connections[i], nil
}

// Connections returns a copy of all connections in insertion order.
func (p *PipelineLayout) Connections() []Connection {
	return append([]Connection(nil), p.connections...)
}

// ConnectionSource returns the connection feeding input port of element
// (or output port of this pipeline when element is ThisPipeline).
func (p *PipelineLayout) ConnectionSource(element, port int) (Connection, error) {
	if err := p.checkDestination(element, port); err != nil {
		return Connection{}, err
	}

	dst := Endpoint{Element: element, Port: port}
	if c, ok := p.sourceOf(dst); ok {
		return c, nil
	}

	return Connection{}, errors.Wrapf(ErrUnresolvedPort, "%s has no source in %s", p.endpointName(dst, false), p.typeName)
}

// ConnectionDestinations returns every connection reading output port of
// element (or input port of this pipeline when element is ThisPipeline).
func (p *PipelineLayout) ConnectionDestinations(element, port int) ([]Connection, error) {
	if err := p.checkSource(element, port); err != nil {
		return nil, err
	}

	src := Endpoint{Element: element, Port: port}

	var res []Connection

	for _, c := range p.connections {
		if c.Source == src {
			res = append(res, c)
		}
	}

	return res, nil
}

// ConnectionSourceName returns the "element:port" name of the source
// feeding the given destination.
func (p *PipelineLayout) ConnectionSourceName(element, port int) (string, error) {
	c, err := p.ConnectionSource(element, port)
	if err != nil {
		return "", err
	}

	return p.endpointName(c.Source, true), nil
}

// ConnectionDestinationsName returns the "element:port" names of every
// destination of the given source.
func (p *PipelineLayout) ConnectionDestinationsName(element, port int) ([]string, error) {
	cs, err := p.ConnectionDestinations(element, port)
	if err != nil {
		return nil, err
	}

	names := make([]string, len(cs))
	for i, c := range cs {
		names[i] = p.endpointName(c.Destination, false)
	}

	return names, nil
}

// endpointName formats a validated endpoint. source tells which port
// direction the endpoint refers to on an element.
func (p *PipelineLayout) endpointName(e Endpoint, source bool) string {
	var (
		owner string
		port  string
	)

	if e.Element == ThisPipeline {
		owner = ThisName
		if source {
			port, _ = p.InputPortName(e.Port)
		} else {
			port, _ = p.OutputPortName(e.Port)
		}
	} else {
		elem := p.elements[e.Element]
		owner = elem.name
		if source {
			port, _ = elem.component.OutputPortName(e.Port)
		} else {
			port, _ = elem.component.InputPortName(e.Port)
		}
	}

	return owner + PortSeparator + port
}
