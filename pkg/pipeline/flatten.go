package pipeline

import (
	"fmt"

	"github.com/pkg/errors"

	"github.com/askiada/go-shaderpipe/pkg/pipeline/layout"
)

type endpointKind int

const (
	endFilter endpointKind = iota
	// endBoundary is a port of the root pipeline.
	endBoundary
	// endSlotIn and endSlotOut are the input and output ports of a nested
	// pipeline. They disappear once connections are spliced.
	endSlotIn
	endSlotOut
)

type endpoint struct {
	kind endpointKind
	id   int
	port int
}

func (e endpoint) isSlot() bool {
	return e.kind == endSlotIn || e.kind == endSlotOut
}

// globalConnection is a connection rewritten with global indices. owner is
// the slot of the pipeline node which declared it, the root being slot 0.
type globalConnection struct {
	src, dst endpoint
	owner    int
}

type flatFilter struct {
	layout *layout.FilterLayout
	path   string
}

type flatGraph struct {
	filters []flatFilter
	// slots holds the path of every pipeline node, slot 0 being the root.
	slots       []string
	connections []globalConnection
}

type flattenNode struct {
	layout layout.Reader
	slot   int
	path   string
}

func joinPath(parent, name string) string {
	if parent == "" {
		return name
	}

	return parent + layout.Separator + name
}

// flatten walks the layout tree breadth first. Every filter gets the next
// global filter index and every nested pipeline the next slot index; the
// connections of each node are rewritten with those indices.
func flatten(root layout.Reader) (*flatGraph, error) {
	g := &flatGraph{slots: []string{""}}
	queue := []flattenNode{{layout: root}}

	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]

		ids := make([]int, current.layout.NumElements())
		kinds := make([]layout.Kind, current.layout.NumElements())

		for i := range ids {
			name, err := current.layout.ElementName(i)
			if err != nil {
				return nil, err
			}

			kinds[i], err = current.layout.ElementKind(i)
			if err != nil {
				return nil, err
			}

			elementPath := joinPath(current.path, name)

			switch kinds[i] {
			case layout.KindFilter:
				fl, err := current.layout.FilterLayout(i)
				if err != nil {
					return nil, err
				}

				g.filters = append(g.filters, flatFilter{layout: fl, path: elementPath})
				ids[i] = len(g.filters) - 1
			case layout.KindPipeline:
				sub, err := current.layout.SubPipeline(i)
				if err != nil {
					return nil, err
				}

				g.slots = append(g.slots, elementPath)
				ids[i] = len(g.slots) - 1
				queue = append(queue, flattenNode{layout: sub, slot: ids[i], path: elementPath})
			default:
				return nil, errors.Wrapf(layout.ErrWrongKind, "element %s has kind %s", elementPath, kinds[i])
			}
		}

		globalize := func(e layout.Endpoint, source bool) endpoint {
			if e.Element == layout.ThisPipeline {
				switch {
				case current.slot == 0:
					return endpoint{kind: endBoundary, port: e.Port}
				case source:
					return endpoint{kind: endSlotIn, id: current.slot, port: e.Port}
				default:
					return endpoint{kind: endSlotOut, id: current.slot, port: e.Port}
				}
			}

			id := ids[e.Element]

			switch {
			case kinds[e.Element] == layout.KindFilter:
				return endpoint{kind: endFilter, id: id, port: e.Port}
			case source:
				return endpoint{kind: endSlotOut, id: id, port: e.Port}
			default:
				return endpoint{kind: endSlotIn, id: id, port: e.Port}
			}
		}

		for _, c := range current.layout.Connections() {
			g.connections = append(g.connections, globalConnection{
				src:   globalize(c.Source, true),
				dst:   globalize(c.Destination, false),
				owner: current.slot,
			})
		}
	}

	return g, nil
}

// splice removes every nested pipeline port from the connections: a
// connection C ending on a pipeline port and every connection D starting
// from that same port are replaced by direct connections from C's source to
// each D's destination. A connection ending on a pipeline port nobody reads
// is dropped.
func (g *flatGraph) splice() (int, error) {
	conns := g.connections
	limit := 0

	for _, c := range conns {
		if c.dst.isSlot() {
			limit++
		}
	}

	merges := 0

	for iter := 0; ; iter++ {
		i := -1

		for j, c := range conns {
			if c.dst.isSlot() {
				i = j

				break
			}
		}

		if i < 0 {
			break
		}

		if iter > limit {
			return merges, errors.Wrapf(ErrBuild, "splicing did not terminate after %d iterations", iter)
		}

		c := conns[i]
		next := make([]globalConnection, 0, len(conns))

		var spliced []globalConnection

		for j, d := range conns {
			switch {
			case j == i:
			case d.src == c.dst:
				spliced = append(spliced, globalConnection{src: c.src, dst: d.dst, owner: d.owner})
			default:
				next = append(next, d)
			}
		}

		merges += len(spliced)
		conns = append(next, spliced...)
	}

	for _, c := range conns {
		if c.src.isSlot() {
			return merges, errors.Wrapf(ErrUnconnected, "%s feeds %s but has no source", g.describe(c.src, true), g.describe(c.dst, false))
		}
	}

	g.connections = conns

	return merges, nil
}

// describe formats an endpoint for error messages. source tells which port
// direction a filter endpoint refers to.
func (g *flatGraph) describe(e endpoint, source bool) string {
	switch e.kind {
	case endFilter:
		f := g.filters[e.id]
		name, _ := f.layout.OutputPortName(e.port)

		if !source {
			name, _ = f.layout.InputPortName(e.port)
		}

		return fmt.Sprintf("filter %s port %s", f.path, name)
	case endSlotIn:
		return fmt.Sprintf("pipeline %s input port %d", g.slots[e.id], e.port)
	case endSlotOut:
		return fmt.Sprintf("pipeline %s output port %d", g.slots[e.id], e.port)
	default:
		return fmt.Sprintf("boundary port %d", e.port)
	}
}
