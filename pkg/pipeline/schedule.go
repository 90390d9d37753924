package pipeline

import (
	"math"
	"slices"

	"github.com/dominikbraun/graph"
	"github.com/pkg/errors"

	"github.com/askiada/go-shaderpipe/pkg/pipeline/model"
)

// Source tells where an input port reads from during processing.
type Source struct {
	// Boundary is true when the port reads the pipeline input Port.
	Boundary bool
	// Filter is the global index of the producing filter, -1 for a boundary.
	Filter int
	Port   int
}

// Action is one step of the execution plan: apply Filter with its input
// ports bound to Inputs.
type Action struct {
	Filter int
	Inputs []Source
	Reused bool
}

type scheduler struct {
	p *Pipeline

	inputs    [][]Source
	consumers [][]int
	inDegree  []int
	// pending counts the reads of a filter output not scheduled yet.
	pending []int
	// pinned marks filters feeding the pipeline outputs, their buffer is never reused.
	pinned []bool

	ready []int
	free  []model.Framebuffer
}

func newScheduler(p *Pipeline) *scheduler {
	n := len(p.filters)
	s := &scheduler{
		p:         p,
		inputs:    make([][]Source, n),
		consumers: make([][]int, n),
		inDegree:  make([]int, n),
		pending:   make([]int, n),
		pinned:    make([]bool, n),
	}

	for i, f := range p.filters {
		s.inputs[i] = make([]Source, f.NumInputPorts())
	}

	return s
}

// resolve records the source of every filter input and pipeline output,
// and rejects cycles.
func (s *scheduler) resolve(conns []globalConnection) error {
	p := s.p
	resolved := make([][]bool, len(p.filters))

	for i := range resolved {
		resolved[i] = make([]bool, p.filters[i].NumInputPorts())
	}

	outputSet := make([]bool, len(p.outputNames))
	p.outputs = make([]Source, len(p.outputNames))

	deps := graph.New(graph.IntHash, graph.Directed(), graph.PreventCycles())
	for i := range p.filters {
		err := deps.AddVertex(i)
		if err != nil {
			return errors.Wrap(err, "unable to add vertex")
		}
	}

	for _, c := range conns {
		src := Source{Boundary: c.src.kind == endBoundary, Filter: c.src.id, Port: c.src.port}
		if src.Boundary {
			src.Filter = -1
		}

		switch c.dst.kind {
		case endBoundary:
			if src.Boundary {
				return errors.Wrapf(ErrUnconnected, "output port %d is fed by input port %d without any filter", c.dst.port, c.src.port)
			}

			if outputSet[c.dst.port] {
				return errors.Wrapf(ErrBuild, "output port %d has several sources", c.dst.port)
			}

			p.outputs[c.dst.port] = src
			outputSet[c.dst.port] = true
			s.pinned[src.Filter] = true
		case endFilter:
			dst, port := c.dst.id, c.dst.port
			if resolved[dst][port] {
				return errors.Wrapf(ErrBuild, "filter %s input port %d has several sources", p.filters[dst].Path(), port)
			}

			s.inputs[dst][port] = src
			resolved[dst][port] = true

			if src.Boundary {
				continue
			}

			s.inDegree[dst]++
			s.pending[src.Filter]++
			s.consumers[src.Filter] = append(s.consumers[src.Filter], dst)

			err := deps.AddEdge(src.Filter, dst)
			switch {
			case errors.Is(err, graph.ErrEdgeCreatesCycle):
				return errors.Wrapf(ErrCycle, "%s -> %s closes a cycle", p.filters[src.Filter].Path(), p.filters[dst].Path())
			case err != nil && !errors.Is(err, graph.ErrEdgeAlreadyExists):
				return errors.Wrap(err, "unable to add edge")
			}
		default:
			return errors.Wrap(ErrBuild, "connection to a nested pipeline port left after splicing")
		}
	}

	for i, ports := range resolved {
		for port, ok := range ports {
			if !ok {
				return errors.Wrapf(ErrUnconnected, "filter %s input port %d has no source", p.filters[i].Path(), port)
			}
		}
	}

	for port, ok := range outputSet {
		if !ok {
			return errors.Wrapf(ErrUnconnected, "output port %s has no source", p.outputNames[port])
		}
	}

	return nil
}

// run schedules every filter, assigning it a free compatible buffer when
// one exists or allocating a new one otherwise.
func (s *scheduler) run() error {
	p := s.p

	for i, d := range s.inDegree {
		if d == 0 {
			s.ready = append(s.ready, i)
		}
	}

	for scheduled := 0; scheduled < len(p.filters); scheduled++ {
		if len(s.ready) == 0 {
			return errors.Wrapf(ErrCycle, "%d filter(s) never became ready", len(p.filters)-scheduled)
		}

		pos, buf := s.pick()
		best := s.ready[pos]
		s.ready = slices.Delete(s.ready, pos, pos+1)
		f := p.filters[best]

		var target model.Framebuffer

		reused := buf >= 0
		if reused {
			target = s.free[buf]
			s.free = slices.Delete(s.free, buf, buf+1)
		} else {
			var err error

			target, err = p.device.NewFramebuffer(f.Format(), f.NumOutputPorts())
			if err != nil {
				return errors.Wrapf(err, "unable to allocate buffer for filter %s", f.Path())
			}

			p.allocated = append(p.allocated, target)
		}

		p.buffers[best] = target
		p.actions = append(p.actions, Action{Filter: best, Inputs: s.inputs[best], Reused: reused})

		p.log.WithField("filter", f.Path()).WithField("reused", reused).
			Debugf("scheduled action %d into buffer %s x%d", scheduled, f.Format(), f.NumOutputPorts())

		for _, src := range s.inputs[best] {
			if !src.Boundary {
				s.read(src.Filter)
			}
		}

		if s.pending[best] == 0 && !s.pinned[best] {
			s.free = append(s.free, target)
		}

		for _, c := range s.consumers[best] {
			s.inDegree[c]--
			if s.inDegree[c] == 0 {
				idx, _ := slices.BinarySearch(s.ready, c)
				s.ready = slices.Insert(s.ready, idx, c)
			}
		}
	}

	return nil
}

// read marks one read of the output of filter as scheduled and frees its
// buffer after the last one.
func (s *scheduler) read(filter int) {
	s.pending[filter]--
	if s.pending[filter] == 0 && !s.pinned[filter] {
		s.free = append(s.free, s.p.buffers[filter])
	}
}

// pick returns the position in the ready list of the next filter to
// schedule and the index of the free buffer it reuses, -1 if none.
// Filters able to reuse a buffer come first, smallest output first; ties and
// filters needing a new buffer are taken by increasing global index.
func (s *scheduler) pick() (int, int) {
	best, bestBuf, bestSize := -1, -1, math.MaxInt

	for pos, id := range s.ready {
		f := s.p.filters[id]

		buf := s.compatible(f)
		if buf < 0 {
			continue
		}

		if size := f.ByteSize(); size < bestSize {
			best, bestBuf, bestSize = pos, buf, size
		}
	}

	if best >= 0 {
		return best, bestBuf
	}

	return 0, -1
}

func (s *scheduler) compatible(f *Filter) int {
	for i, fb := range s.free {
		if fb.Format() == f.Format() && fb.AttachmentCount() == f.NumOutputPorts() {
			return i
		}
	}

	return -1
}
