package layout

import (
	"fmt"
	"strings"
)

// CheckError lists every port of a layout left without a source.
type CheckError struct {
	Layout   string
	Problems []string
}

func (e *CheckError) Error() string {
	return fmt.Sprintf("layout %s has %d unresolved port(s): %s", e.Layout, len(e.Problems), strings.Join(e.Problems, "; "))
}

func (e *CheckError) Unwrap() error {
	return ErrUnresolvedPort
}

// Check verifies every element input port and every output port of this
// pipeline has exactly one source, recursively. It does not stop at the
// first violation: the returned *CheckError reports all of them.
func (p *PipelineLayout) Check() error {
	problems := p.unresolved("")
	if len(problems) == 0 {
		return nil
	}

	return &CheckError{Layout: p.typeName, Problems: problems}
}

func (p *PipelineLayout) unresolved(prefix string) []string {
	var problems []string

	for i, e := range p.elements {
		for port, name := range e.component.InputPorts() {
			if _, ok := p.sourceOf(Endpoint{Element: i, Port: port}); !ok {
				problems = append(problems, fmt.Sprintf("%s%s input port %s has no source", prefix, e.name, name))
			}
		}

		if sub, ok := e.component.(*PipelineLayout); ok {
			problems = append(problems, sub.unresolved(prefix+e.name+Separator)...)
		}
	}

	for port, name := range p.outputs {
		if _, ok := p.sourceOf(Endpoint{Element: ThisPipeline, Port: port}); !ok {
			owner := p.typeName
			if prefix != "" {
				owner = strings.TrimSuffix(prefix, Separator)
			}

			problems = append(problems, fmt.Sprintf("pipeline %s output port %s has no source", owner, name))
		}
	}

	return problems
}
