package layout

import (
	"strings"

	"github.com/pkg/errors"
)

// Lookup resolves a slash-delimited path such as "blur/horizontal" through
// nested pipelines and returns the layout of the last element.
func (p *PipelineLayout) Lookup(path string) (Component, error) {
	names := strings.Split(path, Separator)

	var current Reader = p

	for i, name := range names {
		idx, err := current.ElementIndex(name)
		if err != nil {
			return nil, errors.Wrapf(err, "unable to resolve %q", path)
		}

		if i == len(names)-1 {
			return current.Element(idx)
		}

		current, err = current.SubPipeline(idx)
		if err != nil {
			return nil, errors.Wrapf(err, "unable to resolve %q", path)
		}
	}

	return nil, errors.Wrap(ErrElementNotFound, "empty path")
}
