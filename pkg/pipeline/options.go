package pipeline

import (
	"github.com/sirupsen/logrus"

	"github.com/askiada/go-shaderpipe/pkg/pipeline/model"
)

type Option func(p *Pipeline)

// WithName overrides the pipeline name, which defaults to the layout type name.
func WithName(name string) Option {
	return func(p *Pipeline) {
		p.name = name
	}
}

func WithLogger(logger logrus.FieldLogger) Option {
	return func(p *Pipeline) {
		p.log = logger
	}
}

// WithPerfMonitoring enables performance monitoring from the first frame.
func WithPerfMonitoring() Option {
	return func(p *Pipeline) {
		p.monitoring = true
	}
}

// WithHooks attaches hooks called while building, processing and closing.
func WithHooks(hooks ...model.PipelineOption) Option {
	return func(p *Pipeline) {
		p.hooks = append(p.hooks, hooks...)
	}
}
