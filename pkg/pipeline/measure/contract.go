package measure

import "time"

// Measure collects one Metric per action of a pipeline, plus the whole
// frame metric which lives outside the action names.
type Measure interface {
	AddMetric(name string) Metric
	GetMetric(name string) Metric
	AllMetrics() map[string]Metric
	Frame() Metric
}

// Metric accumulates the durations of one action over several frames.
type Metric interface {
	AddDuration(elapsed time.Duration)
	AddSource(source string)
	AVGDuration() time.Duration
	MaxDuration() time.Duration
	Count() int64
	SetTotalDuration(endDuration time.Duration)
	GetTotalDuration() time.Duration
	Sources() []string
}
