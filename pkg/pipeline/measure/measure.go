package measure

import (
	"sync"
)

type DefaultMeasure struct {
	mu      sync.Mutex
	Actions map[string]Metric
	frame   Metric
}

func NewDefaultMeasure() *DefaultMeasure {
	return &DefaultMeasure{
		Actions: make(map[string]Metric),
		frame:   &DefaultMetric{mu: &sync.Mutex{}},
	}
}

// Frame returns the metric holding whole frame durations. It is never
// part of AllMetrics.
func (m *DefaultMeasure) Frame() Metric {
	return m.frame
}

// AddMetric returns the metric called name, creating it if needed.
func (m *DefaultMeasure) AddMetric(name string) Metric {
	m.mu.Lock()
	defer m.mu.Unlock()

	if mt, ok := m.Actions[name]; ok {
		return mt
	}

	mt := &DefaultMetric{mu: &sync.Mutex{}}
	m.Actions[name] = mt

	return mt
}

func (m *DefaultMeasure) GetMetric(name string) Metric {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.Actions[name]
}

func (m *DefaultMeasure) AllMetrics() map[string]Metric {
	m.mu.Lock()
	defer m.mu.Unlock()

	all := make(map[string]Metric, len(m.Actions))
	for name, mt := range m.Actions {
		all[name] = mt
	}

	return all
}

var _ Measure = (*DefaultMeasure)(nil)
