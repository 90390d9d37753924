package drawer

import (
	"github.com/askiada/go-shaderpipe/pkg/pipeline/measure"
)

// Drawer is an interface that defines the methods for drawing a pipeline.
type Drawer interface {
	// AddNode adds a node to the graph. Adding an existing node is a no-op.
	AddNode(name, label string) error
	// AddLink adds a link between a texture producer and a consumer.
	AddLink(source, destination, label string) error
	// Draw writes the graph.
	Draw() error
	// AddMeasure colours the nodes with the durations of measure.
	AddMeasure(measure measure.Measure) error
}
