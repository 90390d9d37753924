package layout

// Reader is the read-only view over a PipelineLayout. Values returned by
// its methods must not be modified.
type Reader interface {
	Component

	NumElements() int
	ElementName(i int) (string, error)
	ElementKind(i int) (Kind, error)
	ElementIndex(name string) (int, error)
	DoesElementExist(name string) bool
	Element(i int) (Component, error)
	FilterLayout(i int) (*FilterLayout, error)
	SubPipeline(i int) (Reader, error)
	Lookup(path string) (Component, error)
	Info() (filters int, pipelines int)

	NumConnections() int
	Connection(i int) (Connection, error)
	Connections() []Connection
	ConnectionSource(element, port int) (Connection, error)
	ConnectionDestinations(element, port int) ([]Connection, error)

	Check() error
}

var _ Reader = (*PipelineLayout)(nil)
