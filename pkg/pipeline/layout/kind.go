package layout

// Kind tells which variant an element reference points to.
type Kind int

const (
	KindFilter Kind = iota
	KindPipeline
	// KindBoundary is the kind of ThisPipeline.
	KindBoundary
)

// ThisPipeline is the element index designating the enclosing pipeline's own
// boundary ports in a connection.
const ThisPipeline = -1

// ThisName is the element name standing for ThisPipeline in the
// "element:port" name form of connection endpoints.
const (
	ThisName      = "this"
	PortSeparator = ":"
)

func (k Kind) String() string {
	switch k {
	case KindFilter:
		return "filter"
	case KindPipeline:
		return "pipeline"
	case KindBoundary:
		return "boundary"
	default:
		return "unknown"
	}
}

func kindOf(c Component) Kind {
	if _, ok := c.(*PipelineLayout); ok {
		return KindPipeline
	}

	return KindFilter
}
