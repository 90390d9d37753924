package model

// BoundaryPrefix prefixes the names of the pipeline's own input ports in
// ActionInfo sources.
const BoundaryPrefix = "input:"

// ActionInfo describes one scheduled pass of a built pipeline.
type ActionInfo struct {
	// Index is the position of the action in the execution plan.
	Index int
	// Filter is the global index of the filter applied by the action.
	Filter int
	// Path is the slash-delimited path of the filter in the layout tree.
	Path     string
	TypeName string
	// Sources lists, for each input port, the filter path (or boundary
	// input prefixed with BoundaryPrefix) feeding it.
	Sources []string
	// Reused is true when the action writes into a buffer allocated for
	// an earlier action.
	Reused bool
}
