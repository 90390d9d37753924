// Package layout describes image-processing graphs before they are built.
//
// A FilterLayout is a leaf: a shader program with named input and output
// ports and a fixed output format. A PipelineLayout is a composite: an
// ordered list of named elements (filters or nested pipelines), the
// connections between them, and its own boundary ports exposed to its
// parent. Layouts are plain values: adding an element stores a deep copy,
// so a layout can be reused as a template in several places without
// aliasing.
//
// Layouts are authored through the mutable *PipelineLayout API and consumed
// through the Reader interface, which exposes the structural queries only.
package layout
