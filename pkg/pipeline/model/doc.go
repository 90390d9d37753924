// Package model provides the data structures shared by the pipeline packages.
// It defines texture formats, the contracts expected from a GPU backend
// (textures, framebuffers, shader programs and the device creating them),
// and the hook interface used by pipeline options.
package model
