// Package pipeline compiles a layout.PipelineLayout into an executable schedule of rendering passes.
//
// Building a pipeline happens once, in New. The layout tree is flattened into a single list of filters: nested
// pipelines are not materialised, the connections crossing their boundaries are spliced into direct filter to filter
// connections. Filters are then ordered so that every filter runs after all the filters it reads from. While ordering,
// each filter gets a render target: a buffer whose last reader has already been scheduled is reused when it has the
// same format and number of attachments, otherwise a new buffer is allocated from the device.
//
// The result is a fixed list of actions. Process replays it every frame against the pushed inputs without looking at
// the graph again, so the cost of a frame only depends on the number of actions.
//
// A pipeline is not safe for concurrent use. Buffers are owned by the pipeline and released by Close.
package pipeline
