package pipeline_test

import (
	"image/color"
	"testing"
	"time"

	"github.com/gogpu/gputypes"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/askiada/go-shaderpipe/pkg/pipeline"
	"github.com/askiada/go-shaderpipe/pkg/pipeline/layout"
	"github.com/askiada/go-shaderpipe/pkg/pipeline/model"
	"github.com/askiada/go-shaderpipe/pkg/softgl"
)

var (
	rgba = model.Format{Width: 4, Height: 4, Pixel: gputypes.TextureFormatRGBA8Unorm}
	gray = model.Format{Width: 4, Height: 4, Pixel: gputypes.TextureFormatR8Unorm}
)

// createFilter returns a filter layout running kernel, named after it.
func createFilter(t *testing.T, kernel string, format model.Format, inputs, outputs []string) *layout.FilterLayout {
	t.Helper()

	f, err := layout.NewFilterLayout(kernel, format, model.ShaderSource{Name: kernel})
	require.NoError(t, err)

	for _, in := range inputs {
		_, err := f.AddInput(in)
		require.NoError(t, err)
	}

	for _, out := range outputs {
		_, err := f.AddOutput(out)
		require.NoError(t, err)
	}

	return f
}

func unary(t *testing.T, kernel string) *layout.FilterLayout {
	t.Helper()

	return createFilter(t, kernel, rgba, []string{"in"}, []string{"out"})
}

func binary(t *testing.T, kernel string) *layout.FilterLayout {
	t.Helper()

	return createFilter(t, kernel, rgba, []string{"lhs", "rhs"}, []string{"out"})
}

func newLayout(t *testing.T, typeName string, inputs, outputs []string) *layout.PipelineLayout {
	t.Helper()

	p := layout.NewPipelineLayout(typeName)

	for _, in := range inputs {
		_, err := p.AddInput(in)
		require.NoError(t, err)
	}

	for _, out := range outputs {
		_, err := p.AddOutput(out)
		require.NoError(t, err)
	}

	return p
}

func add(t *testing.T, p *layout.PipelineLayout, c layout.Component, name string) int {
	t.Helper()

	i, err := p.Add(c, name)
	require.NoError(t, err)

	return i
}

// createChain returns "in -> a -> b -> out" with the given kernels.
func createChain(t *testing.T, kernels ...string) *layout.PipelineLayout {
	t.Helper()

	p := newLayout(t, "chain", []string{"in"}, []string{"out"})
	prev := layout.ThisPipeline

	for i, k := range kernels {
		e := add(t, p, unary(t, k), string(rune('a'+i)))
		if prev == layout.ThisPipeline {
			require.NoError(t, p.ConnectToInput(0, e, 0))
		} else {
			require.NoError(t, p.Connect(prev, 0, e, 0))
		}

		prev = e
	}

	require.NoError(t, p.ConnectToOutput(prev, 0, 0))

	return p
}

// createDiamond returns "in -> a(invert)", "a -> b(copy)", "a -> c(invert)"
// and "b, c -> d(add) -> out".
func createDiamond(t *testing.T) *layout.PipelineLayout {
	t.Helper()

	p := newLayout(t, "diamond", []string{"in"}, []string{"out"})
	a := add(t, p, unary(t, softgl.KernelInvert), "a")
	b := add(t, p, unary(t, softgl.KernelCopy), "b")
	c := add(t, p, unary(t, softgl.KernelInvert), "c")
	d := add(t, p, binary(t, softgl.KernelAdd), "d")

	require.NoError(t, p.ConnectToInput(0, a, 0))
	require.NoError(t, p.Connect(a, 0, b, 0))
	require.NoError(t, p.Connect(a, 0, c, 0))
	require.NoError(t, p.Connect(b, 0, d, 0))
	require.NoError(t, p.Connect(c, 0, d, 1))
	require.NoError(t, p.ConnectToOutput(d, 0, 0))

	return p
}

// createInvertBlock returns a pipeline "in -> x(invert) -> out".
func createInvertBlock(t *testing.T) *layout.PipelineLayout {
	t.Helper()

	p := newLayout(t, "invert-block", []string{"in"}, []string{"out"})
	x := add(t, p, unary(t, softgl.KernelInvert), "x")
	require.NoError(t, p.ConnectToInput(0, x, 0))
	require.NoError(t, p.ConnectToOutput(x, 0, 0))

	return p
}

func build(t *testing.T, l layout.Reader, dev model.Device, opts ...pipeline.Option) *pipeline.Pipeline {
	t.Helper()

	p, err := pipeline.New(l, dev, opts...)
	require.NoError(t, err)
	t.Cleanup(func() { _ = p.Close() })

	return p
}

func solid(t *testing.T, dev *softgl.Device, c softgl.Color) *softgl.Texture {
	t.Helper()

	tex, err := dev.NewTexture(rgba)
	require.NoError(t, err)
	tex.Fill(c)

	return tex
}

func assertOutput(t *testing.T, p *pipeline.Pipeline, port int, want color.NRGBA) {
	t.Helper()

	out, err := p.Out(port)
	require.NoError(t, err)

	tex, ok := out.(*softgl.Texture)
	require.True(t, ok)

	img := tex.Image()
	for y := 0; y < img.Bounds().Dy(); y++ {
		for x := 0; x < img.Bounds().Dx(); x++ {
			assert.Equal(t, want, img.NRGBAAt(x, y), "pixel %d,%d", x, y)
		}
	}
}

// faultyDevice fails once the allowed number of programs or framebuffers
// was created. A negative budget never fails.
type faultyDevice struct {
	*softgl.Device
	programs     int
	framebuffers int
}

func (d *faultyDevice) NewProgram(shader model.ShaderSource, inputs, outputs []string) (model.Program, error) {
	if d.programs == 0 {
		return nil, assert.AnError
	}

	d.programs--

	return d.Device.NewProgram(shader, inputs, outputs)
}

func (d *faultyDevice) NewFramebuffer(format model.Format, attachments int) (model.Framebuffer, error) {
	if d.framebuffers == 0 {
		return nil, assert.AnError
	}

	d.framebuffers--

	return d.Device.NewFramebuffer(format, attachments)
}

// countingHook records the calls made to a pipeline option.
type countingHook struct {
	fail     string
	news     int
	actions  []*model.ActionInfo
	outputs  map[string]string
	outputed int
	frames   int
	finishes int
}

func (h *countingHook) err(step string) error {
	if h.fail == step {
		return assert.AnError
	}

	return nil
}

func (h *countingHook) New() error {
	h.news++
	return h.err("new")
}

func (h *countingHook) PrepareAction(action *model.ActionInfo) error {
	h.actions = append(h.actions, action)
	return h.err("action")
}

func (h *countingHook) PrepareOutput(port, source string) error {
	if h.outputs == nil {
		h.outputs = make(map[string]string)
	}

	h.outputs[port] = source

	return h.err("output")
}

func (h *countingHook) OnActionOutput(*model.ActionInfo, time.Duration) error {
	h.outputed++
	return h.err("on action")
}

func (h *countingHook) AfterProcess(time.Duration) error {
	h.frames++
	return h.err("after")
}

func (h *countingHook) Finish() error {
	h.finishes++
	return h.err("finish")
}

var _ model.PipelineOption = (*countingHook)(nil)

// foreignTexture is a texture no softgl program accepts.
type foreignTexture struct {
	format model.Format
}

func (f *foreignTexture) Format() model.Format { return f.format }
func (f *foreignTexture) ByteSize() int        { return f.format.ByteSize() }
func (f *foreignTexture) Bind(int) error       { return nil }
