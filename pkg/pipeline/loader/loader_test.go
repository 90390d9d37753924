package loader_test

import (
	"bytes"
	"image/color"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gogpu/gputypes"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/askiada/go-shaderpipe/pkg/pipeline"
	"github.com/askiada/go-shaderpipe/pkg/pipeline/layout"
	"github.com/askiada/go-shaderpipe/pkg/pipeline/loader"
	"github.com/askiada/go-shaderpipe/pkg/pipeline/model"
	"github.com/askiada/go-shaderpipe/pkg/softgl"
)

const negative = `
main: negative
filters:
  invert:
    format: {width: 4, height: 2, pixel: RGBA8}
    inputs: [in]
    outputs: [out]
  mix:
    format: {width: 4, height: 2, pixel: RGBA8}
    shader: add
    inputs: [lhs, rhs]
    outputs: [out]
pipelines:
  block:
    inputs: [in]
    outputs: [out]
    elements:
      - {name: x, type: invert}
    connections:
      - {from: "this:in", to: "x:in"}
      - {from: "x:out", to: "this:out"}
  negative:
    inputs: [image, overlay]
    outputs: [result]
    elements:
      - {name: twice, type: block}
      - {name: once, type: invert}
      - {name: m, type: mix}
    connections:
      - {from: "this:image", to: "twice:in"}
      - {from: "twice:out", to: "once:in"}
      - {from: "once:out", to: "m:lhs"}
      - {from: "this:overlay", to: "m:rhs"}
      - {from: "m:out", to: "this:result"}
`

func TestDecode(t *testing.T) {
	t.Parallel()

	l, err := loader.Decode(strings.NewReader(negative))
	require.NoError(t, err)
	require.NoError(t, l.Check())

	assert.Equal(t, "negative", l.TypeName())
	assert.Equal(t, []string{"image", "overlay"}, l.InputPorts())
	assert.Equal(t, []string{"result"}, l.OutputPorts())

	filters, pipelines := l.Info()
	assert.Equal(t, 3, filters)
	assert.Equal(t, 2, pipelines)

	c, err := l.Lookup("twice/x")
	require.NoError(t, err)
	x, ok := c.(*layout.FilterLayout)
	require.True(t, ok)
	assert.Equal(t, model.Format{Width: 4, Height: 2, Pixel: gputypes.TextureFormatRGBA8Unorm}, x.Format())
	assert.Equal(t, "invert", x.Shader().Name)

	c, err = l.Lookup("m")
	require.NoError(t, err)
	assert.Equal(t, "add", c.(*layout.FilterLayout).Shader().Name)

	m, err := l.ElementIndex("m")
	require.NoError(t, err)
	src, err := l.ConnectionSourceName(m, 1)
	require.NoError(t, err)
	assert.Equal(t, "this:overlay", src)
}

func TestDecodedLayoutRuns(t *testing.T) {
	t.Parallel()

	l, err := loader.Decode(strings.NewReader(negative))
	require.NoError(t, err)

	dev := softgl.NewDevice()
	p, err := pipeline.New(l, dev)
	require.NoError(t, err)
	t.Cleanup(func() { _ = p.Close() })

	format := model.Format{Width: 4, Height: 2, Pixel: gputypes.TextureFormatRGBA8Unorm}
	image, err := dev.NewTexture(format)
	require.NoError(t, err)
	image.Fill(softgl.Color{1, 0, 0, 1})
	overlay, err := dev.NewTexture(format)
	require.NoError(t, err)
	overlay.Fill(softgl.Color{0, 0, 1, 0})

	require.NoError(t, p.Run(image, overlay))

	out, err := p.OutByName("result")
	require.NoError(t, err)
	assert.Equal(t, color.NRGBA{R: 255, B: 255, A: 255}, out.(*softgl.Texture).Image().NRGBAAt(3, 1))
}

func TestEncodeRoundTrip(t *testing.T) {
	t.Parallel()

	l, err := loader.Decode(strings.NewReader(negative))
	require.NoError(t, err)

	var first bytes.Buffer
	require.NoError(t, loader.Encode(&first, l))
	assert.Contains(t, first.String(), "shader: add")
	assert.NotContains(t, first.String(), "shader: invert", "default shader names are omitted")

	again, err := loader.Decode(bytes.NewReader(first.Bytes()))
	require.NoError(t, err)

	var second bytes.Buffer
	require.NoError(t, loader.Encode(&second, again))
	assert.Equal(t, first.String(), second.String())

	doc, err := loader.NewDocument(again)
	require.NoError(t, err)
	assert.Equal(t, "negative", doc.Main)
	assert.Len(t, doc.Filters, 2)
	assert.Len(t, doc.Pipelines, 2)
	assert.Equal(t, []loader.ConnectionSpec{
		{From: "this:in", To: "x:in"},
		{From: "x:out", To: "this:out"},
	}, doc.Pipelines["block"].Connections)
}

func TestEncodeAcceptedNamesRoundTrip(t *testing.T) {
	t.Parallel()

	format := model.Format{Width: 2, Height: 2, Pixel: gputypes.TextureFormatRGBA8Unorm}
	f, err := layout.NewFilterLayout("blur-v2", format, model.ShaderSource{Name: softgl.KernelCopy})
	require.NoError(t, err)
	_, err = f.AddInput("source image")
	require.NoError(t, err)
	_, err = f.AddOutput("out.0")
	require.NoError(t, err)

	inner := layout.NewPipelineLayout("inner block")
	_, err = inner.AddInput("in")
	require.NoError(t, err)
	_, err = inner.AddOutput("out")
	require.NoError(t, err)
	x, err := inner.Add(f, "This")
	require.NoError(t, err)
	require.NoError(t, inner.ConnectToInput(0, x, 0))
	require.NoError(t, inner.ConnectToOutput(x, 0, 0))

	root := layout.NewPipelineLayout("root")
	_, err = root.AddInput("in")
	require.NoError(t, err)
	_, err = root.AddOutput("out")
	require.NoError(t, err)
	a, err := root.Add(inner, "first pass")
	require.NoError(t, err)
	b, err := root.Add(f, "blur.2")
	require.NoError(t, err)

	for _, name := range []string{"a:b", "this", "a/b"} {
		_, err := root.Add(f, name)
		require.ErrorIs(t, err, layout.ErrInvalidName, name)
	}

	require.NoError(t, root.ConnectToInput(0, a, 0))
	require.NoError(t, root.Connect(a, 0, b, 0))
	require.NoError(t, root.ConnectToOutput(b, 0, 0))
	require.NoError(t, root.Check())

	src, err := root.ConnectionSourceName(b, 0)
	require.NoError(t, err)
	assert.Equal(t, "first pass:out", src)

	var first bytes.Buffer
	require.NoError(t, loader.Encode(&first, root))

	decoded, err := loader.Decode(bytes.NewReader(first.Bytes()))
	require.NoError(t, err)
	require.NoError(t, decoded.Check())

	var second bytes.Buffer
	require.NoError(t, loader.Encode(&second, decoded))
	assert.Equal(t, first.String(), second.String())

	c, err := decoded.Lookup("first pass/This")
	require.NoError(t, err)
	assert.Equal(t, "blur-v2", c.TypeName())
}

func TestLoad(t *testing.T) {
	t.Parallel()

	fileName := filepath.Join(t.TempDir(), "negative.yaml")
	require.NoError(t, os.WriteFile(fileName, []byte(negative), 0o600))

	l, err := loader.Load(fileName)
	require.NoError(t, err)
	assert.Equal(t, "negative", l.TypeName())

	_, err = loader.Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.ErrorIs(t, err, os.ErrNotExist)
}

func TestDecodeErrors(t *testing.T) {
	t.Parallel()

	const filter = `
filters:
  f:
    format: {width: 4, height: 4, pixel: RGBA8}
    inputs: [in]
    outputs: [out]
`

	tests := map[string]struct {
		doc  string
		want error
	}{
		"missing main": {
			doc:  filter,
			want: loader.ErrMissingMain,
		},
		"unknown main": {
			doc:  "main: nope" + filter,
			want: loader.ErrUnknownType,
		},
		"unknown element type": {
			doc: "main: p" + filter + `
pipelines:
  p:
    outputs: [out]
    elements: [{name: a, type: g}]
`,
			want: loader.ErrUnknownType,
		},
		"type conflict": {
			doc: "main: f" + filter + `
pipelines:
  f:
    outputs: [out]
`,
			want: loader.ErrTypeConflict,
		},
		"recursive pipeline": {
			doc: "main: p" + filter + `
pipelines:
  p:
    outputs: [out]
    elements: [{name: q, type: q}]
  q:
    outputs: [out]
    elements: [{name: p, type: p}]
`,
			want: loader.ErrRecursiveType,
		},
		"bad endpoint": {
			doc: "main: p" + filter + `
pipelines:
  p:
    inputs: [in]
    outputs: [out]
    elements: [{name: a, type: f}]
    connections: [{from: "this.in", to: "a:in"}]
`,
			want: loader.ErrEndpoint,
		},
		"unknown port": {
			doc: "main: p" + filter + `
pipelines:
  p:
    inputs: [in]
    outputs: [out]
    elements: [{name: a, type: f}]
    connections: [{from: "this:img", to: "a:in"}]
`,
			want: layout.ErrPortNotFound,
		},
		"reserved name": {
			doc: "main: p" + filter + `
pipelines:
  p:
    outputs: [out]
    elements: [{name: this, type: f}]
`,
			want: layout.ErrInvalidName,
		},
		"duplicate connection": {
			doc: "main: p" + filter + `
pipelines:
  p:
    inputs: [in, other]
    outputs: [out]
    elements: [{name: a, type: f}]
    connections:
      - {from: "this:in", to: "a:in"}
      - {from: "this:other", to: "a:in"}
`,
			want: layout.ErrDuplicateConnection,
		},
		"unknown pixel layout": {
			doc: `
main: p
filters:
  f:
    format: {width: 4, height: 4, pixel: RGB565}
    outputs: [out]
pipelines:
  p:
    outputs: [out]
    elements: [{name: a, type: f}]
`,
			want: model.ErrInvalidFormat,
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			_, err := loader.Decode(strings.NewReader(tt.doc))
			require.ErrorIs(t, err, tt.want)
		})
	}

	_, err := loader.Decode(strings.NewReader("main: p\nunknown: 1\n"))
	require.Error(t, err, "unknown fields are rejected")
}
