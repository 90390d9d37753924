package layout_test

import (
	"testing"

	"github.com/gogpu/gputypes"
	"github.com/stretchr/testify/require"

	"github.com/askiada/go-shaderpipe/pkg/pipeline/layout"
	"github.com/askiada/go-shaderpipe/pkg/pipeline/model"
)

var rgba64 = model.Format{Width: 64, Height: 64, Pixel: gputypes.TextureFormatRGBA8Unorm}

func createFilter(t *testing.T, typeName string, inputs, outputs []string) *layout.FilterLayout {
	t.Helper()

	f, err := layout.NewFilterLayout(typeName, rgba64, model.ShaderSource{Name: typeName})
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

// createChain returns a pipeline "in -> a -> b -> out" built from one-port filters.
func createChain(t *testing.T, typeName string) *layout.PipelineLayout {
	t.Helper()

	f := createFilter(t, "copy", []string{"in"}, []string{"out"})
	p := layout.NewPipelineLayout(typeName)

	_, err := p.AddInput("in")
	require.NoError(t, err)
	_, err = p.AddOutput("out")
	require.NoError(t, err)

	a, err := p.Add(f, "a")
	require.NoError(t, err)
	b, err := p.Add(f, "b")
	require.NoError(t, err)

	require.NoError(t, p.ConnectToInput(0, a, 0))
	require.NoError(t, p.Connect(a, 0, b, 0))
	require.NoError(t, p.ConnectToOutput(b, 0, 0))

	return p
}
