package layout_test

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/askiada/go-shaderpipe/pkg/pipeline/layout"
)

func TestCheckValid(t *testing.T) {
	t.Parallel()

	p := layout.NewPipelineLayout("main")
	_, err := p.AddInput("in")
	require.NoError(t, err)
	_, err = p.AddOutput("out")
	require.NoError(t, err)
	idx, err := p.Add(createChain(t, "chain"), "nested")
	require.NoError(t, err)
	require.NoError(t, p.ConnectToInput(0, idx, 0))
	require.NoError(t, p.ConnectToOutput(idx, 0, 0))

	require.NoError(t, p.Check())
}

func TestCheckAggregatesProblems(t *testing.T) {
	t.Parallel()

	mix := createFilter(t, "mix", []string{"a", "b"}, []string{"out"})

	broken := layout.NewPipelineLayout("broken")
	_, err := broken.AddInput("in")
	require.NoError(t, err)
	_, err = broken.AddOutput("out")
	require.NoError(t, err)
	_, err = broken.Add(mix, "m")
	require.NoError(t, err)
	require.NoError(t, broken.ConnectToInput(0, 0, 0))

	p := layout.NewPipelineLayout("main")
	_, err = p.AddOutput("result")
	require.NoError(t, err)
	_, err = p.Add(broken, "sub")
	require.NoError(t, err)
	_, err = p.Add(mix, "top")
	require.NoError(t, err)

	err = p.Check()
	require.ErrorIs(t, err, layout.ErrUnresolvedPort)

	var checkErr *layout.CheckError
	require.True(t, errors.As(err, &checkErr))

	assert.ElementsMatch(t, []string{
		"sub input port in has no source",
		"sub/m input port b has no source",
		"pipeline sub output port out has no source",
		"top input port a has no source",
		"top input port b has no source",
		"pipeline main output port result has no source",
	}, checkErr.Problems)
}

func TestLookup(t *testing.T) {
	t.Parallel()

	inner := layout.NewPipelineLayout("inner")
	_, err := inner.Add(createChain(t, "chain"), "deep")
	require.NoError(t, err)

	p := layout.NewPipelineLayout("main")
	_, err = p.Add(inner, "mid")
	require.NoError(t, err)

	c, err := p.Lookup("mid/deep/b")
	require.NoError(t, err)
	assert.Equal(t, "copy", c.TypeName())

	c, err = p.Lookup("mid/deep")
	require.NoError(t, err)
	assert.Equal(t, "chain", c.TypeName())

	_, err = p.Lookup("mid/deep/b/x")
	require.ErrorIs(t, err, layout.ErrWrongKind)

	_, err = p.Lookup("mid/nope")
	require.ErrorIs(t, err, layout.ErrElementNotFound)

	_, err = p.Lookup("")
	require.ErrorIs(t, err, layout.ErrElementNotFound)
}
