package registry

import (
	"testing"

	"github.com/stratoquant/alphaql/value"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dummySpec(name string) FuncSpec {
	return FuncSpec{
		Name:  name,
		Arity: ArgSet{1: true},
		Kind:  ScalarKind,
		Scalar: func(ctx ScalarContext, args []value.Value) (value.Value, error) {
			return args[0], nil
		},
		Doc: "returns its argument unchanged",
	}
}

func TestRegistry_RegisterAndGet(t *testing.T) {
	r := New()
	r.Register(dummySpec("identity"))

	spec, err := r.Get("identity")
	require.NoError(t, err)
	assert.Equal(t, "identity", spec.Name)
}

func TestRegistry_GetIsCaseInsensitive(t *testing.T) {
	r := New()
	r.Register(dummySpec("Ts_Mean"))

	_, err := r.Get("TS_MEAN")
	require.NoError(t, err)
	_, err = r.Get("ts_mean")
	require.NoError(t, err)
}

func TestRegistry_GetUnknown(t *testing.T) {
	r := New()
	_, err := r.Get("nope")
	require.Error(t, err)
	var unknown *UnknownFunctionError
	require.ErrorAs(t, err, &unknown)
	assert.Equal(t, "nope", unknown.Name)
}

func TestRegistry_LastWriterWins(t *testing.T) {
	r := New()
	r.Register(FuncSpec{Name: "foo", Arity: ArgSet{1: true}, Doc: "first"})
	r.Register(FuncSpec{Name: "foo", Arity: ArgSet{2: true}, Doc: "second"})

	spec, err := r.Get("foo")
	require.NoError(t, err)
	assert.Equal(t, "second", spec.Doc)
	assert.True(t, spec.Arity[2])
	assert.False(t, spec.Arity[1])
}

func TestRegistry_CheckArity(t *testing.T) {
	r := New()
	spec := FuncSpec{Name: "ts_mean", Arity: ArgSet{2: true}}
	r.Register(spec)

	require.NoError(t, r.CheckArity(spec, 2))

	err := r.CheckArity(spec, 3)
	require.Error(t, err)
	var arityErr *ArityError
	require.ErrorAs(t, err, &arityErr)
	assert.Equal(t, 3, arityErr.Got)
}

func TestRegistry_ListIsSorted(t *testing.T) {
	r := New()
	r.Register(dummySpec("zscore"))
	r.Register(dummySpec("delay"))
	r.Register(dummySpec("rank"))

	names := make([]string, 0, 3)
	for _, spec := range r.List() {
		names = append(names, spec.Name)
	}
	assert.Equal(t, []string{"delay", "rank", "zscore"}, names)
}
