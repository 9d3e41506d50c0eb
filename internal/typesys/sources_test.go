package typesys

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"typedshell/internal/types"
	"typedshell/pkg/typedtypes"
)

// moduleSource registers mod idempotently and counts its calls.
func moduleSource(mod typedtypes.Module, calls *int) SourceFunc {
	return func(r *Registry) error {
		*calls++
		r.LoadTypeModule(mod)
		return nil
	}
}

func TestLazySources_ConsultedInOrderAndTruncated(t *testing.T) {
	r := New()
	var emptyCalls, alphaCalls, betaCalls int

	r.AddSource("empty", moduleSource(typedtypes.Module{}, &emptyCalls))
	r.AddSource("alpha", moduleSource(typedtypes.Module{"alpha": types.NewEnum("alpha", []string{"a"})}, &alphaCalls))
	r.AddSource("beta", moduleSource(typedtypes.Module{"beta": types.NewEnum("beta", []string{"b"})}, &betaCalls))

	typ, err := r.Resolve("alpha")
	require.NoError(t, err)
	assert.Equal(t, "alpha", typ.Name())
	assert.Equal(t, 1, emptyCalls)
	assert.Equal(t, 1, alphaCalls)
	assert.Equal(t, 0, betaCalls)
	assert.Equal(t, []string{"alpha", "beta"}, r.PendingSources())

	_, err = r.Resolve("alpha")
	require.NoError(t, err)
	assert.Equal(t, 1, alphaCalls, "known types never consult sources")

	_, err = r.Resolve("beta")
	require.NoError(t, err)
	assert.Equal(t, 1, emptyCalls)
	assert.Equal(t, 2, alphaCalls)
	assert.Equal(t, 1, betaCalls)
	assert.Equal(t, []string{"beta"}, r.PendingSources())
}

func TestLazySources_ExhaustedForUnknownName(t *testing.T) {
	r := New()
	var calls int
	r.AddSource("one", moduleSource(typedtypes.Module{}, &calls))
	r.AddSource("two", moduleSource(typedtypes.Module{}, &calls))

	_, err := r.Resolve("missing")
	require.Error(t, err)
	assert.ErrorIs(t, err, typedtypes.ErrArgument)
	assert.Equal(t, 2, calls)
	assert.Empty(t, r.PendingSources())

	_, err = r.Resolve("missing")
	require.Error(t, err)
	assert.Equal(t, 2, calls)
}

func TestLazySources_FailuresAreRecordedAndSkipped(t *testing.T) {
	r := New()
	var calls int
	r.AddSource("broken", func(*Registry) error { return errors.New("plugin crashed") })
	r.AddSource("good", moduleSource(typedtypes.Module{"color": types.NewEnum("color", []string{"red"})}, &calls))

	_, err := r.Resolve("color")
	require.NoError(t, err)

	failed := r.FailedSources()
	require.Len(t, failed, 1)
	assert.Equal(t, "broken", failed[0].Label)
	assert.EqualError(t, failed[0].Err, "plugin crashed")
}

func TestLazySources_UnknownTypeNamesFailedSources(t *testing.T) {
	r := New()
	r.AddSource("broken", func(*Registry) error { return errors.New("nope") })

	_, err := r.Resolve("missing")
	require.Error(t, err)

	var te *typedtypes.Error
	require.ErrorAs(t, err, &te)
	failed, ok := te.Param("failed_sources")
	require.True(t, ok)
	assert.Equal(t, []string{"broken"}, failed)
}

func TestLazySources_FactoryForComposite(t *testing.T) {
	r := New()
	var calls int
	r.AddSource("pairs", moduleSource(typedtypes.Module{"pair": types.MapFactory{}}, &calls))

	typ, err := r.Resolve("pair(string,integer)")
	require.NoError(t, err)
	assert.Equal(t, "map(string,integer)", typ.Name())
	assert.Equal(t, 1, calls)
}

func TestLazySources_SourcesAddedDuringLoadAreKept(t *testing.T) {
	r := New()
	r.AddSource("chain", func(reg *Registry) error {
		reg.AddSource("next", func(*Registry) error { return nil })
		return nil
	})

	_, err := r.Resolve("missing")
	require.Error(t, err)
	assert.Equal(t, []string{"next"}, r.PendingSources())
}

func TestPluginGroups(t *testing.T) {
	group := "typesys.test.plugins"
	RegisterPlugin(group, PluginEntry{
		Name: "fails",
		Load: func() (typedtypes.Module, error) { return nil, errors.New("cannot import") },
	})
	RegisterPlugin(group, PluginEntry{
		Name: "shapes",
		Load: func() (typedtypes.Module, error) {
			return typedtypes.Module{"shape": types.NewEnum("shape", []string{"circle", "square"})}, nil
		},
	})

	r := New()
	r.AddPluginGroup(group)

	conv, err := r.Convert("circle", "shape")
	require.NoError(t, err)
	assert.Equal(t, "circle", conv)

	failed := r.FailedSources()
	require.Len(t, failed, 1)
	assert.Equal(t, group+":fails", failed[0].Label)
	assert.Equal(t, []string{group}, r.PendingSources())
}

func TestDefault_IsSharedAndReplaceable(t *testing.T) {
	original := Default()
	t.Cleanup(func() { SetDefault(original) })

	assert.Same(t, original, Default())
	assert.Contains(t, original.PendingSources(), DefaultPluginGroup)

	replacement := NewEmpty()
	SetDefault(replacement)
	assert.Same(t, replacement, Default())
}
