package commands

import (
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"typedshell/pkg/typedtypes"
)

func demoModule(loads *int) Loader {
	return func() (*Module, error) {
		*loads++
		return &Module{
			Name: "demo",
			Doc:  "Demo module.",
			Objects: map[string]any{
				"hello": New("hello").Stringable().Handle(func(Args) (any, error) { return "hi", nil }).MustBuild(),
			},
		}, nil
	}
}

func TestRegistry_NewRegistry(t *testing.T) {
	registry := NewRegistry()

	assert.NotNil(t, registry)
	assert.Empty(t, registry.Names())
}

func TestRegistry_Register(t *testing.T) {
	tests := []struct {
		name    string
		module  string
		wantErr bool
		errMsg  string
	}{
		{name: "register valid module", module: "demo"},
		{name: "register another module", module: "other"},
		{name: "register module with empty name", module: "", wantErr: true, errMsg: "module name cannot be empty"},
		{name: "register duplicate module", module: "demo", wantErr: true, errMsg: "module demo already registered"},
	}

	registry := NewRegistry()
	loads := 0
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := registry.Register(tt.module, demoModule(&loads))
			if tt.wantErr {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.errMsg)
				return
			}
			assert.NoError(t, err)
			assert.Contains(t, registry.Names(), tt.module)
		})
	}
	assert.Equal(t, []string{"demo", "other"}, registry.Names())
	assert.Equal(t, 0, loads, "registration must not load modules")
}

func TestRegistry_LoadCachesModule(t *testing.T) {
	registry := NewRegistry()
	loads := 0
	require.NoError(t, registry.Register("demo", demoModule(&loads)))

	assert.False(t, registry.IsLoaded("demo"))
	first, err := registry.Load("demo")
	require.NoError(t, err)
	second, err := registry.Load("demo")
	require.NoError(t, err)

	assert.Same(t, first, second)
	assert.Equal(t, 1, loads)
	assert.True(t, registry.IsLoaded("demo"))
}

func TestRegistry_LoadErrors(t *testing.T) {
	registry := NewRegistry()
	require.NoError(t, registry.Register("broken", func() (*Module, error) {
		return nil, fmt.Errorf("disk on fire")
	}))

	_, err := registry.Load("missing")
	require.Error(t, err)
	assert.True(t, errors.Is(err, typedtypes.ErrArgument))

	_, err = registry.Load("broken")
	require.Error(t, err)
	assert.True(t, errors.Is(err, typedtypes.ErrArgument))
	assert.Contains(t, err.Error(), "disk on fire")
	assert.False(t, registry.IsLoaded("broken"))
}

func TestRegistry_ResolveRef(t *testing.T) {
	registry := NewRegistry()
	loads := 0
	require.NoError(t, registry.Register("demo", demoModule(&loads)))

	t.Run("object", func(t *testing.T) {
		obj, err := registry.ResolveRef("demo,hello")
		require.NoError(t, err)
		cmd, ok := obj.(*Command)
		require.True(t, ok)
		assert.Equal(t, "hello", cmd.Name())
	})

	t.Run("whole module", func(t *testing.T) {
		obj, err := registry.ResolveRef("demo,")
		require.NoError(t, err)
		ns, ok := obj.(*Namespace)
		require.True(t, ok)
		assert.Equal(t, "demo", ns.Name())
		assert.Equal(t, "Demo module.", ns.Doc())
		assert.Equal(t, []string{"hello"}, ns.Names())
	})

	t.Run("nonexistent object", func(t *testing.T) {
		_, err := registry.ResolveRef("demo,nothing")
		require.Error(t, err)
		assert.True(t, errors.Is(err, typedtypes.ErrArgument))
		assert.Contains(t, err.Error(), "Attempted to import nonexistent object from module")
	})

	assert.Equal(t, 1, loads)
}

func TestRegistry_ConcurrentLoad(t *testing.T) {
	registry := NewRegistry()
	var mu sync.Mutex
	loads := 0
	require.NoError(t, registry.Register("demo", func() (*Module, error) {
		mu.Lock()
		loads++
		mu.Unlock()
		return &Module{Objects: map[string]any{}}, nil
	}))

	var wg sync.WaitGroup
	results := make([]*Module, 10)
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			mod, err := registry.Load("demo")
			assert.NoError(t, err)
			results[i] = mod
		}(i)
	}
	wg.Wait()

	for _, mod := range results {
		assert.Same(t, results[0], mod)
	}
	assert.Equal(t, "demo", results[0].Name)
}

func TestGlobalRegistry(t *testing.T) {
	original := GetGlobalRegistry()
	defer SetGlobalRegistry(original)

	fresh := NewRegistry()
	SetGlobalRegistry(fresh)
	assert.Same(t, fresh, GetGlobalRegistry())

	loads := 0
	require.NoError(t, RegisterModule("demo", demoModule(&loads)))
	assert.Equal(t, []string{"demo"}, fresh.Names())
}
