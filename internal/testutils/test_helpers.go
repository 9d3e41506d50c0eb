package testutils

import (
	"errors"
	"os"
	"path/filepath"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"typedshell/pkg/typedtypes"
)

// AssertionHelpers provides common assertion patterns
type AssertionHelpers struct {
	t *testing.T
}

// NewAssertionHelpers creates assertion helpers for a test
func NewAssertionHelpers(t *testing.T) *AssertionHelpers {
	return &AssertionHelpers{t: t}
}

// AssertKind checks that err is a typed error of the given kind.
func (h *AssertionHelpers) AssertKind(err error, kind typedtypes.Kind) {
	h.t.Helper()
	require.Error(h.t, err)
	assert.Equal(h.t, kind.String(), typedtypes.KindOf(err).String(), "unexpected error: %v", err)
}

// AssertParam checks that err carries key=value among its parameters.
func (h *AssertionHelpers) AssertParam(err error, key string, value any) {
	h.t.Helper()
	var te *typedtypes.Error
	require.True(h.t, errors.As(err, &te), "not a typed error: %v", err)
	got, ok := te.Param(key)
	require.True(h.t, ok, "missing parameter %s in %v", key, err)
	assert.Equal(h.t, value, got)
}

// FileHelpers provides file system utilities for tests
type FileHelpers struct{}

// NewFileHelpers creates file helpers
func NewFileHelpers() *FileHelpers {
	return &FileHelpers{}
}

// CreateTempFile creates a temporary file with content
func (f *FileHelpers) CreateTempFile(t *testing.T, filename, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), filename)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

// CreateTempDir creates a temporary directory holding files
func (f *FileHelpers) CreateTempDir(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for name, content := range files {
		path := filepath.Join(dir, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	}
	return dir
}

func sortStrings(s []string) []string {
	sort.Strings(s)
	return s
}
