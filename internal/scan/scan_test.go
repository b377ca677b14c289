// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package scan

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func touch(t *testing.T, dir, name string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte("x"), 0o644))
	return path
}

func TestConvertible(t *testing.T) {
	tests := []struct {
		name string
		want bool
	}{
		{"plan.xmind", true},
		{"PLAN.XMIND", true},
		{"notes.Xmind", true},
		{"plan.xmind.bak", false},
		{"plan.md", false},
		{"xmind", false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Convertible(tt.name), tt.name)
	}
}

func TestDiscover(t *testing.T) {
	dir := t.TempDir()
	b := touch(t, dir, "nested/deep/b.xmind")
	a := touch(t, dir, "a.XMIND")
	touch(t, dir, "readme.md")
	touch(t, dir, ".git/hidden.xmind")
	touch(t, dir, "nested/.cache/skip.xmind")

	got, err := Discover(dir)
	require.NoError(t, err)
	assert.Equal(t, []string{a, b}, got)
}

func TestDiscoverMissingRoot(t *testing.T) {
	_, err := Discover(filepath.Join(t.TempDir(), "absent"))
	assert.Error(t, err)
}

func TestDiscoverEmpty(t *testing.T) {
	got, err := Discover(t.TempDir())
	require.NoError(t, err)
	assert.Empty(t, got)
}
