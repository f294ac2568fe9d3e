// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package kv

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDir(t *testing.T) {
	t.Setenv("WTYCTL_DATA_DIR", "/tmp/somewhere")
	d, ok := Dir()
	assert.True(t, ok)
	assert.Equal(t, "/tmp/somewhere", d)
}

func TestOpen_FromEnv(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "data")
	t.Setenv("WTYCTL_DATA_DIR", dir)

	s, err := Open("")
	require.NoError(t, err)
	assert.Equal(t, dir, s.Root())
	assert.DirExists(t, dir)
}

func TestPutGetDelete(t *testing.T) {
	s, err := Open(t.TempDir())
	require.NoError(t, err)

	_, ok, err := s.Get("productData")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, s.Put("productData", []byte(`[{"id":"1"}]`+"\n")))
	e, ok, err := s.Get("productData")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, `[{"id":"1"}]`, string(e.Data))
	assert.Equal(t, "productData", e.Key)
	assert.Equal(t, encodeKey("productData"), filepath.Base(e.Path))

	require.NoError(t, s.Put("productData", []byte(`[]`)))
	e, _, _ = s.Get("productData")
	assert.Equal(t, `[]`, string(e.Data))

	// No staging files are left behind.
	entries, err := os.ReadDir(s.Root())
	require.NoError(t, err)
	assert.Len(t, entries, 1)

	require.NoError(t, s.Delete("productData"))
	require.NoError(t, s.Delete("productData"))
	_, ok, _ = s.Get("productData")
	assert.False(t, ok)
}

func TestEncodeKey(t *testing.T) {
	assert.Equal(t, "d41d8cd98f00b204e9800998ecf8427e", encodeKey(""))
	assert.NotEqual(t, encodeKey("a"), encodeKey("b"))
}
