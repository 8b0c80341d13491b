package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"pivot/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCheck_ReportsRouteCount(t *testing.T) {
	path := filepath.Join(t.TempDir(), "routes.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"docs": "https://example.com", "blog": "https://blog.example.com"}`), 0o644))
	cfg := &config.Config{Store: config.StoreConfig{DataLocation: path}}

	var out bytes.Buffer
	err := check(context.Background(), &out, cfg)

	require.NoError(t, err)
	assert.Equal(t, path+": 2 routes\n", out.String())
}

func TestCheck_MalformedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "routes.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"docs": 1}`), 0o644))
	cfg := &config.Config{Store: config.StoreConfig{DataLocation: path}}

	var out bytes.Buffer
	err := check(context.Background(), &out, cfg)

	assert.Error(t, err)
	assert.Empty(t, out.String())
}

func TestCheck_EmptyTarget(t *testing.T) {
	path := filepath.Join(t.TempDir(), "routes.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"docs": "https://example.com", "x": ""}`), 0o644))
	cfg := &config.Config{Store: config.StoreConfig{DataLocation: path}}

	var out bytes.Buffer
	err := check(context.Background(), &out, cfg)

	assert.ErrorContains(t, err, `"x"`)
	assert.Empty(t, out.String())
}

func TestCheck_MissingFile(t *testing.T) {
	cfg := &config.Config{Store: config.StoreConfig{DataLocation: filepath.Join(t.TempDir(), "missing.json")}}

	err := check(context.Background(), &bytes.Buffer{}, cfg)

	assert.ErrorIs(t, err, os.ErrNotExist)
}
