package main

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/waypoint/blobstore"
	"github.com/hupe1980/waypoint/graph/grid"
	"github.com/hupe1980/waypoint/search"
)

func TestLoadConfig(t *testing.T) {
	t.Run("Defaults", func(t *testing.T) {
		cfg, err := loadConfig("")
		require.NoError(t, err)
		assert.Equal(t, "info", cfg.LogLevel)
		assert.Equal(t, "local", cfg.Store.Kind)
		assert.Equal(t, "euclidean", cfg.Search.Heuristic)
		assert.Equal(t, search.DefaultMaxSearchedNodes, cfg.Search.MaxSearchedNodes)
		assert.Nil(t, cfg.Search.PartitionCheck)
	})

	t.Run("File", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "waypoint.yaml")
		require.NoError(t, os.WriteFile(path, []byte(`
log_level: debug
store:
  kind: s3
  s3:
    bucket: maps
    prefix: levels/
    path_style: true
grid:
  topology: six
  node_size: 2
search:
  heuristic: manhattan
  partial: true
  partition_check: false
limits:
  max_pending: 8
  requests_per_second: 50
`), 0o600))

		cfg, err := loadConfig(path)
		require.NoError(t, err)
		assert.Equal(t, "debug", cfg.LogLevel)
		assert.Equal(t, "s3", cfg.Store.Kind)
		assert.Equal(t, "maps", cfg.Store.S3.Bucket)
		assert.True(t, cfg.Store.S3.PathStyle)
		assert.Equal(t, "six", cfg.Grid.Topology)
		assert.Equal(t, 2.0, cfg.Grid.NodeSize)
		assert.True(t, cfg.Search.Partial)
		require.NotNil(t, cfg.Search.PartitionCheck)
		assert.False(t, *cfg.Search.PartitionCheck)
		assert.EqualValues(t, 8, cfg.Limits.MaxPending)
		assert.Equal(t, 50.0, cfg.Limits.RequestsPerSecond)
		// Unset keys keep their defaults.
		assert.Equal(t, 1.0, cfg.Search.HeuristicScale)
	})

	t.Run("Missing", func(t *testing.T) {
		_, err := loadConfig(filepath.Join(t.TempDir(), "nope.yaml"))
		require.Error(t, err)
	})

	t.Run("Malformed", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "bad.yaml")
		require.NoError(t, os.WriteFile(path, []byte("search: [1, 2"), 0o600))
		_, err := loadConfig(path)
		require.Error(t, err)
	})
}

func TestSearchConfigOptions(t *testing.T) {
	cfg := defaultConfig()
	opts, err := cfg.Search.options()
	require.NoError(t, err)
	assert.Len(t, opts, 5)

	off := false
	cfg.Search.PartitionCheck = &off
	opts, err = cfg.Search.options()
	require.NoError(t, err)
	assert.Len(t, opts, 6)

	cfg.Search.Heuristic = "teleport"
	_, err = cfg.Search.options()
	require.Error(t, err)
}

func TestGridConfigOptions(t *testing.T) {
	opts, err := GridConfig{Topology: "four", NodeSize: 0.5, CutCorners: true}.options()
	require.NoError(t, err)
	assert.Equal(t, grid.Four, opts.Topology)
	assert.Equal(t, 0.5, opts.NodeSize)
	assert.True(t, opts.CutCorners)

	opts, err = GridConfig{}.options()
	require.NoError(t, err)
	assert.Zero(t, opts.Topology)

	_, err = GridConfig{Topology: "seven"}.options()
	require.Error(t, err)
}

func TestOpenStore(t *testing.T) {
	ctx := context.Background()
	root := t.TempDir()

	store, err := openStore(ctx, StoreConfig{Kind: "local", Local: LocalConfig{Root: root}})
	require.NoError(t, err)
	require.NoError(t, store.Put(ctx, "a.wpg", []byte("x")))
	_, err = os.Stat(filepath.Join(root, "a.wpg"))
	require.NoError(t, err)
	assert.Implements(t, (*blobstore.Store)(nil), store)

	_, err = openStore(ctx, StoreConfig{Kind: "tape"})
	require.ErrorIs(t, err, errUnknownStore)
}
