package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/waypoint/codec"
)

const level = "S....\n.###.\n....E\n"

// run executes the CLI with args and returns stdout.
func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return stdout.String(), err
}

// workspace writes the level map and a config using a local store in dir.
func workspace(t *testing.T) (dir, config string) {
	t.Helper()
	dir = t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "level.txt"), []byte(level), 0o600))
	config = filepath.Join(dir, "waypoint.yaml")
	require.NoError(t, os.WriteFile(config, []byte(`
log_level: error
store:
  kind: local
  local:
    root: `+filepath.Join(dir, "store")+`
grid:
  topology: four
`), 0o600))
	return dir, config
}

func TestSearchCmd(t *testing.T) {
	dir, config := workspace(t)
	mapFile := filepath.Join(dir, "level.txt")

	t.Run("Text", func(t *testing.T) {
		out, err := run(t, "search", "--config", config, "--map", mapFile)
		require.NoError(t, err)
		assert.Contains(t, out, "state:    complete")
		assert.Contains(t, out, "cost:     6000")
		assert.Contains(t, out, "nodes:    7")
		lines := strings.Split(out, "\n")
		assert.Equal(t, "###", lines[1][1:4])
		assert.Equal(t, byte('S'), lines[0][0])
	})

	t.Run("JSON", func(t *testing.T) {
		out, err := run(t, "search", "--config", config, "--map", mapFile, "-o", "json", "--from", "0,2", "--to", "4,0")
		require.NoError(t, err)

		var res pathResult
		require.NoError(t, codec.GoJSON{}.Unmarshal([]byte(out), &res))
		assert.Equal(t, "complete", res.State)
		assert.EqualValues(t, 6000, res.Cost)
		assert.Len(t, res.Nodes, 7)
		assert.Len(t, res.Points, 7)
		assert.EqualValues(t, 10, res.Nodes[0])
		assert.EqualValues(t, 4, res.Nodes[6])
	})

	t.Run("Partial", func(t *testing.T) {
		walled := filepath.Join(dir, "walled.txt")
		require.NoError(t, os.WriteFile(walled, []byte("S.#..\n..#.E\n"), 0o600))

		// The partition check fails walled off targets before searching.
		out, err := run(t, "search", "--config", config, "--map", walled, "-o", "json", "--partial")
		require.NoError(t, err)
		var res pathResult
		require.NoError(t, codec.GoJSON{}.Unmarshal([]byte(out), &res))
		assert.Equal(t, "error", res.State)
		assert.NotEmpty(t, res.Error)

		noCheck := filepath.Join(dir, "nocheck.yaml")
		require.NoError(t, os.WriteFile(noCheck, []byte("log_level: error\nsearch:\n  partition_check: false\n"), 0o600))
		out, err = run(t, "search", "--config", noCheck, "--map", walled, "-o", "json", "--partial")
		require.NoError(t, err)
		res = pathResult{}
		require.NoError(t, codec.GoJSON{}.Unmarshal([]byte(out), &res))
		assert.Equal(t, "partial", res.State)
		assert.NotEmpty(t, res.Nodes)
	})

	t.Run("Errors", func(t *testing.T) {
		_, err := run(t, "search", "--config", config)
		require.ErrorIs(t, err, errNoMap)

		_, err = run(t, "search", "--config", config, "--map", mapFile, "--from", "9,9")
		require.Error(t, err)

		_, err = run(t, "search", "--config", config, "--map", mapFile, "-o", "yaml")
		require.Error(t, err)
	})
}

func TestConvertThenSearch(t *testing.T) {
	dir, config := workspace(t)
	mapFile := filepath.Join(dir, "level.txt")

	for _, comp := range []string{"none", "lz4", "zstd"} {
		t.Run(comp, func(t *testing.T) {
			name := "level-" + comp + ".wpg"
			out, err := run(t, "convert", "--config", config, "--map", mapFile, "--name", name, "--compression", comp)
			require.NoError(t, err)
			assert.Contains(t, out, "saved "+name)

			_, err = os.Stat(filepath.Join(dir, "store", name))
			require.NoError(t, err)

			// Snapshots carry no markers.
			out, err = run(t, "search", "--config", config, "--snapshot", name, "--from", "0,0", "--to", "4,2", "-o", "json")
			require.NoError(t, err)
			var res pathResult
			require.NoError(t, codec.GoJSON{}.Unmarshal([]byte(out), &res))
			assert.Equal(t, "complete", res.State)
			assert.EqualValues(t, 6000, res.Cost)
		})
	}

	t.Run("UnknownCodec", func(t *testing.T) {
		_, err := run(t, "convert", "--config", config, "--map", mapFile, "--codec", "xml")
		require.Error(t, err)
	})
}

func TestBenchCmd(t *testing.T) {
	dir, config := workspace(t)
	metrics := filepath.Join(dir, "bench.prom")

	out, err := run(t, "bench", "--config", config,
		"--width", "32", "--depth", "32", "--pairs", "40", "--workers", "3",
		"--metrics-out", metrics, "-o", "json")
	require.NoError(t, err)

	var res benchResult
	require.NoError(t, codec.GoJSON{}.Unmarshal([]byte(out), &res))
	assert.Equal(t, 40, res.Pairs)
	assert.Equal(t, 3, res.Workers)
	// Pairs come from one connected area, so every search completes.
	assert.EqualValues(t, 40, res.Complete)
	assert.Zero(t, res.Errors)

	data, err := os.ReadFile(metrics)
	require.NoError(t, err)
	assert.Contains(t, string(data), "waypoint_")

	out, err = run(t, "bench", "--config", config, "--map", filepath.Join(dir, "level.txt"), "--pairs", "5")
	require.NoError(t, err)
	assert.Contains(t, out, "complete:   5")
}
