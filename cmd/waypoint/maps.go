package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/hupe1980/waypoint/geom"
	"github.com/hupe1980/waypoint/graph/grid"
)

var errNoMap = errors.New("one of --map or --snapshot is required")

// loadGraph reads an ASCII map file or a snapshot from the configured store.
func (a *app) loadGraph(ctx context.Context, mapFile, snapshot string) (*grid.Graph, grid.Markers, error) {
	switch {
	case mapFile != "" && snapshot != "":
		return nil, grid.Markers{}, errors.New("--map and --snapshot are mutually exclusive")
	case mapFile != "":
		opts, err := a.cfg.Grid.options()
		if err != nil {
			return nil, grid.Markers{}, err
		}
		f, err := os.Open(mapFile)
		if err != nil {
			return nil, grid.Markers{}, err
		}
		defer f.Close()
		return grid.ParseASCII(f, opts)
	case snapshot != "":
		store, err := openStore(ctx, a.cfg.Store)
		if err != nil {
			return nil, grid.Markers{}, err
		}
		g, err := grid.LoadSnapshot(ctx, store, snapshot)
		if err != nil {
			return nil, grid.Markers{}, fmt.Errorf("load snapshot %s: %w", snapshot, err)
		}
		a.logger.Debug("snapshot loaded",
			"name", snapshot,
			"width", g.Width(),
			"depth", g.Depth(),
		)
		return g, grid.Markers{}, nil
	default:
		return nil, grid.Markers{}, errNoMap
	}
}

// parseCell parses "x,z" into the center of that grid cell.
func parseCell(g *grid.Graph, s string) (geom.Vec3, error) {
	xs, zs, ok := strings.Cut(s, ",")
	if !ok {
		return geom.Vec3{}, fmt.Errorf("invalid cell %q, want x,z", s)
	}
	x, err := strconv.Atoi(strings.TrimSpace(xs))
	if err != nil {
		return geom.Vec3{}, fmt.Errorf("invalid cell %q: %w", s, err)
	}
	z, err := strconv.Atoi(strings.TrimSpace(zs))
	if err != nil {
		return geom.Vec3{}, fmt.Errorf("invalid cell %q: %w", s, err)
	}
	n := g.NodeAt(x, z)
	if !n.Valid() {
		return geom.Vec3{}, fmt.Errorf("cell %d,%d is outside the %dx%d grid", x, z, g.Width(), g.Depth())
	}
	return g.Position(n).Vec3(), nil
}
