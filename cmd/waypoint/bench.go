package main

import (
	"errors"
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/hupe1980/waypoint"
	"github.com/hupe1980/waypoint/codec"
	"github.com/hupe1980/waypoint/graph/grid"
	"github.com/hupe1980/waypoint/search"
	"github.com/hupe1980/waypoint/testutil"
)

type benchResult struct {
	Pairs       int     `json:"pairs"`
	Workers     int     `json:"workers"`
	Complete    int64   `json:"complete"`
	Partial     int64   `json:"partial"`
	Errors      int64   `json:"errors"`
	Searched    int64   `json:"searched"`
	Ticks       int64   `json:"ticks"`
	Elapsed     string  `json:"elapsed"`
	PathsPerSec float64 `json:"paths_per_sec"`
	AvgSearch   string  `json:"avg_search"`
	AvgTick     string  `json:"avg_tick"`
	MetricsFile string  `json:"metrics_file,omitempty"`
}

func newBenchCmd(a *app) *cobra.Command {
	var (
		mapFile, snapshot string
		width, depth      int
		blocked           float64
		seed              uint64
		pairs, workers    int
		budget            time.Duration
		metricsOut        string
	)

	cmd := &cobra.Command{
		Use:   "bench",
		Short: "Run random searches and report throughput",
		Long: `Run random searches between nodes of the largest connected area of a
map. Without --map or --snapshot a random grid is generated.`,
		Example: `  waypoint bench --width 512 --depth 512 --pairs 2000 --workers 4
  waypoint bench --snapshot level.wpg --metrics-out bench.prom`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			rng := testutil.NewRNG(seed)

			var g *grid.Graph
			if mapFile == "" && snapshot == "" {
				opts, err := a.cfg.Grid.options()
				if err != nil {
					return err
				}
				opts.Width, opts.Depth = width, depth
				if g, err = grid.New(opts); err != nil {
					return err
				}
				rng.Scatter(g, blocked, 0.1, 2000)
			} else {
				var err error
				if g, _, err = a.loadGraph(ctx, mapFile, snapshot); err != nil {
					return err
				}
			}

			// Areas are computed lazily; do it once before searching concurrently.
			g.RecalculateAreas()
			_, nodes := g.LargestArea()
			if nodes == nil || nodes.GetCardinality() < 2 {
				return errors.New("map has no connected area with two nodes")
			}
			routes := rng.Pairs(nodes, pairs)

			opts, err := a.cfg.Search.options()
			if err != nil {
				return err
			}

			basic := &waypoint.BasicMetricsCollector{}
			reg := prometheus.NewRegistry()
			prom, err := waypoint.NewPrometheusCollector(reg, "waypoint")
			if err != nil {
				return err
			}
			mc := waypoint.MultiMetricsCollector{basic, prom}

			if workers < 1 {
				workers = 1
			}
			a.logger.Info("bench starting",
				"width", g.Width(),
				"depth", g.Depth(),
				"pairs", len(routes),
				"workers", workers,
				"seed", rng.Seed(),
			)

			began := time.Now()
			eg, egCtx := errgroup.WithContext(ctx)
			for w := 0; w < workers; w++ {
				eg.Go(func() error {
					pf, err := waypoint.New(g,
						waypoint.WithLogger(a.logger.WithComponent(fmt.Sprintf("worker-%d", w))),
						waypoint.WithMetricsCollector(mc),
						waypoint.WithSearchOptions(opts...),
						waypoint.WithResourceLimits(a.cfg.Limits),
						waypoint.WithSliceBudget(budget),
					)
					if err != nil {
						return err
					}
					defer pf.Close()

					for i := w; i < len(routes); i += workers {
						start := g.Position(routes[i][0]).Vec3()
						end := g.Position(routes[i][1]).Vec3()
						_, err := pf.FindPath(egCtx, start, end)
						if err != nil && !errors.Is(err, search.ErrSearchRunaway) {
							return err
						}
					}
					return nil
				})
			}
			if err := eg.Wait(); err != nil {
				return err
			}
			elapsed := time.Since(began)

			if metricsOut != "" {
				if err := prometheus.WriteToTextfile(metricsOut, reg); err != nil {
					return fmt.Errorf("write metrics: %w", err)
				}
			}

			stats := basic.GetStats()
			res := benchResult{
				Pairs:       len(routes),
				Workers:     workers,
				Complete:    stats.SearchComplete,
				Partial:     stats.SearchPartial,
				Errors:      stats.SearchErrors,
				Searched:    stats.SearchedNodes,
				Ticks:       stats.TickCount,
				Elapsed:     elapsed.String(),
				PathsPerSec: float64(stats.SearchCount) / elapsed.Seconds(),
				AvgSearch:   time.Duration(stats.SearchAvgNanos).String(),
				AvgTick:     time.Duration(stats.TickAvgNanos).String(),
				MetricsFile: metricsOut,
			}

			out := cmd.OutOrStdout()
			if a.format() == FormatJSON {
				data, err := codec.Indent(codec.Default, res)
				if err != nil {
					return err
				}
				_, err = fmt.Fprintln(out, string(data))
				return err
			}

			fmt.Fprintf(out, "pairs:      %d (%d workers)\n", res.Pairs, res.Workers)
			fmt.Fprintf(out, "complete:   %d\n", res.Complete)
			fmt.Fprintf(out, "partial:    %d\n", res.Partial)
			fmt.Fprintf(out, "errors:     %d\n", res.Errors)
			fmt.Fprintf(out, "searched:   %d nodes\n", res.Searched)
			fmt.Fprintf(out, "elapsed:    %s (%.1f paths/s)\n", res.Elapsed, res.PathsPerSec)
			fmt.Fprintf(out, "avg search: %s\n", res.AvgSearch)
			fmt.Fprintf(out, "avg tick:   %s over %d ticks\n", res.AvgTick, res.Ticks)
			return nil
		},
	}

	cmd.Flags().StringVar(&mapFile, "map", "", "ASCII map file")
	cmd.Flags().StringVar(&snapshot, "snapshot", "", "Snapshot name in the configured store")
	cmd.Flags().IntVar(&width, "width", 256, "Width of the generated grid")
	cmd.Flags().IntVar(&depth, "depth", 256, "Depth of the generated grid")
	cmd.Flags().Float64Var(&blocked, "blocked", 0.25, "Fraction of blocked nodes in the generated grid")
	cmd.Flags().Uint64Var(&seed, "seed", 1, "Random seed")
	cmd.Flags().IntVar(&pairs, "pairs", 1000, "Number of start/end pairs")
	cmd.Flags().IntVarP(&workers, "workers", "w", 1, "Concurrent pathfinders")
	cmd.Flags().DurationVar(&budget, "slice", waypoint.DefaultSliceBudget, "Time budget per search slice")
	cmd.Flags().StringVar(&metricsOut, "metrics-out", "", "Write Prometheus metrics to this file")
	return cmd
}
