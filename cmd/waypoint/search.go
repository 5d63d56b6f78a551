package main

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/hupe1980/waypoint"
	"github.com/hupe1980/waypoint/codec"
	"github.com/hupe1980/waypoint/geom"
	"github.com/hupe1980/waypoint/graph/grid"
	"github.com/hupe1980/waypoint/search"
)

type pathResult struct {
	State    string       `json:"state"`
	Error    string       `json:"error,omitempty"`
	Cost     uint32       `json:"cost"`
	Length   float64      `json:"length"`
	Searched int          `json:"searched"`
	Duration string       `json:"duration"`
	Nodes    []uint32     `json:"nodes"`
	Points   [][3]float64 `json:"points"`
}

func newPathResult(r *search.Request) pathResult {
	res := pathResult{
		State:    r.CompleteState().String(),
		Error:    r.ErrorMessage(),
		Cost:     r.Cost(),
		Length:   r.Length(),
		Searched: r.SearchedNodes(),
		Duration: r.Duration().String(),
		Nodes:    make([]uint32, 0, len(r.Nodes())),
		Points:   make([][3]float64, 0, len(r.Points())),
	}
	for _, n := range r.Nodes() {
		res.Nodes = append(res.Nodes, uint32(n))
	}
	for _, p := range r.Points() {
		res.Points = append(res.Points, [3]float64{p.X, p.Y, p.Z})
	}
	return res
}

func newSearchCmd(a *app) *cobra.Command {
	var (
		mapFile, snapshot string
		from, to          string
		partial           bool
		heuristic         string
		budget            time.Duration
	)

	cmd := &cobra.Command{
		Use:   "search",
		Short: "Search a path on a map",
		Long: `Search a path between two cells of a map. Without --from and --to the
S and E markers of an ASCII map are used.`,
		Example: `  waypoint search --map level.txt
  waypoint search --snapshot level.wpg --from 0,0 --to 63,63 -o json`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			g, markers, err := a.loadGraph(ctx, mapFile, snapshot)
			if err != nil {
				return err
			}
			start, end, err := endpoints(g, markers, from, to)
			if err != nil {
				return err
			}

			if cmd.Flags().Changed("partial") {
				a.cfg.Search.Partial = partial
			}
			if heuristic != "" {
				a.cfg.Search.Heuristic = heuristic
			}
			opts, err := a.cfg.Search.options()
			if err != nil {
				return err
			}

			pf, err := waypoint.New(g,
				waypoint.WithLogger(a.logger),
				waypoint.WithSearchOptions(opts...),
				waypoint.WithResourceLimits(a.cfg.Limits),
				waypoint.WithSliceBudget(budget),
			)
			if err != nil {
				return err
			}
			defer pf.Close()

			r, err := pf.FindPath(ctx, start, end)
			if err != nil && !errors.Is(err, search.ErrSearchRunaway) {
				return err
			}

			out := cmd.OutOrStdout()
			if a.format() == FormatJSON {
				data, err := codec.Indent(codec.Default, newPathResult(r))
				if err != nil {
					return err
				}
				_, err = fmt.Fprintln(out, string(data))
				return err
			}

			fmt.Fprint(out, g.Render(r.Nodes()))
			fmt.Fprintf(out, "state:    %s\n", r.CompleteState())
			if msg := r.ErrorMessage(); msg != "" {
				fmt.Fprintf(out, "message:  %s\n", msg)
			}
			fmt.Fprintf(out, "nodes:    %d\n", len(r.Nodes()))
			fmt.Fprintf(out, "cost:     %d\n", r.Cost())
			fmt.Fprintf(out, "length:   %.3f\n", r.Length())
			fmt.Fprintf(out, "searched: %d\n", r.SearchedNodes())
			fmt.Fprintf(out, "duration: %s\n", r.Duration())
			return nil
		},
	}

	cmd.Flags().StringVar(&mapFile, "map", "", "ASCII map file")
	cmd.Flags().StringVar(&snapshot, "snapshot", "", "Snapshot name in the configured store")
	cmd.Flags().StringVar(&from, "from", "", "Start cell as x,z")
	cmd.Flags().StringVar(&to, "to", "", "End cell as x,z")
	cmd.Flags().BoolVar(&partial, "partial", false, "Return a partial path when the target is unreachable")
	cmd.Flags().StringVar(&heuristic, "heuristic", "", "Heuristic (euclidean|manhattan|octile|none)")
	cmd.Flags().DurationVar(&budget, "slice", waypoint.DefaultSliceBudget, "Time budget per search slice")
	return cmd
}

// endpoints resolves the start and end points from flags or map markers.
func endpoints(g *grid.Graph, m grid.Markers, from, to string) (geom.Vec3, geom.Vec3, error) {
	var start, end geom.Vec3
	var err error

	switch {
	case from != "":
		if start, err = parseCell(g, from); err != nil {
			return start, end, err
		}
	case m.HasStart:
		start = m.StartPos
	default:
		return start, end, errors.New("no start: pass --from or put S on the map")
	}

	switch {
	case to != "":
		if end, err = parseCell(g, to); err != nil {
			return start, end, err
		}
	case m.HasEnd:
		end = m.EndPos
	default:
		return start, end, errors.New("no end: pass --to or put E on the map")
	}
	return start, end, nil
}
