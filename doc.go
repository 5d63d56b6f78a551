// Package waypoint provides time-sliced A* path search for real-time loops.
//
// A search never has to finish in the frame it started in: requests are
// queued on a Pathfinder and advanced by Tick with a deadline, so a long
// search is spread over as many frames as it needs.
//
// # Quick Start
//
//	g, markers, _ := grid.ParseASCII(strings.NewReader(level), grid.Options{})
//	pf, _ := waypoint.New(g)
//	defer pf.Close()
//
//	pf.StartPath(markers.StartPos, markers.EndPos, func(r *search.Request) {
//	    fmt.Println(r.CompleteState(), r.Points())
//	})
//
//	for range frames {
//	    _ = pf.TickFor(2 * time.Millisecond)
//	}
//
// Synchronous searches are available through FindPath:
//
//	r, err := pf.FindPath(ctx, start, end)
//
// # Agents
//
// A Seeker (NewSeeker) keeps one path per agent, cancels the search in
// flight when a new one is requested and runs post-processing modifiers.
//
// # Partial Results
//
// With search.WithPartial(true) a search that cannot reach its target
// returns the path to the node closest to it instead of failing:
//
//	pf.StartPath(start, end, cb, search.WithPartial(true))
//
// # Key Features
//
//   - Time-sliced A* with resumable state
//   - 4, 6 and 8 connected grid graphs, or any graph.Graph
//   - Tag masks, tag penalties and per node penalties
//   - Boundary cost correction for points between nodes
//   - Grid snapshots in local, S3 or MinIO blob stores
//   - Structured logging (log/slog) and Prometheus metrics
package waypoint
