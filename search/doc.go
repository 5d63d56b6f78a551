// Package search implements time-sliced A* path search over a graph.Graph.
//
// A Request describes one point-to-point query. It is driven through a fixed
// lifecycle by a scheduler:
//
//	Prepare      resolve start and end points to nodes
//	Initialize   open the start node
//	ComputeSlice advance the search until done or the deadline passes
//	Cleanup      clear the node flags the request set
//
// ComputeSlice may be called any number of times; all progress lives in the
// RecordStore and the open list, so a suspended search resumes exactly where it
// stopped. Request.Run drives the whole lifecycle in one call.
//
// Per-node state is kept in a RecordStore. Every record carries the id of the
// search that last wrote it, and records written by another search read as
// fresh. This lets a store be reused across searches without clearing it. A
// store must only host one executing search at a time.
//
// # Basic Usage
//
//	store := search.NewRecordStore(g.NodeCount())
//	req := search.NewRequest(g, start, end, search.WithPartial(true))
//	if err := req.Run(store, time.Time{}); err != nil {
//	    log.Fatal(err) // search runaway
//	}
//	if req.Err() == nil {
//	    fmt.Println(req.Points())
//	}
package search
