// Package scheduler runs path requests cooperatively inside a host loop.
//
// A Processor owns one search.RecordStore and works through its queue in
// order. Each call to Tick advances the head request until the deadline
// passes; a request that does not finish in one tick resumes on the next.
// Only one request uses the record store at a time.
//
//	p := scheduler.New(scheduler.WithLogger(logger))
//	_ = p.Enqueue(req, func(r *search.Request) {
//	    fmt.Println(r.CompleteState(), r.Points())
//	})
//
//	for range ticker.C {
//	    if err := p.TickFor(2 * time.Millisecond); err != nil {
//	        // search.ErrSearchRunaway
//	    }
//	}
//
// Enqueue and Cancel are safe for concurrent use. Tick must be driven by a
// single goroutine at a time.
package scheduler
