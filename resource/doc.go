// Package resource implements admission control for path requests.
//
// The Controller manages three limits:
//
//   - Memory: record store bytes held by the engine (non-blocking, fail-fast)
//   - Pending: requests queued but not yet returned (weighted semaphore)
//   - Admission: requests accepted per second (token bucket)
//
// # Architecture
//
//	┌─────────────────────────────────────────────────────────────┐
//	│                        Controller                           │
//	├─────────────────┬─────────────────┬─────────────────────────┤
//	│  Memory Limit   │  Pending Slots  │  Admission Rate         │
//	│  (fail-fast)    │  (sem)          │  (token bucket)         │
//	├─────────────────┼─────────────────┼─────────────────────────┤
//	│  AcquireMemory  │  AcquirePending │  Admit                  │
//	│  ReleaseMemory  │  TryAcquire-    │  TryAdmit               │
//	│  MemoryUsage    │  Pending        │                         │
//	│                 │  ReleasePending │                         │
//	└─────────────────┴─────────────────┴─────────────────────────┘
//
// # Pending Limits
//
//	rc := resource.NewController(resource.Config{
//	    MaxPending: 256,
//	})
//
//	if !rc.TryAcquirePending() {
//	    return ErrBusy
//	}
//	// ReleasePending once the request has been returned.
//
// # Admission Rate
//
//	rc := resource.NewController(resource.Config{
//	    RequestsPerSecond: 500,
//	})
//
//	if err := rc.Admit(ctx); err != nil {
//	    return err
//	}
//
// # Nil Safety
//
// All methods handle a nil Controller gracefully - they become no-ops.
// This allows optional limits without nil checks everywhere.
package resource
