// Package seeker requests paths on behalf of one agent.
//
// A Seeker keeps at most one request in flight. Starting a new path cancels
// the previous one if it has not been returned yet, and a result that has
// been superseded is never delivered. Modifiers run in Order: PreProcess
// before the request is queued, Apply after a successful search.
//
// The Seeker claims every result it delivers and releases the previous one,
// so the last path stays valid until the next one arrives or Close is called.
package seeker
