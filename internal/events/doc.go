// Package events carries notifications about committed mutations.
//
// The scheduler emits an Event after each review commit, reset and catalog
// change. Handlers (metrics, audit logging) subscribe without the scheduler
// knowing about them. Events are informational: a failing handler never
// rolls back the mutation that produced the event.
package events
