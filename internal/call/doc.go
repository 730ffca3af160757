// Package call holds the in-memory session registry: one Session per
// tracked call, keyed by the provider call SID with a secondary index on
// the conference sub-resource id.
//
// The registry is the single shared mutable structure in the service.
// A session is created when a call is placed, mutated by webhook ingest
// (status transitions, transcript appends) and by user commands (outbound
// appends, end), and evicted by the retention sweep a configurable time
// after it reaches a terminal status.
//
// All accessors return deep copies; callers never observe live state.
// One mutex serializes mutations, which makes every same-session operation
// sequence linearizable. Appends are rejected once a session leaves the
// active state, and terminal status transitions are idempotent.
package call
