// Package sse provides Server-Sent Events infrastructure for streaming
// call events (status changes, transcriptions, queued speech) to browser
// and CLI consumers.
//
// # Architecture
//
//   - Hub: central event router managing client subscriptions
//   - Broadcaster: pattern-based fan-out to connected clients
//   - ServeSSE: HTTP handler loop for a single client connection
//
// Client IDs follow the "call:<callSID>:<uuid>" convention so a broadcast to
// "call:CA123:*" reaches every watcher of that call without touching others.
//
// # Usage
//
//	comp := sse.NewComponent("/api/call-events/:callSid")
//	comp.Start(ctx)
//	comp.Hub().BroadcastToPattern("call:CA123:*", payload)
package sse
