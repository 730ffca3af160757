package sse

// Infrastructure-level SSE event type constants. Domain event types
// (call status, transcription, speech) are defined by the bridge.
const (
	// EventTypeConnected is sent when a client successfully connects.
	EventTypeConnected = "connected"

	// EventTypeKeepAlive is used for keep-alive comments.
	EventTypeKeepAlive = "keepalive"
)
