// Package bridge implements the call control service that ties the
// telephony provider, the session registry, and the event stream
// together.
//
// Service is the single entry point for everything that changes call
// state. Commands (StartCall, SpeakText, EndCall) validate against the
// registry before touching the provider, provider webhooks land in the
// Handle* ingest methods, and every observable change is published to
// SSE watchers of that call. The service holds no state of its own;
// the registry is the source of truth and the provider is the actuator.
package bridge
