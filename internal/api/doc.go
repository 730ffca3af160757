// Package api implements the HTTP surface of the call bridge: the REST
// command endpoints, the provider webhook receivers, the self-hosted
// instruction documents the provider fetches mid-call, and the per-call
// SSE event stream.
//
// Handlers stay thin. Request bodies are bound and validated at the
// edge, every call semantic lives in the bridge service, and responses
// use the {"success": ...} envelope throughout. Webhook receivers
// acknowledge 200 regardless of internal outcome; a failed signature
// check is the one exception, because a forged request is not a
// provider callback.
package api
