// Package server provides the HTTP front for the call bridge using Gin with
// HTTP/2 h2c support, so REST endpoints, provider webhooks, TwiML documents,
// and SSE event streams are served from a single port.
//
// The server follows the component pattern with lifecycle management,
// system endpoints, and a configurable middleware chain.
//
// # Middleware
//
// Built-in middleware (server/middleware), applied at the handler level so it
// covers every mounted handler:
//
//   - Recovery: panic recovery with structured logging
//   - RequestID: request ID generation and propagation
//   - CORS: cross-origin resource sharing configuration
//   - BodySizeLimit: request body size limits
//   - RequestLogger: request logging with duration tracking
//
// # Endpoints
//
// Built-in system endpoints (server/endpoint):
//
//   - /health: health check aggregation across components
//   - /alive: Kubernetes liveness probe
//   - /ready: Kubernetes readiness probe
//   - /info: build and uptime information
//   - /metrics: runtime memory and goroutine metrics
package server
