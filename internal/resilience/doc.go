// Package resilience provides fault-tolerance patterns for outbound calls
// to the telephony provider: circuit breaker, token-bucket rate limiting,
// and retry with exponential backoff.
//
// The provider client composes these so a flapping provider API fails fast
// (breaker), call placement stays inside the account's request quota
// (limiter), and transient network errors can be retried where the caller
// opts in. Speech commands are never retried automatically; the breaker and
// limiter still guard them.
package resilience
