// Package httpclient provides the configurable HTTP client used for
// outbound calls to the telephony provider's REST API, with built-in
// authentication, resilience (retry, circuit breaker, rate limiting),
// and form-encoded request support.
//
// # Basic Usage
//
//	client, err := httpclient.New(httpclient.Config{
//	    BaseURL: "https://api.twilio.com",
//	    Timeout: 30 * time.Second,
//	    Auth:    httpclient.BasicAuth(accountSID, authToken),
//	})
//
//	resp, err := client.Do(ctx, httpclient.Request{
//	    Method: http.MethodPost,
//	    Path:   "/2010-04-01/Accounts/AC123/Calls.json",
//	    Body:   url.Values{"To": {"+15551234567"}},
//	})
//
// # With Resilience
//
//	client, err := httpclient.New(httpclient.Config{
//	    BaseURL:        "https://api.twilio.com",
//	    CircuitBreaker: httpclient.DefaultCircuitBreakerConfig("twilio"),
//	    RateLimiter:    httpclient.DefaultRateLimiterConfig("twilio"),
//	})
package httpclient
