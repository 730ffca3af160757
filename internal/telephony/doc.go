// Package telephony defines the provider interface and common types for
// placing, steering and terminating phone calls through a telephony backend.
//
// The package owns the vocabulary shared by the call registry and the
// backends: call statuses and their terminal set, the instruction-markup
// (TwiML) builder used by the self-hosted instruction endpoints, and the
// callback URL layout the provider is asked to post webhooks to.
//
// # Backends
//
//   - telephony/twilio: Twilio Programmable Voice REST API
//
// # Usage
//
//	provider, err := twilio.New(cfg, log)
//	handle, err := provider.PlaceCall(ctx, telephony.PlaceCallRequest{To: "+15551234567"})
package telephony
