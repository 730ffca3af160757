package telephony

import "context"

// Provider is the interface telephony backends must implement.
//
// All methods are synchronous network operations that honor ctx. Failures
// carry the provider's own error code and message through an AppError;
// nothing is retried automatically.
type Provider interface {
	// PlaceCall creates an outbound call to req.To. The provider fetches the
	// answer instruction document when the call connects and posts status
	// webhooks as the call progresses.
	PlaceCall(ctx context.Context, req PlaceCallRequest) (*CallHandle, error)

	// RedirectCall replaces the live call's instruction document with the
	// one at instructionURL. Used to speak text into a non-conference call.
	RedirectCall(ctx context.Context, callSID, instructionURL string) error

	// TerminateCall ends the call. Terminating a call that already ended is
	// not an error.
	TerminateCall(ctx context.Context, callSID string) error

	// CreateConference prepares a conference sub-resource under the given
	// name and returns its handle. Backends with ad-hoc conferences may mint
	// the identifier locally; the conference then materializes when the
	// first participant dials in.
	CreateConference(ctx context.Context, friendlyName string) (*SubResource, error)

	// SpeakIntoConference places a companion call into the conference whose
	// instruction document speaks text to the participants. Returns the
	// companion call's SID.
	SpeakIntoConference(ctx context.Context, conferenceSID, text string) (string, error)
}
