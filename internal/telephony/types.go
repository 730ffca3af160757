package telephony

import "strings"

// CallStatus is the normalized lifecycle status of a call session.
type CallStatus string

const (
	// StatusInitiated means the call has been created but is not yet ringing.
	StatusInitiated CallStatus = "initiated"
	// StatusRinging means the far party's phone is ringing.
	StatusRinging CallStatus = "ringing"
	// StatusAnswered means the far party picked up and the call is live.
	StatusAnswered CallStatus = "answered"
	// StatusCompleted means the call ended normally.
	StatusCompleted CallStatus = "completed"
	// StatusFailed means the call could not be established or was cut short
	// by an error (busy, no answer, carrier failure).
	StatusFailed CallStatus = "failed"
	// StatusCanceled means the call was canceled before it was answered.
	StatusCanceled CallStatus = "canceled"
)

// Terminal reports whether the status is final. A session at a terminal
// status never becomes active again.
func (s CallStatus) Terminal() bool {
	switch s {
	case StatusCompleted, StatusFailed, StatusCanceled:
		return true
	}
	return false
}

// MapProviderStatus normalizes a raw provider status string into a
// CallStatus. The second return is false for statuses this system does not
// track; callers should drop those events with a warning.
func MapProviderStatus(raw string) (CallStatus, bool) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "queued", "initiated":
		return StatusInitiated, true
	case "ringing":
		return StatusRinging, true
	case "in-progress", "answered":
		return StatusAnswered, true
	case "completed":
		return StatusCompleted, true
	case "busy", "failed", "no-answer":
		return StatusFailed, true
	case "canceled":
		return StatusCanceled, true
	}
	return "", false
}

// PlaceCallRequest holds parameters for placing an outbound call.
type PlaceCallRequest struct {
	// To is the destination number in E.164 form.
	To string `json:"to"`
	// ConferenceName, when set, makes the answer instruction document join
	// the called party into the named conference instead of a plain bridge.
	ConferenceName string `json:"conference_name,omitempty"`
}

// CallHandle identifies a call created at the provider.
type CallHandle struct {
	// SID is the provider's call identifier.
	SID string `json:"sid"`
	// Status is the normalized status the call was created in.
	Status CallStatus `json:"status"`
}

// SubResource identifies a provider-side object associated with a session,
// such as a conference bridge, addressed by its own identifier.
type SubResource struct {
	// SID is the identifier webhooks and instruction documents address the
	// sub-resource by.
	SID string `json:"sid"`
	// FriendlyName is the human-readable name the sub-resource was created
	// under.
	FriendlyName string `json:"friendly_name,omitempty"`
}
