package call

import (
	"time"

	"github.com/skillsenselab/callbridge/internal/telephony"
)

// TranscriptEntry is one finalized far-party utterance. Insertion order is
// arrival order.
type TranscriptEntry struct {
	Text       string    `json:"text"`
	ReceivedAt time.Time `json:"receivedAt"`
}

// OutboundMessage is one text the user asked to be spoken into the call,
// recorded with its send timestamp.
type OutboundMessage struct {
	Text   string    `json:"text"`
	SentAt time.Time `json:"sentAt"`
}

// Session tracks one call. ID and Destination are immutable after
// creation; everything else is mutated only through the Registry.
type Session struct {
	// ID is the provider call SID, assigned at creation.
	ID string `json:"callSid"`
	// Destination is the called number in E.164 form.
	Destination string `json:"destination"`
	// AuxID is the optional conference/sub-resource id linked to the
	// session. Webhooks may address the session by this id.
	AuxID string `json:"conferenceSid,omitempty"`
	// Status is the last observed lifecycle status.
	Status telephony.CallStatus `json:"status"`
	// Active is true until a terminal status is observed.
	Active bool `json:"isActive"`
	// StartedAt is the session creation time.
	StartedAt time.Time `json:"startedAt"`
	// EndedAt is the terminal transition time, zero while active.
	EndedAt time.Time `json:"endedAt,omitzero"`
	// Transcript accumulates finalized far-party utterances, append-only.
	Transcript []TranscriptEntry `json:"transcriptions"`
	// Outbound accumulates spoken texts, append-only.
	Outbound []OutboundMessage `json:"messageQueue"`
}

// clone returns a deep copy so registry callers never share backing
// slices with live state. Slices come back non-nil so snapshots
// marshal empty lists as [] rather than null.
func (s *Session) clone() *Session {
	out := *s
	out.Transcript = make([]TranscriptEntry, len(s.Transcript))
	copy(out.Transcript, s.Transcript)
	out.Outbound = make([]OutboundMessage, len(s.Outbound))
	copy(out.Outbound, s.Outbound)
	return &out
}
