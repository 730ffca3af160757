package api

import (
	"github.com/skillsenselab/callbridge/internal/call"
	"github.com/skillsenselab/callbridge/internal/telephony"
)

// InitiateCallRequest is the body of POST /api/initiate-call. To
// accepts free-form national or international numbers; it is
// normalized to E.164 before dialing.
type InitiateCallRequest struct {
	To string `json:"to" validate:"required"`
}

// SpeakTextRequest is the body of POST /api/speak-text. The text limit
// matches what a single provider <Say> verb accepts.
type SpeakTextRequest struct {
	CallSID string `json:"callSid" validate:"required"`
	Text    string `json:"text" validate:"required,max=4096"`
}

// EndCallRequest is the body of POST /api/end-call.
type EndCallRequest struct {
	CallSID string `json:"callSid" validate:"required"`
}

// InitiateCallResponse is the body returned by POST /api/initiate-call.
type InitiateCallResponse struct {
	Success       bool                 `json:"success"`
	CallSID       string               `json:"callSid"`
	ConferenceSID string               `json:"conferenceSid,omitempty"`
	Status        telephony.CallStatus `json:"status"`
}

// MessageResponse is the generic success envelope for commands that
// return no data.
type MessageResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// CallStatusResponse is the body returned by GET /api/call-status. The
// embedded session contributes callSid, status, isActive,
// transcriptions, and messageQueue.
type CallStatusResponse struct {
	Success bool `json:"success"`
	*call.Session
}

// ActiveCallsResponse is the body returned by GET /api/active-calls.
type ActiveCallsResponse struct {
	Success     bool            `json:"success"`
	Count       int             `json:"count"`
	ActiveCalls []*call.Session `json:"activeCalls"`
}
