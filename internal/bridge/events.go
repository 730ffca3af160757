package bridge

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/skillsenselab/callbridge/internal/logger"
	"github.com/skillsenselab/callbridge/internal/telephony"
)

// Event types pushed to stream watchers of a call.
const (
	EventStatus        = "status"
	EventTranscription = "transcription"
	EventOutbound      = "outbound"
	EventEnded         = "ended"
)

// Event is the payload streamed to watchers. Type is always set;
// Status accompanies status and ended events, Text accompanies
// transcription and outbound events.
type Event struct {
	Type      string               `json:"type"`
	CallSID   string               `json:"callSid"`
	Status    telephony.CallStatus `json:"status,omitempty"`
	IsActive  bool                 `json:"isActive"`
	Text      string               `json:"text,omitempty"`
	Timestamp time.Time            `json:"timestamp"`
}

// StreamClientID returns a unique watcher ID for a call's event
// stream. IDs share the "call:<sid>:" prefix so StreamPattern matches
// every watcher of that call and nothing else.
func StreamClientID(callSID string) string {
	return fmt.Sprintf("call:%s:%s", callSID, uuid.NewString())
}

// StreamPattern returns the broadcast pattern addressing all watchers
// of the given call.
func StreamPattern(callSID string) string {
	return fmt.Sprintf("call:%s:*", callSID)
}

// publish fans an event out to the call's watchers. A nil broadcaster
// means streaming is disabled and the event is dropped silently.
func (s *Service) publish(ev Event) {
	if s.events == nil {
		return
	}
	data, err := json.Marshal(ev)
	if err != nil {
		s.log.Error("event marshal failed", logger.Fields(
			logger.FieldCallSID, ev.CallSID,
			logger.FieldEvent, ev.Type,
			logger.FieldError, err.Error(),
		))
		return
	}
	s.events.BroadcastToPattern(StreamPattern(ev.CallSID), data)
}
