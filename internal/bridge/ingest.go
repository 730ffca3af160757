package bridge

import (
	"context"
	"strings"
	"time"

	"github.com/skillsenselab/callbridge/internal/logger"
	"github.com/skillsenselab/callbridge/internal/observability"
	"github.com/skillsenselab/callbridge/internal/telephony"
	"github.com/skillsenselab/callbridge/internal/util"
)

// Webhook kinds as recorded on metrics and spans.
const (
	webhookCallStatus    = "call-status"
	webhookTranscription = "transcription"
	webhookConference    = "conference"
)

// Conference events the provider reports on its status callback.
const (
	conferenceParticipantJoin = "participant-join"
)

// HandleStatusEvent applies a provider call-status callback to the
// session. Events are best effort and never fail the caller: unknown
// statuses and unknown sessions are logged and dropped, and an event
// arriving after the session ended is a no-op. Watchers see exactly
// one event per real transition.
func (s *Service) HandleStatusEvent(ctx context.Context, callSID, rawStatus string) {
	ctx, span := observability.StartSpan(ctx, observability.SpanWebhookIngest)
	defer span.End()
	observability.SetSpanAttribute(ctx, observability.AttrCallSID, callSID)
	observability.SetSpanAttribute(ctx, "webhook.kind", webhookCallStatus)
	s.metrics.RecordWebhook(ctx, webhookCallStatus)

	status, ok := telephony.MapProviderStatus(rawStatus)
	if !ok {
		s.log.Warn("unrecognized provider status, dropping event", logger.Fields(
			logger.FieldCallSID, callSID,
			logger.FieldCallStatus, rawStatus,
		))
		return
	}

	changed, err := s.registry.SetStatus(callSID, status)
	if err != nil {
		s.log.Warn("status event for unknown session, dropping", logger.Fields(
			logger.FieldCallSID, callSID,
			logger.FieldCallStatus, string(status),
		))
		return
	}
	if !changed {
		return
	}

	if status.Terminal() {
		s.metrics.RecordCallEnded(ctx, string(status))
		s.publish(Event{
			Type:      EventEnded,
			CallSID:   callSID,
			Status:    status,
			Timestamp: time.Now(),
		})
	} else {
		s.publish(Event{
			Type:      EventStatus,
			CallSID:   callSID,
			Status:    status,
			IsActive:  true,
			Timestamp: time.Now(),
		})
	}
	s.log.Info("call status updated", logger.Fields(
		logger.FieldCallSID, callSID,
		logger.FieldCallStatus, string(status),
	))
}

// HandleTranscription applies a transcription callback. Only final
// transcriptions are kept; interim and failed ones are dropped, and
// the text is stripped of control characters before storage. The key
// may be the call SID or the conference SID, whichever the provider
// addressed the callback with.
func (s *Service) HandleTranscription(ctx context.Context, key, text, transcriptionStatus string) {
	ctx, span := observability.StartSpan(ctx, observability.SpanWebhookIngest)
	defer span.End()
	observability.SetSpanAttribute(ctx, "webhook.kind", webhookTranscription)
	s.metrics.RecordWebhook(ctx, webhookTranscription)

	if !strings.EqualFold(transcriptionStatus, "completed") {
		s.log.Debug("skipping non-final transcription", logger.Fields(
			"key", key,
			logger.FieldStatus, transcriptionStatus,
		))
		return
	}
	text = util.SanitizeString(text)
	if text == "" {
		s.log.Debug("skipping empty transcription", logger.Fields("key", key))
		return
	}

	sess, ok := s.registry.Resolve(key)
	if !ok {
		s.log.Warn("transcription for unknown session, dropping", logger.Fields("key", key))
		return
	}
	observability.SetSpanAttribute(ctx, observability.AttrCallSID, sess.ID)

	now := time.Now()
	if err := s.registry.AppendTranscript(sess.ID, text, now); err != nil {
		// The session ended between resolve and append.
		s.log.Warn("transcription after call end, dropping", logger.Fields(
			logger.FieldCallSID, sess.ID,
		))
		return
	}
	s.metrics.RecordTranscription(ctx)
	s.publish(Event{
		Type:      EventTranscription,
		CallSID:   sess.ID,
		IsActive:  true,
		Text:      text,
		Timestamp: now,
	})
	s.log.Info("transcription recorded", logger.Fields(
		logger.FieldCallSID, sess.ID,
		"chars", len(text),
	))
}

// HandleConferenceEvent applies a conference status callback. The far
// party joining the conference marks a still-ringing session answered;
// conference mode calls otherwise never report answered because the
// session's own leg is the one dialing in.
func (s *Service) HandleConferenceEvent(ctx context.Context, conferenceSID, event, participantCallSID string) {
	ctx, span := observability.StartSpan(ctx, observability.SpanWebhookIngest)
	defer span.End()
	observability.SetSpanAttribute(ctx, "webhook.kind", webhookConference)
	s.metrics.RecordWebhook(ctx, webhookConference)

	sess, ok := s.registry.Resolve(conferenceSID)
	if !ok {
		s.log.Debug("conference event for unknown conference, dropping", logger.Fields(
			logger.FieldConferenceSID, conferenceSID,
			logger.FieldEvent, event,
		))
		return
	}
	s.log.Debug("conference event", logger.Fields(
		logger.FieldCallSID, sess.ID,
		logger.FieldConferenceSID, conferenceSID,
		logger.FieldEvent, event,
		"participant", participantCallSID,
	))

	if event != conferenceParticipantJoin {
		return
	}
	if sess.Status != telephony.StatusRinging && sess.Status != telephony.StatusInitiated {
		return
	}
	changed, err := s.registry.SetStatus(sess.ID, telephony.StatusAnswered)
	if err != nil || !changed {
		return
	}
	s.publish(Event{
		Type:      EventStatus,
		CallSID:   sess.ID,
		Status:    telephony.StatusAnswered,
		IsActive:  true,
		Timestamp: time.Now(),
	})
	s.log.Info("call answered via conference join", logger.Fields(
		logger.FieldCallSID, sess.ID,
		logger.FieldConferenceSID, conferenceSID,
	))
}
