package bridge

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/skillsenselab/callbridge/internal/call"
	"github.com/skillsenselab/callbridge/internal/errors"
	"github.com/skillsenselab/callbridge/internal/logger"
	"github.com/skillsenselab/callbridge/internal/observability"
	"github.com/skillsenselab/callbridge/internal/sse"
	"github.com/skillsenselab/callbridge/internal/telephony"
	"github.com/skillsenselab/callbridge/internal/validation"
)

// Service exposes the call control operations. All state lives in the
// registry; the provider is only ever consulted after the registry
// confirms the operation makes sense.
type Service struct {
	registry *call.Registry
	provider telephony.Provider
	cfg      *telephony.Config
	log      *logger.Logger

	events  sse.Broadcaster
	metrics *observability.Metrics
}

// Option configures optional Service collaborators.
type Option func(*Service)

// WithEvents wires the broadcaster that streams call events to
// watchers. Without it events are dropped.
func WithEvents(b sse.Broadcaster) Option {
	return func(s *Service) { s.events = b }
}

// WithMetrics wires the telemetry instruments. A nil Metrics is safe;
// every record call on it is a no-op.
func WithMetrics(m *observability.Metrics) Option {
	return func(s *Service) { s.metrics = m }
}

// NewService creates the call control service.
func NewService(registry *call.Registry, provider telephony.Provider, cfg *telephony.Config, log *logger.Logger, opts ...Option) *Service {
	if log == nil {
		log = logger.NewDefault("callbridge")
	}
	s := &Service{
		registry: registry,
		provider: provider,
		cfg:      cfg,
		log:      log.WithComponent("bridge"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// StartCall places an outbound call to the given number and registers
// a session for it. The destination accepts free-form national or
// international formats and is dialed in E.164. In conference mode a
// conference is created first and the far party is dialed into it.
// Nothing is registered when the provider rejects the call, so a
// failed start leaves no session behind.
func (s *Service) StartCall(ctx context.Context, to string) (*call.Session, error) {
	ctx, span := observability.StartSpan(ctx, observability.SpanCallStart)
	defer span.End()

	dest, err := validation.NormalizePhone(to)
	if err != nil {
		observability.SetSpanError(ctx, err)
		return nil, err
	}
	observability.SetSpanAttribute(ctx, "call.destination", dest)

	req := telephony.PlaceCallRequest{To: dest}
	var auxID string
	if s.cfg.Mode == telephony.ModeConference {
		conf, err := s.provider.CreateConference(ctx, "conf-"+uuid.NewString())
		if err != nil {
			observability.SetSpanError(ctx, err)
			return nil, err
		}
		auxID = conf.SID
		req.ConferenceName = conf.FriendlyName
	}

	handle, err := s.provider.PlaceCall(ctx, req)
	if err != nil {
		observability.SetSpanError(ctx, err)
		s.log.Error("call placement failed", logger.Fields(
			logger.FieldDestination, dest,
			logger.FieldError, err.Error(),
		))
		return nil, err
	}
	observability.SetSpanAttribute(ctx, observability.AttrCallSID, handle.SID)

	sess, err := s.registry.Create(handle.SID, dest, auxID, handle.Status)
	if err != nil {
		// The provider accepted the call but its SID collides with a
		// tracked session. The remote call is already in flight;
		// surface the conflict rather than guessing.
		observability.SetSpanError(ctx, err)
		return nil, err
	}

	s.metrics.RecordCallStarted(ctx)
	s.publish(Event{
		Type:      EventStatus,
		CallSID:   sess.ID,
		Status:    sess.Status,
		IsActive:  sess.Active,
		Timestamp: sess.StartedAt,
	})

	fields := logger.Fields(
		logger.FieldCallSID, sess.ID,
		logger.FieldDestination, dest,
		logger.FieldCallStatus, string(sess.Status),
	)
	if auxID != "" {
		fields[logger.FieldConferenceSID] = auxID
	}
	s.log.Info("call started", fields)
	return sess, nil
}

// SpeakText speaks text into an active call. In conference mode a
// companion call joins the session's conference and says the text; in
// redirect mode the live call leg is pointed at a say-then-resume
// document. The text lands on the session's outbound log only after
// the provider accepted it.
func (s *Service) SpeakText(ctx context.Context, callSID, text string) error {
	ctx, span := observability.StartSpan(ctx, observability.SpanCallSpeak)
	defer span.End()
	observability.SetSpanAttribute(ctx, observability.AttrCallSID, callSID)

	if strings.TrimSpace(text) == "" {
		return errors.InvalidInput("text", "must not be empty")
	}
	sess, ok := s.registry.Get(callSID)
	if !ok {
		return errors.SessionNotFound(callSID)
	}
	if !sess.Active {
		return errors.SessionInactive(callSID)
	}

	var err error
	switch s.cfg.Mode {
	case telephony.ModeConference:
		if sess.AuxID == "" {
			err = errors.Internal(fmt.Errorf("session %s has no conference", callSID))
		} else {
			_, err = s.provider.SpeakIntoConference(ctx, sess.AuxID, text)
		}
	default:
		err = s.provider.RedirectCall(ctx, callSID, s.cfg.SayURL(text))
	}
	s.metrics.RecordSpeak(ctx, s.cfg.Mode, err)
	if err != nil {
		observability.SetSpanError(ctx, err)
		s.log.Error("speak failed", logger.Fields(
			logger.FieldCallSID, callSID,
			logger.FieldMode, s.cfg.Mode,
			logger.FieldError, err.Error(),
		))
		return err
	}

	now := time.Now()
	if err := s.registry.AppendOutbound(callSID, text, now); err != nil {
		// The call ended while the speak was in flight. The text may
		// have been spoken anyway; report the session state as is.
		return err
	}
	s.publish(Event{
		Type:      EventOutbound,
		CallSID:   callSID,
		IsActive:  true,
		Text:      text,
		Timestamp: now,
	})
	s.log.Info("text spoken", logger.Fields(
		logger.FieldCallSID, callSID,
		logger.FieldMode, s.cfg.Mode,
		"chars", len(text),
	))
	return nil
}

// EndCall terminates the call at the provider and marks the session
// completed. Remote termination is best effort: a provider failure is
// logged and the session still ends locally, so state converges even
// when the far end is already gone. Ending an ended call succeeds
// without side effects.
func (s *Service) EndCall(ctx context.Context, callSID string) error {
	ctx, span := observability.StartSpan(ctx, observability.SpanCallEnd)
	defer span.End()
	observability.SetSpanAttribute(ctx, observability.AttrCallSID, callSID)

	sess, ok := s.registry.Get(callSID)
	if !ok {
		return errors.SessionNotFound(callSID)
	}

	if sess.Active {
		if err := s.provider.TerminateCall(ctx, callSID); err != nil {
			observability.SetSpanError(ctx, err)
			s.log.Warn("remote terminate failed, ending session locally", logger.Fields(
				logger.FieldCallSID, callSID,
				logger.FieldError, err.Error(),
			))
		}
	}

	changed, err := s.registry.End(callSID)
	if err != nil {
		return err
	}
	if changed {
		s.metrics.RecordCallEnded(ctx, string(telephony.StatusCompleted))
		s.publish(Event{
			Type:      EventEnded,
			CallSID:   callSID,
			Status:    telephony.StatusCompleted,
			Timestamp: time.Now(),
		})
		s.log.Info("call ended", logger.Fields(logger.FieldCallSID, callSID))
	}
	return nil
}

// GetStatus returns a snapshot of the session.
func (s *Service) GetStatus(callSID string) (*call.Session, error) {
	sess, ok := s.registry.Get(callSID)
	if !ok {
		return nil, errors.SessionNotFound(callSID)
	}
	return sess, nil
}

// ListActive returns snapshots of every session still in flight,
// oldest first.
func (s *Service) ListActive() []*call.Session {
	return s.registry.ListActive()
}
