package bridge

import (
	"context"
	"testing"

	"github.com/skillsenselab/callbridge/internal/telephony"
)

func TestHandleStatusEvent_TransitionsSession(t *testing.T) {
	svc, _, bc := newTestService(t, telephony.ModeConference)
	sess := mustStart(t, svc, "+15551234567")
	ctx := context.Background()

	svc.HandleStatusEvent(ctx, sess.ID, "ringing")
	got, _ := svc.GetStatus(sess.ID)
	if got.Status != telephony.StatusRinging {
		t.Fatalf("expected ringing, got %s", got.Status)
	}

	svc.HandleStatusEvent(ctx, sess.ID, "in-progress")
	got, _ = svc.GetStatus(sess.ID)
	if got.Status != telephony.StatusAnswered || !got.Active {
		t.Fatalf("expected active answered session, got active=%v status=%s", got.Active, got.Status)
	}

	svc.HandleStatusEvent(ctx, sess.ID, "completed")
	got, _ = svc.GetStatus(sess.ID)
	if got.Active || got.Status != telephony.StatusCompleted {
		t.Fatalf("expected completed inactive session, got active=%v status=%s", got.Active, got.Status)
	}

	// One status event from start, two from the webhook transitions,
	// one ended event for the terminal transition.
	if evs := bc.byType(t, EventStatus); len(evs) != 3 {
		t.Errorf("expected 3 status events, got %d", len(evs))
	}
	if evs := bc.byType(t, EventEnded); len(evs) != 1 || evs[0].Status != telephony.StatusCompleted {
		t.Errorf("expected one completed ended event, got %+v", evs)
	}
}

func TestHandleStatusEvent_UnrecognizedStatusDropped(t *testing.T) {
	svc, _, bc := newTestService(t, telephony.ModeConference)
	sess := mustStart(t, svc, "+15551234567")
	before := len(bc.events(t))

	svc.HandleStatusEvent(context.Background(), sess.ID, "warming-up")

	got, _ := svc.GetStatus(sess.ID)
	if got.Status != telephony.StatusInitiated {
		t.Errorf("unrecognized status must not change the session, got %s", got.Status)
	}
	if len(bc.events(t)) != before {
		t.Error("unrecognized status must not publish an event")
	}
}

func TestHandleStatusEvent_UnknownSessionDropped(t *testing.T) {
	svc, _, bc := newTestService(t, telephony.ModeConference)

	svc.HandleStatusEvent(context.Background(), "CA404", "ringing")

	if svc.registry.Count() != 0 {
		t.Error("a status event must never create a session")
	}
	if len(bc.events(t)) != 0 {
		t.Error("expected no events for an unknown session")
	}
}

func TestHandleStatusEvent_DuplicateStatusSuppressed(t *testing.T) {
	svc, _, bc := newTestService(t, telephony.ModeConference)
	sess := mustStart(t, svc, "+15551234567")
	ctx := context.Background()

	svc.HandleStatusEvent(ctx, sess.ID, "ringing")
	before := len(bc.events(t))
	svc.HandleStatusEvent(ctx, sess.ID, "ringing")

	if len(bc.events(t)) != before {
		t.Error("a repeated status must not publish a second event")
	}
}

func TestHandleStatusEvent_LateEventAfterEndDropped(t *testing.T) {
	svc, _, bc := newTestService(t, telephony.ModeConference)
	sess := mustStart(t, svc, "+15551234567")
	ctx := context.Background()

	if err := svc.EndCall(ctx, sess.ID); err != nil {
		t.Fatalf("EndCall failed: %v", err)
	}
	before := len(bc.events(t))

	svc.HandleStatusEvent(ctx, sess.ID, "in-progress")

	got, _ := svc.GetStatus(sess.ID)
	if got.Active || got.Status != telephony.StatusCompleted {
		t.Errorf("late status must not resurrect an ended session, got active=%v status=%s", got.Active, got.Status)
	}
	if len(bc.events(t)) != before {
		t.Error("late status must not publish an event")
	}
}

func TestHandleTranscription_AppendsInOrder(t *testing.T) {
	svc, _, bc := newTestService(t, telephony.ModeConference)
	sess := mustStart(t, svc, "+15551234567")
	ctx := context.Background()

	texts := []string{"first words", "second words", "third words"}
	for _, txt := range texts {
		svc.HandleTranscription(ctx, sess.ID, txt, "completed")
	}

	got, _ := svc.GetStatus(sess.ID)
	if len(got.Transcript) != len(texts) {
		t.Fatalf("expected %d transcriptions, got %d", len(texts), len(got.Transcript))
	}
	for i, txt := range texts {
		if got.Transcript[i].Text != txt {
			t.Errorf("transcription %d: expected %q, got %q", i, txt, got.Transcript[i].Text)
		}
	}
	if evs := bc.byType(t, EventTranscription); len(evs) != len(texts) {
		t.Errorf("expected %d transcription events, got %d", len(texts), len(evs))
	}
}

func TestHandleTranscription_NonFinalDropped(t *testing.T) {
	svc, _, _ := newTestService(t, telephony.ModeConference)
	sess := mustStart(t, svc, "+15551234567")
	ctx := context.Background()

	svc.HandleTranscription(ctx, sess.ID, "partial words", "in-progress")
	svc.HandleTranscription(ctx, sess.ID, "", "completed")

	got, _ := svc.GetStatus(sess.ID)
	if len(got.Transcript) != 0 {
		t.Errorf("non-final and empty transcriptions must be dropped, got %+v", got.Transcript)
	}
}

func TestHandleTranscription_ResolvesByConferenceSID(t *testing.T) {
	svc, _, _ := newTestService(t, telephony.ModeConference)
	sess := mustStart(t, svc, "+15551234567")

	svc.HandleTranscription(context.Background(), sess.AuxID, "routed words", "completed")

	got, _ := svc.GetStatus(sess.ID)
	if len(got.Transcript) != 1 || got.Transcript[0].Text != "routed words" {
		t.Errorf("expected transcription routed via conference sid, got %+v", got.Transcript)
	}
}

func TestHandleTranscription_UnknownKeyDropped(t *testing.T) {
	svc, _, bc := newTestService(t, telephony.ModeConference)

	svc.HandleTranscription(context.Background(), "CF404", "lost words", "completed")

	if svc.registry.Count() != 0 {
		t.Error("a transcription must never create a session")
	}
	if len(bc.events(t)) != 0 {
		t.Error("expected no events for an unknown key")
	}
}

func TestHandleTranscription_AfterEndDropped(t *testing.T) {
	svc, _, _ := newTestService(t, telephony.ModeConference)
	sess := mustStart(t, svc, "+15551234567")
	ctx := context.Background()

	if err := svc.EndCall(ctx, sess.ID); err != nil {
		t.Fatalf("EndCall failed: %v", err)
	}
	svc.HandleTranscription(ctx, sess.ID, "too late", "completed")

	got, _ := svc.GetStatus(sess.ID)
	if len(got.Transcript) != 0 {
		t.Errorf("transcription after end must be dropped, got %+v", got.Transcript)
	}
}

func TestHandleConferenceEvent_JoinMarksAnswered(t *testing.T) {
	svc, _, bc := newTestService(t, telephony.ModeConference)
	sess := mustStart(t, svc, "+15551234567")
	ctx := context.Background()

	svc.HandleStatusEvent(ctx, sess.ID, "ringing")
	svc.HandleConferenceEvent(ctx, sess.AuxID, "participant-join", "CAfar")

	got, _ := svc.GetStatus(sess.ID)
	if got.Status != telephony.StatusAnswered {
		t.Errorf("expected answered after participant join, got %s", got.Status)
	}
	if evs := bc.byType(t, EventStatus); evs[len(evs)-1].Status != telephony.StatusAnswered {
		t.Errorf("expected answered status event, got %+v", evs[len(evs)-1])
	}
}

func TestHandleConferenceEvent_JoinAfterAnswerIsNoop(t *testing.T) {
	svc, _, bc := newTestService(t, telephony.ModeConference)
	sess := mustStart(t, svc, "+15551234567")
	ctx := context.Background()

	svc.HandleStatusEvent(ctx, sess.ID, "in-progress")
	before := len(bc.events(t))

	svc.HandleConferenceEvent(ctx, sess.AuxID, "participant-join", "CAfar")

	if len(bc.events(t)) != before {
		t.Error("a join on an already answered call must not publish an event")
	}
}

func TestHandleConferenceEvent_OtherEventsIgnored(t *testing.T) {
	svc, _, _ := newTestService(t, telephony.ModeConference)
	sess := mustStart(t, svc, "+15551234567")
	ctx := context.Background()

	svc.HandleStatusEvent(ctx, sess.ID, "ringing")
	svc.HandleConferenceEvent(ctx, sess.AuxID, "participant-leave", "CAfar")

	got, _ := svc.GetStatus(sess.ID)
	if got.Status != telephony.StatusRinging {
		t.Errorf("participant leave must not change status, got %s", got.Status)
	}
}

func TestHandleConferenceEvent_UnknownConferenceDropped(t *testing.T) {
	svc, _, bc := newTestService(t, telephony.ModeConference)

	svc.HandleConferenceEvent(context.Background(), "CF404", "participant-join", "CAfar")

	if len(bc.events(t)) != 0 {
		t.Error("expected no events for an unknown conference")
	}
}
