package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/skillsenselab/callbridge/internal/logger"
	"github.com/skillsenselab/callbridge/internal/telephony"
)

// Query parameters on instruction document URLs.
const (
	paramConference = "conference"
	paramText       = "text"
	paramGreeted    = "greeted"
)

// Greeting and recording behavior of the answer document.
const (
	answerGreeting  = "Connected."
	recordSilence   = 3
	recordMaxLength = 60
)

// TwiMLHandler serves the instruction documents the provider fetches
// while driving a call. Documents are rendered through the TwiML
// builder, so caller-supplied text is always XML escaped on the way
// into the markup.
type TwiMLHandler struct {
	cfg *telephony.Config
	log *logger.Logger
}

// NewTwiMLHandler creates the instruction document handler.
func NewTwiMLHandler(cfg *telephony.Config, log *logger.Logger) *TwiMLHandler {
	return &TwiMLHandler{cfg: cfg, log: log.WithComponent("twiml")}
}

// Answer handles POST /twiml/answer, the first document a new call
// executes. In conference mode the far party joins the session's
// conference, which is recorded and reports participant events. In
// redirect mode the far party hears a short greeting and then loops
// through transcribed recording chunks; the greeted flag keeps the
// loop from repeating the greeting.
func (h *TwiMLHandler) Answer(c *gin.Context) {
	doc := telephony.NewTwiML()

	if conference := c.Query(paramConference); h.cfg.Mode == telephony.ModeConference && conference != "" {
		doc.Say(answerGreeting, h.cfg.Voice, h.cfg.Language)
		doc.DialConference(conference, telephony.ConferenceOptions{
			StartConferenceOnEnter: true,
			EndConferenceOnExit:    true,
			Record:                 true,
			StatusCallback:         h.cfg.ConferenceEventsURL(),
		})
		h.respond(c, doc)
		return
	}

	if c.Query(paramGreeted) == "" {
		doc.Say(answerGreeting, h.cfg.Voice, h.cfg.Language)
	}
	doc.Record(telephony.RecordOptions{
		TranscribeCallback: h.cfg.TranscriptionCallbackURL(),
		Timeout:            recordSilence,
		MaxLength:          recordMaxLength,
	})
	doc.Redirect(h.cfg.AnswerResumeURL())
	h.respond(c, doc)
}

// Say handles POST /twiml/say, the say-then-resume document a
// redirected call executes. After speaking, the call returns to the
// answer document to keep listening.
func (h *TwiMLHandler) Say(c *gin.Context) {
	doc := telephony.NewTwiML()
	if text := c.Query(paramText); text != "" {
		doc.Say(text, h.cfg.Voice, h.cfg.Language)
	}
	doc.Pause(1)
	doc.Redirect(h.cfg.AnswerResumeURL())
	h.respond(c, doc)
}

// ConferenceSpeak handles POST /twiml/conference-speak, the companion
// call document that carries spoken text into a conference.
func (h *TwiMLHandler) ConferenceSpeak(c *gin.Context) {
	doc := telephony.NewTwiML()
	conference := c.Query(paramConference)
	if conference == "" {
		// A companion call without a conference has nothing to join.
		doc.Hangup()
		h.respond(c, doc)
		return
	}
	if text := c.Query(paramText); text != "" {
		doc.Say(text, h.cfg.Voice, h.cfg.Language)
	}
	doc.DialConference(conference, telephony.ConferenceOptions{
		StartConferenceOnEnter: true,
	})
	h.respond(c, doc)
}

func (h *TwiMLHandler) respond(c *gin.Context, doc *telephony.TwiML) {
	c.Data(http.StatusOK, "text/xml; charset=utf-8", []byte(doc.String()))
}
