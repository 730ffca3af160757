package api

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/skillsenselab/callbridge/internal/bridge"
	"github.com/skillsenselab/callbridge/internal/logger"
	"github.com/skillsenselab/callbridge/internal/telephony"
	"github.com/skillsenselab/callbridge/internal/util"
)

// Provider form field names on webhook callbacks.
const (
	formCallSID             = "CallSid"
	formCallStatus          = "CallStatus"
	formConferenceSID       = "ConferenceSid"
	formFriendlyName        = "FriendlyName"
	formRecordingSID        = "RecordingSid"
	formTranscriptionText   = "TranscriptionText"
	formTranscriptionStatus = "TranscriptionStatus"
	formCallbackEvent       = "StatusCallbackEvent"

	headerSignature = "X-Twilio-Signature"
)

// WebhookHandler receives provider callbacks and hands them to the
// bridge ingest. Receivers acknowledge 200 whatever happens inside;
// the provider retries on anything else and the events are applied
// synchronously before the acknowledgment anyway.
type WebhookHandler struct {
	svc *bridge.Service
	cfg *telephony.Config
	log *logger.Logger
}

// NewWebhookHandler creates the webhook receiver.
func NewWebhookHandler(svc *bridge.Service, cfg *telephony.Config, log *logger.Logger) *WebhookHandler {
	return &WebhookHandler{svc: svc, cfg: cfg, log: log.WithComponent("webhooks")}
}

// CallStatus handles POST /webhook/call-status.
func (h *WebhookHandler) CallStatus(c *gin.Context) {
	if !h.verify(c) {
		return
	}
	if callSID := c.PostForm(formCallSID); callSID != "" {
		h.svc.HandleStatusEvent(c.Request.Context(), callSID, c.PostForm(formCallStatus))
	}
	c.Status(http.StatusOK)
}

// RecordingTranscription handles POST /webhook/recording-transcription.
// The session key is whichever identifier the provider addressed the
// callback with; the bridge resolves call SIDs directly and conference
// names through the aux index.
func (h *WebhookHandler) RecordingTranscription(c *gin.Context) {
	if !h.verify(c) {
		return
	}
	key := util.Coalesce(
		c.PostForm(formCallSID),
		c.PostForm(formFriendlyName),
		c.PostForm(formConferenceSID),
		c.PostForm(formRecordingSID),
	)
	if key != "" {
		h.svc.HandleTranscription(c.Request.Context(), key,
			c.PostForm(formTranscriptionText), c.PostForm(formTranscriptionStatus))
	}
	c.Status(http.StatusOK)
}

// ConferenceEvents handles POST /webhook/conference-events. Conferences
// are addressed by friendly name because that is the name this service
// minted; the provider-side SID only exists after dial-in.
func (h *WebhookHandler) ConferenceEvents(c *gin.Context) {
	if !h.verify(c) {
		return
	}
	conference := util.Coalesce(c.PostForm(formFriendlyName), c.PostForm(formConferenceSID))
	if conference != "" {
		h.svc.HandleConferenceEvent(c.Request.Context(), conference,
			c.PostForm(formCallbackEvent), c.PostForm(formCallSID))
	}
	c.Status(http.StatusOK)
}

// verify checks the provider signature when verification is enabled.
// It writes a 403 and returns false when the signature does not match.
func (h *WebhookHandler) verify(c *gin.Context) bool {
	if !h.cfg.VerifySignatures {
		return true
	}
	if err := c.Request.ParseForm(); err != nil {
		h.log.Warn("webhook form parse failed", logger.Fields(logger.FieldError, err.Error()))
		c.AbortWithStatus(http.StatusForbidden)
		return false
	}

	// The provider signs the public URL it requested. Reconstruct it
	// from the configured callback base so proxies in front of the
	// service do not break verification.
	requestURL := strings.TrimRight(h.cfg.CallbackBaseURL, "/") + c.Request.URL.RequestURI()
	signature := c.GetHeader(headerSignature)
	if !ValidateSignature(h.cfg.AuthToken, requestURL, c.Request.PostForm, signature) {
		h.log.Warn("webhook signature verification failed", logger.Fields(
			"path", c.Request.URL.Path,
			"remote_addr", c.ClientIP(),
		))
		c.AbortWithStatus(http.StatusForbidden)
		return false
	}
	return true
}
