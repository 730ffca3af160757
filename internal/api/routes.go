package api

import (
	"github.com/gin-gonic/gin"

	"github.com/skillsenselab/callbridge/internal/bridge"
	"github.com/skillsenselab/callbridge/internal/logger"
	"github.com/skillsenselab/callbridge/internal/sse"
	"github.com/skillsenselab/callbridge/internal/telephony"
)

// Handlers bundles the full HTTP surface of the call bridge.
type Handlers struct {
	Calls    *CallHandler
	Webhooks *WebhookHandler
	TwiML    *TwiMLHandler
	Stream   *StreamHandler
}

// NewHandlers wires the handler set over the bridge service.
func NewHandlers(svc *bridge.Service, hub *sse.Hub, cfg *telephony.Config, log *logger.Logger) *Handlers {
	return &Handlers{
		Calls:    NewCallHandler(svc, log),
		Webhooks: NewWebhookHandler(svc, cfg, log),
		TwiML:    NewTwiMLHandler(cfg, log),
		Stream:   NewStreamHandler(hub, svc, log),
	}
}

// Register mounts every route. Webhook and instruction paths come from
// the telephony package so the URLs the provider is given always match
// what is actually served.
func (h *Handlers) Register(e *gin.Engine) {
	api := e.Group("/api")
	{
		api.GET("/health", h.Calls.Health)
		api.POST("/initiate-call", h.Calls.InitiateCall)
		api.POST("/speak-text", h.Calls.SpeakText)
		api.POST("/end-call", h.Calls.EndCall)
		api.GET("/call-status/:callSid", h.Calls.CallStatus)
		api.GET("/active-calls", h.Calls.ActiveCalls)
		api.GET("/call-events/:callSid", h.Stream.CallEvents)
	}

	e.POST(telephony.PathCallStatus, h.Webhooks.CallStatus)
	e.POST(telephony.PathTranscription, h.Webhooks.RecordingTranscription)
	e.POST(telephony.PathConferenceEvents, h.Webhooks.ConferenceEvents)

	e.POST(telephony.PathAnswer, h.TwiML.Answer)
	e.POST(telephony.PathSay, h.TwiML.Say)
	e.POST(telephony.PathConferenceSpeak, h.TwiML.ConferenceSpeak)
}
