package api

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/skillsenselab/callbridge/internal/bridge"
	"github.com/skillsenselab/callbridge/internal/errors"
	"github.com/skillsenselab/callbridge/internal/logger"
	"github.com/skillsenselab/callbridge/internal/server"
	"github.com/skillsenselab/callbridge/internal/validation"
)

// bindJSON decodes the request body into req and runs struct tag
// validation on the result.
func bindJSON(c *gin.Context, req any) error {
	if err := c.ShouldBindJSON(req); err != nil {
		return errors.Validation(err.Error())
	}
	return validation.Validate(req)
}

// CallHandler serves the REST command surface backed by the bridge
// service.
type CallHandler struct {
	svc *bridge.Service
	log *logger.Logger
}

// NewCallHandler creates the REST command handler.
func NewCallHandler(svc *bridge.Service, log *logger.Logger) *CallHandler {
	return &CallHandler{svc: svc, log: log.WithComponent("api")}
}

// Health handles GET /api/health.
func (h *CallHandler) Health(c *gin.Context) {
	server.RespondOK(c, gin.H{
		"status":    "ok",
		"service":   "callbridge",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

// InitiateCall handles POST /api/initiate-call.
func (h *CallHandler) InitiateCall(c *gin.Context) {
	var req InitiateCallRequest
	if err := bindJSON(c, &req); err != nil {
		server.RespondWithError(c, err)
		return
	}

	sess, err := h.svc.StartCall(c.Request.Context(), req.To)
	if err != nil {
		server.RespondWithError(c, err)
		return
	}

	server.RespondCreated(c, InitiateCallResponse{
		Success:       true,
		CallSID:       sess.ID,
		ConferenceSID: sess.AuxID,
		Status:        sess.Status,
	})
}

// SpeakText handles POST /api/speak-text.
func (h *CallHandler) SpeakText(c *gin.Context) {
	var req SpeakTextRequest
	if err := bindJSON(c, &req); err != nil {
		server.RespondWithError(c, err)
		return
	}

	if err := h.svc.SpeakText(c.Request.Context(), req.CallSID, req.Text); err != nil {
		server.RespondWithError(c, err)
		return
	}

	server.RespondOK(c, MessageResponse{Success: true, Message: "Text spoken into call"})
}

// EndCall handles POST /api/end-call.
func (h *CallHandler) EndCall(c *gin.Context) {
	var req EndCallRequest
	if err := bindJSON(c, &req); err != nil {
		server.RespondWithError(c, err)
		return
	}

	if err := h.svc.EndCall(c.Request.Context(), req.CallSID); err != nil {
		server.RespondWithError(c, err)
		return
	}

	server.RespondOK(c, MessageResponse{Success: true, Message: "Call ended"})
}

// CallStatus handles GET /api/call-status/:callSid.
func (h *CallHandler) CallStatus(c *gin.Context) {
	sess, err := h.svc.GetStatus(c.Param("callSid"))
	if err != nil {
		server.RespondWithError(c, err)
		return
	}

	server.RespondOK(c, CallStatusResponse{Success: true, Session: sess})
}

// ActiveCalls handles GET /api/active-calls.
func (h *CallHandler) ActiveCalls(c *gin.Context) {
	active := h.svc.ListActive()
	server.RespondOK(c, ActiveCallsResponse{
		Success:     true,
		Count:       len(active),
		ActiveCalls: active,
	})
}
