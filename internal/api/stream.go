package api

import (
	"github.com/gin-gonic/gin"

	"github.com/skillsenselab/callbridge/internal/bridge"
	"github.com/skillsenselab/callbridge/internal/logger"
	"github.com/skillsenselab/callbridge/internal/server"
	"github.com/skillsenselab/callbridge/internal/sse"
)

// StreamHandler serves the per-call SSE event stream.
type StreamHandler struct {
	hub *sse.Hub
	svc *bridge.Service
	log *logger.Logger
}

// NewStreamHandler creates the event stream handler.
func NewStreamHandler(hub *sse.Hub, svc *bridge.Service, log *logger.Logger) *StreamHandler {
	return &StreamHandler{hub: hub, svc: svc, log: log.WithComponent("stream")}
}

// CallEvents handles GET /api/call-events/:callSid. Unknown sessions
// are rejected up front so a watcher fails fast instead of hanging on
// a stream that will never carry anything.
func (h *StreamHandler) CallEvents(c *gin.Context) {
	callSID := c.Param("callSid")
	if _, err := h.svc.GetStatus(callSID); err != nil {
		server.RespondWithError(c, err)
		return
	}

	clientID := bridge.StreamClientID(callSID)
	sse.ServeSSE(h.hub, c.Writer, c.Request, clientID, sse.WithCallSID(callSID))
}
