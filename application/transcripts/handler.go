package transcripts

import (
	"net/http"

	"helpdesk/middleware"

	"github.com/gin-gonic/gin"
)

// Handler handles HTTP requests for transcripts
type Handler struct {
	svc *Service
}

// NewHandler creates a new Handler
func NewHandler(service *Service) *Handler {
	return &Handler{svc: service}
}

// RegisterRoutes registers the handler routes
func (h *Handler) RegisterRoutes(api *gin.RouterGroup) {
	api.POST("/v1/messages", h.ObserveMessage)
	api.GET("/v1/guilds/:guildID/tickets/:ticketID/transcript", h.DownloadTranscript)
}

type messagePayload struct {
	ChannelID string `json:"channel_id" binding:"required"`
	UserID    string `json:"user_id" binding:"required"`
	Username  string `json:"username" binding:"required"`
	Content   string `json:"content"`
}

// ObserveMessage handles POST /v1/messages: one observed channel message.
// Appending is best-effort, so the response is 202 regardless of whether
// the message landed in a transcript.
func (h *Handler) ObserveMessage(c *gin.Context) {
	send := c.MustGet("send").(func(middleware.Response))

	var payload messagePayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		send(middleware.Response{
			Code:    http.StatusBadRequest,
			Message: "Invalid JSON payload",
			Error:   err,
		})
		return
	}

	h.svc.Append(c.Request.Context(), payload.ChannelID, payload.UserID, payload.Username, payload.Content)

	send(middleware.Response{
		Code:    http.StatusAccepted,
		Message: "Message observed",
	})
}

// DownloadTranscript handles
// GET /v1/guilds/:guildID/tickets/:ticketID/transcript
func (h *Handler) DownloadTranscript(c *gin.Context) {
	sendStream := c.MustGet("sendStream").(func(middleware.StreamResponse))

	response := h.svc.Render(c.Request.Context(), c.Param("guildID"), c.Param("ticketID"))
	sendStream(response)
}
