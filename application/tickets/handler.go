package tickets

import (
	"net/http"

	"helpdesk/middleware"

	"github.com/gin-gonic/gin"
)

// Handler handles HTTP requests for tickets
type Handler struct {
	svc *Service
}

// NewHandler creates a new Handler
func NewHandler(service *Service) *Handler {
	return &Handler{svc: service}
}

// RegisterRoutes registers the handler routes
func (h *Handler) RegisterRoutes(api *gin.RouterGroup) {
	api.POST("/v1/actions", h.DispatchAction)

	guilds := api.Group("/v1/guilds")
	{
		guilds.GET("/:guildID/tickets/:ticketID", h.GetTicket)
		guilds.GET("/:guildID/stats", h.GetStats)
		guilds.GET("/:guildID/can-open", h.CanOpen)
	}

	ticketsGroup := api.Group("/v1/tickets")
	{
		ticketsGroup.GET("/channel/:channelID", h.GetTicketByChannel)
		ticketsGroup.GET("/owner/:actorID", h.ListByOwner)
	}
}

// DispatchAction handles POST /v1/actions: the single entry point for all
// ticket lifecycle writes.
func (h *Handler) DispatchAction(c *gin.Context) {
	send := c.MustGet("send").(func(middleware.Response))

	var req ActionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		send(middleware.Response{
			Code:    http.StatusBadRequest,
			Message: "Invalid JSON payload",
			Error:   err,
		})
		return
	}

	result, err := h.svc.Dispatch(c.Request.Context(), &req)
	if err != nil {
		send(middleware.Response{
			Message: "Action rejected",
			Error:   err,
		})
		return
	}

	send(middleware.Response{
		Code:    http.StatusOK,
		Message: "Action applied",
		Data:    result,
	})
}

// GetTicket handles GET /v1/guilds/:guildID/tickets/:ticketID
func (h *Handler) GetTicket(c *gin.Context) {
	send := c.MustGet("send").(func(middleware.Response))

	ticket, err := h.svc.GetTicket(c.Request.Context(), c.Param("guildID"), c.Param("ticketID"))
	if err != nil {
		send(middleware.Response{
			Message: "Failed to load ticket",
			Error:   err,
		})
		return
	}

	send(middleware.Response{
		Code: http.StatusOK,
		Data: ticket,
	})
}

// GetTicketByChannel handles GET /v1/tickets/channel/:channelID
func (h *Handler) GetTicketByChannel(c *gin.Context) {
	send := c.MustGet("send").(func(middleware.Response))

	ticket, err := h.svc.GetTicketByChannel(c.Request.Context(), c.Param("channelID"))
	if err != nil {
		send(middleware.Response{
			Message: "Failed to load ticket",
			Error:   err,
		})
		return
	}

	send(middleware.Response{
		Code: http.StatusOK,
		Data: ticket,
	})
}

// ListByOwner handles GET /v1/tickets/owner/:actorID?status=open
func (h *Handler) ListByOwner(c *gin.Context) {
	send := c.MustGet("send").(func(middleware.Response))

	list, err := h.svc.ListByOwner(c.Request.Context(), c.Param("actorID"), c.Query("status"))
	if err != nil {
		send(middleware.Response{
			Message: "Failed to list tickets",
			Error:   err,
		})
		return
	}

	send(middleware.Response{
		Code: http.StatusOK,
		Data: list,
	})
}

// GetStats handles GET /v1/guilds/:guildID/stats
func (h *Handler) GetStats(c *gin.Context) {
	send := c.MustGet("send").(func(middleware.Response))

	stats, err := h.svc.GetStats(c.Request.Context(), c.Param("guildID"))
	if err != nil {
		send(middleware.Response{
			Message: "Failed to aggregate stats",
			Error:   err,
		})
		return
	}

	send(middleware.Response{
		Code: http.StatusOK,
		Data: stats,
	})
}

// CanOpen handles GET /v1/guilds/:guildID/can-open?actor_id=...
// The collaborator calls this before creating a ticket channel.
func (h *Handler) CanOpen(c *gin.Context) {
	send := c.MustGet("send").(func(middleware.Response))

	actorID := c.Query("actor_id")
	if actorID == "" {
		send(middleware.Response{
			Code:    http.StatusBadRequest,
			Message: "actor_id is required",
		})
		return
	}

	decision, err := h.svc.CanOpen(c.Request.Context(), c.Param("guildID"), actorID)
	if err != nil {
		send(middleware.Response{
			Message: "Failed to evaluate policy",
			Error:   err,
		})
		return
	}

	send(middleware.Response{
		Code: http.StatusOK,
		Data: gin.H{"allowed": decision.Allowed, "reason": decision.Reason},
	})
}
