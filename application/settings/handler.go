package settings

import (
	"net/http"

	"helpdesk/middleware"

	"github.com/gin-gonic/gin"
)

// Handler handles HTTP requests for guild settings
type Handler struct {
	svc *Service
}

// NewHandler creates a new Handler
func NewHandler(service *Service) *Handler {
	return &Handler{svc: service}
}

// RegisterRoutes registers the handler routes
func (h *Handler) RegisterRoutes(api *gin.RouterGroup) {
	guilds := api.Group("/v1/guilds")
	{
		guilds.GET("/:guildID/settings", h.GetSettings)
		guilds.PATCH("/:guildID/settings", h.UpdateSettings)
	}
}

// GetSettings handles GET /v1/guilds/:guildID/settings
func (h *Handler) GetSettings(c *gin.Context) {
	send := c.MustGet("send").(func(middleware.Response))

	settings, err := h.svc.GetSettings(c.Request.Context(), c.Param("guildID"))
	if err != nil {
		send(middleware.Response{
			Message: "Failed to load settings",
			Error:   err,
		})
		return
	}

	send(middleware.Response{
		Code: http.StatusOK,
		Data: settings,
	})
}

// UpdateSettings handles PATCH /v1/guilds/:guildID/settings
func (h *Handler) UpdateSettings(c *gin.Context) {
	send := c.MustGet("send").(func(middleware.Response))

	var payload UpdatePayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		send(middleware.Response{
			Code:    http.StatusBadRequest,
			Message: "Invalid JSON payload",
			Error:   err,
		})
		return
	}

	updated, err := h.svc.UpdateSettings(c.Request.Context(), c.Param("guildID"), &payload)
	if err != nil {
		send(middleware.Response{
			Message: "Failed to update settings",
			Error:   err,
		})
		return
	}

	send(middleware.Response{
		Code:    http.StatusOK,
		Message: "Settings updated",
		Data:    updated,
	})
}
