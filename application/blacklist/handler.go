package blacklist

import (
	"net/http"

	"helpdesk/middleware"

	"github.com/gin-gonic/gin"
)

// Handler handles HTTP requests for the blacklist
type Handler struct {
	svc *Service
}

// NewHandler creates a new Handler
func NewHandler(service *Service) *Handler {
	return &Handler{svc: service}
}

// RegisterRoutes registers the handler routes
func (h *Handler) RegisterRoutes(api *gin.RouterGroup) {
	bl := api.Group("/v1/blacklist")
	{
		bl.GET("", h.List)
		bl.GET("/:userID", h.Get)
		bl.PUT("/:userID", h.Ban)
		bl.DELETE("/:userID", h.Unban)
	}
}

type banPayload struct {
	Reason   string `json:"reason"`
	BannedBy string `json:"banned_by" binding:"required"`
}

// Ban handles PUT /v1/blacklist/:userID
func (h *Handler) Ban(c *gin.Context) {
	send := c.MustGet("send").(func(middleware.Response))

	var payload banPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		send(middleware.Response{
			Code:    http.StatusBadRequest,
			Message: "Invalid JSON payload",
			Error:   err,
		})
		return
	}

	if err := h.svc.Ban(c.Request.Context(), c.Param("userID"), payload.Reason, payload.BannedBy); err != nil {
		send(middleware.Response{
			Message: "Failed to ban user",
			Error:   err,
		})
		return
	}

	send(middleware.Response{
		Code:    http.StatusOK,
		Message: "User blacklisted",
	})
}

// Unban handles DELETE /v1/blacklist/:userID
func (h *Handler) Unban(c *gin.Context) {
	send := c.MustGet("send").(func(middleware.Response))

	if err := h.svc.Unban(c.Request.Context(), c.Param("userID")); err != nil {
		send(middleware.Response{
			Message: "Failed to unban user",
			Error:   err,
		})
		return
	}

	send(middleware.Response{
		Code:    http.StatusOK,
		Message: "User removed from blacklist",
	})
}

// Get handles GET /v1/blacklist/:userID
func (h *Handler) Get(c *gin.Context) {
	send := c.MustGet("send").(func(middleware.Response))

	entry, err := h.svc.IsBanned(c.Request.Context(), c.Param("userID"))
	if err != nil {
		send(middleware.Response{
			Message: "Failed to look up user",
			Error:   err,
		})
		return
	}

	send(middleware.Response{
		Code: http.StatusOK,
		Data: gin.H{"banned": entry != nil, "entry": entry},
	})
}

// List handles GET /v1/blacklist
func (h *Handler) List(c *gin.Context) {
	send := c.MustGet("send").(func(middleware.Response))

	entries, err := h.svc.List(c.Request.Context())
	if err != nil {
		send(middleware.Response{
			Message: "Failed to list blacklist",
			Error:   err,
		})
		return
	}

	send(middleware.Response{
		Code: http.StatusOK,
		Data: entries,
	})
}
