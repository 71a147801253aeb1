package health

import (
	"net/http"

	"helpdesk/middleware"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	svc *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{svc: service}
}

func (h *Handler) RegisterRoutes(api *gin.RouterGroup) {
	api.GET("/health", h.HealthCheck)
}

func (h *Handler) HealthCheck(c *gin.Context) {
	send := c.MustGet("send").(func(middleware.Response))

	response, err := h.svc.CheckHealth()
	if err != nil {
		send(middleware.Response{
			Code:    http.StatusServiceUnavailable,
			Message: "Health check failed",
			Error:   err,
			Data:    response,
		})
		return
	}

	send(middleware.Response{
		Code:    http.StatusOK,
		Message: "Health check completed",
		Data:    response,
	})
}
