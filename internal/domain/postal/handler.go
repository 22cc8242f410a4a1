package postal

import (
	"context"
	"log/slog"
	"net/http"

	"postalservice/internal/common"

	"github.com/gin-gonic/gin"
)

// Handler handles HTTP requests for the postal domain.
type Handler struct {
	service *Service
}

// NewHandler creates a new postal handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// SendCreateEvent handles POST /api/v1/emails/create-event
func (h *Handler) SendCreateEvent(c *gin.Context) {
	var req CreateEventEmail
	bindAndSend(c, h.service.SendCreateEvent, &req, KindCreateEvent)
}

// SendBadgeAwarded handles POST /api/v1/emails/badge-awarded
func (h *Handler) SendBadgeAwarded(c *gin.Context) {
	var req BadgeAwardedEmail
	bindAndSend(c, h.service.SendBadgeAwarded, &req, KindBadgeAwarded)
}

// SendWelcome handles POST /api/v1/emails/welcome
func (h *Handler) SendWelcome(c *gin.Context) {
	var req WelcomeEmail
	bindAndSend(c, h.service.SendWelcome, &req, KindWelcome)
}

// SendMofoStaff handles POST /api/v1/emails/mofo-staff
func (h *Handler) SendMofoStaff(c *gin.Context) {
	var req MofoStaffEmail
	bindAndSend(c, h.service.SendMofoStaff, &req, KindMofoStaff)
}

func bindAndSend[T any](c *gin.Context, send func(context.Context, T) (*SendResponse, error), req *T, kind Kind) {
	if err := c.ShouldBindJSON(req); err != nil {
		common.Error(c, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	resp, err := send(c.Request.Context(), *req)
	if err != nil {
		slog.Error("send email failed",
			"kind", kind,
			"request_id", c.GetString(common.RequestIDKey),
			"error", err,
		)
		common.HandleError(c, err)
		return
	}

	common.Success(c, http.StatusOK, resp)
}

// GetDelivery handles GET /api/v1/deliveries/:id
func (h *Handler) GetDelivery(c *gin.Context) {
	id := c.Param("id")

	d, err := h.service.GetDelivery(c.Request.Context(), id)
	if err != nil {
		common.HandleError(c, err)
		return
	}

	common.Success(c, http.StatusOK, d)
}

// ListDeliveries handles GET /api/v1/deliveries
func (h *Handler) ListDeliveries(c *gin.Context) {
	var filter ListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		common.Error(c, http.StatusBadRequest, "invalid query parameters: "+err.Error())
		return
	}

	resp, err := h.service.ListDeliveries(c.Request.Context(), filter)
	if err != nil {
		common.HandleError(c, err)
		return
	}

	common.Success(c, http.StatusOK, resp)
}

// RegisterRoutes registers postal routes to the given router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	emails := rg.Group("/emails")
	emails.POST("/create-event", h.SendCreateEvent)
	emails.POST("/badge-awarded", h.SendBadgeAwarded)
	emails.POST("/welcome", h.SendWelcome)
	emails.POST("/mofo-staff", h.SendMofoStaff)

	rg.GET("/deliveries", h.ListDeliveries)
	rg.GET("/deliveries/:id", h.GetDelivery)
}
