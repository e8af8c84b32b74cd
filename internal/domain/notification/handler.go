package notification

import (
	"log/slog"
	"net/http"

	"orderping/internal/common"

	"github.com/gin-gonic/gin"
)

// Enqueuer defines the contract for handing a verified delivery to the
// background pipeline. This decouples the handler from the specific queue
// implementation.
type Enqueuer interface {
	EnqueueProcessEvent(kind EventKind, body []byte) error
}

// Handler handles HTTP requests: the inbound webhook endpoints and the
// ops read API over the notification log.
type Handler struct {
	service         *Service
	enqueuer        Enqueuer
	secret          string
	signatureHeader string
}

// NewHandler creates a notification handler.
func NewHandler(service *Service, enqueuer Enqueuer, secret, signatureHeader string) *Handler {
	return &Handler{
		service:         service,
		enqueuer:        enqueuer,
		secret:          secret,
		signatureHeader: signatureHeader,
	}
}

// CheckoutWebhook handles POST /webhooks/checkout.
func (h *Handler) CheckoutWebhook(c *gin.Context) {
	h.receive(c, KindCheckoutUpdated)
}

// OrderWebhook handles POST /webhooks/order.
func (h *Handler) OrderWebhook(c *gin.Context) {
	h.receive(c, KindOrderCreated)
}

// receive verifies the delivery signature over the raw body, acknowledges
// the sender, and hands the payload to the background pipeline. The 200 is
// written and flushed before the enqueue: the sender's retry behavior must
// not depend on downstream latency, and nothing after the ack is observable
// to it.
func (h *Handler) receive(c *gin.Context, kind EventKind) {
	body, err := c.GetRawData()
	if err != nil {
		common.Error(c, http.StatusBadRequest, "reading request body: "+err.Error())
		return
	}

	if !VerifySignature(body, c.GetHeader(h.signatureHeader), h.secret) {
		slog.Warn("webhook signature verification failed",
			"kind", kind,
			"remote", c.ClientIP(),
		)
		common.Error(c, http.StatusForbidden, "signature verification failed")
		return
	}

	common.Success(c, http.StatusOK, gin.H{"status": "ok"})
	c.Writer.Flush()

	// Fire and forget: enqueue failures are logged only, the response is
	// already on the wire.
	if err := h.enqueuer.EnqueueProcessEvent(kind, body); err != nil {
		slog.Error("failed to enqueue event for processing",
			"kind", kind,
			"error", err,
		)
	}
}

// GetNotification handles GET /api/v1/notifications/:event_id.
func (h *Handler) GetNotification(c *gin.Context) {
	entry, err := h.service.GetByEventID(c.Request.Context(), c.Param("event_id"))
	if err != nil {
		common.HandleError(c, err)
		return
	}

	common.Success(c, http.StatusOK, entry)
}

// ListNotifications handles GET /api/v1/notifications.
func (h *Handler) ListNotifications(c *gin.Context) {
	var filter ListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		common.Error(c, http.StatusBadRequest, "invalid query parameters: "+err.Error())
		return
	}

	resp, err := h.service.List(c.Request.Context(), filter)
	if err != nil {
		common.HandleError(c, err)
		return
	}

	common.Success(c, http.StatusOK, resp)
}

// RegisterWebhookRoutes registers the inbound webhook endpoints.
func (h *Handler) RegisterWebhookRoutes(r gin.IRouter) {
	r.POST("/webhooks/checkout", h.CheckoutWebhook)
	r.POST("/webhooks/order", h.OrderWebhook)
}

// RegisterOpsRoutes registers the notification log read endpoints.
func (h *Handler) RegisterOpsRoutes(rg *gin.RouterGroup) {
	rg.GET("/notifications", h.ListNotifications)
	rg.GET("/notifications/:event_id", h.GetNotification)
}
