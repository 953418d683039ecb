package payment

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"retreatbooking/internal/domain"
	"retreatbooking/internal/pkg/response"
)

const maxWebhookBytes = 1 << 16

type Handler struct {
	service *Service
	logger  *zap.Logger
}

func NewHandler(service *Service, logger *zap.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

// RegisterPublicRoutes mounts the guest checkout endpoints.
func (h *Handler) RegisterPublicRoutes(rg *gin.RouterGroup) {
	rg.POST("/payment/create-session", h.CreateSession)
	rg.POST("/payment/checkout", h.OpenCheckout)
}

// RegisterWebhookRoutes mounts the provider callback. It must not sit
// behind admin auth; the request is authenticated by its signature.
func (h *Handler) RegisterWebhookRoutes(rg *gin.RouterGroup) {
	rg.POST("/payment/webhook", h.Webhook)
}

// CreateSession godoc
// @Summary      Create a booking and open checkout
// @Tags         Payments
// @Accept       json
// @Produce      json
// @Param        body body CreateSessionRequest true "booking"
// @Success      200 {object} CheckoutResult
// @Failure      400 {object} map[string]interface{}
// @Failure      502 {object} map[string]interface{}
// @Router       /payment/create-session [post]
func (h *Handler) CreateSession(c *gin.Context) {
	var req CreateSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}

	res, err := h.service.CreateSession(c.Request.Context(), req.Input())
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, res)
}

// OpenCheckout godoc
// @Summary      Open checkout for an existing pending booking
// @Tags         Payments
// @Accept       json
// @Produce      json
// @Param        body body OpenCheckoutRequest true "booking id"
// @Success      200 {object} CheckoutResult
// @Router       /payment/checkout [post]
func (h *Handler) OpenCheckout(c *gin.Context) {
	var req OpenCheckoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "bookingId is required")
		return
	}

	res, err := h.service.OpenCheckout(c.Request.Context(), req.BookingID)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, res)
}

// Webhook godoc
// @Summary      Payment provider webhook
// @Tags         Payments
// @Accept       json
// @Produce      json
// @Param        Stripe-Signature header string true "provider signature"
// @Success      200 {object} CompletionResult
// @Failure      400 {object} map[string]interface{}
// @Router       /payment/webhook [post]
func (h *Handler) Webhook(c *gin.Context) {
	payload, err := io.ReadAll(http.MaxBytesReader(c.Writer, c.Request.Body, maxWebhookBytes))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			h.logger.Warn("webhook body too large", zap.Int64("limit", tooLarge.Limit))
			response.Error(c, http.StatusRequestEntityTooLarge, "PAYLOAD_TOO_LARGE", "Webhook body exceeds size limit")
			return
		}
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Unreadable body")
		return
	}

	sig := c.GetHeader("Stripe-Signature")
	if sig == "" {
		response.Error(c, http.StatusBadRequest, "SIGNATURE_INVALID", "Missing Stripe-Signature header")
		return
	}

	res, err := h.service.HandleWebhook(c.Request.Context(), payload, sig)
	if err != nil {
		h.logger.Warn("webhook rejected", zap.Error(err))
		if errors.Is(err, domain.ErrInsufficientInventory) {
			response.Error(c, http.StatusConflict, "INSUFFICIENT_INVENTORY", err.Error())
			return
		}
		response.FromError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{
		"received": true,
		"result":   res,
	})
}
