package booking

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"retreatbooking/internal/pkg/response"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterPublicRoutes mounts guest facing endpoints.
func (h *Handler) RegisterPublicRoutes(rg *gin.RouterGroup) {
	rg.POST("/bookings", h.CreateBooking)
	rg.POST("/guests", h.UpsertGuest)
}

// RegisterAdminRoutes mounts read endpoints for any authenticated admin.
func (h *Handler) RegisterAdminRoutes(rg *gin.RouterGroup) {
	rg.GET("/bookings", h.ListBookings)
	rg.GET("/bookings/:id", h.GetBooking)
	rg.GET("/guests", h.ListGuests)
}

// RegisterEditorRoutes mounts endpoints that change booking state.
func (h *Handler) RegisterEditorRoutes(rg *gin.RouterGroup) {
	rg.PATCH("/bookings", h.UpdateStatus)
}

// CreateBooking godoc
// @Summary Create a pending booking
// @Tags Bookings
// @Accept json
// @Produce json
// @Param request body CreateBookingRequest true "booking"
// @Success 201 {object} map[string]interface{}
// @Router /bookings [post]
func (h *Handler) CreateBooking(c *gin.Context) {
	var req CreateBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}

	b, err := h.service.CreateBooking(c.Request.Context(), req.Input())
	if err != nil {
		response.FromError(c, err)
		return
	}

	response.Success(c, http.StatusCreated, b)
}

// ListBookings godoc
// @Summary List all bookings with relations
// @Tags Bookings
// @Produce json
// @Security BearerAuth
// @Router /bookings [get]
func (h *Handler) ListBookings(c *gin.Context) {
	bookings, err := h.service.ListBookings(c.Request.Context())
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, bookings)
}

func (h *Handler) GetBooking(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid booking id")
		return
	}

	b, err := h.service.GetBooking(c.Request.Context(), id)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, b)
}

// UpdateStatus godoc
// @Summary Change a booking status
// @Tags Bookings
// @Accept json
// @Produce json
// @Param request body UpdateStatusRequest true "status change"
// @Security BearerAuth
// @Router /bookings [patch]
func (h *Handler) UpdateStatus(c *gin.Context) {
	var req UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "bookingId and status are required")
		return
	}

	b, err := h.service.TransitionStatus(c.Request.Context(), req.BookingID, req.Status)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, b)
}

func (h *Handler) ListGuests(c *gin.Context) {
	guests, err := h.service.ListGuests(c.Request.Context())
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, guests)
}

func (h *Handler) UpsertGuest(c *gin.Context) {
	var req GuestInfo
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "firstName, lastName and a valid email are required")
		return
	}

	g, err := h.service.UpsertGuest(c.Request.Context(), req)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, g)
}
