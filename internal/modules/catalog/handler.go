package catalog

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

// RegisterPublicRoutes mounts the browsable catalog.
func (h *Handler) RegisterPublicRoutes(rg *gin.RouterGroup) {
	rg.GET("/retreats", h.ListRetreats)
	rg.GET("/retreats/:id", h.GetRetreat)
	rg.GET("/retreats/:id/dates", h.ListDates)
	rg.GET("/retreats/:id/rooms", h.ListRooms)
	rg.GET("/retreats/:id/packages", h.ListPackages)
}

// RegisterPromoRoutes mounts promo validation. The router puts it behind
// the rate limiter.
func (h *Handler) RegisterPromoRoutes(rg *gin.RouterGroup) {
	rg.POST("/promo/validate", h.ValidatePromo)
}

func (h *Handler) RegisterAdminRoutes(rg *gin.RouterGroup) {
	rg.GET("/rooms", h.ListAllRooms)
	rg.GET("/promo-codes", h.ListPromoCodes)
	rg.GET("/influencers", h.ListInfluencers)
}

func (h *Handler) RegisterEditorRoutes(rg *gin.RouterGroup) {
	rg.POST("/retreats", h.CreateRetreat)
	rg.POST("/retreats/:id/dates", h.CreateDate)
	rg.POST("/retreats/:id/rooms", h.CreateRoom)
	rg.POST("/retreats/:id/packages", h.CreatePackage)
	rg.POST("/promo-codes", h.CreatePromoCode)
	rg.POST("/influencers", h.CreateInfluencer)
}

// RegisterOwnerRoutes mounts destructive endpoints reserved to ADMIN.
func (h *Handler) RegisterOwnerRoutes(rg *gin.RouterGroup) {
	rg.DELETE("/retreats/:id", h.DeleteRetreat)
}

/* ---------- RETREAT HANDLERS ---------- */

// ListRetreats handles GET /api/v1/retreats
func (h *Handler) ListRetreats(c *gin.Context) {
	retreats, err := h.service.ListRetreats(c.Request.Context())
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, retreats)
}

// GetRetreat handles GET /api/v1/retreats/:id
func (h *Handler) GetRetreat(c *gin.Context) {
	id, ok := retreatID(c)
	if !ok {
		return
	}
	retreat, err := h.service.GetRetreat(c.Request.Context(), id)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, retreat)
}

// CreateRetreat handles POST /api/v1/retreats (protected)
func (h *Handler) CreateRetreat(c *gin.Context) {
	var req CreateRetreatRequest
	if !bind(c, &req) {
		return
	}
	retreat, err := h.service.CreateRetreat(c.Request.Context(), req)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, retreat)
}

// DeleteRetreat handles DELETE /api/v1/retreats/:id (ADMIN)
func (h *Handler) DeleteRetreat(c *gin.Context) {
	id, ok := retreatID(c)
	if !ok {
		return
	}
	if err := h.service.DeleteRetreat(c.Request.Context(), id); err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"deleted": true})
}

func (h *Handler) ListDates(c *gin.Context) {
	id, ok := retreatID(c)
	if !ok {
		return
	}
	dates, err := h.service.ListDates(c.Request.Context(), id)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, dates)
}

func (h *Handler) CreateDate(c *gin.Context) {
	id, ok := retreatID(c)
	if !ok {
		return
	}
	var req RetreatDateInput
	if !bind(c, &req) {
		return
	}
	d, err := h.service.CreateDate(c.Request.Context(), id, req)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, d)
}

/* ---------- ROOM & PACKAGE HANDLERS ---------- */

func (h *Handler) ListRooms(c *gin.Context) {
	id, ok := retreatID(c)
	if !ok {
		return
	}
	rooms, err := h.service.ListRooms(c.Request.Context(), id)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, rooms)
}

func (h *Handler) ListAllRooms(c *gin.Context) {
	rooms, err := h.service.ListAllRooms(c.Request.Context())
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, rooms)
}

func (h *Handler) CreateRoom(c *gin.Context) {
	id, ok := retreatID(c)
	if !ok {
		return
	}
	var req CreateRoomTypeRequest
	if !bind(c, &req) {
		return
	}
	room, err := h.service.CreateRoom(c.Request.Context(), id, req)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, room)
}

func (h *Handler) ListPackages(c *gin.Context) {
	id, ok := retreatID(c)
	if !ok {
		return
	}
	packages, err := h.service.ListPackages(c.Request.Context(), id)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, packages)
}

func (h *Handler) CreatePackage(c *gin.Context) {
	id, ok := retreatID(c)
	if !ok {
		return
	}
	var req CreatePackageRequest
	if !bind(c, &req) {
		return
	}
	p, err := h.service.CreatePackage(c.Request.Context(), id, req)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, p)
}

/* ---------- PROMO HANDLERS ---------- */

func (h *Handler) ListInfluencers(c *gin.Context) {
	list, err := h.service.ListInfluencers(c.Request.Context())
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, list)
}

func (h *Handler) CreateInfluencer(c *gin.Context) {
	var req CreateInfluencerRequest
	if !bind(c, &req) {
		return
	}
	inf, err := h.service.CreateInfluencer(c.Request.Context(), req)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, inf)
}

func (h *Handler) ListPromoCodes(c *gin.Context) {
	list, err := h.service.ListPromoCodes(c.Request.Context())
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, list)
}

func (h *Handler) CreatePromoCode(c *gin.Context) {
	var req CreatePromoCodeRequest
	if !bind(c, &req) {
		return
	}
	promo, err := h.service.CreatePromoCode(c.Request.Context(), req)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, promo)
}

// ValidatePromo handles POST /api/v1/promo/validate. Unknown or inactive
// codes answer 404.
func (h *Handler) ValidatePromo(c *gin.Context) {
	var req ValidatePromoRequest
	if !bind(c, &req) {
		return
	}
	v, err := h.service.ValidatePromoCode(c.Request.Context(), req.Code)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, v)
}

func retreatID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid retreat id")
		return 0, false
	}
	return id, true
}

func bind(c *gin.Context, req any) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return false
	}
	return true
}
