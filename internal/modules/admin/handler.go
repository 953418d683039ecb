package admin

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"retreatbooking/internal/pkg/response"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterAdminRoutes(rg *gin.RouterGroup) {
	rg.GET("/admin/users", h.ListUsers)
	rg.GET("/admin/dashboard", h.Dashboard)
}

func (h *Handler) RegisterEditorRoutes(rg *gin.RouterGroup) {
	rg.POST("/admin/send-notifications", h.SendNotifications)
}

func (h *Handler) ListUsers(c *gin.Context) {
	users, err := h.service.ListUsers(c.Request.Context())
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, users)
}

func (h *Handler) Dashboard(c *gin.Context) {
	d, err := h.service.Dashboard(c.Request.Context())
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, d)
}

func (h *Handler) SendNotifications(c *gin.Context) {
	res, err := h.service.SendPendingNotifications(c.Request.Context())
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, res)
}
