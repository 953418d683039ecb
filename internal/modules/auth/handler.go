package auth

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"retreatbooking/internal/middleware"
	"retreatbooking/internal/pkg/response"
)

type Handler struct {
	service      *Service
	cookieSecure bool
}

func NewHandler(service *Service, cookieSecure bool) *Handler {
	return &Handler{service: service, cookieSecure: cookieSecure}
}

func (h *Handler) RegisterPublicRoutes(v1 *gin.RouterGroup) {
	v1.POST("/admin/auth/login", h.Login)
}

// Login godoc
// @Summary Admin console login
// @Tags Admin
// @Accept json
// @Produce json
// @Param request body LoginRequest true "credentials"
// @Success 200 {object} map[string]interface{}
// @Failure 401 {object} map[string]interface{}
// @Failure 403 {object} map[string]interface{}
// @Router /admin/auth/login [post]
func (h *Handler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}

	res, err := h.service.Login(c.Request.Context(), req)
	if err != nil {
		response.FromError(c, err)
		return
	}

	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(middleware.AdminTokenCookie, res.Token, int(h.service.TokenTTL().Seconds()), "/", "", h.cookieSecure, true)
	response.Success(c, http.StatusOK, res)
}
