package feed

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type Handler struct {
	hub    *Hub
	logger *zap.Logger
}

func NewHandler(hub *Hub, logger *zap.Logger) *Handler {
	return &Handler{hub: hub, logger: logger}
}

// RegisterRoutes mounts the feed. rg must authenticate with
// middleware.JWTAuthQuery since browsers cannot set headers on upgrade.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/admin/feed", h.ServeFeed)
}

// ServeFeed handles GET /api/v1/admin/feed?token=JWT
func (h *Handler) ServeFeed(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.logger.Warn("feed: upgrade failed", zap.Error(err))
		return
	}
	h.hub.ServeWS(conn, c.GetInt64("admin_id"))
}
