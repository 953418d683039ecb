// Package server wires the modules into one gin engine.
package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"retreatbooking/internal/config"
	"retreatbooking/internal/middleware"
	"retreatbooking/internal/modules/admin"
	"retreatbooking/internal/modules/auth"
	"retreatbooking/internal/modules/booking"
	"retreatbooking/internal/modules/catalog"
	"retreatbooking/internal/modules/feed"
	"retreatbooking/internal/modules/notification"
	"retreatbooking/internal/modules/payment"
	"retreatbooking/internal/modules/teacher"
	"retreatbooking/internal/pkg/jwt"
	"retreatbooking/internal/repository"
)

// Deps are the process level collaborators built by main.
type Deps struct {
	Config  *config.Config
	DB      *gorm.DB
	Logger  *zap.Logger
	JWT     *jwt.Service
	Mailer  notification.Mailer
	Gateway payment.Gateway

	// Limiter guards the public write routes. Nil disables rate limiting.
	Limiter  middleware.Limiter
	Fallback middleware.Limiter

	// Observers receive booking status changes in addition to the mail
	// dispatcher and the admin feed.
	Observers []booking.Observer
}

type Server struct {
	Engine     *gin.Engine
	Hub        *feed.Hub
	Bookings   *booking.Service
	Teachers   *teacher.Service
	Dispatcher *notification.Dispatcher
}

func New(d Deps) *Server {
	cfg := d.Config

	dispatcher := notification.NewDispatcher(d.DB, d.Mailer, cfg.CheckoutCurrency, d.Logger)
	hub := feed.NewHub(d.Logger)

	bookingService := booking.NewService(d.DB, d.Logger, dispatcher, hub)
	for _, o := range d.Observers {
		bookingService.Observe(o)
	}
	paymentService := payment.NewService(d.DB, bookingService, d.Gateway, dispatcher, payment.Options{
		BaseURL:  cfg.AppBaseURL,
		Currency: cfg.CheckoutCurrency,
	}, d.Logger)
	catalogService := catalog.NewService(d.DB, d.Logger)
	teacherService := teacher.NewService(d.DB, dispatcher, d.Logger)
	authService := auth.NewService(repository.NewAdminUserRepository(d.DB), d.JWT, d.Logger)
	adminService := admin.NewService(d.DB, teacherService, d.Logger)

	bookingHandler := booking.NewHandler(bookingService)
	paymentHandler := payment.NewHandler(paymentService, d.Logger)
	catalogHandler := catalog.NewHandler(catalogService)
	teacherHandler := teacher.NewHandler(teacherService)
	authHandler := auth.NewHandler(authService, cfg.CookieSecure)
	adminHandler := admin.NewHandler(adminService)
	feedHandler := feed.NewHandler(hub, d.Logger)

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(
		middleware.RequestID(),
		middleware.RequestLogger(d.Logger),
		middleware.Recovery(d.Logger),
		middleware.CORS(cfg.CORSAllowedOrigins),
	)
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	v1 := r.Group("/api/v1")
	{
		// public
		catalogHandler.RegisterPublicRoutes(v1)
		authHandler.RegisterPublicRoutes(v1)
		paymentHandler.RegisterWebhookRoutes(v1)

		// public writes, rate limited
		limited := v1.Group("")
		if d.Limiter != nil {
			limited.Use(middleware.RateLimit(d.Limiter, d.Fallback, d.Logger))
		}
		bookingHandler.RegisterPublicRoutes(limited)
		paymentHandler.RegisterPublicRoutes(limited)
		catalogHandler.RegisterPromoRoutes(limited)

		// any admin
		protected := v1.Group("", middleware.JWTAuth(d.JWT))
		bookingHandler.RegisterAdminRoutes(protected)
		catalogHandler.RegisterAdminRoutes(protected)
		teacherHandler.RegisterAdminRoutes(protected)
		adminHandler.RegisterAdminRoutes(protected)

		// ADMIN, MANAGER
		editors := protected.Group("", middleware.EditorOnly())
		bookingHandler.RegisterEditorRoutes(editors)
		catalogHandler.RegisterEditorRoutes(editors)
		teacherHandler.RegisterEditorRoutes(editors)
		adminHandler.RegisterEditorRoutes(editors)

		// ADMIN
		owners := protected.Group("", middleware.AdminOnly())
		catalogHandler.RegisterOwnerRoutes(owners)

		// websocket, token in query
		feedHandler.RegisterRoutes(v1.Group("", middleware.JWTAuthQuery(d.JWT)))
	}

	return &Server{
		Engine:     r,
		Hub:        hub,
		Bookings:   bookingService,
		Teachers:   teacherService,
		Dispatcher: dispatcher,
	}
}
