package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/agendakit/crm-backend/internal/api/handler"
	"github.com/agendakit/crm-backend/internal/api/middleware"
	"github.com/agendakit/crm-backend/internal/core/domain"
	"github.com/agendakit/crm-backend/internal/core/ports"
	"github.com/agendakit/crm-backend/internal/core/service"
	"github.com/agendakit/crm-backend/internal/infrastructure/config"
	mongodb "github.com/agendakit/crm-backend/internal/infrastructure/db/mongo"
	redisdb "github.com/agendakit/crm-backend/internal/infrastructure/db/redis"
)

// NewRouter builds and returns the Echo instance with all routes registered.
// rdb may be nil; the login throttle is then disabled.
func NewRouter(db *mongo.Database, rdb *redis.Client, cfg *config.Config, log zerolog.Logger) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.Logger())
	e.Use(echomiddleware.CORSWithConfig(echomiddleware.CORSConfig{
		AllowOrigins:     []string{cfg.CORSOrigin},
		AllowCredentials: true,
	}))
	e.Use(echoprometheus.NewMiddleware("crm"))

	// --- Dependencies ---
	userRepo := mongodb.NewUserRepository(db)
	clientRepo := mongodb.NewClientRepository(db)
	apptRepo := mongodb.NewAppointmentRepository(db)

	var throttle ports.LoginThrottle
	if rdb != nil {
		throttle = redisdb.NewLoginThrottle(rdb)
	}

	tokenService := service.NewTokenService(cfg.JWTSecret, cfg.TokenTTL())
	authService := service.NewAuthService(userRepo, tokenService, throttle, log)
	userService := service.NewUserService(userRepo, log)
	clientService := service.NewClientService(clientRepo, log)
	apptService := service.NewAppointmentService(apptRepo, clientRepo, log)

	cookie := handler.CookieSettings{TTL: cfg.CookieTTL(), Secure: cfg.IsProduction()}
	authHandler := handler.NewAuthHandler(authService, cookie)
	userHandler := handler.NewUserHandler(userService)
	clientHandler := handler.NewClientHandler(clientService)
	apptHandler := handler.NewAppointmentHandler(apptService)

	requireAuth := middleware.Auth(tokenService, userRepo)
	adminOnly := middleware.RequireRole(domain.RoleAdmin)
	staff := middleware.RequireRole(domain.RoleAdmin, domain.RoleEmployee)

	// --- Auth routes ---
	auth := e.Group("/api/auth")
	auth.POST("/register", authHandler.Register)
	auth.POST("/login", authHandler.Login)
	auth.GET("/logout", authHandler.Logout, requireAuth)

	// --- User routes ---
	users := e.Group("/api/users", requireAuth)
	users.GET("/me", userHandler.Me)
	users.PUT("/updatedetails", userHandler.UpdateDetails)
	users.PUT("/updatepassword", authHandler.UpdatePassword)
	users.GET("", userHandler.List, adminOnly)
	users.POST("", userHandler.Create, adminOnly)
	users.GET("/:id", userHandler.Get, adminOnly)
	users.PUT("/:id", userHandler.Update, adminOnly)
	users.DELETE("/:id", userHandler.Delete, adminOnly)

	// --- Client routes ---
	clients := e.Group("/api/clients", requireAuth)
	clients.GET("", clientHandler.List, staff)
	clients.POST("", clientHandler.Create, staff)
	clients.GET("/:id", clientHandler.Get)
	clients.PUT("/:id", clientHandler.Update, staff)
	clients.DELETE("/:id", clientHandler.Delete, adminOnly)

	// --- Appointment routes ---
	appts := e.Group("/api/appointments", requireAuth)
	appts.GET("", apptHandler.List, staff)
	appts.POST("", apptHandler.Create, staff)
	appts.GET("/today", apptHandler.ListToday, staff)
	appts.GET("/client/:clientId", apptHandler.ListByClient, staff)
	appts.GET("/:id", apptHandler.Get, staff)
	appts.PUT("/:id", apptHandler.Update, staff)
	appts.PATCH("/:id/status", apptHandler.UpdateStatus, staff)
	appts.DELETE("/:id", apptHandler.Delete, adminOnly)

	// --- Health probes and metrics (no auth required) ---
	healthHandler := handler.NewHealthHandler()
	readinessHandler := handler.NewReadinessHandler(db, rdb)

	e.GET("/health", healthHandler.Liveness)
	e.GET("/health/ready", readinessHandler.Readiness)
	e.GET("/metrics", echoprometheus.NewHandler())

	return e
}
