package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/qdconsortium/qdw-api/internal/api/handler"
	"github.com/qdconsortium/qdw-api/internal/api/middleware"
	"github.com/qdconsortium/qdw-api/internal/core/ports"
	"github.com/qdconsortium/qdw-api/internal/infrastructure/forward"
)

// Deps carries the constructed services and clients the router wires into
// handlers. Construction happens in main; the router only registers routes.
type Deps struct {
	Registrations ports.RegistrationService
	Uploads       ports.UploadService
	Payments      ports.PaymentService
	Members       ports.MemberService
	News          ports.NewsService
	Forwarder     *forward.Forwarder

	Mongo *mongo.Database
	Redis *redis.Client

	AdminAPIKey string
	Log         zerolog.Logger
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(d Deps) *echo.Echo {
	e := echo.New()
	e.HideBanner = true

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.Logger())
	e.Use(echoprometheus.NewMiddleware("qdw"))

	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(d.Log)

	// --- Handlers ---
	registrationHandler := handler.NewRegistrationHandler(d.Registrations)
	uploadHandler := handler.NewUploadHandler(d.Uploads)
	paymentHandler := handler.NewPaymentHandler(d.Payments)
	webhookHandler := handler.NewWebhookHandler(d.Payments)
	memberHandler := handler.NewMemberHandler(d.Members)
	newsHandler := handler.NewNewsHandler(d.News)
	joinHandler := handler.NewJoinHandler(d.Forwarder, d.Log)

	// --- Registration ---
	e.POST("/api/register", registrationHandler.Submit)
	e.GET("/api/register", registrationHandler.List, middleware.AdminKey(d.AdminAPIKey))

	// --- Posters ---
	e.POST("/api/upload-poster", uploadHandler.Upload)

	// --- Payments ---
	e.POST("/api/stripe/checkout", paymentHandler.CreateCheckout)
	e.POST("/api/stripe/create-payment-intent", paymentHandler.CreatePaymentIntent)
	e.POST("/api/stripe/webhook", webhookHandler.Receive)

	// --- Members ---
	e.POST("/api/qdw/login", memberHandler.Login)
	e.POST("/api/qdw/set-password", memberHandler.SetPassword)
	e.POST("/api/qdw/verify-member", memberHandler.Verify)

	// --- News ---
	e.GET("/api/quantum-news", newsHandler.Latest)

	// --- Join forwarder ---
	e.POST("/api/submit-join", joinHandler.Forward)

	// --- Health probes and metrics ---
	healthHandler := handler.NewHealthHandler()
	readinessHandler := handler.NewReadinessHandler(d.Mongo, d.Redis)

	e.GET("/health", healthHandler.Liveness)
	e.GET("/health/ready", readinessHandler.Readiness)
	e.GET("/metrics", echoprometheus.NewHandler())

	return e
}
