// Package router provides HTTP routing, middleware configuration, and server setup for the web application
package router

import (
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"log"
	"strings"
	"time"

	"github.com/evalforge/workforce-suite/app/dto"
	"github.com/evalforge/workforce-suite/app/handlers"
	"github.com/evalforge/workforce-suite/app/middleware"
	"github.com/evalforge/workforce-suite/config"
	"github.com/evalforge/workforce-suite/utils"
	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/adaptor"
	"github.com/gofiber/fiber/v3/middleware/compress"
	"github.com/gofiber/fiber/v3/middleware/cors"
	"github.com/gofiber/fiber/v3/middleware/helmet"
	"github.com/gofiber/fiber/v3/middleware/limiter"
	"github.com/gofiber/fiber/v3/middleware/logger"
	"github.com/gofiber/fiber/v3/middleware/recover"
	"github.com/gofiber/fiber/v3/middleware/requestid"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Router interface for HTTP routing
type Router interface {
	SetupRoutes()
	Start(address string) error
	GetApp() *fiber.App
}

// FiberRouter implements Router using Fiber v3
type FiberRouter struct {
	app                *fiber.App
	cfg                *config.ProductionConfig
	campaignHandler    handlers.CampaignHandlerInterface
	groupHandler       handlers.GroupHandlerInterface
	evaluationHandler  handlers.EvaluationHandlerInterface
	progressHandler    handlers.ProgressHandlerInterface
	certificateHandler handlers.CertificateHandlerInterface
	templateHandler    handlers.TemplateHandlerInterface
	statisticsHandler  handlers.StatisticsHandlerInterface
	authMiddleware     *middleware.AuthMiddleware
}

// NewFiberRouter creates a new Fiber router
func NewFiberRouter(
	cfg *config.ProductionConfig,
	campaignHandler handlers.CampaignHandlerInterface,
	groupHandler handlers.GroupHandlerInterface,
	evaluationHandler handlers.EvaluationHandlerInterface,
	progressHandler handlers.ProgressHandlerInterface,
	certificateHandler handlers.CertificateHandlerInterface,
	templateHandler handlers.TemplateHandlerInterface,
	statisticsHandler handlers.StatisticsHandlerInterface,
	authMiddleware *middleware.AuthMiddleware,
) *FiberRouter {
	app := fiber.New(fiber.Config{
		AppName:      "Workforce Suite API",
		ServerHeader: "workforce-suite",
		ErrorHandler: errorHandler,
		BodyLimit:    cfg.Server.BodyLimit,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
		ProxyHeader:  cfg.Server.ProxyHeader,
		JSONEncoder:  json.Marshal,
		JSONDecoder:  json.Unmarshal,
	})

	return &FiberRouter{
		app:                app,
		cfg:                cfg,
		campaignHandler:    campaignHandler,
		groupHandler:       groupHandler,
		evaluationHandler:  evaluationHandler,
		progressHandler:    progressHandler,
		certificateHandler: certificateHandler,
		templateHandler:    templateHandler,
		statisticsHandler:  statisticsHandler,
		authMiddleware:     authMiddleware,
	}
}

// SetupRoutes configures all application routes
func (r *FiberRouter) SetupRoutes() {
	log.Println("Setting up routes...")

	// Global middleware
	r.setupMiddleware()

	// API routes
	api := r.app.Group("/api/v1")

	// Health check route (no rate limiting)
	api.Get("/health", r.healthCheck)

	// Prometheus metrics endpoint
	if r.cfg.Metrics.Enabled {
		path := r.cfg.Metrics.Path
		if path == "" {
			path = "/metrics"
		}
		r.app.Get(path, adaptor.HTTPHandler(promhttp.Handler()))
	}

	// Apply general rate limiting to all API routes
	api.Use(limiter.New(limiter.Config{
		Max:        r.cfg.Security.GlobalRateLimit,
		Expiration: r.cfg.Security.RateLimitWindow,
		KeyGenerator: func(c fiber.Ctx) string {
			return c.IP() // Rate limit by IP
		},
		LimitReached: func(c fiber.Ctx) error {
			return c.Status(fiber.StatusTooManyRequests).JSON(dto.APIResponse{
				Success: false,
				Message: "Too many requests. Please try again later.",
				Error: dto.ErrorDetail{
					Code: "RATE_LIMIT_EXCEEDED",
				},
			})
		},
		Next: func(c fiber.Ctx) bool {
			// Skip rate limiting for health checks
			return c.Path() == "/api/v1/health"
		},
	}))

	// Public verification endpoint with stricter rate limiting. No auth:
	// anyone holding a token may check a certificate.
	verify := api.Group("/verify")
	verify.Use(limiter.New(limiter.Config{
		Max:        r.cfg.Security.VerifyRateLimit,
		Expiration: r.cfg.Security.RateLimitWindow,
		KeyGenerator: func(c fiber.Ctx) string {
			return c.IP()
		},
		LimitReached: func(c fiber.Ctx) error {
			return c.Status(fiber.StatusTooManyRequests).JSON(dto.APIResponse{
				Success: false,
				Message: "Too many verification requests. Please try again later.",
				Error: dto.ErrorDetail{
					Code: "RATE_LIMIT_EXCEEDED",
				},
			})
		},
	}))
	verify.Get("/:token", r.certificateHandler.VerifyCertificate)

	// Protected routes
	protected := api.Group("", r.authMiddleware.Authenticate())

	// Campaign lifecycle
	campaigns := protected.Group("/campaigns")
	campaigns.Post("", r.campaignHandler.CreateCampaign)
	campaigns.Get("", r.campaignHandler.ListCampaigns)
	campaigns.Get("/:uuid", r.campaignHandler.GetCampaign)
	campaigns.Put("/:uuid", r.campaignHandler.UpdateCampaign)
	campaigns.Post("/:uuid/start", r.campaignHandler.StartCampaign)
	campaigns.Post("/:uuid/pause", r.campaignHandler.PauseCampaign)
	campaigns.Post("/:uuid/resume", r.campaignHandler.ResumeCampaign)
	campaigns.Post("/:uuid/complete", r.campaignHandler.CompleteCampaign)
	campaigns.Post("/:uuid/cancel", r.campaignHandler.CancelCampaign)

	// Campaign-scoped reads
	campaigns.Get("/:uuid/groups", r.groupHandler.ListGroups)
	campaigns.Get("/:uuid/evaluations", r.evaluationHandler.ListEvaluations)
	campaigns.Get("/:uuid/progress", r.progressHandler.GetCampaignProgress)

	// Groups and evaluations
	protected.Post("/groups", r.groupHandler.CreateGroup)
	protected.Post("/evaluations", r.evaluationHandler.SubmitEvaluation)

	// Certificates
	certificates := protected.Group("/certificates")
	certificates.Post("", r.certificateHandler.GenerateCertificate)
	certificates.Get("", r.certificateHandler.ListCertificates)
	certificates.Get("/:uuid", r.certificateHandler.GetCertificate)
	certificates.Put("/:uuid", r.certificateHandler.UpdateCertificate)
	certificates.Post("/:uuid/regenerate", r.certificateHandler.RegenerateCertificate)
	certificates.Post("/:uuid/revoke", r.certificateHandler.RevokeCertificate)

	// Certificate templates
	templates := protected.Group("/templates")
	templates.Post("", r.templateHandler.CreateTemplate)
	templates.Get("", r.templateHandler.ListTemplates)
	templates.Put("/:uuid", r.templateHandler.UpdateTemplate)
	templates.Post("/:uuid/default", r.templateHandler.SetDefaultTemplate)

	// Statistics
	protected.Get("/statistics", r.statisticsHandler.GetStatistics)
	protected.Get("/statistics/export", r.statisticsHandler.ExportStatistics)

	// Not found handler
	r.app.Use(r.notFoundHandler)

	log.Println("Routes configured successfully")
}

// setupMiddleware configures global middleware
func (r *FiberRouter) setupMiddleware() {
	// Request ID middleware - must be first
	r.app.Use(requestid.New(requestid.Config{
		Header: "X-Request-ID",
		Generator: func() string {
			return generateRequestID()
		},
	}))

	// Security headers middleware
	r.app.Use(helmet.New(helmet.Config{
		XSSProtection:         "1; mode=block",
		ContentTypeNosniff:    "nosniff",
		XFrameOptions:         "DENY",
		HSTSMaxAge:            31536000, // 1 year
		HSTSExcludeSubdomains: false,
		ReferrerPolicy:        "strict-origin-when-cross-origin",
		XDNSPrefetchControl:   "off",
		XDownloadOptions:      "noopen",
		XPermittedCrossDomain: "none",
	}))

	// CORS middleware with config-driven settings
	r.app.Use(cors.New(cors.Config{
		AllowOrigins:     r.cfg.Security.AllowedOrigins,
		AllowMethods:     r.cfg.Security.AllowedMethods,
		AllowHeaders:     r.cfg.Security.AllowedHeaders,
		AllowCredentials: r.cfg.Security.AllowCredentials,
		ExposeHeaders: []string{
			"X-Request-ID",
			"X-Response-Time",
		},
		MaxAge: r.corsMaxAge(),
	}))

	// Compression middleware for performance
	r.app.Use(compress.New(compress.Config{
		Level: compress.LevelBestSpeed,
		Next: func(c fiber.Ctx) bool {
			// Skip compression for binary downloads
			contentType := c.Get("Content-Type")
			return contains(contentType, "image/") ||
				contains(contentType, "spreadsheetml")
		},
	}))

	// Structured request logging
	r.app.Use(logger.New(logger.Config{
		Format:     `{"time":"${time}","pid":"${pid}","request_id":"${locals:requestid}","level":"info","method":"${method}","path":"${path}","protocol":"${protocol}","ip":"${ip}","user_agent":"${ua}","status":${status},"latency":"${latency}","bytes_in":${bytesReceived},"bytes_out":${bytesSent},"referer":"${referer}"}` + "\n",
		TimeFormat: time.RFC3339,
		TimeZone:   "UTC",
		Next: func(c fiber.Ctx) bool {
			// Skip logging for health checks in production
			return c.Path() == "/api/v1/health"
		},
	}))

	// Prometheus HTTP metrics
	if r.cfg.Metrics.Enabled {
		r.app.Use(middleware.Metrics())
	}

	// Recovery middleware with custom error handling
	r.app.Use(recover.New(recover.Config{
		EnableStackTrace: true,
		StackTraceHandler: func(c fiber.Ctx, e any) {
			// Log panic with request context
			log.Printf(`{"time":"%s","level":"error","request_id":"%s","event":"panic","error":"%v","path":"%s","method":"%s","ip":"%s"}`,
				utils.UTCNow().Format(time.RFC3339),
				c.Locals("requestid"),
				e,
				c.Path(),
				c.Method(),
				c.IP(),
			)
		},
	}))
}

func (r *FiberRouter) corsMaxAge() int {
	if r.cfg.Security.CORSMaxAge > 0 {
		return r.cfg.Security.CORSMaxAge
	}
	return utils.CORSMaxAge
}

// Start starts the HTTP server
func (r *FiberRouter) Start(address string) error {
	log.Printf("Starting server on %s", address)
	return r.app.Listen(address)
}

// GetApp returns the Fiber app instance
func (r *FiberRouter) GetApp() *fiber.App {
	return r.app
}

// Health check endpoint
func (r *FiberRouter) healthCheck(c fiber.Ctx) error {
	return c.JSON(dto.APIResponse{
		Success: true,
		Message: "Service is healthy",
		Data: fiber.Map{
			"status":    "ok",
			"timestamp": utils.UTCNow().Unix(),
			"version":   "1.0.0",
			"service":   "workforce-suite-api",
		},
	})
}

// Not found handler
func (r *FiberRouter) notFoundHandler(c fiber.Ctx) error {
	return c.Status(fiber.StatusNotFound).JSON(dto.APIResponse{
		Success: false,
		Message: "The requested resource was not found",
		Error: dto.ErrorDetail{
			Code: "NOT_FOUND",
		},
	})
}

// Global error handler
func errorHandler(c fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	message := "Internal server error"

	if e, ok := err.(*fiber.Error); ok {
		code = e.Code
		message = e.Message
	}

	log.Printf(`{"time":"%s","level":"error","request_id":"%s","error":"%v","path":"%s","method":"%s","status":%d}`,
		utils.UTCNow().Format(time.RFC3339),
		c.Locals("requestid"),
		err,
		c.Path(),
		c.Method(),
		code,
	)

	return c.Status(code).JSON(dto.APIResponse{
		Success: false,
		Message: message,
		Error: dto.ErrorDetail{
			Code: "REQUEST_FAILED",
		},
	})
}

// generateRequestID creates a random correlation ID for a request
func generateRequestID() string {
	bytes := make([]byte, 16)
	if _, err := rand.Read(bytes); err != nil {
		return "unknown"
	}
	return hex.EncodeToString(bytes)
}

func contains(str, substr string) bool {
	return strings.Contains(str, substr)
}
