package routes

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"github.com/agri-connect/agri_connect/internal/admin"
	"github.com/agri-connect/agri_connect/internal/auth"
	"github.com/agri-connect/agri_connect/internal/config"
	"github.com/agri-connect/agri_connect/internal/middleware"
	"github.com/agri-connect/agri_connect/internal/notification"
	"github.com/agri-connect/agri_connect/internal/profile"
	"github.com/agri-connect/agri_connect/internal/token"
)

// Deps aggregates shared dependencies required to wire routes.
type Deps struct {
	Cfg    config.Config
	DB     *pgxpool.Pool
	Cache  *redis.Client
	Logger *slog.Logger
	// Verifier overrides the OIDC verifier built from Cfg. Tests inject a
	// static verifier here; production leaves it nil.
	Verifier token.Verifier
}

// Setup configures middlewares and all application routes.
func Setup(app *fiber.App, d Deps) error {
	// Enforce DB/Redis presence outside of dev, even though main also checks.
	if !isDev(d.Cfg.AppEnv) {
		if d.DB == nil {
			return fmt.Errorf("database is required when APP_ENV=%s", d.Cfg.AppEnv)
		}
		if d.Cache == nil {
			return fmt.Errorf("redis is required when APP_ENV=%s", d.Cfg.AppEnv)
		}
	}

	// Middlewares
	app.Use(recover.New())
	app.Use(middleware.RequestID())
	app.Use(logger.New(logger.Config{
		Format:     "[${time}] ${status} -  ${latency} ${method} ${path}\n",
		TimeFormat: "15:04:05",
		TimeZone:   "Local",
	}))
	app.Use(middleware.Audit(d.Logger))

	// Health
	RegisterHealthRoutes(app, d)

	// Repositories fall back to in-memory stores in dev without a database.
	var profileRepo profile.Repository
	if d.DB != nil {
		profileRepo = profile.NewPostgresRepository(d.DB)
	} else {
		profileRepo = profile.NewMemoryRepository()
	}
	var adminRepo admin.Repository
	if d.DB != nil {
		adminRepo = admin.NewPostgresRepository(d.DB)
	} else {
		adminRepo = admin.NewMemoryRepository()
	}

	notifier := notification.NewLoggerNotifier(d.Logger)
	profileSvc := profile.NewService(profileRepo, notifier)
	adminSvc := admin.NewService(adminRepo)
	sessionSvc := auth.NewService(d.Cfg)

	verifier := d.Verifier
	if verifier == nil {
		v, err := token.NewOIDCVerifier(context.Background(), d.Cfg.IssuerURL, d.Cfg.Audience(), d.Logger)
		if err != nil {
			return err
		}
		verifier = v
	}

	authHandler := auth.NewHandler(verifier, profileSvc, adminSvc, sessionSvc, d.Logger)
	profileHandler := profile.NewHandler(profileSvc)

	// API routes
	api := app.Group("/api/v1")
	api.Get("/ping", func(c *fiber.Ctx) error {
		reqID, _ := c.Locals("X-Request-ID").(string)
		return c.Status(http.StatusOK).JSON(fiber.Map{
			"status":     "ok",
			"request_id": reqID,
			"timestamp":  time.Now().UTC().Format(time.RFC3339Nano),
		})
	})

	// Public routes
	rateLimiter := middleware.AuthRateLimit(d.Cache, d.Cfg.OTPRateLimit)
	RegisterAuthRoutes(api, authHandler, rateLimiter)

	// Admin-protected routes
	adminOnly := middleware.AdminAuth(sessionSvc)
	var idem fiber.Handler
	if d.Cache != nil {
		idem = middleware.Idempotency(d.Cache, d.Cfg.IdempotencyTTL, d.Logger)
	}
	RegisterUserRoutes(api, profileHandler, adminOnly, idem)

	return nil
}

func isDev(env string) bool {
	switch strings.ToLower(env) {
	case "dev", "development", "local":
		return true
	default:
		return false
	}
}
