package router

import (
	authsvc "certledger-backend/internal/application/auth"
	usersvc "certledger-backend/internal/application/users"
	"certledger-backend/internal/config"
	"certledger-backend/internal/infrastructure/database"
	authhandlers "certledger-backend/internal/interfaces/handlers/auth"
	certhandlers "certledger-backend/internal/interfaces/handlers/certificates"
	healthhandlers "certledger-backend/internal/interfaces/handlers/health"
	rolehandlers "certledger-backend/internal/interfaces/handlers/roles"
	tokenhandlers "certledger-backend/internal/interfaces/handlers/tokens"
	userhandlers "certledger-backend/internal/interfaces/handlers/users"
	"certledger-backend/internal/middleware"
	"certledger-backend/internal/pkg/constants"
	"certledger-backend/internal/pkg/metrics"
	"certledger-backend/internal/registry"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// gormDBPinger adapts *gorm.DB to the health DBPinger interface.
type gormDBPinger struct{ db *gorm.DB }

func (g *gormDBPinger) Ping() error {
	sqlDB, err := g.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Ping()
}

// CreateApp wires the full application: database, Redis session, middleware
// chain and all route groups. Returns the app plus the DB and Redis handles so
// the entrypoint can ping them at startup.
func CreateApp(cfg *config.Config) (*fiber.App, *gorm.DB, *redis.Client, error) {
	db, err := database.Open(cfg.DatabaseURL)
	if err != nil {
		return nil, nil, nil, err
	}
	if err := database.AutoMigrate(db); err != nil {
		return nil, nil, nil, err
	}
	if err := database.SeedOwner(db, cfg.RegistryOwner); err != nil {
		return nil, nil, nil, err
	}

	sessionMw, rdb, err := middleware.Session(middleware.SessionConfig{
		Secret:            cfg.SessionSecret,
		RedisURL:          cfg.RedisURL,
		AllowCrossSiteDev: cfg.AllowCrossSiteDev,
		IsProduction:      cfg.Env == "production",
	})
	if err != nil {
		return nil, nil, nil, err
	}

	app := fiber.New(fiber.Config{
		ErrorHandler: middleware.ErrorHandler,
	})

	app.Use(middleware.CORS(middleware.CORSConfig{
		AllowedSuffix: cfg.FrontendURLEndsWith,
		DevPassword:   cfg.DevPassword,
	}))
	app.Use(sessionMw)
	app.Use(middleware.HealthMarker(rdb))
	app.Use(middleware.ResponseFormatter())
	app.Use(middleware.Tracing())
	app.Use(middleware.RouteLogger())

	registrySvc := &registry.Service{DB: db}
	sessionCfg := middleware.SessionConfig{
		Secret:            cfg.SessionSecret,
		RedisURL:          cfg.RedisURL,
		AllowCrossSiteDev: cfg.AllowCrossSiteDev,
		IsProduction:      cfg.Env == "production",
	}

	authH := &authhandlers.Handlers{
		UserFinder: &authsvc.GormUserFinder{DB: db},
		Rdb:        rdb,
		Config:     sessionCfg,
	}
	userH := &userhandlers.Handlers{Service: &usersvc.Service{DB: db}}
	certH := &certhandlers.Handlers{Service: registrySvc}
	roleH := &rolehandlers.Handlers{Service: registrySvc}
	tokenH := &tokenhandlers.Handlers{Service: registrySvc}
	healthH := &healthhandlers.Handlers{
		Rdb:            rdb,
		DB:             &gormDBPinger{db: db},
		HealthAdminKey: cfg.HealthAdminKey,
	}

	app.Get("/", func(c *fiber.Ctx) error {
		return c.SendString("CertLedger API is running")
	})
	app.Get("/metrics", adaptor.HTTPHandler(metrics.Handler()))

	app.Get("/health", healthH.Dashboard)
	app.Get("/health/json", healthH.JSON)
	app.Get("/health/errors", healthH.Errors)
	app.Post("/health/reset", healthH.Reset)

	api := app.Group("/api/v1")

	auth := api.Group("/auth")
	auth.Post("/login", authH.Login)
	auth.Get("/me", authH.Me)
	auth.Delete("/logout", middleware.RequireAuth(), authH.Logout)

	users := api.Group("/users")
	users.Post("/create-user", middleware.RequireAuth(), middleware.RequireRole(registrySvc, constants.RoleAdmin), userH.Create)
	users.Get("/view-user/:id", middleware.RequireAuth(), userH.View)

	certs := api.Group("/certificates")
	certs.Get("/verify/:certificate_id", certH.Verify)
	certs.Post("/issue", middleware.RequireAuth(), middleware.RequireRole(registrySvc, constants.RoleIssuer), certH.Issue)
	certs.Post("/batch-issue", middleware.RequireAuth(), middleware.RequireRole(registrySvc, constants.RoleIssuer), certH.BatchIssue)
	certs.Patch("/revoke", middleware.RequireAuth(), middleware.RequireRole(registrySvc, constants.RoleIssuer, constants.RoleAdmin), certH.Revoke)

	roles := api.Group("/roles")
	roles.Get("/check", roleH.Check)
	roles.Post("/grant", middleware.RequireAuth(), middleware.RequireRole(registrySvc, constants.RoleAdmin), roleH.Grant)
	roles.Patch("/revoke", middleware.RequireAuth(), middleware.RequireRole(registrySvc, constants.RoleAdmin), roleH.Revoke)

	tokens := api.Group("/tokens")
	tokens.Get("/owner-of/:token_id", tokenH.OwnerOf)
	tokens.Post("/transfer", middleware.RequireAuth(), tokenH.Transfer)

	log.Info().Str("env", cfg.Env).Msg("application wired")
	return app, db, rdb, nil
}
