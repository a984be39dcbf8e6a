package bootstrap

import (
	"context"
	"database/sql"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	goredis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/syl2042/contentmaestro/config"
	httpapi "github.com/syl2042/contentmaestro/internal/api/http"
	apimw "github.com/syl2042/contentmaestro/internal/api/http/middleware"
	"github.com/syl2042/contentmaestro/internal/auth"
	authmw "github.com/syl2042/contentmaestro/internal/auth/middleware"
	"github.com/syl2042/contentmaestro/internal/dashboard"
	profilehttp "github.com/syl2042/contentmaestro/internal/profiles/http"
	profilerepo "github.com/syl2042/contentmaestro/internal/profiles/repository"
	profileservice "github.com/syl2042/contentmaestro/internal/profiles/service"
	"github.com/syl2042/contentmaestro/internal/profiles/wizard"
	projecthttp "github.com/syl2042/contentmaestro/internal/projects/http"
	projectrepo "github.com/syl2042/contentmaestro/internal/projects/repository"
	projectservice "github.com/syl2042/contentmaestro/internal/projects/service"
	"github.com/syl2042/contentmaestro/internal/state"
	"github.com/syl2042/contentmaestro/internal/users"
)

type RouterDeps struct {
	ServiceName string
	Version     string
	Config      *config.Config
	SQLDB       *sql.DB
	Pool        *pgxpool.Pool
	Redis       *goredis.Client
	// Verifier is nil when Firebase is not configured; requests then carry
	// their user id in X-User-Id.
	Verifier authmw.TokenVerifier
	Logger   zerolog.Logger
}

// App is the built HTTP surface plus the per-user caches the scheduler
// trims.
type App struct {
	Engine      *gin.Engine
	Profiles    *state.Registry[*profileservice.ProfileState]
	Projects    *state.Registry[*projectservice.ProjectState]
	RateLimiter *apimw.RateLimiter
}

func BuildRouter(dep RouterDeps) *App {
	cfg := dep.Config

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(apimw.RequestIDMiddleware(dep.Logger))
	r.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.Server.CORSOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", "X-Request-Id", "X-User-Id", "X-User-Name"},
		ExposeHeaders:    []string{"X-Request-Id"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	var dbPinger, redisPinger httpapi.Pinger
	if dep.Pool != nil {
		dbPinger = dep.Pool
	}
	if dep.Redis != nil {
		redisPinger = httpapi.PingFunc(func(ctx context.Context) error {
			return dep.Redis.Ping(ctx).Err()
		})
	}
	healthHandler := httpapi.NewHealthHandler(dep.ServiceName, dep.Version, dbPinger, redisPinger)
	healthHandler.RegisterRoutes(r)

	userRepo := users.NewRepo(dep.Pool)
	profileRegistry := profileservice.NewRegistry(profilerepo.NewProfileRepository(dep.SQLDB, dep.Logger), dep.Logger)
	projectRegistry := projectservice.NewRegistry(projectrepo.NewProjectRepository(dep.SQLDB, dep.Logger), dep.Logger)
	limiter := apimw.NewRateLimiter(cfg.Server.RateLimitRPS, cfg.Server.RateLimitBurst)

	api := r.Group("/api/v1")
	if dep.Verifier != nil {
		api.Use(authmw.FirebaseAuthMiddleware(dep.Verifier))
	} else {
		api.Use(auth.OptionalUser())
	}
	api.Use(auth.WithUser(userRepo, dep.Logger))
	api.Use(limiter.Middleware())

	wizardController := wizard.NewController(
		wizard.NewSessionStore(dep.Redis, cfg.Redis.SessionTTL),
		func(userID string) wizard.Profiles { return profileRegistry.For(userID) },
		dep.Logger,
	)

	profileHandler := profilehttp.New(profileRegistry.For, wizardController)
	profileHandler.Register(api.Group("/profiles"))
	profileHandler.RegisterWizard(api.Group("/profile-wizard"))

	projecthttp.New(projectRegistry.For).Register(api.Group("/projects"))

	dashboard.NewHandler(userRepo, profileRegistry.For, projectRegistry.For, cfg.Location(), dep.Logger).Register(api)

	return &App{
		Engine:      r,
		Profiles:    profileRegistry,
		Projects:    projectRegistry,
		RateLimiter: limiter,
	}
}
