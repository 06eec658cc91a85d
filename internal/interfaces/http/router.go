package http

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/auralist-app/auralist/internal/application/identity/usecases"
	"github.com/auralist-app/auralist/internal/infrastructure/auth"
	"github.com/auralist-app/auralist/internal/infrastructure/config"
	"github.com/auralist-app/auralist/internal/infrastructure/ratelimit"
	"github.com/auralist-app/auralist/internal/infrastructure/repository"
	"github.com/auralist-app/auralist/internal/interfaces/http/handlers"
	"github.com/auralist-app/auralist/internal/interfaces/http/middleware"
	"github.com/auralist-app/auralist/internal/shared/logger"
)

// Router wires repositories, use cases, handlers, and middleware together
// and owns the gin engine.
type Router struct {
	engine *gin.Engine
	db     *gorm.DB
	cfg    *config.Config
	log    logger.Interface
	redis  *redis.Client

	identityHandler *handlers.IdentityHandler
	healthHandler   *handlers.HealthHandler
	requestLimiter  *middleware.RateLimiter
}

// NewRouter creates a fully wired router
func NewRouter(db *gorm.DB, cfg *config.Config, log logger.Interface) *Router {
	r := &Router{
		engine: gin.New(),
		db:     db,
		cfg:    cfg,
		log:    log,
	}

	handlers.RegisterValidations()

	// Redis is only dialed when something needs it: the shared failure
	// limiter or the per-IP request gate on the restore route.
	if cfg.RestoreLimit.Backend == "redis" {
		r.redis = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.GetAddr(),
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
	}

	identityRepo := repository.NewIdentityRepository(db, log.Named("repository.identity"))
	deviceLinkRepo := repository.NewDeviceLinkRepository(db, log.Named("repository.devicelink"))

	hasher := auth.NewArgon2RecoveryCodeHasher(auth.Argon2Params{
		MemoryKiB:   uint32(cfg.Recovery.HashMemoryKiB),
		Iterations:  uint32(cfg.Recovery.HashIterations),
		Parallelism: uint8(cfg.Recovery.HashParallelism),
	})

	limiterCfg := ratelimit.Config{
		MaxFailures: cfg.RestoreLimit.MaxFailures,
		Window:      time.Duration(cfg.RestoreLimit.WindowMinutes) * time.Minute,
	}
	var failureLimiter ratelimit.FailureLimiter
	if r.redis != nil {
		failureLimiter = ratelimit.NewRedisFailureLimiter(r.redis, limiterCfg)
	} else {
		failureLimiter = ratelimit.NewMemoryFailureLimiter(limiterCfg)
	}

	provisionUC := usecases.NewProvisionIdentityUseCase(
		identityRepo, deviceLinkRepo, hasher,
		cfg.Recovery.MaxProvisionTries,
		log.Named("usecase.provision"),
	)
	resolveUC := usecases.NewResolveDeviceUseCase(
		identityRepo, deviceLinkRepo,
		log.Named("usecase.resolve"),
	)
	restoreUC := usecases.NewRestoreIdentityUseCase(
		identityRepo, deviceLinkRepo, hasher, failureLimiter,
		log.Named("usecase.restore"),
	)

	r.identityHandler = handlers.NewIdentityHandler(provisionUC, resolveUC, restoreUC, log.Named("handler.identity"))
	r.healthHandler = handlers.NewHealthHandler(db)
	r.requestLimiter = middleware.NewRateLimiter(r.redis, cfg.RestoreLimit.RequestsPerMinute, time.Minute)

	r.setupRoutes()
	return r
}

func (r *Router) setupRoutes() {
	r.engine.Use(middleware.Recovery())
	r.engine.Use(middleware.Logger(r.log.Named("http")))
	r.engine.Use(middleware.SecurityHeaders())
	r.engine.Use(middleware.CORS(r.cfg.Server.AllowedOrigins))
	r.engine.Use(middleware.ErrorHandler())

	r.engine.GET("/healthz", r.healthHandler.Check)

	api := r.engine.Group("/api")
	identityGroup := api.Group("/identity")
	{
		identityGroup.POST("/bootstrap", r.identityHandler.Bootstrap)
		identityGroup.POST("/restore", r.requestLimiter.Limit(), r.identityHandler.Restore)
	}
}

// Engine exposes the gin engine for the HTTP server
func (r *Router) Engine() *gin.Engine {
	return r.engine
}

// Close releases resources held by the router
func (r *Router) Close() error {
	if r.redis != nil {
		return r.redis.Close()
	}
	return nil
}
