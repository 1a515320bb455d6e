package routes

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"bookmate/internal/auth"
	"bookmate/internal/banners"
	"bookmate/internal/bookings"
	"bookmate/internal/events"
	"bookmate/internal/notifications"
	"bookmate/internal/queue"
	"bookmate/internal/seatlock"
	"bookmate/internal/shared/config"
	"bookmate/internal/shared/database"
	"bookmate/internal/tickets"
	"bookmate/internal/venues"
	"bookmate/pkg/cache"
	"bookmate/pkg/ratelimit"
)

const apiBasePath = "/api/v1"

// throttledPrefixes are the public read paths behind the fixed-window
// limiter. Queue and booking endpoints are deliberately not throttled:
// their fairness comes from the queue itself, not from dropping requests.
var throttledPrefixes = []string{
	apiBasePath + "/events",
	apiBasePath + "/banners",
}

// Router wires repositories, services and controllers together and mounts
// every route group on the engine.
type Router struct {
	config   *config.Config
	db       *database.DB
	notifier notifications.Service

	// Shared handles built once in SetupRoutes. The queue service doubles
	// as the token validator for tickets and bookings.
	cacheService cache.Service
	queueRepo    queue.Repository
	queueService queue.Service
	lockManager  *seatlock.Manager
	limiter      *ratelimit.Limiter
}

func NewRouter(cfg *config.Config, db *database.DB, notifier notifications.Service) *Router {
	return &Router{
		config:   cfg,
		db:       db,
		notifier: notifier,
	}
}

// SetupRoutes configures all application routes.
func (r *Router) SetupRoutes(engine *gin.Engine) {
	// Health endpoints sit outside the api group so they are never
	// rate-limited and never require auth.
	r.setupHealthRoutes(engine)

	r.cacheService = cache.NewService(r.db.GetRedisClient())
	r.lockManager = seatlock.NewManager(r.db.GetRedisClient(), r.config.Lock.SeatLockTimeout)
	r.limiter = ratelimit.NewLimiter(r.db.GetRedisClient(), r.config.RateLimit)

	api := engine.Group(apiBasePath)
	api.Use(ratelimit.Middleware(r.limiter, throttledPrefixes...))
	{
		r.setupAuthRoutes(api)
		// Queue first: tickets and bookings validate its admission tokens.
		r.setupQueueRoutes(api)
		r.setupEventRoutes(api)
		r.setupVenueRoutes(api)
		r.setupTicketRoutes(api)
		r.setupBookingRoutes(api)
		r.setupBannerRoutes(api)
	}
}

// PreloadScripts warms the Redis script cache for every Lua user. Failure
// is not fatal: scripts load lazily on first use anyway.
func (r *Router) PreloadScripts(ctx context.Context) error {
	if err := r.queueRepo.PreloadScripts(ctx); err != nil {
		return err
	}
	if err := r.lockManager.PreloadScripts(ctx); err != nil {
		return err
	}
	return r.limiter.PreloadScripts(ctx)
}

func (r *Router) setupHealthRoutes(engine *gin.Engine) {
	// Liveness: the process is up and serving.
	engine.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":    "ok",
			"timestamp": time.Now().UTC(),
		})
	})

	// Readiness: both stores answer a ping.
	engine.GET("/health/ready", func(c *gin.Context) {
		if err := r.db.HealthCheck(c.Request.Context()); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status":    "unavailable",
				"error":     err.Error(),
				"timestamp": time.Now().UTC(),
			})
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"status":    "ready",
			"timestamp": time.Now().UTC(),
		})
	})
}

func (r *Router) setupAuthRoutes(api *gin.RouterGroup) {
	repo := auth.NewRepository(r.db.GetPostgreSQL())
	service := auth.NewService(repo, r.config.Auth)
	controller := auth.NewController(service)

	auth.SetupAuthRoutes(api, controller, r.config)
}

func (r *Router) setupQueueRoutes(api *gin.RouterGroup) {
	r.queueRepo = queue.NewRepository(r.db.GetRedisClient())
	eventGate := queue.NewEventGate(r.db.GetPostgreSQL())
	userDirectory := queue.NewUserDirectory(r.db.GetPostgreSQL())
	r.queueService = queue.NewService(r.queueRepo, eventGate, userDirectory, r.config.Queue)
	controller := queue.NewController(r.queueService)

	queue.SetupQueueRoutes(api, controller, r.config)
}

func (r *Router) setupEventRoutes(api *gin.RouterGroup) {
	repo := events.NewRepository(r.db.GetPostgreSQL())
	service := events.NewService(repo, r.cacheService, r.config.Cache)
	controller := events.NewController(service)

	events.SetupEventRoutes(api, controller, r.config)
}

func (r *Router) setupVenueRoutes(api *gin.RouterGroup) {
	repo := venues.NewRepository(r.db.GetPostgreSQL())
	service := venues.NewService(repo)
	controller := venues.NewController(service)

	venues.SetupVenueRoutes(api, controller, r.config)
}

func (r *Router) setupTicketRoutes(api *gin.RouterGroup) {
	repo := tickets.NewRepository(r.db.GetPostgreSQL())
	service := tickets.NewService(repo, r.queueService, r.cacheService, r.config.Cache.SeatMapTTL)
	controller := tickets.NewController(service)

	tickets.SetupTicketRoutes(api, controller, r.config)
}

func (r *Router) setupBookingRoutes(api *gin.RouterGroup) {
	repo := bookings.NewRepository(r.db.GetPostgreSQL())
	service := bookings.NewService(repo, r.lockManager, r.queueService, r.cacheService, r.notifier)
	controller := bookings.NewController(service)

	bookings.SetupBookingRoutes(api, controller, r.config)
}

func (r *Router) setupBannerRoutes(api *gin.RouterGroup) {
	repo := banners.NewRepository(r.db.GetPostgreSQL())
	service := banners.NewService(repo, r.cacheService, r.config.Cache)
	controller := banners.NewController(service)

	banners.SetupBannerRoutes(api, controller, r.config)
}
