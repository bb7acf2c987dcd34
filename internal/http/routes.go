package http

import (
	"context"
	"time"

	"referral_rewards/internal/http/handlers"
	"referral_rewards/internal/http/middleware"
	"referral_rewards/internal/ws"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	redis "github.com/redis/go-redis/v9"
)

// Deps is everything the router needs
type Deps struct {
	Service handlers.ReferralService
	DB      handlers.Pinger
	Hub     *ws.Hub
	// Redis is optional; without it rate limiting is per process
	Redis *redis.Client

	Version       string
	AllowedOrigin string
	RateLimit     int
	RateWindow    time.Duration
}

// NewRouter builds the engine with the shared middleware chain and all routes
func NewRouter(d Deps) *gin.Engine {
	r := gin.New()
	r.Use(
		gin.Recovery(),
		middleware.RequestID(),
		middleware.RequestLogger(),
		middleware.Metrics(),
		middleware.CORS(d.AllowedOrigin),
	)
	RegisterRoutes(r, d)
	return r
}

func RegisterRoutes(r *gin.Engine, d Deps) {
	h := handlers.NewHandler(d.Service)
	healthHandler := handlers.NewHealthHandler(d.DB, d.Version)
	if d.Redis != nil {
		rdb := d.Redis
		healthHandler.AddCheck("redis", func(ctx context.Context) error {
			return rdb.Ping(ctx).Err()
		})
	}

	rateLimit := d.RateLimit
	if rateLimit <= 0 {
		rateLimit = 60
	}
	rateWindow := d.RateWindow
	if rateWindow <= 0 {
		rateWindow = time.Minute
	}

	// Health checks (no rate limiting)
	r.GET("/health", healthHandler.Health)
	r.GET("/healthz", healthHandler.Liveness)
	r.GET("/readyz", healthHandler.Readiness)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	v1 := r.Group("/api/v1")
	v1.Use(middleware.RateLimit(d.Redis, "api", rateLimit, rateWindow))
	{
		v1.POST("/register", h.Register)
		v1.POST("/deposit", h.Deposit)
		v1.POST("/claim", h.Claim)
		v1.GET("/users/:email", h.UserSummary)
		v1.GET("/stats", h.Stats)
		v1.GET("/reward-levels", h.RewardLevels)
	}

	if d.Hub != nil {
		r.GET("/ws/rewards", h.RewardFeed(d.Hub, d.AllowedOrigin))
	}
}
