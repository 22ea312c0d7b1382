package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"cv-standardizer/internal/runs"
	"cv-standardizer/internal/services/health"
	"cv-standardizer/internal/shared/config"
	"cv-standardizer/internal/shared/metrics"
	"cv-standardizer/internal/shared/server/middleware"
	"cv-standardizer/internal/shared/server/respond"
)

// Rate limit groups. Standardize calls fan out to the LLM provider, so
// they get a much tighter budget than reads.
const (
	rateGroupDefault     = "DEFAULT"
	rateGroupStandardize = "STANDARDIZE"
)

// RouterDeps carries the wired handlers and services the router needs.
type RouterDeps struct {
	Config      config.Config
	RunsHandler *runs.Handler
	HealthSvc   *health.Service
}

// NewRouter constructs the Gin engine with middleware and routes registered.
func NewRouter(deps RouterDeps) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()

	r.Use(
		middleware.RequestID(),
		middleware.Logging(),
		middleware.Recovery(),
		middleware.CORS(deps.Config.CORSAllowOrigin),
		middleware.Session(),
		middleware.RateLimit(middleware.RateLimitConfig{
			Rules: map[string]middleware.RateLimitRule{
				rateGroupDefault:     {Rate: 10, Burst: 30},
				rateGroupStandardize: {Rate: 0.2, Burst: 3},
			},
			DefaultGroup: rateGroupDefault,
			GroupFor:     rateGroupFor,
		}),
	)

	api := r.Group("/api/v1")
	api.GET("/health", func(c *gin.Context) {
		respond.OK(c, deps.HealthSvc.Status())
	})
	if deps.RunsHandler != nil {
		deps.RunsHandler.RegisterRoutes(api)
	}
	r.GET("/metrics", metrics.Handler())

	return r
}

func rateGroupFor(c *gin.Context) string {
	if c.Request.Method == http.MethodPost && pathEndsWith(c.FullPath(), "/standardize") {
		return rateGroupStandardize
	}
	return rateGroupDefault
}

func pathEndsWith(path, suffix string) bool {
	return len(path) >= len(suffix) && path[len(path)-len(suffix):] == suffix
}

// Addr normalizes the listen address.
func Addr(port string) string {
	if port == "" {
		return ":8080"
	}
	if port[0] == ':' {
		return port
	}
	return ":" + port
}
