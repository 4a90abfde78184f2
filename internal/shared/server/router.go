package server

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"recruit-backend/internal/auth"
	"recruit-backend/internal/resumes"
	"recruit-backend/internal/services/health"
	"recruit-backend/internal/shared/config"
	"recruit-backend/internal/shared/metrics"
	"recruit-backend/internal/shared/server/middleware"
	"recruit-backend/internal/shared/server/respond"
	"recruit-backend/internal/users"
)

// Sign-in and sign-up share one bucket per client IP.
var authRateRule = middleware.RateLimitRule{Rate: 1, Burst: 10}

// RouterDeps carries the handlers and guards the router wires together.
type RouterDeps struct {
	Config        config.Config
	AuthHandler   *auth.Handler
	GoogleAuth    *auth.GoogleService
	UserHandler   *users.Handler
	ResumeHandler *resumes.Handler
	AccessAuth    gin.HandlerFunc
	RefreshAuth   gin.HandlerFunc
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
	)

	healthSvc := health.NewService()
	r.GET("/health-check", func(c *gin.Context) {
		respond.JSON(c, http.StatusOK, healthSvc.Status())
	})
	r.GET("/metrics", metrics.Handler())

	public := r.Group("")
	public.Use(middleware.RateLimit(middleware.NewRateLimiter(time.Now), authRateRule))
	deps.AuthHandler.RegisterRoutes(public, deps.RefreshAuth)
	if deps.GoogleAuth != nil {
		deps.GoogleAuth.RegisterRoutes(public)
	}

	private := r.Group("")
	private.Use(deps.AccessAuth)
	deps.UserHandler.RegisterRoutes(private)
	deps.ResumeHandler.RegisterRoutes(private)

	return r
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
