package api

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/use-agent/recipe-scraper/api/handler"
	"github.com/use-agent/recipe-scraper/api/middleware"
	"github.com/use-agent/recipe-scraper/config"
)

// scrapePaths are the paths the scrape endpoint answers on. "/api/scrape"
// is kept for clients of the serverless deployment.
var scrapePaths = []string{"/", "/api/scrape"}

// NewRouter creates a configured Gin engine with all routes and middleware.
//
// Middleware chain:
//
//	Global:  Recovery → Logger → CORS
//	POST:    Auth (if keys configured) → RateLimit (if enabled)
//
// GET, OPTIONS and /health stay open so browsers and probes always work.
func NewRouter(sc handler.Scraper, cfg *config.Config, browserEnabled bool, startTime time.Time) *gin.Engine {
	gin.SetMode(cfg.Server.Mode)

	r := gin.New()
	r.HandleMethodNotAllowed = true
	r.Use(middleware.Recovery())
	r.Use(gin.Logger())
	r.Use(middleware.CORS())
	r.NoMethod(handler.MethodNotAllowed())
	r.NoRoute(handler.NotFound())

	r.GET("/health", handler.Health(browserEnabled, startTime))

	protected := r.Group("")
	protected.Use(middleware.Auth(cfg.Auth.APIKeys))
	protected.Use(middleware.RateLimit(cfg.RateLimit))

	for _, path := range scrapePaths {
		r.GET(path, handler.Info())
		r.OPTIONS(path, handler.Preflight())
		protected.POST(path, handler.Scrape(sc))
	}

	return r
}
