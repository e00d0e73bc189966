package service

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"supercollab/util"
)

type RouterOptions struct {
	AllowOrigins []string
	RateLimit    float64
	RateBurst    int
}

// NewRouter mounts health checks at the root and the program API under /api.
func NewRouter(opts RouterOptions, tm *util.TokenManager, projects *ProjectHandler, health *HealthHandler) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), RequestIDMiddleware())

	corsConfig := cors.Config{
		AllowMethods:     []string{"GET", "POST", "PUT", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", requestIDHeader},
		ExposeHeaders:    []string{requestIDHeader},
		AllowCredentials: false,
		MaxAge:           12 * time.Hour,
	}
	if len(opts.AllowOrigins) == 0 || (len(opts.AllowOrigins) == 1 && opts.AllowOrigins[0] == "*") {
		corsConfig.AllowAllOrigins = true
	} else {
		corsConfig.AllowOrigins = opts.AllowOrigins
	}
	r.Use(cors.New(corsConfig))

	health.RegisterRoutes(r)

	api := r.Group("/api", RateLimitMiddleware(opts.RateLimit, opts.RateBurst), AuthMiddleware(tm))
	projects.RegisterRoutes(api)
	return r
}
