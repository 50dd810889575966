package api

import (
	"net/http"
	"strconv"
	"time"

	"fantamatto_bot/internal/feed"
	"fantamatto_bot/internal/middleware"
	"fantamatto_bot/internal/service"
	"fantamatto_bot/pkg/auth"
	"fantamatto_bot/pkg/logger"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

type Deps struct {
	Users         service.UserServiceI
	Catalog       service.CatalogServiceI
	Sightings     service.SightingServiceI
	Feed          *feed.Hub
	Auth          *auth.TelegramAuth
	Authorization *middleware.Authorization
}

// NewRouter mounts the read API and the live feed under /api/v1. Health and
// metrics stay outside authentication.
func NewRouter(d Deps) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())

	config := cors.DefaultConfig()
	config.AllowAllOrigins = true
	config.AllowMethods = []string{
		http.MethodHead,
		http.MethodGet,
		http.MethodDelete,
	}
	config.AllowHeaders = []string{"Authorization", "Content-Type"}
	config.MaxAge = 12 * time.Hour

	router.Use(cors.New(config))

	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	a := router.Group("/api/v1")
	a.Use(d.Auth.TelegramAuthMiddleware())

	NewUserRoutes(a, d.Users, d.Sightings)
	NewMattoRoutes(a, d.Catalog, d.Sightings, d.Authorization)
	NewFeedRoutes(a, d.Feed)

	return router
}

func parseIDParam(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil {
		logger.Logger().Info("failed to parse "+name, zap.String("value", c.Param(name)), zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid " + name})
		return 0, false
	}
	return id, true
}
