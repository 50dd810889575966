package api

import (
	"errors"
	"net/http"
	"time"

	"fantamatto_bot/internal/middleware"
	"fantamatto_bot/internal/service"
	"fantamatto_bot/pkg/logger"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type mattoRoutes struct {
	cs service.CatalogServiceI
	ss service.SightingServiceI
}

func NewMattoRoutes(handler *gin.RouterGroup, cs service.CatalogServiceI, ss service.SightingServiceI, authorization *middleware.Authorization) {
	r := &mattoRoutes{cs: cs, ss: ss}

	h := handler.Group("/matti")
	{
		h.GET("", r.ListMatti)
		h.GET("/:id/gallery", r.GetGallery)
	}

	//admin
	admin := handler.Group("/admin")
	admin.Use(authorization.AdminOnly())
	{
		admin.DELETE("/sightings/:id", r.DeleteSighting)
	}
}

type mattoResponse struct {
	ID     int64  `json:"id"`
	Name   string `json:"name"`
	Points int    `json:"points"`
}

func (r *mattoRoutes) ListMatti(c *gin.Context) {
	matti, err := r.cs.List(c.Request.Context())
	if err != nil {
		logger.Logger().Error("failed to list matti", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list matti"})
		return
	}

	out := make([]mattoResponse, len(matti))
	for i, m := range matti {
		out[i] = mattoResponse{ID: m.ID, Name: m.Name, Points: m.Points}
	}

	c.JSON(http.StatusOK, out)
}

type mattoSightingResponse struct {
	SightingID int64     `json:"sighting_id"`
	FileID     string    `json:"file_id"`
	Reporter   string    `json:"reporter"`
	CreatedAt  time.Time `json:"created_at"`
}

func (r *mattoRoutes) GetGallery(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	m, gallery, err := r.ss.MattoGallery(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, service.ErrMattoNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "matto not found"})
			return
		}
		logger.Logger().Error("failed to get matto gallery", zap.Int64("matto_id", id), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to get gallery"})
		return
	}

	sightings := make([]mattoSightingResponse, len(gallery))
	for i, s := range gallery {
		sightings[i] = mattoSightingResponse{
			SightingID: s.SightingID,
			FileID:     s.FileID,
			Reporter:   s.Reporter(),
			CreatedAt:  s.CreatedAt,
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"matto":     mattoResponse{ID: m.ID, Name: m.Name, Points: m.Points},
		"sightings": sightings,
	})
}

func (r *mattoRoutes) DeleteSighting(c *gin.Context) {
	log := logger.Logger()

	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	deleted, err := r.ss.Delete(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, service.ErrSightingNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "sighting not found"})
			return
		}
		log.Error("failed to delete sighting", zap.Int64("sighting_id", id), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to delete sighting"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"sighting_id":     deleted.ID,
		"telegram_id":     deleted.UserChatID,
		"points_reverted": deleted.PointsAwarded,
	})
}
