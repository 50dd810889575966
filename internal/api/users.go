package api

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"fantamatto_bot/internal/model"
	"fantamatto_bot/internal/service"
	"fantamatto_bot/pkg/logger"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type userRoutes struct {
	us service.UserServiceI
	ss service.SightingServiceI
}

func NewUserRoutes(handler *gin.RouterGroup, us service.UserServiceI, ss service.SightingServiceI) {
	r := &userRoutes{us: us, ss: ss}

	handler.GET("/leaderboard", r.GetLeaderboard)

	h := handler.Group("/users")
	{
		h.GET("/:telegram_id/standing", r.GetStanding)
		h.GET("/:telegram_id/gallery", r.GetGallery)
	}
}

type leaderboardEntry struct {
	Rank        int    `json:"rank"`
	TelegramID  int64  `json:"telegram_id"`
	DisplayName string `json:"display_name"`
	TotalPoints int    `json:"total_points"`
}

// GetLeaderboard lists registered users by points. Positions are the list
// order, matching the bot's /classifica.
func (r *userRoutes) GetLeaderboard(c *gin.Context) {
	log := logger.Logger()

	limit := 0
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid limit"})
			return
		}
		limit = n
	}

	users, err := r.us.Leaderboard(c.Request.Context(), limit)
	if err != nil {
		log.Error("failed to get leaderboard", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to get leaderboard"})
		return
	}

	out := make([]leaderboardEntry, len(users))
	for i, u := range users {
		out[i] = leaderboardEntry{
			Rank:        i + 1,
			TelegramID:  u.ChatID,
			DisplayName: u.DisplayName(),
			TotalPoints: u.TotalPoints,
		}
	}

	c.JSON(http.StatusOK, out)
}

func (r *userRoutes) GetStanding(c *gin.Context) {
	id, ok := parseIDParam(c, "telegram_id")
	if !ok {
		return
	}

	standing, err := r.us.Standing(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, service.ErrNotRegistered) {
			c.JSON(http.StatusNotFound, gin.H{"error": "user is not registered"})
			return
		}
		logger.Logger().Error("failed to get standing", zap.Int64("telegram_id", id), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to get standing"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"telegram_id":  standing.ChatID,
		"rank":         standing.Rank,
		"total_points": standing.TotalPoints,
	})
}

type galleryPhoto struct {
	SightingID int64     `json:"sighting_id"`
	FileID     string    `json:"file_id"`
	CreatedAt  time.Time `json:"created_at"`
}

type galleryGroup struct {
	MattoName   string         `json:"matto_name"`
	Count       int            `json:"count"`
	TotalPoints int            `json:"total_points"`
	Photos      []galleryPhoto `json:"photos"`
}

func (r *userRoutes) GetGallery(c *gin.Context) {
	id, ok := parseIDParam(c, "telegram_id")
	if !ok {
		return
	}

	user, gallery, err := r.ss.UserGallery(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
			return
		}
		logger.Logger().Error("failed to get user gallery", zap.Int64("telegram_id", id), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to get gallery"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"telegram_id":  user.ChatID,
		"display_name": user.DisplayName(),
		"groups":       toGalleryGroups(gallery),
	})
}

func toGalleryGroups(g *model.UserGallery) []galleryGroup {
	out := make([]galleryGroup, 0)
	if g.Empty() {
		return out
	}

	for _, group := range g.Groups {
		photos := make([]galleryPhoto, len(group.Photos))
		for i, p := range group.Photos {
			photos[i] = galleryPhoto{
				SightingID: p.SightingID,
				FileID:     p.FileID,
				CreatedAt:  p.CreatedAt,
			}
		}
		out = append(out, galleryGroup{
			MattoName:   group.MattoName,
			Count:       group.Count,
			TotalPoints: group.TotalPoints,
			Photos:      photos,
		})
	}

	return out
}
