package middleware

import (
	"net/http"

	"fantamatto_bot/pkg/auth"
	"fantamatto_bot/pkg/logger"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type Authorization struct {
	adminChatID int64
}

// NewAuthorization gates admin routes on the configured admin chat id. A
// zero id disables every admin route.
func NewAuthorization(adminChatID int64) *Authorization {
	return &Authorization{
		adminChatID: adminChatID,
	}
}

func (a *Authorization) AdminOnly() gin.HandlerFunc {
	return func(c *gin.Context) {
		log := logger.Logger()

		telegramUser, ok := auth.UserFromContext(c)
		if !ok {
			log.Error("telegram user data not found in context")
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}

		if a.adminChatID == 0 || telegramUser.ID != a.adminChatID {
			log.Info("unauthorized access attempt to admin endpoint",
				zap.Int64("telegram_id", telegramUser.ID))
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "admin access required"})
			return
		}

		c.Set("is_admin", true)
		c.Next()
	}
}
