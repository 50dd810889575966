package api

import (
	"net/http"
	"time"

	"fantamatto_bot/internal/feed"
	"fantamatto_bot/pkg/auth"
	"fantamatto_bot/pkg/logger"

	"github.com/gin-gonic/gin"
	"github.com/goccy/go-json"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = pongWait * 9 / 10
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

type feedRoutes struct {
	hub *feed.Hub
}

func NewFeedRoutes(handler *gin.RouterGroup, hub *feed.Hub) {
	r := &feedRoutes{hub: hub}

	h := handler.Group("/feed")
	h.GET("/ws", r.handleWebSocket)
}

func (r *feedRoutes) handleWebSocket(c *gin.Context) {
	log := logger.Logger()

	user, ok := auth.UserFromContext(c)
	if !ok {
		log.Error("telegram user data not found in context")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Error("websocket upgrade failed", zap.Error(err))
		return
	}

	sub := r.hub.Subscribe(user.ID)
	log.Info("feed subscriber connected", zap.String("subscriber", sub.ID), zap.Int64("telegram_id", user.ID))

	go r.readLoop(conn, sub)
	go r.writeLoop(conn, sub)
}

// readLoop only watches for the client going away; the feed is one way.
func (r *feedRoutes) readLoop(conn *websocket.Conn, sub *feed.Subscriber) {
	defer r.hub.Unsubscribe(sub)

	conn.SetReadLimit(512)
	_ = conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				logger.Logger().Info("feed websocket closed unexpectedly", zap.String("subscriber", sub.ID), zap.Error(err))
			}
			return
		}
	}
}

func (r *feedRoutes) writeLoop(conn *websocket.Conn, sub *feed.Subscriber) {
	log := logger.Logger()
	ticker := time.NewTicker(pingPeriod)

	defer func() {
		ticker.Stop()
		conn.Close()
		r.hub.Unsubscribe(sub)
		log.Info("feed subscriber disconnected", zap.String("subscriber", sub.ID))
	}()

	for {
		select {
		case event, ok := <-sub.C:
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseGoingAway, "server shutting down"))
				return
			}

			data, err := json.Marshal(event)
			if err != nil {
				log.Error("failed to marshal feed event", zap.Int64("sighting_id", event.SightingID), zap.Error(err))
				continue
			}

			if err := conn.WriteMessage(websocket.TextMessage, data); err != nil {
				log.Info("failed to write feed event", zap.String("subscriber", sub.ID), zap.Error(err))
				return
			}

		case <-ticker.C:
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
