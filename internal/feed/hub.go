package feed

import (
	"sync"

	"fantamatto_bot/internal/metrics"
	"fantamatto_bot/internal/model"
	"fantamatto_bot/pkg/logger"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const DefaultBuffer = 16

// Subscriber receives feed events on C until it is unsubscribed.
type Subscriber struct {
	ID     string
	UserID int64
	C      chan model.FeedEvent
}

// Hub fans sighting events out to live subscribers. Publishing never blocks:
// a subscriber whose buffer is full misses the event.
type Hub struct {
	mu     sync.RWMutex
	subs   map[string]*Subscriber
	buffer int
	closed bool
}

func NewHub(buffer int) *Hub {
	if buffer <= 0 {
		buffer = DefaultBuffer
	}
	return &Hub{
		subs:   make(map[string]*Subscriber),
		buffer: buffer,
	}
}

func (h *Hub) Subscribe(userID int64) *Subscriber {
	sub := &Subscriber{
		ID:     uuid.NewString(),
		UserID: userID,
		C:      make(chan model.FeedEvent, h.buffer),
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	if h.closed {
		close(sub.C)
		return sub
	}
	h.subs[sub.ID] = sub
	metrics.FeedSubscribers.Inc()

	return sub
}

// Unsubscribe removes the subscriber and closes its channel. Safe to call twice.
func (h *Hub) Unsubscribe(sub *Subscriber) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, ok := h.subs[sub.ID]; !ok {
		return
	}
	delete(h.subs, sub.ID)
	close(sub.C)
	metrics.FeedSubscribers.Dec()
}

// Publish returns the number of subscribers the event was delivered to.
func (h *Hub) Publish(event model.FeedEvent) int {
	h.mu.RLock()
	defer h.mu.RUnlock()

	delivered := 0
	for _, sub := range h.subs {
		select {
		case sub.C <- event:
			delivered++
		default:
			logger.Logger().Warn("feed subscriber too slow, event dropped",
				zap.String("subscriber", sub.ID),
				zap.Int64("sighting_id", event.SightingID),
			)
		}
	}

	return delivered
}

func (h *Hub) Len() int {
	h.mu.RLock()
	defer h.mu.RUnlock()

	return len(h.subs)
}

// Close disconnects every subscriber. Later subscriptions get a closed channel.
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()

	for id, sub := range h.subs {
		delete(h.subs, id)
		close(sub.C)
		metrics.FeedSubscribers.Dec()
	}
	h.closed = true
}
