package feed

import (
	"testing"

	"fantamatto_bot/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHub_PublishFansOut(t *testing.T) {
	h := NewHub(4)
	a := h.Subscribe(1)
	b := h.Subscribe(2)

	n := h.Publish(model.FeedEvent{Type: model.FeedEventSighting, SightingID: 7})
	assert.Equal(t, 2, n)

	for _, sub := range []*Subscriber{a, b} {
		ev := <-sub.C
		assert.Equal(t, int64(7), ev.SightingID)
	}
}

func TestHub_PublishDropsForSlowSubscriber(t *testing.T) {
	h := NewHub(1)
	sub := h.Subscribe(1)

	assert.Equal(t, 1, h.Publish(model.FeedEvent{SightingID: 1}))
	assert.Equal(t, 0, h.Publish(model.FeedEvent{SightingID: 2}))

	ev := <-sub.C
	assert.Equal(t, int64(1), ev.SightingID)
}

func TestHub_Unsubscribe(t *testing.T) {
	h := NewHub(0)
	sub := h.Subscribe(1)
	require.Equal(t, 1, h.Len())

	h.Unsubscribe(sub)
	h.Unsubscribe(sub)
	assert.Equal(t, 0, h.Len())

	_, ok := <-sub.C
	assert.False(t, ok)
	assert.Equal(t, 0, h.Publish(model.FeedEvent{}))
}

func TestHub_Close(t *testing.T) {
	h := NewHub(0)
	sub := h.Subscribe(1)

	h.Close()
	_, ok := <-sub.C
	assert.False(t, ok)

	late := h.Subscribe(2)
	_, ok = <-late.C
	assert.False(t, ok)
	assert.Equal(t, 0, h.Len())

	// Unsubscribing after close must not double close.
	h.Unsubscribe(sub)
}
