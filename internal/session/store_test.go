package session

import (
	"sync"
	"testing"
	"time"

	"fantamatto_bot/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func newClockedStore(ttl time.Duration) (*Store, *fakeClock) {
	clock := &fakeClock{now: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
	s := NewStore(ttl)
	s.now = clock.Now
	return s, clock
}

func TestStore_GetSetClear(t *testing.T) {
	s := NewStore(0)

	assert.Equal(t, Idle, s.Get(1).Kind)

	s.Set(1, Password())
	assert.Equal(t, AwaitingPassword, s.Get(1).Kind)
	assert.Equal(t, Idle, s.Get(2).Kind)

	s.Clear(1)
	assert.Equal(t, Idle, s.Get(1).Kind)
	assert.Equal(t, 0, s.Len())
}

func TestStore_SetReplacesPreviousMode(t *testing.T) {
	s := NewStore(0)

	s.Set(1, Photo(model.PendingReport{MattoID: 5, MattoName: "Gino", Points: 20}))
	s.Set(1, GalleryMode(Subject{Kind: SubjectUser, ID: 9}))

	st := s.Get(1)
	assert.Equal(t, AwaitingGalleryMode, st.Kind)
	assert.Equal(t, Subject{Kind: SubjectUser, ID: 9}, st.Subject)

	_, ok := s.Take(1, AwaitingPhoto)
	assert.False(t, ok)
	assert.Equal(t, 1, s.Len())
}

func TestStore_SetIdleClears(t *testing.T) {
	s := NewStore(0)

	s.Set(1, CatalogUpload())
	s.Set(1, State{Kind: Idle})
	assert.Equal(t, 0, s.Len())
}

func TestStore_Take(t *testing.T) {
	s := NewStore(0)

	s.Set(1, Photo(model.PendingReport{MattoID: 5, MattoName: "Gino", Points: 20, Username: "mario"}))

	st, ok := s.Take(1, AwaitingPhoto)
	require.True(t, ok)
	require.NotNil(t, st.Report)
	assert.Equal(t, int64(5), st.Report.MattoID)
	assert.Equal(t, "mario", st.Report.Username)

	_, ok = s.Take(1, AwaitingPhoto)
	assert.False(t, ok)
}

func TestStore_TakeConcurrentOnlyOnce(t *testing.T) {
	s := NewStore(0)
	s.Set(1, AdminAction(42))

	var (
		wg    sync.WaitGroup
		mu    sync.Mutex
		taken int
	)
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, ok := s.Take(1, AwaitingAdminAction); ok {
				mu.Lock()
				taken++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, taken)
}

func TestStore_Expiry(t *testing.T) {
	s, clock := newClockedStore(time.Minute)

	s.Set(1, Password())
	s.Set(2, CatalogUpload())

	clock.Advance(30 * time.Second)
	s.Set(3, Password())
	assert.Equal(t, AwaitingPassword, s.Get(1).Kind)

	clock.Advance(45 * time.Second)
	assert.Equal(t, Idle, s.Get(1).Kind)
	_, ok := s.Take(2, AwaitingCatalogUpload)
	assert.False(t, ok)
	assert.Equal(t, AwaitingPassword, s.Get(3).Kind)

	assert.Equal(t, 1, s.Sweep())
	assert.Equal(t, 1, s.Len())
}

func TestStore_NoExpiryWithoutTTL(t *testing.T) {
	s, clock := newClockedStore(0)

	s.Set(1, Password())
	clock.Advance(24 * time.Hour)

	assert.Equal(t, AwaitingPassword, s.Get(1).Kind)
	assert.Equal(t, 0, s.Sweep())
}

func TestStore_Reset(t *testing.T) {
	s := NewStore(0)
	s.Set(1, Password())
	s.Set(2, Password())

	s.Reset()
	assert.Equal(t, 0, s.Len())
}

func TestStore_StartSweeper(t *testing.T) {
	s := NewStore(time.Minute)

	c, err := s.StartSweeper("")
	require.NoError(t, err)
	c.Stop()

	_, err = s.StartSweeper("not a schedule")
	assert.Error(t, err)
}

func TestKind_String(t *testing.T) {
	assert.Equal(t, "awaiting_photo", AwaitingPhoto.String())
	assert.Equal(t, "unknown", Kind(99).String())
}
