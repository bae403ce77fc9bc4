package quiz

import (
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRegistry(opts RegistryOptions) *Registry {
	return NewRegistry(opts, zerolog.Nop())
}

func liveSession(id string) *Session {
	return &Session{
		ID:          id,
		Owner:       "alice",
		Subject:     "Physics",
		QuestionIDs: []int{1, 2, 3},
		CreatedAt:   time.Now(),
		Duration:    3 * time.Minute,
	}
}

func TestConsumeExactlyOnce(t *testing.T) {
	reg := newTestRegistry(RegistryOptions{})
	reg.Put(liveSession("s1"))

	sess, err := reg.Consume("s1")
	require.NoError(t, err)
	assert.Equal(t, "s1", sess.ID)
	assert.Equal(t, []int{1, 2, 3}, sess.QuestionIDs)

	_, err = reg.Consume("s1")
	assert.ErrorIs(t, err, ErrSessionNotFound)

	_, err = reg.Get("s1")
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestConsumeUnknown(t *testing.T) {
	reg := newTestRegistry(RegistryOptions{})
	_, err := reg.Consume("missing")
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestConcurrentConsumeSingleWinner(t *testing.T) {
	reg := newTestRegistry(RegistryOptions{})
	reg.Put(liveSession("s1"))

	const goroutines = 32
	var wg sync.WaitGroup
	wins := make(chan struct{}, goroutines)

	for i := 0; i < goroutines; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := reg.Consume("s1"); err == nil {
				wins <- struct{}{}
			}
		}()
	}
	wg.Wait()
	close(wins)

	winners := 0
	for range wins {
		winners++
	}
	assert.Equal(t, 1, winners)
}

func TestExpiredSessionIsInvisible(t *testing.T) {
	reg := newTestRegistry(RegistryOptions{Grace: time.Millisecond})
	sess := liveSession("s1")
	sess.CreatedAt = time.Now().Add(-time.Hour)
	sess.Duration = time.Minute
	reg.Put(sess)

	_, err := reg.Get("s1")
	assert.ErrorIs(t, err, ErrSessionNotFound)

	_, err = reg.Consume("s1")
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestEvictExpired(t *testing.T) {
	reg := newTestRegistry(RegistryOptions{Grace: time.Millisecond})

	stale := liveSession("stale")
	stale.CreatedAt = time.Now().Add(-time.Hour)
	stale.Duration = time.Minute
	reg.Put(stale)
	reg.Put(liveSession("fresh"))

	evicted := reg.evictExpired(time.Now())
	assert.Equal(t, 1, evicted)
	assert.Equal(t, 1, reg.Len())

	_, err := reg.Get("fresh")
	assert.NoError(t, err)
}
