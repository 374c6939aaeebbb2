package streak

import (
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCacheGetUnknownUserIsZeroed(t *testing.T) {
	cache := NewStateCache()
	userID := uuid.New()

	state, valid := cache.Get(userID)
	assert.False(t, valid)
	assert.Equal(t, userID, state.UserID)
	assert.Equal(t, 0, state.CurrentStreak)
	assert.Equal(t, 0, state.LongestStreak)
	assert.Nil(t, state.LastActiveDate)
}

func TestCacheUpdateAndGet(t *testing.T) {
	cache := NewStateCache()
	userID := uuid.New()
	last := day(2024, time.January, 5)

	cache.Update(userID, State{CurrentStreak: 4, LongestStreak: 6, LastActiveDate: &last})

	state, valid := cache.Get(userID)
	assert.True(t, valid)
	assert.Equal(t, 4, state.CurrentStreak)
	assert.Equal(t, 6, state.LongestStreak)
	assert.False(t, state.UpdatedAt.IsZero())
}

func TestCacheInvalidate(t *testing.T) {
	cache := NewStateCache()
	userID := uuid.New()

	cache.Update(userID, State{CurrentStreak: 2, LongestStreak: 2})
	cache.Invalidate(userID)

	_, valid := cache.Get(userID)
	assert.False(t, valid)
}

func TestCacheMutateErrorLeavesStateUntouched(t *testing.T) {
	cache := NewStateCache()
	userID := uuid.New()
	cache.Update(userID, State{CurrentStreak: 3, LongestStreak: 3})

	_, err := cache.Mutate(userID, func(state State, valid bool) (State, error) {
		return State{}, ErrOutOfOrderActivity
	})
	require.Error(t, err)

	state, valid := cache.Get(userID)
	assert.True(t, valid)
	assert.Equal(t, 3, state.CurrentStreak)
}

func TestCacheConcurrentSameDaySubmissionsCountOnce(t *testing.T) {
	cache := NewStateCache()
	userID := uuid.New()
	yesterday := day(2024, time.March, 9)
	today := day(2024, time.March, 10)
	cache.Update(userID, State{CurrentStreak: 1, LongestStreak: 1, LastActiveDate: &yesterday})

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := cache.Mutate(userID, func(state State, valid bool) (State, error) {
				next, err := ApplyNewActivity(&state, today, today)
				if err != nil {
					return State{}, err
				}
				return *next, nil
			})
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	state, valid := cache.Get(userID)
	require.True(t, valid)
	assert.Equal(t, 2, state.CurrentStreak, "the day must be counted exactly once")
	assert.Equal(t, 2, state.LongestStreak)
}

func TestCacheSlowUserDoesNotBlockOthers(t *testing.T) {
	cache := NewStateCache()
	slowUser := uuid.New()
	fastUser := uuid.New()

	release := make(chan struct{})
	started := make(chan struct{})
	go func() {
		cache.Mutate(slowUser, func(state State, valid bool) (State, error) {
			close(started)
			<-release
			return state, nil
		})
	}()
	<-started

	done := make(chan struct{})
	go func() {
		cache.Update(fastUser, State{CurrentStreak: 1, LongestStreak: 1})
		_, _ = cache.Get(fastUser)
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("operation on another user blocked behind a held per-user lock")
	}
	close(release)
}
