package services

import (
	"context"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"getFitAPI/internal/store"
	"getFitAPI/internal/streak"
	"getFitAPI/internal/types/activity"
)

type fakeActivityStore struct {
	mu      sync.Mutex
	acts    []*activity.Activity
	failing bool
}

func (f *fakeActivityStore) InsertActivity(ctx context.Context, act *activity.Activity) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failing {
		return store.ErrStoreUnavailable
	}
	f.acts = append(f.acts, act)
	return nil
}

func (f *fakeActivityStore) DeleteActivity(ctx context.Context, userID, activityID uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failing {
		return store.ErrStoreUnavailable
	}
	for i, act := range f.acts {
		if act.ID == activityID && act.UserID == userID {
			f.acts = append(f.acts[:i], f.acts[i+1:]...)
			return nil
		}
	}
	return store.ErrStoreUnavailable
}

func (f *fakeActivityStore) ListActivityTimestamps(ctx context.Context, userID uuid.UUID) ([]time.Time, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failing {
		return nil, store.ErrStoreUnavailable
	}
	var timestamps []time.Time
	for _, act := range f.acts {
		if act.UserID == userID {
			timestamps = append(timestamps, act.OccurredAt)
		}
	}
	sort.Slice(timestamps, func(i, j int) bool { return timestamps[i].Before(timestamps[j]) })
	return timestamps, nil
}

func (f *fakeActivityStore) ListActivities(ctx context.Context, userID uuid.UUID, limit int) ([]*activity.Activity, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var result []*activity.Activity
	for _, act := range f.acts {
		if act.UserID == userID {
			result = append(result, act)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].OccurredAt.After(result[j].OccurredAt) })
	if len(result) > limit {
		result = result[:limit]
	}
	return result, nil
}

func (f *fakeActivityStore) ListActivitiesSince(ctx context.Context, userID uuid.UUID, since time.Time) ([]*activity.Activity, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var result []*activity.Activity
	for _, act := range f.acts {
		if act.UserID == userID && !act.OccurredAt.Before(since) {
			result = append(result, act)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].OccurredAt.Before(result[j].OccurredAt) })
	return result, nil
}

type fakeTimezones struct {
	timezone string
}

func (f *fakeTimezones) GetTimezone(ctx context.Context, userID uuid.UUID) (string, error) {
	return f.timezone, nil
}

func newTestService(timezone string, now time.Time) (*ActivityService, *fakeActivityStore) {
	st := &fakeActivityStore{}
	svc := NewActivityService(st, &fakeTimezones{timezone: timezone})
	svc.now = func() time.Time { return now }
	return svc, st
}

func gymRequest(occurredAt time.Time) *activity.RecordActivityRequest {
	return &activity.RecordActivityRequest{
		ActivityType:    activity.TypeGym,
		DurationMinutes: 45,
		OccurredAt:      &occurredAt,
	}
}

func TestRecordActivityStartsStreak(t *testing.T) {
	now := time.Date(2024, time.March, 10, 18, 0, 0, 0, time.UTC)
	svc, st := newTestService("UTC", now)
	userID := uuid.New()

	result, err := svc.RecordActivity(context.Background(), userID, gymRequest(now))
	require.NoError(t, err)
	assert.Equal(t, 1, result.CurrentStreak)
	assert.Equal(t, 1, result.LongestStreak)
	assert.Len(t, st.acts, 1)

	// Calories default from the lookup table when the client omits them.
	require.NotNil(t, result.Activity.CaloriesBurned)
	assert.Equal(t, 270, *result.Activity.CaloriesBurned)
}

func TestRecordActivitySameDayCountsOnce(t *testing.T) {
	now := time.Date(2024, time.March, 10, 18, 0, 0, 0, time.UTC)
	svc, _ := newTestService("UTC", now)
	userID := uuid.New()

	_, err := svc.RecordActivity(context.Background(), userID, gymRequest(now.Add(-6*time.Hour)))
	require.NoError(t, err)

	result, err := svc.RecordActivity(context.Background(), userID, gymRequest(now))
	require.NoError(t, err)
	assert.Equal(t, 1, result.CurrentStreak)
}

func TestRecordActivityConsecutiveDays(t *testing.T) {
	start := time.Date(2024, time.March, 8, 9, 0, 0, 0, time.UTC)
	svc, _ := newTestService("UTC", start)
	userID := uuid.New()

	var result *activity.RecordActivityResponse
	var err error
	for i := 0; i < 3; i++ {
		at := start.AddDate(0, 0, i)
		svc.now = func() time.Time { return at }
		result, err = svc.RecordActivity(context.Background(), userID, gymRequest(at))
		require.NoError(t, err)
	}

	assert.Equal(t, 3, result.CurrentStreak)
	assert.Equal(t, 3, result.LongestStreak)
}

func TestRecordActivityConcurrentSameDay(t *testing.T) {
	now := time.Date(2024, time.March, 10, 18, 0, 0, 0, time.UTC)
	svc, _ := newTestService("UTC", now)
	userID := uuid.New()

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.RecordActivity(context.Background(), userID, gymRequest(now))
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	totals, err := svc.StreakTotals(context.Background(), userID)
	require.NoError(t, err)
	assert.Equal(t, 1, totals.CurrentStreak, "simultaneous same-day submissions must count the day once")
}

func TestRecordActivityBackfillTriggersRecompute(t *testing.T) {
	now := time.Date(2024, time.January, 3, 20, 0, 0, 0, time.UTC)
	svc, _ := newTestService("UTC", now)
	userID := uuid.New()

	_, err := svc.RecordActivity(context.Background(), userID, gymRequest(now))
	require.NoError(t, err)

	// Jan 1 arrives late: out of order, streak falls back to full recompute.
	result, err := svc.RecordActivity(context.Background(), userID,
		gymRequest(time.Date(2024, time.January, 1, 8, 0, 0, 0, time.UTC)))
	require.NoError(t, err)
	assert.Equal(t, 1, result.CurrentStreak)
	assert.Equal(t, 1, result.LongestStreak)

	// Backfilling Jan 2 closes the gap and the whole run counts.
	result, err = svc.RecordActivity(context.Background(), userID,
		gymRequest(time.Date(2024, time.January, 2, 8, 0, 0, 0, time.UTC)))
	require.NoError(t, err)
	assert.Equal(t, 3, result.CurrentStreak)
	assert.Equal(t, 3, result.LongestStreak)
}

func TestRecordActivityRejectsFutureTimestamp(t *testing.T) {
	now := time.Date(2024, time.March, 10, 18, 0, 0, 0, time.UTC)
	svc, st := newTestService("UTC", now)
	userID := uuid.New()

	_, err := svc.RecordActivity(context.Background(), userID, gymRequest(now.Add(time.Hour)))
	assert.ErrorIs(t, err, streak.ErrInvalidTimestamp)
	assert.Empty(t, st.acts, "rejected activities must not be persisted")
}

func TestRecordActivityRejectsUnknownTimezone(t *testing.T) {
	now := time.Date(2024, time.March, 10, 18, 0, 0, 0, time.UTC)
	st := &fakeActivityStore{}
	svc := NewActivityService(st, &fakeTimezones{timezone: "Nowhere/Invalid"})
	svc.now = func() time.Time { return now }

	_, err := svc.RecordActivity(context.Background(), uuid.New(), gymRequest(now))
	assert.ErrorIs(t, err, streak.ErrInvalidTimezone)
}

func TestRecordActivityRejectsBadInput(t *testing.T) {
	now := time.Date(2024, time.March, 10, 18, 0, 0, 0, time.UTC)
	svc, _ := newTestService("UTC", now)

	_, err := svc.RecordActivity(context.Background(), uuid.New(), &activity.RecordActivityRequest{
		ActivityType:    "swimming",
		DurationMinutes: 30,
	})
	assert.Error(t, err)

	_, err = svc.RecordActivity(context.Background(), uuid.New(), &activity.RecordActivityRequest{
		ActivityType:    activity.TypeRun,
		DurationMinutes: 0,
	})
	assert.Error(t, err)
}

func TestRecordActivityPropagatesStoreFailure(t *testing.T) {
	now := time.Date(2024, time.March, 10, 18, 0, 0, 0, time.UTC)
	svc, st := newTestService("UTC", now)
	st.failing = true

	_, err := svc.RecordActivity(context.Background(), uuid.New(), gymRequest(now))
	assert.ErrorIs(t, err, store.ErrStoreUnavailable)
}

func TestDeleteActivityInvalidatesStreak(t *testing.T) {
	start := time.Date(2024, time.March, 8, 9, 0, 0, 0, time.UTC)
	svc, _ := newTestService("UTC", start)
	userID := uuid.New()

	var middle *activity.Activity
	for i := 0; i < 3; i++ {
		at := start.AddDate(0, 0, i)
		svc.now = func() time.Time { return at }
		result, err := svc.RecordActivity(context.Background(), userID, gymRequest(at))
		require.NoError(t, err)
		if i == 1 {
			middle = result.Activity
		}
	}

	require.NoError(t, svc.DeleteActivity(context.Background(), userID, middle.ID))

	totals, err := svc.StreakTotals(context.Background(), userID)
	require.NoError(t, err)
	assert.Equal(t, 1, totals.CurrentStreak, "removing the middle day splits the run")
	assert.Equal(t, 1, totals.LongestStreak)
}

func TestIncrementalMatchesRecomputeAfterManyRecords(t *testing.T) {
	start := time.Date(2024, time.February, 1, 9, 0, 0, 0, time.UTC)
	svc, st := newTestService("UTC", start)
	userID := uuid.New()

	offsets := []int{0, 1, 2, 5, 6, 6, 9}
	var last time.Time
	for _, off := range offsets {
		at := start.AddDate(0, 0, off)
		last = at
		svc.now = func() time.Time { return at }
		_, err := svc.RecordActivity(context.Background(), userID, gymRequest(at))
		require.NoError(t, err)
	}

	incremental, err := svc.StreakTotals(context.Background(), userID)
	require.NoError(t, err)

	timestamps, err := st.ListActivityTimestamps(context.Background(), userID)
	require.NoError(t, err)
	days, err := svc.normalizer.Normalize(timestamps, "UTC", last)
	require.NoError(t, err)
	today, err := svc.normalizer.Bucket(last, "UTC", last)
	require.NoError(t, err)
	full := streak.Compute(days, today)

	assert.Equal(t, full, incremental)
}

func TestGetStreakBuildsCalendar(t *testing.T) {
	now := time.Date(2024, time.March, 10, 18, 0, 0, 0, time.UTC)
	svc, _ := newTestService("UTC", now)
	userID := uuid.New()

	_, err := svc.RecordActivity(context.Background(), userID, gymRequest(now.AddDate(0, 0, -1)))
	require.NoError(t, err)
	_, err = svc.RecordActivity(context.Background(), userID, gymRequest(now))
	require.NoError(t, err)

	resp, err := svc.GetStreak(context.Background(), userID)
	require.NoError(t, err)
	assert.Equal(t, 2, resp.CurrentStreak)
	assert.Len(t, resp.ActivityCalendar, 2)
	assert.Contains(t, resp.ActivityCalendar, "2024-03-10")
	assert.Contains(t, resp.ActivityCalendar, "2024-03-09")
}

func TestGetStats(t *testing.T) {
	// A Sunday, so the Monday-based week covers Mar 4-10.
	now := time.Date(2024, time.March, 10, 18, 0, 0, 0, time.UTC)
	svc, _ := newTestService("UTC", now)
	userID := uuid.New()

	for _, off := range []int{0, -1, -20, -100} {
		at := now.AddDate(0, 0, off)
		_, err := svc.RecordActivity(context.Background(), userID, gymRequest(at))
		require.NoError(t, err)
	}

	userStats, err := svc.GetStats(context.Background(), userID)
	require.NoError(t, err)
	assert.True(t, userStats.TodayActive)
	assert.Equal(t, 2, userStats.DaysThisWeek)
	assert.Equal(t, 4, userStats.TotalActiveDays)
	assert.Equal(t, 4, userStats.TotalActivities)
	assert.Equal(t, 2, userStats.CurrentStreak)
}

func TestGetCalendar(t *testing.T) {
	now := time.Date(2024, time.March, 10, 18, 0, 0, 0, time.UTC)
	svc, _ := newTestService("UTC", now)
	userID := uuid.New()

	_, err := svc.RecordActivity(context.Background(), userID, gymRequest(now))
	require.NoError(t, err)

	cal, err := svc.GetCalendar(context.Background(), userID, 2024, 3)
	require.NoError(t, err)
	assert.Equal(t, 2024, cal.Year)
	assert.Equal(t, 3, cal.Month)
	require.Len(t, cal.Days, 31)

	day10 := cal.Days[9]
	assert.True(t, day10.Active)
	assert.True(t, day10.IsToday)
	assert.False(t, cal.Days[0].Active)
}
