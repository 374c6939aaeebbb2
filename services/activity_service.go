package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"getFitAPI/internal/store"
	"getFitAPI/internal/streak"
	"getFitAPI/internal/types/activity"
	"getFitAPI/internal/types/calendar"
	"getFitAPI/internal/types/stats"
	streaktype "getFitAPI/internal/types/streak"
	"getFitAPI/utils"
)

// TimezoneLookup supplies the user's reference zone in effect at ingestion
// time. Implemented by UserService.
type TimezoneLookup interface {
	GetTimezone(ctx context.Context, userID uuid.UUID) (string, error)
}

// ActivityService owns the ingestion pipeline: persist the activity, bucket
// its timestamp into a calendar day, and advance the cached streak state on
// the incremental path, recomputing from history when the cache is cold or
// the activity arrives out of order.
type ActivityService struct {
	store      store.ActivityStore
	users      TimezoneLookup
	normalizer *streak.Normalizer
	cache      *streak.StateCache
	now        func() time.Time
}

func NewActivityService(st store.ActivityStore, users TimezoneLookup) *ActivityService {
	return &ActivityService{
		store:      st,
		users:      users,
		normalizer: streak.NewNormalizer(streak.DefaultSkewTolerance),
		cache:      streak.NewStateCache(),
		now:        time.Now,
	}
}

func (s *ActivityService) RecordActivity(ctx context.Context, userID uuid.UUID, req *activity.RecordActivityRequest) (*activity.RecordActivityResponse, error) {
	if !req.ActivityType.Valid() {
		return nil, fmt.Errorf("invalid activity type %q", req.ActivityType)
	}
	if req.DurationMinutes < 1 || req.DurationMinutes > 1440 {
		return nil, fmt.Errorf("duration must be between 1 and 1440 minutes")
	}

	now := s.now()
	occurredAt := now
	if req.OccurredAt != nil {
		occurredAt = *req.OccurredAt
	}

	timezone, err := s.users.GetTimezone(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("resolve timezone: %w", err)
	}

	newDay, err := s.normalizer.Bucket(occurredAt, timezone, now)
	if err != nil {
		return nil, err
	}
	today, err := s.normalizer.Bucket(now, timezone, now)
	if err != nil {
		return nil, err
	}

	calories := req.CaloriesBurned
	if calories == nil {
		estimate := utils.EstimateCalories(string(req.ActivityType), req.DurationMinutes)
		calories = &estimate
	}

	act := &activity.Activity{
		ID:              uuid.New(),
		UserID:          userID,
		ActivityType:    req.ActivityType,
		DurationMinutes: req.DurationMinutes,
		CaloriesBurned:  calories,
		Notes:           req.Notes,
		OccurredAt:      occurredAt,
		CreatedAt:       now,
	}

	if err := s.store.InsertActivity(ctx, act); err != nil {
		return nil, fmt.Errorf("failed to log activity: %w", err)
	}

	state, err := s.cache.Mutate(userID, func(cur streak.State, valid bool) (streak.State, error) {
		if !valid {
			return s.recompute(ctx, userID, timezone, now)
		}
		next, err := streak.ApplyNewActivity(&cur, newDay, today)
		if err != nil {
			if errors.Is(err, streak.ErrOutOfOrderActivity) {
				outOfOrderFallbacks.Inc()
				return s.recompute(ctx, userID, timezone, now)
			}
			return streak.State{}, err
		}
		incrementalUpdates.Inc()
		return *next, nil
	})
	if err != nil {
		return nil, err
	}

	activitiesLogged.WithLabelValues(string(req.ActivityType)).Inc()

	totals := state.TotalsAt(today)
	return &activity.RecordActivityResponse{
		Activity:      act,
		CurrentStreak: totals.CurrentStreak,
		LongestStreak: totals.LongestStreak,
	}, nil
}

// recompute rebuilds the streak state from the full activity history. Runs
// inside the caller's per-user critical section.
func (s *ActivityService) recompute(ctx context.Context, userID uuid.UUID, timezone string, now time.Time) (streak.State, error) {
	timestamps, err := s.store.ListActivityTimestamps(ctx, userID)
	if err != nil {
		return streak.State{}, err
	}

	days, err := s.normalizer.Normalize(timestamps, timezone, now)
	if err != nil {
		return streak.State{}, err
	}

	today, err := s.normalizer.Bucket(now, timezone, now)
	if err != nil {
		return streak.State{}, err
	}

	totals := streak.Compute(days, today)
	state := streak.State{
		UserID:        userID,
		CurrentStreak: totals.CurrentStreak,
		LongestStreak: totals.LongestStreak,
	}
	if len(days) > 0 {
		last := days[len(days)-1]
		state.LastActiveDate = &last
	}

	fullRecomputations.Inc()
	return state, nil
}

// StreakSnapshot returns the user's streak state, recomputing it from the
// store when the cache holds no authoritative value.
func (s *ActivityService) StreakSnapshot(ctx context.Context, userID uuid.UUID) (streak.State, error) {
	if state, valid := s.cache.Get(userID); valid {
		return state, nil
	}

	timezone, err := s.users.GetTimezone(ctx, userID)
	if err != nil {
		return streak.State{}, fmt.Errorf("resolve timezone: %w", err)
	}

	return s.cache.Mutate(userID, func(cur streak.State, valid bool) (streak.State, error) {
		if valid {
			return cur, nil
		}
		return s.recompute(ctx, userID, timezone, s.now())
	})
}

// StreakTotals projects the user's streak onto their local today.
func (s *ActivityService) StreakTotals(ctx context.Context, userID uuid.UUID) (streak.Totals, error) {
	timezone, err := s.users.GetTimezone(ctx, userID)
	if err != nil {
		return streak.Totals{}, fmt.Errorf("resolve timezone: %w", err)
	}

	state, err := s.StreakSnapshot(ctx, userID)
	if err != nil {
		return streak.Totals{}, err
	}

	now := s.now()
	today, err := s.normalizer.Bucket(now, timezone, now)
	if err != nil {
		return streak.Totals{}, err
	}
	return state.TotalsAt(today), nil
}

// GetStreak returns the streak numbers plus the last 30 days of activity
// grouped by local date, feeding the streak calendar screen.
func (s *ActivityService) GetStreak(ctx context.Context, userID uuid.UUID) (*streaktype.StreakResponse, error) {
	timezone, err := s.users.GetTimezone(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("resolve timezone: %w", err)
	}
	loc, err := streak.LoadLocation(timezone)
	if err != nil {
		return nil, err
	}

	totals, err := s.StreakTotals(ctx, userID)
	if err != nil {
		return nil, err
	}

	since := s.now().AddDate(0, 0, -30)
	acts, err := s.store.ListActivitiesSince(ctx, userID, since)
	if err != nil {
		return nil, fmt.Errorf("failed to load recent activities: %w", err)
	}

	cal := make(map[string][]streaktype.CalendarActivity)
	for _, act := range acts {
		key := streak.DateOf(act.OccurredAt, loc).Format("2006-01-02")
		cal[key] = append(cal[key], streaktype.CalendarActivity{
			Type:     string(act.ActivityType),
			Duration: act.DurationMinutes,
			Calories: act.CaloriesBurned,
		})
	}

	return &streaktype.StreakResponse{
		CurrentStreak:    totals.CurrentStreak,
		LongestStreak:    totals.LongestStreak,
		ActivityCalendar: cal,
	}, nil
}

func (s *ActivityService) GetActivities(ctx context.Context, userID uuid.UUID, limit int) ([]*activity.Activity, error) {
	if limit <= 0 || limit > 100 {
		limit = 100
	}
	acts, err := s.store.ListActivities(ctx, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to load activities: %w", err)
	}
	return acts, nil
}

// DeleteActivity removes a logged activity and invalidates the cached streak
// so the next read recomputes without the removed day.
func (s *ActivityService) DeleteActivity(ctx context.Context, userID, activityID uuid.UUID) error {
	if err := s.store.DeleteActivity(ctx, userID, activityID); err != nil {
		return err
	}
	s.cache.Invalidate(userID)
	return nil
}

func (s *ActivityService) GetCalendar(ctx context.Context, userID uuid.UUID, year int, month int) (*calendar.CalendarResponse, error) {
	timezone, err := s.users.GetTimezone(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("resolve timezone: %w", err)
	}
	loc, err := streak.LoadLocation(timezone)
	if err != nil {
		return nil, err
	}

	monthStart := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, loc)
	monthEnd := monthStart.AddDate(0, 1, 0)

	acts, err := s.store.ListActivitiesSince(ctx, userID, monthStart)
	if err != nil {
		return nil, fmt.Errorf("failed to load activities: %w", err)
	}

	active := make(map[time.Time]bool)
	for _, act := range acts {
		if act.OccurredAt.Before(monthEnd) {
			active[streak.DateOf(act.OccurredAt, loc)] = true
		}
	}

	today := streak.DateOf(s.now(), loc)
	days := make([]*calendar.CalendarDay, 0, 31)
	for d := streak.DateOf(monthStart, loc); d.Month() == time.Month(month); d = streak.NextDay(d) {
		days = append(days, &calendar.CalendarDay{
			Date:    d,
			Active:  active[d],
			IsToday: d.Equal(today),
		})
	}

	return &calendar.CalendarResponse{Year: year, Month: month, Days: days}, nil
}

func (s *ActivityService) GetStats(ctx context.Context, userID uuid.UUID) (*stats.UserStats, error) {
	timezone, err := s.users.GetTimezone(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("resolve timezone: %w", err)
	}

	now := s.now()
	timestamps, err := s.store.ListActivityTimestamps(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load activity history: %w", err)
	}

	days, err := s.normalizer.Normalize(timestamps, timezone, now)
	if err != nil {
		return nil, err
	}
	today, err := s.normalizer.Bucket(now, timezone, now)
	if err != nil {
		return nil, err
	}

	// Weeks start on Monday.
	weekStart := today.AddDate(0, 0, -((int(today.Weekday()) + 6) % 7))
	monthStart := time.Date(today.Year(), today.Month(), 1, 0, 0, 0, 0, time.UTC)
	yearStart := time.Date(today.Year(), time.January, 1, 0, 0, 0, 0, time.UTC)

	result := &stats.UserStats{
		TotalActiveDays: len(days),
		TotalActivities: len(timestamps),
	}
	for _, day := range days {
		if day.Equal(today) {
			result.TodayActive = true
		}
		if !day.Before(weekStart) {
			result.DaysThisWeek++
		}
		if !day.Before(monthStart) {
			result.DaysThisMonth++
		}
		if !day.Before(yearStart) {
			result.DaysThisYear++
		}
	}

	totals := streak.Compute(days, today)
	result.CurrentStreak = totals.CurrentStreak
	result.LongestStreak = totals.LongestStreak
	return result, nil
}
