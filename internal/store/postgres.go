package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"getFitAPI/internal/types/activity"
)

// PostgresActivityStore persists activities in the activities table and keeps
// the denormalized total_activities counter on users in step.
type PostgresActivityStore struct {
	db *pgxpool.Pool
}

func NewPostgresActivityStore(db *pgxpool.Pool) *PostgresActivityStore {
	return &PostgresActivityStore{db: db}
}

func (s *PostgresActivityStore) InsertActivity(ctx context.Context, act *activity.Activity) error {
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return storeErr("begin insert activity", err)
	}
	defer tx.Rollback(ctx)

	query := `
	INSERT INTO activities (id, user_id, activity_type, duration_minutes, calories_burned, notes, occurred_at, created_at)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	_, err = tx.Exec(ctx, query,
		act.ID,
		act.UserID,
		act.ActivityType,
		act.DurationMinutes,
		act.CaloriesBurned,
		act.Notes,
		act.OccurredAt,
		act.CreatedAt,
	)
	if err != nil {
		return storeErr("insert activity", err)
	}

	_, err = tx.Exec(ctx, `UPDATE users SET total_activities = total_activities + 1, updated_at = NOW() WHERE id = $1`, act.UserID)
	if err != nil {
		return storeErr("bump total activities", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return storeErr("commit insert activity", err)
	}
	return nil
}

func (s *PostgresActivityStore) DeleteActivity(ctx context.Context, userID, activityID uuid.UUID) error {
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return storeErr("begin delete activity", err)
	}
	defer tx.Rollback(ctx)

	result, err := tx.Exec(ctx, `DELETE FROM activities WHERE id = $1 AND user_id = $2`, activityID, userID)
	if err != nil {
		return storeErr("delete activity", err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("activity %s not found", activityID)
	}

	_, err = tx.Exec(ctx, `UPDATE users SET total_activities = GREATEST(total_activities - 1, 0), updated_at = NOW() WHERE id = $1`, userID)
	if err != nil {
		return storeErr("decrement total activities", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return storeErr("commit delete activity", err)
	}
	return nil
}

func (s *PostgresActivityStore) ListActivityTimestamps(ctx context.Context, userID uuid.UUID) ([]time.Time, error) {
	rows, err := s.db.Query(ctx, `SELECT occurred_at FROM activities WHERE user_id = $1 ORDER BY occurred_at ASC`, userID)
	if err != nil {
		return nil, storeErr("list activity timestamps", err)
	}
	defer rows.Close()

	var timestamps []time.Time
	for rows.Next() {
		var ts time.Time
		if err := rows.Scan(&ts); err != nil {
			return nil, storeErr("scan activity timestamp", err)
		}
		timestamps = append(timestamps, ts)
	}
	if err := rows.Err(); err != nil {
		return nil, storeErr("iterate activity timestamps", err)
	}
	return timestamps, nil
}

func (s *PostgresActivityStore) ListActivities(ctx context.Context, userID uuid.UUID, limit int) ([]*activity.Activity, error) {
	query := `
	SELECT id, user_id, activity_type, duration_minutes, calories_burned, notes, occurred_at, created_at
	FROM activities
	WHERE user_id = $1
	ORDER BY occurred_at DESC
	LIMIT $2
	`
	rows, err := s.db.Query(ctx, query, userID, limit)
	if err != nil {
		return nil, storeErr("list activities", err)
	}
	defer rows.Close()

	return scanActivities(rows)
}

func (s *PostgresActivityStore) ListActivitiesSince(ctx context.Context, userID uuid.UUID, since time.Time) ([]*activity.Activity, error) {
	query := `
	SELECT id, user_id, activity_type, duration_minutes, calories_burned, notes, occurred_at, created_at
	FROM activities
	WHERE user_id = $1 AND occurred_at >= $2
	ORDER BY occurred_at ASC
	`
	rows, err := s.db.Query(ctx, query, userID, since)
	if err != nil {
		return nil, storeErr("list activities since", err)
	}
	defer rows.Close()

	return scanActivities(rows)
}

func scanActivities(rows pgx.Rows) ([]*activity.Activity, error) {
	var activities []*activity.Activity
	for rows.Next() {
		act := &activity.Activity{}
		err := rows.Scan(
			&act.ID,
			&act.UserID,
			&act.ActivityType,
			&act.DurationMinutes,
			&act.CaloriesBurned,
			&act.Notes,
			&act.OccurredAt,
			&act.CreatedAt,
		)
		if err != nil {
			return nil, storeErr("scan activity", err)
		}
		activities = append(activities, act)
	}
	if err := rows.Err(); err != nil {
		return nil, storeErr("iterate activities", err)
	}
	return activities, nil
}

func storeErr(op string, err error) error {
	return fmt.Errorf("%s: %w", op, errors.Join(ErrStoreUnavailable, err))
}
