package store

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"getFitAPI/internal/types/activity"
)

// ErrStoreUnavailable wraps failures talking to the activity record store.
// The core never retries; that policy belongs to the caller.
var ErrStoreUnavailable = errors.New("activity store unavailable")

// ActivityStore is the durable log of activities. The streak engine only
// needs the raw timestamps back; the richer listings feed the calendar and
// history views.
type ActivityStore interface {
	InsertActivity(ctx context.Context, act *activity.Activity) error
	DeleteActivity(ctx context.Context, userID, activityID uuid.UUID) error
	ListActivityTimestamps(ctx context.Context, userID uuid.UUID) ([]time.Time, error)
	ListActivities(ctx context.Context, userID uuid.UUID, limit int) ([]*activity.Activity, error)
	ListActivitiesSince(ctx context.Context, userID uuid.UUID, since time.Time) ([]*activity.Activity, error)
}
