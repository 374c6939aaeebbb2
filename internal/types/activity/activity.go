package activity

import (
	"time"

	"github.com/google/uuid"
)

type ActivityType string

const (
	TypeGym  ActivityType = "gym"
	TypeRun  ActivityType = "run"
	TypeWalk ActivityType = "walk"
	TypeYoga ActivityType = "yoga"
)

func (t ActivityType) Valid() bool {
	switch t {
	case TypeGym, TypeRun, TypeWalk, TypeYoga:
		return true
	}
	return false
}

type Activity struct {
	ID              uuid.UUID    `json:"id" db:"id"`
	UserID          uuid.UUID    `json:"user_id" db:"user_id"`
	ActivityType    ActivityType `json:"activity_type" db:"activity_type"`
	DurationMinutes int          `json:"duration_minutes" db:"duration_minutes"`
	CaloriesBurned  *int         `json:"calories_burned,omitempty" db:"calories_burned"`
	Notes           *string      `json:"notes,omitempty" db:"notes"`
	OccurredAt      time.Time    `json:"occurred_at" db:"occurred_at"`
	CreatedAt       time.Time    `json:"created_at" db:"created_at"`
}

type RecordActivityRequest struct {
	ActivityType    ActivityType `json:"activity_type"`
	DurationMinutes int          `json:"duration_minutes"`
	CaloriesBurned  *int         `json:"calories_burned,omitempty"`
	Notes           *string      `json:"notes,omitempty"`
	OccurredAt      *time.Time   `json:"occurred_at,omitempty"`
}

type RecordActivityResponse struct {
	Activity      *Activity `json:"activity"`
	CurrentStreak int       `json:"current_streak"`
	LongestStreak int       `json:"longest_streak"`
}
