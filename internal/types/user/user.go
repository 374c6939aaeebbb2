package user

import (
	"time"

	"github.com/google/uuid"
)

type Gender string

const (
	GenderMale   Gender = "male"
	GenderFemale Gender = "female"
	GenderOther  Gender = "other"
)

type User struct {
	ID              uuid.UUID `json:"id"`
	Email           string    `json:"email"`
	Username        string    `json:"username"`
	Age             int       `json:"age"`
	Gender          Gender    `json:"gender"`
	FitnessGoals    string    `json:"fitness_goals"`
	Timezone        string    `json:"timezone"`
	ImageURL        *string   `json:"image_url,omitempty"`
	TotalActivities int       `json:"total_activities"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

type CreateUserRequest struct {
	Email        string  `json:"email"`
	Username     string  `json:"username"`
	Age          int     `json:"age"`
	Gender       Gender  `json:"gender"`
	FitnessGoals string  `json:"fitness_goals"`
	Timezone     string  `json:"timezone,omitempty"`
	ImageURL     *string `json:"image_url,omitempty"`
}

type UpdateProfileRequest struct {
	Username     *string `json:"username,omitempty"`
	Age          *int    `json:"age,omitempty"`
	FitnessGoals *string `json:"fitness_goals,omitempty"`
	Timezone     *string `json:"timezone,omitempty"`
	ImageURL     *string `json:"image_url,omitempty"`
}
