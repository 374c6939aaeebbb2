package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"getFitAPI/internal/streak"
	"getFitAPI/internal/types/friendship"
	"getFitAPI/internal/types/user"
)

type UserService struct {
	db *pgxpool.Pool
}

func NewUserService(db *pgxpool.Pool) *UserService {
	return &UserService{db: db}
}

const userColumns = `id, email, username, age, gender, fitness_goals, timezone, image_url, total_activities, created_at, updated_at`

func scanUser(row pgx.Row) (*user.User, error) {
	u := &user.User{}
	err := row.Scan(
		&u.ID,
		&u.Email,
		&u.Username,
		&u.Age,
		&u.Gender,
		&u.FitnessGoals,
		&u.Timezone,
		&u.ImageURL,
		&u.TotalActivities,
		&u.CreatedAt,
		&u.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return u, nil
}

func (s *UserService) CreateUser(ctx context.Context, req *user.CreateUserRequest) (*user.User, error) {
	if req.Age < 13 || req.Age > 120 {
		return nil, fmt.Errorf("age must be between 13 and 120")
	}
	timezone := req.Timezone
	if timezone == "" {
		timezone = "UTC"
	}
	if _, err := streak.LoadLocation(timezone); err != nil {
		return nil, err
	}

	newUser := &user.User{
		ID:           uuid.New(),
		Email:        req.Email,
		Username:     req.Username,
		Age:          req.Age,
		Gender:       req.Gender,
		FitnessGoals: req.FitnessGoals,
		Timezone:     timezone,
		ImageURL:     req.ImageURL,
		CreatedAt:    time.Now(),
		UpdatedAt:    time.Now(),
	}

	query := `
	INSERT INTO users (id, email, username, age, gender, fitness_goals, timezone, image_url, created_at, updated_at)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	RETURNING ` + userColumns

	created, err := scanUser(s.db.QueryRow(
		ctx,
		query,
		newUser.ID,
		newUser.Email,
		newUser.Username,
		newUser.Age,
		newUser.Gender,
		newUser.FitnessGoals,
		newUser.Timezone,
		newUser.ImageURL,
		newUser.CreatedAt,
		newUser.UpdatedAt,
	))
	if err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}
	return created, nil
}

func (s *UserService) GetUser(ctx context.Context, userID uuid.UUID) (*user.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	u, err := scanUser(s.db.QueryRow(ctx, query, userID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("user not found")
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return u, nil
}

// GetTimezone satisfies the activity service's TimezoneLookup.
func (s *UserService) GetTimezone(ctx context.Context, userID uuid.UUID) (string, error) {
	var timezone string
	err := s.db.QueryRow(ctx, `SELECT timezone FROM users WHERE id = $1`, userID).Scan(&timezone)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", fmt.Errorf("user not found")
		}
		return "", fmt.Errorf("failed to get timezone: %w", err)
	}
	return timezone, nil
}

func (s *UserService) UpdateProfile(ctx context.Context, userID uuid.UUID, req *user.UpdateProfileRequest) (*user.User, error) {
	if req.Timezone != nil {
		if _, err := streak.LoadLocation(*req.Timezone); err != nil {
			return nil, err
		}
	}
	if req.Age != nil && (*req.Age < 13 || *req.Age > 120) {
		return nil, fmt.Errorf("age must be between 13 and 120")
	}

	query := `
	UPDATE users SET
		username      = COALESCE($2, username),
		age           = COALESCE($3, age),
		fitness_goals = COALESCE($4, fitness_goals),
		timezone      = COALESCE($5, timezone),
		image_url     = COALESCE($6, image_url),
		updated_at    = NOW()
	WHERE id = $1
	RETURNING ` + userColumns

	u, err := scanUser(s.db.QueryRow(ctx, query, userID, req.Username, req.Age, req.FitnessGoals, req.Timezone, req.ImageURL))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("user not found")
		}
		return nil, fmt.Errorf("failed to update profile: %w", err)
	}
	return u, nil
}

func (s *UserService) DeleteUser(ctx context.Context, userID uuid.UUID) error {
	result, err := s.db.Exec(ctx, `DELETE FROM users WHERE id = $1`, userID)
	if err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("user not found")
	}
	return nil
}

func (s *UserService) SearchUsers(ctx context.Context, userID uuid.UUID, search string) ([]*user.User, error) {
	query := `
	SELECT ` + userColumns + `
	FROM users
	WHERE id != $1 AND (username ILIKE '%' || $2 || '%' OR email ILIKE '%' || $2 || '%')
	ORDER BY username ASC
	LIMIT 20
	`
	rows, err := s.db.Query(ctx, query, userID, search)
	if err != nil {
		return nil, fmt.Errorf("failed to search users: %w", err)
	}
	defer rows.Close()

	var users []*user.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan user: %w", err)
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

// AddFriend creates a symmetric, auto-accepted friendship by username.
func (s *UserService) AddFriend(ctx context.Context, userID uuid.UUID, friendUsername string) (*friendship.Friendship, error) {
	var friendID uuid.UUID
	err := s.db.QueryRow(ctx, `SELECT id FROM users WHERE username = $1`, friendUsername).Scan(&friendID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("user not found")
		}
		return nil, fmt.Errorf("failed to look up friend: %w", err)
	}

	if friendID == userID {
		return nil, fmt.Errorf("cannot add yourself as friend")
	}

	var exists bool
	existsQuery := `
	SELECT EXISTS(
		SELECT 1 FROM friendships
		WHERE (user_id = $1 AND friend_id = $2) OR (user_id = $2 AND friend_id = $1)
	)`
	if err := s.db.QueryRow(ctx, existsQuery, userID, friendID).Scan(&exists); err != nil {
		return nil, fmt.Errorf("failed to check friendship: %w", err)
	}
	if exists {
		return nil, fmt.Errorf("already friends")
	}

	f := &friendship.Friendship{
		ID:        uuid.New(),
		UserID:    userID,
		FriendID:  friendID,
		Status:    friendship.FriendshipAccepted,
		CreatedAt: time.Now(),
	}
	_, err = s.db.Exec(ctx,
		`INSERT INTO friendships (id, user_id, friend_id, status, created_at) VALUES ($1, $2, $3, $4, $5)`,
		f.ID, f.UserID, f.FriendID, f.Status, f.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to add friend: %w", err)
	}
	return f, nil
}

func (s *UserService) RemoveFriend(ctx context.Context, userID, friendID uuid.UUID) error {
	query := `
	DELETE FROM friendships
	WHERE (user_id = $1 AND friend_id = $2) OR (user_id = $2 AND friend_id = $1)
	`
	result, err := s.db.Exec(ctx, query, userID, friendID)
	if err != nil {
		return fmt.Errorf("failed to remove friend: %w", err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("friendship not found")
	}
	return nil
}

func (s *UserService) GetFriends(ctx context.Context, userID uuid.UUID) ([]*user.User, error) {
	query := `
	SELECT ` + qualifiedUserColumns("u") + `
	FROM users u
	INNER JOIN friendships f
		ON (f.user_id = $1 AND f.friend_id = u.id)
		OR (f.friend_id = $1 AND f.user_id = u.id)
	WHERE f.status = 'accepted'
	ORDER BY u.username ASC
	`
	rows, err := s.db.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get friends: %w", err)
	}
	defer rows.Close()

	var friends []*user.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan friend: %w", err)
		}
		friends = append(friends, u)
	}
	return friends, rows.Err()
}

func qualifiedUserColumns(alias string) string {
	return alias + `.id, ` + alias + `.email, ` + alias + `.username, ` + alias + `.age, ` + alias + `.gender, ` +
		alias + `.fitness_goals, ` + alias + `.timezone, ` + alias + `.image_url, ` + alias + `.total_activities, ` +
		alias + `.created_at, ` + alias + `.updated_at`
}
