package services

import (
	"context"
	"fmt"
	"log"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"getFitAPI/internal/streak"
	"getFitAPI/internal/types/leaderboard"
)

const globalLeaderboardSize = 50

// LeaderboardService ranks friend groups by their cached streak states. It
// reads a snapshot of every member's state within a single call and never
// writes; ordering is fully deterministic (current streak desc, longest
// streak desc, user ID asc).
type LeaderboardService struct {
	db         *pgxpool.Pool
	activities *ActivityService
}

func NewLeaderboardService(db *pgxpool.Pool, activities *ActivityService) *LeaderboardService {
	return &LeaderboardService{db: db, activities: activities}
}

func (s *LeaderboardService) GetFriendsLeaderboard(ctx context.Context, userID uuid.UUID) (*leaderboard.Leaderboard, error) {
	query := `
	SELECT u.id, u.username, u.image_url
	FROM users u
	WHERE u.id = $1
	   OR EXISTS (
		SELECT 1 FROM friendships f
		WHERE f.status = 'accepted'
		  AND ((f.user_id = $1 AND f.friend_id = u.id) OR (f.friend_id = $1 AND f.user_id = u.id))
	   )
	`
	entries, err := s.collectEntries(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	return s.assemble(userID, entries), nil
}

func (s *LeaderboardService) GetGlobalLeaderboard(ctx context.Context, userID uuid.UUID) (*leaderboard.Leaderboard, error) {
	query := `
	SELECT u.id, u.username, u.image_url
	FROM users u
	ORDER BY u.total_activities DESC, u.created_at ASC
	LIMIT 100
	`
	entries, err := s.collectEntries(ctx, query)
	if err != nil {
		return nil, err
	}

	board := s.assemble(userID, entries)
	if len(board.Entries) > globalLeaderboardSize {
		board.Entries = board.Entries[:globalLeaderboardSize]
	}
	return board, nil
}

// collectEntries fetches the member rows, then reads each member's streak
// state once so the whole board ranks against a consistent snapshot.
func (s *LeaderboardService) collectEntries(ctx context.Context, query string, args ...any) ([]*leaderboard.LeaderboardEntry, error) {
	rows, err := s.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch leaderboard members: %w", err)
	}
	defer rows.Close()

	var entries []*leaderboard.LeaderboardEntry
	for rows.Next() {
		entry := &leaderboard.LeaderboardEntry{}
		if err := rows.Scan(&entry.UserID, &entry.Username, &entry.ImageURL); err != nil {
			return nil, fmt.Errorf("failed to scan leaderboard member: %w", err)
		}
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate leaderboard members: %w", err)
	}

	for _, entry := range entries {
		totals, err := s.activities.StreakTotals(ctx, entry.UserID)
		if err != nil {
			log.Printf("Leaderboard: skipping streak for %s: %v", entry.UserID, err)
			continue
		}
		entry.CurrentStreak = totals.CurrentStreak
		entry.LongestStreak = totals.LongestStreak
	}
	return entries, nil
}

func (s *LeaderboardService) assemble(userID uuid.UUID, entries []*leaderboard.LeaderboardEntry) *leaderboard.Leaderboard {
	entries = streak.Rank(entries)

	var userPosition *leaderboard.LeaderboardEntry
	for _, entry := range entries {
		if entry.UserID == userID {
			userPosition = entry
			break
		}
	}

	return &leaderboard.Leaderboard{
		Entries:      entries,
		UserPosition: userPosition,
		TotalUsers:   len(entries),
	}
}
