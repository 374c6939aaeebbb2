package streak

import (
	"bytes"
	"sort"

	"getFitAPI/internal/types/leaderboard"
)

// Rank orders leaderboard entries by current streak descending, breaking
// ties by longest streak descending and then user ID ascending, so equal
// streaks always present in the same order. Rank numbers are assigned
// sequentially after sorting. The input slice is sorted in place and
// returned; no state is read or written.
func Rank(entries []*leaderboard.LeaderboardEntry) []*leaderboard.LeaderboardEntry {
	sort.SliceStable(entries, func(i, j int) bool {
		a, b := entries[i], entries[j]
		if a.CurrentStreak != b.CurrentStreak {
			return a.CurrentStreak > b.CurrentStreak
		}
		if a.LongestStreak != b.LongestStreak {
			return a.LongestStreak > b.LongestStreak
		}
		return bytes.Compare(a.UserID[:], b.UserID[:]) < 0
	})

	for i, entry := range entries {
		entry.Rank = i + 1
	}
	return entries
}
