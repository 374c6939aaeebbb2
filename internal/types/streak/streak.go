package streak

// CalendarActivity is one logged activity inside the streak calendar view.
type CalendarActivity struct {
	Type     string `json:"type"`
	Duration int    `json:"duration"`
	Calories *int   `json:"calories,omitempty"`
}

// StreakResponse mirrors the streak screen: the two streak numbers plus the
// last 30 days of activity grouped by ISO date.
type StreakResponse struct {
	CurrentStreak    int                           `json:"current_streak"`
	LongestStreak    int                           `json:"longest_streak"`
	ActivityCalendar map[string][]CalendarActivity `json:"activity_calendar"`
}
