package stats

type UserStats struct {
	TodayActive     bool `json:"today_active"`
	DaysThisWeek    int  `json:"days_this_week"`
	DaysThisMonth   int  `json:"days_this_month"`
	DaysThisYear    int  `json:"days_this_year"`
	TotalActiveDays int  `json:"total_active_days"`
	TotalActivities int  `json:"total_activities"`
	CurrentStreak   int  `json:"current_streak"`
	LongestStreak   int  `json:"longest_streak"`
}
