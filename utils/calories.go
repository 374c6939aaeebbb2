package utils

import "math"

// Rough per-minute calorie burn by activity type. Only used to fill in a
// default when the client logs an activity without a calorie count.
var caloriesPerMinute = map[string]float64{
	"gym":  6.0,
	"run":  10.0,
	"walk": 4.0,
	"yoga": 3.0,
}

func EstimateCalories(activityType string, durationMinutes int) int {
	rate, ok := caloriesPerMinute[activityType]
	if !ok {
		rate = 5.0
	}
	return int(math.Round(rate * float64(durationMinutes)))
}
