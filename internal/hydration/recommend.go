package hydration

import "fmt"

const (
	// lowIntakeThresholdMl is the average daily intake below which
	// the low intake advice kicks in
	lowIntakeThresholdMl = 2000
	// lowConsistencyThreshold is the consistency score below which
	// the consistency advice kicks in
	lowConsistencyThreshold = 50
)

// Recommend returns advisory messages for the given pattern values.
// The three rules are independent and always evaluated in the same order,
// so the output length varies between 0 and 5.
func Recommend(averageDaily int, consistency float64, bestHour string) []string {
	recommendations := make([]string, 0, 5)

	if averageDaily < lowIntakeThresholdMl {
		recommendations = append(recommendations,
			"Your average daily intake is below 2 liters, try to drink more water",
			"Set hourly reminders to build a steady drinking habit",
		)
	}

	if consistency < lowConsistencyThreshold {
		recommendations = append(recommendations,
			"Your daily intake varies a lot, aim for a similar amount every day",
			"Pick a daily goal and try to hit it every day",
		)
	}

	if bestHour != "" {
		recommendations = append(recommendations,
			fmt.Sprintf("You drink the most between %s, use that window to stay on track", bestHour),
		)
	}

	return recommendations
}
