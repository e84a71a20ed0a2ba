package hydration

import (
	"context"
	"fmt"
	"math"

	"github.com/2beens/healthtrack/internal/telemetry/tracing"
)

// PatternReport is the result of analyzing a set of intake events.
type PatternReport struct {
	// AverageDaily is the mean of per-day totals, in ml, rounded to
	// the nearest whole number
	AverageDaily int `json:"averageDaily"`
	// BestHour is the hour-of-day window with the highest cumulative
	// intake, e.g. "8:00 - 9:00", or empty when there are no events
	BestHour string `json:"bestHour"`
	// Consistency scores day-to-day regularity from 0 to 100,
	// where 100 means every day had the same total
	Consistency float64 `json:"consistency"`
	// Recommendations holds advisory messages derived from the
	// values above, see Recommend
	Recommendations []string `json:"recommendations"`
}

// AnalyzePattern computes the intake pattern report for the given events.
// It is a pure function: same events in, same report out, input untouched.
// Days are bucketed by the calendar date of each event's timestamp, in the
// timestamp's own location.
func AnalyzePattern(events []IntakeEvent) (*PatternReport, error) {
	for i, event := range events {
		if err := event.Validate(); err != nil {
			return nil, fmt.Errorf("event %d: %w", i, err)
		}
	}

	if len(events) == 0 {
		return &PatternReport{
			Recommendations: []string{},
		}, nil
	}

	dailyTotals := make(map[string]int)
	var hourTotals [24]int
	for _, event := range events {
		dailyTotals[event.Timestamp.Format("2006-01-02")] += event.Amount
		hourTotals[event.Timestamp.Hour()] += event.Amount
	}

	var sum int
	for _, total := range dailyTotals {
		sum += total
	}
	average := float64(sum) / float64(len(dailyTotals))

	// ties go to the earliest hour, hence the strict comparison
	bestHour := 0
	for hour := 1; hour < 24; hour++ {
		if hourTotals[hour] > hourTotals[bestHour] {
			bestHour = hour
		}
	}

	averageDaily := int(math.Round(average))
	bestHourLabel := fmt.Sprintf("%d:00 - %d:00", bestHour, bestHour+1)
	consistency := consistencyScore(dailyTotals, average)

	return &PatternReport{
		AverageDaily:    averageDaily,
		BestHour:        bestHourLabel,
		Consistency:     consistency,
		Recommendations: Recommend(averageDaily, consistency, bestHourLabel),
	}, nil
}

// consistencyScore maps the coefficient of variation of the daily totals
// onto a 0-100 scale, clamped at zero. A single day scores 100 since the
// population std deviation is 0.
func consistencyScore(dailyTotals map[string]int, average float64) float64 {
	if average == 0 {
		return 0
	}

	var sumSquares float64
	for _, total := range dailyTotals {
		diff := float64(total) - average
		sumSquares += diff * diff
	}
	stdDev := math.Sqrt(sumSquares / float64(len(dailyTotals)))

	return math.Max(0, 100-(stdDev/average)*100)
}

// Analyzer produces pattern reports for events read from the repo.
type Analyzer struct {
	repo intakeRepo
}

func NewAnalyzer(repo intakeRepo) *Analyzer {
	return &Analyzer{
		repo: repo,
	}
}

func (a *Analyzer) IntakePattern(ctx context.Context, params IntakeParams) (report *PatternReport, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "analyzer.hydration.intakePattern")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	events, err := a.repo.ListAll(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("list intake events: %w", err)
	}

	return AnalyzePattern(events)
}
