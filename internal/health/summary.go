package health

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/2beens/healthtrack/internal/telemetry/tracing"
)

//go:generate mockgen -source=$GOFILE -destination=summary_mocks_test.go -package=health_test

type dailyTotalReader interface {
	DailyTotal(ctx context.Context, userID int, day time.Time) (int, error)
}

type recordsReader interface {
	Latest(ctx context.Context, userID int) (*Record, error)
}

// Summary is the combined view of a user's day: water, steps and their
// latest health record.
type Summary struct {
	Date            string  `json:"date"`
	WaterTodayMl    int     `json:"waterTodayMl"`
	WaterGoalMl     int     `json:"waterGoalMl"`
	WaterPercentage float64 `json:"waterPercentage"`
	StepsToday      int     `json:"stepsToday"`
	StepsGoal       int     `json:"stepsGoal"`
	StepsPercentage float64 `json:"stepsPercentage"`
	LatestRecord    *Record `json:"latestRecord,omitempty"`
}

// SummaryService assembles daily summaries from the hydration, steps
// and health record stores.
type SummaryService struct {
	records     recordsReader
	waterTotals dailyTotalReader
	stepTotals  dailyTotalReader
	waterGoalMl int
	stepsGoal   int
}

func NewSummaryService(
	records recordsReader,
	waterTotals dailyTotalReader,
	stepTotals dailyTotalReader,
	waterGoalMl int,
	stepsGoal int,
) *SummaryService {
	return &SummaryService{
		records:     records,
		waterTotals: waterTotals,
		stepTotals:  stepTotals,
		waterGoalMl: waterGoalMl,
		stepsGoal:   stepsGoal,
	}
}

func (s *SummaryService) Summary(ctx context.Context, userID int) (_ *Summary, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "service.health.summary")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	now := time.Now()

	waterToday, err := s.waterTotals.DailyTotal(ctx, userID, now)
	if err != nil {
		return nil, fmt.Errorf("water daily total: %w", err)
	}

	stepsToday, err := s.stepTotals.DailyTotal(ctx, userID, now)
	if err != nil {
		return nil, fmt.Errorf("steps daily total: %w", err)
	}

	summary := &Summary{
		Date:            now.Format("2006-01-02"),
		WaterTodayMl:    waterToday,
		WaterGoalMl:     s.waterGoalMl,
		WaterPercentage: percentage(waterToday, s.waterGoalMl),
		StepsToday:      stepsToday,
		StepsGoal:       s.stepsGoal,
		StepsPercentage: percentage(stepsToday, s.stepsGoal),
	}

	latest, err := s.records.Latest(ctx, userID)
	if err != nil {
		if !errors.Is(err, ErrRecordNotFound) {
			return nil, fmt.Errorf("latest record: %w", err)
		}
		// no records yet, the summary goes out without one
	} else {
		summary.LatestRecord = latest
	}

	return summary, nil
}

func percentage(value, goal int) float64 {
	if goal <= 0 {
		return 0
	}
	p := math.Min(100, float64(value)/float64(goal)*100)
	return math.Round(p*10) / 10
}
