package health

import (
	"errors"
	"fmt"
	"time"
)

var (
	ErrRecordNotFound = errors.New("health record not found")
	ErrInvalidRecord  = errors.New("invalid health record")
)

// Record is a daily snapshot of general health metrics. All metric
// fields are optional, a record with none of them set is rejected.
type Record struct {
	ID          int        `json:"id"`
	UserID      int        `json:"userId"`
	WeightKg    *float64   `json:"weightKg,omitempty"`
	SleepHours  *float64   `json:"sleepHours,omitempty"`
	MoodScore   *int       `json:"moodScore,omitempty"`
	EnergyLevel *int       `json:"energyLevel,omitempty"`
	Notes       string     `json:"notes,omitempty"`
	RecordDate  time.Time  `json:"recordDate"`
	CreatedAt   time.Time  `json:"createdAt"`
}

func (rec Record) Validate() error {
	if rec.WeightKg == nil && rec.SleepHours == nil && rec.MoodScore == nil && rec.EnergyLevel == nil {
		return fmt.Errorf("%w: no metrics set", ErrInvalidRecord)
	}
	if rec.WeightKg != nil && *rec.WeightKg <= 0 {
		return fmt.Errorf("%w: weight must be greater than 0", ErrInvalidRecord)
	}
	if rec.SleepHours != nil && (*rec.SleepHours < 0 || *rec.SleepHours > 24) {
		return fmt.Errorf("%w: sleep hours must be between 0 and 24", ErrInvalidRecord)
	}
	if rec.MoodScore != nil && (*rec.MoodScore < 1 || *rec.MoodScore > 10) {
		return fmt.Errorf("%w: mood score must be between 1 and 10", ErrInvalidRecord)
	}
	if rec.EnergyLevel != nil && (*rec.EnergyLevel < 1 || *rec.EnergyLevel > 10) {
		return fmt.Errorf("%w: energy level must be between 1 and 10", ErrInvalidRecord)
	}
	return nil
}
