package steps

import (
	"errors"
	"time"
)

var ErrEntryNotFound = errors.New("step entry not found")

// Entry is a single recorded batch of steps.
type Entry struct {
	ID         int       `json:"id"`
	UserID     int       `json:"userId"`
	Steps      int       `json:"steps"`
	DistanceKm *float64  `json:"distanceKm,omitempty"`
	Calories   *float64  `json:"calories,omitempty"`
	Timestamp  time.Time `json:"timestamp"`
}
