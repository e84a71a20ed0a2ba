package hydration

import (
	"errors"
	"fmt"
	"time"
)

var (
	ErrIntakeNotFound     = errors.New("intake event not found")
	ErrInvalidIntakeEvent = errors.New("invalid intake event")
)

// IntakeEvent is a single recorded water intake amount with a timestamp.
// Amount is in milliliters.
type IntakeEvent struct {
	ID        int       `json:"id"`
	UserID    int       `json:"userId"`
	Amount    int       `json:"amount"`
	Note      string    `json:"note,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// Validate checks the analyzer preconditions: a non-negative amount and
// a set timestamp. Caller data is not sanitized here, just rejected.
func (e IntakeEvent) Validate() error {
	if e.Amount < 0 {
		return fmt.Errorf("%w: negative amount %d", ErrInvalidIntakeEvent, e.Amount)
	}
	if e.Timestamp.IsZero() {
		return fmt.Errorf("%w: zero timestamp", ErrInvalidIntakeEvent)
	}
	return nil
}
