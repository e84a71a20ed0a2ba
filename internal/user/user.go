package user

import (
	"errors"
	"time"
)

var ErrUserNotFound = errors.New("user not found")

// User is a tracked person, identified by their phone number. Profile
// fields are optional, a user record gets created on their first log.
type User struct {
	ID            int       `json:"id"`
	PhoneNumber   string    `json:"phoneNumber"`
	Name          string    `json:"name,omitempty"`
	Age           int       `json:"age,omitempty"`
	Gender        string    `json:"gender,omitempty"`
	HeightCm      float64   `json:"heightCm,omitempty"`
	WeightKg      float64   `json:"weightKg,omitempty"`
	ActivityLevel string    `json:"activityLevel,omitempty"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}
