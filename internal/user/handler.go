package user

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	log "github.com/sirupsen/logrus"

	"github.com/2beens/healthtrack/internal/telemetry/tracing"
	"github.com/2beens/healthtrack/pkg"
)

//go:generate mockgen -source=$GOFILE -destination=handler_mocks_test.go -package=user_test

type userService interface {
	GetByPhone(ctx context.Context, phoneNumber string) (*User, error)
	UpdateProfile(ctx context.Context, u *User) error
}

type UpdateProfileRequest struct {
	Name          string  `json:"name"`
	Age           int     `json:"age"`
	Gender        string  `json:"gender"`
	HeightCm      float64 `json:"heightCm"`
	WeightKg      float64 `json:"weightKg"`
	ActivityLevel string  `json:"activityLevel"`
}

type Handler struct {
	service userService
}

func NewHandler(service userService) *Handler {
	return &Handler{
		service: service,
	}
}

func (handler *Handler) HandleGetProfile(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.user.profile")
	defer span.End()

	phoneNumber := r.Header.Get("X-User-Phone")
	if phoneNumber == "" {
		http.Error(w, "error, user phone required", http.StatusBadRequest)
		return
	}

	u, err := handler.service.GetByPhone(ctx, phoneNumber)
	if err != nil {
		log.Errorf("failed to get user profile: %s", err)
		http.Error(w, "failed to get user profile", http.StatusInternalServerError)
		return
	}

	userJson, err := json.Marshal(u)
	if err != nil {
		log.Errorf("failed to marshal user profile: %s", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	pkg.WriteResponseBytes(w, pkg.ContentType.JSON, userJson, http.StatusOK)
}

func (handler *Handler) HandleUpdateProfile(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.user.updateProfile")
	defer span.End()

	if r.Header.Get("Content-Type") != "application/json" {
		http.Error(w, "invalid content type", http.StatusBadRequest)
		return
	}

	phoneNumber := r.Header.Get("X-User-Phone")
	if phoneNumber == "" {
		http.Error(w, "error, user phone required", http.StatusBadRequest)
		return
	}

	var req UpdateProfileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Tracef("update profile, unmarshal json params: %s", err)
		http.Error(w, "update profile failed", http.StatusBadRequest)
		return
	}

	u, err := handler.service.GetByPhone(ctx, phoneNumber)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			http.Error(w, "user not found", http.StatusNotFound)
			return
		}
		log.Errorf("update profile, get user: %s", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	u.Name = req.Name
	u.Age = req.Age
	u.Gender = req.Gender
	u.HeightCm = req.HeightCm
	u.WeightKg = req.WeightKg
	u.ActivityLevel = req.ActivityLevel

	if err := handler.service.UpdateProfile(ctx, u); err != nil {
		log.Errorf("failed to update user profile %d: %s", u.ID, err)
		http.Error(w, "error, failed to update profile", http.StatusInternalServerError)
		return
	}

	updatedJson, err := json.Marshal(u)
	if err != nil {
		log.Errorf("failed to marshal updated profile: %s", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	log.Debugf("user profile updated: %d", u.ID)
	pkg.WriteResponseBytes(w, pkg.ContentType.JSON, updatedJson, http.StatusOK)
}
