package steps

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"

	"github.com/2beens/healthtrack/internal/telemetry/metrics"
	"github.com/2beens/healthtrack/internal/telemetry/tracing"
	"github.com/2beens/healthtrack/pkg"
)

//go:generate mockgen -source=$GOFILE -destination=handler_mocks_test.go -package=steps_test

type stepsRepo interface {
	Add(ctx context.Context, entry Entry) (*Entry, error)
	Delete(ctx context.Context, id int) error
	ListAll(ctx context.Context, params EntryParams) ([]Entry, error)
	DailyTotal(ctx context.Context, userID int, day time.Time) (int, error)
}

type userResolver interface {
	ResolveID(ctx context.Context, phoneNumber string) (int, error)
}

type LogStepsRequest struct {
	Steps      int        `json:"steps"`
	DistanceKm *float64   `json:"distanceKm,omitempty"`
	Calories   *float64   `json:"calories,omitempty"`
	Timestamp  *time.Time `json:"timestamp,omitempty"`
}

type LogStepsResponse struct {
	Entry
	DailyTotal int     `json:"dailyTotal"`
	Goal       int     `json:"goal"`
	Percentage float64 `json:"percentage"`
	Status     string  `json:"status"`
}

type TodayResponse struct {
	DailyTotal int     `json:"dailyTotal"`
	Goal       int     `json:"goal"`
	Percentage float64 `json:"percentage"`
	Status     string  `json:"status"`
}

type ListResponse struct {
	Entries []Entry `json:"entries"`
}

type DeleteEntryResponse struct {
	DeletedID int `json:"deletedId"`
}

type Handler struct {
	repo      stepsRepo
	users     userResolver
	metrics   *metrics.Manager
	stepsGoal int
}

func NewHandler(
	repo stepsRepo,
	users userResolver,
	metricsManager *metrics.Manager,
	stepsGoal int,
) *Handler {
	return &Handler{
		repo:      repo,
		users:     users,
		metrics:   metricsManager,
		stepsGoal: stepsGoal,
	}
}

func (handler *Handler) userID(ctx context.Context, r *http.Request) (int, error) {
	phoneNumber := r.Header.Get("X-User-Phone")
	if phoneNumber == "" {
		return 0, errors.New("user phone header empty")
	}
	return handler.users.ResolveID(ctx, phoneNumber)
}

func (handler *Handler) goalStatus(dailyTotal int) (percentage float64, status string) {
	if handler.stepsGoal > 0 {
		percentage = math.Min(100, float64(dailyTotal)/float64(handler.stepsGoal)*100)
		percentage = math.Round(percentage*10) / 10
	}
	if dailyTotal >= handler.stepsGoal {
		status = "goal reached, great job"
	} else {
		status = fmt.Sprintf("%d steps to go", handler.stepsGoal-dailyTotal)
	}
	return percentage, status
}

func (handler *Handler) HandleLog(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.steps.log")
	defer span.End()

	if r.Header.Get("Content-Type") != "application/json" {
		http.Error(w, "invalid content type", http.StatusBadRequest)
		return
	}

	var req LogStepsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Tracef("log steps, unmarshal json params: %s", err)
		http.Error(w, "log steps failed", http.StatusBadRequest)
		return
	}

	if req.Steps <= 0 {
		http.Error(w, "error, valid steps count required", http.StatusBadRequest)
		return
	}

	userID, err := handler.userID(ctx, r)
	if err != nil {
		log.Errorf("log steps, resolve user: %s", err)
		http.Error(w, "error, user phone required", http.StatusBadRequest)
		return
	}

	timestamp := time.Now()
	if req.Timestamp != nil {
		timestamp = *req.Timestamp
	}

	addedEntry, err := handler.repo.Add(ctx, Entry{
		UserID:     userID,
		Steps:      req.Steps,
		DistanceKm: req.DistanceKm,
		Calories:   req.Calories,
		Timestamp:  timestamp,
	})
	if err != nil {
		log.Errorf("failed to log steps for user %d: %s", userID, err)
		http.Error(w, "error, failed to log steps", http.StatusInternalServerError)
		return
	}

	handler.metrics.CounterStepLogs.Inc()

	dailyTotal, err := handler.repo.DailyTotal(ctx, userID, timestamp)
	if err != nil {
		// just log the error, no need to return error to the client
		log.Errorf("failed to get daily steps total for user %d: %s", userID, err)
		dailyTotal = addedEntry.Steps
	}

	percentage, status := handler.goalStatus(dailyTotal)
	respJson, err := json.Marshal(LogStepsResponse{
		Entry:      *addedEntry,
		DailyTotal: dailyTotal,
		Goal:       handler.stepsGoal,
		Percentage: percentage,
		Status:     status,
	})
	if err != nil {
		log.Errorf("failed to marshal logged steps: %s", err)
		http.Error(w, "error, failed to log steps", http.StatusInternalServerError)
		return
	}

	log.Debugf("new steps logged: %s", respJson)
	pkg.WriteResponseBytes(w, pkg.ContentType.JSON, respJson, http.StatusCreated)
}

func (handler *Handler) HandleToday(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.steps.today")
	defer span.End()

	userID, err := handler.userID(ctx, r)
	if err != nil {
		log.Errorf("steps today, resolve user: %s", err)
		http.Error(w, "error, user phone required", http.StatusBadRequest)
		return
	}

	dailyTotal, err := handler.repo.DailyTotal(ctx, userID, time.Now())
	if err != nil {
		log.Errorf("failed to get daily steps total for user %d: %s", userID, err)
		http.Error(w, "failed to get steps for today", http.StatusInternalServerError)
		return
	}

	percentage, status := handler.goalStatus(dailyTotal)
	respJson, err := json.Marshal(TodayResponse{
		DailyTotal: dailyTotal,
		Goal:       handler.stepsGoal,
		Percentage: percentage,
		Status:     status,
	})
	if err != nil {
		log.Errorf("failed to marshal steps today response: %s", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	pkg.WriteResponseBytes(w, pkg.ContentType.JSON, respJson, http.StatusOK)
}

func (handler *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.steps.list")
	defer span.End()

	userID, err := handler.userID(ctx, r)
	if err != nil {
		log.Errorf("list steps, resolve user: %s", err)
		http.Error(w, "error, user phone required", http.StatusBadRequest)
		return
	}

	params := EntryParams{UserID: userID}
	daysStr := r.URL.Query().Get("days")
	if daysStr != "" {
		days, err := strconv.Atoi(daysStr)
		if err != nil || days < 1 {
			http.Error(w, "error, invalid days param", http.StatusBadRequest)
			return
		}
		from := time.Now().AddDate(0, 0, -days)
		params.From = &from
	}

	entries, err := handler.repo.ListAll(ctx, params)
	if err != nil {
		log.Errorf("list steps error: %s", err)
		http.Error(w, "failed to get step entries", http.StatusInternalServerError)
		return
	}

	respJson, err := json.Marshal(ListResponse{Entries: entries})
	if err != nil {
		log.Errorf("marshal step entries error: %s", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	pkg.WriteResponseBytes(w, pkg.ContentType.JSON, respJson, http.StatusOK)
}

func (handler *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.steps.delete")
	defer span.End()

	vars := mux.Vars(r)
	idStr := vars["id"]
	if idStr == "" {
		http.Error(w, "error, id empty", http.StatusBadRequest)
		return
	}
	id, err := strconv.Atoi(idStr)
	if err != nil {
		http.Error(w, "error, id NaN", http.StatusBadRequest)
		return
	}

	log.Debugf("deleting step entry %d", id)

	if err := handler.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, ErrEntryNotFound) {
			log.Debugf("step entry %d not found", id)
			http.Error(w, "step entry not found", http.StatusNotFound)
			return
		}
		log.Errorf("failed to delete step entry %d: %s", id, err)
		http.Error(w, "step entry not deleted", http.StatusInternalServerError)
		return
	}

	deleteRespJson, err := json.Marshal(DeleteEntryResponse{
		DeletedID: id,
	})
	if err != nil {
		log.Errorf("failed to marshal delete response: %s", err)
		http.Error(w, "failed to marshal delete response", http.StatusInternalServerError)
		return
	}

	pkg.WriteJSONResponseOK(w, string(deleteRespJson))
}
