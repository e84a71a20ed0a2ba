package health

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/2beens/healthtrack/internal/telemetry/metrics"
	"github.com/2beens/healthtrack/internal/telemetry/tracing"
	"github.com/2beens/healthtrack/pkg"
)

//go:generate mockgen -source=$GOFILE -destination=handler_mocks_test.go -package=health_test

type recordsRepo interface {
	Add(ctx context.Context, rec Record) (*Record, error)
	Latest(ctx context.Context, userID int) (*Record, error)
	ListAll(ctx context.Context, params RecordParams) ([]Record, error)
	Delete(ctx context.Context, id int) error
}

type userResolver interface {
	ResolveID(ctx context.Context, phoneNumber string) (int, error)
}

type summaryProvider interface {
	Summary(ctx context.Context, userID int) (*Summary, error)
}

type AddRecordRequest struct {
	WeightKg    *float64   `json:"weightKg,omitempty"`
	SleepHours  *float64   `json:"sleepHours,omitempty"`
	MoodScore   *int       `json:"moodScore,omitempty"`
	EnergyLevel *int       `json:"energyLevel,omitempty"`
	Notes       string     `json:"notes,omitempty"`
	RecordDate  *time.Time `json:"recordDate,omitempty"`
}

type ListRecordsResponse struct {
	Records []Record `json:"records"`
}

type Handler struct {
	repo    recordsRepo
	users   userResolver
	summary summaryProvider
	metrics *metrics.Manager
}

func NewHandler(
	repo recordsRepo,
	users userResolver,
	summary summaryProvider,
	metricsManager *metrics.Manager,
) *Handler {
	return &Handler{
		repo:    repo,
		users:   users,
		summary: summary,
		metrics: metricsManager,
	}
}

func (handler *Handler) userID(ctx context.Context, r *http.Request) (int, error) {
	phoneNumber := r.Header.Get("X-User-Phone")
	if phoneNumber == "" {
		return 0, errors.New("user phone header empty")
	}
	return handler.users.ResolveID(ctx, phoneNumber)
}

func (handler *Handler) HandleAddRecord(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.health.addRecord")
	defer span.End()

	if r.Header.Get("Content-Type") != "application/json" {
		http.Error(w, "invalid content type", http.StatusBadRequest)
		return
	}

	var req AddRecordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Tracef("add health record, unmarshal json params: %s", err)
		http.Error(w, "add health record failed", http.StatusBadRequest)
		return
	}

	userID, err := handler.userID(ctx, r)
	if err != nil {
		log.Errorf("add health record, resolve user: %s", err)
		http.Error(w, "error, user phone required", http.StatusBadRequest)
		return
	}

	now := time.Now()
	recordDate := now
	if req.RecordDate != nil {
		recordDate = *req.RecordDate
	}

	rec := Record{
		UserID:      userID,
		WeightKg:    req.WeightKg,
		SleepHours:  req.SleepHours,
		MoodScore:   req.MoodScore,
		EnergyLevel: req.EnergyLevel,
		Notes:       req.Notes,
		RecordDate:  recordDate,
		CreatedAt:   now,
	}
	if err := rec.Validate(); err != nil {
		log.Tracef("add health record for user %d: %s", userID, err)
		http.Error(w, "error, invalid health record", http.StatusBadRequest)
		return
	}

	addedRecord, err := handler.repo.Add(ctx, rec)
	if err != nil {
		log.Errorf("failed to add health record for user %d: %s", userID, err)
		http.Error(w, "error, failed to add health record", http.StatusInternalServerError)
		return
	}

	handler.metrics.CounterHealthRecords.Inc()

	recordJson, err := json.Marshal(addedRecord)
	if err != nil {
		log.Errorf("failed to marshal added health record: %s", err)
		http.Error(w, "error, failed to add health record", http.StatusInternalServerError)
		return
	}

	log.Debugf("new health record added: %s", recordJson)
	pkg.WriteResponseBytes(w, pkg.ContentType.JSON, recordJson, http.StatusCreated)
}

func (handler *Handler) HandleLatestRecord(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.health.latestRecord")
	defer span.End()

	userID, err := handler.userID(ctx, r)
	if err != nil {
		log.Errorf("latest health record, resolve user: %s", err)
		http.Error(w, "error, user phone required", http.StatusBadRequest)
		return
	}

	latest, err := handler.repo.Latest(ctx, userID)
	if err != nil {
		if errors.Is(err, ErrRecordNotFound) {
			http.Error(w, "no health records yet", http.StatusNotFound)
			return
		}
		log.Errorf("failed to get latest health record for user %d: %s", userID, err)
		http.Error(w, "failed to get latest health record", http.StatusInternalServerError)
		return
	}

	recordJson, err := json.Marshal(latest)
	if err != nil {
		log.Errorf("failed to marshal latest health record: %s", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	pkg.WriteResponseBytes(w, pkg.ContentType.JSON, recordJson, http.StatusOK)
}

func (handler *Handler) HandleListRecords(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.health.listRecords")
	defer span.End()

	userID, err := handler.userID(ctx, r)
	if err != nil {
		log.Errorf("list health records, resolve user: %s", err)
		http.Error(w, "error, user phone required", http.StatusBadRequest)
		return
	}

	params := RecordParams{UserID: userID}
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

	records, err := handler.repo.ListAll(ctx, params)
	if err != nil {
		log.Errorf("list health records error: %s", err)
		http.Error(w, "failed to get health records", http.StatusInternalServerError)
		return
	}

	respJson, err := json.Marshal(ListRecordsResponse{Records: records})
	if err != nil {
		log.Errorf("marshal health records error: %s", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	pkg.WriteResponseBytes(w, pkg.ContentType.JSON, respJson, http.StatusOK)
}

func (handler *Handler) HandleSummary(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.health.summary")
	defer span.End()

	userID, err := handler.userID(ctx, r)
	if err != nil {
		log.Errorf("health summary, resolve user: %s", err)
		http.Error(w, "error, user phone required", http.StatusBadRequest)
		return
	}

	summary, err := handler.summary.Summary(ctx, userID)
	if err != nil {
		log.Errorf("failed to get health summary for user %d: %s", userID, err)
		http.Error(w, "failed to get health summary", http.StatusInternalServerError)
		return
	}

	summaryJson, err := json.Marshal(summary)
	if err != nil {
		log.Errorf("failed to marshal health summary: %s", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	pkg.WriteResponseBytes(w, pkg.ContentType.JSON, summaryJson, http.StatusOK)
}
