package hydration

import (
	"context"
	"encoding/json"
	"errors"
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

//go:generate mockgen -source=$GOFILE -destination=handler_mocks_test.go -package=hydration_test

type intakeRepo interface {
	Add(ctx context.Context, event IntakeEvent) (*IntakeEvent, error)
	Get(ctx context.Context, id int) (*IntakeEvent, error)
	List(ctx context.Context, params ListParams) (_ []IntakeEvent, total int, err error)
	ListAll(ctx context.Context, params IntakeParams) (_ []IntakeEvent, err error)
	Delete(ctx context.Context, id int) error
	IntakesCount(ctx context.Context, params IntakeParams) (int, error)
	DailyTotal(ctx context.Context, userID int, day time.Time) (int, error)
}

type userResolver interface {
	ResolveID(ctx context.Context, phoneNumber string) (int, error)
}

type patternReportCache interface {
	Get(ctx context.Context, userID int, day string) (*PatternReport, bool)
	Set(ctx context.Context, userID int, day string, report *PatternReport)
	Invalidate(ctx context.Context, userID int, day string)
}

type LogIntakeRequest struct {
	Amount    int        `json:"amount"`
	Note      string     `json:"note,omitempty"`
	Timestamp *time.Time `json:"timestamp,omitempty"`
}

type LogIntakeResponse struct {
	IntakeEvent
	DailyTotal  int     `json:"dailyTotal"`
	Goal        int     `json:"goal"`
	Percentage  float64 `json:"percentage"`
	RemainingMl int     `json:"remainingMl"`
}

type TodayResponse struct {
	DailyTotal  int     `json:"dailyTotal"`
	Goal        int     `json:"goal"`
	Percentage  float64 `json:"percentage"`
	RemainingMl int     `json:"remainingMl"`
}

type ListResponse struct {
	Intakes []IntakeEvent `json:"intakes"`
	Total   int           `json:"total"`
}

type DeleteIntakeResponse struct {
	DeletedID int `json:"deletedId"`
}

type Handler struct {
	repo        intakeRepo
	analyzer    *Analyzer
	users       userResolver
	reportCache patternReportCache
	metrics     *metrics.Manager
	waterGoalMl int
}

func NewHandler(
	repo intakeRepo,
	users userResolver,
	reportCache patternReportCache,
	metricsManager *metrics.Manager,
	waterGoalMl int,
) *Handler {
	return &Handler{
		repo:        repo,
		analyzer:    NewAnalyzer(repo),
		users:       users,
		reportCache: reportCache,
		metrics:     metricsManager,
		waterGoalMl: waterGoalMl,
	}
}

func (handler *Handler) userID(ctx context.Context, r *http.Request) (int, error) {
	phoneNumber := r.Header.Get("X-User-Phone")
	if phoneNumber == "" {
		return 0, errors.New("user phone header empty")
	}
	return handler.users.ResolveID(ctx, phoneNumber)
}

func goalProgress(dailyTotal, goal int) (percentage float64, remaining int) {
	if goal > 0 {
		percentage = math.Min(100, float64(dailyTotal)/float64(goal)*100)
		percentage = math.Round(percentage*10) / 10
	}
	remaining = goal - dailyTotal
	if remaining < 0 {
		remaining = 0
	}
	return percentage, remaining
}

func (handler *Handler) HandleLog(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.hydration.log")
	defer span.End()

	if r.Header.Get("Content-Type") != "application/json" {
		http.Error(w, "invalid content type", http.StatusBadRequest)
		return
	}

	var req LogIntakeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Tracef("log intake, unmarshal json params: %s", err)
		http.Error(w, "log intake failed", http.StatusBadRequest)
		return
	}

	if req.Amount <= 0 {
		http.Error(w, "error, valid amount required", http.StatusBadRequest)
		return
	}

	userID, err := handler.userID(ctx, r)
	if err != nil {
		log.Errorf("log intake, resolve user: %s", err)
		http.Error(w, "error, user phone required", http.StatusBadRequest)
		return
	}

	timestamp := time.Now()
	if req.Timestamp != nil {
		timestamp = *req.Timestamp
	}

	addedEvent, err := handler.repo.Add(ctx, IntakeEvent{
		UserID:    userID,
		Amount:    req.Amount,
		Note:      req.Note,
		Timestamp: timestamp,
	})
	if err != nil {
		if errors.Is(err, ErrInvalidIntakeEvent) {
			log.Errorf("log intake for user %d, invalid event: %s", userID, err)
			http.Error(w, "error, invalid intake data", http.StatusBadRequest)
			return
		}
		log.Errorf("failed to log intake for user %d: %s", userID, err)
		http.Error(w, "error, failed to log intake", http.StatusInternalServerError)
		return
	}

	handler.metrics.CounterIntakeLogs.Inc()
	if handler.reportCache != nil {
		// reports are cached under the current day, a backdated event
		// still changes them
		handler.reportCache.Invalidate(ctx, userID, time.Now().Format("2006-01-02"))
	}

	dailyTotal, err := handler.repo.DailyTotal(ctx, userID, timestamp)
	if err != nil {
		// just log the error, no need to return error to the client
		log.Errorf("failed to get daily total for user %d: %s", userID, err)
		dailyTotal = addedEvent.Amount
	}

	percentage, remaining := goalProgress(dailyTotal, handler.waterGoalMl)
	respJson, err := json.Marshal(LogIntakeResponse{
		IntakeEvent: *addedEvent,
		DailyTotal:  dailyTotal,
		Goal:        handler.waterGoalMl,
		Percentage:  percentage,
		RemainingMl: remaining,
	})
	if err != nil {
		log.Errorf("failed to marshal logged intake: %s", err)
		http.Error(w, "error, failed to log intake", http.StatusInternalServerError)
		return
	}

	log.Debugf("new intake logged: %s", respJson)
	pkg.WriteResponseBytes(w, pkg.ContentType.JSON, respJson, http.StatusCreated)
}

func (handler *Handler) HandleToday(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.hydration.today")
	defer span.End()

	userID, err := handler.userID(ctx, r)
	if err != nil {
		log.Errorf("intake today, resolve user: %s", err)
		http.Error(w, "error, user phone required", http.StatusBadRequest)
		return
	}

	dailyTotal, err := handler.repo.DailyTotal(ctx, userID, time.Now())
	if err != nil {
		log.Errorf("failed to get daily total for user %d: %s", userID, err)
		http.Error(w, "failed to get intake for today", http.StatusInternalServerError)
		return
	}

	percentage, remaining := goalProgress(dailyTotal, handler.waterGoalMl)
	respJson, err := json.Marshal(TodayResponse{
		DailyTotal:  dailyTotal,
		Goal:        handler.waterGoalMl,
		Percentage:  percentage,
		RemainingMl: remaining,
	})
	if err != nil {
		log.Errorf("failed to marshal intake today response: %s", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	pkg.WriteResponseBytes(w, pkg.ContentType.JSON, respJson, http.StatusOK)
}

func (handler *Handler) HandlePattern(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.hydration.pattern")
	defer span.End()

	userID, err := handler.userID(ctx, r)
	if err != nil {
		log.Errorf("intake pattern, resolve user: %s", err)
		http.Error(w, "error, user phone required", http.StatusBadRequest)
		return
	}

	params := IntakeParams{UserID: userID}
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

	handler.metrics.CounterPatternReports.Inc()

	// full history reports are cached per user per day, bounded
	// reports are computed each time
	cacheable := params.From == nil && handler.reportCache != nil
	cacheDay := time.Now().Format("2006-01-02")
	if cacheable {
		if report, found := handler.reportCache.Get(ctx, userID, cacheDay); found {
			handler.metrics.CounterPatternCacheHits.Inc()
			reportJson, err := json.Marshal(report)
			if err != nil {
				log.Errorf("failed to marshal cached pattern report: %s", err)
				http.Error(w, "internal server error", http.StatusInternalServerError)
				return
			}
			pkg.WriteResponseBytes(w, pkg.ContentType.JSON, reportJson, http.StatusOK)
			return
		}
	}

	report, err := handler.analyzer.IntakePattern(ctx, params)
	if err != nil {
		if errors.Is(err, ErrInvalidIntakeEvent) {
			log.Errorf("intake pattern for user %d, invalid event: %s", userID, err)
			http.Error(w, "error, invalid intake data", http.StatusBadRequest)
			return
		}
		log.Errorf("failed to get intake pattern for user %d: %s", userID, err)
		http.Error(w, "failed to get intake pattern", http.StatusInternalServerError)
		return
	}

	if cacheable {
		handler.reportCache.Set(ctx, userID, cacheDay, report)
	}

	reportJson, err := json.Marshal(report)
	if err != nil {
		log.Errorf("failed to marshal pattern report: %s", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	pkg.WriteResponseBytes(w, pkg.ContentType.JSON, reportJson, http.StatusOK)
}

func (handler *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.hydration.list")
	defer span.End()

	userID, err := handler.userID(ctx, r)
	if err != nil {
		log.Errorf("list intakes, resolve user: %s", err)
		http.Error(w, "error, user phone required", http.StatusBadRequest)
		return
	}

	vars := mux.Vars(r)
	page, err := strconv.Atoi(vars["page"])
	if err != nil {
		log.Tracef("handle list intakes, from <page> param: %s", err)
		http.Error(w, "parse form error, parameter <page>", http.StatusBadRequest)
		return
	}
	size, err := strconv.Atoi(vars["size"])
	if err != nil {
		log.Tracef("handle list intakes, from <size> param: %s", err)
		http.Error(w, "parse form error, parameter <size>", http.StatusBadRequest)
		return
	}

	if page < 1 {
		http.Error(w, "invalid page (has to be non-zero value)", http.StatusBadRequest)
		return
	}
	if size < 1 {
		http.Error(w, "invalid size (has to be non-zero value)", http.StatusBadRequest)
		return
	}

	intakes, total, err := handler.repo.List(ctx, ListParams{
		IntakeParams: IntakeParams{UserID: userID},
		Page:         page,
		Size:         size,
	})
	if err != nil {
		log.Errorf("list intakes error: %s", err)
		http.Error(w, "failed to get intakes", http.StatusInternalServerError)
		return
	}

	respJson, err := json.Marshal(ListResponse{
		Intakes: intakes,
		Total:   total,
	})
	if err != nil {
		log.Errorf("marshal intakes error: %s", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	pkg.WriteResponseBytes(w, pkg.ContentType.JSON, respJson, http.StatusOK)
}

func (handler *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.hydration.delete")
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

	event, err := handler.repo.Get(ctx, id)
	if err != nil && !errors.Is(err, ErrIntakeNotFound) {
		log.Errorf("failed to get intake %d: %s", id, err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	} else if errors.Is(err, ErrIntakeNotFound) {
		log.Debugf("intake %d not found", id)
		http.Error(w, "intake not found", http.StatusNotFound)
		return
	}

	log.Debugf("deleting intake %+v", event)

	if err := handler.repo.Delete(ctx, id); err != nil {
		log.Errorf("failed to delete intake %d: %s", id, err)
		http.Error(w, "intake not deleted", http.StatusInternalServerError)
		return
	}

	if handler.reportCache != nil {
		// reports are cached under the current day, removing a past-day
		// event still changes them
		handler.reportCache.Invalidate(ctx, event.UserID, time.Now().Format("2006-01-02"))
	}

	deleteRespJson, err := json.Marshal(DeleteIntakeResponse{
		DeletedID: id,
	})
	if err != nil {
		log.Errorf("failed to marshal delete response: %s", err)
		http.Error(w, "failed to marshal delete response", http.StatusInternalServerError)
		return
	}

	pkg.WriteJSONResponseOK(w, string(deleteRespJson))
}
