package tips

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	log "github.com/sirupsen/logrus"

	"github.com/2beens/healthtrack/internal/telemetry/tracing"
	"github.com/2beens/healthtrack/pkg"
)

//go:generate mockgen -source=$GOFILE -destination=handler_mocks_test.go -package=tips_test

type tipsRepo interface {
	Add(ctx context.Context, tip Tip) (*Tip, error)
	Random(ctx context.Context, category string) (*Tip, error)
}

type Handler struct {
	repo tipsRepo
}

func NewHandler(repo tipsRepo) *Handler {
	return &Handler{
		repo: repo,
	}
}

// HandleRandom returns a random health tip, the category query param
// narrows it down.
func (handler *Handler) HandleRandom(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.tips.random")
	defer span.End()

	category := r.URL.Query().Get("category")

	tip, err := handler.repo.Random(ctx, category)
	if err != nil {
		if errors.Is(err, ErrNoTips) {
			http.Error(w, "no tips found", http.StatusNotFound)
			return
		}
		log.Errorf("failed to get random tip: %s", err)
		http.Error(w, "failed to get tip", http.StatusInternalServerError)
		return
	}

	tipJson, err := json.Marshal(tip)
	if err != nil {
		log.Errorf("failed to marshal tip: %s", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	pkg.WriteResponseBytes(w, pkg.ContentType.JSON, tipJson, http.StatusOK)
}

func (handler *Handler) HandleAdd(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.tips.add")
	defer span.End()

	if r.Header.Get("Content-Type") != "application/json" {
		http.Error(w, "invalid content type", http.StatusBadRequest)
		return
	}

	var tip Tip
	if err := json.NewDecoder(r.Body).Decode(&tip); err != nil {
		log.Tracef("add tip, unmarshal json params: %s", err)
		http.Error(w, "add tip failed", http.StatusBadRequest)
		return
	}

	if tip.Content == "" {
		http.Error(w, "error, tip content empty", http.StatusBadRequest)
		return
	}

	addedTip, err := handler.repo.Add(ctx, tip)
	if err != nil {
		log.Errorf("failed to add tip: %s", err)
		http.Error(w, "error, failed to add tip", http.StatusInternalServerError)
		return
	}

	tipJson, err := json.Marshal(addedTip)
	if err != nil {
		log.Errorf("failed to marshal added tip: %s", err)
		http.Error(w, "error, failed to add tip", http.StatusInternalServerError)
		return
	}

	log.Debugf("new tip added: %d", addedTip.ID)
	pkg.WriteResponseBytes(w, pkg.ContentType.JSON, tipJson, http.StatusCreated)
}
