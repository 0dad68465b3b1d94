package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rbessin/Momentm/internal/models"
	"github.com/rbessin/Momentm/internal/repository"
	"github.com/rbessin/Momentm/internal/services"
)

type CompletionHandler struct {
	completionRepo repository.CompletionRepository
	habitService   *services.HabitService
}

func NewCompletionHandler(completionRepo repository.CompletionRepository, habitService *services.HabitService) *CompletionHandler {
	return &CompletionHandler{
		completionRepo: completionRepo,
		habitService:   habitService,
	}
}

func (handler *CompletionHandler) ListForHabit(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	habitID := chi.URLParam(r, "id")
	filter := repository.CompletionFilter{HabitID: &habitID}

	if from, ok := dateParam(r, "start", time.Time{}); !ok {
		writeError(w, http.StatusBadRequest, "invalid start date")
		return
	} else if !from.IsZero() {
		filter.From = &from
	}
	if to, ok := dateParam(r, "end", time.Time{}); !ok {
		writeError(w, http.StatusBadRequest, "invalid end date")
		return
	} else if !to.IsZero() {
		filter.To = &to
	}

	completions, err := handler.completionRepo.FindAll(ctx, filter)
	if err != nil {
		slog.Error("finding completions", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to load completions")
		return
	}
	if completions == nil {
		completions = []models.Completion{}
	}
	writeJSON(w, http.StatusOK, completions)
}

type completionRequest struct {
	Date  string `json:"date"`
	Count int    `json:"count"`
	Notes string `json:"notes"`
}

func (handler *CompletionHandler) Create(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	habitID := chi.URLParam(r, "id")

	var request completionRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	date := time.Now().UTC()
	if request.Date != "" {
		parsed, err := time.Parse(models.DateOnly, request.Date)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid date")
			return
		}
		date = parsed
	}

	completion, err := handler.habitService.LogCompletion(ctx, habitID, date, request.Count, request.Notes)
	if err != nil {
		if errors.Is(err, services.ErrHabitArchived) {
			writeError(w, http.StatusConflict, "habit is archived")
			return
		}
		slog.Error("logging completion", "habit_id", habitID, "error", err)
		writeError(w, http.StatusNotFound, "habit not found")
		return
	}
	writeJSON(w, http.StatusCreated, completion)
}

func (handler *CompletionHandler) Update(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id := chi.URLParam(r, "id")

	if _, err := handler.completionRepo.FindByID(ctx, id); err != nil {
		writeError(w, http.StatusNotFound, "completion not found")
		return
	}

	var request completionRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := handler.completionRepo.Update(ctx, id, request.Count, request.Notes); err != nil {
		slog.Error("updating completion", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to update completion")
		return
	}

	updated, err := handler.completionRepo.FindByID(ctx, id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to reload completion")
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

func (handler *CompletionHandler) Delete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id := chi.URLParam(r, "id")

	if _, err := handler.completionRepo.FindByID(ctx, id); err != nil {
		writeError(w, http.StatusNotFound, "completion not found")
		return
	}
	if err := handler.completionRepo.Delete(ctx, id); err != nil {
		slog.Error("deleting completion", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to delete completion")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
