package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rbessin/Momentm/internal/middleware"
	"github.com/rbessin/Momentm/internal/models"
	"github.com/rbessin/Momentm/internal/repository"
)

type HabitHandler struct {
	habitRepo    repository.HabitRepository
	categoryRepo repository.CategoryRepository
}

func NewHabitHandler(habitRepo repository.HabitRepository, categoryRepo repository.CategoryRepository) *HabitHandler {
	return &HabitHandler{
		habitRepo:    habitRepo,
		categoryRepo: categoryRepo,
	}
}

type habitRequest struct {
	Name           string                `json:"name"`
	Description    string                `json:"description"`
	CategoryID     *string               `json:"category_id"`
	Color          string                `json:"color"`
	Tags           []string              `json:"tags"`
	CompletionType models.CompletionType `json:"completion_type"`
	TargetCount    int                   `json:"target_count"`
	Recurrence     json.RawMessage       `json:"recurrence"`
}

func (request habitRequest) validate() (models.Rule, string) {
	if request.Name == "" {
		return nil, "name is required"
	}
	if len(request.Recurrence) == 0 {
		return nil, "recurrence is required"
	}
	rule, err := models.ParseRule(request.Recurrence)
	if err != nil {
		return nil, "invalid recurrence: " + err.Error()
	}
	switch request.CompletionType {
	case "", models.CompletionSimple, models.CompletionCount:
	default:
		return nil, "completion_type must be 'simple' or 'count'"
	}
	if request.TargetCount < 0 {
		return nil, "target_count must not be negative"
	}
	return rule, ""
}

func (handler *HabitHandler) List(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	filter := repository.HabitFilter{}

	if status := r.URL.Query().Get("status"); status != "" {
		s := models.HabitStatus(status)
		filter.Status = &s
	}
	if categoryID := r.URL.Query().Get("category"); categoryID != "" {
		filter.CategoryID = &categoryID
	}
	if tag := r.URL.Query().Get("tag"); tag != "" {
		filter.Tag = &tag
	}
	filter.Search = r.URL.Query().Get("q")

	habits, err := handler.habitRepo.FindAll(ctx, filter)
	if err != nil {
		slog.Error("finding habits", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to load habits")
		return
	}
	if habits == nil {
		habits = []models.Habit{}
	}
	writeJSON(w, http.StatusOK, habits)
}

func (handler *HabitHandler) Get(w http.ResponseWriter, r *http.Request) {
	habit, err := handler.habitRepo.FindByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusNotFound, "habit not found")
		return
	}
	writeJSON(w, http.StatusOK, habit)
}

func (handler *HabitHandler) Create(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	user := middleware.GetUser(ctx)

	var request habitRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	rule, problem := request.validate()
	if problem != "" {
		writeError(w, http.StatusBadRequest, problem)
		return
	}
	if request.CategoryID != nil {
		if _, err := handler.categoryRepo.FindByID(ctx, *request.CategoryID); err != nil {
			writeError(w, http.StatusBadRequest, "unknown category")
			return
		}
	}

	completionType := request.CompletionType
	if completionType == "" {
		completionType = models.CompletionSimple
	}

	created, err := handler.habitRepo.Create(ctx, models.Habit{
		Name:            request.Name,
		Description:     request.Description,
		CategoryID:      request.CategoryID,
		Color:           request.Color,
		Tags:            request.Tags,
		CreatedByUserID: user.ID,
		CompletionType:  completionType,
		TargetCount:     request.TargetCount,
		Recurrence:      rule,
	})
	if err != nil {
		slog.Error("creating habit", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to create habit")
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

func (handler *HabitHandler) Update(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	habit, err := handler.habitRepo.FindByID(ctx, chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusNotFound, "habit not found")
		return
	}

	var request habitRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	rule, problem := request.validate()
	if problem != "" {
		writeError(w, http.StatusBadRequest, problem)
		return
	}

	habit.Name = request.Name
	habit.Description = request.Description
	habit.CategoryID = request.CategoryID
	habit.Color = request.Color
	habit.Tags = request.Tags
	if request.CompletionType != "" {
		habit.CompletionType = request.CompletionType
	}
	habit.TargetCount = request.TargetCount
	habit.Recurrence = rule

	if err := handler.habitRepo.Update(ctx, habit); err != nil {
		slog.Error("updating habit", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to update habit")
		return
	}

	updated, err := handler.habitRepo.FindByID(ctx, habit.ID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to reload habit")
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

func (handler *HabitHandler) Archive(w http.ResponseWriter, r *http.Request) {
	handler.setStatus(w, r, models.HabitStatusArchived)
}

func (handler *HabitHandler) Unarchive(w http.ResponseWriter, r *http.Request) {
	handler.setStatus(w, r, models.HabitStatusActive)
}

func (handler *HabitHandler) setStatus(w http.ResponseWriter, r *http.Request, status models.HabitStatus) {
	ctx := r.Context()
	id := chi.URLParam(r, "id")

	if _, err := handler.habitRepo.FindByID(ctx, id); err != nil {
		writeError(w, http.StatusNotFound, "habit not found")
		return
	}
	if err := handler.habitRepo.SetStatus(ctx, id, status); err != nil {
		slog.Error("updating habit status", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to update habit")
		return
	}

	habit, err := handler.habitRepo.FindByID(ctx, id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to reload habit")
		return
	}
	writeJSON(w, http.StatusOK, habit)
}

// Delete removes the habit and, through the cascade, its completion history.
// Archiving is the reversible alternative.
func (handler *HabitHandler) Delete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id := chi.URLParam(r, "id")

	if _, err := handler.habitRepo.FindByID(ctx, id); err != nil {
		writeError(w, http.StatusNotFound, "habit not found")
		return
	}
	if err := handler.habitRepo.Delete(ctx, id); err != nil {
		slog.Error("deleting habit", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to delete habit")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
