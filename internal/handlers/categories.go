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

type CategoryHandler struct {
	categoryRepo repository.CategoryRepository
}

func NewCategoryHandler(categoryRepo repository.CategoryRepository) *CategoryHandler {
	return &CategoryHandler{categoryRepo: categoryRepo}
}

type categoryRequest struct {
	Name string `json:"name"`
}

func (handler *CategoryHandler) List(w http.ResponseWriter, r *http.Request) {
	categories, err := handler.categoryRepo.FindAll(r.Context())
	if err != nil {
		slog.Error("finding categories", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to load categories")
		return
	}
	if categories == nil {
		categories = []models.Category{}
	}
	writeJSON(w, http.StatusOK, categories)
}

func (handler *CategoryHandler) Create(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	user := middleware.GetUser(ctx)

	var request categoryRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil || request.Name == "" {
		writeError(w, http.StatusBadRequest, "name is required")
		return
	}

	created, err := handler.categoryRepo.Create(ctx, models.Category{
		Name:            request.Name,
		CreatedByUserID: user.ID,
	})
	if err != nil {
		slog.Error("creating category", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to create category")
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

func (handler *CategoryHandler) Update(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id := chi.URLParam(r, "id")

	var request categoryRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil || request.Name == "" {
		writeError(w, http.StatusBadRequest, "name is required")
		return
	}

	if _, err := handler.categoryRepo.FindByID(ctx, id); err != nil {
		writeError(w, http.StatusNotFound, "category not found")
		return
	}
	if err := handler.categoryRepo.Update(ctx, id, request.Name); err != nil {
		slog.Error("updating category", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to update category")
		return
	}

	category, err := handler.categoryRepo.FindByID(ctx, id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to reload category")
		return
	}
	writeJSON(w, http.StatusOK, category)
}

func (handler *CategoryHandler) Delete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id := chi.URLParam(r, "id")

	if _, err := handler.categoryRepo.FindByID(ctx, id); err != nil {
		writeError(w, http.StatusNotFound, "category not found")
		return
	}
	if err := handler.categoryRepo.Delete(ctx, id); err != nil {
		slog.Error("deleting category", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to delete category")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
