package handlers

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rbessin/Momentm/internal/models"
	"github.com/rbessin/Momentm/internal/services"
)

type StatsHandler struct {
	habitService *services.HabitService
}

func NewStatsHandler(habitService *services.HabitService) *StatsHandler {
	return &StatsHandler{habitService: habitService}
}

// HabitStats reports the statistics window for one habit, defaulting to the
// 30 days ending today.
func (handler *StatsHandler) HabitStats(w http.ResponseWriter, r *http.Request) {
	start, end, ok := statsWindow(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid date range")
		return
	}

	habit, stats, err := handler.habitService.Statistics(r.Context(), chi.URLParam(r, "id"), start, end)
	if err != nil {
		writeError(w, http.StatusNotFound, "habit not found")
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"habit_id":        habit.ID,
		"start":           services.DateOf(start).Format(models.DateOnly),
		"end":             services.DateOf(end).Format(models.DateOnly),
		"statistics":      stats,
		"recurrence_text": services.DescribeRule(habit.Recurrence),
	})
}

// HabitSchedule lists the habit's scheduled dates in the window with their
// completion state.
func (handler *StatsHandler) HabitSchedule(w http.ResponseWriter, r *http.Request) {
	start, end, ok := statsWindow(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid date range")
		return
	}

	days, err := handler.habitService.Schedule(r.Context(), chi.URLParam(r, "id"), start, end)
	if err != nil {
		writeError(w, http.StatusNotFound, "habit not found")
		return
	}
	writeJSON(w, http.StatusOK, days)
}

// Dashboard reports every active habit's state for one date (today by
// default): due or not, progress, and current streak.
func (handler *StatsHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	date, ok := dateParam(r, "date", time.Now().UTC())
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid date")
		return
	}

	entries, err := handler.habitService.Dashboard(r.Context(), date)
	if err != nil {
		slog.Error("building dashboard", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to load dashboard")
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"date":   services.DateOf(date).Format(models.DateOnly),
		"habits": entries,
	})
}
