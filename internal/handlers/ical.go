package handlers

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/rbessin/Momentm/internal/services"
)

// Days of schedule the feed looks ahead.
const feedWindowDays = 60

type ICalHandler struct {
	habitService *services.HabitService
}

func NewICalHandler(habitService *services.HabitService) *ICalHandler {
	return &ICalHandler{habitService: habitService}
}

// Feed serves upcoming habit occurrences as an iCalendar document, for
// subscribing from a calendar client.
func (handler *ICalHandler) Feed(w http.ResponseWriter, r *http.Request) {
	start := services.DateOf(time.Now())
	end := start.AddDate(0, 0, feedWindowDays)

	feed, err := handler.habitService.CalendarFeed(r.Context(), start, end)
	if err != nil {
		slog.Error("building calendar feed", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to build feed")
		return
	}

	w.Header().Set("Content-Type", "text/calendar; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="momentm.ics"`)
	w.Write([]byte(feed))
}
