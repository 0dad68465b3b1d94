package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/rbessin/Momentm/internal/models"
)

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}

// dateParam reads a YYYY-MM-DD query parameter, returning fallback when the
// parameter is absent. A malformed value reports ok=false.
func dateParam(r *http.Request, name string, fallback time.Time) (time.Time, bool) {
	value := r.URL.Query().Get(name)
	if value == "" {
		return fallback, true
	}
	date, err := time.Parse(models.DateOnly, value)
	if err != nil {
		return time.Time{}, false
	}
	return date, true
}

// statsWindow resolves the start/end query parameters, defaulting to the 30
// days ending today.
func statsWindow(r *http.Request) (time.Time, time.Time, bool) {
	now := time.Now().UTC()
	end, ok := dateParam(r, "end", now)
	if !ok {
		return time.Time{}, time.Time{}, false
	}
	start, ok := dateParam(r, "start", end.AddDate(0, 0, -29))
	if !ok {
		return time.Time{}, time.Time{}, false
	}
	return start, end, true
}
