package services

import (
	"time"

	"github.com/rbessin/Momentm/internal/models"
)

// CompletionsForDate filters completions to the ones logged for the habit on
// the given calendar date. There may be several; totals are summed across
// them rather than assuming one record per day.
func CompletionsForDate(completions []models.Completion, habitID string, date time.Time) []models.Completion {
	date = DateOf(date)
	var matching []models.Completion
	for _, completion := range completions {
		if completion.HabitID == habitID && DateOf(completion.CompletedDate).Equal(date) {
			matching = append(matching, completion)
		}
	}
	return matching
}

// TotalCountForDate sums the counts of every completion logged for the habit
// on the date, 0 when none.
func TotalCountForDate(completions []models.Completion, habitID string, date time.Time) int {
	total := 0
	for _, completion := range CompletionsForDate(completions, habitID, date) {
		total += completion.Count
	}
	return total
}

// IsFullyCompleted reports whether the habit's completion criterion is met on
// the date: any completion for simple habits, count >= target for count
// habits.
func IsFullyCompleted(habit models.Habit, completions []models.Completion, date time.Time) bool {
	total := TotalCountForDate(completions, habit.ID, date)
	if habit.CompletionType == models.CompletionCount {
		return total >= effectiveTarget(habit)
	}
	return total > 0
}

// CompletionProgress reports progress toward the date's target in [0, 1].
// Simple habits are all-or-nothing; count habits are capped at 1 even when
// over-completed.
func CompletionProgress(habit models.Habit, completions []models.Completion, date time.Time) float64 {
	if habit.CompletionType != models.CompletionCount {
		if IsFullyCompleted(habit, completions, date) {
			return 1
		}
		return 0
	}

	total := TotalCountForDate(completions, habit.ID, date)
	progress := float64(total) / float64(effectiveTarget(habit))
	if progress > 1 {
		return 1
	}
	return progress
}

// effectiveTarget treats an unset or zero target as 1, so a count habit with
// no configured target completes on its first logged count. The same default
// applies everywhere a target is consulted.
func effectiveTarget(habit models.Habit) int {
	if habit.TargetCount < 1 {
		return 1
	}
	return habit.TargetCount
}
