package services

import (
	"time"

	"github.com/rbessin/Momentm/internal/models"
)

// streakWalkLimitDays bounds the backward streak walk. The walk is already
// finite (it cannot pass the habit's creation date), but the cap keeps cost
// predictable for habits with a corrupted creation date far in the past.
const streakWalkLimitDays = 365

// HabitStatistics summarizes a habit's performance over a date window.
type HabitStatistics struct {
	TotalActiveDays        int     `json:"total_active_days"`
	CompletedDays          int     `json:"completed_days"`
	CompletionRate         float64 `json:"completion_rate"`
	TotalCount             int     `json:"total_count"`
	CurrentStreak          int     `json:"current_streak"`
	PartiallyCompletedDays int     `json:"partially_completed_days"`
}

// CalculateStreak counts consecutive fully-completed scheduled days walking
// backward from the given date. Days the habit is not scheduled are skipped
// without breaking the streak; the first scheduled-but-incomplete day ends
// it. This is the current streak ending at from, not a best-ever streak.
func CalculateStreak(habit models.Habit, completions []models.Completion, from time.Time) int {
	history := CompletionDates(completions)
	from = DateOf(from)
	floor := from.AddDate(0, 0, -streakWalkLimitDays)

	streak := 0
	for date := from; !date.Before(floor); date = date.AddDate(0, 0, -1) {
		if !IsHabitActiveOn(habit, date, history) {
			continue
		}
		if !IsFullyCompleted(habit, completions, date) {
			break
		}
		streak++
	}
	return streak
}

// CalculateCompletionRate is the share of scheduled dates in [start, end]
// that were fully completed. A window with no scheduled dates reports 0,
// read as "no data" rather than full success.
func CalculateCompletionRate(habit models.Habit, completions []models.Completion, start, end time.Time) float64 {
	active := ActiveDatesInRange(habit, start, end, CompletionDates(completions))
	if len(active) == 0 {
		return 0
	}

	completed := 0
	for _, date := range active {
		if IsFullyCompleted(habit, completions, date) {
			completed++
		}
	}
	return float64(completed) / float64(len(active))
}

// GetHabitStatistics computes the window summary. Simple habits count
// completed days against scheduled days. Count habits measure total logged
// count against the window's total target; completions logged on days the
// habit was not scheduled (after an interval change, say) still count toward
// the total, so the rate can exceed 1 and is deliberately not clamped.
func GetHabitStatistics(habit models.Habit, completions []models.Completion, start, end time.Time) HabitStatistics {
	active := ActiveDatesInRange(habit, start, end, CompletionDates(completions))
	currentStreak := CalculateStreak(habit, completions, end)

	if habit.CompletionType != models.CompletionCount {
		completed := 0
		for _, date := range active {
			if IsFullyCompleted(habit, completions, date) {
				completed++
			}
		}

		rate := 0.0
		if len(active) > 0 {
			rate = float64(completed) / float64(len(active))
		}
		return HabitStatistics{
			TotalActiveDays: len(active),
			CompletedDays:   completed,
			CompletionRate:  rate,
			TotalCount:      completed,
			CurrentStreak:   currentStreak,
		}
	}

	target := effectiveTarget(habit)
	totalTarget := len(active) * target

	windowStart, windowEnd := DateOf(start), DateOf(end)
	totalCompleted := 0
	for _, completion := range completions {
		if completion.HabitID != habit.ID {
			continue
		}
		date := DateOf(completion.CompletedDate)
		if !date.Before(windowStart) && !date.After(windowEnd) {
			totalCompleted += completion.Count
		}
	}

	completed, partial := 0, 0
	for _, date := range active {
		count := TotalCountForDate(completions, habit.ID, date)
		switch {
		case count >= target:
			completed++
		case count > 0:
			partial++
		}
	}

	rate := 0.0
	if totalTarget > 0 {
		rate = float64(totalCompleted) / float64(totalTarget)
	}
	return HabitStatistics{
		TotalActiveDays:        len(active),
		CompletedDays:          completed,
		CompletionRate:         rate,
		TotalCount:             totalCompleted,
		CurrentStreak:          currentStreak,
		PartiallyCompletedDays: partial,
	}
}
