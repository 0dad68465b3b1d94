package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rbessin/Momentm/internal/models"
	"github.com/rbessin/Momentm/internal/repository"
)

var ErrHabitArchived = errors.New("habit is archived")

// HabitService combines the store with the scheduling engine: it fetches a
// habit's completion snapshot and runs the pure evaluation functions over it.
type HabitService struct {
	habitRepo      repository.HabitRepository
	completionRepo repository.CompletionRepository
}

func NewHabitService(habitRepo repository.HabitRepository, completionRepo repository.CompletionRepository) *HabitService {
	return &HabitService{
		habitRepo:      habitRepo,
		completionRepo: completionRepo,
	}
}

// ScheduleDay is one scheduled date in a habit's schedule window, with its
// completion state.
type ScheduleDay struct {
	Date      string  `json:"date"`
	Completed bool    `json:"completed"`
	Progress  float64 `json:"progress"`
	Count     int     `json:"count"`
}

// DashboardEntry is one habit's due-today view.
type DashboardEntry struct {
	Habit         models.Habit `json:"habit"`
	Due           bool         `json:"due"`
	Completed     bool         `json:"completed"`
	Progress      float64      `json:"progress"`
	Count         int          `json:"count"`
	CurrentStreak int          `json:"current_streak"`
	Recurrence    string       `json:"recurrence_text"`
}

// LogCompletion records a completion for the habit on the given date.
// Archived habits no longer accept completions; past dates are fine.
func (service *HabitService) LogCompletion(ctx context.Context, habitID string, date time.Time, count int, notes string) (models.Completion, error) {
	habit, err := service.habitRepo.FindByID(ctx, habitID)
	if err != nil {
		return models.Completion{}, fmt.Errorf("finding habit: %w", err)
	}
	if habit.Status == models.HabitStatusArchived {
		return models.Completion{}, ErrHabitArchived
	}

	completion, err := service.completionRepo.Create(ctx, models.Completion{
		HabitID:       habitID,
		CompletedDate: DateOf(date),
		Count:         count,
		Notes:         notes,
	})
	if err != nil {
		return models.Completion{}, fmt.Errorf("logging completion: %w", err)
	}
	return completion, nil
}

// Statistics loads the habit and its full completion history and computes
// the window summary. History is loaded unbounded because "after N
// completions" end rules need completions from before the window.
func (service *HabitService) Statistics(ctx context.Context, habitID string, start, end time.Time) (models.Habit, HabitStatistics, error) {
	habit, err := service.habitRepo.FindByID(ctx, habitID)
	if err != nil {
		return models.Habit{}, HabitStatistics{}, fmt.Errorf("finding habit: %w", err)
	}

	completions, err := service.completionRepo.FindAll(ctx, repository.CompletionFilter{HabitID: &habitID})
	if err != nil {
		return models.Habit{}, HabitStatistics{}, fmt.Errorf("loading completions: %w", err)
	}

	return habit, GetHabitStatistics(habit, completions, start, end), nil
}

// Schedule lists the habit's scheduled dates in [start, end] with per-date
// completion state.
func (service *HabitService) Schedule(ctx context.Context, habitID string, start, end time.Time) ([]ScheduleDay, error) {
	habit, err := service.habitRepo.FindByID(ctx, habitID)
	if err != nil {
		return nil, fmt.Errorf("finding habit: %w", err)
	}

	completions, err := service.completionRepo.FindAll(ctx, repository.CompletionFilter{HabitID: &habitID})
	if err != nil {
		return nil, fmt.Errorf("loading completions: %w", err)
	}

	days := []ScheduleDay{}
	for _, date := range ActiveDatesInRange(habit, start, end, CompletionDates(completions)) {
		days = append(days, ScheduleDay{
			Date:      date.Format(models.DateOnly),
			Completed: IsFullyCompleted(habit, completions, date),
			Progress:  CompletionProgress(habit, completions, date),
			Count:     TotalCountForDate(completions, habit.ID, date),
		})
	}
	return days, nil
}

// Dashboard reports every active habit's state for the given date: whether
// it is due, its progress, and the streak ending at that date.
func (service *HabitService) Dashboard(ctx context.Context, date time.Time) ([]DashboardEntry, error) {
	status := models.HabitStatusActive
	habits, err := service.habitRepo.FindAll(ctx, repository.HabitFilter{Status: &status})
	if err != nil {
		return nil, fmt.Errorf("finding active habits: %w", err)
	}

	// One query for the whole board; group in memory.
	completions, err := service.completionRepo.FindAll(ctx, repository.CompletionFilter{})
	if err != nil {
		return nil, fmt.Errorf("loading completions: %w", err)
	}
	byHabit := make(map[string][]models.Completion)
	for _, completion := range completions {
		byHabit[completion.HabitID] = append(byHabit[completion.HabitID], completion)
	}

	entries := []DashboardEntry{}
	for _, habit := range habits {
		habitCompletions := byHabit[habit.ID]
		entry := DashboardEntry{
			Habit:         habit,
			Due:           IsHabitActiveOn(habit, date, CompletionDates(habitCompletions)),
			CurrentStreak: CalculateStreak(habit, habitCompletions, date),
			Recurrence:    DescribeRule(habit.Recurrence),
		}
		if entry.Due {
			entry.Completed = IsFullyCompleted(habit, habitCompletions, date)
			entry.Progress = CompletionProgress(habit, habitCompletions, date)
			entry.Count = TotalCountForDate(habitCompletions, habit.ID, date)
		}
		entries = append(entries, entry)
	}
	return entries, nil
}
