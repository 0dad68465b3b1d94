package services

import (
	"testing"
	"time"

	"github.com/rbessin/Momentm/internal/models"
)

func completion(habitID string, day time.Time, count int) models.Completion {
	return models.Completion{
		ID:            "completion-" + day.Format(models.DateOnly),
		HabitID:       habitID,
		CompletedDate: day,
		Count:         count,
	}
}

func TestTotalCountForDate_SumsAcrossRecords(t *testing.T) {
	day := date(2024, time.May, 1)
	completions := []models.Completion{
		completion("habit-1", day, 1),
		completion("habit-1", day, 2),
		completion("habit-1", date(2024, time.May, 2), 5),
		completion("habit-2", day, 10),
	}

	if got := TotalCountForDate(completions, "habit-1", day); got != 3 {
		t.Errorf("expected 3, got %d", got)
	}
	if got := TotalCountForDate(completions, "habit-1", date(2024, time.May, 3)); got != 0 {
		t.Errorf("expected 0 for a date with no records, got %d", got)
	}
}

func TestIsFullyCompleted_Simple(t *testing.T) {
	habit := testHabit(date(2024, time.January, 1), models.Daily{Interval: 1, End: models.Never{}})
	day := date(2024, time.January, 5)

	if IsFullyCompleted(habit, nil, day) {
		t.Error("expected incomplete with no records")
	}
	if !IsFullyCompleted(habit, []models.Completion{completion(habit.ID, day, 1)}, day) {
		t.Error("expected complete with one record")
	}
}

func TestIsFullyCompleted_CountTarget(t *testing.T) {
	habit := testHabit(date(2024, time.January, 1), models.Daily{Interval: 1, End: models.Never{}})
	habit.CompletionType = models.CompletionCount
	habit.TargetCount = 3
	day := date(2024, time.January, 5)

	completions := []models.Completion{
		completion(habit.ID, day, 1),
		completion(habit.ID, day, 1),
	}
	if IsFullyCompleted(habit, completions, day) {
		t.Error("expected incomplete at 2 of 3")
	}
	if got := CompletionProgress(habit, completions, day); got < 0.66 || got > 0.67 {
		t.Errorf("expected progress around 0.667, got %f", got)
	}

	completions = append(completions, completion(habit.ID, day, 1))
	if !IsFullyCompleted(habit, completions, day) {
		t.Error("expected complete at 3 of 3")
	}
	if got := CompletionProgress(habit, completions, day); got != 1 {
		t.Errorf("expected progress 1, got %f", got)
	}
}

func TestCompletionProgress_CapsOverCompletion(t *testing.T) {
	habit := testHabit(date(2024, time.January, 1), models.Daily{Interval: 1, End: models.Never{}})
	habit.CompletionType = models.CompletionCount
	habit.TargetCount = 2
	day := date(2024, time.January, 5)

	completions := []models.Completion{completion(habit.ID, day, 5)}
	if got := CompletionProgress(habit, completions, day); got != 1 {
		t.Errorf("expected progress capped at 1, got %f", got)
	}
}

func TestUnsetTargetDefaultsToOne(t *testing.T) {
	// An unset target behaves as 1 in both the completion check and the
	// progress calculation; the two must not diverge.
	habit := testHabit(date(2024, time.January, 1), models.Daily{Interval: 1, End: models.Never{}})
	habit.CompletionType = models.CompletionCount
	habit.TargetCount = 0
	day := date(2024, time.January, 5)

	if IsFullyCompleted(habit, nil, day) {
		t.Error("expected incomplete with no records even with unset target")
	}
	if got := CompletionProgress(habit, nil, day); got != 0 {
		t.Errorf("expected progress 0, got %f", got)
	}

	completions := []models.Completion{completion(habit.ID, day, 1)}
	if !IsFullyCompleted(habit, completions, day) {
		t.Error("expected first count to complete an unset target")
	}
	if got := CompletionProgress(habit, completions, day); got != 1 {
		t.Errorf("expected progress 1, got %f", got)
	}
}

func TestAggregateStateRevertsWhenCompletionRemoved(t *testing.T) {
	habit := testHabit(date(2024, time.January, 1), models.Daily{Interval: 1, End: models.Never{}})
	habit.CompletionType = models.CompletionCount
	habit.TargetCount = 2
	day := date(2024, time.January, 5)

	base := []models.Completion{completion(habit.ID, day, 1)}
	beforeCount := TotalCountForDate(base, habit.ID, day)
	beforeComplete := IsFullyCompleted(habit, base, day)

	inserted := append(append([]models.Completion{}, base...), completion(habit.ID, day, 1))
	if !IsFullyCompleted(habit, inserted, day) {
		t.Fatal("expected complete after insert")
	}

	// Dropping the inserted record restores the aggregate exactly.
	reverted := inserted[:len(inserted)-1]
	if got := TotalCountForDate(reverted, habit.ID, day); got != beforeCount {
		t.Errorf("expected count %d after removal, got %d", beforeCount, got)
	}
	if got := IsFullyCompleted(habit, reverted, day); got != beforeComplete {
		t.Errorf("expected completed=%v after removal, got %v", beforeComplete, got)
	}
}
