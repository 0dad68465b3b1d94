package services

import (
	"context"
	"fmt"
	"time"

	ics "github.com/arran4/golang-ical"

	"github.com/rbessin/Momentm/internal/models"
	"github.com/rbessin/Momentm/internal/repository"
)

// CalendarFeed renders every active habit's scheduled dates in [start, end]
// as an iCalendar document of all-day events, one VEVENT per occurrence.
func (service *HabitService) CalendarFeed(ctx context.Context, start, end time.Time) (string, error) {
	status := models.HabitStatusActive
	habits, err := service.habitRepo.FindAll(ctx, repository.HabitFilter{Status: &status})
	if err != nil {
		return "", fmt.Errorf("finding active habits: %w", err)
	}

	calendar := ics.NewCalendar()
	calendar.SetMethod(ics.MethodPublish)
	calendar.SetProductId("-//Momentm//Habit Schedule//EN")
	calendar.SetName("Momentm")

	now := time.Now()
	for _, habit := range habits {
		completions, err := service.completionRepo.FindAll(ctx, repository.CompletionFilter{HabitID: &habit.ID})
		if err != nil {
			return "", fmt.Errorf("loading completions: %w", err)
		}

		for _, date := range ActiveDatesInRange(habit, start, end, CompletionDates(completions)) {
			event := calendar.AddEvent(fmt.Sprintf("%s-%s@momentm", habit.ID, date.Format(models.DateOnly)))
			event.SetDtStampTime(now)
			event.SetAllDayStartAt(date)
			event.SetAllDayEndAt(date.AddDate(0, 0, 1))
			event.SetSummary(habit.Name)
			event.SetDescription(DescribeRule(habit.Recurrence))
		}
	}

	return calendar.Serialize(), nil
}
