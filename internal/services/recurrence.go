package services

import (
	"time"

	"github.com/rbessin/Momentm/internal/models"
)

// DateOf normalizes a timestamp to midnight UTC of its wall-clock date.
// Every comparison in the evaluator happens on normalized dates, so callers
// can hand in timestamps without worrying about the time-of-day component.
func DateOf(t time.Time) time.Time {
	year, month, day := t.Date()
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

// CompletionDates projects completion records down to the bare dates the
// end-rule evaluation needs.
func CompletionDates(completions []models.Completion) []time.Time {
	dates := make([]time.Time, len(completions))
	for i, completion := range completions {
		dates[i] = DateOf(completion.CompletedDate)
	}
	return dates
}

// IsHabitActiveOn reports whether the habit is scheduled on the given
// calendar date. history carries the habit's completion dates and is only
// consulted by "after N completions" end rules; passing nil there makes the
// end rule pass (an unknown cutoff is assumed not yet reached).
func IsHabitActiveOn(habit models.Habit, date time.Time, history []time.Time) bool {
	date = DateOf(date)
	start := DateOf(habit.CreatedAt)

	if date.Before(start) {
		return false
	}
	if habit.Recurrence == nil {
		return false
	}
	if !withinEndRule(habit.Recurrence.Ends(), date, history) {
		return false
	}

	switch rule := habit.Recurrence.(type) {
	case models.Daily:
		return activeEveryNDays(date, start, rule.Interval)
	case models.Weekly:
		return activeWeekly(date, start, rule)
	case models.Monthly:
		return activeMonthly(date, start, rule)
	case models.Custom:
		return activeEveryNDays(date, start, rule.Days)
	default:
		return false
	}
}

// ActiveDatesInRange lists every scheduled date between start and end
// inclusive, in order. Cost is linear in the window length.
func ActiveDatesInRange(habit models.Habit, start, end time.Time, history []time.Time) []time.Time {
	var active []time.Time
	for date := DateOf(start); !date.After(DateOf(end)); date = date.AddDate(0, 0, 1) {
		if IsHabitActiveOn(habit, date, history) {
			active = append(active, date)
		}
	}
	return active
}

func withinEndRule(end models.EndRule, date time.Time, history []time.Time) bool {
	switch e := end.(type) {
	case models.EndOn:
		return !date.After(DateOf(e.Date))
	case models.EndAfter:
		if history == nil {
			return true
		}
		completed := 0
		for _, entry := range history {
			if !DateOf(entry).After(date) {
				completed++
			}
		}
		// The completion that reaches the count is itself still scheduled;
		// the rule only closes strictly past it.
		return completed < e.Count
	default:
		return true
	}
}

func activeEveryNDays(date, start time.Time, interval int) bool {
	if interval < 1 {
		interval = 1
	}
	days := daysBetween(start, date)
	return days >= 0 && days%interval == 0
}

func activeWeekly(date, start time.Time, rule models.Weekly) bool {
	if !containsWeekday(rule.Days, mondayIndex(date.Weekday())) {
		return false
	}
	interval := rule.Interval
	if interval < 1 {
		interval = 1
	}
	// Interval gating counts whole weeks from the creation date, regardless
	// of which weekday within the week is being tested.
	weeks := daysBetween(start, date) / 7
	return weeks >= 0 && weeks%interval == 0
}

func activeMonthly(date, start time.Time, rule models.Monthly) bool {
	interval := rule.Interval
	if interval < 1 {
		interval = 1
	}
	months := (date.Year()-start.Year())*12 + int(date.Month()) - int(start.Month())
	if months < 0 || months%interval != 0 {
		return false
	}

	switch pattern := rule.Pattern.(type) {
	case models.ByDayOfMonth:
		// No clamping: day 31 never matches a 30-day month.
		return date.Day() == pattern.Day
	case models.ByWeekdayOccurrence:
		return matchesWeekdayOccurrence(date, pattern)
	default:
		return false
	}
}

func matchesWeekdayOccurrence(date time.Time, pattern models.ByWeekdayOccurrence) bool {
	if mondayIndex(date.Weekday()) != pattern.Weekday {
		return false
	}
	if pattern.Occurrence == -1 {
		// Last occurrence: a week later lands in the next month.
		return date.AddDate(0, 0, 7).Month() != date.Month()
	}
	return (date.Day()+6)/7 == pattern.Occurrence
}

// mondayIndex converts Go's Sunday-origin weekday to the Monday-origin
// numbering rules are stored with.
func mondayIndex(weekday time.Weekday) int {
	return (int(weekday) + 6) % 7
}

func containsWeekday(days []int, weekday int) bool {
	for _, day := range days {
		if day == weekday {
			return true
		}
	}
	return false
}

// daysBetween counts whole calendar days from start to date. Both arguments
// must already be normalized to midnight UTC.
func daysBetween(start, date time.Time) int {
	return int(date.Sub(start) / (24 * time.Hour))
}
