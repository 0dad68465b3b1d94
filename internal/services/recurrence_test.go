package services

import (
	"testing"
	"time"

	"github.com/rbessin/Momentm/internal/models"
)

func date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

func testHabit(createdAt time.Time, rule models.Rule) models.Habit {
	return models.Habit{
		ID:             "habit-1",
		Name:           "Test habit",
		Status:         models.HabitStatusActive,
		CompletionType: models.CompletionSimple,
		Recurrence:     rule,
		CreatedAt:      createdAt,
	}
}

func TestIsHabitActiveOn_BeforeCreation(t *testing.T) {
	habit := testHabit(date(2024, time.March, 10), models.Daily{Interval: 1, End: models.Never{}})

	if IsHabitActiveOn(habit, date(2024, time.March, 9), nil) {
		t.Error("expected inactive before creation date")
	}
	if !IsHabitActiveOn(habit, date(2024, time.March, 10), nil) {
		t.Error("expected active on creation date")
	}
}

func TestIsHabitActiveOn_Daily(t *testing.T) {
	habit := testHabit(date(2024, time.January, 1), models.Daily{Interval: 2, End: models.Never{}})

	tests := []struct {
		day      int
		expected bool
	}{
		{1, true},
		{2, false},
		{3, true},
		{4, false},
		{5, true},
	}
	for _, test := range tests {
		got := IsHabitActiveOn(habit, date(2024, time.January, test.day), nil)
		if got != test.expected {
			t.Errorf("2024-01-%02d: expected %v, got %v", test.day, test.expected, got)
		}
	}
}

func TestIsHabitActiveOn_DailyPeriodicityOverTwoYears(t *testing.T) {
	start := date(2024, time.January, 1)
	habit := testHabit(start, models.Daily{Interval: 3, End: models.Never{}})

	for offset := 0; offset < 730; offset++ {
		day := start.AddDate(0, 0, offset)
		expected := offset%3 == 0
		if IsHabitActiveOn(habit, day, nil) != expected {
			t.Fatalf("%s: expected %v", day.Format(models.DateOnly), expected)
		}
	}
}

func TestIsHabitActiveOn_WeeklyDaySet(t *testing.T) {
	// 2024-01-01 is a Monday.
	habit := testHabit(date(2024, time.January, 1),
		models.Weekly{Interval: 1, Days: []int{0, 2, 4}, End: models.Never{}})

	expected := map[int]bool{
		1: true,  // Mon
		2: false, // Tue
		3: true,  // Wed
		4: false, // Thu
		5: true,  // Fri
		6: false, // Sat
		7: false, // Sun
	}
	for day, want := range expected {
		if IsHabitActiveOn(habit, date(2024, time.January, day), nil) != want {
			t.Errorf("2024-01-%02d: expected %v", day, want)
		}
	}

	// Same weekdays hold the following week.
	if !IsHabitActiveOn(habit, date(2024, time.January, 8), nil) {
		t.Error("expected active on the next Monday")
	}
}

func TestIsHabitActiveOn_WeeklyInterval(t *testing.T) {
	// Every other week on Mondays, starting Monday 2024-01-01.
	habit := testHabit(date(2024, time.January, 1),
		models.Weekly{Interval: 2, Days: []int{0}, End: models.Never{}})

	tests := []struct {
		day      int
		expected bool
	}{
		{1, true},   // week 0
		{8, false},  // week 1
		{15, true},  // week 2
		{22, false}, // week 3
		{29, true},  // week 4
	}
	for _, test := range tests {
		got := IsHabitActiveOn(habit, date(2024, time.January, test.day), nil)
		if got != test.expected {
			t.Errorf("2024-01-%02d: expected %v, got %v", test.day, test.expected, got)
		}
	}
}

func TestIsHabitActiveOn_WeeklyIntervalGateIsPerWeekNotPerDay(t *testing.T) {
	// Created on a Wednesday; the Friday of the same week is still week 0
	// only while fewer than 7 days have elapsed since creation.
	habit := testHabit(date(2024, time.January, 3),
		models.Weekly{Interval: 2, Days: []int{0, 4}, End: models.Never{}})

	if !IsHabitActiveOn(habit, date(2024, time.January, 5), nil) {
		t.Error("expected Friday of the creation week active (week 0)")
	}
	// Monday 2024-01-08 is 5 days after creation, still inside week 0.
	if !IsHabitActiveOn(habit, date(2024, time.January, 8), nil) {
		t.Error("expected Monday 5 days later active (still week 0)")
	}
	// Friday 2024-01-12 is 9 days after creation: week 1, gated out.
	if IsHabitActiveOn(habit, date(2024, time.January, 12), nil) {
		t.Error("expected Friday of week 1 inactive with interval 2")
	}
}

func TestIsHabitActiveOn_MonthlyDayOfMonth(t *testing.T) {
	habit := testHabit(date(2024, time.January, 1),
		models.Monthly{Interval: 1, Pattern: models.ByDayOfMonth{Day: 31}, End: models.Never{}})

	if !IsHabitActiveOn(habit, date(2024, time.January, 31), nil) {
		t.Error("expected active on Jan 31")
	}
	// No clamping: no Feb 31 means February never matches, even in a leap year.
	if IsHabitActiveOn(habit, date(2024, time.February, 29), nil) {
		t.Error("expected inactive on Feb 29")
	}
	for _, month := range []time.Month{time.April, time.June, time.September, time.November} {
		if IsHabitActiveOn(habit, date(2024, month, 30), nil) {
			t.Errorf("expected inactive on %s 30", month)
		}
	}
	if !IsHabitActiveOn(habit, date(2024, time.March, 31), nil) {
		t.Error("expected active on Mar 31")
	}
}

func TestIsHabitActiveOn_MonthlyInterval(t *testing.T) {
	habit := testHabit(date(2024, time.January, 1),
		models.Monthly{Interval: 3, Pattern: models.ByDayOfMonth{Day: 15}, End: models.Never{}})

	tests := []struct {
		month    time.Month
		expected bool
	}{
		{time.January, true},
		{time.February, false},
		{time.March, false},
		{time.April, true},
		{time.July, true},
	}
	for _, test := range tests {
		got := IsHabitActiveOn(habit, date(2024, test.month, 15), nil)
		if got != test.expected {
			t.Errorf("%s 15: expected %v, got %v", test.month, test.expected, got)
		}
	}
}

func TestIsHabitActiveOn_MonthlyNthWeekday(t *testing.T) {
	// Second Tuesday of each month.
	habit := testHabit(date(2024, time.January, 1),
		models.Monthly{
			Interval: 1,
			Pattern:  models.ByWeekdayOccurrence{Weekday: 1, Occurrence: 2},
			End:      models.Never{},
		})

	if !IsHabitActiveOn(habit, date(2024, time.January, 9), nil) {
		t.Error("expected active on the second Tuesday (Jan 9)")
	}
	if IsHabitActiveOn(habit, date(2024, time.January, 2), nil) {
		t.Error("expected inactive on the first Tuesday (Jan 2)")
	}
	if IsHabitActiveOn(habit, date(2024, time.January, 16), nil) {
		t.Error("expected inactive on the third Tuesday (Jan 16)")
	}
	if IsHabitActiveOn(habit, date(2024, time.January, 10), nil) {
		t.Error("expected inactive on a Wednesday")
	}
}

func TestIsHabitActiveOn_MonthlyLastWeekday(t *testing.T) {
	// Last Friday of each month (weekday 4, Monday origin).
	habit := testHabit(date(2024, time.January, 1),
		models.Monthly{
			Interval: 1,
			Pattern:  models.ByWeekdayOccurrence{Weekday: 4, Occurrence: -1},
			End:      models.Never{},
		})

	lastFridays := map[time.Month]int{
		time.January:  26,
		time.February: 23,
		time.March:    29,
		time.April:    26,
	}
	for month, lastFriday := range lastFridays {
		matched := 0
		days := time.Date(2024, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
		for day := 1; day <= days; day++ {
			if IsHabitActiveOn(habit, date(2024, month, day), nil) {
				matched++
				if day != lastFriday {
					t.Errorf("%s: expected only day %d to match, got day %d", month, lastFriday, day)
				}
			}
		}
		if matched != 1 {
			t.Errorf("%s: expected exactly one match, got %d", month, matched)
		}
	}
}

func TestIsHabitActiveOn_Custom(t *testing.T) {
	habit := testHabit(date(2024, time.January, 1), models.Custom{Days: 10, End: models.Never{}})

	if !IsHabitActiveOn(habit, date(2024, time.January, 1), nil) {
		t.Error("expected active on creation date")
	}
	if !IsHabitActiveOn(habit, date(2024, time.January, 11), nil) {
		t.Error("expected active 10 days after creation")
	}
	if IsHabitActiveOn(habit, date(2024, time.January, 6), nil) {
		t.Error("expected inactive mid-cycle")
	}
}

func TestIsHabitActiveOn_EndOnDate(t *testing.T) {
	habit := testHabit(date(2024, time.January, 1),
		models.Daily{Interval: 1, End: models.EndOn{Date: date(2024, time.January, 10)}})

	if !IsHabitActiveOn(habit, date(2024, time.January, 10), nil) {
		t.Error("expected active on the end date itself")
	}
	if IsHabitActiveOn(habit, date(2024, time.January, 11), nil) {
		t.Error("expected inactive past the end date")
	}
}

func TestIsHabitActiveOn_EndAfterCount(t *testing.T) {
	habit := testHabit(date(2024, time.January, 1),
		models.Daily{Interval: 1, End: models.EndAfter{Count: 5}})

	history := []time.Time{
		date(2024, time.January, 1),
		date(2024, time.January, 2),
		date(2024, time.January, 3),
		date(2024, time.January, 4),
		date(2024, time.January, 5),
	}

	// Before the fifth completion the cutoff has not accumulated.
	if !IsHabitActiveOn(habit, date(2024, time.January, 4), history) {
		t.Error("expected active with four completions at or before the date")
	}
	// The fifth completion closes the rule for every later date.
	if IsHabitActiveOn(habit, date(2024, time.January, 5), history) {
		t.Error("expected inactive once five completions have accumulated")
	}
	if IsHabitActiveOn(habit, date(2024, time.January, 6), history) {
		t.Error("expected inactive after the cutoff")
	}
}

func TestIsHabitActiveOn_EndAfterWithoutHistory(t *testing.T) {
	habit := testHabit(date(2024, time.January, 1),
		models.Daily{Interval: 1, End: models.EndAfter{Count: 1}})

	// Without history the cutoff cannot be evaluated; assume not reached.
	if !IsHabitActiveOn(habit, date(2024, time.June, 1), nil) {
		t.Error("expected active when history is unavailable")
	}
}

func TestIsHabitActiveOn_NilRuleFailsClosed(t *testing.T) {
	habit := testHabit(date(2024, time.January, 1), nil)

	if IsHabitActiveOn(habit, date(2024, time.January, 1), nil) {
		t.Error("expected a habit without a parseable rule to never be active")
	}
}

func TestActiveDatesInRange(t *testing.T) {
	habit := testHabit(date(2024, time.January, 1), models.Daily{Interval: 7, End: models.Never{}})

	active := ActiveDatesInRange(habit, date(2024, time.January, 1), date(2024, time.January, 31), nil)

	expected := []time.Time{
		date(2024, time.January, 1),
		date(2024, time.January, 8),
		date(2024, time.January, 15),
		date(2024, time.January, 22),
		date(2024, time.January, 29),
	}
	if len(active) != len(expected) {
		t.Fatalf("expected %d dates, got %d", len(expected), len(active))
	}
	for i, want := range expected {
		if !active[i].Equal(want) {
			t.Errorf("index %d: expected %s, got %s", i,
				want.Format(models.DateOnly), active[i].Format(models.DateOnly))
		}
	}
}

func TestActiveDatesInRange_StartBeforeCreation(t *testing.T) {
	habit := testHabit(date(2024, time.January, 10), models.Daily{Interval: 1, End: models.Never{}})

	active := ActiveDatesInRange(habit, date(2024, time.January, 1), date(2024, time.January, 12), nil)

	if len(active) != 3 {
		t.Fatalf("expected 3 dates from creation onward, got %d", len(active))
	}
	if !active[0].Equal(date(2024, time.January, 10)) {
		t.Errorf("expected first active date to be the creation date, got %s",
			active[0].Format(models.DateOnly))
	}
}

func TestDateOf_StripsTimeOfDay(t *testing.T) {
	stamp := time.Date(2024, time.March, 5, 23, 45, 12, 0, time.FixedZone("X", 3600))
	normalized := DateOf(stamp)
	if !normalized.Equal(date(2024, time.March, 5)) {
		t.Errorf("expected 2024-03-05, got %s", normalized)
	}
}
