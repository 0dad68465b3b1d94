package services

import (
	"fmt"
	"strings"

	"github.com/rbessin/Momentm/internal/models"
)

var (
	shortDayNames = []string{"Mon", "Tue", "Wed", "Thu", "Fri", "Sat", "Sun"}
	fullDayNames  = []string{"Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday", "Sunday"}
	ordinalNames  = []string{"first", "second", "third", "fourth"}
)

// DescribeRule renders a recurrence rule as display text, e.g.
// "Weekly on Mon, Wed, until Jun 30, 2025". Purely presentational.
func DescribeRule(rule models.Rule) string {
	var base string

	switch r := rule.(type) {
	case models.Daily:
		if r.Interval == 1 {
			base = "Daily"
		} else {
			base = fmt.Sprintf("Every %d days", r.Interval)
		}

	case models.Weekly:
		days := make([]string, 0, len(r.Days))
		for _, day := range r.Days {
			if day >= 0 && day < len(shortDayNames) {
				days = append(days, shortDayNames[day])
			}
		}
		joined := strings.Join(days, ", ")
		if r.Interval == 1 {
			base = fmt.Sprintf("Weekly on %s", joined)
		} else {
			base = fmt.Sprintf("Every %d weeks on %s", r.Interval, joined)
		}

	case models.Monthly:
		base = describeMonthly(r)

	case models.Custom:
		base = fmt.Sprintf("Every %d days", r.Days)

	default:
		return ""
	}

	switch end := rule.Ends().(type) {
	case models.EndOn:
		return fmt.Sprintf("%s, until %s", base, end.Date.Format("Jan 2, 2006"))
	case models.EndAfter:
		return fmt.Sprintf("%s, %d times", base, end.Count)
	default:
		return base
	}
}

func describeMonthly(rule models.Monthly) string {
	switch pattern := rule.Pattern.(type) {
	case models.ByDayOfMonth:
		if rule.Interval == 1 {
			return fmt.Sprintf("Monthly on day %d", pattern.Day)
		}
		return fmt.Sprintf("Every %d months on day %d", rule.Interval, pattern.Day)

	case models.ByWeekdayOccurrence:
		ordinal := "last"
		if pattern.Occurrence >= 1 && pattern.Occurrence <= len(ordinalNames) {
			ordinal = ordinalNames[pattern.Occurrence-1]
		}
		weekday := ""
		if pattern.Weekday >= 0 && pattern.Weekday < len(fullDayNames) {
			weekday = fullDayNames[pattern.Weekday]
		}
		if rule.Interval == 1 {
			return fmt.Sprintf("Monthly on the %s %s", ordinal, weekday)
		}
		return fmt.Sprintf("Every %d months on the %s %s", rule.Interval, ordinal, weekday)

	default:
		return "Monthly"
	}
}
