package models

import (
	"encoding/json"
	"fmt"
	"time"
)

// Rule is a habit's recurrence rule. The closed set of variants is matched
// exhaustively with type switches; an unrecognized or missing rule is treated
// as never scheduled rather than an error, so a corrupted rule cannot take
// down scheduling for unrelated habits.
type Rule interface {
	isRule()
	Ends() EndRule
}

// Daily is active every Interval days counted from the habit's creation date.
type Daily struct {
	Interval int
	End      EndRule
}

// Weekly is active on the listed weekdays (Monday = 0) during weeks that are
// whole multiples of Interval weeks from the creation date.
type Weekly struct {
	Interval int
	Days     []int
	End      EndRule
}

// Monthly is active in months that are whole multiples of Interval months
// from the creation date, on the day selected by Pattern.
type Monthly struct {
	Interval int
	Pattern  MonthlyPattern
	End      EndRule
}

// Custom is active every Days calendar days from the creation date. It is
// arithmetically the same as Daily but kept as its own variant because users
// express it as a raw day count.
type Custom struct {
	Days int
	End  EndRule
}

func (Daily) isRule()   {}
func (Weekly) isRule()  {}
func (Monthly) isRule() {}
func (Custom) isRule()  {}

func (r Daily) Ends() EndRule   { return r.End }
func (r Weekly) Ends() EndRule  { return r.End }
func (r Monthly) Ends() EndRule { return r.End }
func (r Custom) Ends() EndRule  { return r.End }

// MonthlyPattern selects which day of a month a Monthly rule lands on.
type MonthlyPattern interface {
	isMonthlyPattern()
}

// ByDayOfMonth matches an exact day of the month. Months without that day
// (day 31 in February) simply never match; there is no clamping.
type ByDayOfMonth struct {
	Day int
}

// ByWeekdayOccurrence matches the Nth occurrence of a weekday (Monday = 0)
// in the month. Occurrence -1 means the last occurrence.
type ByWeekdayOccurrence struct {
	Weekday    int
	Occurrence int
}

func (ByDayOfMonth) isMonthlyPattern()        {}
func (ByWeekdayOccurrence) isMonthlyPattern() {}

// EndRule is the condition under which a rule stops producing scheduled
// dates.
type EndRule interface {
	isEndRule()
}

// Never keeps the rule open-ended.
type Never struct{}

// EndOn stops the rule after Date, inclusive.
type EndOn struct {
	Date time.Time
}

// EndAfter stops the rule once Count completions have been recorded.
type EndAfter struct {
	Count int
}

func (Never) isEndRule()    {}
func (EndOn) isEndRule()    {}
func (EndAfter) isEndRule() {}

// Wire format. Rules are persisted on the habit row as a JSON blob with a
// "type" discriminator, e.g.
//
//	{"type":"weekly","interval":1,"days":[0,2,4],"ends":{"type":"never"}}

func (r Daily) MarshalJSON() ([]byte, error) {
	return json.Marshal(map[string]any{
		"type": "daily", "interval": r.Interval, "ends": encodeEnd(r.End),
	})
}

func (r Weekly) MarshalJSON() ([]byte, error) {
	days := r.Days
	if days == nil {
		days = []int{}
	}
	return json.Marshal(map[string]any{
		"type": "weekly", "interval": r.Interval, "days": days, "ends": encodeEnd(r.End),
	})
}

func (r Monthly) MarshalJSON() ([]byte, error) {
	var pattern map[string]any
	switch p := r.Pattern.(type) {
	case ByDayOfMonth:
		pattern = map[string]any{"type": "day", "day": p.Day}
	case ByWeekdayOccurrence:
		pattern = map[string]any{"type": "weekday", "weekday": p.Weekday, "occurrence": p.Occurrence}
	}
	return json.Marshal(map[string]any{
		"type": "monthly", "interval": r.Interval, "pattern": pattern, "ends": encodeEnd(r.End),
	})
}

func (r Custom) MarshalJSON() ([]byte, error) {
	return json.Marshal(map[string]any{
		"type": "custom", "days": r.Days, "ends": encodeEnd(r.End),
	})
}

func encodeEnd(end EndRule) map[string]any {
	switch e := end.(type) {
	case EndOn:
		return map[string]any{"type": "on", "date": e.Date.Format(DateOnly)}
	case EndAfter:
		return map[string]any{"type": "after", "count": e.Count}
	default:
		return map[string]any{"type": "never"}
	}
}

// EncodeRule serializes a rule to its stored JSON form.
func EncodeRule(rule Rule) (string, error) {
	data, err := json.Marshal(rule)
	if err != nil {
		return "", fmt.Errorf("encoding recurrence rule: %w", err)
	}
	return string(data), nil
}

// ParseRule decodes a stored rule blob. Unknown discriminators are an error;
// callers that must stay up (the store's list paths) log and carry a nil
// rule, which the evaluator treats as never scheduled.
func ParseRule(data []byte) (Rule, error) {
	var envelope struct {
		Type     string          `json:"type"`
		Interval int             `json:"interval"`
		Days     json.RawMessage `json:"days"`
		Pattern  json.RawMessage `json:"pattern"`
		Ends     json.RawMessage `json:"ends"`
	}
	if err := json.Unmarshal(data, &envelope); err != nil {
		return nil, fmt.Errorf("parsing recurrence rule: %w", err)
	}

	end, err := parseEnd(envelope.Ends)
	if err != nil {
		return nil, err
	}

	switch envelope.Type {
	case "daily":
		return Daily{Interval: max(envelope.Interval, 1), End: end}, nil

	case "weekly":
		var days []int
		if len(envelope.Days) > 0 {
			if err := json.Unmarshal(envelope.Days, &days); err != nil {
				return nil, fmt.Errorf("parsing weekly days: %w", err)
			}
		}
		return Weekly{Interval: max(envelope.Interval, 1), Days: days, End: end}, nil

	case "monthly":
		pattern, err := parseMonthlyPattern(envelope.Pattern)
		if err != nil {
			return nil, err
		}
		return Monthly{Interval: max(envelope.Interval, 1), Pattern: pattern, End: end}, nil

	case "custom":
		var days int
		if len(envelope.Days) > 0 {
			if err := json.Unmarshal(envelope.Days, &days); err != nil {
				return nil, fmt.Errorf("parsing custom day count: %w", err)
			}
		}
		return Custom{Days: max(days, 1), End: end}, nil

	default:
		return nil, fmt.Errorf("unknown recurrence type %q", envelope.Type)
	}
}

func parseMonthlyPattern(data json.RawMessage) (MonthlyPattern, error) {
	var envelope struct {
		Type       string `json:"type"`
		Day        int    `json:"day"`
		Weekday    int    `json:"weekday"`
		Occurrence int    `json:"occurrence"`
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("monthly rule is missing its pattern")
	}
	if err := json.Unmarshal(data, &envelope); err != nil {
		return nil, fmt.Errorf("parsing monthly pattern: %w", err)
	}
	switch envelope.Type {
	case "day":
		return ByDayOfMonth{Day: envelope.Day}, nil
	case "weekday":
		return ByWeekdayOccurrence{Weekday: envelope.Weekday, Occurrence: envelope.Occurrence}, nil
	default:
		return nil, fmt.Errorf("unknown monthly pattern type %q", envelope.Type)
	}
}

func parseEnd(data json.RawMessage) (EndRule, error) {
	if len(data) == 0 {
		return Never{}, nil
	}
	var envelope struct {
		Type  string `json:"type"`
		Date  string `json:"date"`
		Count int    `json:"count"`
	}
	if err := json.Unmarshal(data, &envelope); err != nil {
		return nil, fmt.Errorf("parsing end rule: %w", err)
	}
	switch envelope.Type {
	case "", "never":
		return Never{}, nil
	case "on":
		date, err := time.Parse(DateOnly, envelope.Date)
		if err != nil {
			return nil, fmt.Errorf("parsing end date: %w", err)
		}
		return EndOn{Date: date}, nil
	case "after":
		return EndAfter{Count: envelope.Count}, nil
	default:
		return nil, fmt.Errorf("unknown end rule type %q", envelope.Type)
	}
}
