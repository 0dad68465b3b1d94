package models

import (
	"testing"
	"time"
)

func TestParseRule_Weekly(t *testing.T) {
	rule, err := ParseRule([]byte(`{"type":"weekly","interval":2,"days":[0,2,4],"ends":{"type":"never"}}`))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	weekly, ok := rule.(Weekly)
	if !ok {
		t.Fatalf("expected Weekly, got %T", rule)
	}
	if weekly.Interval != 2 {
		t.Errorf("expected interval 2, got %d", weekly.Interval)
	}
	if len(weekly.Days) != 3 || weekly.Days[0] != 0 || weekly.Days[2] != 4 {
		t.Errorf("unexpected days: %v", weekly.Days)
	}
	if _, ok := weekly.End.(Never); !ok {
		t.Errorf("expected Never end rule, got %T", weekly.End)
	}
}

func TestParseRule_MonthlyWeekdayPattern(t *testing.T) {
	rule, err := ParseRule([]byte(`{"type":"monthly","interval":1,"pattern":{"type":"weekday","weekday":4,"occurrence":-1},"ends":{"type":"after","count":10}}`))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	monthly := rule.(Monthly)
	pattern, ok := monthly.Pattern.(ByWeekdayOccurrence)
	if !ok {
		t.Fatalf("expected ByWeekdayOccurrence, got %T", monthly.Pattern)
	}
	if pattern.Weekday != 4 || pattern.Occurrence != -1 {
		t.Errorf("unexpected pattern: %+v", pattern)
	}
	if end, ok := monthly.End.(EndAfter); !ok || end.Count != 10 {
		t.Errorf("expected EndAfter{10}, got %#v", monthly.End)
	}
}

func TestParseRule_EndOnDate(t *testing.T) {
	rule, err := ParseRule([]byte(`{"type":"daily","interval":1,"ends":{"type":"on","date":"2025-06-30"}}`))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	end, ok := rule.(Daily).End.(EndOn)
	if !ok {
		t.Fatalf("expected EndOn, got %T", rule.(Daily).End)
	}
	if !end.Date.Equal(time.Date(2025, time.June, 30, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("unexpected end date: %s", end.Date)
	}
}

func TestParseRule_Defaults(t *testing.T) {
	// Missing ends and a zero interval get safe defaults.
	rule, err := ParseRule([]byte(`{"type":"daily"}`))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	daily := rule.(Daily)
	if daily.Interval != 1 {
		t.Errorf("expected interval to default to 1, got %d", daily.Interval)
	}
	if _, ok := daily.End.(Never); !ok {
		t.Errorf("expected missing ends to default to Never, got %T", daily.End)
	}
}

func TestParseRule_UnknownType(t *testing.T) {
	if _, err := ParseRule([]byte(`{"type":"lunar","interval":1}`)); err == nil {
		t.Error("expected an error for an unknown rule type")
	}
	if _, err := ParseRule([]byte(`{"type":"monthly","interval":1,"pattern":{"type":"equinox"}}`)); err == nil {
		t.Error("expected an error for an unknown pattern type")
	}
}

func TestEncodeRule_RoundTrip(t *testing.T) {
	original := Monthly{
		Interval: 2,
		Pattern:  ByDayOfMonth{Day: 31},
		End:      EndOn{Date: time.Date(2026, time.January, 31, 0, 0, 0, 0, time.UTC)},
	}

	encoded, err := EncodeRule(original)
	if err != nil {
		t.Fatalf("encoding: %v", err)
	}
	decoded, err := ParseRule([]byte(encoded))
	if err != nil {
		t.Fatalf("decoding: %v", err)
	}

	monthly, ok := decoded.(Monthly)
	if !ok {
		t.Fatalf("expected Monthly, got %T", decoded)
	}
	if monthly.Interval != 2 {
		t.Errorf("expected interval 2, got %d", monthly.Interval)
	}
	if pattern, ok := monthly.Pattern.(ByDayOfMonth); !ok || pattern.Day != 31 {
		t.Errorf("unexpected pattern: %#v", monthly.Pattern)
	}
	if end, ok := monthly.End.(EndOn); !ok || end.Date.Day() != 31 {
		t.Errorf("unexpected end rule: %#v", monthly.End)
	}
}
