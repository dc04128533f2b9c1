package utils

import (
	"testing"
	"time"
)

func TestBeginningOfWeekStartsSunday(t *testing.T) {
	// 2025-03-01 is a Saturday
	sat := time.Date(2025, time.March, 1, 15, 30, 0, 0, time.Local)
	got := BeginningOfWeek(sat)
	if got.Weekday() != time.Sunday {
		t.Fatalf("expected Sunday, got %v", got.Weekday())
	}
	if got.Format("2006-01-02") != "2025-02-23" {
		t.Fatalf("expected 2025-02-23, got %s", got.Format("2006-01-02"))
	}

	// A Sunday maps to itself
	sun := time.Date(2025, time.June, 1, 8, 0, 0, 0, time.Local)
	if BeginningOfWeek(sun).Format("2006-01-02") != "2025-06-01" {
		t.Fatalf("expected Sunday to map to itself")
	}
}

func TestBeginningAndEndOfMonth(t *testing.T) {
	mid := time.Date(2025, time.February, 14, 12, 0, 0, 0, time.Local)
	if BeginningOfMonth(mid).Format("2006-01-02") != "2025-02-01" {
		t.Fatalf("unexpected month start: %v", BeginningOfMonth(mid))
	}
	if EndOfMonth(mid).Format("2006-01-02") != "2025-02-28" {
		t.Fatalf("unexpected month end: %v", EndOfMonth(mid))
	}

	leap := time.Date(2024, time.February, 10, 0, 0, 0, 0, time.Local)
	if EndOfMonth(leap).Format("2006-01-02") != "2024-02-29" {
		t.Fatalf("unexpected leap month end: %v", EndOfMonth(leap))
	}
}

func TestSameDay(t *testing.T) {
	morning := time.Date(2025, time.March, 10, 1, 0, 0, 0, time.Local)
	night := time.Date(2025, time.March, 10, 23, 59, 0, 0, time.Local)
	next := time.Date(2025, time.March, 11, 0, 1, 0, 0, time.Local)

	if !SameDay(morning, night) {
		t.Fatal("expected same day")
	}
	if SameDay(night, next) {
		t.Fatal("expected different days")
	}
}
