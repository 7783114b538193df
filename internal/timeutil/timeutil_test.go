package timeutil

import (
	"testing"
	"time"
)

func TestParseDate(t *testing.T) {
	parsed, err := ParseDate("2024-01-02")
	if err != nil {
		t.Fatalf("expected parse to succeed, got %v", err)
	}
	if got := FormatDate(parsed); got != "2024-01-02" {
		t.Fatalf("expected formatted date to round-trip, got %s", got)
	}
}

func TestFormatDateUsesLocation(t *testing.T) {
	loc := time.FixedZone("test", -5*60*60)
	value := time.Date(2024, 1, 2, 23, 0, 0, 0, loc)
	if got := FormatDate(value); got != "2024-01-02" {
		t.Fatalf("expected formatted date, got %s", got)
	}
}

func TestRetentionCutoff(t *testing.T) {
	now := time.Date(2024, 3, 10, 17, 45, 0, 0, time.UTC)
	got := RetentionCutoff(now, 7)
	want := time.Date(2024, 3, 3, 0, 0, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
}

func TestValidDate(t *testing.T) {
	if !ValidDate("2024-02-29") {
		t.Fatal("expected leap day to be valid")
	}
	for _, v := range []string{"", "2024-13-01", "manifest.json", "20240101"} {
		if ValidDate(v) {
			t.Fatalf("expected %q to be invalid", v)
		}
	}
}
