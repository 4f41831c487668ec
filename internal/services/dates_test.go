package services

import (
	"testing"
	"time"
)

func TestDayRange(t *testing.T) {
	loc := time.FixedZone("IST", 5*3600+1800)

	r, err := dayRange("2024-03-10", loc)
	if err != nil {
		t.Fatalf("dayRange error: %v", err)
	}
	start := time.Date(2024, 3, 10, 0, 0, 0, 0, loc)
	if r.Start != start.Unix() {
		t.Errorf("Start = %d, want %d", r.Start, start.Unix())
	}
	if r.End != start.Unix()+86399 {
		t.Errorf("End = %d, want %d", r.End, start.Unix()+86399)
	}

	if _, err := dayRange("10-03-2024", loc); KindOf(err) != KindInvalid {
		t.Errorf("bad date should be invalid, got %v", err)
	}
}

func TestOptionalDayRange(t *testing.T) {
	r, err := optionalDayRange("", time.UTC)
	if err != nil || r != nil {
		t.Errorf("empty date = %v, %v; want nil, nil", r, err)
	}
}

func TestMonthBounds(t *testing.T) {
	from, to, err := monthBounds("2024-12", time.UTC)
	if err != nil {
		t.Fatalf("monthBounds error: %v", err)
	}
	if !from.Equal(time.Date(2024, 12, 1, 0, 0, 0, 0, time.UTC)) || !to.Equal(time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("monthBounds = %v..%v", from, to)
	}
	if _, _, err := monthBounds("2024-13", time.UTC); KindOf(err) != KindInvalid {
		t.Errorf("invalid month should fail, got %v", err)
	}
}
