package services

import (
	"testing"
	"time"
)

func TestShiftAllowed(t *testing.T) {
	loc, err := time.LoadLocation("Asia/Kolkata")
	if err != nil {
		t.Skipf("timezone data unavailable: %v", err)
	}

	svc := NewOrderService(nil, nil, nil, loc, ShiftWindow{OpenHour: 6, CloseHour: 24}).(*orderService)

	tests := []struct {
		name  string
		at    time.Time
		shift string
		want  bool
	}{
		{"early morning closed", time.Date(2024, 5, 1, 5, 59, 0, 0, loc), "AM", false},
		{"opening hour", time.Date(2024, 5, 1, 6, 0, 0, 0, loc), "AM", true},
		{"late evening", time.Date(2024, 5, 1, 23, 30, 0, 0, loc), "PM", true},
		{"utc instant converted", time.Date(2024, 5, 1, 0, 45, 0, 0, time.UTC), "pm", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc.now = func() time.Time { return tt.at }
			got, err := svc.ShiftAllowed(tt.shift)
			if err != nil {
				t.Fatalf("ShiftAllowed: %v", err)
			}
			if got != tt.want {
				t.Errorf("ShiftAllowed(%s) at %s = %v, want %v", tt.shift, tt.at, got, tt.want)
			}
		})
	}

	if _, err := svc.ShiftAllowed("XX"); KindOf(err) != KindInvalid {
		t.Errorf("unknown shift should be invalid, got %v", err)
	}
}
