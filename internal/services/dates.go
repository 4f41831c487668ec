package services

import (
	"order_manager/internal/repository"
	"time"
)

const dayLayout = "2006-01-02"

// dayRange converts a YYYY-MM-DD date into the unix-second window of that day in loc.
func dayRange(date string, loc *time.Location) (repository.DayRange, error) {
	day, err := time.ParseInLocation(dayLayout, date, loc)
	if err != nil {
		return repository.DayRange{}, Invalid("Invalid date format. Use YYYY-MM-DD")
	}
	return rangeOf(day), nil
}

// optionalDayRange returns nil for an empty date.
func optionalDayRange(date string, loc *time.Location) (*repository.DayRange, error) {
	if date == "" {
		return nil, nil
	}
	r, err := dayRange(date, loc)
	if err != nil {
		return nil, err
	}
	return &r, nil
}

func rangeOf(t time.Time) repository.DayRange {
	start := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
	end := start.AddDate(0, 0, 1)
	return repository.DayRange{Start: start.Unix(), End: end.Unix() - 1}
}

// monthBounds returns [first day of month, first day of next month) for YYYY-MM.
func monthBounds(month string, loc *time.Location) (time.Time, time.Time, error) {
	start, err := time.ParseInLocation("2006-01", month, loc)
	if err != nil {
		return time.Time{}, time.Time{}, Invalid("Invalid month format. Use YYYY-MM")
	}
	return start, start.AddDate(0, 1, 0), nil
}

func dayBounds(date string, loc *time.Location) (time.Time, time.Time, error) {
	start, err := time.ParseInLocation(dayLayout, date, loc)
	if err != nil {
		return time.Time{}, time.Time{}, Invalid("Invalid date format. Use YYYY-MM-DD")
	}
	return start, start.AddDate(0, 0, 1), nil
}
