package dateutil

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// DateLayout is the ISO civil date layout used for date keys
const DateLayout = "2006-01-02"

// ErrInvalidDate is returned when a value cannot be interpreted as a civil date
var ErrInvalidDate = errors.New("invalid date")

// ErrInvalidWeekday is returned when a value cannot be interpreted as a weekday
var ErrInvalidWeekday = errors.New("invalid weekday")

// Civil returns the civil date of t as midnight UTC.
// Year, month and day are taken in t's own location, the time of day is dropped.
func Civil(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// Key returns the YYYY-MM-DD key of the civil date of t
func Key(t time.Time) string {
	return Civil(t).Format(DateLayout)
}

// DaysInMonth returns the number of days in the given month
func DaysInMonth(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

var dateFormats = []string{
	DateLayout,
	"02.01.2006",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	time.RFC3339,
	"2006-01-02T15:04:05-0700",
}

// ParseDate parses date string in various formats and returns its civil date.
// A time component, if present, is accepted and dropped.
func ParseDate(dateStr string) (time.Time, error) {
	s := strings.TrimSpace(dateStr)
	for _, format := range dateFormats {
		if t, err := time.Parse(format, s); err == nil {
			return Civil(t), nil
		}
	}

	return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidDate, dateStr)
}

// ParseMonth parses a YYYY-MM string
func ParseMonth(s string) (int, time.Month, error) {
	t, err := time.Parse("2006-01", strings.TrimSpace(s))
	if err != nil {
		return 0, 0, fmt.Errorf("%w: month %q", ErrInvalidDate, s)
	}
	return t.Year(), t.Month(), nil
}

var weekdayNames = map[string]time.Weekday{
	"sunday": time.Sunday, "sun": time.Sunday,
	"monday": time.Monday, "mon": time.Monday,
	"tuesday": time.Tuesday, "tue": time.Tuesday,
	"wednesday": time.Wednesday, "wed": time.Wednesday,
	"thursday": time.Thursday, "thu": time.Thursday,
	"friday": time.Friday, "fri": time.Friday,
	"saturday": time.Saturday, "sat": time.Saturday,
}

// ParseWeekday parses an English weekday name ("friday", "Fri")
// or a number with Sunday=0 ... Saturday=6
func ParseWeekday(s string) (time.Weekday, error) {
	v := strings.ToLower(strings.TrimSpace(s))
	if wd, ok := weekdayNames[v]; ok {
		return wd, nil
	}

	n, err := strconv.Atoi(v)
	if err != nil || n < 0 || n > 6 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidWeekday, s)
	}
	return time.Weekday(n), nil
}

// Today returns today's civil date
func Today() time.Time {
	return Civil(time.Now())
}
