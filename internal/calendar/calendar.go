// Package calendar implements working-day arithmetic over a configurable
// weekend definition and an injected holiday set.
//
// All operations work on civil dates: the year, month and day of an input are
// read in the input's own location and the time of day is dropped. Returned
// dates are midnight UTC. Weekdays use Go's time.Weekday numbering
// (Sunday=0 ... Saturday=6).
package calendar

import "time"

// DayType represents the type of day
type DayType int

const (
	DayTypeWorkday DayType = iota + 1
	DayTypeWeekend
	DayTypeHoliday
)

func (t DayType) String() string {
	switch t {
	case DayTypeWorkday:
		return "workday"
	case DayTypeWeekend:
		return "weekend"
	case DayTypeHoliday:
		return "holiday"
	default:
		return "unknown"
	}
}

// DayInfo represents information about a specific day
type DayInfo struct {
	Date      time.Time
	Type      DayType
	IsWorkday bool
	Note      string
}

// MonthInfo represents calendar information for a month
type MonthInfo struct {
	Year     int
	Month    time.Month
	WorkDays int
	Weekends int
	Holidays int
	Days     []DayInfo
}

// Holiday is a non-working civil date with an optional display name
type Holiday struct {
	Date time.Time
	Name string
}

// Calendar is the read side of a business calendar.
// It is implemented by *BusinessCalendar and by *Store.
type Calendar interface {
	IsWorkingDay(date time.Time) bool
	IsWeekend(date time.Time) bool
	IsHoliday(date time.Time) bool

	AddWorkingDays(date time.Time, n int) time.Time
	SubtractWorkingDays(date time.Time, n int) time.Time
	DiffInWorkingDays(from, to time.Time) int
	CountWorkingDays(from, to time.Time) int
	WorkingDaysInRange(from, to time.Time) []time.Time
	NextWorkingDay(date time.Time) time.Time
	PreviousWorkingDay(date time.Time) time.Time

	DayInfo(date time.Time) DayInfo
	MonthInfo(year int, month time.Month) MonthInfo
}
