package calendar

import (
	"math"
	"sort"
	"time"

	"github.com/username/workday-calendar/pkg/dateutil"
)

// BusinessCalendar classifies civil dates and walks them by working days.
// A BusinessCalendar is never modified after construction: the With* methods
// return a new calendar and leave the receiver untouched, so a value can be
// shared between goroutines freely.
type BusinessCalendar struct {
	weekend  WeekendSet
	holidays map[string]string // date key -> name
}

// New creates a calendar with the given weekend days and no holidays
func New(weekend ...time.Weekday) (*BusinessCalendar, error) {
	set, err := NewWeekendSet(weekend...)
	if err != nil {
		return nil, err
	}
	return &BusinessCalendar{weekend: set, holidays: map[string]string{}}, nil
}

// NewMiddleEast creates a calendar with a Friday+Saturday weekend
func NewMiddleEast() *BusinessCalendar {
	return &BusinessCalendar{weekend: middleEastWeekend, holidays: map[string]string{}}
}

// NewWestern creates a calendar with a Saturday+Sunday weekend
func NewWestern() *BusinessCalendar {
	return &BusinessCalendar{weekend: westernWeekend, holidays: map[string]string{}}
}

// ForRegion creates a calendar with the weekend preset of the region
func ForRegion(region Region) (*BusinessCalendar, error) {
	set, err := region.Weekend()
	if err != nil {
		return nil, err
	}
	return &BusinessCalendar{weekend: set, holidays: map[string]string{}}, nil
}

// WithWeekendDays returns a copy whose weekend is replaced by days
func (c *BusinessCalendar) WithWeekendDays(days ...time.Weekday) (*BusinessCalendar, error) {
	set, err := NewWeekendSet(days...)
	if err != nil {
		return nil, err
	}
	return &BusinessCalendar{weekend: set, holidays: c.holidays}, nil
}

// WithHolidays returns a copy whose holiday set is replaced by dates
func (c *BusinessCalendar) WithHolidays(dates ...time.Time) *BusinessCalendar {
	holidays := make(map[string]string, len(dates))
	for _, d := range dates {
		holidays[dateutil.Key(d)] = ""
	}
	return &BusinessCalendar{weekend: c.weekend, holidays: holidays}
}

// WithHoliday returns a copy with one more holiday.
// Adding a date that is already a holiday keeps its name.
func (c *BusinessCalendar) WithHoliday(date time.Time) *BusinessCalendar {
	key := dateutil.Key(date)
	if _, ok := c.holidays[key]; ok {
		return c
	}
	holidays := c.cloneHolidays(1)
	holidays[key] = ""
	return &BusinessCalendar{weekend: c.weekend, holidays: holidays}
}

// WithNamedHolidays returns a copy with the given holidays added.
// A later name for the same date wins; an empty name never clears one.
func (c *BusinessCalendar) WithNamedHolidays(hs ...Holiday) *BusinessCalendar {
	holidays := c.cloneHolidays(len(hs))
	for _, h := range hs {
		key := dateutil.Key(h.Date)
		if _, ok := holidays[key]; ok && h.Name == "" {
			continue
		}
		holidays[key] = h.Name
	}
	return &BusinessCalendar{weekend: c.weekend, holidays: holidays}
}

func (c *BusinessCalendar) cloneHolidays(extra int) map[string]string {
	holidays := make(map[string]string, len(c.holidays)+extra)
	for k, v := range c.holidays {
		holidays[k] = v
	}
	return holidays
}

// Weekend returns the weekend days, Sunday first
func (c *BusinessCalendar) Weekend() []time.Weekday {
	return c.weekend.Days()
}

// WeekendSet returns the weekend as a set
func (c *BusinessCalendar) WeekendSet() WeekendSet {
	return c.weekend
}

// Holidays returns the holiday set sorted by date
func (c *BusinessCalendar) Holidays() []Holiday {
	result := make([]Holiday, 0, len(c.holidays))
	for key, name := range c.holidays {
		// keys were produced by dateutil.Key
		d, _ := time.Parse(dateutil.DateLayout, key)
		result = append(result, Holiday{Date: d, Name: name})
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].Date.Before(result[j].Date)
	})
	return result
}

// HolidayName returns the holiday name for the date, or "" if it has none
func (c *BusinessCalendar) HolidayName(date time.Time) string {
	return c.holidays[dateutil.Key(date)]
}

// IsWeekend reports whether the weekday of date is in the weekend set,
// regardless of holidays
func (c *BusinessCalendar) IsWeekend(date time.Time) bool {
	return c.weekend.Contains(date.Weekday())
}

// IsHoliday reports whether date is in the holiday set, regardless of weekday
func (c *BusinessCalendar) IsHoliday(date time.Time) bool {
	_, ok := c.holidays[dateutil.Key(date)]
	return ok
}

// IsWorkingDay reports whether date is neither a weekend day nor a holiday
func (c *BusinessCalendar) IsWorkingDay(date time.Time) bool {
	return !c.IsWeekend(date) && !c.IsHoliday(date)
}

// AddWorkingDays walks n working days forward from date and returns the day
// it stops on. n == 0 returns date itself, even when it is not a working day.
// A negative n walks backward, see SubtractWorkingDays.
func (c *BusinessCalendar) AddWorkingDays(date time.Time, n int) time.Time {
	if n < 0 {
		return c.walk(dateutil.Civil(date), absDays(n), -1)
	}
	return c.walk(dateutil.Civil(date), n, 1)
}

// SubtractWorkingDays walks n working days backward from date.
// A negative n is treated as its absolute value.
func (c *BusinessCalendar) SubtractWorkingDays(date time.Time, n int) time.Time {
	return c.walk(dateutil.Civil(date), absDays(n), -1)
}

// absDays returns |n|, saturating at math.MaxInt since -math.MinInt overflows
func absDays(n int) int {
	switch {
	case n == math.MinInt:
		return math.MaxInt
	case n < 0:
		return -n
	default:
		return n
	}
}

// walk steps one civil day at a time in direction step and counts the
// working days reached until n have been counted
func (c *BusinessCalendar) walk(cur time.Time, n, step int) time.Time {
	for n > 0 {
		cur = cur.AddDate(0, 0, step)
		if c.IsWorkingDay(cur) {
			n--
		}
	}
	return cur
}

// DiffInWorkingDays counts the working days after the earlier date up to and
// including the later one. The result is negative when to is before from and
// zero for the same civil date.
//
// Unlike CountWorkingDays the earlier endpoint is never counted.
func (c *BusinessCalendar) DiffInWorkingDays(from, to time.Time) int {
	start, end := dateutil.Civil(from), dateutil.Civil(to)
	sign := 1
	if end.Before(start) {
		start, end = end, start
		sign = -1
	}

	days := 0
	for cur := start; cur.Before(end); {
		cur = cur.AddDate(0, 0, 1)
		if c.IsWorkingDay(cur) {
			days++
		}
	}
	return sign * days
}

// CountWorkingDays counts the working days in the closed range between the
// two dates. The order of the arguments does not matter.
func (c *BusinessCalendar) CountWorkingDays(from, to time.Time) int {
	count := 0
	c.eachDay(from, to, func(d time.Time) {
		if c.IsWorkingDay(d) {
			count++
		}
	})
	return count
}

// WorkingDaysInRange returns every working day in the closed range between
// the two dates in ascending order
func (c *BusinessCalendar) WorkingDaysInRange(from, to time.Time) []time.Time {
	days := []time.Time{}
	c.eachDay(from, to, func(d time.Time) {
		if c.IsWorkingDay(d) {
			days = append(days, d)
		}
	})
	return days
}

// eachDay calls fn for every civil day in [min(from,to), max(from,to)]
func (c *BusinessCalendar) eachDay(from, to time.Time, fn func(time.Time)) {
	start, end := dateutil.Civil(from), dateutil.Civil(to)
	if end.Before(start) {
		start, end = end, start
	}
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		fn(d)
	}
}

// NextWorkingDay returns date if it is a working day, otherwise the first
// working day after it
func (c *BusinessCalendar) NextWorkingDay(date time.Time) time.Time {
	return c.seek(dateutil.Civil(date), 1)
}

// PreviousWorkingDay returns date if it is a working day, otherwise the last
// working day before it
func (c *BusinessCalendar) PreviousWorkingDay(date time.Time) time.Time {
	return c.seek(dateutil.Civil(date), -1)
}

func (c *BusinessCalendar) seek(cur time.Time, step int) time.Time {
	for !c.IsWorkingDay(cur) {
		cur = cur.AddDate(0, 0, step)
	}
	return cur
}
