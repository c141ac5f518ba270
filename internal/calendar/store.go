package calendar

import (
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
)

// Store holds the current calendar of a long-lived process.
// Readers get an immutable snapshot without locking; reconfiguration builds a
// fresh calendar from the current one and publishes it atomically. Writers are
// serialized so concurrent updates are never lost.
type Store struct {
	current atomic.Pointer[BusinessCalendar]
	mu      sync.Mutex
	logger  *zap.Logger
}

// NewStore creates a Store serving initial
func NewStore(initial *BusinessCalendar, logger *zap.Logger) *Store {
	if initial == nil {
		initial = NewMiddleEast()
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	s := &Store{logger: logger}
	s.current.Store(initial)
	return s
}

// Load returns the current calendar snapshot
func (s *Store) Load() *BusinessCalendar {
	return s.current.Load()
}

// Replace publishes cal as the current calendar
func (s *Store) Replace(cal *BusinessCalendar) {
	if cal == nil {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	s.current.Store(cal)
	s.logPublished("replaced", cal)
}

// SetWeekendDays replaces the weekend of the current calendar
func (s *Store) SetWeekendDays(days ...time.Weekday) error {
	return s.update("weekend_days", func(c *BusinessCalendar) (*BusinessCalendar, error) {
		next, err := c.WithWeekendDays(days...)
		if err != nil {
			return nil, fmt.Errorf("failed to set weekend days: %w", err)
		}
		return next, nil
	})
}

// SetHolidays replaces the holiday set of the current calendar
func (s *Store) SetHolidays(dates ...time.Time) {
	_ = s.update("holidays", func(c *BusinessCalendar) (*BusinessCalendar, error) {
		return c.WithHolidays(dates...), nil
	})
}

// AddHoliday adds one holiday to the current calendar
func (s *Store) AddHoliday(date time.Time) {
	_ = s.update("add_holiday", func(c *BusinessCalendar) (*BusinessCalendar, error) {
		return c.WithHoliday(date), nil
	})
}

// AddNamedHolidays adds holidays with names to the current calendar
func (s *Store) AddNamedHolidays(hs ...Holiday) {
	_ = s.update("add_named_holidays", func(c *BusinessCalendar) (*BusinessCalendar, error) {
		return c.WithNamedHolidays(hs...), nil
	})
}

func (s *Store) update(change string, fn func(*BusinessCalendar) (*BusinessCalendar, error)) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	next, err := fn(s.current.Load())
	if err != nil {
		return err
	}
	s.current.Store(next)
	s.logPublished(change, next)
	return nil
}

func (s *Store) logPublished(change string, cal *BusinessCalendar) {
	s.logger.Info("Calendar reconfigured",
		zap.String("change", change),
		zap.Stringer("weekend", cal.WeekendSet()),
		zap.Int("weekend_days", cal.weekend.Len()),
		zap.Int("holidays", len(cal.holidays)))
}

// IsWorkingDay reports whether date is a working day in the current calendar
func (s *Store) IsWorkingDay(date time.Time) bool { return s.Load().IsWorkingDay(date) }

// IsWeekend reports whether date falls on a weekend day in the current calendar
func (s *Store) IsWeekend(date time.Time) bool { return s.Load().IsWeekend(date) }

// IsHoliday reports whether date is a holiday in the current calendar
func (s *Store) IsHoliday(date time.Time) bool { return s.Load().IsHoliday(date) }

func (s *Store) AddWorkingDays(date time.Time, n int) time.Time {
	return s.Load().AddWorkingDays(date, n)
}

func (s *Store) SubtractWorkingDays(date time.Time, n int) time.Time {
	return s.Load().SubtractWorkingDays(date, n)
}

func (s *Store) DiffInWorkingDays(from, to time.Time) int {
	return s.Load().DiffInWorkingDays(from, to)
}

func (s *Store) CountWorkingDays(from, to time.Time) int {
	return s.Load().CountWorkingDays(from, to)
}

func (s *Store) WorkingDaysInRange(from, to time.Time) []time.Time {
	return s.Load().WorkingDaysInRange(from, to)
}

func (s *Store) NextWorkingDay(date time.Time) time.Time { return s.Load().NextWorkingDay(date) }

func (s *Store) PreviousWorkingDay(date time.Time) time.Time {
	return s.Load().PreviousWorkingDay(date)
}

func (s *Store) DayInfo(date time.Time) DayInfo { return s.Load().DayInfo(date) }

func (s *Store) MonthInfo(year int, month time.Month) MonthInfo {
	return s.Load().MonthInfo(year, month)
}

var (
	_ Calendar = (*BusinessCalendar)(nil)
	_ Calendar = (*Store)(nil)
)
