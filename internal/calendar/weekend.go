package calendar

import (
	"fmt"
	"strings"
	"time"
)

// WeekendSet is a set of weekdays stored as a bitmask, bit i = time.Weekday(i).
// The zero value is the empty set.
type WeekendSet uint8

const allDays WeekendSet = 1<<7 - 1

// NewWeekendSet builds a set from the given weekdays.
// Duplicates collapse. A weekday outside Sunday..Saturday or a set covering
// the whole week is rejected with ErrInvalidConfiguration.
func NewWeekendSet(days ...time.Weekday) (WeekendSet, error) {
	var s WeekendSet
	for _, d := range days {
		if d < time.Sunday || d > time.Saturday {
			return 0, fmt.Errorf("%w: weekday %d out of range 0..6", ErrInvalidConfiguration, int(d))
		}
		s |= 1 << uint(d)
	}

	// every walk would loop forever
	if s == allDays {
		return 0, fmt.Errorf("%w: weekend cannot cover all seven days", ErrInvalidConfiguration)
	}
	return s, nil
}

// Contains reports whether d is in the set
func (s WeekendSet) Contains(d time.Weekday) bool {
	if d < time.Sunday || d > time.Saturday {
		return false
	}
	return s&(1<<uint(d)) != 0
}

// Days returns the weekdays in the set, Sunday first
func (s WeekendSet) Days() []time.Weekday {
	days := make([]time.Weekday, 0, 7)
	for d := time.Sunday; d <= time.Saturday; d++ {
		if s.Contains(d) {
			days = append(days, d)
		}
	}
	return days
}

// Len returns the number of weekdays in the set
func (s WeekendSet) Len() int {
	return len(s.Days())
}

func (s WeekendSet) String() string {
	days := s.Days()
	names := make([]string, len(days))
	for i, d := range days {
		names[i] = d.String()
	}
	return "{" + strings.Join(names, ",") + "}"
}

// Region names a weekend preset
type Region string

const (
	RegionMiddleEast Region = "middle-east"
	RegionWestern    Region = "western"
)

var (
	middleEastWeekend = WeekendSet(1<<uint(time.Friday) | 1<<uint(time.Saturday))
	westernWeekend    = WeekendSet(1<<uint(time.Saturday) | 1<<uint(time.Sunday))
)

// Weekend returns the preset weekend of the region.
// The empty region is the Middle East default.
func (r Region) Weekend() (WeekendSet, error) {
	switch Region(strings.ToLower(string(r))) {
	case "", RegionMiddleEast:
		return middleEastWeekend, nil
	case RegionWestern:
		return westernWeekend, nil
	default:
		return 0, fmt.Errorf("%w: unknown region %q", ErrInvalidConfiguration, string(r))
	}
}
