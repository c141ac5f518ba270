package calendar

import (
	"time"

	"github.com/username/workday-calendar/pkg/dateutil"
)

// DayInfo returns detailed info for a specific day.
// A holiday that falls on a weekend day is reported as DayTypeHoliday.
func (c *BusinessCalendar) DayInfo(date time.Time) DayInfo {
	d := dateutil.Civil(date)
	info := DayInfo{Date: d, Type: DayTypeWorkday, IsWorkday: true}

	if name, ok := c.holidays[dateutil.Key(d)]; ok {
		info.Type = DayTypeHoliday
		info.IsWorkday = false
		info.Note = name
	} else if c.IsWeekend(d) {
		info.Type = DayTypeWeekend
		info.IsWorkday = false
	}
	return info
}

// MonthInfo returns calendar info for the entire month
func (c *BusinessCalendar) MonthInfo(year int, month time.Month) MonthInfo {
	daysInMonth := dateutil.DaysInMonth(year, month)

	monthInfo := MonthInfo{
		Year:  year,
		Month: month,
		Days:  make([]DayInfo, 0, daysInMonth),
	}

	for day := 1; day <= daysInMonth; day++ {
		info := c.DayInfo(time.Date(year, month, day, 0, 0, 0, 0, time.UTC))

		// Update statistics
		switch info.Type {
		case DayTypeWorkday:
			monthInfo.WorkDays++
		case DayTypeWeekend:
			monthInfo.Weekends++
		case DayTypeHoliday:
			monthInfo.Holidays++
		}
		monthInfo.Days = append(monthInfo.Days, info)
	}

	return monthInfo
}
