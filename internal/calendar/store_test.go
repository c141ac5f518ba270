package calendar

import (
	"errors"
	"sync"
	"testing"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestStore_Defaults(t *testing.T) {
	s := NewStore(nil, nil)

	if s.IsWorkingDay(d(2025, 1, 3)) {
		t.Error("default store should use the Friday+Saturday weekend")
	}
	if got := s.AddWorkingDays(d(2025, 1, 1), 5); !got.Equal(d(2025, 1, 8)) {
		t.Errorf("AddWorkingDays() = %s, want 2025-01-08", got.Format("2006-01-02"))
	}
}

func TestStore_SnapshotsAreIsolated(t *testing.T) {
	s := NewStore(NewWestern(), zap.NewNop())
	before := s.Load()

	s.AddHoliday(d(2025, 1, 6))

	if before.IsHoliday(d(2025, 1, 6)) {
		t.Error("earlier snapshot observed a later reconfiguration")
	}
	if !s.IsHoliday(d(2025, 1, 6)) {
		t.Error("store did not publish the new holiday")
	}
	if s.Load() == before {
		t.Error("reconfiguration did not publish a new instance")
	}
}

func TestStore_Reconfiguration(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	s := NewStore(NewMiddleEast(), zap.New(core))

	if err := s.SetWeekendDays(time.Saturday, time.Sunday); err != nil {
		t.Fatalf("SetWeekendDays() error = %v", err)
	}
	s.SetHolidays(d(2025, 1, 1), d(2025, 1, 2))
	s.AddNamedHolidays(Holiday{Date: d(2025, 1, 3), Name: "Bridge day"})

	if got := s.CountWorkingDays(d(2025, 1, 1), d(2025, 1, 7)); got != 2 {
		t.Errorf("CountWorkingDays() = %d, want 2", got)
	}
	if got := s.DayInfo(d(2025, 1, 3)).Note; got != "Bridge day" {
		t.Errorf("DayInfo().Note = %q, want Bridge day", got)
	}

	entries := logs.FilterMessage("Calendar reconfigured").All()
	if len(entries) != 3 {
		t.Fatalf("logged %d reconfiguration events, want 3", len(entries))
	}
	ctx := entries[1].ContextMap()
	if ctx["weekend_days"] != int64(2) {
		t.Errorf("weekend_days = %v, want 2", ctx["weekend_days"])
	}
	if ctx["change"] != "holidays" {
		t.Errorf("change = %v, want holidays", ctx["change"])
	}
	if ctx["holidays"] != int64(2) {
		t.Errorf("holidays = %v, want 2", ctx["holidays"])
	}
}

func TestStore_InvalidWeekendKeepsCurrent(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	s := NewStore(NewMiddleEast(), zap.New(core))
	before := s.Load()

	err := s.SetWeekendDays(time.Friday, 9)
	if !errors.Is(err, ErrInvalidConfiguration) {
		t.Fatalf("SetWeekendDays() error = %v, want ErrInvalidConfiguration", err)
	}
	if s.Load() != before {
		t.Error("failed reconfiguration replaced the calendar")
	}
	if logs.Len() != 0 {
		t.Errorf("failed reconfiguration was logged %d times", logs.Len())
	}
}

func TestStore_Replace(t *testing.T) {
	s := NewStore(NewMiddleEast(), zap.NewNop())
	s.Replace(NewWestern())
	s.Replace(nil)

	if !s.IsWeekend(d(2025, 1, 5)) || s.IsWeekend(d(2025, 1, 3)) {
		t.Error("Replace() did not install the western calendar")
	}
}

func TestStore_ConcurrentUpdates(t *testing.T) {
	s := NewStore(NewMiddleEast(), zap.NewNop())

	const writers = 8
	const perWriter = 25
	start := d(2026, 1, 1)

	var wg sync.WaitGroup
	for w := 0; w < writers; w++ {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			for i := 0; i < perWriter; i++ {
				s.AddHoliday(start.AddDate(0, 0, w*perWriter+i))
			}
		}(w)
	}

	for r := 0; r < 4; r++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < 200; i++ {
				cal := s.Load()
				_ = cal.AddWorkingDays(start, 10)
				_ = s.CountWorkingDays(start, start.AddDate(0, 0, 30))
			}
		}()
	}

	wg.Wait()

	if got := len(s.Load().Holidays()); got != writers*perWriter {
		t.Errorf("len(Holidays()) = %d, want %d (lost update)", got, writers*perWriter)
	}
}
