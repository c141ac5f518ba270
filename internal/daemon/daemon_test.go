package daemon

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/username/workday-calendar/internal/calendar"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func fileReloader(path string) Reloader {
	return func() (*calendar.BusinessCalendar, error) {
		holidays, err := calendar.LoadHolidayFile(path, nil)
		if err != nil {
			return nil, err
		}
		return calendar.NewMiddleEast().WithNamedHolidays(holidays...), nil
	}
}

func writeHolidays(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func TestNewDaemon_NoFiles(t *testing.T) {
	_, err := NewDaemon(calendar.NewStore(nil, nil), nil, []string{"", ""}, nil)
	assert.Error(t, err)
}

func TestDaemon_ReloadNow(t *testing.T) {
	path := filepath.Join(t.TempDir(), "holidays.txt")
	writeHolidays(t, path, "2025-03-30 Eid al-Fitr\n")

	store := calendar.NewStore(calendar.NewMiddleEast(), zap.NewNop())
	d, err := NewDaemon(store, fileReloader(path), []string{path}, zap.NewNop())
	require.NoError(t, err)

	require.NoError(t, d.ReloadNow())
	eid := time.Date(2025, 3, 30, 0, 0, 0, 0, time.UTC)
	assert.True(t, store.IsHoliday(eid))

	writeHolidays(t, path, "not-a-date\n")
	assert.Error(t, d.ReloadNow())
	assert.True(t, store.IsHoliday(eid), "failed reload keeps the current calendar")

	status := d.GetStatus()
	assert.Equal(t, 1, status["reloads"])
	assert.Equal(t, 1, status["failures"])
	assert.Contains(t, status, "last_error")
}

func TestDaemon_Run_ReloadsOnChange(t *testing.T) {
	path := filepath.Join(t.TempDir(), "holidays.txt")
	writeHolidays(t, path, "")

	core, logs := observer.New(zapcore.InfoLevel)
	store := calendar.NewStore(calendar.NewMiddleEast(), zap.NewNop())
	d, err := NewDaemon(store, fileReloader(path), []string{path}, zap.New(core))
	require.NoError(t, err)
	d.debounce = 10 * time.Millisecond

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- d.Run(ctx) }()

	select {
	case <-d.Ready():
	case <-time.After(2 * time.Second):
		t.Fatal("daemon did not start")
	}

	newYear := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	writeHolidays(t, path, "2025-01-01 New Year\n")

	require.Eventually(t, func() bool {
		return store.IsHoliday(newYear)
	}, 2*time.Second, 10*time.Millisecond)
	assert.Equal(t, "New Year", store.Load().HolidayName(newYear))

	// Unrelated files in the same directory are ignored
	writeHolidays(t, filepath.Join(filepath.Dir(path), "other.txt"), "garbage\n")
	time.Sleep(50 * time.Millisecond)
	assert.Zero(t, logs.FilterMessage("Calendar reload failed, keeping current calendar").Len())

	writeHolidays(t, path, "2025-13-45\n")
	require.Eventually(t, func() bool {
		return logs.FilterMessage("Calendar reload failed, keeping current calendar").Len() > 0
	}, 2*time.Second, 10*time.Millisecond)
	assert.True(t, store.IsHoliday(newYear))

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("daemon did not stop")
	}
}

func TestDaemon_RunTwice(t *testing.T) {
	path := filepath.Join(t.TempDir(), "holidays.txt")
	writeHolidays(t, path, "")

	d, err := NewDaemon(calendar.NewStore(nil, nil), fileReloader(path), []string{path}, nil)
	require.NoError(t, err)

	for i := 0; i < 2; i++ {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		assert.NotPanics(t, func() {
			assert.NoError(t, d.Run(ctx))
		})
	}

	select {
	case <-d.Ready():
	default:
		t.Fatal("Ready() not closed after a run")
	}
}

func TestDaemon_Run_WatchFailureReleasesReady(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "absent", "holidays.txt")

	d, err := NewDaemon(calendar.NewStore(nil, nil), fileReloader(missing), []string{missing}, nil)
	require.NoError(t, err)

	err = d.Run(context.Background())
	assert.Error(t, err)

	select {
	case <-d.Ready():
	case <-time.After(time.Second):
		t.Fatal("Ready() still open after a failed run")
	}
}

func TestDaemon_Files(t *testing.T) {
	dir := t.TempDir()
	b := filepath.Join(dir, "b.yaml")
	a := filepath.Join(dir, "a.txt")

	d, err := NewDaemon(calendar.NewStore(nil, nil), nil, []string{b, "", a, b}, nil)
	require.NoError(t, err)

	assert.Equal(t, []string{a, b}, d.Files())
}
