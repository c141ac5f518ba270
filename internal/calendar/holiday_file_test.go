package calendar

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"go.uber.org/zap/zaptest"
)

func TestLoadHolidayFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "holidays.txt")
	content := `# company holidays 2025
2025-01-01 New Year

2025-01-06   Company   foundation day
2025-03-30
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write fixture: %v", err)
	}

	holidays, err := LoadHolidayFile(path, zaptest.NewLogger(t))
	if err != nil {
		t.Fatalf("LoadHolidayFile() error = %v", err)
	}

	if len(holidays) != 3 {
		t.Fatalf("len(holidays) = %d, want 3", len(holidays))
	}
	if !holidays[0].Date.Equal(d(2025, 1, 1)) || holidays[0].Name != "New Year" {
		t.Errorf("holidays[0] = %+v", holidays[0])
	}
	if holidays[1].Name != "Company foundation day" {
		t.Errorf("holidays[1].Name = %q", holidays[1].Name)
	}
	if holidays[2].Name != "" {
		t.Errorf("holidays[2].Name = %q, want empty", holidays[2].Name)
	}

	cal := NewMiddleEast().WithNamedHolidays(holidays...)
	if cal.IsWorkingDay(d(2025, 1, 6)) {
		t.Error("loaded holiday is still a working day")
	}
}

func TestLoadHolidayFile_Missing(t *testing.T) {
	_, err := LoadHolidayFile(filepath.Join(t.TempDir(), "absent.txt"), nil)
	if err == nil {
		t.Fatal("LoadHolidayFile() expected error for missing file, got nil")
	}
	if !errors.Is(err, os.ErrNotExist) {
		t.Errorf("error = %v, want os.ErrNotExist", err)
	}
}

func TestReadHolidays_InvalidDate(t *testing.T) {
	input := "2025-01-01 New Year\n2025-13-01 Broken\n"

	_, err := ReadHolidays(strings.NewReader(input))
	if !errors.Is(err, ErrInvalidDate) {
		t.Fatalf("ReadHolidays() error = %v, want ErrInvalidDate", err)
	}
	if !strings.Contains(err.Error(), "line 2") {
		t.Errorf("error %q does not name the line", err)
	}
}

func TestParseHolidays(t *testing.T) {
	holidays, err := ParseHolidays([]string{"2025-01-01", "06.01.2025"})
	if err != nil {
		t.Fatalf("ParseHolidays() error = %v", err)
	}
	if len(holidays) != 2 || !holidays[1].Date.Equal(d(2025, 1, 6)) {
		t.Errorf("ParseHolidays() = %+v", holidays)
	}

	if _, err := ParseHolidays([]string{"2025-01-01", "soon"}); !errors.Is(err, ErrInvalidDate) {
		t.Errorf("ParseHolidays() error = %v, want ErrInvalidDate", err)
	}
}

func TestLoadHolidayFile_YAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "holidays.yaml")
	content := `# company holidays 2025
holidays:
  - date: 2025-03-30
    name: Eid al-Fitr
  - date: "31.03.2025"
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write fixture: %v", err)
	}

	holidays, err := LoadHolidayFile(path, nil)
	if err != nil {
		t.Fatalf("LoadHolidayFile() error = %v", err)
	}
	if len(holidays) != 2 {
		t.Fatalf("len(holidays) = %d, want 2", len(holidays))
	}
	if !holidays[0].Date.Equal(d(2025, 3, 30)) || holidays[0].Name != "Eid al-Fitr" {
		t.Errorf("holidays[0] = %+v", holidays[0])
	}
	if !holidays[1].Date.Equal(d(2025, 3, 31)) || holidays[1].Name != "" {
		t.Errorf("holidays[1] = %+v", holidays[1])
	}
}

func TestReadHolidaysYAML(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    int
		wantErr error
	}{
		{"empty document", "", 0, nil},
		{"no holidays key", "region: western\n", 0, nil},
		{"bad date", "holidays:\n  - date: someday\n", 0, ErrInvalidDate},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ReadHolidaysYAML(strings.NewReader(tt.input))
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("ReadHolidaysYAML() error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("ReadHolidaysYAML() error = %v", err)
			}
			if len(got) != tt.want {
				t.Errorf("len(holidays) = %d, want %d", len(got), tt.want)
			}
		})
	}

	if _, err := ReadHolidaysYAML(strings.NewReader("holidays: [")); err == nil {
		t.Error("ReadHolidaysYAML() expected error for malformed YAML, got nil")
	}
}
