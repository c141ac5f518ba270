package calendar

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/username/workday-calendar/pkg/dateutil"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

// LoadHolidayFile reads a holiday list from a local file.
//
// Files ending in .yaml or .yml are read with ReadHolidaysYAML. Any other
// file holds one holiday per line, "YYYY-MM-DD [name]".
// Example: 2025-01-06 Company foundation day
// Blank lines and lines starting with '#' are ignored.
func LoadHolidayFile(filePath string, logger *zap.Logger) ([]Holiday, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open holiday file: %w", err)
	}
	defer file.Close()

	read := ReadHolidays
	switch strings.ToLower(filepath.Ext(filePath)) {
	case ".yaml", ".yml":
		read = ReadHolidaysYAML
	}

	holidays, err := read(file)
	if err != nil {
		return nil, fmt.Errorf("failed to read holiday file %s: %w", filePath, err)
	}

	if logger != nil {
		logger.Info("Holiday file loaded",
			zap.String("file", filePath),
			zap.Int("holidays", len(holidays)))
	}

	return holidays, nil
}

// ReadHolidays parses a holiday list in the LoadHolidayFile format.
// A malformed date fails the whole read.
func ReadHolidays(r io.Reader) ([]Holiday, error) {
	var holidays []Holiday

	scanner := bufio.NewScanner(r)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		fields := strings.Fields(line)
		date, err := dateutil.ParseDate(fields[0])
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", lineNo, err)
		}

		holidays = append(holidays, Holiday{
			Date: date,
			Name: strings.Join(fields[1:], " "),
		})
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading holidays: %w", err)
	}

	return holidays, nil
}

type yamlHoliday struct {
	Date string `yaml:"date"`
	Name string `yaml:"name"`
}

// ReadHolidaysYAML parses a YAML holiday list:
//
//	holidays:
//	  - date: 2025-01-06
//	    name: Company foundation day
func ReadHolidaysYAML(r io.Reader) ([]Holiday, error) {
	var doc struct {
		Holidays []yamlHoliday `yaml:"holidays"`
	}
	if err := yaml.NewDecoder(r).Decode(&doc); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("failed to decode holidays: %w", err)
	}

	holidays := make([]Holiday, 0, len(doc.Holidays))
	for i, h := range doc.Holidays {
		date, err := dateutil.ParseDate(h.Date)
		if err != nil {
			return nil, fmt.Errorf("holiday #%d: %w", i+1, err)
		}
		holidays = append(holidays, Holiday{Date: date, Name: strings.TrimSpace(h.Name)})
	}
	return holidays, nil
}

// ParseHolidays parses a list of ISO date strings
func ParseHolidays(values []string) ([]Holiday, error) {
	holidays := make([]Holiday, 0, len(values))
	for i, v := range values {
		date, err := dateutil.ParseDate(v)
		if err != nil {
			return nil, fmt.Errorf("holiday #%d: %w", i+1, err)
		}
		holidays = append(holidays, Holiday{Date: date})
	}
	return holidays, nil
}
