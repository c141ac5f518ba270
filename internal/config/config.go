package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
	"github.com/username/workday-calendar/internal/calendar"
	"github.com/username/workday-calendar/pkg/dateutil"
)

// Config represents application configuration
type Config struct {
	Calendar CalendarConfig `mapstructure:"calendar"`
	DueDate  DueDateConfig  `mapstructure:"due_date"`
	Log      LogConfig      `mapstructure:"log"`

	// Path is the config file that was read, empty when defaults apply
	Path string `mapstructure:"-"`
}

// CalendarConfig represents calendar configuration
type CalendarConfig struct {
	Region       string          `mapstructure:"region"`       // "middle-east" or "western"
	WeekendDays  []string        `mapstructure:"weekend_days"` // overrides the region preset when set
	Holidays     []HolidayConfig `mapstructure:"holidays"`
	HolidaysFile string          `mapstructure:"holidays_file"`
}

// HolidayConfig represents a single configured holiday
type HolidayConfig struct {
	Date string `mapstructure:"date"`
	Name string `mapstructure:"name"`
}

// DueDateConfig represents working-day windows for tracked items
type DueDateConfig struct {
	DueSoonDays        int `mapstructure:"due_soon_days"`
	CARDays            int `mapstructure:"car_days"`
	CertificateDays    int `mapstructure:"certificate_days"`
	DocumentReviewDays int `mapstructure:"document_review_days"`
}

// LogConfig represents logging configuration
type LogConfig struct {
	File  string `mapstructure:"file"`
	Level string `mapstructure:"level"`
}

const envPrefix = "WORKCAL"

// Load loads configuration from file.
// With an empty path the default locations are searched and a missing
// file falls back to defaults.
func Load(configPath string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	// Set config file
	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME/.workday-calendar")
		v.AddConfigPath("/etc/workday-calendar")
	}

	// Read environment variables, e.g. WORKCAL_CALENDAR_REGION
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Read config file
	used := ""
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if configPath != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	} else {
		used = v.ConfigFileUsed()
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	config.Path = used

	config.ExpandEnvVars()

	// Validate config
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &config, nil
}

// Default returns the configuration used when no file is present
func Default() *Config {
	v := viper.New()
	setDefaults(v)

	var config Config
	// defaults are plain scalars and cannot fail to decode
	_ = v.Unmarshal(&config)
	return &config
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("calendar.region", string(calendar.RegionMiddleEast))
	v.SetDefault("calendar.weekend_days", []string{})
	v.SetDefault("calendar.holidays_file", "")
	v.SetDefault("due_date.due_soon_days", 3)
	v.SetDefault("due_date.car_days", 10)
	v.SetDefault("due_date.certificate_days", 20)
	v.SetDefault("due_date.document_review_days", 5)
	v.SetDefault("log.file", "")
	v.SetDefault("log.level", "info")
}

// Validate validates the configuration
func (c *Config) Validate() error {
	// Validate Calendar config
	if _, err := calendar.Region(c.Calendar.Region).Weekend(); err != nil {
		return fmt.Errorf("calendar.region must be 'middle-east' or 'western': %w", err)
	}

	days, _, err := c.Calendar.GetWeekendDays()
	if err != nil {
		return err
	}
	if _, err := calendar.NewWeekendSet(days...); err != nil {
		return fmt.Errorf("calendar.weekend_days: %w", err)
	}

	for i, h := range c.Calendar.Holidays {
		if _, err := dateutil.ParseDate(h.Date); err != nil {
			return fmt.Errorf("calendar.holidays[%d]: %w", i, err)
		}
	}

	// Validate DueDate config
	if c.DueDate.DueSoonDays < 0 {
		return fmt.Errorf("due_date.due_soon_days must not be negative")
	}
	if c.DueDate.CARDays < 0 || c.DueDate.CertificateDays < 0 || c.DueDate.DocumentReviewDays < 0 {
		return fmt.Errorf("due_date windows must not be negative")
	}

	return nil
}

// GetWeekendDays returns the configured weekend override.
// ok is false when no override is configured and the region preset applies.
func (c *CalendarConfig) GetWeekendDays() (days []time.Weekday, ok bool, err error) {
	if len(c.WeekendDays) == 0 {
		return nil, false, nil
	}

	days = make([]time.Weekday, 0, len(c.WeekendDays))
	for _, s := range c.WeekendDays {
		wd, err := dateutil.ParseWeekday(s)
		if err != nil {
			return nil, false, fmt.Errorf("calendar.weekend_days: %w", err)
		}
		days = append(days, wd)
	}
	return days, true, nil
}

// ExpandEnvVars expands environment variables in config strings
func (c *Config) ExpandEnvVars() {
	c.Calendar.HolidaysFile = os.ExpandEnv(c.Calendar.HolidaysFile)
	c.Log.File = os.ExpandEnv(c.Log.File)
}
