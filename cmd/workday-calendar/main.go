package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/username/workday-calendar/internal/calendar"
	"github.com/username/workday-calendar/internal/config"
	"github.com/username/workday-calendar/internal/duedate"
	"github.com/username/workday-calendar/pkg/dateutil"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

// app carries the state shared by all subcommands
type app struct {
	configPath string
	logger     *zap.Logger
	cfg        *config.Config
	store      *calendar.Store
}

func main() {
	a := &app{}
	if err := newRootCmd(a).Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCmd(a *app) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "workday-calendar",
		Short: "Working-day calendar for audit due dates",
		Long: "Working-day arithmetic over a configurable weekend and holiday list, " +
			"used for CAR, certificate renewal and document review due dates",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.init()
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			_ = a.logger.Sync()
		},
	}

	rootCmd.PersistentFlags().StringVarP(&a.configPath, "config", "c", "", "Config file path")

	rootCmd.AddCommand(
		checkCmd(a),
		addCmd(a),
		subtractCmd(a),
		diffCmd(a),
		countCmd(a),
		rangeCmd(a),
		nextCmd(a),
		prevCmd(a),
		monthCmd(a),
		holidaysCmd(a),
		dueCmd(a),
		statusCmd(a),
		watchCmd(a),
	)

	return rootCmd
}

// init loads config, sets up logging and builds the calendar store
func (a *app) init() error {
	cfg, err := config.Load(a.configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	a.cfg = cfg

	if a.logger == nil {
		if cfg.Log.File != "" {
			a.logger, err = initFileLogger(cfg.Log.File, cfg.Log.Level)
		}
		if a.logger == nil || err != nil {
			// Fallback to console
			a.logger, err = initLogger(cfg.Log.Level)
			if err != nil {
				return err
			}
		}
	}

	cal, err := initializeCalendar(cfg, a.logger)
	if err != nil {
		return err
	}
	a.store = calendar.NewStore(cal, a.logger)

	return nil
}

func (a *app) planner() *duedate.Planner {
	return duedate.NewPlanner(a.store, duedate.Options{
		DueSoonDays: a.cfg.DueDate.DueSoonDays,
		Windows: map[duedate.Kind]int{
			duedate.KindCorrectiveAction:   a.cfg.DueDate.CARDays,
			duedate.KindCertificateRenewal: a.cfg.DueDate.CertificateDays,
			duedate.KindDocumentReview:     a.cfg.DueDate.DocumentReviewDays,
		},
	}, a.logger)
}

func initializeCalendar(cfg *config.Config, logger *zap.Logger) (*calendar.BusinessCalendar, error) {
	cal, err := calendar.ForRegion(calendar.Region(cfg.Calendar.Region))
	if err != nil {
		return nil, fmt.Errorf("failed to create calendar: %w", err)
	}

	days, ok, err := cfg.Calendar.GetWeekendDays()
	if err != nil {
		return nil, err
	}
	if ok {
		if cal, err = cal.WithWeekendDays(days...); err != nil {
			return nil, fmt.Errorf("failed to apply weekend override: %w", err)
		}
	}

	holidays := make([]calendar.Holiday, 0, len(cfg.Calendar.Holidays))
	for i, h := range cfg.Calendar.Holidays {
		date, err := dateutil.ParseDate(h.Date)
		if err != nil {
			return nil, fmt.Errorf("calendar.holidays[%d]: %w", i, err)
		}
		holidays = append(holidays, calendar.Holiday{Date: date, Name: h.Name})
	}

	if cfg.Calendar.HolidaysFile != "" {
		fileHolidays, err := calendar.LoadHolidayFile(cfg.Calendar.HolidaysFile, logger)
		if err != nil {
			return nil, err
		}
		holidays = append(holidays, fileHolidays...)
	}

	cal = cal.WithNamedHolidays(holidays...)

	logger.Info("Calendar initialized",
		zap.String("region", cfg.Calendar.Region),
		zap.Stringer("weekend", cal.WeekendSet()),
		zap.Int("holidays", len(cal.Holidays())))

	return cal, nil
}

func parseLevel(level string) zapcore.Level {
	var zapLevel zapcore.Level
	if err := zapLevel.UnmarshalText([]byte(level)); err != nil {
		zapLevel = zapcore.InfoLevel
	}
	return zapLevel
}

func initLogger(level string) (*zap.Logger, error) {
	zapConfig := zap.NewProductionConfig()
	zapConfig.Level = zap.NewAtomicLevelAt(parseLevel(level))
	zapConfig.EncoderConfig.TimeKey = "timestamp"
	zapConfig.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	logger, err := zapConfig.Build()
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	return logger, nil
}

func initFileLogger(logFile string, level string) (*zap.Logger, error) {
	// Setup lumberjack for log rotation
	logWriter := &lumberjack.Logger{
		Filename:   logFile,
		MaxSize:    100,  // MB
		MaxBackups: 3,    // Keep max 3 old log files
		MaxAge:     28,   // days
		Compress:   true, // Compress old logs with gzip
	}

	// Setup encoder
	encoderConfig := zap.NewProductionEncoderConfig()
	encoderConfig.TimeKey = "timestamp"
	encoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	// Create core with lumberjack writer
	core := zapcore.NewCore(
		zapcore.NewJSONEncoder(encoderConfig),
		zapcore.AddSync(logWriter),
		parseLevel(level),
	)

	return zap.New(core), nil
}
