package main

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/username/workday-calendar/internal/calendar"
	"github.com/username/workday-calendar/internal/config"
	"github.com/username/workday-calendar/internal/daemon"
	"github.com/username/workday-calendar/internal/duedate"
	"github.com/username/workday-calendar/pkg/dateutil"
	"go.uber.org/zap"
)

func checkCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "check DATE",
		Short: "Show whether a date is a working day",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			date, err := parseDateArg("date", args[0])
			if err != nil {
				return err
			}

			printDay(cmd.OutOrStdout(), a.store.DayInfo(date))
			return nil
		},
	}
}

func addCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "add DATE N",
		Short: "Add N working days to a date",
		Long:  "Add N working days to a date. Pass -- before a negative N.",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			date, n, err := parseDateAndCount(args)
			if err != nil {
				return err
			}

			result := a.store.AddWorkingDays(date, n)
			a.logger.Debug("Working days added",
				zap.Time("date", date), zap.Int("n", n), zap.Time("result", result))

			fmt.Fprintln(cmd.OutOrStdout(), result.Format(dateutil.DateLayout))
			return nil
		},
	}
}

func subtractCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "subtract DATE N",
		Short: "Subtract N working days from a date",
		Long:  "Subtract N working days from a date. The sign of N is ignored.",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			date, n, err := parseDateAndCount(args)
			if err != nil {
				return err
			}

			result := a.store.SubtractWorkingDays(date, n)
			a.logger.Debug("Working days subtracted",
				zap.Time("date", date), zap.Int("n", n), zap.Time("result", result))

			fmt.Fprintln(cmd.OutOrStdout(), result.Format(dateutil.DateLayout))
			return nil
		},
	}
}

func diffCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "diff FROM TO",
		Short: "Signed number of working days from FROM to TO",
		Long:  "Count working days after FROM up to and including TO. Negative when TO is before FROM.",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			from, to, err := parseRangeArgs(args)
			if err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), a.store.DiffInWorkingDays(from, to))
			return nil
		},
	}
}

func countCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "count FROM TO",
		Short: "Number of working days in the inclusive range",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			from, to, err := parseRangeArgs(args)
			if err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), a.store.CountWorkingDays(from, to))
			return nil
		},
	}
}

func rangeCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "range FROM TO",
		Short: "List working days in the inclusive range",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			from, to, err := parseRangeArgs(args)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			for _, day := range a.store.WorkingDaysInRange(from, to) {
				fmt.Fprintln(out, day.Format(dateutil.DateLayout))
			}
			return nil
		},
	}
}

func nextCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "next DATE",
		Short: "DATE if it is a working day, otherwise the next one",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			date, err := parseDateArg("date", args[0])
			if err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), a.store.NextWorkingDay(date).Format(dateutil.DateLayout))
			return nil
		},
	}
}

func prevCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:     "prev DATE",
		Aliases: []string{"previous"},
		Short:   "DATE if it is a working day, otherwise the previous one",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			date, err := parseDateArg("date", args[0])
			if err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), a.store.PreviousWorkingDay(date).Format(dateutil.DateLayout))
			return nil
		},
	}
}

func monthCmd(a *app) *cobra.Command {
	var showDays bool

	cmd := &cobra.Command{
		Use:   "month [YYYY-MM]",
		Short: "Show working-day statistics for a month",
		Long:  "Show working-day statistics for a month. Defaults to the current month.",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			today := dateutil.Today()
			year, month := today.Year(), today.Month()
			if len(args) == 1 {
				var err error
				year, month, err = dateutil.ParseMonth(args[0])
				if err != nil {
					return fmt.Errorf("invalid month: %w", err)
				}
			}

			info := a.store.MonthInfo(year, month)
			out := cmd.OutOrStdout()

			fmt.Fprintf(out, "%s %d\n", info.Month, info.Year)
			fmt.Fprintln(out, "═══════════════════════════════")
			fmt.Fprintf(out, "  Working days: %d\n", info.WorkDays)
			fmt.Fprintf(out, "  Weekends:     %d\n", info.Weekends)
			fmt.Fprintf(out, "  Holidays:     %d\n", info.Holidays)

			if showDays {
				fmt.Fprintln(out, "\n  Date       | Day | Type    | Note")
				fmt.Fprintln(out, "-------------+-----+---------+----------------")
				for _, day := range info.Days {
					fmt.Fprintf(out, "  %s | %s | %-7s | %s\n",
						day.Date.Format(dateutil.DateLayout),
						day.Date.Format("Mon"),
						day.Type,
						day.Note)
				}
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&showDays, "days", false, "Print the per-day breakdown")

	return cmd
}

func holidaysCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "holidays",
		Short: "List configured holidays",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cal := a.store.Load()
			out := cmd.OutOrStdout()

			fmt.Fprintf(out, "Weekend: %s\n", cal.WeekendSet())
			for _, h := range cal.Holidays() {
				if h.Name == "" {
					fmt.Fprintln(out, h.Date.Format(dateutil.DateLayout))
					continue
				}
				fmt.Fprintf(out, "%s %s\n", h.Date.Format(dateutil.DateLayout), h.Name)
			}
			return nil
		},
	}
}

func dueCmd(a *app) *cobra.Command {
	var kindStr string

	cmd := &cobra.Command{
		Use:   "due START [N]",
		Short: "Compute a working-day due date",
		Long: "Compute the due date N working days after START. " +
			"Without N the configured window of --kind is used.",
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			start, err := parseDateArg("start", args[0])
			if err != nil {
				return err
			}

			planner := a.planner()

			var due time.Time
			if len(args) == 2 {
				n, err := strconv.Atoi(args[1])
				if err != nil {
					return fmt.Errorf("invalid working day count %q: %w", args[1], err)
				}
				due = planner.DueDate(start, n)
			} else {
				kind, err := duedate.ParseKind(kindStr)
				if err != nil {
					return err
				}
				if due, err = planner.DueDateFor(kind, start); err != nil {
					return err
				}
			}

			fmt.Fprintln(cmd.OutOrStdout(), due.Format(dateutil.DateLayout))
			return nil
		},
	}

	cmd.Flags().StringVarP(&kindStr, "kind", "k", string(duedate.KindCorrectiveAction),
		"Item kind: car, certificate or document-review")

	return cmd
}

func statusCmd(a *app) *cobra.Command {
	var nowStr string

	cmd := &cobra.Command{
		Use:   "status DUE",
		Short: "Show how many working days remain until DUE",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			due, err := parseDateArg("due", args[0])
			if err != nil {
				return err
			}

			now := dateutil.Today()
			if nowStr != "" {
				if now, err = parseDateArg("now", nowStr); err != nil {
					return err
				}
			}

			st := a.planner().Status(now, due)
			out := cmd.OutOrStdout()

			switch st.State {
			case duedate.StateOverdue:
				fmt.Fprintf(out, "%s: %s by %d working day(s)\n",
					st.Due.Format(dateutil.DateLayout), st.State, -st.RemainingWorkingDays)
			default:
				fmt.Fprintf(out, "%s: %s, %d working day(s) remaining\n",
					st.Due.Format(dateutil.DateLayout), st.State, st.RemainingWorkingDays)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&nowStr, "now", "", "Reference date (default: today)")

	return cmd
}

func watchCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "watch",
		Short: "Run in foreground and reload the calendar when its files change",
		Long: "Watch the config file and the holidays file. A change rebuilds the calendar; " +
			"a broken file keeps the previous calendar. SIGHUP forces a reload.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			// Re-read the file that was actually loaded, including a search hit
			configPath := a.cfg.Path
			reload := func() (*calendar.BusinessCalendar, error) {
				cfg, err := config.Load(configPath)
				if err != nil {
					return nil, fmt.Errorf("failed to load config: %w", err)
				}
				return initializeCalendar(cfg, a.logger)
			}

			d, err := daemon.NewDaemon(a.store, reload,
				[]string{configPath, a.cfg.Calendar.HolidaysFile}, a.logger)
			if err != nil {
				return fmt.Errorf("failed to create daemon: %w", err)
			}

			errc := make(chan error, 1)
			go func() { errc <- d.Start(cmd.Context()) }()

			select {
			case <-d.Ready():
			case err := <-errc:
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Watching %s, press Ctrl+C to stop\n", strings.Join(d.Files(), ", "))

			return <-errc
		},
	}
}

func printDay(out io.Writer, info calendar.DayInfo) {
	line := fmt.Sprintf("%s %s %s", info.Date.Format(dateutil.DateLayout), info.Date.Format("Mon"), info.Type)
	if info.Note != "" {
		line += " (" + info.Note + ")"
	}
	fmt.Fprintln(out, line)
}

func parseDateArg(name, value string) (time.Time, error) {
	date, err := dateutil.ParseDate(value)
	if err != nil {
		return time.Time{}, fmt.Errorf("%s: %w", name, err)
	}
	return date, nil
}

func parseRangeArgs(args []string) (from, to time.Time, err error) {
	if from, err = parseDateArg("from date", args[0]); err != nil {
		return
	}
	to, err = parseDateArg("to date", args[1])
	return
}

func parseDateAndCount(args []string) (time.Time, int, error) {
	date, err := parseDateArg("date", args[0])
	if err != nil {
		return time.Time{}, 0, err
	}
	n, err := strconv.Atoi(args[1])
	if err != nil {
		return time.Time{}, 0, fmt.Errorf("invalid working day count %q: %w", args[1], err)
	}
	return date, n, nil
}
