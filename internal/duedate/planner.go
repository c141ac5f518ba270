// Package duedate computes working-day due dates and remaining-time status for
// quality-management items: corrective-action requests, certificate renewals
// and document reviews.
package duedate

import (
	"fmt"
	"strings"
	"time"

	"github.com/username/workday-calendar/internal/calendar"
	"github.com/username/workday-calendar/pkg/dateutil"
	"go.uber.org/zap"
)

// Kind is the type of tracked item
type Kind string

const (
	KindCorrectiveAction   Kind = "car"
	KindCertificateRenewal Kind = "certificate"
	KindDocumentReview     Kind = "document-review"
)

// ParseKind parses a kind name as used on the command line
func ParseKind(s string) (Kind, error) {
	switch k := Kind(strings.ToLower(strings.TrimSpace(s))); k {
	case KindCorrectiveAction, KindCertificateRenewal, KindDocumentReview:
		return k, nil
	default:
		return "", fmt.Errorf("unknown item kind %q", s)
	}
}

// State classifies how close an item is to its due date
type State int

const (
	StateOnTrack State = iota
	StateDueSoon
	StateDueToday
	StateOverdue
)

func (s State) String() string {
	switch s {
	case StateOnTrack:
		return "on-track"
	case StateDueSoon:
		return "due-soon"
	case StateDueToday:
		return "due-today"
	case StateOverdue:
		return "overdue"
	default:
		return "unknown"
	}
}

// Options configures a Planner
type Options struct {
	// DueSoonDays is the number of remaining working days at or below which
	// an item is due soon
	DueSoonDays int
	// Windows maps an item kind to its default working-day window
	Windows map[Kind]int
}

// Status is the due-date position of an item at a point in time
type Status struct {
	Due                  time.Time
	RemainingWorkingDays int
	State                State
}

// Item is a tracked record with a working-day deadline
type Item struct {
	Kind        Kind
	Ref         string
	Start       time.Time
	WorkingDays int // 0 uses the window of Kind
}

// ItemStatus is the status of one reviewed item
type ItemStatus struct {
	Item
	Status
}

// Summary represents the result of a review run
type Summary struct {
	Items    []ItemStatus
	OnTrack  int
	DueSoon  int
	DueToday int
	Overdue  int
}

// Planner computes due dates against a business calendar
type Planner struct {
	cal    calendar.Calendar
	opts   Options
	logger *zap.Logger
}

// NewPlanner creates a new Planner
func NewPlanner(cal calendar.Calendar, opts Options, logger *zap.Logger) *Planner {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Planner{
		cal:    cal,
		opts:   opts,
		logger: logger,
	}
}

// DueDate returns the date workingDays working days after start
func (p *Planner) DueDate(start time.Time, workingDays int) time.Time {
	return p.cal.AddWorkingDays(start, workingDays)
}

// Window returns the configured working-day window for kind
func (p *Planner) Window(kind Kind) (int, error) {
	days, ok := p.opts.Windows[kind]
	if !ok {
		return 0, fmt.Errorf("no due-date window configured for %q", kind)
	}
	return days, nil
}

// DueDateFor returns the due date of an item of kind opened on start
func (p *Planner) DueDateFor(kind Kind, start time.Time) (time.Time, error) {
	days, err := p.Window(kind)
	if err != nil {
		return time.Time{}, err
	}
	return p.DueDate(start, days), nil
}

// Status returns the position of now relative to due.
// RemainingWorkingDays is negative once due has passed.
func (p *Planner) Status(now, due time.Time) Status {
	today, dueDay := dateutil.Civil(now), dateutil.Civil(due)
	st := Status{
		Due:                  dueDay,
		RemainingWorkingDays: p.cal.DiffInWorkingDays(today, dueDay),
	}

	switch {
	case dueDay.Before(today):
		st.State = StateOverdue
	case dueDay.Equal(today):
		st.State = StateDueToday
	case st.RemainingWorkingDays <= p.opts.DueSoonDays:
		st.State = StateDueSoon
	default:
		st.State = StateOnTrack
	}
	return st
}

// Review computes the status of every item at now
func (p *Planner) Review(now time.Time, items []Item) (*Summary, error) {
	summary := &Summary{Items: make([]ItemStatus, 0, len(items))}

	for _, item := range items {
		days := item.WorkingDays
		if days == 0 {
			var err error
			days, err = p.Window(item.Kind)
			if err != nil {
				return nil, fmt.Errorf("failed to review %s: %w", item.Ref, err)
			}
		}

		st := p.Status(now, p.DueDate(item.Start, days))
		summary.Items = append(summary.Items, ItemStatus{Item: item, Status: st})

		switch st.State {
		case StateOnTrack:
			summary.OnTrack++
		case StateDueSoon:
			summary.DueSoon++
		case StateDueToday:
			summary.DueToday++
		case StateOverdue:
			summary.Overdue++
			p.logger.Debug("Item overdue",
				zap.String("ref", item.Ref),
				zap.String("kind", string(item.Kind)),
				zap.Time("due", st.Due),
				zap.Int("working_days_late", -st.RemainingWorkingDays))
		}
	}

	p.logger.Info("Due-date review completed",
		zap.Time("now", dateutil.Civil(now)),
		zap.Int("items", len(items)),
		zap.Int("on_track", summary.OnTrack),
		zap.Int("due_soon", summary.DueSoon),
		zap.Int("due_today", summary.DueToday),
		zap.Int("overdue", summary.Overdue))

	return summary, nil
}
