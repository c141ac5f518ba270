package calendar

import (
	"errors"

	"github.com/username/workday-calendar/pkg/dateutil"
)

var (
	// ErrInvalidDate is returned when an input cannot be read as a civil date
	ErrInvalidDate = dateutil.ErrInvalidDate

	// ErrInvalidConfiguration is returned when a weekend or region setting is rejected
	ErrInvalidConfiguration = errors.New("invalid calendar configuration")
)
