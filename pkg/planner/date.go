package planner

import (
	"cloud.google.com/go/civil"
	"github.com/pkg/errors"
)

// ErrInvalidDate is returned when a planting date is not a real calendar date.
var ErrInvalidDate = errors.New("invalid planting date")

// ParseDate parses an ISO YYYY-MM-DD date.
func ParseDate(s string) (civil.Date, error) {
	d, err := civil.ParseDate(s)
	if err != nil {
		return civil.Date{}, errors.Wrapf(ErrInvalidDate, "%q is not a YYYY-MM-DD date", s)
	}
	return d, nil
}

// AddYears moves d by n calendar years keeping month and day.
// Feb 29 becomes Feb 28 when the target year is not a leap year.
func AddYears(d civil.Date, n int) civil.Date {
	out := civil.Date{Year: d.Year + n, Month: d.Month, Day: d.Day}
	if !out.IsValid() {
		out.Day = 28
	}
	return out
}
