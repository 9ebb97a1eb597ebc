// Package planner holds the route form and submits it through the client
// into the route store.
package planner

import (
	"regexp"
	"strconv"

	"github.com/kass/pitstop/pkg/errs"
	"github.com/kass/pitstop/pkg/models"
)

// DefaultIntervalMins is the parking interval a new form starts with
const DefaultIntervalMins = 30

var digitsOnly = regexp.MustCompile(`^\d+$`)

// Form is the user's route request: two endpoints and a parking interval
type Form struct {
	Start        *models.Location
	End          *models.Location
	IntervalMins int
}

// NewForm returns an empty form with the default interval
func NewForm() *Form {
	return &Form{IntervalMins: DefaultIntervalMins}
}

// SetStart replaces the start location
func (f *Form) SetStart(loc models.Location) {
	f.Start = &loc
}

// SetEnd replaces the end location
func (f *Form) SetEnd(loc models.Location) {
	f.End = &loc
}

// Swap exchanges the endpoints. Only endpoints that are set move: with
// just a start selected, the start is copied into the end.
func (f *Form) Swap() {
	oldStart, oldEnd := f.Start, f.End
	if oldStart != nil {
		f.End = oldStart
	}
	if oldEnd != nil {
		f.Start = oldEnd
	}
}

// SetIntervalText applies typed interval text. Empty text keeps the
// current value; anything other than a positive whole number is rejected.
func (f *Form) SetIntervalText(text string) error {
	if text == "" {
		return nil
	}
	if !digitsOnly.MatchString(text) {
		return errs.Validation("intervalMins", "must be a positive whole number")
	}
	n, err := strconv.Atoi(text)
	if err != nil || n <= 0 {
		return errs.Validation("intervalMins", "must be a positive whole number")
	}
	f.IntervalMins = n
	return nil
}

// Valid reports whether the form can be submitted
func (f *Form) Valid() bool {
	return f.Start != nil && f.End != nil && f.IntervalMins > 0
}

// Validate returns the first reason the form cannot be submitted
func (f *Form) Validate() error {
	switch {
	case f.Start == nil:
		return errs.Validation("start", "no start location selected")
	case f.End == nil:
		return errs.Validation("end", "no end location selected")
	case f.IntervalMins <= 0:
		return errs.Validation("intervalMins", "must be a positive whole number")
	}
	return nil
}
