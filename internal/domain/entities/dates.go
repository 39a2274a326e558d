package entities

import (
	"fmt"
	"time"
)

// DateLayout is the calendar-day format used for reservation and blocked dates
const DateLayout = "2006-01-02"

// ValidateDate checks that s is a YYYY-MM-DD calendar date
func ValidateDate(s string) error {
	t, err := time.Parse(DateLayout, s)
	if err != nil || t.Format(DateLayout) != s {
		return fmt.Errorf("invalid date %q, expected YYYY-MM-DD", s)
	}
	return nil
}

// ValidateDates checks every date in dates
func ValidateDates(dates []string) error {
	for _, d := range dates {
		if err := ValidateDate(d); err != nil {
			return err
		}
	}
	return nil
}

// Today returns the current UTC date in DateLayout
func Today(now time.Time) string {
	return now.UTC().Format(DateLayout)
}
