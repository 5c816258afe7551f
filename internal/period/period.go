// Package period resolves the target month of a run and its date range.
package period

import (
	"fmt"
	"time"

	"mail-pdf-archiver/internal/models"
)

// Options tunes resolution. NormalizeRollover makes the "year set, month
// unset" branch step back into December of the previous year in January
// instead of producing month 0.
type Options struct {
	NormalizeRollover bool
}

// Validate rejects overrides that cannot name a month
func Validate(year, month int) error {
	if year < 0 {
		return &models.ConfigError{Reason: fmt.Sprintf("target year %d must be 0 or positive", year)}
	}
	if month < 0 || month > 12 {
		return &models.ConfigError{Reason: fmt.Sprintf("target month %d must be between 0 and 12", month)}
	}
	return nil
}

// Resolve computes the target year and month from the overrides, where 0 means unset
func Resolve(now time.Time, year, month int, opts Options) models.Period {
	if year == 0 && month == 0 {
		prev := time.Date(now.Year(), now.Month()-1, 1, 0, 0, 0, 0, now.Location())
		return models.Period{Year: prev.Year(), Month: int(prev.Month())}
	}

	p := models.Period{Year: year, Month: month}
	if year == 0 {
		p.Year = now.Year()
	}
	if month == 0 {
		p.Month = int(now.Month()) - 1
		if p.Month == 0 && opts.NormalizeRollover {
			p.Year--
			p.Month = 12
		}
	}
	return p
}

// Range returns the first and last day of the period's month at midnight in loc.
// Month 0 normalizes to December of the previous year.
func Range(p models.Period, loc *time.Location) models.DateRange {
	start := time.Date(p.Year, time.Month(p.Month), 1, 0, 0, 0, 0, loc)
	end := time.Date(p.Year, time.Month(p.Month)+1, 0, 0, 0, 0, 0, loc)
	return models.DateRange{Start: start, End: end}
}
