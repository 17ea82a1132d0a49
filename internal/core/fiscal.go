package core

import (
	"fmt"
	"time"
)

// FiscalYear returns the fiscal year label for d. The fiscal year runs
// April 1 through March 31 and is written "Y-(Y+1)", e.g. "2023-2024".
// The label is always derived from the date; client-supplied values are
// never trusted.
func FiscalYear(d time.Time) string {
	year := d.Year()
	if d.Month() >= time.April {
		return fmt.Sprintf("%d-%d", year, year+1)
	}
	return fmt.Sprintf("%d-%d", year-1, year)
}
