package payroll

import (
	"fmt"
	"time"
)

// French month abbreviations as printed on the payroll documents.
var frenchMonths = [...]string{
	"janv.", "févr.", "mars", "avr.", "mai", "juin",
	"juil.", "août", "sept.", "oct.", "nov.", "déc.",
}

// FormatPeriod renders a session date range as the French period line used
// on payroll documents, e.g. "Du 02 janv. 2026 au 15 févr. 2026".
func FormatPeriod(start, end time.Time) string {
	return fmt.Sprintf("Du %s au %s", formatFrenchDate(start), formatFrenchDate(end))
}

func formatFrenchDate(t time.Time) string {
	return fmt.Sprintf("%02d %s %d", t.Day(), frenchMonths[t.Month()-1], t.Year())
}
