package accounting

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// LocalDate is a timezone-free calendar date. Schedule boundaries must come
// from the literal year/month/day components of a YYYY-MM-DD string; running
// the same input through time.Parse in a non-UTC zone can shift a month
// boundary and corrupt every period after it.
type LocalDate struct {
	Year  int
	Month time.Month
	Day   int
}

// ParseLocalDate parses "YYYY-MM-DD" by component. Trailing time portions
// ("2024-03-01T00:00:00Z") are tolerated and ignored.
func ParseLocalDate(s string) (LocalDate, error) {
	if i := strings.IndexByte(s, 'T'); i > 0 {
		s = s[:i]
	}
	parts := strings.Split(s, "-")
	if len(parts) != 3 {
		return LocalDate{}, fmt.Errorf("invalid date %q: want YYYY-MM-DD", s)
	}
	year, err := strconv.Atoi(parts[0])
	if err != nil {
		return LocalDate{}, fmt.Errorf("invalid year in %q: %w", s, err)
	}
	month, err := strconv.Atoi(parts[1])
	if err != nil || month < 1 || month > 12 {
		return LocalDate{}, fmt.Errorf("invalid month in %q", s)
	}
	day, err := strconv.Atoi(parts[2])
	if err != nil || day < 1 || day > 31 {
		return LocalDate{}, fmt.Errorf("invalid day in %q", s)
	}
	return LocalDate{Year: year, Month: time.Month(month), Day: day}, nil
}

// Time converts the date to a midnight-UTC timestamp for persistence.
func (d LocalDate) Time() time.Time {
	return time.Date(d.Year, d.Month, d.Day, 0, 0, 0, 0, time.UTC)
}

// YearMonth is one calendar month of a schedule.
type YearMonth struct {
	Year  int
	Month time.Month
}

// String formats as "YYYY-MM".
func (ym YearMonth) String() string {
	return fmt.Sprintf("%04d-%02d", ym.Year, int(ym.Month))
}

// MonthEnd returns the last day of the month as a UTC timestamp, used as the
// entry date for period-close entries.
func (ym YearMonth) MonthEnd() time.Time {
	firstOfNext := time.Date(ym.Year, ym.Month, 1, 0, 0, 0, 0, time.UTC).AddDate(0, 1, 0)
	return firstOfNext.AddDate(0, 0, -1)
}

// MonthSequence generates n consecutive months starting at the given date's
// month. It uses integer month arithmetic (startMonth + i, divmod 12) instead
// of repeatedly mutating a calendar value, so year rollovers and day-31 starts
// cannot drift.
func MonthSequence(start LocalDate, n int) []YearMonth {
	if n <= 0 {
		return nil
	}
	out := make([]YearMonth, n)
	base := start.Year*12 + int(start.Month) - 1
	for i := 0; i < n; i++ {
		m := base + i
		out[i] = YearMonth{Year: m / 12, Month: time.Month(m%12 + 1)}
	}
	return out
}

// ElapsedMonths counts whole months from start through the given cutoff month,
// capped at max. Used by equipment depreciation to avoid posting future months.
func ElapsedMonths(start LocalDate, cutoffYear int, cutoffMonth time.Month, max int) int {
	elapsed := (cutoffYear*12 + int(cutoffMonth)) - (start.Year*12 + int(start.Month)) + 1
	if elapsed < 0 {
		return 0
	}
	if max >= 0 && elapsed > max {
		return max
	}
	return elapsed
}
