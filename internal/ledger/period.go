package ledger

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	apperrors "carteira/internal/errors"
)

// DateLayout is the calendar date format entries are stored with.
const DateLayout = "2006-01-02"

// Period is a reference month.
type Period struct {
	Year  int        `json:"year"`
	Month time.Month `json:"month"`
}

// PeriodOf returns the period containing t.
func PeriodOf(t time.Time) Period {
	return Period{Year: t.Year(), Month: t.Month()}
}

// ParsePeriod reads month (1-12) and year query values. Empty values default
// to the corresponding part of now.
func ParsePeriod(month, year string, now time.Time) (Period, error) {
	p := PeriodOf(now)
	if month != "" {
		m, err := strconv.Atoi(month)
		if err != nil || m < 1 || m > 12 {
			return Period{}, apperrors.WithMessage(apperrors.ErrInvalidInput, "month must be between 1 and 12")
		}
		p.Month = time.Month(m)
	}
	if year != "" {
		y, err := strconv.Atoi(year)
		if err != nil || y < 1 || y > 9999 {
			return Period{}, apperrors.WithMessage(apperrors.ErrInvalidInput, "year must be between 1 and 9999")
		}
		p.Year = y
	}
	return p, nil
}

// String formats the period as YYYY-MM.
func (p Period) String() string {
	return fmt.Sprintf("%04d-%02d", p.Year, int(p.Month))
}

// Contains reports whether date falls in the period. Unparsable dates are
// never contained.
func (p Period) Contains(date string) bool {
	t, ok := ParseDate(date)
	if !ok {
		return false
	}
	return t.Year() == p.Year && t.Month() == p.Month
}

// ParseDate reads an entry date as a calendar date. Besides YYYY-MM-DD it
// accepts timestamps, whose date part is taken as written, without any
// timezone conversion.
func ParseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if len(s) < len(DateLayout) {
		return time.Time{}, false
	}
	if len(s) > len(DateLayout) {
		if s[len(DateLayout)] != 'T' && s[len(DateLayout)] != ' ' {
			return time.Time{}, false
		}
		if _, err := time.Parse(time.RFC3339, strings.Replace(s, " ", "T", 1)); err != nil {
			if _, err := time.Parse("2006-01-02T15:04:05", strings.Replace(s, " ", "T", 1)); err != nil {
				return time.Time{}, false
			}
		}
		s = s[:len(DateLayout)]
	}
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// ValidDate reports whether s is a YYYY-MM-DD calendar date.
func ValidDate(s string) bool {
	_, err := time.Parse(DateLayout, s)
	return err == nil
}
