package backend

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"git.sr.ht/~whereswaldon/drill-chart/granularity"
)

const (
	DefaultDateLayout = "1/2/2006"
	DefaultTimeLayout = "15:04:05"
)

// Locale controls how sample timestamps are rendered as labels and how
// clicked labels are read back.
type Locale struct {
	DateLayout string
	TimeLayout string
	// Location is used for both formatting and parsing. Nil means time.Local.
	Location *time.Location
}

func DefaultLocale() Locale {
	return Locale{
		DateLayout: DefaultDateLayout,
		TimeLayout: DefaultTimeLayout,
	}
}

func (l Locale) location() *time.Location {
	if l.Location == nil {
		return time.Local
	}
	return l.Location
}

// Label renders t for display at granularity g. Month windows show dates,
// finer windows show times of day.
func (l Locale) Label(g granularity.Granularity, t time.Time) string {
	t = t.In(l.location())
	if g == granularity.Month {
		return t.Format(l.DateLayout)
	}
	return t.Format(l.TimeLayout)
}

// ParseDate reads a label produced with the date layout.
func (l Locale) ParseDate(label string) (time.Time, error) {
	t, err := time.ParseInLocation(l.DateLayout, strings.TrimSpace(label), l.location())
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q is not a date: %v", ErrBadLabel, label, err)
	}
	return t, nil
}

// ParseHour reads the integer in front of the first ':' of a time label.
func ParseHour(label string) (int, error) {
	prefix, _, _ := strings.Cut(label, ":")
	hour, err := strconv.Atoi(strings.TrimSpace(prefix))
	if err != nil {
		return 0, fmt.Errorf("%w: %q has no leading hour: %v", ErrBadLabel, label, err)
	}
	return hour, nil
}
