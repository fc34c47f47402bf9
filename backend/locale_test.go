package backend

import (
	"errors"
	"testing"
	"time"

	"git.sr.ht/~whereswaldon/drill-chart/granularity"
)

func TestLocaleLabel(t *testing.T) {
	l := DefaultLocale()
	l.Location = time.UTC
	ts := time.Date(2024, time.February, 1, 14, 5, 9, 0, time.UTC)
	if s := l.Label(granularity.Month, ts); s != "2/1/2024" {
		t.Errorf("expected month label %q, got %q", "2/1/2024", s)
	}
	if s := l.Label(granularity.Day, ts); s != "14:05:09" {
		t.Errorf("expected day label %q, got %q", "14:05:09", s)
	}
	if s := l.Label(granularity.Hour, ts); s != "14:05:09" {
		t.Errorf("expected hour label %q, got %q", "14:05:09", s)
	}
}

func TestLocaleParseDate(t *testing.T) {
	l := DefaultLocale()
	l.Location = time.UTC
	got, err := l.ParseDate("2/1/2024")
	if err != nil {
		t.Fatalf("expected label to parse, got %v", err)
	}
	if want := time.Date(2024, time.February, 1, 0, 0, 0, 0, time.UTC); !got.Equal(want) {
		t.Errorf("expected %v, got %v", want, got)
	}
	if _, err := l.ParseDate("14:00:00"); !errors.Is(err, ErrBadLabel) {
		t.Errorf("expected ErrBadLabel, got %v", err)
	}
}

func TestParseHour(t *testing.T) {
	for _, tc := range []struct {
		label string
		hour  int
		ok    bool
	}{
		{label: "14:00:00", hour: 14, ok: true},
		{label: "07:10:00", hour: 7, ok: true},
		{label: "3", hour: 3, ok: true},
		{label: "noon:00", ok: false},
		{label: "", ok: false},
	} {
		hour, err := ParseHour(tc.label)
		if tc.ok != (err == nil) {
			t.Errorf("%q: expected ok %v, got err %v", tc.label, tc.ok, err)
			continue
		}
		if tc.ok && hour != tc.hour {
			t.Errorf("%q: expected hour %d, got %d", tc.label, tc.hour, hour)
		}
	}
}
