package granularity

import (
	"testing"
	"time"
)

func TestLevels(t *testing.T) {
	for _, tc := range []struct {
		g        Granularity
		name     string
		points   int
		interval time.Duration
	}{
		{g: Month, name: "month", points: 12, interval: 720 * time.Hour},
		{g: Day, name: "day", points: 24, interval: time.Hour},
		{g: Hour, name: "hour", points: 60, interval: 10 * time.Minute},
	} {
		t.Run(tc.name, func(t *testing.T) {
			if s := tc.g.String(); s != tc.name {
				t.Errorf("expected name %q, got %q", tc.name, s)
			}
			if p := tc.g.Points(); p != tc.points {
				t.Errorf("expected %d points, got %d", tc.points, p)
			}
			if i := tc.g.Interval(); i != tc.interval {
				t.Errorf("expected interval %v, got %v", tc.interval, i)
			}
		})
	}
}

func TestNext(t *testing.T) {
	g, ok := Month.Next()
	if !ok || g != Day {
		t.Errorf("expected month to advance to day, got %v %v", g, ok)
	}
	g, ok = Day.Next()
	if !ok || g != Hour {
		t.Errorf("expected day to advance to hour, got %v %v", g, ok)
	}
	g, ok = Hour.Next()
	if ok || g != Hour {
		t.Errorf("expected hour to stay put, got %v %v", g, ok)
	}
}
