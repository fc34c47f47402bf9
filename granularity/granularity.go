// Package granularity describes the time resolutions a drill-down chart can
// display, from the coarsest to the finest.
package granularity

import "time"

type Granularity uint8

func (g Granularity) String() string {
	switch g {
	case Month:
		return "month"
	case Day:
		return "day"
	case Hour:
		return "hour"
	default:
		return "?"
	}
}

const (
	Month Granularity = iota
	Day
	Hour
)

// Finest is the last level a drill-down can reach.
const Finest = Hour

// Points returns the number of intervals visible at this granularity. A
// generated window holds Points()+1 samples.
func (g Granularity) Points() int {
	switch g {
	case Month:
		return 12
	case Day:
		return 24
	case Hour:
		return 60
	default:
		return 0
	}
}

// Interval returns the spacing between two adjacent samples.
func (g Granularity) Interval() time.Duration {
	switch g {
	case Month:
		return 30 * 24 * time.Hour
	case Day:
		return time.Hour
	case Hour:
		return 10 * time.Minute
	default:
		return 0
	}
}

// Next returns the next finer granularity. The second return value is false
// when g is already the finest level.
func (g Granularity) Next() (Granularity, bool) {
	if g >= Finest {
		return g, false
	}
	return g + 1, true
}
