package timeframe

import (
	"time"

	"github.com/auradash/aura-metals-backend/internal/models"
)

// Timeframe names a window used to select a subset of a dataset. The
// identifiers match the values the dashboard and relay have always used.
type Timeframe string

const (
	Last30Min Timeframe = "30min"
	LastHour  Timeframe = "hour"
	Today     Timeframe = "today"
	Yesterday Timeframe = "yesterday"
	Week      Timeframe = "week"
	Month     Timeframe = "month"
	Year      Timeframe = "year"
	All       Timeframe = "all"
	Custom    Timeframe = "custom"
)

// CustomRange is an inclusive pair of calendar dates for the custom
// timeframe. A nil endpoint means the caller has not picked it yet.
type CustomRange struct {
	Start *time.Time
	End   *time.Time
}

var relativeWindows = map[Timeframe]time.Duration{
	Last30Min: 30 * time.Minute,
	LastHour:  time.Hour,
	Week:      7 * 24 * time.Hour,
	Month:     30 * 24 * time.Hour,
	Year:      365 * 24 * time.Hour,
}

// Filter returns the subset of records whose observation time falls inside
// the named window. The reference instant is passed explicitly so the result
// is a pure function of its inputs.
//
// Window shapes, kept exactly as the dashboard behaves:
//   - relative windows (30min..year) are open-ended: observedAt >= now-d
//   - today is open-ended from local midnight
//   - yesterday is the closed interval [midnight(y), y 23:59:59.999]
//   - custom is [midnight(start), end 23:59:59] inclusive; if either endpoint
//     is missing the dataset is returned unchanged (the UI relies on this to
//     avoid an empty flash before both dates are picked)
//   - all, and any unknown timeframe, return the dataset unchanged
//
// Records whose timestamp does not parse carry the zero time and fail every
// window comparison, so they only survive the unchanged paths. The input is
// never mutated and the output order follows the input order.
func Filter(records []models.PriceRecord, tf Timeframe, custom CustomRange, now time.Time) []models.PriceRecord {
	if len(records) == 0 {
		return []models.PriceRecord{}
	}

	switch tf {
	case Today:
		return since(records, midnight(now))
	case Yesterday:
		start := midnight(now).AddDate(0, 0, -1)
		end := start.Add(24*time.Hour - time.Millisecond)
		return between(records, start, end)
	case Custom:
		if custom.Start == nil || custom.End == nil {
			return records
		}
		start := midnight(*custom.Start)
		e := *custom.End
		end := time.Date(e.Year(), e.Month(), e.Day(), 23, 59, 59, 0, e.Location())
		return between(records, start, end)
	case All:
		return records
	default:
		d, ok := relativeWindows[tf]
		if !ok {
			return records
		}
		return since(records, now.Add(-d))
	}
}

// since keeps records observed at or after cutoff.
func since(records []models.PriceRecord, cutoff time.Time) []models.PriceRecord {
	out := make([]models.PriceRecord, 0, len(records))
	for _, r := range records {
		t := r.ObservedAt()
		if t.IsZero() {
			continue
		}
		if !t.Before(cutoff) {
			out = append(out, r)
		}
	}
	return out
}

// between keeps records inside the closed interval [start, end].
func between(records []models.PriceRecord, start, end time.Time) []models.PriceRecord {
	out := make([]models.PriceRecord, 0, len(records))
	for _, r := range records {
		t := r.ObservedAt()
		if t.IsZero() {
			continue
		}
		if !t.Before(start) && !t.After(end) {
			out = append(out, r)
		}
	}
	return out
}

func midnight(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
