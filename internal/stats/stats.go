// Package stats derives the headline numbers the dashboard shows from a raw
// dataset: latest record, price change, and today's / all-time extremes.
package stats

import (
	"time"

	"github.com/auradash/aura-metals-backend/internal/models"
)

// Summary holds the derived statistics for one dataset.
//
// Tie rules are fixed so results never depend on input re-ordering:
// Latest/SecondLatest take the last record seen in arrival order among equal
// timestamps, while the high/low extremes keep the first record seen at the
// extremal price.
type Summary struct {
	Latest       *models.PriceRecord `json:"latest"`
	SecondLatest *models.PriceRecord `json:"second_latest,omitempty"`
	PriceChange  float64             `json:"price_change"`
	TodayHigh    *models.PriceRecord `json:"today_high"`
	TodayLow     *models.PriceRecord `json:"today_low"`
	AllTimeHigh  *models.PriceRecord `json:"all_time_high"`
	AllTimeLow   *models.PriceRecord `json:"all_time_low"`
}

// Summarize computes a Summary over the full dataset. The reference instant
// bounds today's window; it is passed explicitly so the function is pure.
// An empty dataset yields a Summary of nils with a zero change.
func Summarize(records []models.PriceRecord, now time.Time) Summary {
	var s Summary
	if len(records) == 0 {
		return s
	}

	var latestIdx, secondIdx = -1, -1
	for i := range records {
		t := records[i].ObservedAt()
		if t.IsZero() {
			continue
		}
		if latestIdx == -1 || !t.Before(records[latestIdx].ObservedAt()) {
			secondIdx = latestIdx
			latestIdx = i
		} else if secondIdx == -1 || !t.Before(records[secondIdx].ObservedAt()) {
			secondIdx = i
		}
	}
	if latestIdx >= 0 {
		s.Latest = &records[latestIdx]
	}
	if secondIdx >= 0 {
		s.SecondLatest = &records[secondIdx]
		s.PriceChange = records[latestIdx].PriceWithGST - records[secondIdx].PriceWithGST
	}

	s.AllTimeHigh, s.AllTimeLow = extremes(records)

	start := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	end := start.Add(24*time.Hour - time.Millisecond)
	today := make([]models.PriceRecord, 0, len(records))
	for _, r := range records {
		t := r.ObservedAt()
		if t.IsZero() {
			continue
		}
		if !t.Before(start) && !t.After(end) {
			today = append(today, r)
		}
	}
	s.TodayHigh, s.TodayLow = extremes(today)

	return s
}

// extremes scans left to right and keeps the first record seen at the
// extremal PriceWithGST on either side.
func extremes(records []models.PriceRecord) (high, low *models.PriceRecord) {
	for i := range records {
		if high == nil || records[i].PriceWithGST > high.PriceWithGST {
			high = &records[i]
		}
		if low == nil || records[i].PriceWithGST < low.PriceWithGST {
			low = &records[i]
		}
	}
	return high, low
}
