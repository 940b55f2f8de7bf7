package models

import (
	"fmt"
	"sort"
	"strings"
	"time"
)

// Metal identifies one of the two quoted commodities.
type Metal string

const (
	Gold   Metal = "gold"
	Silver Metal = "silver"
)

// ParseMetal validates a metal query parameter. An empty value defaults to
// gold, matching the relay's historical behavior.
func ParseMetal(s string) (Metal, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "gold":
		return Gold, nil
	case "silver":
		return Silver, nil
	default:
		return "", fmt.Errorf("invalid metal %q: must be gold or silver", s)
	}
}

// PriceRecord is one timestamped price observation as delivered by the feed.
// Records are immutable once created; filtering and aggregation produce new
// slices over the same values.
type PriceRecord struct {
	ProductName   string  `json:"product_name" validate:"required"`
	PriceWithGST  float64 `json:"price_with_gst" validate:"required,gt=0"`
	PriceExGST    float64 `json:"price_without_gst" validate:"required,gt=0"`
	AuraBuyPrice  float64 `json:"aura_buy_price" validate:"required,gt=0"`
	AuraSellPrice float64 `json:"aura_sell_price" validate:"required,gt=0"`
	UpdatedAt     string  `json:"updated_at" validate:"required"`
}

// observedAtLayouts covers the timestamp shapes the feed has been seen to emit.
var observedAtLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
}

// ObservedAt parses the record's timestamp. A malformed timestamp returns the
// zero time, which fails every window comparison and so drops the record from
// all bounded filters without raising an error.
func (p PriceRecord) ObservedAt() time.Time {
	for _, layout := range observedAtLayouts {
		if t, err := time.ParseInLocation(layout, p.UpdatedAt, time.Local); err == nil {
			return t
		}
	}
	return time.Time{}
}

// SortNewestFirst returns a copy ordered by descending ObservedAt.
// The sort is stable, so records with equal timestamps keep arrival order.
func SortNewestFirst(records []PriceRecord) []PriceRecord {
	out := make([]PriceRecord, len(records))
	copy(out, records)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].ObservedAt().After(out[j].ObservedAt())
	})
	return out
}

// SortOldestFirst returns a copy ordered by ascending ObservedAt.
func SortOldestFirst(records []PriceRecord) []PriceRecord {
	out := make([]PriceRecord, len(records))
	copy(out, records)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].ObservedAt().Before(out[j].ObservedAt())
	})
	return out
}
