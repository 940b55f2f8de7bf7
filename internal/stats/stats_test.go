package stats

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/auradash/aura-metals-backend/internal/models"
)

func rec(t time.Time, price float64) models.PriceRecord {
	return models.PriceRecord{
		ProductName:   "Aura Digital Gold 24K",
		PriceWithGST:  price,
		PriceExGST:    price / 1.03,
		AuraBuyPrice:  price - 10,
		AuraSellPrice: price - 60,
		UpdatedAt:     t.Format(time.RFC3339),
	}
}

func TestSummarizeLatestAndChange(t *testing.T) {
	now := time.Date(2025, 8, 30, 12, 0, 0, 0, time.Local)
	data := []models.PriceRecord{
		rec(now.Add(-2*time.Hour), 100), // 10:00
		rec(now.Add(-time.Hour), 105),   // 11:00
	}

	s := Summarize(data, now)
	require.NotNil(t, s.Latest)
	assert.Equal(t, 105.0, s.Latest.PriceWithGST)
	assert.Equal(t, 5.0, s.PriceChange)
}

func TestSummarizeSingleRecord(t *testing.T) {
	now := time.Date(2025, 8, 30, 12, 0, 0, 0, time.Local)
	s := Summarize([]models.PriceRecord{rec(now, 100)}, now)

	require.NotNil(t, s.Latest)
	assert.Nil(t, s.SecondLatest)
	assert.Equal(t, 0.0, s.PriceChange)
}

func TestSummarizeEmpty(t *testing.T) {
	s := Summarize(nil, time.Now())
	assert.Nil(t, s.Latest)
	assert.Nil(t, s.TodayHigh)
	assert.Nil(t, s.TodayLow)
	assert.Nil(t, s.AllTimeHigh)
	assert.Nil(t, s.AllTimeLow)
	assert.Equal(t, 0.0, s.PriceChange)
}

func TestSummarizeLatestTieIsLastSeen(t *testing.T) {
	now := time.Date(2025, 8, 30, 12, 0, 0, 0, time.Local)
	a := rec(now, 100)
	b := rec(now, 200) // same timestamp, later in arrival order

	s := Summarize([]models.PriceRecord{a, b}, now)
	require.NotNil(t, s.Latest)
	assert.Equal(t, 200.0, s.Latest.PriceWithGST)
}

func TestSummarizeExtremeTieIsFirstSeen(t *testing.T) {
	now := time.Date(2025, 8, 30, 12, 0, 0, 0, time.Local)
	first := rec(now.Add(-3*time.Hour), 100)
	second := rec(now.Add(-2*time.Hour), 100) // equal price, later arrival

	s := Summarize([]models.PriceRecord{first, second}, now)
	require.NotNil(t, s.AllTimeHigh)
	require.NotNil(t, s.AllTimeLow)
	assert.Equal(t, first.UpdatedAt, s.AllTimeHigh.UpdatedAt)
	assert.Equal(t, first.UpdatedAt, s.AllTimeLow.UpdatedAt)
}

func TestSummarizeTodayVsAllTime(t *testing.T) {
	now := time.Date(2025, 8, 30, 12, 0, 0, 0, time.Local)
	data := []models.PriceRecord{
		rec(now.AddDate(0, 0, -30), 500), // all-time high, not today
		rec(now.AddDate(0, 0, -10), 50),  // all-time low, not today
		rec(now.Add(-3*time.Hour), 120),
		rec(now.Add(-time.Hour), 110),
	}

	s := Summarize(data, now)
	require.NotNil(t, s.AllTimeHigh)
	assert.Equal(t, 500.0, s.AllTimeHigh.PriceWithGST)
	require.NotNil(t, s.AllTimeLow)
	assert.Equal(t, 50.0, s.AllTimeLow.PriceWithGST)

	require.NotNil(t, s.TodayHigh)
	assert.Equal(t, 120.0, s.TodayHigh.PriceWithGST)
	require.NotNil(t, s.TodayLow)
	assert.Equal(t, 110.0, s.TodayLow.PriceWithGST)
}

func TestSummarizeTodayEmptyWhenNoRecordsToday(t *testing.T) {
	now := time.Date(2025, 8, 30, 12, 0, 0, 0, time.Local)
	data := []models.PriceRecord{
		rec(now.AddDate(0, 0, -2), 100),
		rec(now.AddDate(0, 0, -1), 105),
	}

	s := Summarize(data, now)
	assert.Nil(t, s.TodayHigh)
	assert.Nil(t, s.TodayLow)
	require.NotNil(t, s.AllTimeHigh)
}

func TestSummarizeIgnoresMalformedTimestampsForLatest(t *testing.T) {
	now := time.Date(2025, 8, 30, 12, 0, 0, 0, time.Local)
	bad := models.PriceRecord{ProductName: "x", PriceWithGST: 999, UpdatedAt: "garbage"}
	good := rec(now.Add(-time.Hour), 100)

	s := Summarize([]models.PriceRecord{bad, good}, now)
	require.NotNil(t, s.Latest)
	assert.Equal(t, 100.0, s.Latest.PriceWithGST)
}
