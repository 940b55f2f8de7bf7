package export

import (
	"bytes"
	"encoding/csv"
	"strings"
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

func lines(s string) []string {
	return strings.Split(strings.TrimRight(s, "\n"), "\n")
}

func TestWriteFullShape(t *testing.T) {
	now := time.Date(2025, 8, 30, 9, 15, 0, 0, time.Local)
	records := []models.PriceRecord{
		rec(now.Add(-2*time.Hour), 7300),
		rec(now.Add(-time.Hour), 7310.5),
		rec(now, 7305.25),
	}

	var buf bytes.Buffer
	require.NoError(t, WriteFull(&buf, records))

	got := lines(buf.String())
	require.Len(t, got, len(records)+1)

	parsed, err := csv.NewReader(strings.NewReader(buf.String())).ReadAll()
	require.NoError(t, err)
	header := parsed[0]
	assert.Equal(t, []string{
		"Date", "Time", "Product Name",
		"Price (₹/g)", "Price (₹/10g)", "Buy Price", "Sell Price",
		"Price without GST",
	}, header)
	for _, row := range parsed[1:] {
		assert.Len(t, row, len(header))
	}

	// Spot-check the first data row.
	assert.Equal(t, "2025-08-30", parsed[1][0])
	assert.Equal(t, "07:15:00", parsed[1][1])
	assert.Equal(t, "7300.00", parsed[1][3])
	assert.Equal(t, "73000.00", parsed[1][4])
}

func TestWriteTableChangeColumn(t *testing.T) {
	now := time.Date(2025, 8, 30, 9, 0, 0, 0, time.Local)
	// Newest first: the "previous" row is the next array entry.
	records := []models.PriceRecord{
		rec(now, 7310),                      // +10.00 vs 7300
		rec(now.Add(-time.Hour), 7300),      // -5.50 vs 7305.50
		rec(now.Add(-2*time.Hour), 7305.50), // last row, no previous
	}

	var buf bytes.Buffer
	require.NoError(t, WriteTable(&buf, records))

	parsed, err := csv.NewReader(strings.NewReader(buf.String())).ReadAll()
	require.NoError(t, err)
	require.Len(t, parsed, 4)
	assert.Equal(t, "Change", parsed[0][7])
	assert.Equal(t, "+10.00", parsed[1][7])
	assert.Equal(t, "-5.50", parsed[2][7])
	assert.Equal(t, "0.00", parsed[3][7])
}

func TestWriteTableSubEpsilonDeltaIsNoChange(t *testing.T) {
	now := time.Date(2025, 8, 30, 9, 0, 0, 0, time.Local)
	records := []models.PriceRecord{
		rec(now, 1000.005),
		rec(now.Add(-time.Hour), 1000.00),
	}

	var buf bytes.Buffer
	require.NoError(t, WriteTable(&buf, records))

	parsed, err := csv.NewReader(strings.NewReader(buf.String())).ReadAll()
	require.NoError(t, err)
	// A 0.005 delta is float noise, not a movement.
	assert.Equal(t, "0.00", parsed[1][7])
}

func TestEscapingDelimiterInFields(t *testing.T) {
	now := time.Date(2025, 8, 30, 9, 0, 0, 0, time.Local)
	r := rec(now, 7300)
	r.ProductName = `Aura "Digital" Gold, 24K`

	var buf bytes.Buffer
	require.NoError(t, WriteFull(&buf, []models.PriceRecord{r}))

	// Still exactly two physical rows once quoting is respected.
	parsed, err := csv.NewReader(strings.NewReader(buf.String())).ReadAll()
	require.NoError(t, err)
	require.Len(t, parsed, 2)
	assert.Equal(t, `Aura "Digital" Gold, 24K`, parsed[1][2])
}

func TestWriteEmptyDataset(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteFull(&buf, nil))
	assert.Len(t, lines(buf.String()), 1)

	buf.Reset()
	require.NoError(t, WriteTable(&buf, nil))
	assert.Len(t, lines(buf.String()), 1)
}

func TestWritePreservesInputOrder(t *testing.T) {
	now := time.Date(2025, 8, 30, 9, 0, 0, 0, time.Local)
	// Deliberately out of chronological order; the writer must not re-sort.
	records := []models.PriceRecord{
		rec(now.Add(-time.Hour), 7300),
		rec(now, 7310),
		rec(now.Add(-2*time.Hour), 7290),
	}

	var buf bytes.Buffer
	require.NoError(t, WriteFull(&buf, records))

	parsed, err := csv.NewReader(strings.NewReader(buf.String())).ReadAll()
	require.NoError(t, err)
	assert.Equal(t, "7300.00", parsed[1][3])
	assert.Equal(t, "7310.00", parsed[2][3])
	assert.Equal(t, "7290.00", parsed[3][3])
}

func TestFilenames(t *testing.T) {
	at := time.Date(2025, 8, 30, 14, 5, 0, 0, time.Local)
	assert.Equal(t, "aura-gold-prices-2025-08-30-1405.csv", FullFilename(models.Gold, at))
	assert.Equal(t, "aura-silver-table-2025-08-30-1405.csv", TableFilename(models.Silver, at))
}
