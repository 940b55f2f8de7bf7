// Package export renders price datasets as RFC 4180 CSV. Fields containing
// the delimiter, quotes or newlines are quoted by encoding/csv, which the
// dashboard's hand-rolled join never did.
package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"strconv"
	"time"

	"github.com/auradash/aura-metals-backend/internal/models"
)

// changeEpsilon is the threshold under which a row-to-row price delta counts
// as no change, suppressing ±0.00 float artifacts in the Change column.
const changeEpsilon = 0.01

var fullHeader = []string{
	"Date", "Time", "Product Name",
	"Price (₹/g)", "Price (₹/10g)", "Buy Price", "Sell Price",
	"Price without GST",
}

var tableHeader = []string{
	"Date", "Time", "Product",
	"Price (₹/g)", "Price (₹/10g)", "Buy Price", "Sell Price",
	"Change",
}

// WriteFull writes the full export: one row per record in the given order,
// trailing column the ex-GST price. Row order is the caller's to establish.
func WriteFull(w io.Writer, records []models.PriceRecord) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(fullHeader); err != nil {
		return err
	}
	for _, r := range records {
		row := append(commonColumns(r), money(r.PriceExGST))
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteTable writes the table export: same leading columns, trailing column
// the change versus the next row in the given order. Callers pass the rows
// newest-first so "next" is the chronologically earlier observation.
func WriteTable(w io.Writer, records []models.PriceRecord) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(tableHeader); err != nil {
		return err
	}
	for i, r := range records {
		change := 0.0
		if i+1 < len(records) {
			change = r.PriceWithGST - records[i+1].PriceWithGST
		}
		row := append(commonColumns(r), formatChange(change))
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func commonColumns(r models.PriceRecord) []string {
	t := r.ObservedAt()
	return []string{
		t.Format("2006-01-02"),
		t.Format("15:04:05"),
		r.ProductName,
		money(r.PriceWithGST),
		money(r.PriceWithGST * 10),
		money(r.AuraBuyPrice),
		money(r.AuraSellPrice),
	}
}

func formatChange(change float64) string {
	if math.Abs(change) < changeEpsilon {
		return "0.00"
	}
	if change > 0 {
		return "+" + money(change)
	}
	return money(change)
}

func money(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}

// FullFilename names the full-export artifact for a metal.
func FullFilename(metal models.Metal, now time.Time) string {
	return fmt.Sprintf("aura-%s-prices-%s.csv", metal, now.Format("2006-01-02-1504"))
}

// TableFilename names the table-export artifact for a metal.
func TableFilename(metal models.Metal, now time.Time) string {
	return fmt.Sprintf("aura-%s-table-%s.csv", metal, now.Format("2006-01-02-1504"))
}
