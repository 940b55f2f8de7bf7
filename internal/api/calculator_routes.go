package api

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/auradash/aura-metals-backend/internal/calculator"
	"github.com/auradash/aura-metals-backend/internal/models"
	"github.com/auradash/aura-metals-backend/internal/stats"
)

// calcResponse is the purchase-calculator payload. Figures are rounded the
// way the dashboard displays them: two decimals for rupees, four for grams.
type calcResponse struct {
	Metal        models.Metal    `json:"metal"`
	Mode         calculator.Mode `json:"mode"`
	BuyRate      string          `json:"buy_rate"`
	Quantity     string          `json:"quantity_g"`
	Value        string          `json:"value"`
	Tax          string          `json:"gst"`
	TotalPayable string          `json:"total_payable"`
}

// handleCalculator runs the purchase calculator against the current buy rate.
func (s *Server) handleCalculator(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	metal, err := models.ParseMetal(q.Get("metal"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_METAL", err.Error())
		return
	}

	mode, err := calculator.ParseMode(q.Get("mode"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_MODE", err.Error())
		return
	}

	amount, err := strconv.ParseFloat(q.Get("amount"), 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_AMOUNT", "amount must be a positive number")
		return
	}

	snap, ok := s.snapshot(w, r, metal)
	if !ok {
		return
	}

	var rate *float64
	if latest := stats.Summarize(snap.Records, time.Now()).Latest; latest != nil {
		rate = &latest.AuraBuyPrice
	}

	result, err := calculator.Compute(rate, mode, amount)
	switch {
	case errors.Is(err, calculator.ErrRateUnavailable):
		writeError(w, http.StatusServiceUnavailable, "RATE_UNAVAILABLE", "latest price not available, cannot calculate")
		return
	case errors.Is(err, calculator.ErrInvalidAmount):
		writeError(w, http.StatusBadRequest, "INVALID_AMOUNT", "amount must be a positive number")
		return
	case err != nil:
		writeError(w, http.StatusInternalServerError, "INTERNAL_ERROR", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, envelope{
		Success: true,
		Data: calcResponse{
			Metal:        metal,
			Mode:         mode,
			BuyRate:      strconv.FormatFloat(*rate, 'f', 2, 64),
			Quantity:     calculator.DisplayGrams(result.Quantity),
			Value:        calculator.DisplayRupees(result.Value),
			Tax:          calculator.DisplayRupees(result.Tax),
			TotalPayable: calculator.DisplayRupees(result.Total),
		},
		Source:    s.source(metal),
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	})
}
