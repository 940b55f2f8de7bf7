// Package calculator implements the gold/silver purchase calculator: it
// converts a rupee amount or a gram quantity into quantity, value, GST and
// total payable against the current buy rate.
package calculator

import (
	"errors"
	"fmt"
	"math"

	"github.com/shopspring/decimal"
)

// GSTRate is the fixed sales-tax rate applied to every purchase (3%).
var GSTRate = decimal.NewFromFloat(0.03)

// Mode selects how the entered amount is interpreted.
type Mode string

const (
	// ByAmount treats the input as the GST-inclusive rupee total to spend.
	ByAmount Mode = "rupees"
	// ByWeight treats the input as the desired quantity in grams.
	ByWeight Mode = "grams"
)

// ParseMode validates a calculator mode parameter.
func ParseMode(s string) (Mode, error) {
	switch Mode(s) {
	case ByAmount, ByWeight:
		return Mode(s), nil
	default:
		return "", fmt.Errorf("invalid mode %q: must be %q or %q", s, ByAmount, ByWeight)
	}
}

var (
	// ErrRateUnavailable means no current buy rate exists to calculate against.
	ErrRateUnavailable = errors.New("current buy rate unavailable")
	// ErrInvalidAmount means the entered amount is not a finite positive number.
	ErrInvalidAmount = errors.New("amount must be a positive number")
)

// Result is a completed calculation. Values keep full precision; rounding is
// left to presentation (two decimals for rupees, four for grams).
type Result struct {
	Quantity decimal.Decimal `json:"quantity"`
	Value    decimal.Decimal `json:"value"`
	Tax      decimal.Decimal `json:"tax"`
	Total    decimal.Decimal `json:"total_payable"`
}

// Compute runs the calculation. rate is the current buy price per gram.
// There is no degraded output: an unavailable rate or a bad amount returns an
// error and no Result.
func Compute(rate *float64, mode Mode, amount float64) (Result, error) {
	if rate == nil || *rate <= 0 {
		return Result{}, ErrRateUnavailable
	}
	if math.IsNaN(amount) || math.IsInf(amount, 0) || amount <= 0 {
		return Result{}, ErrInvalidAmount
	}

	buyRate := decimal.NewFromFloat(*rate)
	in := decimal.NewFromFloat(amount)
	one := decimal.NewFromInt(1)

	var quantity, value decimal.Decimal
	switch mode {
	case ByAmount:
		// The input is the amount payable including GST; back out the value.
		value = in.Div(one.Add(GSTRate))
		quantity = value.Div(buyRate)
	case ByWeight:
		quantity = in
		value = quantity.Mul(buyRate)
	default:
		return Result{}, fmt.Errorf("invalid mode %q", mode)
	}

	tax := value.Mul(GSTRate)
	return Result{
		Quantity: quantity,
		Value:    value,
		Tax:      tax,
		Total:    value.Add(tax),
	}, nil
}

// DisplayRupees rounds a monetary value for presentation.
func DisplayRupees(d decimal.Decimal) string {
	return d.StringFixed(2)
}

// DisplayGrams rounds a mass quantity for presentation.
func DisplayGrams(d decimal.Decimal) string {
	return d.StringFixed(4)
}
