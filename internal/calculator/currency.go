package calculator

import (
	"fmt"
	"math"
	"sort"

	"github.com/shopspring/decimal"
)

// ExchangeRates maps a currency code to how many of its units one unit of the
// main currency buys: {"EUR": 0.92} means 1 main = 0.92 EUR.
type ExchangeRates map[string]float64

// Rate returns the usable rate for currency.
func (r ExchangeRates) Rate(currency string) (float64, bool) {
	rate, ok := r[currency]
	if !ok || rate <= 0 || math.IsNaN(rate) || math.IsInf(rate, 0) {
		return 0, false
	}
	return rate, true
}

// ToMain converts amount from currency into the main currency. Without a
// usable rate the amount is returned unchanged and ok is false.
func (r ExchangeRates) ToMain(amount float64, currency string) (float64, bool) {
	rate, ok := r.Rate(currency)
	if !ok {
		return amount, false
	}
	return amount / rate, true
}

// RoundCents rounds to two decimals, half away from zero.
func RoundCents(amount float64) float64 {
	return decimal.NewFromFloat(amount).Round(2).InexactFloat64()
}

// Currencies returns the bucket codes in sorted order.
func (c CurrencySummaries) Currencies() []string {
	codes := make([]string, 0, len(c))
	for code := range c {
		codes = append(codes, code)
	}
	sort.Strings(codes)
	return codes
}

// BlendedBalances folds per-currency balances into mainCurrency for display.
// Buckets without a usable rate are left out and reported. The result is
// rounded to cents and is not meant to be fed back into settlement.
func BlendedBalances(summaries CurrencySummaries, mainCurrency string, rates ExchangeRates) (map[string]float64, []Warning) {
	totals := make(map[string]decimal.Decimal)
	var warnings []Warning

	for _, currency := range summaries.Currencies() {
		rate := decimal.NewFromInt(1)
		if currency != mainCurrency {
			r, ok := rates.Rate(currency)
			if !ok {
				warnings = append(warnings, Warning{
					Kind:        WarnMissingRate,
					Transaction: -1,
					Currency:    currency,
					Message:     fmt.Sprintf("no exchange rate for %s; bucket left out of blended balances", currency),
				})
				continue
			}
			rate = decimal.NewFromFloat(r)
		}

		for name, s := range summaries[currency] {
			totals[name] = totals[name].Add(decimal.NewFromFloat(s.Balance).Div(rate))
		}
	}

	blended := make(map[string]float64, len(totals))
	for name, total := range totals {
		blended[name] = total.Round(2).InexactFloat64()
	}
	return blended, warnings
}
