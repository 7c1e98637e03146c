// Package calculator implements the settlement engine: per-participant
// summaries over a set of shared expenses and the transfers that settle them.
//
// Every function here is pure. Results are rebuilt from the inputs on each
// call, so concurrent callers on independent snapshots need no locking.
package calculator

import "fmt"

// Epsilon is the settlement tolerance, one cent of the bucket's currency.
// Balances within Epsilon of zero count as settled.
const Epsilon = 0.01

// ParticipantSummary is one participant's position in a currency bucket.
type ParticipantSummary struct {
	Name      string
	TotalPaid float64 // Sum of amounts this participant paid
	FairShare float64 // Sum of this participant's equal shares (total owed)
	Balance   float64 // Positive = owed money, Negative = owes money
}

// Summaries maps participant name to summary for a single currency bucket.
type Summaries map[string]*ParticipantSummary

// CurrencySummaries maps currency code to that bucket's summaries.
type CurrencySummaries map[string]Summaries

func newSummaries(participants []string) Summaries {
	summaries := make(Summaries, len(participants))
	for _, p := range participants {
		if p == "" {
			continue
		}
		summaries[p] = &ParticipantSummary{Name: p}
	}
	return summaries
}

func (s Summaries) finalize() {
	for _, summary := range s {
		summary.Balance = summary.TotalPaid - summary.FairShare
	}
}

func (s Summaries) hasActivity() bool {
	for _, summary := range s {
		if summary.TotalPaid > Epsilon || summary.FairShare > Epsilon {
			return true
		}
	}
	return false
}

// Total returns the sum of all balances in the bucket.
func (s Summaries) Total() float64 {
	var total float64
	for _, summary := range s {
		total += summary.Balance
	}
	return total
}

func currencyOf(tx Transaction, mainCurrency string) string {
	if tx.Currency == "" {
		return mainCurrency
	}
	return tx.Currency
}

func invalidAmountWarning(index int, tx Transaction, currency string) Warning {
	return Warning{
		Kind:        WarnInvalidAmount,
		Transaction: index,
		Currency:    currency,
		Message:     fmt.Sprintf("%q has unusable amount %v; transaction skipped", tx.Description, tx.Amount),
	}
}

// ComputeSummary builds one summary per roster participant, blending every
// transaction into mainCurrency.
//
// Transactions in another currency are converted with rates (amount / rate);
// when no usable rate exists the amount is taken at face value and a
// WarnMissingRate is reported. Names outside participants never get an entry:
// their contributions are dropped with a WarnUnknownParticipant.
func ComputeSummary(transactions []Transaction, participants []string, mainCurrency string, rates ExchangeRates) (Summaries, []Warning) {
	summaries := newSummaries(participants)
	var warnings []Warning

	for i, tx := range transactions {
		currency := currencyOf(tx, mainCurrency)
		if invalidAmount(tx.Amount) {
			warnings = append(warnings, invalidAmountWarning(i, tx, currency))
			continue
		}
		if tx.Amount == 0 {
			continue
		}

		amount := tx.Amount
		if currency != mainCurrency {
			converted, ok := rates.ToMain(amount, currency)
			if !ok {
				warnings = append(warnings, Warning{
					Kind:        WarnMissingRate,
					Transaction: i,
					Currency:    currency,
					Message:     fmt.Sprintf("no exchange rate for %s; amount used at face value", currency),
				})
			}
			amount = converted
		}

		warnings = append(warnings, applyTransaction(summaries, i, tx, amount, mainCurrency)...)
	}

	summaries.finalize()
	return summaries, warnings
}

// ComputeMultiCurrencySummary buckets transactions by currency and builds
// roster summaries per bucket without any conversion. Buckets where nobody
// paid or owed more than Epsilon are left out.
func ComputeMultiCurrencySummary(transactions []Transaction, participants []string, mainCurrency string) (CurrencySummaries, []Warning) {
	result := make(CurrencySummaries)
	var warnings []Warning

	for i, tx := range transactions {
		currency := currencyOf(tx, mainCurrency)
		if invalidAmount(tx.Amount) {
			warnings = append(warnings, invalidAmountWarning(i, tx, currency))
			continue
		}
		if tx.Amount == 0 {
			continue
		}

		bucket, ok := result[currency]
		if !ok {
			bucket = newSummaries(participants)
			result[currency] = bucket
		}
		warnings = append(warnings, applyTransaction(bucket, i, tx, tx.Amount, currency)...)
	}

	for currency, bucket := range result {
		bucket.finalize()
		if !bucket.hasActivity() {
			delete(result, currency)
		}
	}

	return result, warnings
}
