package calculator

// Settlement is the full result of settling one set of transactions.
type Settlement struct {
	MainCurrency  string
	MultiCurrency bool

	// Buckets holds one entry per currency. In blended mode it has a single
	// bucket keyed by MainCurrency.
	Buckets CurrencySummaries

	Debts []Debt

	// Blended is only set in multi-currency mode.
	Blended map[string]float64

	Warnings []Warning
}

// Settle runs the summary and debt passes for either mode. In blended mode
// every debt is tagged with mainCurrency.
func Settle(transactions []Transaction, participants []string, mainCurrency string, rates ExchangeRates, multiCurrency bool) *Settlement {
	s := &Settlement{MainCurrency: mainCurrency, MultiCurrency: multiCurrency}

	if !multiCurrency {
		summaries, warnings := ComputeSummary(transactions, participants, mainCurrency, rates)
		debts, debtWarnings := ComputeDebts(summaries)
		for i := range debts {
			debts[i].Currency = mainCurrency
		}
		s.Buckets = CurrencySummaries{mainCurrency: summaries}
		s.Debts = debts
		s.Warnings = append(warnings, debtWarnings...)
		return s
	}

	buckets, warnings := ComputeMultiCurrencySummary(transactions, participants, mainCurrency)
	debts, debtWarnings := ComputeMultiCurrencyDebts(buckets)
	blended, blendWarnings := BlendedBalances(buckets, mainCurrency, rates)

	s.Buckets = buckets
	s.Debts = debts
	s.Blended = blended
	s.Warnings = append(append(warnings, debtWarnings...), blendWarnings...)
	return s
}
