package calculator

import (
	"fmt"
	"math"
	"sort"
)

// Debt is one transfer instruction that moves a debtor toward zero.
type Debt struct {
	From     string // Person who owes
	To       string // Person who is owed
	Amount   float64
	Currency string // Empty for single-currency settlement
}

type party struct {
	name    string
	balance float64
}

// ComputeDebts returns transfers that settle every balance in summaries.
//
// Algorithm (greedy netting):
//   - Drop balances within Epsilon of zero
//   - Debtors sorted most negative first, creditors largest first, ties by name
//   - Walk both lists, moving min(owed, due) from debtor to creditor
//   - Running balances keep full precision; each recorded amount is the
//     cent-rounded step of the cumulative total moved
//   - Balances that do not net to zero leave parties unsettled and are
//     reported as RoundingDrift
//
// At most debtors+creditors-1 transfers are produced when balances conserve.
func ComputeDebts(summaries Summaries) ([]Debt, []Warning) {
	return settle(summaries, "")
}

// ComputeMultiCurrencyDebts settles each currency bucket independently and
// concatenates the transfers in currency code order.
func ComputeMultiCurrencyDebts(summaries CurrencySummaries) ([]Debt, []Warning) {
	var debts []Debt
	var warnings []Warning
	for _, currency := range summaries.Currencies() {
		d, w := settle(summaries[currency], currency)
		debts = append(debts, d...)
		warnings = append(warnings, w...)
	}
	return debts, warnings
}

func settle(summaries Summaries, currency string) ([]Debt, []Warning) {
	var debtors, creditors []party
	var warnings []Warning
	for name, s := range summaries {
		if math.IsNaN(s.Balance) || math.IsInf(s.Balance, 0) {
			warnings = append(warnings, Warning{
				Kind:        WarnRoundingDrift,
				Transaction: -1,
				Currency:    currency,
				Message:     fmt.Sprintf("balance of %q is not a number, left out of settlement", name),
			})
			continue
		}
		if math.Abs(s.Balance) <= Epsilon {
			continue
		}
		if s.Balance < 0 {
			debtors = append(debtors, party{name: name, balance: s.Balance})
		} else {
			creditors = append(creditors, party{name: name, balance: s.Balance})
		}
	}

	sort.Slice(debtors, func(a, b int) bool {
		if debtors[a].balance != debtors[b].balance {
			return debtors[a].balance < debtors[b].balance
		}
		return debtors[a].name < debtors[b].name
	})
	sort.Slice(creditors, func(a, b int) bool {
		if creditors[a].balance != creditors[b].balance {
			return creditors[a].balance > creditors[b].balance
		}
		return creditors[a].name < creditors[b].name
	})

	var debts []Debt
	i, j := 0, 0

	// position is the total moved so far. Each transfer records the cent
	// difference of the rounded position, so every party's recorded total
	// telescopes to within a cent of its exact balance.
	position, recorded := 0.0, 0.0

	for i < len(debtors) && j < len(creditors) {
		debtor := &debtors[i]
		creditor := &creditors[j]

		amount := math.Min(-debtor.balance, creditor.balance)
		position += amount
		rounded := RoundCents(RoundCents(position) - recorded)
		if rounded > 0 {
			debts = append(debts, Debt{
				From:     debtor.name,
				To:       creditor.name,
				Amount:   rounded,
				Currency: currency,
			})
			recorded = RoundCents(recorded + rounded)
		}

		debtor.balance += amount
		creditor.balance -= amount

		advanced := false
		if math.Abs(debtor.balance) < Epsilon {
			i++
			advanced = true
		}
		if math.Abs(creditor.balance) < Epsilon {
			j++
			advanced = true
		}

		// min() drives one side to exactly zero, so this guard should never
		// fire; it keeps a broken step from looping forever.
		if !advanced && rounded == 0 {
			warnings = append(warnings, Warning{
				Kind:        WarnRoundingDrift,
				Transaction: -1,
				Currency:    currency,
				Message: fmt.Sprintf("settlement stalled between %q (%.6f) and %q (%.6f)",
					debtor.name, debtor.balance, creditor.name, creditor.balance),
			})
			return debts, warnings
		}
	}

	if i < len(debtors) || j < len(creditors) {
		warnings = append(warnings, Warning{
			Kind:        WarnRoundingDrift,
			Transaction: -1,
			Currency:    currency,
			Message: fmt.Sprintf("balances do not net to zero (off by %.6f); %d debtors and %d creditors left unsettled",
				summaries.Total(), len(debtors)-i, len(creditors)-j),
		})
	}

	return debts, warnings
}
