package calculator

import (
	"fmt"
	"math"
)

// Transaction is the minimal view of an expense the settlement engine needs.
type Transaction struct {
	Description string
	Amount      float64
	Payer       string   // Optional; no payer means nobody is credited
	AssignedTo  []string // Split group, shared equally
	Currency    string   // Empty means the main currency
	Date        string
}

// invalidAmount reports whether an amount cannot take part in settlement.
func invalidAmount(amount float64) bool {
	return math.IsNaN(amount) || math.IsInf(amount, 0) || amount < 0
}

// uniqueAssignees returns the split group with empty names removed and
// duplicates collapsed, plus the names that were listed more than once.
func uniqueAssignees(names []string) (unique []string, duplicates []string) {
	seen := make(map[string]bool, len(names))
	for _, name := range names {
		if name == "" {
			continue
		}
		if seen[name] {
			duplicates = append(duplicates, name)
			continue
		}
		seen[name] = true
		unique = append(unique, name)
	}
	return unique, duplicates
}

// applyTransaction credits the payer with amount and splits amount equally
// among the assignees. Names outside summaries are reported and skipped;
// their share is not redistributed.
func applyTransaction(summaries Summaries, index int, tx Transaction, amount float64, currency string) []Warning {
	var warnings []Warning

	if tx.Payer != "" {
		if payer, ok := summaries[tx.Payer]; ok {
			payer.TotalPaid += amount
		} else {
			warnings = append(warnings, unknownParticipant(index, tx.Payer, currency, "payer"))
		}
	}

	assignees, duplicates := uniqueAssignees(tx.AssignedTo)
	for _, name := range duplicates {
		warnings = append(warnings, Warning{
			Kind:        WarnDuplicateAssignee,
			Transaction: index,
			Name:        name,
			Currency:    currency,
			Message:     fmt.Sprintf("%q assigned more than once; counted once", name),
		})
	}

	if len(assignees) == 0 {
		return append(warnings, Warning{
			Kind:        WarnEmptySplit,
			Transaction: index,
			Currency:    currency,
			Message:     fmt.Sprintf("%q has no assignees; cost is not split", tx.Description),
		})
	}

	share := amount / float64(len(assignees))
	for _, name := range assignees {
		if s, ok := summaries[name]; ok {
			s.FairShare += share
		} else {
			warnings = append(warnings, unknownParticipant(index, name, currency, "assignee"))
		}
	}

	return warnings
}

func unknownParticipant(index int, name, currency, role string) Warning {
	return Warning{
		Kind:        WarnUnknownParticipant,
		Transaction: index,
		Name:        name,
		Currency:    currency,
		Message:     fmt.Sprintf("%s %q is not in the roster; contribution dropped", role, name),
	}
}
