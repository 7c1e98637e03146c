package calculator

import "fmt"

// WarningKind classifies input the settlement engine skipped or adjusted.
type WarningKind string

const (
	// WarnInvalidAmount marks a transaction whose amount is negative, NaN or infinite.
	// The whole transaction is skipped.
	WarnInvalidAmount WarningKind = "invalid_amount"

	// WarnUnknownParticipant marks a payer or assignee missing from the roster.
	// Only that name's contribution is dropped.
	WarnUnknownParticipant WarningKind = "unknown_participant"

	// WarnEmptySplit marks a transaction nobody was assigned to.
	WarnEmptySplit WarningKind = "empty_split"

	// WarnDuplicateAssignee marks a name listed twice in a split group.
	WarnDuplicateAssignee WarningKind = "duplicate_assignee"

	// WarnMissingRate marks a currency with no usable exchange rate.
	WarnMissingRate WarningKind = "missing_rate"

	// WarnRoundingDrift marks a debt walk that stopped without settling.
	WarnRoundingDrift WarningKind = "rounding_drift"
)

// Warning is a non-fatal diagnostic returned next to a settlement result.
type Warning struct {
	Kind WarningKind

	// Transaction is the index into the input slice, or -1 when the warning
	// is not tied to a single transaction.
	Transaction int

	Name     string
	Currency string
	Message  string
}

func (w Warning) String() string {
	if w.Transaction < 0 {
		return fmt.Sprintf("%s: %s", w.Kind, w.Message)
	}
	return fmt.Sprintf("%s (transaction %d): %s", w.Kind, w.Transaction, w.Message)
}

// CountByKind tallies warnings per kind.
func CountByKind(warnings []Warning) map[WarningKind]int {
	counts := make(map[WarningKind]int)
	for _, w := range warnings {
		counts[w.Kind]++
	}
	return counts
}
