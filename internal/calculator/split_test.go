package calculator

import (
	"math"
	"testing"
)

func TestApplyTransaction(t *testing.T) {
	tests := []struct {
		name         string
		roster       []string
		tx           Transaction
		wantWarnings map[WarningKind]int
		validateFunc func(t *testing.T, summaries Summaries)
	}{
		{
			name:   "payer credited and cost split equally",
			roster: []string{"Alice", "Bob"},
			tx:     Transaction{Description: "Pizza", Amount: 20.0, Payer: "Alice", AssignedTo: []string{"Alice", "Bob"}},
			validateFunc: func(t *testing.T, summaries Summaries) {
				alice := summaries["Alice"]
				if math.Abs(alice.TotalPaid-20.0) > 0.01 {
					t.Errorf("Alice paid = %v, want 20.0", alice.TotalPaid)
				}
				if math.Abs(alice.FairShare-10.0) > 0.01 {
					t.Errorf("Alice share = %v, want 10.0", alice.FairShare)
				}
				bob := summaries["Bob"]
				if math.Abs(bob.FairShare-10.0) > 0.01 {
					t.Errorf("Bob share = %v, want 10.0", bob.FairShare)
				}
			},
		},
		{
			name:         "empty split still credits payer",
			roster:       []string{"Alice", "Bob"},
			tx:           Transaction{Description: "Taxi", Amount: 15.0, Payer: "Bob"},
			wantWarnings: map[WarningKind]int{WarnEmptySplit: 1},
			validateFunc: func(t *testing.T, summaries Summaries) {
				if math.Abs(summaries["Bob"].TotalPaid-15.0) > 0.01 {
					t.Errorf("Bob paid = %v, want 15.0", summaries["Bob"].TotalPaid)
				}
				if summaries["Alice"].FairShare != 0 || summaries["Bob"].FairShare != 0 {
					t.Error("expected no shares for empty split")
				}
			},
		},
		{
			name:         "unknown assignee keeps divisor but drops share",
			roster:       []string{"Alice", "Bob"},
			tx:           Transaction{Description: "Wine", Amount: 30.0, Payer: "Alice", AssignedTo: []string{"Alice", "Bob", "Ghost"}},
			wantWarnings: map[WarningKind]int{WarnUnknownParticipant: 1},
			validateFunc: func(t *testing.T, summaries Summaries) {
				if math.Abs(summaries["Bob"].FairShare-10.0) > 0.01 {
					t.Errorf("Bob share = %v, want 10.0", summaries["Bob"].FairShare)
				}
				if _, ok := summaries["Ghost"]; ok {
					t.Error("unknown assignee must not get a summary entry")
				}
			},
		},
		{
			name:         "unknown payer is dropped",
			roster:       []string{"Alice"},
			tx:           Transaction{Description: "Lunch", Amount: 12.0, Payer: "Mallory", AssignedTo: []string{"Alice"}},
			wantWarnings: map[WarningKind]int{WarnUnknownParticipant: 1},
			validateFunc: func(t *testing.T, summaries Summaries) {
				if len(summaries) != 1 {
					t.Errorf("expected roster-only summaries, got %d entries", len(summaries))
				}
				if math.Abs(summaries["Alice"].FairShare-12.0) > 0.01 {
					t.Errorf("Alice share = %v, want 12.0", summaries["Alice"].FairShare)
				}
			},
		},
		{
			name:         "duplicate assignees counted once",
			roster:       []string{"Alice", "Bob"},
			tx:           Transaction{Description: "Snacks", Amount: 10.0, Payer: "Alice", AssignedTo: []string{"Bob", "Bob", "Alice"}},
			wantWarnings: map[WarningKind]int{WarnDuplicateAssignee: 1},
			validateFunc: func(t *testing.T, summaries Summaries) {
				if math.Abs(summaries["Bob"].FairShare-5.0) > 0.01 {
					t.Errorf("Bob share = %v, want 5.0", summaries["Bob"].FairShare)
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			summaries := newSummaries(tt.roster)
			warnings := applyTransaction(summaries, 0, tt.tx, tt.tx.Amount, "USD")

			got := CountByKind(warnings)
			if len(got) != len(tt.wantWarnings) {
				t.Errorf("warnings = %v, want %v", warnings, tt.wantWarnings)
			}
			for kind, n := range tt.wantWarnings {
				if got[kind] != n {
					t.Errorf("warnings of kind %s = %d, want %d", kind, got[kind], n)
				}
			}
			if tt.validateFunc != nil {
				tt.validateFunc(t, summaries)
			}
		})
	}
}

func TestUniqueAssignees(t *testing.T) {
	unique, duplicates := uniqueAssignees([]string{"A", "", "B", "A", "C", "B"})
	if len(unique) != 3 || unique[0] != "A" || unique[1] != "B" || unique[2] != "C" {
		t.Errorf("unique = %v, want [A B C]", unique)
	}
	if len(duplicates) != 2 {
		t.Errorf("duplicates = %v, want 2 entries", duplicates)
	}
}
