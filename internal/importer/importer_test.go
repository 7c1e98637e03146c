package importer

import (
	"reflect"
	"testing"
)

func TestParse(t *testing.T) {
	text := `
12/03/2024 : Groceries - 45.50
13/03/2024: Coca-Cola - 5
14/03/2024 : Hotel - 1,234.00 (paid by Ana)
15/03/2024 : Pizza - 12.5*2

not a transaction
16/03/2024 : Refund - -20
31/02/2024 : Ghost day - 10
17/03/2024 : Split taxi - 30/3
`
	res := Parse(text, Options{
		DefaultPayer: "Ana",
		Currency:     "eur",
		Participants: []string{"Ana", "Ben"},
	})

	want := []struct {
		description string
		amount      float64
		date        string
	}{
		{"Groceries", 45.50, "12/03/2024"},
		{"Coca-Cola", 5, "13/03/2024"},
		{"Hotel", 1234, "14/03/2024"},
		{"Pizza", 25, "15/03/2024"},
		{"Split taxi", 10, "17/03/2024"},
	}
	if len(res.Transactions) != len(want) {
		t.Fatalf("got %d transactions, want %d: %+v", len(res.Transactions), len(want), res.Transactions)
	}
	for i, w := range want {
		tx := res.Transactions[i]
		if tx.Description != w.description || tx.Amount != w.amount || tx.Date != w.date {
			t.Errorf("transaction %d = %+v, want %+v", i, tx, w)
		}
		if tx.Payer != "Ana" || tx.Currency != "EUR" {
			t.Errorf("transaction %d payer/currency = %q/%q", i, tx.Payer, tx.Currency)
		}
		if !reflect.DeepEqual(tx.AssignedTo, []string{"Ana", "Ben"}) {
			t.Errorf("transaction %d assigned to %v", i, tx.AssignedTo)
		}
	}

	if len(res.Rejected) != 3 {
		t.Fatalf("got %d rejections, want 3: %+v", len(res.Rejected), res.Rejected)
	}
	wantLines := []int{7, 8, 9}
	for i, r := range res.Rejected {
		if r.Line != wantLines[i] {
			t.Errorf("rejection %d on line %d, want %d (%s)", i, r.Line, wantLines[i], r.Reason)
		}
	}
}

func TestParse_HyphenatedDescriptions(t *testing.T) {
	tests := []struct {
		line        string
		description string
		amount      float64
		wantErr     bool
	}{
		{line: "12/03/2024 : Hotel nights 12-14 - 200", description: "Hotel nights 12-14", amount: 200},
		{line: "12/03/2024 : Lima-Cusco bus - 80-5", description: "Lima-Cusco bus", amount: 75},
		{line: "12/03/2024 : Well-being - x-ray - 30", description: "Well-being - x-ray", amount: 30},
		{line: "12/03/2024 : Refund - -20", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			res := Parse(tt.line, Options{})
			if tt.wantErr {
				if len(res.Transactions) != 0 || len(res.Rejected) != 1 {
					t.Fatalf("expected a rejection, got %+v / %+v", res.Transactions, res.Rejected)
				}
				return
			}
			if len(res.Transactions) != 1 {
				t.Fatalf("expected one transaction, rejected: %+v", res.Rejected)
			}
			tx := res.Transactions[0]
			if tx.Description != tt.description || tx.Amount != tt.amount {
				t.Errorf("got %q %v, want %q %v", tx.Description, tx.Amount, tt.description, tt.amount)
			}
		})
	}
}

func TestParse_AssigneesAreCopied(t *testing.T) {
	participants := []string{"A", "B"}
	res := Parse("01/01/2024 : x - 1\n02/01/2024 : y - 2", Options{Participants: participants})
	res.Transactions[0].AssignedTo[0] = "changed"
	if participants[0] != "A" || res.Transactions[1].AssignedTo[0] != "A" {
		t.Error("transactions must not share the participants slice")
	}
}

func TestEvaluateAmount(t *testing.T) {
	tests := []struct {
		expr    string
		want    float64
		wantErr bool
	}{
		{"10", 10, false},
		{"1,000.50", 1000.50, false},
		{"(10 + 5) * 2", 30, false},
		{"100/3", 33.33, false},
		{"-5", 0, true},
		{"1/0", 0, true},
		{"2 +", 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.expr, func(t *testing.T) {
			got, err := EvaluateAmount(tt.expr)
			if (err != nil) != tt.wantErr {
				t.Fatalf("err = %v, wantErr %v", err, tt.wantErr)
			}
			if !tt.wantErr && got != tt.want {
				t.Errorf("EvaluateAmount(%q) = %v, want %v", tt.expr, got, tt.want)
			}
		})
	}
}
