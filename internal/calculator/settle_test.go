package calculator

import "testing"

func TestSettle(t *testing.T) {
	txs := []Transaction{
		{Description: "Hostel", Amount: 90, Payer: "A", AssignedTo: []string{"A", "B", "C"}},
		{Description: "Taxi", Amount: 20, Payer: "B", AssignedTo: []string{"A", "B"}, Currency: "EUR"},
	}
	roster := []string{"A", "B", "C"}
	rates := ExchangeRates{"EUR": 0.5}

	t.Run("blended", func(t *testing.T) {
		s := Settle(txs, roster, "USD", rates, false)
		if s.MultiCurrency || len(s.Buckets) != 1 || s.Buckets["USD"] == nil {
			t.Fatalf("expected a single USD bucket, got %v", s.Buckets.Currencies())
		}
		if s.Blended != nil {
			t.Errorf("blended balances only belong to multi-currency mode")
		}
		for _, d := range s.Debts {
			if d.Currency != "USD" {
				t.Errorf("debt %+v not tagged with main currency", d)
			}
		}
		// 20 EUR at 0.5 is 40 USD: A paid 90, owes 30+20; B paid 40, owes 30+20.
		if got := s.Buckets["USD"]["A"].Balance; got != 40 {
			t.Errorf("A balance = %v, want 40", got)
		}
		if len(s.Warnings) != 0 {
			t.Errorf("unexpected warnings: %v", s.Warnings)
		}
	})

	t.Run("multi-currency", func(t *testing.T) {
		s := Settle(txs, roster, "USD", rates, true)
		if got := s.Buckets.Currencies(); len(got) != 2 || got[0] != "EUR" || got[1] != "USD" {
			t.Fatalf("buckets = %v, want [EUR USD]", got)
		}
		if len(s.Debts) == 0 || s.Debts[0].Currency != "EUR" {
			t.Errorf("debts should be ordered by currency, got %+v", s.Debts)
		}
		// USD: A +60, B -30, C -30. EUR: A -10 (= -20 USD), B +10 (= +20 USD).
		want := map[string]float64{"A": 40, "B": -10, "C": -30}
		for name, balance := range want {
			if s.Blended[name] != balance {
				t.Errorf("blended[%s] = %v, want %v", name, s.Blended[name], balance)
			}
		}
	})

	t.Run("missing rate is reported once per mode", func(t *testing.T) {
		s := Settle(txs, roster, "USD", nil, true)
		if CountByKind(s.Warnings)[WarnMissingRate] != 1 {
			t.Errorf("warnings = %v, want one missing rate", s.Warnings)
		}
	})
}
