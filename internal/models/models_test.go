package models

import (
	"errors"
	"testing"
)

func TestSession_NormalizeAndValidate(t *testing.T) {
	s := &Session{
		Name:         "  Trip ",
		MainCurrency: " usd",
		Currencies:   map[string]float64{" eur ": 0.9},
		Participants: []string{" Ana", "Ben "},
		Transactions: []Transaction{
			{Description: " Taxi ", Amount: 12, Payer: " Ana ", AssignedTo: []string{"Ana ", " Ben"}, Currency: "eur", Date: " 01/02/2024 "},
		},
	}
	s.Normalize()

	if s.Name != "Trip" || s.MainCurrency != "USD" || s.Currencies["EUR"] != 0.9 {
		t.Errorf("session not normalized: %+v", s)
	}
	tx := s.Transactions[0]
	if tx.Payer != "Ana" || tx.Currency != "EUR" || tx.Date != "01/02/2024" || tx.AssignedTo[1] != "Ben" {
		t.Errorf("transaction not normalized: %+v", tx)
	}
	if err := s.Validate(); err != nil {
		t.Errorf("Validate() = %v", err)
	}
}

func TestSession_Validate(t *testing.T) {
	valid := func() *Session {
		return &Session{Name: "Trip", MainCurrency: "USD", Participants: []string{"Ana", "Ben"}}
	}

	tests := []struct {
		name   string
		mutate func(*Session)
	}{
		{"empty name", func(s *Session) { s.Name = "" }},
		{"lowercase currency", func(s *Session) { s.MainCurrency = "usd" }},
		{"zero rate", func(s *Session) { s.Currencies = map[string]float64{"EUR": 0} }},
		{"bad rate code", func(s *Session) { s.Currencies = map[string]float64{"EURO": 1} }},
		{"empty participant", func(s *Session) { s.Participants = append(s.Participants, "") }},
		{"duplicate participant", func(s *Session) { s.Participants = append(s.Participants, "Ana") }},
		{"negative amount", func(s *Session) { s.Transactions = []Transaction{{Amount: -1}} }},
		{"impossible date", func(s *Session) { s.Transactions = []Transaction{{Amount: 1, Date: "31/02/2024"}} }},
		{"iso date", func(s *Session) { s.Transactions = []Transaction{{Amount: 1, Date: "2024-02-01"}} }},
		{"empty assignee", func(s *Session) { s.Transactions = []Transaction{{Amount: 1, AssignedTo: []string{""}}} }},
		{"duplicate transaction id", func(s *Session) { s.Transactions = []Transaction{{ID: "t1", Amount: 1}, {ID: "t1", Amount: 2}} }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := valid()
			tt.mutate(s)
			if err := s.Validate(); !errors.Is(err, ErrValidation) {
				t.Errorf("Validate() = %v, want ErrValidation", err)
			}
		})
	}

	// Unknown names are reported by settlement, not rejected here.
	s := valid()
	s.Transactions = []Transaction{{Amount: 5, Payer: "Zed", AssignedTo: []string{"Zed"}}}
	if err := s.Validate(); err != nil {
		t.Errorf("unknown names should be accepted, got %v", err)
	}
}

func TestBriefData_Validate(t *testing.T) {
	tests := []struct {
		name    string
		data    BriefData
		wantErr bool
	}{
		{"business only", BriefData{Summary: BriefSummary{BusinessName: "Café"}}, false},
		{"contact only", BriefData{Summary: BriefSummary{ContactName: "Rosa", ContactEmail: "Rosa <rosa@example.com>"}}, false},
		{"no names", BriefData{Summary: BriefSummary{ContactEmail: "rosa@example.com"}}, true},
		{"bad email", BriefData{Summary: BriefSummary{BusinessName: "Café", ContactEmail: "rosa@"}}, true},
		{"bad enum", BriefData{Summary: BriefSummary{BusinessName: "Café"}, Design: Design{Style: "brutalist"}}, true},
		{"valid enums", BriefData{
			Summary:         BriefSummary{BusinessName: "Café"},
			ProjectOverview: ProjectOverview{ProjectType: "landing"},
			AIFeatures:      AIFeatures{Assistant: "none"},
			Content:         Content{HasPhotos: "some"},
		}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.data.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, ErrValidation) {
				t.Errorf("error %v does not wrap ErrValidation", err)
			}
		})
	}
}

func TestBriefData_Sections(t *testing.T) {
	yes := true
	d := BriefData{
		PaymentMethods: PaymentMethods{BankTransfer: true},
		Design:         Design{HasLogo: &yes},
		Summary:        BriefSummary{BusinessName: "Café"},
	}

	sections := d.Sections()
	if len(sections) != 11 || sections[0].Title != "Project Overview" || sections[10].Title != "Summary" {
		t.Fatalf("unexpected sections: %d", len(sections))
	}

	values := map[string]string{}
	for _, s := range sections {
		for _, f := range s.Fields {
			values[f.Label] = f.Value
		}
	}
	want := map[string]string{
		"Bank Transfer":    "Yes",
		"Credit Card":      "No",
		"Has Logo":         "Yes",
		"Has Text Content": "-",
		"Project Type":     "-",
		"Business Name":    "Café",
	}
	for label, v := range want {
		if values[label] != v {
			t.Errorf("%s = %q, want %q", label, values[label], v)
		}
	}
}

func TestBrief_TitleAndSubmitter(t *testing.T) {
	tests := []struct {
		name          string
		brief         Brief
		wantTitle     string
		wantSubmitter string
	}{
		{"anonymous", Brief{}, "Unnamed Project", "Anonymous"},
		{"signed in", Brief{UserName: "Ana"}, "Unnamed Project", "Ana"},
		{"contact wins", Brief{UserName: "Ana", Data: BriefData{Summary: BriefSummary{BusinessName: "Café", ContactName: "Rosa"}}}, "Café", "Rosa"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.brief.Title(); got != tt.wantTitle {
				t.Errorf("Title() = %q, want %q", got, tt.wantTitle)
			}
			if got := tt.brief.Submitter(); got != tt.wantSubmitter {
				t.Errorf("Submitter() = %q, want %q", got, tt.wantSubmitter)
			}
		})
	}
}

func TestNewUser(t *testing.T) {
	u := NewUser("  Ana@Example.COM ", " Ana ", "hash")
	if u.ID == "" || u.Email != "ana@example.com" || u.DisplayName != "Ana" || u.CreatedAt == 0 {
		t.Errorf("unexpected user %+v", u)
	}
}
