package export

import (
	"bytes"
	"encoding/json"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/mmynk/expensegenie/internal/calculator"
	"github.com/mmynk/expensegenie/internal/models"
)

var exportTime = time.Date(2024, 3, 12, 9, 30, 0, 0, time.UTC)

func testBriefs() []*models.Brief {
	yes := true
	return []*models.Brief{
		{
			ID:        "b1",
			UserName:  "Ana Ruiz",
			UserEmail: "ana@example.com",
			Version:   models.BriefVersion,
			CreatedAt: exportTime.Unix(),
			Data: models.BriefData{
				ProjectOverview: models.ProjectOverview{PrimaryGoal: "Sell | ship"},
				Design:          models.Design{HasLogo: &yes},
				Summary:         models.BriefSummary{BusinessName: "Cafe Sol"},
			},
		},
		{ID: "b2", CreatedAt: exportTime.Unix()},
	}
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		name    string
		want    Format
		wantErr bool
	}{
		{"json", FormatJSON, false},
		{" XLSX ", FormatXLSX, false},
		{"markdown", FormatMarkdown, false},
		{"pdf", "", true},
	}
	for _, tt := range tests {
		got, err := ParseFormat(tt.name, FormatJSON, FormatMarkdown, FormatXLSX)
		if (err != nil) != tt.wantErr || got != tt.want {
			t.Errorf("ParseFormat(%q) = %q, %v", tt.name, got, err)
		}
	}

	if _, err := ParseFormat("json", FormatMarkdown); err == nil {
		t.Error("formats outside the allowed list must be rejected")
	}
}

func TestFilename(t *testing.T) {
	if got := Filename("briefs-export", FormatMarkdown, exportTime); got != "briefs-export-2024-03-12.md" {
		t.Errorf("Filename = %q", got)
	}
}

func TestBriefsJSON(t *testing.T) {
	var buf bytes.Buffer
	if err := BriefsJSON(&buf, testBriefs()); err != nil {
		t.Fatalf("BriefsJSON failed: %v", err)
	}

	var decoded []map[string]any
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("output is not JSON: %v", err)
	}
	if len(decoded) != 2 {
		t.Fatalf("got %d briefs, want 2", len(decoded))
	}
	if decoded[0]["createdAt"] != "2024-03-12T09:30:00Z" {
		t.Errorf("createdAt = %v, want RFC 3339", decoded[0]["createdAt"])
	}
	data := decoded[0]["data"].(map[string]any)
	summary := data["summary"].(map[string]any)
	if summary["businessName"] != "Cafe Sol" {
		t.Errorf("summary = %v", summary)
	}
}

func TestBriefsMarkdown(t *testing.T) {
	var buf bytes.Buffer
	if err := BriefsMarkdown(&buf, testBriefs(), exportTime); err != nil {
		t.Fatalf("BriefsMarkdown failed: %v", err)
	}
	out := buf.String()

	for _, want := range []string{
		"# Project Briefs Export - 2024-03-12\n",
		"## Submission 1: Cafe Sol\n",
		"- **User:** Ana Ruiz\n",
		"- **Email:** ana@example.com\n",
		"### Design\n",
		"- **Has Logo:** Yes\n",
		"## Submission 2: Unnamed Project\n",
		"- **User:** Anonymous\n",
		"- **Email:** N/A\n",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("markdown missing %q", want)
		}
	}
	if strings.Count(out, "---\n") != 2 {
		t.Errorf("expected one separator per brief")
	}
}

func TestBriefsXLSX(t *testing.T) {
	var buf bytes.Buffer
	if err := BriefsXLSX(&buf, testBriefs()); err != nil {
		t.Fatalf("BriefsXLSX failed: %v", err)
	}

	f, err := excelize.OpenReader(&buf)
	if err != nil {
		t.Fatalf("output is not a workbook: %v", err)
	}
	defer f.Close()

	rows, err := f.GetRows("Briefs")
	if err != nil {
		t.Fatalf("GetRows failed: %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("got %d rows, want header + 2", len(rows))
	}
	if !reflect.DeepEqual(rows[0][:4], []string{"ID", "Submitted", "User", "Email"}) {
		t.Errorf("header = %v", rows[0][:4])
	}
	if rows[1][0] != "b1" || rows[1][2] != "Ana Ruiz" {
		t.Errorf("first row = %v", rows[1][:4])
	}
	if len(rows[0]) != len(rows[1]) {
		t.Errorf("header has %d columns, row has %d", len(rows[0]), len(rows[1]))
	}
}

func testSession() (*models.Session, *calculator.Settlement) {
	session := &models.Session{
		Name:         "Cusco trip",
		Description:  "July",
		MainCurrency: "USD",
		Participants: []string{"Ana", "Ben"},
		Transactions: []models.Transaction{
			{Description: "Hostel", Amount: 100, Payer: "Ana", AssignedTo: []string{"Ana", "Ben"}, Date: "03/07/2024"},
			{Description: "Bus | return", Amount: 40, Payer: "Ben", AssignedTo: []string{"Ana", "Ben"}, Currency: "PEN"},
		},
	}
	txs := []calculator.Transaction{
		{Amount: 100, Payer: "Ana", AssignedTo: []string{"Ana", "Ben"}},
		{Amount: 40, Payer: "Ben", AssignedTo: []string{"Ana", "Ben"}, Currency: "PEN"},
	}
	return session, calculator.Settle(txs, session.Participants, "USD", calculator.ExchangeRates{"PEN": 4}, true)
}

func TestSessionMarkdown(t *testing.T) {
	session, settlement := testSession()

	var buf bytes.Buffer
	if err := SessionMarkdown(&buf, session, settlement, exportTime); err != nil {
		t.Fatalf("SessionMarkdown failed: %v", err)
	}
	out := buf.String()

	for _, want := range []string{
		"# Cusco trip\n",
		"- **Participants:** Ana, Ben\n",
		`| 03/07/2024 | Hostel | Ana | Ana, Ben | 100.00 USD |`,
		`Bus \| return`,
		"## Balances (PEN)\n",
		"## Balances (USD)\n",
		"| Ana | 100.00 | 50.00 | 50.00 |",
		"## Net position (USD)\n",
		"- Ana: 45.00\n",
		"- **Ben** pays **Ana** 50.00 USD\n",
		"- **Ana** pays **Ben** 20.00 PEN\n",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("report missing %q\n%s", want, out)
		}
	}
	if strings.Contains(out, "## Warnings") {
		t.Error("no warnings expected")
	}
}

func TestSessionMarkdown_Settled(t *testing.T) {
	session := &models.Session{Name: "Empty", MainCurrency: "USD"}
	settlement := calculator.Settle(nil, nil, "USD", nil, false)

	var buf bytes.Buffer
	if err := SessionMarkdown(&buf, session, settlement, exportTime); err != nil {
		t.Fatalf("SessionMarkdown failed: %v", err)
	}
	if !strings.Contains(buf.String(), "Everyone is settled up.") {
		t.Errorf("report = %s", buf.String())
	}
}

func TestSessionXLSX(t *testing.T) {
	session, settlement := testSession()

	var buf bytes.Buffer
	if err := Session(&buf, FormatXLSX, session, settlement, exportTime); err != nil {
		t.Fatalf("SessionXLSX failed: %v", err)
	}

	f, err := excelize.OpenReader(&buf)
	if err != nil {
		t.Fatalf("output is not a workbook: %v", err)
	}
	defer f.Close()

	if got := f.GetSheetList(); !reflect.DeepEqual(got, []string{"Transactions", "Balances", "Settlement"}) {
		t.Errorf("sheets = %v", got)
	}

	tx, _ := f.GetRows("Transactions")
	if len(tx) != 3 || tx[2][5] != "PEN" {
		t.Errorf("transactions sheet = %v", tx)
	}
	debts, _ := f.GetRows("Settlement")
	if len(debts) != 3 {
		t.Errorf("settlement sheet = %v", debts)
	}
}

func TestSession_RejectsJSON(t *testing.T) {
	session, settlement := testSession()
	if err := Session(&bytes.Buffer{}, FormatJSON, session, settlement, exportTime); err == nil {
		t.Error("session reports have no JSON format")
	}
}
