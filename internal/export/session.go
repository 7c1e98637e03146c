package export

import (
	"bufio"
	"fmt"
	"io"
	"sort"
	"strings"
	"time"

	"github.com/mmynk/expensegenie/internal/calculator"
	"github.com/mmynk/expensegenie/internal/models"
)

// Session writes the settlement report of session in the given format.
func Session(w io.Writer, f Format, session *models.Session, s *calculator.Settlement, now time.Time) error {
	switch f {
	case FormatMarkdown:
		return SessionMarkdown(w, session, s, now)
	case FormatXLSX:
		return SessionXLSX(w, session, s)
	default:
		return fmt.Errorf("unsupported export format %q", f)
	}
}

func money(amount float64) string {
	return fmt.Sprintf("%.2f", calculator.RoundCents(amount))
}

func currencyOr(code, fallback string) string {
	if code == "" {
		return fallback
	}
	return code
}

// sortedSummaries orders a bucket by participant name.
func sortedSummaries(bucket calculator.Summaries) []*calculator.ParticipantSummary {
	out := make([]*calculator.ParticipantSummary, 0, len(bucket))
	for _, summary := range bucket {
		out = append(out, summary)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// SessionMarkdown writes a human-readable settlement report.
func SessionMarkdown(w io.Writer, session *models.Session, s *calculator.Settlement, now time.Time) error {
	bw := bufio.NewWriter(w)

	fmt.Fprintf(bw, "# %s\n\n", session.Name)
	if session.Description != "" {
		fmt.Fprintf(bw, "%s\n\n", session.Description)
	}
	fmt.Fprintf(bw, "- **Main currency:** %s\n", session.MainCurrency)
	fmt.Fprintf(bw, "- **Participants:** %s\n", strings.Join(session.Participants, ", "))
	fmt.Fprintf(bw, "- **Generated:** %s\n\n", now.UTC().Format(time.DateTime))

	bw.WriteString("## Transactions\n\n")
	if len(session.Transactions) == 0 {
		bw.WriteString("No transactions.\n\n")
	} else {
		bw.WriteString("| Date | Description | Paid by | Split between | Amount |\n")
		bw.WriteString("|---|---|---|---|---:|\n")
		for _, tx := range session.Transactions {
			fmt.Fprintf(bw, "| %s | %s | %s | %s | %s %s |\n",
				mdEscape(tx.Date),
				mdEscape(tx.Description),
				mdEscape(currencyOr(tx.Payer, "-")),
				mdEscape(strings.Join(tx.AssignedTo, ", ")),
				money(tx.Amount),
				currencyOr(tx.Currency, session.MainCurrency),
			)
		}
		bw.WriteString("\n")
	}

	for _, currency := range s.Buckets.Currencies() {
		fmt.Fprintf(bw, "## Balances (%s)\n\n", currency)
		bw.WriteString("| Participant | Paid | Fair share | Balance |\n")
		bw.WriteString("|---|---:|---:|---:|\n")
		for _, summary := range sortedSummaries(s.Buckets[currency]) {
			fmt.Fprintf(bw, "| %s | %s | %s | %s |\n",
				mdEscape(summary.Name), money(summary.TotalPaid), money(summary.FairShare), money(summary.Balance))
		}
		bw.WriteString("\n")
	}

	if s.MultiCurrency && len(s.Blended) > 0 {
		fmt.Fprintf(bw, "## Net position (%s)\n\n", s.MainCurrency)
		names := make([]string, 0, len(s.Blended))
		for name := range s.Blended {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			fmt.Fprintf(bw, "- %s: %s\n", name, money(s.Blended[name]))
		}
		bw.WriteString("\n")
	}

	bw.WriteString("## Settlement\n\n")
	if len(s.Debts) == 0 {
		bw.WriteString("Everyone is settled up.\n")
	}
	for _, d := range s.Debts {
		fmt.Fprintf(bw, "- **%s** pays **%s** %s %s\n", d.From, d.To, money(d.Amount), currencyOr(d.Currency, s.MainCurrency))
	}

	if len(s.Warnings) > 0 {
		bw.WriteString("\n## Warnings\n\n")
		for _, warning := range s.Warnings {
			fmt.Fprintf(bw, "- %s\n", warning)
		}
	}
	return bw.Flush()
}

// SessionXLSX writes transactions, balances and transfers on separate sheets.
func SessionXLSX(w io.Writer, session *models.Session, s *calculator.Settlement) error {
	f, err := newWorkbook("Transactions", "Balances", "Settlement")
	if err != nil {
		return err
	}
	defer f.Close()

	txRows := [][]any{{"Date", "Description", "Paid by", "Split between", "Amount", "Currency"}}
	for _, tx := range session.Transactions {
		txRows = append(txRows, []any{
			tx.Date, tx.Description, tx.Payer, strings.Join(tx.AssignedTo, ", "),
			tx.Amount, currencyOr(tx.Currency, session.MainCurrency),
		})
	}

	balanceRows := [][]any{{"Currency", "Participant", "Paid", "Fair share", "Balance"}}
	for _, currency := range s.Buckets.Currencies() {
		for _, summary := range sortedSummaries(s.Buckets[currency]) {
			balanceRows = append(balanceRows, []any{
				currency, summary.Name,
				calculator.RoundCents(summary.TotalPaid),
				calculator.RoundCents(summary.FairShare),
				calculator.RoundCents(summary.Balance),
			})
		}
	}

	debtRows := [][]any{{"From", "To", "Amount", "Currency"}}
	for _, d := range s.Debts {
		debtRows = append(debtRows, []any{d.From, d.To, d.Amount, currencyOr(d.Currency, s.MainCurrency)})
	}

	for sheet, rows := range map[string][][]any{
		"Transactions": txRows,
		"Balances":     balanceRows,
		"Settlement":   debtRows,
	} {
		if err := writeRows(f, sheet, rows); err != nil {
			return fmt.Errorf("failed to fill %s sheet: %w", sheet, err)
		}
	}
	return f.Write(w)
}
