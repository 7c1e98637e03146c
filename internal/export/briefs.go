package export

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/mmynk/expensegenie/internal/models"
)

// briefJSON is the export shape of a brief. Timestamps are RFC 3339.
type briefJSON struct {
	ID          string           `json:"id"`
	UserID      string           `json:"userId,omitempty"`
	UserName    string           `json:"userName,omitempty"`
	UserEmail   string           `json:"userEmail,omitempty"`
	Version     int              `json:"version"`
	CreatedAt   string           `json:"createdAt"`
	CompletedAt string           `json:"completedAt"`
	Data        models.BriefData `json:"data"`
}

func isoTime(unix int64) string {
	return time.Unix(unix, 0).UTC().Format(time.RFC3339)
}

// Briefs writes briefs in the given format.
func Briefs(w io.Writer, f Format, briefs []*models.Brief, now time.Time) error {
	switch f {
	case FormatJSON:
		return BriefsJSON(w, briefs)
	case FormatMarkdown:
		return BriefsMarkdown(w, briefs, now)
	case FormatXLSX:
		return BriefsXLSX(w, briefs)
	default:
		return fmt.Errorf("unsupported export format %q", f)
	}
}

// BriefsJSON writes an indented JSON array.
func BriefsJSON(w io.Writer, briefs []*models.Brief) error {
	out := make([]briefJSON, len(briefs))
	for i, b := range briefs {
		out[i] = briefJSON{
			ID:          b.ID,
			UserID:      b.UserID,
			UserName:    b.UserName,
			UserEmail:   b.UserEmail,
			Version:     b.Version,
			CreatedAt:   isoTime(b.CreatedAt),
			CompletedAt: isoTime(b.CompletedAt),
			Data:        b.Data,
		}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}

// BriefsMarkdown writes one section per brief, separated by rules.
func BriefsMarkdown(w io.Writer, briefs []*models.Brief, now time.Time) error {
	bw := bufio.NewWriter(w)
	fmt.Fprintf(bw, "# Project Briefs Export - %s\n\n", now.Format(time.DateOnly))

	for i, b := range briefs {
		email := b.UserEmail
		if email == "" {
			email = "N/A"
		}
		fmt.Fprintf(bw, "## Submission %d: %s\n", i+1, b.Title())
		fmt.Fprintf(bw, "- **ID:** %s\n", b.ID)
		fmt.Fprintf(bw, "- **User:** %s\n", b.Submitter())
		fmt.Fprintf(bw, "- **Email:** %s\n", email)
		fmt.Fprintf(bw, "- **Date:** %s\n\n", time.Unix(b.CreatedAt, 0).UTC().Format(time.DateTime))

		for _, section := range b.Data.Sections() {
			fmt.Fprintf(bw, "### %s\n", section.Title)
			for _, field := range section.Fields {
				fmt.Fprintf(bw, "- **%s:** %s\n", field.Label, field.Value)
			}
			bw.WriteString("\n")
		}
		bw.WriteString("---\n\n")
	}
	return bw.Flush()
}

// BriefsXLSX writes a single sheet with one row per brief and one column
// per questionnaire field.
func BriefsXLSX(w io.Writer, briefs []*models.Brief) error {
	const sheet = "Briefs"
	f, err := newWorkbook(sheet)
	if err != nil {
		return err
	}
	defer f.Close()

	header := []any{"ID", "Submitted", "User", "Email"}
	for _, section := range (&models.BriefData{}).Sections() {
		for _, field := range section.Fields {
			label := field.Label
			if label != section.Title {
				label = section.Title + ": " + label
			}
			header = append(header, label)
		}
	}

	rows := [][]any{header}
	for _, b := range briefs {
		row := []any{b.ID, isoTime(b.CreatedAt), b.Submitter(), b.UserEmail}
		for _, section := range b.Data.Sections() {
			for _, field := range section.Fields {
				row = append(row, field.Value)
			}
		}
		rows = append(rows, row)
	}

	if err := writeRows(f, sheet, rows); err != nil {
		return fmt.Errorf("failed to fill sheet: %w", err)
	}
	return f.Write(w)
}
