// Package export renders briefs and session settlements as downloadable
// JSON, Markdown or XLSX documents.
package export

import (
	"fmt"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"
)

// Format is a download format.
type Format string

const (
	FormatJSON     Format = "json"
	FormatMarkdown Format = "md"
	FormatXLSX     Format = "xlsx"
)

// ParseFormat accepts one of allowed, case-insensitively. "markdown" is an
// alias for "md".
func ParseFormat(name string, allowed ...Format) (Format, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "markdown" {
		name = string(FormatMarkdown)
	}
	for _, f := range allowed {
		if string(f) == name {
			return f, nil
		}
	}
	return "", fmt.Errorf("unsupported export format %q", name)
}

// ContentType is the MIME type for the Content-Type header.
func (f Format) ContentType() string {
	switch f {
	case FormatJSON:
		return "application/json"
	case FormatMarkdown:
		return "text/markdown; charset=utf-8"
	case FormatXLSX:
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	default:
		return "application/octet-stream"
	}
}

// Filename builds an attachment name such as "briefs-export-2024-03-12.md".
func Filename(base string, f Format, now time.Time) string {
	return fmt.Sprintf("%s-%s.%s", base, now.Format(time.DateOnly), f)
}

// writeRows fills sheet from A1 down, one slice per row.
func writeRows(f *excelize.File, sheet string, rows [][]any) error {
	for r, row := range rows {
		for c, value := range row {
			cell, err := excelize.CoordinatesToCellName(c+1, r+1)
			if err != nil {
				return err
			}
			if err := f.SetCellValue(sheet, cell, value); err != nil {
				return err
			}
		}
	}
	return nil
}

// newWorkbook creates a workbook whose sheets are named in order. The first
// name replaces excelize's default sheet.
func newWorkbook(sheets ...string) (*excelize.File, error) {
	f := excelize.NewFile()
	for i, name := range sheets {
		if i == 0 {
			if err := f.SetSheetName("Sheet1", name); err != nil {
				f.Close()
				return nil, err
			}
			continue
		}
		if _, err := f.NewSheet(name); err != nil {
			f.Close()
			return nil, err
		}
	}
	f.SetActiveSheet(0)
	return f, nil
}

// mdEscape keeps user text from breaking Markdown table rows.
func mdEscape(s string) string {
	s = strings.ReplaceAll(s, "|", `\|`)
	return strings.ReplaceAll(s, "\n", " ")
}
