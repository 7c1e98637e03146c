// Package importer turns pasted bank or chat text into transactions.
//
// Each line has the form
//
//	DD/MM/YYYY : description - amount
//
// where amount may be an arithmetic expression ("45.50*2", "120/3") and may
// use commas as thousands separators. A trailing note in parentheses that
// contains letters, such as "(paid by Ana)", is ignored.
package importer

import (
	"errors"
	"fmt"
	"math"
	"regexp"
	"strings"
	"time"

	"github.com/Knetic/govaluate"

	"github.com/mmynk/expensegenie/internal/calculator"
	"github.com/mmynk/expensegenie/internal/models"
)

var (
	linePattern     = regexp.MustCompile(`^(\d{2}/\d{2}/\d{4})\s*:\s*(.+)$`)
	notePattern     = regexp.MustCompile(`\s*\([^()]*[\p{L}][^()]*\)\s*$`)
	amountCharset   = regexp.MustCompile(`^[\d.,+\-*/()\s]+$`)
	containsDigit   = regexp.MustCompile(`\d`)
	errNoAmount     = errors.New("expected DD/MM/YYYY : description - amount")
	errEmptyDetails = errors.New("description is empty")
)

// Options controls how parsed lines become transactions.
type Options struct {
	// DefaultPayer is set as the payer of every transaction. May be empty.
	DefaultPayer string

	// Currency is applied to every transaction; empty means the session's
	// main currency.
	Currency string

	// Participants becomes the split group of every transaction.
	Participants []string
}

// Rejection describes a non-blank line that could not be imported.
type Rejection struct {
	Line   int // 1-based
	Text   string
	Reason string
}

// Result is the outcome of Parse. Transactions keep input order.
type Result struct {
	Transactions []models.Transaction
	Rejected     []Rejection
}

// Parse reads text line by line. Blank lines are skipped silently; every
// other line either yields a transaction or a Rejection.
func Parse(text string, opts Options) Result {
	var res Result
	currency := strings.ToUpper(strings.TrimSpace(opts.Currency))
	payer := strings.TrimSpace(opts.DefaultPayer)

	for i, raw := range strings.Split(text, "\n") {
		line := strings.TrimSpace(raw)
		if line == "" {
			continue
		}

		tx, err := parseLine(line)
		if err != nil {
			res.Rejected = append(res.Rejected, Rejection{Line: i + 1, Text: line, Reason: err.Error()})
			continue
		}

		tx.Payer = payer
		tx.Currency = currency
		tx.AssignedTo = append([]string(nil), opts.Participants...)
		res.Transactions = append(res.Transactions, tx)
	}
	return res
}

func parseLine(line string) (models.Transaction, error) {
	m := linePattern.FindStringSubmatch(line)
	if m == nil {
		return models.Transaction{}, errNoAmount
	}
	date, rest := m[1], notePattern.ReplaceAllString(m[2], "")

	if _, err := time.Parse(models.DateLayout, date); err != nil {
		return models.Transaction{}, fmt.Errorf("invalid date %q", date)
	}

	// The description may itself contain hyphens: split at the leftmost
	// hyphen whose remainder evaluates to an amount. A hyphen right after
	// the separator is the amount's sign, not a split point.
	var lastErr error = errNoAmount
	for i := 0; i < len(rest); i++ {
		if rest[i] != '-' {
			continue
		}
		description := strings.TrimSpace(rest[:i])
		expr := strings.TrimSpace(rest[i+1:])
		if !amountCharset.MatchString(expr) || !containsDigit.MatchString(expr) {
			continue
		}
		if description == "" {
			lastErr = errEmptyDetails
			continue
		}
		if strings.HasSuffix(description, "-") {
			continue
		}

		amount, err := EvaluateAmount(expr)
		if err != nil {
			lastErr = err
			continue
		}
		return models.Transaction{Description: description, Amount: amount, Date: date}, nil
	}
	return models.Transaction{}, lastErr
}

// EvaluateAmount computes an amount expression, rounded to cents. Commas
// are treated as thousands separators. The result must be finite and not
// negative.
func EvaluateAmount(expr string) (float64, error) {
	cleaned := strings.ReplaceAll(expr, ",", "")
	expression, err := govaluate.NewEvaluableExpression(cleaned)
	if err != nil {
		return 0, fmt.Errorf("invalid amount %q: %v", expr, err)
	}

	result, err := expression.Evaluate(nil)
	if err != nil {
		return 0, fmt.Errorf("cannot evaluate amount %q: %v", expr, err)
	}

	amount, ok := result.(float64)
	if !ok {
		return 0, fmt.Errorf("amount %q is not a number", expr)
	}
	if math.IsNaN(amount) || math.IsInf(amount, 0) {
		return 0, fmt.Errorf("amount %q is not finite", expr)
	}
	if amount < 0 {
		return 0, fmt.Errorf("amount %q is negative", expr)
	}
	return calculator.RoundCents(amount), nil
}
