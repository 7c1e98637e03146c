package models

import (
	"errors"
	"fmt"
	"math"
	"regexp"
	"strings"
	"time"
)

// ErrValidation is wrapped by every validation failure in this package.
var ErrValidation = errors.New("validation failed")

var (
	currencyCodePattern = regexp.MustCompile(`^[A-Z]{3}$`)
	datePattern         = regexp.MustCompile(`^\d{2}/\d{2}/\d{4}$`)
)

// DateLayout is the display date format used by transactions.
const DateLayout = "02/01/2006"

// Session is a group of shared expenses settled together.
type Session struct {
	// ID is the unique identifier for the session (UUID format).
	ID string

	// UserID is the owner of the session.
	UserID string

	// Name is the display name (e.g., "Cusco trip").
	Name string

	Description string

	// MainCurrency is the code used for transactions without a currency and
	// the target of blended balances.
	MainCurrency string

	// Currencies maps a currency code to how many of its units one unit of
	// MainCurrency buys.
	Currencies map[string]float64

	// Participants is the settlement roster for this session.
	Participants []string

	// Transactions are kept in entry order.
	Transactions []Transaction

	// CreatedAt is the Unix timestamp when the session was created.
	CreatedAt int64

	// LastUpdatedAt is the Unix timestamp (milliseconds) of the last write.
	// Millisecond resolution keeps cache keys distinct across quick edits.
	LastUpdatedAt int64
}

// Transaction is one shared expense.
type Transaction struct {
	// ID identifies the transaction within its session (UUID format).
	ID string

	Description string

	// Amount is what the payer paid, in Currency. Never negative.
	Amount float64

	// Payer is optional; an expense without a payer credits nobody.
	Payer string

	// AssignedTo is the split group. The amount is shared equally.
	AssignedTo []string

	// Currency is empty when the session's main currency applies.
	Currency string

	// Date is display-only, DD/MM/YYYY.
	Date string
}

func validationError(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}

// ValidCurrencyCode reports whether code looks like an ISO 4217 code.
func ValidCurrencyCode(code string) bool {
	return currencyCodePattern.MatchString(code)
}

// Normalize trims names and upper-cases currency codes in place.
func (t *Transaction) Normalize() {
	t.Description = strings.TrimSpace(t.Description)
	t.Payer = strings.TrimSpace(t.Payer)
	t.Currency = strings.ToUpper(strings.TrimSpace(t.Currency))
	t.Date = strings.TrimSpace(t.Date)
	for i, name := range t.AssignedTo {
		t.AssignedTo[i] = strings.TrimSpace(name)
	}
}

// Validate checks a single transaction in isolation.
func (t *Transaction) Validate() error {
	if math.IsNaN(t.Amount) || math.IsInf(t.Amount, 0) {
		return validationError("transaction %q: amount must be a finite number", t.Description)
	}
	if t.Amount < 0 {
		return validationError("transaction %q: amount must not be negative", t.Description)
	}
	if t.Currency != "" && !ValidCurrencyCode(t.Currency) {
		return validationError("transaction %q: invalid currency code %q", t.Description, t.Currency)
	}
	if t.Date != "" {
		if !datePattern.MatchString(t.Date) {
			return validationError("transaction %q: date must be DD/MM/YYYY, got %q", t.Description, t.Date)
		}
		if _, err := time.Parse(DateLayout, t.Date); err != nil {
			return validationError("transaction %q: invalid date %q", t.Description, t.Date)
		}
	}
	seen := make(map[string]bool, len(t.AssignedTo))
	for _, name := range t.AssignedTo {
		if name == "" {
			return validationError("transaction %q: empty participant name in split", t.Description)
		}
		if seen[name] {
			return validationError("transaction %q: %q assigned more than once", t.Description, name)
		}
		seen[name] = true
	}
	return nil
}

// Normalize trims the session's fields and all of its transactions.
func (s *Session) Normalize() {
	s.Name = strings.TrimSpace(s.Name)
	s.Description = strings.TrimSpace(s.Description)
	s.MainCurrency = strings.ToUpper(strings.TrimSpace(s.MainCurrency))
	for i, name := range s.Participants {
		s.Participants[i] = strings.TrimSpace(name)
	}
	if len(s.Currencies) > 0 {
		normalized := make(map[string]float64, len(s.Currencies))
		for code, rate := range s.Currencies {
			normalized[strings.ToUpper(strings.TrimSpace(code))] = rate
		}
		s.Currencies = normalized
	}
	for i := range s.Transactions {
		s.Transactions[i].Normalize()
	}
}

// Validate checks the session and every transaction in it. Transactions may
// reference names outside Participants; settlement reports those instead.
func (s *Session) Validate() error {
	if s.Name == "" {
		return validationError("session name cannot be empty")
	}
	if !ValidCurrencyCode(s.MainCurrency) {
		return validationError("invalid main currency %q", s.MainCurrency)
	}
	for code, rate := range s.Currencies {
		if !ValidCurrencyCode(code) {
			return validationError("invalid currency code %q", code)
		}
		if math.IsNaN(rate) || math.IsInf(rate, 0) || rate <= 0 {
			return validationError("exchange rate for %s must be positive", code)
		}
	}
	seen := make(map[string]bool, len(s.Participants))
	for _, name := range s.Participants {
		if name == "" {
			return validationError("participant name cannot be empty")
		}
		if seen[name] {
			return validationError("participant %q listed more than once", name)
		}
		seen[name] = true
	}
	ids := make(map[string]bool, len(s.Transactions))
	for i := range s.Transactions {
		t := &s.Transactions[i]
		if err := t.Validate(); err != nil {
			return err
		}
		if t.ID == "" {
			continue
		}
		if ids[t.ID] {
			return validationError("transaction id %q used more than once", t.ID)
		}
		ids[t.ID] = true
	}
	return nil
}
