// Package api defines the request and response messages of the Expense Genie
// RPC services. Messages are plain structs carried as JSON; see apiconnect
// for the handlers and clients.
package api

import "github.com/mmynk/expensegenie/internal/models"

// Sync statuses returned by GetUserData.
const (
	StatusCurrent = "current"
	StatusUpdated = "updated"
)

// User is the public view of an account.
type User struct {
	ID          string `json:"id"`
	Email       string `json:"email"`
	DisplayName string `json:"displayName"`
	IsAdmin     bool   `json:"isAdmin,omitempty"`
	CreatedAt   int64  `json:"createdAt,omitempty"`
}

// Auth

type GoogleLoginURLResponse struct {
	URL   string `json:"url"`
	State string `json:"state"`
}

type ExchangeGoogleCodeRequest struct {
	Code string `json:"code"`
}

type RegisterRequest struct {
	Email       string `json:"email"`
	DisplayName string `json:"displayName"`
	Password    string `json:"password"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// AuthResponse is returned by every sign-in method.
type AuthResponse struct {
	User  *User  `json:"user"`
	Token string `json:"token"`
}

type GetCurrentUserResponse struct {
	User *User `json:"user"`
}

// Participants

type ListParticipantsResponse struct {
	Participants  []string `json:"participants"`
	LastUpdatedAt int64    `json:"lastUpdatedAt"`
}

type ParticipantRequest struct {
	Name string `json:"name"`
}

// Sessions

type Transaction struct {
	ID          string   `json:"id,omitempty"`
	Description string   `json:"description"`
	Amount      float64  `json:"amount"`
	Payer       string   `json:"payer,omitempty"`
	AssignedTo  []string `json:"assignedTo"`
	Currency    string   `json:"currency,omitempty"`
	Date        string   `json:"date,omitempty"`
}

type Session struct {
	ID            string             `json:"id,omitempty"`
	Name          string             `json:"name"`
	Description   string             `json:"description,omitempty"`
	MainCurrency  string             `json:"mainCurrency,omitempty"`
	Currencies    map[string]float64 `json:"currencies,omitempty"`
	Participants  []string           `json:"participants"`
	Transactions  []*Transaction     `json:"transactions"`
	CreatedAt     int64              `json:"createdAt,omitempty"`
	LastUpdatedAt int64              `json:"lastUpdatedAt,omitempty"`
}

type SessionRequest struct {
	Session *Session `json:"session"`
}

type SessionIDRequest struct {
	SessionID string `json:"sessionId"`
}

type SessionResponse struct {
	Session *Session `json:"session"`
}

type ListSessionsResponse struct {
	Sessions []*Session `json:"sessions"`
}

type GetSessionBalancesRequest struct {
	SessionID     string `json:"sessionId"`
	MultiCurrency bool   `json:"multiCurrency"`
}

type ParticipantSummary struct {
	Name      string  `json:"name"`
	TotalPaid float64 `json:"totalPaid"`
	FairShare float64 `json:"fairShare"`
	Balance   float64 `json:"balance"`
}

// CurrencyBalances holds the summaries of one currency bucket. In blended
// mode there is a single bucket in the main currency.
type CurrencyBalances struct {
	Currency  string                `json:"currency"`
	Summaries []*ParticipantSummary `json:"summaries"`
}

type Debt struct {
	From     string  `json:"from"`
	To       string  `json:"to"`
	Amount   float64 `json:"amount"`
	Currency string  `json:"currency,omitempty"`
}

// Warning is a non-fatal settlement diagnostic. Transaction is the index of
// the offending transaction, or -1.
type Warning struct {
	Kind        string `json:"kind"`
	Transaction int    `json:"transaction"`
	Name        string `json:"name,omitempty"`
	Currency    string `json:"currency,omitempty"`
	Message     string `json:"message"`
}

type GetSessionBalancesResponse struct {
	MainCurrency  string              `json:"mainCurrency"`
	MultiCurrency bool                `json:"multiCurrency"`
	Buckets       []*CurrencyBalances `json:"buckets"`
	Debts         []*Debt             `json:"debts"`
	// Blended is the per-participant balance converted to the main currency.
	// Only set in multi-currency mode.
	Blended  map[string]float64 `json:"blended,omitempty"`
	Warnings []*Warning         `json:"warnings"`
}

type GetUserDataRequest struct {
	LastKnownTimestamp int64 `json:"lastKnownTimestamp"`
}

// GetUserDataResponse carries data only when Status is StatusUpdated.
type GetUserDataResponse struct {
	Status        string     `json:"status"`
	LastUpdatedAt int64      `json:"lastUpdatedAt"`
	Participants  []string   `json:"participants,omitempty"`
	Sessions      []*Session `json:"sessions,omitempty"`
}

type ImportTransactionsRequest struct {
	Text         string   `json:"text"`
	DefaultPayer string   `json:"defaultPayer"`
	Currency     string   `json:"currency"`
	Participants []string `json:"participants"`
}

type RejectedLine struct {
	Line   int    `json:"line"`
	Text   string `json:"text"`
	Reason string `json:"reason"`
}

type ImportTransactionsResponse struct {
	Transactions []*Transaction  `json:"transactions"`
	Rejected     []*RejectedLine `json:"rejected"`
}

// Briefs

// BriefData is the questionnaire content of a project brief.
type BriefData = models.BriefData

type Brief struct {
	ID          string    `json:"id"`
	UserID      string    `json:"userId,omitempty"`
	UserName    string    `json:"userName,omitempty"`
	UserEmail   string    `json:"userEmail,omitempty"`
	Data        BriefData `json:"data"`
	Version     int       `json:"version"`
	CreatedAt   int64     `json:"createdAt"`
	CompletedAt int64     `json:"completedAt"`
}

type SubmitBriefRequest struct {
	Brief BriefData `json:"brief"`
}

type SubmitBriefResponse struct {
	ID string `json:"id"`
}

type BriefIDRequest struct {
	ID string `json:"id"`
}

type BriefResponse struct {
	Brief *Brief `json:"brief"`
}

type ListBriefsResponse struct {
	Briefs []*Brief `json:"briefs"`
}

type ClearBriefsResponse struct {
	Deleted int `json:"deleted"`
}
