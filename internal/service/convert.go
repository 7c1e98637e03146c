package service

import (
	"sort"

	"github.com/mmynk/expensegenie/internal/calculator"
	"github.com/mmynk/expensegenie/internal/models"
	"github.com/mmynk/expensegenie/pkg/api"
)

func userToAPI(u *models.User, admin bool) *api.User {
	return &api.User{
		ID:          u.ID,
		Email:       u.Email,
		DisplayName: u.DisplayName,
		IsAdmin:     admin,
		CreatedAt:   u.CreatedAt,
	}
}

func transactionFromAPI(t *api.Transaction) models.Transaction {
	return models.Transaction{
		ID:          t.ID,
		Description: t.Description,
		Amount:      t.Amount,
		Payer:       t.Payer,
		AssignedTo:  append([]string(nil), t.AssignedTo...),
		Currency:    t.Currency,
		Date:        t.Date,
	}
}

func transactionToAPI(t models.Transaction) *api.Transaction {
	assigned := t.AssignedTo
	if assigned == nil {
		assigned = []string{}
	}
	return &api.Transaction{
		ID:          t.ID,
		Description: t.Description,
		Amount:      t.Amount,
		Payer:       t.Payer,
		AssignedTo:  assigned,
		Currency:    t.Currency,
		Date:        t.Date,
	}
}

// sessionFromAPI builds a normalized model owned by userID. Nil
// transactions are skipped.
func sessionFromAPI(in *api.Session, userID, defaultCurrency string) *models.Session {
	s := &models.Session{
		ID:           in.ID,
		UserID:       userID,
		Name:         in.Name,
		Description:  in.Description,
		MainCurrency: in.MainCurrency,
		Participants: append([]string(nil), in.Participants...),
	}
	if len(in.Currencies) > 0 {
		s.Currencies = make(map[string]float64, len(in.Currencies))
		for code, rate := range in.Currencies {
			s.Currencies[code] = rate
		}
	}
	for _, t := range in.Transactions {
		if t != nil {
			s.Transactions = append(s.Transactions, transactionFromAPI(t))
		}
	}

	s.Normalize()
	if s.MainCurrency == "" {
		s.MainCurrency = defaultCurrency
	}
	return s
}

func sessionToAPI(s *models.Session) *api.Session {
	out := &api.Session{
		ID:            s.ID,
		Name:          s.Name,
		Description:   s.Description,
		MainCurrency:  s.MainCurrency,
		Currencies:    s.Currencies,
		Participants:  s.Participants,
		Transactions:  make([]*api.Transaction, len(s.Transactions)),
		CreatedAt:     s.CreatedAt,
		LastUpdatedAt: s.LastUpdatedAt,
	}
	if out.Participants == nil {
		out.Participants = []string{}
	}
	for i, t := range s.Transactions {
		out.Transactions[i] = transactionToAPI(t)
	}
	return out
}

func sessionsToAPI(sessions []*models.Session) []*api.Session {
	out := make([]*api.Session, len(sessions))
	for i, s := range sessions {
		out[i] = sessionToAPI(s)
	}
	return out
}

// engineTransactions strips a session's transactions down to what the
// settlement engine reads.
func engineTransactions(txs []models.Transaction) []calculator.Transaction {
	out := make([]calculator.Transaction, len(txs))
	for i, t := range txs {
		out[i] = calculator.Transaction{
			Description: t.Description,
			Amount:      t.Amount,
			Payer:       t.Payer,
			AssignedTo:  t.AssignedTo,
			Currency:    t.Currency,
			Date:        t.Date,
		}
	}
	return out
}

// settleSession runs the settlement engine over a stored session.
func settleSession(s *models.Session, multiCurrency bool) *calculator.Settlement {
	return calculator.Settle(
		engineTransactions(s.Transactions),
		s.Participants,
		s.MainCurrency,
		calculator.ExchangeRates(s.Currencies),
		multiCurrency,
	)
}

func settlementToAPI(s *calculator.Settlement) *api.GetSessionBalancesResponse {
	resp := &api.GetSessionBalancesResponse{
		MainCurrency:  s.MainCurrency,
		MultiCurrency: s.MultiCurrency,
		Buckets:       make([]*api.CurrencyBalances, 0, len(s.Buckets)),
		Debts:         make([]*api.Debt, len(s.Debts)),
		Blended:       s.Blended,
		Warnings:      make([]*api.Warning, len(s.Warnings)),
	}

	for _, currency := range s.Buckets.Currencies() {
		bucket := s.Buckets[currency]
		summaries := make([]*api.ParticipantSummary, 0, len(bucket))
		for _, p := range bucket {
			summaries = append(summaries, &api.ParticipantSummary{
				Name:      p.Name,
				TotalPaid: calculator.RoundCents(p.TotalPaid),
				FairShare: calculator.RoundCents(p.FairShare),
				Balance:   calculator.RoundCents(p.Balance),
			})
		}
		sort.Slice(summaries, func(i, j int) bool { return summaries[i].Name < summaries[j].Name })
		resp.Buckets = append(resp.Buckets, &api.CurrencyBalances{Currency: currency, Summaries: summaries})
	}

	for i, d := range s.Debts {
		resp.Debts[i] = &api.Debt{From: d.From, To: d.To, Amount: d.Amount, Currency: d.Currency}
	}
	for i, w := range s.Warnings {
		resp.Warnings[i] = &api.Warning{
			Kind:        string(w.Kind),
			Transaction: w.Transaction,
			Name:        w.Name,
			Currency:    w.Currency,
			Message:     w.Message,
		}
	}
	return resp
}

func briefToAPI(b *models.Brief) *api.Brief {
	return &api.Brief{
		ID:          b.ID,
		UserID:      b.UserID,
		UserName:    b.UserName,
		UserEmail:   b.UserEmail,
		Data:        b.Data,
		Version:     b.Version,
		CreatedAt:   b.CreatedAt,
		CompletedAt: b.CompletedAt,
	}
}
