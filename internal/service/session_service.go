package service

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"strings"

	"connectrpc.com/connect"
	"google.golang.org/protobuf/types/known/emptypb"

	"github.com/mmynk/expensegenie/internal/cache"
	"github.com/mmynk/expensegenie/internal/importer"
	"github.com/mmynk/expensegenie/internal/metrics"
	"github.com/mmynk/expensegenie/internal/models"
	"github.com/mmynk/expensegenie/internal/storage"
	"github.com/mmynk/expensegenie/pkg/api"
)

var errSessionIDRequired = errors.New("session_id required")

// SessionService implements the SessionService RPC interface.
type SessionService struct {
	store           storage.Store
	cache           cache.Cache
	metrics         *metrics.Metrics
	defaultCurrency string
}

// NewSessionService creates a new SessionService. A nil cache disables
// balance caching; nil metrics record nothing.
func NewSessionService(store storage.Store, c cache.Cache, m *metrics.Metrics, defaultCurrency string) *SessionService {
	if c == nil {
		c = cache.Noop{}
	}
	return &SessionService{
		store:           store,
		cache:           c,
		metrics:         m,
		defaultCurrency: defaultCurrency,
	}
}

// Session loads one of the caller's sessions. It is shared with the export
// endpoint.
func (s *SessionService) Session(ctx context.Context, userID, sessionID string) (*models.Session, error) {
	if sessionID == "" {
		return nil, connect.NewError(connect.CodeInvalidArgument, errSessionIDRequired)
	}
	session, err := s.store.GetSession(ctx, userID, sessionID)
	if err != nil {
		return nil, connectError(err)
	}
	return session, nil
}

// sessionFromRequest converts and validates an incoming session.
func (s *SessionService) sessionFromRequest(userID string, in *api.Session) (*models.Session, error) {
	if in == nil {
		return nil, connect.NewError(connect.CodeInvalidArgument, errors.New("session is required"))
	}
	session := sessionFromAPI(in, userID, s.defaultCurrency)
	if err := session.Validate(); err != nil {
		return nil, connectError(err)
	}
	return session, nil
}

// CreateSession stores a new session and returns it with generated IDs.
func (s *SessionService) CreateSession(ctx context.Context, req *connect.Request[api.SessionRequest]) (*connect.Response[api.SessionResponse], error) {
	userID, err := requireUser(ctx)
	if err != nil {
		return nil, err
	}

	session, err := s.sessionFromRequest(userID, req.Msg.Session)
	if err != nil {
		return nil, err
	}
	slog.Info("CreateSession request received",
		"name", session.Name,
		"participants_count", len(session.Participants),
		"transactions_count", len(session.Transactions),
	)

	// IDs are always server-assigned.
	session.ID = ""
	for i := range session.Transactions {
		session.Transactions[i].ID = ""
	}
	session.LastUpdatedAt = nextUpdate(0)
	if err := s.store.CreateSession(ctx, session); err != nil {
		slog.Error("CreateSession failed", "error", err)
		return nil, connectError(err)
	}

	slog.Info("Session created", "session_id", session.ID)
	return connect.NewResponse(&api.SessionResponse{Session: sessionToAPI(session)}), nil
}

// GetSession retrieves a session by ID.
func (s *SessionService) GetSession(ctx context.Context, req *connect.Request[api.SessionIDRequest]) (*connect.Response[api.SessionResponse], error) {
	userID, err := requireUser(ctx)
	if err != nil {
		return nil, err
	}

	session, err := s.Session(ctx, userID, req.Msg.SessionID)
	if err != nil {
		slog.Warn("GetSession failed", "session_id", req.Msg.SessionID, "error", err)
		return nil, err
	}
	return connect.NewResponse(&api.SessionResponse{Session: sessionToAPI(session)}), nil
}

// ListSessions returns the caller's sessions, newest first.
func (s *SessionService) ListSessions(ctx context.Context, req *connect.Request[emptypb.Empty]) (*connect.Response[api.ListSessionsResponse], error) {
	userID, err := requireUser(ctx)
	if err != nil {
		return nil, err
	}

	sessions, err := s.store.ListSessions(ctx, userID)
	if err != nil {
		slog.Error("ListSessions failed", "error", err)
		return nil, connectError(err)
	}

	slog.Info("ListSessions successful", "count", len(sessions))
	return connect.NewResponse(&api.ListSessionsResponse{Sessions: sessionsToAPI(sessions)}), nil
}

// UpdateSession replaces a session and all of its transactions.
func (s *SessionService) UpdateSession(ctx context.Context, req *connect.Request[api.SessionRequest]) (*connect.Response[api.SessionResponse], error) {
	userID, err := requireUser(ctx)
	if err != nil {
		return nil, err
	}

	session, err := s.sessionFromRequest(userID, req.Msg.Session)
	if err != nil {
		return nil, err
	}
	existing, err := s.Session(ctx, userID, session.ID)
	if err != nil {
		slog.Warn("UpdateSession failed", "session_id", session.ID, "error", err)
		return nil, err
	}

	session.LastUpdatedAt = nextUpdate(existing.LastUpdatedAt)
	if err := s.store.UpdateSession(ctx, session); err != nil {
		slog.Error("UpdateSession failed", "session_id", session.ID, "error", err)
		return nil, connectError(err)
	}

	slog.Info("Session updated", "session_id", session.ID, "transactions_count", len(session.Transactions))
	return connect.NewResponse(&api.SessionResponse{Session: sessionToAPI(session)}), nil
}

// DeleteSession removes a session by ID.
func (s *SessionService) DeleteSession(ctx context.Context, req *connect.Request[api.SessionIDRequest]) (*connect.Response[emptypb.Empty], error) {
	userID, err := requireUser(ctx)
	if err != nil {
		return nil, err
	}
	if req.Msg.SessionID == "" {
		return nil, connect.NewError(connect.CodeInvalidArgument, errSessionIDRequired)
	}

	if err := s.store.DeleteSession(ctx, userID, req.Msg.SessionID, nextUpdate(0)); err != nil {
		slog.Warn("DeleteSession failed", "session_id", req.Msg.SessionID, "error", err)
		return nil, connectError(err)
	}

	slog.Info("Session deleted", "session_id", req.Msg.SessionID)
	return connect.NewResponse(&emptypb.Empty{}), nil
}

// GetSessionBalances settles a session. Results are cached per session
// version and mode.
func (s *SessionService) GetSessionBalances(ctx context.Context, req *connect.Request[api.GetSessionBalancesRequest]) (*connect.Response[api.GetSessionBalancesResponse], error) {
	userID, err := requireUser(ctx)
	if err != nil {
		return nil, err
	}
	sessionID, multi := req.Msg.SessionID, req.Msg.MultiCurrency
	slog.Info("GetSessionBalances request received", "session_id", sessionID, "multi_currency", multi)

	session, err := s.Session(ctx, userID, sessionID)
	if err != nil {
		slog.Warn("GetSessionBalances failed", "session_id", sessionID, "error", err)
		return nil, err
	}

	key := cache.BalancesKey(session.ID, session.LastUpdatedAt, multi)
	if resp, ok := s.cached(ctx, key); ok {
		s.metrics.CacheLookup(true)
		return connect.NewResponse(resp), nil
	}
	s.metrics.CacheLookup(false)

	settlement := settleSession(session, multi)
	s.metrics.ObserveSettlement(multi, len(settlement.Debts), settlement.Warnings)
	resp := settlementToAPI(settlement)

	if encoded, err := json.Marshal(resp); err == nil {
		if err := s.cache.Set(ctx, key, encoded); err != nil {
			slog.Warn("Failed to cache balances", "session_id", sessionID, "error", err)
		}
	}

	slog.Info("GetSessionBalances successful",
		"session_id", sessionID,
		"transactions_count", len(session.Transactions),
		"debts_count", len(settlement.Debts),
		"warnings_count", len(settlement.Warnings),
	)
	return connect.NewResponse(resp), nil
}

// cached returns a stored balances response. Cache failures count as misses.
func (s *SessionService) cached(ctx context.Context, key string) (*api.GetSessionBalancesResponse, bool) {
	data, ok, err := s.cache.Get(ctx, key)
	if err != nil {
		slog.Warn("Balances cache unavailable", "key", key, "error", err)
		return nil, false
	}
	if !ok {
		return nil, false
	}
	var resp api.GetSessionBalancesResponse
	if err := json.Unmarshal(data, &resp); err != nil {
		slog.Warn("Discarding unreadable cache entry", "key", key, "error", err)
		return nil, false
	}
	return &resp, true
}

// GetUserData lets a client holding a copy stamped lastKnownTimestamp skip
// the download when nothing changed since.
func (s *SessionService) GetUserData(ctx context.Context, req *connect.Request[api.GetUserDataRequest]) (*connect.Response[api.GetUserDataResponse], error) {
	userID, err := requireUser(ctx)
	if err != nil {
		return nil, err
	}

	data, err := s.store.GetUserData(ctx, userID)
	if err != nil {
		slog.Error("GetUserData failed", "user_id", userID, "error", err)
		return nil, connectError(err)
	}

	if req.Msg.LastKnownTimestamp >= data.LastUpdatedAt {
		return connect.NewResponse(&api.GetUserDataResponse{
			Status:        api.StatusCurrent,
			LastUpdatedAt: data.LastUpdatedAt,
		}), nil
	}

	sessions, err := s.store.ListSessions(ctx, userID)
	if err != nil {
		slog.Error("GetUserData failed", "user_id", userID, "error", err)
		return nil, connectError(err)
	}

	participants := data.Participants
	if participants == nil {
		participants = []string{}
	}
	slog.Info("GetUserData sending update", "user_id", userID, "sessions_count", len(sessions))
	return connect.NewResponse(&api.GetUserDataResponse{
		Status:        api.StatusUpdated,
		LastUpdatedAt: data.LastUpdatedAt,
		Participants:  participants,
		Sessions:      sessionsToAPI(sessions),
	}), nil
}

// ImportTransactions parses pasted text into transactions. Nothing is
// stored; the client merges the result into a session and saves it.
func (s *SessionService) ImportTransactions(ctx context.Context, req *connect.Request[api.ImportTransactionsRequest]) (*connect.Response[api.ImportTransactionsResponse], error) {
	if _, err := requireUser(ctx); err != nil {
		return nil, err
	}

	currency := strings.ToUpper(strings.TrimSpace(req.Msg.Currency))
	if currency != "" && !models.ValidCurrencyCode(currency) {
		return nil, connect.NewError(connect.CodeInvalidArgument, errors.New("invalid currency code "+currency))
	}
	var participants []string
	for _, name := range req.Msg.Participants {
		if name = strings.TrimSpace(name); name != "" {
			participants = append(participants, name)
		}
	}

	result := importer.Parse(req.Msg.Text, importer.Options{
		DefaultPayer: req.Msg.DefaultPayer,
		Currency:     currency,
		Participants: participants,
	})

	resp := &api.ImportTransactionsResponse{
		Transactions: make([]*api.Transaction, len(result.Transactions)),
		Rejected:     make([]*api.RejectedLine, len(result.Rejected)),
	}
	for i, t := range result.Transactions {
		resp.Transactions[i] = transactionToAPI(t)
	}
	for i, r := range result.Rejected {
		resp.Rejected[i] = &api.RejectedLine{Line: r.Line, Text: r.Text, Reason: r.Reason}
	}

	slog.Info("ImportTransactions parsed",
		"transactions_count", len(resp.Transactions),
		"rejected_count", len(resp.Rejected),
	)
	return connect.NewResponse(resp), nil
}
