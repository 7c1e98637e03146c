package apiconnect

import (
	"context"
	"net/http"
	"strings"

	"connectrpc.com/connect"
	"google.golang.org/protobuf/types/known/emptypb"

	"github.com/mmynk/expensegenie/pkg/api"
)

const SessionServiceName = "expensegenie.v1.SessionService"

const (
	SessionServiceCreateSessionProcedure      = "/expensegenie.v1.SessionService/CreateSession"
	SessionServiceGetSessionProcedure         = "/expensegenie.v1.SessionService/GetSession"
	SessionServiceListSessionsProcedure       = "/expensegenie.v1.SessionService/ListSessions"
	SessionServiceUpdateSessionProcedure      = "/expensegenie.v1.SessionService/UpdateSession"
	SessionServiceDeleteSessionProcedure      = "/expensegenie.v1.SessionService/DeleteSession"
	SessionServiceGetSessionBalancesProcedure = "/expensegenie.v1.SessionService/GetSessionBalances"
	SessionServiceGetUserDataProcedure        = "/expensegenie.v1.SessionService/GetUserData"
	SessionServiceImportTransactionsProcedure = "/expensegenie.v1.SessionService/ImportTransactions"
)

// SessionServiceHandler is implemented by the server side of SessionService.
type SessionServiceHandler interface {
	CreateSession(context.Context, *connect.Request[api.SessionRequest]) (*connect.Response[api.SessionResponse], error)
	GetSession(context.Context, *connect.Request[api.SessionIDRequest]) (*connect.Response[api.SessionResponse], error)
	ListSessions(context.Context, *connect.Request[emptypb.Empty]) (*connect.Response[api.ListSessionsResponse], error)
	UpdateSession(context.Context, *connect.Request[api.SessionRequest]) (*connect.Response[api.SessionResponse], error)
	DeleteSession(context.Context, *connect.Request[api.SessionIDRequest]) (*connect.Response[emptypb.Empty], error)
	GetSessionBalances(context.Context, *connect.Request[api.GetSessionBalancesRequest]) (*connect.Response[api.GetSessionBalancesResponse], error)
	GetUserData(context.Context, *connect.Request[api.GetUserDataRequest]) (*connect.Response[api.GetUserDataResponse], error)
	ImportTransactions(context.Context, *connect.Request[api.ImportTransactionsRequest]) (*connect.Response[api.ImportTransactionsResponse], error)
}

// NewSessionServiceHandler builds an HTTP handler for SessionService.
func NewSessionServiceHandler(svc SessionServiceHandler, opts ...connect.HandlerOption) (string, http.Handler) {
	opts = handlerOptions(opts)
	mux := http.NewServeMux()
	mux.Handle(SessionServiceCreateSessionProcedure, connect.NewUnaryHandler(SessionServiceCreateSessionProcedure, svc.CreateSession, opts...))
	mux.Handle(SessionServiceGetSessionProcedure, connect.NewUnaryHandler(SessionServiceGetSessionProcedure, svc.GetSession, opts...))
	mux.Handle(SessionServiceListSessionsProcedure, connect.NewUnaryHandler(SessionServiceListSessionsProcedure, svc.ListSessions, opts...))
	mux.Handle(SessionServiceUpdateSessionProcedure, connect.NewUnaryHandler(SessionServiceUpdateSessionProcedure, svc.UpdateSession, opts...))
	mux.Handle(SessionServiceDeleteSessionProcedure, connect.NewUnaryHandler(SessionServiceDeleteSessionProcedure, svc.DeleteSession, opts...))
	mux.Handle(SessionServiceGetSessionBalancesProcedure, connect.NewUnaryHandler(SessionServiceGetSessionBalancesProcedure, svc.GetSessionBalances, opts...))
	mux.Handle(SessionServiceGetUserDataProcedure, connect.NewUnaryHandler(SessionServiceGetUserDataProcedure, svc.GetUserData, opts...))
	mux.Handle(SessionServiceImportTransactionsProcedure, connect.NewUnaryHandler(SessionServiceImportTransactionsProcedure, svc.ImportTransactions, opts...))
	return "/" + SessionServiceName + "/", mux
}

// SessionServiceClient is a client for SessionService.
type SessionServiceClient interface {
	CreateSession(context.Context, *connect.Request[api.SessionRequest]) (*connect.Response[api.SessionResponse], error)
	GetSession(context.Context, *connect.Request[api.SessionIDRequest]) (*connect.Response[api.SessionResponse], error)
	ListSessions(context.Context, *connect.Request[emptypb.Empty]) (*connect.Response[api.ListSessionsResponse], error)
	UpdateSession(context.Context, *connect.Request[api.SessionRequest]) (*connect.Response[api.SessionResponse], error)
	DeleteSession(context.Context, *connect.Request[api.SessionIDRequest]) (*connect.Response[emptypb.Empty], error)
	GetSessionBalances(context.Context, *connect.Request[api.GetSessionBalancesRequest]) (*connect.Response[api.GetSessionBalancesResponse], error)
	GetUserData(context.Context, *connect.Request[api.GetUserDataRequest]) (*connect.Response[api.GetUserDataResponse], error)
	ImportTransactions(context.Context, *connect.Request[api.ImportTransactionsRequest]) (*connect.Response[api.ImportTransactionsResponse], error)
}

// NewSessionServiceClient constructs a client for SessionService at baseURL.
func NewSessionServiceClient(httpClient connect.HTTPClient, baseURL string, opts ...connect.ClientOption) SessionServiceClient {
	baseURL = strings.TrimRight(baseURL, "/")
	opts = clientOptions(opts)
	return &sessionServiceClient{
		create:   connect.NewClient[api.SessionRequest, api.SessionResponse](httpClient, baseURL+SessionServiceCreateSessionProcedure, opts...),
		get:      connect.NewClient[api.SessionIDRequest, api.SessionResponse](httpClient, baseURL+SessionServiceGetSessionProcedure, opts...),
		list:     connect.NewClient[emptypb.Empty, api.ListSessionsResponse](httpClient, baseURL+SessionServiceListSessionsProcedure, opts...),
		update:   connect.NewClient[api.SessionRequest, api.SessionResponse](httpClient, baseURL+SessionServiceUpdateSessionProcedure, opts...),
		delete:   connect.NewClient[api.SessionIDRequest, emptypb.Empty](httpClient, baseURL+SessionServiceDeleteSessionProcedure, opts...),
		balances: connect.NewClient[api.GetSessionBalancesRequest, api.GetSessionBalancesResponse](httpClient, baseURL+SessionServiceGetSessionBalancesProcedure, opts...),
		userData: connect.NewClient[api.GetUserDataRequest, api.GetUserDataResponse](httpClient, baseURL+SessionServiceGetUserDataProcedure, opts...),
		importTx: connect.NewClient[api.ImportTransactionsRequest, api.ImportTransactionsResponse](httpClient, baseURL+SessionServiceImportTransactionsProcedure, opts...),
	}
}

type sessionServiceClient struct {
	create   *connect.Client[api.SessionRequest, api.SessionResponse]
	get      *connect.Client[api.SessionIDRequest, api.SessionResponse]
	list     *connect.Client[emptypb.Empty, api.ListSessionsResponse]
	update   *connect.Client[api.SessionRequest, api.SessionResponse]
	delete   *connect.Client[api.SessionIDRequest, emptypb.Empty]
	balances *connect.Client[api.GetSessionBalancesRequest, api.GetSessionBalancesResponse]
	userData *connect.Client[api.GetUserDataRequest, api.GetUserDataResponse]
	importTx *connect.Client[api.ImportTransactionsRequest, api.ImportTransactionsResponse]
}

func (c *sessionServiceClient) CreateSession(ctx context.Context, req *connect.Request[api.SessionRequest]) (*connect.Response[api.SessionResponse], error) {
	return c.create.CallUnary(ctx, req)
}

func (c *sessionServiceClient) GetSession(ctx context.Context, req *connect.Request[api.SessionIDRequest]) (*connect.Response[api.SessionResponse], error) {
	return c.get.CallUnary(ctx, req)
}

func (c *sessionServiceClient) ListSessions(ctx context.Context, req *connect.Request[emptypb.Empty]) (*connect.Response[api.ListSessionsResponse], error) {
	return c.list.CallUnary(ctx, req)
}

func (c *sessionServiceClient) UpdateSession(ctx context.Context, req *connect.Request[api.SessionRequest]) (*connect.Response[api.SessionResponse], error) {
	return c.update.CallUnary(ctx, req)
}

func (c *sessionServiceClient) DeleteSession(ctx context.Context, req *connect.Request[api.SessionIDRequest]) (*connect.Response[emptypb.Empty], error) {
	return c.delete.CallUnary(ctx, req)
}

func (c *sessionServiceClient) GetSessionBalances(ctx context.Context, req *connect.Request[api.GetSessionBalancesRequest]) (*connect.Response[api.GetSessionBalancesResponse], error) {
	return c.balances.CallUnary(ctx, req)
}

func (c *sessionServiceClient) GetUserData(ctx context.Context, req *connect.Request[api.GetUserDataRequest]) (*connect.Response[api.GetUserDataResponse], error) {
	return c.userData.CallUnary(ctx, req)
}

func (c *sessionServiceClient) ImportTransactions(ctx context.Context, req *connect.Request[api.ImportTransactionsRequest]) (*connect.Response[api.ImportTransactionsResponse], error) {
	return c.importTx.CallUnary(ctx, req)
}
