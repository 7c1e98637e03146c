// Package apiconnect wires the api messages to Connect handlers and clients.
package apiconnect

import (
	"context"
	"net/http"
	"strings"

	"connectrpc.com/connect"
	"google.golang.org/protobuf/types/known/emptypb"

	"github.com/mmynk/expensegenie/pkg/api"
)

const AuthServiceName = "expensegenie.v1.AuthService"

const (
	AuthServiceGoogleLoginURLProcedure     = "/expensegenie.v1.AuthService/GoogleLoginURL"
	AuthServiceExchangeGoogleCodeProcedure = "/expensegenie.v1.AuthService/ExchangeGoogleCode"
	AuthServiceRegisterProcedure           = "/expensegenie.v1.AuthService/Register"
	AuthServiceLoginProcedure              = "/expensegenie.v1.AuthService/Login"
	AuthServiceLogoutProcedure             = "/expensegenie.v1.AuthService/Logout"
	AuthServiceGetCurrentUserProcedure     = "/expensegenie.v1.AuthService/GetCurrentUser"
)

// AuthServiceHandler is implemented by the server side of AuthService.
type AuthServiceHandler interface {
	GoogleLoginURL(context.Context, *connect.Request[emptypb.Empty]) (*connect.Response[api.GoogleLoginURLResponse], error)
	ExchangeGoogleCode(context.Context, *connect.Request[api.ExchangeGoogleCodeRequest]) (*connect.Response[api.AuthResponse], error)
	Register(context.Context, *connect.Request[api.RegisterRequest]) (*connect.Response[api.AuthResponse], error)
	Login(context.Context, *connect.Request[api.LoginRequest]) (*connect.Response[api.AuthResponse], error)
	Logout(context.Context, *connect.Request[emptypb.Empty]) (*connect.Response[emptypb.Empty], error)
	GetCurrentUser(context.Context, *connect.Request[emptypb.Empty]) (*connect.Response[api.GetCurrentUserResponse], error)
}

// NewAuthServiceHandler builds an HTTP handler for AuthService. It returns
// the path prefix to mount it on.
func NewAuthServiceHandler(svc AuthServiceHandler, opts ...connect.HandlerOption) (string, http.Handler) {
	opts = handlerOptions(opts)
	mux := http.NewServeMux()
	mux.Handle(AuthServiceGoogleLoginURLProcedure, connect.NewUnaryHandler(AuthServiceGoogleLoginURLProcedure, svc.GoogleLoginURL, opts...))
	mux.Handle(AuthServiceExchangeGoogleCodeProcedure, connect.NewUnaryHandler(AuthServiceExchangeGoogleCodeProcedure, svc.ExchangeGoogleCode, opts...))
	mux.Handle(AuthServiceRegisterProcedure, connect.NewUnaryHandler(AuthServiceRegisterProcedure, svc.Register, opts...))
	mux.Handle(AuthServiceLoginProcedure, connect.NewUnaryHandler(AuthServiceLoginProcedure, svc.Login, opts...))
	mux.Handle(AuthServiceLogoutProcedure, connect.NewUnaryHandler(AuthServiceLogoutProcedure, svc.Logout, opts...))
	mux.Handle(AuthServiceGetCurrentUserProcedure, connect.NewUnaryHandler(AuthServiceGetCurrentUserProcedure, svc.GetCurrentUser, opts...))
	return "/" + AuthServiceName + "/", mux
}

// AuthServiceClient is a client for AuthService.
type AuthServiceClient interface {
	GoogleLoginURL(context.Context, *connect.Request[emptypb.Empty]) (*connect.Response[api.GoogleLoginURLResponse], error)
	ExchangeGoogleCode(context.Context, *connect.Request[api.ExchangeGoogleCodeRequest]) (*connect.Response[api.AuthResponse], error)
	Register(context.Context, *connect.Request[api.RegisterRequest]) (*connect.Response[api.AuthResponse], error)
	Login(context.Context, *connect.Request[api.LoginRequest]) (*connect.Response[api.AuthResponse], error)
	Logout(context.Context, *connect.Request[emptypb.Empty]) (*connect.Response[emptypb.Empty], error)
	GetCurrentUser(context.Context, *connect.Request[emptypb.Empty]) (*connect.Response[api.GetCurrentUserResponse], error)
}

// NewAuthServiceClient constructs a client for AuthService at baseURL.
func NewAuthServiceClient(httpClient connect.HTTPClient, baseURL string, opts ...connect.ClientOption) AuthServiceClient {
	baseURL = strings.TrimRight(baseURL, "/")
	opts = clientOptions(opts)
	return &authServiceClient{
		googleLoginURL:     connect.NewClient[emptypb.Empty, api.GoogleLoginURLResponse](httpClient, baseURL+AuthServiceGoogleLoginURLProcedure, opts...),
		exchangeGoogleCode: connect.NewClient[api.ExchangeGoogleCodeRequest, api.AuthResponse](httpClient, baseURL+AuthServiceExchangeGoogleCodeProcedure, opts...),
		register:           connect.NewClient[api.RegisterRequest, api.AuthResponse](httpClient, baseURL+AuthServiceRegisterProcedure, opts...),
		login:              connect.NewClient[api.LoginRequest, api.AuthResponse](httpClient, baseURL+AuthServiceLoginProcedure, opts...),
		logout:             connect.NewClient[emptypb.Empty, emptypb.Empty](httpClient, baseURL+AuthServiceLogoutProcedure, opts...),
		getCurrentUser:     connect.NewClient[emptypb.Empty, api.GetCurrentUserResponse](httpClient, baseURL+AuthServiceGetCurrentUserProcedure, opts...),
	}
}

type authServiceClient struct {
	googleLoginURL     *connect.Client[emptypb.Empty, api.GoogleLoginURLResponse]
	exchangeGoogleCode *connect.Client[api.ExchangeGoogleCodeRequest, api.AuthResponse]
	register           *connect.Client[api.RegisterRequest, api.AuthResponse]
	login              *connect.Client[api.LoginRequest, api.AuthResponse]
	logout             *connect.Client[emptypb.Empty, emptypb.Empty]
	getCurrentUser     *connect.Client[emptypb.Empty, api.GetCurrentUserResponse]
}

func (c *authServiceClient) GoogleLoginURL(ctx context.Context, req *connect.Request[emptypb.Empty]) (*connect.Response[api.GoogleLoginURLResponse], error) {
	return c.googleLoginURL.CallUnary(ctx, req)
}

func (c *authServiceClient) ExchangeGoogleCode(ctx context.Context, req *connect.Request[api.ExchangeGoogleCodeRequest]) (*connect.Response[api.AuthResponse], error) {
	return c.exchangeGoogleCode.CallUnary(ctx, req)
}

func (c *authServiceClient) Register(ctx context.Context, req *connect.Request[api.RegisterRequest]) (*connect.Response[api.AuthResponse], error) {
	return c.register.CallUnary(ctx, req)
}

func (c *authServiceClient) Login(ctx context.Context, req *connect.Request[api.LoginRequest]) (*connect.Response[api.AuthResponse], error) {
	return c.login.CallUnary(ctx, req)
}

func (c *authServiceClient) Logout(ctx context.Context, req *connect.Request[emptypb.Empty]) (*connect.Response[emptypb.Empty], error) {
	return c.logout.CallUnary(ctx, req)
}

func (c *authServiceClient) GetCurrentUser(ctx context.Context, req *connect.Request[emptypb.Empty]) (*connect.Response[api.GetCurrentUserResponse], error) {
	return c.getCurrentUser.CallUnary(ctx, req)
}

// handlerOptions puts Codec first so callers can still override it.
func handlerOptions(opts []connect.HandlerOption) []connect.HandlerOption {
	return append([]connect.HandlerOption{connect.WithCodec(Codec)}, opts...)
}

func clientOptions(opts []connect.ClientOption) []connect.ClientOption {
	return append([]connect.ClientOption{connect.WithCodec(Codec)}, opts...)
}
