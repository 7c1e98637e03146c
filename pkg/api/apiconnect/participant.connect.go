package apiconnect

import (
	"context"
	"net/http"
	"strings"

	"connectrpc.com/connect"
	"google.golang.org/protobuf/types/known/emptypb"

	"github.com/mmynk/expensegenie/pkg/api"
)

const ParticipantServiceName = "expensegenie.v1.ParticipantService"

const (
	ParticipantServiceListParticipantsProcedure  = "/expensegenie.v1.ParticipantService/ListParticipants"
	ParticipantServiceAddParticipantProcedure    = "/expensegenie.v1.ParticipantService/AddParticipant"
	ParticipantServiceRemoveParticipantProcedure = "/expensegenie.v1.ParticipantService/RemoveParticipant"
)

// ParticipantServiceHandler is implemented by the server side of ParticipantService.
type ParticipantServiceHandler interface {
	ListParticipants(context.Context, *connect.Request[emptypb.Empty]) (*connect.Response[api.ListParticipantsResponse], error)
	AddParticipant(context.Context, *connect.Request[api.ParticipantRequest]) (*connect.Response[api.ListParticipantsResponse], error)
	RemoveParticipant(context.Context, *connect.Request[api.ParticipantRequest]) (*connect.Response[api.ListParticipantsResponse], error)
}

// NewParticipantServiceHandler builds an HTTP handler for ParticipantService.
func NewParticipantServiceHandler(svc ParticipantServiceHandler, opts ...connect.HandlerOption) (string, http.Handler) {
	opts = handlerOptions(opts)
	mux := http.NewServeMux()
	mux.Handle(ParticipantServiceListParticipantsProcedure, connect.NewUnaryHandler(ParticipantServiceListParticipantsProcedure, svc.ListParticipants, opts...))
	mux.Handle(ParticipantServiceAddParticipantProcedure, connect.NewUnaryHandler(ParticipantServiceAddParticipantProcedure, svc.AddParticipant, opts...))
	mux.Handle(ParticipantServiceRemoveParticipantProcedure, connect.NewUnaryHandler(ParticipantServiceRemoveParticipantProcedure, svc.RemoveParticipant, opts...))
	return "/" + ParticipantServiceName + "/", mux
}

// ParticipantServiceClient is a client for ParticipantService.
type ParticipantServiceClient interface {
	ListParticipants(context.Context, *connect.Request[emptypb.Empty]) (*connect.Response[api.ListParticipantsResponse], error)
	AddParticipant(context.Context, *connect.Request[api.ParticipantRequest]) (*connect.Response[api.ListParticipantsResponse], error)
	RemoveParticipant(context.Context, *connect.Request[api.ParticipantRequest]) (*connect.Response[api.ListParticipantsResponse], error)
}

// NewParticipantServiceClient constructs a client for ParticipantService at baseURL.
func NewParticipantServiceClient(httpClient connect.HTTPClient, baseURL string, opts ...connect.ClientOption) ParticipantServiceClient {
	baseURL = strings.TrimRight(baseURL, "/")
	opts = clientOptions(opts)
	return &participantServiceClient{
		list:   connect.NewClient[emptypb.Empty, api.ListParticipantsResponse](httpClient, baseURL+ParticipantServiceListParticipantsProcedure, opts...),
		add:    connect.NewClient[api.ParticipantRequest, api.ListParticipantsResponse](httpClient, baseURL+ParticipantServiceAddParticipantProcedure, opts...),
		remove: connect.NewClient[api.ParticipantRequest, api.ListParticipantsResponse](httpClient, baseURL+ParticipantServiceRemoveParticipantProcedure, opts...),
	}
}

type participantServiceClient struct {
	list   *connect.Client[emptypb.Empty, api.ListParticipantsResponse]
	add    *connect.Client[api.ParticipantRequest, api.ListParticipantsResponse]
	remove *connect.Client[api.ParticipantRequest, api.ListParticipantsResponse]
}

func (c *participantServiceClient) ListParticipants(ctx context.Context, req *connect.Request[emptypb.Empty]) (*connect.Response[api.ListParticipantsResponse], error) {
	return c.list.CallUnary(ctx, req)
}

func (c *participantServiceClient) AddParticipant(ctx context.Context, req *connect.Request[api.ParticipantRequest]) (*connect.Response[api.ListParticipantsResponse], error) {
	return c.add.CallUnary(ctx, req)
}

func (c *participantServiceClient) RemoveParticipant(ctx context.Context, req *connect.Request[api.ParticipantRequest]) (*connect.Response[api.ListParticipantsResponse], error) {
	return c.remove.CallUnary(ctx, req)
}
