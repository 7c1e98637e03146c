package apiconnect

import (
	"context"
	"net/http"
	"strings"

	"connectrpc.com/connect"
	"google.golang.org/protobuf/types/known/emptypb"

	"github.com/mmynk/expensegenie/pkg/api"
)

const BriefServiceName = "expensegenie.v1.BriefService"

const (
	BriefServiceSubmitBriefProcedure = "/expensegenie.v1.BriefService/SubmitBrief"
	BriefServiceListBriefsProcedure  = "/expensegenie.v1.BriefService/ListBriefs"
	BriefServiceGetBriefProcedure    = "/expensegenie.v1.BriefService/GetBrief"
	BriefServiceDeleteBriefProcedure = "/expensegenie.v1.BriefService/DeleteBrief"
	BriefServiceClearBriefsProcedure = "/expensegenie.v1.BriefService/ClearBriefs"
)

// BriefServiceHandler is implemented by the server side of BriefService.
type BriefServiceHandler interface {
	SubmitBrief(context.Context, *connect.Request[api.SubmitBriefRequest]) (*connect.Response[api.SubmitBriefResponse], error)
	ListBriefs(context.Context, *connect.Request[emptypb.Empty]) (*connect.Response[api.ListBriefsResponse], error)
	GetBrief(context.Context, *connect.Request[api.BriefIDRequest]) (*connect.Response[api.BriefResponse], error)
	DeleteBrief(context.Context, *connect.Request[api.BriefIDRequest]) (*connect.Response[emptypb.Empty], error)
	ClearBriefs(context.Context, *connect.Request[emptypb.Empty]) (*connect.Response[api.ClearBriefsResponse], error)
}

// NewBriefServiceHandler builds an HTTP handler for BriefService.
func NewBriefServiceHandler(svc BriefServiceHandler, opts ...connect.HandlerOption) (string, http.Handler) {
	opts = handlerOptions(opts)
	mux := http.NewServeMux()
	mux.Handle(BriefServiceSubmitBriefProcedure, connect.NewUnaryHandler(BriefServiceSubmitBriefProcedure, svc.SubmitBrief, opts...))
	mux.Handle(BriefServiceListBriefsProcedure, connect.NewUnaryHandler(BriefServiceListBriefsProcedure, svc.ListBriefs, opts...))
	mux.Handle(BriefServiceGetBriefProcedure, connect.NewUnaryHandler(BriefServiceGetBriefProcedure, svc.GetBrief, opts...))
	mux.Handle(BriefServiceDeleteBriefProcedure, connect.NewUnaryHandler(BriefServiceDeleteBriefProcedure, svc.DeleteBrief, opts...))
	mux.Handle(BriefServiceClearBriefsProcedure, connect.NewUnaryHandler(BriefServiceClearBriefsProcedure, svc.ClearBriefs, opts...))
	return "/" + BriefServiceName + "/", mux
}

// BriefServiceClient is a client for BriefService.
type BriefServiceClient interface {
	SubmitBrief(context.Context, *connect.Request[api.SubmitBriefRequest]) (*connect.Response[api.SubmitBriefResponse], error)
	ListBriefs(context.Context, *connect.Request[emptypb.Empty]) (*connect.Response[api.ListBriefsResponse], error)
	GetBrief(context.Context, *connect.Request[api.BriefIDRequest]) (*connect.Response[api.BriefResponse], error)
	DeleteBrief(context.Context, *connect.Request[api.BriefIDRequest]) (*connect.Response[emptypb.Empty], error)
	ClearBriefs(context.Context, *connect.Request[emptypb.Empty]) (*connect.Response[api.ClearBriefsResponse], error)
}

// NewBriefServiceClient constructs a client for BriefService at baseURL.
func NewBriefServiceClient(httpClient connect.HTTPClient, baseURL string, opts ...connect.ClientOption) BriefServiceClient {
	baseURL = strings.TrimRight(baseURL, "/")
	opts = clientOptions(opts)
	return &briefServiceClient{
		submit: connect.NewClient[api.SubmitBriefRequest, api.SubmitBriefResponse](httpClient, baseURL+BriefServiceSubmitBriefProcedure, opts...),
		list:   connect.NewClient[emptypb.Empty, api.ListBriefsResponse](httpClient, baseURL+BriefServiceListBriefsProcedure, opts...),
		get:    connect.NewClient[api.BriefIDRequest, api.BriefResponse](httpClient, baseURL+BriefServiceGetBriefProcedure, opts...),
		delete: connect.NewClient[api.BriefIDRequest, emptypb.Empty](httpClient, baseURL+BriefServiceDeleteBriefProcedure, opts...),
		clear:  connect.NewClient[emptypb.Empty, api.ClearBriefsResponse](httpClient, baseURL+BriefServiceClearBriefsProcedure, opts...),
	}
}

type briefServiceClient struct {
	submit *connect.Client[api.SubmitBriefRequest, api.SubmitBriefResponse]
	list   *connect.Client[emptypb.Empty, api.ListBriefsResponse]
	get    *connect.Client[api.BriefIDRequest, api.BriefResponse]
	delete *connect.Client[api.BriefIDRequest, emptypb.Empty]
	clear  *connect.Client[emptypb.Empty, api.ClearBriefsResponse]
}

func (c *briefServiceClient) SubmitBrief(ctx context.Context, req *connect.Request[api.SubmitBriefRequest]) (*connect.Response[api.SubmitBriefResponse], error) {
	return c.submit.CallUnary(ctx, req)
}

func (c *briefServiceClient) ListBriefs(ctx context.Context, req *connect.Request[emptypb.Empty]) (*connect.Response[api.ListBriefsResponse], error) {
	return c.list.CallUnary(ctx, req)
}

func (c *briefServiceClient) GetBrief(ctx context.Context, req *connect.Request[api.BriefIDRequest]) (*connect.Response[api.BriefResponse], error) {
	return c.get.CallUnary(ctx, req)
}

func (c *briefServiceClient) DeleteBrief(ctx context.Context, req *connect.Request[api.BriefIDRequest]) (*connect.Response[emptypb.Empty], error) {
	return c.delete.CallUnary(ctx, req)
}

func (c *briefServiceClient) ClearBriefs(ctx context.Context, req *connect.Request[emptypb.Empty]) (*connect.Response[api.ClearBriefsResponse], error) {
	return c.clear.CallUnary(ctx, req)
}
