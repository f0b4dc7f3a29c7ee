package api

import (
	"context"
	"net/http"
	"strings"

	"connectrpc.com/connect"
)

// LedgerServiceName is the fully-qualified name of the LedgerService service.
const LedgerServiceName = "iou.v1.LedgerService"

// Procedure paths for LedgerService RPCs.
const (
	LedgerServiceGetBalanceProcedure      = "/iou.v1.LedgerService/GetBalance"
	LedgerServiceListObligationsProcedure = "/iou.v1.LedgerService/ListObligations"
	LedgerServiceListContactsProcedure    = "/iou.v1.LedgerService/ListContacts"
)

// LedgerServiceHandler is implemented by the server.
type LedgerServiceHandler interface {
	GetBalance(context.Context, *connect.Request[GetBalanceRequest]) (*connect.Response[GetBalanceResponse], error)
	ListObligations(context.Context, *connect.Request[ListObligationsRequest]) (*connect.Response[ListObligationsResponse], error)
	ListContacts(context.Context, *connect.Request[ListContactsRequest]) (*connect.Response[ListContactsResponse], error)
}

// NewLedgerServiceHandler builds an HTTP handler for svc and returns the path
// to mount it on.
func NewLedgerServiceHandler(svc LedgerServiceHandler, opts ...connect.HandlerOption) (string, http.Handler) {
	opts = append([]connect.HandlerOption{connect.WithCodec(JSONCodec{})}, opts...)

	getBalance := connect.NewUnaryHandler(LedgerServiceGetBalanceProcedure, svc.GetBalance, opts...)
	listObligations := connect.NewUnaryHandler(LedgerServiceListObligationsProcedure, svc.ListObligations, opts...)
	listContacts := connect.NewUnaryHandler(LedgerServiceListContactsProcedure, svc.ListContacts, opts...)

	return "/" + LedgerServiceName + "/", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case LedgerServiceGetBalanceProcedure:
			getBalance.ServeHTTP(w, r)
		case LedgerServiceListObligationsProcedure:
			listObligations.ServeHTTP(w, r)
		case LedgerServiceListContactsProcedure:
			listContacts.ServeHTTP(w, r)
		default:
			http.NotFound(w, r)
		}
	})
}

// LedgerServiceClient calls a LedgerService server.
type LedgerServiceClient struct {
	getBalance      *connect.Client[GetBalanceRequest, GetBalanceResponse]
	listObligations *connect.Client[ListObligationsRequest, ListObligationsResponse]
	listContacts    *connect.Client[ListContactsRequest, ListContactsResponse]
}

// NewLedgerServiceClient creates a client for the server at baseURL
// (e.g. "http://localhost:8080").
func NewLedgerServiceClient(httpClient connect.HTTPClient, baseURL string, opts ...connect.ClientOption) *LedgerServiceClient {
	baseURL = strings.TrimRight(baseURL, "/")
	opts = append([]connect.ClientOption{connect.WithCodec(JSONCodec{})}, opts...)

	return &LedgerServiceClient{
		getBalance: connect.NewClient[GetBalanceRequest, GetBalanceResponse](
			httpClient, baseURL+LedgerServiceGetBalanceProcedure, opts...),
		listObligations: connect.NewClient[ListObligationsRequest, ListObligationsResponse](
			httpClient, baseURL+LedgerServiceListObligationsProcedure, opts...),
		listContacts: connect.NewClient[ListContactsRequest, ListContactsResponse](
			httpClient, baseURL+LedgerServiceListContactsProcedure, opts...),
	}
}

// GetBalance calls iou.v1.LedgerService.GetBalance.
func (c *LedgerServiceClient) GetBalance(ctx context.Context, req *connect.Request[GetBalanceRequest]) (*connect.Response[GetBalanceResponse], error) {
	return c.getBalance.CallUnary(ctx, req)
}

// ListObligations calls iou.v1.LedgerService.ListObligations.
func (c *LedgerServiceClient) ListObligations(ctx context.Context, req *connect.Request[ListObligationsRequest]) (*connect.Response[ListObligationsResponse], error) {
	return c.listObligations.CallUnary(ctx, req)
}

// ListContacts calls iou.v1.LedgerService.ListContacts.
func (c *LedgerServiceClient) ListContacts(ctx context.Context, req *connect.Request[ListContactsRequest]) (*connect.Response[ListContactsResponse], error) {
	return c.listContacts.CallUnary(ctx, req)
}
