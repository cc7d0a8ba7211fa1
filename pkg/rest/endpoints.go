package rest

import (
	"context"
	"net/http"
)

// Endpoint paths.
const (
	PathPlaceOrder      = "/v5/order/create"
	PathCancelOrder     = "/v5/order/cancel"
	PathCancelAllOrders = "/v5/order/cancel-all"
	PathInstrumentsInfo = "/v5/market/instruments-info"
)

func (c *Client) PlaceOrder(ctx context.Context, req *PlaceOrderRequest, recvWindow int64) (*Response[PlaceOrderResponse], error) {
	return ExecuteSigned[PlaceOrderResponse](ctx, c, PathPlaceOrder, http.MethodPost, recvWindow, Body(req))
}

func (c *Client) CancelOrder(ctx context.Context, req *CancelOrderRequest, recvWindow int64) (*Response[CancelOrderResponse], error) {
	return ExecuteSigned[CancelOrderResponse](ctx, c, PathCancelOrder, http.MethodPost, recvWindow, Body(req))
}

func (c *Client) CancelAllOrders(ctx context.Context, req *CancelAllOrderRequest, recvWindow int64) (*Response[CancelAllOrderResponse], error) {
	return ExecuteSigned[CancelAllOrderResponse](ctx, c, PathCancelAllOrders, http.MethodPost, recvWindow, Body(req))
}

func (c *Client) GetInstrumentsInfo(ctx context.Context, req *InstrumentsInfoRequest) (*Response[InstrumentsInfoResponse], error) {
	return Execute[InstrumentsInfoResponse](ctx, c, PathInstrumentsInfo, http.MethodGet, Query(req))
}
