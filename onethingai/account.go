package onethingai

import (
	"context"
	"net/http"
)

// WalletDetail fetches the account balance. Balances reflect instance
// reservations already deducted; every call is a fresh round trip since
// stale figures would be unsafe for billing decisions.
func (c *Client) WalletDetail(ctx context.Context) (*WalletDetail, error) {
	const op = "wallet detail"
	data, err := c.doRequest(ctx, op, http.MethodGet, "/api/v1/account/wallet/detail", nil, nil)
	if err != nil {
		return nil, err
	}

	var detail WalletDetail
	if err := decode(op, data, &detail); err != nil {
		return nil, err
	}
	return &detail, nil
}

// Orders fetches one page of consumption records in server order.
func (c *Client) Orders(ctx context.Context, query OrdersQuery) (*OrderList, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	const op = "list orders"
	data, err := c.doRequest(ctx, op, http.MethodGet, "/api/v2/account/wallet/consume/query", query.values(), nil)
	if err != nil {
		return nil, err
	}

	var list OrderList
	if err := decode(op, data, &list); err != nil {
		return nil, err
	}
	return &list, nil
}
