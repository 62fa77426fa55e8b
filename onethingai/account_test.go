package onethingai_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/onethingai/onethingai-go/internal/apitest"
	"github.com/onethingai/onethingai-go/onethingai"
)

func TestWalletDetail(t *testing.T) {
	fake, client := startFake(t)
	fake.SetWallet(apitest.Wallet{
		AvailableBalance:     42.5,
		AvailableVoucherCash: 10,
		ConsumeCashTotal:     199.99,
	})

	detail, err := client.WalletDetail(context.Background())
	require.NoError(t, err)
	require.Equal(t, 42.5, detail.AvailableBalance)
	require.Equal(t, 10.0, detail.AvailableVoucherCash)
	require.Equal(t, 199.99, detail.ConsumeCashTotal)
}

func TestOrders(t *testing.T) {
	fake, client := startFake(t)
	fake.AddOrder(apitest.Order{
		OrderID:      "ord-1",
		AppID:        "app-1",
		BillType:     int(onethingai.BillTypePayAsYouGo),
		BusinessType: int(onethingai.BusinessTypeInstanceUsage),
		ConsumeCash:  1.25,
		Runtime:      3600,
	})
	fake.AddOrder(apitest.Order{OrderID: "ord-2", AppID: "app-2"})

	list, err := client.Orders(context.Background(), onethingai.OrdersQuery{Page: 1, PageSize: 10})
	require.NoError(t, err)
	require.Len(t, list.OrderList, 2)
	require.Equal(t, "ord-1", list.OrderList[0].OrderID)
	require.Equal(t, onethingai.BusinessTypeInstanceUsage, list.OrderList[0].BusinessType)
	require.Equal(t, 1.25, list.OrderList[0].ConsumeCash)
	require.Equal(t, 2, list.Pagination.Total)
}

func TestOrdersValidation(t *testing.T) {
	_, client := startFake(t)

	for _, q := range []onethingai.OrdersQuery{
		{Page: 0, PageSize: 10},
		{Page: 1, PageSize: 0},
		{Page: 1, PageSize: 101},
	} {
		_, err := client.Orders(context.Background(), q)
		var validation *onethingai.ValidationError
		require.ErrorAs(t, err, &validation)
	}
}
