package export

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }

func lineItemWithSKU(sku string, quantity int64, centAmount int64) LineItem {
	return LineItem{
		ProductID: "product-1",
		Variant:   Variant{SKU: strPtr(sku)},
		Quantity:  quantity,
		Price:     Price{Value: Money{CentAmount: centAmount, CurrencyCode: "EUR"}},
	}
}

func lineItemWithoutSKU(quantity int64, centAmount int64) LineItem {
	return LineItem{
		ProductID: "product-2",
		Variant:   Variant{},
		Quantity:  quantity,
		Price:     Price{Value: Money{CentAmount: centAmount, CurrencyCode: "EUR"}},
	}
}

func TestMapOrderForMBA(t *testing.T) {
	t.Run("builds one basket per SKU-bearing order", func(t *testing.T) {
		orders := OrderPage{
			Total: 2,
			Results: []Order{
				{ID: "order-1", LineItems: []LineItem{
					lineItemWithSKU("SKU123", 1, 1000),
					lineItemWithSKU("SKU456", 2, 2000),
				}},
				{ID: "order-2", LineItems: []LineItem{
					lineItemWithSKU("SKU789", 1, 500),
				}},
			},
		}

		associations, err := MapOrderForMBA(orders)
		require.NoError(t, err)
		assert.Equal(t, MBAAssociations{
			{"SKU123", "SKU456"},
			{"SKU789"},
		}, associations)
	})

	t.Run("drops undefined SKUs within a basket", func(t *testing.T) {
		orders := OrderPage{
			Results: []Order{
				{ID: "order-1", LineItems: []LineItem{
					lineItemWithoutSKU(1, 100),
					lineItemWithSKU("SKU123", 1, 100),
				}},
			},
		}

		associations, err := MapOrderForMBA(orders)
		require.NoError(t, err)
		assert.Equal(t, MBAAssociations{{"SKU123"}}, associations)
	})

	t.Run("skips orders yielding no SKUs instead of emitting empty baskets", func(t *testing.T) {
		orders := OrderPage{
			Results: []Order{
				{ID: "order-1", LineItems: []LineItem{lineItemWithoutSKU(1, 100)}},
				{ID: "order-2", LineItems: []LineItem{lineItemWithSKU("SKU456", 1, 100)}},
				{ID: "order-3"},
			},
		}

		associations, err := MapOrderForMBA(orders)
		require.NoError(t, err)
		require.Len(t, associations, 1)
		assert.Equal(t, []string{"SKU456"}, associations[0])
	})

	t.Run("returns ErrNoOrdersFound for an empty page", func(t *testing.T) {
		_, err := MapOrderForMBA(OrderPage{Results: []Order{}})
		assert.ErrorIs(t, err, ErrNoOrdersFound)
	})

	t.Run("output length never exceeds input order count", func(t *testing.T) {
		orders := OrderPage{
			Results: []Order{
				{ID: "order-1", LineItems: []LineItem{lineItemWithSKU("A", 1, 1)}},
				{ID: "order-2"},
				{ID: "order-3", LineItems: []LineItem{lineItemWithoutSKU(1, 1)}},
			},
		}

		associations, err := MapOrderForMBA(orders)
		require.NoError(t, err)
		assert.LessOrEqual(t, len(associations), len(orders.Results))
	})
}

func TestMapOrderForCS(t *testing.T) {
	t.Run("keys records by order number", func(t *testing.T) {
		orders := OrderPage{
			Results: []Order{
				{
					ID:          "order-1",
					OrderNumber: "SO-1001",
					LineItems: []LineItem{
						lineItemWithSKU("SKU123", 2, 1000),
					},
				},
			},
		}

		mapping, err := MapOrderForCS(orders)
		require.NoError(t, err)
		require.Contains(t, mapping, "SO-1001")
		assert.Equal(t, []CSLineRecord{
			{Quantity: "2", UnitPrice: "10.00", TaxAmount: "0.0000"},
		}, mapping["SO-1001"])
	})

	t.Run("falls back to order id when the number is absent", func(t *testing.T) {
		orders := OrderPage{
			Results: []Order{
				{ID: "order-1", LineItems: []LineItem{lineItemWithSKU("SKU123", 1, 2000)}},
			},
		}

		mapping, err := MapOrderForCS(orders)
		require.NoError(t, err)
		require.Contains(t, mapping, "order-1")
		assert.Equal(t, "20.00", mapping["order-1"][0].UnitPrice)
	})

	t.Run("orders sharing a fallback key append to the same list", func(t *testing.T) {
		orders := OrderPage{
			Results: []Order{
				{ID: "dup", LineItems: []LineItem{lineItemWithSKU("A", 1, 100)}},
				{ID: "dup", LineItems: []LineItem{lineItemWithSKU("B", 3, 200)}},
			},
		}

		mapping, err := MapOrderForCS(orders)
		require.NoError(t, err)
		require.Len(t, mapping["dup"], 2)
		assert.Equal(t, "1", mapping["dup"][0].Quantity)
		assert.Equal(t, "3", mapping["dup"][1].Quantity)
	})

	t.Run("never drops SKU-less line items", func(t *testing.T) {
		orders := OrderPage{
			Results: []Order{
				{ID: "order-1", LineItems: []LineItem{
					lineItemWithoutSKU(5, 1234),
				}},
			},
		}

		mapping, err := MapOrderForCS(orders)
		require.NoError(t, err)
		assert.Equal(t, []CSLineRecord{
			{Quantity: "5", UnitPrice: "12.34", TaxAmount: "0.0000"},
		}, mapping["order-1"])
	})

	t.Run("formats tax to four decimal places", func(t *testing.T) {
		item := lineItemWithSKU("SKU123", 1, 1000)
		item.TaxedPrice = &TaxedPrice{TotalTax: &Money{CentAmount: 100, CurrencyCode: "EUR"}}
		orders := OrderPage{Results: []Order{{ID: "order-1", LineItems: []LineItem{item}}}}

		mapping, err := MapOrderForCS(orders)
		require.NoError(t, err)
		assert.Equal(t, "1.0000", mapping["order-1"][0].TaxAmount)
	})

	t.Run("returns ErrNoOrdersFound for an empty page", func(t *testing.T) {
		_, err := MapOrderForCS(OrderPage{})
		assert.ErrorIs(t, err, ErrNoOrdersFound)
	})
}

func TestMapOrderToCSV(t *testing.T) {
	completedAt := time.Date(2026, time.March, 15, 10, 30, 0, 0, time.UTC)
	createdAt := time.Date(2026, time.January, 2, 8, 0, 0, 0, time.UTC)

	t.Run("renders header plus one row per line item", func(t *testing.T) {
		item := lineItemWithSKU("SKU123", 2, 1000)
		item.TaxedPrice = &TaxedPrice{TotalTax: &Money{CentAmount: 150, CurrencyCode: "EUR"}}
		orders := OrderPage{
			Results: []Order{
				{
					ID:            "order-1",
					CustomerEmail: "buyer@example.com",
					CompletedAt:   &completedAt,
					CreatedAt:     createdAt,
					LineItems:     []LineItem{item, lineItemWithoutSKU(1, 500)},
				},
			},
		}

		rows := MapOrderToCSV(orders)
		require.Len(t, rows, 3)
		assert.Equal(t, []string{
			"SalesOrderNumber", "SalesOrderLineNumber", "OrderDate", "EmailAddress",
			"sku", "Quantity", "UnitPrice", "TaxAmount",
		}, rows[0])
		assert.Equal(t, []string{
			"order-1", "1", "15-03-2026", "buyer@example.com", "SKU123", "2", "10.00", "1.5000",
		}, rows[1])
		assert.Equal(t, []string{
			"order-1", "2", "15-03-2026", "buyer@example.com", "N/A", "1", "5.00", "0.0000",
		}, rows[2])
	})

	t.Run("falls back to creation date and N/A email", func(t *testing.T) {
		orders := OrderPage{
			Results: []Order{
				{
					ID:        "order-2",
					CreatedAt: createdAt,
					LineItems: []LineItem{lineItemWithSKU("SKU456", 1, 100)},
				},
			},
		}

		rows := MapOrderToCSV(orders)
		require.Len(t, rows, 2)
		assert.Equal(t, "02-01-2026", rows[1][2])
		assert.Equal(t, "N/A", rows[1][3])
	})

	t.Run("renders N/A when no order date is known", func(t *testing.T) {
		orders := OrderPage{
			Results: []Order{
				{
					ID:        "order-3",
					LineItems: []LineItem{lineItemWithSKU("SKU789", 1, 100)},
				},
			},
		}

		rows := MapOrderToCSV(orders)
		require.Len(t, rows, 2)
		assert.Equal(t, "N/A", rows[1][2])
	})

	t.Run("yields only the header for an empty page", func(t *testing.T) {
		rows := MapOrderToCSV(OrderPage{})
		require.Len(t, rows, 1)
		assert.Equal(t, csvHeader, rows[0])
	})
}

func TestOrderMappersArePure(t *testing.T) {
	orders := OrderPage{
		Results: []Order{
			{
				ID:            "order-1",
				OrderNumber:   "SO-1",
				CustomerEmail: "a@example.com",
				CreatedAt:     time.Date(2026, time.February, 1, 0, 0, 0, 0, time.UTC),
				LineItems:     []LineItem{lineItemWithSKU("SKU123", 1, 1000)},
			},
		},
	}

	first, err := MapOrderForMBA(orders)
	require.NoError(t, err)
	second, err := MapOrderForMBA(orders)
	require.NoError(t, err)
	assert.Equal(t, first, second)

	csFirst, err := MapOrderForCS(orders)
	require.NoError(t, err)
	csSecond, err := MapOrderForCS(orders)
	require.NoError(t, err)
	assert.Equal(t, csFirst, csSecond)

	assert.Equal(t, MapOrderToCSV(orders), MapOrderToCSV(orders))
}
