package export

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMapCBFTrainingData(t *testing.T) {
	products := ProductPage{
		Results: []Product{
			{
				ID: "product-1",
				MasterData: MasterData{Current: ProductData{
					MasterVariant: Variant{
						SKU:        strPtr("MASTER-SKU-1"),
						Attributes: []Attribute{{Name: "material", Value: "cotton"}},
					},
				}},
			},
		},
	}
	orders := OrderPage{
		Results: []Order{
			{
				ID:            "order-1",
				CustomerEmail: "customer1@example.com",
				LineItems:     []LineItem{lineItemWithSKU("MASTER-SKU-1", 1, 100)},
			},
		},
	}

	t.Run("combines product and customer mappings", func(t *testing.T) {
		bundle := MapCBFTrainingData(products, orders)

		require.Len(t, bundle.Products, 1)
		assert.Equal(t, "MASTER-SKU-1", bundle.Products[0].Variants[0].SKU)
		assert.Equal(t, []string{"MASTER-SKU-1"}, bundle.Customers["customer1@example.com"].Orders)
	})

	t.Run("tolerates empty inputs without failing", func(t *testing.T) {
		bundle := MapCBFTrainingData(ProductPage{}, OrderPage{})
		assert.Empty(t, bundle.Products)
		assert.Empty(t, bundle.Customers)
	})

	t.Run("is deterministic for identical input", func(t *testing.T) {
		assert.Equal(t, MapCBFTrainingData(products, orders), MapCBFTrainingData(products, orders))
	})
}
