package export

import (
	"strconv"

	"github.com/shopspring/decimal"
)

// csvHeader is the fixed first row of the customer-segmentation CSV export.
var csvHeader = []string{
	"SalesOrderNumber",
	"SalesOrderLineNumber",
	"OrderDate",
	"EmailAddress",
	"sku",
	"Quantity",
	"UnitPrice",
	"TaxAmount",
}

// csvDateLayout renders order dates as DD-MM-YYYY.
const csvDateLayout = "02-01-2006"

// notAvailable is the CSV placeholder for absent emails and SKUs.
const notAvailable = "N/A"

var centsPerUnit = decimal.NewFromInt(100)

// MapOrderForMBA turns an order page into market-basket associations: one
// basket of line-item SKUs per order, in input order. Orders whose line items
// carry no SKU at all are skipped rather than emitted as empty baskets.
// Returns ErrNoOrdersFound when the page has no results.
func MapOrderForMBA(orders OrderPage) (MBAAssociations, error) {
	if len(orders.Results) == 0 {
		return nil, ErrNoOrdersFound
	}

	associations := make(MBAAssociations, 0, len(orders.Results))
	for _, order := range orders.Results {
		skuList := extractSKUsFromLineItems(order.LineItems)
		if len(skuList) > 0 {
			associations = append(associations, skuList)
		}
	}

	return associations, nil
}

// MapOrderForCS turns an order page into customer-segmentation records keyed
// by sales order number, falling back to the order id when the number is
// absent. Every line item produces a record; SKU-less items are not dropped.
// Returns ErrNoOrdersFound when the page has no results.
func MapOrderForCS(orders OrderPage) (CSOrderMapping, error) {
	if len(orders.Results) == 0 {
		return nil, ErrNoOrdersFound
	}

	mapping := make(CSOrderMapping)
	for _, order := range orders.Results {
		key := order.OrderNumber
		if key == "" {
			key = order.ID
		}

		for _, item := range order.LineItems {
			mapping[key] = append(mapping[key], CSLineRecord{
				Quantity:  strconv.FormatInt(item.Quantity, 10),
				UnitPrice: formatMinorUnits(item.Price.Value.CentAmount, 2),
				TaxAmount: formatMinorUnits(totalTaxCentAmount(item), 4),
			})
		}
	}

	return mapping, nil
}

// MapOrderToCSV renders an order page as CSV rows, one row per line item,
// preceded by the fixed header. Unlike the sibling mappers it does not fail
// on an empty page and yields the header row alone.
func MapOrderToCSV(orders OrderPage) [][]string {
	rows := make([][]string, 0, len(orders.Results)+1)
	rows = append(rows, csvHeader)

	for _, order := range orders.Results {
		orderDate := notAvailable
		switch {
		case order.CompletedAt != nil:
			orderDate = order.CompletedAt.Format(csvDateLayout)
		case !order.CreatedAt.IsZero():
			orderDate = order.CreatedAt.Format(csvDateLayout)
		}

		email := order.CustomerEmail
		if email == "" {
			email = notAvailable
		}

		for i, item := range order.LineItems {
			sku := notAvailable
			if item.Variant.SKU != nil {
				sku = *item.Variant.SKU
			}

			rows = append(rows, []string{
				order.ID,
				strconv.Itoa(i + 1),
				orderDate,
				email,
				sku,
				strconv.FormatInt(item.Quantity, 10),
				formatMinorUnits(item.Price.Value.CentAmount, 2),
				formatMinorUnits(totalTaxCentAmount(item), 4),
			})
		}
	}

	return rows
}

// extractSKUsFromLineItems collects the defined variant SKUs of the given
// line items, preserving order. Items without a SKU are dropped.
func extractSKUsFromLineItems(lineItems []LineItem) []string {
	if len(lineItems) == 0 {
		return nil
	}

	skus := make([]string, 0, len(lineItems))
	for _, item := range lineItems {
		if item.Variant.SKU != nil {
			skus = append(skus, *item.Variant.SKU)
		}
	}
	if len(skus) == 0 {
		return nil
	}
	return skus
}

// totalTaxCentAmount returns the line item's total tax in minor units,
// defaulting to zero when no taxed price is present.
func totalTaxCentAmount(item LineItem) int64 {
	if item.TaxedPrice == nil || item.TaxedPrice.TotalTax == nil {
		return 0
	}
	return item.TaxedPrice.TotalTax.CentAmount
}

// formatMinorUnits converts a minor-unit amount to a major-unit decimal
// string with exactly the requested number of decimal places.
func formatMinorUnits(centAmount int64, places int32) string {
	return decimal.NewFromInt(centAmount).Div(centsPerUnit).StringFixed(places)
}
