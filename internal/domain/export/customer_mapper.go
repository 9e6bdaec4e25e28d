package export

// MapCustomer groups purchased SKUs by customer email. Orders without a
// customer email are skipped entirely; for the rest, the defined line-item
// SKUs are appended to that email's accumulator in order of order appearance
// then line-item appearance. Duplicate SKUs are retained. Never fails; an
// empty page yields an empty customer map.
func MapCustomer(orders OrderPage) CustomerData {
	customers := make(map[string]CustomerOrders)

	for _, order := range orders.Results {
		if order.CustomerEmail == "" {
			continue
		}

		skus := extractSKUsFromLineItems(order.LineItems)

		entry, ok := customers[order.CustomerEmail]
		if !ok {
			entry = CustomerOrders{Orders: []string{}}
		}
		entry.Orders = append(entry.Orders, skus...)
		customers[order.CustomerEmail] = entry
	}

	return CustomerData{Customers: customers}
}
