package export

// MapCBFTrainingData builds the content-based-filtering training bundle by
// combining the normalized product variants with the per-customer purchase
// history. Pure composition of MapProductData and MapCustomer; it adds no
// logic of its own and cannot fail.
func MapCBFTrainingData(products ProductPage, orders OrderPage) CBFTrainingData {
	productData := MapProductData(products)
	customerData := MapCustomer(orders)

	return CBFTrainingData{
		Products:  productData.Products,
		Customers: customerData.Customers,
	}
}
