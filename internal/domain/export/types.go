// Package export contains the pure mapping core of the data exporter:
// the commerce-platform source model and the functions that reshape order
// and product pages into ML training-data formats.
package export

import "time"

// OrderPage is one page of orders as returned by the commerce platform API.
type OrderPage struct {
	Limit   int     `json:"limit"`
	Offset  int     `json:"offset"`
	Count   int     `json:"count"`
	Total   int     `json:"total"`
	Results []Order `json:"results"`
}

// Order is a single sales order.
type Order struct {
	ID             string     `json:"id"`
	OrderNumber    string     `json:"orderNumber,omitempty"`
	CustomerEmail  string     `json:"customerEmail,omitempty"`
	LineItems      []LineItem `json:"lineItems"`
	CompletedAt    *time.Time `json:"completedAt,omitempty"`
	CreatedAt      time.Time  `json:"createdAt"`
	LastModifiedAt time.Time  `json:"lastModifiedAt"`
}

// LineItem is a single order line.
type LineItem struct {
	ProductID  string      `json:"productId"`
	Variant    Variant     `json:"variant"`
	Quantity   int64       `json:"quantity"`
	Price      Price       `json:"price"`
	TaxedPrice *TaxedPrice `json:"taxedPrice,omitempty"`
}

// Price is the unit price of a line item.
type Price struct {
	Value Money `json:"value"`
}

// TaxedPrice carries the tax portion of a line item price.
type TaxedPrice struct {
	TotalTax *Money `json:"totalTax,omitempty"`
}

// Money is an integer amount in the smallest currency unit (e.g. cents).
type Money struct {
	CentAmount   int64  `json:"centAmount"`
	CurrencyCode string `json:"currencyCode"`
}

// Variant is a product variant. A nil SKU means the variant has no SKU
// assigned; nil Attributes means none are defined.
type Variant struct {
	SKU        *string     `json:"sku,omitempty"`
	Attributes []Attribute `json:"attributes,omitempty"`
}

// Attribute is a single name/value product attribute.
type Attribute struct {
	Name  string `json:"name"`
	Value any    `json:"value"`
}

// ProductPage is one page of products as returned by the commerce platform API.
type ProductPage struct {
	Limit   int       `json:"limit"`
	Offset  int       `json:"offset"`
	Count   int       `json:"count"`
	Total   int       `json:"total"`
	Results []Product `json:"results"`
}

// Product is a single product with its current master-data snapshot.
type Product struct {
	ID         string     `json:"id"`
	MasterData MasterData `json:"masterData"`
}

// MasterData holds the current published product data.
type MasterData struct {
	Current ProductData `json:"current"`
}

// ProductData is the variant-bearing portion of a product snapshot.
type ProductData struct {
	MasterVariant Variant   `json:"masterVariant"`
	Variants      []Variant `json:"variants"`
}

// MBAAssociations is the market-basket-analysis shape: one basket of
// co-purchased SKUs per order, in order of appearance.
type MBAAssociations [][]string

// CSLineRecord is one customer-segmentation line record. All three values
// are rendered as decimal strings.
type CSLineRecord struct {
	Quantity  string `json:"Quantity"`
	UnitPrice string `json:"UnitPrice"`
	TaxAmount string `json:"TaxAmount"`
}

// CSOrderMapping maps a sales order number (or order id when the number is
// absent) to its line records.
type CSOrderMapping map[string][]CSLineRecord

// CustomerOrders is the accumulated list of SKUs a customer has purchased.
type CustomerOrders struct {
	Orders []string `json:"Orders"`
}

// CustomerData groups purchased SKUs by customer email.
type CustomerData struct {
	Customers map[string]CustomerOrders `json:"customers"`
}

// CBFVariant is a normalized product variant for content-based filtering.
type CBFVariant struct {
	SKU        string      `json:"sku"`
	Attributes []Attribute `json:"attributes"`
}

// CBFProduct is one product entry in the CBF training bundle.
type CBFProduct struct {
	Variants []CBFVariant `json:"variants"`
}

// ProductMapping is the normalized variant/attribute list for a product page.
type ProductMapping struct {
	Products []CBFProduct `json:"products"`
}

// CBFTrainingData is the combined content-based-filtering training bundle:
// product attributes plus customer purchase history.
type CBFTrainingData struct {
	Products  []CBFProduct              `json:"products"`
	Customers map[string]CustomerOrders `json:"customers"`
}
