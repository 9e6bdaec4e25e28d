package export

// MapProductData normalizes a product page into the variant/attribute list
// used for content-based filtering. Each product contributes its master
// variant first (SKU defaulted to the empty string, attributes to an empty
// list) followed by every additional variant that has both a SKU and
// attributes defined. An empty product page yields an empty list.
func MapProductData(products ProductPage) ProductMapping {
	mapped := make([]CBFProduct, 0, len(products.Results))

	for _, product := range products.Results {
		current := product.MasterData.Current
		variants := make([]CBFVariant, 0, len(current.Variants)+1)
		variants = append(variants, normalizeMasterVariant(current.MasterVariant))

		for _, variant := range current.Variants {
			if variant.SKU == nil || variant.Attributes == nil {
				continue
			}
			variants = append(variants, CBFVariant{
				SKU:        *variant.SKU,
				Attributes: variant.Attributes,
			})
		}

		mapped = append(mapped, CBFProduct{Variants: variants})
	}

	return ProductMapping{Products: mapped}
}

// normalizeMasterVariant maps the master variant, substituting defaults for
// an absent SKU or attribute list.
func normalizeMasterVariant(variant Variant) CBFVariant {
	sku := ""
	if variant.SKU != nil {
		sku = *variant.SKU
	}
	attributes := variant.Attributes
	if attributes == nil {
		attributes = []Attribute{}
	}
	return CBFVariant{SKU: sku, Attributes: attributes}
}
