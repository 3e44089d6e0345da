package catalog

import (
	"fmt"

	"orderworks/internal/domain"
)

// Variation clones a catalog item and overrides a restricted set of named
// attributes on the copy, leaving everything else identical to the source.
// Unknown attribute names are ignored. The source item is never touched.
func Variation(item domain.CatalogItem, overrides map[string]interface{}) (domain.CatalogItem, error) {
	clone := item.Clone()
	core := clone.Core()
	attrs := Attributes(overrides)
	for key := range overrides {
		switch key {
		case "title":
			title := attrs.text("title")
			if title == "" {
				return nil, fmt.Errorf("override %q must be a non-empty string", key)
			}
			core.Title = title
		case "slug":
			core.Slug = attrs.text("slug")
		case "description":
			core.Description = attrs.text("description")
		case "price":
			price, err := attrs.amount("price")
			if err != nil {
				return nil, err
			}
			if price.IsNegative() {
				return nil, fmt.Errorf("override price %s must not be negative", price)
			}
			core.BasePrice = price
		case "discount_price":
			discount, err := attrs.amount("discount_price")
			if err != nil {
				return nil, err
			}
			if err := core.SetDiscountPrice(discount); err != nil {
				return nil, err
			}
		default:
			// Unknown override names are silently ignored.
		}
	}
	return clone, nil
}
