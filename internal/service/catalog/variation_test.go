package catalog

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestVariation_OverridesRestrictedFields(t *testing.T) {
	f := NewFactory()
	source, err := f.Create("clothing", Attributes{
		"title":    "Classic Hoodie",
		"price":    "49.00",
		"size":     "M",
		"color":    "black",
		"material": "cotton",
	})
	if err != nil {
		t.Fatalf("create source: %v", err)
	}

	variant, err := Variation(source, map[string]interface{}{
		"title": "Classic Hoodie XL",
		"price": "54.00",
	})
	if err != nil {
		t.Fatalf("variation: %v", err)
	}

	if variant.Core().Title != "Classic Hoodie XL" {
		t.Fatalf("unexpected variant title %s", variant.Core().Title)
	}
	if !variant.Core().BasePrice.Equal(decimal.RequireFromString("54.00")) {
		t.Fatalf("unexpected variant price %s", variant.Core().BasePrice)
	}
	if source.Core().Title != "Classic Hoodie" {
		t.Fatalf("source title mutated to %s", source.Core().Title)
	}
	if !source.Core().BasePrice.Equal(decimal.RequireFromString("49.00")) {
		t.Fatalf("source price mutated to %s", source.Core().BasePrice)
	}
	if variant.Core().ID == source.Core().ID {
		t.Fatal("variant must get its own id")
	}
}

func TestVariation_UnknownOverrideIgnored(t *testing.T) {
	f := NewFactory()
	source, err := f.Create("book", Attributes{"title": "Guide", "price": 10, "author": "A"})
	if err != nil {
		t.Fatalf("create source: %v", err)
	}
	variant, err := Variation(source, map[string]interface{}{"weight": 3})
	if err != nil {
		t.Fatalf("variation: %v", err)
	}
	if variant.Core().Title != "Guide" {
		t.Fatalf("unexpected title %s", variant.Core().Title)
	}
}

func TestVariation_DiscountKeepsSourceClean(t *testing.T) {
	f := NewFactory()
	source, err := f.Create("book", Attributes{"title": "Guide", "price": "20.00", "author": "A"})
	if err != nil {
		t.Fatalf("create source: %v", err)
	}
	variant, err := Variation(source, map[string]interface{}{"discount_price": "15.00"})
	if err != nil {
		t.Fatalf("variation: %v", err)
	}
	if variant.Core().DiscountPrice == nil {
		t.Fatal("expected discount on variant")
	}
	if source.Core().DiscountPrice != nil {
		t.Fatal("source discount must stay unset")
	}
}
