package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// TemplateItem is a flattened order line stored inside a template.
type TemplateItem struct {
	Name      string          `json:"name"`
	UnitPrice decimal.Decimal `json:"unitPrice"`
	Quantity  int             `json:"quantity"`
}

// OrderTemplate is a reusable order skeleton. Instances handed out by the
// template registry are always independent deep copies.
type OrderTemplate struct {
	Customer        *Customer              `json:"customer,omitempty"`
	Items           []TemplateItem         `json:"items"`
	ShippingAddress string                 `json:"shippingAddress"`
	BillingAddress  string                 `json:"billingAddress"`
	Preferences     map[string]interface{} `json:"preferences,omitempty"`
	CreatedAt       time.Time              `json:"createdAt"`
}

// Clone returns a structurally independent copy. The copy is explicit and
// recursive so that mutating a clone's items or preferences can never be
// observed through the source or any other clone.
func (t *OrderTemplate) Clone() *OrderTemplate {
	dup := &OrderTemplate{
		ShippingAddress: t.ShippingAddress,
		BillingAddress:  t.BillingAddress,
		CreatedAt:       time.Now().UTC(),
	}
	if t.Customer != nil {
		c := *t.Customer
		dup.Customer = &c
	}
	if t.Items != nil {
		dup.Items = make([]TemplateItem, len(t.Items))
		copy(dup.Items, t.Items)
	}
	if t.Preferences != nil {
		dup.Preferences = make(map[string]interface{}, len(t.Preferences))
		for k, v := range t.Preferences {
			dup.Preferences[k] = copyValue(v)
		}
	}
	return dup
}

// copyValue recursively copies the container shapes that can appear in a
// preference map. Scalars (and decimals, which are value types) pass through.
func copyValue(v interface{}) interface{} {
	switch val := v.(type) {
	case map[string]interface{}:
		dup := make(map[string]interface{}, len(val))
		for k, inner := range val {
			dup[k] = copyValue(inner)
		}
		return dup
	case []interface{}:
		dup := make([]interface{}, len(val))
		for i, inner := range val {
			dup[i] = copyValue(inner)
		}
		return dup
	case []string:
		dup := make([]string, len(val))
		copy(dup, val)
		return dup
	case decimal.Decimal:
		return val
	default:
		return val
	}
}
