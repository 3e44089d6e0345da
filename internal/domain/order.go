package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// OrderLine snapshots a catalog item (or an external line-item equivalent)
// at order time so later catalog edits cannot change an order.
type OrderLine struct {
	ItemID    string          `json:"itemId,omitempty"`
	Title     string          `json:"title"`
	Slug      string          `json:"slug,omitempty"`
	UnitPrice decimal.Decimal `json:"unitPrice"`
	Quantity  int             `json:"quantity"`
	Ordered   bool            `json:"ordered"`
}

// LineTotal returns unit price times quantity.
func (l OrderLine) LineTotal() decimal.Decimal {
	return l.UnitPrice.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

// LineFromItem snapshots a catalog item into an order line.
func LineFromItem(item CatalogItem, quantity int) OrderLine {
	core := item.Core()
	return OrderLine{
		ItemID:    core.ID,
		Title:     core.Title,
		Slug:      core.Slug,
		UnitPrice: core.Price(),
		Quantity:  quantity,
	}
}

// Coupon reduces an order total by a fixed amount.
type Coupon struct {
	Code   string          `json:"code"`
	Amount decimal.Decimal `json:"amount"`
}

// PaymentRef points at an external payment record.
type PaymentRef struct {
	ID     string `json:"id"`
	Method string `json:"method,omitempty"`
}

// OrderDraft is an immutable, fully validated order value produced by the
// builder. The builder is the only mutable actor in its construction.
type OrderDraft struct {
	Customer        *Customer       `json:"customer,omitempty"`
	Lines           []OrderLine     `json:"lines"`
	ShippingAddress string          `json:"shippingAddress"`
	BillingAddress  string          `json:"billingAddress"`
	Payment         *PaymentRef     `json:"payment,omitempty"`
	Coupon          *Coupon         `json:"coupon,omitempty"`
	RefCode         string          `json:"refCode"`
	OrderedAt       time.Time       `json:"orderedAt"`
	BeingDelivered  bool            `json:"beingDelivered"`
	Received        bool            `json:"received"`
	RefundRequested bool            `json:"refundRequested"`
	RefundGranted   bool            `json:"refundGranted"`
	Total           decimal.Decimal `json:"total"`
}
