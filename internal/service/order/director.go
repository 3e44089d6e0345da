package order

import (
	"time"

	"orderworks/internal/domain"
)

// SimpleOrder runs the short construction recipe: one address used for both
// shipping and billing, generated ref code, ordered now.
func SimpleOrder(b *Builder, customer *domain.Customer, lines []domain.OrderLine, address string) (domain.OrderDraft, error) {
	return b.Reset().
		SetCustomer(customer).
		AddLines(lines).
		SetShippingAddress(address).
		UseSameBillingAddress().
		GenerateRefCode().
		SetOrderedDate(time.Time{}).
		Build()
}

// FullOrder runs the complete construction recipe with separate addresses, a
// payment reference and an optional coupon.
func FullOrder(b *Builder, customer *domain.Customer, lines []domain.OrderLine, shippingAddr, billingAddr string, payment *domain.PaymentRef, coupon *domain.Coupon) (domain.OrderDraft, error) {
	b.Reset().SetCustomer(customer).AddLines(lines)
	if coupon != nil {
		b.ApplyCoupon(*coupon)
	}
	return b.
		SetShippingAddress(shippingAddr).
		SetBillingAddress(billingAddr).
		SetPayment(payment).
		GenerateRefCode().
		SetOrderedDate(time.Time{}).
		Build()
}
