package order

import (
	"crypto/rand"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"orderworks/internal/domain"
)

const (
	refCodeLength   = 20
	refCodeAlphabet = "abcdefghijklmnopqrstuvwxyz0123456789"
)

// Builder accumulates order fields across chained setter calls and produces
// an immutable draft on Build. A builder serves one construction episode and
// one caller; reuse starts with Reset. Call-order violations and bad inputs
// stick to the builder and surface from Err and Build.
type Builder struct {
	customer        *domain.Customer
	lines           []domain.OrderLine
	shippingAddress string
	billingAddress  string
	payment         *domain.PaymentRef
	coupon          *domain.Coupon
	refCode         string
	orderedAt       time.Time
	beingDelivered  bool
	received        bool
	refundRequested bool
	refundGranted   bool
	err             error
}

// NewBuilder returns an empty builder ready for one construction episode.
func NewBuilder() *Builder {
	b := &Builder{}
	return b.Reset()
}

// Reset clears all accumulated state, starting a new construction episode.
func (b *Builder) Reset() *Builder {
	*b = Builder{}
	return b
}

// Err reports the first call-order or input violation recorded so far.
func (b *Builder) Err() error { return b.err }

// SetCustomer sets the ordering customer.
func (b *Builder) SetCustomer(c *domain.Customer) *Builder {
	b.customer = c
	return b
}

// AddItem snapshots a catalog item into an order line.
func (b *Builder) AddItem(item domain.CatalogItem, quantity int) *Builder {
	if quantity < 1 {
		b.fail(fmt.Errorf("quantity %d must be at least 1", quantity))
		return b
	}
	b.lines = append(b.lines, domain.LineFromItem(item, quantity))
	return b
}

// AddLine appends an already-snapshotted order line.
func (b *Builder) AddLine(line domain.OrderLine) *Builder {
	if line.Quantity < 1 {
		b.fail(fmt.Errorf("quantity %d must be at least 1", line.Quantity))
		return b
	}
	b.lines = append(b.lines, line)
	return b
}

// AddLines appends a batch of order lines.
func (b *Builder) AddLines(lines []domain.OrderLine) *Builder {
	for _, line := range lines {
		b.AddLine(line)
	}
	return b
}

// SetShippingAddress sets the shipping address.
func (b *Builder) SetShippingAddress(addr string) *Builder {
	b.shippingAddress = addr
	return b
}

// SetBillingAddress sets the billing address.
func (b *Builder) SetBillingAddress(addr string) *Builder {
	b.billingAddress = addr
	return b
}

// UseSameBillingAddress copies the shipping address into the billing
// address. The shipping address must already be set.
func (b *Builder) UseSameBillingAddress() *Builder {
	if b.shippingAddress == "" {
		b.fail(fmt.Errorf("%w: shipping address must be set before it can be reused for billing", domain.ErrSequence))
		return b
	}
	b.billingAddress = b.shippingAddress
	return b
}

// SetPayment attaches an external payment reference.
func (b *Builder) SetPayment(p *domain.PaymentRef) *Builder {
	b.payment = p
	return b
}

// ApplyCoupon attaches a coupon to be subtracted from the total.
func (b *Builder) ApplyCoupon(c domain.Coupon) *Builder {
	b.coupon = &c
	return b
}

// SetRefCode sets an externally supplied reference code.
func (b *Builder) SetRefCode(code string) *Builder {
	b.refCode = code
	return b
}

// GenerateRefCode assigns a random 20-character lowercase alphanumeric
// reference code. Collision handling belongs to the persistence layer.
func (b *Builder) GenerateRefCode() *Builder {
	code, err := randomRefCode()
	if err != nil {
		b.fail(err)
		return b
	}
	b.refCode = code
	return b
}

// SetOrderedDate records the order timestamp. A zero time means now.
func (b *Builder) SetOrderedDate(t time.Time) *Builder {
	if t.IsZero() {
		t = time.Now().UTC()
	}
	b.orderedAt = t
	return b
}

// MarkBeingDelivered flags the draft as out for delivery.
func (b *Builder) MarkBeingDelivered() *Builder {
	b.beingDelivered = true
	return b
}

// MarkReceived flags the draft as received.
func (b *Builder) MarkReceived() *Builder {
	b.received = true
	return b
}

// Validate returns every missing-required-field violation, in a fixed order,
// without mutating the builder.
func (b *Builder) Validate() []string {
	var violations []string
	if b.customer == nil {
		violations = append(violations, "customer is required")
	}
	if len(b.lines) == 0 {
		violations = append(violations, "order must have at least one item")
	}
	if b.shippingAddress == "" {
		violations = append(violations, "shipping address is required")
	}
	if b.billingAddress == "" {
		violations = append(violations, "billing address is required")
	}
	if b.refCode == "" {
		violations = append(violations, "reference code is required")
	}
	return violations
}

// Total computes the current total over accumulated lines and coupon. It is
// usable before Build for previews. A coupon larger than the item sum clamps
// the total at zero.
func (b *Builder) Total() decimal.Decimal {
	total := decimal.Zero
	for _, line := range b.lines {
		total = total.Add(line.LineTotal())
	}
	if b.coupon != nil {
		total = total.Sub(b.coupon.Amount)
	}
	if total.IsNegative() {
		return decimal.Zero
	}
	return total
}

// Build validates the accumulated state and returns an immutable draft. Any
// recorded call violation surfaces first; then all completeness violations
// are reported together.
func (b *Builder) Build() (domain.OrderDraft, error) {
	if b.err != nil {
		return domain.OrderDraft{}, b.err
	}
	if violations := b.Validate(); len(violations) > 0 {
		return domain.OrderDraft{}, &domain.ValidationError{Violations: violations}
	}
	if b.orderedAt.IsZero() {
		b.orderedAt = time.Now().UTC()
	}
	if b.refCode == "" {
		b.GenerateRefCode()
	}

	lines := make([]domain.OrderLine, len(b.lines))
	copy(lines, b.lines)

	var coupon *domain.Coupon
	if b.coupon != nil {
		c := *b.coupon
		coupon = &c
	}

	return domain.OrderDraft{
		Customer:        b.customer,
		Lines:           lines,
		ShippingAddress: b.shippingAddress,
		BillingAddress:  b.billingAddress,
		Payment:         b.payment,
		Coupon:          coupon,
		RefCode:         b.refCode,
		OrderedAt:       b.orderedAt,
		BeingDelivered:  b.beingDelivered,
		Received:        b.received,
		RefundRequested: b.refundRequested,
		RefundGranted:   b.refundGranted,
		Total:           b.Total(),
	}, nil
}

func (b *Builder) fail(err error) {
	if b.err == nil {
		b.err = err
	}
}

func randomRefCode() (string, error) {
	raw := make([]byte, refCodeLength)
	if _, err := rand.Read(raw); err != nil {
		return "", err
	}
	for i, v := range raw {
		raw[i] = refCodeAlphabet[int(v)%len(refCodeAlphabet)]
	}
	return string(raw), nil
}

// LineBuilder assembles a single order line from an item and a quantity.
type LineBuilder struct {
	item     domain.CatalogItem
	quantity int
	ordered  bool
}

// NewLineBuilder returns a line builder with quantity 1.
func NewLineBuilder() *LineBuilder {
	lb := &LineBuilder{}
	return lb.Reset()
}

// Reset restores the defaults.
func (lb *LineBuilder) Reset() *LineBuilder {
	lb.item = nil
	lb.quantity = 1
	lb.ordered = false
	return lb
}

// SetItem selects the catalog item for the line.
func (lb *LineBuilder) SetItem(item domain.CatalogItem) *LineBuilder {
	lb.item = item
	return lb
}

// SetQuantity sets the line quantity.
func (lb *LineBuilder) SetQuantity(q int) *LineBuilder {
	lb.quantity = q
	return lb
}

// MarkAsOrdered flags the line as already placed.
func (lb *LineBuilder) MarkAsOrdered() *LineBuilder {
	lb.ordered = true
	return lb
}

// Build snapshots the line.
func (lb *LineBuilder) Build() (domain.OrderLine, error) {
	if lb.item == nil {
		return domain.OrderLine{}, fmt.Errorf("item is required")
	}
	if lb.quantity < 1 {
		return domain.OrderLine{}, fmt.Errorf("quantity %d must be at least 1", lb.quantity)
	}
	line := domain.LineFromItem(lb.item, lb.quantity)
	line.Ordered = lb.ordered
	return line, nil
}
