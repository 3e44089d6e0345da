package processing

import (
	"context"
	"io"
	"log"

	"github.com/shopspring/decimal"

	"orderworks/internal/domain"
	"orderworks/internal/service/notification"
	"orderworks/internal/service/payment"
)

// ShippingQuote is the costed shipping selection attached to a processed
// order.
type ShippingQuote struct {
	Cost         decimal.Decimal `json:"cost"`
	DeliveryTime string          `json:"deliveryTime"`
	Method       string          `json:"method"`
}

// Result is the structured outcome of processing one order. On payment
// failure only Error is set; shipping and notification are never attempted.
// A notification failure is recorded in Notification but does not make the
// overall result a failure.
type Result struct {
	Success      bool                  `json:"success"`
	Error        string                `json:"error,omitempty"`
	Payment      *payment.ChargeResult `json:"payment,omitempty"`
	Shipping     *ShippingQuote        `json:"shipping,omitempty"`
	Notification *notification.Result  `json:"notification,omitempty"`
}

// Processor orchestrates one order's payment, shipping costing and
// confirmation through a single service family.
type Processor struct {
	family ServiceFamily
	logger *log.Logger
}

// NewProcessor builds a processor bound to one family.
func NewProcessor(family ServiceFamily, logger *log.Logger) *Processor {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &Processor{family: family, logger: logger}
}

// Process charges the draft total, quotes shipping and sends the
// confirmation. Payment failure short-circuits; the later steps are not
// attempted and the payment error is carried in the result.
func (p *Processor) Process(ctx context.Context, draft domain.OrderDraft, paymentToken, recipient string) Result {
	charge, err := p.family.Payment.Charge(ctx, draft.Total, paymentToken)
	if err != nil {
		p.logger.Printf("order processor: payment failed ref=%s processor=%s error=%v", draft.RefCode, p.family.Payment.Name(), err)
		return Result{Success: false, Error: err.Error()}
	}
	p.logger.Printf("order processor: charged ref=%s processor=%s charge_id=%s", draft.RefCode, charge.Processor, charge.ChargeID)

	quote := &ShippingQuote{
		Cost:         p.family.Shipping.Cost(nil, nil),
		DeliveryTime: p.family.Shipping.DeliveryTime(),
		Method:       p.family.Shipping.MethodName(),
	}

	notif := p.family.Notification.SendConfirmation(ctx, draft, recipient)
	if !notif.Success {
		p.logger.Printf("order processor: confirmation failed ref=%s error=%s", draft.RefCode, notif.Error)
	}

	return Result{
		Success:      true,
		Payment:      charge,
		Shipping:     quote,
		Notification: &notif,
	}
}
