package notification

import (
	"context"
	"fmt"

	"orderworks/internal/domain"
)

// Transport delivers a rendered message. Implementations are external (SMTP
// or similar); failures come back as errors and are never propagated past
// this package.
type Transport interface {
	Send(ctx context.Context, subject, body, from, to string) error
}

// Result reports the outcome of one confirmation attempt. Failures are
// reported here rather than returned as errors: a lost confirmation must not
// undo a completed payment.
type Result struct {
	Success bool   `json:"success"`
	Channel string `json:"channel"`
	Error   string `json:"error,omitempty"`
}

// Strategy sends an order confirmation to a recipient.
type Strategy interface {
	SendConfirmation(ctx context.Context, draft domain.OrderDraft, recipient string) Result
}

// Email renders a confirmation from the draft's reference code and total and
// hands it to the transport.
type Email struct {
	transport Transport
	from      string
}

// NewEmail builds the email channel.
func NewEmail(transport Transport, from string) *Email {
	return &Email{transport: transport, from: from}
}

func (e *Email) SendConfirmation(ctx context.Context, draft domain.OrderDraft, recipient string) Result {
	subject := fmt.Sprintf("Order Confirmation - %s", draft.RefCode)
	body := fmt.Sprintf(
		"Thank you for your order.\n\nOrder Reference: %s\nTotal: $%s\n",
		draft.RefCode, draft.Total,
	)
	if err := e.transport.Send(ctx, subject, body, e.from, recipient); err != nil {
		return Result{Success: false, Channel: "email", Error: err.Error()}
	}
	return Result{Success: true, Channel: "email"}
}
