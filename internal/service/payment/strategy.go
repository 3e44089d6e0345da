package payment

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"
)

// ChargeResult reports a successful charge.
type ChargeResult struct {
	Processor string          `json:"processor"`
	ChargeID  string          `json:"chargeId"`
	Amount    decimal.Decimal `json:"amount"`
	Currency  string          `json:"currency"`
	Fee       decimal.Decimal `json:"fee,omitempty"`
}

// RefundResult reports a successful refund.
type RefundResult struct {
	RefundID string `json:"refundId"`
}

// Strategy charges and refunds through one payment processor. A nil amount
// on Refund means a full refund; a value means a partial one.
type Strategy interface {
	Name() string
	Charge(ctx context.Context, amount decimal.Decimal, token string) (*ChargeResult, error)
	Refund(ctx context.Context, chargeID string, amount *decimal.Decimal) (*RefundResult, error)
}

// GatewayClient is the external network client the card processor delegates
// to. Amounts cross this boundary in minor currency units.
type GatewayClient interface {
	Charge(ctx context.Context, amountMinor int64, currency, token string) (chargeID string, err error)
	Refund(ctx context.Context, chargeID string, amountMinor *int64) (refundID string, err error)
}

// Stripe delegates charges to the external gateway client. Card declines
// reported by the client surface verbatim.
type Stripe struct {
	cfg    *Config
	client GatewayClient
}

// NewStripe builds the card strategy around the shared payment configuration.
func NewStripe(cfg *Config, client GatewayClient) *Stripe {
	return &Stripe{cfg: cfg, client: client}
}

func (s *Stripe) Name() string { return "Stripe" }

func (s *Stripe) Charge(ctx context.Context, amount decimal.Decimal, token string) (*ChargeResult, error) {
	chargeID, err := s.client.Charge(ctx, toMinorUnits(amount), s.cfg.Currency(), token)
	if err != nil {
		return nil, err
	}
	return &ChargeResult{
		Processor: s.Name(),
		ChargeID:  chargeID,
		Amount:    amount,
		Currency:  s.cfg.Currency(),
	}, nil
}

func (s *Stripe) Refund(ctx context.Context, chargeID string, amount *decimal.Decimal) (*RefundResult, error) {
	var minor *int64
	if amount != nil {
		m := toMinorUnits(*amount)
		minor = &m
	}
	refundID, err := s.client.Refund(ctx, chargeID, minor)
	if err != nil {
		return nil, err
	}
	return &RefundResult{RefundID: refundID}, nil
}

// PayPal computes a percentage-plus-flat fee locally and issues synthetic
// transaction ids; it performs no network IO on the charge path.
type PayPal struct {
	cfg *Config
}

// NewPayPal builds the wallet strategy around the shared payment configuration.
func NewPayPal(cfg *Config) *PayPal {
	return &PayPal{cfg: cfg}
}

func (p *PayPal) Name() string { return "PayPal" }

func (p *PayPal) Charge(_ context.Context, amount decimal.Decimal, token string) (*ChargeResult, error) {
	fee := amount.Mul(decimal.RequireFromString("0.034")).
		Add(decimal.RequireFromString("0.30")).
		Round(2)
	return &ChargeResult{
		Processor: p.Name(),
		ChargeID:  fmt.Sprintf("PP-%s-%s", amount, token),
		Amount:    amount,
		Currency:  p.cfg.Currency(),
		Fee:       fee,
	}, nil
}

func (p *PayPal) Refund(_ context.Context, chargeID string, _ *decimal.Decimal) (*RefundResult, error) {
	return &RefundResult{RefundID: "REFUND-" + chargeID}, nil
}

// toMinorUnits converts a major-unit amount to minor units at the gateway
// boundary.
func toMinorUnits(amount decimal.Decimal) int64 {
	return amount.Mul(decimal.NewFromInt(100)).Round(0).IntPart()
}
