package payment

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"

	"orderworks/internal/domain"
)

type stubGateway struct {
	chargeID      string
	chargeErr     error
	refundID      string
	refundErr     error
	lastMinor     int64
	lastCurrency  string
	lastToken     string
	lastRefundArg *int64
}

func (g *stubGateway) Charge(_ context.Context, amountMinor int64, currency, token string) (string, error) {
	g.lastMinor = amountMinor
	g.lastCurrency = currency
	g.lastToken = token
	return g.chargeID, g.chargeErr
}

func (g *stubGateway) Refund(_ context.Context, _ string, amountMinor *int64) (string, error) {
	g.lastRefundArg = amountMinor
	return g.refundID, g.refundErr
}

func loadTestConfig(t *testing.T) *Config {
	t.Helper()
	ResetForTest()
	cfg, err := Load(&stubSettings{secret: "sk_test", currency: "USD"})
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	return cfg
}

func TestStripe_ChargeConvertsToMinorUnits(t *testing.T) {
	cfg := loadTestConfig(t)
	gw := &stubGateway{chargeID: "ch_123"}
	s := NewStripe(cfg, gw)

	res, err := s.Charge(context.Background(), decimal.RequireFromString("39.99"), "tok_visa")
	if err != nil {
		t.Fatalf("charge: %v", err)
	}
	if gw.lastMinor != 3999 || gw.lastCurrency != "USD" || gw.lastToken != "tok_visa" {
		t.Fatalf("unexpected gateway call: minor=%d currency=%s token=%s", gw.lastMinor, gw.lastCurrency, gw.lastToken)
	}
	if res.ChargeID != "ch_123" || res.Processor != "Stripe" {
		t.Fatalf("unexpected result %+v", res)
	}
}

func TestStripe_ChargeSurfacesDecline(t *testing.T) {
	cfg := loadTestConfig(t)
	gw := &stubGateway{chargeErr: &domain.GatewayError{Message: "card declined"}}
	s := NewStripe(cfg, gw)

	_, err := s.Charge(context.Background(), decimal.RequireFromString("10.00"), "tok_bad")
	var gerr *domain.GatewayError
	if !errors.As(err, &gerr) || gerr.Message != "card declined" {
		t.Fatalf("expected decline surfaced verbatim, got %v", err)
	}
}

func TestStripe_RefundFullOmitsAmount(t *testing.T) {
	cfg := loadTestConfig(t)
	gw := &stubGateway{refundID: "re_1"}
	s := NewStripe(cfg, gw)

	if _, err := s.Refund(context.Background(), "ch_123", nil); err != nil {
		t.Fatalf("refund: %v", err)
	}
	if gw.lastRefundArg != nil {
		t.Fatalf("full refund must omit the amount, got %v", *gw.lastRefundArg)
	}
}

func TestStripe_RefundPartialPassesMinorAmount(t *testing.T) {
	cfg := loadTestConfig(t)
	gw := &stubGateway{refundID: "re_2"}
	s := NewStripe(cfg, gw)

	partial := decimal.RequireFromString("5.50")
	if _, err := s.Refund(context.Background(), "ch_123", &partial); err != nil {
		t.Fatalf("refund: %v", err)
	}
	if gw.lastRefundArg == nil || *gw.lastRefundArg != 550 {
		t.Fatalf("expected partial refund of 550 minor units, got %v", gw.lastRefundArg)
	}
}

func TestPayPal_ChargeComputesFee(t *testing.T) {
	cfg := loadTestConfig(t)
	p := NewPayPal(cfg)

	res, err := p.Charge(context.Background(), decimal.RequireFromString("100.00"), "tok_pp")
	if err != nil {
		t.Fatalf("charge: %v", err)
	}
	wantFee := decimal.RequireFromString("3.70")
	if !res.Fee.Equal(wantFee) {
		t.Fatalf("expected fee %s, got %s", wantFee, res.Fee)
	}
	if res.ChargeID != "PP-100-tok_pp" {
		t.Fatalf("unexpected charge id %s", res.ChargeID)
	}
}

func TestPayPal_Refund(t *testing.T) {
	cfg := loadTestConfig(t)
	p := NewPayPal(cfg)

	res, err := p.Refund(context.Background(), "PP-10-tok", nil)
	if err != nil {
		t.Fatalf("refund: %v", err)
	}
	if res.RefundID != "REFUND-PP-10-tok" {
		t.Fatalf("unexpected refund id %s", res.RefundID)
	}
}
