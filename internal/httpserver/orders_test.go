package httpserver

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/shopspring/decimal"

	"orderworks/internal/domain"
	catalogrepo "orderworks/internal/repository/catalogitem"
)

func seedItem(t *testing.T, items *memoryItems, slug, price string) {
	t.Helper()
	base, err := decimal.NewFromString(price)
	if err != nil {
		t.Fatalf("bad price %q: %v", price, err)
	}
	if _, err := items.Upsert(context.Background(), catalogrepo.Record{
		ID:        "item-" + slug,
		Category:  "book",
		Title:     slug,
		Slug:      slug,
		BasePrice: base,
	}); err != nil {
		t.Fatalf("seed item: %v", err)
	}
}

func authedRequest(method, target, body string) *http.Request {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Authorization", "Bearer test-token")
	return req
}

func TestCreateOrderHandler_Success(t *testing.T) {
	router, fx := buildTestRouter(t, nil)
	seedItem(t, fx.items, "go-in-action", "29.99")
	seedItem(t, fx.items, "clean-architecture", "34.50")

	body := `{
		"tier": "standard",
		"items": [{"slug":"go-in-action","quantity":2},{"slug":"clean-architecture"}],
		"shippingAddress": "1 Main St",
		"paymentToken": "tok_visa"
	}`
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, authedRequest(http.MethodPost, "/orders", body))

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d body=%s", rec.Code, rec.Body.String())
	}
	var resp orderResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Total != "94.48" {
		t.Fatalf("unexpected total %q", resp.Total)
	}
	if len(resp.RefCode) != 20 {
		t.Fatalf("unexpected ref code %q", resp.RefCode)
	}
	if !resp.Processing.Success {
		t.Fatalf("processing should succeed: %+v", resp.Processing)
	}
	if resp.Processing.Payment == nil || resp.Processing.Payment.Processor != "Stripe" {
		t.Fatalf("expected Stripe charge, got %+v", resp.Processing.Payment)
	}
	if fx.gateway.charges != 1 {
		t.Fatalf("expected one gateway charge, got %d", fx.gateway.charges)
	}
	if fx.transport.sent != 1 {
		t.Fatalf("expected one confirmation mail, got %d", fx.transport.sent)
	}

	stored, err := fx.orders.GetByRefCode(context.Background(), resp.RefCode)
	if err != nil {
		t.Fatalf("order not persisted: %v", err)
	}
	if stored.Payment == nil || stored.Payment.ID == "" {
		t.Fatalf("payment ref not recorded: %+v", stored.Payment)
	}
	if stored.BillingAddress != "1 Main St" {
		t.Fatalf("billing should mirror shipping, got %q", stored.BillingAddress)
	}
}

func TestCreateOrderHandler_PaymentDeclined(t *testing.T) {
	fx := &routerFixture{gateway: &stubGateway{chargeErr: &domain.GatewayError{Message: "card declined"}}}
	router, fx := buildTestRouter(t, fx)
	seedItem(t, fx.items, "go-in-action", "29.99")

	body := `{"items":[{"slug":"go-in-action"}],"shippingAddress":"1 Main St","paymentToken":"tok_bad"}`
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, authedRequest(http.MethodPost, "/orders", body))

	if rec.Code != http.StatusPaymentRequired {
		t.Fatalf("expected 402, got %d body=%s", rec.Code, rec.Body.String())
	}
	if !strings.Contains(rec.Body.String(), "card declined") {
		t.Fatalf("gateway message lost: %s", rec.Body.String())
	}
	if len(fx.orders.byRef) != 0 {
		t.Fatalf("declined order must not be persisted")
	}
	if fx.transport.sent != 0 {
		t.Fatalf("no confirmation on declined payment")
	}
}

func TestCreateOrderHandler_UnknownItem(t *testing.T) {
	router, _ := buildTestRouter(t, nil)

	body := `{"items":[{"slug":"ghost"}],"shippingAddress":"1 Main St","paymentToken":"tok"}`
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, authedRequest(http.MethodPost, "/orders", body))

	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d body=%s", rec.Code, rec.Body.String())
	}
}

func TestCreateOrderHandler_UnknownTier(t *testing.T) {
	router, fx := buildTestRouter(t, nil)
	seedItem(t, fx.items, "go-in-action", "29.99")

	body := `{"tier":"platinum","items":[{"slug":"go-in-action"}],"shippingAddress":"1 Main St","paymentToken":"tok"}`
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, authedRequest(http.MethodPost, "/orders", body))

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d body=%s", rec.Code, rec.Body.String())
	}
}

func TestCreateOrderHandler_PremiumTierUsesPayPalAndExpress(t *testing.T) {
	router, fx := buildTestRouter(t, nil)
	seedItem(t, fx.items, "go-in-action", "29.99")

	body := `{"tier":"premium","items":[{"slug":"go-in-action"}],"shippingAddress":"1 Main St","paymentToken":"tok_pp"}`
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, authedRequest(http.MethodPost, "/orders", body))

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d body=%s", rec.Code, rec.Body.String())
	}
	var resp orderResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Processing.Payment == nil || resp.Processing.Payment.Processor != "PayPal" {
		t.Fatalf("expected PayPal charge, got %+v", resp.Processing.Payment)
	}
	if resp.Processing.Payment.ChargeID != "PP-29.99-tok_pp" {
		t.Fatalf("unexpected charge id %q", resp.Processing.Payment.ChargeID)
	}
	if resp.Processing.Shipping == nil || resp.Processing.Shipping.Method != "Express Shipping" {
		t.Fatalf("expected express shipping, got %+v", resp.Processing.Shipping)
	}
	// PayPal charges directly, never through the HTTP gateway client.
	if fx.gateway.charges != 0 {
		t.Fatalf("premium tier must not touch the stripe gateway, got %d calls", fx.gateway.charges)
	}
}

func TestCreateOrderHandler_CouponReducesTotal(t *testing.T) {
	router, fx := buildTestRouter(t, nil)
	seedItem(t, fx.items, "go-in-action", "29.99")

	body := `{
		"items": [{"slug":"go-in-action","quantity":2}],
		"shippingAddress": "1 Main St",
		"coupon": {"code":"SAVE10","amount":"10.00"},
		"paymentToken": "tok_visa"
	}`
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, authedRequest(http.MethodPost, "/orders", body))

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d body=%s", rec.Code, rec.Body.String())
	}
	var resp orderResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Total != "49.98" {
		t.Fatalf("unexpected total %q", resp.Total)
	}
}

func TestGetOrderHandler_ScopedToCustomer(t *testing.T) {
	router, fx := buildTestRouter(t, nil)
	seedItem(t, fx.items, "go-in-action", "29.99")

	body := `{"items":[{"slug":"go-in-action"}],"shippingAddress":"1 Main St","paymentToken":"tok"}`
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, authedRequest(http.MethodPost, "/orders", body))
	if rec.Code != http.StatusCreated {
		t.Fatalf("seed order: %d body=%s", rec.Code, rec.Body.String())
	}
	var resp orderResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, authedRequest(http.MethodGet, "/orders/"+resp.RefCode, ""))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	// Another customer's order reads as not found.
	other := fx.orders.byRef[resp.RefCode]
	other.Customer = &domain.Customer{Email: "someone-else@example.com"}
	other.RefCode = "zzzzzzzzzzzzzzzzzzzz"
	fx.orders.byRef[other.RefCode] = other

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, authedRequest(http.MethodGet, "/orders/"+other.RefCode, ""))
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for foreign order, got %d", rec.Code)
	}
}

func TestListOrdersHandler_Empty(t *testing.T) {
	router, _ := buildTestRouter(t, nil)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, authedRequest(http.MethodGet, "/orders", ""))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `"count":0`) {
		t.Fatalf("unexpected body: %s", rec.Body.String())
	}
}
