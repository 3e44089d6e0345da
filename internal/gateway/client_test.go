package gateway

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"orderworks/internal/domain"
)

func TestClient_Charge(t *testing.T) {
	var gotAuth string
	var gotReq chargeRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/charges" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		gotAuth = r.Header.Get("Authorization")
		if err := json.NewDecoder(r.Body).Decode(&gotReq); err != nil {
			t.Errorf("decode request: %v", err)
		}
		_ = json.NewEncoder(w).Encode(map[string]string{"id": "ch_42"})
	}))
	defer srv.Close()

	c := New(srv.URL, "sk_test", nil)
	id, err := c.Charge(context.Background(), 3999, "USD", "tok_visa")
	if err != nil {
		t.Fatalf("charge: %v", err)
	}
	if id != "ch_42" {
		t.Fatalf("unexpected charge id %s", id)
	}
	if gotAuth != "Bearer sk_test" {
		t.Fatalf("unexpected auth header %q", gotAuth)
	}
	if gotReq.Amount != 3999 || gotReq.Currency != "USD" || gotReq.Source != "tok_visa" {
		t.Fatalf("unexpected request %+v", gotReq)
	}
}

func TestClient_ChargeDecline(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusPaymentRequired)
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"error": map[string]string{"message": "Your card was declined."},
		})
	}))
	defer srv.Close()

	c := New(srv.URL, "sk_test", nil)
	_, err := c.Charge(context.Background(), 1000, "USD", "tok_bad")
	var gerr *domain.GatewayError
	if !errors.As(err, &gerr) {
		t.Fatalf("expected GatewayError, got %v", err)
	}
	if gerr.Message != "Your card was declined." {
		t.Fatalf("expected decline message verbatim, got %q", gerr.Message)
	}
}

func TestClient_RefundPartial(t *testing.T) {
	var gotReq refundRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/refunds" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if err := json.NewDecoder(r.Body).Decode(&gotReq); err != nil {
			t.Errorf("decode request: %v", err)
		}
		_ = json.NewEncoder(w).Encode(map[string]string{"id": "re_7"})
	}))
	defer srv.Close()

	c := New(srv.URL, "sk_test", nil)
	amount := int64(550)
	id, err := c.Refund(context.Background(), "ch_42", &amount)
	if err != nil {
		t.Fatalf("refund: %v", err)
	}
	if id != "re_7" {
		t.Fatalf("unexpected refund id %s", id)
	}
	if gotReq.Charge != "ch_42" || gotReq.Amount == nil || *gotReq.Amount != 550 {
		t.Fatalf("unexpected request %+v", gotReq)
	}
}

func TestClient_RefundFullOmitsAmount(t *testing.T) {
	var raw map[string]interface{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := json.NewDecoder(r.Body).Decode(&raw); err != nil {
			t.Errorf("decode request: %v", err)
		}
		_ = json.NewEncoder(w).Encode(map[string]string{"id": "re_8"})
	}))
	defer srv.Close()

	c := New(srv.URL, "sk_test", nil)
	if _, err := c.Refund(context.Background(), "ch_42", nil); err != nil {
		t.Fatalf("refund: %v", err)
	}
	if _, present := raw["amount"]; present {
		t.Fatalf("full refund must omit amount, got %v", raw)
	}
}
