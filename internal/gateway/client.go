package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"

	"orderworks/internal/domain"
)

// Client is the HTTP client for the external card gateway. It implements the
// narrow charge/refund contract the payment strategies depend on; amounts
// cross it in minor currency units.
type Client struct {
	baseURL string
	secret  string
	httpc   *http.Client
	logger  *log.Logger
}

// New builds a gateway client authenticated with the configured secret key.
func New(baseURL, secret string, logger *log.Logger) *Client {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &Client{
		baseURL: baseURL,
		secret:  secret,
		httpc:   &http.Client{Timeout: 10 * time.Second},
		logger:  logger,
	}
}

type chargeRequest struct {
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
	Source   string `json:"source"`
}

type refundRequest struct {
	Charge string `json:"charge"`
	Amount *int64 `json:"amount,omitempty"`
}

type gatewayResponse struct {
	ID    string `json:"id"`
	Error struct {
		Message string `json:"message"`
	} `json:"error"`
}

// Charge creates a charge and returns its id.
func (c *Client) Charge(ctx context.Context, amountMinor int64, currency, token string) (string, error) {
	resp, err := c.post(ctx, "/v1/charges", chargeRequest{
		Amount:   amountMinor,
		Currency: currency,
		Source:   token,
	})
	if err != nil {
		return "", err
	}
	c.logger.Printf("gateway: charged amount_minor=%d currency=%s id=%s", amountMinor, currency, resp.ID)
	return resp.ID, nil
}

// Refund refunds a charge, partially when amountMinor is set, fully when nil.
func (c *Client) Refund(ctx context.Context, chargeID string, amountMinor *int64) (string, error) {
	resp, err := c.post(ctx, "/v1/refunds", refundRequest{Charge: chargeID, Amount: amountMinor})
	if err != nil {
		return "", err
	}
	c.logger.Printf("gateway: refunded charge=%s id=%s", chargeID, resp.ID)
	return resp.ID, nil
}

func (c *Client) post(ctx context.Context, path string, payload interface{}) (*gatewayResponse, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.secret)

	httpResp, err := c.httpc.Do(req)
	if err != nil {
		return nil, &domain.GatewayError{Message: err.Error()}
	}
	defer httpResp.Body.Close()

	var resp gatewayResponse
	if err := json.NewDecoder(httpResp.Body).Decode(&resp); err != nil {
		return nil, &domain.GatewayError{Message: fmt.Sprintf("decode %s response: %v", path, err)}
	}
	if httpResp.StatusCode >= 400 || resp.Error.Message != "" {
		msg := resp.Error.Message
		if msg == "" {
			msg = fmt.Sprintf("%s returned status %d", path, httpResp.StatusCode)
		}
		return nil, &domain.GatewayError{Message: msg}
	}
	return &resp, nil
}
