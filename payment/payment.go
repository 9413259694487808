// Package payment talks to the external payment provider. The provider hosts
// the actual checkout page; we create a session carrying our order id as
// metadata and redirect the client to the returned URL. The provider calls
// back over the webhook once the session completes.
package payment

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// LineItem is one priced position of a session. UnitAmount is in cents.
type LineItem struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Image       string `json:"image,omitempty"`
	UnitAmount  int64  `json:"unit_amount"`
	Currency    string `json:"currency"`
	Quantity    int64  `json:"quantity"`
}

type SessionRequest struct {
	OrderID    string
	LineItems  []LineItem
	SuccessURL string
	CancelURL  string
}

// Session is the provider's handle for a created checkout session.
type Session struct {
	ID  string `json:"id"`
	URL string `json:"url"`
}

type Provider interface {
	CreateSession(ctx context.Context, req SessionRequest) (Session, error)
}

// Client is the HTTP implementation of Provider.
type Client struct {
	baseURL   string
	secretKey string
	client    *http.Client
}

func NewClient(baseURL, secretKey string, timeout time.Duration) *Client {
	return &Client{
		baseURL:   baseURL,
		secretKey: secretKey,
		client:    &http.Client{Timeout: timeout},
	}
}

func (c *Client) CreateSession(ctx context.Context, req SessionRequest) (Session, error) {
	body := map[string]any{
		"mode":                 "payment",
		"payment_method_types": []string{"card"},
		"line_items":           req.LineItems,
		"success_url":          req.SuccessURL,
		"cancel_url":           req.CancelURL,
		"metadata":             map[string]string{"orderId": req.OrderID},
	}
	data, err := json.Marshal(body)
	if err != nil {
		return Session{}, err
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1/checkout/sessions", bytes.NewReader(data))
	if err != nil {
		return Session{}, err
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+c.secretKey)

	resp, err := c.client.Do(httpReq)
	if err != nil {
		return Session{}, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return Session{}, fmt.Errorf("payment provider returned status %d: %s", resp.StatusCode, snippet)
	}

	var sess Session
	if err := json.NewDecoder(resp.Body).Decode(&sess); err != nil {
		return Session{}, fmt.Errorf("decode session response: %w", err)
	}
	if sess.URL == "" {
		return Session{}, fmt.Errorf("session response missing redirect url")
	}
	return sess, nil
}
