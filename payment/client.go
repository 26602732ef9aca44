package payment

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
)

// SessionRequest describes one hosted checkout session to open with the
// payment provider. Reference is the correlation token the provider echoes
// back in its settlement notification.
type SessionRequest struct {
	AmountMinor int64  // charge amount in the currency's minor unit
	Currency    string
	ProductName string
	SuccessURL  string
	CancelURL   string
	Reference   string
}

// Session is the provider's created checkout session.
type Session struct {
	ID  string
	URL string
	Raw []byte // provider response as received, kept for the purchase record
}

// SessionCreator opens hosted checkout sessions. The purchase service depends
// on this interface so tests can substitute a fake provider.
type SessionCreator interface {
	CreateSession(req SessionRequest) (*Session, error)
}

// Client talks to a Stripe-style checkout session API.
type Client struct {
	http *resty.Client
	url  string
}

// NewClient builds a provider client with a bounded request timeout. The
// session call is the only point of external latency in checkout; it must
// fail fast rather than hang.
func NewClient(apiURL, secretKey string) *Client {
	return &Client{
		http: resty.New().
			SetTimeout(10 * time.Second).
			SetAuthToken(secretKey),
		url: apiURL,
	}
}

func (c *Client) CreateSession(req SessionRequest) (*Session, error) {
	resp, err := c.http.R().
		SetFormData(map[string]string{
			"mode": "payment",
			"line_items[0][price_data][currency]":           req.Currency,
			"line_items[0][price_data][product_data][name]": req.ProductName,
			"line_items[0][price_data][unit_amount]":        fmt.Sprintf("%d", req.AmountMinor),
			"line_items[0][quantity]":                       "1",
			"success_url":          req.SuccessURL,
			"cancel_url":           req.CancelURL,
			"metadata[purchaseId]": req.Reference,
		}).
		Post(c.url)
	if err != nil {
		return nil, fmt.Errorf("payment session request failed: %w", err)
	}
	if resp.StatusCode() != 200 {
		return nil, fmt.Errorf("payment session request failed: status %d: %s", resp.StatusCode(), resp.String())
	}

	var body struct {
		ID  string `json:"id"`
		URL string `json:"url"`
	}
	if err := json.Unmarshal(resp.Body(), &body); err != nil {
		return nil, fmt.Errorf("invalid payment session response: %w", err)
	}
	if body.URL == "" {
		return nil, fmt.Errorf("payment session response has no url")
	}

	return &Session{ID: body.ID, URL: body.URL, Raw: resp.Body()}, nil
}
