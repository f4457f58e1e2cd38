package stripe

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

const (
	defaultBaseURL = "https://api.stripe.com"

	// EventCheckoutSessionCompleted is the only event type this system acts on.
	EventCheckoutSessionCompleted = "checkout.session.completed"

	signatureHeaderSchema = "v1"
)

// Client talks to the Stripe API and verifies inbound webhook deliveries.
// Construct one per process and pass it into each handler.
type Client struct {
	APIKey        string
	WebhookSecret string
	BaseURL       string
	Tolerance     time.Duration
	HTTP          *http.Client
}

type LineItemParams struct {
	Name            string
	Description     string
	UnitAmountCents int64
	Quantity        int64
}

type SessionParams struct {
	LineItems     []LineItemParams
	Metadata      map[string]string
	SuccessURL    string
	CancelURL     string
	CustomerEmail string
}

type CustomerDetails struct {
	Email string `json:"email"`
}

// Session is the processor's record of a pending or completed transaction.
// Metadata equals what was submitted at creation.
type Session struct {
	ID              string            `json:"id"`
	URL             string            `json:"url"`
	PaymentStatus   string            `json:"payment_status"`
	AmountTotal     int64             `json:"amount_total"`
	CustomerDetails *CustomerDetails  `json:"customer_details"`
	Metadata        map[string]string `json:"metadata"`
}

type Event struct {
	ID      string    `json:"id"`
	Type    string    `json:"type"`
	Created int64     `json:"created"`
	Data    EventData `json:"data"`
}

type EventData struct {
	Object Session `json:"object"`
}

func (c *Client) CreateCheckoutSession(ctx context.Context, p SessionParams) (Session, error) {
	form := url.Values{}
	form.Set("mode", "payment")
	form.Set("payment_method_types[0]", "card")
	form.Set("success_url", p.SuccessURL)
	form.Set("cancel_url", p.CancelURL)
	if strings.TrimSpace(p.CustomerEmail) != "" {
		form.Set("customer_email", p.CustomerEmail)
	}
	for i, it := range p.LineItems {
		prefix := fmt.Sprintf("line_items[%d]", i)
		form.Set(prefix+"[price_data][currency]", "usd")
		form.Set(prefix+"[price_data][product_data][name]", it.Name)
		if it.Description != "" {
			form.Set(prefix+"[price_data][product_data][description]", it.Description)
		}
		form.Set(prefix+"[price_data][unit_amount]", strconv.FormatInt(it.UnitAmountCents, 10))
		form.Set(prefix+"[quantity]", strconv.FormatInt(it.Quantity, 10))
	}
	for k, v := range p.Metadata {
		form.Set("metadata["+k+"]", v)
	}

	base := c.BaseURL
	if base == "" {
		base = defaultBaseURL
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, base+"/v1/checkout/sessions", strings.NewReader(form.Encode()))
	if err != nil {
		return Session{}, err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Authorization", "Bearer "+c.APIKey)
	req.Header.Set("Idempotency-Key", uuid.NewString())

	hc := c.HTTP
	if hc == nil {
		hc = &http.Client{Timeout: 15 * time.Second}
	}
	resp, err := hc.Do(req)
	if err != nil {
		return Session{}, err
	}
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return Session{}, fmt.Errorf("stripe error: %s", strings.TrimSpace(string(body)))
	}
	var out Session
	if err := json.Unmarshal(body, &out); err != nil {
		return Session{}, err
	}
	if strings.TrimSpace(out.ID) == "" {
		return Session{}, fmt.Errorf("missing session id in response")
	}
	return out, nil
}

// ConstructEvent authenticates a webhook delivery and parses it. The HMAC is
// computed over the raw, unparsed payload; JSON decoding happens only after
// the signature checks out.
func (c *Client) ConstructEvent(payload []byte, sigHeader string) (Event, error) {
	if err := c.verifySignature(payload, sigHeader); err != nil {
		return Event{}, err
	}
	var ev Event
	if err := json.Unmarshal(payload, &ev); err != nil {
		return Event{}, fmt.Errorf("parse event: %w", err)
	}
	return ev, nil
}

func (c *Client) verifySignature(payload []byte, sigHeader string) error {
	if strings.TrimSpace(sigHeader) == "" {
		return fmt.Errorf("signature header required")
	}
	var timestamp string
	var candidates []string
	for _, part := range strings.Split(sigHeader, ",") {
		kv := strings.SplitN(strings.TrimSpace(part), "=", 2)
		if len(kv) != 2 {
			continue
		}
		switch kv[0] {
		case "t":
			timestamp = kv[1]
		case signatureHeaderSchema:
			candidates = append(candidates, kv[1])
		}
	}
	if timestamp == "" || len(candidates) == 0 {
		return fmt.Errorf("malformed signature header")
	}
	if c.Tolerance > 0 {
		ts, err := strconv.ParseInt(timestamp, 10, 64)
		if err != nil {
			return fmt.Errorf("malformed signature timestamp")
		}
		age := time.Since(time.Unix(ts, 0))
		if age > c.Tolerance || age < -c.Tolerance {
			return fmt.Errorf("signature timestamp outside tolerance")
		}
	}
	expected := ComputeSignature(c.WebhookSecret, timestamp, payload)
	for _, candidate := range candidates {
		if hmac.Equal([]byte(candidate), []byte(expected)) {
			return nil
		}
	}
	return fmt.Errorf("signature mismatch")
}

// ComputeSignature returns the hex HMAC-SHA256 of "timestamp.payload" under
// the shared webhook secret.
func ComputeSignature(secret, timestamp string, payload []byte) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(timestamp))
	mac.Write([]byte("."))
	mac.Write(payload)
	return hex.EncodeToString(mac.Sum(nil))
}
