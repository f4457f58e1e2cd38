package sendgrid

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const defaultBaseURL = "https://api.sendgrid.com"

// Client sends mail through the SendGrid v3 API. Delivery is best effort;
// callers decide what a failure means.
type Client struct {
	APIKey  string
	BaseURL string
	HTTP    *http.Client
}

type Message struct {
	From    string
	To      string
	Subject string
	HTML    string
	Text    string
}

type address struct {
	Email string `json:"email"`
}

type personalization struct {
	To []address `json:"to"`
}

type content struct {
	Type  string `json:"type"`
	Value string `json:"value"`
}

type sendReq struct {
	Personalizations []personalization `json:"personalizations"`
	From             address           `json:"from"`
	Subject          string            `json:"subject"`
	Content          []content         `json:"content"`
}

func (c *Client) Send(ctx context.Context, m Message) error {
	if strings.TrimSpace(m.To) == "" {
		return fmt.Errorf("recipient required")
	}
	body := sendReq{
		Personalizations: []personalization{{To: []address{{Email: m.To}}}},
		From:             address{Email: m.From},
		Subject:          m.Subject,
	}
	if m.Text != "" {
		body.Content = append(body.Content, content{Type: "text/plain", Value: m.Text})
	}
	if m.HTML != "" {
		body.Content = append(body.Content, content{Type: "text/html", Value: m.HTML})
	}
	raw, err := json.Marshal(body)
	if err != nil {
		return err
	}

	base := c.BaseURL
	if base == "" {
		base = defaultBaseURL
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, base+"/v3/mail/send", bytes.NewReader(raw))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.APIKey)

	hc := c.HTTP
	if hc == nil {
		hc = &http.Client{Timeout: 10 * time.Second}
	}
	resp, err := hc.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		detail, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("sendgrid error: %d %s", resp.StatusCode, strings.TrimSpace(string(detail)))
	}
	return nil
}
