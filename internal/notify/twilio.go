// Package notify delivers alert messages over SMS. Delivery is best-effort:
// callers log failures and move on, there are no retries.
package notify

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const defaultBaseURL = "https://api.twilio.com"

// Twilio sends SMS through the Twilio Messages API, addressed to one fixed
// destination from one fixed sender.
type Twilio struct {
	accountSID string
	authToken  string
	from       string
	to         string
	baseURL    string
	client     *http.Client
}

// Option adjusts a Twilio client, mainly for tests.
type Option func(*Twilio)

// WithBaseURL points the client at an alternate API host.
func WithBaseURL(u string) Option {
	return func(t *Twilio) { t.baseURL = strings.TrimRight(u, "/") }
}

// WithTimeout bounds each send. A hung provider must not pin an ingestion
// goroutine; delivery failure is already non-fatal.
func WithTimeout(d time.Duration) Option {
	return func(t *Twilio) { t.client.Timeout = d }
}

// NewTwilio creates an SMS client. Validation of the destination number
// happens here once rather than on every send.
func NewTwilio(accountSID, authToken, from, to string, opts ...Option) (*Twilio, error) {
	if accountSID == "" || authToken == "" || from == "" || to == "" {
		return nil, fmt.Errorf("twilio: accountSID, authToken, from, and to are all required")
	}
	if !strings.HasPrefix(to, "+") {
		return nil, fmt.Errorf("twilio: invalid destination number %q", to)
	}

	t := &Twilio{
		accountSID: accountSID,
		authToken:  authToken,
		from:       from,
		to:         to,
		baseURL:    defaultBaseURL,
		client:     &http.Client{Timeout: 10 * time.Second},
	}
	for _, opt := range opts {
		opt(t)
	}
	return t, nil
}

// Send posts the message body to the Messages endpoint. Any non-201 status
// is an error; the caller decides what to do with it (the pipeline logs and
// discards).
func (t *Twilio) Send(ctx context.Context, body string) error {
	endpoint := fmt.Sprintf("%s/2010-04-01/Accounts/%s/Messages.json", t.baseURL, t.accountSID)

	form := url.Values{}
	form.Set("To", t.to)
	form.Set("From", t.from)
	form.Set("Body", body)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return fmt.Errorf("build SMS request: %w", err)
	}
	req.SetBasicAuth(t.accountSID, t.authToken)
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := t.client.Do(req)
	if err != nil {
		return fmt.Errorf("send SMS: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated {
		return fmt.Errorf("twilio API returned status %d", resp.StatusCode)
	}
	return nil
}
