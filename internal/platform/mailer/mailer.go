// Package mailer provides outbound email delivery. The production client
// posts to a Resend-compatible HTTP API; MemoryMailer is the test double.
// Callers decide whether a send failure is fatal: invitation-style mail is
// logged and swallowed, delivery-critical mail propagates the error.
package mailer

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/go-resty/resty/v2"
)

var ErrNotConfigured = errors.New("mail API is not configured")

// Mailer sends a single HTML email.
type Mailer interface {
	Send(ctx context.Context, to, subject, html string) error
}

// Message captures one outbound email.
type Message struct {
	From    string `json:"from"`
	To      string `json:"to"`
	Subject string `json:"subject"`
	HTML    string `json:"html"`
}

// Client is a Mailer backed by a Resend-style HTTP API.
type Client struct {
	http *resty.Client
	from string
}

// NewClient builds a Client for the given API base URL and key. The returned
// client reports ErrNotConfigured from Send when apiURL is empty, so a
// deployment without mail credentials degrades instead of crashing.
func NewClient(apiURL, apiKey, from string) *Client {
	c := resty.New()
	if apiURL != "" {
		c.SetBaseURL(apiURL)
		c.SetAuthToken(apiKey)
	}
	return &Client{http: c, from: from}
}

func (c *Client) Send(ctx context.Context, to, subject, html string) error {
	if c.http.BaseURL == "" {
		return ErrNotConfigured
	}

	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(Message{From: c.from, To: to, Subject: subject, HTML: html}).
		Post("/emails")
	if err != nil {
		return fmt.Errorf("send email to %s: %w", to, err)
	}
	if resp.IsError() {
		return fmt.Errorf("send email to %s: mail API returned %d", to, resp.StatusCode())
	}
	return nil
}

// MemoryMailer records sent messages for inspection in tests.
type MemoryMailer struct {
	mu   sync.Mutex
	sent []Message

	// FailWith, when set, is returned from every Send.
	FailWith error
}

func NewMemoryMailer() *MemoryMailer {
	return &MemoryMailer{}
}

func (m *MemoryMailer) Send(_ context.Context, to, subject, html string) error {
	if m.FailWith != nil {
		return m.FailWith
	}
	m.mu.Lock()
	m.sent = append(m.sent, Message{To: to, Subject: subject, HTML: html})
	m.mu.Unlock()
	return nil
}

// Sent returns a copy of the recorded messages.
func (m *MemoryMailer) Sent() []Message {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]Message, len(m.sent))
	copy(out, m.sent)
	return out
}
