package mailer

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestClient_Send(t *testing.T) {
	var got Message
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/emails" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if auth := r.Header.Get("Authorization"); auth != "Bearer test-key" {
			t.Errorf("unexpected auth header %q", auth)
		}
		json.NewDecoder(r.Body).Decode(&got)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "test-key", "noreply@healthbridge.example")
	err := c.Send(context.Background(), "pat@example.com", "Appointment confirmed", "<p>hi</p>")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.To != "pat@example.com" || got.From != "noreply@healthbridge.example" {
		t.Errorf("unexpected message: %+v", got)
	}
}

func TestClient_SendAPIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "k", "noreply@healthbridge.example")
	if err := c.Send(context.Background(), "x@example.com", "s", "b"); err == nil {
		t.Error("expected error for API failure status")
	}
}

func TestClient_NotConfigured(t *testing.T) {
	c := NewClient("", "", "noreply@healthbridge.example")
	if err := c.Send(context.Background(), "x@example.com", "s", "b"); !errors.Is(err, ErrNotConfigured) {
		t.Errorf("expected ErrNotConfigured, got %v", err)
	}
}

func TestMemoryMailer(t *testing.T) {
	m := NewMemoryMailer()
	m.Send(context.Background(), "a@example.com", "s", "b")
	if len(m.Sent()) != 1 {
		t.Fatalf("expected 1 sent message, got %d", len(m.Sent()))
	}

	m.FailWith = errors.New("boom")
	if err := m.Send(context.Background(), "a@example.com", "s", "b"); err == nil {
		t.Error("expected configured failure")
	}
}
