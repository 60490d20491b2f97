package notify

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestPusherForwardsPayloadAndRelaysResponse(t *testing.T) {
	var gotBody []byte
	var gotContentType string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotContentType = r.Header.Get("Content-Type")
		gotBody, _ = io.ReadAll(r.Body)
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"data":[{"status":"ok"}]}`))
	}))
	defer srv.Close()

	p := NewPusher(slog.Default(), WithPushURL(srv.URL))
	status, body, err := p.Forward(context.Background(), []byte(`{"to":"ExponentPushToken[abc]","title":"hola"}`))
	if err != nil {
		t.Fatalf("Forward() error = %v", err)
	}
	if status != http.StatusOK {
		t.Fatalf("status = %d", status)
	}
	if string(body) != `{"data":[{"status":"ok"}]}` {
		t.Fatalf("body = %s", body)
	}
	if gotContentType != "application/json" {
		t.Fatalf("content-type = %q", gotContentType)
	}
	if string(gotBody) != `{"to":"ExponentPushToken[abc]","title":"hola"}` {
		t.Fatalf("upstream body = %s", gotBody)
	}
}

func TestPusherRelaysUpstreamErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"errors":[{"code":"VALIDATION_ERROR"}]}`))
	}))
	defer srv.Close()

	p := NewPusher(nil, WithPushURL(srv.URL))
	status, body, err := p.Forward(context.Background(), []byte(`{}`))
	if err != nil {
		t.Fatalf("Forward() error = %v", err)
	}
	if status != http.StatusBadRequest {
		t.Fatalf("status = %d", status)
	}
	if len(body) == 0 {
		t.Fatalf("expected upstream body to be relayed")
	}
}

func TestPusherTransportError(t *testing.T) {
	p := NewPusher(nil, WithPushURL("http://127.0.0.1:0"))
	if _, _, err := p.Forward(context.Background(), []byte(`{}`)); err == nil {
		t.Fatalf("expected transport error")
	}
}

func TestMailerValidatesConfig(t *testing.T) {
	if _, err := NewMailer(MailerConfig{}, nil); err == nil {
		t.Fatalf("expected error for missing host")
	}
	if _, err := NewMailer(MailerConfig{Host: "smtp.example.com"}, nil); err == nil {
		t.Fatalf("expected error for missing credentials")
	}
	m, err := NewMailer(MailerConfig{Host: "smtp.example.com", Username: "bot", Password: "pw"}, nil)
	if err != nil {
		t.Fatalf("NewMailer() error = %v", err)
	}
	if m.cfg.Port != 587 {
		t.Fatalf("default port = %d", m.cfg.Port)
	}
	if m.cfg.From != "bot" {
		t.Fatalf("from fallback = %q", m.cfg.From)
	}
}

func TestMailerRejectsIncompleteRegistration(t *testing.T) {
	m, err := NewMailer(MailerConfig{Host: "smtp.example.com", Username: "bot", Password: "pw"}, nil)
	if err != nil {
		t.Fatalf("NewMailer() error = %v", err)
	}
	if _, err := m.SendRegistration(context.Background(), Registration{FirstName: "Ana"}); err == nil {
		t.Fatalf("expected validation error")
	}
}
