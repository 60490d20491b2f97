package gemini

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestGenerateContentText(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasSuffix(r.URL.Path, "/models/gemini-2.5-flash:generateContent") {
			t.Errorf("path = %q", r.URL.Path)
		}
		if r.Header.Get("x-goog-api-key") != "test-key" {
			t.Errorf("missing api key header")
		}
		var body map[string]any
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		if _, ok := body["systemInstruction"]; !ok {
			t.Error("request missing systemInstruction")
		}
		w.Write([]byte(`{"candidates":[{"content":{"role":"model","parts":[{"text":"¡Salud!"}]},"finishReason":"STOP"}]}`))
	}))
	defer srv.Close()

	c, err := NewClient("test-key", WithBaseURL(srv.URL))
	if err != nil {
		t.Fatalf("NewClient() error = %v", err)
	}
	resp, err := c.GenerateContent(context.Background(), &Request{
		Model:             "gemini-2.5-flash",
		SystemInstruction: "Eres El Gato Cool.",
		Contents:          []Content{TextContent("user", "hola")},
	})
	if err != nil {
		t.Fatalf("GenerateContent() error = %v", err)
	}
	if resp.Text != "¡Salud!" {
		t.Fatalf("Text = %q", resp.Text)
	}
	if resp.HasFunctionCalls() {
		t.Fatal("HasFunctionCalls() = true, want false")
	}
}

func TestGenerateContentFunctionCall(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// STOP finish reason with a pending call, as current models do.
		w.Write([]byte(`{"candidates":[{"content":{"role":"model","parts":[{"functionCall":{"name":"searchStores","args":{"location":"San Blas"}}}]},"finishReason":"STOP"}]}`))
	}))
	defer srv.Close()

	c, _ := NewClient("k", WithBaseURL(srv.URL))
	resp, err := c.GenerateContent(context.Background(), &Request{
		Model:    "gemini-2.5-flash",
		Contents: []Content{TextContent("user", "bares por san blas")},
	})
	if err != nil {
		t.Fatalf("GenerateContent() error = %v", err)
	}
	if !resp.HasFunctionCalls() {
		t.Fatal("HasFunctionCalls() = false, want true")
	}
	if resp.FunctionCalls[0].Name != "searchStores" {
		t.Fatalf("FunctionCalls[0].Name = %q", resp.FunctionCalls[0].Name)
	}
	var args map[string]string
	if err := json.Unmarshal(resp.FunctionCalls[0].Args, &args); err != nil {
		t.Fatalf("unmarshal args: %v", err)
	}
	if args["location"] != "San Blas" {
		t.Fatalf("args = %v", args)
	}
}

func TestGenerateContentAPIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		w.Write([]byte(`{"error":{"code":429,"message":"quota exceeded","status":"RESOURCE_EXHAUSTED"}}`))
	}))
	defer srv.Close()

	c, _ := NewClient("k", WithBaseURL(srv.URL))
	_, err := c.GenerateContent(context.Background(), &Request{
		Model:    "gemini-2.5-flash",
		Contents: []Content{TextContent("user", "hola")},
	})
	var apiErr *Error
	if !errors.As(err, &apiErr) {
		t.Fatalf("error = %v, want *Error", err)
	}
	if apiErr.Type != ErrRateLimit {
		t.Fatalf("Type = %q, want rate limit", apiErr.Type)
	}
	if !apiErr.IsRetryable() {
		t.Fatal("IsRetryable() = false, want true")
	}
}

func TestGenerateContentNoCandidates(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"candidates":[]}`))
	}))
	defer srv.Close()

	c, _ := NewClient("k", WithBaseURL(srv.URL))
	_, err := c.GenerateContent(context.Background(), &Request{
		Model:    "gemini-2.5-flash",
		Contents: []Content{TextContent("user", "hola")},
	})
	if err == nil {
		t.Fatal("error = nil, want no-candidates error")
	}
}

func TestNewClientRequiresKey(t *testing.T) {
	if _, err := NewClient(""); err == nil {
		t.Fatal("NewClient(\"\") error = nil, want error")
	}
}

func TestRequestWireShape(t *testing.T) {
	temp := 0.7
	req := &Request{
		Model:             "m",
		SystemInstruction: "sys",
		Contents:          []Content{TextContent("user", "hi")},
		Tools:             []Tool{{GoogleSearch: &GoogleSearch{}}},
		Temperature:       &temp,
	}
	raw, err := json.Marshal(req.wire())
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	s := string(raw)
	for _, want := range []string{`"systemInstruction"`, `"googleSearch"`, `"temperature":0.7`} {
		if !strings.Contains(s, want) {
			t.Errorf("wire json missing %s: %s", want, s)
		}
	}
}

func TestRequestWireInlineData(t *testing.T) {
	req := &Request{
		Model: "m",
		Contents: []Content{{
			Role: "user",
			Parts: []Part{
				{InlineData: &Blob{MIMEType: "image/png", Data: "cG5n"}},
				{Text: "describe la imagen"},
			},
		}},
	}
	raw, err := json.Marshal(req.wire())
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	s := string(raw)
	for _, want := range []string{`"inlineData"`, `"mimeType":"image/png"`, `"data":"cG5n"`} {
		if !strings.Contains(s, want) {
			t.Errorf("wire json missing %s: %s", want, s)
		}
	}
	// A text-only part must not carry an inlineData key.
	if strings.Count(s, `"inlineData"`) != 1 {
		t.Errorf("inlineData keys = %d: %s", strings.Count(s, `"inlineData"`), s)
	}
}
