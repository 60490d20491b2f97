package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/coolcat-ia/barkeep/pkg/core/characters"
	"github.com/coolcat-ia/barkeep/pkg/core/chat"
	"github.com/coolcat-ia/barkeep/pkg/core/providers/gemini"
	"github.com/coolcat-ia/barkeep/pkg/core/voice/tts"
)

type stubResponder struct {
	reply   string
	err     error
	lastReq *chat.ReplyRequest
}

func (s *stubResponder) Reply(_ context.Context, req *chat.ReplyRequest) (string, error) {
	s.lastReq = req
	if s.err != nil {
		return "", s.err
	}
	return s.reply, nil
}

func (s *stubResponder) Model() string { return "gemini-2.5-flash" }

type stubSynthesizer struct {
	audio     []byte
	err       error
	calls     int
	lastVoice tts.VoiceParams
}

func (s *stubSynthesizer) Synthesize(_ context.Context, _ string, voice tts.VoiceParams) (io.ReadCloser, error) {
	s.calls++
	s.lastVoice = voice
	if s.err != nil {
		return nil, s.err
	}
	return io.NopCloser(bytes.NewReader(s.audio)), nil
}

func newChatHandler(responder *stubResponder, synth *stubSynthesizer) ChatHandler {
	return ChatHandler{
		Logger:      slog.New(slog.NewTextHandler(io.Discard, nil)),
		Characters:  characters.NewDirectory(),
		Responder:   responder,
		Synthesizer: synth,
	}
}

func postChat(t *testing.T, h ChatHandler, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/chat", strings.NewReader(body))
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	return rr
}

func TestChatHandler_ReplyJSON(t *testing.T) {
	responder := &stubResponder{reply: "¡Miau! Una Catira bien fría para ti."}
	h := newChatHandler(responder, &stubSynthesizer{})

	rr := postChat(t, h, `{"characterId":"gatoCool","message":"dame una cerveza","history":[{"role":"user","content":"hola"}]}`)
	if rr.Code != http.StatusOK {
		t.Fatalf("status=%d body=%s", rr.Code, rr.Body.String())
	}

	var body map[string]any
	if err := json.Unmarshal(rr.Body.Bytes(), &body); err != nil {
		t.Fatalf("unmarshal body: %v", err)
	}
	if body["characterId"] != "gatoCool" {
		t.Fatalf("characterId=%v", body["characterId"])
	}
	if body["reply"] != responder.reply {
		t.Fatalf("reply=%v", body["reply"])
	}
	if body["language"] != "es" {
		t.Fatalf("language=%v", body["language"])
	}
	if body["usedModel"] != "gemini-2.5-flash" {
		t.Fatalf("usedModel=%v", body["usedModel"])
	}
	if _, ok := body["audioError"]; ok {
		t.Fatalf("unexpected audioError: %v", body["audioError"])
	}

	if responder.lastReq == nil {
		t.Fatal("responder not called")
	}
	if responder.lastReq.Character.ID != "gatoCool" {
		t.Fatalf("character=%q", responder.lastReq.Character.ID)
	}
	if responder.lastReq.Language != "es" {
		t.Fatalf("language=%q", responder.lastReq.Language)
	}
	if len(responder.lastReq.History) != 1 || responder.lastReq.History[0].Content != "hola" {
		t.Fatalf("history=%#v", responder.lastReq.History)
	}
}

func TestChatHandler_MissingFields(t *testing.T) {
	h := newChatHandler(&stubResponder{}, &stubSynthesizer{})

	for _, body := range []string{`{}`, `{"characterId":"gatoCool"}`, `{"message":"hola"}`} {
		rr := postChat(t, h, body)
		if rr.Code != http.StatusBadRequest {
			t.Fatalf("body=%s status=%d", body, rr.Code)
		}
		if !strings.Contains(rr.Body.String(), "characterId y message") {
			t.Fatalf("body=%s error=%s", body, rr.Body.String())
		}
	}
}

func TestChatHandler_UnsupportedLanguage(t *testing.T) {
	h := newChatHandler(&stubResponder{}, &stubSynthesizer{})

	rr := postChat(t, h, `{"characterId":"gatoCool","message":"hola","language":"fr"}`)
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("status=%d body=%s", rr.Code, rr.Body.String())
	}
	if !strings.Contains(rr.Body.String(), "es") || !strings.Contains(rr.Body.String(), "en") {
		t.Fatalf("error should list supported languages: %s", rr.Body.String())
	}
}

func TestChatHandler_UnknownCharacter(t *testing.T) {
	h := newChatHandler(&stubResponder{}, &stubSynthesizer{})

	rr := postChat(t, h, `{"characterId":"perroGuau","message":"hola"}`)
	if rr.Code != http.StatusNotFound {
		t.Fatalf("status=%d body=%s", rr.Code, rr.Body.String())
	}
	if !strings.Contains(rr.Body.String(), "perroGuau") {
		t.Fatalf("error=%s", rr.Body.String())
	}
}

func TestChatHandler_ReturnAudio(t *testing.T) {
	responder := &stubResponder{reply: "¡Salud, mi pana!"}
	synth := &stubSynthesizer{audio: []byte("mp3-bytes")}
	h := newChatHandler(responder, synth)

	rr := postChat(t, h, `{"characterId":"gatoCool","message":"hola","returnAudio":true}`)
	if rr.Code != http.StatusOK {
		t.Fatalf("status=%d body=%s", rr.Code, rr.Body.String())
	}
	if got := rr.Header().Get("Content-Type"); got != "audio/mpeg" {
		t.Fatalf("Content-Type=%q", got)
	}
	decoded, err := url.QueryUnescape(rr.Header().Get("X-Reply-Text"))
	if err != nil {
		t.Fatalf("unescape X-Reply-Text: %v", err)
	}
	if decoded != responder.reply {
		t.Fatalf("X-Reply-Text=%q", decoded)
	}
	if got := rr.Header().Get("X-Language"); got != "es" {
		t.Fatalf("X-Language=%q", got)
	}
	if rr.Body.String() != "mp3-bytes" {
		t.Fatalf("body=%q", rr.Body.String())
	}
	if synth.lastVoice.VoiceID == "" {
		t.Fatal("voice id not passed to synthesizer")
	}
}

func TestChatHandler_AudioFailureKeepsText(t *testing.T) {
	responder := &stubResponder{reply: "¡Miau!"}
	synth := &stubSynthesizer{err: fmt.Errorf("elevenlabs down")}
	h := newChatHandler(responder, synth)

	rr := postChat(t, h, `{"characterId":"gatoCool","message":"hola","returnAudio":true}`)
	if rr.Code != http.StatusOK {
		t.Fatalf("status=%d body=%s", rr.Code, rr.Body.String())
	}

	var body map[string]any
	if err := json.Unmarshal(rr.Body.Bytes(), &body); err != nil {
		t.Fatalf("unmarshal body: %v", err)
	}
	if body["reply"] != "¡Miau!" {
		t.Fatalf("reply=%v", body["reply"])
	}
	if body["audioError"] == nil || body["audioError"] == "" {
		t.Fatalf("audioError missing: %v", body)
	}
}

func TestChatHandler_ReplyErrorStatus(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want int
	}{
		{"auth error is server misconfiguration", &gemini.Error{Type: gemini.ErrAuthentication, Message: "bad key"}, http.StatusInternalServerError},
		{"wrapped auth error", fmt.Errorf("generate: %w", &gemini.Error{Type: gemini.ErrAuthentication, Message: "bad key"}), http.StatusInternalServerError},
		{"upstream failure is bad gateway", fmt.Errorf("connection refused"), http.StatusBadGateway},
		{"rate limit is bad gateway", &gemini.Error{Type: gemini.ErrRateLimit, Message: "slow down"}, http.StatusBadGateway},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			h := newChatHandler(&stubResponder{err: tc.err}, &stubSynthesizer{})
			rr := postChat(t, h, `{"characterId":"gatoCool","message":"hola"}`)
			if rr.Code != tc.want {
				t.Fatalf("status=%d, want %d (body=%s)", rr.Code, tc.want, rr.Body.String())
			}
		})
	}
}

func TestChatHandler_MethodNotAllowed(t *testing.T) {
	h := newChatHandler(&stubResponder{}, &stubSynthesizer{})

	req := httptest.NewRequest(http.MethodGet, "/chat", nil)
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	if rr.Code != http.StatusMethodNotAllowed {
		t.Fatalf("status=%d", rr.Code)
	}
}

func TestChatHandler_InvalidJSON(t *testing.T) {
	h := newChatHandler(&stubResponder{}, &stubSynthesizer{})

	rr := postChat(t, h, `{"characterId":`)
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("status=%d body=%s", rr.Code, rr.Body.String())
	}
}
