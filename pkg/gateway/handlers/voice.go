package handlers

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/gorilla/websocket"

	"github.com/coolcat-ia/barkeep/pkg/core/voice/stt"
	"github.com/coolcat-ia/barkeep/pkg/core/voice/tts"
	"github.com/coolcat-ia/barkeep/pkg/gateway/config"
	"github.com/coolcat-ia/barkeep/pkg/gateway/live/protocol"
	"github.com/coolcat-ia/barkeep/pkg/gateway/live/session"
	"github.com/coolcat-ia/barkeep/pkg/gateway/live/sessions"
	"github.com/coolcat-ia/barkeep/pkg/gateway/mw"
)

// VoiceHandler upgrades GET /ws/voice to a live voice session.
type VoiceHandler struct {
	Config      config.Config
	Logger      *slog.Logger
	Characters  session.CharacterSource
	Transcriber stt.Transcriber
	Synthesizer tts.Synthesizer
	Responder   session.Responder
	Sessions    *sessions.Tracker
}

func (h VoiceHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	if !h.originAllowed(r) {
		writeError(w, http.StatusForbidden, "origin is not allowed")
		return
	}

	reqID, _ := mw.RequestIDFrom(r.Context())
	logger := h.Logger
	if logger == nil {
		logger = slog.Default()
	}

	upgrader := websocket.Upgrader{
		CheckOrigin: func(*http.Request) bool { return true },
	}
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade already wrote the HTTP error response.
		logger.Warn("websocket upgrade failed", "request_id", reqID, "error", err)
		return
	}
	defer conn.Close()

	if err := conn.WriteJSON(protocol.ServerHello{
		Type:    "hello",
		Message: "Conexión de voz establecida. Envía un mensaje start para comenzar.",
	}); err != nil {
		return
	}

	sessionID := "s_" + randHex(8)
	s, err := session.New(session.Dependencies{
		Conn:        conn,
		Logger:      logger,
		Characters:  h.Characters,
		Transcriber: h.Transcriber,
		Synthesizer: h.Synthesizer,
		Responder:   h.Responder,
		SessionID:   sessionID,
		Config: session.Config{
			MaxMessageBytes:   h.Config.WSMaxMessageBytes,
			ReadTimeout:       h.Config.WSReadTimeout,
			WriteTimeout:      h.Config.WSWriteTimeout,
			PingInterval:      h.Config.WSPingInterval,
			OutboundQueueSize: h.Config.WSOutboundQueueSize,
		},
	})
	if err != nil {
		logger.Error("voice session init failed", "request_id", reqID, "error", err)
		return
	}

	unregister := func() {}
	if h.Sessions != nil {
		unregister = h.Sessions.Register(sessionID, sessions.Handle{Cancel: s.Cancel})
	}
	defer unregister()

	if err := s.Run(); err != nil {
		logger.Warn("voice session ended with error", "session_id", sessionID, "request_id", reqID, "error", err)
	}
}

func (h VoiceHandler) originAllowed(r *http.Request) bool {
	origin := strings.TrimSpace(r.Header.Get("Origin"))
	if origin == "" {
		return true
	}
	if len(h.Config.CORSAllowedOrigins) == 0 {
		return true
	}
	_, ok := h.Config.CORSAllowedOrigins[origin]
	return ok
}
