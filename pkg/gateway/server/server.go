// Package server assembles the HTTP surface: routes, middleware, and
// the live voice session registry.
package server

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/coolcat-ia/barkeep/pkg/core/characters"
	"github.com/coolcat-ia/barkeep/pkg/core/voice/stt"
	"github.com/coolcat-ia/barkeep/pkg/core/voice/tts"
	"github.com/coolcat-ia/barkeep/pkg/gateway/config"
	"github.com/coolcat-ia/barkeep/pkg/gateway/handlers"
	"github.com/coolcat-ia/barkeep/pkg/gateway/live/sessions"
	"github.com/coolcat-ia/barkeep/pkg/gateway/mw"
)

// Dependencies are the domain services the routes dispatch to. Mailer
// may be nil when email is not configured.
type Dependencies struct {
	Characters  *characters.Directory
	Responder   handlers.ChatResponder
	Synthesizer tts.Synthesizer
	Transcriber stt.Transcriber
	Verifier    handlers.AchievementVerifier
	Mailer      handlers.RegistrationMailer
	Pusher      handlers.PushForwarder
}

type Server struct {
	cfg    config.Config
	logger *slog.Logger
	mux    *http.ServeMux
	deps   Dependencies

	voiceSessions *sessions.Tracker
}

func New(cfg config.Config, logger *slog.Logger, deps Dependencies) *Server {
	if logger == nil {
		logger = slog.Default()
	}

	s := &Server{
		cfg:           cfg,
		logger:        logger,
		mux:           http.NewServeMux(),
		deps:          deps,
		voiceSessions: sessions.NewTracker(),
	}

	s.routes()
	return s
}

func (s *Server) routes() {
	s.mux.Handle("/healthz", handlers.HealthHandler{})

	s.mux.Handle("/chat", handlers.ChatHandler{
		Logger:      s.logger,
		Characters:  s.deps.Characters,
		Responder:   s.deps.Responder,
		Synthesizer: s.deps.Synthesizer,
	})

	s.mux.Handle("/ws/voice", handlers.VoiceHandler{
		Config:      s.cfg,
		Logger:      s.logger,
		Characters:  s.deps.Characters,
		Transcriber: s.deps.Transcriber,
		Synthesizer: s.deps.Synthesizer,
		Responder:   s.deps.Responder,
		Sessions:    s.voiceSessions,
	})

	s.mux.Handle("/verify-achievement", handlers.VerifyAchievementHandler{
		Logger:   s.logger,
		Verifier: s.deps.Verifier,
	})
	s.mux.Handle("/achievement-criteria/", handlers.AchievementCriteriaHandler{})
	s.mux.Handle("/achievements-criteria", handlers.AchievementsCriteriaHandler{})

	s.mux.Handle("/api/send-registration-email", handlers.EmailHandler{
		Logger: s.logger,
		Mailer: s.deps.Mailer,
	})
	s.mux.Handle("/api/send-push-notification", handlers.PushHandler{
		Logger: s.logger,
		Pusher: s.deps.Pusher,
	})

	// "/" also serves as the JSON 404 for unknown routes.
	s.mux.Handle("/", handlers.IndexHandler{Characters: s.deps.Characters})
}

func (s *Server) Handler() http.Handler {
	var h http.Handler = s.mux
	h = mw.CORS(s.cfg, h)
	h = mw.Recover(s.logger, h)
	h = mw.AccessLog(s.logger, h)
	h = mw.RequestID(h)
	return h
}

// VoiceSessionCount reports the number of live voice sessions.
func (s *Server) VoiceSessionCount() int {
	return s.voiceSessions.Count()
}

// WaitVoiceSessions blocks until every live voice session has finished
// or ctx expires. It reports whether the registry drained in time.
func (s *Server) WaitVoiceSessions(ctx context.Context) bool {
	return s.voiceSessions.Wait(ctx)
}

// CancelVoiceSessions force-cancels every live voice session.
func (s *Server) CancelVoiceSessions() {
	s.voiceSessions.CancelAll()
}
