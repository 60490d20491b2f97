// Command barkeep runs the Cool Cat conversational backend: the /chat
// endpoint, the /ws/voice live sessions, the achievement photo
// verification endpoints, and the registration email and push
// notification endpoints.
package main

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"google.golang.org/api/option"

	"github.com/coolcat-ia/barkeep/pkg/core/achievements"
	"github.com/coolcat-ia/barkeep/pkg/core/catalog"
	"github.com/coolcat-ia/barkeep/pkg/core/characters"
	"github.com/coolcat-ia/barkeep/pkg/core/chat"
	"github.com/coolcat-ia/barkeep/pkg/core/geo"
	"github.com/coolcat-ia/barkeep/pkg/core/providers/gemini"
	"github.com/coolcat-ia/barkeep/pkg/core/stores"
	"github.com/coolcat-ia/barkeep/pkg/core/voice/stt"
	"github.com/coolcat-ia/barkeep/pkg/core/voice/tts"
	"github.com/coolcat-ia/barkeep/pkg/gateway/config"
	"github.com/coolcat-ia/barkeep/pkg/gateway/server"
	"github.com/coolcat-ia/barkeep/pkg/notify"
)

func buildHTTPServer(cfg config.Config, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:              cfg.Addr,
		Handler:           handler,
		ReadHeaderTimeout: cfg.ReadHeaderTimeout,
	}
}

// googleCredentialOptions decodes the base64 service account JSON from
// the environment. An empty value falls back to application default
// credentials.
func googleCredentialOptions(encoded string) ([]option.ClientOption, error) {
	if encoded == "" {
		return nil, nil
	}
	raw, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return nil, fmt.Errorf("decode GOOGLE_CREDENTIALS_BASE64: %w", err)
	}
	return []option.ClientOption{option.WithCredentialsJSON(raw)}, nil
}

func run(ctx context.Context, logger *slog.Logger) error {
	cfg, err := config.LoadFromEnv()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	geminiClient, err := gemini.NewClient(cfg.GeminiAPIKey)
	if err != nil {
		return fmt.Errorf("gemini client: %w", err)
	}
	catalogClient, err := catalog.New(catalog.Config{URL: cfg.SupabaseURL, APIKey: cfg.SupabaseKey})
	if err != nil {
		return fmt.Errorf("catalog client: %w", err)
	}
	geocoder, err := geo.NewGeocoder(cfg.GeocoderUserAgent, geo.WithGeocodeBaseURL(cfg.GeocoderBaseURL))
	if err != nil {
		return fmt.Errorf("geocoder: %w", err)
	}
	locator, err := stores.NewLocator(catalogClient, geocoder, logger)
	if err != nil {
		return fmt.Errorf("store locator: %w", err)
	}
	directory := characters.NewDirectory()

	responder, err := chat.NewResponder(
		chat.Config{Model: cfg.ChatModel, RouterModel: cfg.RouterModel},
		chat.Dependencies{
			Generator:  geminiClient,
			Catalog:    catalogClient,
			Stores:     locator,
			Characters: directory,
			Logger:     logger,
		},
	)
	if err != nil {
		return fmt.Errorf("responder: %w", err)
	}

	verifier, err := achievements.NewVerifier(
		achievements.Config{Model: cfg.VisionModel},
		achievements.Dependencies{Generator: geminiClient, Logger: logger},
	)
	if err != nil {
		return fmt.Errorf("achievement verifier: %w", err)
	}

	synthesizer, err := tts.New(cfg.ElevenLabsAPIKey)
	if err != nil {
		return fmt.Errorf("synthesizer: %w", err)
	}

	credOpts, err := googleCredentialOptions(cfg.GoogleCredentialsBase64)
	if err != nil {
		return err
	}
	transcriber, err := stt.NewGoogleTranscriber(ctx, logger, credOpts...)
	if err != nil {
		return fmt.Errorf("transcriber: %w", err)
	}
	defer transcriber.Close()

	deps := server.Dependencies{
		Characters:  directory,
		Responder:   responder,
		Synthesizer: synthesizer,
		Transcriber: transcriber,
		Verifier:    verifier,
		Pusher:      notify.NewPusher(logger, notify.WithPushURL(cfg.ExpoPushURL)),
	}

	if cfg.EmailEnabled() {
		mailer, err := notify.NewMailer(notify.MailerConfig{
			Host:     cfg.EmailHost,
			Port:     cfg.EmailPort,
			Secure:   cfg.EmailSecure,
			Username: cfg.EmailUser,
			Password: cfg.EmailPass,
			From:     cfg.EmailFrom,
		}, logger)
		if err != nil {
			return fmt.Errorf("mailer: %w", err)
		}
		deps.Mailer = mailer
	} else {
		logger.Info("email not configured, registration endpoint disabled")
	}

	srv := server.New(cfg, logger, deps)
	httpSrv := buildHTTPServer(cfg, srv.Handler())

	logger.Info("starting barkeep", "addr", cfg.Addr, "chat_model", cfg.ChatModel)

	listenErrCh := make(chan error, 1)
	go func() {
		err := httpSrv.ListenAndServe()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			listenErrCh <- err
			return
		}
		listenErrCh <- nil
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigCh)

	select {
	case err := <-listenErrCh:
		if err != nil {
			return fmt.Errorf("serve: %w", err)
		}
		return nil
	case <-ctx.Done():
		return ctx.Err()
	case sig := <-sigCh:
		logger.Info("shutdown signal received", "signal", sig.String())
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.ShutdownGracePeriod)
	defer shutdownCancel()
	if err := httpSrv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown http server: %w", err)
	}

	waitCtx, waitCancel := context.WithTimeout(context.Background(), cfg.ShutdownGracePeriod)
	defer waitCancel()
	if !srv.WaitVoiceSessions(waitCtx) {
		logger.Warn("voice sessions still live after grace period, canceling", "count", srv.VoiceSessionCount())
		srv.CancelVoiceSessions()
	}

	if err := <-listenErrCh; err != nil {
		return fmt.Errorf("serve: %w", err)
	}

	logger.Info("barkeep stopped")
	return nil
}

func runMain(ctx context.Context, stderr io.Writer) int {
	if stderr == nil {
		stderr = os.Stderr
	}
	logger := slog.New(slog.NewTextHandler(stderr, nil))

	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		fmt.Fprintf(stderr, "barkeep: load .env: %v\n", err)
		return 1
	}

	if err := run(ctx, logger); err != nil {
		fmt.Fprintf(stderr, "barkeep: %v\n", err)
		return 1
	}
	return 0
}

func main() {
	os.Exit(runMain(context.Background(), os.Stderr))
}
