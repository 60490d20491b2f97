package notify

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"
)

// DefaultExpoPushURL is the Expo push delivery endpoint.
const DefaultExpoPushURL = "https://exp.host/--/api/v2/push/send"

const maxPushResponseBytes = 1 << 20

// Pusher relays push payloads to the Expo service so mobile clients
// avoid CORS restrictions. The payload passes through untouched.
type Pusher struct {
	url        string
	httpClient *http.Client
	logger     *slog.Logger
}

type PusherOption func(*Pusher)

func WithPushURL(u string) PusherOption {
	return func(p *Pusher) { p.url = u }
}

func WithPushHTTPClient(c *http.Client) PusherOption {
	return func(p *Pusher) { p.httpClient = c }
}

func NewPusher(logger *slog.Logger, opts ...PusherOption) *Pusher {
	if logger == nil {
		logger = slog.Default()
	}
	p := &Pusher{
		url:        DefaultExpoPushURL,
		httpClient: &http.Client{Timeout: 30 * time.Second},
		logger:     logger,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Forward posts the raw payload upstream and returns the upstream
// status code and body for transparent relaying.
func (p *Pusher) Forward(ctx context.Context, payload []byte) (int, []byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.url, bytes.NewReader(payload))
	if err != nil {
		return 0, nil, fmt.Errorf("notify: build push request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Content-Type", "application/json")

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return 0, nil, fmt.Errorf("notify: send push notification: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxPushResponseBytes))
	if err != nil {
		return 0, nil, fmt.Errorf("notify: read push response: %w", err)
	}

	p.logger.Info("push notification relayed", "status", resp.StatusCode)
	return resp.StatusCode, body, nil
}
